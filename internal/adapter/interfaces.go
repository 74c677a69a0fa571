// SPDX-License-Identifier: Apache-2.0
// Copyright 2025 The SelfOS Authors

// Package adapter provides a transport-layer client for the sync server.
//
// The primary abstraction is [ServerAdapter], which decouples callers (CLI
// tooling, integration tests, companion apps) from the underlying protocol.
// The package ships an HTTP/REST implementation ([NewHTTPServerAdapter]).
//
// Error values defined in errors.go are mapped from HTTP status codes by
// mapHTTPError so that callers can use [errors.Is] for transport-agnostic
// error handling (e.g. [ErrConflict] for 409, [ErrUnauthorized] for 401).
package adapter

import (
	"context"
	"time"

	"github.com/selfos/sync-server/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/server_adapter_mock.go -package=mock

// ServerAdapter defines transport-agnostic communication with the sync
// server. Implementations are responsible for serialisation, authentication
// header management, and mapping transport-level errors to the sentinel
// values defined in this package.
type ServerAdapter interface {
	// SetToken stores the bearer token that will be attached to all
	// subsequent authenticated requests.
	SetToken(token string)

	// Token returns the bearer token currently held by the adapter, or an
	// empty string if none has been set.
	Token() string

	// Register creates a new account. On success the adapter captures the
	// issued bearer token for subsequent requests.
	Register(ctx context.Context, user models.User) error

	// Login authenticates an existing account. On success the adapter
	// captures the issued bearer token for subsequent requests.
	Login(ctx context.Context, user models.User) error

	// SyncBatch submits a batch of accumulated offline operations and
	// returns one result per operation.
	SyncBatch(ctx context.Context, request models.BatchSyncRequest) (models.BatchSyncResponse, error)

	// GetDelta pulls changes made since the given checkpoint. objectTypes
	// and limit are optional; zero values request server defaults.
	GetDelta(ctx context.Context, since time.Time, objectTypes []string, limit int) (models.DeltaResponse, error)

	// GetStatus reports per-type object counts for the authenticated user.
	GetStatus(ctx context.Context) (models.SyncStatusResponse, error)

	// ResolveConflict submits manually merged data for a conflicted object.
	ResolveConflict(ctx context.Context, objectID string, request models.ResolveConflictRequest) (models.ResolveConflictResponse, error)

	// ServerVersion returns the server build version string.
	ServerVersion(ctx context.Context) (string, error)
}
