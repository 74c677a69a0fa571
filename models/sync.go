// SPDX-License-Identifier: Apache-2.0
// Copyright 2025 The SelfOS Authors

package models

// OperationType identifies the kind of mutation a client asks the server
// to apply to a single syncable object.
type OperationType string

const (
	// OperationCreate inserts a new object. The server initializes the
	// object's version to 1 and stamps created_at/updated_at.
	OperationCreate OperationType = "create"

	// OperationUpdate applies a partial field set to an existing object,
	// incrementing its version by exactly one.
	OperationUpdate OperationType = "update"

	// OperationDelete removes an object. Types with soft-delete support
	// keep the row and set deleted_at; other types drop the row.
	OperationDelete OperationType = "delete"
)

// SyncStatus classifies the outcome of a single sync operation.
type SyncStatus string

const (
	// StatusSuccess means the operation was applied and committed as part
	// of its type group.
	StatusSuccess SyncStatus = "success"

	// StatusConflict means an optimistic-concurrency check failed; the
	// result carries the authoritative server state so the client can merge.
	StatusConflict SyncStatus = "conflict"

	// StatusError means the operation failed for a reason other than a
	// version conflict (unknown type, malformed id, constraint violation).
	StatusError SyncStatus = "error"
)

// Fields is a partial or full attribute set of a syncable object as
// submitted by a client or returned by the server. Keys are column names of
// the object's table; identity and ownership fields (id, user_id,
// created_at) are never applied from a client-supplied Fields value.
type Fields map[string]any

// SyncOperation is a single client-submitted mutation inside a batch
// sync request.
type SyncOperation struct {
	// ObjectID identifies the target object. For types with
	// server-generated identifiers this is the decimal form of the row id;
	// for client-provided types it is the client-chosen UUID.
	ObjectID string `json:"object_id"`

	// ObjectType is the logical type name; it must resolve in the
	// model registry.
	ObjectType string `json:"object_type"`

	// Operation is the mutation kind: create, update, or delete.
	Operation OperationType `json:"operation"`

	// Data is the field set to apply. Partial sets are allowed for update.
	Data Fields `json:"data"`

	// Version is the client's belief of the object's current version.
	Version int64 `json:"version"`

	// IfMatchVersion, when set, makes the operation conditional: the server
	// applies it only if the stored version equals this value, otherwise
	// the operation resolves to a conflict result.
	IfMatchVersion *int64 `json:"if_match_version,omitempty"`
}

// SyncResult is the server-produced outcome for one submitted operation.
// Clients correlate results to operations by ObjectID.
type SyncResult struct {
	// ObjectID echoes the identifier the client submitted.
	ObjectID string `json:"object_id"`

	// Status is success, conflict, or error.
	Status SyncStatus `json:"status"`

	// NewVersion is the object's version after a successful operation.
	NewVersion int64 `json:"new_version,omitempty"`

	// ServerData carries the authoritative current record. It is set on
	// conflict results (so the client can merge) and on successful creates
	// of server-identified types (so the client learns the assigned id).
	ServerData Fields `json:"server_data,omitempty"`

	// ErrorMessage describes the failure for error results.
	ErrorMessage string `json:"error_message,omitempty"`
}

// BatchSyncRequest is the body of POST /api/sync/batch: an ordered list of
// operations accumulated by an offline client.
type BatchSyncRequest struct {
	// Operations is the ordered mutation list. Operations of the same
	// object type are applied in submission order; ordering across types
	// is not guaranteed.
	Operations []SyncOperation `json:"operations"`

	// ClientID identifies the submitting device. It is recorded in logs
	// only; the server keeps no per-client cursor state.
	ClientID string `json:"client_id"`
}

// BatchSyncResponse carries one result per submitted operation.
type BatchSyncResponse struct {
	Results []SyncResult `json:"results"`
}

// DeltaChange is one entry of the incremental pull-sync feed: a synthetic
// operation describing a record changed since the client's checkpoint.
type DeltaChange struct {
	ObjectID   string        `json:"object_id"`
	ObjectType string        `json:"object_type"`
	Operation  OperationType `json:"operation"`
	Data       Fields        `json:"data"`
	Version    int64         `json:"version"`

	// Timestamp is the change time (updated_at) in milliseconds since epoch.
	Timestamp int64 `json:"timestamp"`
}

// DeltaResponse is the body returned by GET /api/sync/delta/{since}.
type DeltaResponse struct {
	// Changes is sorted by Timestamp ascending so a client applying them
	// in order observes a consistent causal ordering within the batch.
	Changes []DeltaChange `json:"changes"`

	// CurrentTimestamp is the server clock at response time, in
	// milliseconds since epoch. Clients use it as the next checkpoint.
	CurrentTimestamp int64 `json:"current_timestamp"`

	// HasMore reports that the global limit was reached before all types
	// were scanned; the client should request another delta page.
	HasMore bool `json:"has_more"`
}

// TypeSyncStatus summarizes one registered type for GET /api/sync/status.
type TypeSyncStatus struct {
	// TotalObjects counts the caller's live (not soft-deleted) records.
	TotalObjects int64 `json:"total_objects"`

	// RecentChanges counts records changed within the last 24 hours.
	RecentChanges int64 `json:"recent_changes"`
}

// SyncStatusResponse is the body returned by GET /api/sync/status.
type SyncStatusResponse struct {
	ObjectTypes map[string]TypeSyncStatus `json:"object_types"`

	// SyncTimestamp is the server clock at response time, in milliseconds
	// since epoch.
	SyncTimestamp int64 `json:"sync_timestamp"`
}

// ResolveConflictRequest is the body of POST /api/sync/resolve-conflict/{id}:
// a manually merged resolution for an object previously reported as
// conflicted.
type ResolveConflictRequest struct {
	ObjectType string `json:"object_type"`

	// Data is the resolved field set. It is applied unconditionally; no
	// if-match check is performed because resolution is defined to win.
	Data Fields `json:"data"`
}

// StatusResolved is the status reported by a successful conflict resolution.
const StatusResolved = "resolved"

// ResolveConflictResponse confirms an applied resolution.
type ResolveConflictResponse struct {
	ObjectID   string `json:"object_id"`
	Status     string `json:"status"`
	NewVersion int64  `json:"new_version"`
}
