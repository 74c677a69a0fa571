// SPDX-License-Identifier: Apache-2.0
// Copyright 2025 The SelfOS Authors

package adapter

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/selfos/sync-server/internal/logger"
	"github.com/selfos/sync-server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAdapter(t *testing.T, serverURL string) *httpServerAdapter {
	t.Helper()

	a, err := NewHTTPServerAdapter(Config{HTTPAddress: serverURL}, logger.Nop())
	require.NoError(t, err)
	return a.(*httpServerAdapter)
}

func TestNewHTTPServerAdapter_InvalidAddress(t *testing.T) {
	_, err := NewHTTPServerAdapter(Config{HTTPAddress: ""}, logger.Nop())

	require.Error(t, err)
}

func TestNormalizeBaseURL_AddsScheme(t *testing.T) {
	got, err := normalizeBaseURL("localhost:8080")

	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080", got)
}

func TestRegister_CapturesToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/user/register", r.URL.Path)

		w.Header().Set("Authorization", "Bearer signed.jwt.token")
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	a := newTestAdapter(t, srv.URL)
	err := a.Register(context.Background(), models.User{Email: "alice@example.com", Password: "secret"})

	require.NoError(t, err)
	assert.Equal(t, "signed.jwt.token", a.Token())
}

func TestRegister_Conflict(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte("email already exists"))
	}))
	defer srv.Close()

	a := newTestAdapter(t, srv.URL)
	err := a.Register(context.Background(), models.User{Email: "alice@example.com"})

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrConflict)
}

func TestLogin_Unauthorized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte("invalid email/password"))
	}))
	defer srv.Close()

	a := newTestAdapter(t, srv.URL)
	err := a.Login(context.Background(), models.User{Email: "alice@example.com", Password: "bad"})

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestSyncBatch_SendsTokenAndDecodesResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/sync/batch", r.URL.Path)
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))

		var req models.BatchSyncRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Len(t, req.Operations, 1)

		_ = json.NewEncoder(w).Encode(models.BatchSyncResponse{
			Results: []models.SyncResult{{ObjectID: "42", Status: models.StatusSuccess, NewVersion: 1}},
		})
	}))
	defer srv.Close()

	a := newTestAdapter(t, srv.URL)
	a.SetToken("test-token")

	resp, err := a.SyncBatch(context.Background(), models.BatchSyncRequest{
		ClientID: "device-1",
		Operations: []models.SyncOperation{
			{ObjectType: "goal", Operation: models.OperationCreate, Data: models.Fields{"title": "run"}},
		},
	})

	require.NoError(t, err)
	require.Len(t, resp.Results, 1)
	assert.Equal(t, "42", resp.Results[0].ObjectID)
	assert.Equal(t, models.StatusSuccess, resp.Results[0].Status)
}

func TestGetDelta_BuildsCheckpointURL(t *testing.T) {
	since := time.UnixMilli(1700000000000)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/sync/delta/1700000000000", r.URL.Path)
		assert.Equal(t, "goal,task", r.URL.Query().Get("object_types"))
		assert.Equal(t, "50", r.URL.Query().Get("limit"))

		_ = json.NewEncoder(w).Encode(models.DeltaResponse{
			Changes: []models.DeltaChange{
				{ObjectID: "7", ObjectType: "goal", Operation: models.OperationUpdate, Version: 3},
			},
			CurrentTimestamp: 1700000005000,
		})
	}))
	defer srv.Close()

	a := newTestAdapter(t, srv.URL)
	a.SetToken("test-token")

	resp, err := a.GetDelta(context.Background(), since, []string{"goal", "task"}, 50)

	require.NoError(t, err)
	require.Len(t, resp.Changes, 1)
	assert.Equal(t, int64(1700000005000), resp.CurrentTimestamp)
}

func TestGetStatus_DecodesCounters(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/sync/status", r.URL.Path)

		_ = json.NewEncoder(w).Encode(models.SyncStatusResponse{
			ObjectTypes: map[string]models.TypeSyncStatus{
				"goal": {TotalObjects: 12, RecentChanges: 3},
			},
			SyncTimestamp: 1700000005000,
		})
	}))
	defer srv.Close()

	a := newTestAdapter(t, srv.URL)
	a.SetToken("test-token")

	resp, err := a.GetStatus(context.Background())

	require.NoError(t, err)
	assert.Equal(t, int64(12), resp.ObjectTypes["goal"].TotalObjects)
}

func TestResolveConflict_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/sync/resolve-conflict/15", r.URL.Path)

		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte("object is not found"))
	}))
	defer srv.Close()

	a := newTestAdapter(t, srv.URL)
	a.SetToken("test-token")

	_, err := a.ResolveConflict(context.Background(), "15", models.ResolveConflictRequest{
		ObjectType: "goal",
		Data:       models.Fields{"title": "merged"},
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestServerVersion(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/version", r.URL.Path)
		_, _ = w.Write([]byte("v1.2.3\n"))
	}))
	defer srv.Close()

	a := newTestAdapter(t, srv.URL)
	a.SetToken("test-token")

	version, err := a.ServerVersion(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "v1.2.3", version)
}
