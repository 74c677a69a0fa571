package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/selfos/sync-server/internal/logger"
	"github.com/selfos/sync-server/internal/utils"
	"github.com/selfos/sync-server/models"
)

// Config holds the network settings of the HTTP adapter.
type Config struct {
	// HTTPAddress is the server base address, with or without a scheme
	// (e.g. "localhost:8080" or "https://sync.selfos.app").
	HTTPAddress string

	// RequestTimeout is the default timeout for outbound requests.
	RequestTimeout time.Duration
}

type httpServerAdapter struct {
	client *utils.HTTPClient

	token string

	logger *logger.Logger
}

// NewHTTPServerAdapter constructs an HTTP/REST implementation of
// [ServerAdapter]. It normalises and validates the base URL from
// cfg.HTTPAddress and configures the underlying HTTP client with the
// resolved base URL and request timeout.
//
// Returns an error if cfg.HTTPAddress is empty or cannot be parsed as a
// valid URL.
func NewHTTPServerAdapter(cfg Config, logger *logger.Logger) (ServerAdapter, error) {
	client := utils.NewHTTPClient()
	baseURL, err := normalizeBaseURL(cfg.HTTPAddress)
	if err != nil {
		return nil, fmt.Errorf("invalid adapter http address: %w", err)
	}

	client.
		SetBaseURL(baseURL).
		SetTimeout(cfg.RequestTimeout)

	return &httpServerAdapter{client: client, logger: logger}, nil
}

func normalizeBaseURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("empty address")
	}

	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("address must include host and scheme")
	}

	return strings.TrimRight(u.String(), "/"), nil
}

// SetToken implements [ServerAdapter]. It stores token (whitespace-trimmed)
// for use in the Authorization header of all subsequent authenticated
// requests.
func (h *httpServerAdapter) SetToken(token string) {
	h.token = strings.TrimSpace(token)
}

// Token implements [ServerAdapter].
func (h *httpServerAdapter) Token() string {
	return h.token
}

// Register implements [ServerAdapter]. It POSTs the user credentials to
// POST /api/user/register. On success the bearer token is extracted from the
// Authorization response header and stored via SetToken.
func (h *httpServerAdapter) Register(ctx context.Context, user models.User) error {
	resp, err := h.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(user).
		Post("/api/user/register")
	if err != nil {
		return fmt.Errorf("register request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return err
	}

	token, err := utils.ParseBearerToken(resp.Header().Get("Authorization"))
	if err != nil {
		return fmt.Errorf("register parse bearer token: %w", err)
	}

	h.SetToken(token)
	return nil
}

// Login implements [ServerAdapter]. It POSTs the user credentials to
// POST /api/user/login. On success the bearer token is extracted from the
// Authorization response header and stored via SetToken.
func (h *httpServerAdapter) Login(ctx context.Context, user models.User) error {
	resp, err := h.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(user).
		Post("/api/user/login")
	if err != nil {
		return fmt.Errorf("login request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return err
	}

	token, err := utils.ParseBearerToken(resp.Header().Get("Authorization"))
	if err != nil {
		return fmt.Errorf("login parse bearer token: %w", err)
	}

	h.SetToken(token)
	return nil
}

// SyncBatch implements [ServerAdapter]. It POSTs the accumulated operations
// to POST /api/sync/batch and decodes the per-operation results. Requires a
// valid bearer token.
func (h *httpServerAdapter) SyncBatch(ctx context.Context, request models.BatchSyncRequest) (models.BatchSyncResponse, error) {
	resp, err := h.authedRequest(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(request).
		Post("/api/sync/batch")
	if err != nil {
		return models.BatchSyncResponse{}, fmt.Errorf("sync batch request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.BatchSyncResponse{}, err
	}

	var batchResponse models.BatchSyncResponse
	if err = json.Unmarshal(resp.Body(), &batchResponse); err != nil {
		return models.BatchSyncResponse{}, fmt.Errorf("decode sync batch response: %w", err)
	}

	return batchResponse, nil
}

// GetDelta implements [ServerAdapter]. It GETs /api/sync/delta/{since} where
// since is the checkpoint in milliseconds since epoch. Optional objectTypes
// and limit are passed as query parameters. Requires a valid bearer token.
func (h *httpServerAdapter) GetDelta(ctx context.Context, since time.Time, objectTypes []string, limit int) (models.DeltaResponse, error) {
	req := h.authedRequest(ctx)
	if len(objectTypes) > 0 {
		req.SetQueryParam("object_types", strings.Join(objectTypes, ","))
	}
	if limit > 0 {
		req.SetQueryParam("limit", strconv.Itoa(limit))
	}

	resp, err := req.Get("/api/sync/delta/" + strconv.FormatInt(since.UnixMilli(), 10))
	if err != nil {
		return models.DeltaResponse{}, fmt.Errorf("delta request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.DeltaResponse{}, err
	}

	var deltaResponse models.DeltaResponse
	if err = json.Unmarshal(resp.Body(), &deltaResponse); err != nil {
		return models.DeltaResponse{}, fmt.Errorf("decode delta response: %w", err)
	}

	return deltaResponse, nil
}

// GetStatus implements [ServerAdapter]. It GETs /api/sync/status. Requires a
// valid bearer token.
func (h *httpServerAdapter) GetStatus(ctx context.Context) (models.SyncStatusResponse, error) {
	resp, err := h.authedRequest(ctx).Get("/api/sync/status")
	if err != nil {
		return models.SyncStatusResponse{}, fmt.Errorf("status request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.SyncStatusResponse{}, err
	}

	var statusResponse models.SyncStatusResponse
	if err = json.Unmarshal(resp.Body(), &statusResponse); err != nil {
		return models.SyncStatusResponse{}, fmt.Errorf("decode status response: %w", err)
	}

	return statusResponse, nil
}

// ResolveConflict implements [ServerAdapter]. It POSTs merged data to
// POST /api/sync/resolve-conflict/{id}. Requires a valid bearer token.
func (h *httpServerAdapter) ResolveConflict(ctx context.Context, objectID string, request models.ResolveConflictRequest) (models.ResolveConflictResponse, error) {
	resp, err := h.authedRequest(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(request).
		Post("/api/sync/resolve-conflict/" + url.PathEscape(objectID))
	if err != nil {
		return models.ResolveConflictResponse{}, fmt.Errorf("resolve conflict request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.ResolveConflictResponse{}, err
	}

	var resolveResponse models.ResolveConflictResponse
	if err = json.Unmarshal(resp.Body(), &resolveResponse); err != nil {
		return models.ResolveConflictResponse{}, fmt.Errorf("decode resolve conflict response: %w", err)
	}

	return resolveResponse, nil
}

// ServerVersion implements [ServerAdapter]. It GETs /api/version and returns
// the plain-text body. Requires a valid bearer token.
func (h *httpServerAdapter) ServerVersion(ctx context.Context) (string, error) {
	resp, err := h.authedRequest(ctx).Get("/api/version")
	if err != nil {
		return "", fmt.Errorf("server version request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return "", err
	}

	return strings.TrimSpace(string(resp.Body())), nil
}

func (h *httpServerAdapter) authedRequest(ctx context.Context) *resty.Request {
	req := h.client.R().SetContext(ctx)
	if token := h.Token(); token != "" {
		req.SetHeader("Authorization", "Bearer "+token)
	}
	return req
}
