package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/selfos/sync-server/internal/logger"
	"github.com/selfos/sync-server/internal/service"
	"github.com/selfos/sync-server/internal/utils"
	"github.com/selfos/sync-server/models"
)

type mockAuthService struct {
	registerFn func(ctx context.Context, user models.User) (models.User, error)
	loginFn    func(ctx context.Context, user models.User) (models.User, error)
	createFn   func(ctx context.Context, user models.User) (models.Token, error)
	parseFn    func(ctx context.Context, tokenString string) (models.Token, error)
}

func (m *mockAuthService) RegisterUser(ctx context.Context, user models.User) (models.User, error) {
	return m.registerFn(ctx, user)
}

func (m *mockAuthService) Login(ctx context.Context, user models.User) (models.User, error) {
	return m.loginFn(ctx, user)
}

func (m *mockAuthService) CreateToken(ctx context.Context, user models.User) (models.Token, error) {
	return m.createFn(ctx, user)
}

func (m *mockAuthService) ParseToken(ctx context.Context, tokenString string) (models.Token, error) {
	return m.parseFn(ctx, tokenString)
}

func newHandlerWithAuthService(as service.AuthService) *Handler {
	return &Handler{
		services: &service.Services{
			AuthService: as,
		},
		logger: logger.Nop(),
	}
}

func TestAuthMiddleware_NoHeader(t *testing.T) {
	h := newHandlerWithAuthService(&mockAuthService{})

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("next handler must not run without an Authorization header")
	})

	req := httptest.NewRequest(http.MethodGet, "/api/sync/status", nil)
	rr := httptest.NewRecorder()

	h.auth(next).ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rr.Code)
	}
}

func TestAuthMiddleware_MalformedHeader(t *testing.T) {
	h := newHandlerWithAuthService(&mockAuthService{})

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("next handler must not run with a malformed Authorization header")
	})

	for _, header := range []string{"Bearer", "Bearer "} {
		req := httptest.NewRequest(http.MethodGet, "/api/sync/status", nil)
		req.Header.Set("Authorization", header)
		rr := httptest.NewRecorder()

		h.auth(next).ServeHTTP(rr, req)

		if rr.Code != http.StatusUnauthorized {
			t.Fatalf("header %q: expected 401, got %d", header, rr.Code)
		}
	}
}

func TestAuthMiddleware_InvalidToken(t *testing.T) {
	h := newHandlerWithAuthService(&mockAuthService{
		parseFn: func(ctx context.Context, tokenString string) (models.Token, error) {
			return models.Token{}, service.ErrTokenIsExpiredOrInvalid
		},
	})

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("next handler must not run with an invalid token")
	})

	req := httptest.NewRequest(http.MethodGet, "/api/sync/status", nil)
	req.Header.Set("Authorization", "Bearer bad-token")
	rr := httptest.NewRecorder()

	h.auth(next).ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rr.Code)
	}
}

func TestAuthMiddleware_PutsUserIDIntoContext(t *testing.T) {
	h := newHandlerWithAuthService(&mockAuthService{
		parseFn: func(ctx context.Context, tokenString string) (models.Token, error) {
			if tokenString != "good-token" {
				t.Fatalf("unexpected token string %q", tokenString)
			}
			return models.Token{UserID: "user-17"}, nil
		},
	})

	var gotUserID string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, ok := utils.GetUserIDFromContext(r.Context())
		if !ok {
			t.Fatal("user id missing from request context")
		}
		gotUserID = userID
	})

	req := httptest.NewRequest(http.MethodGet, "/api/sync/status", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	rr := httptest.NewRecorder()

	h.auth(next).ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if gotUserID != "user-17" {
		t.Fatalf("expected user-17, got %q", gotUserID)
	}
}

func TestGetTokenFromAuthHeader(t *testing.T) {
	tests := []struct {
		name    string
		header  string
		want    string
		wantErr error
	}{
		{name: "bearer token", header: "Bearer abc.def.ghi", want: "abc.def.ghi"},
		{name: "missing token part", header: "Bearer", wantErr: ErrInvalidAuthorizationHeader},
		{name: "empty token part", header: "Bearer ", wantErr: ErrEmptyToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := getTokenFromAuthHeader(tt.header)
			if tt.wantErr != nil {
				if err != tt.wantErr {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("expected %q, got %q", tt.want, got)
			}
		})
	}
}
