package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/veris-labs/veris-core/internal/core/domain"
	"github.com/veris-labs/veris-core/internal/core/ports/driving"
)

// Mock services for testing

type mockAuthService struct {
	registerFn      func(ctx context.Context, req driving.RegisterRequest) (*domain.User, error)
	loginFn         func(ctx context.Context, username, password string) (*domain.TokenResponse, error)
	validateTokenFn func(ctx context.Context, token string) (*domain.AuthContext, error)
}

func (m *mockAuthService) Register(ctx context.Context, req driving.RegisterRequest) (*domain.User, error) {
	if m.registerFn != nil {
		return m.registerFn(ctx, req)
	}
	return nil, errors.New("not implemented")
}

func (m *mockAuthService) Login(ctx context.Context, username, password string) (*domain.TokenResponse, error) {
	if m.loginFn != nil {
		return m.loginFn(ctx, username, password)
	}
	return nil, errors.New("not implemented")
}

func (m *mockAuthService) ValidateToken(ctx context.Context, token string) (*domain.AuthContext, error) {
	if m.validateTokenFn != nil {
		return m.validateTokenFn(ctx, token)
	}
	return nil, errors.New("not implemented")
}

type mockUserService struct {
	getFn  func(ctx context.Context, username string) (*domain.User, error)
	listFn func(ctx context.Context) ([]*domain.User, error)
}

func (m *mockUserService) Get(ctx context.Context, username string) (*domain.User, error) {
	if m.getFn != nil {
		return m.getFn(ctx, username)
	}
	return nil, errors.New("not implemented")
}

func (m *mockUserService) List(ctx context.Context) ([]*domain.User, error) {
	if m.listFn != nil {
		return m.listFn(ctx)
	}
	return nil, errors.New("not implemented")
}

type mockPinger struct {
	err error
}

func (m *mockPinger) Ping(ctx context.Context) error { return m.err }

func newTestServer(authSvc driving.AuthService, userSvc driving.UserService, pinger Pinger) *Server {
	if pinger == nil {
		pinger = &mockPinger{}
	}
	return NewServer(DefaultConfig(), authSvc, userSvc, pinger)
}

// Health endpoints

func TestHandleHealth(t *testing.T) {
	server := newTestServer(&mockAuthService{}, &mockUserService{}, nil)

	req := httptest.NewRequest("GET", "/health", nil)
	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", rec.Code)
	}
}

func TestHandleReady(t *testing.T) {
	tests := []struct {
		name       string
		pingErr    error
		wantStatus int
	}{
		{"store reachable", nil, http.StatusOK},
		{"store unreachable", errors.New("connection refused"), http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := newTestServer(&mockAuthService{}, &mockUserService{}, &mockPinger{err: tt.pingErr})

			req := httptest.NewRequest("GET", "/ready", nil)
			rec := httptest.NewRecorder()
			server.Handler().ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("expected status %d, got %d", tt.wantStatus, rec.Code)
			}
		})
	}
}

// Registration

func TestHandleRegister(t *testing.T) {
	authSvc := &mockAuthService{
		registerFn: func(ctx context.Context, req driving.RegisterRequest) (*domain.User, error) {
			return &domain.User{
				ID:           1,
				Username:     req.Username,
				Email:        req.Email,
				FullName:     req.FullName,
				PasswordHash: "digest",
			}, nil
		},
	}
	server := newTestServer(authSvc, &mockUserService{}, nil)

	body, _ := json.Marshal(map[string]string{
		"username": "alice",
		"email":    "a@x.com",
		"password": "secret123",
	})
	req := httptest.NewRequest("POST", "/register/", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	if strings.Contains(rec.Body.String(), "digest") {
		t.Error("password hash leaked into register response")
	}

	var resp domain.UserSummary
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Username != "alice" {
		t.Errorf("expected username alice, got %s", resp.Username)
	}
	if resp.Disabled {
		t.Error("expected disabled false")
	}
}

func TestHandleRegister_Errors(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		serviceErr error
		wantStatus int
		wantError  string
	}{
		{
			name:       "malformed body",
			body:       "{not json",
			wantStatus: http.StatusBadRequest,
			wantError:  "invalid request body",
		},
		{
			name:       "missing fields",
			body:       `{"username":"alice"}`,
			serviceErr: domain.ErrInvalidInput,
			wantStatus: http.StatusBadRequest,
			wantError:  "username, email, and password are required",
		},
		{
			name:       "duplicate username",
			body:       `{"username":"alice","email":"a@x.com","password":"secret123"}`,
			serviceErr: domain.ErrAlreadyExists,
			wantStatus: http.StatusBadRequest,
			wantError:  "username exists",
		},
		{
			name:       "store down",
			body:       `{"username":"alice","email":"a@x.com","password":"secret123"}`,
			serviceErr: domain.ErrServiceUnavailable,
			wantStatus: http.StatusServiceUnavailable,
			wantError:  "service unavailable",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			authSvc := &mockAuthService{
				registerFn: func(ctx context.Context, req driving.RegisterRequest) (*domain.User, error) {
					return nil, tt.serviceErr
				},
			}
			server := newTestServer(authSvc, &mockUserService{}, nil)

			req := httptest.NewRequest("POST", "/register/", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			server.Handler().ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("expected status %d, got %d", tt.wantStatus, rec.Code)
			}
			if !strings.Contains(rec.Body.String(), tt.wantError) {
				t.Errorf("expected error %q in body %s", tt.wantError, rec.Body.String())
			}
		})
	}
}

// Token issuance

func postForm(handler http.Handler, path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest("POST", path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestHandleToken(t *testing.T) {
	authSvc := &mockAuthService{
		loginFn: func(ctx context.Context, username, password string) (*domain.TokenResponse, error) {
			if username == "alice" && password == "secret123" {
				return &domain.TokenResponse{AccessToken: "signed-token", TokenType: "bearer"}, nil
			}
			return nil, domain.ErrInvalidCredentials
		},
	}
	server := newTestServer(authSvc, &mockUserService{}, nil)

	rec := postForm(server.Handler(), "/token", url.Values{
		"username": {"alice"},
		"password": {"secret123"},
	})

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp domain.TokenResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.AccessToken != "signed-token" {
		t.Errorf("expected access token, got %q", resp.AccessToken)
	}
	if resp.TokenType != "bearer" {
		t.Errorf("expected token type bearer, got %q", resp.TokenType)
	}
}

// Wrong password and unknown user must produce byte-identical error
// responses.
func TestHandleToken_NoEnumeration(t *testing.T) {
	authSvc := &mockAuthService{
		loginFn: func(ctx context.Context, username, password string) (*domain.TokenResponse, error) {
			return nil, domain.ErrInvalidCredentials
		},
	}
	server := newTestServer(authSvc, &mockUserService{}, nil)

	wrongPassword := postForm(server.Handler(), "/token", url.Values{
		"username": {"alice"},
		"password": {"wrong"},
	})
	unknownUser := postForm(server.Handler(), "/token", url.Values{
		"username": {"mallory"},
		"password": {"whatever"},
	})

	if wrongPassword.Code != http.StatusUnauthorized || unknownUser.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401s, got %d and %d", wrongPassword.Code, unknownUser.Code)
	}
	if wrongPassword.Body.String() != unknownUser.Body.String() {
		t.Errorf("expected identical bodies, got %q and %q",
			wrongPassword.Body.String(), unknownUser.Body.String())
	}
}

func TestHandleToken_StoreDown(t *testing.T) {
	authSvc := &mockAuthService{
		loginFn: func(ctx context.Context, username, password string) (*domain.TokenResponse, error) {
			return nil, domain.ErrServiceUnavailable
		},
	}
	server := newTestServer(authSvc, &mockUserService{}, nil)

	rec := postForm(server.Handler(), "/token", url.Values{
		"username": {"alice"},
		"password": {"secret123"},
	})

	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("expected status 503, got %d", rec.Code)
	}
}

// User listing

func TestHandleListUsers(t *testing.T) {
	fullName := "Alice A."
	userSvc := &mockUserService{
		listFn: func(ctx context.Context) ([]*domain.User, error) {
			return []*domain.User{
				{ID: 1, Username: "alice", Email: "a@x.com", FullName: &fullName, PasswordHash: "digest-a"},
				{ID: 2, Username: "bob", Email: "b@x.com", PasswordHash: "digest-b"},
			}, nil
		},
	}
	server := newTestServer(&mockAuthService{}, userSvc, nil)

	req := httptest.NewRequest("GET", "/users/", nil)
	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	body := rec.Body.String()
	if strings.Contains(body, "digest") || strings.Contains(body, "password_hash") {
		t.Error("password hash leaked into user listing")
	}

	var users []*domain.UserSummary
	if err := json.Unmarshal(rec.Body.Bytes(), &users); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(users) != 2 {
		t.Fatalf("expected 2 users, got %d", len(users))
	}
}

func TestHandleListUsers_StoreDown(t *testing.T) {
	userSvc := &mockUserService{
		listFn: func(ctx context.Context) ([]*domain.User, error) {
			return nil, domain.ErrServiceUnavailable
		},
	}
	server := newTestServer(&mockAuthService{}, userSvc, nil)

	req := httptest.NewRequest("GET", "/users/", nil)
	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("expected status 503, got %d", rec.Code)
	}
}

// Current user

func TestHandleGetMe(t *testing.T) {
	authSvc := &mockAuthService{
		validateTokenFn: func(ctx context.Context, token string) (*domain.AuthContext, error) {
			if token == "valid-token" {
				return &domain.AuthContext{Username: "alice"}, nil
			}
			return nil, domain.ErrTokenInvalid
		},
	}
	userSvc := &mockUserService{
		getFn: func(ctx context.Context, username string) (*domain.User, error) {
			return &domain.User{ID: 1, Username: username, Email: "a@x.com", PasswordHash: "digest"}, nil
		},
	}
	server := newTestServer(authSvc, userSvc, nil)

	req := httptest.NewRequest("GET", "/me", nil)
	req.Header.Set("Authorization", "Bearer valid-token")
	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "alice") {
		t.Error("expected username in response")
	}
	if strings.Contains(rec.Body.String(), "digest") {
		t.Error("password hash leaked into /me response")
	}
}
