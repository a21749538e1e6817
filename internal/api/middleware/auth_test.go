package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/kanban-api/internal/service/auth"
)

// mockJWTService implements auth.JWTService for middleware tests. Only
// ValidateToken is exercised here.
type mockJWTService struct {
	validateTokenFn func(ctx context.Context, tokenString string) (*auth.Claims, error)
}

func (m *mockJWTService) GenerateToken(ctx context.Context, userID uuid.UUID) (string, error) {
	return "", nil
}

func (m *mockJWTService) ValidateToken(ctx context.Context, tokenString string) (*auth.Claims, error) {
	return m.validateTokenFn(ctx, tokenString)
}

func (m *mockJWTService) GenerateRefreshToken(ctx context.Context, userID uuid.UUID) (string, error) {
	return "", nil
}

func (m *mockJWTService) ValidateRefreshToken(ctx context.Context, tokenString string) (*auth.Claims, error) {
	return nil, auth.ErrInvalidRefreshToken
}

func TestAuthenticate(t *testing.T) {
	t.Parallel()
	userID := uuid.New()

	tests := []struct {
		name       string
		authHeader string
		validateFn func(ctx context.Context, tokenString string) (*auth.Claims, error)
		wantStatus int
		wantNext   bool
	}{
		{
			name:       "valid token passes through with user in context",
			authHeader: "Bearer good-token",
			validateFn: func(ctx context.Context, tokenString string) (*auth.Claims, error) {
				assert.Equal(t, "good-token", tokenString)
				return &auth.Claims{UserID: userID, TokenType: "access"}, nil
			},
			wantStatus: http.StatusOK,
			wantNext:   true,
		},
		{
			name:       "missing header",
			authHeader: "",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "wrong scheme",
			authHeader: "Basic dXNlcjpwYXNz",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "expired token",
			authHeader: "Bearer stale-token",
			validateFn: func(ctx context.Context, tokenString string) (*auth.Claims, error) {
				return nil, auth.ErrExpiredToken
			},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "refresh token used as access token",
			authHeader: "Bearer refresh-token",
			validateFn: func(ctx context.Context, tokenString string) (*auth.Claims, error) {
				return nil, auth.ErrWrongTokenType
			},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "unexpected validation failure",
			authHeader: "Bearer broken",
			validateFn: func(ctx context.Context, tokenString string) (*auth.Claims, error) {
				return nil, assert.AnError
			},
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			mw := NewAuthMiddleware(&mockJWTService{validateTokenFn: tc.validateFn})

			nextCalled := false
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				nextCalled = true
				gotID, ok := GetUserID(r)
				require.True(t, ok)
				assert.Equal(t, userID, gotID)
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/api/boards", nil)
			if tc.authHeader != "" {
				req.Header.Set("Authorization", tc.authHeader)
			}
			rec := httptest.NewRecorder()
			mw.Authenticate(next).ServeHTTP(rec, req)

			assert.Equal(t, tc.wantStatus, rec.Code)
			assert.Equal(t, tc.wantNext, nextCalled)
		})
	}
}

func TestGetUserIDMissing(t *testing.T) {
	t.Parallel()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	_, ok := GetUserID(req)
	assert.False(t, ok)
}
