package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-at-least-32-chars-long!!"

func mintToken(t *testing.T, secret, subject string, expiresAt time.Time) string {
	t.Helper()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   subject,
		ExpiresAt: jwt.NewNumericDate(expiresAt),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	})
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func TestAuthenticate(t *testing.T) {
	userID := uuid.New()

	tests := []struct {
		name        string
		authHeader  string
		wantStatus  int
		wantNext    bool
	}{
		{
			name:       "Valid token",
			authHeader: "Bearer " + mintTokenHelper(t, userID.String(), time.Now().Add(time.Hour)),
			wantStatus: http.StatusOK,
			wantNext:   true,
		},
		{
			name:       "Missing header",
			authHeader: "",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "Wrong scheme",
			authHeader: "Basic abc123",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "Garbage token",
			authHeader: "Bearer not.a.token",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "Expired token",
			authHeader: "Bearer " + mintTokenHelper(t, userID.String(), time.Now().Add(-time.Hour)),
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "Non-UUID subject",
			authHeader: "Bearer " + mintTokenHelper(t, "alice", time.Now().Add(time.Hour)),
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "Wrong secret",
			authHeader: "Bearer " + mintForeignToken(t, userID.String()),
			wantStatus: http.StatusUnauthorized,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			m := NewAuthMiddleware(testSecret)

			nextCalled := false
			var gotUserID uuid.UUID
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				nextCalled = true
				gotUserID, _ = GetUserID(r)
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest("GET", "/groups", nil)
			if tc.authHeader != "" {
				req.Header.Set("Authorization", tc.authHeader)
			}

			rr := httptest.NewRecorder()
			m.Authenticate(next).ServeHTTP(rr, req)

			assert.Equal(t, tc.wantStatus, rr.Code)
			assert.Equal(t, tc.wantNext, nextCalled)
			if tc.wantNext {
				assert.Equal(t, userID, gotUserID, "user ID from token subject reaches the handler")
			}
		})
	}
}

func mintTokenHelper(t *testing.T, subject string, expiresAt time.Time) string {
	return mintToken(t, testSecret, subject, expiresAt)
}

func mintForeignToken(t *testing.T, subject string) string {
	return mintToken(t, "another-secret-also-32-chars-long!!!", subject, time.Now().Add(time.Hour))
}

func TestNewAuthMiddlewarePanicsOnEmptySecret(t *testing.T) {
	assert.Panics(t, func() { NewAuthMiddleware("") })
}
