// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("0123456789abcdef0123456789abcdef")

func TestGenerateAndValidate(t *testing.T) {
	tok, err := GenerateToken(testSecret, "alice", time.Hour)
	require.NoError(t, err)

	claims, err := ValidateToken(testSecret, tok)
	require.NoError(t, err)
	assert.Equal(t, "alice", claims.Subject)
}

func TestGenerateRejectsWeakSecret(t *testing.T) {
	_, err := GenerateToken([]byte("short"), "alice", time.Hour)
	assert.ErrorIs(t, err, ErrWeakSecret)
}

func TestValidateRejects(t *testing.T) {
	expired, err := GenerateToken(testSecret, "alice", -time.Minute)
	require.NoError(t, err)

	otherKey, err := GenerateToken([]byte("ffffffffffffffffffffffffffffffff"), "alice", time.Hour)
	require.NoError(t, err)

	noneAlg, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"sub": "alice"}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	tests := map[string]string{
		"expired":     expired,
		"wrong key":   otherKey,
		"none alg":    noneAlg,
		"not a token": "garbage",
	}
	for name, tok := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := ValidateToken(testSecret, tok)
			assert.Error(t, err)
		})
	}
}

func TestMiddleware(t *testing.T) {
	good, err := GenerateToken(testSecret, "alice", time.Hour)
	require.NoError(t, err)

	var seen string
	h := Middleware(testSecret)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = UserID(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantUser   string
	}{
		{"valid token", "Bearer " + good, http.StatusNoContent, "alice"},
		{"missing header", "", http.StatusUnauthorized, ""},
		{"wrong scheme", "Basic abc", http.StatusUnauthorized, ""},
		{"bad token", "Bearer nope", http.StatusForbidden, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seen = ""
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantUser, seen)
		})
	}
}

func TestUserIDMissing(t *testing.T) {
	_, ok := UserID(httptest.NewRequest(http.MethodGet, "/", nil).Context())
	assert.False(t, ok)
}
