package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theloveculture/tlc-backend/internal/common/utils"
)

const testSecret = "test-secret"

func mintToken(t *testing.T, memberID, tokenType string, expiresAt time.Time) string {
	t.Helper()

	token, err := utils.GenerateJWT(&utils.JWTClaims{
		MemberID:  memberID,
		Type:      tokenType,
		ExpiresAt: expiresAt.Unix(),
		IssuedAt:  time.Now().Unix(),
	}, testSecret)
	require.NoError(t, err)
	return token
}

func protected(t *testing.T) (http.Handler, *string) {
	t.Helper()

	var seen string
	mw := NewMiddleware(testSecret)
	handler := mw.Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := MemberID(r.Context())
		require.True(t, ok)
		seen = id
		w.WriteHeader(http.StatusOK)
	}))
	return handler, &seen
}

func TestAuthenticateInjectsMemberID(t *testing.T) {
	handler, seen := protected(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+mintToken(t, "alice", "access", time.Now().Add(time.Hour)))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "alice", *seen)
}

func TestAuthenticateRejectsRefreshTokens(t *testing.T) {
	handler, _ := protected(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+mintToken(t, "alice", "refresh", time.Now().Add(time.Hour)))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthenticateRejectsExpiredTokens(t *testing.T) {
	handler, _ := protected(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+mintToken(t, "alice", "access", time.Now().Add(-time.Hour)))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthenticateRejectsWrongSecret(t *testing.T) {
	handler, _ := protected(t)

	token, err := utils.GenerateJWT(&utils.JWTClaims{
		MemberID:  "alice",
		Type:      "access",
		ExpiresAt: time.Now().Add(time.Hour).Unix(),
	}, "some-other-secret")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthenticateRejectsMissingOrMalformedHeader(t *testing.T) {
	handler, _ := protected(t)

	for _, header := range []string{"", "Bearer", "Basic abc", "Token xyz"} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code, header)
	}
}
