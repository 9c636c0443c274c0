package middleware

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequireUser(t *testing.T) {
	var seen string
	h := RequireUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = UserID(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	t.Run("Missing Header", func(t *testing.T) {
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/wallet/balance", nil))
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("Present", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/wallet/balance", nil)
		req.Header.Set(UserIDHeader, " user1 ")
		rr := httptest.NewRecorder()

		h.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "user1", seen)
	})
}

func TestStructuredLogger(t *testing.T) {
	rejecting := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "conflict", http.StatusConflict)
	})

	t.Run("Logs Authenticated User", func(t *testing.T) {
		var buf bytes.Buffer
		h := NewStructuredLogger(slog.New(slog.NewJSONHandler(&buf, nil)))(RequireUser(rejecting))
		req := httptest.NewRequest(http.MethodPost, "/bookings", nil)
		req.Header.Set(UserIDHeader, " user1 ")
		h.ServeHTTP(httptest.NewRecorder(), req)

		assert.Contains(t, buf.String(), `"msg":"request rejected"`)
		assert.Contains(t, buf.String(), `"status":409`)
		assert.Contains(t, buf.String(), `"user_id":"user1"`)
	})

	t.Run("Ignores Header Under Bearer Auth", func(t *testing.T) {
		secret := []byte("test-secret")
		tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{Subject: "user9"}).SignedString(secret)
		require.NoError(t, err)

		var buf bytes.Buffer
		h := NewStructuredLogger(slog.New(slog.NewJSONHandler(&buf, nil)))(BearerAuth(secret)(rejecting))
		req := httptest.NewRequest(http.MethodPost, "/bookings", nil)
		req.Header.Set(UserIDHeader, "admin")
		req.Header.Set("Authorization", "Bearer "+tok)
		h.ServeHTTP(httptest.NewRecorder(), req)

		assert.Contains(t, buf.String(), `"user_id":"user9"`)
		assert.NotContains(t, buf.String(), "admin")
	})

	t.Run("Unauthenticated Request", func(t *testing.T) {
		var buf bytes.Buffer
		h := NewStructuredLogger(slog.New(slog.NewJSONHandler(&buf, nil)))(BearerAuth([]byte("test-secret"))(rejecting))
		req := httptest.NewRequest(http.MethodGet, "/wallet/balance", nil)
		req.Header.Set(UserIDHeader, "admin")
		h.ServeHTTP(httptest.NewRecorder(), req)

		assert.Contains(t, buf.String(), `"status":401`)
		assert.Contains(t, buf.String(), `"user_id":""`)
	})
}

func TestBearerAuth(t *testing.T) {
	secret := []byte("test-secret")
	var seen string
	h := BearerAuth(secret)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = UserID(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	sign := func(t *testing.T, key []byte, claims jwt.RegisteredClaims) string {
		tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(key)
		require.NoError(t, err)
		return tok
	}
	call := func(auth string) int {
		req := httptest.NewRequest(http.MethodGet, "/wallet/balance", nil)
		if auth != "" {
			req.Header.Set("Authorization", auth)
		}
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		return rr.Code
	}

	t.Run("Success", func(t *testing.T) {
		tok := sign(t, secret, jwt.RegisteredClaims{Subject: "user1", ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))})

		assert.Equal(t, http.StatusOK, call("Bearer "+tok))
		assert.Equal(t, "user1", seen)
	})

	t.Run("Missing Token", func(t *testing.T) {
		assert.Equal(t, http.StatusUnauthorized, call(""))
	})

	t.Run("Wrong Secret", func(t *testing.T) {
		tok := sign(t, []byte("other"), jwt.RegisteredClaims{Subject: "user1"})
		assert.Equal(t, http.StatusUnauthorized, call("Bearer "+tok))
	})

	t.Run("Expired", func(t *testing.T) {
		tok := sign(t, secret, jwt.RegisteredClaims{Subject: "user1", ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute))})
		assert.Equal(t, http.StatusUnauthorized, call("Bearer "+tok))
	})

	t.Run("No Subject", func(t *testing.T) {
		tok := sign(t, secret, jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))})
		assert.Equal(t, http.StatusUnauthorized, call("Bearer "+tok))
	})
}
