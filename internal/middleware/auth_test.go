package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sysboard/internal/auth/token"
	"sysboard/internal/middleware"
)

var secret = []byte("test-secret")

func protected(t *testing.T) http.Handler {
	t.Helper()
	auth := middleware.NewAuthMiddleware(secret)
	return auth.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, ok := middleware.UserIDFromContext(r.Context())
		require.True(t, ok)
		w.Write([]byte(userID))
	}))
}

func TestRequireAuthAcceptsValidBearer(t *testing.T) {
	raw, err := token.Issue(secret, "op-1", time.Hour, time.Now())
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/services", nil)
	req.Header.Set("Authorization", "Bearer "+raw)
	rec := httptest.NewRecorder()

	protected(t).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "op-1", rec.Body.String())
}

func TestRequireAuthRejects(t *testing.T) {
	expired, err := token.Issue(secret, "op-1", time.Minute, time.Now().Add(-time.Hour))
	require.NoError(t, err)
	forged, err := token.Issue([]byte("other"), "op-1", time.Hour, time.Now())
	require.NoError(t, err)

	cases := map[string]string{
		"missing header": "",
		"not bearer":     "Basic abc",
		"garbage":        "Bearer not.a.jwt",
		"expired":        "Bearer " + expired,
		"wrong key":      "Bearer " + forged,
	}

	for name, header := range cases {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/services", nil)
			if header != "" {
				req.Header.Set("Authorization", header)
			}
			rec := httptest.NewRecorder()

			protected(t).ServeHTTP(rec, req)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
		})
	}
}
