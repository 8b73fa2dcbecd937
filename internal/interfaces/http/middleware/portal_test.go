package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/outvoice/backend/internal/infrastructure/auth"
	"github.com/outvoice/backend/internal/infrastructure/config"
	"github.com/outvoice/backend/internal/infrastructure/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPortalRouter(t *testing.T) (*gin.Engine, *auth.JWTService, *auth.InMemoryTokenBlacklist) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	jwtService, err := auth.NewJWTService(config.PortalConfig{JWTSecret: "portal-secret", TokenTTL: time.Hour, Issuer: "outvoice"})
	require.NoError(t, err)
	revoked := auth.NewInMemoryTokenBlacklist()

	router := gin.New()
	router.Use(RequestID())
	router.GET("/portal/overview", PortalAuth(jwtService, revoked), func(c *gin.Context) {
		claims, ok := GetPortalClaims(c)
		require.True(t, ok)
		assert.Equal(t, claims.ClientID, logger.GetClientID(c.Request.Context()))
		c.String(http.StatusOK, GetPortalClientID(c)+"|"+claims.ClientName)
	})
	return router, jwtService, revoked
}

func getOverview(router http.Handler, authorization string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/portal/overview", nil)
	if authorization != "" {
		req.Header.Set(AuthHeaderKey, authorization)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestPortalAuth(t *testing.T) {
	router, jwtService, revoked := newPortalRouter(t)

	session, err := jwtService.IssueSession("client-1", "Acme Ltd")
	require.NoError(t, err)

	t.Run("valid session", func(t *testing.T) {
		w := getOverview(router, BearerPrefix+session.Token)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "client-1|Acme Ltd", w.Body.String())
	})

	t.Run("missing header", func(t *testing.T) {
		w := getOverview(router, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), `"code":"INVALID_TOKEN"`)
	})

	t.Run("wrong scheme", func(t *testing.T) {
		w := getOverview(router, "Basic abc")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("garbage token", func(t *testing.T) {
		w := getOverview(router, BearerPrefix+"not.a.token")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), `"code":"INVALID_TOKEN"`)
	})

	t.Run("foreign signature", func(t *testing.T) {
		other, err := auth.NewJWTService(config.PortalConfig{JWTSecret: "other-secret", Issuer: "outvoice"})
		require.NoError(t, err)
		foreign, err := other.IssueSession("client-1", "Acme Ltd")
		require.NoError(t, err)

		w := getOverview(router, BearerPrefix+foreign.Token)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("revoked session", func(t *testing.T) {
		claims, err := jwtService.ValidateToken(session.Token)
		require.NoError(t, err)
		require.NoError(t, revoked.AddToBlacklist(t.Context(), claims.ID, time.Hour))

		w := getOverview(router, BearerPrefix+session.Token)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), `"code":"TOKEN_REVOKED"`)
	})
}
