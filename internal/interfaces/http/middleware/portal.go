package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/outvoice/backend/internal/infrastructure/auth"
	"github.com/outvoice/backend/internal/infrastructure/logger"
	"github.com/outvoice/backend/internal/interfaces/http/dto"
	"go.uber.org/zap"
)

// Portal context keys
const (
	PortalClaimsKey   = "portal_claims"
	PortalClientIDKey = "portal_client_id"
	AuthHeaderKey     = "Authorization"
	BearerPrefix      = "Bearer "
)

// PortalAuth requires a valid, unrevoked portal session token and stores its
// claims on the context. The revocation list is optional.
func PortalAuth(jwtService *auth.JWTService, revoked auth.TokenBlacklist) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader(AuthHeaderKey)
		if !strings.HasPrefix(header, BearerPrefix) {
			abortUnauthorized(c, "INVALID_TOKEN", "Missing or malformed authorization header")
			return
		}
		token := strings.TrimSpace(strings.TrimPrefix(header, BearerPrefix))
		if token == "" {
			abortUnauthorized(c, "INVALID_TOKEN", "Missing token")
			return
		}

		claims, err := jwtService.ValidateToken(token)
		if err != nil {
			code := "INVALID_TOKEN"
			if errors.Is(err, auth.ErrExpiredToken) {
				code = "TOKEN_EXPIRED"
			}
			abortUnauthorized(c, code, "Session is invalid or has expired")
			return
		}

		if revoked != nil && claims.ID != "" {
			blacklisted, err := revoked.IsBlacklisted(c.Request.Context(), claims.ID)
			if err != nil {
				// fail open
				logger.L(c.Request.Context()).Error("portal revocation check failed",
					zap.String("jti", claims.ID), zap.Error(err))
			} else if blacklisted {
				abortUnauthorized(c, "TOKEN_REVOKED", "Session has been closed")
				return
			}
		}

		c.Set(PortalClaimsKey, claims)
		c.Set(PortalClientIDKey, claims.ClientID)
		ctx, _ := logger.WithClientID(c.Request.Context(), logger.FromContext(c.Request.Context()), claims.ClientID)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

func abortUnauthorized(c *gin.Context, code, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponseWithRequestID(code, message, GetRequestID(c)))
}

// GetPortalClaims returns the claims stored by PortalAuth
func GetPortalClaims(c *gin.Context) (*auth.Claims, bool) {
	v, ok := c.Get(PortalClaimsKey)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*auth.Claims)
	return claims, ok
}

// GetPortalClientID returns the signed-in portal client, or ""
func GetPortalClientID(c *gin.Context) string {
	return c.GetString(PortalClientIDKey)
}
