package middleware // declare the middleware package; contains reusable HTTP middleware functions

import (
	"net/http" // HTTP status codes for responses
	"strings"  // string utilities for prefix checking and trimming

	"github.com/golang-jwt/jwt/v5" // JWT library for parsing and validating tokens
	"github.com/labstack/echo/v4"  // Echo framework used for defining middleware and handlers

	"github.com/iliyamo/seat-live/internal/config"
	"github.com/iliyamo/seat-live/internal/utils"
)

// InternalAuth returns an Echo middleware that gates the reconciliation
// endpoint to trusted internal callers.  Two mechanisms are accepted: an
// HS256 bearer token signed with the configured secret, or a static token
// in the X-Internal-Token header checked against a bcrypt hash.  When
// neither mechanism is configured the middleware passes every request
// through, which keeps local development friction-free; production
// deployments are expected to set at least one.
//
// The caller identity (the JWT subject, or "internal-token" for the static
// token) is stored in the context under "caller" for downstream middleware
// such as the rate limiter.
func InternalAuth(cfg config.InternalAuthConfig) echo.MiddlewareFunc {
	enabled := cfg.JWTSecret != "" || cfg.TokenHash != ""
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !enabled {
				return next(c)
			}

			// Static-token mode: constant header compared against the
			// stored bcrypt hash, never against a plaintext secret.
			if cfg.TokenHash != "" {
				if tok := c.Request().Header.Get("X-Internal-Token"); tok != "" && utils.CheckToken(cfg.TokenHash, tok) {
					c.Set("caller", "internal-token")
					return next(c)
				}
			}

			// JWT mode: Bearer token signed HS256 with the shared secret.
			// Other signing methods are rejected outright.
			if cfg.JWTSecret != "" {
				auth := c.Request().Header.Get("Authorization")
				if strings.HasPrefix(auth, "Bearer ") {
					raw := strings.TrimPrefix(auth, "Bearer ")
					tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
						if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
							return nil, echo.ErrUnauthorized
						}
						return []byte(cfg.JWTSecret), nil
					})
					if err == nil && tok.Valid {
						if claims, ok := tok.Claims.(jwt.MapClaims); ok {
							if sub, ok := claims["sub"].(string); ok && sub != "" {
								c.Set("caller", sub)
							}
						}
						return next(c)
					}
				}
			}

			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
		}
	}
}
