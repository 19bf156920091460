package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"marketSense/domain"
	"marketSense/pkg/logger"
	"marketSense/pkg/utils"

	jsonres "marketSense/pkg/response"

	"github.com/labstack/echo/v4"
)

const identityContextKey = "identity"

// IdentityMiddleware resolves the caller's identity. A Bearer JWT maps to a
// user identity; an X-Session-Token header maps to an anonymous session
// identity. Requests with neither are rejected so every recorded activity has
// an owner.
func IdentityMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader != "" {
				tokenParts := strings.Split(authHeader, " ")
				if len(tokenParts) != 2 || tokenParts[0] != "Bearer" {
					return c.JSON(http.StatusUnauthorized, jsonres.Error(
						"UNAUTHORIZED", "Invalid authorization format", nil,
					))
				}

				claims, err := utils.ParseJWT(tokenParts[1])
				if err != nil {
					return c.JSON(http.StatusUnauthorized, jsonres.Error(
						"UNAUTHORIZED", "Invalid token", nil,
					))
				}

				expAt, err := claims.GetExpirationTime()
				if err != nil || time.Now().After(expAt.Time) {
					return c.JSON(http.StatusForbidden, jsonres.Error(
						"FORBIDDEN", "Token expired", nil,
					))
				}

				userIDUint, err := strconv.ParseUint(claims.UserID, 10, 64)
				if err != nil {
					logger.Error("Invalid user ID in token", err)
					return c.JSON(http.StatusForbidden, jsonres.Error(
						"FORBIDDEN", "Invalid user ID in token", nil,
					))
				}

				c.Set(identityContextKey, domain.UserIdentity(uint(userIDUint)))
				c.Set("role", claims.Role)

				return next(c)
			}

			sessionToken := c.Request().Header.Get("X-Session-Token")
			if sessionToken != "" {
				c.Set(identityContextKey, domain.SessionIdentity(sessionToken))
				return next(c)
			}

			return c.JSON(http.StatusUnauthorized, jsonres.Error(
				"UNAUTHORIZED", "Missing authorization header or session token", nil,
			))
		}
	}
}

// IdentityFrom extracts the identity placed by IdentityMiddleware. The zero
// identity means the middleware did not run on this route.
func IdentityFrom(c echo.Context) domain.Identity {
	ident, ok := c.Get(identityContextKey).(domain.Identity)
	if !ok {
		return domain.Identity{}
	}
	return ident
}
