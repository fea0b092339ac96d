package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"servicehub/internal/authclient"
	"servicehub/internal/common"

	"github.com/MicahParks/keyfunc/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// NewJWKS fetches the auth service's JWKS and keeps it refreshed in the
// background.
func NewJWKS(jwksURL string) (*keyfunc.JWKS, error) {
	return keyfunc.Get(jwksURL, keyfunc.Options{
		RefreshInterval:   time.Hour,
		RefreshRateLimit:  5 * time.Minute,
		RefreshUnknownKID: true,
		RefreshErrorHandler: func(err error) {
			log.Warn().Err(err).Msg("jwks refresh failed")
		},
	})
}

// JWTMiddleware authenticates requests with bearer tokens issued by the
// auth service, verified locally against its JWKS. The sub claim becomes
// the request's user ID.
func JWTMiddleware(jwks *keyfunc.JWKS) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			tokenString, err := bearerToken(c)
			if err != nil {
				return err
			}

			token, err := jwt.Parse(tokenString, jwks.Keyfunc)
			if err != nil || !token.Valid {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid token")
			}

			claims, ok := token.Claims.(jwt.MapClaims)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid claims")
			}

			sub, ok := claims["sub"].(string)
			if !ok || sub == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "Missing subject in token")
			}

			ctx := context.WithValue(c.Request().Context(), common.UserIDKey, sub)
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	}
}

// RemoteVerifyMiddleware authenticates by calling the auth service's
// verify-token endpoint. Used when no JWKS endpoint is reachable at
// startup; every request costs a round trip.
func RemoteVerifyMiddleware(client *authclient.Client) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			tokenString, err := bearerToken(c)
			if err != nil {
				return err
			}

			ok, userID, err := client.VerifyToken(c.Request().Context(), tokenString)
			if err != nil {
				return echo.NewHTTPError(http.StatusServiceUnavailable, "Auth service unavailable")
			}
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid token")
			}

			ctx := context.WithValue(c.Request().Context(), common.UserIDKey, userID)
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	}
}

func bearerToken(c echo.Context) (string, error) {
	authHeader := c.Request().Header.Get("Authorization")
	if authHeader == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "Missing token")
	}
	tokenString := strings.TrimPrefix(authHeader, "Bearer ")
	if tokenString == authHeader {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "Invalid token format")
	}
	return tokenString, nil
}
