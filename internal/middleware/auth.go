// Package middleware provides authentication, context propagation and
// request logging middleware for the application.
package middleware

import (
	"context"
	"strings"

	"devhub/internal/config"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

// TokenUser is the identity embedded in a token's claims.
type TokenUser struct {
	ID string `json:"id"`
}

// Claims is the JWT payload: the user identity under the "user" key plus
// the registered claims (expiry, issued-at, jti).
type Claims struct {
	User TokenUser `json:"user"`
	jwt.RegisteredClaims
}

// AuthRequired returns a middleware that enforces authentication for
// protected routes. On success the decoded user id is stored in
// c.Locals("userID") for downstream handlers; the middleware never
// queries the document store.
func AuthRequired(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"msg": "no token, authorization denied",
			})
		}

		// Extract token from "Bearer <token>"
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"msg": "invalid authorization header format",
			})
		}

		claims := &Claims{}
		token, err := jwt.ParseWithClaims(parts[1], claims, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fiber.NewError(fiber.StatusUnauthorized, "invalid signing method")
			}
			return []byte(cfg.JWTSecret), nil
		})

		if err != nil || !token.Valid {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"msg": "token is not valid",
			})
		}

		if claims.User.ID == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"msg": "token is not valid",
			})
		}

		c.Locals("userID", claims.User.ID)
		// The gate runs after ContextMiddleware, so the user id has to be
		// pushed into the request context here for the context-aware
		// logger to pick it up.
		c.SetUserContext(context.WithValue(c.UserContext(), UserIDKey, claims.User.ID))
		return c.Next()
	}
}
