package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/webinter/internship-backend/shared"
)

// NewAuthMiddleware returns a middleware that requires a valid bearer token
// (or the jwt_token cookie) and stashes the claims in the request locals.
func NewAuthMiddleware(secret []byte) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := ""
		if auth := c.Get(fiber.HeaderAuthorization); strings.HasPrefix(auth, "Bearer ") {
			token = strings.TrimPrefix(auth, "Bearer ")
		} else {
			token = c.Cookies("jwt_token")
		}

		if token == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"success": false,
				"error":   "Missing authentication token",
			})
		}

		claims, err := shared.ValidateJWT(secret, token)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"success": false,
				"error":   "Invalid or expired token",
			})
		}

		c.Locals("user_id", claims.UserID)
		c.Locals("username", claims.Username)
		c.Locals("role", claims.Role)
		return c.Next()
	}
}
