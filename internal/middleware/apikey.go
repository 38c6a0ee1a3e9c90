package middleware

import (
	"crypto/subtle"

	"github.com/gofiber/fiber/v2"
)

// APIKeyMiddleware guards the public website intake endpoints. The site
// sends the shared key in X-Api-Key; when no key is configured the
// endpoints are disabled outright.
func APIKeyMiddleware(apiKey string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if apiKey == "" {
			return fiber.NewError(fiber.StatusServiceUnavailable, "web intake disabled")
		}

		provided := c.Get("X-Api-Key")
		if subtle.ConstantTimeCompare([]byte(provided), []byte(apiKey)) != 1 {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid api key")
		}

		return c.Next()
	}
}
