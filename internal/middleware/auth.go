package middleware

import (
	"strings"

	"github.com/ggorockee/nameorigin/internal/config"
	"github.com/ggorockee/nameorigin/internal/database"
	"github.com/ggorockee/nameorigin/internal/models"
	"github.com/ggorockee/nameorigin/pkg/auth"
	"github.com/gofiber/fiber/v2"
)

// AuthRequired validates the bearer token and loads the active user into
// c.Locals("user"). Disabled accounts are rejected with 400, mirroring the
// credential check itself being valid.
func AuthRequired(db *database.DB, cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"detail": "Authorization header required",
			})
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"detail": "Invalid authorization header format",
			})
		}

		claims, err := auth.ValidateAccessToken(parts[1], cfg.JWTSecretKey)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"detail": "Could not validate credentials",
			})
		}

		var user models.User
		if err := db.Where("username = ?", claims.Subject).First(&user).Error; err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"detail": "Could not validate credentials",
			})
		}
		if user.Disabled {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"detail": "Inactive user",
			})
		}

		c.Locals("user", &user)
		return c.Next()
	}
}

// CurrentUser returns the user stored by AuthRequired, or nil
func CurrentUser(c *fiber.Ctx) *models.User {
	user, ok := c.Locals("user").(*models.User)
	if !ok {
		return nil
	}
	return user
}
