package handlers

import (
	"errors"

	"github.com/ggorockee/nameorigin/internal/config"
	"github.com/ggorockee/nameorigin/internal/database"
	"github.com/ggorockee/nameorigin/internal/middleware"
	"github.com/ggorockee/nameorigin/internal/services"
	"github.com/gofiber/fiber/v2"
)

type AuthHandler struct {
	service *services.AuthService
}

func NewAuthHandler(db *database.DB, cfg *config.Config) *AuthHandler {
	return &AuthHandler{
		service: services.NewAuthService(db, cfg),
	}
}

// SetupAuthRoutes mounts the credential endpoints. Routes needing a valid
// bearer token get the auth middleware per-route because signup and token
// must stay open.
func SetupAuthRoutes(router fiber.Router, db *database.DB, cfg *config.Config) {
	h := NewAuthHandler(db, cfg)

	router.Post("/signup", h.Signup)
	router.Post("/token", h.Token)
	router.Post("/logout", middleware.AuthRequired(db, cfg), h.Logout)
	router.Get("/users/me", middleware.AuthRequired(db, cfg), h.Me)
}

// Signup godoc
// @Summary Register a new user
// @Tags authentication
// @Accept json
// @Produce json
// @Param request body services.SignupRequest true "Signup data"
// @Success 201 {object} models.User
// @Router /auth/signup [post]
func (h *AuthHandler) Signup(c *fiber.Ctx) error {
	var req services.SignupRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(ErrorResponse{Detail: "Invalid request body"})
	}

	if len(req.Username) < 3 || len(req.Username) > 50 {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(ErrorResponse{Detail: "Username must be between 3 and 50 characters"})
	}
	if len(req.Password) < 8 {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(ErrorResponse{Detail: "Password must be at least 8 characters"})
	}

	user, err := h.service.Signup(&req)
	if err != nil {
		if errors.Is(err, services.ErrUsernameTaken) {
			return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Detail: "Username already registered"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Detail: "Failed to create user"})
	}

	return c.Status(fiber.StatusCreated).JSON(user)
}

// Token godoc
// @Summary Exchange credentials for an access token
// @Tags authentication
// @Accept json
// @Produce json
// @Param request body services.TokenRequest true "Credentials"
// @Success 200 {object} services.TokenResponse
// @Router /auth/token [post]
func (h *AuthHandler) Token(c *fiber.Ctx) error {
	var req services.TokenRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(ErrorResponse{Detail: "Invalid request body"})
	}

	response, err := h.service.Token(&req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidCredentials):
			c.Set("WWW-Authenticate", "Bearer")
			return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{Detail: "Incorrect username or password"})
		case errors.Is(err, services.ErrUserDisabled):
			return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Detail: "Inactive user"})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Detail: "Failed to issue token"})
		}
	}

	return c.JSON(response)
}

// Logout godoc
// @Summary Stateless logout
// @Tags authentication
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]string
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"message": "Logout successful. Please clear your token.",
	})
}

// Me godoc
// @Summary Get current user info
// @Tags authentication
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.User
// @Router /auth/users/me [get]
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	if user == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{Detail: "Could not validate credentials"})
	}
	return c.JSON(user)
}
