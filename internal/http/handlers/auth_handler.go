package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	applog "marketlane/internal/log"
	"marketlane/internal/services"
	"marketlane/internal/store"
	"marketlane/internal/validate"
)

type AuthHandler struct {
	Auth *services.AuthService
}

type registerRequest struct {
	Username string  `json:"username"`
	Email    string  `json:"email"`
	Password string  `json:"password"`
	Name     string  `json:"name"`
	Role     string  `json:"role"`
	Avatar   *string `json:"avatar"`
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonMessage(c, fiber.StatusBadRequest, "Invalid user data")
	}
	email, ok := validate.Email(req.Email)
	if !ok {
		return jsonMessage(c, fiber.StatusBadRequest, "Invalid user data")
	}
	username, ok := validate.Username(req.Username)
	if !ok {
		return jsonMessage(c, fiber.StatusBadRequest, "Invalid user data")
	}
	name, ok := validate.Name(req.Name)
	if !ok {
		return jsonMessage(c, fiber.StatusBadRequest, "Invalid user data")
	}
	role, ok := validate.Role(req.Role)
	if !ok {
		return jsonMessage(c, fiber.StatusBadRequest, "Invalid user data")
	}
	if !validate.Password(req.Password) {
		return jsonMessage(c, fiber.StatusBadRequest, "Invalid user data")
	}

	u, err := h.Auth.Register(store.NewUser{
		Username: username,
		Email:    email,
		Password: req.Password,
		Name:     name,
		Role:     role,
		Avatar:   req.Avatar,
	})
	if errors.Is(err, services.ErrEmailTaken) {
		applog.Security(c, "auth.register.duplicate", map[string]any{"email": email})
		return jsonMessage(c, fiber.StatusBadRequest, "User already exists")
	}
	if err != nil {
		return err
	}
	applog.Audit(c, "auth.register", map[string]any{"email": email, "user_id": u.ID})
	return c.JSON(u)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonMessage(c, fiber.StatusBadRequest, "Invalid credentials payload")
	}
	u, err := h.Auth.Login(req.Email, req.Password)
	if err != nil {
		applog.Security(c, "auth.login.fail", map[string]any{"email": req.Email})
		return jsonMessage(c, fiber.StatusUnauthorized, "Invalid credentials")
	}
	applog.Audit(c, "auth.login.success", map[string]any{"email": u.Email, "user_id": u.ID})
	return c.JSON(u)
}
