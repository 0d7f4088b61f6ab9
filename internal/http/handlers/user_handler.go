package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"marketlane/internal/store"
	"marketlane/internal/validate"
)

type UserHandler struct {
	Store store.Storage
}

func (h *UserHandler) Get(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return jsonMessage(c, fiber.StatusBadRequest, "Invalid user id")
	}
	u, err := h.Store.GetUser(id)
	if errors.Is(err, store.ErrNotFound) {
		return jsonMessage(c, fiber.StatusNotFound, "User not found")
	}
	if err != nil {
		return err
	}
	return c.JSON(u)
}
