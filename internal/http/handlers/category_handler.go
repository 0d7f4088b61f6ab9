package handlers

import (
	"github.com/gofiber/fiber/v2"

	"marketlane/internal/store"
)

type CategoryHandler struct {
	Store store.Storage
}

func (h *CategoryHandler) List(c *fiber.Ctx) error {
	categories, err := h.Store.GetCategories()
	if err != nil {
		return err
	}
	return c.JSON(categories)
}
