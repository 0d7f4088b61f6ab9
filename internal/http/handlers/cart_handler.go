package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"marketlane/internal/store"
	"marketlane/internal/validate"
)

type CartHandler struct {
	Store store.Storage
}

func (h *CartHandler) List(c *fiber.Ctx) error {
	userID, ok := validate.ID(c.Params("userId"))
	if !ok {
		return jsonMessage(c, fiber.StatusBadRequest, "Invalid user id")
	}
	items, err := h.Store.GetCartItems(userID)
	if err != nil {
		return err
	}
	return c.JSON(items)
}

type addCartRequest struct {
	UserID    int `json:"userId"`
	ProductID int `json:"productId"`
	Quantity  int `json:"quantity"`
}

func (h *CartHandler) Add(c *fiber.Ctx) error {
	var req addCartRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonMessage(c, fiber.StatusBadRequest, "Invalid cart item data")
	}
	if req.UserID < 1 || req.ProductID < 1 {
		return jsonMessage(c, fiber.StatusBadRequest, "Invalid cart item data")
	}
	item, err := h.Store.AddToCart(store.NewCartItem{
		UserID:    req.UserID,
		ProductID: req.ProductID,
		Quantity:  validate.Qty(req.Quantity),
	})
	if err != nil {
		return err
	}
	return c.JSON(item)
}

type updateCartRequest struct {
	Quantity int `json:"quantity"`
}

func (h *CartHandler) Update(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return jsonMessage(c, fiber.StatusBadRequest, "Invalid cart item id")
	}
	var req updateCartRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonMessage(c, fiber.StatusBadRequest, "Invalid cart item data")
	}

	// Quantity zero or below removes the row; the tri-state result keeps
	// removal distinguishable from a missing row.
	item, result, err := h.Store.UpdateCartItem(id, req.Quantity)
	if err != nil {
		return err
	}
	switch result {
	case store.CartNotFound:
		return jsonMessage(c, fiber.StatusNotFound, "Cart item not found")
	case store.CartRemoved:
		return c.JSON(fiber.Map{"message": "Cart item removed"})
	default:
		return c.JSON(item)
	}
}

func (h *CartHandler) Remove(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return jsonMessage(c, fiber.StatusBadRequest, "Invalid cart item id")
	}
	err := h.Store.RemoveFromCart(id)
	if errors.Is(err, store.ErrNotFound) {
		return jsonMessage(c, fiber.StatusNotFound, "Cart item not found")
	}
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "Cart item removed successfully"})
}

func (h *CartHandler) Clear(c *fiber.Ctx) error {
	userID, ok := validate.ID(c.Params("userId"))
	if !ok {
		return jsonMessage(c, fiber.StatusBadRequest, "Invalid user id")
	}
	if err := h.Store.ClearCart(userID); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "Cart cleared successfully"})
}
