package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	applog "marketlane/internal/log"
	"marketlane/internal/store"
	"marketlane/internal/validate"
)

type OrderHandler struct {
	Store store.Storage
}

func (h *OrderHandler) List(c *fiber.Ctx) error {
	userID, ok := validate.ID(c.Params("userId"))
	if !ok {
		return jsonMessage(c, fiber.StatusBadRequest, "Invalid user id")
	}
	role, ok := validate.Role(c.Query("role"))
	if !ok {
		return jsonMessage(c, fiber.StatusBadRequest, "Invalid role")
	}
	orders, err := h.Store.GetOrders(userID, role)
	if err != nil {
		return err
	}
	return c.JSON(orders)
}

type createOrderRequest struct {
	BuyerID     int             `json:"buyerId"`
	SellerID    int             `json:"sellerId"`
	ProductID   int             `json:"productId"`
	Quantity    int             `json:"quantity"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
	Status      string          `json:"status"`
}

func (h *OrderHandler) Create(c *fiber.Ctx) error {
	var req createOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonMessage(c, fiber.StatusBadRequest, "Invalid order data")
	}
	if req.BuyerID < 1 || req.SellerID < 1 || req.ProductID < 1 || req.Quantity < 1 || req.TotalAmount.IsNegative() {
		return jsonMessage(c, fiber.StatusBadRequest, "Invalid order data")
	}
	if req.Status != "" {
		if _, ok := validate.OrderStatus(req.Status); !ok {
			return jsonMessage(c, fiber.StatusBadRequest, "Invalid order data")
		}
	}

	order, err := h.Store.CreateOrder(store.NewOrder{
		BuyerID:     req.BuyerID,
		SellerID:    req.SellerID,
		ProductID:   req.ProductID,
		Quantity:    req.Quantity,
		TotalAmount: req.TotalAmount,
		Status:      req.Status,
	})
	if err != nil {
		return err
	}
	applog.Audit(c, "order.create", map[string]any{
		"order_id": order.ID, "buyer_id": order.BuyerID, "seller_id": order.SellerID,
	})
	return c.JSON(order)
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

func (h *OrderHandler) UpdateStatus(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return jsonMessage(c, fiber.StatusBadRequest, "Invalid order id")
	}
	var req updateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonMessage(c, fiber.StatusBadRequest, "Invalid status")
	}
	status, ok := validate.OrderStatus(req.Status)
	if !ok {
		return jsonMessage(c, fiber.StatusBadRequest, "Invalid status")
	}

	order, err := h.Store.UpdateOrderStatus(id, status)
	if errors.Is(err, store.ErrNotFound) {
		return jsonMessage(c, fiber.StatusNotFound, "Order not found")
	}
	if err != nil {
		return err
	}
	applog.Audit(c, "order.status", map[string]any{"order_id": id, "status": status})
	return c.JSON(order)
}
