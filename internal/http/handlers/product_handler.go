package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	applog "marketlane/internal/log"
	"marketlane/internal/store"
	"marketlane/internal/validate"
)

type ProductHandler struct {
	Store store.Storage
}

func (h *ProductHandler) List(c *fiber.Ctx) error {
	var f store.ProductFilter
	if v := c.Query("categoryId"); v != "" {
		id, ok := validate.ID(v)
		if !ok {
			return jsonMessage(c, fiber.StatusBadRequest, "Invalid categoryId")
		}
		f.CategoryID = id
	}
	if v := c.Query("sellerId"); v != "" {
		id, ok := validate.ID(v)
		if !ok {
			return jsonMessage(c, fiber.StatusBadRequest, "Invalid sellerId")
		}
		f.SellerID = id
	}
	f.Search = validate.Search(c.Query("search"))

	products, err := h.Store.GetProducts(f)
	if err != nil {
		return err
	}
	return c.JSON(products)
}

func (h *ProductHandler) Featured(c *fiber.Ctx) error {
	products, err := h.Store.GetFeaturedProducts()
	if err != nil {
		return err
	}
	return c.JSON(products)
}

func (h *ProductHandler) Get(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return jsonMessage(c, fiber.StatusBadRequest, "Invalid product id")
	}
	product, err := h.Store.GetProduct(id)
	if errors.Is(err, store.ErrNotFound) {
		return jsonMessage(c, fiber.StatusNotFound, "Product not found")
	}
	if err != nil {
		return err
	}
	return c.JSON(product)
}

type createProductRequest struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Image       string          `json:"image"`
	Images      []string        `json:"images"`
	CategoryID  *int            `json:"categoryId"`
	SellerID    int             `json:"sellerId"`
	Stock       int             `json:"stock"`
	IsActive    *bool           `json:"isActive"`
	Rating      decimal.Decimal `json:"rating"`
	ReviewCount int             `json:"reviewCount"`
}

func (h *ProductHandler) Create(c *fiber.Ctx) error {
	var req createProductRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonMessage(c, fiber.StatusBadRequest, "Invalid product data")
	}
	if req.Name == "" || req.SellerID < 1 || req.Stock < 0 || req.Price.IsNegative() {
		return jsonMessage(c, fiber.StatusBadRequest, "Invalid product data")
	}

	product, err := h.Store.CreateProduct(store.NewProduct{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Image:       req.Image,
		Images:      req.Images,
		CategoryID:  req.CategoryID,
		SellerID:    req.SellerID,
		Stock:       req.Stock,
		IsActive:    req.IsActive,
		Rating:      req.Rating,
		ReviewCount: req.ReviewCount,
	})
	if err != nil {
		return err
	}
	applog.Audit(c, "product.create", map[string]any{"product_id": product.ID, "seller_id": product.SellerID})
	return c.JSON(product)
}

type updateProductRequest struct {
	Name        *string          `json:"name"`
	Description *string          `json:"description"`
	Price       *decimal.Decimal `json:"price"`
	Image       *string          `json:"image"`
	Images      []string         `json:"images"`
	CategoryID  *int             `json:"categoryId"`
	Stock       *int             `json:"stock"`
	IsActive    *bool            `json:"isActive"`
	Rating      *decimal.Decimal `json:"rating"`
	ReviewCount *int             `json:"reviewCount"`
}

func (h *ProductHandler) Update(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return jsonMessage(c, fiber.StatusBadRequest, "Invalid product id")
	}
	var req updateProductRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonMessage(c, fiber.StatusBadRequest, "Invalid product data")
	}
	if req.Price != nil && req.Price.IsNegative() {
		return jsonMessage(c, fiber.StatusBadRequest, "Invalid product data")
	}
	if req.Stock != nil && *req.Stock < 0 {
		return jsonMessage(c, fiber.StatusBadRequest, "Invalid product data")
	}

	product, err := h.Store.UpdateProduct(id, store.ProductUpdate{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Image:       req.Image,
		Images:      req.Images,
		CategoryID:  req.CategoryID,
		Stock:       req.Stock,
		IsActive:    req.IsActive,
		Rating:      req.Rating,
		ReviewCount: req.ReviewCount,
	})
	if errors.Is(err, store.ErrNotFound) {
		return jsonMessage(c, fiber.StatusNotFound, "Product not found")
	}
	if err != nil {
		return err
	}
	return c.JSON(product)
}

func (h *ProductHandler) Delete(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return jsonMessage(c, fiber.StatusBadRequest, "Invalid product id")
	}
	err := h.Store.DeleteProduct(id)
	if errors.Is(err, store.ErrNotFound) {
		return jsonMessage(c, fiber.StatusNotFound, "Product not found")
	}
	if err != nil {
		return err
	}
	applog.Audit(c, "product.delete", map[string]any{"product_id": id})
	return c.JSON(fiber.Map{"message": "Product deleted successfully"})
}

func (h *ProductHandler) BySeller(c *fiber.Ctx) error {
	sellerID, ok := validate.ID(c.Params("sellerId"))
	if !ok {
		return jsonMessage(c, fiber.StatusBadRequest, "Invalid seller id")
	}
	products, err := h.Store.GetSellerProducts(sellerID)
	if err != nil {
		return err
	}
	return c.JSON(products)
}
