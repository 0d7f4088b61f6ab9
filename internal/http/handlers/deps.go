package handlers

import (
	"github.com/gofiber/fiber/v2"

	"marketlane/internal/services"
	"marketlane/internal/store"
)

type Deps struct {
	AuthHandler     *AuthHandler
	UserHandler     *UserHandler
	CategoryHandler *CategoryHandler
	ProductHandler  *ProductHandler
	CartHandler     *CartHandler
	OrderHandler    *OrderHandler
}

func NewDeps(st store.Storage) *Deps {
	authSvc := services.NewAuthService(st)
	return &Deps{
		AuthHandler:     &AuthHandler{Auth: authSvc},
		UserHandler:     &UserHandler{Store: st},
		CategoryHandler: &CategoryHandler{Store: st},
		ProductHandler:  &ProductHandler{Store: st},
		CartHandler:     &CartHandler{Store: st},
		OrderHandler:    &OrderHandler{Store: st},
	}
}

// Register mounts the JSON API. /products/featured is registered ahead of
// /products/:id so the literal segment is not captured as an id.
func (d *Deps) Register(app *fiber.App) {
	api := app.Group("/api")

	api.Post("/auth/register", d.AuthHandler.Register)
	api.Post("/auth/login", d.AuthHandler.Login)

	api.Get("/users/:id", d.UserHandler.Get)

	api.Get("/categories", d.CategoryHandler.List)

	api.Get("/products", d.ProductHandler.List)
	api.Get("/products/featured", d.ProductHandler.Featured)
	api.Get("/products/:id", d.ProductHandler.Get)
	api.Post("/products", d.ProductHandler.Create)
	api.Put("/products/:id", d.ProductHandler.Update)
	api.Delete("/products/:id", d.ProductHandler.Delete)
	api.Get("/sellers/:sellerId/products", d.ProductHandler.BySeller)

	api.Get("/cart/:userId", d.CartHandler.List)
	api.Post("/cart", d.CartHandler.Add)
	api.Put("/cart/:id", d.CartHandler.Update)
	api.Delete("/cart/user/:userId", d.CartHandler.Clear)
	api.Delete("/cart/:id", d.CartHandler.Remove)

	api.Get("/orders/:userId", d.OrderHandler.List)
	api.Post("/orders", d.OrderHandler.Create)
	api.Put("/orders/:id/status", d.OrderHandler.UpdateStatus)
}
