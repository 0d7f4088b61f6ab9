package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order status values. The store itself does not restrict status to this
// set; the boundary validates against it.
const (
	OrderStatusPending   = "pending"
	OrderStatusConfirmed = "confirmed"
	OrderStatusShipped   = "shipped"
	OrderStatusDelivered = "delivered"
	OrderStatusCancelled = "cancelled"
)

// Category is immutable reference data created at store initialization.
type Category struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// Product money and rating fields use decimal.Decimal, which marshals as a
// quoted decimal string, so the API never emits floating-point prices.
type Product struct {
	ID          int             `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Image       string          `json:"image"`
	Images      []string        `json:"images"`
	CategoryID  *int            `json:"categoryId"`
	SellerID    int             `json:"sellerId"`
	Stock       int             `json:"stock"`
	Rating      decimal.Decimal `json:"rating"`
	ReviewCount int             `json:"reviewCount"`
	IsActive    bool            `json:"isActive"`
	CreatedAt   time.Time       `json:"createdAt"`
}

// SellerSummary is the reduced seller shape joined into product views.
type SellerSummary struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Username string `json:"username"`
}

// UserSummary is the participant shape joined into order views.
type UserSummary struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// ProductWithDetails is a read-time view: product plus its category and
// seller resolved by weak reference. Either join may be absent.
type ProductWithDetails struct {
	Product
	Category *Category      `json:"category,omitempty"`
	Seller   *SellerSummary `json:"seller,omitempty"`
}

type CartItem struct {
	ID        int       `json:"id"`
	UserID    int       `json:"userId"`
	ProductID int       `json:"productId"`
	Quantity  int       `json:"quantity"`
	CreatedAt time.Time `json:"createdAt"`
}

type CartItemWithProduct struct {
	CartItem
	Product ProductWithDetails `json:"product"`
}

type Order struct {
	ID          int             `json:"id"`
	OrderNumber string          `json:"orderNumber"`
	BuyerID     int             `json:"buyerId"`
	SellerID    int             `json:"sellerId"`
	ProductID   int             `json:"productId"`
	Quantity    int             `json:"quantity"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
	Status      string          `json:"status"`
	CreatedAt   time.Time       `json:"createdAt"`
}

type OrderWithDetails struct {
	Order
	Product ProductWithDetails `json:"product"`
	Buyer   UserSummary        `json:"buyer"`
	Seller  UserSummary        `json:"seller"`
}
