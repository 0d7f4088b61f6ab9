package store

import (
	"errors"

	"github.com/shopspring/decimal"

	"marketlane/internal/domain"
)

// ErrNotFound is the absent-result signal for reads, updates and deletes.
// Translating it into an HTTP status is the route layer's job.
var ErrNotFound = errors.New("record not found")

// ProductFilter narrows GetProducts. Zero values mean "no filter"; entity
// ids start at 1, so 0 can never match a real category or seller.
type ProductFilter struct {
	CategoryID int
	SellerID   int
	Search     string
}

// CartUpdateResult disambiguates the outcome of a quantity update. A
// non-positive quantity removes the row, which would otherwise be
// indistinguishable from the row never having existed.
type CartUpdateResult int

const (
	CartUpdated CartUpdateResult = iota
	CartRemoved
	CartNotFound
)

// NewUser carries the fields a caller may supply at registration. The
// store assigns id and creation time; Role falls back to buyer.
type NewUser struct {
	Username string
	Email    string
	Password string
	Name     string
	Role     string
	Avatar   *string
}

// UserUpdate is a partial update; nil fields are left untouched.
type UserUpdate struct {
	Username *string
	Email    *string
	Password *string
	Name     *string
	Role     *string
	Avatar   *string
}

type NewCategory struct {
	Name string
	Slug string
}

// NewProduct carries caller-supplied product fields. Rating and
// ReviewCount are accepted but ignored: the store always initializes a
// product with rating 0 and zero reviews. IsActive nil defaults to true.
type NewProduct struct {
	Name        string
	Description string
	Price       decimal.Decimal
	Image       string
	Images      []string
	CategoryID  *int
	SellerID    int
	Stock       int
	IsActive    *bool
	Rating      decimal.Decimal
	ReviewCount int
}

// ProductUpdate is a partial update; nil fields are left untouched.
// A non-nil Images slice replaces the whole list.
type ProductUpdate struct {
	Name        *string
	Description *string
	Price       *decimal.Decimal
	Image       *string
	Images      []string
	CategoryID  *int
	Stock       *int
	IsActive    *bool
	Rating      *decimal.Decimal
	ReviewCount *int
}

// NewCartItem adds a product to a user's cart. Quantity below 1 is
// treated as 1. Adding a (user, product) pair already in the cart
// increments the existing row instead of inserting a new one.
type NewCartItem struct {
	UserID    int
	ProductID int
	Quantity  int
}

// NewOrder carries caller-supplied order fields. Status falls back to
// pending; the store assigns id, order number and creation time.
type NewOrder struct {
	BuyerID     int
	SellerID    int
	ProductID   int
	Quantity    int
	TotalAmount decimal.Decimal
	Status      string
}

// Storage is the single authority over entity state and the only place
// cross-entity joins happen. Weak references carry no integrity
// guarantee: rows pointing at deleted entities are silently dropped from
// the derived views rather than surfaced as errors.
type Storage interface {
	// Users
	GetUser(id int) (*domain.User, error)
	GetUserByEmail(email string) (*domain.User, error)
	GetUserByUsername(username string) (*domain.User, error)
	CreateUser(in NewUser) (*domain.User, error)
	UpdateUser(id int, in UserUpdate) (*domain.User, error)

	// Categories
	GetCategories() ([]domain.Category, error)
	GetCategory(id int) (*domain.Category, error)
	CreateCategory(in NewCategory) (*domain.Category, error)

	// Products
	GetProducts(f ProductFilter) ([]domain.ProductWithDetails, error)
	GetProduct(id int) (*domain.ProductWithDetails, error)
	CreateProduct(in NewProduct) (*domain.Product, error)
	UpdateProduct(id int, in ProductUpdate) (*domain.Product, error)
	DeleteProduct(id int) error
	GetFeaturedProducts() ([]domain.ProductWithDetails, error)
	GetSellerProducts(sellerID int) ([]domain.ProductWithDetails, error)

	// Cart
	GetCartItems(userID int) ([]domain.CartItemWithProduct, error)
	AddToCart(in NewCartItem) (*domain.CartItem, error)
	UpdateCartItem(id, quantity int) (*domain.CartItem, CartUpdateResult, error)
	RemoveFromCart(id int) error
	ClearCart(userID int) error

	// Orders
	GetOrders(userID int, role string) ([]domain.OrderWithDetails, error)
	CreateOrder(in NewOrder) (*domain.Order, error)
	UpdateOrderStatus(id int, status string) (*domain.Order, error)
}
