package store

import (
	"github.com/shopspring/decimal"

	"marketlane/internal/domain"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func intp(v int) *int { return &v }

// Seed loads the demo catalog: four categories, a seller and a buyer, and
// six listings. It goes through the Storage interface so both backends
// seed identically; ratings are applied as a follow-up update because
// product creation always zeroes them.
func Seed(st Storage) error {
	if cats, err := st.GetCategories(); err != nil {
		return err
	} else if len(cats) > 0 {
		return nil
	}

	categories := []NewCategory{
		{Name: "Electronics", Slug: "electronics"},
		{Name: "Fashion", Slug: "fashion"},
		{Name: "Home & Garden", Slug: "home-garden"},
		{Name: "Sports & Outdoors", Slug: "sports"},
	}
	for _, c := range categories {
		if _, err := st.CreateCategory(c); err != nil {
			return err
		}
	}

	users := []NewUser{
		{Username: "johndoe", Email: "john@example.com", Password: "password123", Name: "John Doe", Role: domain.RoleSeller},
		{Username: "janedoe", Email: "jane@example.com", Password: "password123", Name: "Jane Doe", Role: domain.RoleBuyer},
	}
	for _, u := range users {
		if _, err := st.CreateUser(u); err != nil {
			return err
		}
	}

	type listing struct {
		product     NewProduct
		rating      string
		reviewCount int
	}
	listings := []listing{
		{
			product: NewProduct{
				Name:        "Premium Wireless Earbuds",
				Description: "High-quality wireless earbuds with noise cancellation and long battery life.",
				Price:       dec("129.99"),
				Image:       "https://images.unsplash.com/photo-1572569511254-d8f925fe2cbb?auto=format&fit=crop&w=400&h=300",
				CategoryID:  intp(1),
				SellerID:    1,
				Stock:       45,
			},
			rating: "4.8", reviewCount: 234,
		},
		{
			product: NewProduct{
				Name:        "Ultra-thin Laptop",
				Description: "Powerful ultra-thin laptop perfect for work and entertainment.",
				Price:       dec("999.99"),
				Image:       "https://images.unsplash.com/photo-1496181133206-80ce9b88a853?auto=format&fit=crop&w=400&h=300",
				CategoryID:  intp(1),
				SellerID:    1,
				Stock:       12,
			},
			rating: "4.5", reviewCount: 89,
		},
		{
			product: NewProduct{
				Name:        "Luxury Smart Watch",
				Description: "Premium smart watch with health tracking and long-lasting battery.",
				Price:       dec("299.99"),
				Image:       "https://images.unsplash.com/photo-1523275335684-37898b6baf30?auto=format&fit=crop&w=400&h=300",
				CategoryID:  intp(1),
				SellerID:    1,
				Stock:       28,
			},
			rating: "4.9", reviewCount: 156,
		},
		{
			product: NewProduct{
				Name:        "Designer Backpack",
				Description: "Stylish and functional backpack perfect for everyday use.",
				Price:       dec("89.99"),
				Image:       "https://images.unsplash.com/photo-1553062407-98eeb64c6a62?auto=format&fit=crop&w=400&h=300",
				CategoryID:  intp(2),
				SellerID:    1,
				Stock:       67,
			},
			rating: "4.7", reviewCount: 43,
		},
		{
			product: NewProduct{
				Name:        "Premium Smartphone",
				Description: "Latest flagship smartphone with advanced camera and processing power.",
				Price:       dec("699.99"),
				Image:       "https://images.unsplash.com/photo-1511707171634-5f897ff02aa9?auto=format&fit=crop&w=400&h=300",
				CategoryID:  intp(1),
				SellerID:    1,
				Stock:       23,
			},
			rating: "4.6", reviewCount: 189,
		},
		{
			product: NewProduct{
				Name:        "Professional Headphones",
				Description: "Studio-quality headphones for professional audio work.",
				Price:       dec("149.99"),
				Image:       "https://images.unsplash.com/photo-1505740420928-5e560c06d30e?auto=format&fit=crop&w=400&h=300",
				CategoryID:  intp(1),
				SellerID:    1,
				Stock:       34,
			},
			rating: "4.4", reviewCount: 67,
		},
	}
	for _, l := range listings {
		l.product.Images = []string{l.product.Image}
		p, err := st.CreateProduct(l.product)
		if err != nil {
			return err
		}
		rating := dec(l.rating)
		count := l.reviewCount
		if _, err := st.UpdateProduct(p.ID, ProductUpdate{Rating: &rating, ReviewCount: &count}); err != nil {
			return err
		}
	}
	return nil
}
