package store_test

import (
	"errors"
	"sync"
	"testing"

	"marketlane/internal/domain"
	"marketlane/internal/store"
)

func sqlmem(t *testing.T) *store.SQLStore {
	t.Helper()
	st, err := store.OpenSQL(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	return st
}

func TestSQLCreateProductZeroesRating(t *testing.T) {
	st := sqlmem(t)
	p := addProduct(t, st, store.NewProduct{
		Name:        "Widget",
		Price:       dec(t, "19.99"),
		SellerID:    1,
		Rating:      dec(t, "4.9"),
		ReviewCount: 12,
	})
	got, err := st.GetProduct(p.ID)
	if err != nil {
		t.Fatal(err)
	}
	if !got.Rating.IsZero() || got.ReviewCount != 0 {
		t.Fatalf("want zeroed rating/reviews, got %s / %d", got.Rating, got.ReviewCount)
	}
	if got.Price.String() != "19.99" {
		t.Fatalf("price round-trip broken: %s", got.Price)
	}
}

func TestSQLListingAndSellerVisibility(t *testing.T) {
	st := sqlmem(t)
	active := addProduct(t, st, store.NewProduct{Name: "Visible", Price: dec(t, "1"), SellerID: 7})
	inactive := addProduct(t, st, store.NewProduct{Name: "Hidden", Price: dec(t, "1"), SellerID: 7, IsActive: boolp(false)})

	list, err := st.GetProducts(store.ProductFilter{})
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 1 || list[0].ID != active.ID {
		t.Fatalf("want only active product, got %+v", list)
	}
	if _, err := st.GetProduct(inactive.ID); err != nil {
		t.Fatalf("inactive product must stay fetchable: %v", err)
	}
	mine, err := st.GetSellerProducts(7)
	if err != nil {
		t.Fatal(err)
	}
	if len(mine) != 2 {
		t.Fatalf("want 2 seller products, got %d", len(mine))
	}
}

func TestSQLSearchFilter(t *testing.T) {
	st := sqlmem(t)
	addProduct(t, st, store.NewProduct{Name: "Gaming Mouse", Description: "wired", Price: dec(t, "10"), CategoryID: intp(1), SellerID: 1})
	addProduct(t, st, store.NewProduct{Name: "Keyboard", Description: "great for GAMING", Price: dec(t, "20"), CategoryID: intp(1), SellerID: 2})

	got, err := st.GetProducts(store.ProductFilter{Search: "gaming", SellerID: 2})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].Name != "Keyboard" {
		t.Fatalf("want the keyboard via description match, got %+v", got)
	}
}

func TestSQLSearchTreatsWildcardsLiterally(t *testing.T) {
	st := sqlmem(t)
	addProduct(t, st, store.NewProduct{Name: "100% Cotton Shirt", Price: dec(t, "10"), SellerID: 1})
	addProduct(t, st, store.NewProduct{Name: "1000 Piece Puzzle", Price: dec(t, "20"), SellerID: 1})

	got, err := st.GetProducts(store.ProductFilter{Search: "100%"})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].Name != "100% Cotton Shirt" {
		t.Fatalf("percent must match literally, got %+v", got)
	}

	got, err = st.GetProducts(store.ProductFilter{Search: "e_e"})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Fatalf("underscore must not match as wildcard, got %+v", got)
	}
}

func TestSQLConcurrentPartialUpdatesKeepBothFields(t *testing.T) {
	st := sqlmem(t)
	p := addProduct(t, st, store.NewProduct{Name: "P", Price: dec(t, "5"), SellerID: 1, Stock: 1})

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 1; i <= 100; i++ {
			if _, err := st.UpdateProduct(p.ID, store.ProductUpdate{Stock: intp(i)}); err != nil {
				t.Error(err)
				return
			}
		}
	}()
	go func() {
		defer wg.Done()
		desc := "restocked"
		for i := 0; i < 100; i++ {
			if _, err := st.UpdateProduct(p.ID, store.ProductUpdate{Description: &desc}); err != nil {
				t.Error(err)
				return
			}
		}
	}()
	wg.Wait()

	got, err := st.GetProduct(p.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Stock != 100 {
		t.Fatalf("stock writes lost: final %d, want 100", got.Stock)
	}
	if got.Description != "restocked" {
		t.Fatalf("description writes lost: %q", got.Description)
	}
}

func TestSQLConcurrentAddsMergeIntoOneRow(t *testing.T) {
	st := sqlmem(t)
	addProduct(t, st, store.NewProduct{Name: "P", Price: dec(t, "5"), SellerID: 1})

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := st.AddToCart(store.NewCartItem{UserID: 1, ProductID: 1, Quantity: 1}); err != nil {
				t.Error(err)
			}
		}()
	}
	wg.Wait()

	items, err := st.GetCartItems(1)
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 1 || items[0].Quantity != 20 {
		t.Fatalf("want one row with quantity 20, got %+v", items)
	}
}

func TestSQLFeaturedOrdering(t *testing.T) {
	st := sqlmem(t)
	ratings := []string{"3.1", "4.9", "4.5", "4.9", "2.0", "4.7"}
	for _, r := range ratings {
		p := addProduct(t, st, store.NewProduct{Name: "P", Price: dec(t, "1"), SellerID: 1})
		setRating(t, st, p.ID, r)
	}
	featured, err := st.GetFeaturedProducts()
	if err != nil {
		t.Fatal(err)
	}
	if len(featured) != 4 {
		t.Fatalf("want 4 featured, got %d", len(featured))
	}
	if featured[0].ID != 2 || featured[1].ID != 4 {
		t.Fatalf("tie-break not by insertion order: ids %d, %d", featured[0].ID, featured[1].ID)
	}
	if !featured[3].Rating.Equal(dec(t, "4.5")) {
		t.Fatalf("want 4.5 in last slot, got %s", featured[3].Rating)
	}
}

func TestSQLCartDedupAndTriState(t *testing.T) {
	st := sqlmem(t)
	addProduct(t, st, store.NewProduct{Name: "P", Price: dec(t, "5"), SellerID: 1})

	first, err := st.AddToCart(store.NewCartItem{UserID: 1, ProductID: 1, Quantity: 2})
	if err != nil {
		t.Fatal(err)
	}
	second, err := st.AddToCart(store.NewCartItem{UserID: 1, ProductID: 1, Quantity: 2})
	if err != nil {
		t.Fatal(err)
	}
	if second.ID != first.ID || second.Quantity != 4 {
		t.Fatalf("dedup broken: %+v", second)
	}

	_, result, err := st.UpdateCartItem(first.ID, 0)
	if err != nil || result != store.CartRemoved {
		t.Fatalf("want removal, got result=%v err=%v", result, err)
	}
	_, result, err = st.UpdateCartItem(first.ID, 3)
	if err != nil || result != store.CartNotFound {
		t.Fatalf("want not found, got result=%v err=%v", result, err)
	}
	if err := st.RemoveFromCart(99); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("want not found on unknown remove, got %v", err)
	}
	if err := st.ClearCart(1); err != nil {
		t.Fatalf("clear on empty cart must succeed: %v", err)
	}
}

func TestSQLCartDropsDeletedProduct(t *testing.T) {
	st := sqlmem(t)
	kept := addProduct(t, st, store.NewProduct{Name: "Kept", Price: dec(t, "5"), SellerID: 1})
	doomed := addProduct(t, st, store.NewProduct{Name: "Doomed", Price: dec(t, "5"), SellerID: 1})
	if _, err := st.AddToCart(store.NewCartItem{UserID: 2, ProductID: kept.ID}); err != nil {
		t.Fatal(err)
	}
	if _, err := st.AddToCart(store.NewCartItem{UserID: 2, ProductID: doomed.ID}); err != nil {
		t.Fatal(err)
	}
	if err := st.DeleteProduct(doomed.ID); err != nil {
		t.Fatal(err)
	}
	items, err := st.GetCartItems(2)
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 1 || items[0].ProductID != kept.ID {
		t.Fatalf("want only surviving product, got %+v", items)
	}
}

func TestSQLOrdersRoundTrip(t *testing.T) {
	st := sqlmem(t)
	buyer, _ := st.CreateUser(store.NewUser{Username: "b", Email: "b@x.com", Password: "pw", Name: "B"})
	seller, _ := st.CreateUser(store.NewUser{Username: "s", Email: "s@x.com", Password: "pw", Name: "S", Role: domain.RoleSeller})
	p := addProduct(t, st, store.NewProduct{Name: "P", Price: dec(t, "10"), SellerID: seller.ID})

	o, err := st.CreateOrder(store.NewOrder{
		BuyerID: buyer.ID, SellerID: seller.ID, ProductID: p.ID,
		Quantity: 2, TotalAmount: dec(t, "20.00"),
	})
	if err != nil {
		t.Fatal(err)
	}
	if o.Status != domain.OrderStatusPending || o.OrderNumber == "" {
		t.Fatalf("defaults wrong: %+v", o)
	}

	asSeller, err := st.GetOrders(seller.ID, domain.RoleSeller)
	if err != nil {
		t.Fatal(err)
	}
	if len(asSeller) != 1 || asSeller[0].TotalAmount.String() != "20.00" {
		t.Fatalf("seller view wrong: %+v", asSeller)
	}

	updated, err := st.UpdateOrderStatus(o.ID, domain.OrderStatusConfirmed)
	if err != nil || updated.Status != domain.OrderStatusConfirmed {
		t.Fatalf("status update wrong: %+v err=%v", updated, err)
	}
}

func TestSQLSeed(t *testing.T) {
	st := sqlmem(t)
	if err := store.Seed(st); err != nil {
		t.Fatal(err)
	}
	if err := store.Seed(st); err != nil {
		t.Fatal(err)
	}
	products, err := st.GetProducts(store.ProductFilter{})
	if err != nil {
		t.Fatal(err)
	}
	if len(products) != 6 {
		t.Fatalf("want 6 seeded products, got %d", len(products))
	}
	featured, err := st.GetFeaturedProducts()
	if err != nil {
		t.Fatal(err)
	}
	if len(featured) != 4 || featured[0].Name != "Luxury Smart Watch" {
		t.Fatalf("featured seed wrong: %+v", featured)
	}
}
