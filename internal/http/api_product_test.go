package handlers_test

import (
	"net/http"
	"testing"
)

type productPayload struct {
	ID          int     `json:"id"`
	Name        string  `json:"name"`
	Price       string  `json:"price"`
	Rating      string  `json:"rating"`
	ReviewCount int     `json:"reviewCount"`
	IsActive    bool    `json:"isActive"`
	Category    *struct {
		Name string `json:"name"`
	} `json:"category"`
	Seller *struct {
		Username string `json:"username"`
	} `json:"seller"`
}

func TestProductListingAndFilters(t *testing.T) {
	app, st := newTestApp(t)
	if err := seedStore(st); err != nil {
		t.Fatal(err)
	}

	resp, raw := doJSON(t, app, "GET", "/api/products", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("want 200, got %d", resp.StatusCode)
	}
	var all []productPayload
	decode(t, raw, &all)
	if len(all) != 6 {
		t.Fatalf("want 6 products, got %d", len(all))
	}
	if all[0].Category == nil || all[0].Category.Name != "Electronics" {
		t.Fatalf("category join missing: %s", raw)
	}
	if all[0].Seller == nil || all[0].Seller.Username != "johndoe" {
		t.Fatalf("seller join missing: %s", raw)
	}
	// Prices travel as decimal strings.
	if all[0].Price != "129.99" {
		t.Fatalf("want string price 129.99, got %q", all[0].Price)
	}

	_, raw = doJSON(t, app, "GET", "/api/products?categoryId=2", nil)
	var fashion []productPayload
	decode(t, raw, &fashion)
	if len(fashion) != 1 || fashion[0].Name != "Designer Backpack" {
		t.Fatalf("category filter wrong: %s", raw)
	}

	_, raw = doJSON(t, app, "GET", "/api/products?search=laptop", nil)
	var hits []productPayload
	decode(t, raw, &hits)
	if len(hits) != 1 || hits[0].Name != "Ultra-thin Laptop" {
		t.Fatalf("search filter wrong: %s", raw)
	}

	resp, _ = doJSON(t, app, "GET", "/api/products?categoryId=abc", nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("bad filter: want 400, got %d", resp.StatusCode)
	}
}

func TestFeaturedEndpointTopFour(t *testing.T) {
	app, st := newTestApp(t)
	if err := seedStore(st); err != nil {
		t.Fatal(err)
	}
	resp, raw := doJSON(t, app, "GET", "/api/products/featured", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("want 200, got %d", resp.StatusCode)
	}
	var featured []productPayload
	decode(t, raw, &featured)
	if len(featured) != 4 {
		t.Fatalf("want 4 featured, got %d", len(featured))
	}
	if featured[0].Name != "Luxury Smart Watch" || featured[0].Rating != "4.9" {
		t.Fatalf("featured order wrong: %s", raw)
	}
}

func TestProductCreateUpdateDelete(t *testing.T) {
	app, st := newTestApp(t)
	if err := seedStore(st); err != nil {
		t.Fatal(err)
	}

	resp, raw := doJSON(t, app, "POST", "/api/products", map[string]any{
		"name":        "New Gadget",
		"description": "Shiny",
		"price":       "49.99",
		"sellerId":    1,
		"stock":       5,
		"rating":      "4.9",
		"reviewCount": 10,
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("create: want 200, got %d (%s)", resp.StatusCode, raw)
	}
	var created productPayload
	decode(t, raw, &created)
	if created.Rating != "0" || created.ReviewCount != 0 {
		t.Fatalf("rating not zeroed at creation: %s", raw)
	}

	resp, raw = doJSON(t, app, "PUT", "/api/products/7", map[string]any{"isActive": false, "stock": 9})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("update: want 200, got %d (%s)", resp.StatusCode, raw)
	}
	var updated productPayload
	decode(t, raw, &updated)
	if updated.IsActive {
		t.Fatalf("update did not deactivate: %s", raw)
	}

	// Inactive products stay reachable by direct id but leave the listing.
	resp, _ = doJSON(t, app, "GET", "/api/products/7", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("inactive by id: want 200, got %d", resp.StatusCode)
	}
	_, raw = doJSON(t, app, "GET", "/api/products", nil)
	var listed []productPayload
	decode(t, raw, &listed)
	for _, p := range listed {
		if p.ID == 7 {
			t.Fatalf("inactive product still listed: %s", raw)
		}
	}
	_, raw = doJSON(t, app, "GET", "/api/sellers/1/products", nil)
	var mine []productPayload
	decode(t, raw, &mine)
	if len(mine) != 7 {
		t.Fatalf("seller listing must include inactive, got %d", len(mine))
	}

	resp, _ = doJSON(t, app, "DELETE", "/api/products/7", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("delete: want 200, got %d", resp.StatusCode)
	}
	resp, _ = doJSON(t, app, "GET", "/api/products/7", nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("after delete: want 404, got %d", resp.StatusCode)
	}
	resp, _ = doJSON(t, app, "DELETE", "/api/products/7", nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("double delete: want 404, got %d", resp.StatusCode)
	}

	resp, _ = doJSON(t, app, "POST", "/api/products", map[string]any{"name": "", "price": "1", "sellerId": 1})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("invalid create: want 400, got %d", resp.StatusCode)
	}
}
