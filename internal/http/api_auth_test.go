package handlers_test

import (
	"net/http"
	"strings"
	"testing"
)

func TestRegisterStripsPasswordAndRejectsDuplicates(t *testing.T) {
	app, _ := newTestApp(t)

	body := map[string]any{
		"username": "amy",
		"email":    "amy@example.com",
		"password": "secret123",
		"name":     "Amy",
		"role":     "seller",
	}
	resp, raw := doJSON(t, app, "POST", "/api/auth/register", body)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("register: want 200, got %d (%s)", resp.StatusCode, raw)
	}
	if strings.Contains(string(raw), "secret123") || strings.Contains(string(raw), "password") {
		t.Fatalf("password leaked: %s", raw)
	}
	var u struct {
		ID       int    `json:"id"`
		Username string `json:"username"`
		Role     string `json:"role"`
	}
	decode(t, raw, &u)
	if u.ID != 1 || u.Username != "amy" || u.Role != "seller" {
		t.Fatalf("unexpected user payload: %s", raw)
	}

	// Same email again is a validation-level rejection, not a conflict 500.
	resp, raw = doJSON(t, app, "POST", "/api/auth/register", body)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("duplicate: want 400, got %d (%s)", resp.StatusCode, raw)
	}
}

func TestRegisterValidatesPayload(t *testing.T) {
	app, _ := newTestApp(t)
	bad := []map[string]any{
		{"username": "amy", "email": "not-an-email", "password": "secret123", "name": "Amy"},
		{"username": "x", "email": "a@b.com", "password": "secret123", "name": "Amy"},
		{"username": "amy", "email": "a@b.com", "password": "tiny", "name": "Amy"},
		{"username": "amy", "email": "a@b.com", "password": "secret123", "name": "Amy", "role": "admin"},
	}
	for i, body := range bad {
		resp, raw := doJSON(t, app, "POST", "/api/auth/register", body)
		if resp.StatusCode != http.StatusBadRequest {
			t.Fatalf("case %d: want 400, got %d (%s)", i, resp.StatusCode, raw)
		}
	}
}

func TestLoginSuccessAndFailure(t *testing.T) {
	app, st := newTestApp(t)
	if err := seedStore(st); err != nil {
		t.Fatal(err)
	}

	resp, raw := doJSON(t, app, "POST", "/api/auth/login", map[string]any{
		"email": "john@example.com", "password": "password123",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login: want 200, got %d (%s)", resp.StatusCode, raw)
	}
	if strings.Contains(string(raw), "password123") {
		t.Fatalf("password leaked: %s", raw)
	}
	var u struct {
		Username string `json:"username"`
	}
	decode(t, raw, &u)
	if u.Username != "johndoe" {
		t.Fatalf("unexpected login payload: %s", raw)
	}

	resp, _ = doJSON(t, app, "POST", "/api/auth/login", map[string]any{
		"email": "john@example.com", "password": "wrong",
	})
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("bad creds: want 401, got %d", resp.StatusCode)
	}
	resp, _ = doJSON(t, app, "POST", "/api/auth/login", map[string]any{
		"email": "nobody@example.com", "password": "password123",
	})
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("unknown user: want 401, got %d", resp.StatusCode)
	}
}

func TestGetUserByID(t *testing.T) {
	app, st := newTestApp(t)
	if err := seedStore(st); err != nil {
		t.Fatal(err)
	}

	resp, raw := doJSON(t, app, "GET", "/api/users/2", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("want 200, got %d", resp.StatusCode)
	}
	var u struct {
		Username string `json:"username"`
	}
	decode(t, raw, &u)
	if u.Username != "janedoe" {
		t.Fatalf("unexpected user: %s", raw)
	}

	resp, _ = doJSON(t, app, "GET", "/api/users/99", nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("want 404, got %d", resp.StatusCode)
	}
	resp, _ = doJSON(t, app, "GET", "/api/users/abc", nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("want 400, got %d", resp.StatusCode)
	}
}
