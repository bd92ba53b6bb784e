//go:build integration

package integration

import (
	"net/http"
	"testing"
)

func TestListProducts(t *testing.T) {
	resp := doGet(t, "/api/products")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	products := decodeJSON[[]productResponse](t, resp)
	if len(products) != 4 {
		t.Fatalf("expected 4 products, got %d", len(products))
	}

	// Catalog is ordered by name (C collation in the test container).
	if products[0].Name != "Clavier mécanique" {
		t.Errorf("first product: got %q, want %q", products[0].Name, "Clavier mécanique")
	}
}

func TestGetProduct(t *testing.T) {
	resp := doGet(t, "/api/products/"+mouseID)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	p := decodeJSON[productResponse](t, resp)
	if p.ID != mouseID {
		t.Errorf("id: got %q, want %q", p.ID, mouseID)
	}
	if p.Price != 12 {
		t.Errorf("price: got %v, want 12", p.Price)
	}
	if p.Currency != "EUR" {
		t.Errorf("currency: got %q, want EUR", p.Currency)
	}
}

func TestGetProduct_NotFound(t *testing.T) {
	resp := doGet(t, "/api/products/00000000-0000-4000-8000-000000000000")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}

	body := decodeJSON[errorResponse](t, resp)
	if body.Code != http.StatusNotFound {
		t.Errorf("error code: got %d, want 404", body.Code)
	}
}
