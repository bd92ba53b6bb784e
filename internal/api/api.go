// Package api exposes the product catalog and the order lifecycle over a
// small JSON HTTP surface.
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-faster/jx"

	"github.com/scholanova/ecommerce-go/internal/domain/order"
	"github.com/scholanova/ecommerce-go/internal/domain/product"
)

// Handler serves the HTTP API, delegating business logic to the order
// service and the product repository.
type Handler struct {
	products product.Repository
	orders   *order.Service
}

// NewHandler constructs a Handler with the required domain dependencies.
func NewHandler(products product.Repository, orders *order.Service) *Handler {
	return &Handler{products: products, orders: orders}
}

// Routes registers all API routes on the given router.
func (h *Handler) Routes(r chi.Router) {
	r.Route("/products", func(r chi.Router) {
		r.Get("/", h.listProducts)
		r.Get("/{id}", h.getProduct)
	})
	r.Route("/orders", func(r chi.Router) {
		r.Post("/", h.createOrder)
		r.Get("/{id}", h.getOrder)
		r.Post("/{id}/items", h.addOrderItem)
		r.Put("/{id}/items/{productID}", h.changeOrderItemQuantity)
		r.Post("/{id}/checkout", h.checkoutOrder)
		r.Post("/{id}/close", h.closeOrder)
	})
}

// writeJSON writes the encoder's buffer with the given status code.
func writeJSON(w http.ResponseWriter, status int, e *jx.Encoder) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(e.Bytes())
}

// writeError writes a {"code":..,"message":..} error body.
func writeError(w http.ResponseWriter, status int, message string) {
	e := &jx.Encoder{}
	e.ObjStart()
	e.FieldStart("code")
	e.Int(status)
	e.FieldStart("message")
	e.Str(message)
	e.ObjEnd()
	writeJSON(w, status, e)
}
