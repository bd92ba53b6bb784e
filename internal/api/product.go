package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/scholanova/ecommerce-go/internal/domain/product"
)

func (h *Handler) listProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.products.List(r.Context())
	if err != nil {
		zctx.From(r.Context()).Error("list products", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	e := &jx.Encoder{}
	e.ArrStart()
	for i := range products {
		encodeProduct(e, &products[i])
	}
	e.ArrEnd()
	writeJSON(w, http.StatusOK, e)
}

func (h *Handler) getProduct(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	p, err := h.products.FindByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, product.ErrNotFound) {
			writeError(w, http.StatusNotFound, "product not found")
			return
		}
		zctx.From(r.Context()).Error("get product", zap.String("id", id), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	e := &jx.Encoder{}
	encodeProduct(e, p)
	writeJSON(w, http.StatusOK, e)
}

func encodeProduct(e *jx.Encoder, p *product.Product) {
	e.ObjStart()
	e.FieldStart("id")
	e.Str(p.ID)
	e.FieldStart("name")
	e.Str(p.Name)
	e.FieldStart("description")
	e.Str(p.Description)
	e.FieldStart("price")
	e.Float64(p.Price.InexactFloat64())
	e.FieldStart("taxRate")
	e.Float64(p.TaxRate.InexactFloat64())
	e.FieldStart("currency")
	e.Str(p.Currency)
	e.ObjEnd()
}
