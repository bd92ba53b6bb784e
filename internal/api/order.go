package api

import (
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/scholanova/ecommerce-go/internal/domain/cart"
	"github.com/scholanova/ecommerce-go/internal/domain/order"
)

// itemRequest is one line of a cart mutation request.
type itemRequest struct {
	ProductID string
	Quantity  int
}

func (h *Handler) createOrder(w http.ResponseWriter, r *http.Request) {
	items, err := decodeCreateOrderRequest(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	lines := make([]order.Line, 0, len(items))
	for _, item := range items {
		lines = append(lines, order.Line{ProductID: item.ProductID, Quantity: item.Quantity})
	}

	// The cart is assembled before anything is persisted: a rejected line
	// must not leave a half-built order behind.
	o, err := h.orders.CreateWithLines(r.Context(), lines)
	if err != nil {
		h.writeOrderError(w, r, err)
		return
	}

	e := &jx.Encoder{}
	encodeOrder(e, o)
	writeJSON(w, http.StatusCreated, e)
}

func (h *Handler) getOrder(w http.ResponseWriter, r *http.Request) {
	o, err := h.orders.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeOrderError(w, r, err)
		return
	}

	e := &jx.Encoder{}
	encodeOrder(e, o)
	writeJSON(w, http.StatusOK, e)
}

func (h *Handler) addOrderItem(w http.ResponseWriter, r *http.Request) {
	item, err := decodeItemRequest(r.Body)
	if err != nil || item.ProductID == "" {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	o, err := h.orders.AddProduct(r.Context(), chi.URLParam(r, "id"), item.ProductID, item.Quantity)
	if err != nil {
		h.writeOrderError(w, r, err)
		return
	}

	e := &jx.Encoder{}
	encodeOrder(e, o)
	writeJSON(w, http.StatusOK, e)
}

func (h *Handler) changeOrderItemQuantity(w http.ResponseWriter, r *http.Request) {
	item, err := decodeItemRequest(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	o, err := h.orders.ChangeProductQuantity(
		r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "productID"), item.Quantity,
	)
	if err != nil {
		h.writeOrderError(w, r, err)
		return
	}

	e := &jx.Encoder{}
	encodeOrder(e, o)
	writeJSON(w, http.StatusOK, e)
}

func (h *Handler) checkoutOrder(w http.ResponseWriter, r *http.Request) {
	o, err := h.orders.Checkout(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeOrderError(w, r, err)
		return
	}

	e := &jx.Encoder{}
	encodeOrder(e, o)
	writeJSON(w, http.StatusOK, e)
}

func (h *Handler) closeOrder(w http.ResponseWriter, r *http.Request) {
	o, err := h.orders.Close(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeOrderError(w, r, err)
		return
	}

	e := &jx.Encoder{}
	encodeOrder(e, o)
	writeJSON(w, http.StatusOK, e)
}

// writeOrderError maps domain errors to HTTP responses.
func (h *Handler) writeOrderError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, order.ErrNotFound):
		writeError(w, http.StatusNotFound, "order not found")
	case errors.Is(err, order.ErrOrderClosed):
		writeError(w, http.StatusConflict, "order is closed")
	case errors.Is(err, order.ErrZeroQuantity):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		var cartErr *cart.CartError
		if errors.As(err, &cartErr) {
			writeError(w, http.StatusUnprocessableEntity, cartErr.Error())
			return
		}
		zctx.From(r.Context()).Error("order operation", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

// decodeCreateOrderRequest parses an optional {"items":[...]} body. An empty
// body creates an order without a cart.
func decodeCreateOrderRequest(body io.Reader) ([]itemRequest, error) {
	data, err := io.ReadAll(body)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, nil
	}

	var items []itemRequest
	d := jx.DecodeBytes(data)
	if err := d.Obj(func(d *jx.Decoder, key string) error {
		if key != "items" {
			return d.Skip()
		}
		return d.Arr(func(d *jx.Decoder) error {
			item, err := decodeItem(d)
			if err != nil {
				return err
			}
			items = append(items, item)
			return nil
		})
	}); err != nil {
		return nil, err
	}
	return items, nil
}

func decodeItemRequest(body io.Reader) (itemRequest, error) {
	data, err := io.ReadAll(body)
	if err != nil {
		return itemRequest{}, err
	}
	return decodeItem(jx.DecodeBytes(data))
}

func decodeItem(d *jx.Decoder) (itemRequest, error) {
	var item itemRequest
	err := d.Obj(func(d *jx.Decoder, key string) error {
		var err error
		switch key {
		case "productId":
			item.ProductID, err = d.Str()
		case "quantity":
			item.Quantity, err = d.Int()
		default:
			err = d.Skip()
		}
		return err
	})
	return item, err
}

func encodeOrder(e *jx.Encoder, o *order.Order) {
	e.ObjStart()
	e.FieldStart("id")
	e.Str(o.ID)
	e.FieldStart("number")
	e.Str(o.Number)
	e.FieldStart("status")
	e.Str(string(o.Status))
	if !o.IssueDate.IsZero() {
		e.FieldStart("issueDate")
		e.Str(o.IssueDate.Format(time.RFC3339))
	}

	e.FieldStart("items")
	e.ArrStart()
	if o.Cart != nil {
		for _, item := range o.Cart.Items {
			e.ObjStart()
			e.FieldStart("productId")
			e.Str(item.Product.ID)
			e.FieldStart("name")
			e.Str(item.Product.Name)
			e.FieldStart("unitPrice")
			e.Float64(item.Product.Price.InexactFloat64())
			e.FieldStart("quantity")
			e.Int(item.Quantity)
			e.FieldStart("lineTotal")
			e.Float64(item.LineTotal().InexactFloat64())
			e.ObjEnd()
		}
	}
	e.ArrEnd()

	total := cartTotal(o)
	e.FieldStart("total")
	e.Float64(total)
	e.FieldStart("discount")
	e.Float64(o.Discount().InexactFloat64())
	e.FieldStart("price")
	e.Float64(o.Price().InexactFloat64())
	e.ObjEnd()
}

func cartTotal(o *order.Order) float64 {
	if o.Cart == nil {
		return 0
	}
	return o.Cart.TotalPrice().InexactFloat64()
}
