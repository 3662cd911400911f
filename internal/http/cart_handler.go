package httpapi

import (
	"errors"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/andreasstove999/artisan-marketplace/internal/cart"
	"github.com/andreasstove999/artisan-marketplace/internal/catalog"
	"github.com/andreasstove999/artisan-marketplace/internal/events"
	"github.com/andreasstove999/artisan-marketplace/internal/session"
)

// GetCartItems lists the raw line items of the session in the path.
func (h *Handler) GetCartItems(w http.ResponseWriter, r *http.Request) {
	id, ok := pathParam(w, r, "id")
	if !ok {
		return
	}
	out, err := h.repo.GetCartItems(r.Context(), id)
	if err != nil {
		h.internalError(w, r, "Failed to fetch cart items", err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) AddToCart(w http.ResponseWriter, r *http.Request) {
	var in catalog.NewCartItem
	if err := decodeJSON(r, &in); err != nil {
		writeInvalid(w, "Invalid cart item data", err)
		return
	}
	item, err := h.repo.AddToCart(r.Context(), in)
	if errors.Is(err, catalog.ErrValidation) {
		writeInvalid(w, "Invalid cart item data", err)
		return
	}
	if err != nil {
		h.internalError(w, r, "Failed to add item to cart", err)
		return
	}
	h.publish(r.Context(), item.SessionID, events.CartItemAdded(item, h.now()))
	writeJSON(w, http.StatusCreated, item)
}

func (h *Handler) UpdateCartItem(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Quantity *int `json:"quantity"`
	}
	if err := decodeJSON(r, &body); err != nil || body.Quantity == nil || *body.Quantity < 1 {
		writeError(w, http.StatusBadRequest, "Invalid quantity")
		return
	}

	id, ok := pathParam(w, r, "id")
	if !ok {
		return
	}
	item, err := h.repo.UpdateCartItem(r.Context(), id, *body.Quantity)
	switch {
	case errors.Is(err, catalog.ErrNotFound):
		writeError(w, http.StatusNotFound, "Cart item not found")
		return
	case errors.Is(err, catalog.ErrValidation):
		writeError(w, http.StatusBadRequest, "Invalid quantity")
		return
	case err != nil:
		h.internalError(w, r, "Failed to update cart item", err)
		return
	}
	h.publish(r.Context(), item.SessionID, events.CartItemUpdated(item, h.now()))
	writeJSON(w, http.StatusOK, item)
}

func (h *Handler) RemoveFromCart(w http.ResponseWriter, r *http.Request) {
	id, ok := pathParam(w, r, "id")
	if !ok {
		return
	}
	err := h.repo.RemoveFromCart(r.Context(), id)
	if errors.Is(err, catalog.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Cart item not found")
		return
	}
	if err != nil {
		h.internalError(w, r, "Failed to remove cart item", err)
		return
	}

	// the row is gone, so the session comes from the caller when it sent one
	sid, _ := session.FromContext(r.Context())
	partition := sid
	if partition == "" {
		partition = id
	}
	h.publish(r.Context(), partition, events.CartItemRemoved(id, sid, h.now()))
	writeJSON(w, http.StatusOK, map[string]string{"message": "Item removed from cart"})
}

func (h *Handler) ClearCart(w http.ResponseWriter, r *http.Request) {
	sid, ok := pathParam(w, r, "sessionId")
	if !ok {
		return
	}
	if err := h.repo.ClearCart(r.Context(), sid); err != nil {
		h.internalError(w, r, "Failed to clear cart", err)
		return
	}
	h.publish(r.Context(), sid, events.CartCleared(sid, h.now()))
	writeJSON(w, http.StatusOK, map[string]string{"message": "Cart cleared"})
}

type cartSummary struct {
	SessionID string                  `json:"sessionId"`
	Items     []cart.EnrichedCartItem `json:"items"`
	Total     decimal.Decimal         `json:"total"`
	ItemCount int                     `json:"itemCount"`
}

// GetCartSummary runs a cart store over the repository for the session in
// the path and returns its enriched view.
func (h *Handler) GetCartSummary(w http.ResponseWriter, r *http.Request) {
	sid, ok := pathParam(w, r, "id")
	if !ok {
		return
	}
	store := cart.NewStore(h.repo, session.Static(sid), h.logger)
	if err := store.Load(r.Context()); err != nil {
		if errors.Is(err, session.ErrNoSession) {
			writeError(w, http.StatusBadRequest, "Invalid session")
			return
		}
		h.internalError(w, r, "Failed to fetch cart summary", err)
		return
	}
	snap := store.Snapshot()
	writeJSON(w, http.StatusOK, cartSummary{
		SessionID: sid,
		Items:     snap.Items,
		Total:     snap.Total,
		ItemCount: snap.ItemCount,
	})
}
