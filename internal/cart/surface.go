package cart

import (
	"context"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// View is the consumer-facing bundle of cart state and commands. Command
// funcs never return errors; the store has already logged them.
type View struct {
	Items     []EnrichedCartItem
	Total     decimal.Decimal
	ItemCount int
	IsOpen    bool

	AddToCart      func(ctx context.Context, productID string)
	UpdateQuantity func(ctx context.Context, itemID string, quantity int)
	RemoveFromCart func(ctx context.Context, itemID string)
	ClearCart      func(ctx context.Context)
	SetIsOpen      func(open bool)
}

// NewView binds a view to store. Prefer this over Use when the store is at hand.
func NewView(store *Store) View {
	snap := store.Snapshot()
	return View{
		Items:     snap.Items,
		Total:     snap.Total,
		ItemCount: snap.ItemCount,
		IsOpen:    snap.IsOpen,

		AddToCart: func(ctx context.Context, productID string) { _ = store.AddToCart(ctx, productID) },
		UpdateQuantity: func(ctx context.Context, itemID string, quantity int) {
			_ = store.UpdateQuantity(ctx, itemID, quantity)
		},
		RemoveFromCart: func(ctx context.Context, itemID string) { _ = store.RemoveFromCart(ctx, itemID) },
		ClearCart:      func(ctx context.Context) { _ = store.ClearCart(ctx) },
		SetIsOpen:      store.SetIsOpen,
	}
}

func inertView() View {
	return View{
		Items:          []EnrichedCartItem{},
		Total:          decimal.Zero,
		AddToCart:      func(context.Context, string) {},
		UpdateQuantity: func(context.Context, string, int) {},
		RemoveFromCart: func(context.Context, string) {},
		ClearCart:      func(context.Context) {},
		SetIsOpen:      func(bool) {},
	}
}

type storeKey struct{}

// Provide attaches store to ctx and performs its initial load. A failed
// load is logged by the store and leaves the cart empty.
func Provide(ctx context.Context, store *Store) context.Context {
	_ = store.Load(ctx)
	return context.WithValue(ctx, storeKey{}, store)
}

// FromContext returns the store attached by Provide.
func FromContext(ctx context.Context) (*Store, bool) {
	s, ok := ctx.Value(storeKey{}).(*Store)
	return s, ok && s != nil
}

// Use returns a live view of the store provided on ctx. Without one it
// logs a warning and returns an inert view whose commands do nothing.
func Use(ctx context.Context, logger *zap.Logger) View {
	if store, ok := FromContext(ctx); ok {
		return NewView(store)
	}
	if logger == nil {
		logger = zap.L()
	}
	logger.Warn("cart view requested outside a provided scope; returning inert view")
	return inertView()
}
