package cart

import (
	"context"
	"fmt"
	"sync"

	"github.com/andreasstove999/artisan-marketplace/internal/catalog"
)

// fakeAPI behaves like a small backing store: adds merge per product,
// updates and removes report not-found for unknown ids.
type fakeAPI struct {
	mu sync.Mutex

	items    []catalog.CartItem
	products map[string]catalog.Product
	artisans map[string]catalog.Artisan
	nextID   int

	fail  map[string]error
	calls map[string]int

	// afterGetCart runs after GetCartItems has copied its result, with
	// the 1-based call number. It may block.
	afterGetCart func(call int)
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{
		products: map[string]catalog.Product{},
		artisans: map[string]catalog.Artisan{},
		fail:     map[string]error{},
		calls:    map[string]int{},
	}
}

// withScenario loads the bowl/Jane fixture used across tests.
func (f *fakeAPI) withScenario() *fakeAPI {
	f.artisans["art-7"] = catalog.Artisan{ID: "art-7", Name: "Jane"}
	f.products["prod-42"] = catalog.Product{ID: "prod-42", ArtisanID: "art-7", Name: "Bowl", Price: "19.99"}
	return f
}

func (f *fakeAPI) setFail(method string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err == nil {
		delete(f.fail, method)
		return
	}
	f.fail[method] = err
}

func (f *fakeAPI) callCount(method string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[method]
}

func (f *fakeAPI) totalCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		n += c
	}
	return n
}

func (f *fakeAPI) enter(method string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[method]++
	return f.calls[method], f.fail[method]
}

func (f *fakeAPI) GetCartItems(ctx context.Context, sessionID string) ([]catalog.CartItem, error) {
	call, err := f.enter("GetCartItems")
	if err != nil {
		return nil, err
	}
	f.mu.Lock()
	out := []catalog.CartItem{}
	for _, it := range f.items {
		if it.SessionID == sessionID {
			out = append(out, it)
		}
	}
	hook := f.afterGetCart
	f.mu.Unlock()

	if hook != nil {
		hook(call)
	}
	return out, nil
}

func (f *fakeAPI) GetProduct(ctx context.Context, id string) (catalog.Product, error) {
	if _, err := f.enter("GetProduct"); err != nil {
		return catalog.Product{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.products[id]
	if !ok {
		return catalog.Product{}, catalog.ErrNotFound
	}
	return p, nil
}

func (f *fakeAPI) GetArtisan(ctx context.Context, id string) (catalog.Artisan, error) {
	if _, err := f.enter("GetArtisan"); err != nil {
		return catalog.Artisan{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.artisans[id]
	if !ok {
		return catalog.Artisan{}, catalog.ErrNotFound
	}
	return a, nil
}

func (f *fakeAPI) AddToCart(ctx context.Context, in catalog.NewCartItem) (catalog.CartItem, error) {
	if _, err := f.enter("AddToCart"); err != nil {
		return catalog.CartItem{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, it := range f.items {
		if it.SessionID == in.SessionID && it.ProductID == in.ProductID {
			f.items[i].Quantity += in.Quantity
			return f.items[i], nil
		}
	}
	f.nextID++
	it := catalog.CartItem{ID: fmt.Sprintf("ci-%d", f.nextID), SessionID: in.SessionID, ProductID: in.ProductID, Quantity: in.Quantity}
	f.items = append(f.items, it)
	return it, nil
}

func (f *fakeAPI) UpdateCartItem(ctx context.Context, id string, quantity int) (catalog.CartItem, error) {
	if _, err := f.enter("UpdateCartItem"); err != nil {
		return catalog.CartItem{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, it := range f.items {
		if it.ID == id {
			f.items[i].Quantity = quantity
			return f.items[i], nil
		}
	}
	return catalog.CartItem{}, catalog.ErrNotFound
}

func (f *fakeAPI) RemoveFromCart(ctx context.Context, id string) error {
	if _, err := f.enter("RemoveFromCart"); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, it := range f.items {
		if it.ID == id {
			f.items = append(f.items[:i], f.items[i+1:]...)
			return nil
		}
	}
	return catalog.ErrNotFound
}

func (f *fakeAPI) ClearCart(ctx context.Context, sessionID string) error {
	if _, err := f.enter("ClearCart"); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	kept := f.items[:0]
	for _, it := range f.items {
		if it.SessionID != sessionID {
			kept = append(kept, it)
		}
	}
	f.items = kept
	return nil
}

// setQuantity changes the backing store behind the cart's back.
func (f *fakeAPI) setQuantity(id string, quantity int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.items {
		if f.items[i].ID == id {
			f.items[i].Quantity = quantity
		}
	}
}

var _ ContentAPI = (*fakeAPI)(nil)
