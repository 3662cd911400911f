package catalog

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryRepository is a mutex-guarded in-process Repository used for demo
// runs and tests. Lists are returned in insertion order.
type MemoryRepository struct {
	mu sync.RWMutex

	now func() time.Time
	seq int64

	artisans    map[string]Artisan
	products    map[string]Product
	stories     map[string]Story
	cartItems   map[string]CartItem
	generations map[string]AIGeneration

	order map[string]int64
}

var _ Repository = (*MemoryRepository)(nil)

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		now:         func() time.Time { return time.Now().UTC() },
		artisans:    make(map[string]Artisan),
		products:    make(map[string]Product),
		stories:     make(map[string]Story),
		cartItems:   make(map[string]CartItem),
		generations: make(map[string]AIGeneration),
		order:       make(map[string]int64),
	}
}

func (m *MemoryRepository) track(id string) {
	m.seq++
	m.order[id] = m.seq
}

func sorted[T any](m *MemoryRepository, src map[string]T, id func(T) string, keep func(T) bool) []T {
	out := make([]T, 0, len(src))
	for _, v := range src {
		if keep == nil || keep(v) {
			out = append(out, v)
		}
	}
	sort.Slice(out, func(i, j int) bool { return m.order[id(out[i])] < m.order[id(out[j])] })
	return out
}

func artisanID(a Artisan) string         { return a.ID }
func productID(p Product) string         { return p.ID }
func storyID(s Story) string             { return s.ID }
func cartItemID(c CartItem) string       { return c.ID }
func generationID(g AIGeneration) string { return g.ID }

// --- artisans ---

func (m *MemoryRepository) GetArtisans(ctx context.Context) ([]Artisan, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return sorted(m, m.artisans, artisanID, nil), nil
}

func (m *MemoryRepository) GetFeaturedArtisans(ctx context.Context) ([]Artisan, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return sorted(m, m.artisans, artisanID, func(a Artisan) bool { return a.Featured }), nil
}

func (m *MemoryRepository) GetArtisan(ctx context.Context, id string) (Artisan, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	a, ok := m.artisans[id]
	if !ok {
		return Artisan{}, ErrNotFound
	}
	return a, nil
}

func (m *MemoryRepository) CreateArtisan(ctx context.Context, in NewArtisan) (Artisan, error) {
	if err := in.Validate(); err != nil {
		return Artisan{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	a := Artisan{
		ID:           uuid.NewString(),
		Name:         in.Name,
		Specialty:    in.Specialty,
		Location:     in.Location,
		Story:        in.Story,
		ProfileImage: in.ProfileImage,
		Experience:   in.Experience,
		Verified:     in.Verified,
		Featured:     in.Featured,
		CreatedAt:    m.now(),
	}
	m.artisans[a.ID] = a
	m.track(a.ID)
	return a, nil
}

// --- products ---

func (m *MemoryRepository) GetProducts(ctx context.Context) ([]Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return sorted(m, m.products, productID, nil), nil
}

func (m *MemoryRepository) GetProductsByCategory(ctx context.Context, category string) ([]Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return sorted(m, m.products, productID, func(p Product) bool { return p.Category == category }), nil
}

func (m *MemoryRepository) GetFeaturedProducts(ctx context.Context) ([]Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return sorted(m, m.products, productID, func(p Product) bool { return p.Featured }), nil
}

func (m *MemoryRepository) GetProductsByArtisan(ctx context.Context, artisanID string) ([]Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return sorted(m, m.products, productID, func(p Product) bool { return p.ArtisanID == artisanID }), nil
}

func (m *MemoryRepository) GetProduct(ctx context.Context, id string) (Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.products[id]
	if !ok {
		return Product{}, ErrNotFound
	}
	return p, nil
}

func (m *MemoryRepository) CreateProduct(ctx context.Context, in NewProduct) (Product, error) {
	if err := in.Validate(); err != nil {
		return Product{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.artisans[in.ArtisanID]; !ok {
		return Product{}, &ValidationError{Fields: []FieldError{{Field: "artisanId", Message: "unknown artisan"}}}
	}
	inStock := true
	if in.InStock != nil {
		inStock = *in.InStock
	}
	images := append([]string{}, in.Images...)

	p := Product{
		ID:          uuid.NewString(),
		ArtisanID:   in.ArtisanID,
		Name:        in.Name,
		Description: in.Description,
		Price:       in.Price,
		Category:    in.Category,
		Images:      images,
		Rating:      in.Rating,
		Featured:    in.Featured,
		InStock:     inStock,
		CreatedAt:   m.now(),
	}
	m.products[p.ID] = p
	m.track(p.ID)
	return p, nil
}

// --- stories ---

func (m *MemoryRepository) GetStories(ctx context.Context) ([]Story, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return sorted(m, m.stories, storyID, nil), nil
}

func (m *MemoryRepository) GetFeaturedStories(ctx context.Context) ([]Story, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return sorted(m, m.stories, storyID, func(s Story) bool { return s.Featured }), nil
}

func (m *MemoryRepository) GetStory(ctx context.Context, id string) (Story, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.stories[id]
	if !ok {
		return Story{}, ErrNotFound
	}
	return s, nil
}

func (m *MemoryRepository) CreateStory(ctx context.Context, in NewStory) (Story, error) {
	if err := in.Validate(); err != nil {
		return Story{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.artisans[in.ArtisanID]; !ok {
		return Story{}, &ValidationError{Fields: []FieldError{{Field: "artisanId", Message: "unknown artisan"}}}
	}
	s := Story{
		ID:        uuid.NewString(),
		ArtisanID: in.ArtisanID,
		Title:     in.Title,
		Content:   in.Content,
		ImageURL:  in.ImageURL,
		Featured:  in.Featured,
		CreatedAt: m.now(),
	}
	m.stories[s.ID] = s
	m.track(s.ID)
	return s, nil
}

// --- cart ---

func (m *MemoryRepository) GetCartItems(ctx context.Context, sessionID string) ([]CartItem, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return sorted(m, m.cartItems, cartItemID, func(c CartItem) bool { return c.SessionID == sessionID }), nil
}

func (m *MemoryRepository) AddToCart(ctx context.Context, in NewCartItem) (CartItem, error) {
	if err := in.Validate(); err != nil {
		return CartItem{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.products[in.ProductID]; !ok {
		return CartItem{}, &ValidationError{Fields: []FieldError{{Field: "productId", Message: "unknown product"}}}
	}
	for id, existing := range m.cartItems {
		if existing.SessionID == in.SessionID && existing.ProductID == in.ProductID {
			existing.Quantity += in.Quantity
			m.cartItems[id] = existing
			return existing, nil
		}
	}

	c := CartItem{
		ID:        uuid.NewString(),
		SessionID: in.SessionID,
		ProductID: in.ProductID,
		Quantity:  in.Quantity,
		CreatedAt: m.now(),
	}
	m.cartItems[c.ID] = c
	m.track(c.ID)
	return c, nil
}

func (m *MemoryRepository) UpdateCartItem(ctx context.Context, id string, quantity int) (CartItem, error) {
	if err := ValidateQuantity(quantity); err != nil {
		return CartItem{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	c, ok := m.cartItems[id]
	if !ok {
		return CartItem{}, ErrNotFound
	}
	c.Quantity = quantity
	m.cartItems[id] = c
	return c, nil
}

func (m *MemoryRepository) RemoveFromCart(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.cartItems[id]; !ok {
		return ErrNotFound
	}
	delete(m.cartItems, id)
	delete(m.order, id)
	return nil
}

func (m *MemoryRepository) ClearCart(ctx context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for id, c := range m.cartItems {
		if c.SessionID == sessionID {
			delete(m.cartItems, id)
			delete(m.order, id)
		}
	}
	return nil
}

// --- ai generations ---

func (m *MemoryRepository) CreateAIGeneration(ctx context.Context, in NewAIGeneration) (AIGeneration, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	g := AIGeneration{
		ID:                   uuid.NewString(),
		ArtisanID:            in.ArtisanID,
		ProductName:          in.ProductName,
		CraftType:            in.CraftType,
		Heritage:             in.Heritage,
		GeneratedDescription: in.GeneratedDescription,
		GeneratedCaptions:    append([]string{}, in.GeneratedCaptions...),
		CreatedAt:            m.now(),
	}
	m.generations[g.ID] = g
	m.track(g.ID)
	return g, nil
}

// GetArtisanGenerations returns newest first.
func (m *MemoryRepository) GetArtisanGenerations(ctx context.Context, artisanID string) ([]AIGeneration, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := sorted(m, m.generations, generationID, func(g AIGeneration) bool { return g.ArtisanID == artisanID })
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out, nil
}
