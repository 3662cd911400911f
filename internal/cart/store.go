// Package cart keeps a local, enriched projection of one session's shopping
// cart and the commands that change it through the Content API.
package cart

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/andreasstove999/artisan-marketplace/internal/catalog"
	"github.com/andreasstove999/artisan-marketplace/internal/session"
)

// ContentAPI is what the store needs from the catalog. Both the HTTP client
// and the in-process repositories satisfy it.
type ContentAPI interface {
	GetCartItems(ctx context.Context, sessionID string) ([]catalog.CartItem, error)
	GetProduct(ctx context.Context, id string) (catalog.Product, error)
	GetArtisan(ctx context.Context, id string) (catalog.Artisan, error)
	AddToCart(ctx context.Context, in catalog.NewCartItem) (catalog.CartItem, error)
	UpdateCartItem(ctx context.Context, id string, quantity int) (catalog.CartItem, error)
	RemoveFromCart(ctx context.Context, id string) error
	ClearCart(ctx context.Context, sessionID string) error
}

// ErrMalformedItem marks a line item the backing store returned in a shape
// the cart cannot hold.
var ErrMalformedItem = errors.New("malformed cart item")

// maxEnrichConcurrency bounds in-flight product/artisan lookups per reload.
const maxEnrichConcurrency = 8

type EnrichedProduct struct {
	catalog.Product
	ArtisanName string `json:"artisanName"`
}

type EnrichedCartItem struct {
	catalog.CartItem
	Product EnrichedProduct `json:"product"`
}

// Snapshot is a consistent read of the store at one instant.
type Snapshot struct {
	Items     []EnrichedCartItem `json:"items"`
	Total     decimal.Decimal    `json:"total"`
	ItemCount int                `json:"itemCount"`
	IsOpen    bool               `json:"isOpen"`
}

// Store is safe for concurrent use. Every successful mutation except
// ClearCart is followed by a full reload.
type Store struct {
	api      ContentAPI
	sessions session.Provider
	logger   *zap.Logger

	mu     sync.Mutex
	items  []EnrichedCartItem
	isOpen bool

	// issued is the last reload ticket handed out; applied is the newest
	// ticket whose result reached items. Older results are dropped.
	issued  uint64
	applied uint64
}

func NewStore(api ContentAPI, sessions session.Provider, logger *zap.Logger) *Store {
	if sessions == nil {
		sessions = session.Guest()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		api:      api,
		sessions: sessions,
		logger:   logger.Named("cart"),
		items:    []EnrichedCartItem{},
	}
}

func (s *Store) sessionID(ctx context.Context) (string, error) {
	sid, err := s.sessions.SessionID(ctx)
	if err != nil {
		return "", fmt.Errorf("resolve session: %w", err)
	}
	return sid, nil
}

// Load fetches the session's line items, enriches each with its product and
// artisan, and replaces the held items only if every lookup succeeded.
func (s *Store) Load(ctx context.Context) error {
	s.mu.Lock()
	s.issued++
	ticket := s.issued
	s.mu.Unlock()

	sid, err := s.sessionID(ctx)
	if err != nil {
		s.logger.Error("cart reload failed", zap.Error(err))
		return err
	}

	raw, err := s.api.GetCartItems(ctx, sid)
	if err != nil {
		s.logger.Error("cart reload failed", zap.String("session_id", sid), zap.Error(err))
		return fmt.Errorf("get cart items: %w", err)
	}

	items, err := s.enrich(ctx, sid, raw)
	if err != nil {
		s.logger.Error("cart reload failed", zap.String("session_id", sid), zap.Error(err))
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if ticket <= s.applied {
		s.logger.Debug("discarding stale cart reload",
			zap.String("session_id", sid),
			zap.Uint64("ticket", ticket),
			zap.Uint64("applied", s.applied))
		return nil
	}
	s.items = items
	s.applied = ticket
	return nil
}

func (s *Store) enrich(ctx context.Context, sid string, raw []catalog.CartItem) ([]EnrichedCartItem, error) {
	for _, item := range raw {
		if item.Quantity < 1 {
			return nil, fmt.Errorf("%w: %s has quantity %d", ErrMalformedItem, item.ID, item.Quantity)
		}
		if item.SessionID != "" && item.SessionID != sid {
			return nil, fmt.Errorf("%w: %s belongs to session %q", ErrMalformedItem, item.ID, item.SessionID)
		}
	}

	out := make([]EnrichedCartItem, len(raw))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxEnrichConcurrency)
	for i, item := range raw {
		g.Go(func() error {
			p, err := s.api.GetProduct(gctx, item.ProductID)
			if err != nil {
				return fmt.Errorf("get product %s: %w", item.ProductID, err)
			}
			if _, err := decimal.NewFromString(p.Price); err != nil {
				return fmt.Errorf("%w: product %s price %q", ErrMalformedItem, p.ID, p.Price)
			}
			a, err := s.api.GetArtisan(gctx, p.ArtisanID)
			if err != nil {
				return fmt.Errorf("get artisan %s: %w", p.ArtisanID, err)
			}
			out[i] = EnrichedCartItem{
				CartItem: item,
				Product:  EnrichedProduct{Product: p, ArtisanName: a.Name},
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// AddToCart asks the backing store for one more unit of productID and
// reloads. Merging with an existing line is up to the backing store.
func (s *Store) AddToCart(ctx context.Context, productID string) error {
	if strings.TrimSpace(productID) == "" {
		err := &catalog.ValidationError{Fields: []catalog.FieldError{{Field: "productId", Message: "is required"}}}
		s.logger.Warn("add to cart rejected", zap.Error(err))
		return err
	}
	sid, err := s.sessionID(ctx)
	if err != nil {
		s.logger.Error("add to cart failed", zap.String("product_id", productID), zap.Error(err))
		return err
	}
	if _, err := s.api.AddToCart(ctx, catalog.NewCartItem{SessionID: sid, ProductID: productID, Quantity: 1}); err != nil {
		s.logger.Error("add to cart failed",
			zap.String("session_id", sid),
			zap.String("product_id", productID),
			zap.Error(err))
		return fmt.Errorf("add to cart: %w", err)
	}
	return s.Load(ctx)
}

// UpdateQuantity rejects quantities below one without calling the API.
func (s *Store) UpdateQuantity(ctx context.Context, itemID string, quantity int) error {
	if err := catalog.ValidateQuantity(quantity); err != nil {
		s.logger.Warn("update quantity rejected", zap.String("item_id", itemID), zap.Int("quantity", quantity), zap.Error(err))
		return err
	}
	if _, err := s.api.UpdateCartItem(ctx, itemID, quantity); err != nil {
		s.logger.Error("update quantity failed", zap.String("item_id", itemID), zap.Int("quantity", quantity), zap.Error(err))
		return fmt.Errorf("update cart item: %w", err)
	}
	return s.Load(ctx)
}

func (s *Store) RemoveFromCart(ctx context.Context, itemID string) error {
	if err := s.api.RemoveFromCart(ctx, itemID); err != nil {
		s.logger.Error("remove from cart failed", zap.String("item_id", itemID), zap.Error(err))
		return fmt.Errorf("remove cart item: %w", err)
	}
	return s.Load(ctx)
}

// ClearCart empties the session's cart. Items are reset locally instead of
// reloading, and any reload still in flight is invalidated.
func (s *Store) ClearCart(ctx context.Context) error {
	sid, err := s.sessionID(ctx)
	if err != nil {
		s.logger.Error("clear cart failed", zap.Error(err))
		return err
	}
	if err := s.api.ClearCart(ctx, sid); err != nil {
		s.logger.Error("clear cart failed", zap.String("session_id", sid), zap.Error(err))
		return fmt.Errorf("clear cart: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.issued++
	s.applied = s.issued
	s.items = []EnrichedCartItem{}
	return nil
}

// Items returns a copy of the held line items.
func (s *Store) Items() []EnrichedCartItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyItems(s.items)
}

func (s *Store) Total() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.total(s.items)
}

func (s *Store) ItemCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return itemCount(s.items)
}

func (s *Store) IsOpen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.isOpen
}

func (s *Store) SetIsOpen(open bool) {
	s.mu.Lock()
	s.isOpen = open
	s.mu.Unlock()
}

func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		Items:     copyItems(s.items),
		Total:     s.total(s.items),
		ItemCount: itemCount(s.items),
		IsOpen:    s.isOpen,
	}
}

func (s *Store) total(items []EnrichedCartItem) decimal.Decimal {
	sum := decimal.Zero
	for _, it := range items {
		price, err := decimal.NewFromString(it.Product.Price)
		if err != nil {
			s.logger.Warn("skipping unparseable price", zap.String("product_id", it.ProductID), zap.String("price", it.Product.Price))
			continue
		}
		sum = sum.Add(price.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	return sum
}

func itemCount(items []EnrichedCartItem) int {
	n := 0
	for _, it := range items {
		n += it.Quantity
	}
	return n
}

func copyItems(items []EnrichedCartItem) []EnrichedCartItem {
	out := make([]EnrichedCartItem, len(items))
	for i, it := range items {
		it.Product.Images = append([]string(nil), it.Product.Images...)
		out[i] = it
	}
	return out
}
