package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"

	"github.com/andreasstove999/artisan-marketplace/internal/catalog"
	"github.com/andreasstove999/artisan-marketplace/internal/storyteller"
)

// ContentClient is the typed client for the storefront Content API.
type ContentClient struct{ c *Client }

func NewContentClient(c *Client) *ContentClient { return &ContentClient{c: c} }

type messageBody struct {
	Message string `json:"message"`
}

// CartSummary is the server-side view of a session's cart.
type CartSummary struct {
	SessionID string          `json:"sessionId"`
	Items     json.RawMessage `json:"items"`
	Total     string          `json:"total"`
	ItemCount int             `json:"itemCount"`
}

func (cc *ContentClient) call(ctx context.Context, method, path, rawQuery string, in, out any) error {
	var body io.Reader
	headers := http.Header{"Accept": []string{"application/json"}}
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return &APIError{Service: cc.c.Name, Method: method, Path: path, Message: "encode request", kind: ErrValidation, cause: err}
		}
		body = bytes.NewReader(buf)
		headers.Set("Content-Type", "application/json")
	}

	resp, err := cc.c.Do(ctx, method, path, rawQuery, body, headers)
	if err != nil {
		return &APIError{Service: cc.c.Name, Method: method, Path: path, kind: ErrNetwork, cause: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return &APIError{Service: cc.c.Name, Method: method, Path: path, StatusCode: resp.StatusCode, kind: ErrNetwork, cause: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var m messageBody
		_ = json.Unmarshal(raw, &m)
		if m.Message == "" {
			m.Message = http.StatusText(resp.StatusCode)
		}
		return &APIError{Service: cc.c.Name, Method: method, Path: path, StatusCode: resp.StatusCode, Message: m.Message, kind: classify(resp.StatusCode)}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return &APIError{Service: cc.c.Name, Method: method, Path: path, StatusCode: resp.StatusCode, kind: ErrMalformed, cause: err}
	}
	return nil
}

func esc(id string) string { return url.PathEscape(id) }

func list[T any](ctx context.Context, cc *ContentClient, path, rawQuery string) ([]T, error) {
	var out []T
	if err := cc.call(ctx, http.MethodGet, path, rawQuery, nil, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []T{}
	}
	return out, nil
}

// --- artisans ---

func (cc *ContentClient) GetArtisans(ctx context.Context) ([]catalog.Artisan, error) {
	return list[catalog.Artisan](ctx, cc, "/api/artisans", "")
}

func (cc *ContentClient) GetFeaturedArtisans(ctx context.Context) ([]catalog.Artisan, error) {
	return list[catalog.Artisan](ctx, cc, "/api/artisans/featured", "")
}

func (cc *ContentClient) GetArtisan(ctx context.Context, id string) (catalog.Artisan, error) {
	var out catalog.Artisan
	if err := cc.call(ctx, http.MethodGet, "/api/artisans/"+esc(id), "", nil, &out); err != nil {
		return catalog.Artisan{}, err
	}
	return out, nil
}

// --- products ---

// GetProducts lists every product, or only those in category when it is set.
func (cc *ContentClient) GetProducts(ctx context.Context, category string) ([]catalog.Product, error) {
	var q string
	if category != "" {
		q = url.Values{"category": []string{category}}.Encode()
	}
	return list[catalog.Product](ctx, cc, "/api/products", q)
}

func (cc *ContentClient) GetFeaturedProducts(ctx context.Context) ([]catalog.Product, error) {
	return list[catalog.Product](ctx, cc, "/api/products/featured", "")
}

func (cc *ContentClient) GetProduct(ctx context.Context, id string) (catalog.Product, error) {
	var out catalog.Product
	if err := cc.call(ctx, http.MethodGet, "/api/products/"+esc(id), "", nil, &out); err != nil {
		return catalog.Product{}, err
	}
	return out, nil
}

func (cc *ContentClient) GetProductsByArtisan(ctx context.Context, artisanID string) ([]catalog.Product, error) {
	return list[catalog.Product](ctx, cc, "/api/artisans/"+esc(artisanID)+"/products", "")
}

// --- stories ---

func (cc *ContentClient) GetStories(ctx context.Context) ([]catalog.Story, error) {
	return list[catalog.Story](ctx, cc, "/api/stories", "")
}

func (cc *ContentClient) GetFeaturedStories(ctx context.Context) ([]catalog.Story, error) {
	return list[catalog.Story](ctx, cc, "/api/stories/featured", "")
}

func (cc *ContentClient) GetStory(ctx context.Context, id string) (catalog.Story, error) {
	var out catalog.Story
	if err := cc.call(ctx, http.MethodGet, "/api/stories/"+esc(id), "", nil, &out); err != nil {
		return catalog.Story{}, err
	}
	return out, nil
}

// --- cart ---

func (cc *ContentClient) GetCartItems(ctx context.Context, sessionID string) ([]catalog.CartItem, error) {
	var out []catalog.CartItem
	if err := cc.call(ctx, http.MethodGet, "/api/cart/"+esc(sessionID), "", nil, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []catalog.CartItem{}
	}
	return out, nil
}

func (cc *ContentClient) AddToCart(ctx context.Context, in catalog.NewCartItem) (catalog.CartItem, error) {
	var out catalog.CartItem
	if err := cc.call(ctx, http.MethodPost, "/api/cart", "", in, &out); err != nil {
		return catalog.CartItem{}, err
	}
	return out, nil
}

func (cc *ContentClient) UpdateCartItem(ctx context.Context, id string, quantity int) (catalog.CartItem, error) {
	var out catalog.CartItem
	body := struct {
		Quantity int `json:"quantity"`
	}{quantity}
	if err := cc.call(ctx, http.MethodPut, "/api/cart/"+esc(id), "", body, &out); err != nil {
		return catalog.CartItem{}, err
	}
	return out, nil
}

func (cc *ContentClient) RemoveFromCart(ctx context.Context, id string) error {
	return cc.call(ctx, http.MethodDelete, "/api/cart/"+esc(id), "", nil, nil)
}

func (cc *ContentClient) ClearCart(ctx context.Context, sessionID string) error {
	return cc.call(ctx, http.MethodDelete, "/api/cart/session/"+esc(sessionID), "", nil, nil)
}

func (cc *ContentClient) GetCartSummary(ctx context.Context, sessionID string) (CartSummary, error) {
	var out CartSummary
	if err := cc.call(ctx, http.MethodGet, "/api/cart/"+esc(sessionID)+"/summary", "", nil, &out); err != nil {
		return CartSummary{}, err
	}
	return out, nil
}

// --- ai ---

func (cc *ContentClient) GenerateStory(ctx context.Context, req catalog.GenerationRequest) (storyteller.StoryResponse, error) {
	var out storyteller.StoryResponse
	if err := cc.call(ctx, http.MethodPost, "/api/ai/generate-story", "", req, &out); err != nil {
		return storyteller.StoryResponse{}, err
	}
	return out, nil
}

func (cc *ContentClient) GetGenerations(ctx context.Context, artisanID string) ([]catalog.AIGeneration, error) {
	return list[catalog.AIGeneration](ctx, cc, "/api/ai/generations/"+esc(artisanID), "")
}

// IsNetwork reports whether err is a transport or server-side failure.
func IsNetwork(err error) bool {
	return errors.Is(err, ErrNetwork) || errors.Is(err, ErrMalformed)
}
