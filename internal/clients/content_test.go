package clients

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andreasstove999/artisan-marketplace/internal/catalog"
	"github.com/andreasstove999/artisan-marketplace/internal/middleware"
	"github.com/andreasstove999/artisan-marketplace/internal/session"
)

type recordedRequest struct {
	Method  string
	Path    string
	Query   string
	Body    string
	Headers http.Header
}

func newStub(t *testing.T, status int, response string) (*ContentClient, chan recordedRequest) {
	t.Helper()
	ch := make(chan recordedRequest, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		ch <- recordedRequest{Method: r.Method, Path: r.URL.EscapedPath(), Query: r.URL.RawQuery, Body: string(b), Headers: r.Header.Clone()}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, response)
	}))
	t.Cleanup(srv.Close)
	return NewContentClient(NewClient("content-api", srv.URL, &http.Client{Timeout: 2 * time.Second})), ch
}

func TestContentClient_GetCartItems(t *testing.T) {
	cc, reqs := newStub(t, http.StatusOK, `[{"id":"ci-1","sessionId":"guest-session","productId":"prod-42","quantity":1}]`)

	ctx := middleware.WithCorrelationID(context.Background(), "cid-1")
	items, err := cc.GetCartItems(ctx, "guest-session")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "prod-42", items[0].ProductID)

	got := <-reqs
	assert.Equal(t, http.MethodGet, got.Method)
	assert.Equal(t, "/api/cart/guest-session", got.Path)
	assert.Equal(t, "cid-1", got.Headers.Get(middleware.HeaderCorrelationID))
}

func TestContentClient_EmptyListIsNotNil(t *testing.T) {
	cc, _ := newStub(t, http.StatusOK, `null`)

	items, err := cc.GetCartItems(context.Background(), "s")
	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)
}

func TestContentClient_AddToCartSendsBody(t *testing.T) {
	cc, reqs := newStub(t, http.StatusCreated, `{"id":"ci-1","sessionId":"guest-session","productId":"prod-42","quantity":1}`)

	ctx := session.WithSessionID(context.Background(), "guest-session")
	item, err := cc.AddToCart(ctx, catalog.NewCartItem{SessionID: "guest-session", ProductID: "prod-42", Quantity: 1})
	require.NoError(t, err)
	assert.Equal(t, "ci-1", item.ID)

	got := <-reqs
	assert.Equal(t, http.MethodPost, got.Method)
	assert.Equal(t, "/api/cart", got.Path)
	assert.Equal(t, "application/json", got.Headers.Get("Content-Type"))
	assert.Equal(t, "guest-session", got.Headers.Get(middleware.HeaderSessionID))
	assert.JSONEq(t, `{"sessionId":"guest-session","productId":"prod-42","quantity":1}`, got.Body)
}

func TestContentClient_UpdateAndDeletePaths(t *testing.T) {
	cases := []struct {
		name   string
		call   func(cc *ContentClient) error
		method string
		path   string
		body   string
	}{
		{
			name: "update",
			call: func(cc *ContentClient) error {
				_, err := cc.UpdateCartItem(context.Background(), "ci-1", 3)
				return err
			},
			method: http.MethodPut, path: "/api/cart/ci-1", body: `{"quantity":3}`,
		},
		{
			name:   "remove",
			call:   func(cc *ContentClient) error { return cc.RemoveFromCart(context.Background(), "ci-1") },
			method: http.MethodDelete, path: "/api/cart/ci-1",
		},
		{
			name:   "clear",
			call:   func(cc *ContentClient) error { return cc.ClearCart(context.Background(), "guest session") },
			method: http.MethodDelete, path: "/api/cart/session/guest%20session",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cc, reqs := newStub(t, http.StatusOK, `{"id":"ci-1","quantity":3,"message":"ok"}`)
			require.NoError(t, tc.call(cc))

			got := <-reqs
			assert.Equal(t, tc.method, got.Method)
			assert.Equal(t, tc.path, got.Path)
			if tc.body != "" {
				assert.JSONEq(t, tc.body, got.Body)
			}
		})
	}
}

func TestContentClient_GetProductsCategoryQuery(t *testing.T) {
	cc, reqs := newStub(t, http.StatusOK, `[]`)

	_, err := cc.GetProducts(context.Background(), "pottery")
	require.NoError(t, err)
	assert.Equal(t, "category=pottery", (<-reqs).Query)

	cc, reqs = newStub(t, http.StatusOK, `[]`)
	_, err = cc.GetProducts(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, (<-reqs).Query)
}

func TestContentClient_ErrorTaxonomy(t *testing.T) {
	cases := []struct {
		name   string
		status int
		body   string
		want   error
	}{
		{"not found", http.StatusNotFound, `{"message":"Product not found"}`, ErrNotFound},
		{"validation", http.StatusBadRequest, `{"message":"Invalid quantity"}`, ErrValidation},
		{"server", http.StatusInternalServerError, `{"message":"Failed to fetch product"}`, ErrNetwork},
		{"malformed", http.StatusOK, `{"id":`, ErrMalformed},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cc, _ := newStub(t, tc.status, tc.body)

			_, err := cc.GetProduct(context.Background(), "prod-42")
			require.ErrorIs(t, err, tc.want)

			var apiErr *APIError
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, "content-api", apiErr.Service)
			assert.Equal(t, "/api/products/prod-42", apiErr.Path)
		})
	}

	cc, _ := newStub(t, http.StatusNotFound, `{"message":"Product not found"}`)
	_, err := cc.GetProduct(context.Background(), "x")
	require.ErrorIs(t, err, catalog.ErrNotFound, "client and repository share the not-found sentinel")
	assert.Contains(t, err.Error(), "Product not found")
}

func TestContentClient_TransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	cc := NewContentClient(NewClient("content-api", url, &http.Client{Timeout: time.Second}))
	_, err := cc.GetCartItems(context.Background(), "s")
	require.ErrorIs(t, err, ErrNetwork)
	assert.True(t, IsNetwork(err))
}

func TestContentClient_GenerateStory(t *testing.T) {
	cc, reqs := newStub(t, http.StatusOK, `{"description":"d","captions":["a","b","c"]}`)

	out, err := cc.GenerateStory(context.Background(), catalog.GenerationRequest{ArtisanID: "a1", ProductName: "Bowl", CraftType: "pottery"})
	require.NoError(t, err)
	assert.Equal(t, "d", out.Description)
	assert.Len(t, out.Captions, 3)

	got := <-reqs
	assert.Equal(t, "/api/ai/generate-story", got.Path)
	var sent map[string]any
	require.NoError(t, json.Unmarshal([]byte(got.Body), &sent))
	assert.Equal(t, "a1", sent["artisanId"])
}

func TestClient_KeepsBasePathPrefix(t *testing.T) {
	ch := make(chan string, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ch <- r.URL.Path
	}))
	defer srv.Close()

	c := NewClient("content-api", srv.URL+"/storefront", srv.Client())
	resp, err := c.Do(context.Background(), http.MethodGet, "/api/artisans", "", nil, http.Header{"Connection": []string{"close"}})
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, "/storefront/api/artisans", <-ch)
}

func TestHealth(t *testing.T) {
	cases := []struct {
		name     string
		status   int
		body     string
		healthy  bool
		service  string
		wantCode int
		kind     error
	}{
		{"ok", http.StatusOK, `{"status":"ok","service":"storefront-api"}`, true, "storefront-api", http.StatusOK, nil},
		{"degraded", http.StatusOK, `{"status":"degraded"}`, false, "content-api", http.StatusOK, ErrNetwork},
		{"server error", http.StatusServiceUnavailable, `{"message":"down"}`, false, "content-api", http.StatusServiceUnavailable, ErrNetwork},
		{"not json", http.StatusOK, `pong`, false, "content-api", http.StatusOK, ErrMalformed},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cc, reqs := newStub(t, tc.status, tc.body)

			rep := cc.Health(context.Background(), 0)

			assert.Equal(t, "/health", (<-reqs).Path)
			assert.Equal(t, tc.healthy, rep.Healthy)
			assert.Equal(t, tc.service, rep.Service)
			assert.Equal(t, tc.wantCode, rep.StatusCode)
			if tc.kind == nil {
				assert.NoError(t, rep.Err())
				assert.Empty(t, rep.Error)
				return
			}
			assert.ErrorIs(t, rep.Err(), tc.kind)
			var apiErr *APIError
			assert.ErrorAs(t, rep.Err(), &apiErr)
			assert.NotEmpty(t, rep.Error)
		})
	}
}

func TestHealth_Unreachable(t *testing.T) {
	cc := NewContentClient(NewClient("content-api", "http://127.0.0.1:1", nil))

	rep := cc.Health(context.Background(), 500*time.Millisecond)

	assert.False(t, rep.Healthy)
	assert.Zero(t, rep.StatusCode)
	assert.ErrorIs(t, rep.Err(), ErrNetwork)
	assert.True(t, IsNetwork(rep.Err()))
}
