package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/andreasstove999/artisan-marketplace/internal/middleware"
)

type RouterOptions struct {
	Logger           *zap.Logger
	CORSAllowOrigins []string
	RequestTimeout   time.Duration
}

func NewRouter(h *Handler, opts RouterOptions) http.Handler {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	origins := opts.CORSAllowOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	timeout := opts.RequestTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	r := chi.NewRouter()
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.CorrelationID)
	r.Use(middleware.SessionID)
	r.Use(middleware.CORS(origins))
	r.Use(middleware.Recover(logger))
	r.Use(chimw.Timeout(timeout))

	r.Get("/health", h.Health)

	r.Route("/api", func(r chi.Router) {
		r.Route("/artisans", func(r chi.Router) {
			r.Get("/", h.ListArtisans)
			r.Post("/", h.CreateArtisan)
			r.Get("/featured", h.ListFeaturedArtisans)
			r.Get("/{id}", h.GetArtisan)
			r.Get("/{id}/products", h.ListArtisanProducts)
		})

		r.Route("/products", func(r chi.Router) {
			r.Get("/", h.ListProducts)
			r.Post("/", h.CreateProduct)
			r.Get("/featured", h.ListFeaturedProducts)
			r.Get("/{id}", h.GetProduct)
		})

		r.Route("/stories", func(r chi.Router) {
			r.Get("/", h.ListStories)
			r.Post("/", h.CreateStory)
			r.Get("/featured", h.ListFeaturedStories)
			r.Get("/{id}", h.GetStory)
		})

		// {id} is a session id on GET and a line item id on PUT/DELETE
		r.Route("/cart", func(r chi.Router) {
			r.Post("/", h.AddToCart)
			r.Delete("/session/{sessionId}", h.ClearCart)
			r.Get("/{id}", h.GetCartItems)
			r.Get("/{id}/summary", h.GetCartSummary)
			r.Put("/{id}", h.UpdateCartItem)
			r.Delete("/{id}", h.RemoveFromCart)
		})

		r.Route("/ai", func(r chi.Router) {
			r.Post("/generate-story", h.GenerateStory)
			r.Get("/generations/{artisanId}", h.ListGenerations)
		})
	})

	return r
}
