package httpapi

import (
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/andreasstove999/artisan-marketplace/internal/catalog"
)

// --- artisans ---

func (h *Handler) ListArtisans(w http.ResponseWriter, r *http.Request) {
	out, err := h.repo.GetArtisans(r.Context())
	if err != nil {
		h.internalError(w, r, "Failed to fetch artisans", err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) ListFeaturedArtisans(w http.ResponseWriter, r *http.Request) {
	out, err := h.repo.GetFeaturedArtisans(r.Context())
	if err != nil {
		h.internalError(w, r, "Failed to fetch featured artisans", err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) GetArtisan(w http.ResponseWriter, r *http.Request) {
	id, ok := pathParam(w, r, "id")
	if !ok {
		return
	}
	a, err := h.repo.GetArtisan(r.Context(), id)
	if errors.Is(err, catalog.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Artisan not found")
		return
	}
	if err != nil {
		h.internalError(w, r, "Failed to fetch artisan", err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

// CreateArtisan stores a new artisan. When no story is supplied one is
// drafted by the story generator; generation failures leave it blank.
func (h *Handler) CreateArtisan(w http.ResponseWriter, r *http.Request) {
	var in catalog.NewArtisan
	if err := decodeJSON(r, &in); err != nil {
		writeInvalid(w, "Invalid artisan data", err)
		return
	}
	if err := in.Validate(); err != nil {
		writeInvalid(w, "Invalid artisan data", err)
		return
	}

	if strings.TrimSpace(in.Story) == "" {
		story, err := h.stories.GenerateArtisanStory(r.Context(), in.Name, in.Specialty, in.Location)
		if err != nil {
			h.logger.Info("artisan created without story", zap.String("artisan", in.Name), zap.Error(err))
		} else {
			in.Story = story
		}
	}

	a, err := h.repo.CreateArtisan(r.Context(), in)
	if errors.Is(err, catalog.ErrValidation) {
		writeInvalid(w, "Invalid artisan data", err)
		return
	}
	if err != nil {
		h.internalError(w, r, "Failed to create artisan", err)
		return
	}
	writeJSON(w, http.StatusCreated, a)
}

// --- products ---

func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	var (
		out []catalog.Product
		err error
	)
	if category := r.URL.Query().Get("category"); category != "" {
		out, err = h.repo.GetProductsByCategory(r.Context(), category)
	} else {
		out, err = h.repo.GetProducts(r.Context())
	}
	if err != nil {
		h.internalError(w, r, "Failed to fetch products", err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) ListFeaturedProducts(w http.ResponseWriter, r *http.Request) {
	out, err := h.repo.GetFeaturedProducts(r.Context())
	if err != nil {
		h.internalError(w, r, "Failed to fetch featured products", err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathParam(w, r, "id")
	if !ok {
		return
	}
	p, err := h.repo.GetProduct(r.Context(), id)
	if errors.Is(err, catalog.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Product not found")
		return
	}
	if err != nil {
		h.internalError(w, r, "Failed to fetch product", err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *Handler) ListArtisanProducts(w http.ResponseWriter, r *http.Request) {
	id, ok := pathParam(w, r, "id")
	if !ok {
		return
	}
	out, err := h.repo.GetProductsByArtisan(r.Context(), id)
	if err != nil {
		h.internalError(w, r, "Failed to fetch artisan products", err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var in catalog.NewProduct
	if err := decodeJSON(r, &in); err != nil {
		writeInvalid(w, "Invalid product data", err)
		return
	}
	p, err := h.repo.CreateProduct(r.Context(), in)
	if errors.Is(err, catalog.ErrValidation) {
		writeInvalid(w, "Invalid product data", err)
		return
	}
	if err != nil {
		h.internalError(w, r, "Failed to create product", err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

// --- stories ---

func (h *Handler) ListStories(w http.ResponseWriter, r *http.Request) {
	out, err := h.repo.GetStories(r.Context())
	if err != nil {
		h.internalError(w, r, "Failed to fetch stories", err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) ListFeaturedStories(w http.ResponseWriter, r *http.Request) {
	out, err := h.repo.GetFeaturedStories(r.Context())
	if err != nil {
		h.internalError(w, r, "Failed to fetch featured stories", err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) GetStory(w http.ResponseWriter, r *http.Request) {
	id, ok := pathParam(w, r, "id")
	if !ok {
		return
	}
	s, err := h.repo.GetStory(r.Context(), id)
	if errors.Is(err, catalog.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Story not found")
		return
	}
	if err != nil {
		h.internalError(w, r, "Failed to fetch story", err)
		return
	}
	writeJSON(w, http.StatusOK, s)
}

func (h *Handler) CreateStory(w http.ResponseWriter, r *http.Request) {
	var in catalog.NewStory
	if err := decodeJSON(r, &in); err != nil {
		writeInvalid(w, "Invalid story data", err)
		return
	}
	s, err := h.repo.CreateStory(r.Context(), in)
	if errors.Is(err, catalog.ErrValidation) {
		writeInvalid(w, "Invalid story data", err)
		return
	}
	if err != nil {
		h.internalError(w, r, "Failed to create story", err)
		return
	}
	writeJSON(w, http.StatusCreated, s)
}
