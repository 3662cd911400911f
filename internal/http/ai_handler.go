package httpapi

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/andreasstove999/artisan-marketplace/internal/catalog"
	"github.com/andreasstove999/artisan-marketplace/internal/events"
	"github.com/andreasstove999/artisan-marketplace/internal/storyteller"
)

func (h *Handler) GenerateStory(w http.ResponseWriter, r *http.Request) {
	var req catalog.GenerationRequest
	if err := decodeJSON(r, &req); err != nil {
		writeInvalid(w, "Invalid request data", err)
		return
	}
	if err := req.Validate(); err != nil {
		writeInvalid(w, "Invalid request data", err)
		return
	}

	artisan, err := h.repo.GetArtisan(r.Context(), req.ArtisanID)
	if errors.Is(err, catalog.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Artisan not found")
		return
	}
	if err != nil {
		h.internalError(w, r, "Failed to generate story", err)
		return
	}

	story, err := h.stories.GenerateProductStory(r.Context(), storyteller.StoryRequest{
		ProductName:     req.ProductName,
		CraftType:       req.CraftType,
		Heritage:        req.Heritage,
		ArtisanName:     artisan.Name,
		ArtisanLocation: artisan.Location,
	})
	if err != nil {
		h.internalError(w, r, "Failed to generate story", err)
		return
	}

	gen, err := h.repo.CreateAIGeneration(r.Context(), catalog.NewAIGeneration{
		ArtisanID:            req.ArtisanID,
		ProductName:          req.ProductName,
		CraftType:            req.CraftType,
		Heritage:             req.Heritage,
		GeneratedDescription: story.Description,
		GeneratedCaptions:    story.Captions,
	})
	if err != nil {
		// the story is still useful to the caller
		h.logger.Error("save ai generation", zap.String("artisan_id", req.ArtisanID), zap.Error(err))
	} else {
		h.publish(r.Context(), gen.ArtisanID, events.StoryGenerated(gen, h.now()))
	}

	writeJSON(w, http.StatusOK, story)
}

func (h *Handler) ListGenerations(w http.ResponseWriter, r *http.Request) {
	artisanID, ok := pathParam(w, r, "artisanId")
	if !ok {
		return
	}
	out, err := h.repo.GetArtisanGenerations(r.Context(), artisanID)
	if err != nil {
		h.internalError(w, r, "Failed to fetch AI generations", err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}
