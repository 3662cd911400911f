package httpapi

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/andreasstove999/artisan-marketplace/internal/catalog"
	"github.com/andreasstove999/artisan-marketplace/internal/events"
	"github.com/andreasstove999/artisan-marketplace/internal/middleware"
	"github.com/andreasstove999/artisan-marketplace/internal/storyteller"
)

const serviceName = "storefront-api"

type Handler struct {
	repo    catalog.Repository
	stories *storyteller.Generator
	events  events.Publisher
	logger  *zap.Logger
	now     func() time.Time
}

type Deps struct {
	Repo    catalog.Repository
	Stories *storyteller.Generator
	Events  events.Publisher
	Logger  *zap.Logger
}

func NewHandler(d Deps) *Handler {
	h := &Handler{
		repo:    d.Repo,
		stories: d.Stories,
		events:  d.Events,
		logger:  d.Logger,
		now:     func() time.Time { return time.Now().UTC() },
	}
	if h.logger == nil {
		h.logger = zap.NewNop()
	}
	if h.events == nil {
		h.events = events.NopPublisher{}
	}
	if h.stories == nil {
		h.stories = storyteller.NewGenerator(storyteller.Unavailable{}, h.logger)
	}
	return h
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "service": serviceName})
}

// publish emits ev after the change it describes has committed, so a
// broker failure is logged rather than returned.
func (h *Handler) publish(ctx context.Context, partitionKey string, ev events.Event) {
	meta := events.EventMeta{
		CorrelationID: middleware.GetCorrelationID(ctx),
		PartitionKey:  partitionKey,
	}
	if err := h.events.Publish(ctx, meta, ev); err != nil {
		h.logger.Warn("publish event failed",
			zap.String("event", ev.Name),
			zap.String("partition_key", partitionKey),
			zap.String("correlation_id", meta.CorrelationID),
			zap.Error(err))
	}
}

func (h *Handler) internalError(w http.ResponseWriter, r *http.Request, msg string, err error) {
	h.logger.Error(msg,
		zap.String("path", r.URL.Path),
		zap.String("correlation_id", middleware.GetCorrelationID(r.Context())),
		zap.Error(err))
	writeError(w, http.StatusInternalServerError, msg)
}
