package events

import (
	"time"

	"github.com/andreasstove999/artisan-marketplace/internal/catalog"
)

const (
	EventTypeCartItemAdded   = "CartItemAdded"
	EventTypeCartItemUpdated = "CartItemUpdated"
	EventTypeCartItemRemoved = "CartItemRemoved"
	EventTypeCartCleared     = "CartCleared"
	EventTypeStoryGenerated  = "StoryGenerated"
)

type route struct {
	routingKey string
	schema     string
}

var routes = map[string]route{
	EventTypeCartItemAdded:   {CartItemAddedRoutingKey, "marketplace/cart.item-added.v1.json"},
	EventTypeCartItemUpdated: {CartItemUpdatedRoutingKey, "marketplace/cart.item-updated.v1.json"},
	EventTypeCartItemRemoved: {CartItemRemovedRoutingKey, "marketplace/cart.item-removed.v1.json"},
	EventTypeCartCleared:     {CartClearedRoutingKey, "marketplace/cart.cleared.v1.json"},
	EventTypeStoryGenerated:  {StoryGeneratedRoutingKey, "marketplace/story.generated.v1.json"},
}

// Event is a named payload ready to be wrapped in an envelope.
type Event struct {
	Name    string
	Payload any
}

type CartItemPayload struct {
	CartItemID string    `json:"cartItemId"`
	SessionID  string    `json:"sessionId"`
	ProductID  string    `json:"productId"`
	Quantity   int       `json:"quantity"`
	Timestamp  time.Time `json:"timestamp"`
}

type CartItemRemovedPayload struct {
	CartItemID string    `json:"cartItemId"`
	SessionID  string    `json:"sessionId,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

type CartClearedPayload struct {
	SessionID string    `json:"sessionId"`
	Timestamp time.Time `json:"timestamp"`
}

type StoryGeneratedPayload struct {
	GenerationID string    `json:"generationId"`
	ArtisanID    string    `json:"artisanId"`
	ProductName  string    `json:"productName"`
	CaptionCount int       `json:"captionCount"`
	Timestamp    time.Time `json:"timestamp"`
}

func cartItemPayload(item catalog.CartItem, at time.Time) CartItemPayload {
	return CartItemPayload{
		CartItemID: item.ID,
		SessionID:  item.SessionID,
		ProductID:  item.ProductID,
		Quantity:   item.Quantity,
		Timestamp:  at,
	}
}

func CartItemAdded(item catalog.CartItem, at time.Time) Event {
	return Event{Name: EventTypeCartItemAdded, Payload: cartItemPayload(item, at)}
}

func CartItemUpdated(item catalog.CartItem, at time.Time) Event {
	return Event{Name: EventTypeCartItemUpdated, Payload: cartItemPayload(item, at)}
}

func CartItemRemoved(itemID, sessionID string, at time.Time) Event {
	return Event{Name: EventTypeCartItemRemoved, Payload: CartItemRemovedPayload{CartItemID: itemID, SessionID: sessionID, Timestamp: at}}
}

func CartCleared(sessionID string, at time.Time) Event {
	return Event{Name: EventTypeCartCleared, Payload: CartClearedPayload{SessionID: sessionID, Timestamp: at}}
}

func StoryGenerated(gen catalog.AIGeneration, at time.Time) Event {
	return Event{Name: EventTypeStoryGenerated, Payload: StoryGeneratedPayload{
		GenerationID: gen.ID,
		ArtisanID:    gen.ArtisanID,
		ProductName:  gen.ProductName,
		CaptionCount: len(gen.GeneratedCaptions),
		Timestamp:    at,
	}}
}
