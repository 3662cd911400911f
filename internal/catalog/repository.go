package catalog

import "context"

type ArtisanStore interface {
	GetArtisans(ctx context.Context) ([]Artisan, error)
	GetFeaturedArtisans(ctx context.Context) ([]Artisan, error)
	GetArtisan(ctx context.Context, id string) (Artisan, error)
	CreateArtisan(ctx context.Context, in NewArtisan) (Artisan, error)
}

type ProductStore interface {
	GetProducts(ctx context.Context) ([]Product, error)
	GetProductsByCategory(ctx context.Context, category string) ([]Product, error)
	GetFeaturedProducts(ctx context.Context) ([]Product, error)
	GetProductsByArtisan(ctx context.Context, artisanID string) ([]Product, error)
	GetProduct(ctx context.Context, id string) (Product, error)
	CreateProduct(ctx context.Context, in NewProduct) (Product, error)
}

type StoryStore interface {
	GetStories(ctx context.Context) ([]Story, error)
	GetFeaturedStories(ctx context.Context) ([]Story, error)
	GetStory(ctx context.Context, id string) (Story, error)
	CreateStory(ctx context.Context, in NewStory) (Story, error)
}

// CartStore persists cart line items per session. Adding a product that is
// already in the session's cart merges by incrementing its quantity.
type CartStore interface {
	GetCartItems(ctx context.Context, sessionID string) ([]CartItem, error)
	AddToCart(ctx context.Context, in NewCartItem) (CartItem, error)
	UpdateCartItem(ctx context.Context, id string, quantity int) (CartItem, error)
	RemoveFromCart(ctx context.Context, id string) error
	ClearCart(ctx context.Context, sessionID string) error
}

type GenerationStore interface {
	CreateAIGeneration(ctx context.Context, in NewAIGeneration) (AIGeneration, error)
	GetArtisanGenerations(ctx context.Context, artisanID string) ([]AIGeneration, error)
}

type Repository interface {
	ArtisanStore
	ProductStore
	StoryStore
	CartStore
	GenerationStore
}
