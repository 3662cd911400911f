package catalog

import "time"

type Artisan struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Specialty    string    `json:"specialty"`
	Location     string    `json:"location"`
	Story        string    `json:"story"`
	ProfileImage string    `json:"profileImage"`
	Experience   int       `json:"experience"`
	Verified     bool      `json:"verified"`
	Featured     bool      `json:"featured"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Product.Price is a decimal kept as text to avoid float rounding.
type Product struct {
	ID          string    `json:"id"`
	ArtisanID   string    `json:"artisanId"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       string    `json:"price"`
	Category    string    `json:"category"`
	Images      []string  `json:"images"`
	Rating      string    `json:"rating"`
	Featured    bool      `json:"featured"`
	InStock     bool      `json:"inStock"`
	CreatedAt   time.Time `json:"createdAt"`
}

type Story struct {
	ID        string    `json:"id"`
	ArtisanID string    `json:"artisanId"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	ImageURL  string    `json:"imageUrl"`
	Featured  bool      `json:"featured"`
	CreatedAt time.Time `json:"createdAt"`
}

type CartItem struct {
	ID        string    `json:"id"`
	SessionID string    `json:"sessionId"`
	ProductID string    `json:"productId"`
	Quantity  int       `json:"quantity"`
	CreatedAt time.Time `json:"createdAt"`
}

type AIGeneration struct {
	ID                   string    `json:"id"`
	ArtisanID            string    `json:"artisanId"`
	ProductName          string    `json:"productName"`
	CraftType            string    `json:"craftType"`
	Heritage             string    `json:"heritage"`
	GeneratedDescription string    `json:"generatedDescription"`
	GeneratedCaptions    []string  `json:"generatedCaptions"`
	CreatedAt            time.Time `json:"createdAt"`
}

type NewArtisan struct {
	Name         string `json:"name"`
	Specialty    string `json:"specialty"`
	Location     string `json:"location"`
	Story        string `json:"story"`
	ProfileImage string `json:"profileImage"`
	Experience   int    `json:"experience"`
	Verified     bool   `json:"verified"`
	Featured     bool   `json:"featured"`
}

type NewProduct struct {
	ArtisanID   string   `json:"artisanId"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Price       string   `json:"price"`
	Category    string   `json:"category"`
	Images      []string `json:"images"`
	Rating      string   `json:"rating"`
	Featured    bool     `json:"featured"`
	InStock     *bool    `json:"inStock,omitempty"`
}

type NewStory struct {
	ArtisanID string `json:"artisanId"`
	Title     string `json:"title"`
	Content   string `json:"content"`
	ImageURL  string `json:"imageUrl"`
	Featured  bool   `json:"featured"`
}

type NewCartItem struct {
	SessionID string `json:"sessionId"`
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

type NewAIGeneration struct {
	ArtisanID            string
	ProductName          string
	CraftType            string
	Heritage             string
	GeneratedDescription string
	GeneratedCaptions    []string
}

// GenerationRequest asks for an AI product story on behalf of an artisan.
type GenerationRequest struct {
	ArtisanID   string `json:"artisanId"`
	ProductName string `json:"productName"`
	CraftType   string `json:"craftType"`
	Heritage    string `json:"heritage,omitempty"`
}
