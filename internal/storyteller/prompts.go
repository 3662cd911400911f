package storyteller

import "fmt"

const productStoryPrompt = `You are an expert storyteller specializing in artisan crafts, cultural heritage, and authentic brand narratives. Write compelling, emotionally resonant content for a handmade product that celebrates craftsmanship and cultural significance.

Product details:
- Name: %s
- Craft type: %s
- Cultural heritage: %s
- Artisan: %s from %s

Requirements:
1. A vivid product description of 2-3 sentences covering the artisan's skill, the cultural significance of the piece, and any notable materials or techniques.
2. Three distinct social media captions:
   - Caption 1 (inspirational): the artisan's passion and dedication
   - Caption 2 (storytelling): the heritage and traditional techniques
   - Caption 3 (product-focused): quality, uniqueness and buyer benefits

Respond ONLY with valid JSON in exactly this shape, with no other text:
{
  "description": "...",
  "captions": ["...", "...", "..."]
}`

const artisanStoryPrompt = `Write a compelling 2-3 sentence story about an artisan named %s who specializes in %s and is from %s.

Focus on their passion for the craft, the cultural or traditional significance of their work, what makes their craftsmanship valuable, and the human story behind the art.

Keep it emotionally engaging, authentic and concise.`

const (
	defaultDescription = "A beautiful handcrafted piece showcasing exceptional artisan skill and cultural heritage."
	notSpecified       = "Not specified"
)

var defaultCaptions = []string{
	"Handcrafted with passion and tradition",
	"Supporting artisans and preserving cultural heritage",
	"Discover authentic craftsmanship",
}

func buildProductPrompt(req StoryRequest) string {
	heritage := req.Heritage
	if heritage == "" {
		heritage = notSpecified
	}
	return fmt.Sprintf(productStoryPrompt, req.ProductName, req.CraftType, heritage, req.ArtisanName, req.ArtisanLocation)
}

func buildArtisanPrompt(name, specialty, location string) string {
	return fmt.Sprintf(artisanStoryPrompt, name, specialty, location)
}

func fallbackStory(req StoryRequest) StoryResponse {
	tradition := req.Heritage
	if tradition == "" {
		tradition = req.CraftType
	}
	return StoryResponse{
		Description: fmt.Sprintf("A stunning example of %s craftsmanship from %s in %s. This piece demonstrates traditional artisan techniques and cultural heritage, created with meticulous attention to detail and authentic materials.",
			req.CraftType, req.ArtisanName, req.ArtisanLocation),
		Captions: []string{
			fmt.Sprintf("Meet %s, a passionate artisan dedicated to preserving %s traditions through exceptional handcrafted work.", req.ArtisanName, tradition),
			fmt.Sprintf("Every piece tells a story of heritage and tradition. This %s showcases generations of %s expertise from %s.", req.ProductName, req.CraftType, req.ArtisanLocation),
			fmt.Sprintf("Discover authentic %s by %s. Handcrafted quality that honors tradition and supports artisan communities.", req.ProductName, req.ArtisanName),
		},
	}
}

func fallbackArtisanStory(name, specialty, location string) string {
	return fmt.Sprintf("%s is a talented artisan from %s who creates exceptional %s pieces, blending traditional techniques with contemporary artistry to preserve cultural heritage.",
		name, location, specialty)
}
