package catalog

import (
	"context"
	"fmt"
)

type seedArtisan struct {
	artisan  NewArtisan
	products []NewProduct
	stories  []NewStory
}

var demoCatalog = []seedArtisan{
	{
		artisan: NewArtisan{
			Name:       "Priya Sharma",
			Specialty:  "Pottery",
			Location:   "Jaipur, Rajasthan",
			Story:      "Third-generation potter working with blue glaze techniques passed down in her family.",
			Experience: 15,
			Verified:   true,
			Featured:   true,
		},
		products: []NewProduct{
			{Name: "Blue Pottery Bowl", Description: "Hand-thrown bowl with traditional floral glaze.", Price: "19.99", Category: "pottery", Rating: "4.8", Featured: true},
			{Name: "Glazed Serving Plate", Description: "Wide plate finished in cobalt and turquoise.", Price: "34.50", Category: "pottery", Rating: "4.6"},
		},
		stories: []NewStory{
			{Title: "The Colours of Jaipur", Content: "How a family kiln kept blue pottery alive through three generations.", Featured: true},
		},
	},
	{
		artisan: NewArtisan{
			Name:       "Ravi Kumar",
			Specialty:  "Handloom Weaving",
			Location:   "Varanasi, Uttar Pradesh",
			Story:      "Weaves silk brocade on a pit loom his grandfather built.",
			Experience: 22,
			Verified:   true,
			Featured:   true,
		},
		products: []NewProduct{
			{Name: "Banarasi Silk Stole", Description: "Silk stole with zari border woven on a pit loom.", Price: "89.00", Category: "textiles", Rating: "4.9", Featured: true},
		},
	},
	{
		artisan: NewArtisan{
			Name:       "Meera Das",
			Specialty:  "Woodcraft",
			Location:   "Channapatna, Karnataka",
			Story:      "Turns lacquered wooden toys coloured with vegetable dyes.",
			Experience: 9,
		},
		products: []NewProduct{
			{Name: "Lacquered Spinning Top", Description: "Ivory-wood top finished with natural lac.", Price: "12.25", Category: "woodcraft", Rating: "4.5"},
		},
	},
}

// Seed fills an empty repository with demo artisans, products and stories.
// It does nothing when artisans already exist.
func Seed(ctx context.Context, repo Repository) error {
	existing, err := repo.GetArtisans(ctx)
	if err != nil {
		return fmt.Errorf("check existing artisans: %w", err)
	}
	if len(existing) > 0 {
		return nil
	}

	for _, s := range demoCatalog {
		a, err := repo.CreateArtisan(ctx, s.artisan)
		if err != nil {
			return fmt.Errorf("seed artisan %q: %w", s.artisan.Name, err)
		}
		for _, p := range s.products {
			p.ArtisanID = a.ID
			if _, err := repo.CreateProduct(ctx, p); err != nil {
				return fmt.Errorf("seed product %q: %w", p.Name, err)
			}
		}
		for _, st := range s.stories {
			st.ArtisanID = a.ID
			if _, err := repo.CreateStory(ctx, st); err != nil {
				return fmt.Errorf("seed story %q: %w", st.Title, err)
			}
		}
	}
	return nil
}
