// Package storyteller writes marketing copy for artisan products using a
// generative text model.
package storyteller

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"go.uber.org/zap"
)

var ErrGeneration = errors.New("story generation failed")

// StoryRequest describes the product a story is written for.
type StoryRequest struct {
	ProductName     string `json:"productName"`
	CraftType       string `json:"craftType"`
	Heritage        string `json:"heritage,omitempty"`
	ArtisanName     string `json:"artisanName"`
	ArtisanLocation string `json:"artisanLocation"`
}

type StoryResponse struct {
	Description string   `json:"description"`
	Captions    []string `json:"captions"`
}

var jsonObject = regexp.MustCompile(`\{[\s\S]*\}`)

type Generator struct {
	model  Model
	logger *zap.Logger
}

func NewGenerator(model Model, logger *zap.Logger) *Generator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Generator{model: model, logger: logger}
}

// GenerateProductStory asks the model for a description and three captions.
// Output that cannot be parsed yields a fallback built from the request.
func (g *Generator) GenerateProductStory(ctx context.Context, req StoryRequest) (StoryResponse, error) {
	text, err := g.model.GenerateText(ctx, buildProductPrompt(req))
	if err != nil {
		g.logger.Error("generate product story", zap.String("product", req.ProductName), zap.Error(err))
		return StoryResponse{}, fmt.Errorf("%w: %v", ErrGeneration, err)
	}

	out, err := parseStory(text)
	if err != nil {
		g.logger.Warn("unparseable story output, using fallback", zap.String("product", req.ProductName), zap.Error(err))
		out = fallbackStory(req)
	}

	if strings.TrimSpace(out.Description) == "" {
		out.Description = defaultDescription
	}
	if len(out.Captions) == 0 {
		out.Captions = append([]string(nil), defaultCaptions...)
	}
	return out, nil
}

// GenerateArtisanStory returns a short biography for an artisan.
func (g *Generator) GenerateArtisanStory(ctx context.Context, name, specialty, location string) (string, error) {
	text, err := g.model.GenerateText(ctx, buildArtisanPrompt(name, specialty, location))
	if err != nil {
		g.logger.Error("generate artisan story", zap.String("artisan", name), zap.Error(err))
		return "", fmt.Errorf("%w: %v", ErrGeneration, err)
	}
	if text = strings.TrimSpace(text); text == "" {
		return fallbackArtisanStory(name, specialty, location), nil
	}
	return text, nil
}

func parseStory(text string) (StoryResponse, error) {
	raw := jsonObject.FindString(text)
	if raw == "" {
		return StoryResponse{}, errors.New("no JSON found in response")
	}
	var out StoryResponse
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return StoryResponse{}, err
	}
	return out, nil
}
