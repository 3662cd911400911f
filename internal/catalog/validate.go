package catalog

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// Prices are stored as NUMERIC(10, 2).
var maxPrice = decimal.New(1, 8)

var (
	ErrNotFound   = errors.New("not found")
	ErrValidation = errors.New("validation failed")
)

// FieldError describes one rejected input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return fmt.Sprintf("%s: %s", ErrValidation, strings.Join(parts, "; "))
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

type fieldErrors map[string]string

func (f fieldErrors) required(field, value string) {
	if strings.TrimSpace(value) == "" {
		f[field] = "is required"
	}
}

func (f fieldErrors) err() error {
	if len(f) == 0 {
		return nil
	}
	out := &ValidationError{}
	for k, v := range f {
		out.Fields = append(out.Fields, FieldError{Field: k, Message: v})
	}
	sort.Slice(out.Fields, func(i, j int) bool { return out.Fields[i].Field < out.Fields[j].Field })
	return out
}

func (a NewArtisan) Validate() error {
	fe := fieldErrors{}
	fe.required("name", a.Name)
	fe.required("specialty", a.Specialty)
	fe.required("location", a.Location)
	if a.Experience < 0 {
		fe["experience"] = "must not be negative"
	}
	return fe.err()
}

func (p NewProduct) Validate() error {
	fe := fieldErrors{}
	fe.required("artisanId", p.ArtisanID)
	fe.required("name", p.Name)
	fe.required("category", p.Category)
	if strings.TrimSpace(p.Price) == "" {
		fe["price"] = "is required"
	} else if d, err := decimal.NewFromString(p.Price); err != nil {
		fe["price"] = "must be a decimal number"
	} else if d.IsNegative() {
		fe["price"] = "must not be negative"
	} else if !d.Equal(d.Round(2)) {
		fe["price"] = "must have at most 2 decimal places"
	} else if d.GreaterThanOrEqual(maxPrice) {
		fe["price"] = "must be less than 100000000"
	}
	return fe.err()
}

func (s NewStory) Validate() error {
	fe := fieldErrors{}
	fe.required("artisanId", s.ArtisanID)
	fe.required("title", s.Title)
	fe.required("content", s.Content)
	return fe.err()
}

func (c NewCartItem) Validate() error {
	fe := fieldErrors{}
	fe.required("sessionId", c.SessionID)
	fe.required("productId", c.ProductID)
	if c.Quantity < 1 {
		fe["quantity"] = "must be at least 1"
	}
	return fe.err()
}

// ValidateQuantity guards cart line quantity updates.
func ValidateQuantity(quantity int) error {
	if quantity < 1 {
		return &ValidationError{Fields: []FieldError{{Field: "quantity", Message: "must be at least 1"}}}
	}
	return nil
}

func (g GenerationRequest) Validate() error {
	fe := fieldErrors{}
	fe.required("artisanId", g.ArtisanID)
	fe.required("productName", g.ProductName)
	fe.required("craftType", g.CraftType)
	return fe.err()
}
