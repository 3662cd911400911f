package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DBPool matches the methods from *pgxpool.Pool that we use.
// This allows us to mock the database in tests.
type DBPool interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
}

const (
	artisanColumns    = `id, name, specialty, location, story, profile_image, experience, verified, featured, created_at`
	productColumns    = `id, artisan_id, name, description, price::text, category, images, rating, featured, in_stock, created_at`
	storyColumns      = `id, artisan_id, title, content, image_url, featured, created_at`
	cartItemColumns   = `id, session_id, product_id, quantity, created_at`
	generationColumns = `id, artisan_id, product_name, craft_type, heritage, generated_description, generated_captions, created_at`

	pgForeignKeyViolation = "23503"
)

type PostgresRepository struct {
	pool DBPool
}

var _ Repository = (*PostgresRepository)(nil)

func NewPostgresRepository(pool DBPool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

type scanner interface {
	Scan(dest ...any) error
}

func collect[T any](rows pgx.Rows, scan func(scanner) (T, error)) ([]T, error) {
	defer rows.Close()

	out := []T{}
	for rows.Next() {
		v, err := scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func notFound(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

// --- artisans ---

func scanArtisan(s scanner) (Artisan, error) {
	var a Artisan
	err := s.Scan(&a.ID, &a.Name, &a.Specialty, &a.Location, &a.Story, &a.ProfileImage,
		&a.Experience, &a.Verified, &a.Featured, &a.CreatedAt)
	return a, err
}

func (r *PostgresRepository) listArtisans(ctx context.Context, query string, args ...any) ([]Artisan, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query artisans: %w", err)
	}
	return collect(rows, scanArtisan)
}

func (r *PostgresRepository) GetArtisans(ctx context.Context) ([]Artisan, error) {
	return r.listArtisans(ctx, `SELECT `+artisanColumns+` FROM artisans ORDER BY created_at, id`)
}

func (r *PostgresRepository) GetFeaturedArtisans(ctx context.Context) ([]Artisan, error) {
	return r.listArtisans(ctx, `SELECT `+artisanColumns+` FROM artisans WHERE featured ORDER BY created_at, id`)
}

func (r *PostgresRepository) GetArtisan(ctx context.Context, id string) (Artisan, error) {
	a, err := scanArtisan(r.pool.QueryRow(ctx, `SELECT `+artisanColumns+` FROM artisans WHERE id=$1`, id))
	if err != nil {
		return Artisan{}, notFound(err)
	}
	return a, nil
}

func (r *PostgresRepository) CreateArtisan(ctx context.Context, in NewArtisan) (Artisan, error) {
	if err := in.Validate(); err != nil {
		return Artisan{}, err
	}
	a, err := scanArtisan(r.pool.QueryRow(ctx, `
		INSERT INTO artisans (id, name, specialty, location, story, profile_image, experience, verified, featured)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING `+artisanColumns,
		uuid.NewString(), in.Name, in.Specialty, in.Location, in.Story, in.ProfileImage, in.Experience, in.Verified, in.Featured))
	if err != nil {
		return Artisan{}, fmt.Errorf("insert artisan: %w", err)
	}
	return a, nil
}

// --- products ---

func scanProduct(s scanner) (Product, error) {
	var p Product
	err := s.Scan(&p.ID, &p.ArtisanID, &p.Name, &p.Description, &p.Price, &p.Category,
		&p.Images, &p.Rating, &p.Featured, &p.InStock, &p.CreatedAt)
	if p.Images == nil {
		p.Images = []string{}
	}
	return p, err
}

func (r *PostgresRepository) listProducts(ctx context.Context, query string, args ...any) ([]Product, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}
	return collect(rows, scanProduct)
}

func (r *PostgresRepository) GetProducts(ctx context.Context) ([]Product, error) {
	return r.listProducts(ctx, `SELECT `+productColumns+` FROM products ORDER BY created_at, id`)
}

func (r *PostgresRepository) GetProductsByCategory(ctx context.Context, category string) ([]Product, error) {
	return r.listProducts(ctx, `SELECT `+productColumns+` FROM products WHERE category=$1 ORDER BY created_at, id`, category)
}

func (r *PostgresRepository) GetFeaturedProducts(ctx context.Context) ([]Product, error) {
	return r.listProducts(ctx, `SELECT `+productColumns+` FROM products WHERE featured ORDER BY created_at, id`)
}

func (r *PostgresRepository) GetProductsByArtisan(ctx context.Context, artisanID string) ([]Product, error) {
	return r.listProducts(ctx, `SELECT `+productColumns+` FROM products WHERE artisan_id=$1 ORDER BY created_at, id`, artisanID)
}

func (r *PostgresRepository) GetProduct(ctx context.Context, id string) (Product, error) {
	p, err := scanProduct(r.pool.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id=$1`, id))
	if err != nil {
		return Product{}, notFound(err)
	}
	return p, nil
}

func (r *PostgresRepository) CreateProduct(ctx context.Context, in NewProduct) (Product, error) {
	if err := in.Validate(); err != nil {
		return Product{}, err
	}
	inStock := true
	if in.InStock != nil {
		inStock = *in.InStock
	}
	images := in.Images
	if images == nil {
		images = []string{}
	}
	p, err := scanProduct(r.pool.QueryRow(ctx, `
		INSERT INTO products (id, artisan_id, name, description, price, category, images, rating, featured, in_stock)
		VALUES ($1, $2, $3, $4, $5::numeric, $6, $7, $8, $9, $10)
		RETURNING `+productColumns,
		uuid.NewString(), in.ArtisanID, in.Name, in.Description, in.Price, in.Category, images, in.Rating, in.Featured, inStock))
	if err != nil {
		if isForeignKeyViolation(err) {
			return Product{}, &ValidationError{Fields: []FieldError{{Field: "artisanId", Message: "unknown artisan"}}}
		}
		return Product{}, fmt.Errorf("insert product: %w", err)
	}
	return p, nil
}

// --- stories ---

func scanStory(s scanner) (Story, error) {
	var st Story
	err := s.Scan(&st.ID, &st.ArtisanID, &st.Title, &st.Content, &st.ImageURL, &st.Featured, &st.CreatedAt)
	return st, err
}

func (r *PostgresRepository) listStories(ctx context.Context, query string, args ...any) ([]Story, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query stories: %w", err)
	}
	return collect(rows, scanStory)
}

func (r *PostgresRepository) GetStories(ctx context.Context) ([]Story, error) {
	return r.listStories(ctx, `SELECT `+storyColumns+` FROM stories ORDER BY created_at, id`)
}

func (r *PostgresRepository) GetFeaturedStories(ctx context.Context) ([]Story, error) {
	return r.listStories(ctx, `SELECT `+storyColumns+` FROM stories WHERE featured ORDER BY created_at, id`)
}

func (r *PostgresRepository) GetStory(ctx context.Context, id string) (Story, error) {
	st, err := scanStory(r.pool.QueryRow(ctx, `SELECT `+storyColumns+` FROM stories WHERE id=$1`, id))
	if err != nil {
		return Story{}, notFound(err)
	}
	return st, nil
}

func (r *PostgresRepository) CreateStory(ctx context.Context, in NewStory) (Story, error) {
	if err := in.Validate(); err != nil {
		return Story{}, err
	}
	st, err := scanStory(r.pool.QueryRow(ctx, `
		INSERT INTO stories (id, artisan_id, title, content, image_url, featured)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+storyColumns,
		uuid.NewString(), in.ArtisanID, in.Title, in.Content, in.ImageURL, in.Featured))
	if err != nil {
		if isForeignKeyViolation(err) {
			return Story{}, &ValidationError{Fields: []FieldError{{Field: "artisanId", Message: "unknown artisan"}}}
		}
		return Story{}, fmt.Errorf("insert story: %w", err)
	}
	return st, nil
}

// --- cart ---

func scanCartItem(s scanner) (CartItem, error) {
	var c CartItem
	err := s.Scan(&c.ID, &c.SessionID, &c.ProductID, &c.Quantity, &c.CreatedAt)
	return c, err
}

func (r *PostgresRepository) GetCartItems(ctx context.Context, sessionID string) ([]CartItem, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+cartItemColumns+` FROM cart_items WHERE session_id=$1 ORDER BY created_at, id`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("query cart items: %w", err)
	}
	return collect(rows, scanCartItem)
}

func (r *PostgresRepository) AddToCart(ctx context.Context, in NewCartItem) (CartItem, error) {
	if err := in.Validate(); err != nil {
		return CartItem{}, err
	}
	c, err := scanCartItem(r.pool.QueryRow(ctx, `
		INSERT INTO cart_items (id, session_id, product_id, quantity)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (session_id, product_id)
		DO UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity
		RETURNING `+cartItemColumns,
		uuid.NewString(), in.SessionID, in.ProductID, in.Quantity))
	if err != nil {
		if isForeignKeyViolation(err) {
			return CartItem{}, &ValidationError{Fields: []FieldError{{Field: "productId", Message: "unknown product"}}}
		}
		return CartItem{}, fmt.Errorf("upsert cart item: %w", err)
	}
	return c, nil
}

func (r *PostgresRepository) UpdateCartItem(ctx context.Context, id string, quantity int) (CartItem, error) {
	if err := ValidateQuantity(quantity); err != nil {
		return CartItem{}, err
	}
	c, err := scanCartItem(r.pool.QueryRow(ctx, `
		UPDATE cart_items SET quantity=$2
		WHERE id=$1
		RETURNING `+cartItemColumns, id, quantity))
	if err != nil {
		return CartItem{}, notFound(err)
	}
	return c, nil
}

func (r *PostgresRepository) RemoveFromCart(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM cart_items WHERE id=$1`, id)
	if err != nil {
		return fmt.Errorf("delete cart item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresRepository) ClearCart(ctx context.Context, sessionID string) error {
	if _, err := r.pool.Exec(ctx, `DELETE FROM cart_items WHERE session_id=$1`, sessionID); err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}
	return nil
}

// --- ai generations ---

func scanGeneration(s scanner) (AIGeneration, error) {
	var g AIGeneration
	err := s.Scan(&g.ID, &g.ArtisanID, &g.ProductName, &g.CraftType, &g.Heritage,
		&g.GeneratedDescription, &g.GeneratedCaptions, &g.CreatedAt)
	if g.GeneratedCaptions == nil {
		g.GeneratedCaptions = []string{}
	}
	return g, err
}

func (r *PostgresRepository) CreateAIGeneration(ctx context.Context, in NewAIGeneration) (AIGeneration, error) {
	captions := in.GeneratedCaptions
	if captions == nil {
		captions = []string{}
	}
	g, err := scanGeneration(r.pool.QueryRow(ctx, `
		INSERT INTO ai_generations (id, artisan_id, product_name, craft_type, heritage, generated_description, generated_captions)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+generationColumns,
		uuid.NewString(), in.ArtisanID, in.ProductName, in.CraftType, in.Heritage, in.GeneratedDescription, captions))
	if err != nil {
		return AIGeneration{}, fmt.Errorf("insert ai generation: %w", err)
	}
	return g, nil
}

func (r *PostgresRepository) GetArtisanGenerations(ctx context.Context, artisanID string) ([]AIGeneration, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+generationColumns+` FROM ai_generations WHERE artisan_id=$1 ORDER BY created_at DESC, id`, artisanID)
	if err != nil {
		return nil, fmt.Errorf("query ai generations: %w", err)
	}
	return collect(rows, scanGeneration)
}

func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgForeignKeyViolation
}
