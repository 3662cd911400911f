package catalog

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	productCols  = []string{"id", "artisan_id", "name", "description", "price", "category", "images", "rating", "featured", "in_stock", "created_at"}
	cartItemCols = []string{"id", "session_id", "product_id", "quantity", "created_at"}
	artisanCols  = []string{"id", "name", "specialty", "location", "story", "profile_image", "experience", "verified", "featured", "created_at"}
)

func newMockRepo(t *testing.T) (*PostgresRepository, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return NewPostgresRepository(mock), mock
}

func TestPostgresRepository_GetProduct(t *testing.T) {
	ctx := context.Background()
	repo, mock := newMockRepo(t)
	now := time.Now().UTC()

	mock.ExpectQuery(regexp.QuoteMeta(`FROM products WHERE id=$1`)).
		WithArgs("prod-42").
		WillReturnRows(pgxmock.NewRows(productCols).
			AddRow("prod-42", "art-7", "Bowl", "A bowl", "19.99", "pottery", []string{"bowl.jpg"}, "4.8", true, true, now))

	p, err := repo.GetProduct(ctx, "prod-42")
	require.NoError(t, err)
	assert.Equal(t, "prod-42", p.ID)
	assert.Equal(t, "art-7", p.ArtisanID)
	assert.Equal(t, "19.99", p.Price)
	assert.Equal(t, []string{"bowl.jpg"}, p.Images)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepository_GetProductMissing(t *testing.T) {
	ctx := context.Background()
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM products WHERE id=$1`)).
		WithArgs("missing").
		WillReturnError(pgx.ErrNoRows)

	_, err := repo.GetProduct(ctx, "missing")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestPostgresRepository_GetArtisans(t *testing.T) {
	ctx := context.Background()
	repo, mock := newMockRepo(t)
	now := time.Now().UTC()

	mock.ExpectQuery(regexp.QuoteMeta(`FROM artisans ORDER BY created_at, id`)).
		WillReturnRows(pgxmock.NewRows(artisanCols).
			AddRow("art-1", "Jane", "Pottery", "Jaipur", "", "", 3, true, false, now).
			AddRow("art-2", "Ravi", "Weaving", "Varanasi", "", "", 10, false, true, now))

	got, err := repo.GetArtisans(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Jane", got[0].Name)
	assert.True(t, got[1].Featured)
}

func TestPostgresRepository_GetCartItems(t *testing.T) {
	ctx := context.Background()
	repo, mock := newMockRepo(t)
	now := time.Now().UTC()

	mock.ExpectQuery(regexp.QuoteMeta(`FROM cart_items WHERE session_id=$1`)).
		WithArgs("guest-session").
		WillReturnRows(pgxmock.NewRows(cartItemCols).
			AddRow("ci-1", "guest-session", "prod-42", 1, now).
			AddRow("ci-2", "guest-session", "prod-43", 2, now))

	items, err := repo.GetCartItems(ctx, "guest-session")
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "ci-1", items[0].ID)
	assert.Equal(t, 2, items[1].Quantity)
}

func TestPostgresRepository_GetCartItemsEmpty(t *testing.T) {
	ctx := context.Background()
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM cart_items WHERE session_id=$1`)).
		WithArgs("empty").
		WillReturnRows(pgxmock.NewRows(cartItemCols))

	items, err := repo.GetCartItems(ctx, "empty")
	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)
}

func TestPostgresRepository_AddToCart(t *testing.T) {
	ctx := context.Background()

	t.Run("upserts line item", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		now := time.Now().UTC()

		mock.ExpectQuery(regexp.QuoteMeta(`ON CONFLICT (session_id, product_id)`)).
			WithArgs(pgxmock.AnyArg(), "guest-session", "prod-42", 1).
			WillReturnRows(pgxmock.NewRows(cartItemCols).AddRow("ci-1", "guest-session", "prod-42", 1, now))

		item, err := repo.AddToCart(ctx, NewCartItem{SessionID: "guest-session", ProductID: "prod-42", Quantity: 1})
		require.NoError(t, err)
		assert.Equal(t, "ci-1", item.ID)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rejects invalid input without touching the db", func(t *testing.T) {
		repo, mock := newMockRepo(t)

		_, err := repo.AddToCart(ctx, NewCartItem{SessionID: "guest-session", Quantity: 0})
		require.ErrorIs(t, err, ErrValidation)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unknown product is a validation failure", func(t *testing.T) {
		repo, mock := newMockRepo(t)

		mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO cart_items`)).
			WithArgs(pgxmock.AnyArg(), "guest-session", "ghost", 1).
			WillReturnError(&pgconn.PgError{Code: pgForeignKeyViolation})

		_, err := repo.AddToCart(ctx, NewCartItem{SessionID: "guest-session", ProductID: "ghost", Quantity: 1})
		require.ErrorIs(t, err, ErrValidation)
	})
}

func TestPostgresRepository_UpdateCartItem(t *testing.T) {
	ctx := context.Background()

	t.Run("updates quantity", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		now := time.Now().UTC()

		mock.ExpectQuery(regexp.QuoteMeta(`UPDATE cart_items SET quantity=$2`)).
			WithArgs("ci-1", 3).
			WillReturnRows(pgxmock.NewRows(cartItemCols).AddRow("ci-1", "guest-session", "prod-42", 3, now))

		item, err := repo.UpdateCartItem(ctx, "ci-1", 3)
		require.NoError(t, err)
		assert.Equal(t, 3, item.Quantity)
	})

	t.Run("unknown id", func(t *testing.T) {
		repo, mock := newMockRepo(t)

		mock.ExpectQuery(regexp.QuoteMeta(`UPDATE cart_items SET quantity=$2`)).
			WithArgs("nope", 2).
			WillReturnError(pgx.ErrNoRows)

		_, err := repo.UpdateCartItem(ctx, "nope", 2)
		require.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("quantity below one", func(t *testing.T) {
		repo, mock := newMockRepo(t)

		_, err := repo.UpdateCartItem(ctx, "ci-1", 0)
		require.ErrorIs(t, err, ErrValidation)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestPostgresRepository_RemoveFromCart(t *testing.T) {
	ctx := context.Background()

	t.Run("deletes", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM cart_items WHERE id=$1`)).
			WithArgs("ci-1").
			WillReturnResult(pgxmock.NewResult("DELETE", 1))

		require.NoError(t, repo.RemoveFromCart(ctx, "ci-1"))
	})

	t.Run("missing row", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM cart_items WHERE id=$1`)).
			WithArgs("ci-9").
			WillReturnResult(pgxmock.NewResult("DELETE", 0))

		require.ErrorIs(t, repo.RemoveFromCart(ctx, "ci-9"), ErrNotFound)
	})

	t.Run("db error surfaces", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM cart_items WHERE id=$1`)).
			WithArgs("ci-1").
			WillReturnError(errors.New("connection reset"))

		err := repo.RemoveFromCart(ctx, "ci-1")
		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrNotFound)
	})
}

func TestPostgresRepository_ClearCartIsIdempotent(t *testing.T) {
	ctx := context.Background()
	repo, mock := newMockRepo(t)

	for i := 0; i < 2; i++ {
		mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM cart_items WHERE session_id=$1`)).
			WithArgs("guest-session").
			WillReturnResult(pgxmock.NewResult("DELETE", 0))
	}

	require.NoError(t, repo.ClearCart(ctx, "guest-session"))
	require.NoError(t, repo.ClearCart(ctx, "guest-session"))
	require.NoError(t, mock.ExpectationsWereMet())
}
