package postgres

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/Lofienjoyerr/CafeProject/internal/adapter/logger"
	"github.com/Lofienjoyerr/CafeProject/internal/domain"
	"github.com/Lofienjoyerr/CafeProject/internal/interfaces"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestStore connects to CAFE_TEST_DATABASE_URL, applies migrations and
// empties every table. The tests are skipped without it.
func setupTestStore(t *testing.T) interfaces.Store {
	t.Helper()

	url := os.Getenv("CAFE_TEST_DATABASE_URL")
	if url == "" {
		t.Skip("CAFE_TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, url)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	db := &pgxDB{pool: pool}
	require.NoError(t, RunMigrations(ctx, db, logger.Nop()))
	_, err = db.Exec(ctx, `TRUNCATE order_items, orders, items RESTART IDENTITY CASCADE`)
	require.NoError(t, err)

	return NewStore(db)
}

func TestStore_OrderLifecycle(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	latte := domain.Item{Name: "latte", Price: 100}
	cake := domain.Item{Name: "cake", Price: 250}
	require.NoError(t, store.Items().Create(ctx, &latte))
	require.NoError(t, store.Items().Create(ctx, &cake))

	created := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	order, err := domain.NewOrder(4, []domain.Item{latte, cake}, domain.StatusPaid, created)
	require.NoError(t, err)

	err = store.WithinTx(ctx, func(ctx context.Context, repos interfaces.Repositories) error {
		return repos.Orders.Create(ctx, order)
	})
	require.NoError(t, err)

	got, err := store.Orders().FindByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(350), got.TotalPrice)
	assert.Equal(t, []int64{latte.ID, cake.ID}, got.ItemIDs())
	assert.True(t, created.Equal(got.CreatedAt))

	ids, err := store.Orders().IDsByItem(ctx, cake.ID)
	require.NoError(t, err)
	assert.Equal(t, []int64{order.ID}, ids)

	ids, err = store.Orders().IDsByStatuses(ctx, []domain.Status{domain.StatusPaid})
	require.NoError(t, err)
	assert.Equal(t, []int64{order.ID}, ids)

	ids, err = store.Orders().IDsByTableNumbers(ctx, []int{1, 4})
	require.NoError(t, err)
	assert.Equal(t, []int64{order.ID}, ids)

	from, to := domain.DayBounds(created, time.UTC)
	sum, err := store.Orders().SumTotals(ctx, domain.StatusPaid, from, to)
	require.NoError(t, err)
	assert.Equal(t, int64(350), sum)

	require.NoError(t, store.Orders().ReplaceItems(ctx, order.ID, []int64{cake.ID}))
	got, err = store.Orders().FindByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, []int64{cake.ID}, got.ItemIDs())

	require.NoError(t, store.Items().Delete(ctx, cake.ID))
	got, err = store.Orders().FindByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Items)

	require.NoError(t, store.Orders().Delete(ctx, order.ID))
	_, err = store.Orders().FindByID(ctx, order.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStore_WithinTxRollsBack(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	latte := domain.Item{Name: "latte", Price: 100}
	require.NoError(t, store.Items().Create(ctx, &latte))

	err := store.WithinTx(ctx, func(ctx context.Context, repos interfaces.Repositories) error {
		updated := latte
		updated.Price = 900
		if err := repos.Items.Update(ctx, &updated); err != nil {
			return err
		}
		return &domain.ConsistencyError{Op: "test", Err: assert.AnError}
	})
	require.Error(t, err)

	got, err := store.Items().FindByID(ctx, latte.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(100), got.Price)
}

func TestStore_NotFound(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	_, err := store.Items().FindByID(ctx, 1)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, store.Items().Update(ctx, &domain.Item{ID: 1, Name: "x"}), domain.ErrNotFound)
	assert.ErrorIs(t, store.Orders().Delete(ctx, 1), domain.ErrNotFound)
}
