package postgres

import (
	"context"
	"errors"
	"math"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/logistica-api/internal/domain"
	"github.com/jhoicas/logistica-api/internal/domain/entity"
	"github.com/jhoicas/logistica-api/internal/domain/repository"
	"github.com/jhoicas/logistica-api/pkg/config"
)

// newTestStore requiere TEST_DATABASE_URL; vacía las tablas antes de cada test.
func newTestStore(t *testing.T) *Store {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL no definido")
	}
	ctx := context.Background()
	pool, err := NewPool(ctx, config.DBConfig{DatabaseURL: dsn})
	require.NoError(t, err)
	require.NoError(t, EnsureSchema(ctx, pool))
	_, err = pool.Exec(ctx, `TRUNCATE products, movements, pending_items, routines, attendance`)
	require.NoError(t, err)
	s := NewStore(pool)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestPostgres_ApplyQuantityDelta(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	id := uuid.New().String()
	now := time.Now()
	require.NoError(t, s.Products().Create(ctx, &entity.Product{ID: id, Barcode: "123", Name: "A", Stock: 10, CreatedAt: now, UpdatedAt: now}))
	assert.ErrorIs(t, s.Products().Create(ctx, &entity.Product{ID: uuid.New().String(), Barcode: "123", Name: "B", CreatedAt: now, UpdatedAt: now}), domain.ErrDuplicateBarcode)

	p, err := s.Products().ApplyQuantityDelta(ctx, id, entity.QuantityStock, 5)
	require.NoError(t, err)
	assert.Equal(t, 15, p.Stock)

	_, err = s.Products().ApplyQuantityDelta(ctx, id, entity.QuantityStock, -20)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	_, err = s.Products().ApplyQuantityDelta(ctx, id, entity.QuantityGrossPacking, -1)
	assert.ErrorIs(t, err, domain.ErrInsufficientGrossPacking)
	_, err = s.Products().ApplyQuantityDelta(ctx, uuid.New().String(), entity.QuantityStock, 1)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	for _, delta := range []int{entity.MaxStoredQuantity, math.MaxInt} {
		_, err = s.Products().ApplyQuantityDelta(ctx, id, entity.QuantityStock, delta)
		assert.ErrorIs(t, err, domain.ErrQuantityOutOfRange)
	}
	p, err = s.Products().GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 15, p.Stock)
}

func TestPostgres_PendingAdjustQuantity(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	repo := s.Pending()
	now := time.Now()
	row := &entity.PendingOutboundItem{ProductID: "p1", Barcode: "1", Name: "A", AddedAt: now, UpdatedAt: now}
	_, err := repo.AddQuantity(ctx, row, 3)
	require.NoError(t, err)

	item, err := repo.AdjustQuantity(ctx, "p1", 2)
	require.NoError(t, err)
	assert.Equal(t, 5, item.Quantity)
	_, err = repo.AdjustQuantity(ctx, "p1", -6)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = repo.AddQuantity(ctx, row, entity.MaxOperationQuantity)
	assert.ErrorIs(t, err, domain.ErrQuantityOutOfRange)

	item, err = repo.AdjustQuantity(ctx, "p1", -5)
	require.NoError(t, err)
	assert.Nil(t, item)
	_, err = repo.AdjustQuantity(ctx, "p1", 1)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestPostgres_RunRollsBack(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	id := uuid.New().String()
	now := time.Now()
	require.NoError(t, s.Products().Create(ctx, &entity.Product{ID: id, Barcode: "rb", Name: "A", Stock: 3, CreatedAt: now, UpdatedAt: now}))
	boom := errors.New("boom")

	err := s.Run(ctx, func(products repository.ProductRepository, _ repository.MovementRepository, _ repository.PendingListRepository) error {
		if _, err := products.ApplyQuantityDelta(ctx, id, entity.QuantityStock, -3); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	p, err := s.Products().GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 3, p.Stock)
}

func TestPostgres_PendingMergeAndMovementQuery(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	now := time.Now()

	for i := 0; i < 4; i++ {
		_, err := s.Pending().AddQuantity(ctx, &entity.PendingOutboundItem{ProductID: "p1", Barcode: "1", Name: "A", AddedAt: now, UpdatedAt: now}, 1)
		require.NoError(t, err)
	}
	list, err := s.Pending().List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, 4, list[0].Quantity)

	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		require.NoError(t, s.Movements().Append(ctx, &entity.Movement{
			ID: uuid.New().String(), ProductID: "p1", ProductName: "A", Barcode: "1",
			Type: entity.MovementTypeIN, Quantity: i + 1, Date: "2026-03-01", Time: "00:00:00",
			Timestamp: base.Add(time.Duration(i) * time.Microsecond),
		}))
	}
	movs, err := s.Movements().Query(ctx, entity.MovementFilter{ProductID: "p1", Limit: 2})
	require.NoError(t, err)
	require.Len(t, movs, 2)
	assert.Equal(t, 3, movs[0].Quantity)
}
