package memory

import (
	"context"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/logistica-api/internal/domain"
	"github.com/jhoicas/logistica-api/internal/domain/entity"
)

func seedProduct(t *testing.T, s *Store, id, barcode string, stock, gross int) {
	t.Helper()
	require.NoError(t, s.Products().Create(context.Background(), &entity.Product{
		ID: id, Barcode: barcode, Name: "prod " + barcode, Stock: stock, GrossPackingQuantity: gross,
	}))
}

func TestProductRepo_DuplicateBarcode(t *testing.T) {
	s := NewStore()
	seedProduct(t, s, "p1", "123", 0, 0)

	err := s.Products().Create(context.Background(), &entity.Product{ID: "p2", Barcode: "123"})
	assert.ErrorIs(t, err, domain.ErrDuplicateBarcode)
}

func TestProductRepo_ApplyQuantityDelta(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	seedProduct(t, s, "p1", "123", 10, 2)
	repo := s.Products()

	p, err := repo.ApplyQuantityDelta(ctx, "p1", entity.QuantityStock, -4)
	require.NoError(t, err)
	assert.Equal(t, 6, p.Stock)

	_, err = repo.ApplyQuantityDelta(ctx, "p1", entity.QuantityStock, -7)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	_, err = repo.ApplyQuantityDelta(ctx, "p1", entity.QuantityGrossPacking, -3)
	assert.ErrorIs(t, err, domain.ErrInsufficientGrossPacking)

	_, err = repo.ApplyQuantityDelta(ctx, "nope", entity.QuantityStock, 1)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	got, err := repo.GetByID(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, 6, got.Stock)
	assert.Equal(t, 2, got.GrossPackingQuantity)
}

func TestProductRepo_ConcurrentDeltasAreNotLost(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	seedProduct(t, s, "p1", "123", 0, 0)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = s.Products().ApplyQuantityDelta(ctx, "p1", entity.QuantityStock, 2)
		}()
	}
	wg.Wait()

	p, err := s.Products().GetByID(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, 100, p.Stock)
}

func TestProductRepo_ApplyQuantityDeltaDoesNotOverflow(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	seedProduct(t, s, "p1", "123", 10, 0)

	_, err := s.Products().ApplyQuantityDelta(ctx, "p1", entity.QuantityStock, math.MaxInt)
	require.ErrorIs(t, err, domain.ErrQuantityOutOfRange)
	assert.NotErrorIs(t, err, domain.ErrInsufficientStock)

	p, err := s.Products().GetByID(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, 10, p.Stock)
}

func TestProductRepo_ListOrderedByName(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	require.NoError(t, s.Products().Create(ctx, &entity.Product{ID: "2", Barcode: "b", Name: "Beta"}))
	require.NoError(t, s.Products().Create(ctx, &entity.Product{ID: "1", Barcode: "a", Name: "Alfa"}))

	list, err := s.Products().List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Alfa", list[0].Name)
}

func TestMovementRepo_QueryNewestFirstWithFilters(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	for i, typ := range []entity.MovementType{entity.MovementTypeIN, entity.MovementTypeOUT, entity.MovementTypeIN} {
		require.NoError(t, s.Movements().Append(ctx, &entity.Movement{
			ID: string(rune('a' + i)), ProductID: "p1", Type: typ, Quantity: i + 1,
			Timestamp: base.Add(time.Duration(i) * time.Hour),
		}))
	}

	all, err := s.Movements().Query(ctx, entity.MovementFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "c", all[0].ID)

	ins, err := s.Movements().Query(ctx, entity.MovementFilter{Type: entity.MovementTypeIN, Limit: 1})
	require.NoError(t, err)
	require.Len(t, ins, 1)
	assert.Equal(t, "c", ins[0].ID)

	from := base.Add(30 * time.Minute)
	to := base.Add(2 * time.Hour)
	ranged, err := s.Movements().Query(ctx, entity.MovementFilter{From: &from, To: &to})
	require.NoError(t, err)
	require.Len(t, ranged, 1)
	assert.Equal(t, "b", ranged[0].ID)
}

func TestPendingRepo_MergeAndOrder(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	repo := s.Pending()
	t0 := time.Now()

	_, err := repo.AddQuantity(ctx, &entity.PendingOutboundItem{ProductID: "p1", AddedAt: t0}, 1)
	require.NoError(t, err)
	_, err = repo.AddQuantity(ctx, &entity.PendingOutboundItem{ProductID: "p2", AddedAt: t0.Add(time.Second)}, 2)
	require.NoError(t, err)
	item, err := repo.AddQuantity(ctx, &entity.PendingOutboundItem{ProductID: "p1", AddedAt: t0.Add(2 * time.Second)}, 3)
	require.NoError(t, err)
	assert.Equal(t, 4, item.Quantity)

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "p2", list[0].ProductID)
	assert.Equal(t, "p1", list[1].ProductID)

	assert.ErrorIs(t, repo.Delete(ctx, "missing"), domain.ErrNotFound)
	require.NoError(t, repo.Clear(ctx))
	list, err = repo.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestPendingRepo_AddQuantityDoesNotOverflow(t *testing.T) {
	ctx := context.Background()
	repo := NewStore().Pending()
	row := &entity.PendingOutboundItem{ProductID: "p1", AddedAt: time.Now()}

	_, err := repo.AddQuantity(ctx, row, math.MaxInt)
	require.ErrorIs(t, err, domain.ErrQuantityOutOfRange)

	_, err = repo.AddQuantity(ctx, row, entity.MaxOperationQuantity)
	require.NoError(t, err)
	_, err = repo.AddQuantity(ctx, row, math.MaxInt)
	require.ErrorIs(t, err, domain.ErrQuantityOutOfRange)

	got, err := repo.GetByProductID(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, entity.MaxOperationQuantity, got.Quantity)
}

func TestPendingRepo_AdjustQuantity(t *testing.T) {
	ctx := context.Background()
	repo := NewStore().Pending()
	_, err := repo.AddQuantity(ctx, &entity.PendingOutboundItem{ProductID: "p1", AddedAt: time.Now()}, 3)
	require.NoError(t, err)

	item, err := repo.AdjustQuantity(ctx, "p1", 2)
	require.NoError(t, err)
	assert.Equal(t, 5, item.Quantity)

	_, err = repo.AdjustQuantity(ctx, "p1", -6)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = repo.AdjustQuantity(ctx, "p1", math.MaxInt)
	assert.ErrorIs(t, err, domain.ErrQuantityOutOfRange)
	_, err = repo.AdjustQuantity(ctx, "missing", 1)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	item, err = repo.AdjustQuantity(ctx, "p1", -5)
	require.NoError(t, err)
	assert.Nil(t, item)
	list, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestPendingRepo_ConcurrentScansAndAdjustsAreNotLost(t *testing.T) {
	ctx := context.Background()
	repo := NewStore().Pending()
	_, err := repo.AddQuantity(ctx, &entity.PendingOutboundItem{ProductID: "p1", AddedAt: time.Now()}, 100)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, _ = repo.AddQuantity(ctx, &entity.PendingOutboundItem{ProductID: "p1"}, 2)
		}()
		go func() {
			defer wg.Done()
			_, _ = repo.AdjustQuantity(ctx, "p1", -1)
		}()
	}
	wg.Wait()

	got, err := repo.GetByProductID(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, 150, got.Quantity)
}

func TestStore_IsNotTransactional(t *testing.T) {
	assert.False(t, NewStore().Transactional())
}
