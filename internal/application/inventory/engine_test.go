package inventory_test

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/logistica-api/internal/application/inventory"
	"github.com/jhoicas/logistica-api/internal/application/usecase"
	"github.com/jhoicas/logistica-api/internal/domain"
	"github.com/jhoicas/logistica-api/internal/domain/entity"
	"github.com/jhoicas/logistica-api/internal/domain/repository"
	"github.com/jhoicas/logistica-api/internal/infrastructure/memory"
)

type recorder struct {
	mu     sync.Mutex
	events []inventory.StockEvent
}

func (r *recorder) Publish(evt inventory.StockEvent) {
	r.mu.Lock()
	r.events = append(r.events, evt)
	r.mu.Unlock()
}

func (r *recorder) count(action string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, e := range r.events {
		if e.Action == action {
			n++
		}
	}
	return n
}

type fixture struct {
	store    *memory.Store
	products *usecase.ProductUseCase
	engine   *inventory.StockEngine
	pending  *inventory.PendingListUseCase
	events   *recorder
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	return newFixtureWithTx(t, memory.NewStore(), nil)
}

func newFixtureWithTx(t *testing.T, store *memory.Store, tx inventory.TxRunner) *fixture {
	t.Helper()
	if tx == nil {
		tx = store
	}
	products := usecase.NewProductUseCase(store.Products(), store.Pending())
	events := &recorder{}
	engine := inventory.NewStockEngine(tx, products, inventory.NewLedgerClock(time.UTC), nil, events)
	return &fixture{
		store:    store,
		products: products,
		engine:   engine,
		pending:  inventory.NewPendingListUseCase(store.Pending(), products, engine, nil, events),
		events:   events,
	}
}

func (f *fixture) product(t *testing.T, barcode string, stock, gross int) *entity.Product {
	t.Helper()
	p := &entity.Product{ID: "id-" + barcode, Barcode: barcode, Name: "Producto " + barcode, Stock: stock, GrossPackingQuantity: gross}
	require.NoError(t, f.store.Products().Create(context.Background(), p))
	return p
}

func (f *fixture) reload(t *testing.T, id string) *entity.Product {
	t.Helper()
	p, err := f.store.Products().GetByID(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, p)
	return p
}

func (f *fixture) ledger(t *testing.T, productID string) []*entity.Movement {
	t.Helper()
	list, err := f.store.Movements().Query(context.Background(), entity.MovementFilter{ProductID: productID})
	require.NoError(t, err)
	return list
}

func TestStockEngine_ReceiveThenRejectedShip(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	p := f.product(t, "123", 10, 0)

	res, err := f.engine.Receive(ctx, inventory.MutationInput{Barcode: "123", Quantity: 5})
	require.NoError(t, err)
	assert.Equal(t, 15, res.Product.Stock)
	assert.Equal(t, entity.MovementTypeIN, res.Movement.Type)
	assert.Equal(t, 5, res.Movement.Quantity)
	assert.Equal(t, "123", res.Movement.Barcode)
	assert.Equal(t, "Producto 123", res.Movement.ProductName)

	_, err = f.engine.Ship(ctx, inventory.MutationInput{ProductID: p.ID, Quantity: 20})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	assert.Equal(t, 15, f.reload(t, p.ID).Stock)
	assert.Len(t, f.ledger(t, p.ID), 1)
}

func TestStockEngine_ReceiveUnknownBarcodeCreatesProduct(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	res, err := f.engine.Receive(ctx, inventory.MutationInput{Barcode: " 880123 ", Name: "Caja azul", Quantity: 3})
	require.NoError(t, err)
	assert.Equal(t, "880123", res.Product.Barcode)
	assert.Equal(t, "Caja azul", res.Product.Name)
	assert.Equal(t, 3, res.Product.Stock)

	found, err := f.products.FindByBarcode(ctx, "880123")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, res.Product.ID, found.ID)
}

func TestStockEngine_ShipUnknownBarcodeDoesNotCreate(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	for _, op := range []func(context.Context, inventory.MutationInput) (*inventory.MutationResult, error){
		f.engine.Ship, f.engine.Pack, f.engine.DispatchOutgoing,
	} {
		_, err := op(ctx, inventory.MutationInput{Barcode: "999", Quantity: 1})
		assert.ErrorIs(t, err, domain.ErrUnknownBarcode)
	}

	list, err := f.products.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
	assert.Empty(t, f.ledger(t, ""))
}

func TestStockEngine_PackingAndOutgoingUseGrossQuantity(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	p := f.product(t, "555", 40, 0)

	res, err := f.engine.Pack(ctx, inventory.MutationInput{ProductID: p.ID, Quantity: 6})
	require.NoError(t, err)
	assert.Equal(t, 6, res.Product.GrossPackingQuantity)
	assert.Equal(t, 40, res.Product.Stock)

	_, err = f.engine.DispatchOutgoing(ctx, inventory.MutationInput{ProductID: p.ID, Quantity: 7})
	require.ErrorIs(t, err, domain.ErrInsufficientGrossPacking)

	res, err = f.engine.DispatchOutgoing(ctx, inventory.MutationInput{Barcode: "555", Quantity: 6})
	require.NoError(t, err)
	assert.Equal(t, 0, res.Product.GrossPackingQuantity)
	assert.Equal(t, 40, res.Product.Stock)

	ledger := f.ledger(t, p.ID)
	require.Len(t, ledger, 2)
	assert.Equal(t, entity.MovementTypeOUTGOING, ledger[0].Type)
	assert.Equal(t, entity.MovementTypePACKING, ledger[1].Type)
}

func TestStockEngine_RejectsInvalidInput(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	p := f.product(t, "1", 5, 0)

	cases := []inventory.MutationInput{
		{ProductID: p.ID, Type: entity.MovementTypeIN, Quantity: 0},
		{ProductID: p.ID, Type: entity.MovementTypeOUT, Quantity: -2},
		{ProductID: p.ID, Type: "RETURN", Quantity: 1},
		{Type: entity.MovementTypeIN, Quantity: 1},
	}
	for _, in := range cases {
		_, err := f.engine.Register(ctx, in)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	}

	_, err := f.engine.Register(ctx, inventory.MutationInput{ProductID: "missing", Type: entity.MovementTypeIN, Quantity: 1})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, 5, f.reload(t, p.ID).Stock)
	assert.Empty(t, f.ledger(t, ""))
}

func TestStockEngine_RejectsQuantityAboveLimit(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	p := f.product(t, "big", 10, 0)

	_, err := f.engine.Receive(ctx, inventory.MutationInput{ProductID: p.ID, Quantity: math.MaxInt})
	require.ErrorIs(t, err, domain.ErrQuantityOutOfRange)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.NotErrorIs(t, err, domain.ErrInsufficientStock)

	_, err = f.engine.Apply(ctx, p.ID, entity.MovementTypePACKING, entity.MaxOperationQuantity+1)
	assert.ErrorIs(t, err, domain.ErrQuantityOutOfRange)

	// dentro del límite por operación pero el acumulado no cabe
	full := f.product(t, "full", entity.MaxStoredQuantity-5, 0)
	_, err = f.engine.Receive(ctx, inventory.MutationInput{ProductID: full.ID, Quantity: 10})
	require.ErrorIs(t, err, domain.ErrQuantityOutOfRange)

	assert.Equal(t, 10, f.reload(t, p.ID).Stock)
	assert.Equal(t, entity.MaxStoredQuantity-5, f.reload(t, full.ID).Stock)
	assert.Empty(t, f.ledger(t, ""))

	res, err := f.engine.Receive(ctx, inventory.MutationInput{ProductID: p.ID, Quantity: entity.MaxOperationQuantity})
	require.NoError(t, err)
	assert.Equal(t, 10+entity.MaxOperationQuantity, res.Product.Stock)
}

func TestStockEngine_LedgerReconciles(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	p := f.product(t, "rec", 25, 4)
	rnd := rand.New(rand.NewSource(7))
	types := []entity.MovementType{
		entity.MovementTypeIN, entity.MovementTypeOUT, entity.MovementTypePACKING, entity.MovementTypeOUTGOING,
	}

	ok := 0
	for i := 0; i < 300; i++ {
		in := inventory.MutationInput{ProductID: p.ID, Type: types[rnd.Intn(len(types))], Quantity: rnd.Intn(9) + 1}
		before := f.reload(t, p.ID)
		_, err := f.engine.Register(ctx, in)
		after := f.reload(t, p.ID)
		require.GreaterOrEqual(t, after.Stock, 0)
		require.GreaterOrEqual(t, after.GrossPackingQuantity, 0)
		if err != nil {
			require.True(t, errors.Is(err, domain.ErrInsufficientStock) || errors.Is(err, domain.ErrInsufficientGrossPacking))
			assert.Equal(t, before.Stock, after.Stock)
			assert.Equal(t, before.GrossPackingQuantity, after.GrossPackingQuantity)
			continue
		}
		ok++
	}

	ledger := f.ledger(t, p.ID)
	require.Len(t, ledger, ok)
	stock, gross := 25, 4
	for i, m := range ledger {
		if i > 0 {
			require.True(t, ledger[i-1].Timestamp.After(m.Timestamp), "orden más reciente primero")
		}
		switch m.Type {
		case entity.MovementTypeIN:
			stock += m.Quantity
		case entity.MovementTypeOUT:
			stock -= m.Quantity
		case entity.MovementTypePACKING:
			gross += m.Quantity
		case entity.MovementTypeOUTGOING:
			gross -= m.Quantity
		}
	}
	final := f.reload(t, p.ID)
	assert.Equal(t, stock, final.Stock)
	assert.Equal(t, gross, final.GrossPackingQuantity)
}

func TestStockEngine_ConcurrentReceivesAreAllApplied(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	p := f.product(t, "c", 0, 0)

	var wg sync.WaitGroup
	for i := 0; i < 40; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.engine.Receive(ctx, inventory.MutationInput{ProductID: p.ID, Quantity: 1})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, 40, f.reload(t, p.ID).Stock)
	assert.Len(t, f.ledger(t, p.ID), 40)
}

func TestStockEngine_CancelledCallerStillLands(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "x", 1, 0)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.engine.Receive(ctx, inventory.MutationInput{ProductID: p.ID, Quantity: 2})
	require.NoError(t, err)
	assert.Equal(t, 3, f.reload(t, p.ID).Stock)
}

func TestStockEngine_PublishesAfterCommit(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	p := f.product(t, "ev", 1, 0)

	_, err := f.engine.Receive(ctx, inventory.MutationInput{ProductID: p.ID, Quantity: 1})
	require.NoError(t, err)
	_, err = f.engine.Ship(ctx, inventory.MutationInput{ProductID: p.ID, Quantity: 50})
	require.Error(t, err)

	assert.Equal(t, 1, f.events.count(inventory.ActionMovementRecorded))
}

// brokenLedgerTx entrega un libro que rechaza toda escritura.
type brokenLedgerTx struct {
	store         *memory.Store
	transactional bool
}

type brokenLedger struct {
	repository.MovementRepository
}

func (brokenLedger) Append(context.Context, *entity.Movement) error {
	return errors.New("disco lleno")
}

func (b brokenLedgerTx) Run(_ context.Context, fn func(
	repository.ProductRepository, repository.MovementRepository, repository.PendingListRepository,
) error) error {
	return fn(b.store.Products(), brokenLedger{b.store.Movements()}, b.store.Pending())
}

func (b brokenLedgerTx) Transactional() bool { return b.transactional }

func TestStockEngine_LedgerInconsistencyOnNonTransactionalBackend(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	f := newFixtureWithTx(t, store, brokenLedgerTx{store: store})
	p := f.product(t, "inc", 10, 0)

	_, err := f.engine.Ship(ctx, inventory.MutationInput{ProductID: p.ID, Quantity: 4})
	require.ErrorIs(t, err, domain.ErrLedgerWriteInconsistency)

	var inc *domain.LedgerInconsistencyError
	require.ErrorAs(t, err, &inc)
	assert.Equal(t, p.ID, inc.ProductID)
	assert.Equal(t, "OUT", inc.MovementType)
	assert.Equal(t, 4, inc.Quantity)

	// el delta quedó aplicado y no hay movimiento: es el caso que se reporta
	assert.Equal(t, 6, f.reload(t, p.ID).Stock)
	assert.Empty(t, f.ledger(t, p.ID))
	assert.Zero(t, f.events.count(inventory.ActionMovementRecorded))
}

func TestStockEngine_LedgerFailureOnTransactionalBackendIsPlainError(t *testing.T) {
	store := memory.NewStore()
	f := newFixtureWithTx(t, store, brokenLedgerTx{store: store, transactional: true})
	p := f.product(t, "tx", 10, 0)

	_, err := f.engine.Ship(context.Background(), inventory.MutationInput{ProductID: p.ID, Quantity: 4})
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrLedgerWriteInconsistency)
}

func TestLedgerClock_StrictlyIncreasing(t *testing.T) {
	fixed := time.Date(2026, 5, 4, 23, 59, 59, 999_999_500, time.UTC)
	clock := inventory.NewLedgerClockWith(func() time.Time { return fixed }, time.FixedZone("KST", 9*3600))

	a := clock.Next()
	b := clock.Next()
	assert.True(t, b.After(a))
	assert.Equal(t, time.Microsecond, b.Sub(a))
	assert.Equal(t, time.UTC, a.Location())

	date, hour := clock.DateTime(a)
	assert.Equal(t, "2026-05-05", date)
	assert.Equal(t, "08:59:59", hour)
}
