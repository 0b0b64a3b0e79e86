package inventory

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/jhoicas/logistica-api/internal/domain"
	"github.com/jhoicas/logistica-api/internal/domain/entity"
	"github.com/jhoicas/logistica-api/internal/domain/repository"
	"github.com/jhoicas/logistica-api/pkg/logger"
)

// ProductResolver resuelve productos por código de barras (implementado por usecase.ProductUseCase).
type ProductResolver interface {
	FindByBarcode(ctx context.Context, barcode string) (*entity.Product, error)
	UpsertByBarcode(ctx context.Context, barcode, name string) (*entity.Product, error)
}

// MutationInput entrada de una operación de stock. El producto se identifica por ProductID o Barcode.
type MutationInput struct {
	ProductID string
	Barcode   string
	Name      string // solo IN por código: nombre al crear o corregir
	Type      entity.MovementType
	Quantity  int
}

// MutationResult producto ya actualizado y el movimiento que lo respalda.
type MutationResult struct {
	Product  *entity.Product
	Movement *entity.Movement
}

// StockEngine es el único componente que modifica Stock y GrossPackingQuantity.
// Cada operación aplica el delta y agrega el movimiento como una sola unidad (TxRunner).
type StockEngine struct {
	tx       TxRunner
	resolver ProductResolver
	clock    *LedgerClock
	log      *logger.Logger
	events   EventPublisher
}

// NewStockEngine construye el motor. events puede ser nil.
func NewStockEngine(tx TxRunner, resolver ProductResolver, clock *LedgerClock, log *logger.Logger, events EventPublisher) *StockEngine {
	if log == nil {
		log = logger.Nop()
	}
	return &StockEngine{tx: tx, resolver: resolver, clock: clock, log: log.Component("stock_engine"), events: events}
}

// Receive entrada (IN): stock += qty. Con código de barras desconocido crea el producto.
func (e *StockEngine) Receive(ctx context.Context, in MutationInput) (*MutationResult, error) {
	in.Type = entity.MovementTypeIN
	return e.Register(ctx, in)
}

// Ship salida (OUT): stock -= qty, rechaza con ErrInsufficientStock.
func (e *StockEngine) Ship(ctx context.Context, in MutationInput) (*MutationResult, error) {
	in.Type = entity.MovementTypeOUT
	return e.Register(ctx, in)
}

// Pack empaque (PACKING): grossPackingQuantity += qty.
func (e *StockEngine) Pack(ctx context.Context, in MutationInput) (*MutationResult, error) {
	in.Type = entity.MovementTypePACKING
	return e.Register(ctx, in)
}

// DispatchOutgoing despacho (OUTGOING): grossPackingQuantity -= qty, rechaza con ErrInsufficientGrossPacking.
func (e *StockEngine) DispatchOutgoing(ctx context.Context, in MutationInput) (*MutationResult, error) {
	in.Type = entity.MovementTypeOUTGOING
	return e.Register(ctx, in)
}

// Register valida la entrada, resuelve el producto y aplica la operación según in.Type.
// Solo IN crea productos por código de barras; el resto devuelve ErrUnknownBarcode.
func (e *StockEngine) Register(ctx context.Context, in MutationInput) (*MutationResult, error) {
	if !in.Type.Valid() || in.Quantity <= 0 {
		return nil, domain.ErrInvalidInput
	}
	if in.Quantity > entity.MaxOperationQuantity {
		return nil, domain.ErrQuantityOutOfRange
	}
	productID, err := e.resolveProductID(ctx, in)
	if err != nil {
		return nil, err
	}
	return e.Apply(ctx, productID, in.Type, in.Quantity)
}

func (e *StockEngine) resolveProductID(ctx context.Context, in MutationInput) (string, error) {
	if id := strings.TrimSpace(in.ProductID); id != "" {
		return id, nil
	}
	barcode := strings.TrimSpace(in.Barcode)
	if barcode == "" {
		return "", domain.ErrInvalidInput
	}
	if in.Type == entity.MovementTypeIN {
		p, err := e.resolver.UpsertByBarcode(ctx, barcode, in.Name)
		if err != nil {
			return "", err
		}
		return p.ID, nil
	}
	p, err := e.resolver.FindByBarcode(ctx, barcode)
	if err != nil {
		return "", err
	}
	if p == nil {
		return "", domain.ErrUnknownBarcode
	}
	return p.ID, nil
}

// Apply aplica el delta firmado de typ sobre el producto y agrega el movimiento.
// Primero el producto, luego el movimiento. Una vez iniciada, la escritura no se cancela
// aunque el llamador abandone la petición.
func (e *StockEngine) Apply(ctx context.Context, productID string, typ entity.MovementType, qty int) (*MutationResult, error) {
	return e.apply(ctx, productID, typ, qty, nil)
}

// PendingShipment salida de una fila de la lista de envío. ReleaseErr solo se llena sin transacción:
// la salida quedó confirmada pero la fila no se pudo descontar.
type PendingShipment struct {
	*MutationResult
	ReleaseErr error
}

// ShipPending salida (OUT) de una fila de la lista de envío. Descuenta item.Quantity del stock y de
// la fila en la misma unidad que agrega el movimiento. Con backend transaccional un
// fallo al descontar la fila revierte todo; en memoria la salida queda confirmada y ese fallo se
// devuelve aparte en ReleaseErr.
func (e *StockEngine) ShipPending(ctx context.Context, item *entity.PendingOutboundItem) (*PendingShipment, error) {
	if item == nil {
		return nil, domain.ErrInvalidInput
	}
	var releaseErr error
	res, err := e.apply(ctx, item.ProductID, entity.MovementTypeOUT, item.Quantity,
		func(ctx context.Context, pending repository.PendingListRepository) error {
			err := releasePending(ctx, pending, item)
			if err == nil {
				return nil
			}
			if !e.tx.Transactional() {
				releaseErr = err
				return nil
			}
			return fmt.Errorf("quitar de la lista de envío: %w", err)
		})
	if err != nil {
		return nil, err
	}
	return &PendingShipment{MutationResult: res, ReleaseErr: releaseErr}, nil
}

// releasePending descuenta lo enviado; lo escaneado después del listado sigue pendiente.
func releasePending(ctx context.Context, pending repository.PendingListRepository, item *entity.PendingOutboundItem) error {
	_, err := pending.AdjustQuantity(ctx, item.ProductID, -item.Quantity)
	switch {
	case err == nil, errors.Is(err, domain.ErrNotFound):
		return nil
	case errors.Is(err, domain.ErrInvalidInput):
		// la fila bajó de cantidad mientras tanto: lo que queda ya salió
		if err := pending.Delete(ctx, item.ProductID); err != nil && !errors.Is(err, domain.ErrNotFound) {
			return err
		}
		return nil
	default:
		return err
	}
}

func (e *StockEngine) apply(
	ctx context.Context,
	productID string,
	typ entity.MovementType,
	qty int,
	release func(ctx context.Context, pending repository.PendingListRepository) error,
) (*MutationResult, error) {
	if !typ.Valid() || qty <= 0 || productID == "" {
		return nil, domain.ErrInvalidInput
	}
	if qty > entity.MaxOperationQuantity {
		return nil, domain.ErrQuantityOutOfRange
	}
	ctx = context.WithoutCancel(ctx)

	var result MutationResult
	err := e.tx.Run(ctx, func(
		productRepo repository.ProductRepository,
		movRepo repository.MovementRepository,
		pendingRepo repository.PendingListRepository,
	) error {
		product, err := productRepo.ApplyQuantityDelta(ctx, productID, typ.Field(), typ.Sign()*qty)
		if err != nil {
			return err
		}
		ts := e.clock.Next()
		date, clock := e.clock.DateTime(ts)
		mov := &entity.Movement{
			ID:          uuid.New().String(),
			ProductID:   product.ID,
			ProductName: product.Name,
			Barcode:     product.Barcode,
			Type:        typ,
			Quantity:    qty,
			Date:        date,
			Time:        clock,
			Timestamp:   ts,
		}
		if err := movRepo.Append(ctx, mov); err != nil {
			if e.tx.Transactional() {
				return fmt.Errorf("registrar movimiento: %w", err)
			}
			return &domain.LedgerInconsistencyError{
				ProductID:    product.ID,
				MovementType: string(typ),
				Quantity:     qty,
				Err:          err,
			}
		}
		if release != nil {
			if err := release(ctx, pendingRepo); err != nil {
				return err
			}
		}
		result = MutationResult{Product: product, Movement: mov}
		return nil
	})
	if err != nil {
		var inc *domain.LedgerInconsistencyError
		if errors.As(err, &inc) {
			e.log.Error().
				Bool("inconsistency", true).
				Str("product_id", inc.ProductID).
				Str("movement_type", inc.MovementType).
				Int("quantity", inc.Quantity).
				Err(inc.Err).
				Msg("cantidad aplicada sin movimiento en el libro; requiere conciliación manual")
		}
		return nil, err
	}

	e.log.Debug().
		Str("product_id", result.Product.ID).
		Str("movement_type", string(typ)).
		Int("quantity", qty).
		Int("stock", result.Product.Stock).
		Int("gross_packing_quantity", result.Product.GrossPackingQuantity).
		Msg("movimiento aplicado")

	evt := newEvent(ActionMovementRecorded)
	evt.ProductID = result.Product.ID
	evt.Movement = string(typ)
	evt.Quantity = qty
	evt.Stock = &result.Product.Stock
	evt.Gross = &result.Product.GrossPackingQuantity
	e.publish(evt)

	return &result, nil
}

func (e *StockEngine) publish(evt StockEvent) {
	if e.events != nil {
		e.events.Publish(evt)
	}
}
