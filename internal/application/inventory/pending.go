package inventory

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/jhoicas/logistica-api/internal/domain"
	"github.com/jhoicas/logistica-api/internal/domain/entity"
	"github.com/jhoicas/logistica-api/internal/domain/repository"
	"github.com/jhoicas/logistica-api/pkg/logger"
)

// ShipmentResult resultado de procesar la lista de envío.
// Processed ya quedó confirmado; Remaining sigue en la lista sin tocar.
type ShipmentResult struct {
	Processed []*MutationResult
	Remaining []*entity.PendingOutboundItem
	Warnings  []string
}

// PendingListUseCase lista de envío del día: escaneo con fusión por producto y procesamiento del envío.
type PendingListUseCase struct {
	pending  repository.PendingListRepository
	resolver ProductResolver
	engine   *StockEngine
	log      *logger.Logger
	events   EventPublisher
	now      func() time.Time
}

// NewPendingListUseCase construye el caso de uso. events puede ser nil.
func NewPendingListUseCase(
	pending repository.PendingListRepository,
	resolver ProductResolver,
	engine *StockEngine,
	log *logger.Logger,
	events EventPublisher,
) *PendingListUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &PendingListUseCase{
		pending:  pending,
		resolver: resolver,
		engine:   engine,
		log:      log.Component("pending_list"),
		events:   events,
		now:      time.Now,
	}
}

// List devuelve la lista, lo agregado más recientemente primero.
func (uc *PendingListUseCase) List(ctx context.Context) ([]*entity.PendingOutboundItem, error) {
	return uc.pending.List(ctx)
}

// Add escanea un código a la lista. Si el producto ya está, suma delta; si no, crea la fila.
// delta 0 se toma como 1. Un código desconocido no crea nada (ErrUnknownBarcode).
func (uc *PendingListUseCase) Add(ctx context.Context, barcode string, delta int) (*entity.PendingOutboundItem, error) {
	barcode = strings.TrimSpace(barcode)
	if barcode == "" || delta < 0 {
		return nil, domain.ErrInvalidInput
	}
	if delta > entity.MaxOperationQuantity {
		return nil, domain.ErrQuantityOutOfRange
	}
	if delta == 0 {
		delta = 1
	}
	product, err := uc.resolver.FindByBarcode(ctx, barcode)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrUnknownBarcode
	}

	now := uc.now()
	item, err := uc.pending.AddQuantity(context.WithoutCancel(ctx), &entity.PendingOutboundItem{
		ProductID: product.ID,
		Barcode:   product.Barcode,
		Name:      product.Name,
		Stock:     product.Stock,
		AddedAt:   now,
		UpdatedAt: now,
	}, delta)
	if err != nil {
		return nil, err
	}
	uc.publish(item.ProductID, item.Quantity)
	return item, nil
}

// Adjust cambia la cantidad de una fila: quantity absoluta o delta relativo (gana quantity).
// Un resultado 0 elimina la fila y devuelve nil; negativo es ErrInvalidInput.
// El delta se aplica en el repositorio sin lectura previa, así no pisa un escaneo concurrente.
func (uc *PendingListUseCase) Adjust(ctx context.Context, productID string, delta, quantity *int) (*entity.PendingOutboundItem, error) {
	if productID == "" || (delta == nil && quantity == nil) {
		return nil, domain.ErrInvalidInput
	}
	ctx = context.WithoutCancel(ctx)
	if quantity == nil {
		if *delta > entity.MaxOperationQuantity || *delta < -entity.MaxOperationQuantity {
			return nil, domain.ErrQuantityOutOfRange
		}
		item, err := uc.pending.AdjustQuantity(ctx, productID, *delta)
		if err != nil {
			return nil, err
		}
		if item == nil {
			uc.publish(productID, 0)
			return nil, nil
		}
		uc.publish(productID, item.Quantity)
		return item, nil
	}

	next := *quantity
	if next < 0 {
		return nil, domain.ErrInvalidInput
	}
	if next > entity.MaxOperationQuantity {
		return nil, domain.ErrQuantityOutOfRange
	}
	if next == 0 {
		if err := uc.pending.Delete(ctx, productID); err != nil {
			return nil, err
		}
		uc.publish(productID, 0)
		return nil, nil
	}
	item, err := uc.pending.SetQuantity(ctx, productID, next)
	if err != nil {
		return nil, err
	}
	uc.publish(productID, item.Quantity)
	return item, nil
}

// Remove quita una fila; ErrNotFound si no está.
func (uc *PendingListUseCase) Remove(ctx context.Context, productID string) error {
	if err := uc.pending.Delete(context.WithoutCancel(ctx), productID); err != nil {
		return err
	}
	uc.publish(productID, 0)
	return nil
}

// Clear vacía la lista sin tocar stock.
func (uc *PendingListUseCase) Clear(ctx context.Context) error {
	if err := uc.pending.Clear(context.WithoutCancel(ctx)); err != nil {
		return err
	}
	uc.publish("", 0)
	return nil
}

// ProcessShipment aplica una salida (OUT) por cada fila, de la más antigua a la más nueva,
// y la descuenta de la lista en la misma unidad (StockEngine.ShipPending). Se detiene en el primer
// error de la mutación: lo ya procesado queda confirmado y la fila fallida junto con las siguientes
// quedan pendientes. Sin transacción, si descontar una fila falla después de confirmar su salida,
// se registra como aviso y se sigue.
func (uc *PendingListUseCase) ProcessShipment(ctx context.Context) (*ShipmentResult, error) {
	ctx = context.WithoutCancel(ctx)
	items, err := uc.pending.List(ctx)
	if err != nil {
		return nil, err
	}
	// la lista viene del más nuevo al más antiguo; invertida, los empates quedan en orden de alta
	for i, j := 0, len(items)-1; i < j; i, j = i+1, j-1 {
		items[i], items[j] = items[j], items[i]
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].AddedAt.Before(items[j].AddedAt)
	})

	result := &ShipmentResult{
		Processed: make([]*MutationResult, 0, len(items)),
		Remaining: []*entity.PendingOutboundItem{},
	}
	defer func() {
		if len(result.Processed) > 0 {
			evt := newEvent(ActionShipmentDone)
			evt.Quantity = len(result.Processed)
			if uc.events != nil {
				uc.events.Publish(evt)
			}
		}
	}()

	for i, item := range items {
		if item.Quantity == 0 {
			uc.removeAfterShipment(ctx, item, result)
			continue
		}
		shipped, err := uc.engine.ShipPending(ctx, item)
		if err != nil {
			if errors.Is(err, domain.ErrLedgerWriteInconsistency) {
				// el stock ya se descontó: dejarla en la lista permitiría descontarlo dos veces
				uc.removeAfterShipment(ctx, item, result)
				result.Remaining = append(result.Remaining, items[i+1:]...)
			} else {
				result.Remaining = append(result.Remaining, items[i:]...)
			}
			uc.log.Warn().
				Str("product_id", item.ProductID).
				Int("quantity", item.Quantity).
				Int("processed", len(result.Processed)).
				Int("remaining", len(result.Remaining)).
				Err(err).
				Msg("envío detenido")
			return result, fmt.Errorf("envío de %s: %w", item.Barcode, err)
		}
		result.Processed = append(result.Processed, shipped.MutationResult)
		if shipped.ReleaseErr != nil {
			uc.warnStillPending(item, shipped.ReleaseErr, result)
		}
	}

	uc.log.Info().Int("processed", len(result.Processed)).Msg("envío procesado")
	return result, nil
}

func (uc *PendingListUseCase) removeAfterShipment(ctx context.Context, item *entity.PendingOutboundItem, result *ShipmentResult) {
	err := uc.pending.Delete(ctx, item.ProductID)
	if err == nil || errors.Is(err, domain.ErrNotFound) {
		return
	}
	uc.warnStillPending(item, err, result)
}

func (uc *PendingListUseCase) warnStillPending(item *entity.PendingOutboundItem, err error, result *ShipmentResult) {
	uc.log.Error().Str("product_id", item.ProductID).Err(err).Msg("no se pudo quitar de la lista de envío")
	result.Warnings = append(result.Warnings,
		fmt.Sprintf("%s (%s): salida registrada pero sigue en la lista: %v", item.Name, item.Barcode, err))
}

func (uc *PendingListUseCase) publish(productID string, quantity int) {
	if uc.events == nil {
		return
	}
	evt := newEvent(ActionPendingUpdated)
	evt.ProductID = productID
	evt.Quantity = quantity
	uc.events.Publish(evt)
}
