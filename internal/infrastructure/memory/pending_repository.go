package memory

import (
	"context"
	"sort"
	"time"

	"github.com/jhoicas/logistica-api/internal/domain"
	"github.com/jhoicas/logistica-api/internal/domain/entity"
	"github.com/jhoicas/logistica-api/internal/domain/repository"
)

var _ repository.PendingListRepository = (*PendingRepo)(nil)

// PendingRepo lista de envío en memoria, una fila por producto.
type PendingRepo struct {
	s *Store
}

// List más reciente primero (por AddedAt y, en empate, por orden de inserción).
func (r *PendingRepo) List(_ context.Context) ([]*entity.PendingOutboundItem, error) {
	r.s.mu.RLock()
	type row struct {
		item *entity.PendingOutboundItem
		seq  int64
	}
	rows := make([]row, 0, len(r.s.pending))
	for id, it := range r.s.pending {
		cp := *it
		rows = append(rows, row{item: &cp, seq: r.s.pendingSeq[id]})
	}
	r.s.mu.RUnlock()

	sort.Slice(rows, func(i, j int) bool {
		if !rows[i].item.AddedAt.Equal(rows[j].item.AddedAt) {
			return rows[i].item.AddedAt.After(rows[j].item.AddedAt)
		}
		return rows[i].seq > rows[j].seq
	})
	out := make([]*entity.PendingOutboundItem, len(rows))
	for i, rw := range rows {
		out[i] = rw.item
	}
	return out, nil
}

func (r *PendingRepo) GetByProductID(_ context.Context, productID string) (*entity.PendingOutboundItem, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	it, ok := r.s.pending[productID]
	if !ok {
		return nil, nil
	}
	cp := *it
	return &cp, nil
}

// AddQuantity fusiona por ProductID: la fila existente conserva su posición y snapshot.
func (r *PendingRepo) AddQuantity(_ context.Context, item *entity.PendingOutboundItem, delta int) (*entity.PendingOutboundItem, error) {
	if delta < 0 || delta > entity.MaxOperationQuantity {
		return nil, domain.ErrQuantityOutOfRange
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if it, ok := r.s.pending[item.ProductID]; ok {
		if it.Quantity > entity.MaxOperationQuantity-delta {
			return nil, domain.ErrQuantityOutOfRange
		}
		it.Quantity += delta
		it.UpdatedAt = item.UpdatedAt
		cp := *it
		return &cp, nil
	}
	it := *item
	it.Quantity = delta
	r.s.seq++
	r.s.pending[it.ProductID] = &it
	r.s.pendingSeq[it.ProductID] = r.s.seq
	cp := it
	return &cp, nil
}

// AdjustQuantity lee y escribe bajo el mismo lock; un escaneo concurrente nunca se pierde.
func (r *PendingRepo) AdjustQuantity(_ context.Context, productID string, delta int) (*entity.PendingOutboundItem, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	it, ok := r.s.pending[productID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if delta > 0 && it.Quantity > entity.MaxOperationQuantity-delta {
		return nil, domain.ErrQuantityOutOfRange
	}
	next := it.Quantity + delta
	if next < 0 {
		return nil, domain.ErrInvalidInput
	}
	if next == 0 {
		delete(r.s.pending, productID)
		delete(r.s.pendingSeq, productID)
		return nil, nil
	}
	it.Quantity = next
	it.UpdatedAt = time.Now()
	cp := *it
	return &cp, nil
}

func (r *PendingRepo) SetQuantity(_ context.Context, productID string, quantity int) (*entity.PendingOutboundItem, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	it, ok := r.s.pending[productID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	it.Quantity = quantity
	it.UpdatedAt = time.Now()
	cp := *it
	return &cp, nil
}

func (r *PendingRepo) Delete(_ context.Context, productID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.pending[productID]; !ok {
		return domain.ErrNotFound
	}
	delete(r.s.pending, productID)
	delete(r.s.pendingSeq, productID)
	return nil
}

func (r *PendingRepo) Clear(_ context.Context) error {
	r.s.mu.Lock()
	r.s.pending = make(map[string]*entity.PendingOutboundItem)
	r.s.pendingSeq = make(map[string]int64)
	r.s.mu.Unlock()
	return nil
}
