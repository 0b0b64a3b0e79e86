package memory

import (
	"context"
	"sort"
	"time"

	"github.com/jhoicas/logistica-api/internal/domain"
	"github.com/jhoicas/logistica-api/internal/domain/entity"
	"github.com/jhoicas/logistica-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo productos en memoria. Devuelve copias para que el llamador no altere el store.
type ProductRepo struct {
	s *Store
}

func (r *ProductRepo) Create(_ context.Context, product *entity.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.barcodes[product.Barcode]; ok {
		return domain.ErrDuplicateBarcode
	}
	p := *product
	r.s.products[p.ID] = &p
	r.s.barcodes[p.Barcode] = p.ID
	return nil
}

func (r *ProductRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	p, ok := r.s.products[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r *ProductRepo) GetByBarcode(_ context.Context, barcode string) (*entity.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	id, ok := r.s.barcodes[barcode]
	if !ok {
		return nil, nil
	}
	cp := *r.s.products[id]
	return &cp, nil
}

// Update solo persiste barcode, nombre y umbral mínimo.
func (r *ProductRepo) Update(_ context.Context, product *entity.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	current, ok := r.s.products[product.ID]
	if !ok {
		return domain.ErrNotFound
	}
	if product.Barcode != current.Barcode {
		if other, taken := r.s.barcodes[product.Barcode]; taken && other != product.ID {
			return domain.ErrDuplicateBarcode
		}
		delete(r.s.barcodes, current.Barcode)
		r.s.barcodes[product.Barcode] = product.ID
	}
	current.Barcode = product.Barcode
	current.Name = product.Name
	current.MinStock = product.MinStock
	current.UpdatedAt = product.UpdatedAt
	return nil
}

func (r *ProductRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.products[id]
	if !ok {
		return domain.ErrNotFound
	}
	delete(r.s.barcodes, p.Barcode)
	delete(r.s.products, id)
	return nil
}

func (r *ProductRepo) List(_ context.Context) ([]*entity.Product, error) {
	r.s.mu.RLock()
	out := make([]*entity.Product, 0, len(r.s.products))
	for _, p := range r.s.products {
		cp := *p
		out = append(out, &cp)
	}
	r.s.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// ApplyQuantityDelta lee y escribe bajo el mismo lock: dos deltas concurrentes nunca se pisan.
func (r *ProductRepo) ApplyQuantityDelta(_ context.Context, id string, field entity.QuantityField, delta int) (*entity.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.products[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if delta > 0 && p.Quantity(field) > entity.MaxStoredQuantity-delta {
		return nil, domain.ErrQuantityOutOfRange
	}
	next := p.Quantity(field) + delta
	if next < 0 {
		if field == entity.QuantityGrossPacking {
			return nil, domain.ErrInsufficientGrossPacking
		}
		return nil, domain.ErrInsufficientStock
	}
	if field == entity.QuantityGrossPacking {
		p.GrossPackingQuantity = next
	} else {
		p.Stock = next
	}
	p.UpdatedAt = time.Now()
	cp := *p
	return &cp, nil
}
