package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/logistica-api/internal/application/dto"
	"github.com/jhoicas/logistica-api/internal/domain"
	"github.com/jhoicas/logistica-api/internal/domain/entity"
	"github.com/jhoicas/logistica-api/internal/domain/repository"
)

// ProductUseCase registro de productos: identidad por código de barras, alta, upsert y edición.
// Stock y GrossPackingQuantity no se tocan aquí salvo los valores iniciales del alta.
type ProductUseCase struct {
	repo    repository.ProductRepository
	pending repository.PendingListRepository
	now     func() time.Time
}

// NewProductUseCase construye el caso de uso. pending puede ser nil.
func NewProductUseCase(repo repository.ProductRepository, pending repository.PendingListRepository) *ProductUseCase {
	return &ProductUseCase{repo: repo, pending: pending, now: time.Now}
}

// NormalizeBarcode el código de barras es texto opaco: solo se recortan espacios.
func NormalizeBarcode(barcode string) string {
	return strings.TrimSpace(barcode)
}

// FindByBarcode devuelve nil, nil si no hay producto con ese código.
func (uc *ProductUseCase) FindByBarcode(ctx context.Context, barcode string) (*entity.Product, error) {
	barcode = NormalizeBarcode(barcode)
	if barcode == "" {
		return nil, domain.ErrInvalidInput
	}
	return uc.repo.GetByBarcode(ctx, barcode)
}

// UpsertByBarcode busca por código; si existe solo actualiza el nombre cuando se envía uno distinto.
// Si no existe lo crea con cantidades en cero y nombre = código cuando no se indica nombre.
// Es idempotente: repetir la llamada sin nombre no crea ni modifica nada.
func (uc *ProductUseCase) UpsertByBarcode(ctx context.Context, barcode, name string) (*entity.Product, error) {
	barcode = NormalizeBarcode(barcode)
	name = strings.TrimSpace(name)
	if barcode == "" {
		return nil, domain.ErrInvalidInput
	}

	existing, err := uc.repo.GetByBarcode(ctx, barcode)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return uc.backfillName(ctx, existing, name)
	}

	now := uc.now()
	product := &entity.Product{
		ID:        uuid.New().String(),
		Barcode:   barcode,
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if product.Name == "" {
		product.Name = barcode
	}
	if err := uc.repo.Create(ctx, product); err != nil {
		if !errors.Is(err, domain.ErrDuplicateBarcode) {
			return nil, err
		}
		// Otro escaneo lo creó entre la lectura y el insert: usar el existente.
		existing, err = uc.repo.GetByBarcode(ctx, barcode)
		if err != nil {
			return nil, err
		}
		if existing == nil {
			return nil, domain.ErrDuplicateBarcode
		}
		return uc.backfillName(ctx, existing, name)
	}
	return product, nil
}

func (uc *ProductUseCase) backfillName(ctx context.Context, p *entity.Product, name string) (*entity.Product, error) {
	if name == "" || name == p.Name {
		return p, nil
	}
	p.Name = name
	p.UpdatedAt = uc.now()
	if err := uc.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// Create alta explícita. Devuelve ErrDuplicateBarcode si el código ya existe.
func (uc *ProductUseCase) Create(ctx context.Context, in dto.CreateProductRequest) (*entity.Product, error) {
	barcode := NormalizeBarcode(in.Barcode)
	if barcode == "" || in.Stock < 0 || in.GrossPackingQuantity < 0 || in.MinStock < 0 {
		return nil, domain.ErrInvalidInput
	}
	if in.Stock > entity.MaxOperationQuantity || in.GrossPackingQuantity > entity.MaxOperationQuantity ||
		in.MinStock > entity.MaxOperationQuantity {
		return nil, domain.ErrQuantityOutOfRange
	}
	existing, err := uc.repo.GetByBarcode(ctx, barcode)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicateBarcode
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		name = barcode
	}
	now := uc.now()
	product := &entity.Product{
		ID:                   uuid.New().String(),
		Barcode:              barcode,
		Name:                 name,
		Stock:                in.Stock,
		GrossPackingQuantity: in.GrossPackingQuantity,
		MinStock:             in.MinStock,
		CreatedAt:            now,
		UpdatedAt:            now,
	}
	if err := uc.repo.Create(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

// GetByID obtiene un producto; ErrNotFound si no existe.
func (uc *ProductUseCase) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	return product, nil
}

// Update cambia código, nombre o umbral mínimo. Las cantidades se manejan vía movimientos.
func (uc *ProductUseCase) Update(ctx context.Context, id string, in dto.UpdateProductRequest) (*entity.Product, error) {
	product, err := uc.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Barcode != nil {
		barcode := NormalizeBarcode(*in.Barcode)
		if barcode == "" {
			return nil, domain.ErrInvalidInput
		}
		if barcode != product.Barcode {
			other, err := uc.repo.GetByBarcode(ctx, barcode)
			if err != nil {
				return nil, err
			}
			if other != nil && other.ID != product.ID {
				return nil, domain.ErrDuplicateBarcode
			}
			product.Barcode = barcode
		}
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, domain.ErrInvalidInput
		}
		product.Name = name
	}
	if in.MinStock != nil {
		if *in.MinStock < 0 {
			return nil, domain.ErrInvalidInput
		}
		if *in.MinStock > entity.MaxOperationQuantity {
			return nil, domain.ErrQuantityOutOfRange
		}
		product.MinStock = *in.MinStock
	}
	product.UpdatedAt = uc.now()
	if err := uc.repo.Update(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

// Delete elimina el producto. El historial de movimientos se conserva (guarda nombre y código).
// También lo quita de la lista de envío pendiente.
func (uc *ProductUseCase) Delete(ctx context.Context, id string) error {
	if err := uc.repo.Delete(ctx, id); err != nil {
		return err
	}
	if uc.pending == nil {
		return nil
	}
	if err := uc.pending.Delete(ctx, id); err != nil && !errors.Is(err, domain.ErrNotFound) {
		return err
	}
	return nil
}

// List lista todos los productos ordenados por nombre.
func (uc *ProductUseCase) List(ctx context.Context) ([]*entity.Product, error) {
	return uc.repo.List(ctx)
}
