package dto

import (
	"time"

	"github.com/jhoicas/logistica-api/internal/domain/entity"
)

// CreateProductRequest alta explícita de producto (modo administrador).
// Stock y GrossPackingQuantity son las cantidades iniciales; después solo cambian vía movimientos.
type CreateProductRequest struct {
	Barcode              string `json:"barcode" validate:"required,notblank,max=64"`
	Name                 string `json:"name" validate:"max=200"`
	Stock                int    `json:"stock" validate:"gte=0,lte=1000000"`
	GrossPackingQuantity int    `json:"gross_packing_quantity" validate:"gte=0,lte=1000000"`
	MinStock             int    `json:"min_stock" validate:"gte=0,lte=1000000"`
}

// UpdateProductRequest actualización parcial (sin cantidades).
type UpdateProductRequest struct {
	Barcode  *string `json:"barcode" validate:"omitempty,notblank,max=64"`
	Name     *string `json:"name" validate:"omitempty,notblank,max=200"`
	MinStock *int    `json:"min_stock" validate:"omitempty,gte=0,lte=1000000"`
}

// UpsertProductRequest body de POST /api/products/upsert.
type UpsertProductRequest struct {
	Barcode string `json:"barcode" validate:"required,notblank,max=64"`
	Name    string `json:"name" validate:"max=200"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID                   string    `json:"id"`
	Barcode              string    `json:"barcode"`
	Name                 string    `json:"name"`
	Stock                int       `json:"stock"`
	GrossPackingQuantity int       `json:"gross_packing_quantity"`
	MinStock             int       `json:"min_stock"`
	LowStock             bool      `json:"low_stock"`
	CreatedAt            time.Time `json:"created_at"`
	UpdatedAt            time.Time `json:"updated_at"`
}

// ProductListResponse listado de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Total int               `json:"total"`
}

// NewProductResponse mapea la entidad a su salida JSON.
func NewProductResponse(p *entity.Product) *ProductResponse {
	if p == nil {
		return nil
	}
	return &ProductResponse{
		ID:                   p.ID,
		Barcode:              p.Barcode,
		Name:                 p.Name,
		Stock:                p.Stock,
		GrossPackingQuantity: p.GrossPackingQuantity,
		MinStock:             p.MinStock,
		LowStock:             p.IsLowStock(),
		CreatedAt:            p.CreatedAt,
		UpdatedAt:            p.UpdatedAt,
	}
}

// NewProductListResponse mapea una lista de productos.
func NewProductListResponse(list []*entity.Product) *ProductListResponse {
	items := make([]ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *NewProductResponse(p))
	}
	return &ProductListResponse{Items: items, Total: len(items)}
}
