package backend

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/logistica-api/internal/domain/entity"
	"github.com/jhoicas/logistica-api/pkg/logger"
)

var demoProducts = []struct {
	name    string
	barcode string
	stock   int
	gross   int
}{
	{"A상품", "1234567890", 100, 20},
	{"B상품", "0987654321", 50, 10},
	{"C상품", "1122334455", 75, 15},
}

var demoRoutines = []string{
	"작업장 안전 점검",
	"재고 수량 확인",
	"배송 준비 상품 정리",
	"창고 청소",
}

// SeedDemoData inserta productos y rutinas de ejemplo solo si la tabla respectiva está vacía.
func SeedDemoData(ctx context.Context, b *Backend, log *logger.Logger) error {
	now := time.Now()

	products, err := b.Products.List(ctx)
	if err != nil {
		return err
	}
	if len(products) == 0 {
		for _, d := range demoProducts {
			if err := b.Products.Create(ctx, &entity.Product{
				ID:                   uuid.New().String(),
				Barcode:              d.barcode,
				Name:                 d.name,
				Stock:                d.stock,
				GrossPackingQuantity: d.gross,
				CreatedAt:            now,
				UpdatedAt:            now,
			}); err != nil {
				return err
			}
		}
		log.Info().Int("count", len(demoProducts)).Msg("productos de ejemplo insertados")
	}

	routines, err := b.Routines.List(ctx)
	if err != nil {
		return err
	}
	if len(routines) == 0 {
		for i, task := range demoRoutines {
			created := now.Add(time.Duration(i) * time.Millisecond)
			if err := b.Routines.Create(ctx, &entity.Routine{
				ID:        uuid.New().String(),
				Task:      task,
				CreatedAt: created,
				UpdatedAt: created,
			}); err != nil {
				return err
			}
		}
		log.Info().Int("count", len(demoRoutines)).Msg("rutinas de ejemplo insertadas")
	}
	return nil
}
