package reporting

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/jhoicas/logistica-api/internal/domain"
	"github.com/jhoicas/logistica-api/internal/domain/entity"
	"github.com/jhoicas/logistica-api/internal/domain/repository"
)

const dateLayout = "2006-01-02"

// MaxMovements tope de filas por consulta del libro.
const MaxMovements = 1000

// PDFRenderer genera el PDF del resumen diario (implementado en infrastructure/pdf).
type PDFRenderer interface {
	RenderDailyReport(summary *DailySummary) ([]byte, error)
}

// MovementTotal conteo y suma de cantidades de un tipo.
type MovementTotal struct {
	Count    int
	Quantity int
}

// DailySummary movimientos de un día local, totales por tipo y productos con stock bajo.
type DailySummary struct {
	Date        string
	Totals      map[entity.MovementType]MovementTotal
	Movements   []*entity.Movement
	LowStock    []*entity.Product
	GeneratedAt time.Time
}

// MovementQuery filtros tal como llegan por HTTP. Las fechas son días locales (YYYY-MM-DD), ambos inclusivos.
type MovementQuery struct {
	ProductID string
	Type      string
	DateFrom  string
	DateTo    string
	Limit     int
}

// MovementPage una consulta del libro. Truncated indica que había más filas que Limit.
type MovementPage struct {
	Movements []*entity.Movement
	Limit     int
	Truncated bool
}

// ReportUseCase vistas de solo lectura sobre productos y libro de movimientos. No modifica nada.
type ReportUseCase struct {
	products  repository.ProductRepository
	movements repository.MovementRepository
	loc       *time.Location
	pdf       PDFRenderer
	now       func() time.Time
}

// NewReportUseCase pdf puede ser nil (el PDF queda deshabilitado).
func NewReportUseCase(products repository.ProductRepository, movements repository.MovementRepository, loc *time.Location, pdf PDFRenderer) *ReportUseCase {
	if loc == nil {
		loc = time.Local
	}
	return &ReportUseCase{products: products, movements: movements, loc: loc, pdf: pdf, now: time.Now}
}

// ListProducts filtra por texto en nombre o código y, opcionalmente, solo stock bajo.
func (uc *ReportUseCase) ListProducts(ctx context.Context, q string, lowStockOnly bool) ([]*entity.Product, error) {
	all, err := uc.products.List(ctx)
	if err != nil {
		return nil, err
	}
	q = strings.ToLower(strings.TrimSpace(q))
	out := make([]*entity.Product, 0, len(all))
	for _, p := range all {
		if lowStockOnly && !p.IsLowStock() {
			continue
		}
		if q != "" && !strings.Contains(strings.ToLower(p.Name), q) && !strings.Contains(strings.ToLower(p.Barcode), q) {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

// GetMovement ErrNotFound si no existe.
func (uc *ReportUseCase) GetMovement(ctx context.Context, id string) (*entity.Movement, error) {
	m, err := uc.movements.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, domain.ErrNotFound
	}
	return m, nil
}

// Movements consulta el libro, más reciente primero. Limit fuera de (0, MaxMovements] se toma
// como MaxMovements; si quedaron filas afuera la página sale marcada como Truncated.
func (uc *ReportUseCase) Movements(ctx context.Context, q MovementQuery) (*MovementPage, error) {
	filter := entity.MovementFilter{ProductID: strings.TrimSpace(q.ProductID), Limit: q.Limit}
	if q.Type != "" {
		typ := entity.MovementType(strings.ToUpper(q.Type))
		if !typ.Valid() {
			return nil, domain.ErrInvalidInput
		}
		filter.Type = typ
	}
	if q.DateFrom != "" {
		from, err := uc.parseDate(q.DateFrom)
		if err != nil {
			return nil, err
		}
		filter.From = &from
	}
	if q.DateTo != "" {
		to, err := uc.parseDate(q.DateTo)
		if err != nil {
			return nil, err
		}
		to = to.AddDate(0, 0, 1)
		filter.To = &to
	}
	if filter.From != nil && filter.To != nil && !filter.From.Before(*filter.To) {
		return nil, domain.ErrInvalidInput
	}
	if filter.Limit <= 0 || filter.Limit > MaxMovements {
		filter.Limit = MaxMovements
	}
	limit := filter.Limit
	filter.Limit++ // una fila de más para saber si hay corte
	list, err := uc.movements.Query(ctx, filter)
	if err != nil {
		return nil, err
	}
	page := &MovementPage{Movements: list, Limit: limit}
	if len(list) > limit {
		page.Movements = list[:limit]
		page.Truncated = true
	}
	return page, nil
}

// ProductLog movimientos de un producto en un mes calendario local. Funciona aunque el producto ya no exista.
func (uc *ReportUseCase) ProductLog(ctx context.Context, productID string, year, month int) ([]*entity.Movement, error) {
	if productID == "" || month < 1 || month > 12 || year < 1 {
		return nil, domain.ErrInvalidInput
	}
	from := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, uc.loc)
	to := from.AddDate(0, 1, 0)
	return uc.movements.Query(ctx, entity.MovementFilter{ProductID: productID, From: &from, To: &to})
}

// DailySummary resumen del día date (YYYY-MM-DD); vacío = hoy.
func (uc *ReportUseCase) DailySummary(ctx context.Context, date string) (*DailySummary, error) {
	now := uc.now()
	if date == "" {
		date = now.In(uc.loc).Format(dateLayout)
	}
	from, err := uc.parseDate(date)
	if err != nil {
		return nil, err
	}
	to := from.AddDate(0, 0, 1)
	movements, err := uc.movements.Query(ctx, entity.MovementFilter{From: &from, To: &to})
	if err != nil {
		return nil, err
	}
	lowStock, err := uc.ListProducts(ctx, "", true)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(lowStock, func(i, j int) bool {
		return lowStock[i].Stock-lowStock[i].MinStock < lowStock[j].Stock-lowStock[j].MinStock
	})

	totals := map[entity.MovementType]MovementTotal{
		entity.MovementTypeIN:       {},
		entity.MovementTypeOUT:      {},
		entity.MovementTypePACKING:  {},
		entity.MovementTypeOUTGOING: {},
	}
	for _, m := range movements {
		t := totals[m.Type]
		t.Count++
		t.Quantity += m.Quantity
		totals[m.Type] = t
	}
	return &DailySummary{
		Date:        date,
		Totals:      totals,
		Movements:   movements,
		LowStock:    lowStock,
		GeneratedAt: now,
	}, nil
}

// DailyReportPDF resumen del día renderizado en PDF.
func (uc *ReportUseCase) DailyReportPDF(ctx context.Context, date string) ([]byte, *DailySummary, error) {
	if uc.pdf == nil {
		return nil, nil, domain.ErrNotFound
	}
	summary, err := uc.DailySummary(ctx, date)
	if err != nil {
		return nil, nil, err
	}
	out, err := uc.pdf.RenderDailyReport(summary)
	if err != nil {
		return nil, nil, err
	}
	return out, summary, nil
}

func (uc *ReportUseCase) parseDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation(dateLayout, strings.TrimSpace(s), uc.loc)
	if err != nil {
		return time.Time{}, domain.ErrInvalidInput
	}
	return t, nil
}
