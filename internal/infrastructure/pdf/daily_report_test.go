package pdf

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/logistica-api/internal/application/reporting"
	"github.com/jhoicas/logistica-api/internal/domain/entity"
)

func TestRenderDailyReport(t *testing.T) {
	summary := &reporting.DailySummary{
		Date: "2026-03-10",
		Totals: map[entity.MovementType]reporting.MovementTotal{
			entity.MovementTypeIN:  {Count: 2, Quantity: 8},
			entity.MovementTypeOUT: {Count: 1, Quantity: 2},
		},
		Movements: []*entity.Movement{
			{ID: "m1", Barcode: "111", ProductName: "Alfa", Type: entity.MovementTypeOUT, Quantity: 2, Time: "09:10:00"},
			{ID: "m2", Barcode: "222", ProductName: "Beta", Type: entity.MovementTypeIN, Quantity: 8, Time: "08:00:00"},
		},
		LowStock:    []*entity.Product{{ID: "a", Barcode: "111", Name: "Alfa", Stock: 2, MinStock: 5}},
		GeneratedAt: time.Date(2026, 3, 10, 18, 0, 0, 0, time.UTC),
	}

	out, err := NewDailyReportGenerator("logistica-api").RenderDailyReport(summary)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestRenderDailyReport_EmptyDay(t *testing.T) {
	out, err := NewDailyReportGenerator("bodega").RenderDailyReport(&reporting.DailySummary{Date: "2026-01-01"})
	require.NoError(t, err)
	assert.NotEmpty(t, out)
}
