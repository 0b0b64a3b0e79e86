package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/logistica-api/internal/application/dto"
	"github.com/jhoicas/logistica-api/internal/application/reporting"
	"github.com/jhoicas/logistica-api/internal/domain/entity"
)

// ReportHandler resumen diario en JSON y PDF.
type ReportHandler struct {
	uc *reporting.ReportUseCase
}

// NewReportHandler construye el handler.
func NewReportHandler(uc *reporting.ReportUseCase) *ReportHandler {
	return &ReportHandler{uc: uc}
}

// Daily godoc
// @Summary      Resumen diario de movimientos
// @Tags         reports
// @Produce      json
// @Param        date  query  string  false  "YYYY-MM-DD (por defecto hoy)"
// @Success      200   {object}  dto.DailySummaryResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/reports/daily [get]
func (h *ReportHandler) Daily(c *fiber.Ctx) error {
	summary, err := h.uc.DailySummary(c.UserContext(), c.Query("date"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(newDailySummaryResponse(summary))
}

// DailyPDF godoc
// @Summary      Resumen diario en PDF
// @Tags         reports
// @Produce      application/pdf
// @Param        date  query  string  false  "YYYY-MM-DD (por defecto hoy)"
// @Success      200
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/reports/daily.pdf [get]
func (h *ReportHandler) DailyPDF(c *fiber.Ctx) error {
	pdf, summary, err := h.uc.DailyReportPDF(c.UserContext(), c.Query("date"))
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`inline; filename="movimientos-%s.pdf"`, summary.Date))
	return c.Send(pdf)
}

func newDailySummaryResponse(s *reporting.DailySummary) dto.DailySummaryResponse {
	totals := make(map[string]dto.MovementTotalResponse, len(s.Totals))
	for typ, t := range s.Totals {
		totals[string(typ)] = dto.MovementTotalResponse{Count: t.Count, Quantity: t.Quantity}
	}
	return dto.DailySummaryResponse{
		Date:      s.Date,
		Totals:    totals,
		Movements: dto.NewMovementList(s.Movements),
		LowStock:  productList(s.LowStock),
	}
}

func productList(list []*entity.Product) []dto.ProductResponse {
	out := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		out = append(out, *dto.NewProductResponse(p))
	}
	return out
}
