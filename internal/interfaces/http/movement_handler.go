package http

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/logistica-api/internal/application/dto"
	"github.com/jhoicas/logistica-api/internal/application/inventory"
	"github.com/jhoicas/logistica-api/internal/application/reporting"
	"github.com/jhoicas/logistica-api/internal/domain/entity"
)

// Cabeceras de GET /api/movements.
const (
	HeaderResultLimit     = "X-Result-Limit"
	HeaderResultTruncated = "X-Result-Truncated"
)

// MovementHandler operaciones de stock y consulta del libro de movimientos.
type MovementHandler struct {
	engine  *inventory.StockEngine
	reports *reporting.ReportUseCase
}

// NewMovementHandler construye el handler.
func NewMovementHandler(engine *inventory.StockEngine, reports *reporting.ReportUseCase) *MovementHandler {
	return &MovementHandler{engine: engine, reports: reports}
}

// List godoc
// @Summary      Consultar el libro de movimientos
// @Tags         movements
// @Produce      json
// @Param        product_id  query  string  false  "ID del producto"
// @Param        type        query  string  false  "IN | OUT | PACKING | OUTGOING"
// @Param        date_from   query  string  false  "YYYY-MM-DD (inclusivo)"
// @Param        date_to     query  string  false  "YYYY-MM-DD (inclusivo)"
// @Description  Devuelve como mucho 1000 filas. Si hubo corte responde X-Result-Truncated: true;
// @Description  X-Result-Limit trae el límite aplicado.
// @Param        limit       query  int     false  "Máximo de filas (1..1000, por defecto 1000)"
// @Success      200  {array}   dto.MovementResponse
// @Header       200  {string}  X-Result-Truncated  "true si quedaron filas afuera"
// @Header       200  {integer} X-Result-Limit      "límite aplicado"
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/movements [get]
func (h *MovementHandler) List(c *fiber.Ctx) error {
	limit, err := queryInt(c, "limit", 0)
	if err != nil {
		return writeError(c, err)
	}
	page, err := h.reports.Movements(c.UserContext(), reporting.MovementQuery{
		ProductID: c.Query("product_id"),
		Type:      c.Query("type"),
		DateFrom:  c.Query("date_from"),
		DateTo:    c.Query("date_to"),
		Limit:     limit,
	})
	if err != nil {
		return writeError(c, err)
	}
	c.Set(HeaderResultLimit, strconv.Itoa(page.Limit))
	if page.Truncated {
		c.Set(HeaderResultTruncated, "true")
	}
	return c.JSON(dto.NewMovementList(page.Movements))
}

// GetByID godoc
// @Summary      Obtener un movimiento
// @Tags         movements
// @Produce      json
// @Param        id   path  string  true  "ID del movimiento"
// @Success      200  {object}  dto.MovementResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/movements/{id} [get]
func (h *MovementHandler) GetByID(c *fiber.Ctx) error {
	m, err := h.reports.GetMovement(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.NewMovementResponse(m))
}

// Register godoc
// @Summary      Registrar movimiento (forma genérica)
// @Tags         movements
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterMovementRequest  true  "type, product_id o barcode, quantity"
// @Success      201   {object}  dto.MutationResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      503   {object}  dto.ErrorResponse
// @Router       /api/movements [post]
func (h *MovementHandler) Register(c *fiber.Ctx) error {
	var in dto.RegisterMovementRequest
	if err := bind(c, &in); err != nil {
		return writeError(c, err)
	}
	return h.apply(c, entity.MovementType(in.Type), in.StockOperationRequest)
}

// Inbound godoc
// @Summary      Entrada de stock (escaneo); crea el producto si el código es nuevo
// @Tags         stock
// @Accept       json
// @Produce      json
// @Param        body  body  dto.StockOperationRequest  true  "barcode o product_id, quantity, name opcional"
// @Success      201   {object}  dto.MutationResponse
// @Router       /api/stock/inbound [post]
func (h *MovementHandler) Inbound(c *fiber.Ctx) error {
	return h.operation(c, entity.MovementTypeIN)
}

// Outbound godoc
// @Summary      Salida de stock
// @Tags         stock
// @Accept       json
// @Produce      json
// @Param        body  body  dto.StockOperationRequest  true  "barcode o product_id, quantity"
// @Success      201   {object}  dto.MutationResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/stock/outbound [post]
func (h *MovementHandler) Outbound(c *fiber.Ctx) error {
	return h.operation(c, entity.MovementTypeOUT)
}

// Packing godoc
// @Summary      Empaque gross
// @Tags         stock
// @Accept       json
// @Produce      json
// @Param        body  body  dto.StockOperationRequest  true  "barcode o product_id, quantity"
// @Success      201   {object}  dto.MutationResponse
// @Router       /api/stock/packing [post]
func (h *MovementHandler) Packing(c *fiber.Ctx) error {
	return h.operation(c, entity.MovementTypePACKING)
}

// Outgoing godoc
// @Summary      Despacho de cajas gross
// @Tags         stock
// @Accept       json
// @Produce      json
// @Param        body  body  dto.StockOperationRequest  true  "barcode o product_id, quantity"
// @Success      201   {object}  dto.MutationResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/stock/outgoing [post]
func (h *MovementHandler) Outgoing(c *fiber.Ctx) error {
	return h.operation(c, entity.MovementTypeOUTGOING)
}

func (h *MovementHandler) operation(c *fiber.Ctx, typ entity.MovementType) error {
	var in dto.StockOperationRequest
	if err := bind(c, &in); err != nil {
		return writeError(c, err)
	}
	return h.apply(c, typ, in)
}

func (h *MovementHandler) apply(c *fiber.Ctx, typ entity.MovementType, in dto.StockOperationRequest) error {
	res, err := h.engine.Register(c.UserContext(), inventory.MutationInput{
		ProductID: in.ProductID,
		Barcode:   in.Barcode,
		Name:      in.Name,
		Type:      typ,
		Quantity:  in.Quantity,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(newMutationResponse(res))
}

func newMutationResponse(res *inventory.MutationResult) dto.MutationResponse {
	return dto.MutationResponse{
		Product:  dto.NewProductResponse(res.Product),
		Movement: dto.NewMovementResponse(res.Movement),
	}
}
