package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/logistica-api/internal/application/dto"
	"github.com/jhoicas/logistica-api/internal/application/inventory"
)

// PendingHandler lista de envío del día.
type PendingHandler struct {
	uc *inventory.PendingListUseCase
}

// NewPendingHandler construye el handler.
func NewPendingHandler(uc *inventory.PendingListUseCase) *PendingHandler {
	return &PendingHandler{uc: uc}
}

// List godoc
// @Summary      Lista de envío pendiente
// @Tags         pending
// @Produce      json
// @Success      200  {array}  dto.PendingItemResponse
// @Router       /api/pending [get]
func (h *PendingHandler) List(c *fiber.Ctx) error {
	list, err := h.uc.List(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.NewPendingList(list))
}

// Add godoc
// @Summary      Escanear producto a la lista de envío
// @Tags         pending
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AddPendingRequest  true  "barcode, delta opcional (por defecto 1)"
// @Success      200   {object}  dto.PendingItemResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/pending/add [post]
func (h *PendingHandler) Add(c *fiber.Ctx) error {
	var in dto.AddPendingRequest
	if err := bind(c, &in); err != nil {
		return writeError(c, err)
	}
	item, err := h.uc.Add(c.UserContext(), in.Barcode, in.Delta)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.NewPendingItemResponse(item))
}

// Adjust godoc
// @Summary      Ajustar cantidad de un item pendiente
// @Description  quantity absoluto tiene prioridad sobre delta. Resultado 0 quita el item.
// @Tags         pending
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AdjustPendingRequest  true  "product_id, delta o quantity"
// @Success      200   {object}  dto.PendingItemResponse
// @Success      204
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/pending/adjust-quantity [post]
func (h *PendingHandler) Adjust(c *fiber.Ctx) error {
	var in dto.AdjustPendingRequest
	if err := bind(c, &in); err != nil {
		return writeError(c, err)
	}
	item, err := h.uc.Adjust(c.UserContext(), in.ProductID, in.Delta, in.Quantity)
	if err != nil {
		return writeError(c, err)
	}
	if item == nil {
		return c.SendStatus(fiber.StatusNoContent)
	}
	return c.JSON(dto.NewPendingItemResponse(item))
}

// Remove godoc
// @Summary      Quitar un producto de la lista de envío
// @Tags         pending
// @Param        productId  path  string  true  "ID del producto"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/pending/{productId} [delete]
func (h *PendingHandler) Remove(c *fiber.Ctx) error {
	if err := h.uc.Remove(c.UserContext(), c.Params("productId")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Clear godoc
// @Summary      Vaciar la lista de envío
// @Tags         pending
// @Success      204
// @Router       /api/pending [delete]
func (h *PendingHandler) Clear(c *fiber.Ctx) error {
	if err := h.uc.Clear(c.UserContext()); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ProcessShipment godoc
// @Summary      Procesar el envío
// @Description  Registra una salida por item, del agregado más antiguo al más reciente, y se detiene en el primer fallo.
// @Description  Lo ya procesado queda confirmado; el resto sigue pendiente.
// @Tags         pending
// @Produce      json
// @Success      200  {object}  dto.ShipmentResponse
// @Failure      409  {object}  dto.ShipmentFailureResponse
// @Router       /api/pending/process-shipment [post]
func (h *PendingHandler) ProcessShipment(c *fiber.Ctx) error {
	res, err := h.uc.ProcessShipment(c.UserContext())
	out := newShipmentResponse(res)
	if err != nil {
		status, body := errorStatus(err)
		return c.Status(status).JSON(dto.ShipmentFailureResponse{ErrorResponse: body, Result: out})
	}
	return c.JSON(out)
}

func newShipmentResponse(res *inventory.ShipmentResult) dto.ShipmentResponse {
	out := dto.ShipmentResponse{
		Processed: make([]dto.MutationResponse, 0),
		Remaining: make([]dto.PendingItemResponse, 0),
	}
	if res == nil {
		return out
	}
	for _, r := range res.Processed {
		out.Processed = append(out.Processed, newMutationResponse(r))
	}
	out.Remaining = dto.NewPendingList(res.Remaining)
	out.Warnings = res.Warnings
	return out
}
