package http

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/logistica-api/internal/application/dto"
	"github.com/jhoicas/logistica-api/internal/application/reporting"
	"github.com/jhoicas/logistica-api/internal/application/usecase"
	"github.com/jhoicas/logistica-api/internal/domain"
)

// ProductHandler registro de productos y consultas por producto.
type ProductHandler struct {
	uc      *usecase.ProductUseCase
	reports *reporting.ReportUseCase
}

// NewProductHandler construye el handler.
func NewProductHandler(uc *usecase.ProductUseCase, reports *reporting.ReportUseCase) *ProductHandler {
	return &ProductHandler{uc: uc, reports: reports}
}

// List godoc
// @Summary      Listar productos
// @Tags         products
// @Produce      json
// @Param        q          query  string  false  "Texto en nombre o código de barras"
// @Param        low_stock  query  bool    false  "Solo productos con stock bajo"
// @Success      200  {object}  dto.ProductListResponse
// @Router       /api/products [get]
func (h *ProductHandler) List(c *fiber.Ctx) error {
	list, err := h.reports.ListProducts(c.UserContext(), c.Query("q"), c.QueryBool("low_stock", false))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.NewProductListResponse(list))
}

// GetByBarcode godoc
// @Summary      Buscar producto por código de barras
// @Tags         products
// @Produce      json
// @Param        barcode  path  string  true  "Código de barras"
// @Success      200  {object}  dto.ProductResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/barcode/{barcode} [get]
func (h *ProductHandler) GetByBarcode(c *fiber.Ctx) error {
	p, err := h.uc.FindByBarcode(c.UserContext(), c.Params("barcode"))
	if err != nil {
		return writeError(c, err)
	}
	if p == nil {
		return writeError(c, domain.ErrUnknownBarcode)
	}
	return c.JSON(dto.NewProductResponse(p))
}

// GetByID godoc
// @Summary      Obtener producto por ID
// @Tags         products
// @Produce      json
// @Param        id   path  string  true  "ID del producto"
// @Success      200  {object}  dto.ProductResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/{id} [get]
func (h *ProductHandler) GetByID(c *fiber.Ctx) error {
	p, err := h.uc.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.NewProductResponse(p))
}

// Log godoc
// @Summary      Movimientos de un producto en un mes
// @Tags         products
// @Produce      json
// @Param        id     path   string  true   "ID del producto"
// @Param        year   query  int     false  "Año (por defecto el actual)"
// @Param        month  query  int     false  "Mes 1-12 (por defecto el actual)"
// @Success      200  {array}   dto.MovementResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/products/{id}/log [get]
func (h *ProductHandler) Log(c *fiber.Ctx) error {
	now := time.Now()
	year, err := queryInt(c, "year", now.Year())
	if err != nil {
		return writeError(c, err)
	}
	month, err := queryInt(c, "month", int(now.Month()))
	if err != nil {
		return writeError(c, err)
	}
	list, err := h.reports.ProductLog(c.UserContext(), c.Params("id"), year, month)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.NewMovementList(list))
}

// Create godoc
// @Summary      Crear producto (administrador)
// @Tags         products
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateProductRequest  true  "Datos del producto"
// @Success      201   {object}  dto.ProductResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/products [post]
func (h *ProductHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateProductRequest
	if err := bind(c, &in); err != nil {
		return writeError(c, err)
	}
	p, err := h.uc.Create(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewProductResponse(p))
}

// Upsert godoc
// @Summary      Crear o devolver producto por código de barras
// @Tags         products
// @Accept       json
// @Produce      json
// @Param        body  body  dto.UpsertProductRequest  true  "barcode, name opcional"
// @Success      200   {object}  dto.ProductResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/products/upsert [post]
func (h *ProductHandler) Upsert(c *fiber.Ctx) error {
	var in dto.UpsertProductRequest
	if err := bind(c, &in); err != nil {
		return writeError(c, err)
	}
	p, err := h.uc.UpsertByBarcode(c.UserContext(), in.Barcode, in.Name)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.NewProductResponse(p))
}

// Update godoc
// @Summary      Actualizar producto (administrador)
// @Tags         products
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del producto"
// @Param        body  body  dto.UpdateProductRequest  true  "Datos a actualizar"
// @Success      200   {object}  dto.ProductResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/products/{id} [put]
func (h *ProductHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateProductRequest
	if err := bind(c, &in); err != nil {
		return writeError(c, err)
	}
	p, err := h.uc.Update(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.NewProductResponse(p))
}

// Delete godoc
// @Summary      Eliminar producto (administrador)
// @Tags         products
// @Security     Bearer
// @Param        id   path  string  true  "ID del producto"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/{id} [delete]
func (h *ProductHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// queryInt lee un entero opcional; un valor no numérico es ErrInvalidInput.
func queryInt(c *fiber.Ctx, key string, def int) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, domain.ErrInvalidInput
	}
	return v, nil
}
