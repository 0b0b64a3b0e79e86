package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/logistica-api/internal/application/dto"
	"github.com/jhoicas/logistica-api/internal/domain"
	"github.com/jhoicas/logistica-api/pkg/logger"
	"github.com/jhoicas/logistica-api/pkg/validator"
)

var errInvalidBody = errors.New("cuerpo inválido")

// validationError fallos de los tags `validate` de un DTO.
type validationError struct {
	fields []*validator.FieldError
}

func (e *validationError) Error() string { return validator.Summary(e.fields) }

// bind parsea el cuerpo JSON y valida los tags del DTO.
func bind(c *fiber.Ctx, out any) error {
	if err := c.BodyParser(out); err != nil {
		return errInvalidBody
	}
	if errs := validator.ValidateStruct(out); len(errs) > 0 {
		return &validationError{fields: errs}
	}
	return nil
}

// errorStatus traduce errores de dominio a status HTTP y código de error.
func errorStatus(err error) (int, dto.ErrorResponse) {
	var verr *validationError
	switch {
	case errors.As(err, &verr):
		return fiber.StatusBadRequest, dto.ErrorResponse{Code: "VALIDATION", Message: verr.Error(), Details: verr.fields}
	case errors.Is(err, errInvalidBody):
		return fiber.StatusBadRequest, dto.ErrorResponse{Code: "INVALID_BODY", Message: err.Error()}
	case errors.Is(err, domain.ErrInvalidInput):
		return fiber.StatusBadRequest, dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos"}
	case errors.Is(err, domain.ErrUnauthorized):
		return fiber.StatusUnauthorized, dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "credenciales inválidas"}
	case errors.Is(err, domain.ErrUnknownBarcode):
		return fiber.StatusNotFound, dto.ErrorResponse{Code: "UNKNOWN_BARCODE", Message: "código de barras no registrado"}
	case errors.Is(err, domain.ErrNotFound):
		return fiber.StatusNotFound, dto.ErrorResponse{Code: "NOT_FOUND", Message: "recurso no encontrado"}
	case errors.Is(err, domain.ErrDuplicateBarcode):
		return fiber.StatusConflict, dto.ErrorResponse{Code: "DUPLICATE_BARCODE", Message: "el código de barras ya está registrado"}
	case errors.Is(err, domain.ErrInsufficientStock):
		return fiber.StatusConflict, dto.ErrorResponse{Code: "INSUFFICIENT_STOCK", Message: "stock insuficiente"}
	case errors.Is(err, domain.ErrInsufficientGrossPacking):
		return fiber.StatusConflict, dto.ErrorResponse{Code: "INSUFFICIENT_GROSS_PACKING", Message: "cantidad de empaque gross insuficiente"}
	case errors.Is(err, domain.ErrLedgerWriteInconsistency):
		return fiber.StatusInternalServerError, dto.ErrorResponse{Code: "LEDGER_WRITE_INCONSISTENCY", Message: err.Error()}
	case errors.Is(err, domain.ErrStorageUnavailable):
		return fiber.StatusServiceUnavailable, dto.ErrorResponse{Code: "STORAGE_UNAVAILABLE", Message: "almacenamiento no disponible, reintente"}
	}
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return fe.Code, dto.ErrorResponse{Code: fiberCode(fe.Code), Message: fe.Message}
	}
	return fiber.StatusInternalServerError, dto.ErrorResponse{Code: "INTERNAL", Message: "error interno"}
}

func fiberCode(status int) string {
	switch status {
	case fiber.StatusNotFound:
		return "NOT_FOUND"
	case fiber.StatusMethodNotAllowed:
		return "METHOD_NOT_ALLOWED"
	case fiber.StatusRequestEntityTooLarge:
		return "BODY_TOO_LARGE"
	}
	if status >= 500 {
		return "INTERNAL"
	}
	return "BAD_REQUEST"
}

// writeError responde con el ErrorResponse que corresponde a err.
func writeError(c *fiber.Ctx, err error) error {
	status, body := errorStatus(err)
	return c.Status(status).JSON(body)
}

// ErrorHandler manejador de errores de la app: todo error no atendido sale como dto.ErrorResponse.
func ErrorHandler(log *logger.Logger) fiber.ErrorHandler {
	if log == nil {
		log = logger.Nop()
	}
	l := log.Component("http")
	return func(c *fiber.Ctx, err error) error {
		status, body := errorStatus(err)
		if status >= fiber.StatusInternalServerError {
			l.Error().Err(err).Str("path", c.Path()).Msg("error no manejado")
		}
		return c.Status(status).JSON(body)
	}
}
