package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/logistica-api/internal/application/dto"
	"github.com/jhoicas/logistica-api/internal/application/usecase"
)

// RoutineHandler lista de verificación diaria y registro de asistencia.
type RoutineHandler struct {
	routines   *usecase.RoutineUseCase
	attendance *usecase.AttendanceUseCase
}

// NewRoutineHandler construye el handler.
func NewRoutineHandler(routines *usecase.RoutineUseCase, attendance *usecase.AttendanceUseCase) *RoutineHandler {
	return &RoutineHandler{routines: routines, attendance: attendance}
}

// ListRoutines godoc
// @Summary      Tareas del día
// @Tags         routines
// @Produce      json
// @Success      200  {array}  dto.RoutineResponse
// @Router       /api/routines [get]
func (h *RoutineHandler) ListRoutines(c *fiber.Ctx) error {
	list, err := h.routines.List(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.NewRoutineList(list))
}

// CreateRoutine godoc
// @Summary      Agregar tarea (administrador)
// @Tags         routines
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateRoutineRequest  true  "task"
// @Success      201   {object}  dto.RoutineResponse
// @Router       /api/routines [post]
func (h *RoutineHandler) CreateRoutine(c *fiber.Ctx) error {
	var in dto.CreateRoutineRequest
	if err := bind(c, &in); err != nil {
		return writeError(c, err)
	}
	r, err := h.routines.Create(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewRoutineResponse(r))
}

// UpdateRoutine godoc
// @Summary      Marcar o renombrar tarea
// @Tags         routines
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la tarea"
// @Param        body  body  dto.UpdateRoutineRequest  true  "task y/o completed"
// @Success      200   {object}  dto.RoutineResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/routines/{id} [put]
func (h *RoutineHandler) UpdateRoutine(c *fiber.Ctx) error {
	var in dto.UpdateRoutineRequest
	if err := bind(c, &in); err != nil {
		return writeError(c, err)
	}
	r, err := h.routines.Update(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.NewRoutineResponse(r))
}

// DeleteRoutine godoc
// @Summary      Eliminar tarea (administrador)
// @Tags         routines
// @Security     Bearer
// @Param        id   path  string  true  "ID de la tarea"
// @Success      204
// @Router       /api/routines/{id} [delete]
func (h *RoutineHandler) DeleteRoutine(c *fiber.Ctx) error {
	if err := h.routines.Delete(c.UserContext(), c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ResetRoutines godoc
// @Summary      Desmarcar todas las tareas (administrador)
// @Tags         routines
// @Security     Bearer
// @Success      204
// @Router       /api/routines/reset [post]
func (h *RoutineHandler) ResetRoutines(c *fiber.Ctx) error {
	if err := h.routines.Reset(c.UserContext()); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ListAttendance godoc
// @Summary      Registros de asistencia
// @Tags         attendance
// @Produce      json
// @Param        date  query  string  false  "YYYY-MM-DD"
// @Success      200   {array}  dto.AttendanceResponse
// @Router       /api/attendance [get]
func (h *RoutineHandler) ListAttendance(c *fiber.Ctx) error {
	list, err := h.attendance.List(c.UserContext(), c.Query("date"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.NewAttendanceList(list))
}

// CreateAttendance godoc
// @Summary      Marcar entrada o salida
// @Tags         attendance
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateAttendanceRequest  true  "employee, type"
// @Success      201   {object}  dto.AttendanceResponse
// @Router       /api/attendance [post]
func (h *RoutineHandler) CreateAttendance(c *fiber.Ctx) error {
	var in dto.CreateAttendanceRequest
	if err := bind(c, &in); err != nil {
		return writeError(c, err)
	}
	a, err := h.attendance.Create(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewAttendanceResponse(a))
}

// UpdateAttendance godoc
// @Summary      Corregir registro (administrador)
// @Tags         attendance
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del registro"
// @Param        body  body  dto.UpdateAttendanceRequest  true  "campos a corregir"
// @Success      200   {object}  dto.AttendanceResponse
// @Router       /api/attendance/{id} [put]
func (h *RoutineHandler) UpdateAttendance(c *fiber.Ctx) error {
	var in dto.UpdateAttendanceRequest
	if err := bind(c, &in); err != nil {
		return writeError(c, err)
	}
	a, err := h.attendance.Update(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.NewAttendanceResponse(a))
}

// DeleteAttendance godoc
// @Summary      Eliminar registro (administrador)
// @Tags         attendance
// @Security     Bearer
// @Param        id   path  string  true  "ID del registro"
// @Success      204
// @Router       /api/attendance/{id} [delete]
func (h *RoutineHandler) DeleteAttendance(c *fiber.Ctx) error {
	if err := h.attendance.Delete(c.UserContext(), c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
