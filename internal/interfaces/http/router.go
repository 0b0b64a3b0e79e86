package http

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/logistica-api/internal/application/auth"
	"github.com/jhoicas/logistica-api/internal/application/inventory"
	"github.com/jhoicas/logistica-api/internal/application/reporting"
	"github.com/jhoicas/logistica-api/internal/application/usecase"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	ProductUC    *usecase.ProductUseCase
	RoutineUC    *usecase.RoutineUseCase
	AttendanceUC *usecase.AttendanceUseCase
	Engine       *inventory.StockEngine
	PendingUC    *inventory.PendingListUseCase
	ReportUC     *reporting.ReportUseCase
	AuthUC       *auth.AuthUseCase
	JWTSecret    string

	// Health
	AppName string
	Backend string
	Ping    func(ctx context.Context) error
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", healthHandler(deps))

	api := app.Group("/api")
	admin := AdminMiddleware(deps.JWTSecret)

	// Auth (público)
	authHandler := NewAuthHandler(deps.AuthUC)
	api.Post("/auth/login", authHandler.Login)

	// Products: lectura, upsert y escaneo abiertos; alta/edición/baja solo administrador
	products := api.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC, deps.ReportUC)
	products.Get("/", productHandler.List)
	products.Get("/barcode/:barcode", productHandler.GetByBarcode)
	products.Post("/upsert", productHandler.Upsert)
	products.Get("/:id/log", productHandler.Log)
	products.Get("/:id", productHandler.GetByID)
	products.Post("/", admin, productHandler.Create)
	products.Put("/:id", admin, productHandler.Update)
	products.Delete("/:id", admin, productHandler.Delete)

	// Movimientos y operaciones de stock
	movementHandler := NewMovementHandler(deps.Engine, deps.ReportUC)
	movements := api.Group("/movements")
	movements.Get("/", movementHandler.List)
	movements.Get("/:id", movementHandler.GetByID)
	movements.Post("/", movementHandler.Register)

	stock := api.Group("/stock")
	stock.Post("/inbound", movementHandler.Inbound)
	stock.Post("/outbound", movementHandler.Outbound)
	stock.Post("/packing", movementHandler.Packing)
	stock.Post("/outgoing", movementHandler.Outgoing)

	// Lista de envío
	pending := api.Group("/pending")
	pendingHandler := NewPendingHandler(deps.PendingUC)
	pending.Get("/", pendingHandler.List)
	pending.Post("/add", pendingHandler.Add)
	pending.Post("/adjust-quantity", pendingHandler.Adjust)
	pending.Post("/process-shipment", pendingHandler.ProcessShipment)
	pending.Delete("/:productId", pendingHandler.Remove)
	pending.Delete("/", pendingHandler.Clear)

	// Reportes
	reports := api.Group("/reports")
	reportHandler := NewReportHandler(deps.ReportUC)
	reports.Get("/daily", reportHandler.Daily)
	reports.Get("/daily.pdf", reportHandler.DailyPDF)

	// Rutinas y asistencia
	routineHandler := NewRoutineHandler(deps.RoutineUC, deps.AttendanceUC)
	routines := api.Group("/routines")
	routines.Get("/", routineHandler.ListRoutines)
	routines.Post("/reset", admin, routineHandler.ResetRoutines)
	routines.Post("/", admin, routineHandler.CreateRoutine)
	routines.Put("/:id", routineHandler.UpdateRoutine)
	routines.Delete("/:id", admin, routineHandler.DeleteRoutine)

	attendance := api.Group("/attendance")
	attendance.Get("/", routineHandler.ListAttendance)
	attendance.Post("/", routineHandler.CreateAttendance)
	attendance.Put("/:id", admin, routineHandler.UpdateAttendance)
	attendance.Delete("/:id", admin, routineHandler.DeleteAttendance)
}

// HealthResponse estado del servicio.
type HealthResponse struct {
	Status  string    `json:"status"`
	App     string    `json:"app"`
	Backend string    `json:"backend"`
	Time    time.Time `json:"time"`
}

func healthHandler(deps RouterDeps) fiber.Handler {
	return func(c *fiber.Ctx) error {
		out := HealthResponse{Status: "ok", App: deps.AppName, Backend: deps.Backend, Time: time.Now()}
		if deps.Ping != nil {
			if err := deps.Ping(c.UserContext()); err != nil {
				out.Status = "degraded"
				return c.Status(fiber.StatusServiceUnavailable).JSON(out)
			}
		}
		return c.JSON(out)
	}
}
