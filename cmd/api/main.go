package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/logistica-api/internal/application/auth"
	"github.com/jhoicas/logistica-api/internal/application/inventory"
	"github.com/jhoicas/logistica-api/internal/application/reporting"
	"github.com/jhoicas/logistica-api/internal/application/usecase"
	"github.com/jhoicas/logistica-api/internal/infrastructure/backend"
	infrapdf "github.com/jhoicas/logistica-api/internal/infrastructure/pdf"
	httpRouter "github.com/jhoicas/logistica-api/internal/interfaces/http"
	"github.com/jhoicas/logistica-api/internal/interfaces/ws"
	"github.com/jhoicas/logistica-api/pkg/config"
	"github.com/jhoicas/logistica-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("backend", cfg.Storage.Backend).
		Msg("iniciando aplicación")

	loc, err := cfg.App.Location()
	if err != nil {
		log.Fatal().Err(err).Msg("zona horaria")
	}

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	store, err := backend.Open(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("abrir almacenamiento")
	}
	// log.Fatal sale con os.Exit y no corre defers: cerrar a mano antes
	closeStore := func() {
		if err := store.Close(); err != nil {
			log.Error().Err(err).Msg("cerrar almacenamiento")
		}
	}

	if cfg.App.SeedDemoData {
		if err := backend.SeedDemoData(ctx, store, log); err != nil {
			closeStore()
			log.Fatal().Err(err).Msg("datos de ejemplo")
		}
	}

	hub := ws.NewHub(log)
	go hub.Run(ctx)

	productUC := usecase.NewProductUseCase(store.Products, store.Pending)
	engine := inventory.NewStockEngine(store.Tx, productUC, inventory.NewLedgerClock(loc), log, hub)
	pendingUC := inventory.NewPendingListUseCase(store.Pending, productUC, engine, log, hub)
	reportUC := reporting.NewReportUseCase(store.Products, store.Movements, loc, infrapdf.NewDailyReportGenerator(cfg.App.Name))
	routineUC := usecase.NewRoutineUseCase(store.Routines)
	attendanceUC := usecase.NewAttendanceUseCase(store.Attendance, loc)

	authUC, err := auth.NewAuthUseCase(cfg.Admin.PasswordHash, cfg.Admin.Password, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	if err != nil {
		closeStore()
		log.Fatal().Err(err).Msg("configuración de administrador")
	}
	if !authUC.Enabled() {
		log.Warn().Msg("modo administrador deshabilitado: falta ADMIN_PASSWORD(_HASH) o JWT_SECRET")
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
		ErrorHandler: httpRouter.ErrorHandler(log),
	})
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		ExposeHeaders: httpRouter.HeaderResultLimit + "," + httpRouter.HeaderResultTruncated,
	}))
	app.Use(httpRouter.RequestLogger(log))

	// Swagger UI: http://localhost:<port>/docs
	if cfg.App.DocsEnabled {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: "./docs/swagger.json",
			Path:     "docs",
			Title:    "Logística API",
		}))
	}

	app.Use("/ws", ws.Upgrade)
	app.Get("/ws", hub.Handler(ctx))

	app.Use("/api", httpRouter.RequestTimeout(cfg.HTTP.RequestTimeout))
	httpRouter.Router(app, httpRouter.RouterDeps{
		ProductUC:    productUC,
		RoutineUC:    routineUC,
		AttendanceUC: attendanceUC,
		Engine:       engine,
		PendingUC:    pendingUC,
		ReportUC:     reportUC,
		AuthUC:       authUC,
		JWTSecret:    cfg.JWT.Secret,
		AppName:      cfg.App.Name,
		Backend:      store.Name,
		Ping:         store.Ping,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}
	closeStore()

	log.Info().Msg("aplicación detenida")
}
