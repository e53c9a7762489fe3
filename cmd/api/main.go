package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/resto-backoffice/internal/bootstrap"
	"github.com/jhoicas/resto-backoffice/internal/infrastructure/scheduler"
	httpRouter "github.com/jhoicas/resto-backoffice/internal/interfaces/http"
	"github.com/jhoicas/resto-backoffice/pkg/config"
	"github.com/jhoicas/resto-backoffice/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	deps, err := bootstrap.New(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("inicialización")
	}
	defer deps.Close()

	var generateLimit fiber.Handler
	if cfg.RateLimit.Generate != "" {
		generateLimit, err = httpRouter.RateLimit(cfg.RateLimit.Generate)
		if err != nil {
			log.Fatal().Err(err).Msg("rate limit")
		}
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 60, // render + SMTP en /daily/generate
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		Reports:       httpRouter.NewReportHandler(deps.Pipeline, deps.Queries, log),
		JWTSecret:     cfg.JWT.Secret,
		GenerateLimit: generateLimit,
	})

	// Disparo diario para el turno de ayer. schedDone se cierra cuando el
	// scheduler y su ejecución en curso terminan; recién ahí se cierra el pool.
	schedDone := make(chan struct{})
	if !cfg.Scheduler.Enabled {
		close(schedDone)
	} else {
		loc, err := cfg.Scheduler.Location()
		if err != nil {
			log.Fatal().Err(err).Msg("scheduler")
		}
		sched := scheduler.NewDailyScheduler(deps.Pipeline, scheduler.Config{
			Location: loc,
			Hour:     cfg.Scheduler.Hour,
			Minute:   cfg.Scheduler.Minute,
		}, log)
		go func() {
			defer close(schedDone)
			sched.Start(ctx)
		}()
	}

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	<-schedDone
	log.Info().Msg("aplicación detenida")
}
