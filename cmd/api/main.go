package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/tu-usuario/cotizador-pro/internal/application/auth"
	"github.com/tu-usuario/cotizador-pro/internal/application/quotes"
	appsync "github.com/tu-usuario/cotizador-pro/internal/application/sync"
	infrapdf "github.com/tu-usuario/cotizador-pro/internal/infrastructure/pdf"
	"github.com/tu-usuario/cotizador-pro/internal/infrastructure/remote"
	"github.com/tu-usuario/cotizador-pro/internal/infrastructure/sqlite"
	httpRouter "github.com/tu-usuario/cotizador-pro/internal/interfaces/http"
	"github.com/tu-usuario/cotizador-pro/pkg/config"
	"github.com/tu-usuario/cotizador-pro/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Almacén local: fuente de verdad de las escrituras.
	localDB, err := sqlite.Open(cfg.Local.Path)
	if err != nil {
		log.Fatal().Err(err).Msg("abrir base de datos local")
	}
	defer localDB.Close()

	// Espejo remoto: postgres (defecto), dynamodb o memory según config.
	remoteRepo, closeRemote, err := remote.New(ctx, cfg.Remote)
	if err != nil {
		log.Fatal().Err(err).Str("backend", cfg.Remote.Backend).Msg("conectar espejo remoto")
	}
	defer closeRemote()

	quoteRepo := sqlite.NewQuoteRepository(localDB)
	userRepo := sqlite.NewUserRepository(localDB)

	// Worker de push: at-least-once, backoff exponencial ante fallas remotas.
	pusher := appsync.NewPusher(quoteRepo, remoteRepo, log, appsync.Options{
		Interval:    cfg.Sync.Interval,
		MaxInterval: cfg.Sync.MaxInterval,
		PushTimeout: cfg.Sync.PushTimeout,
		BatchSize:   cfg.Sync.BatchSize,
	})
	go pusher.Run(ctx)

	reconciler := appsync.NewReconciler(quoteRepo, remoteRepo, log)

	notifier := auth.NewNotifier()
	authUC := auth.NewAuthUseCase(userRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	}, cfg.Company.Code, notifier, log)

	quoteUC := quotes.NewQuoteUseCase(quoteRepo, pusher, log)

	pdfGenerator := infrapdf.NewMarotoPDFGenerator()
	pdfUC := quotes.NewPDFUseCase(quoteRepo, pdfGenerator, cfg.Company.Name)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Cotizador Pro API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:     authUC,
		QuoteUC:    quoteUC,
		PDFUC:      pdfUC,
		Reconciler: reconciler,
		Pusher:     pusher,
		JWTSecret:  cfg.JWT.Secret,
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

	// Para el worker de push antes de cerrar el servidor.
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
