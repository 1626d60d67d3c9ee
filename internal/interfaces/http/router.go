package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/tu-usuario/cotizador-pro/internal/application/auth"
	"github.com/tu-usuario/cotizador-pro/internal/application/quotes"
	"github.com/tu-usuario/cotizador-pro/internal/application/sync"
	"github.com/tu-usuario/cotizador-pro/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC     *auth.AuthUseCase
	QuoteUC    *quotes.QuoteUseCase
	PDFUC      *quotes.PDFUseCase
	Reconciler *sync.Reconciler
	Pusher     *sync.Pusher
	JWTSecret  string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)
	authGroup.Post("/reset-password", authHandler.ResetPassword)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Sesión autenticada
	protected.Post("/auth/logout", authHandler.Logout)
	protected.Get("/auth/me", authHandler.Me)

	// Cotizaciones (protegido)
	quotesGroup := protected.Group("/quotes")
	quoteHandler := NewQuoteHandler(deps.QuoteUC, deps.PDFUC)
	quotesGroup.Post("/", quoteHandler.Create)
	quotesGroup.Get("/", quoteHandler.List)
	quotesGroup.Get("/:id", quoteHandler.GetByID)
	quotesGroup.Get("/:id/pdf", quoteHandler.PDF)
	quotesGroup.Put("/:id/rows", quoteHandler.UpdateRows)
	quotesGroup.Post("/:id/submit", quoteHandler.Submit)
	// Las decisiones de aprobación exigen el permiso de aprobador además del
	// chequeo de arista que hace el caso de uso.
	quotesGroup.Post("/:id/approve", RequirePermission(entity.PermAprobar), quoteHandler.Approve)
	quotesGroup.Post("/:id/reject", RequirePermission(entity.PermAprobar), quoteHandler.Reject)
	quotesGroup.Post("/:id/revision", RequirePermission(entity.PermAprobar), quoteHandler.RequestRevision)

	// Sincronización (protegido, solo admin)
	syncGroup := protected.Group("/sync", RequirePermission(entity.PermAdmin))
	syncHandler := NewSyncHandler(deps.Reconciler, deps.Pusher)
	syncGroup.Get("/reconcile", syncHandler.Reconcile)
	syncGroup.Post("/push", syncHandler.Push)
	syncGroup.Post("/pull", syncHandler.Pull)
}
