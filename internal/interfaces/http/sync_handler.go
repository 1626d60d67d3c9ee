package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/tu-usuario/cotizador-pro/internal/application/dto"
	"github.com/tu-usuario/cotizador-pro/internal/application/sync"
)

// SyncHandler expone la reconciliación local↔remoto y el push manual.
type SyncHandler struct {
	reconciler *sync.Reconciler
	pusher     *sync.Pusher
}

// NewSyncHandler construye el handler de sincronización.
func NewSyncHandler(reconciler *sync.Reconciler, pusher *sync.Pusher) *SyncHandler {
	return &SyncHandler{reconciler: reconciler, pusher: pusher}
}

// Reconcile godoc
// @Summary      Informe de discrepancias local↔remoto
// @Tags         sync
// @Produce      json
// @Success      200  {object}  dto.DiscrepancyReport
// @Failure      502  {object}  dto.ErrorResponse
// @Router       /api/sync/reconcile [get]
func (h *SyncHandler) Reconcile(c *fiber.Ctx) error {
	report, err := h.reconciler.Reconcile(c.Context())
	if err != nil {
		return c.Status(fiber.StatusBadGateway).JSON(dto.ErrorResponse{Code: "REMOTE_UNAVAILABLE", Message: err.Error()})
	}
	return c.JSON(report)
}

// Push godoc
// @Summary      Empujar ahora todo lo pendiente de sincronizar
// @Tags         sync
// @Produce      json
// @Success      200  {object}  map[string]int
// @Router       /api/sync/push [post]
func (h *SyncHandler) Push(c *fiber.Ctx) error {
	pushed, failed := h.pusher.Flush(c.Context())
	return c.JSON(fiber.Map{"pushed": pushed, "failed": failed})
}

// Pull godoc
// @Summary      Importar del remoto los registros ausentes en local
// @Tags         sync
// @Produce      json
// @Success      200  {object}  map[string]int
// @Failure      502  {object}  dto.ErrorResponse
// @Router       /api/sync/pull [post]
func (h *SyncHandler) Pull(c *fiber.Ctx) error {
	imported, err := h.reconciler.PullRemote(c.Context())
	if err != nil {
		return c.Status(fiber.StatusBadGateway).JSON(dto.ErrorResponse{Code: "REMOTE_UNAVAILABLE", Message: err.Error()})
	}
	return c.JSON(fiber.Map{"imported": imported})
}
