package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/tu-usuario/cotizador-pro/internal/application/dto"
	"github.com/tu-usuario/cotizador-pro/internal/application/quotes"
	"github.com/tu-usuario/cotizador-pro/internal/domain"
	"github.com/tu-usuario/cotizador-pro/internal/domain/workflow"
)

// QuoteHandler maneja el ciclo de vida de cotizaciones.
type QuoteHandler struct {
	uc  *quotes.QuoteUseCase
	pdf *quotes.PDFUseCase
}

// NewQuoteHandler construye el handler de cotizaciones.
func NewQuoteHandler(uc *quotes.QuoteUseCase, pdf *quotes.PDFUseCase) *QuoteHandler {
	return &QuoteHandler{uc: uc, pdf: pdf}
}

// Create godoc
// @Summary      Crear cotización (nace en borrador)
// @Tags         quotes
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateQuoteRequest  true  "cliente, vendedor, filas"
// @Success      201   {object}  dto.QuoteResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/quotes [post]
func (h *QuoteHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateQuoteRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.Create(c.Context(), in, actorFromCtx(c))
	if err != nil {
		return quoteError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar cotizaciones por filtro semántico
// @Tags         quotes
// @Produce      json
// @Param        filtro  query  string  false  "todas | pendientes | aprobadas | rechazadas | revision"
// @Success      200  {object}  dto.QuoteListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/quotes [get]
func (h *QuoteHandler) List(c *fiber.Ctx) error {
	raw := c.Query("filtro", string(workflow.FiltroTodas))
	filtro, ok := workflow.ParseFiltro(raw)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_FILTER", Message: "filtro desconocido: " + raw})
	}
	out, err := h.uc.ListByStatus(c.Context(), filtro)
	if err != nil {
		return quoteError(c, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener cotización por id
// @Tags         quotes
// @Produce      json
// @Param        id  path  string  true  "id de la cotización"
// @Success      200  {object}  dto.QuoteResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/quotes/{id} [get]
func (h *QuoteHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return quoteError(c, err)
	}
	return c.JSON(out)
}

// UpdateRows godoc
// @Summary      Reemplazar las filas de una cotización editable
// @Tags         quotes
// @Accept       json
// @Produce      json
// @Param        id    path  string                 true  "id de la cotización"
// @Param        body  body  dto.UpdateRowsRequest  true  "filas y TRM global"
// @Success      200   {object}  dto.QuoteResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/quotes/{id}/rows [put]
func (h *QuoteHandler) UpdateRows(c *fiber.Ctx) error {
	var in dto.UpdateRowsRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.UpdateRows(c.Context(), c.Params("id"), in, actorFromCtx(c))
	if err != nil {
		return quoteError(c, err)
	}
	return c.JSON(out)
}

// Submit godoc
// @Summary      Enviar a aprobación (borrador o revisión → pendiente)
// @Tags         quotes
// @Produce      json
// @Param        id  path  string  true  "id de la cotización"
// @Success      200  {object}  dto.QuoteResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Router       /api/quotes/{id}/submit [post]
func (h *QuoteHandler) Submit(c *fiber.Ctx) error {
	out, err := h.uc.Submit(c.Context(), c.Params("id"), actorFromCtx(c))
	if err != nil {
		return quoteError(c, err)
	}
	return c.JSON(out)
}

// Approve godoc
// @Summary      Aprobar cotización pendiente
// @Tags         quotes
// @Produce      json
// @Param        id  path  string  true  "id de la cotización"
// @Success      200  {object}  dto.QuoteResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Router       /api/quotes/{id}/approve [post]
func (h *QuoteHandler) Approve(c *fiber.Ctx) error {
	out, err := h.uc.Approve(c.Context(), c.Params("id"), actorFromCtx(c))
	if err != nil {
		return quoteError(c, err)
	}
	return c.JSON(out)
}

// Reject godoc
// @Summary      Rechazar cotización pendiente (motivo obligatorio)
// @Tags         quotes
// @Accept       json
// @Produce      json
// @Param        id    path  string             true  "id de la cotización"
// @Param        body  body  dto.RejectRequest  true  "motivo"
// @Success      200   {object}  dto.QuoteResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/quotes/{id}/reject [post]
func (h *QuoteHandler) Reject(c *fiber.Ctx) error {
	var in dto.RejectRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.Reject(c.Context(), c.Params("id"), in.Motivo, actorFromCtx(c))
	if err != nil {
		return quoteError(c, err)
	}
	return c.JSON(out)
}

// RequestRevision godoc
// @Summary      Devolver cotización pendiente a revisión
// @Tags         quotes
// @Accept       json
// @Produce      json
// @Param        id    path  string             true  "id de la cotización"
// @Param        body  body  dto.RejectRequest  false "motivo opcional"
// @Success      200   {object}  dto.QuoteResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/quotes/{id}/revision [post]
func (h *QuoteHandler) RequestRevision(c *fiber.Ctx) error {
	var in dto.RejectRequest
	// El cuerpo es opcional: la devolución a revisión no exige motivo.
	_ = c.BodyParser(&in)
	out, err := h.uc.RequestRevision(c.Context(), c.Params("id"), in.Motivo, actorFromCtx(c))
	if err != nil {
		return quoteError(c, err)
	}
	return c.JSON(out)
}

// PDF godoc
// @Summary      Descargar la cotización en PDF
// @Tags         quotes
// @Produce      application/pdf
// @Param        id  path  string  true  "id de la cotización"
// @Success      200  {file}    binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/quotes/{id}/pdf [get]
func (h *QuoteHandler) PDF(c *fiber.Ctx) error {
	raw, err := h.pdf.Generate(c.Context(), c.Params("id"))
	if err != nil {
		return quoteError(c, err)
	}
	c.Set("Content-Type", "application/pdf")
	c.Set("Content-Disposition", `attachment; filename="cotizacion-`+c.Params("id")+`.pdf"`)
	return c.Send(raw)
}

// quoteError mapea errores de dominio a estados HTTP.
func quoteError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "la cotización no existe"})
	case errors.Is(err, domain.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "permiso insuficiente para esta operación"})
	case errors.Is(err, domain.ErrConflict):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CONFLICT", Message: "otra operación sobre esta cotización está en curso"})
	case errors.Is(err, domain.ErrTransicionInvalida):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{Code: "INVALID_TRANSITION", Message: err.Error()})
	case errors.Is(err, domain.ErrValidacion):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
}
