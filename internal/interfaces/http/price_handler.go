package http

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/valyala/fasthttp"

	"github.com/jhoicas/PrecoMonitor-api/internal/application/dto"
	"github.com/jhoicas/PrecoMonitor-api/internal/application/prices"
	"github.com/jhoicas/PrecoMonitor-api/internal/domain"
	"github.com/jhoicas/PrecoMonitor-api/internal/domain/entity"
	"github.com/jhoicas/PrecoMonitor-api/internal/infrastructure/bus"
)

// PriceHandler maneja el registro de precios, el historial del usuario, la
// consulta pública y el stream de inserciones en vivo.
type PriceHandler struct {
	uc  *prices.PriceUseCase
	bus *bus.PriceBus
}

// NewPriceHandler construye el handler de precios.
func NewPriceHandler(uc *prices.PriceUseCase, b *bus.PriceBus) *PriceHandler {
	return &PriceHandler{uc: uc, bus: b}
}

// Submit godoc
// @Summary      Registrar una observación de precio
// @Tags         prices
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SubmitPriceRequest  true  "producto (id o barcode), mercado, precio"
// @Success      201   {object}  dto.PriceRecordResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/prices [post]
func (h *PriceHandler) Submit(c *fiber.Ctx) error {
	var in dto.SubmitPriceRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.Submit(GetUserID(c), in)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "precio positivo y mercado son requeridos"})
		case errors.Is(err, domain.ErrNotFound):
			// código de barras desconocido sin datos manuales: el cliente debe pedir entrada manual
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "PRODUCT_NOT_FOUND", Message: "producto desconocido; enviar product_name para crearlo"})
		case errors.Is(err, domain.ErrUserNotFound):
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "perfil no encontrado"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// History devuelve las últimas observaciones del usuario autenticado.
// GET /api/prices/history?limit=5
func (h *PriceHandler) History(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 5)
	out, err := h.uc.History(GetUserID(c), limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}

// PublicList godoc
// @Summary      Consulta pública de precios (último por par producto-mercado)
// @Tags         public
// @Produce      json
// @Param        search        query  string  false  "substring sobre nombre o marca"
// @Param        city          query  string  false  "ciudad del mercado"
// @Param        neighborhood  query  string  false  "barrio del mercado"
// @Success      200   {object}  dto.PublicPriceListResponse
// @Router       /api/public/prices [get]
func (h *PriceHandler) PublicList(c *fiber.Ctx) error {
	var q dto.PublicPriceQuery
	if err := c.QueryParser(&q); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "filtros inválidos"})
	}
	out, err := h.uc.PublicQuery(q)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}

// Cities devuelve las ciudades disponibles para el filtro público.
// GET /api/public/cities
func (h *PriceHandler) Cities(c *fiber.Ctx) error {
	out, err := h.uc.Cities()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(fiber.Map{"cities": out})
}

// Neighborhoods devuelve los barrios de la ciudad elegida. Sin ciudad el
// conjunto es vacío.
// GET /api/public/neighborhoods?city=...
func (h *PriceHandler) Neighborhoods(c *fiber.Ctx) error {
	out, err := h.uc.Neighborhoods(c.Query("city"))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(fiber.Map{"neighborhoods": out})
}

// Stream publica por SSE las observaciones nuevas de la empresa del usuario
// autenticado. Un consumidor lento pierde eventos en lugar de frenar la API.
// GET /api/prices/stream
func (h *PriceHandler) Stream(c *fiber.Ctx) error {
	ch, cancel := h.bus.Subscribe(GetCompanyID(c))

	c.Set(fiber.HeaderContentType, "text/event-stream")
	c.Set(fiber.HeaderCacheControl, "no-cache")
	c.Set(fiber.HeaderConnection, "keep-alive")

	c.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		defer cancel()
		for ev := range ch {
			data, err := json.Marshal(toPriceEventBody(ev.Record))
			if err != nil {
				continue
			}
			if _, err := fmt.Fprintf(w, "event: price\ndata: %s\n\n", data); err != nil {
				return
			}
			if err := w.Flush(); err != nil {
				// cliente desconectado
				return
			}
		}
	}))
	return nil
}

func toPriceEventBody(r *entity.PriceRecord) dto.PriceRecordResponse {
	return dto.PriceRecordResponse{
		ID:          r.ID,
		ProductID:   r.ProductID,
		MarketID:    r.MarketID,
		MarketName:  r.MarketName,
		Price:       r.Price,
		CollectedAt: r.CollectedAt,
		UserID:      r.UserID,
		Origin:      r.Origin,
		Notes:       r.Notes,
	}
}
