package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/PrecoMonitor-api/internal/application/dto"
	"github.com/jhoicas/PrecoMonitor-api/internal/application/tasks"
	"github.com/jhoicas/PrecoMonitor-api/internal/domain"
)

// TaskHandler maneja las tareas delegadas de colecta.
type TaskHandler struct {
	uc *tasks.TaskUseCase
}

// NewTaskHandler construye el handler de tareas.
func NewTaskHandler(uc *tasks.TaskUseCase) *TaskHandler {
	return &TaskHandler{uc: uc}
}

// Create godoc
// @Summary      Delegar una tarea de colecta a un auditor
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateTaskRequest  true  "producto, mercado, auditor, deadline"
// @Success      201   {object}  dto.TaskResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/tasks [post]
func (h *TaskHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateTaskRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.Create(GetCompanyID(c), in)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "producto, mercado, deadline y un auditor con rol auditor son requeridos"})
		case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrUserNotFound):
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "producto, mercado o auditor inexistente"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListCompany devuelve las tareas de la empresa particionadas por estado efectivo.
// GET /api/tasks
func (h *TaskHandler) ListCompany(c *fiber.Ctx) error {
	out, err := h.uc.ListByCompany(GetCompanyID(c))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}

// ListMine devuelve las tareas del auditor autenticado particionadas por
// estado efectivo.
// GET /api/tasks/mine
func (h *TaskHandler) ListMine(c *fiber.Ctx) error {
	out, err := h.uc.ListByAuditor(GetUserID(c))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}

// Complete godoc
// @Summary      Cumplir una tarea con el precio observado
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la tarea"
// @Param        body  body  dto.CompleteTaskRequest  true  "precio observado, notas"
// @Success      200   {object}  dto.TaskResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      410   {object}  dto.ErrorResponse
// @Router       /api/tasks/{id}/complete [post]
func (h *TaskHandler) Complete(c *fiber.Ctx) error {
	var in dto.CompleteTaskRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.Complete(GetUserID(c), c.Params("id"), in)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "precio positivo requerido"})
		case errors.Is(err, domain.ErrNotFound):
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "TASK_NOT_FOUND", Message: "tarea inexistente"})
		case errors.Is(err, domain.ErrForbidden):
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "solo el auditor asignado puede cumplir la tarea"})
		case errors.Is(err, domain.ErrTaskExpired):
			return c.Status(fiber.StatusGone).JSON(dto.ErrorResponse{Code: "TASK_EXPIRED", Message: "la tarea venció; no admite cumplimiento"})
		case errors.Is(err, domain.ErrTaskClosed):
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "TASK_CLOSED", Message: "la tarea ya está cerrada"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}
