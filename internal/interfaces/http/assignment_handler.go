package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/maquipos/maquipos-api/internal/application/assignment"
	"github.com/maquipos/maquipos-api/internal/application/dto"
	"github.com/maquipos/maquipos-api/internal/domain"
	"github.com/maquipos/maquipos-api/internal/domain/repository"
	"github.com/maquipos/maquipos-api/internal/domain/scope"
	"github.com/maquipos/maquipos-api/pkg/validation"
)

// AssignmentHandler maneja las peticiones HTTP para asignaciones de servicio (protegido).
type AssignmentHandler struct {
	uc          *assignment.UseCase
	assignments repository.AssignmentRepository
	authorizer  *scope.Authorizer
}

// NewAssignmentHandler construye el handler.
func NewAssignmentHandler(uc *assignment.UseCase, assignments repository.AssignmentRepository, authorizer *scope.Authorizer) *AssignmentHandler {
	return &AssignmentHandler{uc: uc, assignments: assignments, authorizer: authorizer}
}

// Create asigna una máquina al centro de mantenimiento y la congela.
func (h *AssignmentHandler) Create(c *fiber.Ctx) error {
	var body dto.CreateAssignmentRequest
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := validation.Struct(&body); err != nil {
		return writeError(c, err)
	}
	a, err := h.uc.Create(c.Context(), assignment.CreateInput{
		SerialNumber:   body.SerialNumber,
		CenterBranchID: body.CenterBranchID,
	}, GetPrincipal(c))
	if err != nil {
		return writeError(c, err)
	}
	resp := dto.ToAssignmentResponse(a)
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// Advance aplica un evento de avance (INSPECT, DIAGNOSE, RETURN) a la asignación.
func (h *AssignmentHandler) Advance(c *fiber.Ctx) error {
	var body dto.AdvanceAssignmentRequest
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := validation.Struct(&body); err != nil {
		return writeError(c, err)
	}
	a, err := h.uc.Advance(c.Context(), c.Params("id"), assignment.AdvanceInput{
		Event:         body.Event,
		EstimatedCost: body.EstimatedCost,
	}, GetPrincipal(c))
	if err != nil {
		return writeError(c, err)
	}
	resp := dto.ToAssignmentResponse(a)
	return c.JSON(resp)
}

// RespondApproval registra la respuesta de la sucursal de origen a la aprobación de costo.
func (h *AssignmentHandler) RespondApproval(c *fiber.Ctx) error {
	var body dto.RespondApprovalRequest
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	a, err := h.uc.RespondToApproval(c.Context(), c.Params("approvalId"), body.Approve, GetPrincipal(c))
	if err != nil {
		return writeError(c, err)
	}
	resp := dto.ToAssignmentResponse(a)
	return c.JSON(resp)
}

// GetByID obtiene una asignación; el caller debe pertenecer al origen o al centro.
func (h *AssignmentHandler) GetByID(c *fiber.Ctx) error {
	a, err := h.assignments.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	if a == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "asignación no encontrada"})
	}
	p := GetPrincipal(c)
	if h.authorizer.CanAccess(c.Context(), p, a.OriginBranchID) != nil &&
		h.authorizer.CanAccess(c.Context(), p, a.CenterBranchID) != nil {
		return writeError(c, domain.ErrForbidden)
	}
	resp := dto.ToAssignmentResponse(a)
	return c.JSON(resp)
}

// List lista las asignaciones de la sucursal del caller (origen o centro).
func (h *AssignmentHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "parámetros de query inválidos"})
	}
	page.DefaultPage()

	p := GetPrincipal(c)
	branchID := c.Query("branch_id", p.BranchID)
	if branchID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_BRANCH", Message: "branch_id es requerido"})
	}
	if err := h.authorizer.CanAccess(c.Context(), p, branchID); err != nil {
		return writeError(c, err)
	}
	assignments, err := h.assignments.ListByBranch(c.Context(), branchID, page.Limit, page.Offset)
	if err != nil {
		return writeError(c, err)
	}
	items := make([]dto.AssignmentResponse, 0, len(assignments))
	for _, a := range assignments {
		items = append(items, dto.ToAssignmentResponse(a))
	}
	return c.JSON(items)
}
