package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/maquipos/maquipos-api/internal/application/dto"
	"github.com/maquipos/maquipos-api/internal/domain/repository"
)

// BranchHandler maneja las peticiones HTTP para sucursales (protegido, solo lectura).
type BranchHandler struct {
	branches repository.BranchRepository
}

// NewBranchHandler construye el handler.
func NewBranchHandler(branches repository.BranchRepository) *BranchHandler {
	return &BranchHandler{branches: branches}
}

// List lista la jerarquía completa de sucursales. Lectura administrativa:
// el router la reserva a los roles globales y administradores.
func (h *BranchHandler) List(c *fiber.Ctx) error {
	branches, err := h.branches.List(c.Context())
	if err != nil {
		return writeError(c, err)
	}
	items := make([]dto.BranchResponse, 0, len(branches))
	for _, b := range branches {
		items = append(items, dto.ToBranchResponse(b))
	}
	return c.JSON(items)
}

// GetByID obtiene una sucursal por ID.
func (h *BranchHandler) GetByID(c *fiber.Ctx) error {
	b, err := h.branches.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	if b == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "sucursal no encontrada"})
	}
	resp := dto.ToBranchResponse(b)
	return c.JSON(resp)
}
