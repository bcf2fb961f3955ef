package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/maquipos/maquipos-api/internal/application/dto"
	appscope "github.com/maquipos/maquipos-api/internal/application/scope"
	"github.com/maquipos/maquipos-api/internal/domain/entity"
	"github.com/maquipos/maquipos-api/internal/domain/repository"
	"github.com/maquipos/maquipos-api/internal/domain/scope"
	"github.com/maquipos/maquipos-api/pkg/validation"
)

// AssetHandler maneja las peticiones HTTP para activos (protegido).
// El listado pasa por el scoper; el lookup por serial usa el chequeo post-fetch.
type AssetHandler struct {
	ledger     repository.AssetLedger
	scoper     *appscope.Scoper
	authorizer *scope.Authorizer
}

// NewAssetHandler construye el handler.
func NewAssetHandler(ledger repository.AssetLedger, scoper *appscope.Scoper, authorizer *scope.Authorizer) *AssetHandler {
	return &AssetHandler{ledger: ledger, scoper: scoper, authorizer: authorizer}
}

// List lista activos confinados a la sucursal del caller. all_branches=true es
// el bypass explícito: solo roles globales (o administradores sin sucursal
// propia) lo obtienen, y su uso queda auditado.
func (h *AssetHandler) List(c *fiber.Ctx) error {
	var in dto.ListAssetsRequest
	if err := c.QueryParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "parámetros de query inválidos"})
	}
	in.DefaultPage()
	if err := validation.Struct(&in); err != nil {
		return writeError(c, err)
	}

	filter := scope.NewCollectionFilter()
	if in.Status != "" {
		filter = filter.WithStatuses(entity.AssetStatus(in.Status))
	}
	if in.Serial != "" {
		filter = filter.WithSerial(in.Serial)
	}
	if in.AllBranches {
		filter = filter.WithBypass()
	}

	p := GetPrincipal(c)
	scoped, err := h.scoper.ScopeCollection(c.Context(), "assets.list", filter, p)
	if err != nil {
		return writeError(c, err)
	}
	assets, err := h.ledger.List(c.Context(), scoped, in.Limit, in.Offset)
	if err != nil {
		return writeError(c, err)
	}

	items := make([]dto.AssetResponse, 0, len(assets))
	for _, a := range assets {
		items = append(items, dto.ToAssetResponse(a))
	}
	return c.JSON(dto.AssetListResponse{Items: items, Page: in.PageRequest})
}

// GetBySerial obtiene un activo por serial, con autorización post-fetch contra
// la sucursal dueña.
func (h *AssetHandler) GetBySerial(c *fiber.Ctx) error {
	serial := c.Params("serial")
	if serial == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_SERIAL", Message: "serial es requerido"})
	}
	a, err := h.ledger.GetBySerial(c.Context(), serial)
	if err != nil {
		return writeError(c, err)
	}
	if a == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "activo no encontrado"})
	}
	p := GetPrincipal(c)
	if err := h.authorizer.CanAccess(c.Context(), p, a.BranchID); err != nil {
		return writeError(c, err)
	}
	resp := dto.ToAssetResponse(a)
	return c.JSON(resp)
}
