package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/maquipos/maquipos-api/internal/application/assignment"
	appscope "github.com/maquipos/maquipos-api/internal/application/scope"
	"github.com/maquipos/maquipos-api/internal/application/transfer"
	"github.com/maquipos/maquipos-api/internal/domain/entity"
	"github.com/maquipos/maquipos-api/internal/domain/repository"
	"github.com/maquipos/maquipos-api/internal/domain/scope"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	TransferUC   *transfer.UseCase
	AssignmentUC *assignment.UseCase
	Scoper       *appscope.Scoper
	Authorizer   *scope.Authorizer
	Ledger       repository.AssetLedger
	Orders       repository.TransferOrderRepository
	Assignments  repository.AssignmentRepository
	Branches     repository.BranchRepository
	JWTSecret    string
}

// Router registra las rutas de la API. Toda la superficie es protegida: no hay
// lecturas ni mutaciones sin principal.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Branches (lectura administrativa de la jerarquía)
	branches := protected.Group("/branches", RequireRole(
		entity.RoleSuperAdmin, entity.RoleManagement,
		entity.RoleAdminAffairs, entity.RoleCSSupervisor, entity.RoleCenterManager,
	))
	branchHandler := NewBranchHandler(deps.Branches)
	branches.Get("/", branchHandler.List)
	branches.Get("/:id", branchHandler.GetByID)

	// Assets (listado con scope; lookup con chequeo post-fetch)
	assets := protected.Group("/assets")
	assetHandler := NewAssetHandler(deps.Ledger, deps.Scoper, deps.Authorizer)
	assets.Get("/", assetHandler.List)
	assets.Get("/:serial", assetHandler.GetBySerial)

	// Transfers (ciclo de vida completo de la orden)
	transfers := protected.Group("/transfers")
	transferHandler := NewTransferHandler(deps.TransferUC, deps.Orders, deps.Authorizer)
	transfers.Post("/validate", transferHandler.Validate)
	transfers.Post("/", transferHandler.Create)
	transfers.Get("/", transferHandler.List)
	transfers.Get("/:id", transferHandler.GetByID)
	transfers.Post("/:id/accept", transferHandler.Accept)
	transfers.Post("/:id/receive", transferHandler.Receive)
	transfers.Post("/:id/reject", transferHandler.Reject)
	transfers.Post("/:id/cancel", transferHandler.Cancel)

	// Service assignments (máquina al centro de mantenimiento)
	assignments := protected.Group("/assignments")
	assignmentHandler := NewAssignmentHandler(deps.AssignmentUC, deps.Assignments, deps.Authorizer)
	assignments.Post("/", assignmentHandler.Create)
	assignments.Get("/", assignmentHandler.List)
	assignments.Get("/:id", assignmentHandler.GetByID)
	assignments.Post("/:id/advance", assignmentHandler.Advance)
	assignments.Post("/approvals/:approvalId/respond", assignmentHandler.RespondApproval)
}
