package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/maquipos/maquipos-api/internal/application/dto"
	"github.com/maquipos/maquipos-api/internal/application/transfer"
	"github.com/maquipos/maquipos-api/internal/domain"
	"github.com/maquipos/maquipos-api/internal/domain/repository"
	"github.com/maquipos/maquipos-api/internal/domain/scope"
	"github.com/maquipos/maquipos-api/pkg/validation"
)

// TransferHandler maneja las peticiones HTTP para órdenes de traslado (protegido).
type TransferHandler struct {
	uc         *transfer.UseCase
	orders     repository.TransferOrderRepository
	authorizer *scope.Authorizer
}

// NewTransferHandler construye el handler.
func NewTransferHandler(uc *transfer.UseCase, orders repository.TransferOrderRepository, authorizer *scope.Authorizer) *TransferHandler {
	return &TransferHandler{uc: uc, orders: orders, authorizer: authorizer}
}

// GetByID obtiene una orden; el caller debe pertenecer al origen o al destino.
func (h *TransferHandler) GetByID(c *fiber.Ctx) error {
	order, err := h.orders.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	if order == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "orden no encontrada"})
	}
	p := GetPrincipal(c)
	if h.authorizer.CanAccess(c.Context(), p, order.FromBranchID) != nil &&
		h.authorizer.CanAccess(c.Context(), p, order.ToBranchID) != nil {
		return writeError(c, domain.ErrForbidden)
	}
	resp := dto.ToTransferOrderResponse(order)
	return c.JSON(resp)
}

// List lista las órdenes de la sucursal del caller (origen o destino).
func (h *TransferHandler) List(c *fiber.Ctx) error {
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
	orders, err := h.orders.ListByBranch(c.Context(), branchID, page.Limit, page.Offset)
	if err != nil {
		return writeError(c, err)
	}
	items := make([]dto.TransferOrderResponse, 0, len(orders))
	for _, o := range orders {
		items = append(items, dto.ToTransferOrderResponse(o))
	}
	return c.JSON(items)
}

// Validate es el pre-vuelo consultivo: devuelve el veredicto completo sin mutar nada.
func (h *TransferHandler) Validate(c *fiber.Ctx) error {
	in, ok, err := h.parseCreate(c)
	if !ok {
		return err
	}
	res, err := h.uc.Validate(c.Context(), in, GetPrincipal(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.ValidateTransferResponse{Valid: res.Valid, Errors: res.Errors})
}

// Create crea la orden y congela sus activos atómicamente.
func (h *TransferHandler) Create(c *fiber.Ctx) error {
	in, ok, err := h.parseCreate(c)
	if !ok {
		return err
	}
	order, err := h.uc.Create(c.Context(), in, GetPrincipal(c))
	if err != nil {
		return writeError(c, err)
	}
	resp := dto.ToTransferOrderResponse(order)
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// Accept acusa recibo de la orden en destino (los activos siguen en tránsito).
func (h *TransferHandler) Accept(c *fiber.Ctx) error {
	order, err := h.uc.Accept(c.Context(), c.Params("id"), GetPrincipal(c))
	if err != nil {
		return writeError(c, err)
	}
	resp := dto.ToTransferOrderResponse(order)
	return c.JSON(resp)
}

// Receive confirma la llegada física: mueve los activos al destino y los descongela.
func (h *TransferHandler) Receive(c *fiber.Ctx) error {
	order, err := h.uc.Receive(c.Context(), c.Params("id"), GetPrincipal(c))
	if err != nil {
		return writeError(c, err)
	}
	resp := dto.ToTransferOrderResponse(order)
	return c.JSON(resp)
}

// Reject rechaza la orden con motivo; los activos se restauran sin moverse.
func (h *TransferHandler) Reject(c *fiber.Ctx) error {
	var body dto.RejectTransferRequest
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := validation.Struct(&body); err != nil {
		return writeError(c, err)
	}
	order, err := h.uc.Reject(c.Context(), c.Params("id"), body.Reason, GetPrincipal(c))
	if err != nil {
		return writeError(c, err)
	}
	resp := dto.ToTransferOrderResponse(order)
	return c.JSON(resp)
}

// Cancel cancela la orden desde el origen antes de que salga.
func (h *TransferHandler) Cancel(c *fiber.Ctx) error {
	order, err := h.uc.Cancel(c.Context(), c.Params("id"), GetPrincipal(c))
	if err != nil {
		return writeError(c, err)
	}
	resp := dto.ToTransferOrderResponse(order)
	return c.JSON(resp)
}

// parseCreate parsea y valida el cuerpo. Si ok es false, la respuesta de error
// ya quedó escrita y el handler solo debe retornar err.
func (h *TransferHandler) parseCreate(c *fiber.Ctx) (transfer.CreateInput, bool, error) {
	var body dto.CreateTransferRequest
	if err := c.BodyParser(&body); err != nil {
		return transfer.CreateInput{}, false, c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := validation.Struct(&body); err != nil {
		return transfer.CreateInput{}, false, writeError(c, err)
	}
	return transfer.CreateInput{
		FromBranchID: body.FromBranchID,
		ToBranchID:   body.ToBranchID,
		Type:         body.Type,
		Serials:      body.Serials,
	}, true, nil
}
