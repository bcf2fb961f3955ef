package transfer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/maquipos/maquipos-api/internal/domain"
	"github.com/maquipos/maquipos-api/internal/domain/entity"
	"github.com/maquipos/maquipos-api/internal/domain/repository"
	"github.com/maquipos/maquipos-api/internal/domain/scope"
	"github.com/maquipos/maquipos-api/pkg/logger"
)

// UseCase es la máquina de estados de traslados:
//
//	PENDING -> {ACCEPTED -> RECEIVED} | REJECTED | CANCELLED
//
// ACCEPTED es opcional (PENDING -> RECEIVED directo es válido); RECEIVED,
// REJECTED y CANCELLED son terminales. Toda transición que toca orden + activos
// corre en una sola transacción y re-verifica precondiciones DENTRO de ella:
// el pre-vuelo del validador no basta bajo concurrencia.
type UseCase struct {
	tx        TxRunner
	validator *Validator
	orders    repository.TransferOrderRepository
	ledger    repository.AssetLedger
	policy    *scope.Policy
	log       *logger.Logger
}

// NewUseCase construye el orquestador de traslados.
func NewUseCase(
	tx TxRunner,
	validator *Validator,
	orders repository.TransferOrderRepository,
	ledger repository.AssetLedger,
	policy *scope.Policy,
	log *logger.Logger,
) *UseCase {
	return &UseCase{tx: tx, validator: validator, orders: orders, ledger: ledger, policy: policy, log: log}
}

// Validate expone el chequeo pre-vuelo consultivo.
func (uc *UseCase) Validate(ctx context.Context, in CreateInput, p entity.Principal) (Result, error) {
	return uc.validator.Validate(ctx, in, p)
}

// Create valida la propuesta y, en una sola transacción, inserta la orden en
// PENDING y congela cada activo (status IN_TRANSIT + active_transfer_id).
// Si cualquier renglón pierde la re-verificación al commit, la transacción
// completa se aborta y se devuelve un ConflictError nombrando los seriales.
func (uc *UseCase) Create(ctx context.Context, in CreateInput, p entity.Principal) (*entity.TransferOrder, error) {
	res, err := uc.validator.Validate(ctx, in, p)
	if err != nil {
		return nil, err
	}
	if !res.Valid {
		return nil, domain.NewValidationError(res.Errors)
	}

	now := time.Now()
	order := &entity.TransferOrder{
		ID:           uuid.New().String(),
		FromBranchID: in.FromBranchID,
		ToBranchID:   in.ToBranchID,
		Type:         in.Type,
		Status:       entity.TransferStatusPending,
		CreatedBy:    p.UserID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	err = uc.tx.Run(ctx, func(ledger repository.AssetLedger, orders repository.TransferOrderRepository, audit repository.AuditTrail) error {
		// Re-lee el estado actual dentro de la tx: nada de estado cacheado.
		assets, err := ledger.ListBySerials(ctx, in.Serials)
		if err != nil {
			return err
		}
		bySerial := make(map[string]*entity.Asset, len(assets))
		for _, a := range assets {
			bySerial[a.SerialNumber] = a
		}

		var conflicted []string
		order.Items = order.Items[:0]
		for _, serial := range in.Serials {
			a, ok := bySerial[serial]
			if !ok || a.Status.IsLocked() || a.IsFrozen() {
				conflicted = append(conflicted, serial)
				continue
			}
			order.Items = append(order.Items, entity.TransferItem{
				SerialNumber: serial,
				PrevStatus:   a.Status,
			})
		}
		if len(conflicted) > 0 {
			return domain.NewConflictError("activos no disponibles para el traslado", conflicted...)
		}

		if err := orders.Create(ctx, order); err != nil {
			return err
		}
		for _, serial := range in.Serials {
			err := ledger.BeginTransfer(ctx, serial, order.ID)
			if errors.Is(err, domain.ErrConflict) {
				// Carrera perdida contra otra transacción: abortar todo.
				conflicted = append(conflicted, serial)
				continue
			}
			if err != nil {
				return err
			}
		}
		if len(conflicted) > 0 {
			return domain.NewConflictError("activos no disponibles para el traslado", conflicted...)
		}
		return audit.Record(ctx, uc.auditEntry(p, entity.AuditTransferCreated, order.ID,
			fmt.Sprintf("de=%s a=%s renglones=%d", order.FromBranchID, order.ToBranchID, len(order.Items))))
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().Str("order", order.ID).Str("from", order.FromBranchID).Str("to", order.ToBranchID).Msg("traslado creado")
	return order, nil
}

// Accept registra la intención de recibir: la orden pasa a ACCEPTED sin mutar
// ningún activo.
func (uc *UseCase) Accept(ctx context.Context, orderID string, p entity.Principal) (*entity.TransferOrder, error) {
	return uc.transition(ctx, orderID, func(order *entity.TransferOrder) error {
		if err := uc.authorizeBranch(p, order.ToBranchID); err != nil {
			return err
		}
		return uc.tx.Run(ctx, func(_ repository.AssetLedger, orders repository.TransferOrderRepository, audit repository.AuditTrail) error {
			if err := orders.UpdateStatus(ctx, orderID, []entity.TransferStatus{entity.TransferStatusPending}, entity.TransferStatusAccepted, ""); err != nil {
				return err
			}
			return audit.Record(ctx, uc.auditEntry(p, entity.AuditTransferAccepted, orderID, ""))
		})
	})
}

// Receive completa el traslado: cada activo pasa a la sucursal destino con su
// estado nominal previo restaurado y queda descongelado; la orden pasa a
// RECEIVED. Este es el único camino por el que cambia la sucursal de un activo
// dentro del flujo de traslados.
func (uc *UseCase) Receive(ctx context.Context, orderID string, p entity.Principal) (*entity.TransferOrder, error) {
	return uc.transition(ctx, orderID, func(order *entity.TransferOrder) error {
		if err := uc.authorizeBranch(p, order.ToBranchID); err != nil {
			return err
		}
		return uc.tx.Run(ctx, func(ledger repository.AssetLedger, orders repository.TransferOrderRepository, audit repository.AuditTrail) error {
			from := []entity.TransferStatus{entity.TransferStatusPending, entity.TransferStatusAccepted}
			if err := orders.UpdateStatus(ctx, orderID, from, entity.TransferStatusReceived, ""); err != nil {
				return err
			}
			for _, item := range order.Items {
				if err := ledger.CompleteTransfer(ctx, item.SerialNumber, orderID, order.ToBranchID, item.PrevStatus); err != nil {
					return err
				}
			}
			return audit.Record(ctx, uc.auditEntry(p, entity.AuditTransferReceived, orderID,
				fmt.Sprintf("a=%s renglones=%d", order.ToBranchID, len(order.Items))))
		})
	})
}

// Reject rechaza el traslado: cada activo recupera su estado previo y se
// descongela; su sucursal no cambia porque nunca salió del origen.
func (uc *UseCase) Reject(ctx context.Context, orderID, reason string, p entity.Principal) (*entity.TransferOrder, error) {
	return uc.transition(ctx, orderID, func(order *entity.TransferOrder) error {
		if err := uc.authorizeAnyBranch(p, order.ToBranchID, order.FromBranchID); err != nil {
			return err
		}
		return uc.release(ctx, order, []entity.TransferStatus{entity.TransferStatusPending, entity.TransferStatusAccepted},
			entity.TransferStatusRejected, reason, entity.AuditTransferRejected, p)
	})
}

// Cancel anula el traslado mientras sigue PENDING; solo la sucursal de origen
// (o un rol global) puede hacerlo. Misma restauración que Reject.
func (uc *UseCase) Cancel(ctx context.Context, orderID string, p entity.Principal) (*entity.TransferOrder, error) {
	return uc.transition(ctx, orderID, func(order *entity.TransferOrder) error {
		if err := uc.authorizeBranch(p, order.FromBranchID); err != nil {
			return err
		}
		return uc.release(ctx, order, []entity.TransferStatus{entity.TransferStatusPending},
			entity.TransferStatusCancelled, "", entity.AuditTransferCancelled, p)
	})
}

// release es la transición común de Reject y Cancel.
func (uc *UseCase) release(ctx context.Context, order *entity.TransferOrder, from []entity.TransferStatus,
	to entity.TransferStatus, reason, action string, p entity.Principal) error {
	return uc.tx.Run(ctx, func(ledger repository.AssetLedger, orders repository.TransferOrderRepository, audit repository.AuditTrail) error {
		if err := orders.UpdateStatus(ctx, order.ID, from, to, reason); err != nil {
			return err
		}
		for _, item := range order.Items {
			if err := ledger.ReleaseTransfer(ctx, item.SerialNumber, order.ID, item.PrevStatus); err != nil {
				return err
			}
		}
		return audit.Record(ctx, uc.auditEntry(p, action, order.ID, reason))
	})
}

// transition ejecuta una transición completa (lectura fresca + autorización +
// tx) y la reintenta UNA vez si una carrera perdida en el update condicional
// produce ErrConflict: el reintento parte de estado fresco, jamás parchea
// estado viejo. Una orden ya terminal falla con ConflictError sin mutar nada.
func (uc *UseCase) transition(ctx context.Context, orderID string, fn func(order *entity.TransferOrder) error) (*entity.TransferOrder, error) {
	attempt := func() (*entity.TransferOrder, error) {
		order, err := uc.orders.GetByID(ctx, orderID)
		if err != nil {
			return nil, err
		}
		if order == nil {
			return nil, domain.ErrNotFound
		}
		if order.Status.IsTerminal() {
			return nil, domain.NewConflictError(fmt.Sprintf("la orden %s ya está en estado terminal %s", orderID, order.Status))
		}
		if err := fn(order); err != nil {
			return nil, err
		}
		return uc.orders.GetByID(ctx, orderID)
	}

	out, err := attempt()
	if err != nil && errors.Is(err, domain.ErrConflict) {
		uc.log.Debug().Str("order", orderID).Msg("transición perdió la carrera; reintentando con estado fresco")
		out, err = attempt()
	}
	return out, err
}

func (uc *UseCase) authorizeBranch(p entity.Principal, branchID string) error {
	if uc.policy.IsGlobal(p.Role) || p.BranchID == branchID {
		return nil
	}
	return domain.ErrForbidden
}

func (uc *UseCase) authorizeAnyBranch(p entity.Principal, branchIDs ...string) error {
	if uc.policy.IsGlobal(p.Role) {
		return nil
	}
	for _, id := range branchIDs {
		if p.BranchID == id {
			return nil
		}
	}
	return domain.ErrForbidden
}

func (uc *UseCase) auditEntry(p entity.Principal, action, orderID, detail string) *entity.AuditEntry {
	return &entity.AuditEntry{
		ID:         uuid.New().String(),
		Actor:      p.UserID,
		Action:     action,
		EntityType: "transfer_order",
		EntityID:   orderID,
		Detail:     detail,
		Timestamp:  time.Now(),
	}
}
