package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/maquipos/maquipos-api/internal/application/assignment"
	appscope "github.com/maquipos/maquipos-api/internal/application/scope"
	"github.com/maquipos/maquipos-api/internal/application/transfer"
	"github.com/maquipos/maquipos-api/internal/domain/entity"
	"github.com/maquipos/maquipos-api/internal/domain/scope"
	"github.com/maquipos/maquipos-api/internal/infrastructure/postgres"
	httpRouter "github.com/maquipos/maquipos-api/internal/interfaces/http"
	"github.com/maquipos/maquipos-api/pkg/config"
	"github.com/maquipos/maquipos-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	branchRepo := postgres.NewBranchRepository(pool)
	ledger := postgres.NewAssetLedger(pool)
	orderRepo := postgres.NewTransferOrderRepository(pool)
	assignmentRepo := postgres.NewAssignmentRepository(pool)
	approvalRepo := postgres.NewApprovalRepository(pool)
	auditRepo := postgres.NewAuditTrail(pool)
	txRunner := postgres.NewTxRunner(pool)

	policy := scope.NewPolicy(scope.Config{
		GlobalRoles:      toRoles(cfg.Scope.GlobalRoles),
		BranchAdminRoles: toRoles(cfg.Scope.BranchAdminRoles),
	})
	authorizer := scope.NewAuthorizer(policy, branchRepo)
	scoper := appscope.NewScoper(policy, auditRepo, log)

	transferValidator := transfer.NewValidator(branchRepo, ledger, policy)
	transferUC := transfer.NewUseCase(txRunner, transferValidator, orderRepo, ledger, policy, log)
	assignmentUC := assignment.NewUseCase(
		txRunner, branchRepo, ledger, assignmentRepo, approvalRepo,
		policy, cfg.Maintenance.AutoApprovalThreshold, log,
	)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	httpRouter.Router(app, httpRouter.RouterDeps{
		TransferUC:   transferUC,
		AssignmentUC: assignmentUC,
		Scoper:       scoper,
		Authorizer:   authorizer,
		Ledger:       ledger,
		Orders:       orderRepo,
		Assignments:  assignmentRepo,
		Branches:     branchRepo,
		JWTSecret:    cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}

func toRoles(names []string) []entity.Role {
	roles := make([]entity.Role, 0, len(names))
	for _, n := range names {
		roles = append(roles, entity.Role(n))
	}
	return roles
}
