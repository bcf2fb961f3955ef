package main

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/maquipos/maquipos-api/internal/domain"
	"github.com/maquipos/maquipos-api/internal/domain/entity"
	"github.com/maquipos/maquipos-api/internal/infrastructure/postgres"
	"github.com/maquipos/maquipos-api/pkg/config"
	"github.com/maquipos/maquipos-api/pkg/logger"
)

// Seed de datos de desarrollo: sucursales, centro de mantenimiento, usuarios
// por rol y un lote de máquinas. Idempotente: los duplicados se saltan.
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: "info"})

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	branchRepo := postgres.NewBranchRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	ledger := postgres.NewAssetLedger(pool)

	now := time.Now()

	principal := entity.Branch{
		ID: uuid.NewString(), Code: "SUC-PRINCIPAL", Name: "Sucursal Principal",
		Type: entity.BranchTypeBranch, Active: true, CreatedAt: now, UpdatedAt: now,
	}
	norte := entity.Branch{
		ID: uuid.NewString(), Code: "SUC-NORTE", Name: "Sucursal Norte",
		Type: entity.BranchTypeBranch, ParentID: &principal.ID, Active: true, CreatedAt: now, UpdatedAt: now,
	}
	centro := entity.Branch{
		ID: uuid.NewString(), Code: "CENTRO-MANT", Name: "Centro de Mantenimiento",
		Type: entity.BranchTypeCenter, Active: true, CreatedAt: now, UpdatedAt: now,
	}
	for _, b := range []*entity.Branch{&principal, &norte, &centro} {
		// Si el código ya existe, se reusa la sucursal sembrada.
		existing, err := branchRepo.GetByCode(ctx, b.Code)
		if err != nil {
			log.Fatal().Err(err).Str("code", b.Code).Msg("consultar sucursal")
		}
		if existing != nil {
			*b = *existing
			continue
		}
		if err := branchRepo.Create(ctx, b); err != nil {
			log.Fatal().Err(err).Str("code", b.Code).Msg("crear sucursal")
		}
		log.Info().Str("code", b.Code).Msg("sucursal creada")
	}

	users := []struct {
		email  string
		name   string
		role   entity.Role
		branch *string
	}{
		{"admin@maquipos.local", "Super Admin", entity.RoleSuperAdmin, nil},
		{"gerencia@maquipos.local", "Gerencia", entity.RoleManagement, nil},
		{"afairs@maquipos.local", "Asuntos Administrativos", entity.RoleAdminAffairs, nil},
		{"supervisor@maquipos.local", "Supervisor SC", entity.RoleCSSupervisor, &principal.ID},
		{"centro@maquipos.local", "Jefe de Centro", entity.RoleCenterManager, &centro.ID},
		{"cajero@maquipos.local", "Cajero Norte", entity.RoleCashier, &norte.ID},
		{"tecnico@maquipos.local", "Técnico", entity.RoleTechnician, &centro.ID},
	}
	hash, err := bcrypt.GenerateFromPassword([]byte("maquipos123"), bcrypt.DefaultCost)
	if err != nil {
		log.Fatal().Err(err).Msg("hash de contraseña")
	}
	for _, u := range users {
		err := userRepo.Create(ctx, &entity.User{
			ID: uuid.NewString(), Email: u.email, Name: u.name,
			PasswordHash: string(hash), Role: u.role, BranchID: u.branch,
			CreatedAt: now, UpdatedAt: now,
		})
		if errors.Is(err, domain.ErrDuplicate) {
			continue
		}
		if err != nil {
			log.Fatal().Err(err).Str("email", u.email).Msg("crear usuario")
		}
		log.Info().Str("email", u.email).Str("role", string(u.role)).Msg("usuario creado")
	}

	assets := []struct {
		serial string
		model  string
		status entity.AssetStatus
		branch string
	}{
		{"SN-100", "MaquiPro X1", entity.AssetStatusNew, principal.ID},
		{"SN-101", "MaquiPro X1", entity.AssetStatusUsed, principal.ID},
		{"SN-102", "MaquiPro X2", entity.AssetStatusNew, norte.ID},
		{"SN-103", "MaquiPro X2", entity.AssetStatusUsed, norte.ID},
	}
	for _, a := range assets {
		err := ledger.Create(ctx, &entity.Asset{
			ID: uuid.NewString(), SerialNumber: a.serial, Model: a.model,
			Status: a.status, BranchID: a.branch, CreatedAt: now, UpdatedAt: now,
		})
		if errors.Is(err, domain.ErrDuplicate) {
			continue
		}
		if err != nil {
			log.Fatal().Err(err).Str("serial", a.serial).Msg("crear activo")
		}
		log.Info().Str("serial", a.serial).Msg("activo creado")
	}

	log.Info().Msg("seed completado")
}
