package scope_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maquipos/maquipos-api/internal/domain"
	"github.com/maquipos/maquipos-api/internal/domain/entity"
	"github.com/maquipos/maquipos-api/internal/domain/scope"
)

type branchMap map[string]*entity.Branch

func (m branchMap) GetByID(_ context.Context, id string) (*entity.Branch, error) {
	return m[id], nil
}

func TestAuthorizer_CanAccess(t *testing.T) {
	parent := "00000000-0000-0000-0000-0000000000aa"
	child := "00000000-0000-0000-0000-0000000000bb"
	other := "00000000-0000-0000-0000-0000000000cc"

	branches := branchMap{
		parent: {ID: parent, Code: "SUC-P", Type: entity.BranchTypeBranch, Active: true},
		child:  {ID: child, Code: "SUC-H", Type: entity.BranchTypeBranch, ParentID: &parent, Active: true},
		other:  {ID: other, Code: "SUC-O", Type: entity.BranchTypeBranch, Active: true},
	}
	authz := scope.NewAuthorizer(scope.NewPolicy(scope.DefaultConfig()), branches)
	ctx := context.Background()

	t.Run("rol global accede a cualquier sucursal", func(t *testing.T) {
		p := entity.Principal{UserID: "u1", Role: entity.RoleSuperAdmin}
		require.NoError(t, authz.CanAccess(ctx, p, other))
	})

	t.Run("misma sucursal accede", func(t *testing.T) {
		p := entity.Principal{UserID: "u2", Role: entity.RoleCashier, BranchID: other}
		require.NoError(t, authz.CanAccess(ctx, p, other))
	})

	t.Run("el padre ve a la hija", func(t *testing.T) {
		p := entity.Principal{UserID: "u3", Role: entity.RoleCSSupervisor, BranchID: parent}
		require.NoError(t, authz.CanAccess(ctx, p, child))
	})

	t.Run("la hija NO ve al padre", func(t *testing.T) {
		p := entity.Principal{UserID: "u4", Role: entity.RoleCSSupervisor, BranchID: child}
		err := authz.CanAccess(ctx, p, parent)
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})

	t.Run("sucursal ajena se deniega", func(t *testing.T) {
		p := entity.Principal{UserID: "u5", Role: entity.RoleCashier, BranchID: other}
		err := authz.CanAccess(ctx, p, child)
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})

	t.Run("principal sin sucursal y sin rol global se deniega", func(t *testing.T) {
		p := entity.Principal{UserID: "u6", Role: entity.RoleTechnician}
		err := authz.CanAccess(ctx, p, other)
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})
}
