package rbac

import (
	"context"
	"io"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/contentcreate/storefront-backend/pkg/db/models"
	"github.com/contentcreate/storefront-backend/pkg/enums"
	"github.com/contentcreate/storefront-backend/pkg/logger"
)

type gormTxRunner struct {
	db *gorm.DB
}

func (r gormTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(fn)
}

type fixture struct {
	db  *gorm.DB
	svc Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	dsn := "file:rbac_" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(
		&models.User{}, &models.Role{}, &models.Permission{}, &models.RoleAssignment{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	svc, err := NewService(NewRepository(db), gormTxRunner{db: db}, logger.New(logger.Options{Output: io.Discard}))
	if err != nil {
		t.Fatalf("service: %v", err)
	}
	return &fixture{db: db, svc: svc}
}

func (f *fixture) seedUser(t *testing.T, role enums.LegacyRole) *models.User {
	t.Helper()
	user := &models.User{
		Username:     "u_" + uuid.NewString()[:8],
		Email:        uuid.NewString()[:8] + "@example.com",
		PasswordHash: "x",
		Role:         role,
	}
	if err := f.db.Create(user).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return user
}

func TestBootstrapIsIdempotent(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()

	if err := f.svc.Bootstrap(ctx); err != nil {
		t.Fatalf("first bootstrap: %v", err)
	}
	if err := f.svc.Bootstrap(ctx); err != nil {
		t.Fatalf("second bootstrap: %v", err)
	}

	var roleCount int64
	if err := f.db.Model(&models.Role{}).Where("name = ?", RoleSuperAdmin).Count(&roleCount).Error; err != nil {
		t.Fatalf("count roles: %v", err)
	}
	if roleCount != 1 {
		t.Fatalf("expected exactly one super_admin role, got %d", roleCount)
	}

	var permCount int64
	if err := f.db.Model(&models.Permission{}).Where("name = ?", "product_create").Count(&permCount).Error; err != nil {
		t.Fatalf("count permissions: %v", err)
	}
	if permCount != 1 {
		t.Fatalf("expected exactly one product_create permission, got %d", permCount)
	}
}

func TestPermissionsFlowThroughActiveAssignments(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()
	if err := f.svc.Bootstrap(ctx); err != nil {
		t.Fatalf("bootstrap: %v", err)
	}
	user := f.seedUser(t, enums.LegacyRoleCustomer)

	ok, err := f.svc.HasPermission(ctx, user.ID, "product_approve")
	if err != nil || ok {
		t.Fatalf("user without roles should have nothing, got %v %v", ok, err)
	}

	if err := f.svc.AssignRole(ctx, user.ID, RoleProductModerator, nil); err != nil {
		t.Fatalf("assign: %v", err)
	}
	ok, err = f.svc.HasPermission(ctx, user.ID, "product_approve")
	if err != nil || !ok {
		t.Fatalf("moderator should approve products, got %v %v", ok, err)
	}
	ok, err = f.svc.HasPermission(ctx, user.ID, "purchase_order_receive")
	if err != nil || ok {
		t.Fatalf("moderator must not receive purchase orders, got %v %v", ok, err)
	}
	ok, err = f.svc.HasRole(ctx, user.ID, RoleProductModerator)
	if err != nil || !ok {
		t.Fatalf("HasRole should see the assignment, got %v %v", ok, err)
	}
}

func TestRevokedAssignmentGrantsNothing(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()
	if err := f.svc.Bootstrap(ctx); err != nil {
		t.Fatalf("bootstrap: %v", err)
	}
	user := f.seedUser(t, enums.LegacyRoleCustomer)

	if err := f.svc.AssignRole(ctx, user.ID, RoleProductModerator, nil); err != nil {
		t.Fatalf("assign: %v", err)
	}
	if err := f.svc.RevokeRole(ctx, user.ID, RoleProductModerator); err != nil {
		t.Fatalf("revoke: %v", err)
	}

	ok, err := f.svc.HasPermission(ctx, user.ID, "product_update")
	if err != nil || ok {
		t.Fatalf("revoked assignment must not grant, got %v %v", ok, err)
	}

	// the row survives for audit
	var assignment models.RoleAssignment
	if err := f.db.First(&assignment, "user_id = ?", user.ID).Error; err != nil {
		t.Fatalf("assignment row should remain: %v", err)
	}
	if assignment.IsActive {
		t.Fatal("assignment should be inactive")
	}

	// reassigning reactivates the same row instead of duplicating it
	if err := f.svc.AssignRole(ctx, user.ID, RoleProductModerator, nil); err != nil {
		t.Fatalf("reassign: %v", err)
	}
	var count int64
	if err := f.db.Model(&models.RoleAssignment{}).Where("user_id = ?", user.ID).Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected one assignment row, got %d", count)
	}
	ok, err = f.svc.HasPermission(ctx, user.ID, "product_update")
	if err != nil || !ok {
		t.Fatalf("reactivated assignment should grant, got %v %v", ok, err)
	}
}

func TestIsAdminChecksBothPaths(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()
	if err := f.svc.Bootstrap(ctx); err != nil {
		t.Fatalf("bootstrap: %v", err)
	}

	legacy := f.seedUser(t, enums.LegacyRoleAdmin)
	ok, err := f.svc.IsAdmin(ctx, legacy.ID)
	if err != nil || !ok {
		t.Fatalf("legacy admin should pass, got %v %v", ok, err)
	}

	assigned := f.seedUser(t, enums.LegacyRoleCustomer)
	if err := f.svc.AssignRole(ctx, assigned.ID, RoleSuperAdmin, &legacy.ID); err != nil {
		t.Fatalf("assign: %v", err)
	}
	ok, err = f.svc.IsAdmin(ctx, assigned.ID)
	if err != nil || !ok {
		t.Fatalf("super_admin assignment should pass, got %v %v", ok, err)
	}

	plain := f.seedUser(t, enums.LegacyRoleCustomer)
	ok, err = f.svc.IsAdmin(ctx, plain.ID)
	if err != nil || ok {
		t.Fatalf("plain customer must not pass, got %v %v", ok, err)
	}
}

func TestSuperAdminHoldsEveryPermission(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()
	if err := f.svc.Bootstrap(ctx); err != nil {
		t.Fatalf("bootstrap: %v", err)
	}
	user := f.seedUser(t, enums.LegacyRoleCustomer)
	if err := f.svc.AssignRole(ctx, user.ID, RoleSuperAdmin, nil); err != nil {
		t.Fatalf("assign: %v", err)
	}

	for _, name := range []string{"product_create", "purchase_order_receive", "role_assign", "inventory_adjust"} {
		ok, err := f.svc.HasPermission(ctx, user.ID, name)
		if err != nil || !ok {
			t.Fatalf("super_admin missing %s: %v %v", name, ok, err)
		}
	}

	roles, err := f.svc.ActiveRoles(ctx, user.ID)
	if err != nil || len(roles) != 1 || roles[0].Name != RoleSuperAdmin {
		t.Fatalf("unexpected active roles: %v %v", roles, err)
	}
}
