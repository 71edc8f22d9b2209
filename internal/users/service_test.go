package users

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/contentcreate/storefront-backend/pkg/db/models"
	"github.com/contentcreate/storefront-backend/pkg/enums"
	pkgerrors "github.com/contentcreate/storefront-backend/pkg/errors"
)

func newTestService(t *testing.T) (*gorm.DB, Service) {
	t.Helper()

	dsn := "file:users_" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	svc, err := NewService(NewRepository(db))
	if err != nil {
		t.Fatalf("service: %v", err)
	}
	return db, svc
}

func seedUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	user := &models.User{
		Username:     "u_" + uuid.NewString()[:8],
		Email:        uuid.NewString()[:8] + "@example.com",
		PasswordHash: "x",
		Role:         enums.LegacyRoleCustomer,
		SellerStatus: enums.SellerStatusInactive,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return user
}

func TestSellerApplicationFlow(t *testing.T) {
	t.Parallel()

	db, svc := newTestService(t)
	ctx := context.Background()
	user := seedUser(t, db)

	dto, err := svc.ApplyForSeller(ctx, user.ID)
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if dto.SellerStatus != enums.SellerStatusPending {
		t.Fatalf("expected pending, got %s", dto.SellerStatus)
	}

	// applying again is a no-op
	dto, err = svc.ApplyForSeller(ctx, user.ID)
	if err != nil || dto.SellerStatus != enums.SellerStatusPending {
		t.Fatalf("second apply: %v %s", err, dto.SellerStatus)
	}

	dto, err = svc.SetSellerStatus(ctx, user.ID, enums.SellerStatusApproved)
	if err != nil {
		t.Fatalf("approve: %v", err)
	}
	if !dto.IsSeller {
		t.Fatal("approval should flip is_seller")
	}

	dto, err = svc.SetSellerStatus(ctx, user.ID, enums.SellerStatusSuspended)
	if err != nil {
		t.Fatalf("suspend: %v", err)
	}
	if dto.IsSeller {
		t.Fatal("suspension should clear is_seller")
	}

	_, err = svc.ApplyForSeller(ctx, user.ID)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("suspended accounts cannot reapply, got %v", err)
	}
}

func TestProfileNotFound(t *testing.T) {
	t.Parallel()

	_, svc := newTestService(t)
	_, err := svc.Profile(context.Background(), uuid.New())
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}
