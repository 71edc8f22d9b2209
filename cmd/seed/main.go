package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/contentcreate/storefront-backend/internal/rbac"
	"github.com/contentcreate/storefront-backend/pkg/config"
	"github.com/contentcreate/storefront-backend/pkg/db"
	"github.com/contentcreate/storefront-backend/pkg/db/models"
	"github.com/contentcreate/storefront-backend/pkg/enums"
	"github.com/contentcreate/storefront-backend/pkg/logger"
	"github.com/contentcreate/storefront-backend/pkg/security"
)

// Seeds the permission matrix, the built-in roles, and one admin account.
// Demo catalog rows are added on top when CONTENTCREATE_SEED_DEMO is set.
// Safe to rerun; every write is create-if-absent.
func main() {
	adminEmail := flag.String("admin-email", "admin@contentcreate.store", "email for the bootstrap admin account")
	adminPassword := flag.String("admin-password", "", "password for the bootstrap admin account (required when the account does not exist)")
	flag.Parse()

	logg := logger.New(logger.Options{ServiceName: "seed"})
	ctx := context.Background()

	if err := godotenv.Load(); err != nil {
		logg.Warn(ctx, ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(ctx, "failed to load config", err)
		os.Exit(1)
	}

	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(ctx, "error closing database", err)
		}
	}()

	rbacService, err := rbac.NewService(rbac.NewRepository(dbClient.DB()), dbClient, logg)
	if err != nil {
		logg.Error(ctx, "failed to create rbac service", err)
		os.Exit(1)
	}
	if err := rbacService.Bootstrap(ctx); err != nil {
		logg.Error(ctx, "failed to bootstrap rbac", err)
		os.Exit(1)
	}

	adminID, err := ensureAdmin(ctx, dbClient.DB(), cfg.Password, *adminEmail, *adminPassword)
	if err != nil {
		logg.Error(ctx, "failed to ensure admin account", err)
		os.Exit(1)
	}
	if err := rbacService.AssignRole(ctx, adminID, rbac.RoleSuperAdmin, nil); err != nil {
		logg.Error(ctx, "failed to assign super admin role", err)
		os.Exit(1)
	}

	if cfg.FeatureFlags.SeedDemo {
		if err := seedDemo(ctx, dbClient.DB()); err != nil {
			logg.Error(ctx, "failed to seed demo data", err)
			os.Exit(1)
		}
		logg.Info(ctx, "demo data seeded")
	}

	logg.Info(logg.WithFields(ctx, map[string]any{"admin_email": *adminEmail}), "seed complete")
}

func ensureAdmin(ctx context.Context, conn *gorm.DB, passwordCfg config.PasswordConfig, email, password string) (uuid.UUID, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	var existing models.User
	findErr := conn.WithContext(ctx).Where("LOWER(email) = ?", email).First(&existing).Error
	if findErr == nil {
		return existing.ID, nil
	}
	if findErr != gorm.ErrRecordNotFound {
		return uuid.Nil, findErr
	}

	if password == "" {
		password = os.Getenv("CONTENTCREATE_SEED_ADMIN_PASSWORD")
	}
	if password == "" {
		return uuid.Nil, errors.New("admin password required, pass -admin-password or set CONTENTCREATE_SEED_ADMIN_PASSWORD")
	}
	hash, err := security.HashPassword(password, passwordCfg)
	if err != nil {
		return uuid.Nil, err
	}
	user := models.User{
		Username:     "admin",
		Email:        email,
		PasswordHash: hash,
		Role:         enums.LegacyRoleAdmin,
	}
	if err := conn.WithContext(ctx).Create(&user).Error; err != nil {
		return uuid.Nil, err
	}
	return user.ID, nil
}

func seedDemo(ctx context.Context, conn *gorm.DB) error {
	sku := func(v string) *string { return &v }

	products := []models.Product{
		{
			Name:        "Kingston A400 480GB SSD",
			Description: "2.5 inch SATA solid state drive.",
			Price:       decimal.NewFromFloat(52.00),
			Stock:       40,
			SKU:         sku("KST-A400-480"),
			Category:    "storage",
			Brand:       sku("Kingston"),
		},
		{
			Name:        "Logitech MX Master 3S",
			Description: "Wireless performance mouse.",
			Price:       decimal.NewFromFloat(99.99),
			Stock:       25,
			SKU:         sku("LOG-MXM-3S"),
			Category:    "peripherals",
			Brand:       sku("Logitech"),
		},
		{
			Name:        "TP-Link Archer AX55 Router",
			Description: "Dual band WiFi 6 router.",
			Price:       decimal.NewFromFloat(129.90),
			Stock:       12,
			SKU:         sku("TPL-AX55"),
			Category:    "networking",
			Brand:       sku("TP-Link"),
		},
	}
	for i := range products {
		if err := conn.WithContext(ctx).
			Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "sku"}}, DoNothing: true}).
			Create(&products[i]).Error; err != nil {
			return err
		}
	}

	supplierEmail := "sales@accra-components.example"
	supplier := models.Supplier{
		Name:  "Accra Components Ltd",
		Email: &supplierEmail,
	}
	var supplierCount int64
	if err := conn.WithContext(ctx).Model(&models.Supplier{}).
		Where("name = ?", supplier.Name).Count(&supplierCount).Error; err != nil {
		return err
	}
	if supplierCount == 0 {
		if err := conn.WithContext(ctx).Create(&supplier).Error; err != nil {
			return err
		}
	}

	slide := models.Slide{
		Title:    "Back to school deals",
		ImageURL: "https://cdn.contentcreate.store/slides/back-to-school.jpg",
	}
	var slideCount int64
	if err := conn.WithContext(ctx).Model(&models.Slide{}).
		Where("title = ?", slide.Title).Count(&slideCount).Error; err != nil {
		return err
	}
	if slideCount == 0 {
		if err := conn.WithContext(ctx).Create(&slide).Error; err != nil {
			return err
		}
	}

	now := time.Now().UTC()
	promo := models.Promotion{
		Title:           "Launch week",
		DiscountPercent: decimal.NewFromInt(10),
		StartDate:       now,
		EndDate:         now.AddDate(0, 0, 7),
		IsActive:        true,
	}
	var promoCount int64
	if err := conn.WithContext(ctx).Model(&models.Promotion{}).
		Where("title = ?", promo.Title).Count(&promoCount).Error; err != nil {
		return err
	}
	if promoCount == 0 {
		if err := conn.WithContext(ctx).Create(&promo).Error; err != nil {
			return err
		}
	}
	return nil
}
