package inventory

import (
	"context"
	"io"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/contentcreate/storefront-backend/pkg/db/models"
	"github.com/contentcreate/storefront-backend/pkg/enums"
	pkgerrors "github.com/contentcreate/storefront-backend/pkg/errors"
	"github.com/contentcreate/storefront-backend/pkg/logger"
)

type gormTxRunner struct {
	db *gorm.DB
}

func (r gormTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(fn)
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:inventory_" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(&models.Product{}, &models.InventoryLog{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func newTestService(t *testing.T, db *gorm.DB) Service {
	t.Helper()
	svc, err := NewService(NewRepository(db), gormTxRunner{db: db}, logger.New(logger.Options{Output: io.Discard}))
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func seedProduct(t *testing.T, db *gorm.DB, stock, threshold int) *models.Product {
	t.Helper()
	product := &models.Product{
		Name:              "Test Part",
		Description:       "desc",
		Price:             decimal.RequireFromString("19.99"),
		Stock:             stock,
		LowStockThreshold: threshold,
		Category:          "accessories",
		Condition:         enums.ProductConditionNew,
		ApprovalStatus:    enums.ApprovalStatusApproved,
	}
	if err := db.Create(product).Error; err != nil {
		t.Fatalf("seed product: %v", err)
	}
	return product
}

func TestAdjustRecordsLog(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := newTestService(t, db)
	ctx := context.Background()
	product := seedProduct(t, db, 10, 5)

	entry, err := svc.Adjust(ctx, AdjustmentInput{
		ProductID:      product.ID,
		QuantityChange: 5,
		Reason:         enums.StockReasonRestock,
	})
	if err != nil {
		t.Fatalf("adjust: %v", err)
	}
	if entry.PreviousStock != 10 || entry.NewStock != 15 || entry.QuantityChange != 5 {
		t.Fatalf("unexpected log entry: %+v", entry)
	}

	var updated models.Product
	if err := db.First(&updated, "id = ?", product.ID).Error; err != nil {
		t.Fatalf("load product: %v", err)
	}
	if updated.Stock != 15 {
		t.Fatalf("expected stock 15, got %d", updated.Stock)
	}
}

func TestAdjustRejectsNegativeResult(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := newTestService(t, db)
	ctx := context.Background()
	product := seedProduct(t, db, 2, 5)

	_, err := svc.Adjust(ctx, AdjustmentInput{
		ProductID:      product.ID,
		QuantityChange: -5,
		Reason:         enums.StockReasonDamage,
	})
	if err == nil {
		t.Fatal("expected state conflict")
	}
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("unexpected error: %v", err)
	}
	detail, ok := typed.Details().(ShortfallDetail)
	if !ok {
		t.Fatalf("expected shortfall detail, got %T", typed.Details())
	}
	if detail.Requested != 5 || detail.Available != 2 {
		t.Fatalf("unexpected detail: %+v", detail)
	}

	var unchanged models.Product
	if err := db.First(&unchanged, "id = ?", product.ID).Error; err != nil {
		t.Fatalf("load product: %v", err)
	}
	if unchanged.Stock != 2 {
		t.Fatalf("failed adjustment must not touch stock, got %d", unchanged.Stock)
	}
	var count int64
	if err := db.Model(&models.InventoryLog{}).Count(&count).Error; err != nil {
		t.Fatalf("count logs: %v", err)
	}
	if count != 0 {
		t.Fatalf("failed adjustment must not log, got %d rows", count)
	}
}

func TestAdjustmentMayGoNegative(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := newTestService(t, db)
	ctx := context.Background()
	product := seedProduct(t, db, 2, 5)

	entry, err := svc.Adjust(ctx, AdjustmentInput{
		ProductID:      product.ID,
		QuantityChange: -5,
		Reason:         enums.StockReasonAdjustment,
	})
	if err != nil {
		t.Fatalf("adjust: %v", err)
	}
	if entry.NewStock != -3 {
		t.Fatalf("expected stock -3, got %d", entry.NewStock)
	}
}

func TestAdjustRejectsFlowReasons(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := newTestService(t, db)
	product := seedProduct(t, db, 10, 5)

	for _, reason := range []enums.StockReason{enums.StockReasonOrder, enums.StockReasonPurchaseOrder} {
		_, err := svc.Adjust(context.Background(), AdjustmentInput{
			ProductID:      product.ID,
			QuantityChange: -1,
			Reason:         reason,
		})
		if err == nil {
			t.Fatalf("reason %s should be rejected for manual adjustments", reason)
		}
	}
}

func TestLogDeltasSumToStockChange(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := newTestService(t, db)
	ctx := context.Background()
	product := seedProduct(t, db, 20, 5)

	changes := []struct {
		delta  int
		reason enums.StockReason
	}{
		{delta: 7, reason: enums.StockReasonRestock},
		{delta: -3, reason: enums.StockReasonDamage},
		{delta: -6, reason: enums.StockReasonAdjustment},
		{delta: 2, reason: enums.StockReasonReturn},
	}
	for _, change := range changes {
		if _, err := svc.Adjust(ctx, AdjustmentInput{
			ProductID:      product.ID,
			QuantityChange: change.delta,
			Reason:         change.reason,
		}); err != nil {
			t.Fatalf("adjust %+v: %v", change, err)
		}
	}

	logs, err := svc.History(ctx, product.ID, 0)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(logs) != len(changes) {
		t.Fatalf("expected %d log rows, got %d", len(changes), len(logs))
	}

	sum := 0
	for _, entry := range logs {
		sum += entry.QuantityChange
		if entry.NewStock != entry.PreviousStock+entry.QuantityChange {
			t.Fatalf("inconsistent log row: %+v", entry)
		}
	}

	var current models.Product
	if err := db.First(&current, "id = ?", product.ID).Error; err != nil {
		t.Fatalf("load product: %v", err)
	}
	if current.Stock != 20+sum {
		t.Fatalf("log deltas (%d) do not reconcile with stock %d", sum, current.Stock)
	}
}

func TestLowStock(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := newTestService(t, db)

	low := seedProduct(t, db, 3, 5)
	seedProduct(t, db, 50, 5)

	products, err := svc.LowStock(context.Background())
	if err != nil {
		t.Fatalf("low stock: %v", err)
	}
	if len(products) != 1 || products[0].ID != low.ID {
		t.Fatalf("expected only the low product, got %+v", products)
	}
}

func TestApplyChangeRequiresTransaction(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := newTestService(t, db)

	_, err := svc.ApplyChange(context.Background(), nil, ChangeInput{
		ProductID:      uuid.New(),
		QuantityChange: 1,
		Reason:         enums.StockReasonRestock,
	})
	if err == nil {
		t.Fatal("nil transaction should be rejected")
	}
}
