package promotions

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/contentcreate/storefront-backend/pkg/db/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:promotions_" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(&models.Promotion{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func newTestService(t *testing.T, db *gorm.DB) Service {
	t.Helper()
	svc, err := NewService(NewRepository(db))
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func window(now time.Time, before, after time.Duration) (time.Time, time.Time) {
	return now.Add(-before), now.Add(after)
}

func TestCreateValidation(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, newTestDB(t))
	ctx := context.Background()
	now := time.Now().UTC()
	start, end := window(now, time.Hour, time.Hour)

	cases := []UpsertInput{
		{Title: "", DiscountPercent: decimal.NewFromInt(10), StartDate: start, EndDate: end},
		{Title: "x", DiscountPercent: decimal.Zero, StartDate: start, EndDate: end},
		{Title: "x", DiscountPercent: decimal.NewFromInt(101), StartDate: start, EndDate: end},
		{Title: "x", DiscountPercent: decimal.NewFromInt(10), StartDate: end, EndDate: start},
	}
	for i, input := range cases {
		if _, err := svc.Create(ctx, input); err == nil {
			t.Fatalf("case %d should fail validation", i)
		}
	}
}

func TestActivePicksEarliestMatch(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := newTestService(t, db)
	ctx := context.Background()
	now := time.Now().UTC()
	start, end := window(now, time.Hour, time.Hour)

	first, err := svc.Create(ctx, UpsertInput{Title: "first", Description: "d", DiscountPercent: decimal.NewFromInt(10), StartDate: start, EndDate: end, IsActive: true})
	if err != nil {
		t.Fatalf("create first: %v", err)
	}
	// force a distinct created_at ordering
	if err := db.Model(first).Update("created_at", now.Add(-time.Minute)).Error; err != nil {
		t.Fatalf("backdate first: %v", err)
	}
	if _, err := svc.Create(ctx, UpsertInput{Title: "second", Description: "d", DiscountPercent: decimal.NewFromInt(50), StartDate: start, EndDate: end, IsActive: true}); err != nil {
		t.Fatalf("create second: %v", err)
	}

	active, err := svc.Active(ctx, now)
	if err != nil {
		t.Fatalf("active: %v", err)
	}
	if active == nil || active.Title != "first" {
		t.Fatalf("expected the earliest promotion, got %+v", active)
	}
}

func TestActiveSkipsInactiveAndExpired(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := newTestService(t, db)
	ctx := context.Background()
	now := time.Now().UTC()

	pastStart, pastEnd := window(now, 48*time.Hour, -24*time.Hour)
	start, end := window(now, time.Hour, time.Hour)

	if _, err := svc.Create(ctx, UpsertInput{Title: "expired", Description: "d", DiscountPercent: decimal.NewFromInt(20), StartDate: pastStart, EndDate: pastEnd, IsActive: true}); err != nil {
		t.Fatalf("create expired: %v", err)
	}
	if _, err := svc.Create(ctx, UpsertInput{Title: "disabled", Description: "d", DiscountPercent: decimal.NewFromInt(20), StartDate: start, EndDate: end, IsActive: false}); err != nil {
		t.Fatalf("create disabled: %v", err)
	}

	active, err := svc.Active(ctx, now)
	if err != nil {
		t.Fatalf("active: %v", err)
	}
	if active != nil {
		t.Fatalf("expected no active promotion, got %+v", active)
	}
}

func TestApplyDiscount(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := newTestService(t, db)
	ctx := context.Background()
	now := time.Now().UTC()
	start, end := window(now, time.Hour, time.Hour)

	if _, err := svc.Create(ctx, UpsertInput{Title: "sale", Description: "d", DiscountPercent: decimal.NewFromInt(15), StartDate: start, EndDate: end, IsActive: true}); err != nil {
		t.Fatalf("create: %v", err)
	}

	discounted, promo, err := svc.ApplyDiscount(ctx, now, decimal.RequireFromString("200.00"))
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if promo == nil {
		t.Fatal("expected a promotion")
	}
	if !discounted.Equal(decimal.RequireFromString("170.00")) {
		t.Fatalf("expected 170.00, got %s", discounted)
	}
}

func TestApplyDiscountNoPromotion(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, newTestDB(t))
	amount := decimal.RequireFromString("42.50")

	got, promo, err := svc.ApplyDiscount(context.Background(), time.Now().UTC(), amount)
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if promo != nil {
		t.Fatalf("expected no promotion, got %+v", promo)
	}
	if !got.Equal(amount) {
		t.Fatalf("amount should pass through, got %s", got)
	}
}

func TestUpdateAndDelete(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := newTestService(t, db)
	ctx := context.Background()
	now := time.Now().UTC()
	start, end := window(now, time.Hour, time.Hour)

	promo, err := svc.Create(ctx, UpsertInput{Title: "sale", Description: "d", DiscountPercent: decimal.NewFromInt(15), StartDate: start, EndDate: end, IsActive: true})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	updated, err := svc.Update(ctx, promo.ID, UpsertInput{Title: "bigger sale", Description: "d", DiscountPercent: decimal.NewFromInt(25), StartDate: start, EndDate: end, IsActive: false})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Title != "bigger sale" || !updated.DiscountPercent.Equal(decimal.NewFromInt(25)) || updated.IsActive {
		t.Fatalf("unexpected update result: %+v", updated)
	}

	if err := svc.Delete(ctx, promo.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := svc.Delete(ctx, promo.ID); err == nil {
		t.Fatal("deleting twice should fail")
	}
}
