package checkout

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/contentcreate/storefront-backend/internal/cart"
	"github.com/contentcreate/storefront-backend/internal/inventory"
	"github.com/contentcreate/storefront-backend/internal/orders"
	"github.com/contentcreate/storefront-backend/internal/promotions"
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

type fixture struct {
	db  *gorm.DB
	svc Service
}

func newFixture(t *testing.T, opts ...Option) *fixture {
	t.Helper()

	dsn := "file:checkout_" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(
		&models.Product{}, &models.CartItem{}, &models.Order{},
		&models.OrderItem{}, &models.InventoryLog{}, &models.Promotion{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	logg := logger.New(logger.Options{Output: io.Discard})
	runner := gormTxRunner{db: db}

	stock, err := inventory.NewService(inventory.NewRepository(db), runner, logg)
	if err != nil {
		t.Fatalf("inventory service: %v", err)
	}
	promos, err := promotions.NewService(promotions.NewRepository(db))
	if err != nil {
		t.Fatalf("promotions service: %v", err)
	}

	svc, err := NewService(cart.NewRepository(db), orders.NewRepository(db), stock, promos, runner, logg, opts...)
	if err != nil {
		t.Fatalf("checkout service: %v", err)
	}
	return &fixture{db: db, svc: svc}
}

func (f *fixture) seedProduct(t *testing.T, price string, stock int) *models.Product {
	t.Helper()
	product := &models.Product{
		Name:           "Widget",
		Description:    "desc",
		Price:          decimal.RequireFromString(price),
		Stock:          stock,
		Category:       "accessories",
		Condition:      enums.ProductConditionNew,
		ApprovalStatus: enums.ApprovalStatusApproved,
	}
	if err := f.db.Create(product).Error; err != nil {
		t.Fatalf("seed product: %v", err)
	}
	return product
}

func (f *fixture) seedCartItem(t *testing.T, userID uuid.UUID, product *models.Product, qty int) {
	t.Helper()
	if err := f.db.Create(&models.CartItem{UserID: userID, ProductID: product.ID, Quantity: qty}).Error; err != nil {
		t.Fatalf("seed cart item: %v", err)
	}
}

func validInput(userID uuid.UUID) Input {
	return Input{
		UserID:          userID,
		ShippingAddress: "12 Ring Road",
		ShippingCity:    "Accra",
		ShippingPhone:   "+233200000000",
	}
}

func TestCheckoutHappyPath(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()
	userID := uuid.New()
	cheap := f.seedProduct(t, "10.00", 5)
	dear := f.seedProduct(t, "99.99", 2)
	f.seedCartItem(t, userID, cheap, 3)
	f.seedCartItem(t, userID, dear, 1)

	order, err := f.svc.Checkout(ctx, validInput(userID))
	if err != nil {
		t.Fatalf("checkout: %v", err)
	}

	if len(order.OrderNumber) != 12 || order.OrderNumber[:4] != "ORD-" {
		t.Fatalf("unexpected order number %q", order.OrderNumber)
	}
	if !order.TotalAmount.Equal(decimal.RequireFromString("129.99")) {
		t.Fatalf("expected total 129.99, got %s", order.TotalAmount)
	}
	if order.Status != enums.OrderStatusPending || order.PaymentStatus != enums.PaymentStatusPending {
		t.Fatalf("unexpected status: %s/%s", order.Status, order.PaymentStatus)
	}
	if order.ShippingCountry != "Ghana" {
		t.Fatalf("country should default to Ghana, got %s", order.ShippingCountry)
	}
	if len(order.Items) != 2 {
		t.Fatalf("expected 2 line items, got %d", len(order.Items))
	}

	var updatedCheap, updatedDear models.Product
	if err := f.db.First(&updatedCheap, "id = ?", cheap.ID).Error; err != nil {
		t.Fatalf("load product: %v", err)
	}
	if err := f.db.First(&updatedDear, "id = ?", dear.ID).Error; err != nil {
		t.Fatalf("load product: %v", err)
	}
	if updatedCheap.Stock != 2 || updatedDear.Stock != 1 {
		t.Fatalf("stock not decremented: %d/%d", updatedCheap.Stock, updatedDear.Stock)
	}

	var logs []models.InventoryLog
	if err := f.db.Find(&logs).Error; err != nil {
		t.Fatalf("load logs: %v", err)
	}
	if len(logs) != 2 {
		t.Fatalf("expected 2 log rows, got %d", len(logs))
	}
	for _, entry := range logs {
		if entry.Reason != enums.StockReasonOrder {
			t.Fatalf("unexpected reason %s", entry.Reason)
		}
		if entry.Reference == nil || *entry.Reference != order.OrderNumber {
			t.Fatalf("log should reference the order number: %+v", entry)
		}
	}

	var cartCount int64
	if err := f.db.Model(&models.CartItem{}).Where("user_id = ?", userID).Count(&cartCount).Error; err != nil {
		t.Fatalf("count cart: %v", err)
	}
	if cartCount != 0 {
		t.Fatalf("cart should be cleared, found %d rows", cartCount)
	}

}

func TestCheckoutEmptyCart(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	_, err := f.svc.Checkout(context.Background(), validInput(uuid.New()))
	if err == nil {
		t.Fatal("empty cart should fail")
	}
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestCheckoutReportsEveryShortfall(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()
	userID := uuid.New()
	first := f.seedProduct(t, "10.00", 1)
	second := f.seedProduct(t, "20.00", 0)
	plenty := f.seedProduct(t, "5.00", 50)
	f.seedCartItem(t, userID, first, 3)
	f.seedCartItem(t, userID, second, 2)
	f.seedCartItem(t, userID, plenty, 1)

	_, err := f.svc.Checkout(ctx, validInput(userID))
	if err == nil {
		t.Fatal("expected shortfall failure")
	}
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("unexpected error: %v", err)
	}
	details, ok := typed.Details().([]inventory.ShortfallDetail)
	if !ok {
		t.Fatalf("expected shortfall details, got %T", typed.Details())
	}
	if len(details) != 2 {
		t.Fatalf("expected both shortfalls reported, got %+v", details)
	}

	// everything rolls back
	var orderCount, cartCount int64
	if err := f.db.Model(&models.Order{}).Count(&orderCount).Error; err != nil {
		t.Fatalf("count orders: %v", err)
	}
	if orderCount != 0 {
		t.Fatalf("failed checkout must not keep the order, found %d", orderCount)
	}
	if err := f.db.Model(&models.CartItem{}).Count(&cartCount).Error; err != nil {
		t.Fatalf("count cart: %v", err)
	}
	if cartCount != 3 {
		t.Fatalf("failed checkout must keep the cart, found %d", cartCount)
	}

	var untouched models.Product
	if err := f.db.First(&untouched, "id = ?", plenty.ID).Error; err != nil {
		t.Fatalf("load product: %v", err)
	}
	if untouched.Stock != 50 {
		t.Fatalf("successful lines must roll back too, stock %d", untouched.Stock)
	}
}

func TestCheckoutAppliesPromotionOnce(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()
	now := time.Now().UTC()
	if err := f.db.Create(&models.Promotion{
		Title:           "launch",
		Description:     "d",
		DiscountPercent: decimal.NewFromInt(10),
		StartDate:       now.Add(-time.Hour),
		EndDate:         now.Add(time.Hour),
		IsActive:        true,
	}).Error; err != nil {
		t.Fatalf("seed promotion: %v", err)
	}

	userID := uuid.New()
	product := f.seedProduct(t, "50.00", 10)
	f.seedCartItem(t, userID, product, 2)

	order, err := f.svc.Checkout(ctx, validInput(userID))
	if err != nil {
		t.Fatalf("checkout: %v", err)
	}
	if !order.TotalAmount.Equal(decimal.RequireFromString("90.00")) {
		t.Fatalf("expected discounted total 90.00, got %s", order.TotalAmount)
	}

	// the line prices stay at full value; the discount hits only the total
	if !order.Items[0].Price.Equal(decimal.RequireFromString("50.00")) {
		t.Fatalf("line price should be undiscounted, got %s", order.Items[0].Price)
	}
}

func TestCheckoutRetriesNumberCollision(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()
	userID := uuid.New()
	product := f.seedProduct(t, "10.00", 10)
	f.seedCartItem(t, userID, product, 1)

	taken := NewOrderNumber()
	if err := f.db.Create(&models.Order{
		OrderNumber:     taken,
		UserID:          uuid.New(),
		Status:          enums.OrderStatusPending,
		TotalAmount:     decimal.Zero,
		PaymentStatus:   enums.PaymentStatusPending,
		ShippingAddress: "x",
		ShippingCity:    "x",
		ShippingCountry: "Ghana",
		ShippingPhone:   "x",
	}).Error; err != nil {
		t.Fatalf("seed order: %v", err)
	}

	fresh := NewOrderNumber()
	numbers := []string{taken, fresh}
	fWithSeq := newFixtureWithNumbers(t, f, numbers)

	order, err := fWithSeq.Checkout(ctx, validInput(userID))
	if err != nil {
		t.Fatalf("checkout should retry once: %v", err)
	}
	if order.OrderNumber != fresh {
		t.Fatalf("expected retried number %s, got %s", fresh, order.OrderNumber)
	}
}

// newFixtureWithNumbers rebuilds the service on the fixture's database with a
// deterministic order number sequence.
func newFixtureWithNumbers(t *testing.T, f *fixture, numbers []string) Service {
	t.Helper()

	logg := logger.New(logger.Options{Output: io.Discard})
	runner := gormTxRunner{db: f.db}
	stock, err := inventory.NewService(inventory.NewRepository(f.db), runner, logg)
	if err != nil {
		t.Fatalf("inventory service: %v", err)
	}
	promos, err := promotions.NewService(promotions.NewRepository(f.db))
	if err != nil {
		t.Fatalf("promotions service: %v", err)
	}

	idx := 0
	svc, err := NewService(cart.NewRepository(f.db), orders.NewRepository(f.db), stock, promos, runner, logg,
		WithNumberFunc(func() string {
			n := numbers[idx%len(numbers)]
			idx++
			return n
		}),
	)
	if err != nil {
		t.Fatalf("checkout service: %v", err)
	}
	return svc
}

func TestCheckoutLastUnitGoesToFirstBuyer(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()
	product := f.seedProduct(t, "10.00", 1)

	winner := uuid.New()
	loser := uuid.New()
	f.seedCartItem(t, winner, product, 1)
	f.seedCartItem(t, loser, product, 1)

	if _, err := f.svc.Checkout(ctx, validInput(winner)); err != nil {
		t.Fatalf("first checkout: %v", err)
	}

	_, err := f.svc.Checkout(ctx, validInput(loser))
	if err == nil {
		t.Fatal("second checkout should fail")
	}
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("unexpected error: %v", err)
	}

	var final models.Product
	if err := f.db.First(&final, "id = ?", product.ID).Error; err != nil {
		t.Fatalf("load product: %v", err)
	}
	if final.Stock != 0 {
		t.Fatalf("stock must never go negative, got %d", final.Stock)
	}
}

