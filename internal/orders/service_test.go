package orders

import (
	"context"
	"io"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/contentcreate/storefront-backend/internal/inventory"
	"github.com/contentcreate/storefront-backend/pkg/db/models"
	"github.com/contentcreate/storefront-backend/pkg/enums"
	pkgerrors "github.com/contentcreate/storefront-backend/pkg/errors"
	"github.com/contentcreate/storefront-backend/pkg/logger"
	"github.com/contentcreate/storefront-backend/pkg/mailer"
	"github.com/contentcreate/storefront-backend/pkg/paystack"
)

type gormTxRunner struct {
	db *gorm.DB
}

func (r gormTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(fn)
}

type fakeGateway struct {
	result *paystack.Verification
	err    error
	calls  []string
}

func (g *fakeGateway) VerifyTransaction(_ context.Context, reference string) (*paystack.Verification, error) {
	g.calls = append(g.calls, reference)
	if g.err != nil {
		return nil, g.err
	}
	return g.result, nil
}

type recordingMailer struct {
	sent []mailer.OrderConfirmation
	err  error
}

func (m *recordingMailer) SendOrderConfirmation(_ context.Context, msg mailer.OrderConfirmation) error {
	m.sent = append(m.sent, msg)
	return m.err
}

type fixture struct {
	db      *gorm.DB
	svc     Service
	gateway *fakeGateway
	mail    *recordingMailer
}

func newFixture(t *testing.T, gateway *fakeGateway) *fixture {
	t.Helper()

	dsn := "file:orders_" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(
		&models.User{}, &models.Product{}, &models.Order{},
		&models.OrderItem{}, &models.InventoryLog{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	logg := logger.New(logger.Options{Output: io.Discard})
	runner := gormTxRunner{db: db}
	stock, err := inventory.NewService(inventory.NewRepository(db), runner, logg)
	if err != nil {
		t.Fatalf("inventory service: %v", err)
	}

	var verifier PaymentVerifier
	if gateway != nil {
		verifier = gateway
	}
	mail := &recordingMailer{}
	svc, err := NewService(NewRepository(db), stock, runner, verifier, logg, WithMailer(mail))
	if err != nil {
		t.Fatalf("orders service: %v", err)
	}
	return &fixture{db: db, svc: svc, gateway: gateway, mail: mail}
}

func (f *fixture) seedUser(t *testing.T, email string) *models.User {
	t.Helper()
	user := &models.User{
		Username:     "buyer_" + uuid.NewString()[:8],
		Email:        email,
		PasswordHash: "x",
		Role:         enums.LegacyRoleCustomer,
	}
	if err := f.db.Create(user).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return user
}

func (f *fixture) seedOrder(t *testing.T, user *models.User, total string) *models.Order {
	t.Helper()

	product := &models.Product{
		Name:           "Widget",
		Description:    "d",
		Price:          decimal.RequireFromString(total),
		Stock:          5,
		Category:       "accessories",
		Condition:      enums.ProductConditionNew,
		ApprovalStatus: enums.ApprovalStatusApproved,
	}
	if err := f.db.Create(product).Error; err != nil {
		t.Fatalf("seed product: %v", err)
	}

	order := &models.Order{
		OrderNumber:     "ORD-" + uuid.NewString()[:8],
		UserID:          user.ID,
		Status:          enums.OrderStatusPending,
		TotalAmount:     decimal.RequireFromString(total),
		PaymentStatus:   enums.PaymentStatusPending,
		ShippingAddress: "12 Ring Road",
		ShippingCity:    "Accra",
		ShippingCountry: "Ghana",
		ShippingPhone:   "+233200000000",
	}
	if err := f.db.Create(order).Error; err != nil {
		t.Fatalf("seed order: %v", err)
	}
	if err := f.db.Create(&models.OrderItem{
		OrderID:   order.ID,
		ProductID: product.ID,
		Quantity:  1,
		Price:     decimal.RequireFromString(total),
	}).Error; err != nil {
		t.Fatalf("seed order item: %v", err)
	}
	return order
}

func TestVerifyPaymentSettles(t *testing.T) {
	t.Parallel()

	gateway := &fakeGateway{result: &paystack.Verification{
		Reference: "ref-1",
		Status:    "success",
		Amount:    decimal.RequireFromString("120.00"),
		Currency:  "GHS",
	}}
	f := newFixture(t, gateway)
	ctx := context.Background()
	user := f.seedUser(t, "buyer@example.com")
	order := f.seedOrder(t, user, "120.00")

	paid, err := f.svc.VerifyPayment(ctx, order.ID, "ref-1")
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if paid.PaymentStatus != enums.PaymentStatusPaid {
		t.Fatalf("expected paid, got %s", paid.PaymentStatus)
	}
	if paid.Status != enums.OrderStatusProcessing {
		t.Fatalf("paid orders move to processing, got %s", paid.Status)
	}
	if paid.PaymentReference == nil || *paid.PaymentReference != "ref-1" {
		t.Fatalf("reference not stored: %+v", paid.PaymentReference)
	}
	if len(f.mail.sent) != 1 || f.mail.sent[0].To != "buyer@example.com" || f.mail.sent[0].OrderNumber != order.OrderNumber {
		t.Fatalf("confirmation email should follow settlement: %+v", f.mail.sent)
	}
}

func TestVerifyPaymentIdempotent(t *testing.T) {
	t.Parallel()

	gateway := &fakeGateway{result: &paystack.Verification{
		Status: "success",
		Amount: decimal.RequireFromString("50.00"),
	}}
	f := newFixture(t, gateway)
	ctx := context.Background()
	user := f.seedUser(t, "buyer@example.com")
	order := f.seedOrder(t, user, "50.00")

	if _, err := f.svc.VerifyPayment(ctx, order.ID, "ref-1"); err != nil {
		t.Fatalf("first verify: %v", err)
	}
	if _, err := f.svc.VerifyPayment(ctx, order.ID, "ref-1"); err != nil {
		t.Fatalf("second verify: %v", err)
	}
	if len(gateway.calls) != 1 {
		t.Fatalf("settled orders must not hit the gateway again, calls=%d", len(gateway.calls))
	}
	if len(f.mail.sent) != 1 {
		t.Fatalf("confirmation email must go out once, got %d", len(f.mail.sent))
	}
}

func TestVerifyPaymentMailFailureIsNonFatal(t *testing.T) {
	t.Parallel()

	gateway := &fakeGateway{result: &paystack.Verification{
		Status: "success",
		Amount: decimal.RequireFromString("50.00"),
	}}
	f := newFixture(t, gateway)
	f.mail.err = pkgerrors.New(pkgerrors.CodeDependency, "provider down")
	user := f.seedUser(t, "buyer@example.com")
	order := f.seedOrder(t, user, "50.00")

	paid, err := f.svc.VerifyPayment(context.Background(), order.ID, "ref-1")
	if err != nil {
		t.Fatalf("mail failure must not fail verification: %v", err)
	}
	if paid.PaymentStatus != enums.PaymentStatusPaid {
		t.Fatalf("expected paid, got %s", paid.PaymentStatus)
	}
}

func TestVerifyPaymentRejectsUnsettled(t *testing.T) {
	t.Parallel()

	gateway := &fakeGateway{result: &paystack.Verification{Status: "failed", Amount: decimal.RequireFromString("50.00")}}
	f := newFixture(t, gateway)
	user := f.seedUser(t, "buyer@example.com")
	order := f.seedOrder(t, user, "50.00")

	_, err := f.svc.VerifyPayment(context.Background(), order.ID, "ref-1")
	if err == nil {
		t.Fatal("unsettled payment should fail")
	}
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(f.mail.sent) != 0 {
		t.Fatalf("no email before settlement, got %d", len(f.mail.sent))
	}
}

func TestVerifyPaymentRejectsAmountMismatch(t *testing.T) {
	t.Parallel()

	gateway := &fakeGateway{result: &paystack.Verification{
		Status: "success",
		Amount: decimal.RequireFromString("10.00"),
	}}
	f := newFixture(t, gateway)
	user := f.seedUser(t, "buyer@example.com")
	order := f.seedOrder(t, user, "50.00")

	if _, err := f.svc.VerifyPayment(context.Background(), order.ID, "ref-1"); err == nil {
		t.Fatal("amount mismatch should fail")
	}
}

func TestVerifyPaymentWithoutGateway(t *testing.T) {
	t.Parallel()

	f := newFixture(t, nil)
	user := f.seedUser(t, "buyer@example.com")
	order := f.seedOrder(t, user, "50.00")

	paid, err := f.svc.VerifyPayment(context.Background(), order.ID, "dev-ref")
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if paid.PaymentStatus != enums.PaymentStatusPaid {
		t.Fatalf("unconfigured gateway settles on request, got %s", paid.PaymentStatus)
	}
}

func TestTrack(t *testing.T) {
	t.Parallel()

	f := newFixture(t, nil)
	ctx := context.Background()
	user := f.seedUser(t, "Buyer@Example.com")
	order := f.seedOrder(t, user, "30.00")

	got, err := f.svc.Track(ctx, order.OrderNumber, "buyer@example.com")
	if err != nil {
		t.Fatalf("track: %v", err)
	}
	if got.ID != order.ID {
		t.Fatalf("wrong order: %s", got.ID)
	}

	if _, err := f.svc.Track(ctx, order.OrderNumber, "other@example.com"); err == nil {
		t.Fatal("wrong email must not reveal the order")
	}
	if _, err := f.svc.Track(ctx, "ORD-MISSING1", "buyer@example.com"); err == nil {
		t.Fatal("unknown number should fail")
	}
}

func TestUpdateStatusRules(t *testing.T) {
	t.Parallel()

	f := newFixture(t, nil)
	ctx := context.Background()
	user := f.seedUser(t, "buyer@example.com")
	order := f.seedOrder(t, user, "30.00")

	updated, err := f.svc.UpdateStatus(ctx, order.ID, enums.OrderStatusShipped)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Status != enums.OrderStatusShipped {
		t.Fatalf("expected shipped, got %s", updated.Status)
	}

	if _, err := f.svc.UpdateStatus(ctx, order.ID, enums.OrderStatus("bogus")); err == nil {
		t.Fatal("invalid status should fail")
	}
	if _, err := f.svc.UpdateStatus(ctx, order.ID, enums.OrderStatusCancelled); err == nil {
		t.Fatal("cancel must go through the cancellation flow")
	}
}

func TestCancelRestocks(t *testing.T) {
	t.Parallel()

	f := newFixture(t, nil)
	ctx := context.Background()
	user := f.seedUser(t, "buyer@example.com")
	order := f.seedOrder(t, user, "30.00")

	cancelled, err := f.svc.Cancel(ctx, order.ID, nil)
	if err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if cancelled.Status != enums.OrderStatusCancelled {
		t.Fatalf("expected cancelled, got %s", cancelled.Status)
	}

	var logs []models.InventoryLog
	if err := f.db.Find(&logs).Error; err != nil {
		t.Fatalf("load logs: %v", err)
	}
	if len(logs) != 1 || logs[0].Reason != enums.StockReasonReturn || logs[0].QuantityChange != 1 {
		t.Fatalf("expected a return log, got %+v", logs)
	}

	// idempotent
	if _, err := f.svc.Cancel(ctx, order.ID, nil); err != nil {
		t.Fatalf("second cancel: %v", err)
	}

	// shipped orders refuse
	other := f.seedOrder(t, user, "10.00")
	if _, err := f.svc.UpdateStatus(ctx, other.ID, enums.OrderStatusShipped); err != nil {
		t.Fatalf("ship: %v", err)
	}
	if _, err := f.svc.Cancel(ctx, other.ID, nil); err == nil {
		t.Fatal("shipped orders cannot cancel")
	}
}
