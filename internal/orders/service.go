package orders

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/contentcreate/storefront-backend/internal/inventory"
	"github.com/contentcreate/storefront-backend/pkg/db/models"
	"github.com/contentcreate/storefront-backend/pkg/enums"
	pkgerrors "github.com/contentcreate/storefront-backend/pkg/errors"
	"github.com/contentcreate/storefront-backend/pkg/logger"
	"github.com/contentcreate/storefront-backend/pkg/mailer"
	"github.com/contentcreate/storefront-backend/pkg/pagination"
	"github.com/contentcreate/storefront-backend/pkg/paystack"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// PaymentVerifier checks a transaction reference against the gateway.
type PaymentVerifier interface {
	VerifyTransaction(ctx context.Context, reference string) (*paystack.Verification, error)
}

type confirmationSender interface {
	SendOrderConfirmation(ctx context.Context, msg mailer.OrderConfirmation) error
}

// Service covers the order lifecycle after checkout: payment, tracking,
// and fulfilment status changes.
type Service interface {
	VerifyPayment(ctx context.Context, orderID uuid.UUID, reference string) (*models.Order, error)
	Track(ctx context.Context, orderNumber, email string) (*models.Order, error)
	Get(ctx context.Context, orderID uuid.UUID) (*models.Order, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Order, error)
	List(ctx context.Context, params pagination.Params) (*Page, error)
	UpdateStatus(ctx context.Context, orderID uuid.UUID, status enums.OrderStatus) (*models.Order, error)
	Cancel(ctx context.Context, orderID uuid.UUID, actorID *uuid.UUID) (*models.Order, error)
}

type service struct {
	repo    Repository
	stock   inventory.Service
	tx      txRunner
	gateway PaymentVerifier
	logg    *logger.Logger
	mail    confirmationSender
}

// Option tweaks optional service collaborators.
type Option func(*service)

// WithMailer enables the best-effort confirmation email sent once payment
// is verified.
func WithMailer(mail confirmationSender) Option {
	return func(s *service) {
		s.mail = mail
	}
}

// Page is one admin listing page plus the cursor for the next one.
type Page struct {
	Orders     []models.Order `json:"orders"`
	NextCursor string         `json:"next_cursor,omitempty"`
}

// NewService wires the order service. A nil gateway disables external
// verification; payments then settle on request, which only suits dev and
// demo environments.
func NewService(repo Repository, stock inventory.Service, tx txRunner, gateway PaymentVerifier, logg *logger.Logger, opts ...Option) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if stock == nil {
		return nil, fmt.Errorf("inventory service required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	svc := &service{repo: repo, stock: stock, tx: tx, gateway: gateway, logg: logg}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

func (s *service) VerifyPayment(ctx context.Context, orderID uuid.UUID, reference string) (*models.Order, error) {
	if orderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id is required")
	}
	reference = strings.TrimSpace(reference)
	if reference == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "payment reference is required")
	}

	order, err := s.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.PaymentStatus == enums.PaymentStatusPaid {
		return order, nil
	}

	if s.gateway != nil {
		verification, err := s.gateway.VerifyTransaction(ctx, reference)
		if err != nil {
			return nil, err
		}
		if !verification.Success() {
			return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "payment not settled").
				WithDetails(map[string]string{"gateway_status": verification.Status})
		}
		if !verification.Amount.Equal(order.TotalAmount) {
			return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "payment amount mismatch").
				WithDetails(map[string]string{
					"expected": order.TotalAmount.StringFixed(2),
					"paid":     verification.Amount.StringFixed(2),
				})
		}
	} else {
		s.logg.Warn(s.logg.WithOrderNumber(ctx, order.OrderNumber), "payment gateway unconfigured, settling without verification")
	}

	order.PaymentStatus = enums.PaymentStatusPaid
	order.Status = enums.OrderStatusProcessing
	order.PaymentReference = &reference
	if err := s.repo.Update(ctx, order); err != nil {
		return nil, err
	}

	s.sendConfirmation(ctx, order)
	return order, nil
}

// sendConfirmation emails the customer once their payment settles. A send
// failure is logged and swallowed; the paid order stands either way.
func (s *service) sendConfirmation(ctx context.Context, order *models.Order) {
	if s.mail == nil || order.User == nil {
		return
	}
	to := strings.TrimSpace(order.User.Email)
	if to == "" {
		return
	}

	itemCount := 0
	for _, item := range order.Items {
		itemCount += item.Quantity
	}
	err := s.mail.SendOrderConfirmation(ctx, mailer.OrderConfirmation{
		To:          to,
		OrderNumber: order.OrderNumber,
		TotalAmount: order.TotalAmount,
		ItemCount:   itemCount,
	})
	if err != nil {
		s.logg.Error(s.logg.WithOrderNumber(ctx, order.OrderNumber), "order confirmation email failed", err)
	}
}

// Track is the public lookup: the order number alone is guessable, so the
// caller must also present the email on the account that placed it.
func (s *service) Track(ctx context.Context, orderNumber, email string) (*models.Order, error) {
	orderNumber = strings.TrimSpace(orderNumber)
	email = strings.ToLower(strings.TrimSpace(email))
	if orderNumber == "" || email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order number and email are required")
	}

	order, err := s.repo.FindByNumber(ctx, orderNumber)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, err
	}
	if order.User == nil || strings.ToLower(order.User.Email) != email {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	return order, nil
}

func (s *service) Get(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, err
	}
	return order, nil
}

func (s *service) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Order, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	return s.repo.ListByUser(ctx, userID)
}

func (s *service) List(ctx context.Context, params pagination.Params) (*Page, error) {
	rows, err := s.repo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	limit := pagination.NormalizeLimit(params.Limit)
	page := &Page{Orders: rows}
	if len(rows) > limit {
		page.Orders = rows[:limit]
		last := page.Orders[limit-1]
		page.NextCursor = pagination.EncodeCursor(pagination.Cursor{
			CreatedAt: last.CreatedAt,
			ID:        last.ID,
		})
	}
	return page, nil
}

func (s *service) UpdateStatus(ctx context.Context, orderID uuid.UUID, status enums.OrderStatus) (*models.Order, error) {
	if !status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid order status %q", status))
	}
	if status == enums.OrderStatusCancelled {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cancel orders through the cancellation flow")
	}

	order, err := s.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.Status == enums.OrderStatusCancelled {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "cancelled orders cannot change status")
	}

	order.Status = status
	if err := s.repo.Update(ctx, order); err != nil {
		return nil, err
	}
	return order, nil
}

// Cancel voids an unshipped order and restocks every line in the same
// transaction, so the inventory log mirrors the original decrement.
func (s *service) Cancel(ctx context.Context, orderID uuid.UUID, actorID *uuid.UUID) (*models.Order, error) {
	order, err := s.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.Status == enums.OrderStatusCancelled {
		return order, nil
	}
	if order.Status == enums.OrderStatusShipped || order.Status == enums.OrderStatusDelivered {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "shipped orders cannot be cancelled")
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		for _, item := range order.Items {
			if _, err := s.stock.ApplyChange(ctx, tx, inventory.ChangeInput{
				ProductID:      item.ProductID,
				QuantityChange: item.Quantity,
				Reason:         enums.StockReasonReturn,
				Reference:      &order.OrderNumber,
				ActorID:        actorID,
			}); err != nil {
				return err
			}
		}
		order.Status = enums.OrderStatusCancelled
		return repo.Update(ctx, order)
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}
