package checkout

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/contentcreate/storefront-backend/internal/cart"
	"github.com/contentcreate/storefront-backend/internal/inventory"
	"github.com/contentcreate/storefront-backend/internal/orders"
	"github.com/contentcreate/storefront-backend/pkg/db"
	"github.com/contentcreate/storefront-backend/pkg/db/models"
	"github.com/contentcreate/storefront-backend/pkg/enums"
	pkgerrors "github.com/contentcreate/storefront-backend/pkg/errors"
	"github.com/contentcreate/storefront-backend/pkg/logger"
	"github.com/contentcreate/storefront-backend/pkg/metrics"
)

const orderNumberIndex = "idx_orders_order_number"

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type discounter interface {
	ApplyDiscount(ctx context.Context, now time.Time, amount decimal.Decimal) (decimal.Decimal, *models.Promotion, error)
}

// Service turns a cart into an order. The whole conversion runs in one
// transaction: stock decrements, order rows, and the cart wipe all commit
// or roll back together.
type Service interface {
	Checkout(ctx context.Context, input Input) (*models.Order, error)
}

type service struct {
	cartRepo   cart.Repository
	orderRepo  orders.Repository
	stock      inventory.Service
	promos     discounter
	tx         txRunner
	logg       *logger.Logger
	checkouts  *metrics.CheckoutMetrics
	clock      func() time.Time
	numberFunc func() string
}

// Input captures everything checkout needs beyond the cart itself.
type Input struct {
	UserID          uuid.UUID
	ShippingAddress string
	ShippingCity    string
	ShippingCountry string
	ShippingPhone   string
}

// Option tweaks optional service collaborators.
type Option func(*service)

// WithMetrics records checkout outcomes.
func WithMetrics(m *metrics.CheckoutMetrics) Option {
	return func(s *service) {
		s.checkouts = m
	}
}

// WithClock overrides time lookup, for tests.
func WithClock(clock func() time.Time) Option {
	return func(s *service) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// WithNumberFunc overrides order number generation, for tests.
func WithNumberFunc(fn func() string) Option {
	return func(s *service) {
		if fn != nil {
			s.numberFunc = fn
		}
	}
}

// NewService wires the checkout service with its required collaborators.
func NewService(
	cartRepo cart.Repository,
	orderRepo orders.Repository,
	stock inventory.Service,
	promos discounter,
	tx txRunner,
	logg *logger.Logger,
	opts ...Option,
) (Service, error) {
	if cartRepo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if orderRepo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if stock == nil {
		return nil, fmt.Errorf("inventory service required")
	}
	if promos == nil {
		return nil, fmt.Errorf("promotions service required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}

	svc := &service{
		cartRepo:   cartRepo,
		orderRepo:  orderRepo,
		stock:      stock,
		promos:     promos,
		tx:         tx,
		logg:       logg,
		clock:      time.Now,
		numberFunc: NewOrderNumber,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(svc)
		}
	}
	return svc, nil
}

// NewOrderNumber produces a customer-facing order number.
func NewOrderNumber() string {
	raw := uuid.New()
	return "ORD-" + strings.ToUpper(fmt.Sprintf("%x", raw[:4]))
}

func (i Input) validate() error {
	if i.UserID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	if strings.TrimSpace(i.ShippingAddress) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "shipping address is required")
	}
	if strings.TrimSpace(i.ShippingCity) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "shipping city is required")
	}
	if strings.TrimSpace(i.ShippingPhone) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "shipping phone is required")
	}
	return nil
}

func (s *service) Checkout(ctx context.Context, input Input) (*models.Order, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	order, err := s.attempt(ctx, input)
	if db.IsUniqueViolation(err, orderNumberIndex) {
		// regenerate the number and retry once
		order, err = s.attempt(ctx, input)
		if db.IsUniqueViolation(err, orderNumberIndex) {
			err = pkgerrors.Wrap(pkgerrors.CodeConflict, err, "order number collision")
		}
	}
	if err != nil {
		if typed := pkgerrors.As(err); typed != nil && typed.Code() == pkgerrors.CodeStateConflict {
			s.checkouts.IncShortfall()
		}
		s.checkouts.IncOrder("failure")
		return nil, err
	}

	s.checkouts.IncOrder("success")
	return order, nil
}

func (s *service) attempt(ctx context.Context, input Input) (*models.Order, error) {
	var order *models.Order
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		cartRepo := s.cartRepo.WithTx(tx)
		orderRepo := s.orderRepo.WithTx(tx)

		items, err := cartRepo.ListByUser(ctx, input.UserID)
		if err != nil {
			return err
		}
		if len(items) == 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
		}

		orderNumber := s.numberFunc()
		created := &models.Order{
			OrderNumber:     orderNumber,
			UserID:          input.UserID,
			Status:          enums.OrderStatusPending,
			TotalAmount:     decimal.Zero,
			PaymentStatus:   enums.PaymentStatusPending,
			ShippingAddress: strings.TrimSpace(input.ShippingAddress),
			ShippingCity:    strings.TrimSpace(input.ShippingCity),
			ShippingCountry: strings.TrimSpace(input.ShippingCountry),
			ShippingPhone:   strings.TrimSpace(input.ShippingPhone),
		}
		if created.ShippingCountry == "" {
			created.ShippingCountry = "Ghana"
		}
		if err := orderRepo.Create(ctx, created); err != nil {
			return err
		}

		// Decrement every line before deciding the outcome so a failed
		// checkout reports the full shortfall list, not just the first.
		var shortfalls []inventory.ShortfallDetail
		var lines []models.OrderItem
		subtotal := decimal.Zero
		for _, item := range items {
			if item.Product == nil {
				return pkgerrors.New(pkgerrors.CodeInternal, "cart item missing product")
			}

			_, applyErr := s.stock.ApplyChange(ctx, tx, inventory.ChangeInput{
				ProductID:      item.ProductID,
				QuantityChange: -item.Quantity,
				Reason:         enums.StockReasonOrder,
				Reference:      &orderNumber,
				ActorID:        &input.UserID,
			})
			if applyErr != nil {
				typed := pkgerrors.As(applyErr)
				if typed != nil && typed.Code() == pkgerrors.CodeStateConflict {
					if detail, ok := typed.Details().(inventory.ShortfallDetail); ok {
						shortfalls = append(shortfalls, detail)
						continue
					}
				}
				return applyErr
			}

			line := &models.OrderItem{
				OrderID:   created.ID,
				ProductID: item.ProductID,
				Quantity:  item.Quantity,
				Price:     item.Product.Price,
			}
			if err := tx.WithContext(ctx).Create(line).Error; err != nil {
				return err
			}
			lines = append(lines, *line)
			subtotal = subtotal.Add(item.Product.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
		}
		if len(shortfalls) > 0 {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "insufficient stock").
				WithDetails(shortfalls)
		}

		total, _, err := s.promos.ApplyDiscount(ctx, s.clock(), subtotal)
		if err != nil {
			return err
		}
		created.TotalAmount = total
		if err := orderRepo.Update(ctx, created); err != nil {
			return err
		}

		// the cart empties only if everything above committed
		if err := cartRepo.DeleteByUser(ctx, input.UserID); err != nil {
			return err
		}

		created.Items = lines
		order = created
		return nil
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

