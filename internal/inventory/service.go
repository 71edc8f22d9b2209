package inventory

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/contentcreate/storefront-backend/pkg/db/models"
	"github.com/contentcreate/storefront-backend/pkg/enums"
	pkgerrors "github.com/contentcreate/storefront-backend/pkg/errors"
	"github.com/contentcreate/storefront-backend/pkg/logger"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service is the single write path for product stock. Every mutation locks
// the product row, applies the delta, and appends a log entry in the same
// transaction.
type Service interface {
	Adjust(ctx context.Context, input AdjustmentInput) (*models.InventoryLog, error)
	ApplyChange(ctx context.Context, tx *gorm.DB, input ChangeInput) (*models.InventoryLog, error)
	History(ctx context.Context, productID uuid.UUID, limit int) ([]models.InventoryLog, error)
	LowStock(ctx context.Context) ([]models.Product, error)
}

type service struct {
	repo Repository
	tx   txRunner
	logg *logger.Logger
}

// AdjustmentInput captures a manual stock correction made by staff.
type AdjustmentInput struct {
	ProductID      uuid.UUID
	QuantityChange int
	Reason         enums.StockReason
	Reference      *string
	ActorID        *uuid.UUID
}

// ChangeInput is the low-level delta applied inside a caller's transaction.
type ChangeInput struct {
	ProductID      uuid.UUID
	QuantityChange int
	Reason         enums.StockReason
	Reference      *string
	ActorID        *uuid.UUID

	// AllowNegative permits the resulting stock to drop below zero. Only
	// manual adjustments set this; sale and receipt paths never do.
	AllowNegative bool
}

// ShortfallDetail reports how far a requested decrement overshoots stock.
type ShortfallDetail struct {
	ProductID uuid.UUID `json:"product_id"`
	Requested int       `json:"requested"`
	Available int       `json:"available"`
}

// NewService wires the stock engine with its repository and transaction runner.
func NewService(repo Repository, tx txRunner, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("inventory repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{repo: repo, tx: tx, logg: logg}, nil
}

func (s *service) Adjust(ctx context.Context, input AdjustmentInput) (*models.InventoryLog, error) {
	if input.ProductID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	if input.QuantityChange == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity change must be non-zero")
	}
	if !input.Reason.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid stock reason %q", input.Reason))
	}
	if input.Reason == enums.StockReasonOrder || input.Reason == enums.StockReasonPurchaseOrder {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order and purchase order movements are recorded by their own flows")
	}

	var entry *models.InventoryLog
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		created, txErr := s.ApplyChange(ctx, tx, ChangeInput{
			ProductID:      input.ProductID,
			QuantityChange: input.QuantityChange,
			Reason:         input.Reason,
			Reference:      input.Reference,
			ActorID:        input.ActorID,
			AllowNegative:  input.Reason == enums.StockReasonAdjustment,
		})
		if txErr != nil {
			return txErr
		}
		entry = created
		return nil
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

func (s *service) ApplyChange(ctx context.Context, tx *gorm.DB, input ChangeInput) (*models.InventoryLog, error) {
	if tx == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "stock changes require a transaction")
	}
	if input.ProductID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	if !input.Reason.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid stock reason %q", input.Reason))
	}

	repo := s.repo.WithTx(tx)

	product, err := repo.FindProductForUpdate(ctx, input.ProductID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, err
	}

	previous := product.Stock
	next := previous + input.QuantityChange
	if next < 0 && !input.AllowNegative {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "insufficient stock").
			WithDetails(ShortfallDetail{
				ProductID: input.ProductID,
				Requested: -input.QuantityChange,
				Available: previous,
			})
	}

	if err := repo.SaveStock(ctx, input.ProductID, next); err != nil {
		return nil, err
	}

	entry := &models.InventoryLog{
		ProductID:      input.ProductID,
		QuantityChange: input.QuantityChange,
		PreviousStock:  previous,
		NewStock:       next,
		Reason:         input.Reason,
		Reference:      input.Reference,
		ActorID:        input.ActorID,
	}
	if err := repo.CreateLog(ctx, entry); err != nil {
		return nil, err
	}

	if next < 0 {
		warnCtx := s.logg.WithFields(ctx, map[string]any{
			"product_id": input.ProductID.String(),
			"new_stock":  next,
		})
		s.logg.Warn(warnCtx, "stock adjusted below zero")
	}

	return entry, nil
}

func (s *service) History(ctx context.Context, productID uuid.UUID, limit int) ([]models.InventoryLog, error) {
	if productID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	return s.repo.ListLogsByProduct(ctx, productID, limit)
}

func (s *service) LowStock(ctx context.Context) ([]models.Product, error) {
	return s.repo.ListLowStock(ctx)
}
