package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/contentcreate/storefront-backend/pkg/db/models"
	"github.com/contentcreate/storefront-backend/pkg/enums"
	pkgerrors "github.com/contentcreate/storefront-backend/pkg/errors"
)

// ProductFinder loads catalog rows the cart validates against.
type ProductFinder interface {
	FindByID(ctx context.Context, productID uuid.UUID) (*models.Product, error)
}

// Service manages a user's cart. Adding a product already in the cart
// increments the existing line instead of creating a second row.
type Service interface {
	Add(ctx context.Context, userID, productID uuid.UUID, quantity int) (*models.CartItem, error)
	UpdateQuantity(ctx context.Context, userID, productID uuid.UUID, quantity int) (*models.CartItem, error)
	Remove(ctx context.Context, userID, productID uuid.UUID) error
	List(ctx context.Context, userID uuid.UUID) (*Summary, error)
	Clear(ctx context.Context, userID uuid.UUID) error
	Count(ctx context.Context, userID uuid.UUID) (int, error)
}

type service struct {
	repo     Repository
	products ProductFinder
}

// Line is one cart row joined with its product and extended price.
type Line struct {
	Item      models.CartItem `json:"item"`
	LineTotal decimal.Decimal `json:"line_total"`
}

// Summary is the full cart with its running total.
type Summary struct {
	Lines     []Line          `json:"lines"`
	Subtotal  decimal.Decimal `json:"subtotal"`
	ItemCount int             `json:"item_count"`
}

// NewService wires the cart service with its dependencies.
func NewService(repo Repository, products ProductFinder) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if products == nil {
		return nil, fmt.Errorf("product finder required")
	}
	return &service{repo: repo, products: products}, nil
}

func (s *service) Add(ctx context.Context, userID, productID uuid.UUID, quantity int) (*models.CartItem, error) {
	if err := validateIDs(userID, productID); err != nil {
		return nil, err
	}
	if quantity < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}

	product, err := s.loadSellableProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	existing, err := s.repo.FindByUserAndProduct(ctx, userID, productID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	requested := quantity
	if existing != nil {
		requested += existing.Quantity
	}
	if requested > product.Stock {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "insufficient stock").
			WithDetails(map[string]any{
				"product_id": productID,
				"requested":  requested,
				"available":  product.Stock,
			})
	}

	if existing != nil {
		if err := s.repo.UpdateQuantity(ctx, existing.ID, requested); err != nil {
			return nil, err
		}
		existing.Quantity = requested
		return existing, nil
	}

	item := &models.CartItem{
		UserID:    userID,
		ProductID: productID,
		Quantity:  quantity,
	}
	if err := s.repo.Create(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *service) UpdateQuantity(ctx context.Context, userID, productID uuid.UUID, quantity int) (*models.CartItem, error) {
	if err := validateIDs(userID, productID); err != nil {
		return nil, err
	}
	if quantity < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}

	product, err := s.loadSellableProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	if quantity > product.Stock {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "insufficient stock").
			WithDetails(map[string]any{
				"product_id": productID,
				"requested":  quantity,
				"available":  product.Stock,
			})
	}

	item, err := s.repo.FindByUserAndProduct(ctx, userID, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not in cart")
		}
		return nil, err
	}

	if err := s.repo.UpdateQuantity(ctx, item.ID, quantity); err != nil {
		return nil, err
	}
	item.Quantity = quantity
	return item, nil
}

func (s *service) Remove(ctx context.Context, userID, productID uuid.UUID) error {
	if err := validateIDs(userID, productID); err != nil {
		return err
	}

	item, err := s.repo.FindByUserAndProduct(ctx, userID, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "product not in cart")
		}
		return err
	}
	return s.repo.Delete(ctx, item.ID)
}

func (s *service) List(ctx context.Context, userID uuid.UUID) (*Summary, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}

	items, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	summary := &Summary{
		Lines:    make([]Line, 0, len(items)),
		Subtotal: decimal.Zero,
	}
	for _, item := range items {
		lineTotal := decimal.Zero
		if item.Product != nil {
			lineTotal = item.Product.Price.Mul(decimal.NewFromInt(int64(item.Quantity)))
		}
		summary.Lines = append(summary.Lines, Line{Item: item, LineTotal: lineTotal})
		summary.Subtotal = summary.Subtotal.Add(lineTotal)
		summary.ItemCount += item.Quantity
	}
	return summary, nil
}

func (s *service) Clear(ctx context.Context, userID uuid.UUID) error {
	if userID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	return s.repo.DeleteByUser(ctx, userID)
}

func (s *service) Count(ctx context.Context, userID uuid.UUID) (int, error) {
	if userID == uuid.Nil {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	return s.repo.CountByUser(ctx, userID)
}

func (s *service) loadSellableProduct(ctx context.Context, productID uuid.UUID) (*models.Product, error) {
	product, err := s.products.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, err
	}
	if product.ApprovalStatus != enums.ApprovalStatusApproved {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "product is not available for purchase")
	}
	return product, nil
}

func validateIDs(userID, productID uuid.UUID) error {
	if userID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	if productID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	return nil
}
