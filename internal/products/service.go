package products

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/contentcreate/storefront-backend/pkg/db"
	"github.com/contentcreate/storefront-backend/pkg/db/models"
	"github.com/contentcreate/storefront-backend/pkg/enums"
	pkgerrors "github.com/contentcreate/storefront-backend/pkg/errors"
	"github.com/contentcreate/storefront-backend/pkg/pagination"
)

// Service manages the product catalog. Stock is intentionally absent from
// UpsertInput; stock moves only through the inventory service.
type Service interface {
	Create(ctx context.Context, input UpsertInput) (*models.Product, error)
	Update(ctx context.Context, productID uuid.UUID, input UpsertInput) (*models.Product, error)
	Delete(ctx context.Context, productID uuid.UUID) error
	Get(ctx context.Context, productID uuid.UUID) (*models.Product, error)
	FindByID(ctx context.Context, productID uuid.UUID) (*models.Product, error)
	List(ctx context.Context, filter ListFilter, params pagination.Params) (*Page, error)
	Categories(ctx context.Context) ([]string, error)
	SetApproval(ctx context.Context, productID uuid.UUID, status enums.ApprovalStatus) (*models.Product, error)
}

type service struct {
	repo Repository
}

// UpsertInput carries the writable catalog fields.
type UpsertInput struct {
	Name              string
	Description       string
	Price             decimal.Decimal
	LowStockThreshold *int
	SKU               *string
	ImageURL          *string
	Category          string
	Brand             *string
	Model             *string
	Specifications    json.RawMessage
	WarrantyMonths    *int
	Compatibility     pq.StringArray
	Condition         enums.ProductCondition
	SellerID          *uuid.UUID
	SellerCommission  *decimal.Decimal
}

// Page is one listing page plus the cursor for the next one.
type Page struct {
	Products   []models.Product `json:"products"`
	NextCursor string           `json:"next_cursor,omitempty"`
}

// NewService wires a catalog service with the provided repository.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("products repository required")
	}
	return &service{repo: repo}, nil
}

func (i UpsertInput) validate() error {
	if i.Name == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if i.Category == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "category is required")
	}
	if i.Price.IsNegative() {
		return pkgerrors.New(pkgerrors.CodeValidation, "price must not be negative")
	}
	if i.Condition != "" && !i.Condition.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid product condition %q", i.Condition))
	}
	if i.LowStockThreshold != nil && *i.LowStockThreshold < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "low stock threshold must not be negative")
	}
	return nil
}

func (s *service) Create(ctx context.Context, input UpsertInput) (*models.Product, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	product := &models.Product{
		Name:             input.Name,
		Description:      input.Description,
		Price:            input.Price,
		SKU:              input.SKU,
		ImageURL:         input.ImageURL,
		Category:         input.Category,
		Brand:            input.Brand,
		Model:            input.Model,
		Specifications:   input.Specifications,
		WarrantyMonths:   input.WarrantyMonths,
		Compatibility:    input.Compatibility,
		Condition:        enums.ProductConditionNew,
		SellerID:         input.SellerID,
		SellerCommission: input.SellerCommission,
		ApprovalStatus:   enums.ApprovalStatusApproved,
	}
	if input.Condition != "" {
		product.Condition = input.Condition
	}
	if input.LowStockThreshold != nil {
		product.LowStockThreshold = *input.LowStockThreshold
	} else {
		product.LowStockThreshold = 5
	}
	// listings from marketplace sellers wait for review
	if input.SellerID != nil {
		product.ApprovalStatus = enums.ApprovalStatusPending
	}

	if err := s.repo.Create(ctx, product); err != nil {
		if db.IsUniqueViolation(err, "idx_products_sku") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "sku already in use")
		}
		return nil, err
	}
	return product, nil
}

func (s *service) Update(ctx context.Context, productID uuid.UUID, input UpsertInput) (*models.Product, error) {
	if productID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	if err := input.validate(); err != nil {
		return nil, err
	}

	product, err := s.Get(ctx, productID)
	if err != nil {
		return nil, err
	}

	product.Name = input.Name
	product.Description = input.Description
	product.Price = input.Price
	product.SKU = input.SKU
	product.ImageURL = input.ImageURL
	product.Category = input.Category
	product.Brand = input.Brand
	product.Model = input.Model
	product.Specifications = input.Specifications
	product.WarrantyMonths = input.WarrantyMonths
	product.Compatibility = input.Compatibility
	if input.Condition != "" {
		product.Condition = input.Condition
	}
	if input.LowStockThreshold != nil {
		product.LowStockThreshold = *input.LowStockThreshold
	}
	product.SellerCommission = input.SellerCommission

	if err := s.repo.Update(ctx, product); err != nil {
		if db.IsUniqueViolation(err, "idx_products_sku") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "sku already in use")
		}
		return nil, err
	}
	return product, nil
}

func (s *service) Delete(ctx context.Context, productID uuid.UUID) error {
	if productID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	if _, err := s.Get(ctx, productID); err != nil {
		return err
	}
	return s.repo.Delete(ctx, productID)
}

func (s *service) Get(ctx context.Context, productID uuid.UUID) (*models.Product, error) {
	product, err := s.repo.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, err
	}
	return product, nil
}

// FindByID satisfies the lookup interfaces other services depend on.
func (s *service) FindByID(ctx context.Context, productID uuid.UUID) (*models.Product, error) {
	return s.repo.FindByID(ctx, productID)
}

func (s *service) List(ctx context.Context, filter ListFilter, params pagination.Params) (*Page, error) {
	rows, err := s.repo.List(ctx, filter, params)
	if err != nil {
		return nil, err
	}

	limit := pagination.NormalizeLimit(params.Limit)
	page := &Page{Products: rows}
	if len(rows) > limit {
		page.Products = rows[:limit]
		last := page.Products[limit-1]
		page.NextCursor = pagination.EncodeCursor(pagination.Cursor{
			CreatedAt: last.CreatedAt,
			ID:        last.ID,
		})
	}
	return page, nil
}

func (s *service) Categories(ctx context.Context) ([]string, error) {
	return s.repo.Categories(ctx)
}

func (s *service) SetApproval(ctx context.Context, productID uuid.UUID, status enums.ApprovalStatus) (*models.Product, error) {
	if !status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid approval status %q", status))
	}

	product, err := s.Get(ctx, productID)
	if err != nil {
		return nil, err
	}

	product.ApprovalStatus = status
	if err := s.repo.Update(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}
