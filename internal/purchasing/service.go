package purchasing

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/contentcreate/storefront-backend/internal/inventory"
	"github.com/contentcreate/storefront-backend/pkg/db"
	"github.com/contentcreate/storefront-backend/pkg/db/models"
	"github.com/contentcreate/storefront-backend/pkg/enums"
	pkgerrors "github.com/contentcreate/storefront-backend/pkg/errors"
)

const poNumberIndex = "idx_purchase_orders_po_number"

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// ProductFinder loads catalog rows purchase order lines refer to.
type ProductFinder interface {
	FindByID(ctx context.Context, productID uuid.UUID) (*models.Product, error)
}

// Service manages suppliers and the purchase order lifecycle. Draft POs are
// editable; ordered POs only accept receipts; receipts accumulate until
// every line is filled, which closes the PO.
type Service interface {
	CreateSupplier(ctx context.Context, input SupplierInput) (*models.Supplier, error)
	UpdateSupplier(ctx context.Context, supplierID uuid.UUID, input SupplierInput) (*models.Supplier, error)
	DeleteSupplier(ctx context.Context, supplierID uuid.UUID) error
	GetSupplier(ctx context.Context, supplierID uuid.UUID) (*models.Supplier, error)
	ListSuppliers(ctx context.Context) ([]models.Supplier, error)

	CreatePO(ctx context.Context, input CreatePOInput) (*models.PurchaseOrder, error)
	GetPO(ctx context.Context, poID uuid.UUID) (*models.PurchaseOrder, error)
	ListPOs(ctx context.Context, status *enums.PurchaseOrderStatus) ([]models.PurchaseOrder, error)
	AddItem(ctx context.Context, poID uuid.UUID, input ItemInput) (*models.PurchaseOrder, error)
	RemoveItem(ctx context.Context, poID, itemID uuid.UUID) (*models.PurchaseOrder, error)
	MarkOrdered(ctx context.Context, poID uuid.UUID) (*models.PurchaseOrder, error)
	Receive(ctx context.Context, poID uuid.UUID, input ReceiveInput) (*models.PurchaseOrder, error)
	CancelPO(ctx context.Context, poID uuid.UUID) (*models.PurchaseOrder, error)
	DeleteDraft(ctx context.Context, poID uuid.UUID) error
}

type service struct {
	repo       Repository
	products   ProductFinder
	stock      inventory.Service
	tx         txRunner
	numberFunc func() string
	clock      func() time.Time
}

// SupplierInput carries the writable supplier fields.
type SupplierInput struct {
	Name        string
	ContactName *string
	Email       *string
	Phone       *string
	Address     *string
	Notes       *string
}

// CreatePOInput opens a draft purchase order.
type CreatePOInput struct {
	SupplierID           uuid.UUID
	CreatedBy            uuid.UUID
	ExpectedDeliveryDate *time.Time
	Notes                *string
}

// ItemInput adds one product line to a draft purchase order.
type ItemInput struct {
	ProductID       uuid.UUID
	QuantityOrdered int
	UnitPrice       decimal.Decimal
}

// ReceiptLine records quantities delivered against one PO line.
type ReceiptLine struct {
	ItemID   uuid.UUID
	Quantity int
}

// ReceiveInput records one (possibly partial) delivery.
type ReceiveInput struct {
	Lines   []ReceiptLine
	ActorID *uuid.UUID
}

// Option tweaks optional service behavior.
type Option func(*service)

// WithNumberFunc overrides PO number generation, for tests.
func WithNumberFunc(fn func() string) Option {
	return func(s *service) {
		if fn != nil {
			s.numberFunc = fn
		}
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

// NewService wires the purchasing service with its collaborators.
func NewService(repo Repository, products ProductFinder, stock inventory.Service, tx txRunner, opts ...Option) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("purchasing repository required")
	}
	if products == nil {
		return nil, fmt.Errorf("product finder required")
	}
	if stock == nil {
		return nil, fmt.Errorf("inventory service required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}

	svc := &service{
		repo:       repo,
		products:   products,
		stock:      stock,
		tx:         tx,
		numberFunc: NewPONumber,
		clock:      time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(svc)
		}
	}
	return svc, nil
}

// NewPONumber produces a purchase order number.
func NewPONumber() string {
	raw := uuid.New()
	return "PO-" + strings.ToUpper(fmt.Sprintf("%x", raw[:4]))
}

func (i SupplierInput) validate() error {
	if strings.TrimSpace(i.Name) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "supplier name is required")
	}
	return nil
}

func (s *service) CreateSupplier(ctx context.Context, input SupplierInput) (*models.Supplier, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	supplier := &models.Supplier{
		Name:        strings.TrimSpace(input.Name),
		ContactName: input.ContactName,
		Email:       input.Email,
		Phone:       input.Phone,
		Address:     input.Address,
		Notes:       input.Notes,
	}
	if err := s.repo.CreateSupplier(ctx, supplier); err != nil {
		return nil, err
	}
	return supplier, nil
}

func (s *service) UpdateSupplier(ctx context.Context, supplierID uuid.UUID, input SupplierInput) (*models.Supplier, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	supplier, err := s.GetSupplier(ctx, supplierID)
	if err != nil {
		return nil, err
	}

	supplier.Name = strings.TrimSpace(input.Name)
	supplier.ContactName = input.ContactName
	supplier.Email = input.Email
	supplier.Phone = input.Phone
	supplier.Address = input.Address
	supplier.Notes = input.Notes

	if err := s.repo.UpdateSupplier(ctx, supplier); err != nil {
		return nil, err
	}
	return supplier, nil
}

func (s *service) DeleteSupplier(ctx context.Context, supplierID uuid.UUID) error {
	if _, err := s.GetSupplier(ctx, supplierID); err != nil {
		return err
	}

	pos, err := s.repo.ListPOs(ctx, nil)
	if err != nil {
		return err
	}
	for _, po := range pos {
		if po.SupplierID == supplierID && po.Status != enums.PurchaseOrderStatusCancelled {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "supplier has purchase orders")
		}
	}
	return s.repo.DeleteSupplier(ctx, supplierID)
}

func (s *service) GetSupplier(ctx context.Context, supplierID uuid.UUID) (*models.Supplier, error) {
	if supplierID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "supplier id is required")
	}
	supplier, err := s.repo.FindSupplier(ctx, supplierID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "supplier not found")
		}
		return nil, err
	}
	return supplier, nil
}

func (s *service) ListSuppliers(ctx context.Context) ([]models.Supplier, error) {
	return s.repo.ListSuppliers(ctx)
}

func (s *service) CreatePO(ctx context.Context, input CreatePOInput) (*models.PurchaseOrder, error) {
	if input.CreatedBy == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "creator id is required")
	}
	if _, err := s.GetSupplier(ctx, input.SupplierID); err != nil {
		return nil, err
	}

	po := &models.PurchaseOrder{
		PONumber:             s.numberFunc(),
		SupplierID:           input.SupplierID,
		Status:               enums.PurchaseOrderStatusDraft,
		ExpectedDeliveryDate: input.ExpectedDeliveryDate,
		Notes:                input.Notes,
		CreatedBy:            input.CreatedBy,
		TotalAmount:          decimal.Zero,
	}
	err := s.repo.CreatePO(ctx, po)
	if db.IsUniqueViolation(err, poNumberIndex) {
		po.PONumber = s.numberFunc()
		err = s.repo.CreatePO(ctx, po)
	}
	if err != nil {
		return nil, err
	}
	return po, nil
}

func (s *service) GetPO(ctx context.Context, poID uuid.UUID) (*models.PurchaseOrder, error) {
	if poID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "purchase order id is required")
	}
	po, err := s.repo.FindPO(ctx, poID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "purchase order not found")
		}
		return nil, err
	}
	return po, nil
}

func (s *service) ListPOs(ctx context.Context, status *enums.PurchaseOrderStatus) ([]models.PurchaseOrder, error) {
	if status != nil && !status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid purchase order status %q", *status))
	}
	return s.repo.ListPOs(ctx, status)
}

func (s *service) AddItem(ctx context.Context, poID uuid.UUID, input ItemInput) (*models.PurchaseOrder, error) {
	if input.ProductID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	if input.QuantityOrdered < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity ordered must be at least 1")
	}
	if input.UnitPrice.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unit price must not be negative")
	}

	po, err := s.GetPO(ctx, poID)
	if err != nil {
		return nil, err
	}
	if po.Status != enums.PurchaseOrderStatusDraft {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "only draft purchase orders accept new items")
	}
	for _, item := range po.Items {
		if item.ProductID == input.ProductID {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "product already on this purchase order")
		}
	}
	if _, err := s.products.FindByID(ctx, input.ProductID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, err
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := repo.CreateItem(ctx, &models.PurchaseOrderItem{
			PurchaseOrderID: poID,
			ProductID:       input.ProductID,
			QuantityOrdered: input.QuantityOrdered,
			UnitPrice:       input.UnitPrice,
		}); err != nil {
			return err
		}
		return s.recomputeTotal(ctx, repo, poID)
	})
	if err != nil {
		return nil, err
	}
	return s.GetPO(ctx, poID)
}

func (s *service) RemoveItem(ctx context.Context, poID, itemID uuid.UUID) (*models.PurchaseOrder, error) {
	po, err := s.GetPO(ctx, poID)
	if err != nil {
		return nil, err
	}
	if po.Status != enums.PurchaseOrderStatusDraft {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "only draft purchase orders can drop items")
	}

	found := false
	for _, item := range po.Items {
		if item.ID == itemID {
			found = true
			break
		}
	}
	if !found {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "purchase order item not found")
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := repo.DeleteItem(ctx, itemID); err != nil {
			return err
		}
		return s.recomputeTotal(ctx, repo, poID)
	})
	if err != nil {
		return nil, err
	}
	return s.GetPO(ctx, poID)
}

func (s *service) MarkOrdered(ctx context.Context, poID uuid.UUID) (*models.PurchaseOrder, error) {
	po, err := s.GetPO(ctx, poID)
	if err != nil {
		return nil, err
	}
	if po.Status != enums.PurchaseOrderStatusDraft {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "only draft purchase orders can be placed")
	}
	if len(po.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "purchase order has no items")
	}

	now := s.clock()
	po.Status = enums.PurchaseOrderStatusOrdered
	po.OrderDate = &now
	if err := s.repo.UpdatePO(ctx, po); err != nil {
		return nil, err
	}
	return po, nil
}

func (s *service) Receive(ctx context.Context, poID uuid.UUID, input ReceiveInput) (*models.PurchaseOrder, error) {
	if len(input.Lines) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "receipt lines are required")
	}

	// Lines naming the same item are one combined delivery; zero-quantity
	// lines are untouched rows on the receipt form and carry nothing.
	delivered := make(map[uuid.UUID]int, len(input.Lines))
	receiptOrder := make([]uuid.UUID, 0, len(input.Lines))
	for _, line := range input.Lines {
		if line.Quantity < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "receipt quantity cannot be negative")
		}
		if line.Quantity == 0 {
			continue
		}
		if _, seen := delivered[line.ItemID]; !seen {
			receiptOrder = append(receiptOrder, line.ItemID)
		}
		delivered[line.ItemID] += line.Quantity
	}

	po, err := s.GetPO(ctx, poID)
	if err != nil {
		return nil, err
	}
	if po.Status != enums.PurchaseOrderStatusOrdered {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "only ordered purchase orders accept receipts")
	}
	if len(delivered) == 0 {
		return po, nil
	}

	itemsByID := make(map[uuid.UUID]*models.PurchaseOrderItem, len(po.Items))
	for i := range po.Items {
		itemsByID[po.Items[i].ID] = &po.Items[i]
	}

	// reject the whole receipt before touching stock
	for _, itemID := range receiptOrder {
		item, ok := itemsByID[itemID]
		if !ok {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "purchase order item not found")
		}
		if item.QuantityReceived+delivered[itemID] > item.QuantityOrdered {
			return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "receipt exceeds quantity ordered").
				WithDetails(map[string]any{
					"item_id":   item.ID,
					"ordered":   item.QuantityOrdered,
					"received":  item.QuantityReceived,
					"delivered": delivered[itemID],
				})
		}
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		for _, itemID := range receiptOrder {
			item := itemsByID[itemID]
			item.QuantityReceived += delivered[itemID]
			if err := repo.UpdateItem(ctx, item); err != nil {
				return err
			}
			if _, err := s.stock.ApplyChange(ctx, tx, inventory.ChangeInput{
				ProductID:      item.ProductID,
				QuantityChange: delivered[itemID],
				Reason:         enums.StockReasonPurchaseOrder,
				Reference:      &po.PONumber,
				ActorID:        input.ActorID,
			}); err != nil {
				return err
			}
		}

		complete := true
		for i := range po.Items {
			if po.Items[i].QuantityReceived < po.Items[i].QuantityOrdered {
				complete = false
				break
			}
		}
		if complete {
			now := s.clock()
			po.Status = enums.PurchaseOrderStatusReceived
			po.DeliveryDate = &now
			return repo.UpdatePO(ctx, po)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.GetPO(ctx, poID)
}

func (s *service) CancelPO(ctx context.Context, poID uuid.UUID) (*models.PurchaseOrder, error) {
	po, err := s.GetPO(ctx, poID)
	if err != nil {
		return nil, err
	}
	switch po.Status {
	case enums.PurchaseOrderStatusCancelled:
		return po, nil
	case enums.PurchaseOrderStatusReceived:
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "received purchase orders cannot be cancelled")
	}
	for _, item := range po.Items {
		if item.QuantityReceived > 0 {
			return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "purchase orders with receipts cannot be cancelled")
		}
	}

	po.Status = enums.PurchaseOrderStatusCancelled
	if err := s.repo.UpdatePO(ctx, po); err != nil {
		return nil, err
	}
	return po, nil
}

func (s *service) DeleteDraft(ctx context.Context, poID uuid.UUID) error {
	po, err := s.GetPO(ctx, poID)
	if err != nil {
		return err
	}
	if po.Status != enums.PurchaseOrderStatusDraft {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "only draft purchase orders can be deleted")
	}
	return s.repo.DeletePO(ctx, poID)
}

// recomputeTotal rebuilds TotalAmount from the item rows inside tx.
func (s *service) recomputeTotal(ctx context.Context, repo Repository, poID uuid.UUID) error {
	po, err := repo.FindPO(ctx, poID)
	if err != nil {
		return err
	}
	total := decimal.Zero
	for _, item := range po.Items {
		total = total.Add(item.UnitPrice.Mul(decimal.NewFromInt(int64(item.QuantityOrdered))))
	}
	po.TotalAmount = total
	return repo.UpdatePO(ctx, po)
}
