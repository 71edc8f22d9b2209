package controllers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/contentcreate/storefront-backend/api/responses"
	"github.com/contentcreate/storefront-backend/api/validators"
	purchasingsvc "github.com/contentcreate/storefront-backend/internal/purchasing"
	"github.com/contentcreate/storefront-backend/pkg/enums"
	pkgerrors "github.com/contentcreate/storefront-backend/pkg/errors"
	"github.com/contentcreate/storefront-backend/pkg/logger"
)

type supplierRequest struct {
	Name        string  `json:"name" validate:"required"`
	ContactName *string `json:"contact_name,omitempty"`
	Email       *string `json:"email,omitempty" validate:"omitempty,email"`
	Phone       *string `json:"phone,omitempty"`
	Address     *string `json:"address,omitempty"`
	Notes       *string `json:"notes,omitempty"`
}

func (s supplierRequest) toInput() purchasingsvc.SupplierInput {
	return purchasingsvc.SupplierInput{
		Name:        s.Name,
		ContactName: s.ContactName,
		Email:       s.Email,
		Phone:       s.Phone,
		Address:     s.Address,
		Notes:       s.Notes,
	}
}

type createPORequest struct {
	SupplierID           string     `json:"supplier_id" validate:"required,uuid"`
	ExpectedDeliveryDate *time.Time `json:"expected_delivery_date,omitempty"`
	Notes                *string    `json:"notes,omitempty"`
}

type poItemRequest struct {
	ProductID       string `json:"product_id" validate:"required,uuid"`
	QuantityOrdered int    `json:"quantity_ordered" validate:"required,min=1"`
	UnitPrice       string `json:"unit_price" validate:"required"`
}

// Quantity zero marks an untouched line on the receipt form.
type receiptLineRequest struct {
	ItemID   string `json:"item_id" validate:"required,uuid"`
	Quantity int    `json:"quantity" validate:"min=0"`
}

type receiveRequest struct {
	Lines []receiptLineRequest `json:"lines" validate:"required,min=1,dive"`
}

// SupplierList returns every supplier.
func SupplierList(svc purchasingsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		suppliers, err := svc.ListSuppliers(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, suppliers)
	}
}

// SupplierDetail returns one supplier.
func SupplierDetail(svc purchasingsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		supplierID, err := pathUUID(r, "supplier id", chi.URLParam(r, "supplierId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		supplier, err := svc.GetSupplier(r.Context(), supplierID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, supplier)
	}
}

// SupplierCreate registers a supplier.
func SupplierCreate(svc purchasingsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload supplierRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		supplier, err := svc.CreateSupplier(r.Context(), payload.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, supplier)
	}
}

// SupplierUpdate edits a supplier.
func SupplierUpdate(svc purchasingsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		supplierID, err := pathUUID(r, "supplier id", chi.URLParam(r, "supplierId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var payload supplierRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		supplier, err := svc.UpdateSupplier(r.Context(), supplierID, payload.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, supplier)
	}
}

// SupplierDelete removes a supplier without open purchase orders.
func SupplierDelete(svc purchasingsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		supplierID, err := pathUUID(r, "supplier id", chi.URLParam(r, "supplierId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.DeleteSupplier(r.Context(), supplierID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

// PurchaseOrderList returns purchase orders, optionally filtered by status.
func PurchaseOrderList(svc purchasingsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var status *enums.PurchaseOrderStatus
		if raw := r.URL.Query().Get("status"); raw != "" {
			parsed := enums.PurchaseOrderStatus(raw)
			if !parsed.IsValid() {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid purchase order status"))
				return
			}
			status = &parsed
		}
		orders, err := svc.ListPOs(r.Context(), status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, orders)
	}
}

// PurchaseOrderDetail returns one purchase order with its lines.
func PurchaseOrderDetail(svc purchasingsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		poID, err := pathUUID(r, "purchase order id", chi.URLParam(r, "poId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		order, err := svc.GetPO(r.Context(), poID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}

// PurchaseOrderCreate opens a draft purchase order.
func PurchaseOrderCreate(svc purchasingsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := currentUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var payload createPORequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		supplierID, err := pathUUID(r, "supplier id", payload.SupplierID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		order, err := svc.CreatePO(r.Context(), purchasingsvc.CreatePOInput{
			SupplierID:           supplierID,
			CreatedBy:            userID,
			ExpectedDeliveryDate: payload.ExpectedDeliveryDate,
			Notes:                payload.Notes,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, order)
	}
}

// PurchaseOrderAddItem adds one product line to a draft.
func PurchaseOrderAddItem(svc purchasingsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		poID, err := pathUUID(r, "purchase order id", chi.URLParam(r, "poId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var payload poItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		productID, err := pathUUID(r, "product id", payload.ProductID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		unitPrice, err := decimal.NewFromString(payload.UnitPrice)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "unit_price must be a decimal string"))
			return
		}
		order, err := svc.AddItem(r.Context(), poID, purchasingsvc.ItemInput{
			ProductID:       productID,
			QuantityOrdered: payload.QuantityOrdered,
			UnitPrice:       unitPrice,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}

// PurchaseOrderRemoveItem drops one line from a draft.
func PurchaseOrderRemoveItem(svc purchasingsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		poID, err := pathUUID(r, "purchase order id", chi.URLParam(r, "poId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		itemID, err := pathUUID(r, "item id", chi.URLParam(r, "itemId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		order, err := svc.RemoveItem(r.Context(), poID, itemID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}

// PurchaseOrderMarkOrdered sends a draft to its supplier.
func PurchaseOrderMarkOrdered(svc purchasingsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		poID, err := pathUUID(r, "purchase order id", chi.URLParam(r, "poId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		order, err := svc.MarkOrdered(r.Context(), poID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}

// PurchaseOrderReceive records a full or partial delivery.
func PurchaseOrderReceive(svc purchasingsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := currentUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		poID, err := pathUUID(r, "purchase order id", chi.URLParam(r, "poId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var payload receiveRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		input := purchasingsvc.ReceiveInput{ActorID: &userID}
		for _, line := range payload.Lines {
			itemID, lineErr := pathUUID(r, "item id", line.ItemID)
			if lineErr != nil {
				responses.WriteError(r.Context(), logg, w, lineErr)
				return
			}
			input.Lines = append(input.Lines, purchasingsvc.ReceiptLine{ItemID: itemID, Quantity: line.Quantity})
		}
		order, err := svc.Receive(r.Context(), poID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}

// PurchaseOrderCancel cancels an order that has received nothing.
func PurchaseOrderCancel(svc purchasingsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		poID, err := pathUUID(r, "purchase order id", chi.URLParam(r, "poId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		order, err := svc.CancelPO(r.Context(), poID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}

// PurchaseOrderDelete removes a draft.
func PurchaseOrderDelete(svc purchasingsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		poID, err := pathUUID(r, "purchase order id", chi.URLParam(r, "poId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.DeleteDraft(r.Context(), poID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}
