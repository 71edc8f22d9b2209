package controllers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/contentcreate/storefront-backend/api/responses"
	"github.com/contentcreate/storefront-backend/api/validators"
	productsvc "github.com/contentcreate/storefront-backend/internal/products"
	"github.com/contentcreate/storefront-backend/pkg/enums"
	pkgerrors "github.com/contentcreate/storefront-backend/pkg/errors"
	"github.com/contentcreate/storefront-backend/pkg/logger"
	"github.com/contentcreate/storefront-backend/pkg/pagination"
)

type productRequest struct {
	Name              string          `json:"name" validate:"required"`
	Description       string          `json:"description" validate:"required"`
	Price             string          `json:"price" validate:"required"`
	LowStockThreshold *int            `json:"low_stock_threshold,omitempty"`
	SKU               *string         `json:"sku,omitempty"`
	ImageURL          *string         `json:"image_url,omitempty"`
	Category          string          `json:"category" validate:"required"`
	Brand             *string         `json:"brand,omitempty"`
	Model             *string         `json:"model,omitempty"`
	Specifications    json.RawMessage `json:"specifications,omitempty"`
	WarrantyMonths    *int            `json:"warranty_months,omitempty"`
	Compatibility     []string        `json:"compatibility,omitempty"`
	Condition         string          `json:"condition,omitempty"`
	SellerCommission  *string         `json:"seller_commission,omitempty"`
}

func (p productRequest) toInput(sellerID *uuid.UUID) (productsvc.UpsertInput, error) {
	price, err := decimal.NewFromString(strings.TrimSpace(p.Price))
	if err != nil {
		return productsvc.UpsertInput{}, pkgerrors.New(pkgerrors.CodeValidation, "price must be a decimal string")
	}
	input := productsvc.UpsertInput{
		Name:              p.Name,
		Description:       p.Description,
		Price:             price,
		LowStockThreshold: p.LowStockThreshold,
		SKU:               p.SKU,
		ImageURL:          p.ImageURL,
		Category:          p.Category,
		Brand:             p.Brand,
		Model:             p.Model,
		Specifications:    p.Specifications,
		WarrantyMonths:    p.WarrantyMonths,
		Compatibility:     pq.StringArray(p.Compatibility),
		SellerID:          sellerID,
	}
	if p.Condition != "" {
		input.Condition = enums.ProductCondition(p.Condition)
	}
	if p.SellerCommission != nil {
		commission, err := decimal.NewFromString(*p.SellerCommission)
		if err != nil {
			return productsvc.UpsertInput{}, pkgerrors.New(pkgerrors.CodeValidation, "seller_commission must be a decimal string")
		}
		input.SellerCommission = &commission
	}
	return input, nil
}

// ProductList serves the public catalog with filters and cursor pagination.
func ProductList(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, err := validators.ParseQueryInt(r, "limit", 0, 0, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		approved := enums.ApprovalStatusApproved
		filter := productsvc.ListFilter{
			Category:       validators.SanitizeString(r.URL.Query().Get("category"), 80),
			Search:         validators.SanitizeString(r.URL.Query().Get("search"), 120),
			ApprovalStatus: &approved,
		}
		page, err := svc.List(r.Context(), filter, pagination.Params{
			Limit:  limit,
			Cursor: r.URL.Query().Get("cursor"),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, page)
	}
}

// ProductDetail serves one catalog entry.
func ProductDetail(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, err := pathUUID(r, "product id", chi.URLParam(r, "productId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		product, err := svc.Get(r.Context(), productID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, product)
	}
}

// ProductCategories lists the distinct categories in the catalog.
func ProductCategories(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		categories, err := svc.Categories(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, categories)
	}
}

// ProductCreate adds a catalog entry on behalf of the admin panel.
func ProductCreate(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload productRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		input, err := payload.toInput(nil)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		product, err := svc.Create(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, product)
	}
}

// SellerProductCreate adds a listing owned by the calling seller. It lands
// in pending approval.
func SellerProductCreate(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := currentUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var payload productRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		input, err := payload.toInput(&userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		product, err := svc.Create(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, product)
	}
}

// ProductUpdate edits a catalog entry. Stock is not editable here, the
// inventory endpoints own it.
func ProductUpdate(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, err := pathUUID(r, "product id", chi.URLParam(r, "productId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var payload productRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		input, err := payload.toInput(nil)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		product, err := svc.Update(r.Context(), productID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, product)
	}
}

// ProductDelete removes a catalog entry.
func ProductDelete(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, err := pathUUID(r, "product id", chi.URLParam(r, "productId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.Delete(r.Context(), productID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

// ProductApproval moves a listing through the review flow.
func ProductApproval(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, err := pathUUID(r, "product id", chi.URLParam(r, "productId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var payload struct {
			Status string `json:"status" validate:"required"`
		}
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		product, err := svc.SetApproval(r.Context(), productID, enums.ApprovalStatus(payload.Status))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, product)
	}
}
