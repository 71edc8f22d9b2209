package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/contentcreate/storefront-backend/api/controllers"
	"github.com/contentcreate/storefront-backend/api/middleware"
	authsvc "github.com/contentcreate/storefront-backend/internal/auth"
	cartsvc "github.com/contentcreate/storefront-backend/internal/cart"
	checkoutsvc "github.com/contentcreate/storefront-backend/internal/checkout"
	contentsvc "github.com/contentcreate/storefront-backend/internal/content"
	inventorysvc "github.com/contentcreate/storefront-backend/internal/inventory"
	ordersvc "github.com/contentcreate/storefront-backend/internal/orders"
	productsvc "github.com/contentcreate/storefront-backend/internal/products"
	promosvc "github.com/contentcreate/storefront-backend/internal/promotions"
	purchasingsvc "github.com/contentcreate/storefront-backend/internal/purchasing"
	rbacsvc "github.com/contentcreate/storefront-backend/internal/rbac"
	userssvc "github.com/contentcreate/storefront-backend/internal/users"
	"github.com/contentcreate/storefront-backend/pkg/auth/session"
	"github.com/contentcreate/storefront-backend/pkg/config"
	"github.com/contentcreate/storefront-backend/pkg/db"
	"github.com/contentcreate/storefront-backend/pkg/logger"
	"github.com/contentcreate/storefront-backend/pkg/metrics"
	"github.com/contentcreate/storefront-backend/pkg/redis"
)

// Deps bundles everything the router wires together. The list is long but
// explicit, so cmd/api reads as a single assembly site.
type Deps struct {
	Config      *config.Config
	Logger      *logger.Logger
	DB          db.Pinger
	Redis       *redis.Client
	Sessions    session.AccessSessionChecker
	HTTPMetrics *metrics.HTTPMetrics
	Registry    *prometheus.Registry

	Auth       authsvc.Service
	Users      userssvc.Service
	RBAC       rbacsvc.Service
	Products   productsvc.Service
	Inventory  inventorysvc.Service
	Cart       cartsvc.Service
	Checkout   checkoutsvc.Service
	Orders     ordersvc.Service
	Purchasing purchasingsvc.Service
	Promotions promosvc.Service
	Content    contentsvc.Service
}

func NewRouter(d Deps) http.Handler {
	cfg := d.Config
	logg := d.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg, d.HTTPMetrics),
		middleware.CORS(),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	)

	r.Get("/healthz", controllers.Healthz())
	r.Get("/readyz", controllers.Readyz(d.DB, d.Redis, logg))
	if d.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(d.Registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.With(middleware.AuthRateLimit(registerPolicy, d.Redis, logg)).Post("/register", controllers.Register(d.Auth, logg))
			r.With(middleware.AuthRateLimit(loginPolicy, d.Redis, logg)).Post("/login", controllers.Login(d.Auth, logg))
		})

		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.ProductList(d.Products, logg))
			r.Get("/categories", controllers.ProductCategories(d.Products, logg))
			r.Get("/{productId}", controllers.ProductDetail(d.Products, logg))
		})
		r.Get("/slides", controllers.ActiveSlides(d.Content, logg))
		r.Get("/promotions/active", controllers.ActivePromotion(d.Promotions, logg))
		r.Post("/orders/track", controllers.TrackOrder(d.Orders, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, d.Sessions, logg))

			r.Post("/auth/logout", controllers.Logout(d.Auth, logg))

			r.Route("/me", func(r chi.Router) {
				r.Get("/", controllers.Profile(d.Users, logg))
				r.Post("/seller-application", controllers.ApplyForSeller(d.Users, logg))
			})

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", controllers.CartFetch(d.Cart, logg))
				r.Get("/count", controllers.CartCount(d.Cart, logg))
				r.Post("/items", controllers.CartAdd(d.Cart, logg))
				r.Put("/items/{productId}", controllers.CartUpdate(d.Cart, logg))
				r.Delete("/items/{productId}", controllers.CartRemove(d.Cart, logg))
				r.Delete("/", controllers.CartClear(d.Cart, logg))
			})

			r.Post("/checkout", controllers.Checkout(d.Checkout, logg))

			r.Route("/orders", func(r chi.Router) {
				r.Get("/", controllers.MyOrders(d.Orders, logg))
				r.Get("/{orderId}", controllers.OrderDetail(d.Orders, logg))
				r.Post("/{orderId}/verify-payment", controllers.VerifyOrderPayment(d.Orders, logg))
				r.Post("/{orderId}/cancel", controllers.CancelMyOrder(d.Orders, logg))
			})

			r.Post("/seller/products", controllers.SellerProductCreate(d.Products, logg))
		})
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, d.Sessions, logg))

		r.Route("/products", func(r chi.Router) {
			r.With(middleware.RequirePermission(d.RBAC, "product_create", logg)).Post("/", controllers.ProductCreate(d.Products, logg))
			r.With(middleware.RequirePermission(d.RBAC, "product_update", logg)).Put("/{productId}", controllers.ProductUpdate(d.Products, logg))
			r.With(middleware.RequirePermission(d.RBAC, "product_delete", logg)).Delete("/{productId}", controllers.ProductDelete(d.Products, logg))
			r.With(middleware.RequirePermission(d.RBAC, "product_approve", logg)).Post("/{productId}/approval", controllers.ProductApproval(d.Products, logg))
		})

		r.Route("/inventory", func(r chi.Router) {
			r.With(middleware.RequirePermission(d.RBAC, "inventory_adjust", logg)).Post("/adjustments", controllers.StockAdjust(d.Inventory, logg))
			r.With(middleware.RequirePermission(d.RBAC, "inventory_read", logg)).Get("/products/{productId}/history", controllers.StockHistory(d.Inventory, logg))
			r.With(middleware.RequirePermission(d.RBAC, "inventory_read", logg)).Get("/low-stock", controllers.LowStock(d.Inventory, logg))
		})

		r.Route("/orders", func(r chi.Router) {
			r.Use(middleware.RequirePermission(d.RBAC, "order_read", logg))
			r.Get("/", controllers.AdminOrderList(d.Orders, logg))
			r.Get("/{orderId}", controllers.AdminOrderDetail(d.Orders, logg))
			r.With(middleware.RequirePermission(d.RBAC, "order_update", logg)).Put("/{orderId}/status", controllers.AdminOrderStatus(d.Orders, logg))
			r.With(middleware.RequirePermission(d.RBAC, "order_cancel", logg)).Post("/{orderId}/cancel", controllers.AdminOrderCancel(d.Orders, logg))
		})

		r.Route("/suppliers", func(r chi.Router) {
			r.With(middleware.RequirePermission(d.RBAC, "supplier_read", logg)).Get("/", controllers.SupplierList(d.Purchasing, logg))
			r.With(middleware.RequirePermission(d.RBAC, "supplier_read", logg)).Get("/{supplierId}", controllers.SupplierDetail(d.Purchasing, logg))
			r.With(middleware.RequirePermission(d.RBAC, "supplier_create", logg)).Post("/", controllers.SupplierCreate(d.Purchasing, logg))
			r.With(middleware.RequirePermission(d.RBAC, "supplier_update", logg)).Put("/{supplierId}", controllers.SupplierUpdate(d.Purchasing, logg))
			r.With(middleware.RequirePermission(d.RBAC, "supplier_delete", logg)).Delete("/{supplierId}", controllers.SupplierDelete(d.Purchasing, logg))
		})

		r.Route("/purchase-orders", func(r chi.Router) {
			r.With(middleware.RequirePermission(d.RBAC, "purchase_order_read", logg)).Get("/", controllers.PurchaseOrderList(d.Purchasing, logg))
			r.With(middleware.RequirePermission(d.RBAC, "purchase_order_read", logg)).Get("/{poId}", controllers.PurchaseOrderDetail(d.Purchasing, logg))
			r.With(middleware.RequirePermission(d.RBAC, "purchase_order_create", logg)).Post("/", controllers.PurchaseOrderCreate(d.Purchasing, logg))
			r.With(middleware.RequirePermission(d.RBAC, "purchase_order_update", logg)).Post("/{poId}/items", controllers.PurchaseOrderAddItem(d.Purchasing, logg))
			r.With(middleware.RequirePermission(d.RBAC, "purchase_order_update", logg)).Delete("/{poId}/items/{itemId}", controllers.PurchaseOrderRemoveItem(d.Purchasing, logg))
			r.With(middleware.RequirePermission(d.RBAC, "purchase_order_update", logg)).Post("/{poId}/mark-ordered", controllers.PurchaseOrderMarkOrdered(d.Purchasing, logg))
			r.With(middleware.RequirePermission(d.RBAC, "purchase_order_receive", logg)).Post("/{poId}/receive", controllers.PurchaseOrderReceive(d.Purchasing, logg))
			r.With(middleware.RequirePermission(d.RBAC, "purchase_order_cancel", logg)).Post("/{poId}/cancel", controllers.PurchaseOrderCancel(d.Purchasing, logg))
			r.With(middleware.RequirePermission(d.RBAC, "purchase_order_cancel", logg)).Delete("/{poId}", controllers.PurchaseOrderDelete(d.Purchasing, logg))
		})

		r.Route("/promotions", func(r chi.Router) {
			r.With(middleware.RequirePermission(d.RBAC, "promotion_read", logg)).Get("/", controllers.PromotionList(d.Promotions, logg))
			r.With(middleware.RequirePermission(d.RBAC, "promotion_create", logg)).Post("/", controllers.PromotionCreate(d.Promotions, logg))
			r.With(middleware.RequirePermission(d.RBAC, "promotion_update", logg)).Put("/{promotionId}", controllers.PromotionUpdate(d.Promotions, logg))
			r.With(middleware.RequirePermission(d.RBAC, "promotion_delete", logg)).Delete("/{promotionId}", controllers.PromotionDelete(d.Promotions, logg))
		})

		r.Route("/slides", func(r chi.Router) {
			r.With(middleware.RequirePermission(d.RBAC, "slide_read", logg)).Get("/", controllers.SlideList(d.Content, logg))
			r.With(middleware.RequirePermission(d.RBAC, "slide_create", logg)).Post("/", controllers.SlideCreate(d.Content, logg))
			r.With(middleware.RequirePermission(d.RBAC, "slide_update", logg)).Put("/{slideId}", controllers.SlideUpdate(d.Content, logg))
			r.With(middleware.RequirePermission(d.RBAC, "slide_delete", logg)).Delete("/{slideId}", controllers.SlideDelete(d.Content, logg))
		})

		r.Route("/users", func(r chi.Router) {
			r.With(middleware.RequirePermission(d.RBAC, "user_read", logg)).Get("/", controllers.UserList(d.Users, logg))
			r.With(middleware.RequirePermission(d.RBAC, "user_update", logg)).Put("/{userId}/seller-status", controllers.SellerStatusUpdate(d.Users, logg))
			r.With(middleware.RequirePermission(d.RBAC, "role_assign", logg)).Get("/{userId}/roles", controllers.UserRoles(d.RBAC, logg))
			r.With(middleware.RequirePermission(d.RBAC, "role_assign", logg)).Post("/{userId}/roles", controllers.RoleAssign(d.RBAC, logg))
			r.With(middleware.RequirePermission(d.RBAC, "role_revoke", logg)).Delete("/{userId}/roles", controllers.RoleRevoke(d.RBAC, logg))
		})
	})

	return r
}
