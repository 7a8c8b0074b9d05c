package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// RouterDeps carries the handlers and config the router assembles.
type RouterDeps struct {
	Cart          *CartHandler
	Checkout      *CheckoutHandler
	Delivery      *DeliveryHandler
	Catalog       *CatalogHandler
	Reviews       *ReviewsHandler
	Orders        *OrdersHandler
	Wishlist      *WishlistHandler
	Notifications *NotificationsHandler
	Admin         *AdminHandler

	AdminToken     string
	RequestTimeout time.Duration
}

// NewRouter assembles the storefront API. Everything under /api/v1 carries a
// session; /api/v1/admin additionally requires the admin bearer token.
func NewRouter(deps RouterDeps) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.Timeout(deps.RequestTimeout))
	r.Use(middleware.Compress(5))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// API routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(SessionMiddleware)

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", deps.Cart.GetCart)
			r.Delete("/", deps.Cart.ClearCart)
			r.Post("/items", deps.Cart.AddItem)
			r.Put("/items/{product_id}", deps.Cart.UpdateQuantity)
			r.Delete("/items/{product_id}", deps.Cart.RemoveItem)
		})

		r.Post("/checkout", deps.Checkout.Checkout)

		r.Route("/delivery-options", func(r chi.Router) {
			r.Get("/", deps.Delivery.ListOptions)
			r.Get("/quote", deps.Delivery.Quote)
		})

		r.Route("/products", func(r chi.Router) {
			r.Get("/", deps.Catalog.ListProducts)
			r.Get("/{id}", deps.Catalog.GetProduct)
			r.Get("/{id}/reviews", deps.Reviews.List)
			r.Post("/{id}/reviews", deps.Reviews.Submit)
			r.Delete("/{id}/reviews", deps.Reviews.Delete)
		})

		r.Get("/banners", deps.Catalog.ListBanners)

		r.Get("/orders/{id}", deps.Orders.GetOrder)

		r.Route("/wishlist", func(r chi.Router) {
			r.Get("/", deps.Wishlist.List)
			r.Post("/", deps.Wishlist.Add)
			r.Delete("/{product_id}", deps.Wishlist.Remove)
		})

		r.Route("/notifications", func(r chi.Router) {
			r.Get("/", deps.Notifications.List)
			r.Put("/read-all", deps.Notifications.MarkAllRead)
			r.Put("/{id}/read", deps.Notifications.MarkRead)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(AdminAuthMiddleware(deps.AdminToken))

			r.Route("/products", func(r chi.Router) {
				r.Post("/", deps.Admin.CreateProduct)
				r.Put("/{id}", deps.Admin.UpdateProduct)
				r.Delete("/{id}", deps.Admin.DeleteProduct)
				r.Post("/{id}/image", deps.Admin.UploadProductImage)
			})

			r.Route("/orders", func(r chi.Router) {
				r.Get("/", deps.Admin.ListOrders)
				r.Patch("/{id}/status", deps.Admin.UpdateOrderStatus)
			})

			r.Put("/delivery-options", deps.Admin.UpsertDeliveryOption)

			r.Get("/events", deps.Admin.StreamEvents)

			r.Route("/banners", func(r chi.Router) {
				r.Post("/", deps.Admin.CreateBanner)
				r.Delete("/{id}", deps.Admin.DeactivateBanner)
			})
		})
	})

	return otelhttp.NewHandler(r, "ratnaya-api")
}
