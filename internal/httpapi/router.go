package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/restopos/restopos/internal/auth"
	"github.com/restopos/restopos/internal/domain"
)

type Handlers struct {
	Auth       *AuthHandler
	Cart       *CartHandler
	Orders     *OrderHandler
	Products   *ProductHandler
	Categories *CategoryHandler
	Users      *UserHandler
	Shops      *ShopHandler
	Settings   *SettingsHandler
	Stats      *StatsHandler
}

// NewRouter wires the API under /api/v1 and puts the route guard in front
// of the page paths the SPA navigates between.
func NewRouter(h Handlers, issuer *auth.TokenIssuer, requestTimeout time.Duration) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(requestTimeout))
	r.Use(middleware.Compress(5))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/auth/login", h.Auth.Login)

		r.Group(func(r chi.Router) {
			r.Use(auth.Authenticate(issuer))

			r.Post("/auth/change-password", h.Auth.ChangePassword)

			// POS surface, staff only.
			r.Group(func(r chi.Router) {
				r.Use(auth.RequireRole(domain.RoleStaff))
				r.Route("/cart", func(r chi.Router) {
					r.Get("/", h.Cart.GetCart)
					r.Post("/items", h.Cart.AddProduct)
					r.Patch("/items/{lineID}", h.Cart.UpdateQuantity)
					r.Delete("/items/{lineID}", h.Cart.RemoveLine)
					r.Delete("/", h.Cart.ClearCart)
				})
				r.Post("/orders", h.Orders.CreateOrder)
			})

			// Receipt view and product grid are shared by staff and admin.
			r.Group(func(r chi.Router) {
				r.Use(auth.RequireRole(domain.RoleStaff, domain.RoleAdmin))
				r.Get("/orders/{id}", h.Orders.GetOrder)
				r.Get("/products", h.Products.ListProducts)
				r.Get("/categories", h.Categories.ListCategories)
			})

			// Admin management surface.
			r.Group(func(r chi.Router) {
				r.Use(auth.RequireRole(domain.RoleAdmin))

				r.Get("/orders", h.Orders.ListOrders)
				r.Patch("/orders/{id}/status", h.Orders.UpdateOrderStatus)

				r.Post("/products", h.Products.CreateProduct)
				r.Patch("/products/{id}", h.Products.UpdateProduct)
				r.Patch("/products/{id}/availability", h.Products.UpdateAvailability)
				r.Delete("/products/{id}", h.Products.DeleteProduct)

				r.Post("/categories", h.Categories.CreateCategory)
				r.Patch("/categories/{id}", h.Categories.UpdateCategory)
				r.Delete("/categories/{id}", h.Categories.DeleteCategory)

				r.Get("/users", h.Users.ListUsers)
				r.Post("/users", h.Users.CreateUser)
				r.Patch("/users/{id}", h.Users.UpdateUser)
				r.Delete("/users/{id}", h.Users.DeleteUser)

				r.Get("/settings", h.Settings.GetSettings)
				r.Put("/settings", h.Settings.UpdateSettings)

				r.Get("/stats", h.Stats.GetStats)
			})

			// Tenant management, super admin only.
			r.Group(func(r chi.Router) {
				r.Use(auth.RequireRole(domain.RoleSuperAdmin))
				r.Get("/shops", h.Shops.ListShops)
				r.Post("/shops", h.Shops.CreateShop)
				r.Patch("/shops/{id}", h.Shops.UpdateShop)
				r.Delete("/shops/{id}", h.Shops.DeleteShop)
			})
		})
	})

	// Page navigation goes through the role guard; the handler itself just
	// hands back the app shell for the client to render.
	r.Group(func(r chi.Router) {
		r.Use(auth.Guard)
		r.NotFound(appShell)
		r.Get("/", appShell)
	})

	return r
}

func appShell(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("<!doctype html><title>restopos</title><div id=\"app\"></div>"))
}
