package server

import (
	"log/slog"
	"net/http"

	"github.com/antonk9218/gomarket/internal/config"
	"github.com/antonk9218/gomarket/internal/models"
	"github.com/antonk9218/gomarket/internal/server/auth"
	"github.com/antonk9218/gomarket/internal/server/handlers"
	"github.com/antonk9218/gomarket/internal/server/middleware"
	"github.com/antonk9218/gomarket/internal/server/storage"
)

// Storages объединяет интерфейсы хранилищ, нужные роутеру
type Storages struct {
	Users      storage.UserStorage
	Categories storage.CategoryStorage
	Products   storage.ProductStorage
	Orders     storage.OrderStorage
	Health     handlers.Pinger
}

// chain применяет middleware к handler в обратном порядке:
// первый элемент списка оказывается внешним
func chain(h http.Handler, mws ...func(http.Handler) http.Handler) http.Handler {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}

// NewRouter собирает все маршруты API и общие middleware
// Деление на три уровня доступа: публичные маршруты, маршруты
// с токеном и маршруты только для ADMINISTRATOR
func NewRouter(logger *slog.Logger, cfg *config.Config, st Storages, guard *auth.Guard, authn *auth.Authenticator, version string) http.Handler {
	mux := http.NewServeMux()

	authHandler := handlers.NewAuthHandler(logger, authn)
	profileHandler := handlers.NewProfileHandler(logger, st.Users)
	productsHandler := handlers.NewProductsHandler(logger, st.Products, st.Categories)
	categoriesHandler := handlers.NewCategoriesHandler(logger, st.Categories)
	ordersHandler := handlers.NewOrdersHandler(logger, st.Orders)
	healthHandler := handlers.NewHealthHandler(logger, st.Health, version)

	requireAuth := middleware.AuthMiddleware(logger, guard)
	requireAdmin := middleware.RequireRoleMiddleware(logger, models.RoleAdministrator)

	authed := func(h http.HandlerFunc) http.Handler {
		return requireAuth(h)
	}
	admin := func(h http.HandlerFunc) http.Handler {
		return chain(http.Handler(h), requireAuth, requireAdmin)
	}

	// Публичные маршруты
	mux.HandleFunc("GET /api/health", healthHandler.Health)
	mux.HandleFunc("POST /api/auth/register", authHandler.Register)
	mux.HandleFunc("POST /api/auth/login", authHandler.Login)

	mux.HandleFunc("GET /api/products", productsHandler.List)
	mux.HandleFunc("GET /api/products/search", productsHandler.Search)
	mux.HandleFunc("GET /api/products/{id}", productsHandler.Get)
	mux.HandleFunc("GET /api/products/category/{categoryId}", productsHandler.ListByCategory)

	mux.HandleFunc("GET /api/categories", categoriesHandler.List)
	mux.HandleFunc("GET /api/categories/{id}", categoriesHandler.Get)

	// Маршруты с токеном
	mux.Handle("GET /api/auth/profile", authed(profileHandler.GetProfile))
	mux.Handle("PUT /api/auth/profile", authed(profileHandler.UpdateProfile))
	mux.Handle("DELETE /api/auth/account", authed(profileHandler.DeleteAccount))

	mux.Handle("POST /api/orders", authed(ordersHandler.Create))
	mux.Handle("GET /api/orders", authed(ordersHandler.ListMine))
	mux.Handle("GET /api/orders/{id}", authed(ordersHandler.Get))
	mux.Handle("GET /api/orders/tracking/{trackingNumber}", authed(ordersHandler.GetByTracking))

	// Корректировка остатков нужна корзине, поэтому доступна любому
	// аутентифицированному пользователю
	mux.Handle("PUT /api/products/{id}/decrease-stock", authed(productsHandler.DecreaseStock))
	mux.Handle("PUT /api/products/{id}/increase-stock", authed(productsHandler.IncreaseStock))

	// Маршруты администратора
	mux.Handle("POST /api/products", admin(productsHandler.Create))
	mux.Handle("PUT /api/products/{id}", admin(productsHandler.Update))
	mux.Handle("DELETE /api/products/{id}", admin(productsHandler.Delete))

	mux.Handle("POST /api/categories", admin(categoriesHandler.Create))
	mux.Handle("PUT /api/categories/{id}", admin(categoriesHandler.Update))
	mux.Handle("DELETE /api/categories/{id}", admin(categoriesHandler.Delete))

	mux.Handle("PUT /api/orders/{id}/status", admin(ordersHandler.UpdateStatus))

	// Внешняя цепочка: recovery ловит паники всех нижних слоев,
	// health check не шумит в логах
	return chain(mux,
		middleware.RecoveryMiddleware(logger),
		middleware.LoggingWithSkip(logger, []string{"/api/health"}),
		middleware.RateLimitWithAuthPaths(
			cfg.RateLimit.Rate,
			cfg.RateLimit.AuthRate,
			cfg.RateLimit.Window,
			[]string{"/api/auth/register", "/api/auth/login"},
			logger,
		),
		middleware.CORSMiddleware(cfg.CORS.AllowedOrigins),
	)
}
