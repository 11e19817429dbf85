package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/PrasannaVit-21/chummaOrder/api/controllers"
	"github.com/PrasannaVit-21/chummaOrder/api/middleware"
	cartsvc "github.com/PrasannaVit-21/chummaOrder/internal/cart"
	checkoutsvc "github.com/PrasannaVit-21/chummaOrder/internal/checkout"
	menusvc "github.com/PrasannaVit-21/chummaOrder/internal/menu"
	notifsvc "github.com/PrasannaVit-21/chummaOrder/internal/notifications"
	ordersvc "github.com/PrasannaVit-21/chummaOrder/internal/orders"
	sessionpkg "github.com/PrasannaVit-21/chummaOrder/internal/session"
	"github.com/PrasannaVit-21/chummaOrder/pkg/config"
	"github.com/PrasannaVit-21/chummaOrder/pkg/logger"
)

// Deps carries everything the router wires into handlers.
type Deps struct {
	Config        *config.Config
	Logger        *logger.Logger
	Pingers       map[string]controllers.Pinger
	MenuService   menusvc.Service
	CartService   cartsvc.Service
	CheckoutSvc   checkoutsvc.Service
	OrdersService ordersvc.Service
	Notifications notifsvc.Service
	SessionHub    *sessionpkg.Hub
	MetricsSource http.Handler
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.Pingers))
	})

	metricsHandler := deps.MetricsSource
	if metricsHandler == nil {
		metricsHandler = promhttp.Handler()
	}
	r.Method(http.MethodGet, "/metrics", metricsHandler)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))

		r.Route("/menu", func(r chi.Router) {
			r.Get("/", controllers.MenuList(deps.MenuService, logg))
			r.Get("/categories", controllers.MenuCategories(deps.MenuService, logg))
			r.Get("/{menuItemId}", controllers.MenuDetail(deps.MenuService, logg))
		})

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", controllers.CartFetch(deps.CartService, logg))
			r.Post("/items", controllers.CartAdd(deps.CartService, logg))
			r.Patch("/items/{cartItemId}", controllers.CartUpdateQuantity(deps.CartService, logg))
			r.Delete("/", controllers.CartClear(deps.CartService, logg))
		})

		r.Post("/checkout", controllers.Checkout(deps.CheckoutSvc, logg))

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", controllers.OrdersList(deps.OrdersService, logg))
			r.Get("/{orderId}", controllers.OrderDetail(deps.OrdersService, logg))
		})

		r.Route("/notifications", func(r chi.Router) {
			r.Get("/", controllers.ListNotifications(deps.Notifications, logg))
			r.Post("/{notificationId}/read", controllers.MarkNotificationRead(deps.Notifications, logg))
		})

		r.Route("/session", func(r chi.Router) {
			r.Get("/", controllers.SessionState(deps.SessionHub, logg))
			r.Post("/refresh", controllers.SessionRefresh(deps.SessionHub, logg))
			r.Post("/cart-open", controllers.SessionSetCartOpen(deps.SessionHub, logg))
			r.Delete("/toasts/{toastId}", controllers.SessionDismissToast(deps.SessionHub, logg))
		})
	})

	return r
}
