package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"edu-vouchers/internal/domain/user"
	"edu-vouchers/internal/handler/api"
	"edu-vouchers/internal/handler/middleware"
	"edu-vouchers/internal/pkg/config"
)

type route struct {
	Method  string
	Path    string
	Handler gin.HandlerFunc
	Mw      []gin.HandlerFunc
}

func NewRouter(
	engine *gin.Engine,
	cfg config.Config,
	authHandler *api.AuthHandler,
	voucherHandler *api.VoucherHandler,
	paymentHandler *api.PaymentHandler,
	authMiddleware *middleware.AuthMiddleware,
) {
	setupMiddleware(engine, cfg)
	setupRoutes(engine, authHandler, voucherHandler, paymentHandler, authMiddleware)
}

func setupMiddleware(engine *gin.Engine, cfg config.Config) {
	// Recovery must be first (outermost) to catch panics from all other middleware
	engine.Use(middleware.CustomRecovery())
	engine.Use(middleware.NewCORSMiddleware(cfg.CORS))
	engine.Use(middleware.LoggingMiddleware(cfg.Log))
	engine.Use(middleware.ErrorHandler())
}

func setupRoutes(
	engine *gin.Engine,
	authHandler *api.AuthHandler,
	voucherHandler *api.VoucherHandler,
	paymentHandler *api.PaymentHandler,
	authMiddleware *middleware.AuthMiddleware,
) {
	engine.GET("/health", healthCheck)

	apiGroup := engine.Group("/api")
	{
		auth := apiGroup.Group("/auth")
		{
			addRoutes(auth, []route{
				{Method: http.MethodPost, Path: "/login", Handler: authHandler.Login},
			})

			authRequired := auth.Group("")
			authRequired.Use(authMiddleware.RequireAuth())
			addRoutes(authRequired, []route{
				{Method: http.MethodGet, Path: "/me", Handler: authHandler.Me},
			})
		}

		// Purchase catalog is public; everything below requires a session.
		addRoutes(apiGroup, []route{
			{Method: http.MethodGet, Path: "/voucher-types", Handler: voucherHandler.ListTypes},
		})

		vouchers := apiGroup.Group("/vouchers")
		vouchers.Use(authMiddleware.RequireAuth())
		{
			addRoutes(vouchers, []route{
				{Method: http.MethodGet, Path: "", Handler: voucherHandler.ListMine},
				{Method: http.MethodPost, Path: "/redeem", Handler: voucherHandler.Redeem},
				{Method: http.MethodGet, Path: "/stats", Handler: voucherHandler.MyStats},
				{Method: http.MethodGet, Path: "/:code", Handler: voucherHandler.GetByCode},
				{Method: http.MethodGet, Path: "/:code/usages", Handler: voucherHandler.ListUsages},
			})
		}

		payments := apiGroup.Group("/payments")
		payments.Use(authMiddleware.RequireAuth())
		{
			addRoutes(payments, []route{
				{Method: http.MethodPost, Path: "/intent", Handler: paymentHandler.CreateIntent},
				{Method: http.MethodPost, Path: "/confirm", Handler: paymentHandler.Confirm},
				{Method: http.MethodGet, Path: "", Handler: paymentHandler.ListMine},
				{Method: http.MethodGet, Path: "/:id", Handler: paymentHandler.GetByID},
				{Method: http.MethodPost, Path: "/:id/refund", Handler: paymentHandler.RequestRefund},
				{Method: http.MethodGet, Path: "/:id/refunds", Handler: paymentHandler.ListRefunds},
			})
		}

		admin := apiGroup.Group("/admin")
		admin.Use(authMiddleware.RequireAuth(), authMiddleware.RequireRoleAtLeast(user.RoleAdmin))
		{
			addRoutes(admin, []route{
				{Method: http.MethodGet, Path: "/voucher-types", Handler: voucherHandler.ListTypesAdmin},
				{Method: http.MethodPost, Path: "/vouchers/issue", Handler: voucherHandler.Issue},
				{Method: http.MethodPost, Path: "/vouchers/expire-sweep", Handler: voucherHandler.ExpireSweep},
				{Method: http.MethodGet, Path: "/vouchers/stats", Handler: voucherHandler.Stats},
				{Method: http.MethodPost, Path: "/vouchers/:id/cancel", Handler: voucherHandler.Cancel},
			})
		}
	}
}

func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"message": "Service is healthy",
	})
}

func addRoutes(g *gin.RouterGroup, rs []route) {
	for _, r := range rs {
		h := r.Handler
		if len(r.Mw) > 0 {
			h = chainHandlers(append(r.Mw, r.Handler)...)
		}
		switch r.Method {
		case http.MethodGet:
			g.GET(r.Path, h)
		case http.MethodPost:
			g.POST(r.Path, h)
		case http.MethodPut:
			g.PUT(r.Path, h)
		case http.MethodPatch:
			g.PATCH(r.Path, h)
		case http.MethodDelete:
			g.DELETE(r.Path, h)
		default:
			g.Any(r.Path, h)
		}
	}
}

func chainHandlers(hs ...gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, h := range hs {
			h(c)
			if c.IsAborted() {
				return
			}
		}
	}
}
