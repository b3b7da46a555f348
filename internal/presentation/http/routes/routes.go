package routes

import (
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/sessions"
	"go.uber.org/zap"

	"github.com/unquiedeveloper/sg-store2/internal/config"
	"github.com/unquiedeveloper/sg-store2/internal/presentation/http/handler"
	"github.com/unquiedeveloper/sg-store2/internal/presentation/http/middleware"
	"github.com/unquiedeveloper/sg-store2/pkg/utils"
)

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	Bill    *handler.BillHandler
	BillAPI *handler.BillAPIHandler
	Printer *handler.PrinterHandler
}

// Deps holds shared dependencies needed by the routes.
type Deps struct {
	Cfg          *config.Config
	Logger       *zap.Logger
	JWTManager   *utils.JWTManager
	SessionStore sessions.Store
	RateLimiter  *middleware.SessionRateLimiter
	Templates    *template.Template
}

// Setup creates the Gin router and registers all routes.
func Setup(h *Handlers, deps *Deps) *gin.Engine {
	router := gin.New()
	router.SetHTMLTemplate(deps.Templates)

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(middleware.LoggerMiddleware(deps.Logger))
	router.Use(middleware.AuthMiddleware(deps.JWTManager))
	router.Use(middleware.SessionMiddleware(deps.SessionStore, deps.Cfg.Session.Name))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":     "ok",
			"service":    deps.Cfg.App.Name,
			"rate_limit": deps.RateLimiter.Stats(),
		})
	})

	router.GET("/", func(c *gin.Context) {
		c.Redirect(http.StatusFound, "/bills")
	})

	adminOnly := middleware.RequireRole(deps.Cfg.Auth.AdminRole)
	limited := deps.RateLimiter.Middleware()

	registerPageRoutes(router.Group("/bills"), h, adminOnly, limited)

	// API v1 routes
	v1 := router.Group("/api/v1")
	v1.Use(middleware.CORSMiddleware(&deps.Cfg.CORS))
	{
		registerAPIRoutes(v1, h, adminOnly, limited)
	}

	return router
}

func registerPageRoutes(bills *gin.RouterGroup, h *Handlers, adminOnly, limited gin.HandlerFunc) {
	bills.GET("", h.Bill.List)
	bills.POST("", limited, h.Bill.Create)
	bills.POST("/refresh", limited, h.Bill.Refresh)
	bills.POST("/modal/close", h.Bill.CloseModal)
	bills.GET("/:id/view", h.Bill.ViewBill)
	bills.POST("/:id/delete", adminOnly, limited, h.Bill.Delete)
	bills.GET("/:id/receipt.pdf", h.Bill.ReceiptPDF)
	bills.GET("/:id/preview", h.Bill.Preview)
	bills.POST("/:id/print", limited, h.Bill.Print)
}

func registerAPIRoutes(rg *gin.RouterGroup, h *Handlers, adminOnly, limited gin.HandlerFunc) {
	bills := rg.Group("/bills")
	{
		bills.GET("", h.BillAPI.List)
		bills.DELETE("/:id", adminOnly, limited, h.BillAPI.Delete)
		bills.GET("/:id/receipt", h.BillAPI.Receipt)
	}

	printer := rg.Group("/printer")
	{
		printer.GET("/status", h.Printer.GetStatus)
	}
}
