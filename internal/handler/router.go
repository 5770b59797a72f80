package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"book-locker/internal/domain/user"
	"book-locker/internal/handler/api"
	"book-locker/internal/handler/middleware"
	"book-locker/internal/pkg/config"
)

type route struct {
	Method  string
	Path    string
	Handler gin.HandlerFunc
	Mw      []gin.HandlerFunc
}

type Handlers struct {
	Reservations *api.ReservationHandler
	Lockers      *api.LockerHandler
	Points       *api.PointHandler
	Books        *api.BookHandler
}

func NewRouter(engine *gin.Engine, cfg config.Config, logger *slog.Logger, h Handlers, authMiddleware *middleware.AuthMiddleware) {
	setupMiddleware(engine, cfg, logger)
	setupRoutes(engine, h, authMiddleware)
}

func setupMiddleware(engine *gin.Engine, cfg config.Config, logger *slog.Logger) {
	// Recovery must be first (outermost) to catch panics from all other middleware
	engine.Use(middleware.CustomRecovery())
	engine.Use(middleware.NewCORSMiddleware(cfg.CORS))
	engine.Use(middleware.LoggingMiddleware(logger, cfg.Log))
	engine.Use(middleware.ErrorHandler())
}

func setupRoutes(engine *gin.Engine, h Handlers, authMiddleware *middleware.AuthMiddleware) {
	engine.GET("/health", healthCheck)

	if gin.Mode() == gin.DebugMode {
		engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	device := authMiddleware.RequireRoleAtLeast(user.RoleDevice)
	admin := authMiddleware.RequireRoleAtLeast(user.RoleAdmin)

	apiGroup := engine.Group("/api")
	apiGroup.Use(authMiddleware.RequireAuth())
	{
		reservations := apiGroup.Group("/reservations")
		addRoutes(reservations, []route{
			{Method: http.MethodPost, Path: "", Handler: h.Reservations.Create},
			{Method: http.MethodGet, Path: "", Handler: h.Reservations.ListMine},
			{Method: http.MethodGet, Path: "/:id", Handler: h.Reservations.Get},
			{Method: http.MethodPost, Path: "/:id/cancel", Handler: h.Reservations.Cancel},
			{Method: http.MethodPost, Path: "/:id/fulfill", Handler: h.Reservations.Fulfill},
		})

		lockers := apiGroup.Group("/lockers")
		addRoutes(lockers, []route{
			{Method: http.MethodPost, Path: "", Handler: h.Lockers.Provision, Mw: []gin.HandlerFunc{admin}},
			{Method: http.MethodGet, Path: "", Handler: h.Lockers.List},
			{Method: http.MethodGet, Path: "/:id", Handler: h.Lockers.Get},
			{Method: http.MethodGet, Path: "/:id/logs", Handler: h.Lockers.Logs, Mw: []gin.HandlerFunc{admin}},
			{Method: http.MethodPost, Path: "/:id/open", Handler: h.Lockers.Open},
			{Method: http.MethodPost, Path: "/:id/close", Handler: h.Lockers.Close},
			{Method: http.MethodPost, Path: "/:id/faults", Handler: h.Lockers.ReportFault, Mw: []gin.HandlerFunc{device}},
			{Method: http.MethodPost, Path: "/:id/heartbeat", Handler: h.Lockers.Heartbeat, Mw: []gin.HandlerFunc{device}},
			{Method: http.MethodPost, Path: "/:id/emergency-open", Handler: h.Lockers.EmergencyOpen},
			{Method: http.MethodPost, Path: "/:id/disable", Handler: h.Lockers.Disable, Mw: []gin.HandlerFunc{admin}},
			{Method: http.MethodPost, Path: "/:id/acknowledge", Handler: h.Lockers.Acknowledge, Mw: []gin.HandlerFunc{admin}},
			{Method: http.MethodPost, Path: "/:id/reset", Handler: h.Lockers.Reset, Mw: []gin.HandlerFunc{admin}},
		})

		points := apiGroup.Group("/points")
		addRoutes(points, []route{
			{Method: http.MethodGet, Path: "/balance", Handler: h.Points.Balance},
			{Method: http.MethodGet, Path: "/transactions", Handler: h.Points.Transactions},
			{Method: http.MethodPost, Path: "/credit", Handler: h.Points.Credit, Mw: []gin.HandlerFunc{admin}},
		})

		books := apiGroup.Group("/books")
		addRoutes(books, []route{
			{Method: http.MethodPut, Path: "/:id", Handler: h.Books.Put, Mw: []gin.HandlerFunc{admin}},
		})
	}
}

// @Summary Health check
// @Description Check if the service is healthy
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
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
