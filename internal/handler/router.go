package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"enrollment-core/internal/handler/api"
	"enrollment-core/internal/handler/middleware"
	"enrollment-core/internal/pkg/config"
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
	enrollmentHandler *api.EnrollmentHandler,
	waitlistHandler *api.WaitlistHandler,
	sectionHandler *api.SectionHandler,
	conflictHandler *api.ConflictHandler,
	identity *middleware.IdentityMiddleware,
) {
	setupMiddleware(engine, cfg)
	setupRoutes(engine, enrollmentHandler, waitlistHandler, sectionHandler, conflictHandler, identity)
}

func setupMiddleware(engine *gin.Engine, cfg config.Config) {
	// Recovery must be first (outermost) to catch panics from all other middleware
	engine.Use(middleware.CustomRecovery())
	engine.Use(middleware.NewCORSMiddleware(cfg.CORS))
	engine.Use(middleware.LoggingMiddleware(nil, cfg.Log))
	engine.Use(middleware.ErrorHandler())
}

func setupRoutes(
	engine *gin.Engine,
	enrollmentHandler *api.EnrollmentHandler,
	waitlistHandler *api.WaitlistHandler,
	sectionHandler *api.SectionHandler,
	conflictHandler *api.ConflictHandler,
	identity *middleware.IdentityMiddleware,
) {
	engine.GET("/health", healthCheck)

	if gin.Mode() == gin.DebugMode {
		engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	apiGroup := engine.Group("/api")
	apiGroup.Use(identity.RequireActor())
	{
		enrollments := apiGroup.Group("/enrollments")
		{
			reviewOnly := identity.RequireRole(middleware.RoleReviewer, middleware.RoleRegistrar)
			addRoutes(enrollments, []route{
				{Method: http.MethodPost, Path: "", Handler: enrollmentHandler.Submit},
				{Method: http.MethodGet, Path: "", Handler: enrollmentHandler.List},
				{Method: http.MethodDelete, Path: "", Handler: enrollmentHandler.Withdraw},
				{Method: http.MethodPost, Path: "/:id/approve", Handler: enrollmentHandler.Approve, Mw: []gin.HandlerFunc{reviewOnly}},
				{Method: http.MethodPost, Path: "/:id/deny", Handler: enrollmentHandler.Deny, Mw: []gin.HandlerFunc{reviewOnly}},
			})
		}

		waitlist := apiGroup.Group("/waitlist")
		{
			addRoutes(waitlist, []route{
				{Method: http.MethodPost, Path: "", Handler: waitlistHandler.Join},
				{Method: http.MethodGet, Path: "/position", Handler: waitlistHandler.Position},
				{Method: http.MethodPost, Path: "/respond", Handler: waitlistHandler.Respond},
			})
		}

		sections := apiGroup.Group("/sections")
		{
			registrarOnly := identity.RequireRole(middleware.RoleRegistrar)
			addRoutes(sections, []route{
				{Method: http.MethodGet, Path: "/:id/utilization", Handler: sectionHandler.Utilization},
				{Method: http.MethodPatch, Path: "/:id/capacity", Handler: sectionHandler.ChangeCapacity, Mw: []gin.HandlerFunc{registrarOnly}},
				{Method: http.MethodPost, Path: "/:id/process-waitlist", Handler: sectionHandler.ProcessWaitlist, Mw: []gin.HandlerFunc{registrarOnly}},
			})
		}

		conflicts := apiGroup.Group("/conflicts")
		conflicts.Use(identity.RequireRole(middleware.RoleReviewer, middleware.RoleRegistrar))
		{
			addRoutes(conflicts, []route{
				{Method: http.MethodGet, Path: "", Handler: conflictHandler.ListOpen},
				{Method: http.MethodPost, Path: "/detect", Handler: conflictHandler.Detect},
				{Method: http.MethodPost, Path: "/:id/investigate", Handler: conflictHandler.Investigate},
				{Method: http.MethodPost, Path: "/:id/resolve", Handler: conflictHandler.Resolve},
			})
		}
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
