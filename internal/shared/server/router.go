package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"docmanager-backend/internal/account"
	"docmanager-backend/internal/documents"
	"docmanager-backend/internal/ingestions"
	"docmanager-backend/internal/services/health"
	"docmanager-backend/internal/shared/auth"
	"docmanager-backend/internal/shared/config"
	"docmanager-backend/internal/shared/metrics"
	"docmanager-backend/internal/shared/server/middleware"
	"docmanager-backend/internal/shared/server/respond"
	"docmanager-backend/internal/users"
)

// RouterDeps carries the handlers and shared services mounted by NewRouter.
type RouterDeps struct {
	Config           config.Config
	Tokens           middleware.TokenVerifier
	Health           *health.Service
	AccountHandler   *account.Handler
	UserHandler      *users.Handler
	DocumentHandler  *documents.Handler
	IngestionHandler *ingestions.Handler
	RateLimiter      *middleware.RateLimiter
}

const authRateLimitGroup = "AUTH"

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	if deps.Config.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
		metrics.Middleware(),
	)

	r.GET("/metrics", metrics.Handler())

	api := r.Group("/api/v1")
	api.GET("/health", func(c *gin.Context) {
		report := deps.Health.Status(c.Request.Context())
		status := http.StatusOK
		if !report.OK {
			status = http.StatusServiceUnavailable
		}
		respond.JSON(c, status, report)
	})

	authenticated := middleware.Authenticate(deps.Tokens)
	can := middleware.Authorize

	public := api.Group("/auth", authRateLimit(deps))
	deps.AccountHandler.RegisterRoutes(public, api.Group("/auth", authenticated))

	deps.UserHandler.RegisterRoutes(api.Group("/users", authenticated, can(auth.PermUsersManage)))

	deps.DocumentHandler.RegisterRoutes(api.Group("/documents", authenticated),
		can(auth.PermDocumentsRead),
		can(auth.PermDocumentsWrite),
	)

	deps.IngestionHandler.RegisterRoutes(api.Group("/ingestions", authenticated),
		can(auth.PermIngestionsRead),
		can(auth.PermIngestionsWrite),
		can(auth.PermIngestionsDelete),
	)

	return r
}

// authRateLimit throttles signup and login per client IP.
func authRateLimit(deps RouterDeps) gin.HandlerFunc {
	rps := deps.Config.AuthRateLimitRPS
	burst := deps.Config.AuthRateLimitBurst
	if rps <= 0 || burst <= 0 {
		return func(c *gin.Context) { c.Next() }
	}
	return middleware.RateLimit(middleware.RateLimitConfig{
		DefaultGroup: authRateLimitGroup,
		Limiter:      deps.RateLimiter,
		Rules: map[string]middleware.RateLimitRule{
			authRateLimitGroup: {Rate: rps, Burst: burst},
		},
	})
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
