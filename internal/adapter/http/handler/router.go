package handler

import (
	"lenormand-api/internal/adapter/http/middleware"
	redisStore "lenormand-api/internal/adapter/storage/redis"
	"lenormand-api/internal/core/ports"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// RouterDeps holds all dependencies needed to set up routes.
type RouterDeps struct {
	AuthSvc        ports.AuthService
	ReadingSvc     ports.ReadingService
	Sessions       ports.SessionStore
	UserRepo       ports.UserRepository
	RateLimitStore *redisStore.RateLimitStore // nil = rate limiting disabled
	HealthCheckers []ports.HealthChecker
	Logger         zerolog.Logger
}

// SetupRouter initialises the Gin engine with all routes and middleware.
func SetupRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(middleware.MaxBodySize(1 << 20)) // 1 MB request body limit

	// Rate limit rules
	rules := middleware.DefaultRateLimitRules()

	// Helper: return rate limiter middleware if store is available, else noop.
	rl := func(group string) gin.HandlerFunc {
		if deps.RateLimitStore == nil {
			return func(c *gin.Context) { c.Next() }
		}
		rule, ok := rules[group]
		if !ok {
			return func(c *gin.Context) { c.Next() }
		}
		return middleware.RateLimiter(deps.RateLimitStore, group, rule, deps.Logger)
	}

	api := r.Group("/api")

	// Health check (deep — verifies PostgreSQL + Redis)
	api.GET("/health", HealthCheck(deps.HealthCheckers...))

	sessionAuth := middleware.SessionAuth(deps.Sessions, deps.UserRepo, deps.Logger)

	authHandler := NewAuthHandler(deps.AuthSvc)
	auth := api.Group("/auth")
	{
		// Public
		auth.POST("/send-code", rl("auth_send_code"), authHandler.SendCode)
		auth.POST("/login", rl("auth_login"), authHandler.Login)

		// Session-authenticated
		auth.GET("/me", sessionAuth, authHandler.Me)
		auth.POST("/logout", sessionAuth, authHandler.Logout)
		auth.PUT("/profile", sessionAuth, authHandler.UpdateProfile)
	}

	readingHandler := NewReadingHandler(deps.ReadingSvc)
	readings := api.Group("/readings", sessionAuth)
	{
		readings.GET("", readingHandler.List)
		readings.POST("", readingHandler.Create)
		readings.GET("/:id", readingHandler.Get)
		readings.PATCH("/:id", readingHandler.UpdateReflection)
		readings.DELETE("/:id", readingHandler.Delete)
	}

	return r
}
