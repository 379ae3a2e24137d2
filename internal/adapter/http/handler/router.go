package handler

import (
	"github.com/yusinchenn/accessible-shop-wallet/internal/adapter/http/middleware"
	redisStore "github.com/yusinchenn/accessible-shop-wallet/internal/adapter/storage/redis"
	"github.com/yusinchenn/accessible-shop-wallet/internal/core/ports"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// RouterDeps holds all dependencies needed to set up routes.
type RouterDeps struct {
	WalletSvc      ports.WalletService
	TokenSvc       ports.TokenService
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

	// Deep health check: verifies PostgreSQL and Redis
	r.GET("/health", HealthCheck(deps.HealthCheckers...))

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

	jwtAuth := middleware.JWTAuth(deps.TokenSvc, deps.Logger)
	walletHandler := NewWalletHandler(deps.WalletSvc)
	adminHandler := NewAdminHandler(deps.WalletSvc)

	v1 := r.Group("/api/v1")

	wallet := v1.Group("/wallet", jwtAuth)
	{
		wallet.POST("/daily-reward", rl("daily_claim"), walletHandler.ClaimDailyReward)
		wallet.POST("/debit", rl("wallet_debit"), walletHandler.Debit)
		wallet.GET("/balance", rl("wallet_balance"), walletHandler.GetBalance)
	}

	admin := v1.Group("/admin", jwtAuth)
	{
		admin.POST("/credit", rl("admin_credit"), adminHandler.Credit)
	}

	return r
}
