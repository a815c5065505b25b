package router

import (
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/laundry-pos/internal/authz"
	"github.com/laundry-pos/internal/cache"
	"github.com/laundry-pos/internal/config"
	adminhandlers "github.com/laundry-pos/internal/http/handlers/admin"
	"github.com/laundry-pos/internal/http/response"
	"github.com/laundry-pos/internal/logger"
	"github.com/laundry-pos/internal/provider"

	"github.com/gin-gonic/gin"
)

// SetupRouter 初始化路由
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	r := gin.New()

	handler := adminhandlers.New(c)
	redisPrefix := strings.TrimSpace(cfg.Redis.Prefix)
	if redisPrefix == "" {
		redisPrefix = "laundry"
	}
	writeRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:write", redisPrefix),
		WindowSeconds: cfg.Security.WriteRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.WriteRateLimit.MaxRequests,
		BlockSeconds:  cfg.Security.WriteRateLimit.BlockSeconds,
	}
	writeLimit := RateLimitMiddleware(cache.Client(), writeRule, KeyByActorOrIP)

	// 中间件
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))

	apiV1 := r.Group("/api/v1")
	apiV1.Use(RequestTimeoutMiddleware(time.Duration(cfg.Server.RequestTimeoutSeconds) * time.Second))
	if cfg.JWT.Enabled {
		apiV1.Use(JWTAuthMiddleware(cfg.JWT))
		if c.AuthzService != nil {
			apiV1.Use(RBACMiddleware(c.AuthzService))
		}
	}
	{
		// 订单
		orders := apiV1.Group("/orders")
		{
			orders.POST("", writeLimit, handler.CreateOrder)
			orders.GET("", handler.ListOrders)
			orders.POST("/payments", writeLimit, handler.AddPayment)
			orders.GET("/:id", handler.GetOrder)
			orders.GET("/:id/events", handler.ListOrderEvents)
			orders.PUT("/:id/status", writeLimit, handler.UpdateOrderStatus)
			orders.PUT("/:id/cancel", writeLimit, handler.CancelOrder)
			orders.PUT("/:id/restore", writeLimit, handler.RestoreOrder)
			orders.PUT("/:id/driver", writeLimit, handler.UpdateDriver)
			orders.DELETE("/:id", writeLimit, handler.DeleteOrder)
		}

		// 报表
		reports := apiV1.Group("/reports")
		{
			reports.GET("/payments", handler.PaymentReport)
			reports.GET("/daily", handler.DailySummary)
			reports.GET("/items", handler.ItemBreakdown)
		}

		// 权限管理
		authzGroup := apiV1.Group("/authz")
		{
			authzGroup.GET("/roles", handler.ListAuthzRoles)
			authzGroup.POST("/roles/:role/policies", handler.GrantAuthzPolicy)
			authzGroup.DELETE("/roles/:role/policies", handler.RevokeAuthzPolicy)
			authzGroup.GET("/audit-logs", handler.ListAuthzAuditLogs)
			authzGroup.GET("/permissions", func(ctx *gin.Context) {
				response.Success(ctx, buildPermissionCatalog(r))
			})
		}
	}

	// 健康检查
	r.GET("/health", func(ctx *gin.Context) {
		if err := cache.Ping(ctx.Request.Context()); err != nil {
			ctx.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "redis": err.Error()})
			return
		}
		ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	return r
}

type permissionCatalogItem struct {
	Module     string `json:"module"`
	Method     string `json:"method"`
	Object     string `json:"object"`
	Permission string `json:"permission"`
}

func buildPermissionCatalog(engine *gin.Engine) []permissionCatalogItem {
	if engine == nil {
		return []permissionCatalogItem{}
	}

	routes := engine.Routes()
	seen := make(map[string]struct{}, len(routes))
	items := make([]permissionCatalogItem, 0, len(routes))

	for _, item := range routes {
		method := strings.ToUpper(strings.TrimSpace(item.Method))
		if method == "" || method == "OPTIONS" || method == "HEAD" {
			continue
		}
		if !strings.HasPrefix(item.Path, "/api/v1/") {
			continue
		}
		object := authz.NormalizeObject(item.Path)
		permission := method + ":" + object
		if _, exists := seen[permission]; exists {
			continue
		}
		seen[permission] = struct{}{}
		items = append(items, permissionCatalogItem{
			Module:     derivePermissionModule(object),
			Method:     method,
			Object:     object,
			Permission: permission,
		})
	}

	sort.Slice(items, func(i, j int) bool {
		if items[i].Module == items[j].Module {
			if items[i].Object == items[j].Object {
				return items[i].Method < items[j].Method
			}
			return items[i].Object < items[j].Object
		}
		return items[i].Module < items[j].Module
	})

	return items
}

func derivePermissionModule(object string) string {
	normalized := strings.TrimPrefix(strings.TrimSpace(object), "/")
	if normalized == "" {
		return "system"
	}
	return strings.Split(normalized, "/")[0]
}
