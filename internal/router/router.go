package router

import (
	"fmt"
	"sort"
	"strings"

	"github.com/desbrava-pizza/internal/authz"
	"github.com/desbrava-pizza/internal/cache"
	"github.com/desbrava-pizza/internal/config"
	adminhandlers "github.com/desbrava-pizza/internal/http/handlers/admin"
	publichandlers "github.com/desbrava-pizza/internal/http/handlers/public"
	"github.com/desbrava-pizza/internal/http/response"
	"github.com/desbrava-pizza/internal/logger"
	"github.com/desbrava-pizza/internal/provider"

	"github.com/gin-gonic/gin"
)

// SetupRouter 初始化路由
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	r := gin.New()

	publicHandler := publichandlers.New(c)
	adminHandler := adminhandlers.New(c)
	redisPrefix := strings.TrimSpace(cfg.Redis.Prefix)
	if redisPrefix == "" {
		redisPrefix = "dp"
	}
	adminLoginRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:admin_login", redisPrefix),
		WindowSeconds: cfg.Security.LoginRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.LoginRateLimit.MaxAttempts,
		BlockSeconds:  cfg.Security.LoginRateLimit.BlockSeconds,
		MessageKey:    "error.login_too_many",
	}
	publicOrderRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:public_order", redisPrefix),
		WindowSeconds: 60,
		MaxRequests:   20,
		MessageKey:    "error.too_many_requests",
	}

	// 中间件
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))

	r.GET("/health", publicHandler.Health)

	apiV1 := r.Group("/api/v1")
	{
		// 公开点单
		public := apiV1.Group("/public")
		{
			public.GET("/menu", publicHandler.GetMenu)
			public.POST("/orders", RateLimitMiddleware(cache.Client(), publicOrderRule, KeyByIP), publicHandler.CreateOrder)
		}

		admin := apiV1.Group("/admin")
		{
			admin.GET("/captcha", adminHandler.GetCaptcha)
			admin.POST("/login", RateLimitMiddleware(cache.Client(), adminLoginRule, KeyByIPAndJSONField("username")), adminHandler.AdminLogin)

			authorized := admin.Group("")
			authorized.Use(JWTAuthMiddleware(c.AuthService), AdminRBACMiddleware(c.AuthzService))
			{
				authorized.GET("/me", adminHandler.GetAdminMe)
				authorized.POST("/logout", adminHandler.AdminLogout)
				authorized.GET("/authz/catalog", func(ctx *gin.Context) {
					response.Success(ctx, buildAdminPermissionCatalog(r))
				})

				// 取货
				authorized.GET("/delivery/filters", adminHandler.GetDeliveryFilters)
				authorized.GET("/delivery/orders", adminHandler.GetDeliveryOrders)
				authorized.GET("/delivery/export", adminHandler.ExportDelivery)
				authorized.GET("/delivery/orders/:id", adminHandler.GetDeliveryOrder)
				authorized.GET("/delivery/orders/:id/history", adminHandler.GetDeliveryOrderHistory)
				authorized.GET("/delivery/orders/:id/export", adminHandler.ExportDeliveryOrder)
				authorized.POST("/delivery/orders/:id/retrievals", adminHandler.RecordRetrieval)
				authorized.POST("/delivery/orders/:id/retrieve-all", adminHandler.PrepareRetrieveAll)

				// 财务报表
				authorized.GET("/reports/summary", adminHandler.GetReportSummary)
				authorized.GET("/reports/export", adminHandler.ExportReportSummary)
				authorized.GET("/reports/campaigns/:id/referrers", adminHandler.GetReportReferrers)
				authorized.GET("/reports/campaigns/:id/export", adminHandler.ExportReportReferrers)

				// 品项
				authorized.GET("/items", adminHandler.GetItems)
				authorized.GET("/items/stats", adminHandler.GetItemStats)
				authorized.POST("/items", adminHandler.CreateItem)
				authorized.PUT("/items/:id", adminHandler.UpdateItem)
				authorized.PATCH("/items/:id/toggle", adminHandler.ToggleItem)
				authorized.DELETE("/items/:id", adminHandler.DeleteItem)

				// 活动与口味
				authorized.GET("/campaigns", adminHandler.GetCampaigns)
				authorized.GET("/campaigns/:id/items", adminHandler.GetCampaignItems)
				authorized.GET("/campaigns/:id/items/options", adminHandler.GetCampaignItemOptions)
				authorized.POST("/campaigns/:id/items", adminHandler.CreateCampaignItem)
				authorized.PUT("/campaigns/:id/items/:link_id", adminHandler.UpdateCampaignItem)
				authorized.PATCH("/campaigns/:id/items/:link_id/toggle", adminHandler.ToggleCampaignItem)
				authorized.DELETE("/campaigns/:id/items/:link_id", adminHandler.DeleteCampaignItem)
				authorized.POST("/campaigns/:id/flavors", adminHandler.CreateFlavor)
				authorized.PUT("/campaigns/:id/flavors/:link_id", adminHandler.UpdateFlavor)
				authorized.DELETE("/campaigns/:id/flavors/:link_id", adminHandler.DeactivateFlavor)

				// 俱乐部收款信息
				authorized.GET("/club", adminHandler.GetClub)
				authorized.PUT("/club", adminHandler.UpdateClub)
			}
		}
	}

	return r
}

type adminPermissionCatalogItem struct {
	Module     string `json:"module"`
	Method     string `json:"method"`
	Object     string `json:"object"`
	Permission string `json:"permission"`
}

// buildAdminPermissionCatalog 根据已注册路由生成后台权限清单
func buildAdminPermissionCatalog(engine *gin.Engine) []adminPermissionCatalogItem {
	if engine == nil {
		return []adminPermissionCatalogItem{}
	}

	routes := engine.Routes()
	seen := make(map[string]struct{}, len(routes))
	items := make([]adminPermissionCatalogItem, 0, len(routes))
	for _, item := range routes {
		method := strings.ToUpper(strings.TrimSpace(item.Method))
		if method == "" || method == "OPTIONS" || method == "HEAD" {
			continue
		}
		if !strings.HasPrefix(item.Path, "/api/v1/admin/") {
			continue
		}
		if item.Path == "/api/v1/admin/login" || item.Path == "/api/v1/admin/captcha" {
			continue
		}
		object := authz.NormalizeObject(item.Path)
		permission := method + ":" + object
		if _, exists := seen[permission]; exists {
			continue
		}
		seen[permission] = struct{}{}
		items = append(items, adminPermissionCatalogItem{
			Module:     deriveAdminPermissionModule(object),
			Method:     method,
			Object:     object,
			Permission: permission,
		})
	}

	sort.Slice(items, func(i, j int) bool {
		if items[i].Module != items[j].Module {
			return items[i].Module < items[j].Module
		}
		if items[i].Object != items[j].Object {
			return items[i].Object < items[j].Object
		}
		return items[i].Method < items[j].Method
	})
	return items
}

// deriveAdminPermissionModule /admin/<模块>/... 取模块名
func deriveAdminPermissionModule(object string) string {
	segments := strings.Split(strings.Trim(strings.TrimSpace(object), "/"), "/")
	if len(segments) == 0 || segments[0] == "" {
		return "system"
	}
	if segments[0] != "admin" || len(segments) == 1 {
		return segments[0]
	}
	return segments[1]
}
