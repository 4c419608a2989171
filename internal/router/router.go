package router

import (
	"fmt"
	"strings"

	"github.com/Y4Clab/WFP-TRACKER-SYSTEM/internal/cache"
	"github.com/Y4Clab/WFP-TRACKER-SYSTEM/internal/config"
	adminhandlers "github.com/Y4Clab/WFP-TRACKER-SYSTEM/internal/http/handlers/admin"
	publichandlers "github.com/Y4Clab/WFP-TRACKER-SYSTEM/internal/http/handlers/public"
	"github.com/Y4Clab/WFP-TRACKER-SYSTEM/internal/http/response"
	"github.com/Y4Clab/WFP-TRACKER-SYSTEM/internal/logger"
	"github.com/Y4Clab/WFP-TRACKER-SYSTEM/internal/provider"

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
		redisPrefix = "wfp"
	}
	loginRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:login", redisPrefix),
		WindowSeconds: cfg.Security.LoginRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.LoginRateLimit.MaxAttempts,
		BlockSeconds:  cfg.Security.LoginRateLimit.BlockSeconds,
		MessageKey:    "error.login_rate_limited",
	}

	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))

	r.GET("/healthz", healthz)

	apiV1 := r.Group("/api/v1")
	{
		auth := apiV1.Group("/auth")
		{
			auth.POST("/login", RateLimitMiddleware(cache.Client(), loginRule, KeyByIPAndJSONField("email")), publicHandler.Login)
		}

		authed := apiV1.Group("")
		authed.Use(UserJWTAuthMiddleware(cfg.UserJWT.SecretKey, c.UserRepo))
		authed.Use(RBACMiddleware(c.AuthzService))
		{
			authed.GET("/me", publicHandler.GetMe)
			authed.PUT("/me/password", publicHandler.ChangePassword)
		}

		vendor := authed.Group("/vendor")
		{
			vendor.GET("/missions", publicHandler.ListMyMissions)
			vendor.GET("/missions/:id/cargo", publicHandler.GetMissionCargo)
			vendor.GET("/trucks", publicHandler.ListMyTrucks)
			vendor.GET("/drivers", publicHandler.ListMyDrivers)

			vendor.POST("/assignments", publicHandler.CreateAssignment)
			vendor.GET("/assignments", publicHandler.ListAssignments)
			vendor.GET("/assignments/:id", publicHandler.GetAssignment)
			vendor.PUT("/assignments/:id/cargo", publicHandler.ReplaceAssignmentCargo)
			vendor.GET("/assignments/:id/utilization", publicHandler.GetAssignmentUtilization)
			vendor.DELETE("/assignments/:id", publicHandler.DeleteAssignment)
		}

		admin := authed.Group("/admin")
		{
			admin.POST("/vendors", adminHandler.CreateVendor)
			admin.GET("/vendors", adminHandler.ListVendors)
			admin.GET("/vendors/:id", adminHandler.GetVendor)
			admin.PUT("/vendors/:id/status", adminHandler.UpdateVendorStatus)
			admin.DELETE("/vendors/:id", adminHandler.DeleteVendor)
			admin.GET("/vendors/:id/contacts", adminHandler.ListContacts)
			admin.POST("/vendors/:id/documents", adminHandler.UploadVendorDocument)
			admin.GET("/vendors/:id/documents", adminHandler.ListVendorDocuments)
			admin.GET("/documents/:id", adminHandler.DownloadDocument)
			admin.DELETE("/documents/:id", adminHandler.DeleteDocument)

			admin.POST("/regions", adminHandler.CreateRegion)
			admin.GET("/regions", adminHandler.ListRegions)
			admin.GET("/regions/:id", adminHandler.GetRegion)
			admin.DELETE("/regions/:id", adminHandler.DeleteRegion)
			admin.POST("/operation-regions", adminHandler.CreateOperationRegion)
			admin.GET("/operation-regions", adminHandler.ListOperationRegions)
			admin.DELETE("/operation-regions/:id", adminHandler.DeleteOperationRegion)

			admin.POST("/users", adminHandler.CreateUser)
			admin.GET("/users", adminHandler.ListUsers)
			admin.PUT("/users/:id/status", adminHandler.UpdateUserStatus)
			admin.GET("/users/:id/roles", adminHandler.GetAuthzUserRoles)
			admin.PUT("/users/:id/roles", adminHandler.SetAuthzUserRoles)

			admin.POST("/contacts", adminHandler.CreateContact)
			admin.DELETE("/contacts/:id", adminHandler.DeleteContact)

			admin.POST("/products", adminHandler.CreateProduct)
			admin.GET("/products", adminHandler.ListProducts)
			admin.GET("/products/:id", adminHandler.GetProduct)
			admin.DELETE("/products/:id", adminHandler.DeleteProduct)

			admin.POST("/drivers", adminHandler.CreateDriver)
			admin.GET("/drivers", adminHandler.ListDrivers)
			admin.GET("/drivers/:id", adminHandler.GetDriver)
			admin.DELETE("/drivers/:id", adminHandler.DeleteDriver)

			admin.POST("/trucks", adminHandler.CreateTruck)
			admin.GET("/trucks", adminHandler.ListTrucks)
			admin.GET("/trucks/:id", adminHandler.GetTruck)
			admin.PUT("/trucks/:id/status", adminHandler.UpdateTruckStatus)
			admin.DELETE("/trucks/:id", adminHandler.DeleteTruck)

			admin.POST("/missions", adminHandler.CreateMission)
			admin.GET("/missions", adminHandler.ListMissions)
			admin.GET("/missions/:id", adminHandler.GetMission)
			admin.PUT("/missions/:id/status", adminHandler.UpdateMissionStatus)
			admin.DELETE("/missions/:id", adminHandler.DeleteMission)
			admin.POST("/missions/:id/cargo", adminHandler.CreateCargo)
			admin.GET("/missions/:id/cargo", adminHandler.GetCargo)
			admin.GET("/missions/:id/allocation", adminHandler.GetMissionCargoBreakdown)

			admin.POST("/vendor-missions", adminHandler.ContractVendor)
			admin.GET("/vendor-missions", adminHandler.ListVendorMissions)
			admin.DELETE("/vendor-missions/:id", adminHandler.DeleteVendorMission)

			admin.DELETE("/cargo/:id", adminHandler.DeleteCargo)
			admin.POST("/cargo/:id/items", adminHandler.AddCargoItem)
			admin.DELETE("/cargo-items/:id", adminHandler.DeleteCargoItem)

			admin.POST("/allocation/audit", adminHandler.RunAllocationAudit)

			admin.GET("/authz/me", adminHandler.GetAuthzMe)
			admin.GET("/authz/roles", adminHandler.ListAuthzRoles)
			admin.POST("/authz/roles", adminHandler.CreateAuthzRole)
			admin.DELETE("/authz/roles/:role", adminHandler.DeleteAuthzRole)
			admin.GET("/authz/roles/:role/policies", adminHandler.GetAuthzRolePolicies)
			admin.POST("/authz/policies", adminHandler.GrantAuthzPolicy)
			admin.DELETE("/authz/policies", adminHandler.RevokeAuthzPolicy)
		}
	}

	return r
}

// healthz 健康检查，附带 Redis 连通状态
func healthz(ctx *gin.Context) {
	redisStatus := "disabled"
	if cache.Enabled() {
		redisStatus = "ok"
		if err := cache.Ping(ctx.Request.Context()); err != nil {
			redisStatus = "down"
		}
	}
	response.Success(ctx, gin.H{"status": "ok", "redis": redisStatus})
}
