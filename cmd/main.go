package main

import (
	"context"

	"cmms-service/internal/handler"
	"cmms-service/internal/identity"
	"cmms-service/internal/middleware"
	"cmms-service/internal/model"
	"cmms-service/internal/notify"
	"cmms-service/internal/role"
	"cmms-service/pkg/cache"
	"cmms-service/pkg/config"
	"cmms-service/pkg/database"
	"cmms-service/pkg/jwtutil"
	"cmms-service/pkg/logger"
	"cmms-service/prometheus"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

func main() {
	// Load configuration from .env file and environment variables
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger with config
	logger.InitLogger(cfg)
	log := logger.GetLogger()
	log.Info("Starting maintenance service...", zap.String("environment", cfg.Server.Env))

	// Initialize database
	if err := database.Initialize(&cfg.DB); err != nil {
		log.Fatal("Failed to initialize database", zap.Error(err))
	}
	log.Info("Database connection established")

	// Initialize JWT utility
	jwtutil.Initialize(&cfg.JWT)
	log.Info("JWT utility initialized")

	// Connect the settings cache; the service degrades to DB-only lookups
	// when Redis is unreachable
	cacheClient := cache.NewClient(&cfg.Redis)
	if err := cacheClient.Ping(context.Background()); err != nil {
		log.Warn("Redis unreachable, settings cache disabled", zap.Error(err))
		cacheClient = nil
	} else {
		log.Info("Settings cache connected", zap.String("addr", cfg.Redis.Addr))
	}

	// One-shot identity seeding, before request traffic is accepted
	provider := identity.NewProvider(database.GetDB())
	legacyStore := identity.NewLegacyStore(database.GetDB())
	syncer := identity.NewSyncer(provider, legacyStore, log)

	if cfg.Seed.Enabled {
		seedUsers := []identity.SeedUser{
			{
				Email:        cfg.Seed.SuperAdminEmail,
				Password:     cfg.Seed.SuperAdminPassword,
				FirstName:    "Platform",
				LastName:     "Admin",
				Role:         role.SuperAdmin,
				IsSuperAdmin: true,
			},
		}
		if err := syncer.SeedRolesAndUsers(seedUsers); err != nil {
			log.Fatal("Failed to seed roles and users", zap.Error(err))
		}
		log.Info("Roles and users seeded")
	}

	written, err := syncer.SyncAll()
	if err != nil {
		// Partial failures leave the remaining users synced; keep serving
		log.Error("Identity sync finished with failures", zap.Error(err))
	}
	log.Info("Identity sync complete", zap.Int("written", written))

	// Wire the notification dispatcher
	settingsStore := notify.NewSettingsStore(database.GetDB(), cacheClient, log)
	dispatcher := notify.NewDispatcher(
		settingsStore,
		notify.NewLogStore(database.GetDB()),
		map[string]notify.Transport{
			model.ChannelEmail: notify.NewEmailTransport(&cfg.Notify),
			model.ChannelSMS:   notify.NewSMSTransport(&cfg.Notify),
			model.ChannelInApp: notify.NewInAppTransport(database.GetDB()),
		},
		log,
	)
	handler.Init(dispatcher, settingsStore)

	// Initialize Echo framework
	e := echo.New()

	// Apply global middleware - order matters
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORS())
	e.Use(middleware.RequestIDMiddleware)
	e.Use(logger.Middleware(log))
	e.Use(prometheus.MetricsMiddleware())

	// Public routes - no authentication required
	e.GET("/health", handler.HealthCheck)
	e.GET("/metrics", handler.MetricsHandler)

	// Authentication routes
	auth := e.Group("/auth")
	auth.POST("/login", handler.Login)
	auth.POST("/register", handler.Register)

	// API routes - all require authentication
	api := e.Group("/api")
	api.Use(middleware.AuthMiddleware)

	// Tenant administration
	tenants := api.Group("/tenants")
	tenants.POST("", handler.CreateTenant)
	tenants.GET("", handler.ListTenants)
	tenants.PATCH("/:id/status", handler.UpdateTenantStatus)

	// Tenant user mappings
	tenantUsers := api.Group("/tenant-users")
	tenantUsers.POST("", handler.AddUserToTenant)
	tenantUsers.DELETE("/:tenant_id/:user_id", handler.RemoveUserFromTenant)
	tenantUsers.GET("/:tenant_id/history", handler.ListTenantUserHistory)

	// Tenant-scoped entities
	assets := api.Group("/assets")
	assets.GET("", handler.ListAssets)
	assets.GET("/:id", handler.GetAsset)
	assets.POST("", handler.CreateAsset)
	assets.PATCH("/:id/status", handler.UpdateAssetStatus)
	assets.DELETE("/:id", handler.DeleteAsset)

	workOrders := api.Group("/work-orders")
	workOrders.GET("", handler.ListWorkOrders)
	workOrders.POST("", handler.CreateWorkOrder)
	workOrders.PATCH("/:id/status", handler.UpdateWorkOrderStatus)

	spareParts := api.Group("/spare-parts")
	spareParts.GET("", handler.ListSpareParts)
	spareParts.POST("", handler.CreateSparePart)
	spareParts.POST("/:id/consume", handler.ConsumeSparePart)

	documents := api.Group("/documents")
	documents.GET("", handler.ListDocuments)
	documents.POST("", handler.CreateDocument)
	documents.DELETE("/:id", handler.DeleteDocument)

	// Notification preferences and history
	notifications := api.Group("/notifications")
	notifications.GET("/settings", handler.GetNotificationSettings)
	notifications.PUT("/settings", handler.UpdateNotificationSettings)
	notifications.POST("/test", handler.TestNotification)
	notifications.GET("/log", handler.ListNotificationLog)

	// Get server port from configuration
	port := cfg.Server.Port

	// Start server
	log.Info("Starting server", zap.String("port", port))
	if err := e.Start(":" + port); err != nil {
		log.Fatal("Failed to start server", zap.Error(err))
	}
}
