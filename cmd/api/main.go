package main

import (
	_ "backend/api/swagger" // swagger docs
	"backend/internal/authz"
	"backend/internal/cache"
	"backend/internal/database"
	"backend/internal/handler"
	"backend/internal/middleware"
	"backend/internal/repository"
	"backend/internal/scheduler"
	"backend/internal/service"
	"backend/internal/websocket"
	"log"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title           Maintenance Management API
// @version         1.0
// @description     Predictive maintenance backend with role and relationship based visibility.
// @host            localhost:8080
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	if err := godotenv.Load("configs/.env"); err != nil {
		log.Println("No configs/.env file found or error loading it")
	}

	dbHost := os.Getenv("DB_HOST")
	dbPort := os.Getenv("DB_PORT")
	dbUser := os.Getenv("DB_USER")
	dbPassword := os.Getenv("DB_PASSWORD")
	dbName := os.Getenv("DB_NAME")
	dbSslMode := os.Getenv("DB_SSLMODE")

	if dbHost == "" {
		dbHost = "localhost"
	}
	if dbPort == "" {
		dbPort = "5432"
	}
	if dbUser == "" {
		dbUser = "postgres"
	}
	if dbPassword == "" {
		dbPassword = "postgres"
	}
	if dbName == "" {
		dbName = "postgres"
	}
	if dbSslMode == "" {
		dbSslMode = "disable"
	}

	dsn := "postgres://" + dbUser + ":" + dbPassword + "@" + dbHost + ":" + dbPort + "/" + dbName + "?sslmode=" + dbSslMode

	db, err := database.NewConnection(dsn)
	if err != nil {
		log.Fatalf("Database connection failed: %v", err)
	}
	log.Println("Connected to PostgreSQL successfully.")

	// Set up WebSocket Hub
	wsHub := websocket.NewHub()
	go wsHub.Run()

	// Authorization core: every query and mutation goes through these
	relIndex := authz.NewRelationshipIndex(db)
	scoper := authz.NewScoper(relIndex)

	// Set up dependencies (Repository -> Service -> Handler)
	userRepo := repository.NewUserRepository(db)
	txm := repository.NewTransactionManager(db)

	resolver := authz.NewAudienceResolver(userRepo)
	notifier := service.NewNotifier(db, resolver, wsHub)

	dashboardCache := cache.NewDashboardCache[service.DashboardSummary](256, 30*time.Second)

	userService := service.NewUserService(userRepo, txm)
	assetService := service.NewAssetService(db, scoper, txm)
	locationService := service.NewLocationService(db, scoper)
	workOrderService := service.NewWorkOrderService(db, scoper, txm, notifier)
	predictionService := service.NewPredictionService(db, scoper, txm, notifier)
	statusService := service.NewAssetStatusService(db, scoper, txm, notifier)
	planService := service.NewMaintenancePlanService(db, scoper, txm, notifier)
	inventoryService := service.NewInventoryService(db, scoper, txm, notifier)
	notificationService := service.NewNotificationService(db, scoper)
	dashboardService := service.NewDashboardService(db, scoper, dashboardCache)
	auditService := service.NewAuditService(db)

	// Initialize Handlers
	userHandler := handler.NewUserHandler(userService)
	assetHandler := handler.NewAssetHandler(assetService)
	locationHandler := handler.NewLocationHandler(locationService)
	workOrderHandler := handler.NewWorkOrderHandler(workOrderService)
	predictionHandler := handler.NewPredictionHandler(predictionService)
	statusHandler := handler.NewAssetStatusHandler(statusService)
	planHandler := handler.NewMaintenancePlanHandler(planService)
	inventoryHandler := handler.NewInventoryHandler(inventoryService)
	notificationHandler := handler.NewNotificationHandler(notificationService)
	dashboardHandler := handler.NewDashboardHandler(dashboardService)
	auditHandler := handler.NewAuditHandler(auditService)

	// Scheduler for plan-driven work order generation
	sched := scheduler.New(planService)
	if err := sched.Start(os.Getenv("SCHEDULER_SPEC")); err != nil {
		log.Fatalf("Scheduler failed to start: %v", err)
	}
	defer sched.Stop()

	// Set up Gin Router
	router := gin.Default()

	// CORS configuration
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{"http://localhost:5173", "http://127.0.0.1:5173", "http://localhost:5174"} // Frontend URL
	corsConfig.AllowCredentials = true
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept"}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	router.Use(cors.New(corsConfig))

	// Swagger route
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "OK"})
	})

	// WebSocket endpoint
	router.GET("/ws", func(c *gin.Context) {
		websocket.ServeWs(wsHub, c, middleware.GetJWTSecret())
	})

	// Register API Routes
	api := router.Group("/api")
	userHandler.RegisterRoutes(api)
	assetHandler.RegisterRoutes(api)
	locationHandler.RegisterRoutes(api)
	workOrderHandler.RegisterRoutes(api)
	predictionHandler.RegisterRoutes(api)
	statusHandler.RegisterRoutes(api)
	planHandler.RegisterRoutes(api)
	inventoryHandler.RegisterRoutes(api)
	notificationHandler.RegisterRoutes(api)
	dashboardHandler.RegisterRoutes(api)
	auditHandler.RegisterRoutes(api)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Server listening on :%s", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
