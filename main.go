package main

import (
	"net/http"
	"strings"
	_ "time/tzdata"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/whatsapp-order-bot/config"
	"github.com/kendall-kelly/whatsapp-order-bot/controllers"
	"github.com/kendall-kelly/whatsapp-order-bot/middleware"
	"github.com/kendall-kelly/whatsapp-order-bot/models"
	"github.com/kendall-kelly/whatsapp-order-bot/services"
	"github.com/kendall-kelly/whatsapp-order-bot/utils"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	config.SetConfig(cfg)
	config.SetupLogging(cfg)

	log.WithField("env", cfg.GoEnv).Info("Starting WhatsApp Order Bot API server...")

	// Connect to database
	if err := config.ConnectDatabase(cfg.GetDatabaseURL()); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := migrate(config.GetDB()); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
	log.Info("Database migration completed successfully")

	// Menu and reply engine
	catalog := models.DefaultCatalog()
	if cfg.MenuFile != "" {
		catalog, err = models.LoadCatalog(cfg.MenuFile)
		if err != nil {
			log.Fatalf("Failed to load menu: %v", err)
		}
		log.WithFields(log.Fields{"file": cfg.MenuFile, "items": len(catalog)}).Info("Menu loaded")
	}
	services.InitResponder(catalog)

	// Optional integrations
	services.InitMessageSender(cfg)
	if cfg.HasExportArchive() {
		if _, err := services.InitS3Service(cfg); err != nil {
			log.WithError(err).Warn("S3 unavailable, exports will not be archived")
		}
	}
	utils.ExportDir = cfg.ExportDir

	gin.SetMode(ginMode(cfg))
	router := newRouter()

	port := ":" + cfg.Port
	log.Infof("Server is running on http://localhost%s", port)
	if err := router.Run(port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// ginMode maps GO_ENV onto gin's run mode. Unknown environments get release mode.
func ginMode(cfg *config.Config) string {
	switch {
	case cfg.IsDevelopment():
		return gin.DebugMode
	case cfg.IsTest():
		return gin.TestMode
	default:
		return gin.ReleaseMode
	}
}

// migrate creates or updates the tables the API depends on
func migrate(db *gorm.DB) error {
	return db.AutoMigrate(&models.Order{}, &models.Message{})
}

// newRouter wires middleware and every API route
func newRouter() *gin.Engine {
	router := gin.New()

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, middleware.RequestIDHeader)
	corsConfig.ExposeHeaders = []string{middleware.RequestIDHeader, "Content-Disposition"}

	router.Use(
		gin.Recovery(),
		cors.New(corsConfig),
		middleware.RequestID(),
		middleware.RequestLogger(),
	)

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", healthCheck)
		v1.GET("/database/status", databaseStatus)

		v1.GET("/menu", controllers.GetMenu)

		orders := v1.Group("/orders")
		{
			orders.GET("", controllers.ListOrders)
			orders.POST("", controllers.CreateOrder)
			orders.GET("/export", controllers.DownloadOrders)
			orders.GET("/:id", controllers.GetOrder)
			orders.PUT("/:id/status", controllers.UpdateOrderStatus)
		}

		reports := v1.Group("/reports")
		{
			reports.GET("/summary", controllers.GetSummary)
			reports.GET("/status", controllers.GetStatusReport)
			reports.GET("/top-customers", controllers.GetTopCustomers)
			reports.GET("/top-items", controllers.GetTopItems)
			reports.GET("/hourly", controllers.GetHourlyReport)
		}

		v1.POST("/exports", controllers.CreateExport)
		v1.GET("/exports/:filename", controllers.GetExportFile)
		v1.DELETE("/exports/:filename", controllers.DeleteExportFile)

		v1.POST("/webhook/whatsapp", controllers.WhatsAppWebhook)

		messages := v1.Group("/messages")
		{
			messages.GET("", controllers.ListMessages)
			messages.POST("/process", controllers.ProcessMessage)
			messages.POST("/send", controllers.SendMessage)
		}

		v1.POST("/admin/seed", controllers.SeedOrders)
	}

	return router
}

// healthCheck handles the health check endpoint
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "WhatsApp Order Bot API is running",
	})
}

// databaseStatus checks database connectivity and returns table information
func databaseStatus(c *gin.Context) {
	db := config.GetDB()

	// Get the underlying SQL database to check connection
	sqlDB, err := db.DB()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to get database instance",
			},
		})
		return
	}

	// Ping the database to verify connection
	if err := sqlDB.PingContext(c.Request.Context()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_CONNECTION_ERROR",
				"message": "Database connection failed",
			},
		})
		return
	}

	// Works for both SQLite and PostgreSQL
	allTables, err := db.Migrator().GetTables()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_QUERY_ERROR",
				"message": "Failed to query tables",
			},
		})
		return
	}
	tables := make([]string, 0, len(allTables))
	for _, table := range allTables {
		if !strings.HasPrefix(table, "sqlite_") {
			tables = append(tables, table)
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Database connected",
		"driver":  db.Dialector.Name(),
		"tables":  tables,
	})
}
