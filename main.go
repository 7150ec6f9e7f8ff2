package main

import (
	"log"
	"net/http"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/muhijericho/capstone-topstyle-sub000/config"
	"github.com/muhijericho/capstone-topstyle-sub000/controllers"
	"github.com/muhijericho/capstone-topstyle-sub000/middleware"
	"github.com/muhijericho/capstone-topstyle-sub000/services"
)

func main() {
	log.Println("Starting TopStyle business API server...")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	config.SetConfig(cfg)

	if err := config.ConnectDatabase(); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := config.Migrate(config.GetDB()); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
	log.Println("Database migration completed successfully")

	// Domain event listeners: audit trail and customer notifications.
	services.RegisterActivityListeners()
	services.RegisterNotificationListeners()

	if _, err := services.InitExportService(); err != nil {
		log.Printf("Report export disabled: %v", err)
	}

	router := setupRouter(cfg)

	addr := ":" + cfg.Port
	log.Printf("Server is running on http://localhost%s", addr)
	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// setupRouter assembles the Gin engine. Split from main so tests can build
// the full route table against a test database.
func setupRouter(cfg *config.Config) *gin.Engine {
	router := gin.Default()

	corsConfig := cors.DefaultConfig()
	if cfg.CORSOrigins == "*" {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = strings.Split(cfg.CORSOrigins, ",")
	}
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "Authorization")
	router.Use(cors.New(corsConfig))

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", healthCheck)
		v1.GET("/database/status", databaseStatus)
	}

	authed := v1.Group("")
	authed.Use(middleware.EnsureValidToken(cfg))
	{
		authed.POST("/users/sync", controllers.CreateUser)
		authed.GET("/users/me", controllers.GetMyProfile)
		authed.PUT("/users/me", controllers.UpdateMyProfile)

		authed.POST("/customers", controllers.CreateCustomer)
		authed.GET("/customers", controllers.ListCustomers)
		authed.GET("/customers/:id", controllers.GetCustomer)
		authed.PUT("/customers/:id", controllers.UpdateCustomer)
		authed.DELETE("/customers/:id", controllers.DeleteCustomer)

		authed.POST("/categories", controllers.CreateCategory)
		authed.GET("/categories", controllers.ListCategories)

		authed.POST("/products", controllers.CreateProduct)
		authed.GET("/products", controllers.ListProducts)
		authed.GET("/products/:id", controllers.GetProduct)
		authed.PUT("/products/:id", controllers.UpdateProduct)
		authed.POST("/products/:id/archive", controllers.ArchiveProduct)
		authed.POST("/products/:id/adjust-stock", controllers.AdjustStock)
		authed.GET("/products/:id/transactions", controllers.ListInventoryTransactions)

		authed.POST("/orders", controllers.CreateOrder)
		authed.GET("/orders", controllers.ListOrders)
		authed.GET("/orders/:id", controllers.GetOrder)
		authed.POST("/orders/:id/payments", controllers.ApplyPayment)
		authed.POST("/orders/:id/return", controllers.ReturnOrder)
		authed.POST("/orders/:id/cancel", controllers.CancelOrder)
		authed.POST("/orders/:id/archive", controllers.ArchiveOrder)
		authed.PUT("/orders/:id/status", controllers.UpdateOrderStatus)
		authed.GET("/orders/:id/activity", controllers.ListOrderActivity)

		authed.GET("/rentals/status", controllers.ListRentals)
		authed.GET("/rentals/overdue", controllers.ListOverdueRentals)
		authed.POST("/rentals/sync", controllers.SyncRentals)
		authed.POST("/rentals/check-overdue", controllers.CheckOverdue)

		authed.GET("/reports/dashboard", controllers.GetDashboard)
		authed.GET("/reports/sales", controllers.GetSalesReport)
		authed.POST("/reports/sales/export", controllers.ExportSalesReport)
		authed.GET("/reports/low-stock", controllers.GetLowStock)

		authed.GET("/activity", controllers.ListActivity)
	}

	return router
}

// healthCheck handles the health check endpoint
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "TopStyle business API is running",
	})
}

// databaseStatus checks database connectivity and returns table information
func databaseStatus(c *gin.Context) {
	db := config.GetDB()

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

	if err := sqlDB.Ping(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_CONNECTION_ERROR",
				"message": "Database connection failed",
			},
		})
		return
	}

	var tables []string
	if err := db.Raw("SELECT tablename FROM pg_tables WHERE schemaname = 'public'").Scan(&tables).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_QUERY_ERROR",
				"message": "Failed to query tables",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Database connected",
		"tables":  tables,
	})
}
