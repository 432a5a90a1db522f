package main

import (
	"log"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/demenago/demenago-api/config"
	"github.com/demenago/demenago-api/controllers"
	"github.com/demenago/demenago-api/middleware"
	"github.com/demenago/demenago-api/models"
	"github.com/demenago/demenago-api/services"
)

func main() {
	// Basic logging
	log.Println("Starting Demenago API server...")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Connect to database
	if err := config.ConnectDatabase(); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Auto-migrate database models
	db := config.GetDB()
	if err := db.AutoMigrate(
		&models.Entreprise{},
		&models.CategorieMeuble{},
		&models.Meuble{},
		&models.Devis{},
		&models.DevisMeuble{},
		&models.User{},
	); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
	log.Println("Database migration completed successfully")

	// Object storage for logos and furniture images
	if cfg.AWSS3Bucket != "" {
		if _, err := services.InitStorageService(); err != nil {
			log.Fatalf("Failed to initialize storage service: %v", err)
		}
		log.Println("Storage service initialized")
	} else {
		log.Println("AWS_S3_BUCKET not set, image uploads disabled")
	}

	// Email dispatch for quote notifications
	services.InitEmailService(services.NewSMTPMailer(), cfg)

	// Initialize Gin router with all routes
	router := setupAppRouter(cfg)

	// Start server
	addr := ":" + cfg.Port
	log.Printf("Server is running on http://localhost%s", addr)
	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// setupAppRouter wires middleware and all API routes
func setupAppRouter(cfg *config.Config) *gin.Engine {
	router := gin.Default()

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "Authorization")
	router.Use(cors.New(corsConfig))

	api := router.Group("/api")
	{
		// Health and status
		api.GET("/health", healthCheck)
		api.GET("/database/status", databaseStatus)

		// Public calculator endpoints, no auth
		api.GET("/calculatrice/:slug", controllers.GetCalculatrice)
		api.POST("/devis", controllers.CreateDevis)

		// Tenant dashboard
		entreprise := api.Group("/entreprise", middleware.EnsureValidToken(cfg))
		{
			entreprise.GET("/devis", controllers.ListDevis)
			entreprise.GET("/devis/:id", controllers.GetDevis)
			entreprise.PATCH("/devis/:id", controllers.UpdateDevis)
			entreprise.GET("/stats", controllers.GetStats)
		}

		// Platform administration
		admin := api.Group("/admin", middleware.EnsureValidToken(cfg), middleware.RequireRole("admin"))
		{
			admin.POST("/entreprises", controllers.CreateEntreprise)
			admin.GET("/entreprises", controllers.ListEntreprises)
			admin.PATCH("/entreprises/:id", controllers.UpdateEntreprise)
			admin.DELETE("/entreprises/:id", controllers.DeleteEntreprise)
			admin.POST("/entreprises/:id/logo", controllers.UploadEntrepriseLogo)

			admin.PATCH("/devis/:id", controllers.AdminUpdateDevis)
			admin.DELETE("/devis/:id", controllers.AdminDeleteDevis)

			admin.POST("/categories", controllers.CreateCategorie)
			admin.POST("/meubles", controllers.CreateMeuble)
			admin.PATCH("/meubles/:id", controllers.UpdateMeuble)
			admin.DELETE("/meubles/:id", controllers.DeleteMeuble)
			admin.POST("/meubles/:id/image", controllers.UploadMeubleImage)
		}
	}

	return router
}

// healthCheck handles the health check endpoint
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Demenago API is running",
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

	// Get list of tables
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
