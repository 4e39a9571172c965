package main

import (
	"database/sql"
	"flag"
	"log"
	"net/http"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	httpapi "divecenter-backend/internal/api/http"
	"divecenter-backend/internal/config"
	"divecenter-backend/internal/logger"
	"divecenter-backend/internal/repository/postgres"
	"divecenter-backend/internal/security"
	"divecenter-backend/internal/service"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	flag.Parse()

	// .env is optional; environment overrides win over the YAML file
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting Dive Center Backend...", "log_level", cfg.Log.Level, "log_format", cfg.Log.Format)
	logger.Info("Server configuration", "address", cfg.GetServerAddress())
	logger.Info("Database configuration", "host", cfg.Database.Host, "port", cfg.Database.Port, "database", cfg.Database.Database, "user", cfg.Database.User)

	// Initialize Database
	db, err := sql.Open("postgres", cfg.GetDatabaseConnectionString())
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Test database connection
	if err := db.Ping(); err != nil {
		logger.Error("Failed to ping database", "error", err)
		log.Fatalf("Failed to ping database: %v", err)
	}
	logger.Info("Database connection established")

	// Initialize Repositories
	store := postgres.NewStore(db)

	// Initialize Security
	tokenManager := security.NewTokenManager(
		cfg.JWT.Secret,
		time.Duration(cfg.JWT.AccessTokenExpiry)*time.Minute,
		time.Duration(cfg.JWT.RefreshTokenExpiry)*time.Minute,
	)

	// Initialize Services
	refCache := service.NewRefCache()
	emailSvc := service.NewEmailService(cfg.Email.APIKey, cfg.Email.FromEmail, cfg.Email.FromName)
	authSvc := service.NewAuthService(store, tokenManager)
	availabilitySvc := service.NewAvailabilityService(store)
	assignmentSvc := service.NewAssignmentService(store, emailSvc)
	basketSvc := service.NewBasketService(store)
	packageSvc := service.NewDivePackageService(store)
	equipmentSvc := service.NewEquipmentService(store, refCache)
	customerSvc := service.NewCustomerService(store)
	bookingSvc := service.NewBookingService(store)

	// Initialize HTTP handlers and router
	handlers := httpapi.Handlers{
		Auth:       httpapi.NewAuthHandler(authSvc),
		Assignment: httpapi.NewAssignmentHandler(assignmentSvc, availabilitySvc),
		Basket:     httpapi.NewBasketHandler(basketSvc),
		Package:    httpapi.NewPackageHandler(packageSvc),
		Equipment:  httpapi.NewEquipmentHandler(equipmentSvc),
		Customer:   httpapi.NewCustomerHandler(customerSvc, bookingSvc),
	}
	router := httpapi.NewRouter(handlers, tokenManager)

	logger.Info("HTTP server listening", "address", cfg.GetServerAddress())
	if err := http.ListenAndServe(cfg.GetServerAddress(), router); err != nil {
		logger.Error("HTTP server error", "error", err)
		log.Fatalf("Failed to serve: %v", err)
	}
}
