package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/railstation/train-station-backend/internal/config"
	"github.com/railstation/train-station-backend/internal/database"
	"github.com/railstation/train-station-backend/internal/handlers"
	"github.com/railstation/train-station-backend/internal/middleware"
	"github.com/railstation/train-station-backend/internal/services"
	"github.com/railstation/train-station-backend/pkg/jwt"
	"github.com/railstation/train-station-backend/pkg/validator"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

var (
	version   = "1.0.0"
	buildTime = "unknown"
)

func main() {
	// Initialize logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stdout)

	logger.Info("Starting Train Station Booking Backend")
	logger.Infof("Version: %s, Build Time: %s", version, buildTime)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("Failed to load configuration: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatalf("Invalid configuration: %v", err)
	}

	// Set log level
	logLevel, err := logrus.ParseLevel(cfg.Server.LogLevel)
	if err != nil {
		logger.Warn("Invalid log level, using INFO")
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	// Set Gin mode
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	// Initialize database connection
	logger.Info("Connecting to database...")
	db, err := database.NewConnection(cfg.Database)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	logger.Info("Database connection established")

	// Optional trip-list cache
	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := redisClient.Ping(context.Background()).Err(); err != nil {
			logger.Warnf("Redis unavailable, trip list caching disabled: %v", err)
			redisClient = nil
		} else {
			logger.Info("Redis connection established")
		}
	}

	// Initialize services
	logger.Info("Initializing services...")
	jwtService := jwt.NewService(
		cfg.JWT.Secret,
		cfg.JWT.RefreshSecret,
		cfg.JWT.AccessTokenExpiry,
		cfg.JWT.RefreshTokenExpiry,
	)
	coordValidator := validator.NewCoordinateValidator()

	// Repositories. Trip and order repositories need *sqlx.DB for
	// transactions, the rest use the DB interface.
	userRepo := database.NewUserRepository(db)
	refreshTokenRepo := database.NewRefreshTokenRepository(db)
	stationRepo := database.NewStationRepository(db)
	routeRepo := database.NewRouteRepository(db)
	trainTypeRepo := database.NewTrainTypeRepository(db)
	trainRepo := database.NewTrainRepository(db)
	crewRepo := database.NewCrewRepository(db)
	tripRepo := database.NewTripRepository(db.DB)
	orderRepo := database.NewOrderRepository(db.DB)

	slotValidator := services.NewSlotValidator(tripRepo, orderRepo)

	var publisher *services.OrderEventPublisher
	if cfg.AMQP.URL != "" {
		publisher = services.NewOrderEventPublisher(cfg.AMQP.URL)
		logger.Info("Order event publishing enabled")
	}

	bookingService := services.NewBookingService(orderRepo, slotValidator, publisher, logger)
	logger.Info("Services initialized")

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(userRepo, refreshTokenRepo, jwtService, cfg.Security.BcryptCost, logger)
	stationHandler := handlers.NewStationHandler(stationRepo, coordValidator, logger)
	routeHandler := handlers.NewRouteHandler(routeRepo, stationRepo, logger)
	trainHandler := handlers.NewTrainHandler(trainRepo, trainTypeRepo, cfg.Upload, logger)
	crewHandler := handlers.NewCrewHandler(crewRepo, logger)
	tripHandler := handlers.NewTripHandler(tripRepo, routeRepo, trainRepo, crewRepo, logger)
	orderHandler := handlers.NewOrderHandler(bookingService, logger)

	// Initialize Gin router
	router := gin.New()

	// Middleware
	router.Use(gin.Recovery())
	router.Use(requestLogger(logger))

	// CORS configuration
	corsConfig := cors.Config{
		AllowOrigins:     cfg.CORS.AllowedOrigins,
		AllowMethods:     cfg.CORS.AllowedMethods,
		AllowHeaders:     cfg.CORS.AllowedHeaders,
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	router.Use(cors.New(corsConfig))

	// Health check endpoint
	router.GET("/health", healthCheckHandler(db))

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Authentication routes (public)
		auth := v1.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.POST("/refresh", authHandler.Refresh)

			// Protected routes (require JWT authentication)
			protected := auth.Group("")
			protected.Use(middleware.AuthMiddleware(jwtService))
			{
				protected.GET("/profile", authHandler.GetProfile)
				protected.PUT("/profile", authHandler.UpdateProfile)
			}
		}

		authRequired := middleware.AuthMiddleware(jwtService)
		staffRequired := middleware.RequireStaff()

		// Station routes
		stations := v1.Group("/stations")
		stations.Use(authRequired)
		{
			stations.GET("", stationHandler.ListStations)
			stations.POST("", staffRequired, stationHandler.CreateStation)
		}

		// Route routes
		routes := v1.Group("/routes")
		routes.Use(authRequired)
		{
			routes.GET("", routeHandler.ListRoutes)
			routes.POST("", staffRequired, routeHandler.CreateRoute)
		}

		// Train type routes
		trainTypes := v1.Group("/train-types")
		trainTypes.Use(authRequired)
		{
			trainTypes.GET("", trainHandler.ListTrainTypes)
			trainTypes.POST("", staffRequired, trainHandler.CreateTrainType)
		}

		// Train routes
		trains := v1.Group("/trains")
		trains.Use(authRequired)
		{
			trains.GET("", trainHandler.ListTrains)
			trains.GET("/:id", trainHandler.GetTrainByID)
			trains.POST("", staffRequired, trainHandler.CreateTrain)
			trains.POST("/:id/image", staffRequired, trainHandler.UploadTrainImage)
		}

		// Crew routes
		crews := v1.Group("/crews")
		crews.Use(authRequired)
		{
			crews.GET("", crewHandler.ListCrews)
			crews.POST("", staffRequired, crewHandler.CreateCrew)
		}

		// Trip routes. The list endpoint is the hottest read path, so
		// it sits behind the short-TTL response cache.
		trips := v1.Group("/trips")
		trips.Use(authRequired)
		{
			trips.GET("", middleware.ResponseCache(redisClient, cfg.Redis.CacheTTL), tripHandler.ListTrips)
			trips.GET("/:id", tripHandler.GetTripByID)
			trips.POST("", staffRequired, tripHandler.CreateTrip)
			trips.PUT("/:id", staffRequired, tripHandler.UpdateTrip)
			trips.DELETE("/:id", staffRequired, tripHandler.DeleteTrip)
		}

		// Order routes (always scoped to the authenticated user)
		orders := v1.Group("/orders")
		orders.Use(authRequired)
		{
			orders.GET("", orderHandler.ListOrders)
			orders.POST("", orderHandler.CreateOrder)
		}
	}

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Infof("Server starting on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Errorf("Server forced to shutdown: %v", err)
	}

	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			logger.Errorf("Failed to close redis client: %v", err)
		}
	}

	logger.Info("Server exited successfully")
}

// requestLogger middleware for logging HTTP requests
func requestLogger(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		latency := time.Since(start)

		fields := logrus.Fields{
			"status":     c.Writer.Status(),
			"method":     c.Request.Method,
			"path":       path,
			"query":      query,
			"ip":         c.ClientIP(),
			"latency_ms": latency.Milliseconds(),
			"user_agent": c.Request.UserAgent(),
		}

		if userCtx, ok := middleware.GetUserContext(c); ok {
			fields["user_id"] = userCtx.UserID
		}

		entry := logger.WithFields(fields)

		status := c.Writer.Status()
		switch {
		case status >= 500:
			entry.Error("Request completed with server error")
		case status >= 400:
			entry.Warn("Request completed with client error")
		default:
			entry.Info("Request completed successfully")
		}
	}
}

// healthCheckHandler returns a health check endpoint
func healthCheckHandler(db database.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"database": "unhealthy",
				"error":    err.Error(),
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"database":  "healthy",
			"version":   version,
			"timestamp": time.Now().Unix(),
		})
	}
}
