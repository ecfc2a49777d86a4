package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"vibemap-backend/checkin"
	"vibemap-backend/config"
	. "vibemap-backend/handlers"
	"vibemap-backend/middleware"
	"vibemap-backend/store"
	"vibemap-backend/sui"
)

func connectToDatabase(dbURL string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(context.Background(), dbURL)
	if err != nil {
		return nil, err
	}

	// Test the connection
	if err := pool.Ping(context.Background()); err != nil {
		return nil, err
	}

	log.Println("Successfully connected to the database!")
	return pool, nil
}

func connectToSui(cfg *config.Config) (*sui.Client, error) {
	client, err := sui.Dial(context.Background(), cfg.SuiRPCURL, cfg.SuiRPCTimeout)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Sui fullnode: %w", err)
	}
	log.Printf("Using Sui fullnode %s", cfg.SuiRPCURL)
	return client, nil
}

// loadAdminSigner returns nil when no key material is configured. Bad key
// material is an error.
func loadAdminSigner(cfg *config.Config) (sui.Signer, error) {
	if !cfg.HasWallet() {
		return nil, nil
	}
	return sui.NewSigner(cfg.WalletSeedPhrase, cfg.WalletPrivateKey, cfg.WalletKeyScheme)
}

func main() {
	err := godotenv.Load()
	if err != nil {
		log.Println("Warning: .env file not found, using default environment variables")
	}

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v\n", err)
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	// Database connection
	pool, err := connectToDatabase(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Unable to connect to database: %v\n", err)
	}
	defer pool.Close()
	db := store.New(pool)

	// Sui fullnode connection
	suiClient, err := connectToSui(cfg)
	if err != nil {
		log.Fatalf("Unable to connect to Sui fullnode: %v\n", err)
	}
	defer suiClient.Close()

	signer, err := loadAdminSigner(cfg)
	if err != nil {
		log.Fatalf("Invalid admin wallet: %v\n", err)
	}

	builder := sui.NewBuilder(sui.BuilderConfig{
		PackageID:         cfg.PackageID,
		Module:            cfg.Module,
		Function:          cfg.Function,
		ExplicitRecipient: cfg.ExplicitRecipient,
	})
	var submitter checkin.Submitter
	if signer != nil {
		log.Printf("Admin wallet %s sponsors check-ins", signer.Address())
		submitter = sui.NewSubmitter(suiClient, signer, sui.SubmitterConfig{
			GasBudget:   cfg.GasBudget,
			EventMarker: cfg.StampEventMarker,
		}, logger)
		if !cfg.ExplicitRecipient {
			log.Println("Warning: EXPLICIT_RECIPIENT is off, executed check-ins mint stamps to the admin wallet")
		}
	} else {
		log.Println("Warning: no admin wallet configured, only mock check-ins will succeed")
	}
	checkinService := checkin.NewService(db, builder, submitter, logger)

	rdb := config.NewRedisClient(cfg)
	if rdb != nil {
		defer rdb.Close()
	}

	// Create handlers
	userHandler := NewUserHandler(db, suiClient)
	venueHandler := NewVenueHandler(db)
	checkinHandler := NewCheckinHandler(checkinService)
	commentHandler := NewCommentHandler(db)

	// Setup Gin
	router := gin.Default()

	// CORS configuration
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{"http://localhost:3000", "http://localhost:5173"}
	if len(cfg.CORSOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.CORSOrigins
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization"}
	router.Use(cors.New(corsConfig))

	auth := middleware.Auth(db)
	limit := middleware.RateLimit(middleware.RateLimitConfig{
		Enabled: cfg.RateLimitEnabled,
		Max:     cfg.RateLimitMax,
		Window:  cfg.RateLimitWindow,
		Prefix:  "vibemap:rl",
	}, rdb)

	// API routes
	api := router.Group("/api")
	{
		// Auth routes
		api.POST("/auth/google", userHandler.GoogleAuth)
		api.POST("/auth/telegram", userHandler.TelegramAuth)

		// Profile routes
		api.GET("/me", auth, userHandler.GetProfile)
		api.GET("/me/check-ins", auth, userHandler.GetMyCheckIns)
		api.GET("/leaderboard", userHandler.Leaderboard)

		// Venue routes
		api.GET("/venues/nearby", venueHandler.GetNearby)
		api.GET("/venues/trending", venueHandler.GetTrending)
		api.GET("/venues/:id", venueHandler.GetVenue)
		api.GET("/venues/:id/check-ins", venueHandler.GetVenueCheckIns)

		// Checkin routes
		api.POST("/check-ins/sponsor", auth, limit, checkinHandler.SponsorCheckIn)
		api.POST("/check-ins/sponsor/legacy", auth, limit, checkinHandler.SponsorLegacy)
		api.POST("/vibe/drop", auth, checkinHandler.VibeDrop)

		// Comment routes
		api.GET("/check-ins/:id/comments", commentHandler.GetComments)
		api.POST("/check-ins/:id/comments", auth, commentHandler.CreateComment)

		// Health check route
		api.GET("/test-db", func(c *gin.Context) {
			version, err := db.Ping(c)
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Database connection failed: " + err.Error()})
				return
			}
			c.JSON(http.StatusOK, gin.H{"status": "Database connection OK", "version": version})
		})
	}

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"timestamp": time.Now().Unix(),
		})
	})

	log.Printf("Server starting on port %s\n", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v\n", err)
	}
}
