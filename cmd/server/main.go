package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"alcyxob/program-builder/internal/api"
	"alcyxob/program-builder/internal/config"
	"alcyxob/program-builder/internal/repository/mongo"
	"alcyxob/program-builder/internal/service"
	"alcyxob/program-builder/internal/storage"
)

// @title Program Builder API
// @version 1.0
// @description API for composing training programs from workout and exercise templates.
// @host localhost:8080
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configDir string

	rootCmd := &cobra.Command{
		Use:   "program-builder",
		Short: "Training program builder API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(configDir)
		},
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVar(&configDir, "config", ".", "directory containing config.yaml")

	rootCmd.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(configDir)
		},
	})
	rootCmd.AddCommand(&cobra.Command{
		Use:   "ensure-indexes",
		Short: "Create MongoDB indexes and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEnsureIndexes(cmd.Context(), configDir)
		},
	})
	return rootCmd
}

func runEnsureIndexes(ctx context.Context, configDir string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg, err := config.LoadConfig(configDir)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	dbClient, err := mongo.ConnectDB(ctx, cfg.Database.URI)
	if err != nil {
		return err
	}
	defer func() {
		if err := mongo.DisconnectDB(dbClient); err != nil {
			log.Printf("ERROR: Failed to disconnect MongoDB: %v", err)
		}
	}()

	ctx, cancel := context.WithTimeout(ctx, time.Minute)
	defer cancel()
	if err := mongo.EnsureIndexes(ctx, dbClient.Database(cfg.Database.Name)); err != nil {
		return err
	}
	log.Println("INFO: Indexes are up to date.")
	return nil
}

func runServe(configDir string) error {
	log.Println("Starting Program Builder Server...")

	// --- Configuration ---
	cfg, err := config.LoadConfig(configDir)
	if err != nil {
		return fmt.Errorf("could not load config: %w", err)
	}
	log.Println("Configuration loaded.")

	// --- Database Connection ---
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	dbClient, err := mongo.ConnectDB(ctx, cfg.Database.URI)
	if err != nil {
		return fmt.Errorf("could not connect to MongoDB: %w", err)
	}
	defer func() {
		log.Println("Disconnecting MongoDB...")
		if err := mongo.DisconnectDB(dbClient); err != nil {
			log.Printf("ERROR: Failed to disconnect MongoDB: %v", err)
		}
	}()
	appDB := dbClient.Database(cfg.Database.Name)
	log.Println("Database connection established.")

	// --- Ensure Indexes ---
	go func() { // Run index creation in background
		ctx, cancel := context.WithTimeout(context.Background(), 1*time.Minute)
		defer cancel()
		if err := mongo.EnsureIndexes(ctx, appDB); err != nil {
			log.Printf("WARN: Index creation failed: %v", err)
			return
		}
		log.Println("Index creation process completed.")
	}()

	// --- Initialize Storage ---
	var archive storage.ProgramArchive
	if cfg.S3.Enabled() {
		log.Println("Initializing program archive...")
		archive, err = storage.NewS3Archive(ctx, cfg.S3)
		if err != nil {
			return fmt.Errorf("failed to initialize S3 archive: %w", err)
		}
	} else {
		log.Println("WARN: S3 is not configured; snapshots and exports are disabled.")
	}

	// --- Initialize Repositories ---
	exerciseRepo := mongo.NewMongoExerciseRepository(appDB)
	workoutRepo := mongo.NewMongoWorkoutRepository(appDB)
	programRepo := mongo.NewMongoProgramRepository(appDB)

	// --- Initialize Services ---
	templateService := service.NewTemplateService(workoutRepo, exerciseRepo, cfg.Builder.MaxPageSize)
	programService := service.NewProgramService(programRepo, templateService, archive, service.ProgramServiceConfig{
		SelectFirstItem: cfg.Builder.SelectFirstItem,
		SessionTTL:      cfg.Builder.SessionTTL,
		SaveTimeout:     cfg.Builder.SaveTimeout,
		ArchivePrefix:   cfg.S3.ArchivePrefix,
		PresignExpiry:   cfg.S3.PresignExpiry,
		MaxPageSize:     cfg.Builder.MaxPageSize,
	})
	go pruneSessions(ctx, programService, cfg.Builder.SessionTTL)

	// --- Initialize Gin Engine ---
	router := gin.Default() // Includes Logger and Recovery middleware
	api.SetupRoutes(router, cfg.JWT.Secret, cfg.Builder.MaxPageSize, templateService, programService)

	// --- Start HTTP Server ---
	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  120 * time.Second,
	}

	log.Printf("Server starting on %s", cfg.Server.Address)

	// --- Graceful Shutdown ---
	serveErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-serveErr:
		return fmt.Errorf("ListenAndServe: %w", err)
	case <-quit:
	}
	log.Println("Shutting down server...")

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()
	if err := server.Shutdown(ctxShutdown); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Println("Server exiting.")
	return nil
}

// pruneSessions drops idle editing sessions until ctx is done.
func pruneSessions(ctx context.Context, programService service.ProgramService, ttl time.Duration) {
	interval := ttl / 2
	if interval < time.Minute {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			programService.PruneIdle(now)
		}
	}
}
