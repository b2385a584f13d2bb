package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/finzo/backend/internal/api"
	"github.com/finzo/backend/internal/api/handlers"
	"github.com/finzo/backend/internal/engine"
	"github.com/finzo/backend/pkg/config"
	"github.com/finzo/backend/pkg/logger"
)

// apiCmd represents the api command
var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "Start the API server",
	Long: `Starts the REST API server.

Endpoints:
  GET  /health                             - Health check
  POST /api/recommendations                - Full recommendation bundle
  POST /api/recommendations/stocks         - Stock recommendations
  POST /api/recommendations/mutual-funds   - Mutual fund recommendations
  POST /api/recommendations/commodities    - Commodity recommendations
  POST /api/recommendations/sip            - SIP recommendations
  POST /api/profile/capacity               - Investment capacity
  POST /api/profile/allocation             - Asset allocation
  POST /api/profile/guidance               - Portfolio guidance
  GET  /api/market/snapshot                - Latest market snapshot
  POST /api/market/refresh                 - Trigger snapshot collection
  GET  /api/market/live                    - Websocket live updates

Example:
  go run ./cmd/finzo api
  go run ./cmd/finzo api --port 8090`,
	RunE: runAPIServer,
}

var (
	apiPort string
)

func init() {
	rootCmd.AddCommand(apiCmd)

	apiCmd.Flags().StringVar(&apiPort, "port", "", "API server port (overrides PORT)")
}

func runAPIServer(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if apiPort != "" {
		cfg.Port = apiPort
	}

	log := logger.New(cfg)
	log.WithFields(map[string]interface{}{
		"port": cfg.Port,
		"env":  cfg.Env,
	}).Info("Initializing API server")

	repo, closeDB := openRepository(cmd.Context(), cfg, log)
	defer closeDB()

	col, redisClient, err := newCollector(cfg, log)
	if err != nil {
		return fmt.Errorf("connect to redis: %w", err)
	}
	defer redisClient.Close()

	eng := engine.New(cfg.Engine, log)

	recHandler := handlers.NewRecommendationsHandler(eng, col, repo, log)
	profileHandler := handlers.NewProfileHandler(eng, log)
	marketHandler := handlers.NewMarketHandler(col, repo, cfg, log)
	streamHandler := handlers.NewStreamHandler(col, log)

	router := api.NewRouter(recHandler, profileHandler, marketHandler, streamHandler, log)
	server := api.New(cfg, log, router)

	go func() {
		if err := server.Start(); err != nil {
			log.WithError(err).Fatal("Failed to start server")
		}
	}()

	log.Info("API server started successfully")
	fmt.Printf("Server running on http://localhost:%s\n", cfg.Port)
	fmt.Println("Press Ctrl+C to stop")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	log.Info("Server stopped")
	return nil
}
