package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/lumehq/customeriq/backend/internal/api"
	"github.com/lumehq/customeriq/backend/internal/api/handlers"
)

// apiCmd represents the api command
var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "Start the API server",
	Long: `Starts the REST API server.

Endpoints:
  GET  /health                    - Health check
  GET  /api/segments              - Full segmentation result
  GET  /api/segments/summary      - Segment counts and churn rate
  GET  /api/segments/latest       - Most recent persisted run
  GET  /api/segments/{customerID} - Single customer assignment
  GET  /api/cohorts/retention     - Cohort retention matrix
  GET  /api/journey/sequences     - Purchase sequence breakdown
  POST /api/refresh               - Recompute all analytics
  GET  /api/refresh/ws            - Recompute with streamed progress

Example:
  go run ./cmd/customeriq api
  go run ./cmd/customeriq api --port 8086`,
	RunE: runAPIServer,
}

var apiPort string

func init() {
	rootCmd.AddCommand(apiCmd)

	apiCmd.Flags().StringVar(&apiPort, "port", "", "API server port (default from PORT)")
}

func runAPIServer(cmd *cobra.Command, args []string) error {
	fmt.Println("=== CustomerIQ API Server ===")

	rt, err := newRuntime()
	if err != nil {
		return err
	}
	defer rt.Close()

	if apiPort != "" {
		rt.cfg.Port = apiPort
	}

	analyticsHandler := handlers.NewAnalyticsHandler(rt.service, rt.log)
	refreshHandler := handlers.NewRefreshHandler(rt.service, rt.log)

	router := api.NewRouter(analyticsHandler, refreshHandler, rt.log)
	server := api.New(rt.cfg, rt.log, router)

	go func() {
		if err := server.Start(); err != nil {
			rt.log.WithError(err).Fatal("Failed to start server")
		}
	}()

	fmt.Printf("\nServer running on http://localhost%s\n", server.Addr())
	fmt.Println("Press Ctrl+C to stop")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	return nil
}
