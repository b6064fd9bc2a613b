package main

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/tattlecode/tattle/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the upload/check HTTP service",
	Long: `Starts an HTTP server that accepts assignment uploads and runs
detection over the accumulated corpus on demand.

Endpoints:
  GET  /api/health   liveness probe
  POST /api/upload   multipart upload of one assignment
  POST /api/check    compare all uploaded assignments
  POST /api/cleanup  delete all uploads`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringP("port", "p", "", "Listen port (overrides config)")

	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if port, _ := cmd.Flags().GetString("port"); port != "" {
		cfg.Server.Port = port
	}

	if !verbose {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := os.MkdirAll(cfg.Server.CorpusDir, 0755); err != nil {
		return err
	}

	router := server.SetupRoutes(cfg)
	srv := server.StartServer(router, cfg.Server.Port)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	log.Info().Str("signal", sig.String()).Msg("shutdown requested")

	return server.ShutdownServer(srv, 10*time.Second)
}
