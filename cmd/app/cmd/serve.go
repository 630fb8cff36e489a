package cmd

import (
	"AgeGenderDetector/internal/config"
	"AgeGenderDetector/pkg/log"
	"context"
	"time"

	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the web server (default)",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

func runServe(ctx context.Context) error {
	logger := log.NewLogger()

	fiberApp, err := config.NewFiber(logger)
	if err != nil {
		return err
	}

	options := []config.ServerOption{
		config.WithFiber(fiberApp),
		config.WithLogger(logger),
		config.WithValidator(config.NewValidator()),
	}
	if config.UsesPostgres() {
		options = append(options, config.WithDatabase())
	}
	options = append(options,
		config.WithAccountStore(),
		config.WithSessionStore(),
		config.WithS3Client(),
		config.WithModelRegistry(config.ModelDir()),
		config.WithFaceDetector(),
		config.WithCamera(config.OpenVisionCamera),
		config.WithBcryptUtils(),
		config.WithUtils(),
	)

	server, err := config.NewServer(options...)
	if err != nil {
		logger.Fatal(err)
	}

	if err := server.RegisterHandler(); err != nil {
		return err
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Run()
	}()

	logger.Info("Server started successfully")

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	return server.Shutdown(shutdownCtx)
}
