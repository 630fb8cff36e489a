package cmd

import (
	"AgeGenderDetector/pkg/log"
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

const Version = "0.1.0"

var envFile string

var rootCmd = &cobra.Command{
	Use:     "agegender",
	Short:   "Age and gender detection web service",
	Version: Version,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if err := godotenv.Load(envFile); err != nil {
			log.NewLogger().Warnf("No env file loaded from %s: %v", envFile, err)
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
	SilenceUsage: true,
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rootCmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file to load before running")
	rootCmd.AddCommand(serveCmd, migrateCmd, probeCmd)
}
