package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/GravityKit/GravityView-sub009/internal/logger"
	"github.com/GravityKit/GravityView-sub009/internal/version"
)

var (
	fixturePath string
	jsonOutput  bool
	logLevel    string

	world *fixture
	log   *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:           "gvctl <command>",
	Short:         "Inspect GravityView search widgets offline",
	Version:       version.String(),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		l, err := logger.NewLogger("cli", logLevel)
		if err != nil {
			return fmt.Errorf("init logger: %w", err)
		}
		log = l
		if fixturePath == "" {
			return fmt.Errorf("--fixture is required")
		}
		fx, err := loadFixture(fixturePath)
		if err != nil {
			return err
		}
		world = fx
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if log != nil {
			_ = log.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&fixturePath, "fixture", "f", os.Getenv("GVCTL_FIXTURE"), "YAML fixture with form, view, users and entries")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output as JSON")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level (debug, info, warn, error)")

	rootCmd.AddCommand(fieldsCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
