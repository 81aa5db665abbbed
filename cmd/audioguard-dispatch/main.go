package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"audioguard/internal/config"
	"audioguard/internal/constants"
	"audioguard/internal/logger"
	"audioguard/pkg/logging"
)

var (
	configFile string
	envFiles   []string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   constants.ServiceName,
		Short: "AudioGuard alert dispatch service",
		Long:  "Formats copyright-risk alerts and delivers them to Discord, and answers Discord slash commands",
		RunE:  serveCmd().RunE,
	}

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Path to config file (or CONFIG_FILE)")
	rootCmd.PersistentFlags().StringSliceVar(&envFiles, "env-file", []string{".env"}, "Dotenv files loaded before the config")

	rootCmd.AddCommand(serveCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the dispatch HTTP service",
		RunE: func(cmd *cobra.Command, args []string) error {
			earlyLog := logging.NewEarlyLog()

			if err := config.LoadDotEnv(envFiles...); err != nil {
				earlyLog.Error("Failed to load env files: %v", err)
				return err
			}

			if configFile == "" {
				configFile = os.Getenv("CONFIG_FILE")
				if configFile == "" {
					earlyLog.Error("Config file is required. Use --config flag or CONFIG_FILE environment variable")
					return fmt.Errorf("config file is required")
				}
			}

			cfg, err := config.Load(configFile)
			if err != nil {
				earlyLog.Error("Failed to load config: %v", err)
				return err
			}

			log, err := logger.New(cfg.Logging.Level, cfg.Logging.Format, constants.ServiceName)
			if err != nil {
				earlyLog.Error("Failed to init logger: %v", err)
				return err
			}
			defer log.Sync()

			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer cancel()
			ctx = logging.WithServiceName(ctx, constants.ServiceName)

			log.InfowCtx(ctx, "Starting dispatch service", "discord", cfg.Discord.String(), "store", cfg.Store.Type)

			app := NewApp(cfg, log)
			if err := app.Initialize(ctx); err != nil {
				log.ErrorwCtx(ctx, "Failed to initialize application", "error", err)
				_ = app.Shutdown(context.Background())
				return err
			}

			runErr := app.Run(ctx)

			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), constants.ShutdownTimeout)
			defer shutdownCancel()
			if err := app.Shutdown(shutdownCtx); err != nil {
				log.ErrorwCtx(shutdownCtx, "Shutdown finished with errors", "error", err)
			}

			if runErr != nil && !errors.Is(runErr, context.Canceled) {
				log.ErrorwCtx(ctx, "Service stopped with error", "error", runErr)
				return runErr
			}
			log.InfowCtx(shutdownCtx, "Service shutdown complete")
			return nil
		},
	}
}
