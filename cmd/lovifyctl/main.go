// Command lovifyctl runs maintenance tasks against the configured backend.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/slayerintech/Lovify/internal/app/apiapp"
	"github.com/slayerintech/Lovify/internal/app/storage"
	"github.com/slayerintech/Lovify/internal/config"
	"github.com/slayerintech/Lovify/internal/infra/logger"

	_ "time/tzdata"
)

func main() {
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type rootOptions struct {
	configPath string
	driver     string
	logLevel   string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:           "lovifyctl",
		Short:         "Maintenance commands for the Lovify matching backend",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	defaultConfig := os.Getenv("APP_CONFIG")
	if defaultConfig == "" {
		defaultConfig = "configs/config.yaml"
	}
	cmd.PersistentFlags().StringVar(&opts.configPath, "config", defaultConfig, "path to the yaml config")
	cmd.PersistentFlags().StringVar(&opts.driver, "driver", "", "override storage.driver")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "override log.level")

	cmd.AddCommand(
		newSeedCmd(opts),
		newPurgeUserCmd(opts),
		newMigrateCmd(opts),
		newTokenCmd(opts),
		newReconcileCmd(opts),
	)
	return cmd
}

// env is what every subcommand gets after bootstrap.
type env struct {
	cfg     config.Config
	log     *zap.Logger
	backend *storage.Backend
}

func (e *env) Close() {
	if e.backend != nil {
		if err := e.backend.Close(); err != nil {
			e.log.Warn("close storage", zap.Error(err))
		}
	}
	_ = e.log.Sync()
}

func (e *env) services(ctx context.Context) (*apiapp.Services, error) {
	return apiapp.NewServices(ctx, e.cfg, e.backend, e.log)
}

func bootstrap(ctx context.Context, opts *rootOptions, withStorage bool) (*env, error) {
	cfg, err := loadConfig(opts)
	if err != nil {
		return nil, err
	}

	log, err := logger.New(cfg.Log.Level, "lovifyctl")
	if err != nil {
		return nil, err
	}

	e := &env{cfg: cfg, log: log}
	if !withStorage {
		return e, nil
	}

	backend, err := storage.Open(ctx, cfg, log)
	if err != nil {
		_ = log.Sync()
		return nil, fmt.Errorf("open storage: %w", err)
	}
	e.backend = backend
	return e, nil
}

func loadConfig(opts *rootOptions) (config.Config, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return config.Config{}, err
	}
	if opts.driver != "" {
		cfg.Storage.Driver = strings.ToLower(strings.TrimSpace(opts.driver))
	}
	if opts.logLevel != "" {
		cfg.Log.Level = opts.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}
