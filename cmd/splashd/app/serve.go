package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	splashapp "github.com/overtext/splash-server/internal/app"
	"github.com/overtext/splash-server/internal/config"
	"github.com/overtext/splash-server/internal/logger"
	"github.com/overtext/splash-server/internal/telemetry"
	"github.com/overtext/splash-server/internal/versions"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the splash API server",
	Long: `Start the splash API server.

The server requires a configuration file (--config) that specifies:
- Whether to fetch the splash list from a remote URL
- The local fallback list
- The listen address and other operational settings

See examples/ directory for sample configurations.

The process reloads its configuration file on SIGHUP and invalidates the
cached splash list so the next request resolves against the new settings.`,
	RunE: runServe,
}

// defaultGracefulTimeout is Kubernetes-friendly shutdown time
const defaultGracefulTimeout = 30 * time.Second

func init() {
	serveCmd.Flags().String("address", "", "Address to listen on (overrides the config file)")
	serveCmd.Flags().String("config", "", "Path to configuration file (YAML format, required)")
	serveCmd.Flags().Bool("metrics", true, "Expose Prometheus metrics on /metrics")

	err := viper.BindPFlag("address", serveCmd.Flags().Lookup("address"))
	if err != nil {
		logger.Fatalf("Failed to bind address flag: %v", err)
	}
	err = viper.BindPFlag("config", serveCmd.Flags().Lookup("config"))
	if err != nil {
		logger.Fatalf("Failed to bind config flag: %v", err)
	}
	err = viper.BindPFlag("metrics", serveCmd.Flags().Lookup("metrics"))
	if err != nil {
		logger.Fatalf("Failed to bind metrics flag: %v", err)
	}

	// Mark config as required
	if err := serveCmd.MarkFlagRequired("config"); err != nil {
		logger.Fatalf("Failed to mark config flag as required: %v", err)
	}
}

// resolveAddress prefers the command line flag over the config file.
func resolveAddress(flagAddr string, cfg *config.Config) string {
	if flagAddr != "" {
		return flagAddr
	}
	return cfg.GetAddress()
}

func runServe(_ *cobra.Command, _ []string) error {
	ctx := context.Background()

	// Load and validate configuration (required)
	configPath := viper.GetString("config")
	cfg, err := config.LoadConfig(config.WithConfigPath(configPath))
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	logger.Infof("Loaded configuration from %s (useRemote=%v, %d local splashes)",
		configPath, cfg.Splashes.UseRemote, len(cfg.Splashes.Local))

	address := resolveAddress(viper.GetString("address"), cfg)

	opts := []splashapp.SplashAppOptions{
		splashapp.WithConfig(cfg),
		splashapp.WithAddress(address),
	}

	if viper.GetBool("metrics") {
		meterProvider, metricsHandler, err := telemetry.NewMeterProvider(ctx,
			telemetry.WithServiceVersion(versions.GetVersionInfo().Version),
		)
		if err != nil {
			return fmt.Errorf("failed to create meter provider: %w", err)
		}
		opts = append(opts,
			splashapp.WithMeterProvider(meterProvider),
			splashapp.WithMetricsHandler(metricsHandler),
		)
	}

	application, err := splashapp.NewSplashApp(ctx, opts...)
	if err != nil {
		return fmt.Errorf("failed to build application: %w", err)
	}

	// Start server in goroutine
	errChan := make(chan error, 1)
	go func() {
		errChan <- application.Start()
	}()

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)

	for {
		select {
		case err := <-errChan:
			return err
		case sig := <-signals:
			if sig == syscall.SIGHUP {
				logger.Info("SIGHUP received; reloading configuration")
				newCfg, err := config.LoadConfig(config.WithConfigPath(configPath))
				if err != nil {
					logger.Errorf("Configuration reload failed, keeping previous configuration: %v", err)
					continue
				}
				application.Reload(newCfg)
				continue
			}

			if err := application.Stop(defaultGracefulTimeout); err != nil {
				logger.Errorf("Server forced to shutdown: %v", err)
				return err
			}
			// Wait for Start() to return
			return <-errChan
		}
	}
}
