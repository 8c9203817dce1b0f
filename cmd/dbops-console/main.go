package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"dbops-console/internal/config"
	"dbops-console/internal/directory"
	"dbops-console/internal/eventlog"
	"dbops-console/internal/i18n"
	"dbops-console/internal/operation"
	"dbops-console/internal/session"
	"dbops-console/internal/state"
	"dbops-console/internal/web"

	"github.com/spf13/cobra"
)

// version is set at build time via -ldflags "-X main.version=v1.0.0"
var version = "dev"

// janitorInterval is how often idle consoles are swept.
const janitorInterval = time.Minute

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// newRootCmd builds the command tree. Running without a subcommand starts
// the web console.
func newRootCmd() *cobra.Command {
	var cfgFile string

	cmd := &cobra.Command{
		Use:          "dbops-console",
		Short:        "Web console for Azure SQL database operations",
		Version:      version,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, cfgFile)
			if err != nil {
				return err
			}
			return runServer(cmd.Context(), cfg)
		},
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default searches the user and system config dirs)")
	cmd.PersistentFlags().String("log-level", "INFO", "log level: DEBUG, INFO, WARN, ERROR")
	cmd.PersistentFlags().String("language", "en", "UI language")
	cmd.Flags().String("port", "8080", "web UI port")

	cmd.AddCommand(
		newConfigCmd(&cfgFile),
		newDirectoryCmd(&cfgFile),
		newEventsCmd(),
	)
	return cmd
}

// loadConfig resolves the configuration and sets up logging and the message
// catalog from it.
func loadConfig(cmd *cobra.Command, cfgFile string) (*config.Config, error) {
	cfg, err := config.Load(cmd, cfgFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
	})))
	i18n.Init(cfg.Language)
	return cfg, nil
}

func newDirectoryClient(cfg *config.Config) *directory.Client {
	return directory.New(cfg.Directory.URL, cfg.Directory.Timeout, directory.WithAccessKey(cfg.Directory.AccessKey))
}

// runServer serves the console until ctx is cancelled or a termination
// signal arrives.
func runServer(ctx context.Context, cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logInfo("Starting database operations console", "version", version)
	logInfo("Server directory configured", "timeout", cfg.Directory.Timeout, "access_key_set", cfg.Directory.AccessKey != "")
	logDebug("Console settings",
		"language", i18n.Lang(),
		"sign_in_delay", cfg.Auth.SignInDelay,
		"session_duration", cfg.Session.Duration,
		"notification_ttl", cfg.Notifications.TTL,
	)

	store := state.NewStore(state.Options{
		Authenticator:   session.NewSimulatedAuthenticator(cfg.Auth.SignInDelay),
		Directory:       newDirectoryClient(cfg),
		Executors:       operation.NewRegistry(),
		NotificationTTL: cfg.Notifications.TTL,
	})

	webServer := web.New(web.Options{
		Store:           store,
		Events:          eventlog.Seeded(),
		Port:            cfg.Web.Port,
		Version:         version,
		SessionDuration: cfg.Session.Duration,
	})
	webServer.Start()
	go webServer.RunJanitor(ctx, janitorInterval)

	<-ctx.Done()
	logInfo("Shutting down gracefully")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := webServer.Shutdown(shutdownCtx); err != nil {
		logError("Web server shutdown failed", "error", err)
		return err
	}
	return nil
}

func logDebug(msg string, attrs ...any) {
	slog.Debug(msg, append([]any{"component", "Main"}, attrs...)...)
}

func logInfo(msg string, attrs ...any) {
	slog.Info(msg, append([]any{"component", "Main"}, attrs...)...)
}

func logError(msg string, attrs ...any) {
	slog.Error(msg, append([]any{"component", "Main"}, attrs...)...)
}

// parseLogLevel converts a string log level to slog.Level
func parseLogLevel(level string) slog.Level {
	switch strings.ToUpper(level) {
	case "DEBUG":
		return slog.LevelDebug
	case "INFO":
		return slog.LevelInfo
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
