package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/dmelnik/roomcast/internal/app"
	"github.com/dmelnik/roomcast/internal/config"
	"github.com/dmelnik/roomcast/internal/log"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var (
		configPath string
		overrides  = config.Default()
	)

	cmd := &cobra.Command{
		Use:   "roomcast-server",
		Short: "A websocket chat room server",
		Long: `roomcast-server accepts websocket connections, arbitrates display
names, and routes chat messages between clients grouped into rooms.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			bootLog := log.New("info")

			cfg, path, err := config.Load(bootLog, configPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			applyFlagOverrides(cmd, &cfg, overrides)

			logger := log.New(cfg.LogLevel)
			logger.Info().Str("config", path).Str("addr", cfg.Addr).Msg("starting roomcast server")

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if err := app.New(cfg, logger).Run(ctx); err != nil {
				return fmt.Errorf("server exited: %w", err)
			}
			logger.Info().Msg("server stopped")
			return nil
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "path to config file")
	cmd.Flags().StringVar(&overrides.Addr, "addr", overrides.Addr, "HTTP listen address")
	cmd.Flags().DurationVar(&overrides.ReadHeaderTimeout, "read-header-timeout", overrides.ReadHeaderTimeout, "HTTP read header timeout")
	cmd.Flags().DurationVar(&overrides.ShutdownTimeout, "shutdown-timeout", overrides.ShutdownTimeout, "graceful shutdown timeout")
	cmd.Flags().StringVar(&overrides.LogLevel, "log-level", overrides.LogLevel, "log level (debug, info, warn, error)")
	cmd.Flags().StringVar(&overrides.DefaultRoom, "default-room", overrides.DefaultRoom, "room joined at logon")
	cmd.Flags().DurationVar(&overrides.LogonGrace, "logon-grace", overrides.LogonGrace, "time allowed to log on before disconnect")
	cmd.Flags().IntVar(&overrides.WSRateLimit, "ws-rate-limit", overrides.WSRateLimit, "inbound frames per minute per connection, 0 for unlimited")
	cmd.Flags().StringVar(&overrides.WelcomeURL, "welcome-url", overrides.WelcomeURL, "welcome content endpoint, empty to disable")
	cmd.Flags().StringVar(&overrides.WelcomePersona, "welcome-persona", overrides.WelcomePersona, "sender name for welcome and farewell lines")

	return cmd
}

// applyFlagOverrides copies values for flags the user actually set on top
// of the file/env configuration.
func applyFlagOverrides(cmd *cobra.Command, cfg *config.Config, overrides config.Config) {
	if cmd.Flags().Changed("addr") {
		cfg.Addr = overrides.Addr
	}
	if cmd.Flags().Changed("read-header-timeout") {
		cfg.ReadHeaderTimeout = overrides.ReadHeaderTimeout
	}
	if cmd.Flags().Changed("shutdown-timeout") {
		cfg.ShutdownTimeout = overrides.ShutdownTimeout
	}
	if cmd.Flags().Changed("log-level") {
		cfg.LogLevel = overrides.LogLevel
	}
	if cmd.Flags().Changed("default-room") {
		cfg.DefaultRoom = overrides.DefaultRoom
	}
	if cmd.Flags().Changed("logon-grace") {
		cfg.LogonGrace = overrides.LogonGrace
	}
	if cmd.Flags().Changed("ws-rate-limit") {
		cfg.WSRateLimit = overrides.WSRateLimit
	}
	if cmd.Flags().Changed("welcome-url") {
		cfg.WelcomeURL = overrides.WelcomeURL
	}
	if cmd.Flags().Changed("welcome-persona") {
		cfg.WelcomePersona = overrides.WelcomePersona
	}
}
