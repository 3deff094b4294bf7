package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/spf13/cobra"
	"github.com/terraincognita07/kepler/internal/api"
	"github.com/terraincognita07/kepler/internal/db"
)

func newServeCommand(state *session) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the journal persistence service",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := state.cfg
			if err := cfg.ValidateServer(); err != nil {
				return fmt.Errorf("config: %w", err)
			}

			database, err := db.OpenSQLite(cfg.Database.Path)
			if err != nil {
				return fmt.Errorf("database init failed: %w", err)
			}
			defer func() {
				_ = db.Close(database)
			}()

			handler, err := api.NewHandler(database, api.HandlerOptions{
				Secret:            cfg.Auth.JWTSecret,
				TokenTTL:          cfg.Auth.TokenTTL,
				AuthRequired:      cfg.Auth.Required,
				LoginAttempts:     cfg.Auth.LoginAttempts,
				LoginAttemptsSpan: cfg.Auth.LoginAttemptsSpan,
				Logger:            state.logger,
			})
			if err != nil {
				return fmt.Errorf("handler init failed: %w", err)
			}

			server := api.NewApp(handler, api.ServerOptions{
				BodyLimit:      cfg.Server.BodyLimit,
				AllowedOrigins: cfg.CORS.AllowedOrigins,
				AllowedMethods: cfg.CORS.AllowedMethods,
				AllowedHeaders: cfg.CORS.AllowedHeaders,
				CORSMaxAge:     cfg.CORS.MaxAge,
				AccessLog:      cmd.ErrOrStderr(),
			})

			listener, err := net.Listen("tcp", net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port)))
			if err != nil {
				return fmt.Errorf("listen: %w", err)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			state.logger.Info("kepler listening",
				"addr", listener.Addr().String(),
				"db", cfg.Database.Path,
				"auth_required", cfg.Auth.Required,
			)
			return serve(ctx, server, listener, cfg.Server.ShutdownTimeout, state.logger)
		},
	}
}

// serve runs server on listener until it fails or ctx ends, then shuts down
// within timeout.
func serve(ctx context.Context, server *fiber.App, listener net.Listener, timeout time.Duration, logger *slog.Logger) error {
	serveErr := make(chan error, 1)
	go func() {
		serveErr <- server.Listener(listener)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("server exited: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down", "timeout", timeout)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := server.ShutdownWithContext(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	if err := <-serveErr; err != nil && !errors.Is(err, net.ErrClosed) {
		return fmt.Errorf("server exited: %w", err)
	}
	return nil
}
