package cmd

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/hh-matcher/internal/httpapi"
	"github.com/spigell/hh-matcher/internal/session"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the JSON API",
	Run: func(cmd *cobra.Command, _ []string) {
		serve(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringP("address", "a", "", "listen address (default is :8080)")
	serveCmd.Flags().Bool("require-session", false, "reject API calls without a session token")

	viper.BindPFlag("server.address", serveCmd.Flags().Lookup("address"))
	viper.BindPFlag("server.require-session", serveCmd.Flags().Lookup("require-session"))
}

func serve(parent context.Context) {
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	env := setup(ctx)
	defer env.Close()

	cfg := env.config.Server
	api := httpapi.NewServer(env.service, session.NewManager(env.logger), httpapi.Options{
		RequireSession: cfg.RequireSession,
		Model:          env.embedder.Model(),
	}, env.logger)

	srv := &http.Server{
		Addr:              cfg.Address,
		Handler:           api.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		env.logger.Info("starting the hh-matcher api",
			zap.String("version", version),
			zap.String("address", cfg.Address),
			zap.Bool("require_session", cfg.RequireSession),
		)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			env.logger.Error("api server stopped", zap.Error(err))
		}
		return
	case <-ctx.Done():
	}

	env.logger.Info("shutting down", zap.Duration("timeout", cfg.ShutdownTimeout))
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		env.logger.Error("graceful shutdown failed", zap.Error(err))
	}
}
