package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/vamg1994/content-creation-vam/internal/api"
	"github.com/vamg1994/content-creation-vam/internal/build"
	"github.com/vamg1994/content-creation-vam/internal/templates"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			a, ctx, err := newApp(ctx)
			if err != nil {
				return err
			}

			if err := a.registry.EnsureStorage(); err != nil {
				return err
			}
			a.logger.Info("templates available", "templates", a.registry.ListAvailable())

			go func() {
				err := a.registry.Watch(ctx, templates.DefaultDebounce, func() {
					a.logger.Info("template directory changed", "templates", a.registry.ListAvailable())
				})
				if err != nil {
					a.logger.Warn("template watcher stopped", "err", err)
				}
			}()

			srv := &http.Server{
				Addr: a.cfg.HTTP.Addr,
				Handler: api.NewRouter(api.Deps{
					Service: a.service,
					Logger:  a.logger,
				}),
				ReadHeaderTimeout: 10 * time.Second,
			}

			errCh := make(chan error, 1)
			go func() {
				a.logger.Info("listening",
					"addr", a.cfg.HTTP.Addr, "version", build.Version,
					"provider", a.cfg.LLM.Provider, "generation_enabled", a.service.GenerationEnabled())
				errCh <- srv.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
			}

			a.logger.Info("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				return err
			}
			if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		},
	}
}
