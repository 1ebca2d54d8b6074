package main

import (
	"context"
	"errors"
	"net/http"

	"github.com/travishathaway/gdfm/internal/handler"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			collectorUC, err := a.collectorUseCase()
			if err != nil {
				return err
			}

			e := echo.New()
			e.HideBanner = true
			e.Use(middleware.Recover())
			e.Use(middleware.CORS())
			e.Use(handler.RequestIDMiddleware())
			e.Use(handler.LoggingMiddleware(a.logger))

			apiHandler := handler.NewAPIHandler(a.projectUseCase(), collectorUC, a.statsUseCase(), a.logger)
			apiHandler.RegisterRoutes(e)

			// Start server
			errCh := make(chan error, 1)
			go func() {
				a.logger.WithField("port", a.cfg.Server.Port).Info("Server started")
				errCh <- e.Start(":" + a.cfg.Server.Port)
			}()

			select {
			case err := <-errCh:
				if !errors.Is(err, http.ErrServerClosed) {
					return err
				}
				return nil
			case <-cmd.Context().Done():
			}

			// Graceful shutdown
			a.logger.Info("Shutting down...")
			ctx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
			defer cancel()

			if err := e.Shutdown(ctx); err != nil {
				return err
			}

			a.logger.Info("Server exited")
			return nil
		},
	}
}
