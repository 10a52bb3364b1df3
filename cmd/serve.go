package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/deepgram/assistant/internal/api/v1/handlers"
	"github.com/deepgram/assistant/internal/services"
	"github.com/deepgram/assistant/internal/web"
	"github.com/deepgram/assistant/pkg/httpext"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog/hlog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

func newServeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the web server",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.cfg.Validate(); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return a.serve(ctx)
		},
	}
}

func (a *app) serve(ctx context.Context) error {
	svcs, err := a.newServices(a.cfg)
	if err != nil {
		return err
	}
	defer svcs.Close()

	router, err := setupRouter(svcs)
	if err != nil {
		return err
	}

	server := &http.Server{
		Addr:              a.cfg.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().Str("addr", server.Addr).Str("version", version).Msg("Server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("Shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), a.cfg.ShutdownTimeout)
		defer cancel()

		svcs.GetConnectionManager().CloseAll()
		return server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

func setupRouter(svcs *services.Services) (*mux.Router, error) {
	r := mux.NewRouter()
	r.Use(
		hlog.NewHandler(log.Logger),
		hlog.RequestIDHandler("request_id", "X-Request-Id"),
		hlog.AccessHandler(func(r *http.Request, status, size int, duration time.Duration) {
			hlog.FromRequest(r).Info().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", status).
				Int("size", size).
				Dur("duration", duration).
				Msg("Request handled")
		}),
	)

	r.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		httpext.JsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods("GET")

	handlers.RegisterV1Routes(r, svcs)
	if err := web.RegisterRoutes(r, svcs); err != nil {
		return nil, err
	}

	return r, nil
}
