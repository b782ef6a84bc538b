package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/cesargomez89/tajikquran/internal/alquran"
	"github.com/cesargomez89/tajikquran/internal/app"
	"github.com/cesargomez89/tajikquran/internal/constants"
	httpapp "github.com/cesargomez89/tajikquran/internal/http"
	"github.com/cesargomez89/tajikquran/internal/scheduler"
	"github.com/cesargomez89/tajikquran/internal/search"
	"github.com/cesargomez89/tajikquran/internal/store"
)

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	}
}

func runServe(ctx context.Context) error {
	cfg, appLogger, db, err := bootstrap(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	// Upstream tajweed and audio, cached in the database
	upstream := alquran.NewClient(alquran.Config{
		BaseURL:      cfg.AlQuranURL,
		APIKey:       cfg.AlQuranAPIKey,
		AudioEdition: cfg.AudioEdition,
	})
	provider := alquran.NewCachedProvider(upstream, db, cfg.CacheTTL, appLogger)

	engine := search.NewEngine(db, search.Options{Mode: cfg.SearchMode, Limit: cfg.SearchLimit}, appLogger)

	h := httpapp.NewHandler(httpapp.Services{
		Quran:     app.NewQuranService(db, appLogger),
		Bookmarks: app.NewBookmarkService(db, appLogger),
		Search:    app.NewSearchService(engine, db, appLogger),
		Words:     app.NewWordService(db, appLogger),
		Tajweed:   app.NewTajweedService(provider, db, appLogger),
		Settings:  app.NewSettingsService(store.NewSettingsRepo(db), appLogger),
	}, db, appLogger)

	sched := scheduler.New(db, cfg.CachePurgeInterval, appLogger)
	if err := sched.Start(); err != nil {
		return err
	}
	defer sched.Stop()

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           h.Router(cfg.CORSAllowedOrigins),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		appLogger.Info("Server listening", "addr", srv.Addr, "driver", db.Driver(), "search_mode", cfg.SearchMode)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	appLogger.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), constants.DefaultShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}

	appLogger.Info("Server exiting")
	return nil
}
