package apiapp

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/slayerintech/Lovify/internal/app/storage"
	"github.com/slayerintech/Lovify/internal/config"
	"github.com/slayerintech/Lovify/internal/domain/rules"
	"github.com/slayerintech/Lovify/internal/transport/http/dto"
)

type App struct {
	cfg        config.Config
	logger     *zap.Logger
	server     *http.Server
	backend    *storage.Backend
	services   *Services
	httpRouter http.Handler
}

func New(ctx context.Context, cfg config.Config, log *zap.Logger) (*App, error) {
	if log == nil {
		return nil, fmt.Errorf("logger is nil")
	}

	backend, err := storage.Open(ctx, cfg, log)
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}
	if err := backend.Migrate(ctx); err != nil {
		log.Warn("schema migration failed, continuing in degraded mode", zap.Error(err))
	}

	services, err := NewServices(ctx, cfg, backend, log)
	if err != nil {
		_ = backend.Close()
		return nil, err
	}

	r := chi.NewRouter()
	ApplyMiddlewares(r, cfg.HTTP.CORSOrigins, log)
	RegisterRoutes(r, Dependencies{
		AdsService:         services.Ads,
		AuthService:        services.Auth,
		ChatService:        services.Chat,
		RateLimiter:        services.RateLimiter,
		DecisionService:    services.Decisions,
		EntitlementService: services.Entitlements,
		FeedService:        services.Feed,
		MatchService:       services.Matches,
		ProfileService:     services.Profiles,
		SwipeService:       services.Swipes,
		Hub:                services.Hub,
		Limits: dto.ConfigLimitsResponse{
			FreeLikesPerDay:        cfg.Limits.FreeLikesPerDay,
			SwipeInterstitialEvery: swipeInterstitialEvery(cfg.Ads),
			FeedLimit:              cfg.Matching.FeedLimit,
		},
		Ping: func(ctx context.Context) error {
			return backend.Redis.Ping(ctx).Err()
		},
		Logger: log,
	})

	server := &http.Server{
		Addr:         cfg.HTTP.Addr,
		Handler:      r,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	return &App{
		cfg:        cfg,
		logger:     log,
		server:     server,
		backend:    backend,
		services:   services,
		httpRouter: r,
	}, nil
}

func swipeInterstitialEvery(cfg config.AdsConfig) int {
	if cfg.SwipeInterstitialEvery > 0 {
		return cfg.SwipeInterstitialEvery
	}
	return rules.SwipeInterstitialEvery
}

// Run serves HTTP and runs the reconcile loop. It returns after Shutdown, or
// when the server fails to listen.
func (a *App) Run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.logger.Info("api server started", zap.String("addr", a.cfg.HTTP.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	})
	g.Go(func() error {
		return a.services.Reconcile.Run(gctx, a.cfg.Reconcile.Interval)
	})

	return g.Wait()
}

func (a *App) Shutdown(ctx context.Context) error {
	var shutdownErr error

	if err := a.server.Shutdown(ctx); err != nil {
		shutdownErr = err
	}
	if err := a.backend.Close(); err != nil && shutdownErr == nil {
		shutdownErr = err
	}

	return shutdownErr
}

func (a *App) Handler() http.Handler {
	return a.httpRouter
}

func (a *App) Services() *Services {
	return a.services
}
