package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"

	"golang.org/x/sync/errgroup"

	"github.com/heartmarshall/bizdesk-backend/internal/adapter/postgres"
	commentrepo "github.com/heartmarshall/bizdesk-backend/internal/adapter/postgres/comment"
	reactionrepo "github.com/heartmarshall/bizdesk-backend/internal/adapter/postgres/reaction"
	tourstaterepo "github.com/heartmarshall/bizdesk-backend/internal/adapter/postgres/tourstate"
	"github.com/heartmarshall/bizdesk-backend/internal/auth"
	"github.com/heartmarshall/bizdesk-backend/internal/config"
	"github.com/heartmarshall/bizdesk-backend/internal/service/comment"
	"github.com/heartmarshall/bizdesk-backend/internal/service/tourstate"
	"github.com/heartmarshall/bizdesk-backend/internal/transport/dataloader"
	"github.com/heartmarshall/bizdesk-backend/internal/transport/middleware"
	"github.com/heartmarshall/bizdesk-backend/internal/transport/rest"
	"github.com/heartmarshall/bizdesk-backend/migrations"
)

// Run is the application entry point. It loads configuration, connects to
// PostgreSQL, applies migrations, wires services and serves HTTP until ctx
// is cancelled.
func Run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := NewLogger(cfg.Log)
	logger.Info("starting application",
		slog.String("version", BuildVersion()),
		slog.String("log_level", cfg.Log.Level),
	)

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer pool.Close()

	if !cfg.Database.SkipMigrations {
		if err := postgres.Migrate(ctx, pool, migrations.FS, logger); err != nil {
			return err
		}
	}

	txm := postgres.NewTxManager(pool)
	commentSvc := comment.NewService(logger,
		commentrepo.New(pool),
		reactionrepo.New(pool),
		txm,
		comment.Limits{
			MaxContentLength: cfg.Comments.MaxContentLength,
			MaxAuthorLength:  cfg.Comments.MaxAuthorLength,
			MaxCountEntities: cfg.Comments.MaxCountEntities,
		},
	)
	tourSvc := tourstate.NewService(logger, tourstaterepo.New(pool))

	jwtManager := auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer, cfg.Auth.AccessTokenTTL)

	limiter := middleware.NewRateLimiter(cfg.RateLimit.CleanupInterval)
	defer limiter.Stop()

	handler := rest.NewRouter(rest.RouterDeps{
		Comments: rest.NewCommentHandler(commentSvc, cfg.Comments.MaxCountEntities, logger),
		Tours:    rest.NewTourHandler(tourSvc, logger),
		Health:   rest.NewHealthHandler(BuildVersion(), rest.PingProbe("postgres", pool)),
		Global: middleware.Chain(
			middleware.RequestID,
			middleware.Recovery(logger),
			middleware.Logger(logger),
			middleware.CORS(cfg.CORS),
			middleware.Auth(jwtManager),
		),
		Public:  limiter.Limit(cfg.RateLimit.PublicPerMinute, cfg.RateLimit.Burst),
		Loaders: dataloader.Middleware(commentSvc, cfg.Comments.MaxCountEntities),
	})

	srv := &http.Server{
		Addr:         net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port)),
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
		BaseContext:  func(net.Listener) context.Context { return ctx },
	}

	return serve(ctx, srv, cfg.Server, logger)
}

// serve runs srv until ctx is done, then drains in-flight requests within
// the configured shutdown timeout.
func serve(ctx context.Context, srv *http.Server, cfg config.ServerConfig, logger *slog.Logger) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("http server listening", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down http server")

		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cfg.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("http shutdown: %w", err)
		}
		return nil
	})

	return g.Wait()
}
