package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/justyntemme/bookinsights/internal/api"
	"github.com/justyntemme/bookinsights/internal/auth"
	"github.com/justyntemme/bookinsights/internal/books"
	"github.com/justyntemme/bookinsights/internal/config"
	"github.com/justyntemme/bookinsights/internal/logger"
	"github.com/justyntemme/bookinsights/internal/metadata"
	"github.com/justyntemme/bookinsights/internal/storage"
)

const (
	bookServicePort  = "9000"
	orderServicePort = "9001"
	shutdownTimeout  = 10 * time.Second
)

type runtime struct {
	out io.Writer
}

// BooksCmd runs the book service
type BooksCmd struct {
	Port string `short:"p" help:"Override the listen port"`
}

// OrdersCmd runs the order service
type OrdersCmd struct {
	Port string `short:"p" help:"Override the listen port"`
}

// TokenCmd prints an HS256 token for local testing
type TokenCmd struct {
	Sub    string        `help:"User id placed in the sub claim" required:""`
	TTL    time.Duration `help:"Token lifetime, 0 for no expiry" default:"24h"`
	Secret string        `help:"Signing secret (defaults to JWT_SECRET)"`
}

// Run starts the book service
func (b *BooksCmd) Run(cli *CLI) error {
	cfg, log, db, err := setup(cli.Config, bookServicePort, b.Port, "books.db")
	if err != nil {
		return err
	}
	defer log.Sync()
	defer db.Close()

	client := metadata.NewClient(
		metadata.WithBaseURL(cfg.OpenLibraryBaseURL),
		metadata.WithUserAgent(cfg.UserAgent),
		metadata.WithTimeout(cfg.OpenLibraryTimeout),
		metadata.WithRateLimiter(metadata.NewRateLimiter("openlibrary", cfg.OpenLibraryRateLimit)),
	)
	limits := metadata.DefaultLimits()
	limits.SearchResults = cfg.SearchLimit
	catalog := metadata.NewCatalog(client, metadata.NewAuthorCache(), limits, log.With("component", "catalog"))

	service := books.NewService(catalog, db, cfg.SummaryConcurrency, log.With("component", "books"))
	router := api.NewBookRouter(routerConfig(cfg, log), api.NewBookHandler(service))

	return serve(cfg.Addr(), router, log.With("service", "book-service"))
}

// Run starts the order service
func (o *OrdersCmd) Run(cli *CLI) error {
	cfg, log, db, err := setup(cli.Config, orderServicePort, o.Port, "orders.db")
	if err != nil {
		return err
	}
	defer log.Sync()
	defer db.Close()

	router := api.NewOrderRouter(routerConfig(cfg, log), api.NewOrderHandler(db))
	return serve(cfg.Addr(), router, log.With("service", "order-service"))
}

// Run prints a signed token
func (t *TokenCmd) Run(cli *CLI, rt *runtime) error {
	secret := t.Secret
	if secret == "" {
		cfg, err := config.Load(cli.Config, bookServicePort)
		if err != nil {
			return err
		}
		secret = cfg.JWTSecret
	}

	token, err := auth.GenerateToken(secret, t.Sub, t.TTL)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(rt.out, token)
	return err
}

func setup(configPath, defaultPort, portOverride, dbName string) (config.Config, *logger.Logger, *storage.Database, error) {
	cfg, err := config.Load(configPath, defaultPort)
	if err != nil {
		return config.Config{}, nil, nil, err
	}
	if portOverride != "" {
		cfg.Port = portOverride
	}

	log, err := logger.New(cfg.LogMode)
	if err != nil {
		return config.Config{}, nil, nil, fmt.Errorf("init logger: %w", err)
	}
	if cfg.JWTSecret == auth.DefaultSecret {
		log.Warn("JWT_SECRET is not set, using the development default")
	}

	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		return config.Config{}, nil, nil, fmt.Errorf("create data directory: %w", err)
	}
	dbPath := filepath.Join(cfg.DataDir, dbName)
	db, err := storage.NewDatabase(dbPath)
	if err != nil {
		return config.Config{}, nil, nil, fmt.Errorf("open database %s: %w", dbPath, err)
	}
	log.Info("database ready", "path", dbPath)

	return cfg, log, db, nil
}

func routerConfig(cfg config.Config, log *logger.Logger) api.RouterConfig {
	if cfg.LogMode == "prod" || cfg.LogMode == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	return api.RouterConfig{
		JWTSecret:   cfg.JWTSecret,
		CORSOrigins: cfg.CORSOrigins,
		Log:         log,
	}
}

// serve runs handler on addr until SIGINT or SIGTERM, then drains in-flight requests
func serve(addr string, handler http.Handler, log *logger.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server starting", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("listen on %s: %w", addr, err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
