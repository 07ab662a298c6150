package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"aiteam-manager/internal/api"
	"aiteam-manager/internal/config"
	"aiteam-manager/internal/database"
	"aiteam-manager/internal/repository"
	"aiteam-manager/internal/service"
	"aiteam-manager/internal/syncbus"
)

const shutdownTimeout = 10 * time.Second

// App is one running instance: its database handle, cache, sync bus and
// HTTP server. Several Apps in one process can share a Hub and see each
// other's writes.
type App struct {
	Config    *config.Config
	DB        *database.Handle
	Chats     *repository.ChatStore
	Providers *repository.ProviderStore
	Manager   *service.ChatManager
	Admin     *service.ProviderService
	Notifier  *api.Notifier
	Bus       *syncbus.Bus
	Server    *http.Server
}

type options struct {
	hub        *syncbus.Hub
	httpClient *http.Client
}

// Option customises NewApp.
type Option func(*options)

// WithHub joins the sync channel of hub instead of a private one.
func WithHub(h *syncbus.Hub) Option {
	return func(o *options) { o.hub = h }
}

// WithHTTPClient sets the client used to reach AI providers.
func WithHTTPClient(c *http.Client) Option {
	return func(o *options) { o.httpClient = c }
}

// NewApp opens the database, loads the cache and starts the sync bus. The
// server is built but not started.
func NewApp(ctx context.Context, cfg *config.Config, opts ...Option) (*App, error) {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.hub == nil {
		o.hub = syncbus.NewHub()
	}

	a := &App{Config: cfg, DB: database.NewHandle(cfg.DatabasePath)}
	a.Chats = repository.NewChatStore(a.DB)
	a.Providers = repository.NewProviderStore(a.DB)
	a.Manager = service.NewChatManager(a.Chats, a.Providers)
	a.Admin = service.NewProviderService(a.Providers)
	if o.httpClient != nil {
		a.Manager.WithHTTPClient(o.httpClient)
		a.Admin.WithHTTPClient(o.httpClient)
	}

	if err := a.Manager.Init(ctx); err != nil {
		_ = a.DB.Close()
		return nil, fmt.Errorf("could not initialize chat manager: %w", err)
	}

	transports := []syncbus.Transport{o.hub.Open(cfg.SyncChannel)}
	if cfg.SyncRelayDir != "" {
		transports = append(transports, syncbus.NewRelay(cfg.SyncRelayDir, cfg.SyncRelayTTL))
	}
	a.Notifier = api.NewNotifier()
	a.Bus = syncbus.NewBus(a.Manager, a.Notifier, transports...)
	if err := a.Bus.Start(ctx); err != nil {
		_ = a.DB.Close()
		return nil, fmt.Errorf("could not start sync bus: %w", err)
	}

	router := api.NewRouter(api.Handlers{
		Chats:     api.NewChatHandler(a.Manager, a.Bus),
		Providers: api.NewProviderHandler(a.Admin, a.Bus),
		View:      api.NewViewHandler(a.Notifier, a.Bus),
		Notifier:  a.Notifier,
	}, cfg.RequestTimeout)

	a.Server = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.AppPort),
		Handler:           router,
		ReadHeaderTimeout: 20 * time.Second,
		WriteTimeout:      0, // Disabled for the event stream
		IdleTimeout:       120 * time.Second,
	}
	return a, nil
}

// Close stops the sync bus and releases the database.
func (a *App) Close() error {
	return errors.Join(a.Bus.Destroy(), a.DB.Close())
}

// Serve runs the HTTP server until ctx is cancelled, then shuts it down.
func (a *App) Serve(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		slog.Info("Starting server", "addr", a.Server.Addr)
		if err := a.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := a.Server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	return <-errCh
}

// Run builds an App from cfg and serves until ctx is cancelled.
func Run(ctx context.Context, cfg *config.Config, opts ...Option) (err error) {
	a, err := NewApp(ctx, cfg, opts...)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := a.Close(); cerr != nil {
			slog.Error("Failed to close application", "error", cerr)
			err = errors.Join(err, cerr)
		}
	}()
	return a.Serve(ctx)
}

// LogConfigSource reports where the configuration came from.
func LogConfigSource(cfg *config.Config) {
	if src := cfg.Source(); src != "" {
		slog.Info("Successfully loaded configuration from file.", "file", src)
	} else {
		slog.Info("Configuration file not found. Using environment variables and defaults.")
	}
}

// SetupLogger installs a JSON slog handler on w at the given level.
func SetupLogger(w io.Writer, logLevel string) {
	var level slog.Level
	switch strings.ToUpper(logLevel) {
	case "DEBUG":
		level = slog.LevelDebug
	case "WARN":
		level = slog.LevelWarn
	case "ERROR":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	logger := slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)
}
