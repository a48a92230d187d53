package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/stepherg/rigtune"
	api "github.com/stepherg/rigtune/internal/http"
	"github.com/stepherg/rigtune/internal/metrics"
	"github.com/stepherg/rigtune/internal/middleware"
)

// Config configures the dashboard HTTP server.
type Config struct {
	Options rigtune.Options
	Catalog api.Catalog        // required
	Logger  logrus.FieldLogger // optional; defaults to logrus.StandardLogger()
	Metrics *metrics.Metrics   // optional; a fresh registry when nil
}

var ErrNilCatalog = errors.New("server: catalog is nil")

// NewHandler assembles the router: /api/* endpoints behind the middleware
// chain, /healthz, /metrics and, when StaticDir is set, the built client.
func NewHandler(cfg Config) (http.Handler, error) {
	if cfg.Catalog == nil {
		return nil, ErrNilCatalog
	}
	if cfg.Logger == nil {
		cfg.Logger = logrus.StandardLogger()
	}
	if cfg.Metrics == nil {
		cfg.Metrics = metrics.New()
	}
	opts := cfg.Options
	cors := middleware.NewCORS(opts.AllowedOrigins)

	handlers, err := api.New(cfg.Catalog, cfg.Logger, cors.Allows)
	if err != nil {
		return nil, err
	}

	root := mux.NewRouter()
	root.Use(middleware.Logging(cfg.Logger), middleware.Metrics(cfg.Metrics))

	root.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok\n"))
	}).Methods(http.MethodGet)
	root.Handle("/metrics", cfg.Metrics.Handler()).Methods(http.MethodGet)

	apiRouter := root.PathPrefix("/api").Subrouter()
	apiRouter.Use(cors.Handler)
	if opts.RateLimit.RequestsPerSecond > 0 {
		apiRouter.Use(middleware.NewRateLimiter(opts.RateLimit.RequestsPerSecond, opts.RateLimit.Burst).Handler)
	}
	handlers.Register(apiRouter)
	// preflight requests need a matching route for the CORS middleware to run
	apiRouter.PathPrefix("/").Methods(http.MethodOptions).HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	if opts.StaticDir != "" {
		root.PathPrefix("/").Methods(http.MethodGet, http.MethodHead).Handler(spaHandler(opts.StaticDir))
	}
	return root, nil
}

// spaHandler serves files from dir and falls back to index.html for client
// side routes.
func spaHandler(dir string) http.Handler {
	files := http.FileServer(http.Dir(dir))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p := filepath.Join(dir, filepath.FromSlash(filepath.Clean("/"+r.URL.Path)))
		if fi, err := os.Stat(p); err != nil || fi.IsDir() {
			http.ServeFile(w, r, filepath.Join(dir, "index.html"))
			return
		}
		files.ServeHTTP(w, r)
	})
}

// Start starts the HTTP server in the background.
// It returns the *http.Server, a channel that will receive a terminal error (if any), and an error for immediate startup issues.
// The server stops when the supplied context is canceled.
func Start(ctx context.Context, cfg Config) (*http.Server, <-chan error, error) {
	if cfg.Catalog == nil {
		return nil, nil, ErrNilCatalog
	}
	if cfg.Logger == nil {
		cfg.Logger = logrus.StandardLogger()
	}
	if cfg.Metrics == nil {
		cfg.Metrics = metrics.New()
	}
	addr := cfg.Options.ListenAddr
	if addr == "" {
		addr = ":3000"
	}

	handler, err := NewHandler(cfg)
	if err != nil {
		return nil, nil, err
	}

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, nil, err
	}

	httpOpts := cfg.Options.HTTP
	srv := &http.Server{
		Addr:         ln.Addr().String(),
		Handler:      handler,
		ReadTimeout:  durationOr(httpOpts.ReadTimeout, 10*time.Second),
		WriteTimeout: durationOr(httpOpts.WriteTimeout, 10*time.Second),
		IdleTimeout:  durationOr(httpOpts.IdleTimeout, 60*time.Second),
	}

	// score gauge and mutation counters follow the catalog event stream
	cfg.Metrics.SetScore(cfg.Catalog.OptimizationScore())
	sub := cfg.Catalog.Subscribe(64)
	go func() {
		for e := range sub.C() {
			cfg.Metrics.ObserveEvent(e)
		}
	}()

	errCh := make(chan error, 1)

	go func() {
		cfg.Logger.WithField("addr", srv.Addr).Info("dashboard API listening")
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	// Shutdown watcher
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), durationOr(httpOpts.ShutdownTimeout, 5*time.Second))
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		_ = sub.Close()
	}()

	return srv, errCh, nil
}

func durationOr(v time.Duration, d time.Duration) time.Duration {
	if v <= 0 {
		return d
	}
	return v
}
