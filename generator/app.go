package generator

import (
    "context"
    "fmt"
    "net"
    "net/http"
    "sync"

    "github.com/go-chi/chi/v5"
    chimw "github.com/go-chi/chi/v5/middleware"
    "golang.org/x/exp/slog"

    "github.com/alovak/cardgen-playground/internal/binlist"
    "github.com/alovak/cardgen-playground/internal/metrics"
    "github.com/alovak/cardgen-playground/internal/middleware"
)

// App is the main application, it contains all the components of the generator service
// and is responsible for starting and stopping them.
type App struct {
    srv     *http.Server
    wg      *sync.WaitGroup
    Addr    string
    logger  *slog.Logger
    config  *Config
    Service *Service
}

func NewApp(logger *slog.Logger, config *Config) *App {
    logger = logger.With(slog.String("app", "generator"))

    if config == nil {
        config = DefaultConfig()
    }

    return &App{
        wg:     &sync.WaitGroup{},
        logger: logger,
        config: config,
    }
}

func (a *App) Start() error {
    a.logger.Info("starting app...")

    router := chi.NewRouter()
    router.Use(chimw.RequestID)
    router.Use(middleware.NewStructuredLogger(a.logger))
    router.Use(chimw.Recoverer)

    opts := []Option{WithLogger(a.logger)}
    if a.config.MetricsEnabled {
        m := metrics.New()
        opts = append(opts, WithMetrics(m))
        router.Method(http.MethodGet, "/metrics", m.Handler())
    }

    lookup := binlist.New(a.config.BinlistURL, &http.Client{Timeout: a.config.BinlistTimeout})
    store := NewSessionStore([]byte(a.config.FingerprintKey))
    a.Service = NewService(store, lookup, a.config, opts...)

    api := NewAPI(a.Service)
    api.AppendRoutes(router)

    router.Get("/-/live", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })

    l, err := net.Listen("tcp", a.config.HTTPAddr)
    if err != nil {
        return fmt.Errorf("listening tcp port: %w", err)
    }

    a.Addr = l.Addr().String()

    a.srv = &http.Server{
        Handler: router,
    }

    a.wg.Add(1)
    go func() {
        a.logger.Info("http server started", slog.String("addr", a.Addr))

        if err := a.srv.Serve(l); err != nil {
            if err != http.ErrServerClosed {
                a.logger.Error("starting http server", "err", err)
            }

            a.logger.Info("http server stopped")
        }

        a.wg.Done()
    }()

    return nil
}

func (a *App) Shutdown(ctx context.Context) {
    a.logger.Info("shutting down app...")

    if a.srv != nil {
        if err := a.srv.Shutdown(ctx); err != nil {
            a.logger.Error("shutting down http server", "err", err)
        }
    }

    a.wg.Wait()

    a.logger.Info("app stopped")
}
