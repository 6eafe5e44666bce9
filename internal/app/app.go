package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"paygate-console/internal/access"
	"paygate-console/internal/config"
	"paygate-console/internal/event"
	"paygate-console/internal/handler"
	"paygate-console/internal/metrics"
	"paygate-console/internal/middleware"
	"paygate-console/internal/rbac"
	"paygate-console/internal/router"
	"paygate-console/internal/rpc"
	"paygate-console/internal/service"
	"paygate-console/internal/session"
	"paygate-console/internal/upstream"
	"paygate-console/internal/validation"
	"paygate-console/internal/websocket"
)

type App struct {
	server *http.Server
	cleanupFuncs []func()
}

func New(cfg *config.Config) (*App, error) {
	root, cleanup, err := Build(cfg)
	if err != nil {
		return nil, err
	}

	server := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           root,
		ReadHeaderTimeout: cfg.ServerReadHeaderTimeout,
		WriteTimeout:      cfg.ServerWriteTimeout,
		IdleTimeout:       cfg.ServerIdleTimeout,
	}

	return &App{server: server, cleanupFuncs: []func(){cleanup}}, nil
}

// Build wires the console and returns its root handler. The returned
// cleanup stops the background event consumers.
func Build(cfg *config.Config) (http.Handler, func(), error) {
	codec, err := session.NewCodec(cfg.SessionSecret, cfg.SessionTTL)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize session codec: %w", err)
	}
	sessions := session.NewManager(codec, cfg.SessionCookieName, cfg.IsProduction())

	table := rbac.NewTable(rbac.DefaultRoles())
	policy := access.NewPolicy(access.DefaultConfig(), table)
	validate := validation.New()
	telemetry := metrics.New()
	api := upstream.NewWithHTTPClient(cfg.UpstreamBaseURL, &http.Client{
		Timeout:   cfg.UpstreamTimeout,
		Transport: telemetry.InstrumentUpstream(nil),
	})
	slog.Info("upstream configured", "base_url", cfg.UpstreamBaseURL, "timeout", cfg.UpstreamTimeout)

	bus := event.NewBus()
	hub := websocket.NewHub(bus, func(roles []string, perm string) bool {
		return table.HasPermission(roles, rbac.Permission(perm))
	})

	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)
	go event.LogActivity(ctx, bus)
	go telemetry.CountEvents(ctx, bus)

	authService := service.NewAuthService(api, bus, policy, table)
	dashboardService := service.NewDashboardService(api, bus, cfg.DefaultCurrency)
	userService := service.NewUserService(api, bus)
	merchantService := service.NewMerchantService(api, bus, cfg.DefaultCurrency)
	transactionService := service.NewTransactionService(api, bus, cfg.DefaultCurrency)
	disbursementService := service.NewDisbursementService(api, bus, cfg.DefaultCurrency)
	gatewayService := service.NewGatewayService(api, bus)
	roleService := service.NewRoleService(api, bus)
	logService := service.NewLogService(api, bus)

	procedures := rpc.NewRouter(sessions, table, validate)
	procedures.Register(rpc.Procedures(rpc.Services{
		Auth:          authService,
		Dashboard:     dashboardService,
		Users:         userService,
		Disbursements: disbursementService,
		Sessions:      sessions,
	})...)

	static, err := handler.NewStaticHandler(cfg.StaticDir)
	if err != nil {
		cancel()
		return nil, nil, fmt.Errorf("static assets: %w", err)
	}

	appRouter := router.New(cfg, middleware.NewSessionMiddleware(sessions, table), middleware.Guard(policy, sessions), router.Handlers{
		Auth:         handler.NewAuthHandler(authService, sessions, validate),
		Merchant:     handler.NewMerchantHandler(merchantService, validate),
		Transaction:  handler.NewTransactionHandler(transactionService, validate),
		Disbursement: handler.NewDisbursementHandler(disbursementService, validate),
		Gateway:      handler.NewGatewayHandler(gatewayService, validate),
		Role:         handler.NewRoleHandler(roleService, logService, validate),
		Events:       handler.NewEventsHandler(hub, websocket.NewUpgrader(cfg.CORSOrigins)),
		RPC:          procedures,
		Static:       static,
		Metrics:      telemetry,
	})

	return appRouter, cancel, nil
}

func (a *App) Run() error {
	go func() {
		slog.Info("server starting", "addr", a.server.Addr)
		if serveErr := a.server.ListenAndServe(); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			slog.Error("server failed", "error", serveErr)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	for _, cleanup := range a.cleanupFuncs {
		cleanup()
	}

	if err := a.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	slog.Info("server stopped")
	return nil
}
