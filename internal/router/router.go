package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"paygate-console/internal/config"
	"paygate-console/internal/handler"
	"paygate-console/internal/metrics"
	"paygate-console/internal/middleware"
	"paygate-console/internal/rbac"
)

type Handlers struct {
	Auth         *handler.AuthHandler
	Merchant     *handler.MerchantHandler
	Transaction  *handler.TransactionHandler
	Disbursement *handler.DisbursementHandler
	Gateway      *handler.GatewayHandler
	Role         *handler.RoleHandler
	Events       *handler.EventsHandler
	RPC          http.Handler
	Static       http.Handler
	Metrics      *metrics.Metrics
}

func New(
	cfg *config.Config,
	sessions *middleware.SessionMiddleware,
	guard func(http.Handler) http.Handler,
	h Handlers,
) http.Handler {
	r := chi.NewRouter()
	rateLimitMiddleware := middleware.NewRateLimitMiddleware(cfg.RateLimitRPM, cfg.AuthRateLimitRPM)

	r.Use(middleware.Recovery)
	if h.Metrics != nil {
		r.Use(h.Metrics.Middleware)
	}
	r.Use(middleware.Logging)
	r.Use(middleware.CORS(cfg.CORSOrigins))
	r.Use(middleware.SecurityHeaders(cfg.IsProduction()))
	r.Use(rateLimitMiddleware.Handler)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/logout", h.Auth.LogoutPage)
	if h.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", h.Metrics.Handler())
	}

	can := func(perms ...rbac.Permission) func(http.Handler) http.Handler {
		return sessions.RequirePermission(rbac.Any(perms...))
	}

	r.Route("/api", func(api chi.Router) {
		api.Use(sessions.Load)
		api.NotFound(handler.NotFound)
		api.MethodNotAllowed(handler.MethodNotAllowed)

		// Exports and the event stream must not be buffered by TimeoutHandler.
		api.Group(func(stream chi.Router) {
			stream.Use(middleware.ExportTimeout(cfg.ExportMaxDuration, cfg.ExportIdleTimeout))
			stream.With(can(rbac.PermissionTransactionsExport)).Post("/transactions/export", h.Transaction.Export)
			stream.With(can(rbac.PermissionDisbursementsExport)).Post("/disbursements/export", h.Disbursement.Export)
		})
		api.With(sessions.RequireSession).Get("/events", h.Events.Subscribe)

		api.Group(func(rest chi.Router) {
			rest.Use(middleware.Timeout(cfg.RequestTimeout))

			rest.Route("/auth", func(auth chi.Router) {
				auth.Post("/login", h.Auth.Login)
				auth.Post("/logout", h.Auth.Logout)
				auth.With(sessions.RequireSession).Get("/me", h.Auth.Me)
				auth.With(sessions.RequireSession).Post("/change-password", h.Auth.ChangePassword)
			})

			rest.Handle("/trpc/*", h.RPC)

			rest.Route("/merchants", func(m chi.Router) {
				m.With(can(rbac.PermissionMerchantsRead)).Get("/", h.Merchant.List)
				m.With(can(rbac.PermissionMerchantsWrite)).Post("/", h.Merchant.Create)
				m.With(can(rbac.PermissionMerchantsRead)).Get("/lookup", h.Merchant.Lookup)
				m.With(can(rbac.PermissionMerchantsRead)).Get("/{uid}", h.Merchant.Get)
				m.With(can(rbac.PermissionMerchantsWrite)).Patch("/{uid}", h.Merchant.Update)
				m.With(can(rbac.PermissionMerchantsWrite)).Delete("/{uid}", h.Merchant.Delete)
				m.With(can(rbac.PermissionMerchantsRead)).Get("/{uid}/bank-accounts", h.Merchant.BankAccounts)
				m.With(can(rbac.PermissionMerchantsWrite)).Post("/{uid}/bank-accounts", h.Merchant.CreateBankAccount)
				m.With(can(rbac.PermissionMerchantsRead)).Get("/{uid}/api-keys", h.Merchant.APIKeys)
				m.With(can(rbac.PermissionMerchantsWrite)).Post("/{uid}/api-keys", h.Merchant.CreateAPIKey)
				m.With(can(rbac.PermissionMerchantsWrite)).Delete("/{uid}/api-keys/{apiKey}", h.Merchant.RevokeAPIKey)
				m.With(can(rbac.PermissionMerchantsRead)).Get("/{uid}/sub-merchants", h.Merchant.SubMerchants)
				m.With(can(rbac.PermissionMerchantsWrite)).Patch("/{uid}/parent", h.Merchant.UpdateParent)
				m.With(can(rbac.PermissionMerchantsRead)).Get("/{uid}/activity", h.Merchant.Activity)
			})

			rest.Route("/transactions", func(t chi.Router) {
				t.With(can(rbac.PermissionTransactionsRead)).Get("/", h.Transaction.List)
				t.With(can(rbac.PermissionTransactionsRead)).Post("/", h.Transaction.Search)
				t.With(can(rbac.PermissionTransactionsRead)).Post("/search", h.Transaction.Search)
				t.With(can(rbac.PermissionTransactionsRead)).Get("/{id}", h.Transaction.Get)
				t.With(can(rbac.PermissionTransactionsWrite)).Post("/{id}/complete", h.Transaction.Complete)
				t.With(can(rbac.PermissionTransactionsWrite)).Post("/{id}/cancel", h.Transaction.Cancel)
				t.With(can(rbac.PermissionTransactionsWrite)).Post("/{id}/refund", h.Transaction.Refund)
				t.With(can(rbac.PermissionTransactionsRead)).Get("/{id}/processing-history", h.Transaction.ProcessingHistory)
				t.With(can(rbac.PermissionTransactionsRead)).Get("/{id}/can-update", h.Transaction.CanUpdate)
			})

			rest.Route("/disbursements", func(d chi.Router) {
				d.With(can(rbac.PermissionDisbursementsRead)).Get("/", h.Disbursement.List)
				d.With(can(rbac.PermissionDisbursementsRead)).Post("/", h.Disbursement.Search)
				d.With(can(rbac.PermissionDisbursementsRead)).Post("/search", h.Disbursement.Search)
				d.With(can(rbac.PermissionDisbursementsRead)).Get("/stats/volume", h.Disbursement.Volume)
				d.With(can(rbac.PermissionDisbursementsRead)).Get("/{id}", h.Disbursement.Get)
				d.With(can(rbac.PermissionDisbursementsWrite)).Post("/{id}/retry", h.Disbursement.Retry)
				d.With(can(rbac.PermissionDisbursementsWrite)).Post("/{id}/cancel", h.Disbursement.Cancel)
				d.With(can(rbac.PermissionDisbursementsWrite)).Post("/{id}/complete", h.Disbursement.Complete)
			})

			rest.Route("/payment-gateways", func(g chi.Router) {
				g.With(can(rbac.PermissionGatewaysRead)).Get("/", h.Gateway.List)
				g.With(can(rbac.PermissionGatewaysWrite)).Post("/", h.Gateway.Create)
				g.With(can(rbac.PermissionGatewaysRead)).Get("/{id}", h.Gateway.Get)
				g.With(can(rbac.PermissionGatewaysWrite)).Patch("/{id}", h.Gateway.Update)
				g.With(can(rbac.PermissionGatewaysWrite)).Patch("/{id}/status", h.Gateway.SetStatus)
				g.With(can(rbac.PermissionGatewaysRead)).Get("/{id}/channels", h.Gateway.Channels)
				g.With(can(rbac.PermissionGatewaysWrite)).Post("/{id}/channels", h.Gateway.CreateChannel)
				g.With(can(rbac.PermissionGatewaysWrite)).Patch("/{id}/channels/{channelId}", h.Gateway.UpdateChannel)
			})

			rest.With(can(rbac.PermissionRolesRead)).Get("/roles", h.Role.List)
			rest.With(can(rbac.PermissionRolesRead)).Get("/roles/{id}", h.Role.Get)
			rest.With(can(rbac.PermissionLogsRead)).Get("/logs", h.Role.Logs)
		})
	})

	r.Group(func(pages chi.Router) {
		pages.Use(guard)
		pages.Handle("/*", h.Static)
	})

	return r
}
