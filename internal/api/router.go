package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/baharkarakas/case-market/internal/api/handlers"
	"github.com/baharkarakas/case-market/internal/config"
	"github.com/baharkarakas/case-market/internal/metrics"
	"github.com/baharkarakas/case-market/internal/middleware"
	"github.com/baharkarakas/case-market/internal/services"
)

type RouterDeps struct {
	Cfg       config.Config
	CaseSvc   *services.CaseService
	MarketSvc *services.MarketService
	ChatSvc   *services.ChatService
	UserSvc   *services.UserService
}

func NewRouter(d RouterDeps) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.Recover, middleware.HTTPMetrics, middleware.RateLimit(d.Cfg.RateRPS))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: d.Cfg.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", handlers.HeaderUserID, "Idempotency-Key", middleware.HeaderRequestID},
		ExposedHeaders: []string{middleware.HeaderRequestID},
		MaxAge:         300,
	}))

	// health & metrics
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) { _, _ = w.Write([]byte("ok")) })
	r.Handle("/metrics", metrics.Handler())

	cases := handlers.NewCaseHandler(d.CaseSvc)
	market := handlers.NewMarketHandler(d.MarketSvc, d.ChatSvc)
	users := handlers.NewUserHandler(d.UserSvc)

	r.Route("/api/v1", func(r chi.Router) {
		// ---------- cases ----------
		r.Get("/cases", cases.List)
		r.Post("/cases/open", cases.Open)

		// ---------- market ----------
		r.Get("/market", market.List)
		r.Post("/market/listings", market.CreateListing)
		r.Route("/market/listings/{id}", func(r chi.Router) {
			r.Post("/buy", market.Buy)
			r.Get("/messages", market.Messages)
			r.Post("/messages", market.SendMessage)
		})

		// ---------- users ----------
		r.Post("/users", users.Register)
		r.Get("/users", users.List)
		r.Route("/users/{id}", func(r chi.Router) {
			r.Get("/", users.Get)
			r.Get("/inventory", users.Inventory)
			r.Get("/transactions", users.Transactions)
		})

		// ---------- admin ----------
		r.Post("/admin/cases", cases.Create)
		r.Post("/admin/users/{id}/credit", users.Credit)
	})

	return r
}
