package server

import (
	"net/http"
	"strconv"
	"time"

	"cityexchange-go/internal/models"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

var httpRequests = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "cityexchange_http_requests_total",
	Help: "HTTP API requests by route and status",
}, []string{"method", "route", "status"})

// NewRouter mounts the API under cfg.Prefix and /metrics at the root
func NewRouter(h *Handler, cfg models.ServerConfig, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(LoggerMiddleware(logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.StripSlashes)
	if cfg.RequestTimeout > 0 {
		r.Use(middleware.Timeout(cfg.RequestTimeout))
	}

	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Requested-With"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Handle("/metrics", promhttp.Handler())

	routes := func(r chi.Router) {
		r.Post("/orders", h.CreateOrder)
		r.Get("/orders/user", h.ListUserOrders)
		r.Post("/cityex24", h.CreateTransfer)
		r.Get("/exchange-rates", h.ListRates)
		r.Get("/bot-message", h.GetBotMessage)
		r.Get("/health", h.Health)
	}
	if cfg.Prefix == "" {
		routes(r)
	} else {
		r.Route(cfg.Prefix, routes)
	}

	return r
}

// LoggerMiddleware logs HTTP requests and counts them by route pattern
func LoggerMiddleware(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			route := "unmatched"
			if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
				route = rctx.RoutePattern()
			}
			httpRequests.WithLabelValues(r.Method, route, strconv.Itoa(ww.Status())).Inc()

			logger.Info("http request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("duration", time.Since(start)),
				zap.String("request_id", middleware.GetReqID(r.Context())),
				zap.String("remote_addr", r.RemoteAddr))
		})
	}
}
