package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/dhakacartapp/dhakacart/internal/config"
	"github.com/dhakacartapp/dhakacart/internal/handlers"
)

type Server struct {
	cfg        *config.Config
	logger     *slog.Logger
	handlers   *handlers.Handlers
	httpServer *http.Server
}

func New(cfg *config.Config, logger *slog.Logger, h *handlers.Handlers) (*Server, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if h == nil {
		return nil, fmt.Errorf("handlers are required")
	}

	s := &Server{
		cfg:      cfg,
		logger:   logger,
		handlers: h,
	}

	router := s.buildRouter()
	s.httpServer = &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	return s, nil
}

func (s *Server) Run() error {
	s.logger.Info("server starting", "port", s.cfg.Port)

	err := s.httpServer.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (s *Server) Close(ctx context.Context) error {
	if s == nil || s.httpServer == nil {
		return nil
	}

	s.logger.Info("server shutting down")
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return err
	}
	s.logger.Info("server stopped")
	return nil
}

func (s *Server) buildRouter() *mux.Router {
	h := s.handlers

	r := mux.NewRouter()
	r.Use(h.RequestLogger)
	r.Use(h.SecurityHeaders)
	r.Use(h.CrossOrigin)
	r.HandleFunc("/health", h.Health).Methods("GET").Name("health")

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/products/{id:[0-9]+}", h.ProductView).Methods("GET").Name("api.products.view")
	api.HandleFunc("/products/{id:[0-9]+}/selection", h.ToggleOption).Methods("POST").Name("api.products.selection")
	api.HandleFunc("/shipping/quote", h.ShippingQuote).Methods("POST").Name("api.shipping.quote")
	api.HandleFunc("/shipping/options", h.ShippingOptions).Methods("POST").Name("api.shipping.options")
	api.HandleFunc("/cart/quote", h.CartQuote).Methods("POST").Name("api.cart.quote")
	api.HandleFunc("/checkout", h.Checkout).Methods("POST").Name("api.checkout")

	r.HandleFunc("/auth/token", h.IssueToken).Methods("POST").Name("auth.token")

	adminRouter := r.PathPrefix("/admin").Subrouter()
	adminRouter.Use(h.RequireSameOrigin)
	adminRouter.Use(h.RequireAdmin)
	adminRouter.HandleFunc("/zones", h.AdminZones).Methods("GET").Name("admin.zones")
	adminRouter.HandleFunc("/zones/reload", h.AdminReloadZones).Methods("POST").Name("admin.zones.reload")
	adminRouter.HandleFunc("/cache/purge", h.AdminPurgeCache).Methods("POST").Name("admin.cache.purge")

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"not found"}`))
	})

	return r
}
