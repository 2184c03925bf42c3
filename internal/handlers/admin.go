package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/dhakacartapp/dhakacart/internal/auth"
	"github.com/dhakacartapp/dhakacart/internal/shipping"
)

type tokenRequest struct {
	AccessKey string `json:"access_key"`
}

// IssueToken exchanges the admin access key for a bearer token.
func (h *Handlers) IssueToken(w http.ResponseWriter, r *http.Request) {
	var req tokenRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}

	token, err := h.tokenService.Issue(req.AccessKey)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidAccessKey) {
			h.loggerFromContext(r.Context()).Warn("rejected admin token request")
			h.writeError(w, r, http.StatusUnauthorized, "invalid access key")
			return
		}
		h.loggerFromContext(r.Context()).Error("failed to issue token", "error", err)
		h.writeError(w, r, http.StatusInternalServerError, "failed to issue token")
		return
	}

	h.writeJSON(w, r, http.StatusOK, map[string]string{"token": token})
}

// RequireAdmin guards admin routes with a bearer token check.
func (h *Handlers) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := auth.ExtractBearerToken(r)
		if token == "" {
			h.writeError(w, r, http.StatusUnauthorized, "missing bearer token")
			return
		}
		if _, err := h.tokenService.Verify(token); err != nil {
			h.loggerFromContext(r.Context()).Warn("rejected admin request", "error", err)
			h.writeError(w, r, http.StatusUnauthorized, "invalid token")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// AdminZones lists the active shipping zone table.
func (h *Handlers) AdminZones(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, r, http.StatusOK, map[string]any{
		"zones": h.checkoutService.Calculator().Zones(),
	})
}

// AdminReloadZones re-reads the zone table from the configured file, or
// restores the built-in defaults when no file is configured.
func (h *Handlers) AdminReloadZones(w http.ResponseWriter, r *http.Request) {
	logger := h.loggerFromContext(r.Context())

	path := strings.TrimSpace(h.config.ShippingZonesPath)
	zones := shipping.DefaultZones()
	if path != "" {
		loaded, err := shipping.LoadZonesFile(path)
		if err != nil {
			logger.Error("failed to reload shipping zones", "path", path, "error", err)
			h.writeError(w, r, http.StatusInternalServerError, "failed to reload zones")
			return
		}
		zones = loaded
	}

	h.checkoutService.ReplaceZones(zones)
	logger.Info("shipping zones reloaded", "zones", len(zones))

	h.writeJSON(w, r, http.StatusOK, map[string]any{"zones": zones})
}

// AdminPurgeCache drops all cached catalog responses.
func (h *Handlers) AdminPurgeCache(w http.ResponseWriter, r *http.Request) {
	logger := h.loggerFromContext(r.Context())

	if err := h.cacheProvider.Purge(r.Context()); err != nil {
		logger.Error("failed to purge cache", "error", err)
		h.writeError(w, r, http.StatusInternalServerError, "failed to purge cache")
		return
	}

	logger.Info("catalog cache purged")
	h.writeJSON(w, r, http.StatusOK, map[string]string{"status": "purged"})
}
