// Package handler exposes the aggregated identity read paths over HTTP.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"docseva/internal/platform/middleware"
	id "docseva/pkg/domain"
	dErrors "docseva/pkg/domain-errors"
	"docseva/pkg/platform/httputil"
)

// Service defines the aggregation operations the handler needs.
type Service interface {
	Complete(ctx context.Context, owner id.CitizenID) (bool, error)
	Export(ctx context.Context, owner id.CitizenID) ([]byte, error)
	ExportQR(ctx context.Context, owner id.CitizenID) ([]byte, error)
}

// Handler handles citizen bundle endpoints.
type Handler struct {
	logger       *slog.Logger
	identity     Service
	jwtValidator middleware.TokenValidator
}

func New(identity Service, logger *slog.Logger, jwtValidator middleware.TokenValidator) *Handler {
	return &Handler{
		logger:       logger,
		identity:     identity,
		jwtValidator: jwtValidator,
	}
}

func (h *Handler) Register(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth(h.jwtValidator, h.logger))
		r.Get("/api/citizens/{citizenID}/complete", h.handleComplete)
		r.Get("/api/citizens/{citizenID}/export", h.handleExport)
		r.Get("/api/citizens/{citizenID}/export/qr", h.handleExportQR)
	})
}

type completeResponse struct {
	Complete bool `json:"complete"`
}

func (h *Handler) handleComplete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	owner, ok := h.citizenParam(w, r)
	if !ok {
		return
	}
	complete, err := h.identity.Complete(ctx, owner)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, completeResponse{Complete: complete})
}

func (h *Handler) handleExport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	owner, ok := h.citizenParam(w, r)
	if !ok {
		return
	}
	payload, err := h.identity.Export(ctx, owner)
	if err != nil {
		h.logger.WarnContext(ctx, "export failed",
			"request_id", middleware.GetRequestID(ctx),
			"citizen_id", owner,
			"error", err.Error(),
		)
		httputil.WriteError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(payload)
}

func (h *Handler) handleExportQR(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	owner, ok := h.citizenParam(w, r)
	if !ok {
		return
	}
	png, err := h.identity.ExportQR(ctx, owner)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(png)
}

// citizenParam parses the path param and enforces that the caller is either
// the citizen themselves or an officer.
func (h *Handler) citizenParam(w http.ResponseWriter, r *http.Request) (id.CitizenID, bool) {
	ctx := r.Context()
	owner, err := id.ParseCitizenID(chi.URLParam(r, "citizenID"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid citizen id"))
		return id.CitizenID{}, false
	}
	if middleware.GetRole(ctx) != middleware.RoleOfficer && middleware.GetSubject(ctx) != owner.String() {
		httputil.WriteError(w, dErrors.New(dErrors.CodeForbidden, "not your identity bundle"))
		return id.CitizenID{}, false
	}
	return owner, true
}
