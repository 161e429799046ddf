// Package handler exposes the verification workflow over HTTP.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"docseva/internal/platform/middleware"
	"docseva/internal/verification/models"
	id "docseva/pkg/domain"
	dErrors "docseva/pkg/domain-errors"
	"docseva/pkg/platform/httputil"
)

// Service defines the verification operations the handler needs.
type Service interface {
	Submit(ctx context.Context, owner id.CitizenID, docType models.DocumentType, imageRef string) (*models.Document, error)
	Accept(ctx context.Context, officer id.OfficerID, docID id.DocumentID, input map[string]string) (*models.Document, error)
	Reject(ctx context.Context, officer id.OfficerID, docID id.DocumentID, reason string) (*models.Document, error)
	Get(ctx context.Context, docID id.DocumentID) (*models.Document, error)
	ListByOwner(ctx context.Context, owner id.CitizenID) ([]*models.Document, error)
	ListPending(ctx context.Context) ([]*models.Document, error)
}

// Handler handles document lifecycle endpoints.
type Handler struct {
	logger       *slog.Logger
	verification Service
	jwtValidator middleware.TokenValidator
}

func New(verification Service, logger *slog.Logger, jwtValidator middleware.TokenValidator) *Handler {
	return &Handler{
		logger:       logger,
		verification: verification,
		jwtValidator: jwtValidator,
	}
}

// Register registers the document routes. Officer routes carry the role guard
// on top of authentication.
func (h *Handler) Register(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth(h.jwtValidator, h.logger))
		r.Post("/api/documents", h.handleSubmit)
		r.Get("/api/documents", h.handleListOwn)
		r.Get("/api/documents/{documentID}", h.handleGet)
	})
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth(h.jwtValidator, h.logger))
		r.Use(middleware.RequireRole(middleware.RoleOfficer, h.logger))
		r.Get("/api/officer/documents", h.handleListPending)
		r.Post("/api/documents/{documentID}/accept", h.handleAccept)
		r.Post("/api/documents/{documentID}/reject", h.handleReject)
	})
}

type submitRequest struct {
	DocumentType string `json:"documentType"`
	ImageRef     string `json:"imageRef"`
}

type acceptRequest struct {
	Fields map[string]string `json:"fields"`
}

type rejectRequest struct {
	Reason string `json:"reason"`
}

type listResponse struct {
	Documents []*models.Document `json:"documents"`
}

func (h *Handler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	owner, err := id.ParseCitizenID(middleware.GetSubject(ctx))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "invalid subject"))
		return
	}

	var req submitRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteError(w, err)
		return
	}
	docType, err := models.ParseDocumentType(req.DocumentType)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	doc, err := h.verification.Submit(ctx, owner, docType, req.ImageRef)
	if err != nil {
		h.logger.WarnContext(ctx, "submit failed",
			"request_id", middleware.GetRequestID(ctx),
			"error", err.Error(),
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, doc)
}

func (h *Handler) handleListOwn(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	owner, err := id.ParseCitizenID(middleware.GetSubject(ctx))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "invalid subject"))
		return
	}
	docs, err := h.verification.ListByOwner(ctx, owner)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, listResponse{Documents: docs})
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	docID, err := id.ParseDocumentID(chi.URLParam(r, "documentID"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid document id"))
		return
	}
	doc, err := h.verification.Get(ctx, docID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if !canReadDocument(ctx, doc) {
		httputil.WriteError(w, dErrors.New(dErrors.CodeForbidden, "not your document"))
		return
	}
	httputil.WriteJSON(w, http.StatusOK, doc)
}

func (h *Handler) handleListPending(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	docs, err := h.verification.ListPending(ctx)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, listResponse{Documents: docs})
}

func (h *Handler) handleAccept(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	officer, docID, ok := h.officerAction(w, r)
	if !ok {
		return
	}

	var req acceptRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteError(w, err)
		return
	}

	doc, err := h.verification.Accept(ctx, officer, docID, req.Fields)
	if err != nil {
		h.logger.WarnContext(ctx, "accept failed",
			"request_id", middleware.GetRequestID(ctx),
			"document_id", docID,
			"error", err.Error(),
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, doc)
}

func (h *Handler) handleReject(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	officer, docID, ok := h.officerAction(w, r)
	if !ok {
		return
	}

	var req rejectRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteError(w, err)
		return
	}

	doc, err := h.verification.Reject(ctx, officer, docID, req.Reason)
	if err != nil {
		h.logger.WarnContext(ctx, "reject failed",
			"request_id", middleware.GetRequestID(ctx),
			"document_id", docID,
			"error", err.Error(),
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, doc)
}

// officerAction parses the officer subject and the document id path param,
// writing the error response itself on failure.
func (h *Handler) officerAction(w http.ResponseWriter, r *http.Request) (id.OfficerID, id.DocumentID, bool) {
	ctx := r.Context()
	officer, err := id.ParseOfficerID(middleware.GetSubject(ctx))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "invalid subject"))
		return id.OfficerID{}, id.DocumentID{}, false
	}
	docID, err := id.ParseDocumentID(chi.URLParam(r, "documentID"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid document id"))
		return id.OfficerID{}, id.DocumentID{}, false
	}
	return officer, docID, true
}

func canReadDocument(ctx context.Context, doc *models.Document) bool {
	if middleware.GetRole(ctx) == middleware.RoleOfficer {
		return true
	}
	return middleware.GetSubject(ctx) == doc.OwnerID.String()
}
