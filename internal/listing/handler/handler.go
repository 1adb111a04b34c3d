package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"
	"github.com/google/uuid"

	"lowa/internal/listing/models"
	dErrors "lowa/pkg/domain-errors"
	"lowa/pkg/platform/httputil"
	"lowa/pkg/requestcontext"
)

const maxBodyBytes = 64 << 10

// Service defines the listing operations exposed over HTTP.
type Service interface {
	CreateInvitation(ctx context.Context, req *models.CreateInvitationRequest) error
	ListInvitations(ctx context.Context) []models.InvitationView
	GetInvitation(ctx context.Context, id uuid.UUID) (models.InvitationView, error)
	SubmitInvitationApplication(ctx context.Context, invitationID uuid.UUID, req *models.SubmitInvitationApplicationRequest) error

	CreateVisitorRequest(ctx context.Context, req *models.CreateVisitorRequestRequest) error
	ListVisitorRequests(ctx context.Context) []models.VisitorRequestView
	GetVisitorRequest(ctx context.Context, id uuid.UUID) (models.VisitorRequestView, error)
	SubmitLocalApplication(ctx context.Context, requestID uuid.UUID, req *models.SubmitLocalApplicationRequest) error
}

// Handler serves the public listing surface. It never sees records, only
// public views, so nothing it encodes can carry contact data or preferences.
type Handler struct {
	service   Service
	logger    *slog.Logger
	writeRate int
}

// New creates a listing Handler. writeRate caps submissions per client IP per
// minute; zero disables the limit.
func New(service Service, logger *slog.Logger, writeRate int) *Handler {
	return &Handler{
		service:   service,
		logger:    logger,
		writeRate: writeRate,
	}
}

// Register registers the listing routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/invitations", h.handleListInvitations)
	r.Get("/invitations/{id}", h.handleGetInvitation)
	r.Get("/visitor-requests", h.handleListVisitorRequests)
	r.Get("/visitor-requests/{id}", h.handleGetVisitorRequest)

	r.Group(func(r chi.Router) {
		if h.writeRate > 0 {
			r.Use(httprate.Limit(h.writeRate, time.Minute,
				httprate.WithKeyFuncs(clientKey),
				httprate.WithLimitHandler(func(w http.ResponseWriter, _ *http.Request) {
					httputil.WriteError(w, dErrors.New(dErrors.CodeRateLimited, "too many submissions, try again later"))
				}),
			))
		}
		r.Post("/invitations", h.handleCreateInvitation)
		r.Post("/invitations/{id}/applications", h.handleSubmitInvitationApplication)
		r.Post("/visitor-requests", h.handleCreateVisitorRequest)
		r.Post("/visitor-requests/{id}/applications", h.handleSubmitLocalApplication)
	})
}

// clientKey prefers the address resolved by the ClientIP middleware.
func clientKey(r *http.Request) (string, error) {
	if ip := requestcontext.ClientIP(r.Context()); ip != "" {
		return ip, nil
	}
	return httprate.KeyByIP(r)
}

func (h *Handler) handleCreateInvitation(w http.ResponseWriter, r *http.Request) {
	var req models.CreateInvitationRequest
	if !h.decode(w, r, &req) {
		return
	}
	h.respondSubmitted(w, r, h.service.CreateInvitation(r.Context(), &req))
}

func (h *Handler) handleCreateVisitorRequest(w http.ResponseWriter, r *http.Request) {
	var req models.CreateVisitorRequestRequest
	if !h.decode(w, r, &req) {
		return
	}
	h.respondSubmitted(w, r, h.service.CreateVisitorRequest(r.Context(), &req))
}

func (h *Handler) handleSubmitLocalApplication(w http.ResponseWriter, r *http.Request) {
	requestID, ok := h.pathID(w, r)
	if !ok {
		return
	}
	var req models.SubmitLocalApplicationRequest
	if !h.decode(w, r, &req) {
		return
	}
	h.respondSubmitted(w, r, h.service.SubmitLocalApplication(r.Context(), requestID, &req))
}

func (h *Handler) handleSubmitInvitationApplication(w http.ResponseWriter, r *http.Request) {
	invitationID, ok := h.pathID(w, r)
	if !ok {
		return
	}
	var req models.SubmitInvitationApplicationRequest
	if !h.decode(w, r, &req) {
		return
	}
	h.respondSubmitted(w, r, h.service.SubmitInvitationApplication(r.Context(), invitationID, &req))
}

func (h *Handler) handleListInvitations(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, invitationListResponse{
		Invitations: h.service.ListInvitations(r.Context()),
	})
}

func (h *Handler) handleGetInvitation(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	view, err := h.service.GetInvitation(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, view)
}

func (h *Handler) handleListVisitorRequests(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, visitorRequestListResponse{
		VisitorRequests: h.service.ListVisitorRequests(r.Context()),
	})
}

func (h *Handler) handleGetVisitorRequest(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	view, err := h.service.GetVisitorRequest(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, view)
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		h.logger.WarnContext(r.Context(), "invalid request body",
			"request_id", requestcontext.RequestID(r.Context()),
			"error", err.Error(),
		)
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return false
	}
	return true
}

// pathID parses the {id} segment. A malformed id cannot name a listing, so it
// is reported as not found.
func (h *Handler) pathID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeNotFound, "listing not found"))
		return uuid.Nil, false
	}
	return id, true
}

func (h *Handler) respondSubmitted(w http.ResponseWriter, r *http.Request, err error) {
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeInternal) {
			h.logger.ErrorContext(r.Context(), "submission failed",
				"request_id", requestcontext.RequestID(r.Context()),
				"path", r.URL.Path,
			)
		}
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, submittedResponse{Status: "submitted"})
}
