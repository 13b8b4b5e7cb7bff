package option

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/frahmantamala/marketplace/internal"
	"github.com/frahmantamala/marketplace/internal/auth"
	"github.com/frahmantamala/marketplace/internal/transport"
	"github.com/go-chi/chi"
)

type ServiceAPI interface {
	List(ctx context.Context, partnerID string) ([]Group, error)
	Create(ctx context.Context, partnerID string, dto CreateOptionDTO) (*Option, error)
	Update(ctx context.Context, partnerID, id string, dto UpdateOptionDTO) (*Option, error)
	Delete(ctx context.Context, partnerID, id string) ([]string, error)
}

type PartnerResolver interface {
	PartnerIDForOwner(ctx context.Context, ownerID string) (string, error)
}

type Handler struct {
	*transport.BaseHandler
	Service  ServiceAPI
	Partners PartnerResolver
}

func NewHandler(svc ServiceAPI, partners PartnerResolver, lg *slog.Logger) *Handler {
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     svc,
		Partners:    partners,
	}
}

func (h *Handler) partnerID(w http.ResponseWriter, r *http.Request) (string, bool) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		h.HandleServiceError(w, internal.NewUnauthorizedError("authentication required", internal.ErrCodeInvalidToken))
		return "", false
	}
	id, err := h.Partners.PartnerIDForOwner(r.Context(), user.ID)
	if err != nil {
		h.HandleServiceError(w, err)
		return "", false
	}
	return id, true
}

func (h *Handler) ListOptions(w http.ResponseWriter, r *http.Request) {
	partnerID, ok := h.partnerID(w, r)
	if !ok {
		return
	}
	groups, err := h.Service.List(r.Context(), partnerID)
	if err != nil {
		h.Logger.ErrorContext(r.Context(), "ListOptions: failed to list options", "error", err)
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, OptionsResponse{Groups: groups})
}

func (h *Handler) CreateOption(w http.ResponseWriter, r *http.Request) {
	partnerID, ok := h.partnerID(w, r)
	if !ok {
		return
	}
	var dto CreateOptionDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleServiceError(w, err)
		return
	}
	o, err := h.Service.Create(r.Context(), partnerID, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, o)
}

func (h *Handler) UpdateOption(w http.ResponseWriter, r *http.Request) {
	partnerID, ok := h.partnerID(w, r)
	if !ok {
		return
	}
	var dto UpdateOptionDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleServiceError(w, err)
		return
	}
	o, err := h.Service.Update(r.Context(), partnerID, chi.URLParam(r, "id"), dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, o)
}

func (h *Handler) DeleteOption(w http.ResponseWriter, r *http.Request) {
	partnerID, ok := h.partnerID(w, r)
	if !ok {
		return
	}
	deleted, err := h.Service.Delete(r.Context(), partnerID, chi.URLParam(r, "id"))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, DeleteResponse{DeletedIDs: deleted})
}
