package store

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
	Register(ctx context.Context, ownerID string, dto RegisterStoreDTO) (*Store, error)
	List(ctx context.Context, filter ListFilter) ([]*Store, error)
	ListApproved(ctx context.Context, filter ListFilter) ([]*Store, error)
	Get(ctx context.Context, id string) (*Store, error)
	Approve(ctx context.Context, id string) (*Store, error)
	Reject(ctx context.Context, id string, dto RejectStoreDTO) (*Store, error)
	GetSettings(ctx context.Context, ownerID string) (*Store, error)
	UpdateSettings(ctx context.Context, ownerID string, dto UpdateSettingsDTO) (*Store, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(svc ServiceAPI, lg *slog.Logger) *Handler {
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     svc,
	}
}

func (h *Handler) owner(w http.ResponseWriter, r *http.Request) (*auth.User, bool) {
	u, ok := auth.UserFromContext(r.Context())
	if !ok {
		h.HandleServiceError(w, internal.NewUnauthorizedError("authentication required", internal.ErrCodeInvalidToken))
		return nil, false
	}
	return u, true
}

// ListStores handles GET /admin/stores
func (h *Handler) ListStores(w http.ResponseWriter, r *http.Request) {
	filter := ListFilter{Search: r.URL.Query().Get("search")}
	if raw := r.URL.Query().Get("status"); raw != "" {
		status := Status(raw)
		filter.Status = &status
	}

	stores, err := h.Service.List(r.Context(), filter)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, StoresResponse{Stores: stores})
}

// ListPublicStores handles GET /stores for the storefront.
func (h *Handler) ListPublicStores(w http.ResponseWriter, r *http.Request) {
	stores, err := h.Service.ListApproved(r.Context(), ListFilter{Search: r.URL.Query().Get("search")})
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, StoresResponse{Stores: stores})
}

func (h *Handler) GetStore(w http.ResponseWriter, r *http.Request) {
	st, err := h.Service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, st)
}

func (h *Handler) RegisterStore(w http.ResponseWriter, r *http.Request) {
	u, ok := h.owner(w, r)
	if !ok {
		return
	}

	var dto RegisterStoreDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	st, err := h.Service.Register(r.Context(), u.ID, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, st)
}

func (h *Handler) ApproveStore(w http.ResponseWriter, r *http.Request) {
	st, err := h.Service.Approve(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, st)
}

func (h *Handler) RejectStore(w http.ResponseWriter, r *http.Request) {
	var dto RejectStoreDTO
	if r.ContentLength != 0 {
		if err := h.DecodeJSON(r, &dto); err != nil {
			h.HandleServiceError(w, err)
			return
		}
	}

	st, err := h.Service.Reject(r.Context(), chi.URLParam(r, "id"), dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, st)
}

// GetSettings handles GET /store-settings
func (h *Handler) GetSettings(w http.ResponseWriter, r *http.Request) {
	u, ok := h.owner(w, r)
	if !ok {
		return
	}

	st, err := h.Service.GetSettings(r.Context(), u.ID)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, st)
}

// UpdateSettings handles PUT /store-settings
func (h *Handler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	u, ok := h.owner(w, r)
	if !ok {
		return
	}

	var dto UpdateSettingsDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	st, err := h.Service.UpdateSettings(r.Context(), u.ID, dto)
	if err != nil {
		h.Logger.WarnContext(r.Context(), "UpdateSettings: service error", "owner_id", u.ID, "error", err)
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, st)
}
