package favorite

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/frahmantamala/marketplace/internal"
	"github.com/frahmantamala/marketplace/internal/auth"
	"github.com/frahmantamala/marketplace/internal/store"
	"github.com/frahmantamala/marketplace/internal/transport"
	"github.com/go-chi/chi"
)

type StoresResponse struct {
	Stores []*store.Store `json:"stores"`
}

type Handler struct {
	*transport.BaseHandler
	Service *Service
}

func NewHandler(svc *Service, lg *slog.Logger) *Handler {
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     svc,
	}
}

func (h *Handler) customer(w http.ResponseWriter, r *http.Request) (string, bool) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		h.HandleServiceError(w, internal.NewUnauthorizedError("authentication required", internal.ErrCodeInvalidToken))
		return "", false
	}
	return user.ID, true
}

func (h *Handler) ListFavoriteStores(w http.ResponseWriter, r *http.Request) {
	customerID, ok := h.customer(w, r)
	if !ok {
		return
	}
	stores, err := h.Service.List(r.Context(), customerID)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, StoresResponse{Stores: stores})
}

func (h *Handler) AddFavoriteStore(w http.ResponseWriter, r *http.Request) {
	customerID, ok := h.customer(w, r)
	if !ok {
		return
	}
	if err := h.Service.Add(r.Context(), customerID, chi.URLParam(r, "id")); err != nil {
		if !errors.Is(err, internal.ErrStoreNotFound) {
			h.Logger.ErrorContext(r.Context(), "AddFavoriteStore: failed to add favorite", "error", err)
		}
		h.HandleServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) RemoveFavoriteStore(w http.ResponseWriter, r *http.Request) {
	customerID, ok := h.customer(w, r)
	if !ok {
		return
	}
	if err := h.Service.Remove(r.Context(), customerID, chi.URLParam(r, "id")); err != nil {
		h.HandleServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
