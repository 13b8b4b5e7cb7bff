package branch

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/frahmantamala/marketplace/internal"
	"github.com/frahmantamala/marketplace/internal/auth"
	"github.com/frahmantamala/marketplace/internal/store"
	"github.com/frahmantamala/marketplace/internal/transport"
	"github.com/go-chi/chi"
)

type ServiceAPI interface {
	SearchStores(ctx context.Context, requesterStoreID, query string) ([]*store.Store, error)
	Request(ctx context.Context, requesterStoreID string, dto CreateRequestDTO) (*Request, error)
	Approve(ctx context.Context, actorStoreID, id string, dto TransitionDTO) (*Request, error)
	Reject(ctx context.Context, actorStoreID, id string, dto TransitionDTO) (*Request, error)
	Revoke(ctx context.Context, actorStoreID, id string, dto TransitionDTO) (*Request, error)
	ListIncoming(ctx context.Context, storeID string) ([]*Request, error)
	ListOutgoing(ctx context.Context, storeID string) ([]*Request, error)
	ListManaged(ctx context.Context, storeID string) ([]*Request, error)
}

type StoreResolver interface {
	PartnerIDForOwner(ctx context.Context, ownerID string) (string, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
	Stores  StoreResolver
}

func NewHandler(svc ServiceAPI, stores StoreResolver, lg *slog.Logger) *Handler {
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     svc,
		Stores:      stores,
	}
}

func (h *Handler) callerStore(w http.ResponseWriter, r *http.Request) (string, bool) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		h.HandleServiceError(w, internal.NewUnauthorizedError("authentication required", internal.ErrCodeInvalidToken))
		return "", false
	}
	storeID, err := h.Stores.PartnerIDForOwner(r.Context(), user.ID)
	if err != nil {
		h.HandleServiceError(w, err)
		return "", false
	}
	return storeID, true
}

func (h *Handler) SearchStores(w http.ResponseWriter, r *http.Request) {
	storeID, ok := h.callerStore(w, r)
	if !ok {
		return
	}
	stores, err := h.Service.SearchStores(r.Context(), storeID, r.URL.Query().Get("q"))
	if err != nil {
		h.Logger.ErrorContext(r.Context(), "SearchStores: failed to search stores", "error", err)
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, StoresResponse{Stores: stores})
}

func (h *Handler) CreateRequest(w http.ResponseWriter, r *http.Request) {
	storeID, ok := h.callerStore(w, r)
	if !ok {
		return
	}
	var dto CreateRequestDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleServiceError(w, err)
		return
	}
	req, err := h.Service.Request(r.Context(), storeID, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, req)
}

func (h *Handler) ListRequests(w http.ResponseWriter, r *http.Request) {
	storeID, ok := h.callerStore(w, r)
	if !ok {
		return
	}
	direction, err := ParseDirection(r.URL.Query().Get("direction"))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	var requests []*Request
	if direction == DirectionOutgoing {
		requests, err = h.Service.ListOutgoing(r.Context(), storeID)
	} else {
		requests, err = h.Service.ListIncoming(r.Context(), storeID)
	}
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, RequestsResponse{Requests: requests})
}

func (h *Handler) ListManaged(w http.ResponseWriter, r *http.Request) {
	storeID, ok := h.callerStore(w, r)
	if !ok {
		return
	}
	requests, err := h.Service.ListManaged(r.Context(), storeID)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, RequestsResponse{Requests: requests})
}

type transitionFunc func(ctx context.Context, actorStoreID, id string, dto TransitionDTO) (*Request, error)

func (h *Handler) transition(w http.ResponseWriter, r *http.Request, fn transitionFunc) {
	storeID, ok := h.callerStore(w, r)
	if !ok {
		return
	}
	var dto TransitionDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleServiceError(w, err)
		return
	}
	id := chi.URLParam(r, "id")
	req, err := fn(r.Context(), storeID, id, dto)
	if err != nil {
		h.Logger.WarnContext(r.Context(), "branch transition refused", "request_id", id, "error", err)
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, req)
}

func (h *Handler) ApproveRequest(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.Service.Approve)
}

func (h *Handler) RejectRequest(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.Service.Reject)
}

func (h *Handler) RevokeRequest(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.Service.Revoke)
}
