package courier

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
	List(ctx context.Context, filter ListFilter) ([]CourierView, error)
	Get(ctx context.Context, id string) (*CourierView, error)
	Create(ctx context.Context, dto CreateCourierDTO) (*CourierView, error)
	UpdateStatus(ctx context.Context, id string, dto UpdateStatusDTO) (*CourierView, error)
	SetWorkingHours(ctx context.Context, id string, dto WorkingHoursDTO) (*CourierView, error)
	SetMyOnline(ctx context.Context, userID string, online bool) (*CourierView, error)
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

func (h *Handler) ListCouriers(w http.ResponseWriter, r *http.Request) {
	var filter ListFilter
	var err error
	if filter.Online, err = h.QueryBool(r, "online"); err != nil {
		h.HandleServiceError(w, err)
		return
	}
	if filter.Active, err = h.QueryBool(r, "active"); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	couriers, err := h.Service.List(r.Context(), filter)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, CouriersResponse{Couriers: couriers})
}

func (h *Handler) GetCourier(w http.ResponseWriter, r *http.Request) {
	c, err := h.Service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, c)
}

func (h *Handler) CreateCourier(w http.ResponseWriter, r *http.Request) {
	var dto CreateCourierDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	c, err := h.Service.Create(r.Context(), dto)
	if err != nil {
		h.Logger.WarnContext(r.Context(), "CreateCourier: service error", "error", err)
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, c)
}

func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var dto UpdateStatusDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	c, err := h.Service.UpdateStatus(r.Context(), chi.URLParam(r, "id"), dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, c)
}

func (h *Handler) SetWorkingHours(w http.ResponseWriter, r *http.Request) {
	var dto WorkingHoursDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	c, err := h.Service.SetWorkingHours(r.Context(), chi.URLParam(r, "id"), dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, c)
}

func (h *Handler) SetMyOnline(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		h.HandleServiceError(w, internal.NewUnauthorizedError("authentication required", internal.ErrCodeInvalidToken))
		return
	}

	var dto SetOnlineDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	c, err := h.Service.SetMyOnline(r.Context(), user.ID, dto.IsOnline)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, c)
}
