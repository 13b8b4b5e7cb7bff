package category

import (
	"context"
	"net/http"

	"github.com/frahmantamala/marketplace/internal"
	"github.com/frahmantamala/marketplace/internal/auth"
	"github.com/frahmantamala/marketplace/internal/transport"
	"github.com/go-chi/chi"
)

type ServiceAPI interface {
	List(ctx context.Context, partnerID string) ([]FlatCategory, error)
	Create(ctx context.Context, partnerID string, dto CreateCategoryDTO) (*Category, error)
	Update(ctx context.Context, partnerID, id string, dto UpdateCategoryDTO) (*Category, error)
	Delete(ctx context.Context, partnerID, id string) ([]string, error)
}

// PartnerResolver maps a store owner onto the store that scopes their catalog.
type PartnerResolver interface {
	PartnerIDForOwner(ctx context.Context, ownerID string) (string, error)
}

type Handler struct {
	*transport.BaseHandler
	Service  ServiceAPI
	Partners PartnerResolver
}

func NewHandler(baseHandler *transport.BaseHandler, service ServiceAPI, partners PartnerResolver) *Handler {
	return &Handler{
		BaseHandler: baseHandler,
		Service:     service,
		Partners:    partners,
	}
}

func (h *Handler) partnerID(w http.ResponseWriter, r *http.Request) (string, bool) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		h.HandleServiceError(w, internal.NewUnauthorizedError("authentication required", internal.ErrCodeInvalidToken))
		return "", false
	}
	partnerID, err := h.Partners.PartnerIDForOwner(r.Context(), user.ID)
	if err != nil {
		h.Logger.WarnContext(r.Context(), "category request without a store", "user_id", user.ID, "error", err)
		h.HandleServiceError(w, err)
		return "", false
	}
	return partnerID, true
}

func (h *Handler) GetCategories(w http.ResponseWriter, r *http.Request) {
	partnerID, ok := h.partnerID(w, r)
	if !ok {
		return
	}

	categories, err := h.Service.List(r.Context(), partnerID)
	if err != nil {
		h.Logger.ErrorContext(r.Context(), "GetCategories: failed to get categories", "error", err)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, CategoriesResponse{
		Categories: categories,
	})
}

func (h *Handler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	partnerID, ok := h.partnerID(w, r)
	if !ok {
		return
	}

	var dto CreateCategoryDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	c, err := h.Service.Create(r.Context(), partnerID, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, c)
}

func (h *Handler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	partnerID, ok := h.partnerID(w, r)
	if !ok {
		return
	}

	var dto UpdateCategoryDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	c, err := h.Service.Update(r.Context(), partnerID, chi.URLParam(r, "id"), dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, c)
}

func (h *Handler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
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
