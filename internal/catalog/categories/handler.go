package categories

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/postify/postify/internal/platform/httpx"
	"github.com/postify/postify/internal/policy"
)

type Handler struct {
	logger  *slog.Logger
	service *Service
	guard   policy.Middleware
}

func NewHandler(logger *slog.Logger, service *Service, guard policy.Middleware) *Handler {
	return &Handler{logger: logger, service: service, guard: guard}
}

func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Group(func(r chi.Router) {
		r.Use(h.guard.Require(policy.PermManageCategories))
		r.Post("/", h.Create)
		r.Put("/{id}", h.Rename)
		r.Delete("/{id}", h.Delete)
	})
}

type categoryForm struct {
	Name string `json:"name"`
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	id, _ := policy.IdentityFromContext(r.Context())

	items, err := h.service.List(r.Context(), id.StoreID)
	if err != nil {
		h.logger.Error("list categories", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	if items == nil {
		items = []Category{}
	}
	httpx.JSON(w, http.StatusOK, items)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	id, _ := policy.IdentityFromContext(r.Context())

	var form categoryForm
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Request", "malformed JSON body")
		return
	}

	category, err := h.service.Create(r.Context(), id.StoreID, form.Name)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, category)
}

func (h *Handler) Rename(w http.ResponseWriter, r *http.Request) {
	id, _ := policy.IdentityFromContext(r.Context())

	var form categoryForm
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Request", "malformed JSON body")
		return
	}

	if err := h.service.Rename(r.Context(), id.StoreID, chi.URLParam(r, "id"), form.Name); err != nil {
		httpx.RespondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, _ := policy.IdentityFromContext(r.Context())

	if err := h.service.Delete(r.Context(), id.StoreID, chi.URLParam(r, "id")); err != nil {
		httpx.RespondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
