package settings

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
	r.Get("/", h.Show)
	r.Group(func(r chi.Router) {
		r.Use(h.guard.Require(policy.PermSettings))
		r.Put("/", h.Update)
		r.Post("/variants", h.AddVariant)
		r.Post("/variants/{id}/options", h.AddOption)
		r.Delete("/variants/{id}", h.RemoveVariant)
	})
}

func (h *Handler) Show(w http.ResponseWriter, r *http.Request) {
	id, _ := policy.IdentityFromContext(r.Context())

	s, err := h.service.Get(r.Context(), id.StoreID)
	if err != nil {
		h.logger.Error("load settings", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, s)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, _ := policy.IdentityFromContext(r.Context())

	var form struct {
		StoreName string `json:"store_name"`
		Currency  string `json:"currency"`
	}
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Request", "malformed JSON body")
		return
	}

	s, err := h.service.Update(r.Context(), id.StoreID, form.StoreName, form.Currency)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, s)
}

func (h *Handler) AddVariant(w http.ResponseWriter, r *http.Request) {
	id, _ := policy.IdentityFromContext(r.Context())

	var form struct {
		Name    string   `json:"name"`
		Options []string `json:"options"`
	}
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Request", "malformed JSON body")
		return
	}

	s, err := h.service.AddVariant(r.Context(), id.StoreID, form.Name, form.Options)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, s)
}

func (h *Handler) AddOption(w http.ResponseWriter, r *http.Request) {
	id, _ := policy.IdentityFromContext(r.Context())

	var form struct {
		Name string `json:"name"`
	}
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Request", "malformed JSON body")
		return
	}

	s, err := h.service.AddOption(r.Context(), id.StoreID, chi.URLParam(r, "id"), form.Name)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, s)
}

func (h *Handler) RemoveVariant(w http.ResponseWriter, r *http.Request) {
	id, _ := policy.IdentityFromContext(r.Context())

	s, err := h.service.RemoveVariant(r.Context(), id.StoreID, chi.URLParam(r, "id"))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, s)
}
