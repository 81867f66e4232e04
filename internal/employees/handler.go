package employees

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/postify/postify/internal/platform/httpx"
	"github.com/postify/postify/internal/policy"
	"github.com/postify/postify/internal/shared"
)

type Handler struct {
	logger    *slog.Logger
	service   *Service
	validator *validator.Validate
	guard     policy.Middleware
}

func NewHandler(logger *slog.Logger, service *Service, guard policy.Middleware) *Handler {
	return &Handler{
		logger:    logger,
		service:   service,
		validator: validator.New(),
		guard:     guard,
	}
}

func (h *Handler) MountRoutes(r chi.Router) {
	r.Use(h.guard.Require(policy.PermManageEmployees))
	r.Get("/", h.List)
	r.Get("/{id}", h.Show)
	r.Post("/", h.Create)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)
}

type EmployeeForm struct {
	Name              string               `json:"name" validate:"required"`
	Email             string               `json:"email" validate:"required,email"`
	Active            *bool                `json:"active"`
	CompensationType  string               `json:"compensation_type"`
	CommissionPercent float64              `json:"commission_percent" validate:"gte=0,lte=100"`
	Salary            float64              `json:"salary" validate:"gte=0"`
	Permissions       policy.PermissionSet `json:"permissions"`
}

type EmployeeResponse struct {
	ID                string               `json:"id"`
	Name              string               `json:"name"`
	Email             string               `json:"email"`
	Active            bool                 `json:"active"`
	CompensationType  CompensationType     `json:"compensation_type"`
	CommissionPercent float64              `json:"commission_percent"`
	Salary            float64              `json:"salary"`
	Permissions       policy.PermissionSet `json:"permissions"`
}

func toResponse(e Employee) EmployeeResponse {
	return EmployeeResponse{
		ID:                e.ID,
		Name:              e.Name,
		Email:             e.Email,
		Active:            e.Active,
		CompensationType:  e.CompensationType,
		CommissionPercent: e.CommissionPercent,
		Salary:            e.Salary,
		Permissions:       e.Permissions,
	}
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	id, _ := policy.IdentityFromContext(r.Context())

	items, err := h.service.List(r.Context(), id.StoreID)
	if err != nil {
		h.logger.Error("list employees", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	resp := make([]EmployeeResponse, 0, len(items))
	for _, e := range items {
		resp = append(resp, toResponse(e))
	}
	httpx.JSON(w, http.StatusOK, resp)
}

func (h *Handler) Show(w http.ResponseWriter, r *http.Request) {
	id, _ := policy.IdentityFromContext(r.Context())

	employee, err := h.service.Get(r.Context(), id.StoreID, chi.URLParam(r, "id"))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toResponse(employee))
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	id, _ := policy.IdentityFromContext(r.Context())

	form, ok := h.decodeForm(w, r)
	if !ok {
		return
	}

	employee, err := h.service.Create(r.Context(), Employee{
		StoreID:           id.StoreID,
		Name:              form.Name,
		Email:             form.Email,
		CompensationType:  CompensationType(form.CompensationType),
		CommissionPercent: form.CommissionPercent,
		Salary:            form.Salary,
		Permissions:       form.Permissions,
	})
	if err != nil {
		h.logger.Error("create employee", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, toResponse(employee))
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, _ := policy.IdentityFromContext(r.Context())

	form, ok := h.decodeForm(w, r)
	if !ok {
		return
	}

	err := h.service.Update(r.Context(), Employee{
		ID:                chi.URLParam(r, "id"),
		StoreID:           id.StoreID,
		Name:              form.Name,
		Email:             form.Email,
		Active:            form.Active == nil || *form.Active,
		CompensationType:  CompensationType(form.CompensationType),
		CommissionPercent: form.CommissionPercent,
		Salary:            form.Salary,
		Permissions:       form.Permissions,
	})
	if err != nil {
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

func (h *Handler) decodeForm(w http.ResponseWriter, r *http.Request) (EmployeeForm, bool) {
	var form EmployeeForm
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Request", "malformed JSON body")
		return form, false
	}
	if err := h.validator.Struct(form); err != nil {
		detail := err.Error()
		if errs, ok := err.(validator.ValidationErrors); ok && len(errs) > 0 {
			detail = "invalid field: " + errs[0].Field()
		}
		httpx.RespondError(w, fmt.Errorf("%w: %s", shared.ErrValidation, detail))
		return form, false
	}
	return form, true
}
