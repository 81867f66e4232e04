package products

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

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
	r.Get("/", h.List)
	r.Get("/valuation", h.Valuation)
	r.Get("/barcode/{barcode}", h.Lookup)
	r.Get("/{id}", h.Show)
	r.With(h.guard.Require(policy.PermEditProducts)).Post("/", h.Create)
	r.With(h.guard.Require(policy.PermEditProducts)).Put("/{id}", h.Update)
	r.With(h.guard.Require(policy.PermDeleteProducts)).Delete("/{id}", h.Delete)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	id, _ := policy.IdentityFromContext(r.Context())

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	perPage, _ := strconv.Atoi(r.URL.Query().Get("per_page"))
	if perPage < 1 {
		perPage = 20
	}

	filters := ListFilters{
		Search:        r.URL.Query().Get("search"),
		Category:      r.URL.Query().Get("category"),
		VariantID:     r.URL.Query().Get("variant"),
		VariantOption: r.URL.Query().Get("option"),
		LowStockOnly:  r.URL.Query().Get("low_stock") == "true",
		Page:          page,
		PerPage:       perPage,
	}

	items, total, err := h.service.List(r.Context(), id.StoreID, filters)
	if err != nil {
		h.logger.Error("list products", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}

	resp := ListResponse{Items: make([]ProductResponse, 0, len(items)), Total: total, Page: page}
	for _, p := range items {
		resp.Items = append(resp.Items, toResponse(p))
	}
	httpx.JSON(w, http.StatusOK, resp)
}

func (h *Handler) Show(w http.ResponseWriter, r *http.Request) {
	id, _ := policy.IdentityFromContext(r.Context())

	product, err := h.service.Get(r.Context(), id.StoreID, chi.URLParam(r, "id"))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toResponse(product))
}

func (h *Handler) Lookup(w http.ResponseWriter, r *http.Request) {
	id, _ := policy.IdentityFromContext(r.Context())

	product, err := h.service.Lookup(r.Context(), id.StoreID, chi.URLParam(r, "barcode"))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toResponse(product))
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	id, _ := policy.IdentityFromContext(r.Context())

	var form ProductForm
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Request", "malformed JSON body")
		return
	}
	if err := h.validator.Struct(form); err != nil {
		httpx.RespondError(w, fmt.Errorf("%w: %s", shared.ErrValidation, validationDetail(err)))
		return
	}

	product, err := h.service.Create(r.Context(), Product{
		StoreID:   id.StoreID,
		Name:      form.Name,
		Price:     form.Price,
		CostPrice: form.CostPrice,
		Stock:     form.Stock,
		Category:  form.Category,
		Barcode:   form.Barcode,
		Variants:  form.Variants,
	})
	if err != nil {
		h.logger.Error("create product", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, toResponse(product))
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, _ := policy.IdentityFromContext(r.Context())

	var form ProductForm
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Request", "malformed JSON body")
		return
	}
	if err := h.validator.Struct(form); err != nil {
		httpx.RespondError(w, fmt.Errorf("%w: %s", shared.ErrValidation, validationDetail(err)))
		return
	}

	err := h.service.Update(r.Context(), Product{
		ID:        chi.URLParam(r, "id"),
		StoreID:   id.StoreID,
		Name:      form.Name,
		Price:     form.Price,
		CostPrice: form.CostPrice,
		Stock:     form.Stock,
		Category:  form.Category,
		Barcode:   form.Barcode,
		Variants:  form.Variants,
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

func (h *Handler) Valuation(w http.ResponseWriter, r *http.Request) {
	id, _ := policy.IdentityFromContext(r.Context())

	valuation, err := h.service.Valuation(r.Context(), id.StoreID)
	if err != nil {
		h.logger.Error("inventory valuation", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, valuation)
}

func validationDetail(err error) string {
	if errs, ok := err.(validator.ValidationErrors); ok && len(errs) > 0 {
		return "invalid field: " + errs[0].Field()
	}
	return err.Error()
}
