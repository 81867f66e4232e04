package sales

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/postify/postify/internal/platform/httpx"
	"github.com/postify/postify/internal/policy"
	"github.com/postify/postify/internal/shared"
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
	r.Use(h.guard.Require(policy.PermViewSales))
	r.Get("/", h.List)
	r.Get("/{id}", h.Show)
	r.Delete("/{id}", h.Void)
}

type SaleResponse struct {
	ID                string        `json:"id"`
	Lines             []SaleLine    `json:"lines"`
	Total             float64       `json:"total"`
	FormattedTotal    string        `json:"formatted_total"`
	Items             int           `json:"items"`
	PaymentMethod     PaymentMethod `json:"payment_method"`
	EmployeeID        *string       `json:"employee_id,omitempty"`
	EmployeeName      *string       `json:"employee_name,omitempty"`
	CommissionPercent float64       `json:"commission_percent"`
	Commission        float64       `json:"commission"`
	CreatedAt         time.Time     `json:"created_at"`
}

func toResponse(s SaleWithCommission) SaleResponse {
	return SaleResponse{
		ID:                s.ID,
		Lines:             s.Lines,
		Total:             s.Total,
		FormattedTotal:    shared.FormatPrice(s.Total),
		Items:             s.Items,
		PaymentMethod:     s.PaymentMethod,
		EmployeeID:        s.EmployeeID,
		EmployeeName:      s.EmployeeName,
		CommissionPercent: s.CommissionPercent,
		Commission:        s.Commission,
		CreatedAt:         s.CreatedAt,
	}
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
		EmployeeID:    r.URL.Query().Get("employee"),
		PaymentMethod: PaymentMethod(r.URL.Query().Get("method")),
		Page:          page,
		PerPage:       perPage,
	}
	if from := r.URL.Query().Get("from"); from != "" {
		if t, err := time.Parse("2006-01-02", from); err == nil {
			filters.From = t
		}
	}
	if to := r.URL.Query().Get("to"); to != "" {
		if t, err := time.Parse("2006-01-02", to); err == nil {
			filters.To = t.AddDate(0, 0, 1)
		}
	}

	items, total, err := h.service.List(r.Context(), id.StoreID, filters)
	if err != nil {
		h.logger.Error("list sales", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}

	resp := struct {
		Items []SaleResponse `json:"items"`
		Total int            `json:"total"`
		Page  int            `json:"page"`
	}{Items: make([]SaleResponse, 0, len(items)), Total: total, Page: page}
	for _, s := range items {
		resp.Items = append(resp.Items, toResponse(s))
	}
	httpx.JSON(w, http.StatusOK, resp)
}

func (h *Handler) Show(w http.ResponseWriter, r *http.Request) {
	id, _ := policy.IdentityFromContext(r.Context())

	sale, err := h.service.Get(r.Context(), id.StoreID, chi.URLParam(r, "id"))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toResponse(sale))
}

func (h *Handler) Void(w http.ResponseWriter, r *http.Request) {
	id, _ := policy.IdentityFromContext(r.Context())

	if err := h.service.Void(r.Context(), id, chi.URLParam(r, "id")); err != nil {
		httpx.RespondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
