package checkout

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/postify/postify/internal/cart"
	"github.com/postify/postify/internal/observability"
	"github.com/postify/postify/internal/platform/httpx"
	"github.com/postify/postify/internal/policy"
	"github.com/postify/postify/internal/sales"
	"github.com/postify/postify/internal/shared"
)

type Handler struct {
	logger  *slog.Logger
	service *Service
	metrics *observability.Metrics
}

func NewHandler(logger *slog.Logger, service *Service, metrics *observability.Metrics) *Handler {
	return &Handler{logger: logger, service: service, metrics: metrics}
}

func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/", h.Process)
}

// Receipt is the response body for a completed checkout.
type Receipt struct {
	SaleID         string           `json:"sale_id"`
	Total          float64          `json:"total"`
	FormattedTotal string           `json:"formatted_total"`
	Items          int              `json:"items"`
	PaymentMethod  string           `json:"payment_method"`
	Lines          []sales.SaleLine `json:"lines"`
	EmployeeName   *string          `json:"employee_name,omitempty"`
}

func (h *Handler) Process(w http.ResponseWriter, r *http.Request) {
	id, _ := policy.IdentityFromContext(r.Context())
	sess := shared.SessionFromContext(r.Context())

	var form struct {
		PaymentMethod string `json:"payment_method"`
	}
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Request", "malformed JSON body")
		return
	}

	c, err := cart.Load(sess)
	if err != nil {
		h.logger.Error("load cart", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}

	sale, err := h.service.Process(r.Context(), id, c, sales.PaymentMethod(form.PaymentMethod))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}

	h.metrics.RecordCheckout(string(sale.PaymentMethod), sale.Total)

	if err := cart.Save(sess, cart.Cart{}); err != nil {
		h.logger.Error("clear cart", slog.Any("error", err))
	}

	httpx.JSON(w, http.StatusCreated, Receipt{
		SaleID:         sale.ID,
		Total:          sale.Total,
		FormattedTotal: shared.FormatPrice(sale.Total),
		Items:          sale.Items,
		PaymentMethod:  string(sale.PaymentMethod),
		Lines:          sale.Lines,
		EmployeeName:   sale.EmployeeName,
	})
}
