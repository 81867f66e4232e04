package cart

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/postify/postify/internal/platform/httpx"
	"github.com/postify/postify/internal/policy"
	"github.com/postify/postify/internal/shared"
)

type Handler struct {
	logger  *slog.Logger
	service *Service
}

func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.Show)
	r.Post("/items", h.AddItem)
	r.Put("/items/{productID}", h.SetQuantity)
	r.Delete("/items/{productID}", h.RemoveItem)
	r.Delete("/", h.Clear)
}

// CartResponse is the cart plus the derived figures the register shows.
type CartResponse struct {
	Lines     []Line  `json:"lines"`
	Subtotal  float64 `json:"subtotal"`
	ItemCount int     `json:"item_count"`
	Formatted string  `json:"formatted_subtotal"`
}

func respondCart(w http.ResponseWriter, c Cart, status int) {
	lines := c.Lines
	if lines == nil {
		lines = []Line{}
	}
	httpx.JSON(w, status, CartResponse{
		Lines:     lines,
		Subtotal:  c.Subtotal(),
		ItemCount: c.ItemCount(),
		Formatted: shared.FormatPrice(c.Subtotal()),
	})
}

func (h *Handler) Show(w http.ResponseWriter, r *http.Request) {
	sess := shared.SessionFromContext(r.Context())

	c, err := Load(sess)
	if err != nil {
		h.logger.Error("load cart", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	respondCart(w, c, http.StatusOK)
}

func (h *Handler) AddItem(w http.ResponseWriter, r *http.Request) {
	id, _ := policy.IdentityFromContext(r.Context())
	sess := shared.SessionFromContext(r.Context())

	var form struct {
		ProductID string `json:"product_id"`
		Quantity  int    `json:"quantity"`
	}
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Request", "malformed JSON body")
		return
	}
	if form.Quantity == 0 {
		form.Quantity = 1
	}

	c, err := Load(sess)
	if err != nil {
		h.logger.Error("load cart", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}

	if err := h.service.AddProduct(r.Context(), &c, id.StoreID, form.ProductID, form.Quantity); err != nil {
		httpx.RespondError(w, err)
		return
	}
	if err := Save(sess, c); err != nil {
		h.logger.Error("save cart", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	respondCart(w, c, http.StatusOK)
}

func (h *Handler) SetQuantity(w http.ResponseWriter, r *http.Request) {
	id, _ := policy.IdentityFromContext(r.Context())
	sess := shared.SessionFromContext(r.Context())

	var form struct {
		Quantity int `json:"quantity"`
	}
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Request", "malformed JSON body")
		return
	}

	c, err := Load(sess)
	if err != nil {
		h.logger.Error("load cart", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}

	if err := h.service.SetQuantity(r.Context(), &c, id.StoreID, chi.URLParam(r, "productID"), form.Quantity); err != nil {
		httpx.RespondError(w, err)
		return
	}
	if err := Save(sess, c); err != nil {
		h.logger.Error("save cart", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	respondCart(w, c, http.StatusOK)
}

func (h *Handler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	sess := shared.SessionFromContext(r.Context())

	c, err := Load(sess)
	if err != nil {
		h.logger.Error("load cart", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}

	c.Remove(chi.URLParam(r, "productID"))
	if err := Save(sess, c); err != nil {
		h.logger.Error("save cart", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	respondCart(w, c, http.StatusOK)
}

func (h *Handler) Clear(w http.ResponseWriter, r *http.Request) {
	sess := shared.SessionFromContext(r.Context())

	c := Cart{}
	if err := Save(sess, c); err != nil {
		h.logger.Error("save cart", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	respondCart(w, c, http.StatusOK)
}
