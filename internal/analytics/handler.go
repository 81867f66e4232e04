package analytics

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
	r.With(h.guard.Require(policy.PermViewDashboard)).Get("/dashboard", h.Dashboard)
}

func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	id, _ := policy.IdentityFromContext(r.Context())

	dashboard, err := h.service.Dashboard(r.Context(), id.StoreID)
	if err != nil {
		h.logger.Error("build dashboard", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, dashboard)
}
