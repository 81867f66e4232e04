package identity

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/postify/postify/internal/platform/httpx"
	"github.com/postify/postify/internal/policy"
	"github.com/postify/postify/internal/shared"
)

const pendingEmailKey = "pending_email"

type Handler struct {
	logger    *slog.Logger
	service   *Service
	sessions  *shared.SessionManager
	csrf      *shared.CSRFManager
	validator *validator.Validate
}

func NewHandler(logger *slog.Logger, service *Service, sessions *shared.SessionManager, csrf *shared.CSRFManager) *Handler {
	return &Handler{
		logger:    logger,
		service:   service,
		sessions:  sessions,
		csrf:      csrf,
		validator: validator.New(),
	}
}

func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/csrf", h.CSRFToken)
	r.Post("/register", h.Register)
	r.Post("/login", h.Login)
	r.Post("/select-store", h.SelectStore)
	r.Post("/logout", h.Logout)
	r.Get("/me", h.Me)
}

type registerForm struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8"`
	Name      string `json:"name" validate:"required"`
	StoreName string `json:"store_name"`
}

type loginForm struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password"`
}

type identityResponse struct {
	Role     policy.Role             `json:"role"`
	StoreID  string                  `json:"store_id"`
	Email    string                  `json:"email"`
	Employee *policy.EmployeeProfile `json:"employee,omitempty"`
}

func toResponse(id policy.Identity) identityResponse {
	return identityResponse{Role: id.Role, StoreID: id.StoreID, Email: id.Email, Employee: id.Employee}
}

func (h *Handler) CSRFToken(w http.ResponseWriter, r *http.Request) {
	sess := shared.SessionFromContext(r.Context())
	token, err := h.csrf.EnsureToken(r.Context(), sess)
	if err != nil {
		h.logger.Error("issue csrf token", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"token": token})
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	sess := shared.SessionFromContext(r.Context())

	var form registerForm
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Request", "malformed JSON body")
		return
	}
	if err := h.validator.Struct(form); err != nil {
		httpx.RespondError(w, fmt.Errorf("%w: %s", shared.ErrValidation, validationDetail(err)))
		return
	}

	id, err := h.service.Register(r.Context(), form.Email, form.Password, form.Name, form.StoreName)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}

	if err := h.storeIdentity(sess, id); err != nil {
		h.logger.Error("store session identity", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	httpx.JSON(w, http.StatusCreated, toResponse(id))
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	sess := shared.SessionFromContext(r.Context())

	var form loginForm
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Request", "malformed JSON body")
		return
	}
	if err := h.validator.Struct(form); err != nil {
		httpx.RespondError(w, fmt.Errorf("%w: %s", shared.ErrValidation, validationDetail(err)))
		return
	}

	id, options, err := h.service.SignIn(r.Context(), form.Email, form.Password)
	if errors.Is(err, ErrStoreSelectionRequired) {
		sess.Set(pendingEmailKey, form.Email)
		httpx.JSON(w, http.StatusConflict, map[string]any{
			"store_selection_required": true,
			"stores":                   options,
		})
		return
	}
	if err != nil {
		if errors.Is(err, shared.ErrInvalidCredentials) {
			httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "invalid email or password")
			return
		}
		httpx.RespondError(w, err)
		return
	}

	if err := h.storeIdentity(sess, id); err != nil {
		h.logger.Error("store session identity", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	httpx.JSON(w, http.StatusOK, toResponse(id))
}

func (h *Handler) SelectStore(w http.ResponseWriter, r *http.Request) {
	sess := shared.SessionFromContext(r.Context())

	var form struct {
		StoreID string `json:"store_id"`
	}
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Request", "malformed JSON body")
		return
	}

	email := sess.Get(pendingEmailKey)
	if email == "" {
		httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "no sign-in awaiting store selection")
		return
	}

	id, err := h.service.SelectStore(r.Context(), email, form.StoreID)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}

	sess.Delete(pendingEmailKey)
	if err := h.storeIdentity(sess, id); err != nil {
		h.logger.Error("store session identity", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	httpx.JSON(w, http.StatusOK, toResponse(id))
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	sess := shared.SessionFromContext(r.Context())
	if sess != nil {
		h.sessions.Destroy(sess)
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	sess := shared.SessionFromContext(r.Context())
	if sess == nil || len(sess.Identity()) == 0 {
		httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "sign in required")
		return
	}
	var id policy.Identity
	if err := json.Unmarshal(sess.Identity(), &id); err != nil {
		httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "sign in required")
		return
	}
	httpx.JSON(w, http.StatusOK, toResponse(id))
}

func (h *Handler) storeIdentity(sess *shared.Session, id policy.Identity) error {
	raw, err := json.Marshal(id)
	if err != nil {
		return err
	}
	sess.SetIdentity(raw)
	return nil
}

func validationDetail(err error) string {
	if errs, ok := err.(validator.ValidationErrors); ok && len(errs) > 0 {
		return "invalid field: " + errs[0].Field()
	}
	return err.Error()
}
