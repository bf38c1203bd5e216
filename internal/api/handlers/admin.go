package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/dom/news-api/internal/api/middleware"
	"github.com/dom/news-api/internal/api/respond"
	"github.com/dom/news-api/internal/domain"
	"github.com/dom/news-api/internal/logging"
	"github.com/dom/news-api/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type AdminHandler struct {
	accountService *service.AccountService
	logger         logging.Logger
}

func NewAdminHandler(accountService *service.AccountService, logger logging.Logger) *AdminHandler {
	return &AdminHandler{
		accountService: accountService,
		logger:         logger,
	}
}

type ChangeRoleRequest struct {
	Role string `json:"role"`
}

type ListUsersRequest struct {
	Role  string `json:"role"`
	Page  int    `json:"page"`
	Limit int    `json:"limit"`
}

type RoleResponse struct {
	ID    string      `json:"id"`
	Email string      `json:"email"`
	Role  domain.Role `json:"role"`
}

type StatusResponse struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	IsActive bool   `json:"isActive"`
}

type UserListResponse struct {
	Message    string              `json:"message"`
	Data       []*domain.User      `json:"data"`
	Pagination *service.Pagination `json:"pagination,omitempty"`
}

type DeleteUserResponse struct {
	Message string                 `json:"message"`
	Summary *service.DeleteSummary `json:"summary"`
}

// targetAndActor resolves the {id} URL param and the calling admin.
// An unparseable id cannot name an account, so it is reported as not found.
func (h *AdminHandler) targetAndActor(w http.ResponseWriter, r *http.Request) (target, actor uuid.UUID, ok bool) {
	actor, ok = middleware.GetUserID(r.Context())
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "Unauthorized")
		return uuid.Nil, uuid.Nil, false
	}

	target, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respond.Error(w, http.StatusNotFound, "User not found")
		return uuid.Nil, uuid.Nil, false
	}
	return target, actor, true
}

func (h *AdminHandler) ChangeRole(w http.ResponseWriter, r *http.Request) {
	target, actor, ok := h.targetAndActor(w, r)
	if !ok {
		return
	}

	var req ChangeRoleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := h.accountService.ChangeRole(r.Context(), actor, target, domain.Role(req.Role))
	if err != nil {
		writeServiceError(w, r, h.logger, "admin.ChangeRole", err)
		return
	}

	respond.JSON(w, http.StatusOK, map[string]interface{}{
		"message": "User role updated successfully",
		"data":    RoleResponse{ID: user.ID.String(), Email: user.Email, Role: user.Role},
	})
}

func (h *AdminHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	limit, _ := strconv.Atoi(q.Get("limit"))

	h.list(w, r, service.ListUsersInput{Role: q.Get("role"), Page: page, Limit: limit})
}

// ListByFilter reads the same filters from a JSON body.
func (h *AdminHandler) ListByFilter(w http.ResponseWriter, r *http.Request) {
	var req ListUsersRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respond.Error(w, http.StatusBadRequest, "Invalid request body")
			return
		}
	}

	h.list(w, r, service.ListUsersInput{Role: req.Role, Page: req.Page, Limit: req.Limit})
}

func (h *AdminHandler) list(w http.ResponseWriter, r *http.Request, input service.ListUsersInput) {
	list, err := h.accountService.List(r.Context(), input)
	if err != nil {
		writeServiceError(w, r, h.logger, "admin.List", err)
		return
	}

	respond.JSON(w, http.StatusOK, UserListResponse{
		Message:    "Users fetched successfully",
		Data:       list.Users,
		Pagination: list.Pagination,
	})
}

func (h *AdminHandler) Disable(w http.ResponseWriter, r *http.Request) {
	target, actor, ok := h.targetAndActor(w, r)
	if !ok {
		return
	}

	user, err := h.accountService.Disable(r.Context(), actor, target)
	if err != nil {
		writeServiceError(w, r, h.logger, "admin.Disable", err)
		return
	}

	respond.JSON(w, http.StatusOK, map[string]interface{}{
		"message": "User disabled successfully",
		"data":    StatusResponse{ID: user.ID.String(), Email: user.Email, IsActive: user.IsActive},
	})
}

func (h *AdminHandler) Enable(w http.ResponseWriter, r *http.Request) {
	target, _, ok := h.targetAndActor(w, r)
	if !ok {
		return
	}

	user, err := h.accountService.Enable(r.Context(), target)
	if err != nil {
		writeServiceError(w, r, h.logger, "admin.Enable", err)
		return
	}

	respond.JSON(w, http.StatusOK, map[string]interface{}{
		"message": "User enabled successfully",
		"data":    StatusResponse{ID: user.ID.String(), Email: user.Email, IsActive: user.IsActive},
	})
}

func (h *AdminHandler) Delete(w http.ResponseWriter, r *http.Request) {
	target, actor, ok := h.targetAndActor(w, r)
	if !ok {
		return
	}

	summary, err := h.accountService.Delete(r.Context(), actor, target)
	if err != nil {
		writeServiceError(w, r, h.logger, "admin.Delete", err)
		return
	}

	respond.JSON(w, http.StatusOK, DeleteUserResponse{
		Message: "User and related news deleted successfully",
		Summary: summary,
	})
}
