package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/dom/news-api/internal/api/respond"
	"github.com/dom/news-api/internal/auth"
	"github.com/dom/news-api/internal/domain"
	"github.com/dom/news-api/internal/logging"
	"github.com/dom/news-api/internal/service"
)

type errorMapping struct {
	err     error
	status  int
	message string
}

var errorMappings = []errorMapping{
	{service.ErrMissingFields, http.StatusBadRequest, "Required fields are missing"},
	{service.ErrPasswordTooShort, http.StatusBadRequest, fmt.Sprintf("Password must be at least %d characters", service.MinPasswordLength)},
	{service.ErrPasswordTooLong, http.StatusBadRequest, fmt.Sprintf("Password must be at most %d bytes", service.MaxPasswordLength)},
	{service.ErrEmailTaken, http.StatusConflict, "User already exists"},
	{service.ErrInvalidCredentials, http.StatusUnauthorized, "Invalid credentials"},
	{service.ErrAccountDisabled, http.StatusForbidden, "Account is disabled. Contact admin."},
	{service.ErrMissingRefreshToken, http.StatusUnauthorized, "Refresh token missing"},
	{auth.ErrInvalidToken, http.StatusUnauthorized, "Invalid or expired refresh token"},

	{service.ErrUserNotFound, http.StatusNotFound, "User not found"},
	{service.ErrInvalidRole, http.StatusBadRequest, "Invalid role"},
	{service.ErrSelfRoleChange, http.StatusBadRequest, "Admin cannot change their own role"},
	{service.ErrSelfDisable, http.StatusBadRequest, "Admin cannot disable their own account"},
	{service.ErrSelfDelete, http.StatusBadRequest, "Admin cannot delete their own account"},
	{service.ErrAlreadyDisabled, http.StatusBadRequest, "User is already disabled"},
	{service.ErrAlreadyActive, http.StatusBadRequest, "User is already active"},
	{domain.ErrLastAdmin, http.StatusBadRequest, "Cannot remove the last admin"},

	{service.ErrNewsNotFound, http.StatusNotFound, "News not found"},
	{service.ErrSlugTaken, http.StatusConflict, "News with similar title already exists"},
	{domain.ErrInvalidCategory, http.StatusBadRequest, invalidCategoryMessage()},
}

func invalidCategoryMessage() string {
	names := make([]string, len(domain.AllCategories))
	for i, c := range domain.AllCategories {
		names[i] = string(c)
	}
	return "Invalid category. Allowed values: " + strings.Join(names, ", ")
}

// writeServiceError answers with the status mapped to err. Anything unmapped
// is logged and reported as a bare 500.
func writeServiceError(w http.ResponseWriter, r *http.Request, logger logging.Logger, op string, err error) {
	for _, m := range errorMappings {
		if errors.Is(err, m.err) {
			respond.Error(w, m.status, m.message)
			return
		}
	}

	logger.Error(r.Context(), "request failed", "op", op, "path", r.URL.Path, "error", err)
	respond.Error(w, http.StatusInternalServerError, "Internal server error")
}
