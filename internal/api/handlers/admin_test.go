package handlers_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/dom/news-api/internal/domain"
	"github.com/dom/news-api/internal/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdminRoutes_RequireAdmin(t *testing.T) {
	ts := testutil.NewTestServer(t)
	_, editorToken := testutil.NewUserBuilder().WithRole(domain.RoleEditor).BuildWithToken(t, ts)

	resp := testutil.DoJSON(t, http.MethodGet, ts.APIURL("/admin/users"), nil)
	defer resp.Body.Close()
	testutil.AssertErrorResponse(t, resp, http.StatusUnauthorized, "Access token missing")

	resp = testutil.DoJSON(t, http.MethodGet, ts.APIURL("/admin/users"), nil, testutil.WithBearer(editorToken))
	defer resp.Body.Close()
	testutil.AssertErrorResponse(t, resp, http.StatusForbidden, "You do not have permission to perform this action")
}

func TestAdminHandler_ChangeRole(t *testing.T) {
	ts := testutil.NewTestServer(t)
	admin, token := testutil.NewUserBuilder().WithRole(domain.RoleAdmin).BuildWithToken(t, ts)
	user, _ := testutil.NewUserBuilder().Build(t, ts.DB.DB)

	tests := []struct {
		name           string
		target         string
		role           string
		expectedStatus int
		expectedMsg    string
	}{
		{"promote", user.ID.String(), "editor", http.StatusOK, ""},
		{"invalid role", user.ID.String(), "superuser", http.StatusBadRequest, "Invalid role"},
		{"self demotion", admin.ID.String(), "editor", http.StatusBadRequest, "Admin cannot change their own role"},
		{"unknown user", uuid.New().String(), "editor", http.StatusNotFound, "User not found"},
		{"malformed id", "42", "editor", http.StatusNotFound, "User not found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := testutil.DoJSON(t, http.MethodPatch, ts.APIURL("/admin/users/"+tt.target+"/role"),
				map[string]string{"role": tt.role}, testutil.WithBearer(token))
			defer resp.Body.Close()

			if tt.expectedMsg != "" {
				testutil.AssertErrorResponse(t, resp, tt.expectedStatus, tt.expectedMsg)
				return
			}

			testutil.AssertStatusCode(t, resp, tt.expectedStatus)
			var body struct {
				Data struct {
					ID   string `json:"id"`
					Role string `json:"role"`
				} `json:"data"`
			}
			testutil.AssertJSONResponse(t, resp, &body)
			assert.Equal(t, tt.target, body.Data.ID)
			assert.Equal(t, tt.role, body.Data.Role)
		})
	}

	stored, err := ts.Repos.User.GetByID(context.Background(), admin.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, stored.Role)
}

func TestAdminHandler_List(t *testing.T) {
	ts := testutil.NewTestServer(t)
	_, token := testutil.NewUserBuilder().WithRole(domain.RoleAdmin).BuildWithToken(t, ts)
	for i := 0; i < 3; i++ {
		testutil.NewUserBuilder().Build(t, ts.DB.DB)
	}

	type listBody struct {
		Data       []map[string]interface{} `json:"data"`
		Pagination *struct {
			Total      int `json:"total"`
			Page       int `json:"page"`
			Limit      int `json:"limit"`
			TotalPages int `json:"totalPages"`
		} `json:"pagination"`
	}

	t.Run("query without paging", func(t *testing.T) {
		resp := testutil.DoJSON(t, http.MethodGet, ts.APIURL("/admin/users"), nil, testutil.WithBearer(token))
		defer resp.Body.Close()
		testutil.AssertStatusCode(t, resp, http.StatusOK)

		var body listBody
		testutil.AssertJSONResponse(t, resp, &body)
		assert.Len(t, body.Data, 4)
		assert.Nil(t, body.Pagination)
		for _, u := range body.Data {
			assert.NotContains(t, u, "passwordHash")
		}
	})

	t.Run("query with paging and role", func(t *testing.T) {
		resp := testutil.DoJSON(t, http.MethodGet, ts.APIURL("/admin/users?role=user&page=1&limit=2"), nil, testutil.WithBearer(token))
		defer resp.Body.Close()
		testutil.AssertStatusCode(t, resp, http.StatusOK)

		var body listBody
		testutil.AssertJSONResponse(t, resp, &body)
		assert.Len(t, body.Data, 2)
		require.NotNil(t, body.Pagination)
		assert.Equal(t, 3, body.Pagination.Total)
		assert.Equal(t, 2, body.Pagination.TotalPages)
	})

	t.Run("filter body", func(t *testing.T) {
		resp := testutil.DoJSON(t, http.MethodPost, ts.APIURL("/admin/users/filter"),
			map[string]interface{}{"role": "admin"}, testutil.WithBearer(token))
		defer resp.Body.Close()
		testutil.AssertStatusCode(t, resp, http.StatusOK)

		var body listBody
		testutil.AssertJSONResponse(t, resp, &body)
		assert.Len(t, body.Data, 1)
	})

	t.Run("invalid role", func(t *testing.T) {
		resp := testutil.DoJSON(t, http.MethodGet, ts.APIURL("/admin/users?role=root"), nil, testutil.WithBearer(token))
		defer resp.Body.Close()
		testutil.AssertErrorResponse(t, resp, http.StatusBadRequest, "Invalid role")
	})
}

func TestAdminHandler_DisableEnable(t *testing.T) {
	ts := testutil.NewTestServer(t)
	admin, token := testutil.NewUserBuilder().WithRole(domain.RoleAdmin).BuildWithToken(t, ts)
	user, _ := testutil.NewUserBuilder().Build(t, ts.DB.DB)

	patch := func(t *testing.T, id uuid.UUID, action string) *http.Response {
		return testutil.DoJSON(t, http.MethodPatch, ts.APIURL("/admin/users/"+id.String()+"/"+action), nil, testutil.WithBearer(token))
	}

	resp := patch(t, admin.ID, "disable")
	defer resp.Body.Close()
	testutil.AssertErrorResponse(t, resp, http.StatusBadRequest, "Admin cannot disable their own account")

	resp = patch(t, user.ID, "disable")
	defer resp.Body.Close()
	testutil.AssertStatusCode(t, resp, http.StatusOK)
	var body struct {
		Data struct {
			IsActive bool `json:"isActive"`
		} `json:"data"`
	}
	testutil.AssertJSONResponse(t, resp, &body)
	assert.False(t, body.Data.IsActive)

	resp = patch(t, user.ID, "disable")
	defer resp.Body.Close()
	testutil.AssertErrorResponse(t, resp, http.StatusBadRequest, "User is already disabled")

	resp = patch(t, user.ID, "enable")
	defer resp.Body.Close()
	testutil.AssertStatusCode(t, resp, http.StatusOK)

	resp = patch(t, user.ID, "enable")
	defer resp.Body.Close()
	testutil.AssertErrorResponse(t, resp, http.StatusBadRequest, "User is already active")
}

func TestAdminHandler_Delete(t *testing.T) {
	ts := testutil.NewTestServer(t)
	ctx := context.Background()
	admin, token := testutil.NewUserBuilder().WithRole(domain.RoleAdmin).BuildWithToken(t, ts)

	del := func(t *testing.T, id uuid.UUID, bearer string) *http.Response {
		return testutil.DoJSON(t, http.MethodDelete, ts.APIURL("/admin/users/"+id.String()), nil, testutil.WithBearer(bearer))
	}

	t.Run("self", func(t *testing.T) {
		resp := del(t, admin.ID, token)
		defer resp.Body.Close()
		testutil.AssertErrorResponse(t, resp, http.StatusBadRequest, "Admin cannot delete their own account")
	})

	t.Run("last admin via a stale admin token", func(t *testing.T) {
		// other was an admin when its token was minted, then demoted.
		other, otherToken := testutil.NewUserBuilder().WithRole(domain.RoleAdmin).BuildWithToken(t, ts)
		_, err := ts.Repos.User.UpdateRole(ctx, other.ID, domain.RoleUser)
		require.NoError(t, err)

		resp := del(t, admin.ID, otherToken)
		defer resp.Body.Close()
		testutil.AssertErrorResponse(t, resp, http.StatusBadRequest, "Cannot remove the last admin")

		_, err = ts.Repos.User.GetByID(ctx, admin.ID)
		assert.NoError(t, err)
	})

	t.Run("cascade", func(t *testing.T) {
		author, _ := testutil.NewUserBuilder().WithEmail("author@example.com").WithRole(domain.RoleEditor).Build(t, ts.DB.DB)
		testutil.NewNewsBuilder(author).WithImage("news/one.png").Build(t, ts.DB.DB)
		testutil.NewNewsBuilder(author).WithImage("news/two.png").Build(t, ts.DB.DB)
		ts.Blobs.Seed("news/one.png", []byte("1"))
		ts.Blobs.Seed("news/two.png", []byte("2"))
		ts.Blobs.FailDeletesFor("news/one.png")

		resp := del(t, author.ID, token)
		defer resp.Body.Close()
		testutil.AssertStatusCode(t, resp, http.StatusOK)

		var body struct {
			Summary struct {
				DeletedUser      string `json:"deletedUser"`
				DeletedNewsCount int    `json:"deletedNewsCount"`
			} `json:"summary"`
		}
		testutil.AssertJSONResponse(t, resp, &body)
		assert.Equal(t, "author@example.com", body.Summary.DeletedUser)
		assert.Equal(t, 2, body.Summary.DeletedNewsCount)

		news, err := ts.Repos.News.ListByAuthor(ctx, author.ID)
		require.NoError(t, err)
		assert.Empty(t, news)
		assert.False(t, ts.Blobs.Has("news/two.png"))
	})

	t.Run("not found", func(t *testing.T) {
		resp := del(t, uuid.New(), token)
		defer resp.Body.Close()
		testutil.AssertErrorResponse(t, resp, http.StatusNotFound, "User not found")
	})
}
