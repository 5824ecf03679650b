package v1

import (
	"net/http"
	"testing"

	"github.com/mangrove-registry/middleware"
	"github.com/mangrove-registry/models"
)

func TestRegisterLoginMe(t *testing.T) {
	s := newTestServer(t)

	w := s.do(http.MethodPost, "/api/v1/auth/register", nil, map[string]string{"email": "new@test.com", "password": "secret1"})
	expectStatus(t, w, http.StatusCreated)

	w = s.do(http.MethodPost, "/api/v1/auth/register", nil, map[string]string{"email": "new@test.com", "password": "secret1"})
	expectStatus(t, w, http.StatusBadRequest)

	w = s.do(http.MethodPost, "/api/v1/auth/register", nil, map[string]string{"email": "not-an-email", "password": "secret1"})
	expectStatus(t, w, http.StatusBadRequest)

	w = s.do(http.MethodPost, "/api/v1/auth/login", nil, map[string]string{"email": "new@test.com", "password": "wrong"})
	expectStatus(t, w, http.StatusUnauthorized)

	w = s.do(http.MethodPost, "/api/v1/auth/login", nil, map[string]string{"email": "new@test.com", "password": "secret1"})
	expectStatus(t, w, http.StatusOK)
	login := decode[struct {
		Data struct {
			Token string `json:"token"`
			User  struct {
				Role string `json:"role"`
			} `json:"user"`
		} `json:"data"`
	}](t, w)
	if login.Data.User.Role != string(models.RoleOwner) {
		t.Errorf("self-registered role = %s, want owner", login.Data.User.Role)
	}

	var cookieSet bool
	for _, c := range w.Result().Cookies() {
		if c.Name == middleware.AccessTokenCookie && c.Value == login.Data.Token && c.HttpOnly {
			cookieSet = true
		}
	}
	if !cookieSet {
		t.Error("login did not set the access token cookie")
	}

	user := testUser{token: login.Data.Token}
	w = s.do(http.MethodGet, "/api/v1/auth/me", &user, nil)
	expectStatus(t, w, http.StatusOK)

	w = s.do(http.MethodGet, "/api/v1/auth/me", nil, nil)
	expectStatus(t, w, http.StatusUnauthorized)
}

func TestAdminUserManagement(t *testing.T) {
	s := newTestServer(t)
	admin := s.user("admin@test.com", models.RoleAdmin)
	owner := s.user("owner@test.com", models.RoleOwner)

	body := map[string]string{"email": "verifier@test.com", "password": "secret1", "role": "verifier"}
	w := s.do(http.MethodPost, "/api/v1/admin/users", &owner, body)
	expectStatus(t, w, http.StatusForbidden)

	w = s.do(http.MethodPost, "/api/v1/admin/users", &admin, body)
	expectStatus(t, w, http.StatusCreated)

	body["email"], body["role"] = "root@test.com", "root"
	w = s.do(http.MethodPost, "/api/v1/admin/users", &admin, body)
	expectStatus(t, w, http.StatusBadRequest)

	w = s.do(http.MethodPost, "/api/v1/projects", &owner, newProjectBody("Orphaned"))
	expectStatus(t, w, http.StatusCreated)
	id := decode[projectEnvelope](t, w).Project.ID
	w = s.do(http.MethodPost, "/api/v1/projects/"+id+"/submit", &owner, nil)
	expectStatus(t, w, http.StatusOK)

	w = s.do(http.MethodDelete, "/api/v1/admin/users/"+owner.ID, &admin, nil)
	expectStatus(t, w, http.StatusOK)
	w = s.do(http.MethodDelete, "/api/v1/admin/users/"+owner.ID, &admin, nil)
	expectStatus(t, w, http.StatusNotFound)

	w = s.do(http.MethodGet, "/api/v1/projects/"+id+"/history", &admin, nil)
	expectStatus(t, w, http.StatusOK)
	history := decode[struct {
		History []struct {
			User string `json:"user"`
		} `json:"history"`
	}](t, w)
	if len(history.History) != 1 || history.History[0].User != "unknown" {
		t.Errorf("history = %+v, want one entry by unknown", history.History)
	}
}

func TestDeletedUserTokenIsRejected(t *testing.T) {
	s := newTestServer(t)
	admin := s.user("admin@test.com", models.RoleAdmin)
	owner := s.user("owner@test.com", models.RoleOwner)

	w := s.do(http.MethodDelete, "/api/v1/admin/users/"+owner.ID, &admin, nil)
	expectStatus(t, w, http.StatusOK)

	w = s.do(http.MethodPost, "/api/v1/projects", &owner, newProjectBody("Ghost"))
	expectStatus(t, w, http.StatusUnauthorized)
	w = s.do(http.MethodGet, "/api/v1/auth/me", &owner, nil)
	expectStatus(t, w, http.StatusUnauthorized)
}

func TestHealthCheck(t *testing.T) {
	s := newTestServer(t)
	w := s.do(http.MethodGet, "/api/v1/health", nil, nil)
	expectStatus(t, w, http.StatusOK)
	if got := decode[map[string]any](t, w); got["database"] != "ok" {
		t.Errorf("health = %v", got)
	}
}
