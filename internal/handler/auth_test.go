package handler

import (
	"net/http"
	"testing"

	"github.com/jobportal-dev/job-portal/backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterLoginFlow(t *testing.T) {
	h, store, _, mailQueue := newTestHandler(t)

	_, resp := doRequest(t, h, http.MethodPost, "/register", map[string]string{
		"username": "alice",
		"email":    "alice@example.com",
		"password": "pw123456",
		"role":     "seeker",
	})
	require.True(t, resp.Success)
	assert.Equal(t, "/login", resp.Redirect)
	assert.Contains(t, noticeMessages(resp), "Account created! Please login.")

	user, err := store.GetUserByEmail("alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleSeeker, user.Role)
	assert.NotEqual(t, "pw123456", user.PasswordHash)

	messages := mailQueue.messages()
	require.Len(t, messages, 1)
	assert.Equal(t, "welcome", messages[0].Type)
	assert.Equal(t, "alice@example.com", messages[0].To)

	rec, resp := doRequest(t, h, http.MethodPost, "/login", map[string]string{
		"email":    "alice@example.com",
		"password": "pw123456",
	})
	require.True(t, resp.Success)
	assert.Equal(t, "/", resp.Redirect)

	var session *http.Cookie
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == sessionCookieName {
			session = cookie
		}
	}
	require.NotNil(t, session)
	assert.NotEmpty(t, session.Value)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	h, store, _, _ := newTestHandler(t)
	createUser(t, store, "alice", domain.RoleSeeker)

	_, resp := doRequest(t, h, http.MethodPost, "/register", map[string]string{
		"username": "impostor",
		"email":    "alice@example.com",
		"password": "pw123456",
		"role":     "seeker",
	})
	assert.False(t, resp.Success)
	assert.Equal(t, "register", resp.View)
	assert.Contains(t, noticeMessages(resp), "Email already registered!")
	assert.Equal(t, 1, store.countUsers())
}

func TestRegisterRejectsAdminRole(t *testing.T) {
	h, store, _, _ := newTestHandler(t)

	_, resp := doRequest(t, h, http.MethodPost, "/register", map[string]string{
		"username": "mallory",
		"email":    "mallory@example.com",
		"password": "pw123456",
		"role":     "admin",
	})
	assert.False(t, resp.Success)
	assert.Equal(t, "register", resp.View)
	assert.Equal(t, 0, store.countUsers())
}

func TestLoginWrongPassword(t *testing.T) {
	h, store, _, _ := newTestHandler(t)
	createUser(t, store, "alice", domain.RoleSeeker)

	_, resp := doRequest(t, h, http.MethodPost, "/login", map[string]string{
		"email":    "alice@example.com",
		"password": "not-the-password",
	})
	assert.False(t, resp.Success)
	assert.Equal(t, "login", resp.View)
	assert.Contains(t, noticeMessages(resp), "Login failed.")
}

func TestLoginUnknownEmailSameFailure(t *testing.T) {
	h, _, _, _ := newTestHandler(t)

	_, resp := doRequest(t, h, http.MethodPost, "/login", map[string]string{
		"email":    "nobody@example.com",
		"password": "pw123456",
	})
	assert.False(t, resp.Success)
	assert.Contains(t, noticeMessages(resp), "Login failed.")
}

func TestAdminLoginRedirectsToAdminPanel(t *testing.T) {
	h, store, _, _ := newTestHandler(t)
	createUser(t, store, "root", domain.RoleAdmin)

	_, resp := doRequest(t, h, http.MethodPost, "/login", map[string]string{
		"email":    "root@example.com",
		"password": "pw123456",
	})
	require.True(t, resp.Success)
	assert.Equal(t, "/admin", resp.Redirect)
}

func TestRequireLoginRedirectsAnonymous(t *testing.T) {
	h, _, _, _ := newTestHandler(t)

	for _, target := range []string{"/logout", "/my_applications", "/dashboard", "/apply/1", "/admin"} {
		_, resp := doRequest(t, h, http.MethodGet, target, nil)
		assert.False(t, resp.Success, target)
		assert.Equal(t, "/login", resp.Redirect, target)
		assert.Contains(t, noticeMessages(resp), "Please log in to continue.", target)
	}
}

func TestLogoutExpiresCookie(t *testing.T) {
	h, store, _, _ := newTestHandler(t)
	alice := createUser(t, store, "alice", domain.RoleSeeker)

	rec, resp := doRequest(t, h, http.MethodGet, "/logout", nil, sessionCookie(t, h, alice))
	require.True(t, resp.Success)
	assert.Equal(t, "/login", resp.Redirect)

	var session *http.Cookie
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == sessionCookieName {
			session = cookie
		}
	}
	require.NotNil(t, session)
	assert.Empty(t, session.Value)
}

func TestStaleSessionTreatedAsAnonymous(t *testing.T) {
	h, store, _, _ := newTestHandler(t)
	alice := createUser(t, store, "alice", domain.RoleSeeker)
	cookie := sessionCookie(t, h, alice)
	require.NoError(t, store.DeleteUser(alice.ID))

	rec, resp := doRequest(t, h, http.MethodGet, "/", nil, cookie)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, resp.Success)

	_, resp = doRequest(t, h, http.MethodGet, "/my_applications", nil, cookie)
	assert.False(t, resp.Success)
	assert.Equal(t, "/login", resp.Redirect)
}
