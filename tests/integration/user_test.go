package integration

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/atelier-studio/atelier-go/internal/domain/user"
)

func TestRegisterAndLogin(t *testing.T) {
	doRequest(t, "POST", "/register", "", map[string]string{
		"username": "walk-in",
		"password": "changeme",
	}, http.StatusCreated)

	// Duplicate username is rejected.
	doRequest(t, "POST", "/register", "", map[string]string{
		"username": "walk-in",
		"password": "changeme",
	}, http.StatusConflict)

	token := loginForTests(t, "walk-in", "changeme")
	require.NotEmpty(t, token)

	doRequest(t, "POST", "/login", "", map[string]string{
		"username": "walk-in",
		"password": "wrong",
	}, http.StatusUnauthorized)
}

func TestListUsersRequiresAdmin(t *testing.T) {
	clientToken := loginForTests(t, "paula", "123456")
	doRequest(t, "GET", "/users", clientToken, nil, http.StatusForbidden)

	adminToken := loginForTests(t, "admin", "rootpass")
	w := doRequest(t, "GET", "/users", adminToken, nil, http.StatusOK)

	var users []user.User
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &users))
	require.GreaterOrEqual(t, len(users), 3)
	for _, u := range users {
		require.Empty(t, u.Password, "password hash must not leak")
	}
}

func TestGetUser(t *testing.T) {
	token := loginForTests(t, "paula", "123456")
	w := doRequest(t, "GET", "/users/2", token, nil, http.StatusOK)

	var u user.User
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &u))
	require.Equal(t, "paula", u.Username)

	doRequest(t, "GET", "/users/99999", token, nil, http.StatusNotFound)
}

func TestUpdateOwnPassword(t *testing.T) {
	doRequest(t, "POST", "/register", "", map[string]string{
		"username": "rotating",
		"password": "first-pass",
	}, http.StatusCreated)
	token := loginForTests(t, "rotating", "first-pass")

	var me user.User
	w := doRequest(t, "GET", "/users", loginForTests(t, "admin", "rootpass"), nil, http.StatusOK)
	var users []user.User
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &users))
	for _, u := range users {
		if u.Username == "rotating" {
			me = u
		}
	}
	require.NotZero(t, me.UID)

	// Changing the password without the old one fails.
	doRequest(t, "PUT", fmt.Sprintf("/users/%d", me.UID), token, map[string]string{
		"password": "second-pass",
	}, http.StatusBadRequest)

	doRequest(t, "PUT", fmt.Sprintf("/users/%d", me.UID), token, map[string]string{
		"password":     "second-pass",
		"old_password": "first-pass",
	}, http.StatusOK)

	loginForTests(t, "rotating", "second-pass")
}

func TestUpdateOtherUserForbidden(t *testing.T) {
	clientToken := loginForTests(t, "paula", "123456")
	doRequest(t, "PUT", "/users/3", clientToken, map[string]string{
		"full_name": "not yours",
	}, http.StatusForbidden)
}
