//go:build integration

package integration

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront-api/internal/model"
)

func TestProfileFlow(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t, "alice123", "a@b.com", "Abc123!@", model.RoleUser)
	tok := env.signin(t, "alice123", "Abc123!@")

	status, resp := env.do(t, http.MethodGet, "/api/v1/profile", tok, nil)
	require.Equal(t, http.StatusOK, status)

	var user map[string]any
	require.NoError(t, json.Unmarshal(resp.Data, &user))
	assert.Equal(t, "alice123", user["username"])
	assert.NotContains(t, user, "password")

	status, resp = env.do(t, http.MethodPatch, "/api/v1/profile", tok, map[string]any{
		"firstName": "Alicia",
	})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Profile updated successfully", resp.Message)

	require.NoError(t, json.Unmarshal(resp.User, &user))
	assert.Equal(t, "Alicia", user["first_name"])
}

func TestProfileCannotEscalate(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t, "alice123", "a@b.com", "Abc123!@", model.RoleUser)
	tok := env.signin(t, "alice123", "Abc123!@")

	status, _ := env.do(t, http.MethodPatch, "/api/v1/profile", tok, map[string]any{
		"roleId": model.RoleAdmin,
	})
	assert.Equal(t, http.StatusForbidden, status)

	status, _ = env.do(t, http.MethodPatch, "/api/v1/profile", tok, map[string]any{
		"isActive": true,
	})
	assert.Equal(t, http.StatusForbidden, status)
}

func TestPasswordChangeFlow(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t, "alice123", "a@b.com", "Abc123!@", model.RoleUser)
	tok := env.signin(t, "alice123", "Abc123!@")

	t.Run("wrong current password", func(t *testing.T) {
		status, resp := env.do(t, http.MethodPatch, "/api/v1/password", tok, map[string]string{
			"currentPassword":    "Wrong123!@",
			"newPassword":        "New456!@x",
			"confirmNewPassword": "New456!@x",
		})
		assert.Equal(t, http.StatusUnauthorized, status)
		require.NotNil(t, resp.Error)
		assert.Equal(t, "Current password is incorrect", resp.Error.Message)
	})

	t.Run("mismatched confirmation", func(t *testing.T) {
		status, resp := env.do(t, http.MethodPatch, "/api/v1/password", tok, map[string]string{
			"currentPassword":    "Abc123!@",
			"newPassword":        "New456!@x",
			"confirmNewPassword": "Other456!@x",
		})
		assert.Equal(t, http.StatusBadRequest, status)
		require.NotNil(t, resp.Error)
		assert.Contains(t, resp.Error.Errors, "New passwords do not match")
	})

	t.Run("successful change rotates the credential", func(t *testing.T) {
		status, resp := env.do(t, http.MethodPatch, "/api/v1/password", tok, map[string]string{
			"currentPassword":    "Abc123!@",
			"newPassword":        "New456!@x",
			"confirmNewPassword": "New456!@x",
		})
		require.Equal(t, http.StatusOK, status)
		assert.Equal(t, "Password updated successfully", resp.Message)

		status, _ = env.do(t, http.MethodPost, "/api/v1/user/signin", "", map[string]string{
			"login":    "alice123",
			"password": "Abc123!@",
		})
		assert.Equal(t, http.StatusUnauthorized, status)

		env.signin(t, "alice123", "New456!@x")
	})
}

func TestAdminUserManagement(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t, "admin123", "admin@b.com", "Adm123!@", model.RoleAdmin)
	target := env.seedUser(t, "alice123", "a@b.com", "Abc123!@", model.RoleUser)
	adminTok := env.signin(t, "admin123", "Adm123!@")

	userPath := fmt.Sprintf("/api/v1/user/%d", target.ID)

	t.Run("regular users are locked out", func(t *testing.T) {
		userTok := env.signin(t, "alice123", "Abc123!@")
		status, resp := env.do(t, http.MethodPatch, userPath, userTok, map[string]any{
			"isActive": false,
		})
		assert.Equal(t, http.StatusForbidden, status)
		assert.Equal(t, "Insufficient permissions", resp.Message)

		status, _ = env.do(t, http.MethodDelete, userPath, userTok, nil)
		assert.Equal(t, http.StatusForbidden, status)
	})

	t.Run("unknown role is rejected", func(t *testing.T) {
		status, resp := env.do(t, http.MethodPatch, userPath, adminTok, map[string]any{
			"roleId": 99,
		})
		assert.Equal(t, http.StatusBadRequest, status)
		require.NotNil(t, resp.Error)
		assert.Contains(t, resp.Error.Errors, "Role does not exist")
	})

	t.Run("admin promotes and deactivates", func(t *testing.T) {
		status, resp := env.do(t, http.MethodPatch, userPath, adminTok, map[string]any{
			"roleId":   model.RoleModerator,
			"isActive": false,
		})
		require.Equal(t, http.StatusOK, status)

		var user map[string]any
		require.NoError(t, json.Unmarshal(resp.User, &user))
		assert.Equal(t, float64(model.RoleModerator), user["role_id"])
		assert.Equal(t, false, user["is_active"])

		// deactivated account can no longer sign in
		status, resp = env.do(t, http.MethodPost, "/api/v1/user/signin", "", map[string]string{
			"login":    "alice123",
			"password": "Abc123!@",
		})
		assert.Equal(t, http.StatusForbidden, status)
		require.NotNil(t, resp.Error)
		assert.Equal(t, "User account is not active", resp.Error.Message)
	})

	t.Run("admin deletes", func(t *testing.T) {
		status, resp := env.do(t, http.MethodDelete, userPath, adminTok, nil)
		require.Equal(t, http.StatusOK, status)
		assert.Equal(t, "User deleted successfully", resp.Message)

		status, _ = env.do(t, http.MethodPost, "/api/v1/user/signin", "", map[string]string{
			"login":    "alice123",
			"password": "Abc123!@",
		})
		assert.Equal(t, http.StatusUnauthorized, status)
	})
}

func TestModeratorCanManageUsersButNotDelete(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t, "modmod1", "mod@b.com", "Mod123!@", model.RoleModerator)
	target := env.seedUser(t, "alice123", "a@b.com", "Abc123!@", model.RoleUser)
	modTok := env.signin(t, "modmod1", "Mod123!@")

	userPath := fmt.Sprintf("/api/v1/user/%d", target.ID)

	status, _ := env.do(t, http.MethodPatch, userPath, modTok, map[string]any{
		"isActive": false,
	})
	assert.Equal(t, http.StatusOK, status)

	status, resp := env.do(t, http.MethodDelete, userPath, modTok, nil)
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "Insufficient permissions", resp.Message)
}
