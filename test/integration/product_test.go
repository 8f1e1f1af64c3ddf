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

func productBody(name string, price float64, category string) map[string]any {
	return map[string]any{
		"name":        name,
		"price":       price,
		"description": "test product",
		"category":    category,
	}
}

func TestProductCRUD(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t, "admin123", "admin@b.com", "Adm123!@", model.RoleAdmin)
	env.seedUser(t, "alice123", "a@b.com", "Abc123!@", model.RoleUser)
	adminTok := env.signin(t, "admin123", "Adm123!@")
	userTok := env.signin(t, "alice123", "Abc123!@")

	status, resp := env.do(t, http.MethodPost, "/api/v1/products", adminTok,
		productBody("Keyboard", 49.99, "peripherals"))
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, "Product created successfully", resp.Message)

	var product map[string]any
	require.NoError(t, json.Unmarshal(resp.Data, &product))
	productID := int64(product["id"].(float64))
	productPath := fmt.Sprintf("/api/v1/products/%d", productID)

	t.Run("any authenticated user can read", func(t *testing.T) {
		status, resp := env.do(t, http.MethodGet, productPath, userTok, nil)
		require.Equal(t, http.StatusOK, status)

		var fetched map[string]any
		require.NoError(t, json.Unmarshal(resp.Data, &fetched))
		assert.Equal(t, "Keyboard", fetched["name"])
		assert.Equal(t, 49.99, fetched["price"])
	})

	t.Run("update replaces the document", func(t *testing.T) {
		status, resp := env.do(t, http.MethodPut, productPath, adminTok,
			productBody("Keyboard v2", 59.99, "peripherals"))
		require.Equal(t, http.StatusOK, status)

		var updated map[string]any
		require.NoError(t, json.Unmarshal(resp.Data, &updated))
		assert.Equal(t, "Keyboard v2", updated["name"])
		assert.Equal(t, 59.99, updated["price"])
	})

	t.Run("delete hides the product", func(t *testing.T) {
		status, _ := env.do(t, http.MethodDelete, productPath, adminTok, nil)
		require.Equal(t, http.StatusOK, status)

		status, resp := env.do(t, http.MethodGet, productPath, userTok, nil)
		assert.Equal(t, http.StatusNotFound, status)
		require.NotNil(t, resp.Error)
	})
}

func TestProductRoleGating(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t, "admin123", "admin@b.com", "Adm123!@", model.RoleAdmin)
	env.seedUser(t, "modmod1", "mod@b.com", "Mod123!@", model.RoleModerator)
	env.seedUser(t, "alice123", "a@b.com", "Abc123!@", model.RoleUser)
	adminTok := env.signin(t, "admin123", "Adm123!@")
	modTok := env.signin(t, "modmod1", "Mod123!@")
	userTok := env.signin(t, "alice123", "Abc123!@")

	// only admins create
	status, _ := env.do(t, http.MethodPost, "/api/v1/products", userTok,
		productBody("Mouse", 19.99, "peripherals"))
	assert.Equal(t, http.StatusForbidden, status)

	status, _ = env.do(t, http.MethodPost, "/api/v1/products", modTok,
		productBody("Mouse", 19.99, "peripherals"))
	assert.Equal(t, http.StatusForbidden, status)

	status, resp := env.do(t, http.MethodPost, "/api/v1/products", adminTok,
		productBody("Mouse", 19.99, "peripherals"))
	require.Equal(t, http.StatusCreated, status)

	var product map[string]any
	require.NoError(t, json.Unmarshal(resp.Data, &product))
	productPath := fmt.Sprintf("/api/v1/products/%v", product["id"])

	// moderators may update but not delete
	status, _ = env.do(t, http.MethodPut, productPath, modTok,
		productBody("Mouse v2", 24.99, "peripherals"))
	assert.Equal(t, http.StatusOK, status)

	status, _ = env.do(t, http.MethodPut, productPath, userTok,
		productBody("Mouse v3", 29.99, "peripherals"))
	assert.Equal(t, http.StatusForbidden, status)

	status, _ = env.do(t, http.MethodDelete, productPath, modTok, nil)
	assert.Equal(t, http.StatusForbidden, status)

	// reads require a token at all
	status, _ = env.do(t, http.MethodGet, "/api/v1/products", "", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestProductListing(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t, "admin123", "admin@b.com", "Adm123!@", model.RoleAdmin)
	adminTok := env.signin(t, "admin123", "Adm123!@")

	for i := 1; i <= 12; i++ {
		category := "peripherals"
		if i%2 == 0 {
			category = "audio"
		}
		status, _ := env.do(t, http.MethodPost, "/api/v1/products", adminTok,
			productBody(fmt.Sprintf("Gadget %02d", i), float64(i), category))
		require.Equal(t, http.StatusCreated, status)
	}

	type page struct {
		TotalItems  int64           `json:"total_items"`
		TotalPages  int             `json:"total_pages"`
		CurrentPage int             `json:"current_page"`
		Products    []model.Product `json:"products"`
	}

	fetch := func(query string) page {
		status, resp := env.do(t, http.MethodGet, "/api/v1/products"+query, adminTok, nil)
		require.Equal(t, http.StatusOK, status)
		var p page
		require.NoError(t, json.Unmarshal(resp.Data, &p))
		return p
	}

	t.Run("defaults to page 1 with 10 items", func(t *testing.T) {
		p := fetch("")
		assert.Equal(t, int64(12), p.TotalItems)
		assert.Equal(t, 2, p.TotalPages)
		assert.Equal(t, 1, p.CurrentPage)
		assert.Len(t, p.Products, 10)
	})

	t.Run("second page holds the remainder", func(t *testing.T) {
		p := fetch("?page=2")
		assert.Equal(t, 2, p.CurrentPage)
		assert.Len(t, p.Products, 2)
	})

	t.Run("category filter", func(t *testing.T) {
		p := fetch("?category=audio")
		assert.Equal(t, int64(6), p.TotalItems)
		for _, product := range p.Products {
			assert.Equal(t, "audio", product.Category)
		}
	})

	t.Run("name filter is a case-insensitive substring", func(t *testing.T) {
		p := fetch("?name=gadget%2001")
		assert.Equal(t, int64(1), p.TotalItems)
		require.Len(t, p.Products, 1)
		assert.Equal(t, "Gadget 01", p.Products[0].Name)
	})

	t.Run("custom limit", func(t *testing.T) {
		p := fetch("?limit=5&page=3")
		assert.Equal(t, 3, p.TotalPages)
		assert.Len(t, p.Products, 2)
	})
}
