//go:build integration

package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"storefront-api/internal/config"
	"storefront-api/internal/handler"
	"storefront-api/internal/middleware"
	"storefront-api/internal/model"
	"storefront-api/internal/password"
	"storefront-api/internal/router"
	"storefront-api/internal/service"
	"storefront-api/internal/token"
	"storefront-api/pkg/apierror"
)

const testSecret = "integration-test-secret"

// memUserStore mirrors the Postgres repository's visible behavior: lookups
// are case-insensitive, soft-deleted rows are invisible, and duplicate
// usernames or emails surface as validation conflicts.
type memUserStore struct {
	mu     sync.Mutex
	nextID int64
	users  map[int64]model.User
}

func newMemUserStore() *memUserStore {
	return &memUserStore{nextID: 1, users: make(map[int64]model.User)}
}

func (s *memUserStore) FindByID(_ context.Context, id int64) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok || u.DeletedAt != nil {
		return model.User{}, model.ErrUserNotFound
	}
	return u, nil
}

func (s *memUserStore) FindByUsernameOrEmail(_ context.Context, login string) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	needle := strings.ToLower(login)
	for _, u := range s.users {
		if u.DeletedAt != nil {
			continue
		}
		if strings.ToLower(u.Username) == needle || strings.ToLower(u.Email) == needle {
			return u, nil
		}
	}
	return model.User{}, model.ErrUserNotFound
}

func (s *memUserStore) Create(_ context.Context, u model.User) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.users {
		if existing.DeletedAt != nil {
			continue
		}
		if strings.EqualFold(existing.Username, u.Username) {
			return model.User{}, apierror.Validation([]string{"Username is already in use"})
		}
		if strings.EqualFold(existing.Email, u.Email) {
			return model.User{}, apierror.Validation([]string{"Email is already in use"})
		}
	}

	u.ID = s.nextID
	s.nextID++
	u.CreatedAt = time.Now().UTC()
	u.UpdatedAt = u.CreatedAt
	s.users[u.ID] = u
	return u, nil
}

func (s *memUserStore) Update(_ context.Context, u model.User) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.users[u.ID]
	if !ok || existing.DeletedAt != nil {
		return model.User{}, model.ErrUserNotFound
	}
	u.UpdatedAt = time.Now().UTC()
	s.users[u.ID] = u
	return u, nil
}

func (s *memUserStore) UpdatePassword(_ context.Context, id int64, passwordHash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok || u.DeletedAt != nil {
		return model.ErrUserNotFound
	}
	u.PasswordHash = passwordHash
	s.users[id] = u
	return nil
}

func (s *memUserStore) UpdateLastLogin(_ context.Context, id int64, ts time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok || u.DeletedAt != nil {
		return model.ErrUserNotFound
	}
	u.LastLogin = &ts
	s.users[id] = u
	return nil
}

func (s *memUserStore) SoftDelete(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok || u.DeletedAt != nil {
		return model.ErrUserNotFound
	}
	now := time.Now().UTC()
	u.DeletedAt = &now
	s.users[id] = u
	return nil
}

type memRoleStore struct{}

func (memRoleStore) FindByID(_ context.Context, id int64) (model.Role, error) {
	switch id {
	case model.RoleAdmin:
		return model.Role{ID: id, Name: "ADMIN"}, nil
	case model.RoleModerator:
		return model.Role{ID: id, Name: "MODERATOR"}, nil
	case model.RoleUser:
		return model.Role{ID: id, Name: "USER"}, nil
	}
	return model.Role{}, model.ErrRoleNotFound
}

type memProductStore struct {
	mu       sync.Mutex
	nextID   int64
	products map[int64]model.Product
}

func newMemProductStore() *memProductStore {
	return &memProductStore{nextID: 1, products: make(map[int64]model.Product)}
}

func (s *memProductStore) Create(_ context.Context, p model.Product) (model.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p.ID = s.nextID
	s.nextID++
	p.CreatedAt = time.Now().UTC()
	p.UpdatedAt = p.CreatedAt
	s.products[p.ID] = p
	return p, nil
}

func (s *memProductStore) FindByID(_ context.Context, id int64) (model.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.products[id]
	if !ok || p.DeletedAt != nil {
		return model.Product{}, model.ErrProductNotFound
	}
	return p, nil
}

func (s *memProductStore) Update(_ context.Context, p model.Product) (model.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.products[p.ID]
	if !ok || existing.DeletedAt != nil {
		return model.Product{}, model.ErrProductNotFound
	}
	p.UpdatedAt = time.Now().UTC()
	s.products[p.ID] = p
	return p, nil
}

func (s *memProductStore) SoftDelete(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.products[id]
	if !ok || p.DeletedAt != nil {
		return model.ErrProductNotFound
	}
	now := time.Now().UTC()
	p.DeletedAt = &now
	s.products[id] = p
	return nil
}

func (s *memProductStore) List(_ context.Context, q model.ProductListQuery) (model.ProductPage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var matched []model.Product
	for id := int64(1); id < s.nextID; id++ {
		p, ok := s.products[id]
		if !ok || p.DeletedAt != nil {
			continue
		}
		if q.Name != "" && !strings.Contains(strings.ToLower(p.Name), strings.ToLower(q.Name)) {
			continue
		}
		if q.Category != "" && !strings.Contains(strings.ToLower(p.Category), strings.ToLower(q.Category)) {
			continue
		}
		matched = append(matched, p)
	}

	total := int64(len(matched))
	totalPages := int((total + int64(q.Limit) - 1) / int64(q.Limit))
	start := (q.Page - 1) * q.Limit
	if start > len(matched) {
		start = len(matched)
	}
	end := start + q.Limit
	if end > len(matched) {
		end = len(matched)
	}

	return model.ProductPage{
		TotalItems:  total,
		TotalPages:  totalPages,
		CurrentPage: q.Page,
		Products:    matched[start:end],
	}, nil
}

type testEnv struct {
	server   *httptest.Server
	users    *memUserStore
	products *memProductStore
	hasher   *password.Hasher
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	users := newMemUserStore()
	products := newMemProductStore()
	hasher := password.NewHasher(4)
	issuer := token.NewIssuer(testSecret, time.Hour)

	authService := service.NewAuthService(users, memRoleStore{}, hasher, issuer)
	productService := service.NewProductService(products)
	authMiddleware := middleware.NewAuthMiddleware(issuer, users)

	cfg := &config.Config{
		RequestTimeout:   30 * time.Second,
		CORSOrigins:      []string{"*"},
		RateLimitRPM:     10000,
		AuthRateLimitRPM: 10000,
	}

	appRouter := router.New(cfg, authMiddleware, router.Handlers{
		Auth:    handler.NewAuthHandler(authService),
		User:    handler.NewUserHandler(authService),
		Product: handler.NewProductHandler(productService),
	})

	server := httptest.NewServer(appRouter)
	t.Cleanup(server.Close)

	return &testEnv{server: server, users: users, products: products, hasher: hasher}
}

// seedUser inserts a user directly into the store, bypassing the signup
// validation path. Returns the stored user.
func (e *testEnv) seedUser(t *testing.T, username, email, plaintext string, roleID int64) model.User {
	t.Helper()

	hash, err := e.hasher.Hash(plaintext)
	require.NoError(t, err)

	user, err := e.users.Create(context.Background(), model.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		FirstName:    "Seeded",
		IsActive:     true,
		RoleID:       roleID,
	})
	require.NoError(t, err)
	return user
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Token   string          `json:"token"`
	User    json.RawMessage `json:"user"`
	Error   *model.APIError `json:"error"`
}

func (e *testEnv) do(t *testing.T, method, path, bearer string, body any) (int, envelope) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, e.server.URL+path, reader)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := e.server.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	return resp.StatusCode, env
}

func (e *testEnv) signin(t *testing.T, login, plaintext string) string {
	t.Helper()

	status, env := e.do(t, http.MethodPost, "/api/v1/user/signin", "", map[string]string{
		"login":    login,
		"password": plaintext,
	})
	require.Equal(t, http.StatusOK, status)
	require.NotEmpty(t, env.Token)
	return env.Token
}
