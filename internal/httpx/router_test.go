package httpx_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/mbarhoumi/agil-backoffice/internal/domain"
	"github.com/mbarhoumi/agil-backoffice/internal/httpx"
	"github.com/mbarhoumi/agil-backoffice/internal/notify"
	"github.com/mbarhoumi/agil-backoffice/internal/service/complaints"
	"github.com/mbarhoumi/agil-backoffice/internal/service/orders"
	"github.com/mbarhoumi/agil-backoffice/internal/storage/memory"
)

type testEnv struct {
	router   http.Handler
	issuer   *httpx.TokenIssuer
	products *memory.ProductRepository
	users    *memory.UserRepository
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	products := memory.NewProductRepository()
	ordersRepo := memory.NewOrderRepository(products)
	complaintsRepo := memory.NewComplaintRepository()
	stations := memory.NewStationRepository()
	users := memory.NewUserRepository()
	hub := notify.NewHub(nil)

	issuer := httpx.NewTokenIssuer("test-secret", time.Hour)
	ordersSvc := orders.New(ordersRepo, hub, nil, nil)
	complaintsSvc := complaints.New(complaintsRepo, nil)

	router := httpx.NewRouter(issuer, httpx.Handlers{
		Auth:       httpx.NewAuthHandler(users, issuer, nil),
		Orders:     httpx.NewOrdersHandler(ordersSvc),
		Complaints: httpx.NewComplaintsHandler(complaintsSvc),
		Catalog:    httpx.NewCatalogHandler(products, stations),
		Stream:     httpx.NewStreamHandler(hub, nil, nil),
	})

	return &testEnv{router: router, issuer: issuer, products: products, users: users}
}

func (e *testEnv) seedUser(t *testing.T, email, password string, role domain.Role) domain.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	u := domain.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: string(hash),
		FirstName:    "Test",
		LastName:     "User",
		Role:         role,
		CreatedAt:    time.Now().UTC(),
	}
	require.NoError(t, e.users.Create(context.Background(), u))
	return u
}

func (e *testEnv) token(t *testing.T, u domain.User) string {
	t.Helper()
	token, err := e.issuer.Issue(u)
	require.NoError(t, err)
	return token
}

func (e *testEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func TestLogin(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t, "gerant@agil.tn", "motdepasse", domain.RoleGerant)

	rec := env.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": "gerant@agil.tn", "password": "motdepasse",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Token string `json:"token"`
		User  struct {
			Role string `json:"role"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	require.Equal(t, "GERANT", resp.User.Role)

	// Wrong password and unknown email answer identically.
	rec = env.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": "gerant@agil.tn", "password": "wrong",
	})
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	rec = env.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": "nobody@agil.tn", "password": "motdepasse",
	})
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthRequired(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/products", "", nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/products", "not-a-token", nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestPlaceOrderOverHTTP(t *testing.T) {
	env := newTestEnv(t)
	gerant := env.seedUser(t, "gerant@agil.tn", "motdepasse", domain.RoleGerant)
	token := env.token(t, gerant)

	require.NoError(t, env.products.Create(context.Background(), domain.Product{
		ID: uuid.NewString(), Name: "diesel", UnitPrice: 200, Quantity: 5,
	}))
	list, err := env.products.List(context.Background())
	require.NoError(t, err)
	productID := list[0].ID

	rec := env.do(t, http.MethodPost, "/api/orders", token, map[string]any{
		"amount": 1000,
		"lines": []map[string]any{
			{"product_id": productID, "qty": 5, "unit_price": 200},
		},
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var order struct {
		ID        string `json:"id"`
		Reference string `json:"reference"`
		Status    string `json:"status"`
		Amount    int64  `json:"amount"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &order))
	require.Equal(t, "NEW", order.Status)
	require.Equal(t, int64(1000), order.Amount)

	// Insufficient stock now: conflict.
	rec = env.do(t, http.MethodPost, "/api/orders", token, map[string]any{
		"amount": 200,
		"lines": []map[string]any{
			{"product_id": productID, "qty": 1, "unit_price": 200},
		},
	})
	require.Equal(t, http.StatusConflict, rec.Code)

	// Empty line list: validation.
	rec = env.do(t, http.MethodPost, "/api/orders", token, map[string]any{
		"amount": 0, "lines": []map[string]any{},
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	// Owner reads it back; a stranger gets 403; missing id 404.
	rec = env.do(t, http.MethodGet, "/api/orders/"+order.ID, token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	other := env.seedUser(t, "other@agil.tn", "motdepasse", domain.RoleGerant)
	rec = env.do(t, http.MethodGet, "/api/orders/"+order.ID, env.token(t, other), nil)
	require.Equal(t, http.StatusForbidden, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/orders/"+uuid.NewString(), token, nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestOrderStatusOverHTTP(t *testing.T) {
	env := newTestEnv(t)
	gerant := env.seedUser(t, "gerant@agil.tn", "motdepasse", domain.RoleGerant)
	token := env.token(t, gerant)

	productID := uuid.NewString()
	require.NoError(t, env.products.Create(context.Background(), domain.Product{
		ID: productID, Name: "diesel", UnitPrice: 100, Quantity: 10,
	}))

	rec := env.do(t, http.MethodPost, "/api/orders", token, map[string]any{
		"amount": 100,
		"lines":  []map[string]any{{"product_id": productID, "qty": 1, "unit_price": 100}},
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	var order struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &order))

	// Invalid transition: conflict.
	rec = env.do(t, http.MethodPut, fmt.Sprintf("/api/orders/%s/status", order.ID), token,
		map[string]string{"status": "VALIDATED"})
	require.Equal(t, http.StatusConflict, rec.Code)

	rec = env.do(t, http.MethodPut, fmt.Sprintf("/api/orders/%s/status", order.ID), token,
		map[string]string{"status": "IN_PROGRESS"})
	require.Equal(t, http.StatusOK, rec.Code)

	// Unknown status: validation.
	rec = env.do(t, http.MethodPut, fmt.Sprintf("/api/orders/%s/status", order.ID), token,
		map[string]string{"status": "SHIPPED"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAdminScopes(t *testing.T) {
	env := newTestEnv(t)
	gerant := env.seedUser(t, "gerant@agil.tn", "motdepasse", domain.RoleGerant)
	admin := env.seedUser(t, "admin@agil.tn", "motdepasse", domain.RoleAdmin)

	rec := env.do(t, http.MethodGet, "/api/orders", env.token(t, gerant), nil)
	require.Equal(t, http.StatusForbidden, rec.Code)
	rec = env.do(t, http.MethodGet, "/api/orders", env.token(t, admin), nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/users", env.token(t, gerant), nil)
	require.Equal(t, http.StatusForbidden, rec.Code)
	rec = env.do(t, http.MethodGet, "/api/users", env.token(t, admin), nil)
	require.Equal(t, http.StatusOK, rec.Code)

	// User creation is admin-gated and validates the role.
	rec = env.do(t, http.MethodPost, "/api/users", env.token(t, admin), map[string]string{
		"email": "depot@agil.tn", "password": "motdepasse", "role": "DEPOT",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	rec = env.do(t, http.MethodPost, "/api/users", env.token(t, admin), map[string]string{
		"email": "x@agil.tn", "password": "motdepasse", "role": "SUPERUSER",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	// Duplicate email: conflict.
	rec = env.do(t, http.MethodPost, "/api/users", env.token(t, admin), map[string]string{
		"email": "depot@agil.tn", "password": "motdepasse", "role": "DEPOT",
	})
	require.Equal(t, http.StatusConflict, rec.Code)
}

func TestStationsAndProductsOverHTTP(t *testing.T) {
	env := newTestEnv(t)
	admin := env.seedUser(t, "admin@agil.tn", "motdepasse", domain.RoleAdmin)
	gerant := env.seedUser(t, "gerant@agil.tn", "motdepasse", domain.RoleGerant)

	rec := env.do(t, http.MethodPost, "/api/stations", env.token(t, gerant), map[string]string{
		"name": "Agil Menzah",
	})
	require.Equal(t, http.StatusForbidden, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/stations", env.token(t, admin), map[string]string{
		"name": "Agil Menzah", "address": "Tunis",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/stations", env.token(t, admin), map[string]string{
		"address": "no name",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/stations", env.token(t, gerant), nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/products", env.token(t, gerant), map[string]any{
		"name": "diesel", "unit_price": 200, "quantity": 10,
	})
	require.Equal(t, http.StatusForbidden, rec.Code)
	rec = env.do(t, http.MethodPost, "/api/products", env.token(t, admin), map[string]any{
		"name": "diesel", "unit_price": 200, "quantity": 10,
	})
	require.Equal(t, http.StatusCreated, rec.Code)
}

func TestComplaintsOverHTTP(t *testing.T) {
	env := newTestEnv(t)
	gerant := env.seedUser(t, "gerant@agil.tn", "motdepasse", domain.RoleGerant)
	depot := env.seedUser(t, "depot@agil.tn", "motdepasse", domain.RoleDepot)

	rec := env.do(t, http.MethodPost, "/api/complaints", env.token(t, depot), map[string]string{
		"description": "x", "type": "OTHER",
	})
	require.Equal(t, http.StatusForbidden, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/complaints", env.token(t, gerant), map[string]string{
		"description": "late delivery", "type": "DELIVERY",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	var c struct {
		ID        string `json:"id"`
		ManagerID string `json:"manager_id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &c))
	require.Equal(t, gerant.ID, c.ManagerID)

	rec = env.do(t, http.MethodGet, "/api/complaints/mine", env.token(t, gerant), nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodPut, fmt.Sprintf("/api/complaints/%s/status", c.ID), env.token(t, gerant),
		map[string]string{"status": "IN_PROGRESS"})
	require.Equal(t, http.StatusOK, rec.Code)
}
