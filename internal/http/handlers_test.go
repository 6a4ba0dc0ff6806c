package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"partshop/internal/auth"
	"partshop/internal/domain"
	"partshop/internal/payments"
	"partshop/internal/repository"
	"partshop/internal/service"
)

func init() { gin.SetMode(gin.TestMode) }

type testEnv struct {
	server *Server
	tokens *auth.TokenManager
	users  *repository.MemoryUsers
}

type stubPayments struct{ err error }

func (p stubPayments) CreatePaymentIntent(_ context.Context, req payments.IntentRequest) (payments.Intent, error) {
	if p.err != nil {
		return payments.Intent{}, p.err
	}
	return payments.Intent{ID: "pi_1", ClientSecret: "secret_" + req.Currency}, nil
}

func setupServer(t *testing.T, opts Options) *testEnv {
	t.Helper()
	tokens, err := auth.NewTokenManager("test-secret", time.Hour)
	require.NoError(t, err)
	logger := zap.NewNop()
	store := repository.NewMemoryStore()
	users := repository.NewMemoryUsers(store)
	ordersRepo := repository.NewMemoryOrders(store)
	tx := repository.NewMemoryTx(store)
	svc := Services{
		Users:     service.NewUserService(users, tokens, logger),
		Products:  service.NewProductService(store, tx, logger),
		Brands:    service.NewBrandService(repository.NewMemoryBrands(store), logger),
		Orders:    service.NewOrderService(ordersRepo, logger),
		Dashboard: service.NewDashboardService(ordersRepo, store, logger),
		Payments:  service.NewPaymentService(stubPayments{}, "aed", logger),
	}
	return &testEnv{server: NewServer(svc, opts), tokens: tokens, users: users}
}

// token stores an account with the given id and role (once) and signs a token for it.
func (e *testEnv) token(t *testing.T, id string, role domain.Role) string {
	t.Helper()
	ctx := context.Background()
	u, err := e.users.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		u = &domain.User{ID: id, FullName: id, Email: id + "@example.com", PasswordHash: "-", Role: role}
		require.NoError(t, e.users.Create(ctx, u))
	} else {
		require.NoError(t, err)
		require.Equal(t, role, u.Role, "account %s already stored with another role", id)
	}
	tok, err := e.tokens.Issue(*u)
	require.NoError(t, err)
	return tok
}

func doJSON(t *testing.T, e *testEnv, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.server.Engine().ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), "body %q", w.Body.String())
	return v
}

type envelope[T any] struct {
	Message string `json:"message"`
	Data    T      `json:"data"`
}

func TestRegisterLoginFlow(t *testing.T) {
	e := setupServer(t, Options{})

	w := doJSON(t, e, http.MethodPost, "/api/user/register", "", map[string]any{
		"fullName": "Sara", "email": "sara@example.com", "password": "secret1",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	reg := decode[sessionResp](t, w)
	assert.NotEmpty(t, reg.Token)
	assert.Equal(t, domain.RoleCustomer, reg.User.Role)
	assert.NotContains(t, w.Body.String(), "password", "password hash leaked")

	w = doJSON(t, e, http.MethodPost, "/api/user/register", "", map[string]any{
		"fullName": "Sara", "email": "SARA@example.com", "password": "secret1",
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = doJSON(t, e, http.MethodPost, "/api/user/login", "", map[string]any{"email": "sara@example.com", "password": "nope"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	w = doJSON(t, e, http.MethodPost, "/api/user/login", "", map[string]any{"email": "sara@example.com", "password": "secret1"})
	require.Equal(t, http.StatusOK, w.Code)

	// token from login opens authenticated routes
	login := decode[sessionResp](t, w)
	w = doJSON(t, e, http.MethodGet, "/api/order/my", login.Token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAuthenticate_DeletedAccount(t *testing.T) {
	e := setupServer(t, Options{})
	admin := e.token(t, "admin-1", domain.RoleAdmin)

	w := doJSON(t, e, http.MethodPost, "/api/admin/users", admin, map[string]any{
		"fullName": "Garage", "email": "garage@example.com", "password": "secret1", "role": "GARAGE",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	g := decode[envelope[domain.User]](t, w).Data
	garage, err := e.tokens.Issue(g)
	require.NoError(t, err)

	w = doJSON(t, e, http.MethodGet, "/api/dashboard/garage/dashboard/stats", garage, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, e, http.MethodDelete, "/api/admin/users/"+g.ID, admin, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, e, http.MethodGet, "/api/dashboard/garage/dashboard/stats", garage, nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)
	body := decode[errorResponse](t, w)
	assert.Equal(t, "unauthenticated", body.Error)
	assert.Equal(t, "Invalid or expired session", body.Message)
}

func TestAuthenticate_RoleChangeAppliesImmediately(t *testing.T) {
	e := setupServer(t, Options{})
	admin := e.token(t, "admin-1", domain.RoleAdmin)
	garage := e.token(t, "garage-1", domain.RoleGarage)

	w := doJSON(t, e, http.MethodGet, "/api/order/garage", garage, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, e, http.MethodPut, "/api/admin/users/garage-1", admin, map[string]any{"role": "CUSTOMER"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = doJSON(t, e, http.MethodGet, "/api/order/garage", garage, nil)
	assert.Equal(t, http.StatusForbidden, w.Code, "token still carries GARAGE, stored role is CUSTOMER")
	w = doJSON(t, e, http.MethodGet, "/api/order/my", garage, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAuthenticate_UnknownAccount(t *testing.T) {
	e := setupServer(t, Options{})

	forged, err := e.tokens.Issue(domain.User{ID: "never-existed", Role: domain.RoleAdmin})
	require.NoError(t, err)

	w := doJSON(t, e, http.MethodGet, "/api/admin/users", forged, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestOrderFlow(t *testing.T) {
	e := setupServer(t, Options{})
	buyer := e.token(t, "buyer-1", domain.RoleCustomer)
	staff := e.token(t, "sup-1", domain.RoleSupplier)

	w := doJSON(t, e, http.MethodPost, "/api/order/create", "", map[string]any{"items": []any{}})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(t, e, http.MethodPost, "/api/order/create", buyer, map[string]any{
		"items": []map[string]any{
			{"productId": "p1", "name": "Pad", "price": 10, "totalPrice": 20, "quantity": 2, "selectedColor": "red"},
		},
		"totalPrice": 20, "country": "UAE", "city": "Dubai", "address": "1 St", "paymentMethod": "card",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode[envelope[map[string]any]](t, w)
	id, _ := created.Data["id"].(string)
	require.NotEmpty(t, id)
	assert.Equal(t, "PENDING", created.Data["status"])
	items, _ := created.Data["items"].([]any)
	assert.Len(t, items, 1, "items echoed as an array")

	w = doJSON(t, e, http.MethodGet, "/api/order/"+id, "", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	// customers cannot change status
	w = doJSON(t, e, http.MethodPut, "/api/order/update/"+id, buyer, map[string]any{"status": "SHIPPED"})
	assert.Equal(t, http.StatusForbidden, w.Code)
	w = doJSON(t, e, http.MethodPut, "/api/order/update/"+id, staff, map[string]any{"orderId": id, "status": "DELIVERED"})
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
	w = doJSON(t, e, http.MethodPut, "/api/order/update/"+id, staff, map[string]any{"status": "PENDING"})
	assert.Equal(t, http.StatusOK, w.Code, "backwards status update")
	w = doJSON(t, e, http.MethodPut, "/api/order/update/"+id, staff, map[string]any{"status": "LOST"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = doJSON(t, e, http.MethodPut, "/api/order/update/"+id, staff, map[string]any{"orderId": "other", "status": "SHIPPED"})
	assert.Equal(t, http.StatusBadRequest, w.Code, "body id must match the path")
	w = doJSON(t, e, http.MethodPut, "/api/order/update/missing", staff, map[string]any{"status": "SHIPPED"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, e, http.MethodGet, "/api/order", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w = doJSON(t, e, http.MethodGet, "/api/order/my", buyer, nil)
	assert.Len(t, decode[envelope[[]map[string]any]](t, w).Data, 1)
}

func TestOrderList_Restricted(t *testing.T) {
	e := setupServer(t, Options{RestrictOrderList: true})

	assert.Equal(t, http.StatusUnauthorized, doJSON(t, e, http.MethodGet, "/api/order", "", nil).Code)
	assert.Equal(t, http.StatusForbidden, doJSON(t, e, http.MethodGet, "/api/order", e.token(t, "c1", domain.RoleCustomer), nil).Code)
	assert.Equal(t, http.StatusOK, doJSON(t, e, http.MethodGet, "/api/order", e.token(t, "a1", domain.RoleAdmin), nil).Code)
}

func TestGarageOrdersAndDashboard(t *testing.T) {
	e := setupServer(t, Options{})
	garage := e.token(t, "garage-1", domain.RoleGarage)
	admin := e.token(t, "admin-1", domain.RoleAdmin)

	for _, customer := range []string{"c1", ""} {
		w := doJSON(t, e, http.MethodPost, "/api/order/create", garage, map[string]any{
			"items":      []map[string]any{{"productId": "p1", "price": 5, "totalPrice": 5, "quantity": 1}},
			"totalPrice": 5, "customerId": customer,
		})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	}

	w := doJSON(t, e, http.MethodGet, "/api/order/garage?customerOnly=true", garage, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[envelope[[]map[string]any]](t, w).Data, 1)

	w = doJSON(t, e, http.MethodGet, "/api/order/garage?customerOnly=maybe", garage, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, e, http.MethodGet, "/api/dashboard/garage/dashboard/stats", garage, nil)
	require.Equal(t, http.StatusOK, w.Code)
	gs := decode[domain.GarageStats](t, w)
	require.Len(t, gs.CustomerDistribution, 2)
	assert.Equal(t, "Unknown", gs.CustomerDistribution[1].CustomerID)

	assert.Equal(t, http.StatusForbidden, doJSON(t, e, http.MethodGet, "/api/dashboard/garage/dashboard/stats", admin, nil).Code)
	assert.Equal(t, http.StatusForbidden, doJSON(t, e, http.MethodGet, "/api/dashboard/admin/dashboard/stats", garage, nil).Code)

	w = doJSON(t, e, http.MethodGet, "/api/dashboard/admin/dashboard/stats", admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	as := decode[domain.AdminStats](t, w)
	assert.Equal(t, int64(2), as.TotalQuantity)
	assert.Equal(t, 10.0, as.TotalRevenue)
}

func TestProductFlow(t *testing.T) {
	e := setupServer(t, Options{})
	admin := e.token(t, "admin-1", domain.RoleAdmin)
	garage := e.token(t, "garage-1", domain.RoleGarage)
	rival := e.token(t, "garage-2", domain.RoleGarage)

	w := doJSON(t, e, http.MethodPost, "/api/admin/products", admin, map[string]any{
		"name": "Bumper", "price": 100, "quantity": 3, "category": "toyota", "images": []string{"https://img/1"},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, http.StatusForbidden, doJSON(t, e, http.MethodPost, "/api/admin/products", garage, map[string]any{"name": "x"}).Code)

	w = doJSON(t, e, http.MethodPost, "/api/garage/products", garage, map[string]any{"name": "Mirror", "price": 30})
	require.Equal(t, http.StatusCreated, w.Code)
	own := decode[envelope[domain.Product]](t, w).Data
	assert.Equal(t, "garage-1", own.CreatedBy)

	w = doJSON(t, e, http.MethodGet, "/api/garage/products", garage, nil)
	list := decode[envelope[[]domain.Product]](t, w).Data
	require.Len(t, list, 1)
	assert.Equal(t, own.ID, list[0].ID)

	w = doJSON(t, e, http.MethodGet, "/api/admin/products?q=bump&category=toyota&min_price=50", "", nil)
	list = decode[envelope[[]domain.Product]](t, w).Data
	require.Len(t, list, 1)
	assert.Equal(t, "Bumper", list[0].Name)
	assert.Equal(t, http.StatusBadRequest, doJSON(t, e, http.MethodGet, "/api/admin/products?min_price=abc", "", nil).Code)

	assert.Equal(t, http.StatusForbidden, doJSON(t, e, http.MethodPut, "/api/garage/products/"+own.ID, rival, map[string]any{"name": "Stolen"}).Code)
	assert.Equal(t, http.StatusOK, doJSON(t, e, http.MethodPut, "/api/garage/products/"+own.ID, garage, map[string]any{"name": "Mirror L", "price": 35}).Code)
	assert.Equal(t, http.StatusOK, doJSON(t, e, http.MethodGet, "/api/garage/products/"+own.ID, "", nil).Code)
	assert.Equal(t, http.StatusOK, doJSON(t, e, http.MethodDelete, "/api/garage/products/"+own.ID, garage, nil).Code)
	assert.Equal(t, http.StatusNotFound, doJSON(t, e, http.MethodGet, "/api/admin/products/"+own.ID, "", nil).Code)
}

func TestBrandFlow(t *testing.T) {
	e := setupServer(t, Options{})
	admin := e.token(t, "admin-1", domain.RoleAdmin)

	w := doJSON(t, e, http.MethodPost, "/api/brand", admin, map[string]any{"name": "Land Rover", "image": "https://img/lr"})
	require.Equal(t, http.StatusCreated, w.Code)
	b := decode[envelope[domain.Brand]](t, w).Data
	assert.Equal(t, "land-rover", b.Slug)

	assert.Equal(t, http.StatusConflict, doJSON(t, e, http.MethodPost, "/api/brand", admin, map[string]any{"name": "LAND ROVER"}).Code)
	assert.Equal(t, http.StatusForbidden, doJSON(t, e, http.MethodPost, "/api/brand", e.token(t, "g", domain.RoleGarage), map[string]any{"name": "Kia"}).Code)
	assert.Equal(t, http.StatusOK, doJSON(t, e, http.MethodGet, "/api/brand/"+b.ID, "", nil).Code)
	assert.Equal(t, http.StatusOK, doJSON(t, e, http.MethodDelete, "/api/brand/"+b.ID, admin, nil).Code)
}

func TestAdminUsersAndRoster(t *testing.T) {
	e := setupServer(t, Options{})
	admin := e.token(t, "admin-1", domain.RoleAdmin)
	garage := e.token(t, "garage-1", domain.RoleGarage)

	w := doJSON(t, e, http.MethodPost, "/api/admin/users", admin, map[string]any{
		"fullName": "Sup", "email": "sup@example.com", "password": "secret1", "role": "SUPPLIER",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, http.StatusForbidden, doJSON(t, e, http.MethodGet, "/api/admin/users", garage, nil).Code)

	w = doJSON(t, e, http.MethodPost, "/api/garage/user/create", garage, map[string]any{
		"fullName": "Client", "email": "client@example.com", "password": "secret1",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	client := decode[envelope[domain.User]](t, w).Data
	assert.Equal(t, "garage-1", client.ManagedBy)

	w = doJSON(t, e, http.MethodGet, "/api/garage/user/get", garage, nil)
	assert.Len(t, decode[envelope[[]domain.User]](t, w).Data, 1)

	other := e.token(t, "garage-2", domain.RoleGarage)
	assert.Equal(t, http.StatusForbidden, doJSON(t, e, http.MethodGet, "/api/garage/user/"+client.ID, other, nil).Code)
	assert.Equal(t, http.StatusOK, doJSON(t, e, http.MethodDelete, "/api/garage/user/"+client.ID, garage, nil).Code)
}

func TestPaymentIntent(t *testing.T) {
	e := setupServer(t, Options{})

	w := doJSON(t, e, http.MethodPost, "/create-payment-intent", "", map[string]any{"amount": 12550, "currency": "aed"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "secret_aed", decode[paymentIntentResp](t, w).ClientSecret)

	w = doJSON(t, e, http.MethodPost, "/create-payment-intent", "", map[string]any{"amount": 0})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHTTP_BadRequestsAndErrors(t *testing.T) {
	e := setupServer(t, Options{})

	w := doJSON(t, e, http.MethodGet, "/nope", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Route not found", decode[messageResponse](t, w).Message)

	w = doJSON(t, e, http.MethodGet, "/api/order/my", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "unauthenticated", decode[errorResponse](t, w).Error)

	req := httptest.NewRequest(http.MethodPost, "/api/user/login", bytes.NewBufferString("{"))
	rec := httptest.NewRecorder()
	e.server.Engine().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	assert.Equal(t, http.StatusOK, doJSON(t, e, http.MethodGet, "/health", "", nil).Code)
}

func TestMapErrorToStatus(t *testing.T) {
	cases := map[error]int{
		service.ErrInvalidInput:    http.StatusBadRequest,
		service.ErrUnauthenticated: http.StatusUnauthorized,
		service.ErrForbidden:       http.StatusForbidden,
		repository.ErrNotFound:     http.StatusNotFound,
		service.ErrConflict:        http.StatusConflict,
		service.ErrUnavailable:     http.StatusServiceUnavailable,
		errors.New("boom"):         http.StatusInternalServerError,
	}
	for err, want := range cases {
		assert.Equal(t, want, mapErrorToStatus(err), err.Error())
	}
}

func TestServerErrorHidesDetail(t *testing.T) {
	e := setupServer(t, Options{})
	e.server.svc.Payments = service.NewPaymentService(stubPayments{err: errors.New("stripe exploded")}, "aed", nil)

	w := doJSON(t, e, http.MethodPost, "/create-payment-intent", "", map[string]any{"amount": 100})
	require.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Server Error", decode[errorResponse](t, w).Message)
	assert.NotContains(t, w.Body.String(), "exploded")
}
