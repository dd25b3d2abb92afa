package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rl1809/ecommerce-orders/internal/core/domain"
	"github.com/rl1809/ecommerce-orders/internal/core/service"
)

// In-memory repositories backing real services for handler tests.

type memStore struct {
	customers map[string]domain.Customer
	products  map[string]domain.Product
	orders    map[string]domain.Order
}

func newMemStore() *memStore {
	return &memStore{
		customers: make(map[string]domain.Customer),
		products:  make(map[string]domain.Product),
		orders:    make(map[string]domain.Order),
	}
}

type memCustomers struct{ s *memStore }

func (m memCustomers) Create(ctx context.Context, name, email string) (*domain.Customer, error) {
	c := domain.Customer{ID: uuid.NewString(), Name: name, Email: email}
	m.s.customers[c.ID] = c
	return &c, nil
}

func (m memCustomers) FindByID(ctx context.Context, id string) (*domain.Customer, error) {
	if c, ok := m.s.customers[id]; ok {
		return &c, nil
	}
	return nil, nil
}

func (m memCustomers) FindByEmail(ctx context.Context, email string) (*domain.Customer, error) {
	for _, c := range m.s.customers {
		if c.Email == email {
			return &c, nil
		}
	}
	return nil, nil
}

type memProducts struct{ s *memStore }

func (m memProducts) Create(ctx context.Context, product domain.Product) (*domain.Product, error) {
	product.ID = uuid.NewString()
	m.s.products[product.ID] = product
	return &product, nil
}

func (m memProducts) FindByName(ctx context.Context, name string) (*domain.Product, error) {
	for _, p := range m.s.products {
		if p.Name == name {
			return &p, nil
		}
	}
	return nil, nil
}

func (m memProducts) FindAllByIDs(ctx context.Context, ids []string) ([]domain.Product, error) {
	var out []domain.Product
	for _, id := range ids {
		if p, ok := m.s.products[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m memProducts) UpdateQuantities(ctx context.Context, quantities []domain.ProductQuantity) ([]domain.Product, error) {
	var out []domain.Product
	for _, q := range quantities {
		p, ok := m.s.products[q.ID]
		if !ok {
			return nil, &domain.InvalidProductsError{IDs: []string{q.ID}}
		}
		p.Quantity = q.Quantity
		m.s.products[q.ID] = p
		out = append(out, p)
	}
	return out, nil
}

type memOrders struct{ s *memStore }

func (m memOrders) Create(ctx context.Context, customer *domain.Customer, items []domain.LineItemInput) (*domain.Order, error) {
	now := time.Now()
	order := domain.Order{ID: uuid.NewString(), CustomerID: customer.ID, CreatedAt: now, UpdatedAt: now}
	for _, item := range items {
		p := m.s.products[item.ProductID]
		if p.Quantity < item.Quantity {
			return nil, &domain.InsufficientStockError{IDs: []string{item.ProductID}}
		}
		p.Quantity -= item.Quantity
		m.s.products[item.ProductID] = p
		order.LineItems = append(order.LineItems, domain.OrderLineItem{
			ID:        uuid.NewString(),
			OrderID:   order.ID,
			ProductID: item.ProductID,
			Price:     item.Price,
			Quantity:  item.Quantity,
			CreatedAt: now,
			UpdatedAt: now,
		})
	}
	m.s.orders[order.ID] = order
	return &order, nil
}

func (m memOrders) FindByID(ctx context.Context, id string) (*domain.Order, error) {
	if o, ok := m.s.orders[id]; ok {
		return &o, nil
	}
	return nil, nil
}

type memCache struct {
	keys   map[string]bool
	orders map[string]*domain.Order
}

func (m *memCache) SetIdempotency(ctx context.Context, key string) (bool, error) {
	if m.keys[key] {
		return false, nil
	}
	m.keys[key] = true
	return true, nil
}

func (m *memCache) GetOrder(ctx context.Context, id string) (*domain.Order, error) {
	return m.orders[id], nil
}

func (m *memCache) SetOrder(ctx context.Context, order *domain.Order) error {
	m.orders[order.ID] = order
	return nil
}

func (m *memCache) DeleteOrder(ctx context.Context, id string) error {
	delete(m.orders, id)
	return nil
}

func newTestServer(t *testing.T) (*httptest.Server, *memStore) {
	t.Helper()
	store := newMemStore()
	cache := &memCache{keys: make(map[string]bool), orders: make(map[string]*domain.Order)}

	orderSvc := service.NewOrderService(memOrders{store}, memProducts{store}, memCustomers{store}, cache)
	productSvc := service.NewProductService(memProducts{store})
	customerSvc := service.NewCustomerService(memCustomers{store})

	srv := httptest.NewServer(NewRouter(NewHTTPHandler(orderSvc, productSvc, customerSvc)))
	t.Cleanup(srv.Close)
	return srv, store
}

func seed(store *memStore) (customerID, productID string) {
	customerID = uuid.NewString()
	productID = uuid.NewString()
	store.customers[customerID] = domain.Customer{ID: customerID, Name: "Alice", Email: "alice@example.com"}
	store.products[productID] = domain.Product{ID: productID, Name: "keyboard", Price: decimal.RequireFromString("10"), Quantity: 5}
	return customerID, productID
}

func postJSON(t *testing.T, url, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestHTTP_CreateOrder_Created(t *testing.T) {
	srv, store := newTestServer(t)
	customerID, productID := seed(store)

	resp := postJSON(t, srv.URL+"/orders",
		`{"customer_id":"`+customerID+`","products":[{"id":"`+productID+`","quantity":3}]}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var body OrderResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.NotEmpty(t, body.ID)
	assert.Equal(t, customerID, body.Customer.ID)
	require.Len(t, body.LineItems, 1)
	assert.Equal(t, productID, body.LineItems[0].ProductID)
	assert.Equal(t, "10", body.LineItems[0].Price)
	assert.Equal(t, 3, body.LineItems[0].Quantity)
	assert.Equal(t, "30", body.Total)

	assert.Equal(t, 2, store.products[productID].Quantity)
}

func TestHTTP_CreateOrder_UnknownCustomer(t *testing.T) {
	srv, store := newTestServer(t)
	_, productID := seed(store)

	resp := postJSON(t, srv.URL+"/orders",
		`{"customer_id":"`+uuid.NewString()+`","products":[{"id":"`+productID+`","quantity":1}]}`)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestHTTP_CreateOrder_InvalidProduct(t *testing.T) {
	srv, store := newTestServer(t)
	customerID, _ := seed(store)
	missing := uuid.NewString()

	resp := postJSON(t, srv.URL+"/orders",
		`{"customer_id":"`+customerID+`","products":[{"id":"`+missing+`","quantity":1}]}`)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var body ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "invalid product(s): "+missing, body.Error)
}

func TestHTTP_CreateOrder_InsufficientStock(t *testing.T) {
	srv, store := newTestServer(t)
	customerID, productID := seed(store)

	resp := postJSON(t, srv.URL+"/orders",
		`{"customer_id":"`+customerID+`","products":[{"id":"`+productID+`","quantity":6}]}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, 5, store.products[productID].Quantity)
}

func TestHTTP_CreateOrder_DuplicateRequestID(t *testing.T) {
	srv, store := newTestServer(t)
	customerID, productID := seed(store)
	body := `{"customer_id":"` + customerID + `","products":[{"id":"` + productID + `","quantity":1}]}`

	req, err := http.NewRequest(http.MethodPost, srv.URL+"/orders", strings.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("X-Request-Id", "req-42")

	first, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	first.Body.Close()
	require.Equal(t, http.StatusCreated, first.StatusCode)

	req, err = http.NewRequest(http.MethodPost, srv.URL+"/orders", strings.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("X-Request-Id", "req-42")

	second, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	second.Body.Close()
	assert.Equal(t, http.StatusConflict, second.StatusCode)

	assert.Equal(t, 4, store.products[productID].Quantity)
}

func TestHTTP_GetOrder(t *testing.T) {
	srv, store := newTestServer(t)
	customerID, productID := seed(store)

	created := postJSON(t, srv.URL+"/orders",
		`{"customer_id":"`+customerID+`","products":[{"id":"`+productID+`","quantity":1}]}`)
	require.Equal(t, http.StatusCreated, created.StatusCode)

	var order OrderResponse
	require.NoError(t, json.NewDecoder(created.Body).Decode(&order))

	resp, err := http.Get(srv.URL + "/orders/" + order.ID)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestHTTP_GetOrder_BadUUID(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/orders/not-a-uuid")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestHTTP_GetOrder_NotFound(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/orders/" + uuid.NewString())
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestHTTP_CreateProduct(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := postJSON(t, srv.URL+"/products", `{"name":"mouse","price":19.90,"quantity":3}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var body ProductResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "mouse", body.Name)
	assert.Equal(t, "19.9", body.Price)
	assert.Equal(t, 3, body.Quantity)

	// Duplicate name conflicts.
	dup := postJSON(t, srv.URL+"/products", `{"name":"mouse","price":19.90,"quantity":3}`)
	assert.Equal(t, http.StatusConflict, dup.StatusCode)
}

func TestHTTP_UpdateProductQuantities(t *testing.T) {
	srv, store := newTestServer(t)
	_, productID := seed(store)

	req, err := http.NewRequest(http.MethodPut, srv.URL+"/products/quantities",
		strings.NewReader(`[{"id":"`+productID+`","quantity":42}]`))
	require.NoError(t, err)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 42, store.products[productID].Quantity)
}

func TestHTTP_CreateCustomer(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := postJSON(t, srv.URL+"/customers", `{"name":"Bob","email":"bob@example.com"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	dup := postJSON(t, srv.URL+"/customers", `{"name":"Bobby","email":"bob@example.com"}`)
	assert.Equal(t, http.StatusConflict, dup.StatusCode)
}
