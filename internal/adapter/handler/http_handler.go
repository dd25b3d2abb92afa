package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rl1809/ecommerce-orders/internal/core/domain"
	"github.com/rl1809/ecommerce-orders/internal/core/service"
)

type HTTPHandler struct {
	orders    *service.OrderService
	products  *service.ProductService
	customers *service.CustomerService
}

func NewHTTPHandler(orders *service.OrderService, products *service.ProductService, customers *service.CustomerService) *HTTPHandler {
	return &HTTPHandler{orders: orders, products: products, customers: customers}
}

// NewRouter registers all routes with request-id, logging and recoverer middleware.
func NewRouter(h *HTTPHandler) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Post("/orders", h.CreateOrder)
	r.Get("/orders/{id}", h.GetOrder)
	r.Post("/products", h.CreateProduct)
	r.Put("/products/quantities", h.UpdateProductQuantities)
	r.Post("/customers", h.CreateCustomer)
	r.Get("/health", h.HealthCheck)

	return r
}

type CreateOrderRequest struct {
	CustomerID string                `json:"customer_id"`
	Products   []OrderProductRequest `json:"products"`
}

type OrderProductRequest struct {
	ID       string `json:"id"`
	Quantity int    `json:"quantity"`
}

type OrderResponse struct {
	ID        string             `json:"id"`
	Customer  CustomerResponse   `json:"customer"`
	LineItems []LineItemResponse `json:"order_products"`
	Total     string             `json:"total"`
	CreatedAt string             `json:"created_at"`
	UpdatedAt string             `json:"updated_at"`
}

type LineItemResponse struct {
	ProductID string `json:"product_id"`
	Price     string `json:"price"`
	Quantity  int    `json:"quantity"`
}

type CustomerResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type ProductResponse struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Price    string `json:"price"`
	Quantity int    `json:"quantity"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

func (h *HTTPHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var req CreateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.CustomerID == "" {
		writeError(w, http.StatusBadRequest, "customer_id is required")
		return
	}

	items := make([]service.OrderItemRequest, len(req.Products))
	for i, p := range req.Products {
		items[i] = service.OrderItemRequest{ProductID: p.ID, Quantity: p.Quantity}
	}

	order, err := h.orders.CreateOrder(r.Context(), req.CustomerID, r.Header.Get("X-Request-Id"), items)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, mapOrder(order))
}

func (h *HTTPHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := uuid.Parse(id); err != nil {
		writeError(w, http.StatusBadRequest, "order id must be a valid uuid")
		return
	}

	order, err := h.orders.GetOrder(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, mapOrder(order))
}

type CreateProductRequest struct {
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Quantity int             `json:"quantity"`
}

func (h *HTTPHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req CreateProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	product, err := h.products.Create(r.Context(), req.Name, req.Price, req.Quantity)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, mapProduct(product))
}

type UpdateQuantitiesRequest []struct {
	ID       string `json:"id"`
	Quantity int    `json:"quantity"`
}

func (h *HTTPHandler) UpdateProductQuantities(w http.ResponseWriter, r *http.Request) {
	var req UpdateQuantitiesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	quantities := make([]domain.ProductQuantity, len(req))
	for i, q := range req {
		quantities[i] = domain.ProductQuantity{ID: q.ID, Quantity: q.Quantity}
	}

	updated, err := h.products.UpdateQuantities(r.Context(), quantities)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	out := make([]ProductResponse, len(updated))
	for i := range updated {
		out[i] = mapProduct(&updated[i])
	}
	writeJSON(w, http.StatusOK, out)
}

type CreateCustomerRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

func (h *HTTPHandler) CreateCustomer(w http.ResponseWriter, r *http.Request) {
	var req CreateCustomerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	customer, err := h.customers.Create(r.Context(), req.Name, req.Email)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, CustomerResponse{
		ID:    customer.ID,
		Name:  customer.Name,
		Email: customer.Email,
	})
}

func (h *HTTPHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func mapOrder(order *domain.Order) OrderResponse {
	items := make([]LineItemResponse, len(order.LineItems))
	for i, li := range order.LineItems {
		items[i] = LineItemResponse{
			ProductID: li.ProductID,
			Price:     li.Price.String(),
			Quantity:  li.Quantity,
		}
	}

	resp := OrderResponse{
		ID:        order.ID,
		LineItems: items,
		Total:     order.Total().String(),
		CreatedAt: order.CreatedAt.Format(time.RFC3339),
		UpdatedAt: order.UpdatedAt.Format(time.RFC3339),
	}
	if order.Customer != nil {
		resp.Customer = CustomerResponse{
			ID:    order.Customer.ID,
			Name:  order.Customer.Name,
			Email: order.Customer.Email,
		}
	}
	return resp
}

func mapProduct(p *domain.Product) ProductResponse {
	return ProductResponse{
		ID:       p.ID,
		Name:     p.Name,
		Price:    p.Price.String(),
		Quantity: p.Quantity,
	}
}

// writeServiceError maps the error taxonomy onto HTTP statuses: not-found
// errors to 404, validation failures to 400, conflicts to 409, everything
// else to 500 with the detail kept out of the response.
func writeServiceError(w http.ResponseWriter, err error) {
	var (
		validationErr   *domain.ValidationError
		invalidProducts *domain.InvalidProductsError
		outOfStock      *domain.InsufficientStockError
	)

	switch {
	case errors.Is(err, domain.ErrCustomerNotFound), errors.Is(err, domain.ErrOrderNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.As(err, &validationErr), errors.As(err, &invalidProducts), errors.As(err, &outOfStock):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrDuplicateRequest),
		errors.Is(err, domain.ErrEmailTaken),
		errors.Is(err, domain.ErrProductNameTaken):
		writeError(w, http.StatusConflict, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorResponse{Error: msg})
}
