package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/rl1809/ecommerce-orders/internal/core/domain"
	"github.com/rl1809/ecommerce-orders/internal/port"
)

type CustomerService struct {
	customers port.CustomerRepository
}

func NewCustomerService(customers port.CustomerRepository) *CustomerService {
	return &CustomerService{customers: customers}
}

func (s *CustomerService) Create(ctx context.Context, name, email string) (*domain.Customer, error) {
	if name == "" || email == "" {
		return nil, &domain.ValidationError{Msg: "customer name and email are required"}
	}
	if !strings.Contains(email, "@") {
		return nil, &domain.ValidationError{Msg: "email address is malformed"}
	}

	existing, err := s.customers.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("customer lookup failed: %w", err)
	}
	if existing != nil {
		return nil, domain.ErrEmailTaken
	}

	customer, err := s.customers.Create(ctx, name, email)
	if err != nil {
		return nil, fmt.Errorf("customer creation failed: %w", err)
	}

	return customer, nil
}
