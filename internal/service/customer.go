package service

import (
	"context"

	"divecenter-backend/internal/domain"
	"divecenter-backend/internal/repository"
)

type customerService struct {
	store repository.Store
}

func NewCustomerService(store repository.Store) CustomerService {
	return &customerService{store: store}
}

func (s *customerService) CreateCustomer(ctx context.Context, c *domain.Customer) error {
	if c.Name == "" {
		return domain.NewValidationError("name", "is required")
	}
	return s.store.Customers().Create(ctx, c)
}

func (s *customerService) GetCustomer(ctx context.Context, centerID, id int32) (*domain.Customer, error) {
	return s.store.Customers().GetByID(ctx, centerID, id)
}

func (s *customerService) ListCustomers(ctx context.Context, centerID int32, page, pageSize int32) ([]domain.Customer, int32, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 200 {
		pageSize = 50
	}
	return s.store.Customers().List(ctx, centerID, page, pageSize)
}

func (s *customerService) SearchCustomers(ctx context.Context, centerID int32, query string) ([]domain.Customer, error) {
	return s.store.Customers().Search(ctx, centerID, query)
}

func (s *customerService) UpdateCustomer(ctx context.Context, c *domain.Customer) error {
	if c.Name == "" {
		return domain.NewValidationError("name", "is required")
	}
	return s.store.Customers().Update(ctx, c)
}
