package service

import (
	"context"

	"divecenter-backend/internal/domain"
	"divecenter-backend/internal/repository"
)

type bookingService struct {
	store repository.Store
}

func NewBookingService(store repository.Store) BookingService {
	return &bookingService{store: store}
}

func (s *bookingService) CreateBooking(ctx context.Context, b *domain.Booking) error {
	if b.EndDate.Before(b.StartDate) {
		return domain.NewValidationError("end_date", "must not be before start_date")
	}
	if _, err := s.store.Customers().GetByID(ctx, b.CenterID, b.CustomerID); err != nil {
		return err
	}
	if b.Status == "" {
		b.Status = domain.BookingStatusConfirmed
	}
	return s.store.Bookings().Create(ctx, b)
}

func (s *bookingService) GetBooking(ctx context.Context, centerID, id int32) (*domain.Booking, error) {
	return s.store.Bookings().GetByID(ctx, centerID, id)
}

func (s *bookingService) ListBookingsByCustomer(ctx context.Context, centerID, customerID int32) ([]domain.Booking, error) {
	return s.store.Bookings().ListByCustomer(ctx, centerID, customerID)
}

func (s *bookingService) UpdateBooking(ctx context.Context, b *domain.Booking) error {
	if b.EndDate.Before(b.StartDate) {
		return domain.NewValidationError("end_date", "must not be before start_date")
	}
	return s.store.Bookings().Update(ctx, b)
}
