package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"divecenter-backend/internal/domain"
	"divecenter-backend/internal/service"
)

func TestBasketService_CreateBasket(t *testing.T) {
	ctx := context.Background()

	t.Run("creates basket with members", func(t *testing.T) {
		store := newMockStore()
		svc := service.NewBasketService(store)

		store.CustomerRepo.On("GetByID", ctx, int32(1), int32(3)).Return(&domain.Customer{ID: 3}, nil)
		store.BasketRepo.On("NextBasketNumber", ctx, int32(1)).Return(int32(14), nil).Once()
		store.BasketRepo.On("Create", ctx, mock.MatchedBy(func(b *domain.RentalBasket) bool {
			return b.BasketNumber == 14 && b.Status == domain.BasketStatusActive
		})).Run(func(args mock.Arguments) {
			args.Get(1).(*domain.RentalBasket).ID = 5
		}).Return(nil).Once()

		store.EquipmentRepo.On("GetItemForUpdate", ctx, int32(1), int32(7)).Return(&domain.EquipmentItem{ID: 7}, nil).Once()
		store.AssignmentRepo.On("ListActiveConflicts", ctx, int32(1), int32(7)).Return([]domain.AssignmentConflict{}, nil).Once()
		store.AssignmentRepo.On("Create", ctx, mock.MatchedBy(func(a *domain.EquipmentAssignment) bool {
			return a.BasketID != nil && *a.BasketID == 5 && a.CheckoutDate.Equal(date(2024, 3, 1)) && a.ReturnDate.Equal(date(2024, 3, 4))
		})).Return(nil).Twice()
		// second member is customer-owned, no lock or conflict scan
		store.BasketRepo.On("GetByID", ctx, int32(1), int32(5)).Return(&domain.RentalBasket{ID: 5, Status: domain.BasketStatusActive}, nil)

		basket, result, err := svc.CreateBasket(ctx, 1, service.CreateBasketInput{
			CustomerID:         3,
			CheckoutDate:       ptr(date(2024, 3, 1)),
			ExpectedReturnDate: ptr(date(2024, 3, 4)),
			Items: []service.CreateAssignmentInput{
				{Source: domain.EquipmentSourceCenter, EquipmentItemID: ptr(int32(7))},
				{Source: domain.EquipmentSourceCustomerOwn, CustomerEquipmentDesc: "own fins"},
			},
		})
		assert.NoError(t, err)
		assert.Equal(t, int32(5), basket.ID)
		assert.Len(t, result.Created, 2)
		assert.Empty(t, result.Failed)
		store.BasketRepo.AssertExpectations(t)
	})

	t.Run("all members failing aborts the basket", func(t *testing.T) {
		store := newMockStore()
		svc := service.NewBasketService(store)

		store.CustomerRepo.On("GetByID", ctx, int32(1), int32(3)).Return(&domain.Customer{ID: 3}, nil)
		store.BasketRepo.On("NextBasketNumber", ctx, int32(1)).Return(int32(14), nil).Once()
		store.BasketRepo.On("Create", ctx, mock.Anything).Run(func(args mock.Arguments) {
			args.Get(1).(*domain.RentalBasket).ID = 5
		}).Return(nil).Once()
		store.BasketRepo.On("GetByID", ctx, int32(1), int32(5)).Return(&domain.RentalBasket{ID: 5, Status: domain.BasketStatusActive}, nil)

		store.EquipmentRepo.On("GetItemForUpdate", ctx, int32(1), int32(7)).Return(nil, domain.ErrNotFound).Once()

		basket, result, err := svc.CreateBasket(ctx, 1, service.CreateBasketInput{
			CustomerID:         3,
			CheckoutDate:       ptr(date(2024, 3, 1)),
			ExpectedReturnDate: ptr(date(2024, 3, 4)),
			Items: []service.CreateAssignmentInput{
				{Source: domain.EquipmentSourceCenter, EquipmentItemID: ptr(int32(7))},
			},
		})
		assert.ErrorIs(t, err, service.ErrBulkAllFailed)
		assert.Nil(t, basket)
		assert.Len(t, result.Failed, 1)
	})

	t.Run("empty items rejected", func(t *testing.T) {
		store := newMockStore()
		svc := service.NewBasketService(store)

		_, _, err := svc.CreateBasket(ctx, 1, service.CreateBasketInput{CustomerID: 3})
		var verr *domain.ValidationError
		assert.ErrorAs(t, err, &verr)
	})
}

func TestBasketService_ReturnBasket(t *testing.T) {
	ctx := context.Background()
	basketID := int32(5)

	t.Run("returning every member completes the basket", func(t *testing.T) {
		store := newMockStore()
		svc := service.NewBasketService(store)

		basket := &domain.RentalBasket{ID: 5, CenterID: 1, Status: domain.BasketStatusActive}
		m1 := domain.EquipmentAssignment{
			ID: 101, CenterID: 1, BasketID: &basketID,
			Source: domain.EquipmentSourceCenter, EquipmentItemID: ptr(int32(7)),
			Status: domain.AssignmentStatusCheckedOut,
		}
		m2 := domain.EquipmentAssignment{
			ID: 102, CenterID: 1, BasketID: &basketID,
			Source: domain.EquipmentSourceCustomerOwn,
			Status: domain.AssignmentStatusCheckedOut,
		}

		store.BasketRepo.On("GetByIDForUpdate", ctx, int32(1), int32(5)).Return(basket, nil)
		store.AssignmentRepo.On("ListByBasket", ctx, int32(1), int32(5)).Return([]domain.EquipmentAssignment{m1, m2}, nil).Once()

		store.AssignmentRepo.On("GetByID", ctx, int32(1), int32(101)).Return(&m1, nil).Twice()
		store.AssignmentRepo.On("GetByID", ctx, int32(1), int32(102)).Return(&m2, nil).Twice()
		store.AssignmentRepo.On("Update", ctx, mock.Anything).Return(nil).Twice()
		store.EquipmentRepo.On("SetItemStatus", ctx, int32(1), int32(7), domain.EquipmentItemStatusAvailable).Return(nil).Once()

		// completion re-check sees both members returned
		store.BasketRepo.On("GetByID", ctx, int32(1), int32(5)).Return(basket, nil)
		store.AssignmentRepo.On("ListByBasket", ctx, int32(1), int32(5)).Return([]domain.EquipmentAssignment{
			{ID: 101, Status: domain.AssignmentStatusReturned},
			{ID: 102, Status: domain.AssignmentStatusReturned},
		}, nil).Once()
		store.BasketRepo.On("Update", ctx, mock.MatchedBy(func(b *domain.RentalBasket) bool {
			return b.Status == domain.BasketStatusReturned && b.ActualReturnDate != nil
		})).Return(nil).Once()

		returned, err := svc.ReturnBasket(ctx, 1, 5, nil, nil)
		assert.NoError(t, err)
		assert.Equal(t, domain.BasketStatusReturned, returned.Status)
		store.BasketRepo.AssertExpectations(t)
	})

	t.Run("partial return leaves basket active", func(t *testing.T) {
		store := newMockStore()
		svc := service.NewBasketService(store)

		basket := &domain.RentalBasket{ID: 5, CenterID: 1, Status: domain.BasketStatusActive}
		m1 := domain.EquipmentAssignment{
			ID: 101, CenterID: 1, BasketID: &basketID,
			Source: domain.EquipmentSourceCustomerOwn,
			Status: domain.AssignmentStatusCheckedOut,
		}
		m2 := domain.EquipmentAssignment{
			ID: 102, CenterID: 1, BasketID: &basketID,
			Source: domain.EquipmentSourceCustomerOwn,
			Status: domain.AssignmentStatusCheckedOut,
		}

		store.BasketRepo.On("GetByIDForUpdate", ctx, int32(1), int32(5)).Return(basket, nil)
		store.AssignmentRepo.On("ListByBasket", ctx, int32(1), int32(5)).Return([]domain.EquipmentAssignment{m1, m2}, nil).Once()

		store.AssignmentRepo.On("GetByID", ctx, int32(1), int32(101)).Return(&m1, nil).Twice()
		store.AssignmentRepo.On("Update", ctx, mock.Anything).Return(nil).Once()

		// re-check still sees member 102 checked out, no flip
		store.BasketRepo.On("GetByID", ctx, int32(1), int32(5)).Return(basket, nil)
		store.AssignmentRepo.On("ListByBasket", ctx, int32(1), int32(5)).Return([]domain.EquipmentAssignment{
			{ID: 101, Status: domain.AssignmentStatusReturned},
			{ID: 102, Status: domain.AssignmentStatusCheckedOut},
		}, nil).Once()

		returned, err := svc.ReturnBasket(ctx, 1, 5, []int32{101}, nil)
		assert.NoError(t, err)
		assert.Equal(t, domain.BasketStatusActive, returned.Status)
		store.BasketRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("lost member blocks completion", func(t *testing.T) {
		store := newMockStore()
		svc := service.NewBasketService(store)

		basket := &domain.RentalBasket{ID: 5, CenterID: 1, Status: domain.BasketStatusActive}
		m1 := domain.EquipmentAssignment{
			ID: 101, CenterID: 1, BasketID: &basketID,
			Source: domain.EquipmentSourceCustomerOwn,
			Status: domain.AssignmentStatusCheckedOut,
		}
		lost := domain.EquipmentAssignment{
			ID: 102, CenterID: 1, BasketID: &basketID,
			Source: domain.EquipmentSourceCustomerOwn,
			Status: domain.AssignmentStatusLost,
		}

		store.BasketRepo.On("GetByIDForUpdate", ctx, int32(1), int32(5)).Return(basket, nil)
		store.AssignmentRepo.On("ListByBasket", ctx, int32(1), int32(5)).Return([]domain.EquipmentAssignment{m1, lost}, nil).Once()

		store.AssignmentRepo.On("GetByID", ctx, int32(1), int32(101)).Return(&m1, nil).Twice()
		store.AssignmentRepo.On("Update", ctx, mock.Anything).Return(nil).Once()

		store.BasketRepo.On("GetByID", ctx, int32(1), int32(5)).Return(basket, nil)
		store.AssignmentRepo.On("ListByBasket", ctx, int32(1), int32(5)).Return([]domain.EquipmentAssignment{
			{ID: 101, Status: domain.AssignmentStatusReturned},
			{ID: 102, Status: domain.AssignmentStatusLost},
		}, nil).Once()

		returned, err := svc.ReturnBasket(ctx, 1, 5, nil, nil)
		assert.NoError(t, err)
		assert.Equal(t, domain.BasketStatusActive, returned.Status)
		store.BasketRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("already returned basket rejected", func(t *testing.T) {
		store := newMockStore()
		svc := service.NewBasketService(store)

		store.BasketRepo.On("GetByIDForUpdate", ctx, int32(1), int32(5)).Return(&domain.RentalBasket{
			ID: 5, CenterID: 1, Status: domain.BasketStatusReturned,
		}, nil).Once()

		_, err := svc.ReturnBasket(ctx, 1, 5, nil, nil)
		var stateErr *domain.StateError
		assert.ErrorAs(t, err, &stateErr)
	})
}
