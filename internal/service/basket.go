package service

import (
	"context"
	"errors"

	"divecenter-backend/internal/domain"
	"divecenter-backend/internal/logger"
	"divecenter-backend/internal/repository"
)

type basketService struct {
	store repository.Store
}

func NewBasketService(store repository.Store) BasketService {
	return &basketService{store: store}
}

// CreateBasket opens a checkout cycle: the basket row plus its member
// assignments are created in one transaction with bulk semantics, so a
// basket with zero successfully created members is never persisted.
func (s *basketService) CreateBasket(ctx context.Context, centerID int32, input CreateBasketInput) (*domain.RentalBasket, *BulkCreateResult, error) {
	if len(input.Items) == 0 {
		return nil, nil, domain.NewValidationError("items", "must not be empty")
	}

	checkout := today()
	if input.CheckoutDate != nil {
		checkout = *input.CheckoutDate
	}
	expectedReturn := checkout.AddDate(0, 0, 1)
	if input.ExpectedReturnDate != nil {
		expectedReturn = *input.ExpectedReturnDate
	}
	if expectedReturn.Before(checkout) {
		return nil, nil, domain.NewValidationError("expected_return_date", "must not be before checkout_date")
	}

	var basket *domain.RentalBasket
	result := &BulkCreateResult{}
	err := s.store.InTx(ctx, func(st repository.Store) error {
		if _, err := st.Customers().GetByID(ctx, centerID, input.CustomerID); err != nil {
			return err
		}
		if input.BookingID != nil {
			if _, err := st.Bookings().GetByID(ctx, centerID, *input.BookingID); err != nil {
				return err
			}
		}

		number, err := st.Baskets().NextBasketNumber(ctx, centerID)
		if err != nil {
			return err
		}
		b := &domain.RentalBasket{
			CenterID:           centerID,
			BasketNumber:       number,
			CustomerID:         input.CustomerID,
			BookingID:          input.BookingID,
			Status:             domain.BasketStatusActive,
			CheckoutDate:       checkout,
			ExpectedReturnDate: expectedReturn,
		}
		if err := st.Baskets().Create(ctx, b); err != nil {
			return err
		}

		for i, item := range input.Items {
			item.CustomerID = input.CustomerID
			item.BasketID = &b.ID
			if item.CheckoutDate == nil {
				item.CheckoutDate = &checkout
			}
			if item.ReturnDate == nil {
				item.ReturnDate = &expectedReturn
			}
			a, err := createAssignmentTx(ctx, st, centerID, item)
			if err != nil {
				if !isRecoverable(err) {
					return err
				}
				result.Failed = append(result.Failed, BulkFailure{Index: i, Reason: err.Error()})
				continue
			}
			result.Created = append(result.Created, *a)
		}
		if len(result.Created) == 0 {
			return ErrBulkAllFailed
		}
		basket = b
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrBulkAllFailed) {
			return nil, result, err
		}
		return nil, nil, err
	}
	logger.InfoContext(ctx, "basket created", "basket_id", basket.ID, "basket_number", basket.BasketNumber,
		"center_id", centerID, "members", len(result.Created), "failed", len(result.Failed))
	return basket, result, nil
}

func (s *basketService) GetBasket(ctx context.Context, centerID, id int32) (*domain.RentalBasket, []domain.EquipmentAssignment, error) {
	basket, err := s.store.Baskets().GetByID(ctx, centerID, id)
	if err != nil {
		return nil, nil, err
	}
	members, err := s.store.Assignments().ListByBasket(ctx, centerID, id)
	if err != nil {
		return nil, nil, err
	}
	return basket, members, nil
}

func (s *basketService) ListBaskets(ctx context.Context, centerID int32, status string, page, pageSize int32) ([]domain.RentalBasket, int32, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 200 {
		pageSize = 50
	}
	return s.store.Baskets().List(ctx, centerID, status, page, pageSize)
}

// ReturnBasket processes the listed members (or all of them when itemIDs is
// empty) and then runs the completion re-check. The basket row is locked up
// front so concurrent returns against the same basket serialize and the
// re-check never sees a stale membership snapshot.
func (s *basketService) ReturnBasket(ctx context.Context, centerID, basketID int32, itemIDs []int32, damageByID map[int32]domain.DamageInput) (*domain.RentalBasket, error) {
	var returned *domain.RentalBasket
	err := s.store.InTx(ctx, func(st repository.Store) error {
		basket, err := st.Baskets().GetByIDForUpdate(ctx, centerID, basketID)
		if err != nil {
			return err
		}
		if basket.Status == domain.BasketStatusReturned {
			return domain.NewStateError("basket %d is already returned", basket.ID)
		}

		members, err := st.Assignments().ListByBasket(ctx, centerID, basketID)
		if err != nil {
			return err
		}

		selected := make(map[int32]bool, len(itemIDs))
		for _, id := range itemIDs {
			selected[id] = true
		}

		for _, m := range members {
			if len(itemIDs) > 0 && !selected[m.ID] {
				continue
			}
			if m.Terminal() {
				// Basket-level return is idempotent over already-terminal
				// members; only live ones transition.
				continue
			}
			var damage *domain.DamageInput
			if d, ok := damageByID[m.ID]; ok {
				damage = &d
			}
			if _, err := returnAssignmentTx(ctx, st, centerID, m.ID, damage); err != nil {
				return err
			}
		}

		if err := recheckBasketCompletion(ctx, st, centerID, basketID); err != nil {
			return err
		}
		returned, err = st.Baskets().GetByID(ctx, centerID, basketID)
		return err
	})
	if err != nil {
		return nil, err
	}
	logger.InfoContext(ctx, "basket return processed", "basket_id", basketID, "center_id", centerID, "status", returned.Status)
	return returned, nil
}

// recheckBasketCompletion flips an ACTIVE basket to RETURNED iff no member
// assignment has a status outside {RETURNED}. A LOST member therefore blocks
// the flip permanently; that mirrors the business rule as specified and an
// administrative override is the escape hatch, not this function. Every
// return path (single, bulk, basket-level) converges here, after the
// per-record item status sync has run.
func recheckBasketCompletion(ctx context.Context, st repository.Store, centerID, basketID int32) error {
	basket, err := st.Baskets().GetByID(ctx, centerID, basketID)
	if err != nil {
		return err
	}
	if basket.Status == domain.BasketStatusReturned {
		return nil
	}

	members, err := st.Assignments().ListByBasket(ctx, centerID, basketID)
	if err != nil {
		return err
	}
	for _, m := range members {
		if m.Status != domain.AssignmentStatusReturned {
			return nil
		}
	}

	now := today()
	basket.Status = domain.BasketStatusReturned
	basket.ActualReturnDate = &now
	if err := st.Baskets().Update(ctx, basket); err != nil {
		return err
	}
	logger.InfoContext(ctx, "basket completed", "basket_id", basketID, "center_id", centerID)
	return nil
}
