package service

import (
	"context"
	"errors"
	"time"

	"divecenter-backend/internal/domain"
	"divecenter-backend/internal/logger"
	"divecenter-backend/internal/repository"
)

// ErrBulkAllFailed signals that no element of a bulk operation succeeded. The
// enclosing transaction rolls back so nothing partial is ever persisted.
var ErrBulkAllFailed = errors.New("all elements of the bulk operation failed")

type assignmentService struct {
	store repository.Store
	email EmailService
}

func NewAssignmentService(store repository.Store, email EmailService) AssignmentService {
	return &assignmentService{store: store, email: email}
}

// today returns the current date at day granularity, UTC. All rental windows
// are day-granular.
func today() time.Time {
	y, m, d := time.Now().UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func (s *assignmentService) CreateAssignment(ctx context.Context, centerID int32, input CreateAssignmentInput) (*domain.EquipmentAssignment, error) {
	var created *domain.EquipmentAssignment
	err := s.store.InTx(ctx, func(st repository.Store) error {
		a, err := createAssignmentTx(ctx, st, centerID, input)
		if err != nil {
			return err
		}
		created = a
		return nil
	})
	if err != nil {
		return nil, err
	}
	logger.InfoContext(ctx, "assignment created", "assignment_id", created.ID, "center_id", centerID, "status", created.Status)
	return created, nil
}

// createAssignmentTx validates and inserts one assignment. Callers must run
// it inside a transaction: for CENTER-sourced gear it takes the equipment
// item row lock before the conflict scan, which is what closes the
// check-then-insert race between concurrent reservations of the same item.
func createAssignmentTx(ctx context.Context, st repository.Store, centerID int32, input CreateAssignmentInput) (*domain.EquipmentAssignment, error) {
	if input.Damage != nil {
		return nil, domain.NewValidationError("damage", "not accepted at creation")
	}

	status := input.Status
	if status == "" {
		status = domain.AssignmentStatusPending
	}
	switch status {
	case domain.AssignmentStatusPending, domain.AssignmentStatusCheckedOut, domain.AssignmentStatusReturned:
	default:
		return nil, domain.NewValidationError("status", "must be PENDING, CHECKED_OUT or RETURNED at creation")
	}

	if input.BookingID == nil && input.BasketID == nil {
		return nil, domain.NewValidationError("booking_id", "either booking_id or basket_id is required")
	}

	if _, err := st.Customers().GetByID(ctx, centerID, input.CustomerID); err != nil {
		return nil, err
	}
	if input.BookingID != nil {
		if _, err := st.Bookings().GetByID(ctx, centerID, *input.BookingID); err != nil {
			return nil, err
		}
	}
	if input.BasketID != nil {
		basket, err := st.Baskets().GetByID(ctx, centerID, *input.BasketID)
		if err != nil {
			return nil, err
		}
		if basket.Status == domain.BasketStatusReturned {
			return nil, domain.NewStateError("basket %d is already returned", basket.ID)
		}
	}

	checkout := today()
	if input.CheckoutDate != nil {
		checkout = *input.CheckoutDate
	}
	returnDate := checkout.AddDate(0, 0, 1)
	if input.ReturnDate != nil {
		returnDate = *input.ReturnDate
	}
	if returnDate.Before(checkout) {
		return nil, domain.NewValidationError("return_date", "must not be before checkout_date")
	}

	switch input.Source {
	case domain.EquipmentSourceCenter:
		if input.EquipmentItemID == nil {
			return nil, domain.NewValidationError("equipment_item_id", "is required for CENTER source")
		}
		// Lock first, then scan. Holding the item row lock for the remainder
		// of the transaction serializes concurrent creates on this item.
		if _, err := st.Equipment().GetItemForUpdate(ctx, centerID, *input.EquipmentItemID); err != nil {
			return nil, err
		}
		conflicts, err := findConflicts(ctx, st, centerID, *input.EquipmentItemID, checkout, returnDate)
		if err != nil {
			return nil, err
		}
		if len(conflicts) > 0 {
			return nil, &domain.ConflictError{EquipmentItemID: *input.EquipmentItemID, Conflicts: conflicts}
		}
	case domain.EquipmentSourceCustomerOwn:
		// Customer-owned gear is untracked: no item reference, no
		// availability checking, regardless of dates.
		if input.EquipmentItemID != nil {
			return nil, domain.NewValidationError("equipment_item_id", "must be empty for CUSTOMER_OWN source")
		}
	default:
		return nil, domain.NewValidationError("source", "must be CENTER or CUSTOMER_OWN")
	}

	a := &domain.EquipmentAssignment{
		CenterID:              centerID,
		CustomerID:            input.CustomerID,
		BookingID:             input.BookingID,
		BasketID:              input.BasketID,
		Source:                input.Source,
		EquipmentItemID:       input.EquipmentItemID,
		CustomerEquipmentDesc: input.CustomerEquipmentDesc,
		CheckoutDate:          checkout,
		ReturnDate:            returnDate,
		Status:                status,
		PriceCents:            input.PriceCents,
	}
	if status == domain.AssignmentStatusReturned {
		now := today()
		a.ActualReturnDate = &now
	}

	if err := st.Assignments().Create(ctx, a); err != nil {
		return nil, err
	}
	if err := syncItemStatus(ctx, st, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *assignmentService) GetAssignment(ctx context.Context, centerID, id int32) (*domain.EquipmentAssignment, error) {
	return s.store.Assignments().GetByID(ctx, centerID, id)
}

// ListAssignmentsByBooking returns every assignment linked to the booking,
// terminal ones included, so staff see the full equipment history of a trip.
func (s *assignmentService) ListAssignmentsByBooking(ctx context.Context, centerID, bookingID int32) ([]domain.EquipmentAssignment, error) {
	if _, err := s.store.Bookings().GetByID(ctx, centerID, bookingID); err != nil {
		return nil, err
	}
	return s.store.Assignments().ListByBooking(ctx, centerID, bookingID)
}

// ListActiveAssignmentsByItem returns the item's open commitments (PENDING and
// CHECKED_OUT), its forward schedule from the staff point of view.
func (s *assignmentService) ListActiveAssignmentsByItem(ctx context.Context, centerID, itemID int32) ([]domain.EquipmentAssignment, error) {
	if _, err := s.store.Equipment().GetItemByID(ctx, centerID, itemID); err != nil {
		return nil, err
	}
	return s.store.Assignments().ListActiveByItem(ctx, centerID, itemID)
}

func (s *assignmentService) ReturnAssignment(ctx context.Context, centerID, id int32, damage *domain.DamageInput) (*domain.EquipmentAssignment, error) {
	var returned *domain.EquipmentAssignment
	err := s.store.InTx(ctx, func(st repository.Store) error {
		a, err := returnAssignmentTx(ctx, st, centerID, id, damage)
		if err != nil {
			return err
		}
		if a.BasketID != nil {
			if err := recheckBasketCompletion(ctx, st, centerID, *a.BasketID); err != nil {
				return err
			}
		}
		returned = a
		return nil
	})
	if err != nil {
		return nil, err
	}
	logger.InfoContext(ctx, "assignment returned", "assignment_id", id, "center_id", centerID, "damage_reported", returned.DamageReported)
	return returned, nil
}

// returnAssignmentTx transitions one assignment to RETURNED and syncs the
// item status. It does NOT re-check basket completion; callers do that so
// bulk returns can run the re-check once per distinct basket.
func returnAssignmentTx(ctx context.Context, st repository.Store, centerID, id int32, damage *domain.DamageInput) (*domain.EquipmentAssignment, error) {
	a, err := st.Assignments().GetByID(ctx, centerID, id)
	if err != nil {
		return nil, err
	}

	// Serialize on the basket (or the item) before deciding anything, then
	// re-read: a concurrent return of the same record must be seen.
	if a.BasketID != nil {
		if _, err := st.Baskets().GetByIDForUpdate(ctx, centerID, *a.BasketID); err != nil {
			return nil, err
		}
	} else if a.EquipmentItemID != nil {
		if _, err := st.Equipment().GetItemForUpdate(ctx, centerID, *a.EquipmentItemID); err != nil {
			return nil, err
		}
	}
	if a, err = st.Assignments().GetByID(ctx, centerID, id); err != nil {
		return nil, err
	}

	if a.Terminal() {
		return nil, domain.NewStateError("assignment %d is already %s", a.ID, a.Status)
	}

	if damage != nil {
		a.DamageReported = damage.Reported
		a.DamageDescription = damage.Description
		a.DamageCostCents = damage.CostCents
		a.ChargeCustomer = damage.ChargeCustomer
		a.DamageChargeCents = damage.ChargeAmountCents
	}

	now := today()
	a.Status = domain.AssignmentStatusReturned
	a.ActualReturnDate = &now

	if err := st.Assignments().Update(ctx, a); err != nil {
		return nil, err
	}
	if err := syncItemStatus(ctx, st, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *assignmentService) MarkAssignmentLost(ctx context.Context, centerID, id int32) (*domain.EquipmentAssignment, error) {
	var lost *domain.EquipmentAssignment
	err := s.store.InTx(ctx, func(st repository.Store) error {
		a, err := st.Assignments().GetByID(ctx, centerID, id)
		if err != nil {
			return err
		}
		if a.Status != domain.AssignmentStatusCheckedOut {
			return domain.NewStateError("assignment %d is %s, only CHECKED_OUT assignments can be marked lost", a.ID, a.Status)
		}
		a.Status = domain.AssignmentStatusLost
		if err := st.Assignments().Update(ctx, a); err != nil {
			return err
		}
		// Lost does not rewrite the item status; see ItemStatusAfterTransition.
		lost = a
		return nil
	})
	if err != nil {
		return nil, err
	}
	logger.WarnContext(ctx, "assignment marked lost", "assignment_id", id, "center_id", centerID)
	return lost, nil
}

// AttachDamageCharge is invoked by the invoicing side exactly once per
// assignment; repeated attempts are rejected so a customer is never billed
// twice for the same damage.
func (s *assignmentService) AttachDamageCharge(ctx context.Context, centerID, id int32, amountCents int32) (*domain.EquipmentAssignment, error) {
	var charged *domain.EquipmentAssignment
	err := s.store.InTx(ctx, func(st repository.Store) error {
		a, err := st.Assignments().GetByID(ctx, centerID, id)
		if err != nil {
			return err
		}
		if !a.DamageReported || !a.ChargeCustomer {
			return domain.NewStateError("assignment %d has no chargeable damage", a.ID)
		}
		if a.DamageCharged {
			return domain.NewStateError("assignment %d damage was already charged", a.ID)
		}
		if amountCents > 0 {
			a.DamageChargeCents = amountCents
		}
		a.DamageCharged = true
		if err := st.Assignments().Update(ctx, a); err != nil {
			return err
		}
		charged = a
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.notifyDamageCharge(ctx, charged)
	return charged, nil
}

// notifyDamageCharge emails the customer about the applied charge. The charge
// itself is already committed; a failed notification is logged, not rolled
// back.
func (s *assignmentService) notifyDamageCharge(ctx context.Context, a *domain.EquipmentAssignment) {
	if s.email == nil {
		return
	}
	customer, err := s.store.Customers().GetByID(ctx, a.CenterID, a.CustomerID)
	if err != nil || customer.Email == "" {
		logger.DebugContext(ctx, "skipping damage charge notice", "assignment_id", a.ID, "error", err)
		return
	}
	desc := a.CustomerEquipmentDesc
	if desc == "" && a.EquipmentItemID != nil {
		if item, err := s.store.Equipment().GetItemByID(ctx, a.CenterID, *a.EquipmentItemID); err == nil {
			desc = item.SerialNumber
		}
	}
	if desc == "" {
		desc = "rental equipment"
	}
	if err := s.email.SendDamageChargeNotice(ctx, customer.Email, customer.Name, desc, a.DamageChargeCents); err != nil {
		logger.ErrorContext(ctx, "failed to send damage charge notice", "assignment_id", a.ID, "error", err)
	}
}

func (s *assignmentService) BulkCreateAssignments(ctx context.Context, centerID int32, inputs []CreateAssignmentInput) (*BulkCreateResult, error) {
	if len(inputs) == 0 {
		return nil, domain.NewValidationError("assignments", "must not be empty")
	}

	result := &BulkCreateResult{}
	err := s.store.InTx(ctx, func(st repository.Store) error {
		for i, input := range inputs {
			a, err := createAssignmentTx(ctx, st, centerID, input)
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
		return nil
	})
	if err != nil && !errors.Is(err, ErrBulkAllFailed) {
		return nil, err
	}
	logger.InfoContext(ctx, "bulk create finished", "center_id", centerID,
		"created", len(result.Created), "failed", len(result.Failed))
	return result, err
}

func (s *assignmentService) BulkReturnAssignments(ctx context.Context, centerID int32, ids []int32, damageByID map[int32]domain.DamageInput) (*BulkReturnResult, error) {
	if len(ids) == 0 {
		return nil, domain.NewValidationError("ids", "must not be empty")
	}

	result := &BulkReturnResult{}
	err := s.store.InTx(ctx, func(st repository.Store) error {
		touchedBaskets := make(map[int32]bool)
		for i, id := range ids {
			var damage *domain.DamageInput
			if d, ok := damageByID[id]; ok {
				damage = &d
			}
			a, err := returnAssignmentTx(ctx, st, centerID, id, damage)
			if err != nil {
				if !isRecoverable(err) {
					return err
				}
				result.Failed = append(result.Failed, BulkFailure{Index: i, ID: id, Reason: err.Error()})
				continue
			}
			result.Returned = append(result.Returned, *a)
			if a.BasketID != nil {
				touchedBaskets[*a.BasketID] = true
			}
		}
		if len(result.Returned) == 0 {
			return ErrBulkAllFailed
		}
		// One completion re-check per distinct basket, after every member
		// return in the batch has been applied.
		for basketID := range touchedBaskets {
			if err := recheckBasketCompletion(ctx, st, centerID, basketID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil && !errors.Is(err, ErrBulkAllFailed) {
		return nil, err
	}
	logger.InfoContext(ctx, "bulk return finished", "center_id", centerID,
		"returned", len(result.Returned), "failed", len(result.Failed))
	return result, err
}

// isRecoverable distinguishes per-element business failures, which a bulk
// operation records and moves past, from storage failures that poison the
// enclosing transaction and must abort the whole batch.
func isRecoverable(err error) bool {
	var (
		validationErr *domain.ValidationError
		conflictErr   *domain.ConflictError
		stateErr      *domain.StateError
	)
	return errors.Is(err, domain.ErrNotFound) ||
		errors.As(err, &validationErr) ||
		errors.As(err, &conflictErr) ||
		errors.As(err, &stateErr)
}
