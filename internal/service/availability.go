package service

import (
	"context"
	"time"

	"divecenter-backend/internal/domain"
	"divecenter-backend/internal/logger"
	"divecenter-backend/internal/repository"
)

// DateRangesOverlap reports whether [a1, a2] and [b1, b2] conflict under
// inclusive-bounds semantics: a return on day N and a checkout on day N count
// as a conflict, matching same-day rental turnaround rules.
func DateRangesOverlap(a1, a2, b1, b2 time.Time) bool {
	return !a1.After(b2) && !b1.After(a2)
}

type availabilityService struct {
	store repository.Store
}

func NewAvailabilityService(store repository.Store) AvailabilityService {
	return &availabilityService{store: store}
}

// CheckAvailability scans every non-terminal assignment for the item,
// regardless of booking or basket linkage, and applies the overlap predicate.
// The create path runs the same helper inside its transaction, after locking
// the item row, so a pre-check and an actual create can never disagree.
func (s *availabilityService) CheckAvailability(ctx context.Context, centerID, itemID int32, from, to time.Time) (bool, []domain.AssignmentConflict, error) {
	if to.Before(from) {
		return false, nil, domain.NewValidationError("to", "must not be before from")
	}
	if _, err := s.store.Equipment().GetItemByID(ctx, centerID, itemID); err != nil {
		return false, nil, err
	}
	conflicts, err := findConflicts(ctx, s.store, centerID, itemID, from, to)
	if err != nil {
		return false, nil, err
	}
	return len(conflicts) == 0, conflicts, nil
}

func (s *availabilityService) BulkCheckAvailability(ctx context.Context, centerID int32, reqs []AvailabilityRequest) ([]AvailabilityResult, error) {
	results := make([]AvailabilityResult, len(reqs))
	for i, req := range reqs {
		available, conflicts, err := s.CheckAvailability(ctx, centerID, req.EquipmentItemID, req.From, req.To)
		results[i] = AvailabilityResult{
			EquipmentItemID: req.EquipmentItemID,
			Available:       available,
			Conflicts:       conflicts,
		}
		if err != nil {
			results[i].Error = err.Error()
			logger.DebugContext(ctx, "bulk availability element failed", "item_id", req.EquipmentItemID, "error", err)
		}
	}
	return results, nil
}

// findConflicts is the one shared conflict scan. Callers that mutate must
// hold the equipment item row lock before calling it.
func findConflicts(ctx context.Context, st repository.Store, centerID, itemID int32, from, to time.Time) ([]domain.AssignmentConflict, error) {
	candidates, err := st.Assignments().ListActiveConflicts(ctx, centerID, itemID)
	if err != nil {
		return nil, err
	}
	var conflicts []domain.AssignmentConflict
	for _, c := range candidates {
		if DateRangesOverlap(c.CheckoutDate, c.ReturnDate, from, to) {
			conflicts = append(conflicts, c)
		}
	}
	return conflicts, nil
}
