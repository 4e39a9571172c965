package service

import (
	"context"

	"divecenter-backend/internal/domain"
	"divecenter-backend/internal/logger"
	"divecenter-backend/internal/repository"
)

const refCacheEquipmentTypes = "equipment_types"

// ItemStatusAfterTransition derives the equipment item status implied by an
// assignment status change. The second return value is false when the
// transition leaves the item untouched: PENDING holds the reservation without
// physical handover, and LOST deliberately does not rewrite the item (the
// item is gone; flagging it is an inventory decision, not a rental one).
func ItemStatusAfterTransition(status domain.AssignmentStatus, damageReported bool) (domain.EquipmentItemStatus, bool) {
	switch status {
	case domain.AssignmentStatusCheckedOut:
		return domain.EquipmentItemStatusRented, true
	case domain.AssignmentStatusReturned:
		if damageReported {
			return domain.EquipmentItemStatusMaintenance, true
		}
		return domain.EquipmentItemStatusAvailable, true
	default:
		return "", false
	}
}

// syncItemStatus applies ItemStatusAfterTransition for CENTER-sourced
// assignments. Customer-owned gear never touches an equipment item. Must run
// inside the transaction that mutated the assignment.
func syncItemStatus(ctx context.Context, st repository.Store, a *domain.EquipmentAssignment) error {
	if a.Source != domain.EquipmentSourceCenter || a.EquipmentItemID == nil {
		return nil
	}
	newStatus, ok := ItemStatusAfterTransition(a.Status, a.DamageReported)
	if !ok {
		return nil
	}
	logger.DebugContext(ctx, "syncing equipment item status",
		"item_id", *a.EquipmentItemID, "assignment_id", a.ID, "item_status", newStatus)
	return st.Equipment().SetItemStatus(ctx, a.CenterID, *a.EquipmentItemID, newStatus)
}

type equipmentService struct {
	store repository.Store
	cache *RefCache
}

func NewEquipmentService(store repository.Store, cache *RefCache) EquipmentService {
	return &equipmentService{store: store, cache: cache}
}

func (s *equipmentService) CreateType(ctx context.Context, t *domain.EquipmentType) error {
	if t.Name == "" {
		return domain.NewValidationError("name", "is required")
	}
	if err := s.store.Equipment().CreateType(ctx, t); err != nil {
		return err
	}
	s.cache.Invalidate(t.CenterID, refCacheEquipmentTypes)
	return nil
}

func (s *equipmentService) ListTypes(ctx context.Context, centerID int32) ([]domain.EquipmentType, error) {
	v, err := s.cache.GetOrLoad(centerID, refCacheEquipmentTypes, func() (any, error) {
		return s.store.Equipment().ListTypes(ctx, centerID)
	})
	if err != nil {
		return nil, err
	}
	return v.([]domain.EquipmentType), nil
}

func (s *equipmentService) UpdateType(ctx context.Context, t *domain.EquipmentType) error {
	if err := s.store.Equipment().UpdateType(ctx, t); err != nil {
		return err
	}
	s.cache.Invalidate(t.CenterID, refCacheEquipmentTypes)
	return nil
}

func (s *equipmentService) CreateItem(ctx context.Context, item *domain.EquipmentItem) error {
	if item.SerialNumber == "" {
		return domain.NewValidationError("serial_number", "is required")
	}
	if _, err := s.store.Equipment().GetTypeByID(ctx, item.CenterID, item.TypeID); err != nil {
		return err
	}
	// Derived field: clients never choose the initial status.
	item.Status = domain.EquipmentItemStatusAvailable
	return s.store.Equipment().CreateItem(ctx, item)
}

func (s *equipmentService) GetItem(ctx context.Context, centerID, id int32) (*domain.EquipmentItem, error) {
	return s.store.Equipment().GetItemByID(ctx, centerID, id)
}

func (s *equipmentService) ListItems(ctx context.Context, centerID, typeID int32, status string, page, pageSize int32) ([]domain.EquipmentItem, int32, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 200 {
		pageSize = 50
	}
	return s.store.Equipment().ListItems(ctx, centerID, typeID, status, page, pageSize)
}

// UpdateItem updates descriptive fields only. Status stays derived.
func (s *equipmentService) UpdateItem(ctx context.Context, item *domain.EquipmentItem) error {
	return s.store.Equipment().UpdateItem(ctx, item)
}
