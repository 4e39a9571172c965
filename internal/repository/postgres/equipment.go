package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"divecenter-backend/internal/domain"
	"divecenter-backend/internal/repository"
)

const itemColumns = `id, center_id, type_id, serial_number, size, brand, status, created_on, updated_on`

type equipmentRepository struct {
	db DBTX
}

func NewEquipmentRepository(db DBTX) repository.EquipmentRepository {
	return &equipmentRepository{db: db}
}

func (r *equipmentRepository) CreateType(ctx context.Context, t *domain.EquipmentType) error {
	query := `INSERT INTO equipment_types (center_id, name, category, daily_price_cents, replacement_cents, created_on)
	          VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`
	t.CreatedOn = time.Now()
	return r.db.QueryRowContext(ctx, query, t.CenterID, t.Name, t.Category, t.DailyPriceCents, t.ReplacementCents, t.CreatedOn).Scan(&t.ID)
}

func (r *equipmentRepository) GetTypeByID(ctx context.Context, centerID, id int32) (*domain.EquipmentType, error) {
	query := `SELECT id, center_id, name, category, daily_price_cents, replacement_cents, created_on
	          FROM equipment_types WHERE id = $1 AND center_id = $2`
	t := &domain.EquipmentType{}
	err := r.db.QueryRowContext(ctx, query, id, centerID).Scan(&t.ID, &t.CenterID, &t.Name, &t.Category, &t.DailyPriceCents, &t.ReplacementCents, &t.CreatedOn)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return t, nil
}

func (r *equipmentRepository) ListTypes(ctx context.Context, centerID int32) ([]domain.EquipmentType, error) {
	query := `SELECT id, center_id, name, category, daily_price_cents, replacement_cents, created_on
	          FROM equipment_types WHERE center_id = $1 ORDER BY category, name`
	rows, err := r.db.QueryContext(ctx, query, centerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var types []domain.EquipmentType
	for rows.Next() {
		var t domain.EquipmentType
		if err := rows.Scan(&t.ID, &t.CenterID, &t.Name, &t.Category, &t.DailyPriceCents, &t.ReplacementCents, &t.CreatedOn); err != nil {
			return nil, err
		}
		types = append(types, t)
	}
	return types, rows.Err()
}

func (r *equipmentRepository) UpdateType(ctx context.Context, t *domain.EquipmentType) error {
	query := `UPDATE equipment_types SET name=$1, category=$2, daily_price_cents=$3, replacement_cents=$4 WHERE id=$5 AND center_id=$6`
	res, err := r.db.ExecContext(ctx, query, t.Name, t.Category, t.DailyPriceCents, t.ReplacementCents, t.ID, t.CenterID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *equipmentRepository) CreateItem(ctx context.Context, item *domain.EquipmentItem) error {
	query := `INSERT INTO equipment_items (center_id, type_id, serial_number, size, brand, status, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id`
	now := time.Now()
	item.CreatedOn = now
	item.UpdatedOn = now
	if item.Status == "" {
		item.Status = domain.EquipmentItemStatusAvailable
	}
	return r.db.QueryRowContext(ctx, query, item.CenterID, item.TypeID, item.SerialNumber, item.Size, item.Brand, item.Status, now, now).Scan(&item.ID)
}

func (r *equipmentRepository) GetItemByID(ctx context.Context, centerID, id int32) (*domain.EquipmentItem, error) {
	query := `SELECT ` + itemColumns + ` FROM equipment_items WHERE id = $1 AND center_id = $2`
	return r.getItem(ctx, query, id, centerID)
}

func (r *equipmentRepository) GetItemForUpdate(ctx context.Context, centerID, id int32) (*domain.EquipmentItem, error) {
	query := `SELECT ` + itemColumns + ` FROM equipment_items WHERE id = $1 AND center_id = $2 FOR UPDATE`
	return r.getItem(ctx, query, id, centerID)
}

func (r *equipmentRepository) getItem(ctx context.Context, query string, args ...any) (*domain.EquipmentItem, error) {
	item := &domain.EquipmentItem{}
	err := r.db.QueryRowContext(ctx, query, args...).Scan(
		&item.ID, &item.CenterID, &item.TypeID, &item.SerialNumber, &item.Size, &item.Brand, &item.Status, &item.CreatedOn, &item.UpdatedOn)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return item, nil
}

func (r *equipmentRepository) ListItems(ctx context.Context, centerID int32, typeID int32, status string, page, pageSize int32) ([]domain.EquipmentItem, int32, error) {
	offset := (page - 1) * pageSize
	query := `SELECT ` + itemColumns + ` FROM equipment_items WHERE center_id = $1`
	args := []any{centerID}
	argIdx := 2
	if typeID > 0 {
		query += fmt.Sprintf(" AND type_id = $%d", argIdx)
		args = append(args, typeID)
		argIdx++
	}
	if status != "" {
		query += fmt.Sprintf(" AND status = $%d", argIdx)
		args = append(args, status)
		argIdx++
	}

	var count int32
	countQuery := "SELECT count(*) FROM (" + query + ") AS sub"
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&count); err != nil {
		return nil, 0, err
	}

	query += fmt.Sprintf(" ORDER BY serial_number LIMIT $%d OFFSET $%d", argIdx, argIdx+1)
	args = append(args, pageSize, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var items []domain.EquipmentItem
	for rows.Next() {
		var item domain.EquipmentItem
		if err := rows.Scan(&item.ID, &item.CenterID, &item.TypeID, &item.SerialNumber, &item.Size, &item.Brand, &item.Status, &item.CreatedOn, &item.UpdatedOn); err != nil {
			return nil, 0, err
		}
		items = append(items, item)
	}
	return items, count, rows.Err()
}

func (r *equipmentRepository) UpdateItem(ctx context.Context, item *domain.EquipmentItem) error {
	query := `UPDATE equipment_items SET type_id=$1, serial_number=$2, size=$3, brand=$4, updated_on=$5 WHERE id=$6 AND center_id=$7`
	item.UpdatedOn = time.Now()
	res, err := r.db.ExecContext(ctx, query, item.TypeID, item.SerialNumber, item.Size, item.Brand, item.UpdatedOn, item.ID, item.CenterID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *equipmentRepository) SetItemStatus(ctx context.Context, centerID, id int32, status domain.EquipmentItemStatus) error {
	query := `UPDATE equipment_items SET status=$1, updated_on=$2 WHERE id=$3 AND center_id=$4`
	res, err := r.db.ExecContext(ctx, query, status, time.Now(), id, centerID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.ErrNotFound
	}
	return nil
}
