package jobs

import (
	"context"
	"fmt"
	"time"

	"divecenter-backend/internal/domain"
	"divecenter-backend/internal/logger"
)

// SendOverdueReminders emails every customer holding a CHECKED_OUT assignment
// whose expected return date has passed.
func (jr *JobRunner) SendOverdueReminders() {
	jr.runWithRecovery("SendOverdueReminders", func() {
		ctx := context.Background()

		overdue, err := jr.store.Assignments().ListOverdue(ctx, time.Now().UTC())
		if err != nil {
			logger.Error("Failed to list overdue assignments", "error", err)
			return
		}

		sent := 0
		for _, a := range overdue {
			customer, err := jr.store.Customers().GetByID(ctx, a.CenterID, a.CustomerID)
			if err != nil {
				logger.Error("Failed to load customer for overdue reminder",
					"assignment_id", a.ID, "customer_id", a.CustomerID, "error", err)
				continue
			}
			if customer.Email == "" {
				logger.Debug("Skipping overdue reminder, customer has no email",
					"assignment_id", a.ID, "customer_id", a.CustomerID)
				continue
			}

			desc := jr.equipmentDescription(ctx, &a)
			if err := jr.services.Email.SendOverdueRentalReminder(ctx, customer.Email, customer.Name, desc, a.ReturnDate); err != nil {
				logger.Error("Failed to send overdue reminder",
					"assignment_id", a.ID, "customer_id", a.CustomerID, "error", err)
				continue
			}
			sent++
		}

		logger.Info("Sent overdue rental reminders", "overdue", len(overdue), "sent", sent)
	})
}

func (jr *JobRunner) equipmentDescription(ctx context.Context, a *domain.EquipmentAssignment) string {
	if a.Source == domain.EquipmentSourceCustomerOwn {
		return a.CustomerEquipmentDesc
	}
	if a.EquipmentItemID == nil {
		return "rental equipment"
	}
	item, err := jr.store.Equipment().GetItemByID(ctx, a.CenterID, *a.EquipmentItemID)
	if err != nil {
		logger.Debug("Failed to load equipment item for reminder",
			"assignment_id", a.ID, "item_id", *a.EquipmentItemID, "error", err)
		return "rental equipment"
	}
	return fmt.Sprintf("%s (serial %s)", item.Brand, item.SerialNumber)
}
