package lifecycle

import (
	"errors"
	"fmt"
	"time"

	"delivery-marketplace/models"
	"delivery-marketplace/statemachine"

	"gorm.io/gorm"
)

// ClaimTask lets a driver accept a PENDING task. The claim is a conditional
// update: it only lands if the row is still PENDING at write time, so of two
// concurrent accepts exactly one wins and the other gets ErrAlreadyClaimed.
func ClaimTask(db *gorm.DB, driverID uint, taskID uint) (*models.DriverTask, error) {
	var task models.DriverTask
	err := db.Transaction(func(tx *gorm.DB) error {
		now := time.Now()
		res := tx.Model(&models.DriverTask{}).
			Where("id = ? AND status = ?", taskID, models.TaskPending).
			Updates(map[string]interface{}{
				"status":      models.TaskAccepted,
				"driver_id":   driverID,
				"accepted_at": &now,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return classifyFailedClaim(tx, taskID, models.TaskAccepted)
		}

		if err := tx.First(&task, taskID).Error; err != nil {
			return err
		}
		// Mirror the assignment onto the order; its status stays
		// READY_FOR_PICKUP until pickup.
		return tx.Model(&models.Order{}).
			Where("id = ?", task.OrderID).
			Update("driver_id", driverID).Error
	})
	if err != nil {
		return nil, err
	}
	return &task, nil
}

// RejectTask lets a driver decline a PENDING task. The order stays
// READY_FOR_PICKUP; the restaurant or an admin re-offers manually.
func RejectTask(db *gorm.DB, driverID uint, taskID uint) (*models.DriverTask, error) {
	var task models.DriverTask
	err := db.Transaction(func(tx *gorm.DB) error {
		now := time.Now()
		res := tx.Model(&models.DriverTask{}).
			Where("id = ? AND status = ?", taskID, models.TaskPending).
			Updates(map[string]interface{}{
				"status":       models.TaskRejected,
				"completed_at": &now,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return classifyFailedClaim(tx, taskID, models.TaskRejected)
		}
		return tx.First(&task, taskID).Error
	})
	if err != nil {
		return nil, err
	}
	return &task, nil
}

// classifyFailedClaim decides why a conditional PENDING update missed:
// the task is gone, someone else holds it, or it sits in a terminal state.
func classifyFailedClaim(tx *gorm.DB, taskID uint, to models.TaskStatus) error {
	var task models.DriverTask
	if err := tx.First(&task, taskID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("task %d: %w", taskID, ErrNotFound)
		}
		return err
	}
	if task.Status == models.TaskAccepted || task.Status == models.TaskPickedUp {
		return fmt.Errorf("task %d: %w", taskID, ErrAlreadyClaimed)
	}
	return statemachine.CanTransitionTask(task.Status, to, models.RoleDriver)
}

// AdvanceTask moves an accepted task forward (PICKED_UP, DELIVERED) or lets
// the assigned driver back out (CANCELLED). Progress is mirrored onto the
// parent order inside the same transaction: pickup puts the order ON_THE_WAY,
// delivery completes it. Both writes land or neither does.
func AdvanceTask(db *gorm.DB, driverID uint, taskID uint, to models.TaskStatus) (*models.DriverTask, error) {
	var task models.DriverTask
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&task, taskID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("task %d: %w", taskID, ErrNotFound)
			}
			return err
		}
		if task.DriverID == nil || *task.DriverID != driverID {
			return fmt.Errorf("%w: you are not the assigned driver for this task", ErrUnauthorizedActor)
		}
		if err := statemachine.CanTransitionTask(task.Status, to, models.RoleDriver); err != nil {
			return err
		}

		now := time.Now()
		updates := map[string]interface{}{"status": to}
		switch to {
		case models.TaskPickedUp:
			updates["picked_up_at"] = &now
		case models.TaskDelivered, models.TaskCancelled:
			updates["completed_at"] = &now
		}
		res := tx.Model(&models.DriverTask{}).
			Where("id = ? AND status = ?", task.ID, task.Status).
			Updates(updates)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("%w: task %d changed state concurrently", statemachine.ErrInvalidTransition, task.ID)
		}

		switch to {
		case models.TaskPickedUp:
			if _, err := advanceOrderTx(tx, models.SystemActor(), task.OrderID, models.StatusOnTheWay, "Driver picked up the order"); err != nil {
				return err
			}
		case models.TaskDelivered:
			if _, err := advanceOrderTx(tx, models.SystemActor(), task.OrderID, models.StatusDelivered, "Order delivered to customer"); err != nil {
				return err
			}
		case models.TaskCancelled:
			// Driver backed out before pickup; free the order for re-offer.
			if err := tx.Model(&models.Order{}).
				Where("id = ?", task.OrderID).
				Update("driver_id", nil).Error; err != nil {
				return err
			}
		}
		return tx.First(&task, task.ID).Error
	})
	if err != nil {
		return nil, err
	}
	return &task, nil
}
