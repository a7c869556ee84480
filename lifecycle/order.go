// Package lifecycle performs guarded, transactional state transitions for
// orders and their delivery tasks. Every mutation re-checks the current
// status inside the transaction that writes the new one, so concurrent
// requests cannot both act on the same stale state.
package lifecycle

import (
	"errors"
	"fmt"
	"time"

	"delivery-marketplace/models"
	"delivery-marketplace/statemachine"

	"gorm.io/gorm"
)

var activeTaskStatuses = []models.TaskStatus{
	models.TaskPending, models.TaskAccepted, models.TaskPickedUp,
}

// AdvanceOrder moves an order to the requested status on behalf of the actor.
// Reaching READY_FOR_PICKUP offers a PENDING delivery task; reaching
// CANCELLED tears down any active task. All of it happens in one transaction.
func AdvanceOrder(db *gorm.DB, actor models.Actor, orderID uint, to models.OrderStatus, note string) (*models.Order, error) {
	var order *models.Order
	err := db.Transaction(func(tx *gorm.DB) error {
		var txErr error
		order, txErr = advanceOrderTx(tx, actor, orderID, to, note)
		return txErr
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// advanceOrderTx is the guard itself; it must run inside a transaction.
func advanceOrderTx(tx *gorm.DB, actor models.Actor, orderID uint, to models.OrderStatus, note string) (*models.Order, error) {
	var order models.Order
	if err := tx.First(&order, orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("order %d: %w", orderID, ErrNotFound)
		}
		return nil, err
	}

	if err := authorizeOrderActor(actor, &order); err != nil {
		return nil, err
	}
	if err := statemachine.CanTransitionOrder(order.Status, to, actor.Role); err != nil {
		return nil, err
	}

	// Conditional write: a concurrent transition between our read and this
	// update leaves RowsAffected at zero instead of clobbering state.
	res := tx.Model(&models.Order{}).
		Where("id = ? AND status = ?", order.ID, order.Status).
		Update("status", to)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, fmt.Errorf("%w: order %d changed state concurrently", statemachine.ErrInvalidTransition, order.ID)
	}

	history := models.OrderStatusHistory{
		OrderID:    order.ID,
		FromStatus: order.Status,
		ToStatus:   to,
		ChangedBy:  actor.UserID,
		Note:       note,
	}
	if err := tx.Create(&history).Error; err != nil {
		return nil, err
	}

	switch to {
	case models.StatusReadyForPickup:
		if _, err := offerTaskTx(tx, order.ID); err != nil {
			return nil, err
		}
	case models.StatusCancelled:
		if err := cancelActiveTaskTx(tx, order.ID); err != nil {
			return nil, err
		}
	}

	if err := tx.First(&order, order.ID).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func authorizeOrderActor(actor models.Actor, order *models.Order) error {
	switch actor.Role {
	case models.RoleAdmin, models.RoleSystem:
		return nil
	case models.RoleRestaurant:
		if order.RestaurantID != actor.RestaurantID {
			return fmt.Errorf("%w: order belongs to another restaurant", ErrUnauthorizedActor)
		}
		return nil
	case models.RoleCustomer:
		if order.CustomerID != actor.UserID {
			return fmt.Errorf("%w: order belongs to another customer", ErrUnauthorizedActor)
		}
		return nil
	default:
		return fmt.Errorf("%w: role %q cannot act on orders directly", ErrUnauthorizedActor, actor.Role)
	}
}

// offerTaskTx creates a PENDING task for the order, enforcing the
// one-active-task-per-order invariant.
func offerTaskTx(tx *gorm.DB, orderID uint) (*models.DriverTask, error) {
	var active int64
	if err := tx.Model(&models.DriverTask{}).
		Where("order_id = ? AND status IN ?", orderID, activeTaskStatuses).
		Count(&active).Error; err != nil {
		return nil, err
	}
	if active > 0 {
		return nil, fmt.Errorf("order %d: %w", orderID, ErrActiveTaskExists)
	}

	task := models.DriverTask{
		OrderID:    orderID,
		Status:     models.TaskPending,
		AssignedAt: time.Now(),
	}
	if err := tx.Create(&task).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

func cancelActiveTaskTx(tx *gorm.DB, orderID uint) error {
	now := time.Now()
	return tx.Model(&models.DriverTask{}).
		Where("order_id = ? AND status IN ?", orderID, activeTaskStatuses).
		Updates(map[string]interface{}{
			"status":       models.TaskCancelled,
			"completed_at": &now,
		}).Error
}

// ReofferTask creates a fresh PENDING task for an order whose previous task
// was rejected or cancelled. Manual re-trigger only; there is no automatic
// re-offer loop.
func ReofferTask(db *gorm.DB, actor models.Actor, orderID uint) (*models.DriverTask, error) {
	var task *models.DriverTask
	err := db.Transaction(func(tx *gorm.DB) error {
		var order models.Order
		if err := tx.First(&order, orderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("order %d: %w", orderID, ErrNotFound)
			}
			return err
		}
		if err := authorizeOrderActor(actor, &order); err != nil {
			return err
		}
		if actor.Role != models.RoleRestaurant && actor.Role != models.RoleAdmin {
			return fmt.Errorf("%w: role %q cannot offer delivery tasks", ErrUnauthorizedActor, actor.Role)
		}
		if order.Status != models.StatusReadyForPickup {
			return fmt.Errorf("%w: cannot offer a task for order in status %s",
				statemachine.ErrInvalidTransition, order.Status)
		}
		var txErr error
		task, txErr = offerTaskTx(tx, orderID)
		return txErr
	})
	if err != nil {
		return nil, err
	}
	return task, nil
}
