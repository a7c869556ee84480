package models

import "time"

// TaskStatus represents the states of a delivery task
type TaskStatus string

const (
	TaskPending   TaskStatus = "PENDING"
	TaskAccepted  TaskStatus = "ACCEPTED"
	TaskPickedUp  TaskStatus = "PICKED_UP"
	TaskDelivered TaskStatus = "DELIVERED"
	TaskRejected  TaskStatus = "REJECTED"
	TaskCancelled TaskStatus = "CANCELLED"
)

// Terminal reports whether the task can no longer change state.
func (s TaskStatus) Terminal() bool {
	return s == TaskDelivered || s == TaskRejected || s == TaskCancelled
}

// DriverTask is the unit of delivery work for one order. At most one
// non-terminal task exists per order; a rejected or cancelled task may be
// followed by a fresh task for the same order (re-offer).
type DriverTask struct {
	ID       uint       `json:"id" gorm:"primaryKey"`
	OrderID  uint       `json:"order_id" gorm:"not null;index"`
	Order    Order      `json:"order,omitempty" gorm:"foreignKey:OrderID"`
	DriverID *uint      `json:"driver_id"` // nil until a driver accepts
	Driver   *User      `json:"driver,omitempty" gorm:"foreignKey:DriverID"`
	Status   TaskStatus `json:"status" gorm:"not null;default:'PENDING'"`

	AssignedAt  time.Time  `json:"assigned_at"` // when the task was offered
	AcceptedAt  *time.Time `json:"accepted_at"`
	PickedUpAt  *time.Time `json:"picked_up_at"`
	CompletedAt *time.Time `json:"completed_at"` // delivered, rejected or cancelled

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
