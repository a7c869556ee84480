package models

import "time"

// OrderStatus represents all possible states of a delivery order
type OrderStatus string

const (
	StatusPlaced         OrderStatus = "PLACED"
	StatusConfirmed      OrderStatus = "CONFIRMED"
	StatusPreparing      OrderStatus = "PREPARING"
	StatusReadyForPickup OrderStatus = "READY_FOR_PICKUP"
	StatusOnTheWay       OrderStatus = "ON_THE_WAY"
	StatusDelivered      OrderStatus = "DELIVERED"
	StatusCancelled      OrderStatus = "CANCELLED"
)

// Terminal reports whether no further transition can leave this status.
func (s OrderStatus) Terminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

type Order struct {
	ID              uint                 `json:"id" gorm:"primaryKey"`
	OrderNumber     string               `json:"order_number" gorm:"uniqueIndex;not null"`
	CustomerID      uint                 `json:"customer_id" gorm:"not null"`
	Customer        User                 `json:"customer,omitempty" gorm:"foreignKey:CustomerID"`
	RestaurantID    uint                 `json:"restaurant_id" gorm:"not null"`
	Restaurant      Restaurant           `json:"restaurant,omitempty" gorm:"foreignKey:RestaurantID"`
	DriverID        *uint                `json:"driver_id"`
	Driver          *User                `json:"driver,omitempty" gorm:"foreignKey:DriverID"`
	Status          OrderStatus          `json:"status" gorm:"not null;default:'PLACED'"`
	DeliveryFee     float64              `json:"delivery_fee"` // snapshot of the restaurant fee at order time
	TotalPrice      float64              `json:"total_price"`  // sum of line items + delivery fee
	DeliveryAddress string               `json:"delivery_address" gorm:"not null"`
	Notes           string               `json:"notes"`
	Items           []OrderItem          `json:"items,omitempty" gorm:"foreignKey:OrderID"`
	StatusHistory   []OrderStatusHistory `json:"status_history,omitempty" gorm:"foreignKey:OrderID"`
	CreatedAt       time.Time            `json:"created_at"`
	UpdatedAt       time.Time            `json:"updated_at"`
}

// OrderItem is immutable after order creation. Price and Name are snapshots
// taken at order time so historical orders stay accurate when the menu changes.
type OrderItem struct {
	ID         uint     `json:"id" gorm:"primaryKey"`
	OrderID    uint     `json:"order_id" gorm:"not null"`
	MenuItemID uint     `json:"menu_item_id" gorm:"not null"`
	MenuItem   MenuItem `json:"menu_item,omitempty" gorm:"foreignKey:MenuItemID"`
	Quantity   int      `json:"quantity" gorm:"not null"`
	Price      float64  `json:"price" gorm:"not null"`
	Name       string   `json:"name"`
}

// OrderStatusHistory tracks every status change for the audit trail
type OrderStatusHistory struct {
	ID         uint        `json:"id" gorm:"primaryKey"`
	OrderID    uint        `json:"order_id" gorm:"not null"`
	FromStatus OrderStatus `json:"from_status"`
	ToStatus   OrderStatus `json:"to_status" gorm:"not null"`
	ChangedBy  uint        `json:"changed_by"` // user ID, 0 for system transitions
	Note       string      `json:"note"`
	CreatedAt  time.Time   `json:"created_at"`
}
