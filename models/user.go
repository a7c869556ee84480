package models

import (
	"time"
)

// UserRole defines allowed roles in the system
type UserRole string

const (
	RoleCustomer   UserRole = "customer"
	RoleRestaurant UserRole = "restaurant"
	RoleDriver     UserRole = "driver"
	RoleAdmin      UserRole = "admin"

	// RoleSystem is an internal actor for machine-triggered transitions
	// (e.g. the order advancing when its delivery task moves). It is never
	// assigned to a user account.
	RoleSystem UserRole = "system"
)

// RegisterableRoles are the roles a user may sign up with.
var RegisterableRoles = map[UserRole]bool{
	RoleCustomer:   true,
	RoleRestaurant: true,
	RoleDriver:     true,
	RoleAdmin:      true,
}

type User struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	Name         string    `json:"name" gorm:"not null"`
	Email        string    `json:"email" gorm:"uniqueIndex;not null"`
	PasswordHash string    `json:"-" gorm:"not null"`
	Role         UserRole  `json:"role" gorm:"not null;default:'customer'"`
	Phone        string    `json:"phone"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
