package models

import "time"

type Restaurant struct {
	ID          uint       `json:"id" gorm:"primaryKey"`
	OwnerID     uint       `json:"owner_id" gorm:"not null"`
	Owner       User       `json:"owner,omitempty" gorm:"foreignKey:OwnerID"`
	Name        string     `json:"name" gorm:"not null"`
	Cuisine     string     `json:"cuisine"`
	Address     string     `json:"address"`
	Description string     `json:"description"`
	IsOpen      bool       `json:"is_open" gorm:"default:true"`
	OpensAt     string     `json:"opens_at"`  // "HH:MM", informational
	ClosesAt    string     `json:"closes_at"` // "HH:MM", informational
	DeliveryFee float64    `json:"delivery_fee" gorm:"default:0"`
	Rating      float64    `json:"rating" gorm:"default:0"`
	MenuItems   []MenuItem `json:"menu_items,omitempty" gorm:"foreignKey:RestaurantID"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// MenuCategory is global: categories are shared across restaurants rather
// than scoped to one, so "Pizza" means the same thing everywhere.
type MenuCategory struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"uniqueIndex;not null"`
	SortOrder int       `json:"sort_order" gorm:"default:0"`
	CreatedAt time.Time `json:"created_at"`
}

type MenuItem struct {
	ID           uint         `json:"id" gorm:"primaryKey"`
	RestaurantID uint         `json:"restaurant_id" gorm:"not null"`
	CategoryID   uint         `json:"category_id"`
	Category     MenuCategory `json:"category,omitempty" gorm:"foreignKey:CategoryID"`
	Name         string       `json:"name" gorm:"not null"`
	Description  string       `json:"description"`
	Price        float64      `json:"price" gorm:"not null"`
	IsAvailable  bool         `json:"is_available" gorm:"default:true"`
	IsFeatured   bool         `json:"is_featured" gorm:"default:false"`
	IsVeg        bool         `json:"is_veg" gorm:"default:false"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}
