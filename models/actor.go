package models

// Actor identifies who is requesting a state transition. It is resolved once
// at the request boundary (auth middleware) and passed explicitly into every
// guard call, instead of each check re-deriving the caller's authority from
// ambient request state.
type Actor struct {
	Role   UserRole `json:"role"`
	UserID uint     `json:"user_id"`
	// RestaurantID is the restaurant owned by this actor; set only for
	// RoleRestaurant.
	RestaurantID uint `json:"restaurant_id,omitempty"`
}

// SystemActor performs machine-triggered transitions such as mirroring a
// delivery task's progress onto its parent order.
func SystemActor() Actor {
	return Actor{Role: RoleSystem}
}
