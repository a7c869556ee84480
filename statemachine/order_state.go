package statemachine

import (
	"errors"
	"fmt"

	"delivery-marketplace/models"
)

// ErrInvalidTransition is wrapped by every transition rejection so callers
// can classify it with errors.Is.
var ErrInvalidTransition = errors.New("invalid transition")

// OrderTransition defines a valid order state change and who can perform it
type OrderTransition struct {
	From  models.OrderStatus
	To    models.OrderStatus
	Actor models.UserRole
}

// orderTransitions is the authoritative order state machine definition
var orderTransitions = []OrderTransition{
	// Restaurant confirms the order
	{From: models.StatusPlaced, To: models.StatusConfirmed, Actor: models.RoleRestaurant},
	// Restaurant or Customer can cancel a PLACED order
	{From: models.StatusPlaced, To: models.StatusCancelled, Actor: models.RoleRestaurant},
	{From: models.StatusPlaced, To: models.StatusCancelled, Actor: models.RoleCustomer},
	// Restaurant moves the order into the kitchen; either side can still cancel
	{From: models.StatusConfirmed, To: models.StatusPreparing, Actor: models.RoleRestaurant},
	{From: models.StatusConfirmed, To: models.StatusCancelled, Actor: models.RoleRestaurant},
	{From: models.StatusConfirmed, To: models.StatusCancelled, Actor: models.RoleCustomer},
	// Restaurant marks the order ready for pickup (this offers a driver task)
	{From: models.StatusPreparing, To: models.StatusReadyForPickup, Actor: models.RoleRestaurant},
	{From: models.StatusPreparing, To: models.StatusCancelled, Actor: models.RoleRestaurant},
	// The system mirrors the driver task onto the order
	{From: models.StatusReadyForPickup, To: models.StatusOnTheWay, Actor: models.RoleSystem},
	{From: models.StatusOnTheWay, To: models.StatusDelivered, Actor: models.RoleSystem},
	// Admin can cancel any non-terminal order
	{From: models.StatusPlaced, To: models.StatusCancelled, Actor: models.RoleAdmin},
	{From: models.StatusConfirmed, To: models.StatusCancelled, Actor: models.RoleAdmin},
	{From: models.StatusPreparing, To: models.StatusCancelled, Actor: models.RoleAdmin},
	{From: models.StatusReadyForPickup, To: models.StatusCancelled, Actor: models.RoleAdmin},
	{From: models.StatusOnTheWay, To: models.StatusCancelled, Actor: models.RoleAdmin},
	// System cancellation, used when cancelling an order tears down its task
	{From: models.StatusReadyForPickup, To: models.StatusCancelled, Actor: models.RoleSystem},
	{From: models.StatusOnTheWay, To: models.StatusCancelled, Actor: models.RoleSystem},
}

type orderKey struct {
	From  models.OrderStatus
	To    models.OrderStatus
	Actor models.UserRole
}

// Lookup map for O(1) validation
var orderTransitionMap = func() map[orderKey]bool {
	m := make(map[orderKey]bool)
	for _, t := range orderTransitions {
		m[orderKey{t.From, t.To, t.Actor}] = true
	}
	return m
}()

// OrderTransitionsFrom returns all valid next states from a given order state
func OrderTransitionsFrom(status models.OrderStatus) []models.OrderStatus {
	var nexts []models.OrderStatus
	seen := map[models.OrderStatus]bool{}
	for _, t := range orderTransitions {
		if t.From == status && !seen[t.To] {
			nexts = append(nexts, t.To)
			seen[t.To] = true
		}
	}
	return nexts
}

// CanTransitionOrder checks whether the given role can move an order between
// two states. The returned error names both states and the legal next moves.
func CanTransitionOrder(from, to models.OrderStatus, actor models.UserRole) error {
	if orderTransitionMap[orderKey{From: from, To: to, Actor: actor}] {
		return nil
	}
	return fmt.Errorf("%w: %s → %s is not allowed for actor %q (valid next states from %s: %s)",
		ErrInvalidTransition, from, to, actor, from, describeOrderNexts(from))
}

func describeOrderNexts(status models.OrderStatus) string {
	nexts := OrderTransitionsFrom(status)
	if len(nexts) == 0 {
		return "none (terminal state)"
	}
	result := ""
	for i, s := range nexts {
		if i > 0 {
			result += ", "
		}
		result += string(s)
	}
	return result
}

// AllOrderTransitions returns the full order state machine for documentation
func AllOrderTransitions() []OrderTransition {
	return orderTransitions
}
