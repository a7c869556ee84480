package statemachine

import (
	"errors"
	"strings"
	"testing"

	"delivery-marketplace/models"
)

func TestCanTransitionOrder(t *testing.T) {
	tests := []struct {
		name    string
		from    models.OrderStatus
		to      models.OrderStatus
		actor   models.UserRole
		allowed bool
	}{
		{"restaurant confirms placed order", models.StatusPlaced, models.StatusConfirmed, models.RoleRestaurant, true},
		{"customer cancels placed order", models.StatusPlaced, models.StatusCancelled, models.RoleCustomer, true},
		{"customer cancels confirmed order", models.StatusConfirmed, models.StatusCancelled, models.RoleCustomer, true},
		{"restaurant starts preparing", models.StatusConfirmed, models.StatusPreparing, models.RoleRestaurant, true},
		{"restaurant marks ready", models.StatusPreparing, models.StatusReadyForPickup, models.RoleRestaurant, true},
		{"system moves order on the way", models.StatusReadyForPickup, models.StatusOnTheWay, models.RoleSystem, true},
		{"system completes delivery", models.StatusOnTheWay, models.StatusDelivered, models.RoleSystem, true},
		{"admin cancels order on the way", models.StatusOnTheWay, models.StatusCancelled, models.RoleAdmin, true},

		{"no skipping straight to delivered", models.StatusPlaced, models.StatusDelivered, models.RoleRestaurant, false},
		{"no skipping to ready", models.StatusPlaced, models.StatusReadyForPickup, models.RoleRestaurant, false},
		{"customer cannot confirm", models.StatusPlaced, models.StatusConfirmed, models.RoleCustomer, false},
		{"customer cannot cancel preparing order", models.StatusPreparing, models.StatusCancelled, models.RoleCustomer, false},
		{"driver cannot move the order directly", models.StatusReadyForPickup, models.StatusOnTheWay, models.RoleDriver, false},
		{"no transition out of delivered", models.StatusDelivered, models.StatusCancelled, models.RoleAdmin, false},
		{"no transition out of cancelled", models.StatusCancelled, models.StatusPlaced, models.RoleAdmin, false},
		{"no backwards move", models.StatusPreparing, models.StatusConfirmed, models.RoleRestaurant, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CanTransitionOrder(tt.from, tt.to, tt.actor)
			if tt.allowed && err != nil {
				t.Fatalf("expected transition to be allowed, got %v", err)
			}
			if !tt.allowed {
				if err == nil {
					t.Fatal("expected transition to be rejected")
				}
				if !errors.Is(err, ErrInvalidTransition) {
					t.Fatalf("expected ErrInvalidTransition, got %v", err)
				}
				if !strings.Contains(err.Error(), string(tt.from)) || !strings.Contains(err.Error(), string(tt.to)) {
					t.Fatalf("error should name both states: %v", err)
				}
			}
		})
	}
}

func TestOrderTransitionsFrom(t *testing.T) {
	nexts := OrderTransitionsFrom(models.StatusPlaced)
	want := map[models.OrderStatus]bool{models.StatusConfirmed: true, models.StatusCancelled: true}
	if len(nexts) != len(want) {
		t.Fatalf("expected %d next states from PLACED, got %v", len(want), nexts)
	}
	for _, s := range nexts {
		if !want[s] {
			t.Fatalf("unexpected next state %s from PLACED", s)
		}
	}

	if got := OrderTransitionsFrom(models.StatusDelivered); len(got) != 0 {
		t.Fatalf("DELIVERED must be terminal, got next states %v", got)
	}
	if got := OrderTransitionsFrom(models.StatusCancelled); len(got) != 0 {
		t.Fatalf("CANCELLED must be terminal, got next states %v", got)
	}
}

func TestOrderTerminalHelper(t *testing.T) {
	for _, s := range []models.OrderStatus{models.StatusDelivered, models.StatusCancelled} {
		if !s.Terminal() {
			t.Errorf("%s should be terminal", s)
		}
	}
	for _, s := range []models.OrderStatus{models.StatusPlaced, models.StatusConfirmed, models.StatusPreparing, models.StatusReadyForPickup, models.StatusOnTheWay} {
		if s.Terminal() {
			t.Errorf("%s should not be terminal", s)
		}
	}
}
