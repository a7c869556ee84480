package statemachine

import (
	"fmt"

	"delivery-marketplace/models"
)

// TaskTransition defines a valid delivery-task state change and who can perform it
type TaskTransition struct {
	From  models.TaskStatus
	To    models.TaskStatus
	Actor models.UserRole
}

// taskTransitions is the authoritative task state machine definition
var taskTransitions = []TaskTransition{
	// Any driver may claim or decline an offered task
	{From: models.TaskPending, To: models.TaskAccepted, Actor: models.RoleDriver},
	{From: models.TaskPending, To: models.TaskRejected, Actor: models.RoleDriver},
	// The assigned driver carries the task forward, or backs out before pickup
	{From: models.TaskAccepted, To: models.TaskPickedUp, Actor: models.RoleDriver},
	{From: models.TaskAccepted, To: models.TaskCancelled, Actor: models.RoleDriver},
	{From: models.TaskPickedUp, To: models.TaskDelivered, Actor: models.RoleDriver},
	// Admin / system teardown when the parent order is cancelled
	{From: models.TaskPending, To: models.TaskCancelled, Actor: models.RoleAdmin},
	{From: models.TaskAccepted, To: models.TaskCancelled, Actor: models.RoleAdmin},
	{From: models.TaskPending, To: models.TaskCancelled, Actor: models.RoleSystem},
	{From: models.TaskAccepted, To: models.TaskCancelled, Actor: models.RoleSystem},
	{From: models.TaskPickedUp, To: models.TaskCancelled, Actor: models.RoleSystem},
}

type taskKey struct {
	From  models.TaskStatus
	To    models.TaskStatus
	Actor models.UserRole
}

var taskTransitionMap = func() map[taskKey]bool {
	m := make(map[taskKey]bool)
	for _, t := range taskTransitions {
		m[taskKey{t.From, t.To, t.Actor}] = true
	}
	return m
}()

// TaskTransitionsFrom returns all valid next states from a given task state
func TaskTransitionsFrom(status models.TaskStatus) []models.TaskStatus {
	var nexts []models.TaskStatus
	seen := map[models.TaskStatus]bool{}
	for _, t := range taskTransitions {
		if t.From == status && !seen[t.To] {
			nexts = append(nexts, t.To)
			seen[t.To] = true
		}
	}
	return nexts
}

// CanTransitionTask checks whether the given role can move a delivery task
// between two states.
func CanTransitionTask(from, to models.TaskStatus, actor models.UserRole) error {
	if taskTransitionMap[taskKey{From: from, To: to, Actor: actor}] {
		return nil
	}
	return fmt.Errorf("%w: %s → %s is not allowed for actor %q (valid next states from %s: %s)",
		ErrInvalidTransition, from, to, actor, from, describeTaskNexts(from))
}

func describeTaskNexts(status models.TaskStatus) string {
	nexts := TaskTransitionsFrom(status)
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

// AllTaskTransitions returns the full task state machine for documentation
func AllTaskTransitions() []TaskTransition {
	return taskTransitions
}
