package handlers

import (
	"net/http"

	"delivery-marketplace/config"
	"delivery-marketplace/lifecycle"
	"delivery-marketplace/middleware"
	"delivery-marketplace/models"

	"github.com/gin-gonic/gin"
)

// ListTasks returns the driver's view of the task pool: open PENDING tasks
// anyone can claim, plus the tasks assigned to this driver. Drivers poll
// this endpoint; there is no push channel.
func ListTasks(c *gin.Context) {
	actor := middleware.MustActor(c)

	var tasks []models.DriverTask
	query := config.DB.Preload("Order.Restaurant").Preload("Order.Items").
		Where("(status = ? OR driver_id = ?)", models.TaskPending, actor.UserID)

	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	query.Order("assigned_at asc").Find(&tasks)
	c.JSON(http.StatusOK, gin.H{"count": len(tasks), "tasks": tasks})
}

// GetMyDeliveries returns all orders this driver has delivered or is carrying
func GetMyDeliveries(c *gin.Context) {
	actor := middleware.MustActor(c)
	var orders []models.Order
	config.DB.Preload("Items.MenuItem").Preload("Restaurant").Preload("Customer").
		Where("driver_id = ?", actor.UserID).
		Order("updated_at desc").
		Find(&orders)
	c.JSON(http.StatusOK, gin.H{"count": len(orders), "orders": orders})
}

// AcceptTask claims a PENDING task. First driver to hit this wins; a losing
// racer gets 409 and should refresh the task list.
func AcceptTask(c *gin.Context) {
	actor := middleware.MustActor(c)
	taskID, ok := parseID(c, "id")
	if !ok {
		return
	}

	task, err := lifecycle.ClaimTask(config.DB, actor.UserID, taskID)
	if err != nil {
		respondLifecycleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Task accepted", "task": task})
}

// RejectTask declines a PENDING task; the order stays READY_FOR_PICKUP
// until the restaurant re-offers it.
func RejectTask(c *gin.Context) {
	actor := middleware.MustActor(c)
	taskID, ok := parseID(c, "id")
	if !ok {
		return
	}

	task, err := lifecycle.RejectTask(config.DB, actor.UserID, taskID)
	if err != nil {
		respondLifecycleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Task rejected", "task": task})
}

// PickedUpTask marks the task PICKED_UP; the parent order moves ON_THE_WAY
// in the same transaction.
func PickedUpTask(c *gin.Context) {
	advanceTask(c, models.TaskPickedUp, "Order picked up")
}

// DeliveredTask marks the task DELIVERED; the parent order completes with it.
func DeliveredTask(c *gin.Context) {
	advanceTask(c, models.TaskDelivered, "Order delivered")
}

// CancelTask lets the assigned driver back out before pickup; the order is
// freed for a manual re-offer.
func CancelTask(c *gin.Context) {
	advanceTask(c, models.TaskCancelled, "Task cancelled by driver")
}

func advanceTask(c *gin.Context, to models.TaskStatus, message string) {
	actor := middleware.MustActor(c)
	taskID, ok := parseID(c, "id")
	if !ok {
		return
	}

	task, err := lifecycle.AdvanceTask(config.DB, actor.UserID, taskID, to)
	if err != nil {
		respondLifecycleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": message, "task": task})
}
