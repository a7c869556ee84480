package handlers

import (
	"net/http"

	"delivery-marketplace/config"
	"delivery-marketplace/lifecycle"
	"delivery-marketplace/middleware"
	"delivery-marketplace/models"
	"delivery-marketplace/statemachine"

	"github.com/gin-gonic/gin"
)

// GetRestaurantOrders returns all orders for the restaurant owner
func GetRestaurantOrders(c *gin.Context) {
	actor := middleware.MustActor(c)
	if actor.RestaurantID == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "No restaurant found for your account"})
		return
	}

	var orders []models.Order
	query := config.DB.Preload("Items.MenuItem").Preload("Customer").Preload("Driver").
		Where("restaurant_id = ?", actor.RestaurantID)

	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	query.Order("created_at desc").Find(&orders)

	// Per-status counts for the owner's order board
	summary := map[string]int{}
	for _, o := range orders {
		summary[string(o.Status)]++
	}

	c.JSON(http.StatusOK, gin.H{
		"order_summary": summary,
		"count":         len(orders),
		"orders":        orders,
	})
}

type UpdateOrderStatusRequest struct {
	Status models.OrderStatus `json:"status" binding:"required"`
	Note   string             `json:"note"`
}

// UpdateOrderStatus handles the restaurant's guarded transitions. Moving an
// order to READY_FOR_PICKUP also offers a PENDING delivery task.
func UpdateOrderStatus(c *gin.Context) {
	actor := middleware.MustActor(c)
	orderID, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	order, err := lifecycle.AdvanceOrder(config.DB, actor, orderID, req.Status, req.Note)
	if err != nil {
		respondLifecycleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":           "Order status updated",
		"order":             order,
		"valid_next_states": statemachine.OrderTransitionsFrom(order.Status),
	})
}

// ReofferTask creates a fresh PENDING task after a rejection or driver
// cancellation (manual re-trigger, no automatic matching).
func ReofferTask(c *gin.Context) {
	actor := middleware.MustActor(c)
	orderID, ok := parseID(c, "id")
	if !ok {
		return
	}

	task, err := lifecycle.ReofferTask(config.DB, actor, orderID)
	if err != nil {
		respondLifecycleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Delivery task offered to drivers", "task": task})
}
