package handlers

import (
	"net/http"

	"delivery-marketplace/config"
	"delivery-marketplace/lifecycle"
	"delivery-marketplace/middleware"
	"delivery-marketplace/models"

	"github.com/gin-gonic/gin"
)

// AdminGetAllOrders returns all orders with full detail — admin only
func AdminGetAllOrders(c *gin.Context) {
	var orders []models.Order
	query := config.DB.Preload("Items.MenuItem").
		Preload("Customer").Preload("Restaurant").Preload("Driver").Preload("StatusHistory")

	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if customerID := c.Query("customer_id"); customerID != "" {
		query = query.Where("customer_id = ?", customerID)
	}
	if restaurantID := c.Query("restaurant_id"); restaurantID != "" {
		query = query.Where("restaurant_id = ?", restaurantID)
	}

	query.Order("created_at desc").Find(&orders)

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

// AdminGetAllUsers returns all users — admin only
func AdminGetAllUsers(c *gin.Context) {
	var users []models.User
	query := config.DB
	if role := c.Query("role"); role != "" {
		query = query.Where("role = ?", role)
	}
	query.Find(&users)
	c.JSON(http.StatusOK, gin.H{"count": len(users), "users": users})
}

// AdminGetAllRestaurants returns all restaurants — admin only
func AdminGetAllRestaurants(c *gin.Context) {
	var restaurants []models.Restaurant
	config.DB.Preload("Owner").Preload("MenuItems").Find(&restaurants)
	c.JSON(http.StatusOK, gin.H{"count": len(restaurants), "restaurants": restaurants})
}

type AdminOrderStatusRequest struct {
	Status models.OrderStatus `json:"status" binding:"required"`
	Reason string             `json:"reason"`
}

// AdminUpdateOrderStatus performs a guarded transition as the admin actor
// (in practice: cancelling a stuck non-terminal order). The guard still
// applies; admins get no path to skip states.
func AdminUpdateOrderStatus(c *gin.Context) {
	actor := middleware.MustActor(c)
	orderID, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req AdminOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	order, err := lifecycle.AdvanceOrder(config.DB, actor, orderID, req.Status, "[ADMIN] "+req.Reason)
	if err != nil {
		respondLifecycleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Order status updated by admin", "order": order})
}

// AdminReofferTask re-offers a delivery task for an order whose previous
// task was rejected or cancelled.
func AdminReofferTask(c *gin.Context) {
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

type CreateCategoryRequest struct {
	Name      string `json:"name" binding:"required"`
	SortOrder int    `json:"sort_order"`
}

// AdminCreateCategory adds a global menu category (shared by all restaurants)
func AdminCreateCategory(c *gin.Context) {
	var req CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	category := models.MenuCategory{Name: req.Name, SortOrder: req.SortOrder}
	if err := config.DB.Create(&category).Error; err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Category already exists"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Category created", "category": category})
}
