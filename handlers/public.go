package handlers

import (
	"net/http"

	"delivery-marketplace/config"
	"delivery-marketplace/models"
	"delivery-marketplace/statemachine"

	"github.com/gin-gonic/gin"
)

// ListRestaurants returns restaurants, optionally filtered (public)
func ListRestaurants(c *gin.Context) {
	var restaurants []models.Restaurant
	query := config.DB

	if cuisine := c.Query("cuisine"); cuisine != "" {
		query = query.Where("cuisine LIKE ?", "%"+cuisine+"%")
	}
	if search := c.Query("search"); search != "" {
		query = query.Where("name LIKE ?", "%"+search+"%")
	}
	if open := c.Query("open"); open == "true" {
		query = query.Where("is_open = ?", true)
	}

	query.Find(&restaurants)
	c.JSON(http.StatusOK, gin.H{
		"count":       len(restaurants),
		"restaurants": restaurants,
	})
}

// GetRestaurant returns a single restaurant with its menu
func GetRestaurant(c *gin.Context) {
	var restaurant models.Restaurant
	if err := config.DB.Preload("MenuItems.Category").First(&restaurant, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Restaurant not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"restaurant": restaurant})
}

// GetMenu returns the menu for a specific restaurant (public)
func GetMenu(c *gin.Context) {
	restaurantID := c.Param("id")
	var restaurant models.Restaurant
	if err := config.DB.First(&restaurant, restaurantID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Restaurant not found"})
		return
	}

	var items []models.MenuItem
	query := config.DB.Preload("Category").Where("restaurant_id = ?", restaurantID)

	if categoryID := c.Query("category_id"); categoryID != "" {
		query = query.Where("category_id = ?", categoryID)
	}
	if featured := c.Query("featured"); featured == "true" {
		query = query.Where("is_featured = ?", true)
	}
	if isVeg := c.Query("is_veg"); isVeg == "true" {
		query = query.Where("is_veg = ?", true)
	}
	query.Find(&items)

	c.JSON(http.StatusOK, gin.H{
		"restaurant": restaurant.Name,
		"count":      len(items),
		"menu":       items,
	})
}

// ListCategories returns the global menu categories (shared across restaurants)
func ListCategories(c *gin.Context) {
	var categories []models.MenuCategory
	config.DB.Order("sort_order asc, name asc").Find(&categories)
	c.JSON(http.StatusOK, gin.H{"count": len(categories), "categories": categories})
}

// GetStateMachineInfo exposes both lifecycle state machines for docs/clients
func GetStateMachineInfo(c *gin.Context) {
	var orderInfo []gin.H
	for _, t := range statemachine.AllOrderTransitions() {
		orderInfo = append(orderInfo, gin.H{"from": t.From, "to": t.To, "actor": t.Actor})
	}
	var taskInfo []gin.H
	for _, t := range statemachine.AllTaskTransitions() {
		taskInfo = append(taskInfo, gin.H{"from": t.From, "to": t.To, "actor": t.Actor})
	}
	c.JSON(http.StatusOK, gin.H{
		"order_state_machine":   orderInfo,
		"task_state_machine":    taskInfo,
		"order_terminal_states": []models.OrderStatus{models.StatusDelivered, models.StatusCancelled},
		"task_terminal_states":  []models.TaskStatus{models.TaskDelivered, models.TaskRejected, models.TaskCancelled},
	})
}
