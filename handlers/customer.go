package handlers

import (
	"fmt"
	"net/http"

	"delivery-marketplace/config"
	"delivery-marketplace/lifecycle"
	"delivery-marketplace/middleware"
	"delivery-marketplace/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PlaceOrderRequest struct {
	RestaurantID    uint   `json:"restaurant_id" binding:"required"`
	DeliveryAddress string `json:"delivery_address" binding:"required"`
	Notes           string `json:"notes"`
	Items           []struct {
		MenuItemID uint `json:"menu_item_id" binding:"required"`
		Quantity   int  `json:"quantity" binding:"required,min=1"`
	} `json:"items" binding:"required,min=1"`
}

// PlaceOrder creates a new order (customer only). Line items snapshot the
// menu price and name at order time; the total is item sum + delivery fee.
func PlaceOrder(c *gin.Context) {
	actor := middleware.MustActor(c)

	var req PlaceOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var restaurant models.Restaurant
	if err := config.DB.First(&restaurant, req.RestaurantID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Restaurant not found"})
		return
	}
	if !restaurant.IsOpen {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Restaurant is currently closed"})
		return
	}

	var orderItems []models.OrderItem
	var itemTotal float64

	for _, reqItem := range req.Items {
		var menuItem models.MenuItem
		if err := config.DB.First(&menuItem, reqItem.MenuItemID).Error; err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Menu item %d not found", reqItem.MenuItemID)})
			return
		}
		if menuItem.RestaurantID != req.RestaurantID {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Menu item does not belong to this restaurant"})
			return
		}
		if !menuItem.IsAvailable {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Menu item '" + menuItem.Name + "' is not available"})
			return
		}
		itemTotal += menuItem.Price * float64(reqItem.Quantity)
		orderItems = append(orderItems, models.OrderItem{
			MenuItemID: menuItem.ID,
			Quantity:   reqItem.Quantity,
			Price:      menuItem.Price,
			Name:       menuItem.Name,
		})
	}

	order := models.Order{
		OrderNumber:     uuid.NewString(),
		CustomerID:      actor.UserID,
		RestaurantID:    req.RestaurantID,
		Status:          models.StatusPlaced,
		DeliveryFee:     restaurant.DeliveryFee,
		TotalPrice:      itemTotal + restaurant.DeliveryFee,
		DeliveryAddress: req.DeliveryAddress,
		Notes:           req.Notes,
		Items:           orderItems,
	}

	err := config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&order).Error; err != nil {
			return err
		}
		return tx.Create(&models.OrderStatusHistory{
			OrderID:   order.ID,
			ToStatus:  models.StatusPlaced,
			ChangedBy: actor.UserID,
			Note:      "Order placed by customer",
		}).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to place order"})
		return
	}

	config.DB.Preload("Items.MenuItem").Preload("Restaurant").First(&order, order.ID)

	c.JSON(http.StatusCreated, gin.H{
		"message": "Order placed successfully",
		"order":   order,
	})
}

// GetMyOrders returns all orders for the logged-in customer
func GetMyOrders(c *gin.Context) {
	actor := middleware.MustActor(c)
	var orders []models.Order
	config.DB.Preload("Items.MenuItem").Preload("Restaurant").
		Where("customer_id = ?", actor.UserID).
		Order("created_at desc").
		Find(&orders)
	c.JSON(http.StatusOK, gin.H{"count": len(orders), "orders": orders})
}

// GetOrderDetail returns a single order's full detail with history
func GetOrderDetail(c *gin.Context) {
	actor := middleware.MustActor(c)

	var order models.Order
	if err := config.DB.
		Preload("Items.MenuItem").
		Preload("Restaurant").
		Preload("StatusHistory").
		Preload("Driver").
		First(&order, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}
	if order.CustomerID != actor.UserID {
		c.JSON(http.StatusForbidden, gin.H{"error": "This order does not belong to you"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"order": order})
}

// CancelOrder cancels an order (customer can cancel PLACED or CONFIRMED)
func CancelOrder(c *gin.Context) {
	actor := middleware.MustActor(c)
	orderID, ok := parseID(c, "id")
	if !ok {
		return
	}

	order, err := lifecycle.AdvanceOrder(config.DB, actor, orderID, models.StatusCancelled, "Order cancelled by customer")
	if err != nil {
		respondLifecycleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Order cancelled successfully", "order": order})
}
