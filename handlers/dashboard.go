package handlers

import (
	"net/http"
	"strconv"
	"time"

	"delivery-marketplace/config"
	"delivery-marketplace/lifecycle"
	"delivery-marketplace/middleware"
	"delivery-marketplace/models"

	"github.com/gin-gonic/gin"
)

const dateLayout = "2006-01-02"

// GetOrderStatistics computes the dashboard rollup (count, revenue, average
// order value) per request. Restaurant owners are pinned to their own
// restaurant; admins may pass any restaurant_id or none at all.
func GetOrderStatistics(c *gin.Context) {
	actor := middleware.MustActor(c)

	filter := lifecycle.StatsFilter{}
	switch actor.Role {
	case models.RoleRestaurant:
		if actor.RestaurantID == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "No restaurant found for your account"})
			return
		}
		filter.RestaurantID = actor.RestaurantID
	case models.RoleAdmin:
		if raw := c.Query("restaurant_id"); raw != "" {
			id, err := strconv.ParseUint(raw, 10, 32)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid restaurant_id parameter"})
				return
			}
			filter.RestaurantID = uint(id)
		}
	}

	if raw := c.Query("date_from"); raw != "" {
		from, err := time.Parse(dateLayout, raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "date_from must be YYYY-MM-DD"})
			return
		}
		filter.From = &from
	}
	if raw := c.Query("date_to"); raw != "" {
		to, err := time.Parse(dateLayout, raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "date_to must be YYYY-MM-DD"})
			return
		}
		// date_to is inclusive: match everything before the next midnight
		end := to.AddDate(0, 0, 1)
		filter.To = &end
	}
	if status := c.Query("status"); status != "" {
		filter.Status = models.OrderStatus(status)
	}

	stats, err := lifecycle.OrderStatistics(config.DB, filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute statistics"})
		return
	}

	c.JSON(http.StatusOK, stats)
}
