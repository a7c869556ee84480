package middleware

import (
	"net/http"
	"strings"
	"time"

	"delivery-marketplace/config"
	"delivery-marketplace/models"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const actorKey = "actor"

type Claims struct {
	UserID uint            `json:"user_id"`
	Email  string          `json:"email"`
	Role   models.UserRole `json:"role"`
	jwt.RegisteredClaims
}

// GenerateToken creates a signed JWT for a given user
func GenerateToken(user *models.User) (string, error) {
	claims := Claims{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(config.JWTSecret)
}

// AuthRequired validates the JWT and resolves the caller into an explicit
// Actor stored in the context. Restaurant owners get their restaurant ID
// resolved here, once, so downstream guards never re-derive ownership.
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required (Bearer <token>)"})
			c.Abort()
			return
		}
		tokenStr := strings.TrimPrefix(authHeader, "Bearer ")
		claims := &Claims{}
		token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
			return config.JWTSecret, nil
		})
		if err != nil || !token.Valid {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			c.Abort()
			return
		}

		actor := models.Actor{Role: claims.Role, UserID: claims.UserID}
		if claims.Role == models.RoleRestaurant {
			var restaurant models.Restaurant
			if err := config.DB.Select("id").Where("owner_id = ?", claims.UserID).First(&restaurant).Error; err == nil {
				actor.RestaurantID = restaurant.ID
			}
		}
		SetActor(c, actor)
		c.Next()
	}
}

// RoleRequired enforces that caller has one of the allowed roles
func RoleRequired(roles ...models.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := GetActor(c)
		if !ok {
			c.JSON(http.StatusForbidden, gin.H{"error": "No authenticated actor in context"})
			c.Abort()
			return
		}
		for _, r := range roles {
			if actor.Role == r {
				c.Next()
				return
			}
		}
		c.JSON(http.StatusForbidden, gin.H{
			"error": "Access denied. Required role(s): " + rolesString(roles),
		})
		c.Abort()
	}
}

func rolesString(roles []models.UserRole) string {
	s := ""
	for i, r := range roles {
		if i > 0 {
			s += ", "
		}
		s += string(r)
	}
	return s
}

// SetActor stores the resolved actor (also used by handler tests).
func SetActor(c *gin.Context, actor models.Actor) {
	c.Set(actorKey, actor)
}

// GetActor extracts the resolved actor from the context.
func GetActor(c *gin.Context) (models.Actor, bool) {
	val, exists := c.Get(actorKey)
	if !exists {
		return models.Actor{}, false
	}
	actor, ok := val.(models.Actor)
	return actor, ok
}

// MustActor is for handlers behind AuthRequired, where an actor always exists.
func MustActor(c *gin.Context) models.Actor {
	actor, _ := GetActor(c)
	return actor
}
