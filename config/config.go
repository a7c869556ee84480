package config

import (
	"log"
	"os"
	"strconv"

	"delivery-marketplace/models"

	"github.com/glebarez/sqlite"
	"github.com/joho/godotenv"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// JWTSecret used to sign tokens — read from env or fallback
var JWTSecret []byte

// DefaultDeliveryFee is applied to restaurants that don't set their own fee
var DefaultDeliveryFee float64

// Load reads .env (if present) and resolves settings from the environment.
// Must run before InitDB and before any token is issued.
func Load() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading settings from environment")
	}
	JWTSecret = []byte(getEnv("JWT_SECRET", "delivery_marketplace_secret_2024"))
	DefaultDeliveryFee = getEnvFloat("DEFAULT_DELIVERY_FEE", 3.0)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
		log.Printf("Invalid %s=%q, falling back to %.2f", key, os.Getenv(key), fallback)
	}
	return fallback
}

func InitDB() {
	var err error
	dbPath := getEnv("DB_PATH", "delivery_marketplace.db")
	DB, err = gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	if err := Migrate(DB); err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	log.Println("Database connected and migrated successfully")
}

// Migrate applies the schema to any gorm connection (shared with test fixtures).
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Restaurant{},
		&models.MenuCategory{},
		&models.MenuItem{},
		&models.Order{},
		&models.OrderItem{},
		&models.OrderStatusHistory{},
		&models.DriverTask{},
	)
}
