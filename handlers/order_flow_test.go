package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"delivery-marketplace/config"
	"delivery-marketplace/lifecycle"
	"delivery-marketplace/middleware"
	"delivery-marketplace/models"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("unwrap sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	if err := config.Migrate(db); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	config.DB = db
	return db
}

type webFixture struct {
	customer   models.User
	owner      models.User
	driverA    models.User
	driverB    models.User
	restaurant models.Restaurant
	burger     models.MenuItem
	pasta      models.MenuItem
}

func seedWeb(t *testing.T, db *gorm.DB) *webFixture {
	t.Helper()
	f := &webFixture{
		customer: models.User{Name: "Cara", Email: "cara@example.com", PasswordHash: "x", Role: models.RoleCustomer},
		owner:    models.User{Name: "Omar", Email: "omar@example.com", PasswordHash: "x", Role: models.RoleRestaurant},
		driverA:  models.User{Name: "Dana", Email: "dana@example.com", PasswordHash: "x", Role: models.RoleDriver},
		driverB:  models.User{Name: "Dave", Email: "dave@example.com", PasswordHash: "x", Role: models.RoleDriver},
	}
	for _, u := range []*models.User{&f.customer, &f.owner, &f.driverA, &f.driverB} {
		if err := db.Create(u).Error; err != nil {
			t.Fatalf("seed user: %v", err)
		}
	}
	f.restaurant = models.Restaurant{OwnerID: f.owner.ID, Name: "Testaurant", Address: "1 Test St", DeliveryFee: 3, IsOpen: true}
	if err := db.Create(&f.restaurant).Error; err != nil {
		t.Fatalf("seed restaurant: %v", err)
	}
	f.burger = models.MenuItem{RestaurantID: f.restaurant.ID, Name: "Burger", Price: 10, IsAvailable: true}
	f.pasta = models.MenuItem{RestaurantID: f.restaurant.ID, Name: "Pasta", Price: 15, IsAvailable: true}
	for _, m := range []*models.MenuItem{&f.burger, &f.pasta} {
		if err := db.Create(m).Error; err != nil {
			t.Fatalf("seed menu item: %v", err)
		}
	}
	return f
}

func (f *webFixture) customerActor() models.Actor {
	return models.Actor{Role: models.RoleCustomer, UserID: f.customer.ID}
}

func (f *webFixture) restaurantActor() models.Actor {
	return models.Actor{Role: models.RoleRestaurant, UserID: f.owner.ID, RestaurantID: f.restaurant.ID}
}

// performAs routes a single request through a fresh router with the given
// actor already resolved, the way AuthRequired would have left it.
func performAs(t *testing.T, actor models.Actor, method, path string, register func(*gin.Engine, gin.HandlerFunc), body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	router := gin.New()
	inject := func(c *gin.Context) {
		middleware.SetActor(c, actor)
		c.Next()
	}
	register(router, inject)

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response %q: %v", w.Body.String(), err)
	}
	return body
}

func TestPlaceOrderComputesTotal(t *testing.T) {
	db := newTestDB(t)
	f := seedWeb(t, db)

	payload := gin.H{
		"restaurant_id":    f.restaurant.ID,
		"delivery_address": "2 Client Ave",
		"items": []gin.H{
			{"menu_item_id": f.burger.ID, "quantity": 1},
			{"menu_item_id": f.pasta.ID, "quantity": 1},
		},
	}
	w := performAs(t, f.customerActor(), http.MethodPost, "/api/customer/orders",
		func(r *gin.Engine, inject gin.HandlerFunc) {
			r.POST("/api/customer/orders", inject, PlaceOrder)
		}, payload)

	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	body := decodeBody(t, w)
	order := body["order"].(map[string]interface{})
	if got := order["total_price"].(float64); got != 28 {
		t.Fatalf("total should be 10 + 15 + 3 delivery fee = 28, got %.2f", got)
	}
	if got := order["status"].(string); got != string(models.StatusPlaced) {
		t.Fatalf("new order must be PLACED, got %s", got)
	}
	if order["order_number"].(string) == "" {
		t.Fatal("order must carry an opaque order number")
	}
}

func TestPlaceOrderClosedRestaurant(t *testing.T) {
	db := newTestDB(t)
	f := seedWeb(t, db)
	db.Model(&f.restaurant).Update("is_open", false)

	payload := gin.H{
		"restaurant_id":    f.restaurant.ID,
		"delivery_address": "2 Client Ave",
		"items":            []gin.H{{"menu_item_id": f.burger.ID, "quantity": 1}},
	}
	w := performAs(t, f.customerActor(), http.MethodPost, "/api/customer/orders",
		func(r *gin.Engine, inject gin.HandlerFunc) {
			r.POST("/api/customer/orders", inject, PlaceOrder)
		}, payload)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("ordering from a closed restaurant must fail with 400, got %d", w.Code)
	}
}

func placeTestOrder(t *testing.T, db *gorm.DB, f *webFixture) models.Order {
	t.Helper()
	order := models.Order{
		OrderNumber: uuid.NewString(), CustomerID: f.customer.ID, RestaurantID: f.restaurant.ID,
		Status: models.StatusPlaced, DeliveryFee: 3, TotalPrice: 28, DeliveryAddress: "2 Client Ave",
		Items: []models.OrderItem{{MenuItemID: f.burger.ID, Quantity: 1, Price: 10, Name: "Burger"}},
	}
	if err := db.Create(&order).Error; err != nil {
		t.Fatalf("seed order: %v", err)
	}
	return order
}

func readyOrderWithTask(t *testing.T, db *gorm.DB, f *webFixture) (models.Order, models.DriverTask) {
	t.Helper()
	order := placeTestOrder(t, db, f)
	for _, s := range []models.OrderStatus{models.StatusConfirmed, models.StatusPreparing, models.StatusReadyForPickup} {
		if _, err := lifecycle.AdvanceOrder(db, f.restaurantActor(), order.ID, s, ""); err != nil {
			t.Fatalf("advance to %s: %v", s, err)
		}
	}
	var task models.DriverTask
	if err := db.Where("order_id = ?", order.ID).First(&task).Error; err != nil {
		t.Fatalf("expected offered task: %v", err)
	}
	return order, task
}

func TestUpdateOrderStatusRejectsIllegalJump(t *testing.T) {
	db := newTestDB(t)
	f := seedWeb(t, db)
	order := placeTestOrder(t, db, f)

	w := performAs(t, f.restaurantActor(), http.MethodPut,
		fmt.Sprintf("/api/restaurant/orders/%d/status", order.ID),
		func(r *gin.Engine, inject gin.HandlerFunc) {
			r.PUT("/api/restaurant/orders/:id/status", inject, UpdateOrderStatus)
		}, gin.H{"status": models.StatusDelivered})

	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("illegal jump must return 422, got %d: %s", w.Code, w.Body.String())
	}
	body := decodeBody(t, w)
	msg := body["error"].(string)
	if msg == "" {
		t.Fatal("rejection must carry an explanatory error body")
	}

	var got models.Order
	db.First(&got, order.ID)
	if got.Status != models.StatusPlaced {
		t.Fatalf("order must remain PLACED, got %s", got.Status)
	}
}

func TestAcceptTaskConflict(t *testing.T) {
	db := newTestDB(t)
	f := seedWeb(t, db)
	_, task := readyOrderWithTask(t, db, f)

	if _, err := lifecycle.ClaimTask(db, f.driverA.ID, task.ID); err != nil {
		t.Fatalf("first claim: %v", err)
	}

	w := performAs(t, models.Actor{Role: models.RoleDriver, UserID: f.driverB.ID},
		http.MethodPost, fmt.Sprintf("/api/driver/tasks/%d/accept", task.ID),
		func(r *gin.Engine, inject gin.HandlerFunc) {
			r.POST("/api/driver/tasks/:id/accept", inject, AcceptTask)
		}, nil)

	if w.Code != http.StatusConflict {
		t.Fatalf("losing a claim race must return 409, got %d: %s", w.Code, w.Body.String())
	}
}

func TestPickedUpByWrongDriver(t *testing.T) {
	db := newTestDB(t)
	f := seedWeb(t, db)
	_, task := readyOrderWithTask(t, db, f)

	if _, err := lifecycle.ClaimTask(db, f.driverA.ID, task.ID); err != nil {
		t.Fatalf("claim: %v", err)
	}

	w := performAs(t, models.Actor{Role: models.RoleDriver, UserID: f.driverB.ID},
		http.MethodPost, fmt.Sprintf("/api/driver/tasks/%d/picked_up", task.ID),
		func(r *gin.Engine, inject gin.HandlerFunc) {
			r.POST("/api/driver/tasks/:id/picked_up", inject, PickedUpTask)
		}, nil)

	if w.Code != http.StatusForbidden {
		t.Fatalf("wrong driver must get 403, got %d: %s", w.Code, w.Body.String())
	}
}

func TestTaskNotFound(t *testing.T) {
	db := newTestDB(t)
	f := seedWeb(t, db)

	w := performAs(t, models.Actor{Role: models.RoleDriver, UserID: f.driverA.ID},
		http.MethodPost, "/api/driver/tasks/9999/accept",
		func(r *gin.Engine, inject gin.HandlerFunc) {
			r.POST("/api/driver/tasks/:id/accept", inject, AcceptTask)
		}, nil)

	if w.Code != http.StatusNotFound {
		t.Fatalf("missing task must return 404, got %d", w.Code)
	}
}

func TestDashboardStatisticsEndpoint(t *testing.T) {
	db := newTestDB(t)
	f := seedWeb(t, db)
	for _, o := range []models.Order{
		{Status: models.StatusDelivered, TotalPrice: 28},
		{Status: models.StatusDelivered, TotalPrice: 12},
		{Status: models.StatusCancelled, TotalPrice: 50},
	} {
		o.OrderNumber = uuid.NewString()
		o.CustomerID = f.customer.ID
		o.RestaurantID = f.restaurant.ID
		o.DeliveryAddress = "x"
		if err := db.Create(&o).Error; err != nil {
			t.Fatalf("seed order: %v", err)
		}
	}

	register := func(r *gin.Engine, inject gin.HandlerFunc) {
		r.GET("/api/orders/dashboard/statistics", inject, GetOrderStatistics)
	}

	w := performAs(t, f.restaurantActor(), http.MethodGet, "/api/orders/dashboard/statistics", register, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	body := decodeBody(t, w)
	if got := body["orders_count"].(float64); got != 2 {
		t.Fatalf("expected 2 counted orders, got %.0f", got)
	}
	if got := body["revenue"].(float64); got != 40 {
		t.Fatalf("expected revenue 40 (cancelled excluded), got %.2f", got)
	}
	if got := body["average_order_price"].(float64); got != 20 {
		t.Fatalf("expected average 20, got %.2f", got)
	}

	// Bad date input is a client error
	w = performAs(t, f.restaurantActor(), http.MethodGet, "/api/orders/dashboard/statistics?date_from=garbage", register, nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("invalid date_from must return 400, got %d", w.Code)
	}
}
