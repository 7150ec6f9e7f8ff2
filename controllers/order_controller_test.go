package controllers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/muhijericho/capstone-topstyle-sub000/config"
	"github.com/muhijericho/capstone-topstyle-sub000/models"
	"github.com/muhijericho/capstone-topstyle-sub000/services"
)

// OrderControllerTestSuite defines the test suite for order endpoints
type OrderControllerTestSuite struct {
	suite.Suite
	router   *gin.Engine
	db       *gorm.DB
	customer models.Customer
	gown     models.Product
	labor    models.Product
}

// SetupTest runs before each test
func (suite *OrderControllerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	suite.NoError(err)
	suite.db = db
	suite.NoError(config.Migrate(db))
	config.SetDB(db)
	services.FlushListeners()

	// Fixtures shared by all order tests.
	suite.customer = models.Customer{Name: "Maria Cruz", Phone: "09171234567"}
	suite.NoError(db.Create(&suite.customer).Error)

	gowns := models.Category{Name: "Gowns"}
	suite.NoError(db.Create(&gowns).Error)
	serviceCat := models.Category{Name: "Services"}
	suite.NoError(db.Create(&serviceCat).Error)

	suite.gown = models.Product{
		Name:         "Blue Evening Gown",
		CategoryID:   gowns.ID,
		ProductType:  models.ProductTypeRental,
		Price:        decimal.NewFromInt(1500),
		Cost:         decimal.NewFromInt(5000),
		Quantity:     1,
		IsActive:     true,
		RentalStatus: models.RentalStatusAvailable,
	}
	suite.NoError(db.Create(&suite.gown).Error)

	suite.labor = models.Product{
		Name:        "Repair Labor",
		CategoryID:  serviceCat.ID,
		ProductType: models.ProductTypeService,
		Price:       decimal.NewFromInt(300),
		Cost:        decimal.Zero,
		Quantity:    1,
		IsActive:    true,
	}
	suite.NoError(db.Create(&suite.labor).Error)

	suite.router = gin.New()
	v1 := suite.router.Group("/api/v1")
	{
		v1.POST("/orders", suite.mockAuth("auth0|staff"), CreateOrder)
		v1.GET("/orders", suite.mockAuth("auth0|staff"), ListOrders)
		v1.GET("/orders/:id", suite.mockAuth("auth0|staff"), GetOrder)
		v1.POST("/orders/:id/payments", suite.mockAuth("auth0|staff"), ApplyPayment)
		v1.POST("/orders/:id/return", suite.mockAuth("auth0|staff"), ReturnOrder)
		v1.POST("/orders/:id/cancel", suite.mockAuth("auth0|staff"), CancelOrder)
		v1.POST("/orders/:id/archive", suite.mockAuth("auth0|staff"), ArchiveOrder)
		v1.PUT("/orders/:id/status", suite.mockAuth("auth0|staff"), UpdateOrderStatus)
	}
}

// TearDownTest runs after each test
func (suite *OrderControllerTestSuite) TearDownTest() {
	if sqlDB, err := suite.db.DB(); err == nil {
		sqlDB.Close()
	}
}

// mockAuth simulates an authenticated request
func (suite *OrderControllerTestSuite) mockAuth(auth0ID string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("user_id", auth0ID)
		c.Next()
	}
}

func (suite *OrderControllerTestSuite) request(method, path string, body interface{}) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		suite.NoError(err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req, _ := http.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *OrderControllerTestSuite) createRentalOrder() map[string]interface{} {
	w := suite.request("POST", "/api/v1/orders", gin.H{
		"customer_id": suite.customer.ID,
		"order_type":  "rental",
		"items":       []gin.H{{"product_id": suite.gown.ID, "quantity": 1}},
	})
	suite.Equal(http.StatusCreated, w.Code, w.Body.String())

	var response map[string]interface{}
	suite.NoError(json.Unmarshal(w.Body.Bytes(), &response))
	return response["data"].(map[string]interface{})
}

func (suite *OrderControllerTestSuite) TestCreateRentalOrder() {
	data := suite.createRentalOrder()

	suite.Equal("TS01RENT-O01", data["order_identifier"])
	suite.Equal("rented", data["status"])
	suite.Equal("2000", data["total_amount"])
	suite.NotNil(data["due_date"])

	customer := data["customer"].(map[string]interface{})
	suite.Equal("Maria Cruz", customer["name"])
}

func (suite *OrderControllerTestSuite) TestCreateOrderValidation() {
	// Missing items.
	w := suite.request("POST", "/api/v1/orders", gin.H{
		"customer_id": suite.customer.ID,
		"order_type":  "rental",
	})
	suite.Equal(http.StatusBadRequest, w.Code)

	var response map[string]interface{}
	suite.NoError(json.Unmarshal(w.Body.Bytes(), &response))
	suite.Equal(false, response["success"])
	errObj := response["error"].(map[string]interface{})
	suite.Equal("VALIDATION_ERROR", errObj["code"])

	// Unknown customer.
	w = suite.request("POST", "/api/v1/orders", gin.H{
		"customer_id": 9999,
		"order_type":  "rental",
		"items":       []gin.H{{"product_id": suite.gown.ID, "quantity": 1}},
	})
	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *OrderControllerTestSuite) TestDoubleRentReturnsConflict() {
	suite.createRentalOrder()

	w := suite.request("POST", "/api/v1/orders", gin.H{
		"customer_id": suite.customer.ID,
		"order_type":  "rental",
		"items":       []gin.H{{"product_id": suite.gown.ID, "quantity": 1}},
	})
	suite.Equal(http.StatusConflict, w.Code)

	var response map[string]interface{}
	suite.NoError(json.Unmarshal(w.Body.Bytes(), &response))
	errObj := response["error"].(map[string]interface{})
	suite.Equal("PRODUCT_UNAVAILABLE", errObj["code"])
}

func (suite *OrderControllerTestSuite) TestGetOrderByIdentifier() {
	data := suite.createRentalOrder()
	identifier := data["order_identifier"].(string)

	w := suite.request("GET", "/api/v1/orders/"+identifier, nil)
	suite.Equal(http.StatusOK, w.Code)

	var response map[string]interface{}
	suite.NoError(json.Unmarshal(w.Body.Bytes(), &response))
	fetched := response["data"].(map[string]interface{})
	suite.Equal(identifier, fetched["order_identifier"])

	w = suite.request("GET", "/api/v1/orders/TS01RENT-O99", nil)
	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *OrderControllerTestSuite) TestListOrders() {
	suite.createRentalOrder()

	w := suite.request("GET", "/api/v1/orders", nil)
	suite.Equal(http.StatusOK, w.Code)

	var response map[string]interface{}
	suite.NoError(json.Unmarshal(w.Body.Bytes(), &response))
	orders := response["data"].([]interface{})
	suite.Len(orders, 1)

	w = suite.request("GET", "/api/v1/orders?type=repair", nil)
	suite.NoError(json.Unmarshal(w.Body.Bytes(), &response))
	orders = response["data"].([]interface{})
	suite.Empty(orders)
}

func (suite *OrderControllerTestSuite) TestPaymentFlow() {
	data := suite.createRentalOrder()
	orderID := uint(data["id"].(float64))

	w := suite.request("POST", fmt.Sprintf("/api/v1/orders/%d/payments", orderID), gin.H{
		"amount": "500",
		"method": "gcash",
	})
	suite.Equal(http.StatusOK, w.Code, w.Body.String())

	var response map[string]interface{}
	suite.NoError(json.Unmarshal(w.Body.Bytes(), &response))
	paid := response["data"].(map[string]interface{})
	suite.Equal("1500", paid["balance"])

	// Overpayment is rejected with its own code.
	w = suite.request("POST", fmt.Sprintf("/api/v1/orders/%d/payments", orderID), gin.H{
		"amount": "5000",
	})
	suite.Equal(http.StatusBadRequest, w.Code)
	suite.NoError(json.Unmarshal(w.Body.Bytes(), &response))
	errObj := response["error"].(map[string]interface{})
	suite.Equal("OVERPAYMENT", errObj["code"])
}

func (suite *OrderControllerTestSuite) TestReturnFlow() {
	data := suite.createRentalOrder()
	orderID := uint(data["id"].(float64))

	w := suite.request("POST", fmt.Sprintf("/api/v1/orders/%d/return", orderID), nil)
	suite.Equal(http.StatusOK, w.Code, w.Body.String())

	var response map[string]interface{}
	suite.NoError(json.Unmarshal(w.Body.Bytes(), &response))
	returned := response["data"].(map[string]interface{})
	suite.Equal("completed", returned["status"])

	// The gown is back on the rack.
	var product models.Product
	suite.NoError(suite.db.First(&product, suite.gown.ID).Error)
	suite.Equal(models.RentalStatusAvailable, product.RentalStatus)

	// A second return is an invalid transition.
	w = suite.request("POST", fmt.Sprintf("/api/v1/orders/%d/return", orderID), nil)
	suite.Equal(http.StatusConflict, w.Code)
}

func (suite *OrderControllerTestSuite) TestStatusTransitionEndpoint() {
	w := suite.request("POST", "/api/v1/orders", gin.H{
		"customer_id": suite.customer.ID,
		"order_type":  "repair",
		"items":       []gin.H{{"product_id": suite.labor.ID, "quantity": 1}},
		"notes":       "replace zipper",
	})
	suite.Equal(http.StatusCreated, w.Code, w.Body.String())

	var response map[string]interface{}
	suite.NoError(json.Unmarshal(w.Body.Bytes(), &response))
	orderID := uint(response["data"].(map[string]interface{})["id"].(float64))

	w = suite.request("PUT", fmt.Sprintf("/api/v1/orders/%d/status", orderID), gin.H{
		"status": "in_progress",
	})
	suite.Equal(http.StatusOK, w.Code, w.Body.String())

	// Illegal jump.
	w = suite.request("PUT", fmt.Sprintf("/api/v1/orders/%d/status", orderID), gin.H{
		"status": "completed",
	})
	suite.Equal(http.StatusOK, w.Code, "in_progress -> completed is legal for repairs")

	w = suite.request("PUT", fmt.Sprintf("/api/v1/orders/%d/status", orderID), gin.H{
		"status": "in_progress",
	})
	suite.Equal(http.StatusConflict, w.Code, "terminal orders accept no transitions")
}

func (suite *OrderControllerTestSuite) TestArchiveFlow() {
	data := suite.createRentalOrder()
	orderID := uint(data["id"].(float64))

	// Active orders cannot be archived.
	w := suite.request("POST", fmt.Sprintf("/api/v1/orders/%d/archive", orderID), nil)
	suite.Equal(http.StatusBadRequest, w.Code)

	suite.request("POST", fmt.Sprintf("/api/v1/orders/%d/return", orderID), nil)

	w = suite.request("POST", fmt.Sprintf("/api/v1/orders/%d/archive", orderID), nil)
	suite.Equal(http.StatusOK, w.Code, w.Body.String())

	// Archived orders disappear from the list.
	w = suite.request("GET", "/api/v1/orders", nil)
	var response map[string]interface{}
	suite.NoError(json.Unmarshal(w.Body.Bytes(), &response))
	suite.Empty(response["data"].([]interface{}))
}

func (suite *OrderControllerTestSuite) TestCancelFlow() {
	data := suite.createRentalOrder()
	orderID := uint(data["id"].(float64))

	w := suite.request("POST", fmt.Sprintf("/api/v1/orders/%d/cancel", orderID), nil)
	suite.Equal(http.StatusOK, w.Code, w.Body.String())

	var response map[string]interface{}
	suite.NoError(json.Unmarshal(w.Body.Bytes(), &response))
	cancelled := response["data"].(map[string]interface{})
	suite.Equal("cancelled", cancelled["status"])

	var product models.Product
	suite.NoError(suite.db.First(&product, suite.gown.ID).Error)
	suite.Equal(models.RentalStatusAvailable, product.RentalStatus)
}

func TestOrderControllerTestSuite(t *testing.T) {
	suite.Run(t, new(OrderControllerTestSuite))
}
