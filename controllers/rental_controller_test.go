package controllers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/muhijericho/capstone-topstyle-sub000/config"
	"github.com/muhijericho/capstone-topstyle-sub000/models"
	"github.com/muhijericho/capstone-topstyle-sub000/services"
)

// RentalControllerTestSuite defines the test suite for rental endpoints
type RentalControllerTestSuite struct {
	suite.Suite
	router *gin.Engine
	db     *gorm.DB
}

// SetupTest runs before each test
func (suite *RentalControllerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	suite.NoError(err)
	suite.db = db
	suite.NoError(config.Migrate(db))
	config.SetDB(db)
	services.FlushListeners()

	suite.router = gin.New()
	v1 := suite.router.Group("/api/v1")
	{
		v1.GET("/rentals/status", ListRentals)
		v1.GET("/rentals/overdue", ListOverdueRentals)
		v1.POST("/rentals/sync", SyncRentals)
		v1.POST("/rentals/check-overdue", CheckOverdue)
	}
}

// TearDownTest runs after each test
func (suite *RentalControllerTestSuite) TearDownTest() {
	if sqlDB, err := suite.db.DB(); err == nil {
		sqlDB.Close()
	}
}

func (suite *RentalControllerTestSuite) seedRental(name string, status models.RentalStatus, due *time.Time) models.Product {
	category := models.Category{Name: "Gowns " + name}
	suite.NoError(suite.db.Create(&category).Error)
	product := models.Product{
		Name:          name,
		CategoryID:    category.ID,
		ProductType:   models.ProductTypeRental,
		Price:         decimal.NewFromInt(1500),
		Cost:          decimal.NewFromInt(5000),
		Quantity:      1,
		IsActive:      true,
		RentalStatus:  status,
		RentalDueDate: due,
	}
	suite.NoError(suite.db.Create(&product).Error)
	return product
}

func (suite *RentalControllerTestSuite) get(path string) (map[string]interface{}, int) {
	req, _ := http.NewRequest("GET", path, nil)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	var response map[string]interface{}
	suite.NoError(json.Unmarshal(w.Body.Bytes(), &response))
	return response, w.Code
}

func (suite *RentalControllerTestSuite) TestListRentalsWithStatusFilter() {
	suite.seedRental("Gown A", models.RentalStatusAvailable, nil)
	suite.seedRental("Gown B", models.RentalStatusRented, nil)

	response, code := suite.get("/api/v1/rentals/status")
	suite.Equal(http.StatusOK, code)
	suite.Len(response["data"].([]interface{}), 2)

	response, code = suite.get("/api/v1/rentals/status?status=rented")
	suite.Equal(http.StatusOK, code)
	rentals := response["data"].([]interface{})
	suite.Len(rentals, 1)
	suite.Equal("Gown B", rentals[0].(map[string]interface{})["name"])
}

func (suite *RentalControllerTestSuite) TestListOverdueRentals() {
	past := time.Now().Add(-2 * time.Hour)
	future := time.Now().Add(48 * time.Hour)
	suite.seedRental("Late Gown", models.RentalStatusRented, &past)
	suite.seedRental("On Time Gown", models.RentalStatusRented, &future)

	response, code := suite.get("/api/v1/rentals/overdue")
	suite.Equal(http.StatusOK, code)
	overdue := response["data"].([]interface{})
	suite.Len(overdue, 1)
	suite.Equal("Late Gown", overdue[0].(map[string]interface{})["name"])
}

func (suite *RentalControllerTestSuite) TestSyncEndpointReportsCorrections() {
	// A product stuck rented with no active order is drift the sweep fixes.
	suite.seedRental("Stuck Gown", models.RentalStatusRented, nil)

	req, _ := http.NewRequest("POST", "/api/v1/rentals/sync", nil)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	suite.Equal(http.StatusOK, w.Code, w.Body.String())

	var response map[string]interface{}
	suite.NoError(json.Unmarshal(w.Body.Bytes(), &response))
	data := response["data"].(map[string]interface{})
	suite.EqualValues(1, data["corrected"])

	// Second sweep is a no-op.
	w = httptest.NewRecorder()
	req, _ = http.NewRequest("POST", "/api/v1/rentals/sync", nil)
	suite.router.ServeHTTP(w, req)
	suite.NoError(json.Unmarshal(w.Body.Bytes(), &response))
	data = response["data"].(map[string]interface{})
	suite.EqualValues(0, data["corrected"])
}

func (suite *RentalControllerTestSuite) TestCheckOverdueEndpoint() {
	customer := models.Customer{Name: "Maria Cruz", Phone: "09171234567"}
	suite.NoError(suite.db.Create(&customer).Error)
	pastDue := time.Now().Add(-time.Hour)
	order := models.Order{
		OrderUID:        mustUUID(),
		OrderIdentifier: "TS01RENT-O01",
		CustomerID:      customer.ID,
		OrderType:       models.OrderTypeRental,
		Status:          models.StatusRented,
		DueDate:         &pastDue,
	}
	suite.NoError(suite.db.Create(&order).Error)

	req, _ := http.NewRequest("POST", "/api/v1/rentals/check-overdue", nil)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	suite.Equal(http.StatusOK, w.Code, w.Body.String())

	var response map[string]interface{}
	suite.NoError(json.Unmarshal(w.Body.Bytes(), &response))
	data := response["data"].(map[string]interface{})
	suite.EqualValues(1, data["updated"])

	var stored models.Order
	suite.NoError(suite.db.First(&stored, order.ID).Error)
	suite.Equal(models.StatusOverdue, stored.Status)
}

func TestRentalControllerTestSuite(t *testing.T) {
	suite.Run(t, new(RentalControllerTestSuite))
}
