package middleware

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/muhijericho/capstone-topstyle-sub000/config"
	"github.com/muhijericho/capstone-topstyle-sub000/models"
)

func TestHasScope(t *testing.T) {
	claims := CustomClaims{Scope: "read:orders write:orders"}

	assert.True(t, claims.HasScope("read:orders"))
	assert.True(t, claims.HasScope("write:orders"))
	assert.False(t, claims.HasScope("admin:orders"))

	empty := CustomClaims{}
	assert.False(t, empty.HasScope("read:orders"))
}

func TestGetUserID(t *testing.T) {
	gin.SetMode(gin.TestMode)

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	_, err := GetUserID(c)
	assert.Error(t, err)

	c.Set("user_id", "auth0|abc123")
	userID, err := GetUserID(c)
	require.NoError(t, err)
	assert.Equal(t, "auth0|abc123", userID)
}

func TestCurrentActorID(t *testing.T) {
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, config.Migrate(db))
	config.SetDB(db)
	defer func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	}()

	staff := models.User{Auth0ID: "auth0|staff-1", Name: "Jo", Email: "jo@example.com", Role: "staff"}
	require.NoError(t, db.Create(&staff).Error)

	// No subject in context: operations proceed unattributed.
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	assert.Nil(t, CurrentActorID(c))

	// Subject with no matching user record: still unattributed.
	c, _ = gin.CreateTestContext(httptest.NewRecorder())
	c.Set("user_id", "auth0|unknown")
	assert.Nil(t, CurrentActorID(c))

	// Known subject resolves to the staff member's ID.
	c, _ = gin.CreateTestContext(httptest.NewRecorder())
	c.Set("user_id", "auth0|staff-1")
	actorID := CurrentActorID(c)
	require.NotNil(t, actorID)
	assert.Equal(t, staff.ID, *actorID)
}
