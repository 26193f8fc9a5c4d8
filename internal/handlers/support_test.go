package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/yukikurage/project-tracker-api/internal/constants"
	"github.com/yukikurage/project-tracker-api/internal/database"
	"github.com/yukikurage/project-tracker-api/internal/dto"
	"github.com/yukikurage/project-tracker-api/internal/middleware"
	"github.com/yukikurage/project-tracker-api/internal/models"
	"github.com/yukikurage/project-tracker-api/internal/repository"
	"github.com/yukikurage/project-tracker-api/internal/services"
)

// SupportHandlerTestSuite exercises the support ticket routes through the
// real global RBAC middleware.
type SupportHandlerTestSuite struct {
	suite.Suite
	db     *gorm.DB
	router *gin.Engine
}

// SetupTest runs before each test
func (suite *SupportHandlerTestSuite) SetupTest() {
	var err error

	suite.db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	suite.Require().NoError(err)

	err = suite.db.AutoMigrate(
		&models.User{},
		&models.Role{},
		&models.SupportRequest{},
	)
	suite.Require().NoError(err)

	suite.Require().NoError(database.SeedRoles(suite.db))
	database.SetDB(suite.db)

	supportRepo := repository.NewSupportRepository(suite.db)
	userRepo := repository.NewUserRepository(suite.db)
	supportService := services.NewSupportService(supportRepo, userRepo)
	handler := NewSupportHandler(supportService)

	gin.SetMode(gin.TestMode)
	suite.router = gin.New()
	suite.router.Use(func(c *gin.Context) {
		if v := c.GetHeader("X-Test-User"); v != "" {
			if id, err := strconv.ParseUint(v, 10, 64); err == nil {
				c.Set(constants.ContextKeyUserID, id)
			}
		}
		c.Next()
	})

	support := suite.router.Group("/api/support")
	{
		support.GET("", middleware.RequirePermission(models.PermissionRead), handler.ListRequests)
		support.GET("/:id", middleware.RequirePermission(models.PermissionRead), handler.GetRequest)
		support.POST("", handler.CreateRequest)
		support.PUT("/:id/resolve", middleware.RequireAdmin(), handler.ResolveRequest)
		support.PUT("/:id/reject", middleware.RequireAdmin(), handler.RejectRequest)
		support.DELETE("/:id", handler.DeleteRequest)
	}
}

// TearDownTest runs after each test
func (suite *SupportHandlerTestSuite) TearDownTest() {
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.Close()
}

func (suite *SupportHandlerTestSuite) createTestUser(email, roleName string) *models.User {
	var role models.Role
	suite.Require().NoError(suite.db.Where("name = ?", roleName).First(&role).Error)

	user := &models.User{
		Name:         email,
		Email:        email,
		PasswordHash: "hashedpassword",
		RoleID:       &role.ID,
	}
	suite.Require().NoError(suite.db.Create(user).Error)
	return user
}

func (suite *SupportHandlerTestSuite) createTestTicket(userID uint64, subject string) *models.SupportRequest {
	ticket := &models.SupportRequest{
		UserID:  userID,
		Subject: subject,
		Message: "something is broken",
		Status:  models.SupportStatusPending,
	}
	suite.Require().NoError(suite.db.Create(ticket).Error)
	return ticket
}

func (suite *SupportHandlerTestSuite) doRequest(method, url string, payload any, userID uint64) *httptest.ResponseRecorder {
	var req *http.Request
	if payload != nil {
		body, err := json.Marshal(payload)
		suite.Require().NoError(err)
		req = httptest.NewRequest(method, url, bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, url, nil)
	}
	if userID != 0 {
		req.Header.Set("X-Test-User", strconv.FormatUint(userID, 10))
	}

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *SupportHandlerTestSuite) decodeTicket(w *httptest.ResponseRecorder) dto.SupportRequestDTO {
	var response struct {
		Success bool                  `json:"success"`
		Data    dto.SupportRequestDTO `json:"data"`
	}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	suite.True(response.Success)
	return response.Data
}

func (suite *SupportHandlerTestSuite) decodeTicketList(w *httptest.ResponseRecorder) []dto.SupportRequestDTO {
	var response struct {
		Success bool                    `json:"success"`
		Count   int                     `json:"count"`
		Data    []dto.SupportRequestDTO `json:"data"`
	}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	suite.True(response.Success)
	suite.Equal(len(response.Data), response.Count)
	return response.Data
}

func (suite *SupportHandlerTestSuite) TestCreateRequest_StartsPending() {
	user := suite.createTestUser("reporter@example.com", "user")

	w := suite.doRequest(http.MethodPost, "/api/support", gin.H{
		"subject": "Cannot log in",
		"message": "My password reset never arrives.",
	}, user.ID)

	suite.Equal(http.StatusCreated, w.Code)
	ticket := suite.decodeTicket(w)
	assert.Equal(suite.T(), models.SupportStatusPending, ticket.Status)
	assert.Equal(suite.T(), "Cannot log in", ticket.Subject)
	suite.Require().NotNil(ticket.User)
	assert.Equal(suite.T(), user.ID, ticket.User.ID)
	assert.Nil(suite.T(), ticket.ResolvedBy)
}

func (suite *SupportHandlerTestSuite) TestCreateRequest_MissingSubject() {
	user := suite.createTestUser("reporter@example.com", "user")

	w := suite.doRequest(http.MethodPost, "/api/support", gin.H{
		"message": "no subject here",
	}, user.ID)

	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *SupportHandlerTestSuite) TestListRequests_UserSeesOnlyOwn() {
	alice := suite.createTestUser("alice@example.com", "user")
	bob := suite.createTestUser("bob@example.com", "user")
	suite.createTestTicket(alice.ID, "alice ticket")
	suite.createTestTicket(bob.ID, "bob ticket")

	w := suite.doRequest(http.MethodGet, "/api/support", nil, alice.ID)

	suite.Equal(http.StatusOK, w.Code)
	tickets := suite.decodeTicketList(w)
	suite.Require().Len(tickets, 1)
	assert.Equal(suite.T(), "alice ticket", tickets[0].Subject)
}

func (suite *SupportHandlerTestSuite) TestListRequests_AdminSeesAll() {
	admin := suite.createTestUser("admin@example.com", "admin")
	alice := suite.createTestUser("alice@example.com", "user")
	suite.createTestTicket(alice.ID, "alice ticket")
	suite.createTestTicket(admin.ID, "admin ticket")

	w := suite.doRequest(http.MethodGet, "/api/support", nil, admin.ID)

	suite.Equal(http.StatusOK, w.Code)
	tickets := suite.decodeTicketList(w)
	assert.Len(suite.T(), tickets, 2)
}

func (suite *SupportHandlerTestSuite) TestGetRequest_OtherUsersTicketReadsAsNotFound() {
	alice := suite.createTestUser("alice@example.com", "user")
	bob := suite.createTestUser("bob@example.com", "user")
	ticket := suite.createTestTicket(bob.ID, "bob ticket")

	w := suite.doRequest(http.MethodGet, "/api/support/"+strconv.FormatUint(ticket.ID, 10), nil, alice.ID)

	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *SupportHandlerTestSuite) TestResolveRequest_DefaultResponse() {
	admin := suite.createTestUser("admin@example.com", "admin")
	alice := suite.createTestUser("alice@example.com", "user")
	ticket := suite.createTestTicket(alice.ID, "alice ticket")

	w := suite.doRequest(http.MethodPut, "/api/support/"+strconv.FormatUint(ticket.ID, 10)+"/resolve", nil, admin.ID)

	suite.Equal(http.StatusOK, w.Code)
	resolved := suite.decodeTicket(w)
	assert.Equal(suite.T(), models.SupportStatusResolved, resolved.Status)
	assert.Equal(suite.T(), "Request resolved by admin", resolved.AdminResponse)
	suite.Require().NotNil(resolved.ResolvedBy)
	assert.Equal(suite.T(), admin.ID, resolved.ResolvedBy.ID)
	assert.NotNil(suite.T(), resolved.ResolvedAt)
}

func (suite *SupportHandlerTestSuite) TestRejectRequest_CustomResponse() {
	admin := suite.createTestUser("admin@example.com", "admin")
	alice := suite.createTestUser("alice@example.com", "user")
	ticket := suite.createTestTicket(alice.ID, "alice ticket")

	w := suite.doRequest(http.MethodPut, "/api/support/"+strconv.FormatUint(ticket.ID, 10)+"/reject", gin.H{
		"admin_response": "Working as intended.",
	}, admin.ID)

	suite.Equal(http.StatusOK, w.Code)
	rejected := suite.decodeTicket(w)
	assert.Equal(suite.T(), models.SupportStatusRejected, rejected.Status)
	assert.Equal(suite.T(), "Working as intended.", rejected.AdminResponse)
}

func (suite *SupportHandlerTestSuite) TestResolveRequest_NonAdminForbidden() {
	alice := suite.createTestUser("alice@example.com", "user")
	ticket := suite.createTestTicket(alice.ID, "alice ticket")

	w := suite.doRequest(http.MethodPut, "/api/support/"+strconv.FormatUint(ticket.ID, 10)+"/resolve", nil, alice.ID)

	suite.Equal(http.StatusForbidden, w.Code)

	var stored models.SupportRequest
	suite.Require().NoError(suite.db.First(&stored, ticket.ID).Error)
	assert.Equal(suite.T(), models.SupportStatusPending, stored.Status)
}

func (suite *SupportHandlerTestSuite) TestResolveRequest_MissingTicket() {
	admin := suite.createTestUser("admin@example.com", "admin")

	w := suite.doRequest(http.MethodPut, "/api/support/9999/resolve", nil, admin.ID)

	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *SupportHandlerTestSuite) TestDeleteRequest_OwnTicket() {
	alice := suite.createTestUser("alice@example.com", "user")
	ticket := suite.createTestTicket(alice.ID, "alice ticket")

	w := suite.doRequest(http.MethodDelete, "/api/support/"+strconv.FormatUint(ticket.ID, 10), nil, alice.ID)

	suite.Equal(http.StatusOK, w.Code)

	var count int64
	suite.db.Model(&models.SupportRequest{}).Where("id = ?", ticket.ID).Count(&count)
	assert.Zero(suite.T(), count)
}

func (suite *SupportHandlerTestSuite) TestDeleteRequest_OtherUsersTicketDenied() {
	alice := suite.createTestUser("alice@example.com", "user")
	bob := suite.createTestUser("bob@example.com", "user")
	ticket := suite.createTestTicket(bob.ID, "bob ticket")

	w := suite.doRequest(http.MethodDelete, "/api/support/"+strconv.FormatUint(ticket.ID, 10), nil, alice.ID)

	suite.Equal(http.StatusNotFound, w.Code)

	var count int64
	suite.db.Model(&models.SupportRequest{}).Where("id = ?", ticket.ID).Count(&count)
	assert.EqualValues(suite.T(), 1, count)
}

func (suite *SupportHandlerTestSuite) TestDeleteRequest_AdminDeletesAny() {
	admin := suite.createTestUser("admin@example.com", "admin")
	alice := suite.createTestUser("alice@example.com", "user")
	ticket := suite.createTestTicket(alice.ID, "alice ticket")

	w := suite.doRequest(http.MethodDelete, "/api/support/"+strconv.FormatUint(ticket.ID, 10), nil, admin.ID)

	suite.Equal(http.StatusOK, w.Code)
}

func TestSupportHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(SupportHandlerTestSuite))
}
