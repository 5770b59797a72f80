//go:build unit

package middleware_test

import (
	"errors"
	"net/http"
	"testing"

	"book-locker/internal/domain/user"
	"book-locker/internal/handler/middleware"
	"book-locker/tests/common/httptest"
	usecasemock "book-locker/tests/mock/usecase"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type AuthMiddlewareTestSuite struct {
	suite.Suite
	router    *gin.Engine
	mockCtrl  *gomock.Controller
	validator *usecasemock.MockTokenValidator
}

func (s *AuthMiddlewareTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()

	s.mockCtrl = gomock.NewController(s.T())
	s.validator = usecasemock.NewMockTokenValidator(s.mockCtrl)
	auth := middleware.NewAuthMiddleware(s.validator)

	whoami := func(c *gin.Context) {
		actor, ok := middleware.GetActor(c)
		if !ok {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.JSON(http.StatusOK, gin.H{"id": actor.ID.String(), "role": actor.Role.String()})
	}

	s.router.GET("/me", auth.RequireAuth(), whoami)
	s.router.GET("/device", auth.RequireAuth(), auth.RequireRoleAtLeast(user.RoleDevice), whoami)
	s.router.GET("/admin", auth.RequireAuth(), auth.RequireRoleAtLeast(user.RoleAdmin), whoami)
	s.router.GET("/misconfigured", auth.RequireRoleAtLeast(user.RoleMember), whoami)
}

func (s *AuthMiddlewareTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestAuthMiddlewareSuite(t *testing.T) {
	suite.Run(t, new(AuthMiddlewareTestSuite))
}

func (s *AuthMiddlewareTestSuite) TestRequireAuth() {
	s.Run("success: sets the actor from the token", func() {
		id := uuid.New()
		s.validator.EXPECT().ValidateToken("good-token").Return(id, user.RoleMember, nil)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/me", nil, "good-token")
		var body map[string]string
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Equal(id.String(), body["id"])
		s.Equal("member", body["role"])
	})

	s.Run("error: 401 without a token", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/me", nil, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusUnauthorized, "Access token required")
	})

	s.Run("error: 401 on an invalid token", func() {
		s.validator.EXPECT().ValidateToken("bad-token").Return(uuid.Nil, user.Role(""), errors.New("signature mismatch"))

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/me", nil, "bad-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusUnauthorized, "Invalid or expired token")
	})
}

func (s *AuthMiddlewareTestSuite) TestRequireRoleAtLeast() {
	cases := []struct {
		name       string
		path       string
		role       user.Role
		expectCode int
	}{
		{name: "member on device route", path: "/device", role: user.RoleMember, expectCode: http.StatusForbidden},
		{name: "device on device route", path: "/device", role: user.RoleDevice, expectCode: http.StatusOK},
		{name: "admin on device route", path: "/device", role: user.RoleAdmin, expectCode: http.StatusOK},
		{name: "device on admin route", path: "/admin", role: user.RoleDevice, expectCode: http.StatusForbidden},
		{name: "admin on admin route", path: "/admin", role: user.RoleAdmin, expectCode: http.StatusOK},
	}

	for _, tc := range cases {
		s.Run(tc.name, func() {
			s.validator.EXPECT().ValidateToken("token").Return(uuid.New(), tc.role, nil)

			rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, tc.path, nil, "token")
			if tc.expectCode == http.StatusOK {
				httptest.AssertSuccessResponse(s.T(), rec, tc.expectCode, nil)
			} else {
				httptest.AssertErrorResponse(s.T(), rec, tc.expectCode, "Insufficient permissions")
			}
		})
	}

	s.Run("error: 500 when used without RequireAuth", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/misconfigured", nil, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusInternalServerError, "Internal server error")
	})
}
