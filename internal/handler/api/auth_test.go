//go:build unit

package api_test

import (
	"net/http"
	"testing"

	"edu-vouchers/internal/domain/user"
	"edu-vouchers/internal/handler/api"
	resdto "edu-vouchers/internal/handler/dto/response"
	"edu-vouchers/internal/usecase/commands"
	"edu-vouchers/internal/usecase/queries"
	"edu-vouchers/tests/common/builder"
	"edu-vouchers/tests/common/httptest"
	"edu-vouchers/tests/common/testutil"
	commandsmock "edu-vouchers/tests/mock/commands"
	queriesmock "edu-vouchers/tests/mock/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type AuthHandlerTestSuite struct {
	suite.Suite
	router       *gin.Engine
	mockCtrl     *gomock.Controller
	mockCommands *commandsmock.MockAuthCommands
	mockQueries  *queriesmock.MockUserQueries
	handler      *api.AuthHandler
	actorID      uuid.UUID
}

func (s *AuthHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()

	s.mockCtrl = gomock.NewController(s.T())
	s.mockCommands = commandsmock.NewMockAuthCommands(s.mockCtrl)
	s.mockQueries = queriesmock.NewMockUserQueries(s.mockCtrl)
	s.handler = api.NewAuthHandler(s.mockCommands, s.mockQueries)
	s.actorID = uuid.New()

	authMiddleware := func(c *gin.Context) {
		if c.GetHeader("Authorization") == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Access token required"})
			return
		}
		c.Set("user_id", s.actorID)
		c.Set("user_role", user.RoleStudent)
		c.Next()
	}

	s.router.POST("/auth/login", s.handler.Login)
	s.router.GET("/auth/me", authMiddleware, s.handler.Me)
}

func (s *AuthHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestAuthHandlerSuite(t *testing.T) {
	suite.Run(t, new(AuthHandlerTestSuite))
}

func (s *AuthHandlerTestSuite) TestLogin() {
	url := "/auth/login"
	ab := builder.NewAuthBuilder()
	reqBody := ab.BuildDTO()

	s.Run("success: returns the signed token and identity", func() {
		result := &commands.LoginResult{
			UserID:      s.actorID,
			Role:        user.RoleStudent.String(),
			AccessToken: "signed.jwt.token",
		}
		s.mockCommands.EXPECT().Login(gomock.Any(), ab.Email, ab.Password).Return(result, nil)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "")

		var got resdto.LoginResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &got)
		s.Equal("signed.jwt.token", got.AccessToken)
		s.Equal(s.actorID.String(), got.UserID)
		s.Equal("student", got.Role)
	})

	s.Run("error: missing fields map to 400", func() {
		for _, mutate := range []func(map[string]any){
			testutil.Field("email", nil),
			testutil.Field("password", nil),
		} {
			body := testutil.DtoMap(s.T(), reqBody, mutate)
			rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, body, "")
			httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid request format")
		}
	})

	s.Run("error: bad credentials map to 401", func() {
		s.mockCommands.EXPECT().Login(gomock.Any(), ab.Email, ab.Password).
			Return(nil, commands.ErrInvalidCredentials)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusUnauthorized, "Invalid email or password")
	})

	s.Run("error: deactivated account maps to 403", func() {
		s.mockCommands.EXPECT().Login(gomock.Any(), ab.Email, ab.Password).
			Return(nil, commands.ErrUserInactive)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusForbidden, "deactivated")
	})
}

func (s *AuthHandlerTestSuite) TestMe() {
	url := "/auth/me"

	s.Run("success: returns the current user", func() {
		view := &queries.AuthorizedUserView{
			ID:       s.actorID,
			Email:    "student@example.com",
			Role:     user.RoleStudent.String(),
			IsActive: true,
		}
		s.mockQueries.EXPECT().GetCurrentUser(gomock.Any(), s.actorID).Return(view, nil)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "bearer-token")

		var got resdto.MeResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &got)
		s.Require().NotNil(got.User)
		s.Equal("student@example.com", got.User.Email)
	})

	s.Run("error: no token maps to 401", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusUnauthorized, "Access token")
	})

	s.Run("error: vanished user maps to 404", func() {
		s.mockQueries.EXPECT().GetCurrentUser(gomock.Any(), s.actorID).
			Return(nil, queries.ErrUserNotFound)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusNotFound, "User not found")
	})
}
