//go:build unit

package api_test

import (
	"net/http"
	"testing"
	"time"

	"edu-vouchers/internal/domain/payment"
	"edu-vouchers/internal/domain/user"
	"edu-vouchers/internal/domain/voucher"
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

type PaymentHandlerTestSuite struct {
	suite.Suite
	router       *gin.Engine
	mockCtrl     *gomock.Controller
	mockCommands *commandsmock.MockPaymentCommands
	mockQueries  *queriesmock.MockPaymentQueries
	handler      *api.PaymentHandler
	actorID      uuid.UUID
	actorRole    user.Role
}

func (s *PaymentHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()

	s.mockCtrl = gomock.NewController(s.T())
	s.mockCommands = commandsmock.NewMockPaymentCommands(s.mockCtrl)
	s.mockQueries = queriesmock.NewMockPaymentQueries(s.mockCtrl)
	s.handler = api.NewPaymentHandler(s.mockCommands, s.mockQueries)
	s.actorID = uuid.New()
	s.actorRole = user.RoleStudent

	authMiddleware := func(c *gin.Context) {
		if c.GetHeader("Authorization") == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Access token required"})
			return
		}
		c.Set("user_id", s.actorID)
		c.Set("user_role", s.actorRole)
		c.Next()
	}

	s.router.POST("/payments/intent", authMiddleware, s.handler.CreateIntent)
	s.router.POST("/payments/confirm", authMiddleware, s.handler.Confirm)
	s.router.GET("/payments", authMiddleware, s.handler.ListMine)
	s.router.GET("/payments/:id", authMiddleware, s.handler.GetByID)
	s.router.POST("/payments/:id/refund", authMiddleware, s.handler.RequestRefund)
	s.router.GET("/payments/:id/refunds", authMiddleware, s.handler.ListRefunds)
}

func (s *PaymentHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestPaymentHandlerSuite(t *testing.T) {
	suite.Run(t, new(PaymentHandlerTestSuite))
}

func (s *PaymentHandlerTestSuite) TestCreateIntent() {
	url := "/payments/intent"
	pb := builder.NewPaymentBuilder()
	reqBody := pb.BuildCreateIntentRequestDTO()

	s.Run("success: returns 201 with the client secret", func() {
		processing, err := pb.WithUserID(s.actorID).BuildProcessing()
		s.Require().NoError(err)
		result := &commands.CreateIntentResult{Payment: processing, ClientSecret: "pi_test_123_secret"}

		s.mockCommands.EXPECT().CreateIntent(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ any, params commands.CreateIntentParams) (*commands.CreateIntentResult, error) {
				s.Equal(s.actorID, params.UserID)
				s.Equal(pb.VoucherTypeID, params.VoucherTypeID)
				s.Equal(pb.Quantity, params.Quantity)
				return result, nil
			})

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "bearer-token")

		var got resdto.PaymentIntentResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusCreated, &got)
		s.Equal("pi_test_123_secret", got.ClientSecret)
	})

	s.Run("error: missing required fields map to 400", func() {
		for _, mutate := range []func(map[string]any){
			testutil.Field("voucher_type_id", nil),
			testutil.Field("quantity", nil),
			testutil.Field("payment_method", nil),
		} {
			body := testutil.DtoMap(s.T(), reqBody, mutate)
			rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, body, "bearer-token")
			httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid request format")
		}
	})

	s.Run("error: command rejections map per cause", func() {
		cases := []struct {
			err        error
			expectCode int
		}{
			{commands.ErrInvalidQuantity, http.StatusBadRequest},
			{commands.ErrUnsupportedMethod, http.StatusBadRequest},
			{commands.ErrInvalidVoucherType, http.StatusNotFound},
			{commands.ErrUnknownDiscount, http.StatusNotFound},
			{commands.ErrDiscountNotApplicable, http.StatusBadRequest},
			{commands.ErrGatewayFailure, http.StatusBadGateway},
		}
		for _, tc := range cases {
			s.mockCommands.EXPECT().CreateIntent(gomock.Any(), gomock.Any()).Return(nil, tc.err)

			rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "bearer-token")
			s.Equal(tc.expectCode, rec.Code, "error %v", tc.err)
		}
	})
}

func (s *PaymentHandlerTestSuite) TestConfirm() {
	url := "/payments/confirm"
	pb := builder.NewPaymentBuilder()
	reqBody := pb.BuildConfirmRequestDTO()

	s.Run("success: returns the payment and minted vouchers", func() {
		completed, err := pb.WithUserID(s.actorID).BuildCompleted(time.Now())
		s.Require().NoError(err)

		vb := builder.NewVoucherBuilder().WithUserID(s.actorID)
		minted := vb.BuildReconstructed()
		result := &commands.ConfirmResult{Payment: completed, Vouchers: []*voucher.Voucher{minted}}

		s.mockCommands.EXPECT().Confirm(gomock.Any(), s.actorID, pb.IntentID).Return(result, nil)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "bearer-token")

		var got resdto.ConfirmResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &got)
		s.Require().Len(got.Vouchers, 1)
		s.Equal(minted.Code().String(), got.Vouchers[0].Code)
	})

	s.Run("error: missing intent id maps to 400", func() {
		body := testutil.DtoMap(s.T(), reqBody, testutil.Field("payment_intent_id", nil))
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, body, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid request format")
	})

	s.Run("error: command rejections map per cause", func() {
		cases := []struct {
			err        error
			expectCode int
		}{
			{commands.ErrPaymentNotFound, http.StatusNotFound},
			{commands.ErrPaymentNotSuccessful, http.StatusBadRequest},
			{commands.ErrPaymentAlreadyCompleted, http.StatusConflict},
			{commands.ErrPaymentNotConfirmable, http.StatusConflict},
			{commands.ErrDiscountExhausted, http.StatusConflict},
			{commands.ErrGatewayFailure, http.StatusBadGateway},
		}
		for _, tc := range cases {
			s.mockCommands.EXPECT().Confirm(gomock.Any(), s.actorID, pb.IntentID).Return(nil, tc.err)

			rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "bearer-token")
			s.Equal(tc.expectCode, rec.Code, "error %v", tc.err)
		}
	})
}

func (s *PaymentHandlerTestSuite) TestGetByID() {
	paymentID := uuid.New()
	url := "/payments/" + paymentID.String()

	s.Run("success: returns the payment view", func() {
		view := builder.NewPaymentBuilder().WithUserID(s.actorID).BuildView()
		s.mockQueries.EXPECT().GetByID(gomock.Any(), s.actorID, s.actorRole, paymentID).Return(view, nil)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "bearer-token")

		var got queries.PaymentView
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &got)
		s.Equal(view.TotalAmountCents, got.TotalAmountCents)
	})

	s.Run("error: malformed id maps to 400", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/payments/not-a-uuid", nil, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid payment ID")
	})

	s.Run("error: another user's payment maps to 403", func() {
		s.mockQueries.EXPECT().GetByID(gomock.Any(), s.actorID, s.actorRole, paymentID).
			Return(nil, queries.ErrPaymentAccessDenied)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusForbidden, "belongs to another user")
	})
}

func (s *PaymentHandlerTestSuite) TestRequestRefund() {
	paymentID := uuid.New()
	url := "/payments/" + paymentID.String() + "/refund"
	pb := builder.NewPaymentBuilder()
	reqBody := pb.BuildRefundRequestDTO()

	s.Run("success: returns 201 with the pending refund", func() {
		completed, err := pb.WithUserID(s.actorID).BuildCompleted(time.Now())
		s.Require().NoError(err)
		refund, err := payment.NewRefund(completed, nil, payment.ReasonCustomerRequest, "requested via support")
		s.Require().NoError(err)

		s.mockCommands.EXPECT().RequestRefund(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ any, params commands.RefundParams) (*payment.Refund, error) {
				s.Equal(s.actorID, params.UserID)
				s.Equal(paymentID, params.PaymentID)
				return refund, nil
			})

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "bearer-token")

		var got resdto.RefundResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusCreated, &got)
		s.Equal(refund.AmountCents(), got.AmountCents)
	})

	s.Run("error: missing reason maps to 400", func() {
		body := testutil.DtoMap(s.T(), reqBody, testutil.Field("reason", nil))
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, body, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid request format")
	})

	s.Run("error: duplicate refund maps to 409", func() {
		s.mockCommands.EXPECT().RequestRefund(gomock.Any(), gomock.Any()).
			Return(nil, commands.ErrRefundAlreadyExists)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusConflict, "already been requested")
	})

	s.Run("error: non-completed payment maps to 409", func() {
		s.mockCommands.EXPECT().RequestRefund(gomock.Any(), gomock.Any()).
			Return(nil, commands.ErrPaymentNotCompleted)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusConflict, "completed payments")
	})
}

func (s *PaymentHandlerTestSuite) TestListRefunds() {
	paymentID := uuid.New()
	url := "/payments/" + paymentID.String() + "/refunds"

	views := []*queries.RefundView{{ID: uuid.New(), PaymentID: paymentID, AmountCents: 3000, Reason: "customer_request", Status: "pending"}}
	s.mockQueries.EXPECT().ListRefunds(gomock.Any(), s.actorID, s.actorRole, paymentID).Return(views, nil)

	rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "bearer-token")

	var got []*queries.RefundView
	httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &got)
	s.Require().Len(got, 1)
	s.Equal(int64(3000), got[0].AmountCents)
}
