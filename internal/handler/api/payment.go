package api

import (
	"errors"
	"net/http"

	"edu-vouchers/internal/domain/user"
	reqdto "edu-vouchers/internal/handler/dto/request"
	resdto "edu-vouchers/internal/handler/dto/response"
	"edu-vouchers/internal/handler/middleware"
	"edu-vouchers/internal/usecase/commands"
	"edu-vouchers/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type PaymentHandler struct {
	paymentCommands commands.PaymentCommands
	paymentQueries  queries.PaymentQueries
}

func NewPaymentHandler(paymentCommands commands.PaymentCommands, paymentQueries queries.PaymentQueries) *PaymentHandler {
	return &PaymentHandler{
		paymentCommands: paymentCommands,
		paymentQueries:  paymentQueries,
	}
}

func (h *PaymentHandler) CreateIntent(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	var req reqdto.CreateIntentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	params := commands.CreateIntentParams{
		UserID:        userID,
		VoucherTypeID: req.VoucherTypeID,
		Quantity:      req.Quantity,
		DiscountCode:  req.DiscountCode,
		Method:        req.PaymentMethod,
		Currency:      req.Currency,
	}

	result, err := h.paymentCommands.CreateIntent(c.Request.Context(), params)
	if err != nil {
		switch {
		case errors.Is(err, commands.ErrInvalidQuantity):
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Quantity out of range",
			})
		case errors.Is(err, commands.ErrUnsupportedMethod):
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Payment method not supported",
			})
		case errors.Is(err, commands.ErrInvalidVoucherType):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Voucher type not found or inactive",
			})
		case errors.Is(err, commands.ErrUnknownDiscount):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Discount code not found",
			})
		case errors.Is(err, commands.ErrDiscountNotApplicable):
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Discount code is expired or not applicable",
			})
		case errors.Is(err, commands.ErrGatewayFailure):
			c.JSON(http.StatusBadGateway, gin.H{
				"error": "Payment processor unavailable",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}

	c.JSON(http.StatusCreated, resdto.FromIntentResult(result))
}

func (h *PaymentHandler) Confirm(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	var req reqdto.ConfirmPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	result, err := h.paymentCommands.Confirm(c.Request.Context(), userID, req.PaymentIntentID)
	if err != nil {
		switch {
		case errors.Is(err, commands.ErrPaymentNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Payment not found",
			})
		case errors.Is(err, commands.ErrPaymentNotSuccessful):
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Payment has not succeeded at the processor",
			})
		case errors.Is(err, commands.ErrPaymentAlreadyCompleted):
			c.JSON(http.StatusConflict, gin.H{
				"error": "Payment already completed",
			})
		case errors.Is(err, commands.ErrPaymentNotConfirmable):
			c.JSON(http.StatusConflict, gin.H{
				"error": "Payment cannot be confirmed from its current status",
			})
		case errors.Is(err, commands.ErrDiscountExhausted):
			c.JSON(http.StatusConflict, gin.H{
				"error": "Discount code use cap reached",
			})
		case errors.Is(err, commands.ErrGatewayFailure):
			c.JSON(http.StatusBadGateway, gin.H{
				"error": "Payment processor unavailable",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}

	c.JSON(http.StatusOK, resdto.FromConfirmResult(result))
}

func (h *PaymentHandler) ListMine(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	items, err := h.paymentQueries.ListByUser(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h *PaymentHandler) GetByID(c *gin.Context) {
	userID, role, paymentID, ok := h.actorAndID(c)
	if !ok {
		return
	}

	view, err := h.paymentQueries.GetByID(c.Request.Context(), userID, role, paymentID)
	if err != nil {
		h.renderQueryError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *PaymentHandler) RequestRefund(c *gin.Context) {
	userID, _, paymentID, ok := h.actorAndID(c)
	if !ok {
		return
	}

	var req reqdto.RefundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	refund, err := h.paymentCommands.RequestRefund(c.Request.Context(), commands.RefundParams{
		UserID:      userID,
		PaymentID:   paymentID,
		Reason:      req.Reason,
		AmountCents: req.AmountCents,
		Notes:       req.Notes,
	})
	if err != nil {
		switch {
		case errors.Is(err, commands.ErrPaymentNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Payment not found",
			})
		case errors.Is(err, commands.ErrPaymentNotCompleted):
			c.JSON(http.StatusConflict, gin.H{
				"error": "Only completed payments can be refunded",
			})
		case errors.Is(err, commands.ErrRefundAlreadyExists):
			c.JSON(http.StatusConflict, gin.H{
				"error": "A refund has already been requested for this payment",
			})
		case errors.Is(err, commands.ErrInvalidRefundAmount):
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Refund amount must be positive and within the payment total",
			})
		case errors.Is(err, commands.ErrDomainValidation):
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error": "Domain validation failed",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}

	c.JSON(http.StatusCreated, resdto.FromRefund(refund))
}

func (h *PaymentHandler) ListRefunds(c *gin.Context) {
	userID, role, paymentID, ok := h.actorAndID(c)
	if !ok {
		return
	}

	views, err := h.paymentQueries.ListRefunds(c.Request.Context(), userID, role, paymentID)
	if err != nil {
		h.renderQueryError(c, err)
		return
	}
	c.JSON(http.StatusOK, views)
}

func (h *PaymentHandler) actorAndID(c *gin.Context) (uuid.UUID, user.Role, uuid.UUID, bool) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return uuid.Nil, "", uuid.Nil, false
	}
	role, _ := middleware.GetUserRole(c)

	paymentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid payment ID format",
		})
		return uuid.Nil, "", uuid.Nil, false
	}
	return userID, role, paymentID, true
}

func (h *PaymentHandler) renderQueryError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, queries.ErrPaymentViewNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Payment not found",
		})
	case errors.Is(err, queries.ErrPaymentAccessDenied):
		c.JSON(http.StatusForbidden, gin.H{
			"error": "Payment belongs to another user",
		})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
	}
}
