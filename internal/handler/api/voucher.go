package api

import (
	"errors"
	"net/http"

	reqdto "edu-vouchers/internal/handler/dto/request"
	resdto "edu-vouchers/internal/handler/dto/response"
	"edu-vouchers/internal/handler/middleware"
	"edu-vouchers/internal/usecase/commands"
	"edu-vouchers/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type VoucherHandler struct {
	voucherCommands commands.VoucherCommands
	voucherQueries  queries.VoucherQueries
}

func NewVoucherHandler(voucherCommands commands.VoucherCommands, voucherQueries queries.VoucherQueries) *VoucherHandler {
	return &VoucherHandler{
		voucherCommands: voucherCommands,
		voucherQueries:  voucherQueries,
	}
}

// ListTypes is the public purchase catalog; only active types are shown.
func (h *VoucherHandler) ListTypes(c *gin.Context) {
	views, err := h.voucherQueries.ListTypes(c.Request.Context(), false)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}
	c.JSON(http.StatusOK, views)
}

func (h *VoucherHandler) ListTypesAdmin(c *gin.Context) {
	includeInactive := c.Query("include_inactive") == "true"
	views, err := h.voucherQueries.ListTypes(c.Request.Context(), includeInactive)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}
	c.JSON(http.StatusOK, views)
}

func (h *VoucherHandler) ListMine(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	var status *string
	if s := c.Query("status"); s != "" {
		status = &s
	}

	items, err := h.voucherQueries.ListByUser(c.Request.Context(), userID, status)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h *VoucherHandler) GetByCode(c *gin.Context) {
	view, ok := h.resolveVoucher(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *VoucherHandler) ListUsages(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	role, _ := middleware.GetUserRole(c)

	view, ok := h.resolveVoucher(c)
	if !ok {
		return
	}

	usages, err := h.voucherQueries.ListUsages(c.Request.Context(), userID, role, view.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}
	c.JSON(http.StatusOK, usages)
}

func (h *VoucherHandler) Redeem(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	var req reqdto.RedeemVoucherRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	clientIP := c.ClientIP()
	userAgent := c.Request.UserAgent()
	params := commands.RedeemParams{
		Code:        req.Code,
		UserID:      userID,
		ServiceType: req.ServiceType,
		ServiceData: req.ServiceData,
		ClientIP:    &clientIP,
		UserAgent:   &userAgent,
	}

	result, err := h.voucherCommands.Redeem(c.Request.Context(), params)
	if err != nil {
		switch {
		case errors.Is(err, commands.ErrVoucherNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Voucher not found",
			})
		case errors.Is(err, commands.ErrVoucherInvalid):
			c.JSON(http.StatusConflict, gin.H{
				"error": "Voucher is expired, exhausted or not active",
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

	c.JSON(http.StatusOK, resdto.FromRedeemResult(result.Voucher, result.Usage))
}

func (h *VoucherHandler) Issue(c *gin.Context) {
	var req reqdto.IssueVoucherRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	issued, err := h.voucherCommands.Issue(c.Request.Context(), req.VoucherTypeID, req.UserID, req.TransactionRef)
	if err != nil {
		switch {
		case errors.Is(err, commands.ErrInvalidVoucherType):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Voucher type not found or inactive",
			})
		case errors.Is(err, commands.ErrDuplicateCode):
			c.JSON(http.StatusConflict, gin.H{
				"error": "Could not allocate a unique voucher code",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}

	c.JSON(http.StatusCreated, resdto.FromVoucher(issued))
}

func (h *VoucherHandler) Cancel(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid voucher ID format",
		})
		return
	}

	cancelled, err := h.voucherCommands.Cancel(c.Request.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, commands.ErrVoucherNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Voucher not found",
			})
		case errors.Is(err, commands.ErrVoucherAlreadyCancelled):
			c.JSON(http.StatusConflict, gin.H{
				"error": "Voucher already cancelled",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}

	c.JSON(http.StatusOK, resdto.FromVoucher(cancelled))
}

func (h *VoucherHandler) ExpireSweep(c *gin.Context) {
	count, err := h.voucherCommands.ExpireOverdue(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}
	c.JSON(http.StatusOK, &resdto.ExpireSweepResponse{ExpiredCount: count})
}

func (h *VoucherHandler) Stats(c *gin.Context) {
	stats, err := h.voucherQueries.Stats(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *VoucherHandler) MyStats(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	stats, err := h.voucherQueries.StatsByUser(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *VoucherHandler) resolveVoucher(c *gin.Context) (*queries.VoucherView, bool) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return nil, false
	}
	role, _ := middleware.GetUserRole(c)

	view, err := h.voucherQueries.GetByCode(c.Request.Context(), userID, role, c.Param("code"))
	if err != nil {
		switch {
		case errors.Is(err, queries.ErrVoucherViewNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Voucher not found",
			})
		case errors.Is(err, queries.ErrVoucherAccessDenied):
			c.JSON(http.StatusForbidden, gin.H{
				"error": "Voucher belongs to another user",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return nil, false
	}
	return view, true
}
