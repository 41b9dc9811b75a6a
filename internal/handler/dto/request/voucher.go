package request

import "github.com/google/uuid"

type RedeemVoucherRequest struct {
	Code        string         `json:"code" binding:"required"`
	ServiceType string         `json:"service_type" binding:"required"`
	ServiceData map[string]any `json:"service_data"`
}

type IssueVoucherRequest struct {
	VoucherTypeID  uuid.UUID `json:"voucher_type_id" binding:"required"`
	UserID         uuid.UUID `json:"user_id" binding:"required"`
	TransactionRef *string   `json:"transaction_ref"`
}
