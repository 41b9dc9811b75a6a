package response

import (
	"time"

	"github.com/google/uuid"

	"edu-vouchers/internal/domain/voucher"
)

// VoucherResponse serves command results, where the fresh entity is already
// in hand. Query endpoints return the read-side views directly.
type VoucherResponse struct {
	ID            uuid.UUID      `json:"id"`
	Code          string         `json:"code"`
	VoucherTypeID uuid.UUID      `json:"voucher_type_id"`
	UserID        uuid.UUID      `json:"user_id"`
	Status        string         `json:"status"`
	UsageCount    int32          `json:"usage_count"`
	UsageLimit    int32          `json:"usage_limit"`
	PurchasedAt   time.Time      `json:"purchased_at"`
	ExpiresAt     time.Time      `json:"expires_at"`
	LastUsedAt    *time.Time     `json:"last_used_at,omitempty"`
	Metadata      map[string]any `json:"metadata,omitempty"`
}

type RedeemResponse struct {
	Voucher       *VoucherResponse `json:"voucher"`
	UsageID       uuid.UUID        `json:"usage_id"`
	ServiceType   string           `json:"service_type"`
	RemainingUses int32            `json:"remaining_uses"`
}

type ExpireSweepResponse struct {
	ExpiredCount int64 `json:"expired_count"`
}

func FromVoucher(v *voucher.Voucher) *VoucherResponse {
	return &VoucherResponse{
		ID:            v.ID(),
		Code:          v.Code().String(),
		VoucherTypeID: v.TypeID(),
		UserID:        v.UserID(),
		Status:        string(v.Status()),
		UsageCount:    v.UsageCount(),
		UsageLimit:    v.UsageLimit(),
		PurchasedAt:   v.IssuedAt(),
		ExpiresAt:     v.ExpiresAt(),
		LastUsedAt:    v.LastUsedAt(),
		Metadata:      v.Metadata(),
	}
}

func FromRedeemResult(v *voucher.Voucher, u *voucher.Usage) *RedeemResponse {
	return &RedeemResponse{
		Voucher:       FromVoucher(v),
		UsageID:       u.ID(),
		ServiceType:   u.ServiceType(),
		RemainingUses: v.UsageLimit() - v.UsageCount(),
	}
}
