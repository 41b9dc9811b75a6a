package shared

import (
	"github.com/google/uuid"

	"edu-vouchers/internal/domain/voucher"
)

// VoucherTypeSnapshot is the minimal catalog slice commands need.
type VoucherTypeSnapshot struct {
	ID           uuid.UUID
	Name         string
	TypeCode     string
	PriceCents   int64
	ValidityDays int32
	UsageLimit   int32
	IsActive     bool
}

func (s *VoucherTypeSnapshot) Spec() voucher.TypeSpec {
	return voucher.TypeSpec{
		ID:           s.ID,
		TypeCode:     voucher.TypeCode(s.TypeCode),
		ValidityDays: s.ValidityDays,
		UsageLimit:   s.UsageLimit,
		IsActive:     s.IsActive,
	}
}
