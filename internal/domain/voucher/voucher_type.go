package voucher

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrEmptyTypeName     = errors.New("voucher type name cannot be empty")
	ErrInvalidTypeCode   = errors.New("invalid voucher type code")
	ErrNegativePrice     = errors.New("price cannot be negative")
	ErrInvalidUsageLimit = errors.New("usage limit must be at least 1")
	ErrInvalidValidity   = errors.New("validity period must be at least 1 day")
)

// Type is the catalog definition a voucher is instantiated from. Immutable
// once vouchers reference it except for administrative price/active updates;
// never deleted, only deactivated.
type Type struct {
	id           uuid.UUID
	name         string
	typeCode     TypeCode
	description  string
	priceCents   int64
	validityDays int32
	usageLimit   int32
	isActive     bool
	createdAt    time.Time
	updatedAt    time.Time
}

func NewType(
	name string,
	typeCode TypeCode,
	description string,
	priceCents int64,
	validityDays int32,
	usageLimit int32,
) (*Type, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyTypeName
	}
	if !typeCode.IsValid() {
		return nil, ErrInvalidTypeCode
	}
	if priceCents < 0 {
		return nil, ErrNegativePrice
	}
	if validityDays < 1 {
		return nil, ErrInvalidValidity
	}
	if usageLimit < 1 {
		return nil, ErrInvalidUsageLimit
	}

	return &Type{
		id:           uuid.New(),
		name:         name,
		typeCode:     typeCode,
		description:  description,
		priceCents:   priceCents,
		validityDays: validityDays,
		usageLimit:   usageLimit,
		isActive:     true,
	}, nil
}

func ReconstructType(
	id uuid.UUID,
	name string,
	typeCode TypeCode,
	description string,
	priceCents int64,
	validityDays, usageLimit int32,
	isActive bool,
	createdAt, updatedAt time.Time,
) *Type {
	return &Type{
		id:           id,
		name:         name,
		typeCode:     typeCode,
		description:  description,
		priceCents:   priceCents,
		validityDays: validityDays,
		usageLimit:   usageLimit,
		isActive:     isActive,
		createdAt:    createdAt,
		updatedAt:    updatedAt,
	}
}

func (t *Type) ID() uuid.UUID        { return t.id }
func (t *Type) Name() string         { return t.name }
func (t *Type) TypeCode() TypeCode   { return t.typeCode }
func (t *Type) Description() string  { return t.description }
func (t *Type) PriceCents() int64    { return t.priceCents }
func (t *Type) ValidityDays() int32  { return t.validityDays }
func (t *Type) UsageLimit() int32    { return t.usageLimit }
func (t *Type) IsActive() bool       { return t.isActive }
func (t *Type) CreatedAt() time.Time { return t.createdAt }
func (t *Type) UpdatedAt() time.Time { return t.updatedAt }
