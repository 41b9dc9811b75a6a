package voucher

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var ErrEmptyServiceType = errors.New("service type cannot be empty")

// ClientInfo is optional network metadata captured with a redemption.
type ClientInfo struct {
	IPAddress *string
	UserAgent *string
}

// Usage is the append-only record of one successful redemption. Created
// exactly once per redemption, never mutated or deleted.
type Usage struct {
	id          uuid.UUID
	voucherID   uuid.UUID
	userID      uuid.UUID
	serviceType string
	serviceData Metadata
	usedAt      time.Time
	client      ClientInfo
}

func NewUsage(voucherID, userID uuid.UUID, serviceType string, serviceData Metadata, usedAt time.Time, client ClientInfo) (*Usage, error) {
	serviceType = strings.TrimSpace(serviceType)
	if serviceType == "" {
		return nil, ErrEmptyServiceType
	}
	if serviceData == nil {
		serviceData = Metadata{}
	}

	return &Usage{
		id:          uuid.New(),
		voucherID:   voucherID,
		userID:      userID,
		serviceType: serviceType,
		serviceData: serviceData,
		usedAt:      usedAt,
		client:      client,
	}, nil
}

func (u *Usage) ID() uuid.UUID         { return u.id }
func (u *Usage) VoucherID() uuid.UUID  { return u.voucherID }
func (u *Usage) UserID() uuid.UUID     { return u.userID }
func (u *Usage) ServiceType() string   { return u.serviceType }
func (u *Usage) ServiceData() Metadata { return u.serviceData.Copy() }
func (u *Usage) UsedAt() time.Time     { return u.usedAt }
func (u *Usage) Client() ClientInfo    { return u.client }
