package voucher

import (
	"errors"
	"regexp"
	"strings"
)

var ErrInvalidCode = errors.New("invalid voucher code format")

var codeRegex = regexp.MustCompile(`^[A-Z0-9]{12}$`)

// Code is a voucher's unique redemption code. Stored and compared uppercase;
// NewCode normalizes case so lookups at the boundary are case-insensitive.
type Code string

func NewCode(code string) (Code, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if !codeRegex.MatchString(code) {
		return Code(""), ErrInvalidCode
	}
	return Code(code), nil
}

func (c Code) String() string {
	return string(c)
}

// Metadata is a free-form key-value map attached to vouchers and usage
// records. Merge is a shallow key overwrite: keys in other replace keys in m,
// everything else is kept. Neither receiver nor argument is mutated.
type Metadata map[string]any

func (m Metadata) Merge(other Metadata) Metadata {
	merged := make(Metadata, len(m)+len(other))
	for k, v := range m {
		merged[k] = v
	}
	for k, v := range other {
		merged[k] = v
	}
	return merged
}

func (m Metadata) Copy() Metadata {
	if m == nil {
		return Metadata{}
	}
	copied := make(Metadata, len(m))
	for k, v := range m {
		copied[k] = v
	}
	return copied
}
