package domain

import (
	"fmt"
	"strings"
)

// OptionKind is the exercise direction of a vanilla option.
type OptionKind string

const (
	Call OptionKind = "call"
	Put  OptionKind = "put"
)

// ParseOptionKind accepts "call" or "put" in any case.
func ParseOptionKind(s string) (OptionKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "call", "c", "ce":
		return Call, nil
	case "put", "p", "pe":
		return Put, nil
	}
	return "", Invalidf("kind must be 'call' or 'put', got %q", s)
}

// Instrument is anything the dispatcher may be asked to price. Only
// EuropeanOption is handled by the engines in this module.
type Instrument interface {
	InstrumentName() string
}

// EuropeanOption is an immutable vanilla call or put exercisable only at
// expiry. Build it with NewEuropeanOption.
type EuropeanOption struct {
	kind   OptionKind
	strike float64
	expiry float64
	valid  bool
}

// NewEuropeanOption validates kind, strike (> 0) and expiry in years (>= 0).
func NewEuropeanOption(kind OptionKind, strike, expiry float64) (EuropeanOption, error) {
	if kind != Call && kind != Put {
		return EuropeanOption{}, Invalidf("kind must be 'call' or 'put', got %q", kind)
	}
	if err := CheckFinite("strike", strike); err != nil {
		return EuropeanOption{}, err
	}
	if err := CheckFinite("expiry", expiry); err != nil {
		return EuropeanOption{}, err
	}
	if strike <= 0 {
		return EuropeanOption{}, Invalidf("strike must be > 0, got %v", strike)
	}
	if expiry < 0 {
		return EuropeanOption{}, Invalidf("expiry must be >= 0, got %v", expiry)
	}
	return EuropeanOption{kind: kind, strike: strike, expiry: expiry, valid: true}, nil
}

func (o EuropeanOption) Kind() OptionKind { return o.kind }
func (o EuropeanOption) Strike() float64 { return o.strike }
func (o EuropeanOption) Expiry() float64 { return o.expiry }

// Validate rejects an option that was not built by NewEuropeanOption, such as
// the zero value.
func (o EuropeanOption) Validate() error {
	if !o.valid {
		return Invalidf("option must be built with NewEuropeanOption")
	}
	return nil
}

// IsCall reports whether the option is a call.
func (o EuropeanOption) IsCall() bool { return o.kind == Call }

// WithExpiry returns a copy of the option expiring at t.
func (o EuropeanOption) WithExpiry(t float64) (EuropeanOption, error) {
	return NewEuropeanOption(o.kind, o.strike, t)
}

func (o EuropeanOption) InstrumentName() string { return "EuropeanOption" }

func (o EuropeanOption) String() string {
	return fmt.Sprintf("European %s K=%g T=%g", o.kind, o.strike, o.expiry)
}
