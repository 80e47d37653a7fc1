package domain

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var (
	ErrMissingField   = errors.New("missing required field")
	ErrInvalidState   = errors.New("not a US state code")
	ErrInvalidZIP     = errors.New("ZIP must be 5 digits")
	ErrInvalidEmail   = errors.New("invalid email address")
	ErrInvalidAddress = errors.New("invalid shipping address")
)

var zipRe = regexp.MustCompile(`^\d{5}$`)

var usStates = map[string]struct{}{
	"AL": {}, "AK": {}, "AZ": {}, "AR": {}, "CA": {}, "CO": {}, "CT": {},
	"DE": {}, "FL": {}, "GA": {}, "HI": {}, "ID": {}, "IL": {}, "IN": {},
	"IA": {}, "KS": {}, "KY": {}, "LA": {}, "ME": {}, "MD": {}, "MA": {},
	"MI": {}, "MN": {}, "MS": {}, "MO": {}, "MT": {}, "NE": {}, "NV": {},
	"NH": {}, "NJ": {}, "NM": {}, "NY": {}, "NC": {}, "ND": {}, "OH": {},
	"OK": {}, "OR": {}, "PA": {}, "RI": {}, "SC": {}, "SD": {}, "TN": {},
	"TX": {}, "UT": {}, "VT": {}, "VA": {}, "WA": {}, "WV": {}, "WI": {},
	"WY": {},
}

// An Address is the US-only shipping destination entered at checkout.
type Address struct {
	Name   string
	Email  string
	Street string
	City   string
	State  string
	ZIP    string
}

func (a Address) Validate() error {
	const op = "Address.Validate"

	var errs []error

	for field, v := range map[string]string{
		"name": a.Name, "street": a.Street, "city": a.City,
		"state": a.State, "zip": a.ZIP,
	} {
		if strings.TrimSpace(v) == "" {
			errs = append(errs, fmt.Errorf("%s: %w", field, ErrMissingField))
		}
	}

	if a.State != "" {
		if _, ok := usStates[strings.ToUpper(a.State)]; !ok {
			errs = append(errs, ErrInvalidState)
		}
	}

	if a.ZIP != "" && !zipRe.MatchString(a.ZIP) {
		errs = append(errs, ErrInvalidZIP)
	}

	if a.Email != "" && !strings.Contains(a.Email, "@") {
		errs = append(errs, ErrInvalidEmail)
	}

	if len(errs) != 0 {
		return fmt.Errorf("%s: %w: %w", op, ErrInvalidAddress, errors.Join(errs...))
	}
	return nil
}
