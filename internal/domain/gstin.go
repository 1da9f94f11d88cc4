package domain

import (
	"fmt"
	"regexp"
	"strings"
)

// GSTIN layout: 2-digit state code, 10-character PAN, entity number,
// the literal "Z", and a check character.
var gstinPattern = regexp.MustCompile(`^[0-9]{2}[A-Z]{5}[0-9]{4}[A-Z][1-9A-Z]Z[0-9A-Z]$`)

// NormalizeGSTIN trims and uppercases a raw GSTIN and validates it against
// the registration number format. Returns ErrInvalidGSTIN when the cleaned
// value does not match.
func NormalizeGSTIN(raw string) (string, error) {
	gstin := strings.ToUpper(strings.TrimSpace(raw))
	if !gstinPattern.MatchString(gstin) {
		return "", fmt.Errorf("%w: %q", ErrInvalidGSTIN, raw)
	}
	return gstin, nil
}

// StateCodeFromGSTIN extracts the two-digit state code prefix. The GSTIN must
// already be normalized.
func StateCodeFromGSTIN(gstin string) string {
	if len(gstin) < 2 {
		return ""
	}
	return gstin[:2]
}

// TaxpayerInfo is the provider-independent shape of a GSTIN lookup result.
type TaxpayerInfo struct {
	GSTIN            string `json:"gstin"`
	LegalName        string `json:"legal_name"`
	TradeName        string `json:"trade_name"`
	Status           string `json:"status"`
	RegistrationDate string `json:"registration_date"`
	Address          string `json:"address"`
	StateCode        string `json:"state_code"`
	Pincode          string `json:"pincode"`
}
