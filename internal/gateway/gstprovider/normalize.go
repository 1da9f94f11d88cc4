package gstprovider

import (
	"fmt"
	"strings"

	"github.com/dealerdesk/dealerdesk/internal/domain"
)

// fieldPaths lists, per logical attribute, the dot-separated candidate paths
// observed across provider response shapes. The first path yielding a
// non-empty value wins, so a new vendor shape is a table extension rather
// than a code change.
var fieldPaths = map[string][]string{
	"legal_name":        {"lgnm", "legalName", "legal_name", "taxpayerInfo.lgnm", "data.lgnm"},
	"trade_name":        {"tradeNam", "tradeName", "trade_name", "taxpayerInfo.tradeNam", "data.tradeNam"},
	"status":            {"sts", "status", "gstinStatus", "taxpayerInfo.sts", "data.sts"},
	"registration_date": {"rgdt", "registrationDate", "registration_date", "taxpayerInfo.rgdt", "data.rgdt"},
	"address":           {"pradr.adr", "pradr.addr.bnm", "address", "principalAddress", "data.pradr.adr"},
	"state_code":        {"stjCd", "stateCode", "state_code", "taxpayerInfo.stjCd"},
	"pincode":           {"pradr.addr.pncd", "pincode", "pinCode", "data.pradr.addr.pncd"},
}

// Normalize flattens a provider payload into the canonical taxpayer record.
// The state code falls back to the GSTIN's two-digit prefix when every
// candidate path comes up empty.
func Normalize(gstin string, payload map[string]any) *domain.TaxpayerInfo {
	info := &domain.TaxpayerInfo{
		GSTIN:            gstin,
		LegalName:        probe(payload, fieldPaths["legal_name"]),
		TradeName:        probe(payload, fieldPaths["trade_name"]),
		Status:           probe(payload, fieldPaths["status"]),
		RegistrationDate: probe(payload, fieldPaths["registration_date"]),
		Address:          probe(payload, fieldPaths["address"]),
		StateCode:        probe(payload, fieldPaths["state_code"]),
		Pincode:          probe(payload, fieldPaths["pincode"]),
	}

	if info.StateCode == "" {
		info.StateCode = domain.StateCodeFromGSTIN(gstin)
	}

	return info
}

// probe evaluates candidate paths in priority order and returns the first
// non-empty string value.
func probe(payload map[string]any, paths []string) string {
	for _, path := range paths {
		if v := lookupPath(payload, path); v != "" {
			return v
		}
	}
	return ""
}

func lookupPath(payload map[string]any, path string) string {
	var current any = payload

	for _, segment := range strings.Split(path, ".") {
		node, ok := current.(map[string]any)
		if !ok {
			return ""
		}
		current, ok = node[segment]
		if !ok {
			return ""
		}
	}

	switch v := current.(type) {
	case string:
		return strings.TrimSpace(v)
	case float64:
		// JSON numbers arrive as float64; pincodes and codes are integral.
		return fmt.Sprintf("%.0f", v)
	default:
		return ""
	}
}
