package gstprovider

import "testing"

func TestNormalize_GovernmentShape(t *testing.T) {
	payload := map[string]any{
		"lgnm":     "Sharma Auto Agencies",
		"tradeNam": "Sharma Autos",
		"sts":      "Active",
		"rgdt":     "15/09/2018",
		"stjCd":    "TG006",
		"pradr": map[string]any{
			"adr": "5-9-22, Secunderabad",
			"addr": map[string]any{
				"pncd": "500003",
			},
		},
	}

	info := Normalize("36AABCS9999B1Z3", payload)

	if info.LegalName != "Sharma Auto Agencies" {
		t.Errorf("legal name = %q", info.LegalName)
	}
	if info.TradeName != "Sharma Autos" {
		t.Errorf("trade name = %q", info.TradeName)
	}
	if info.Status != "Active" {
		t.Errorf("status = %q", info.Status)
	}
	if info.RegistrationDate != "15/09/2018" {
		t.Errorf("registration date = %q", info.RegistrationDate)
	}
	if info.Address != "5-9-22, Secunderabad" {
		t.Errorf("address = %q", info.Address)
	}
	if info.StateCode != "TG006" {
		t.Errorf("state code = %q", info.StateCode)
	}
	if info.Pincode != "500003" {
		t.Errorf("pincode = %q", info.Pincode)
	}
}

func TestNormalize_CamelCaseShape(t *testing.T) {
	payload := map[string]any{
		"legalName":        "Verma Spares LLP",
		"tradeName":        "Verma Spares",
		"status":           "Cancelled",
		"registrationDate": "2019-01-01",
		"address":          "MG Road, Pune",
		"stateCode":        "27",
		"pincode":          float64(411001),
	}

	info := Normalize("27AAVFV1111C1Z8", payload)

	if info.LegalName != "Verma Spares LLP" {
		t.Errorf("legal name = %q", info.LegalName)
	}
	if info.Status != "Cancelled" {
		t.Errorf("status = %q", info.Status)
	}
	if info.StateCode != "27" {
		t.Errorf("state code = %q", info.StateCode)
	}
	// Numeric pincode must still come out as its digits.
	if info.Pincode != "411001" {
		t.Errorf("pincode = %q", info.Pincode)
	}
}

func TestNormalize_PriorityOrder(t *testing.T) {
	// Both spellings present: the earlier candidate path wins.
	payload := map[string]any{
		"lgnm":      "Primary Name",
		"legalName": "Secondary Name",
	}

	info := Normalize("36AABCM1234A1Z5", payload)
	if info.LegalName != "Primary Name" {
		t.Errorf("expected first candidate to win, got %q", info.LegalName)
	}
}

func TestNormalize_StateCodeFallback(t *testing.T) {
	info := Normalize("07AABCD4321E1Z9", map[string]any{"lgnm": "Delhi Traders"})
	if info.StateCode != "07" {
		t.Errorf("expected state code from GSTIN prefix, got %q", info.StateCode)
	}
}

func TestNormalize_EmptyPayload(t *testing.T) {
	info := Normalize("36AABCM1234A1Z5", map[string]any{})
	if info.GSTIN != "36AABCM1234A1Z5" {
		t.Errorf("gstin = %q", info.GSTIN)
	}
	if info.LegalName != "" || info.Status != "" {
		t.Errorf("expected empty attributes, got %+v", info)
	}
	if info.StateCode != "36" {
		t.Errorf("state code = %q", info.StateCode)
	}
}
