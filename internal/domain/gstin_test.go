package domain

import (
	"errors"
	"testing"
)

func TestNormalizeGSTIN(t *testing.T) {
	t.Parallel()

	t.Run("valid uppercase", func(t *testing.T) {
		got, err := NormalizeGSTIN("36AABCM1234A1Z5")
		if err != nil {
			t.Fatalf("expected valid GSTIN, got %v", err)
		}
		if got != "36AABCM1234A1Z5" {
			t.Fatalf("got %q", got)
		}
	})

	t.Run("lowercase and whitespace normalized", func(t *testing.T) {
		got, err := NormalizeGSTIN("  36aabcm1234a1z5 ")
		if err != nil {
			t.Fatalf("expected valid GSTIN, got %v", err)
		}
		if got != "36AABCM1234A1Z5" {
			t.Fatalf("got %q", got)
		}
	})

	t.Run("missing check character", func(t *testing.T) {
		if _, err := NormalizeGSTIN("36AABCM1234A1Z"); !errors.Is(err, ErrInvalidGSTIN) {
			t.Fatalf("expected ErrInvalidGSTIN, got %v", err)
		}
	})

	t.Run("entity number zero rejected", func(t *testing.T) {
		if _, err := NormalizeGSTIN("36AABCM1234A0Z5"); !errors.Is(err, ErrInvalidGSTIN) {
			t.Fatalf("expected ErrInvalidGSTIN, got %v", err)
		}
	})

	t.Run("missing Z separator", func(t *testing.T) {
		if _, err := NormalizeGSTIN("36AABCM1234A1X5"); !errors.Is(err, ErrInvalidGSTIN) {
			t.Fatalf("expected ErrInvalidGSTIN, got %v", err)
		}
	})

	t.Run("empty", func(t *testing.T) {
		if _, err := NormalizeGSTIN(""); !errors.Is(err, ErrInvalidGSTIN) {
			t.Fatalf("expected ErrInvalidGSTIN, got %v", err)
		}
	})
}

func TestStateCodeFromGSTIN(t *testing.T) {
	t.Parallel()

	if got := StateCodeFromGSTIN("36AABCM1234A1Z5"); got != "36" {
		t.Errorf("got %q, want 36", got)
	}
	if got := StateCodeFromGSTIN("3"); got != "" {
		t.Errorf("got %q, want empty", got)
	}
}
