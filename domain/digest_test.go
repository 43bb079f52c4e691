package domain

import (
	"testing"
	"time"
)

func TestAgreementDigest_Deterministic(t *testing.T) {
	signedAt := time.Date(2026, 3, 15, 10, 30, 0, 0, time.UTC)

	a := AgreementDigest(2_500_000, 600_000_000, "Ada Lovelace", "Jordan Hale", signedAt)
	b := AgreementDigest(2_500_000, 600_000_000, "Ada Lovelace", "Jordan Hale", signedAt)
	if a != b {
		t.Fatal("digest must be a pure function of its inputs")
	}
	if len(a) != 64 {
		t.Fatalf("expected hex sha256 digest, got %q", a)
	}

	// Sub-second precision is dropped by the RFC3339 encoding, so two
	// timestamps within the same second digest identically.
	c := AgreementDigest(2_500_000, 600_000_000, "Ada Lovelace", "Jordan Hale", signedAt.Add(500*time.Millisecond))
	if a != c {
		t.Error("timestamps in the same second must produce the same digest")
	}
}

func TestAgreementDigest_SensitiveToEveryInput(t *testing.T) {
	signedAt := time.Date(2026, 3, 15, 10, 30, 0, 0, time.UTC)
	base := AgreementDigest(2_500_000, 600_000_000, "Ada Lovelace", "Jordan Hale", signedAt)

	tests := []struct {
		name   string
		digest string
	}{
		{"amount", AgreementDigest(2_500_001, 600_000_000, "Ada Lovelace", "Jordan Hale", signedAt)},
		{"cap", AgreementDigest(2_500_000, 600_000_001, "Ada Lovelace", "Jordan Hale", signedAt)},
		{"investor name", AgreementDigest(2_500_000, 600_000_000, "Ada Byron", "Jordan Hale", signedAt)},
		{"issuer name", AgreementDigest(2_500_000, 600_000_000, "Ada Lovelace", "J. Hale", signedAt)},
		{"timestamp", AgreementDigest(2_500_000, 600_000_000, "Ada Lovelace", "Jordan Hale", signedAt.Add(time.Second))},
	}
	for _, tt := range tests {
		if tt.digest == base {
			t.Errorf("changing the %s must change the digest", tt.name)
		}
	}
}

// Field boundaries are delimited, so shifting content between adjacent
// fields cannot collide.
func TestAgreementDigest_FieldBoundaries(t *testing.T) {
	signedAt := time.Date(2026, 3, 15, 10, 30, 0, 0, time.UTC)

	a := AgreementDigest(2_500_000, 600_000_000, "Ada", "Hale", signedAt)
	b := AgreementDigest(2_500_000, 600_000_000, "AdaH", "ale", signedAt)
	if a == b {
		t.Error("investor and issuer names must be independently delimited")
	}
}

func TestAgreementDigest_TimezoneNormalized(t *testing.T) {
	utc := time.Date(2026, 3, 15, 10, 30, 0, 0, time.UTC)
	est := utc.In(time.FixedZone("EST", -5*3600))

	if AgreementDigest(2_500_000, 600_000_000, "Ada Lovelace", "Jordan Hale", utc) !=
		AgreementDigest(2_500_000, 600_000_000, "Ada Lovelace", "Jordan Hale", est) {
		t.Error("the same instant must digest identically regardless of zone")
	}
}
