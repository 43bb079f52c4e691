package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"
)

// AgreementDigest computes the tamper-evidence hash over an agreement's
// immutable terms and signature metadata. It is a pure function of its
// inputs: any rendering of the document must reproduce the same digest
// from the same stored fields or the document is considered altered.
func AgreementDigest(amountCents, capCents int64, investorName, issuerName string, signedAt time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d\n", amountCents)
	fmt.Fprintf(&b, "%d\n", capCents)
	b.WriteString(investorName)
	b.WriteString("\n")
	b.WriteString(issuerName)
	b.WriteString("\n")
	b.WriteString(signedAt.UTC().Format(time.RFC3339))
	b.WriteString("\n")
	return HashStringSHA256Hex(b.String())
}

// HashStringSHA256Hex returns the hex-encoded SHA-256 of s.
func HashStringSHA256Hex(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}
