package render

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/you/investorportal/domain"
)

// SafeRenderer renders a SAFE agreement as a PDF. It reads agreement
// fields only; it has no way to write them back.
type SafeRenderer struct {
	companyName string
}

// NewSafeRenderer creates a PDF renderer for the issuing company.
func NewSafeRenderer(companyName string) *SafeRenderer {
	return &SafeRenderer{companyName: companyName}
}

// Render implements domain.DocumentRenderer
func (r *SafeRenderer) Render(a *domain.Agreement, issuerName, issuerTitle string) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Simple Agreement for Future Equity", false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, "SIMPLE AGREEMENT FOR FUTURE EQUITY", "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 6, r.companyName, "", 1, "C", false, 0, "")
	pdf.Ln(6)

	pdf.SetFont("Helvetica", "", 11)
	body := fmt.Sprintf(
		"THIS CERTIFIES THAT in exchange for the payment by %s (the \"Investor\") "+
			"of %s (the \"Purchase Amount\") on or about the date of signature, %s "+
			"(the \"Company\") issues to the Investor the right to certain shares of "+
			"the Company's capital stock, subject to a valuation cap of %s.",
		a.InvestorName, dollars(a.AmountCents), r.companyName, dollars(a.ValuationCapCents))
	pdf.MultiCell(0, 6, body, "", "L", false)
	pdf.Ln(4)

	r.field(pdf, "Investor", a.InvestorName)
	r.field(pdf, "Email", a.InvestorEmail)
	if a.Company != "" {
		r.field(pdf, "Investing Entity", a.Company)
	}
	r.field(pdf, "Purchase Amount", dollars(a.AmountCents))
	r.field(pdf, "Valuation Cap", dollars(a.ValuationCapCents))
	r.field(pdf, "Status", strings.ReplaceAll(a.Status, "_", " "))
	pdf.Ln(8)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(0, 8, "INVESTOR", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	if sig := a.Signature; sig != nil {
		r.field(pdf, "Signed by", sig.Name)
		r.field(pdf, "Signed at", sig.SignedAt.UTC().Format(time.RFC1123))
		r.field(pdf, "Document hash", sig.DocumentHash)
	} else {
		pdf.CellFormat(0, 6, "Awaiting signature", "", 1, "L", false, 0, "")
	}
	pdf.Ln(6)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(0, 8, "COMPANY", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	if cs := a.CounterSig; cs != nil {
		r.field(pdf, "Signed by", cs.Name)
		r.field(pdf, "Title", issuerTitle)
		r.field(pdf, "Signed at", cs.SignedAt.UTC().Format(time.RFC1123))
	} else {
		r.field(pdf, "Signatory", issuerName)
		r.field(pdf, "Title", issuerTitle)
		pdf.CellFormat(0, 6, "Awaiting counter-signature", "", 1, "L", false, 0, "")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render agreement pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *SafeRenderer) field(pdf *fpdf.Fpdf, label, value string) {
	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(45, 6, label+":", "", 0, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(0, 6, value, "", 1, "L", false, 0, "")
}

func dollars(cents int64) string {
	return fmt.Sprintf("$%s.%02d", groupThousands(cents/100), cents%100)
}

func groupThousands(n int64) string {
	s := fmt.Sprintf("%d", n)
	if len(s) <= 3 {
		return s
	}
	var b strings.Builder
	lead := len(s) % 3
	if lead > 0 {
		b.WriteString(s[:lead])
	}
	for i := lead; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteString(",")
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}

var _ domain.DocumentRenderer = (*SafeRenderer)(nil)
