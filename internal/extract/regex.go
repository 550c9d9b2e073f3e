package extract

import (
	"regexp"

	"github.com/traincore/certassist/internal/model"
)

// Labeled-pattern fallback for when the model's JSON cannot be recovered.
// It only finds the obvious layouts, so results carry a fixed lower
// confidence.
var (
	certNumberPattern = regexp.MustCompile(`(?i)(?:certificate|license|certificaat)\s*(?:number|nr|no)\.?\s*:?\s*([A-Z0-9][A-Z0-9\-/]{2,})`)
	datePattern       = regexp.MustCompile(`\b(\d{4}-\d{2}-\d{2}|\d{1,2}[-/.]\d{1,2}[-/.]\d{4})\b`)
	holderPattern     = regexp.MustCompile(`(?i)(?:employee|name|holder|naam)\s*:\s*([A-Za-zÀ-ÿ' .,-]+)`)
	issuerPattern     = regexp.MustCompile(`(?i)(?:issuer|issued\s+by|uitgever)\s*:\s*([A-Za-z0-9À-ÿ' .,&-]+)`)
)

// regexFallbackConfidence is the fixed confidence (0-100) assigned when
// fields come from pattern matching instead of the model.
const regexFallbackConfidence = 60

// ExtractFieldsRegex scans raw document text with labeled patterns. Date
// tokens are taken positionally: the first is the issue date, the second
// the expiry date.
func ExtractFieldsRegex(text string) model.ExtractedFields {
	var f model.ExtractedFields

	if m := certNumberPattern.FindStringSubmatch(text); m != nil {
		f.CertificateNumber = trimField(m[1])
	}
	if m := holderPattern.FindStringSubmatch(text); m != nil {
		f.HolderName = trimField(m[1])
	}
	if m := issuerPattern.FindStringSubmatch(text); m != nil {
		f.Issuer = trimField(m[1])
	}

	dates := datePattern.FindAllString(text, 2)
	if len(dates) > 0 {
		f.IssueDate = NormalizeDate(dates[0])
	}
	if len(dates) > 1 {
		f.ExpiryDate = NormalizeDate(dates[1])
	}

	return f
}

func trimField(s string) string {
	// Labeled captures run to end of line; cut at the first newline and
	// trim surrounding junk.
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' || s[i] == '\r' {
			s = s[:i]
			break
		}
	}
	for len(s) > 0 && (s[len(s)-1] == ' ' || s[len(s)-1] == '.' || s[len(s)-1] == ',') {
		s = s[:len(s)-1]
	}
	for len(s) > 0 && s[0] == ' ' {
		s = s[1:]
	}
	return s
}
