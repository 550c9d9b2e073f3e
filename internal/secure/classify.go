package secure

import (
	"time"

	"github.com/traincore/certassist/internal/model"
)

// CertClass is the outcome of the duplicate/renewal check on a certificate
// insert.
type CertClass string

const (
	CertFresh     CertClass = "fresh"
	CertRenewal   CertClass = "renewal"
	CertDuplicate CertClass = "duplicate"
)

// Classify compares a pending certificate against existing records sharing
// the same certificate number. A record for the same holder with the same
// expiry date is an exact duplicate; the same number with a different
// expiry is a renewal.
func Classify(existing []model.EmployeeCertificate, employeeID int64, expiry *time.Time) CertClass {
	sameHolder := false
	for _, c := range existing {
		if c.EmployeeID != employeeID {
			continue
		}
		sameHolder = true
		if sameDate(c.ExpiryDate, expiry) {
			return CertDuplicate
		}
	}
	if sameHolder {
		return CertRenewal
	}
	return CertFresh
}

func sameDate(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	ay, am, ad := a.UTC().Date()
	by, bm, bd := b.UTC().Date()
	return ay == by && am == bm && ad == bd
}
