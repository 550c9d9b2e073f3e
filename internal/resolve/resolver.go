package resolve

import (
	"sort"

	"github.com/traincore/certassist/internal/model"
)

// Acceptance thresholds are asymmetric by entity type: employee names are
// short and exact-ish, certificate type labels vary more in phrasing.
const (
	EmployeeThreshold        = 0.6
	CertificateTypeThreshold = 0.4
)

// RankEmployees scores every employee in the pool against the candidate name
// and returns those strictly above the employee threshold, best first.
// Equal scores break deterministically toward the lower entity ID.
func RankEmployees(name string, pool []model.Employee) []model.MatchCandidate {
	var out []model.MatchCandidate
	for _, e := range pool {
		score := Similarity(name, e.FullName())
		// "Last, First" is a common certificate layout; take the better reading.
		if rev := Similarity(name, e.LastName+" "+e.FirstName); rev > score {
			score = rev
		}
		if score > EmployeeThreshold {
			out = append(out, model.MatchCandidate{
				EntityID:   e.ID,
				EntityName: e.FullName(),
				Similarity: score,
			})
		}
	}
	sortCandidates(out)
	return out
}

// ResolveEmployee returns the single best employee match, or nil when no
// candidate clears the threshold.
func ResolveEmployee(name string, pool []model.Employee) *model.MatchCandidate {
	ranked := RankEmployees(name, pool)
	if len(ranked) == 0 {
		return nil
	}
	return &ranked[0]
}

// RankCertificateTypes scores every certificate type against the label,
// taking the max of name similarity and description similarity, and returns
// those strictly above the certificate-type threshold, best first.
func RankCertificateTypes(label string, pool []model.CertificateType) []model.MatchCandidate {
	var out []model.MatchCandidate
	for _, ct := range pool {
		score := Similarity(label, ct.Name)
		if ct.Description != "" {
			if d := Similarity(label, ct.Description); d > score {
				score = d
			}
		}
		if score > CertificateTypeThreshold {
			out = append(out, model.MatchCandidate{
				EntityID:   ct.ID,
				EntityName: ct.Name,
				Similarity: score,
			})
		}
	}
	sortCandidates(out)
	return out
}

// ResolveCertificateType returns the single best certificate-type match, or
// nil when no candidate clears the threshold.
func ResolveCertificateType(label string, pool []model.CertificateType) *model.MatchCandidate {
	ranked := RankCertificateTypes(label, pool)
	if len(ranked) == 0 {
		return nil
	}
	return &ranked[0]
}

func sortCandidates(cs []model.MatchCandidate) {
	sort.SliceStable(cs, func(i, j int) bool {
		if cs[i].Similarity != cs[j].Similarity {
			return cs[i].Similarity > cs[j].Similarity
		}
		return cs[i].EntityID < cs[j].EntityID
	})
}
