package extract

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	dmyPattern = regexp.MustCompile(`^(\d{1,2})[-/.](\d{1,2})[-/.](\d{4})$`)
	isoPattern = regexp.MustCompile(`^(\d{4})-(\d{2})-(\d{2})$`)
)

// NormalizeDate converts DD-MM-YYYY style dates (also with / or . as the
// separator) to ISO YYYY-MM-DD. The rebuilt calendar date must reproduce
// the input components exactly, which rejects impossible dates like
// 31-02-2025. Anything that does not parse or verify is returned
// unchanged; guessing is worse than passing the original through.
func NormalizeDate(raw string) string {
	s := strings.TrimSpace(raw)

	if m := isoPattern.FindStringSubmatch(s); m != nil {
		if validDate(atoi(m[1]), atoi(m[2]), atoi(m[3])) {
			return s
		}
		return raw
	}

	m := dmyPattern.FindStringSubmatch(s)
	if m == nil {
		return raw
	}
	day, month, year := atoi(m[1]), atoi(m[2]), atoi(m[3])
	if !validDate(year, month, day) {
		return raw
	}
	return fmt.Sprintf("%04d-%02d-%02d", year, month, day)
}

// validDate reports whether year/month/day name a real calendar date.
// time.Date normalizes overflow (Feb 31 becomes Mar 3), so building the
// date and reading the components back detects impossible inputs.
func validDate(year, month, day int) bool {
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return false
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	y, mo, d := t.Date()
	return y == year && int(mo) == month && d == day
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
