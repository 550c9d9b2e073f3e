// Package secure wraps every data-changing operation in a fixed pipeline:
// session check, capability check, field-whitelist validation, execution,
// and audit logging.
package secure

import (
	_ "embed"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"time"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

//go:embed whitelists.yaml
var whitelistYAML []byte

// fieldKind names the format check applied to a whitelisted field.
type fieldKind string

const (
	kindText  fieldKind = "text"
	kindEmail fieldKind = "email"
	kindDate  fieldKind = "date"
	kindInt   fieldKind = "int"
	kindID    fieldKind = "id"
	kindBool  fieldKind = "bool"
)

type tableWhitelist struct {
	Fields map[string]fieldKind `yaml:"fields"`
}

type whitelistConfig struct {
	Tables map[string]tableWhitelist `yaml:"tables"`
}

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

func loadWhitelists() (whitelistConfig, error) {
	var cfg whitelistConfig
	if err := yaml.Unmarshal(whitelistYAML, &cfg); err != nil {
		return cfg, eris.Wrap(err, "secure: parse whitelists")
	}
	return cfg, nil
}

// validateFields checks every field of an operation against the table's
// whitelist and format rules. Unknown tables and unknown fields reject the
// whole operation.
func (c whitelistConfig) validateFields(table string, fields map[string]any) error {
	wl, ok := c.Tables[table]
	if !ok {
		return &ValidationError{Table: table, RejectedFields: fieldNames(fields), Reason: "table not mutable"}
	}

	var rejected []string
	reason := "not whitelisted"
	for name, value := range fields {
		kind, ok := wl.Fields[name]
		if !ok {
			rejected = append(rejected, name)
			continue
		}
		if err := checkFormat(kind, value); err != nil {
			rejected = append(rejected, name)
			reason = err.Error()
		}
	}
	if len(rejected) > 0 {
		sort.Strings(rejected)
		return &ValidationError{Table: table, RejectedFields: rejected, Reason: reason}
	}
	return nil
}

func checkFormat(kind fieldKind, value any) error {
	switch kind {
	case kindEmail:
		s, ok := value.(string)
		if !ok || !emailPattern.MatchString(s) {
			return fmt.Errorf("not a valid email address")
		}
	case kindDate:
		switch v := value.(type) {
		case time.Time, *time.Time:
			return nil
		case string:
			if _, err := time.Parse("2006-01-02", v); err != nil {
				return fmt.Errorf("not an ISO date")
			}
		default:
			return fmt.Errorf("not a date")
		}
	case kindInt, kindID:
		switch v := value.(type) {
		case int, int32, int64, float64:
			return nil
		case string:
			if _, err := strconv.ParseInt(v, 10, 64); err != nil {
				return fmt.Errorf("not an integer")
			}
		default:
			return fmt.Errorf("not an integer")
		}
	case kindBool:
		if _, ok := value.(bool); !ok {
			return fmt.Errorf("not a boolean")
		}
	}
	return nil
}

func fieldNames(fields map[string]any) []string {
	names := make([]string, 0, len(fields))
	for n := range fields {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
