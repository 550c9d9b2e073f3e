package assistant

import "strings"

// suggestionRules map user-message keywords to follow-up prompts offered
// alongside plain-text replies.
var suggestionRules = []struct {
	keywords    []string
	suggestions []string
}{
	{
		keywords:    []string{"expire", "expiring", "verloopt", "verlopen"},
		suggestions: []string{"Show certificates expiring in the next 30 days", "Who needs a renewal training?"},
	},
	{
		keywords:    []string{"training", "course", "cursus", "opleiding"},
		suggestions: []string{"Plan a new training", "Show upcoming trainings"},
	},
	{
		keywords:    []string{"certificate", "certificaat", "license", "diploma"},
		suggestions: []string{"Upload a certificate document", "Show an employee's certificates"},
	},
	{
		keywords:    []string{"employee", "medewerker", "staff", "colleague"},
		suggestions: []string{"Search employees", "Open an employee's profile"},
	},
}

const maxSuggestions = 3

// suggestFollowUps returns follow-up prompts keyed off keyword matches in
// the user's message. Order follows rule order; duplicates are dropped.
func suggestFollowUps(message string) []string {
	lower := strings.ToLower(message)

	var out []string
	seen := make(map[string]bool)
	for _, rule := range suggestionRules {
		matched := false
		for _, kw := range rule.keywords {
			if strings.Contains(lower, kw) {
				matched = true
				break
			}
		}
		if !matched {
			continue
		}
		for _, s := range rule.suggestions {
			if seen[s] || len(out) >= maxSuggestions {
				continue
			}
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}
