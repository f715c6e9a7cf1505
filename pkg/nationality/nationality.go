// Package nationality maps free-text nationality answers onto a closed set of labels.
package nationality

import "strings"

// Canonical labels.
const (
	Bangladeshi = "Bangladeshi"
	Indian      = "Indian"
	Indonesian  = "Indonesian"
	Malaysian   = "Malaysian"
	Pakistani   = "Pakistani"
	Taiwanese   = "Taiwanese"
	Chinese     = "Chinese"
	Singaporean = "Singaporean"
	Vietnamese  = "Vietnamese"
	USA         = "USA"
)

// OtherPrefix starts every label for an answer no rule recognises.
const OtherPrefix = "OTHER: "

type rule struct {
	keywords []string
	label    string
}

// First match wins. Taiwan must precede China: "republic of china" contains "china".
var rules = []rule{
	{[]string{"bangl"}, Bangladeshi},
	{[]string{"india"}, Indian},
	{[]string{"indo"}, Indonesian},
	{[]string{"mala"}, Malaysian},
	{[]string{"pak"}, Pakistani},
	{[]string{"roc", "r.o.c.", "taiw", "republic of ch"}, Taiwanese},
	{[]string{"china", "chinese"}, Chinese},
	{[]string{"sing"}, Singaporean},
	{[]string{"viet"}, Vietnamese},
	{[]string{"usa", "america"}, USA},
}

// Normalize returns the canonical label for raw, or OtherPrefix followed by
// the trimmed, lower-cased input.
func Normalize(raw string) string {
	n := strings.ToLower(strings.TrimSpace(raw))
	for _, r := range rules {
		for _, kw := range r.keywords {
			if strings.Contains(n, kw) {
				return r.label
			}
		}
	}
	return OtherPrefix + n
}

// IsCanonical reports whether label is one of the fixed labels rather than an OTHER fallback.
func IsCanonical(label string) bool {
	for _, r := range rules {
		if r.label == label {
			return true
		}
	}
	return false
}
