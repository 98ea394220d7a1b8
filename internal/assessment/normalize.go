package assessment

import (
	"strings"

	"golang.org/x/text/cases"
)

// NormalizationPolicy selects how raw answers are canonicalized before comparison.
type NormalizationPolicy int

const (
	// StripTrailingPunctuation trims and case-folds, then drops the whole trailing run
	// of terminal punctuation (".", ",", "!", "?"), not just the last mark: "hi?!" becomes "hi".
	StripTrailingPunctuation NormalizationPolicy = iota
	// CaseFoldOnly trims and case-folds.
	CaseFoldOnly
)

func (p NormalizationPolicy) String() string {
	switch p {
	case StripTrailingPunctuation:
		return "strip_trailing_punctuation"
	case CaseFoldOnly:
		return "case_fold_only"
	default:
		return "unknown"
	}
}

// terminalPunctuation is the set of marks dropped from the end of an answer.
const terminalPunctuation = ".,!?"

// Normalize canonicalizes raw input under the given policy.
//
// The trailing run of terminal punctuation is removed rather than a single mark, so that
// normalizing twice gives the same result as normalizing once ("hi!!" and "hi!" both become "hi").
func Normalize(policy NormalizationPolicy, raw string) string {
	s := cases.Fold().String(strings.TrimSpace(raw))
	if policy != StripTrailingPunctuation {
		return s
	}
	return strings.TrimRight(s, terminalPunctuation+" \t\r\n")
}

// ParseNormalizationPolicy maps a config string to a policy.
func ParseNormalizationPolicy(s string) (NormalizationPolicy, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "strip_trailing_punctuation", "strip":
		return StripTrailingPunctuation, true
	case "case_fold_only", "fold":
		return CaseFoldOnly, true
	}
	return StripTrailingPunctuation, false
}
