/*
Package credential decides whether a presented QR token belongs to a window.

PURPOSE:
  Physical QR codes get printed, laminated, photographed and regenerated.
  Over time the payloads drift: stray whitespace from copy/paste, case
  differences from regeneration tooling. Exact-only matching rejects
  legitimate codes; substring matching accepts foreign ones. The answer is
  an ORDERED list of matching strategies, strictest first:

    1. ExactMatch    byte equality
    2. TrimmedMatch  equality after trimming surrounding whitespace
    3. PatternMatch  both tokens shaped PREFIX_NAME[_SUFFIX...]; the NAME
                     segment compared case-insensitively

  Each strategy is independently testable, and the hard invariant - a token
  whose name segment is "APEL" never matches a window whose name segment is
  "IBADAH" - stays auditable in one place (PatternMatch) instead of being
  buried in nested conditionals.

KEY CONCEPTS IN THIS FILE (strategy.go):
  - Strategy: one tier of the match ladder
  - DefaultStrategies: the production ladder, in priority order
  - token shape parsing for PatternMatch

SEE ALSO:
  - validator.go: preconditions + ladder evaluation against one window
  - result.go:    Accepted/Rejected outcome values
*/
package credential

import "strings"

// recognizedPrefixes are the prefix literals a structured token may carry.
// "AP" is the historical payload prefix; "QR" appears on regenerated codes.
var recognizedPrefixes = []string{"AP", "QR"}

// =============================================================================
// STRATEGY - One tier of the matching ladder
// =============================================================================

// Strategy is a single matching tier. Matches reports whether the presented
// token satisfies this tier against the expected token. Strategies are pure.
type Strategy interface {
	// Name tags the tier in results and logs.
	Name() string
	// Matches compares a presented token against a window's expected token.
	Matches(presented, expected string) bool
}

// DefaultStrategies returns the production ladder in priority order.
func DefaultStrategies() []Strategy {
	return []Strategy{ExactMatch{}, TrimmedMatch{}, PatternMatch{}}
}

// =============================================================================
// TIER 1 - EXACT
// =============================================================================

// ExactMatch accepts byte-for-byte equality only.
type ExactMatch struct{}

func (ExactMatch) Name() string { return "exact" }

func (ExactMatch) Matches(presented, expected string) bool {
	return expected != "" && presented == expected
}

// =============================================================================
// TIER 2 - TRIMMED
// =============================================================================

// TrimmedMatch accepts equality after trimming whitespace from both sides
// of both tokens. Copy/paste from scanner apps pads payloads.
type TrimmedMatch struct{}

func (TrimmedMatch) Name() string { return "trimmed" }

func (TrimmedMatch) Matches(presented, expected string) bool {
	e := strings.TrimSpace(expected)
	return e != "" && strings.TrimSpace(presented) == e
}

// =============================================================================
// TIER 3 - PATTERN
// =============================================================================

// PatternMatch accepts structurally equivalent tokens. Both tokens must
// parse as PREFIX_NAME[_SUFFIX...] with a recognized prefix; the name
// segments are then compared case-insensitively. The name must match in
// full - never as a substring - so a foreign window's token can only
// collide if the windows genuinely share a name segment.
type PatternMatch struct{}

func (PatternMatch) Name() string { return "pattern" }

func (PatternMatch) Matches(presented, expected string) bool {
	pName, ok := tokenName(presented)
	if !ok {
		return false
	}
	eName, ok := tokenName(expected)
	if !ok {
		return false
	}
	return strings.EqualFold(pName, eName)
}

// tokenName extracts the NAME segment of a PREFIX_NAME[_SUFFIX...] token.
// Returns false if the token does not follow the structure.
func tokenName(token string) (string, bool) {
	parts := strings.Split(strings.TrimSpace(token), "_")
	if len(parts) < 2 {
		return "", false
	}
	prefix := strings.ToUpper(parts[0])
	for _, p := range recognizedPrefixes {
		if prefix == p {
			if parts[1] == "" {
				return "", false
			}
			return parts[1], true
		}
	}
	return "", false
}
