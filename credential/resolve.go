/*
resolve.go - Resolving a window from a token

PURPOSE:
  When a check-in arrives with only a QR payload (no explicit window id),
  the token itself selects the target among the currently open windows.
  Selection uses the same ladder as validation, and the pattern tier only
  resolves when it matches EXACTLY ONE candidate - an ambiguous name never
  silently picks a window.
*/
package credential

import (
	"errors"

	"github.com/warp/attendance-engine/schedule"
)

var (
	// ErrNoMatchingWindow is returned when no candidate accepts the token.
	ErrNoMatchingWindow = errors.New("token matches no open window")

	// ErrAmbiguousToken is returned when the pattern tier matches more
	// than one candidate window.
	ErrAmbiguousToken = errors.New("token matches multiple open windows")
)

// ResolveWindow picks the window a token targets among candidates,
// evaluating tiers strictly in order: if any candidate matches exactly,
// later tiers are never consulted. Within a tier, more than one match is
// ambiguous and refused.
func ResolveWindow(token string, candidates []schedule.ScheduleWindow) (schedule.ScheduleWindow, error) {
	for _, s := range DefaultStrategies() {
		var matched []schedule.ScheduleWindow
		for _, w := range candidates {
			if !w.Active || !w.RequiresCredential {
				continue
			}
			if s.Matches(token, w.CredentialToken) {
				matched = append(matched, w)
			}
		}
		switch len(matched) {
		case 0:
			continue
		case 1:
			return matched[0], nil
		default:
			return schedule.ScheduleWindow{}, ErrAmbiguousToken
		}
	}
	return schedule.ScheduleWindow{}, ErrNoMatchingWindow
}
