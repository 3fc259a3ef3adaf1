/*
result.go - Validation outcome values

PURPOSE:
  A rejection is NOT an error. It is an ordinary, expected result carrying
  a human-readable reason the UI shows the employee verbatim (localization
  happens at the presentation layer). Only infrastructure failures travel
  as Go errors; the validator itself has none.
*/
package credential

// Result is the outcome of validating a presented token against a window.
type Result struct {
	Accepted bool

	// Tier names the strategy that accepted ("exact", "trimmed",
	// "pattern"). Empty on rejection.
	Tier string

	// Reason explains a rejection for user display. Empty on acceptance.
	Reason string
}

// Accept builds an accepted result tagged with the matching tier.
func Accept(tier string) Result { return Result{Accepted: true, Tier: tier} }

// Reject builds a rejected result with a user-facing reason.
func Reject(reason string) Result { return Result{Reason: reason} }
