/*
validator.go - Precondition checks and ladder evaluation

PURPOSE:
  Validates one presented token against one target window at one instant.
  Purely advisory: no writes, no side effects. The caller (attendance
  intake) creates the event only after acceptance.

CHECK ORDER (short-circuits on first failure):
  1. window active?              else "window inactive"
  2. window requires credential? else "window does not require a credential"
  3. window open at the instant? else "window not open now (...interval...)"
  4. matching ladder, strictest tier first

  The activity check runs against the window value the caller passed in -
  the snapshot it read at intake. If an administrator deactivates the
  window while a check-in is in flight, whichever state the intake read
  decides, and a deactivated read always rejects.

SEE ALSO:
  - strategy.go: the tiers evaluated in step 4
  - resolve.go:  picking a window FROM a token among several candidates
*/
package credential

import (
	"fmt"
	"time"

	"github.com/warp/attendance-engine/schedule"
)

// Validator evaluates tokens against windows using an ordered strategy
// ladder. The zero value is not usable; use NewValidator.
type Validator struct {
	clock      schedule.Clock
	strategies []Strategy
}

// NewValidator builds a validator with the default ladder.
func NewValidator(clock schedule.Clock) *Validator {
	return &Validator{clock: clock, strategies: DefaultStrategies()}
}

// NewValidatorWithStrategies builds a validator with a custom ladder,
// evaluated in slice order.
func NewValidatorWithStrategies(clock schedule.Clock, strategies []Strategy) *Validator {
	return &Validator{clock: clock, strategies: strategies}
}

// Validate decides whether the presented token is accepted for the window
// at the given instant.
func (v *Validator) Validate(token string, w schedule.ScheduleWindow, at time.Time) Result {
	if !w.Active {
		return Reject("window inactive")
	}
	if !w.RequiresCredential {
		return Reject("window does not require a credential")
	}
	if !w.OpenAt(at, v.clock) {
		return Reject(fmt.Sprintf("window not open now (open %s)", w.Interval()))
	}
	for _, s := range v.strategies {
		if s.Matches(token, w.CredentialToken) {
			return Accept(s.Name())
		}
	}
	return Reject("token does not match this window")
}
