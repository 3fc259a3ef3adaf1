/*
Package xp maps activity types to experience point values.

PURPOSE:
  The leveling subsystem awards XP per activity type ("apel", "ibadah",
  ...). From the ranking engine's point of view the table is an opaque
  lookup: values come from configuration, not code, and the blending of
  XP into the daily score is a single configurable weight.

BLENDING:
  dailyScore = durationMinutes + weight * xpEarned

  The default weight is zero: ranking stays purely duration-based until
  the business decides otherwise. The weight is deployment configuration
  (scoring.xp_weight), not engine logic - rank ORDER is always by
  duration; the blended score is informational.

SEE ALSO:
  - config/: where the table and weight are loaded from
  - ranking/: consumes Blender for DailyScore
*/
package xp

import "github.com/shopspring/decimal"

// Table maps activity type to an XP amount. Unknown types earn zero.
type Table map[string]int

// For returns the XP for an activity type, zero when unconfigured.
func (t Table) For(activityType string) int {
	if t == nil {
		return 0
	}
	return t[activityType]
}

// Blender folds XP into a daily score with a configured weight.
type Blender struct {
	Weight decimal.Decimal
}

// NewBlender builds a blender; weight 0 makes scores pure duration.
func NewBlender(weight decimal.Decimal) Blender {
	return Blender{Weight: weight}
}

// DailyScore combines a summed duration and summed XP into one score.
func (b Blender) DailyScore(durationMinutes, xpEarned int) decimal.Decimal {
	score := decimal.NewFromInt(int64(durationMinutes))
	if b.Weight.IsZero() || xpEarned == 0 {
		return score
	}
	return score.Add(b.Weight.Mul(decimal.NewFromInt(int64(xpEarned))))
}
