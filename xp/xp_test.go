package xp_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/warp/attendance-engine/xp"
)

func TestTableFor(t *testing.T) {
	table := xp.Table{"apel": 50, "ibadah": 75}

	assert.Equal(t, 50, table.For("apel"))
	assert.Equal(t, 0, table.For("unknown"))

	var nilTable xp.Table
	assert.Equal(t, 0, nilTable.For("apel"), "nil table earns nothing")
}

func TestBlenderDailyScore(t *testing.T) {
	t.Run("zero weight keeps scores pure duration", func(t *testing.T) {
		b := xp.NewBlender(decimal.Zero)

		score := b.DailyScore(10, 100)
		assert.True(t, score.Equal(decimal.NewFromInt(10)), "got %s", score)
	})

	t.Run("weight folds xp in", func(t *testing.T) {
		b := xp.NewBlender(decimal.NewFromFloat(0.5))

		score := b.DailyScore(10, 100)
		assert.True(t, score.Equal(decimal.NewFromInt(60)), "got %s", score)
	})

	t.Run("negative durations blend unchanged", func(t *testing.T) {
		b := xp.NewBlender(decimal.NewFromFloat(0.5))

		score := b.DailyScore(-10, 50)
		assert.True(t, score.Equal(decimal.NewFromInt(15)), "got %s", score)
	})
}
