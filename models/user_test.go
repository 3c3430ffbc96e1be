package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestHasPremium(t *testing.T) {
	now := time.Date(2026, time.June, 15, 12, 0, 0, 0, time.UTC)

	free := &User{Plan: PlanFree}
	assert.False(t, free.HasPremium(now))

	paying := &User{Plan: PlanPremium}
	assert.True(t, paying.HasPremium(now))

	// A bonus window counts as premium until it runs out, even on the
	// free plan.
	future := now.Add(24 * time.Hour)
	bonus := &User{Plan: PlanFree, PremiumUntil: &future}
	assert.True(t, bonus.HasPremium(now))

	past := now.Add(-time.Minute)
	expired := &User{Plan: PlanFree, PremiumUntil: &past}
	assert.False(t, expired.HasPremium(now))
}
