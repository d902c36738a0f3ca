package allocation

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func resultWith(amount int64) Result {
	return Result{BudgetItemId: 1, ExpectedAmount: decimal.NewFromInt(amount)}
}

func TestSummarize_Totals(t *testing.T) {
	// given
	results := []Result{resultWith(200), resultWith(300)}

	// when
	summary := Summarize(results, paycheck)

	// then: 500 of 800 net
	assert.True(t, summary.TotalAllocated.Equal(decimal.NewFromInt(500)))
	assert.True(t, summary.Remaining.Equal(decimal.NewFromInt(300)))
	assert.True(t, summary.PercentAllocated.Equal(decimal.NewFromInt(62).Add(decimal.RequireFromString("0.5"))))
}

func TestSummarize_ZeroNetIncome(t *testing.T) {
	// given
	source := paycheck
	source.NetAmount = decimal.Zero

	// when
	summary := Summarize([]Result{resultWith(100)}, source)

	// then: no division, percent stays zero
	assert.True(t, summary.PercentAllocated.IsZero())
}

func TestHealthScore_Bands(t *testing.T) {
	tests := []struct {
		name       string
		percent    string
		wantScore  int
		wantStatus HealthStatus
	}{
		{"over-allocated loses two points per percent", "110", 80, HealthDanger},
		{"heavily over-allocated floors at zero", "200", 0, HealthDanger},
		{"fully allocated counts as cutting it close", "100", 85, HealthWarning},
		{"warning band just below full", "97", 85, HealthWarning},
		{"good band", "90", 95, HealthGood},
		{"comfortable range is excellent", "80", 100, HealthExcellent},
		{"under-allocation gets a gentle penalty", "50", 90, HealthGood},
		{"deep under-allocation floors at 70", "0", 70, HealthGood},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score, status := healthScore(decimal.RequireFromString(tt.percent))
			assert.Equal(t, tt.wantScore, score)
			assert.Equal(t, tt.wantStatus, status)
		})
	}
}
