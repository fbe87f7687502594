package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPlan(t *testing.T, dueCents int64) *RepaymentPlan {
	t.Helper()
	period, err := NewPeriod(2025, 3)
	require.NoError(t, err)
	plan, err := newRepaymentPlan(period, MustMoney(dueCents))
	require.NoError(t, err)
	return plan
}

func TestRecordPayment(t *testing.T) {
	tests := []struct {
		name            string
		dueCents        int64
		payments        []int64
		expectedApplied []int64
		expectedPaid    int64
		completed       bool
	}{
		{
			name:            "partial payment",
			dueCents:        100000,
			payments:        []int64{50000},
			expectedApplied: []int64{50000},
			expectedPaid:    50000,
		},
		{
			name:            "exact payment completes",
			dueCents:        100000,
			payments:        []int64{100000},
			expectedApplied: []int64{100000},
			expectedPaid:    100000,
			completed:       true,
		},
		{
			name:            "overpayment capped at remaining",
			dueCents:        100000,
			payments:        []int64{150000},
			expectedApplied: []int64{100000},
			expectedPaid:    100000,
			completed:       true,
		},
		{
			name:            "payment against completed plan is a no-op",
			dueCents:        100000,
			payments:        []int64{100000, 50000},
			expectedApplied: []int64{100000, 0},
			expectedPaid:    100000,
			completed:       true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan := newTestPlan(t, tt.dueCents)
			for i, payment := range tt.payments {
				applied := plan.recordPayment(MustMoney(payment))
				assert.Equal(t, tt.expectedApplied[i], applied.Cents())
			}
			assert.Equal(t, tt.expectedPaid, plan.PaidAmount().Cents())
			assert.Equal(t, tt.completed, plan.Completed())
			assert.LessOrEqual(t, plan.PaidAmount().Cents(), plan.DueAmount().Cents())
		})
	}
}

func TestRollbackPayment(t *testing.T) {
	t.Run("rollback on unpaid plan is a no-op", func(t *testing.T) {
		plan := newTestPlan(t, 100000)
		rolled := plan.rollbackPayment(MustMoney(50000))
		assert.True(t, rolled.IsZero())
	})

	t.Run("rollback capped at paid amount", func(t *testing.T) {
		plan := newTestPlan(t, 100000)
		plan.recordPayment(MustMoney(30000))
		rolled := plan.rollbackPayment(MustMoney(50000))
		assert.Equal(t, int64(30000), rolled.Cents())
		assert.True(t, plan.PaidAmount().IsZero())
	})

	t.Run("rollback un-marks completion", func(t *testing.T) {
		plan := newTestPlan(t, 100000)
		plan.recordPayment(MustMoney(100000))
		require.True(t, plan.Completed())

		rolled := plan.rollbackPayment(MustMoney(40000))
		assert.Equal(t, int64(40000), rolled.Cents())
		assert.False(t, plan.Completed())
		assert.Equal(t, int64(60000), plan.PaidAmount().Cents())
		assert.Equal(t, int64(40000), plan.RemainingAmount().Cents())
	})
}

func TestNewRepaymentPlanValidation(t *testing.T) {
	period, _ := NewPeriod(2025, 3)

	_, err := newRepaymentPlan(Period{}, MustMoney(100))
	assert.ErrorIs(t, err, ErrInvalidPeriod)

	_, err = newRepaymentPlan(period, ZeroMoney)
	assert.ErrorIs(t, err, ErrZeroAmount)
}

func TestRepaymentPlanEquals(t *testing.T) {
	period, _ := NewPeriod(2025, 3)
	other, _ := NewPeriod(2025, 4)

	a, _ := newRepaymentPlan(period, MustMoney(100))
	b, _ := newRepaymentPlan(period, MustMoney(200))
	c, _ := newRepaymentPlan(other, MustMoney(100))

	// natural key before persistence
	assert.True(t, a.Equals(b))
	assert.False(t, a.Equals(c))

	// identity once assigned
	a.SetID(1)
	b.SetID(2)
	assert.False(t, a.Equals(b))
	b.SetID(1)
	assert.True(t, a.Equals(b))
}
