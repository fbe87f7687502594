package domain

import "fmt"

// RepaymentPlan is one installment period's due amount inside a DebtContract.
// It is created and mutated only through the aggregate root.
type RepaymentPlan struct {
	id         int64
	period     Period
	dueAmount  Money
	paidAmount Money
	completed  bool
}

func newRepaymentPlan(period Period, dueAmount Money) (*RepaymentPlan, error) {
	if period.IsZero() {
		return nil, fmt.Errorf("%w: period is required", ErrInvalidPeriod)
	}
	if dueAmount.IsZero() {
		return nil, fmt.Errorf("%w: due amount", ErrZeroAmount)
	}
	return &RepaymentPlan{period: period, dueAmount: dueAmount}, nil
}

// RehydrateRepaymentPlan restores a plan from storage.
func RehydrateRepaymentPlan(id int64, period Period, dueAmount, paidAmount Money, completed bool) *RepaymentPlan {
	return &RepaymentPlan{
		id:         id,
		period:     period,
		dueAmount:  dueAmount,
		paidAmount: paidAmount,
		completed:  completed,
	}
}

// recordPayment applies up to the remaining due amount and returns the amount
// actually absorbed. Callers never need to pre-clamp.
func (p *RepaymentPlan) recordPayment(amount Money) Money {
	remaining := p.RemainingAmount()
	if remaining.IsZero() {
		return ZeroMoney
	}
	applied := amount.Min(remaining)
	p.paidAmount = p.paidAmount.Add(applied)
	if p.paidAmount.GreaterThanOrEqual(p.dueAmount) {
		p.completed = true
	}
	return applied
}

// rollbackPayment reverses up to the paid amount and returns the amount
// actually reversed.
func (p *RepaymentPlan) rollbackPayment(amount Money) Money {
	if p.paidAmount.IsZero() {
		return ZeroMoney
	}
	applied := amount.Min(p.paidAmount)
	// applied <= paidAmount, so the subtraction cannot fail
	reduced, err := p.paidAmount.Subtract(applied)
	if err != nil {
		return ZeroMoney
	}
	p.paidAmount = reduced
	if p.completed && p.paidAmount.LessThan(p.dueAmount) {
		p.completed = false
	}
	return applied
}

// RemainingAmount is the unpaid part of the due amount.
func (p *RepaymentPlan) RemainingAmount() Money {
	if p.paidAmount.GreaterThanOrEqual(p.dueAmount) {
		return ZeroMoney
	}
	remaining, _ := p.dueAmount.Subtract(p.paidAmount)
	return remaining
}

func (p *RepaymentPlan) ID() int64 {
	return p.id
}

// SetID assigns the surrogate ID on first save. Repository use only.
func (p *RepaymentPlan) SetID(id int64) {
	p.id = id
}

func (p *RepaymentPlan) Period() Period {
	return p.period
}

func (p *RepaymentPlan) DueAmount() Money {
	return p.dueAmount
}

func (p *RepaymentPlan) PaidAmount() Money {
	return p.paidAmount
}

func (p *RepaymentPlan) Completed() bool {
	return p.completed
}

// Equals compares by surrogate ID once both sides have one, otherwise by the
// period natural key.
func (p *RepaymentPlan) Equals(other *RepaymentPlan) bool {
	if other == nil {
		return false
	}
	if p.id != 0 && other.id != 0 {
		return p.id == other.id
	}
	return p.period == other.period
}

func (p *RepaymentPlan) String() string {
	return fmt.Sprintf("RepaymentPlan{period=%s, due=%s, paid=%s, completed=%t}",
		p.period, p.dueAmount, p.paidAmount, p.completed)
}
