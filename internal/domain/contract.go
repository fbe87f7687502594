package domain

import (
	"fmt"
	"sort"
	"time"
)

// DebtContract is the aggregate root tracking installment-based debt
// reduction for one member. All mutation of plans and records goes through
// it, and it keeps the invariant that the paid total equals the sum of all
// plans' paid amounts.
type DebtContract struct {
	id              int64
	caseEntrustID   int64
	memberUserID    int64
	totalAmount     Money
	paidTotalAmount Money
	status          SettleStatus
	createdAt       time.Time

	plans   []*RepaymentPlan
	records []*RepaymentRecord
	events  []Event
}

// NewDebtContract creates a contract in PENDING state with no plans yet.
func NewDebtContract(caseEntrustID, memberUserID int64, totalAmount Money) (*DebtContract, error) {
	if caseEntrustID == 0 {
		return nil, ErrCaseEntrustIDRequired
	}
	if memberUserID == 0 {
		return nil, ErrMemberUserIDRequired
	}
	if totalAmount.IsZero() {
		return nil, fmt.Errorf("%w: contract total amount", ErrZeroAmount)
	}
	return &DebtContract{
		caseEntrustID: caseEntrustID,
		memberUserID:  memberUserID,
		totalAmount:   totalAmount,
		status:        SettleStatusPending,
		createdAt:     time.Now(),
	}, nil
}

// RehydrateDebtContract restores an aggregate from storage.
func RehydrateDebtContract(id, caseEntrustID, memberUserID int64, totalAmount, paidTotalAmount Money,
	status SettleStatus, createdAt time.Time, plans []*RepaymentPlan, records []*RepaymentRecord) *DebtContract {
	contract := &DebtContract{
		id:              id,
		caseEntrustID:   caseEntrustID,
		memberUserID:    memberUserID,
		totalAmount:     totalAmount,
		paidTotalAmount: paidTotalAmount,
		status:          status,
		createdAt:       createdAt,
	}
	contract.plans = append(contract.plans, plans...)
	contract.records = append(contract.records, records...)
	return contract
}

// AddRepaymentPlan registers a new installment period. A plan for an already
// registered period is a state conflict.
func (c *DebtContract) AddRepaymentPlan(period Period, dueAmount Money) error {
	if c.planForPeriod(period) != nil {
		return fmt.Errorf("%w: %s", ErrDuplicatePeriod, period)
	}
	plan, err := newRepaymentPlan(period, dueAmount)
	if err != nil {
		return err
	}
	c.plans = append(c.plans, plan)
	return nil
}

// SettleDebt credits an order's allocated amount against the plan for the
// period inferred from the order creation date. An unmatched period or an
// already fully paid plan returns false without an error; the unmatched case
// additionally emits a RepaymentPlanNotMatched event.
func (c *DebtContract) SettleDebt(orderID OrderID, amount Money, orderCreatedAt time.Time) (bool, error) {
	if orderID.IsZero() {
		return false, ErrOrderIDRequired
	}
	if amount.IsZero() {
		return false, fmt.Errorf("%w: settlement amount", ErrZeroAmount)
	}

	period := PeriodFromDate(orderCreatedAt)
	plan := c.planForPeriod(period)
	if plan == nil {
		c.events = append(c.events, RepaymentPlanNotMatched{
			EventEnvelope: newEnvelope(),
			ContractID:    c.id,
			OrderID:       orderID,
			Period:        period,
			Amount:        amount,
		})
		return false, nil
	}

	applied := plan.recordPayment(amount)
	if applied.IsZero() {
		return false, nil
	}

	c.paidTotalAmount = c.paidTotalAmount.Add(applied)

	record, err := NewSettlementRecord(orderID, period, applied)
	if err != nil {
		return false, err
	}
	c.records = append(c.records, record)
	c.status = SettleStatusSettled

	c.events = append(c.events, DebtSettled{
		EventEnvelope:   newEnvelope(),
		ContractID:      c.id,
		OrderID:         orderID,
		Period:          period,
		SettledAmount:   applied,
		TotalPaidAmount: c.paidTotalAmount,
	})

	c.checkCompletion()
	return true, nil
}

// RollbackDebt reverses previously settled amounts for the order, most recent
// period first, capped at the order's settled total. An order with no
// settlement on record is a no-op returning zero.
func (c *DebtContract) RollbackDebt(orderID OrderID, refundAmount Money) (Money, error) {
	if orderID.IsZero() {
		return ZeroMoney, ErrOrderIDRequired
	}
	if refundAmount.IsZero() {
		return ZeroMoney, fmt.Errorf("%w: refund amount", ErrZeroAmount)
	}

	settled := c.settlementRecordsFor(orderID)
	if len(settled) == 0 {
		return ZeroMoney, nil
	}

	totalSettled := ZeroMoney
	for _, record := range settled {
		totalSettled = totalSettled.Add(record.Amount())
	}

	toRollback := refundAmount.Min(totalSettled)
	if toRollback.IsZero() {
		return ZeroMoney, nil
	}

	remaining := toRollback
	for _, period := range distinctPeriodsDescending(settled) {
		if remaining.IsZero() {
			break
		}
		plan := c.planForPeriod(period)
		if plan == nil {
			// should not happen: every settlement record targets a plan
			continue
		}
		rolled := plan.rollbackPayment(remaining)
		if rolled.IsZero() {
			continue
		}
		record, err := NewRollbackRecord(orderID, period, rolled)
		if err != nil {
			return ZeroMoney, err
		}
		c.records = append(c.records, record)
		remaining, err = remaining.Subtract(rolled)
		if err != nil {
			return ZeroMoney, err
		}
	}

	actuallyRolledBack, err := toRollback.Subtract(remaining)
	if err != nil {
		return ZeroMoney, err
	}
	c.paidTotalAmount, err = c.paidTotalAmount.Subtract(actuallyRolledBack)
	if err != nil {
		return ZeroMoney, err
	}

	if actuallyRolledBack == totalSettled {
		c.status = SettleStatusRolledBack
	} else {
		c.status = SettleStatusPartialBack
	}

	c.events = append(c.events, DebtRolledBack{
		EventEnvelope:    newEnvelope(),
		ContractID:       c.id,
		OrderID:          orderID,
		RolledBackAmount: actuallyRolledBack,
		TotalPaidAmount:  c.paidTotalAmount,
	})

	return actuallyRolledBack, nil
}

// checkCompletion marks the contract COMPLETED once every plan is fully paid.
// A later rollback overwrites the status rather than re-running this check.
func (c *DebtContract) checkCompletion() {
	if len(c.plans) == 0 {
		return
	}
	for _, plan := range c.plans {
		if !plan.Completed() {
			return
		}
	}
	c.status = SettleStatusCompleted
	c.events = append(c.events, ContractCompleted{
		EventEnvelope:   newEnvelope(),
		ContractID:      c.id,
		FinalPaidAmount: c.paidTotalAmount,
	})
}

// DrainEvents returns the buffered events in emission order and clears the
// buffer. Each successful mutation must be drained exactly once.
func (c *DebtContract) DrainEvents() []Event {
	events := make([]Event, len(c.events))
	copy(events, c.events)
	c.events = c.events[:0]
	return events
}

func (c *DebtContract) planForPeriod(period Period) *RepaymentPlan {
	for _, plan := range c.plans {
		if plan.Period() == period {
			return plan
		}
	}
	return nil
}

func (c *DebtContract) settlementRecordsFor(orderID OrderID) []*RepaymentRecord {
	var matched []*RepaymentRecord
	for _, record := range c.records {
		if record.OrderID() == orderID && record.Type() == RepaymentTypeIncome {
			matched = append(matched, record)
		}
	}
	return matched
}

func distinctPeriodsDescending(records []*RepaymentRecord) []Period {
	seen := make(map[Period]struct{}, len(records))
	var periods []Period
	for _, record := range records {
		if _, ok := seen[record.Period()]; ok {
			continue
		}
		seen[record.Period()] = struct{}{}
		periods = append(periods, record.Period())
	}
	sort.Slice(periods, func(i, j int) bool {
		return periods[i].After(periods[j])
	})
	return periods
}

func (c *DebtContract) ID() int64 {
	return c.id
}

// SetID assigns the surrogate ID on first save. Repository use only.
func (c *DebtContract) SetID(id int64) {
	c.id = id
}

func (c *DebtContract) CaseEntrustID() int64 {
	return c.caseEntrustID
}

func (c *DebtContract) MemberUserID() int64 {
	return c.memberUserID
}

func (c *DebtContract) TotalAmount() Money {
	return c.totalAmount
}

func (c *DebtContract) PaidTotalAmount() Money {
	return c.paidTotalAmount
}

func (c *DebtContract) Status() SettleStatus {
	return c.status
}

func (c *DebtContract) CreatedAt() time.Time {
	return c.createdAt
}

// RemainingAmount is the contract total still owed.
func (c *DebtContract) RemainingAmount() Money {
	if c.paidTotalAmount.GreaterThanOrEqual(c.totalAmount) {
		return ZeroMoney
	}
	remaining, _ := c.totalAmount.Subtract(c.paidTotalAmount)
	return remaining
}

// RepaymentPlans returns a read-only snapshot of the plans. Plans mutate only
// through SettleDebt and RollbackDebt.
func (c *DebtContract) RepaymentPlans() []*RepaymentPlan {
	plans := make([]*RepaymentPlan, len(c.plans))
	copy(plans, c.plans)
	return plans
}

// RepaymentRecords returns a read-only snapshot of the ledger.
func (c *DebtContract) RepaymentRecords() []*RepaymentRecord {
	records := make([]*RepaymentRecord, len(c.records))
	copy(records, c.records)
	return records
}

// Equals compares by surrogate ID once both sides have one, otherwise by the
// (case entrust, member) natural key.
func (c *DebtContract) Equals(other *DebtContract) bool {
	if other == nil {
		return false
	}
	if c.id != 0 && other.id != 0 {
		return c.id == other.id
	}
	return c.caseEntrustID == other.caseEntrustID && c.memberUserID == other.memberUserID
}

func (c *DebtContract) String() string {
	return fmt.Sprintf("DebtContract{id=%d, caseEntrustId=%d, total=%s, paid=%s, status=%s}",
		c.id, c.caseEntrustID, c.totalAmount, c.paidTotalAmount, c.status)
}
