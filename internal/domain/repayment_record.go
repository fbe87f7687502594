package domain

import (
	"fmt"
	"time"
)

// RepaymentType distinguishes settlement credits from rollback debits.
type RepaymentType string

const (
	// RepaymentTypeIncome records a settlement reducing the debt.
	RepaymentTypeIncome RepaymentType = "INCOME"
	// RepaymentTypeExpense records a rollback restoring the debt.
	RepaymentTypeExpense RepaymentType = "EXPENSE"
)

const (
	remarkSettlement = "debt settlement"
	remarkRollback   = "refund rollback"
)

// RepaymentRecord is an append-only ledger line inside a DebtContract
// recording one settlement or rollback. Immutable except for the audit remark.
type RepaymentRecord struct {
	id         int64
	orderID    OrderID
	period     Period
	recordType RepaymentType
	amount     Money
	recordedAt time.Time
	remark     string
}

func newRepaymentRecord(orderID OrderID, period Period, recordType RepaymentType, amount Money) (*RepaymentRecord, error) {
	if orderID.IsZero() {
		return nil, ErrOrderIDRequired
	}
	if period.IsZero() {
		return nil, fmt.Errorf("%w: period is required", ErrInvalidPeriod)
	}
	if amount.IsZero() {
		return nil, fmt.Errorf("%w: record amount", ErrZeroAmount)
	}
	return &RepaymentRecord{
		orderID:    orderID,
		period:     period,
		recordType: recordType,
		amount:     amount,
		recordedAt: time.Now(),
	}, nil
}

// NewSettlementRecord creates an INCOME ledger line.
func NewSettlementRecord(orderID OrderID, period Period, amount Money) (*RepaymentRecord, error) {
	record, err := newRepaymentRecord(orderID, period, RepaymentTypeIncome, amount)
	if err != nil {
		return nil, err
	}
	record.remark = remarkSettlement
	return record, nil
}

// NewRollbackRecord creates an EXPENSE ledger line.
func NewRollbackRecord(orderID OrderID, period Period, amount Money) (*RepaymentRecord, error) {
	record, err := newRepaymentRecord(orderID, period, RepaymentTypeExpense, amount)
	if err != nil {
		return nil, err
	}
	record.remark = remarkRollback
	return record, nil
}

// RehydrateRepaymentRecord restores a record from storage.
func RehydrateRepaymentRecord(id int64, orderID OrderID, period Period, recordType RepaymentType,
	amount Money, recordedAt time.Time, remark string) *RepaymentRecord {
	return &RepaymentRecord{
		id:         id,
		orderID:    orderID,
		period:     period,
		recordType: recordType,
		amount:     amount,
		recordedAt: recordedAt,
		remark:     remark,
	}
}

func (r *RepaymentRecord) ID() int64 {
	return r.id
}

// SetID assigns the surrogate ID on first save. Repository use only.
func (r *RepaymentRecord) SetID(id int64) {
	r.id = id
}

func (r *RepaymentRecord) OrderID() OrderID {
	return r.orderID
}

func (r *RepaymentRecord) Period() Period {
	return r.period
}

func (r *RepaymentRecord) Type() RepaymentType {
	return r.recordType
}

func (r *RepaymentRecord) Amount() Money {
	return r.amount
}

func (r *RepaymentRecord) RecordedAt() time.Time {
	return r.recordedAt
}

func (r *RepaymentRecord) Remark() string {
	return r.remark
}

// UpdateRemark replaces the audit annotation. The ledger line itself is immutable.
func (r *RepaymentRecord) UpdateRemark(remark string) {
	r.remark = remark
}

// Equals compares by surrogate ID once both sides have one, otherwise by the
// (order, period, type) natural key.
func (r *RepaymentRecord) Equals(other *RepaymentRecord) bool {
	if other == nil {
		return false
	}
	if r.id != 0 && other.id != 0 {
		return r.id == other.id
	}
	return r.orderID == other.orderID && r.period == other.period && r.recordType == other.recordType
}

func (r *RepaymentRecord) String() string {
	return fmt.Sprintf("RepaymentRecord{order=%s, period=%s, type=%s, amount=%s}",
		r.orderID, r.period, r.recordType, r.amount)
}
