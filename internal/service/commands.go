package service

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/zhanghongming044-cell/debt-settlement-ddd/internal/domain"
)

// Refund status codes supplied by the order system. The core never interprets
// them; callers use them to decide whether a rollback applies.
const (
	RefundStatusPartial = 2
	RefundStatusFull    = 3
)

// PlanInput is one installment period registered at contract creation.
type PlanInput struct {
	Period    string
	DueAmount decimal.Decimal
}

// CreateContractCommand opens a debt contract with its repayment plans.
type CreateContractCommand struct {
	CaseEntrustID int64
	MemberUserID  int64
	TotalAmount   decimal.Decimal
	Plans         []PlanInput
}

// SettleDebtCommand requests settlement of an order's allocation amount.
type SettleDebtCommand struct {
	OrderNumber    string
	OrderDetailID  *int64
	OrderCreatedAt time.Time
	MemberUserID   int64
}

// IsItemLevel reports whether the command targets a single order detail.
func (c SettleDebtCommand) IsItemLevel() bool {
	return c.OrderDetailID != nil
}

func (c SettleDebtCommand) orderID() (domain.OrderID, error) {
	if c.OrderDetailID != nil {
		return domain.NewItemOrderID(c.OrderNumber, *c.OrderDetailID)
	}
	return domain.NewOrderID(c.OrderNumber)
}

// RollbackDebtCommand requests reversal of settled amounts after a refund.
type RollbackDebtCommand struct {
	OrderNumber   string
	OrderDetailID *int64
	RefundAmount  decimal.Decimal
	RefundStatus  int
	MemberUserID  int64
}

// IsItemLevel reports whether the command targets a single order detail.
func (c RollbackDebtCommand) IsItemLevel() bool {
	return c.OrderDetailID != nil
}

// IsFullRefund reports whether the order system flagged a full refund.
func (c RollbackDebtCommand) IsFullRefund() bool {
	return c.RefundStatus == RefundStatusFull
}

func (c RollbackDebtCommand) orderID() (domain.OrderID, error) {
	if c.OrderDetailID != nil {
		return domain.NewItemOrderID(c.OrderNumber, *c.OrderDetailID)
	}
	return domain.NewOrderID(c.OrderNumber)
}
