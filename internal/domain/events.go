package domain

import (
	"time"

	"github.com/google/uuid"
)

// Event type names carried to the outbox and over the wire.
const (
	EventTypeDebtSettled       = "debt.settled"
	EventTypeDebtRolledBack    = "debt.rolled_back"
	EventTypePlanNotMatched    = "repayment_plan.not_matched"
	EventTypeContractCompleted = "contract.completed"
)

// Event is a domain event buffered by the aggregate until drained.
// The variant set is closed: DebtSettled, DebtRolledBack,
// RepaymentPlanNotMatched and ContractCompleted.
type Event interface {
	EventID() string
	OccurredOn() time.Time
	EventType() string
}

// EventEnvelope carries the identity and occurrence time shared by all variants.
type EventEnvelope struct {
	ID         string    `json:"event_id"`
	OccurredAt time.Time `json:"occurred_on"`
}

func newEnvelope() EventEnvelope {
	return EventEnvelope{ID: uuid.NewString(), OccurredAt: time.Now()}
}

func (e EventEnvelope) EventID() string {
	return e.ID
}

func (e EventEnvelope) OccurredOn() time.Time {
	return e.OccurredAt
}

// DebtSettled is emitted after a settlement is applied to a plan.
type DebtSettled struct {
	EventEnvelope
	ContractID      int64   `json:"contract_id"`
	OrderID         OrderID `json:"order_id"`
	Period          Period  `json:"period"`
	SettledAmount   Money   `json:"settled_amount"`
	TotalPaidAmount Money   `json:"total_paid_amount"`
}

func (DebtSettled) EventType() string { return EventTypeDebtSettled }

// DebtRolledBack is emitted after a refund reverses settled amounts.
type DebtRolledBack struct {
	EventEnvelope
	ContractID       int64   `json:"contract_id"`
	OrderID          OrderID `json:"order_id"`
	RolledBackAmount Money   `json:"rolled_back_amount"`
	TotalPaidAmount  Money   `json:"total_paid_amount"`
}

func (DebtRolledBack) EventType() string { return EventTypeDebtRolledBack }

// RepaymentPlanNotMatched is emitted when settlement finds no plan for the
// period inferred from the order creation date. Diagnostic, not an error.
type RepaymentPlanNotMatched struct {
	EventEnvelope
	ContractID int64   `json:"contract_id"`
	OrderID    OrderID `json:"order_id"`
	Period     Period  `json:"period"`
	Amount     Money   `json:"amount"`
}

func (RepaymentPlanNotMatched) EventType() string { return EventTypePlanNotMatched }

// ContractCompleted is emitted when every repayment plan is fully paid.
type ContractCompleted struct {
	EventEnvelope
	ContractID      int64 `json:"contract_id"`
	FinalPaidAmount Money `json:"final_paid_amount"`
}

func (ContractCompleted) EventType() string { return EventTypeContractCompleted }
