package repository

import (
	"context"
	"time"

	"github.com/zhanghongming044-cell/debt-settlement-ddd/internal/domain"
)

// DebtContractRepository loads and stores the full DebtContract aggregate.
type DebtContractRepository interface {
	// Save persists the aggregate (insert-or-update), assigning surrogate IDs
	// to the contract and its new plans and records. Drained events are stored
	// as outbox rows in the same transaction, so an event row exists iff the
	// state change it describes committed.
	Save(ctx context.Context, contract *domain.DebtContract, events []domain.Event) error

	// FindByID returns the fully materialized aggregate.
	FindByID(ctx context.Context, id int64) (*domain.DebtContract, error)

	// FindByCaseEntrustID returns the contract for a case entrustment.
	FindByCaseEntrustID(ctx context.Context, caseEntrustID int64) (*domain.DebtContract, error)

	// FindByMemberUserID returns the contract for a member.
	FindByMemberUserID(ctx context.Context, memberUserID int64) (*domain.DebtContract, error)

	// SummarizeRecords aggregates repayment activity recorded in [from, to).
	SummarizeRecords(ctx context.Context, from, to time.Time) (*RecordSummary, error)
}

// RecordSummary aggregates repayment activity over a time window.
type RecordSummary struct {
	IncomeCents  int64 `db:"income_cents"`
	ExpenseCents int64 `db:"expense_cents"`
	RecordCount  int64 `db:"record_count"`
}

// DivideRecordRepository looks up externally computed allocation amounts.
type DivideRecordRepository interface {
	// GetSupplierDivideAmount returns the supplier allocation total for an
	// order. Zero means no settlement should be attempted.
	GetSupplierDivideAmount(ctx context.Context, orderNumber string) (domain.Money, error)

	// GetSupplierDivideAmountByOrderID returns the allocation amount at order
	// detail granularity.
	GetSupplierDivideAmountByOrderID(ctx context.Context, orderID domain.OrderID) (domain.Money, error)

	// ExistsByOrderID reports whether an allocation record exists.
	ExistsByOrderID(ctx context.Context, orderID domain.OrderID) (bool, error)
}

// StoredEvent is an outbox row awaiting publication.
type StoredEvent struct {
	EventID    string    `db:"event_id"`
	ContractID int64     `db:"contract_id"`
	EventType  string    `db:"event_type"`
	Payload    []byte    `db:"payload"`
	OccurredAt time.Time `db:"occurred_at"`
}

// EventOutbox is the publisher side of the outbox rows written by
// DebtContractRepository.Save.
type EventOutbox interface {
	// FetchUnpublished returns up to limit rows in occurrence order.
	FetchUnpublished(ctx context.Context, limit int) ([]*StoredEvent, error)

	// MarkPublished flags the given events as delivered.
	MarkPublished(ctx context.Context, eventIDs []string) error

	// CountEventsByType counts stored events of one type occurring in [from, to).
	CountEventsByType(ctx context.Context, eventType string, from, to time.Time) (int64, error)
}
