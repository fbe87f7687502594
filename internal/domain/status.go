package domain

// SettleStatus is the lifecycle status of a debt contract.
type SettleStatus string

const (
	// SettleStatusPending marks a contract created but not yet settled against.
	SettleStatusPending SettleStatus = "PENDING"

	// SettleStatusDivided marks allocation complete, awaiting settlement.
	// Reserved: set by the allocation flow upstream, never produced by the
	// aggregate operations here.
	SettleStatusDivided SettleStatus = "DIVIDED"

	// SettleStatusSettled marks at least one successful settlement.
	SettleStatusSettled SettleStatus = "SETTLED"

	// SettleStatusRolledBack marks a rollback that reversed the triggering
	// order's entire settled amount.
	SettleStatusRolledBack SettleStatus = "ROLLED_BACK"

	// SettleStatusPartialBack marks a rollback that reversed only part of the
	// triggering order's settled amount.
	SettleStatusPartialBack SettleStatus = "PARTIAL_BACK"

	// SettleStatusCompleted marks all repayment plans fully paid.
	SettleStatusCompleted SettleStatus = "COMPLETED"
)

// Valid reports whether s is one of the known status values.
func (s SettleStatus) Valid() bool {
	switch s {
	case SettleStatusPending, SettleStatusDivided, SettleStatusSettled,
		SettleStatusRolledBack, SettleStatusPartialBack, SettleStatusCompleted:
		return true
	}
	return false
}
