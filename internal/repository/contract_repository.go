package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/zhanghongming044-cell/debt-settlement-ddd/internal/domain"
)

type contractRepository struct {
	db *sqlx.DB
}

func NewDebtContractRepository(db *sqlx.DB) DebtContractRepository {
	return &contractRepository{db: db}
}

type contractRow struct {
	ID             int64     `db:"id"`
	CaseEntrustID  int64     `db:"case_entrust_id"`
	MemberUserID   int64     `db:"member_user_id"`
	TotalCents     int64     `db:"total_amount_cents"`
	PaidTotalCents int64     `db:"paid_total_cents"`
	Status         string    `db:"status"`
	CreatedAt      time.Time `db:"created_at"`
}

type planRow struct {
	ID         int64  `db:"id"`
	ContractID int64  `db:"contract_id"`
	Period     string `db:"period"`
	DueCents   int64  `db:"due_amount_cents"`
	PaidCents  int64  `db:"paid_amount_cents"`
	Completed  bool   `db:"completed"`
}

type recordRow struct {
	ID            int64         `db:"id"`
	ContractID    int64         `db:"contract_id"`
	OrderNumber   string        `db:"order_number"`
	OrderDetailID sql.NullInt64 `db:"order_detail_id"`
	Period        string        `db:"period"`
	RecordType    string        `db:"record_type"`
	AmountCents   int64         `db:"amount_cents"`
	RecordedAt    time.Time     `db:"recorded_at"`
	Remark        string        `db:"remark"`
}

func (r *contractRepository) Save(ctx context.Context, contract *domain.DebtContract, events []domain.Event) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if contract.ID() == 0 {
		var id int64
		err = tx.QueryRowContext(ctx, `
			INSERT INTO debt_contracts (case_entrust_id, member_user_id, total_amount_cents, paid_total_cents, status, created_at)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING id
		`,
			contract.CaseEntrustID(),
			contract.MemberUserID(),
			contract.TotalAmount().Cents(),
			contract.PaidTotalAmount().Cents(),
			string(contract.Status()),
			contract.CreatedAt(),
		).Scan(&id)
		if err != nil {
			return err
		}
		contract.SetID(id)
	} else {
		_, err = tx.ExecContext(ctx, `
			UPDATE debt_contracts
			SET paid_total_cents = $2, status = $3
			WHERE id = $1
		`,
			contract.ID(),
			contract.PaidTotalAmount().Cents(),
			string(contract.Status()),
		)
		if err != nil {
			return err
		}
	}

	for _, plan := range contract.RepaymentPlans() {
		if plan.ID() == 0 {
			var id int64
			err = tx.QueryRowContext(ctx, `
				INSERT INTO repayment_plans (contract_id, period, due_amount_cents, paid_amount_cents, completed)
				VALUES ($1, $2, $3, $4, $5)
				RETURNING id
			`,
				contract.ID(),
				plan.Period().String(),
				plan.DueAmount().Cents(),
				plan.PaidAmount().Cents(),
				plan.Completed(),
			).Scan(&id)
			if err != nil {
				return err
			}
			plan.SetID(id)
		} else {
			_, err = tx.ExecContext(ctx, `
				UPDATE repayment_plans
				SET paid_amount_cents = $2, completed = $3
				WHERE id = $1
			`,
				plan.ID(),
				plan.PaidAmount().Cents(),
				plan.Completed(),
			)
			if err != nil {
				return err
			}
		}
	}

	for _, record := range contract.RepaymentRecords() {
		if record.ID() != 0 {
			// the ledger is append-only; persisted rows never change
			continue
		}
		detailID := sql.NullInt64{}
		if id, ok := record.OrderID().OrderDetailID(); ok {
			detailID = sql.NullInt64{Int64: id, Valid: true}
		}
		var id int64
		err = tx.QueryRowContext(ctx, `
			INSERT INTO repayment_records (contract_id, order_number, order_detail_id, period, record_type, amount_cents, recorded_at, remark)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			RETURNING id
		`,
			contract.ID(),
			record.OrderID().OrderNumber(),
			detailID,
			record.Period().String(),
			string(record.Type()),
			record.Amount().Cents(),
			record.RecordedAt(),
			record.Remark(),
		).Scan(&id)
		if err != nil {
			return err
		}
		record.SetID(id)
	}

	if err := insertEvents(ctx, tx, contract.ID(), events); err != nil {
		return err
	}

	return tx.Commit()
}

func (r *contractRepository) FindByID(ctx context.Context, id int64) (*domain.DebtContract, error) {
	return r.findOne(ctx, `WHERE id = $1`, id)
}

func (r *contractRepository) FindByCaseEntrustID(ctx context.Context, caseEntrustID int64) (*domain.DebtContract, error) {
	return r.findOne(ctx, `WHERE case_entrust_id = $1`, caseEntrustID)
}

func (r *contractRepository) FindByMemberUserID(ctx context.Context, memberUserID int64) (*domain.DebtContract, error) {
	return r.findOne(ctx, `WHERE member_user_id = $1`, memberUserID)
}

func (r *contractRepository) SummarizeRecords(ctx context.Context, from, to time.Time) (*RecordSummary, error) {
	var summary RecordSummary
	err := r.db.GetContext(ctx, &summary, `
		SELECT
			COALESCE(SUM(amount_cents) FILTER (WHERE record_type = $3), 0) AS income_cents,
			COALESCE(SUM(amount_cents) FILTER (WHERE record_type = $4), 0) AS expense_cents,
			COUNT(*) AS record_count
		FROM repayment_records
		WHERE recorded_at >= $1 AND recorded_at < $2
	`, from, to, string(domain.RepaymentTypeIncome), string(domain.RepaymentTypeExpense))
	if err != nil {
		return nil, err
	}
	return &summary, nil
}

func (r *contractRepository) findOne(ctx context.Context, where string, arg any) (*domain.DebtContract, error) {
	var row contractRow
	query := `
		SELECT id, case_entrust_id, member_user_id, total_amount_cents, paid_total_cents, status, created_at
		FROM debt_contracts ` + where
	if err := r.db.GetContext(ctx, &row, query, arg); err != nil {
		return nil, err
	}

	plans, err := r.loadPlans(ctx, row.ID)
	if err != nil {
		return nil, err
	}
	records, err := r.loadRecords(ctx, row.ID)
	if err != nil {
		return nil, err
	}

	total, err := domain.NewMoneyFromCents(row.TotalCents)
	if err != nil {
		return nil, err
	}
	paid, err := domain.NewMoneyFromCents(row.PaidTotalCents)
	if err != nil {
		return nil, err
	}

	return domain.RehydrateDebtContract(
		row.ID,
		row.CaseEntrustID,
		row.MemberUserID,
		total,
		paid,
		domain.SettleStatus(row.Status),
		row.CreatedAt,
		plans,
		records,
	), nil
}

func (r *contractRepository) loadPlans(ctx context.Context, contractID int64) ([]*domain.RepaymentPlan, error) {
	var rows []planRow
	err := r.db.SelectContext(ctx, &rows, `
		SELECT id, contract_id, period, due_amount_cents, paid_amount_cents, completed
		FROM repayment_plans
		WHERE contract_id = $1
		ORDER BY period
	`, contractID)
	if err != nil {
		return nil, err
	}

	plans := make([]*domain.RepaymentPlan, 0, len(rows))
	for _, row := range rows {
		period, err := domain.ParsePeriod(row.Period)
		if err != nil {
			return nil, err
		}
		due, err := domain.NewMoneyFromCents(row.DueCents)
		if err != nil {
			return nil, err
		}
		paid, err := domain.NewMoneyFromCents(row.PaidCents)
		if err != nil {
			return nil, err
		}
		plans = append(plans, domain.RehydrateRepaymentPlan(row.ID, period, due, paid, row.Completed))
	}
	return plans, nil
}

func (r *contractRepository) loadRecords(ctx context.Context, contractID int64) ([]*domain.RepaymentRecord, error) {
	var rows []recordRow
	err := r.db.SelectContext(ctx, &rows, `
		SELECT id, contract_id, order_number, order_detail_id, period, record_type, amount_cents, recorded_at, remark
		FROM repayment_records
		WHERE contract_id = $1
		ORDER BY id
	`, contractID)
	if err != nil {
		return nil, err
	}

	records := make([]*domain.RepaymentRecord, 0, len(rows))
	for _, row := range rows {
		var orderID domain.OrderID
		var err error
		if row.OrderDetailID.Valid {
			orderID, err = domain.NewItemOrderID(row.OrderNumber, row.OrderDetailID.Int64)
		} else {
			orderID, err = domain.NewOrderID(row.OrderNumber)
		}
		if err != nil {
			return nil, err
		}
		period, err := domain.ParsePeriod(row.Period)
		if err != nil {
			return nil, err
		}
		amount, err := domain.NewMoneyFromCents(row.AmountCents)
		if err != nil {
			return nil, err
		}
		records = append(records, domain.RehydrateRepaymentRecord(
			row.ID,
			orderID,
			period,
			domain.RepaymentType(row.RecordType),
			amount,
			row.RecordedAt,
			row.Remark,
		))
	}
	return records, nil
}
