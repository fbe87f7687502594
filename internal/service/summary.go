package service

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/zhanghongming044-cell/debt-settlement-ddd/internal/domain"
	"github.com/zhanghongming044-cell/debt-settlement-ddd/internal/repository"
)

// SummaryJob reports the previous day's repayment activity, including
// settlements that missed every installment period and need manual follow-up.
// Run daily by the scheduler.
type SummaryJob struct {
	contracts repository.DebtContractRepository
	outbox    repository.EventOutbox
	location  *time.Location
	logger    *zap.Logger
}

func NewSummaryJob(
	contracts repository.DebtContractRepository,
	outbox repository.EventOutbox,
	location *time.Location,
	logger *zap.Logger,
) *SummaryJob {
	return &SummaryJob{
		contracts: contracts,
		outbox:    outbox,
		location:  location,
		logger:    logger,
	}
}

// Run summarizes the calendar day preceding now in the job's timezone.
func (j *SummaryJob) Run(ctx context.Context, now time.Time) error {
	now = now.In(j.location)
	to := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, j.location)
	from := to.AddDate(0, 0, -1)

	summary, err := j.contracts.SummarizeRecords(ctx, from, to)
	if err != nil {
		j.logger.Error("settlement summary failed",
			zap.Time("from", from),
			zap.Time("to", to),
			zap.Error(err),
		)
		return err
	}

	unmatched, err := j.outbox.CountEventsByType(ctx, domain.EventTypePlanNotMatched, from, to)
	if err != nil {
		j.logger.Error("unmatched period count failed",
			zap.Time("from", from),
			zap.Time("to", to),
			zap.Error(err),
		)
		return err
	}

	j.logger.Info("daily settlement summary",
		zap.String("day", from.Format("2006-01-02")),
		zap.String("income", decimal.New(summary.IncomeCents, -2).StringFixed(2)),
		zap.String("expense", decimal.New(summary.ExpenseCents, -2).StringFixed(2)),
		zap.Int64("records", summary.RecordCount),
		zap.Int64("unmatched_periods", unmatched),
	)
	if unmatched > 0 {
		j.logger.Warn("settlements missed every installment period, manual follow-up needed",
			zap.String("day", from.Format("2006-01-02")),
			zap.Int64("count", unmatched),
		)
	}
	return nil
}
