package service

import (
	"context"
	"database/sql"
	"errors"

	"go.uber.org/zap"

	"github.com/zhanghongming044-cell/debt-settlement-ddd/internal/domain"
	"github.com/zhanghongming044-cell/debt-settlement-ddd/internal/repository"
	apperrors "github.com/zhanghongming044-cell/debt-settlement-ddd/pkg/errors"
)

// SettlementService orchestrates the settle/rollback use-cases. Business
// rules live in the DebtContract aggregate; this layer loads, delegates,
// saves and stores drained events in the outbox.
type SettlementService interface {
	CreateContract(ctx context.Context, command CreateContractCommand) (*domain.DebtContract, error)
	SettleDebt(ctx context.Context, command SettleDebtCommand) (bool, error)
	RollbackDebt(ctx context.Context, command RollbackDebtCommand) (domain.Money, error)
	GetContract(ctx context.Context, memberUserID int64) (*domain.DebtContract, error)
}

type settlementService struct {
	contracts repository.DebtContractRepository
	divides   repository.DivideRecordRepository
	logger    *zap.Logger
}

func NewSettlementService(
	contracts repository.DebtContractRepository,
	divides repository.DivideRecordRepository,
	logger *zap.Logger,
) SettlementService {
	return &settlementService{
		contracts: contracts,
		divides:   divides,
		logger:    logger,
	}
}

func (s *settlementService) CreateContract(ctx context.Context, command CreateContractCommand) (*domain.DebtContract, error) {
	totalAmount, err := domain.NewMoneyFromDecimal(command.TotalAmount)
	if err != nil {
		return nil, apperrors.WrapInvalidCommand(err)
	}

	contract, err := domain.NewDebtContract(command.CaseEntrustID, command.MemberUserID, totalAmount)
	if err != nil {
		return nil, apperrors.WrapInvalidCommand(err)
	}

	for _, input := range command.Plans {
		period, err := domain.ParsePeriod(input.Period)
		if err != nil {
			return nil, apperrors.WrapInvalidCommand(err)
		}
		dueAmount, err := domain.NewMoneyFromDecimal(input.DueAmount)
		if err != nil {
			return nil, apperrors.WrapInvalidCommand(err)
		}
		if err := contract.AddRepaymentPlan(period, dueAmount); err != nil {
			if errors.Is(err, domain.ErrDuplicatePeriod) {
				return nil, apperrors.WrapDuplicatePeriod(err)
			}
			return nil, apperrors.WrapInvalidCommand(err)
		}
	}

	if err := s.persist(ctx, contract); err != nil {
		return nil, err
	}

	s.logger.Info("debt contract created",
		zap.Int64("contract_id", contract.ID()),
		zap.Int64("case_entrust_id", command.CaseEntrustID),
		zap.Int64("member_user_id", command.MemberUserID),
		zap.Int("plans", len(command.Plans)),
	)
	return contract, nil
}

func (s *settlementService) SettleDebt(ctx context.Context, command SettleDebtCommand) (bool, error) {
	orderID, err := command.orderID()
	if err != nil {
		return false, apperrors.WrapInvalidCommand(err)
	}

	divideAmount, err := s.divides.GetSupplierDivideAmountByOrderID(ctx, orderID)
	if err != nil {
		return false, apperrors.WrapDatabaseError(err)
	}
	if divideAmount.IsZero() {
		exists, err := s.divides.ExistsByOrderID(ctx, orderID)
		if err != nil {
			return false, apperrors.WrapDatabaseError(err)
		}
		if !exists {
			return false, apperrors.WrapAllocationNotFound(orderID.String())
		}
		s.logger.Warn("allocation amount is zero, skipping settlement",
			zap.String("order_id", orderID.String()))
		return false, nil
	}

	contract, err := s.loadContract(ctx, command.MemberUserID)
	if err != nil {
		return false, err
	}
	if contract == nil {
		return false, nil
	}

	settled, err := contract.SettleDebt(orderID, divideAmount, command.OrderCreatedAt)
	if err != nil {
		return false, apperrors.WrapInvalidCommand(err)
	}
	if !settled {
		s.logger.Info("settlement not applied",
			zap.String("order_id", orderID.String()),
			zap.Int64("contract_id", contract.ID()))
	}

	if err := s.persist(ctx, contract); err != nil {
		return false, err
	}

	s.logger.Info("settlement finished",
		zap.String("order_id", orderID.String()),
		zap.Int64("contract_id", contract.ID()),
		zap.Bool("settled", settled),
		zap.String("paid_total", contract.PaidTotalAmount().String()),
	)
	return settled, nil
}

func (s *settlementService) RollbackDebt(ctx context.Context, command RollbackDebtCommand) (domain.Money, error) {
	orderID, err := command.orderID()
	if err != nil {
		return domain.ZeroMoney, apperrors.WrapInvalidCommand(err)
	}

	refundAmount, err := domain.NewMoneyFromDecimal(command.RefundAmount)
	if err != nil {
		return domain.ZeroMoney, apperrors.WrapInvalidCommand(err)
	}

	contract, err := s.loadContract(ctx, command.MemberUserID)
	if err != nil {
		return domain.ZeroMoney, err
	}
	if contract == nil {
		return domain.ZeroMoney, nil
	}

	rolledBack, err := contract.RollbackDebt(orderID, refundAmount)
	if err != nil {
		return domain.ZeroMoney, apperrors.WrapInvalidCommand(err)
	}

	// Persist even when nothing was reversed: a drained plan still flips the
	// status and buffers an event, and those must not be lost.
	if err := s.persist(ctx, contract); err != nil {
		return domain.ZeroMoney, err
	}
	if rolledBack.IsZero() {
		s.logger.Info("nothing to roll back",
			zap.String("order_id", orderID.String()),
			zap.Int64("contract_id", contract.ID()))
		return domain.ZeroMoney, nil
	}

	s.logger.Info("rollback finished",
		zap.String("order_id", orderID.String()),
		zap.Int64("contract_id", contract.ID()),
		zap.Bool("full_refund", command.IsFullRefund()),
		zap.String("rolled_back", rolledBack.String()),
	)
	return rolledBack, nil
}

func (s *settlementService) GetContract(ctx context.Context, memberUserID int64) (*domain.DebtContract, error) {
	contract, err := s.contracts.FindByMemberUserID(ctx, memberUserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.WrapContractNotFound(memberUserID)
		}
		return nil, apperrors.WrapDatabaseError(err)
	}
	return contract, nil
}

// loadContract returns (nil, nil) when no contract exists: a missing contract
// is a soft outcome for settle/rollback, not an error.
func (s *settlementService) loadContract(ctx context.Context, memberUserID int64) (*domain.DebtContract, error) {
	contract, err := s.contracts.FindByMemberUserID(ctx, memberUserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			s.logger.Warn("debt contract not found", zap.Int64("member_user_id", memberUserID))
			return nil, nil
		}
		return nil, apperrors.WrapDatabaseError(err)
	}
	return contract, nil
}

// persist drains the aggregate's events and writes them with the state change
// in one transaction, so outbox rows exist iff the change committed.
func (s *settlementService) persist(ctx context.Context, contract *domain.DebtContract) error {
	events := contract.DrainEvents()
	if err := s.contracts.Save(ctx, contract, events); err != nil {
		return apperrors.WrapDatabaseError(err)
	}
	for _, event := range events {
		s.logger.Debug("domain event stored",
			zap.String("event_id", event.EventID()),
			zap.String("event_type", event.EventType()),
		)
	}
	return nil
}
