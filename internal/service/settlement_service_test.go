package service_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"github.com/zhanghongming044-cell/debt-settlement-ddd/internal/domain"
	"github.com/zhanghongming044-cell/debt-settlement-ddd/internal/service"
	apperrors "github.com/zhanghongming044-cell/debt-settlement-ddd/pkg/errors"
	"github.com/zhanghongming044-cell/debt-settlement-ddd/tests/mocks"
)

func newTestService(contracts *mocks.MockDebtContractRepository, divides *mocks.MockDivideRecordRepository) service.SettlementService {
	return service.NewSettlementService(contracts, divides, zap.NewNop())
}

// contractWithPlan builds a contract holding a single 1000.00 installment for
// March 2025.
func contractWithPlan(t *testing.T) *domain.DebtContract {
	t.Helper()

	contract, err := domain.NewDebtContract(101, 202, domain.MustMoney(100000))
	assert.NoError(t, err)

	period, err := domain.NewPeriod(2025, 3)
	assert.NoError(t, err)
	assert.NoError(t, contract.AddRepaymentPlan(period, domain.MustMoney(100000)))

	return contract
}

func singleEventOfType(eventType string) any {
	return mock.MatchedBy(func(events []domain.Event) bool {
		return len(events) == 1 && events[0].EventType() == eventType
	})
}

func TestCreateContract_Success(t *testing.T) {
	mockContracts := &mocks.MockDebtContractRepository{}
	mockDivides := &mocks.MockDivideRecordRepository{}
	svc := newTestService(mockContracts, mockDivides)

	mockContracts.On("Save", mock.Anything, mock.MatchedBy(func(c *domain.DebtContract) bool {
		return c.CaseEntrustID() == 101 && len(c.RepaymentPlans()) == 2
	}), mock.MatchedBy(func(events []domain.Event) bool {
		return len(events) == 0
	})).Return(nil)

	contract, err := svc.CreateContract(context.Background(), service.CreateContractCommand{
		CaseEntrustID: 101,
		MemberUserID:  202,
		TotalAmount:   decimal.NewFromInt(2000),
		Plans: []service.PlanInput{
			{Period: "2025-03", DueAmount: decimal.NewFromInt(1000)},
			{Period: "2025-04", DueAmount: decimal.NewFromInt(1000)},
		},
	})

	assert.NoError(t, err)
	assert.Equal(t, domain.SettleStatusPending, contract.Status())
	assert.Equal(t, int64(200000), contract.TotalAmount().Cents())
	mockContracts.AssertExpectations(t)
}

func TestCreateContract_DuplicatePeriod(t *testing.T) {
	mockContracts := &mocks.MockDebtContractRepository{}
	mockDivides := &mocks.MockDivideRecordRepository{}
	svc := newTestService(mockContracts, mockDivides)

	_, err := svc.CreateContract(context.Background(), service.CreateContractCommand{
		CaseEntrustID: 101,
		MemberUserID:  202,
		TotalAmount:   decimal.NewFromInt(2000),
		Plans: []service.PlanInput{
			{Period: "2025-03", DueAmount: decimal.NewFromInt(1000)},
			{Period: "2025-03", DueAmount: decimal.NewFromInt(1000)},
		},
	})

	var businessErr *apperrors.BusinessError
	assert.ErrorAs(t, err, &businessErr)
	assert.Equal(t, apperrors.ErrCodeDuplicatePeriod, businessErr.Code)
	mockContracts.AssertNotCalled(t, "Save", mock.Anything, mock.Anything, mock.Anything)
}

func TestSettleDebt_Success(t *testing.T) {
	mockContracts := &mocks.MockDebtContractRepository{}
	mockDivides := &mocks.MockDivideRecordRepository{}
	svc := newTestService(mockContracts, mockDivides)

	contract := contractWithPlan(t)
	orderID, err := domain.NewOrderID("ORD-1001")
	assert.NoError(t, err)

	mockDivides.On("GetSupplierDivideAmountByOrderID", mock.Anything, orderID).
		Return(domain.MustMoney(40000), nil)
	mockContracts.On("FindByMemberUserID", mock.Anything, int64(202)).Return(contract, nil)
	mockContracts.On("Save", mock.Anything, contract, singleEventOfType(domain.EventTypeDebtSettled)).
		Return(nil)

	settled, err := svc.SettleDebt(context.Background(), service.SettleDebtCommand{
		OrderNumber:    "ORD-1001",
		OrderCreatedAt: time.Date(2025, 3, 15, 10, 0, 0, 0, time.UTC),
		MemberUserID:   202,
	})

	assert.NoError(t, err)
	assert.True(t, settled)
	assert.Equal(t, int64(40000), contract.PaidTotalAmount().Cents())
	assert.Equal(t, domain.SettleStatusSettled, contract.Status())
	mockContracts.AssertExpectations(t)
	mockDivides.AssertExpectations(t)
}

func TestSettleDebt_ZeroAllocationAmount(t *testing.T) {
	mockContracts := &mocks.MockDebtContractRepository{}
	mockDivides := &mocks.MockDivideRecordRepository{}
	svc := newTestService(mockContracts, mockDivides)

	orderID, err := domain.NewOrderID("ORD-1001")
	assert.NoError(t, err)

	mockDivides.On("GetSupplierDivideAmountByOrderID", mock.Anything, orderID).
		Return(domain.ZeroMoney, nil)
	mockDivides.On("ExistsByOrderID", mock.Anything, orderID).Return(true, nil)

	settled, err := svc.SettleDebt(context.Background(), service.SettleDebtCommand{
		OrderNumber:    "ORD-1001",
		OrderCreatedAt: time.Date(2025, 3, 15, 10, 0, 0, 0, time.UTC),
		MemberUserID:   202,
	})

	assert.NoError(t, err)
	assert.False(t, settled)
	mockContracts.AssertNotCalled(t, "FindByMemberUserID", mock.Anything, mock.Anything)
}

func TestSettleDebt_AllocationRecordMissing(t *testing.T) {
	mockContracts := &mocks.MockDebtContractRepository{}
	mockDivides := &mocks.MockDivideRecordRepository{}
	svc := newTestService(mockContracts, mockDivides)

	orderID, err := domain.NewOrderID("ORD-1001")
	assert.NoError(t, err)

	mockDivides.On("GetSupplierDivideAmountByOrderID", mock.Anything, orderID).
		Return(domain.ZeroMoney, nil)
	mockDivides.On("ExistsByOrderID", mock.Anything, orderID).Return(false, nil)

	_, err = svc.SettleDebt(context.Background(), service.SettleDebtCommand{
		OrderNumber:    "ORD-1001",
		OrderCreatedAt: time.Date(2025, 3, 15, 10, 0, 0, 0, time.UTC),
		MemberUserID:   202,
	})

	var businessErr *apperrors.BusinessError
	assert.ErrorAs(t, err, &businessErr)
	assert.Equal(t, apperrors.ErrCodeAllocationNotFound, businessErr.Code)
	mockContracts.AssertNotCalled(t, "FindByMemberUserID", mock.Anything, mock.Anything)
}

func TestSettleDebt_ContractMissing(t *testing.T) {
	mockContracts := &mocks.MockDebtContractRepository{}
	mockDivides := &mocks.MockDivideRecordRepository{}
	svc := newTestService(mockContracts, mockDivides)

	orderID, err := domain.NewOrderID("ORD-1001")
	assert.NoError(t, err)

	mockDivides.On("GetSupplierDivideAmountByOrderID", mock.Anything, orderID).
		Return(domain.MustMoney(40000), nil)
	mockContracts.On("FindByMemberUserID", mock.Anything, int64(202)).
		Return(nil, sql.ErrNoRows)

	settled, err := svc.SettleDebt(context.Background(), service.SettleDebtCommand{
		OrderNumber:    "ORD-1001",
		OrderCreatedAt: time.Date(2025, 3, 15, 10, 0, 0, 0, time.UTC),
		MemberUserID:   202,
	})

	assert.NoError(t, err)
	assert.False(t, settled)
	mockContracts.AssertNotCalled(t, "Save", mock.Anything, mock.Anything, mock.Anything)
}

func TestSettleDebt_PeriodNotMatched(t *testing.T) {
	mockContracts := &mocks.MockDebtContractRepository{}
	mockDivides := &mocks.MockDivideRecordRepository{}
	svc := newTestService(mockContracts, mockDivides)

	contract := contractWithPlan(t)
	orderID, err := domain.NewOrderID("ORD-1001")
	assert.NoError(t, err)

	mockDivides.On("GetSupplierDivideAmountByOrderID", mock.Anything, orderID).
		Return(domain.MustMoney(40000), nil)
	mockContracts.On("FindByMemberUserID", mock.Anything, int64(202)).Return(contract, nil)
	mockContracts.On("Save", mock.Anything, contract, singleEventOfType(domain.EventTypePlanNotMatched)).
		Return(nil)

	// Order created in a month with no installment plan.
	settled, err := svc.SettleDebt(context.Background(), service.SettleDebtCommand{
		OrderNumber:    "ORD-1001",
		OrderCreatedAt: time.Date(2025, 7, 15, 10, 0, 0, 0, time.UTC),
		MemberUserID:   202,
	})

	assert.NoError(t, err)
	assert.False(t, settled)
	assert.True(t, contract.PaidTotalAmount().IsZero())
	mockContracts.AssertExpectations(t)
}

func TestRollbackDebt_Success(t *testing.T) {
	mockContracts := &mocks.MockDebtContractRepository{}
	mockDivides := &mocks.MockDivideRecordRepository{}
	svc := newTestService(mockContracts, mockDivides)

	contract := contractWithPlan(t)
	orderID, err := domain.NewOrderID("ORD-1001")
	assert.NoError(t, err)
	settled, err := contract.SettleDebt(orderID, domain.MustMoney(40000), time.Date(2025, 3, 15, 10, 0, 0, 0, time.UTC))
	assert.NoError(t, err)
	assert.True(t, settled)
	contract.DrainEvents()

	mockContracts.On("FindByMemberUserID", mock.Anything, int64(202)).Return(contract, nil)
	mockContracts.On("Save", mock.Anything, contract, singleEventOfType(domain.EventTypeDebtRolledBack)).
		Return(nil)

	rolledBack, err := svc.RollbackDebt(context.Background(), service.RollbackDebtCommand{
		OrderNumber:  "ORD-1001",
		RefundAmount: decimal.NewFromInt(400),
		RefundStatus: service.RefundStatusFull,
		MemberUserID: 202,
	})

	assert.NoError(t, err)
	assert.Equal(t, int64(40000), rolledBack.Cents())
	assert.True(t, contract.PaidTotalAmount().IsZero())
	assert.Equal(t, domain.SettleStatusRolledBack, contract.Status())
	mockContracts.AssertExpectations(t)
}

func TestRollbackDebt_NothingSettled(t *testing.T) {
	mockContracts := &mocks.MockDebtContractRepository{}
	mockDivides := &mocks.MockDivideRecordRepository{}
	svc := newTestService(mockContracts, mockDivides)

	contract := contractWithPlan(t)
	mockContracts.On("FindByMemberUserID", mock.Anything, int64(202)).Return(contract, nil)
	mockContracts.On("Save", mock.Anything, contract, mock.MatchedBy(func(events []domain.Event) bool {
		return len(events) == 0
	})).Return(nil)

	rolledBack, err := svc.RollbackDebt(context.Background(), service.RollbackDebtCommand{
		OrderNumber:  "ORD-1001",
		RefundAmount: decimal.NewFromInt(400),
		RefundStatus: service.RefundStatusPartial,
		MemberUserID: 202,
	})

	assert.NoError(t, err)
	assert.True(t, rolledBack.IsZero())
	assert.Equal(t, domain.SettleStatusPending, contract.Status())
	mockContracts.AssertExpectations(t)
}

// A rollback that reverses nothing because another order's refunds already
// drained the plan still flips the status and emits an event; both must be
// persisted even though the returned amount is zero.
func TestRollbackDebt_ZeroResultStillPersisted(t *testing.T) {
	mockContracts := &mocks.MockDebtContractRepository{}
	mockDivides := &mocks.MockDivideRecordRepository{}
	svc := newTestService(mockContracts, mockDivides)

	contract := contractWithPlan(t)
	orderA, err := domain.NewOrderID("ORD-A")
	assert.NoError(t, err)
	orderB, err := domain.NewOrderID("ORD-B")
	assert.NoError(t, err)
	marchDate := time.Date(2025, 3, 15, 10, 0, 0, 0, time.UTC)

	// B settles and is refunded, A settles, then a second B refund drains the
	// plan again: B's settlement records still total 60000, so the rollback
	// absorbs A's 40000 too.
	_, err = contract.SettleDebt(orderB, domain.MustMoney(60000), marchDate)
	assert.NoError(t, err)
	_, err = contract.RollbackDebt(orderB, domain.MustMoney(60000))
	assert.NoError(t, err)
	_, err = contract.SettleDebt(orderA, domain.MustMoney(40000), marchDate)
	assert.NoError(t, err)
	_, err = contract.RollbackDebt(orderB, domain.MustMoney(60000))
	assert.NoError(t, err)
	assert.True(t, contract.PaidTotalAmount().IsZero())
	contract.DrainEvents()

	mockContracts.On("FindByMemberUserID", mock.Anything, int64(202)).Return(contract, nil)
	mockContracts.On("Save", mock.Anything, contract, singleEventOfType(domain.EventTypeDebtRolledBack)).
		Return(nil)

	rolledBack, err := svc.RollbackDebt(context.Background(), service.RollbackDebtCommand{
		OrderNumber:  "ORD-A",
		RefundAmount: decimal.NewFromInt(400),
		RefundStatus: service.RefundStatusFull,
		MemberUserID: 202,
	})

	assert.NoError(t, err)
	assert.True(t, rolledBack.IsZero())
	assert.Equal(t, domain.SettleStatusPartialBack, contract.Status())
	mockContracts.AssertExpectations(t)
}

func TestGetContract_NotFound(t *testing.T) {
	mockContracts := &mocks.MockDebtContractRepository{}
	mockDivides := &mocks.MockDivideRecordRepository{}
	svc := newTestService(mockContracts, mockDivides)

	mockContracts.On("FindByMemberUserID", mock.Anything, int64(999)).
		Return(nil, sql.ErrNoRows)

	_, err := svc.GetContract(context.Background(), int64(999))

	var businessErr *apperrors.BusinessError
	assert.ErrorAs(t, err, &businessErr)
	assert.Equal(t, apperrors.ErrCodeContractNotFound, businessErr.Code)
}

func TestGetContract_DatabaseError(t *testing.T) {
	mockContracts := &mocks.MockDebtContractRepository{}
	mockDivides := &mocks.MockDivideRecordRepository{}
	svc := newTestService(mockContracts, mockDivides)

	mockContracts.On("FindByMemberUserID", mock.Anything, int64(202)).
		Return(nil, errors.New("connection refused"))

	_, err := svc.GetContract(context.Background(), int64(202))

	var businessErr *apperrors.BusinessError
	assert.ErrorAs(t, err, &businessErr)
	assert.Equal(t, apperrors.ErrCodeDatabaseError, businessErr.Code)
}
