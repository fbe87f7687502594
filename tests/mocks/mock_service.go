package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/zhanghongming044-cell/debt-settlement-ddd/internal/domain"
	"github.com/zhanghongming044-cell/debt-settlement-ddd/internal/service"
)

type MockSettlementService struct {
	mock.Mock
}

func (m *MockSettlementService) CreateContract(ctx context.Context, command service.CreateContractCommand) (*domain.DebtContract, error) {
	args := m.Called(ctx, command)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DebtContract), args.Error(1)
}

func (m *MockSettlementService) SettleDebt(ctx context.Context, command service.SettleDebtCommand) (bool, error) {
	args := m.Called(ctx, command)
	return args.Bool(0), args.Error(1)
}

func (m *MockSettlementService) RollbackDebt(ctx context.Context, command service.RollbackDebtCommand) (domain.Money, error) {
	args := m.Called(ctx, command)
	return args.Get(0).(domain.Money), args.Error(1)
}

func (m *MockSettlementService) GetContract(ctx context.Context, memberUserID int64) (*domain.DebtContract, error) {
	args := m.Called(ctx, memberUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DebtContract), args.Error(1)
}
