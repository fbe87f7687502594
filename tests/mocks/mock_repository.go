package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/zhanghongming044-cell/debt-settlement-ddd/internal/domain"
	"github.com/zhanghongming044-cell/debt-settlement-ddd/internal/repository"
)

type MockDebtContractRepository struct {
	mock.Mock
}

func (m *MockDebtContractRepository) Save(ctx context.Context, contract *domain.DebtContract, events []domain.Event) error {
	args := m.Called(ctx, contract, events)
	return args.Error(0)
}

func (m *MockDebtContractRepository) FindByID(ctx context.Context, id int64) (*domain.DebtContract, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DebtContract), args.Error(1)
}

func (m *MockDebtContractRepository) FindByCaseEntrustID(ctx context.Context, caseEntrustID int64) (*domain.DebtContract, error) {
	args := m.Called(ctx, caseEntrustID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DebtContract), args.Error(1)
}

func (m *MockDebtContractRepository) FindByMemberUserID(ctx context.Context, memberUserID int64) (*domain.DebtContract, error) {
	args := m.Called(ctx, memberUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DebtContract), args.Error(1)
}

func (m *MockDebtContractRepository) SummarizeRecords(ctx context.Context, from, to time.Time) (*repository.RecordSummary, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.RecordSummary), args.Error(1)
}

type MockDivideRecordRepository struct {
	mock.Mock
}

func (m *MockDivideRecordRepository) GetSupplierDivideAmount(ctx context.Context, orderNumber string) (domain.Money, error) {
	args := m.Called(ctx, orderNumber)
	return args.Get(0).(domain.Money), args.Error(1)
}

func (m *MockDivideRecordRepository) GetSupplierDivideAmountByOrderID(ctx context.Context, orderID domain.OrderID) (domain.Money, error) {
	args := m.Called(ctx, orderID)
	return args.Get(0).(domain.Money), args.Error(1)
}

func (m *MockDivideRecordRepository) ExistsByOrderID(ctx context.Context, orderID domain.OrderID) (bool, error) {
	args := m.Called(ctx, orderID)
	return args.Bool(0), args.Error(1)
}

type MockEventOutbox struct {
	mock.Mock
}

func (m *MockEventOutbox) FetchUnpublished(ctx context.Context, limit int) ([]*repository.StoredEvent, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*repository.StoredEvent), args.Error(1)
}

func (m *MockEventOutbox) MarkPublished(ctx context.Context, eventIDs []string) error {
	args := m.Called(ctx, eventIDs)
	return args.Error(0)
}

func (m *MockEventOutbox) CountEventsByType(ctx context.Context, eventType string, from, to time.Time) (int64, error) {
	args := m.Called(ctx, eventType, from, to)
	return args.Get(0).(int64), args.Error(1)
}
