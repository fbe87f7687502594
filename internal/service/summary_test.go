package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"github.com/zhanghongming044-cell/debt-settlement-ddd/internal/domain"
	"github.com/zhanghongming044-cell/debt-settlement-ddd/internal/repository"
	"github.com/zhanghongming044-cell/debt-settlement-ddd/internal/service"
	"github.com/zhanghongming044-cell/debt-settlement-ddd/tests/mocks"
)

func TestSummaryJob_SummarizesPreviousDay(t *testing.T) {
	mockContracts := &mocks.MockDebtContractRepository{}
	mockOutbox := &mocks.MockEventOutbox{}
	job := service.NewSummaryJob(mockContracts, mockOutbox, time.UTC, zap.NewNop())

	now := time.Date(2025, 3, 16, 8, 30, 0, 0, time.UTC)
	from := time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 3, 16, 0, 0, 0, 0, time.UTC)

	mockContracts.On("SummarizeRecords", mock.Anything, from, to).
		Return(&repository.RecordSummary{IncomeCents: 150000, ExpenseCents: 40000, RecordCount: 7}, nil)
	mockOutbox.On("CountEventsByType", mock.Anything, domain.EventTypePlanNotMatched, from, to).
		Return(int64(2), nil)

	assert.NoError(t, job.Run(context.Background(), now))
	mockContracts.AssertExpectations(t)
	mockOutbox.AssertExpectations(t)
}

func TestSummaryJob_PropagatesError(t *testing.T) {
	mockContracts := &mocks.MockDebtContractRepository{}
	mockOutbox := &mocks.MockEventOutbox{}
	job := service.NewSummaryJob(mockContracts, mockOutbox, time.UTC, zap.NewNop())

	mockContracts.On("SummarizeRecords", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, errors.New("connection refused"))

	assert.Error(t, job.Run(context.Background(), time.Now()))
	mockOutbox.AssertNotCalled(t, "CountEventsByType", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
