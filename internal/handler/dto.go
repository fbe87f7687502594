package handler

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/zhanghongming044-cell/debt-settlement-ddd/internal/domain"
)

type planRequest struct {
	Period    string          `json:"period" validate:"required"`
	DueAmount decimal.Decimal `json:"due_amount" validate:"required"`
}

type createContractRequest struct {
	CaseEntrustID int64           `json:"case_entrust_id" validate:"required"`
	MemberUserID  int64           `json:"member_user_id" validate:"required"`
	TotalAmount   decimal.Decimal `json:"total_amount" validate:"required"`
	Plans         []planRequest   `json:"plans" validate:"required,min=1,dive"`
}

type settleDebtRequest struct {
	OrderNumber     string `json:"order_number" validate:"required"`
	OrderDetailID   *int64 `json:"order_detail_id,omitempty"`
	OrderCreateDate string `json:"order_create_date" validate:"required,datetime=2006-01-02"`
	MemberUserID    int64  `json:"member_user_id" validate:"required"`
}

type rollbackDebtRequest struct {
	OrderNumber   string          `json:"order_number" validate:"required"`
	OrderDetailID *int64          `json:"order_detail_id,omitempty"`
	RefundAmount  decimal.Decimal `json:"refund_amount" validate:"required"`
	RefundStatus  int             `json:"refund_status" validate:"required,oneof=2 3"`
	MemberUserID  int64           `json:"member_user_id" validate:"required"`
}

type settleDebtResponse struct {
	Settled bool `json:"settled"`
}

type rollbackDebtResponse struct {
	RolledBackAmount decimal.Decimal `json:"rolled_back_amount"`
}

type planView struct {
	Period     string          `json:"period"`
	DueAmount  decimal.Decimal `json:"due_amount"`
	PaidAmount decimal.Decimal `json:"paid_amount"`
	Completed  bool            `json:"completed"`
}

type recordView struct {
	OrderNumber   string          `json:"order_number"`
	OrderDetailID *int64          `json:"order_detail_id,omitempty"`
	Period        string          `json:"period"`
	Type          string          `json:"type"`
	Amount        decimal.Decimal `json:"amount"`
	RecordedAt    time.Time       `json:"recorded_at"`
	Remark        string          `json:"remark"`
}

type contractView struct {
	ID              int64           `json:"id"`
	CaseEntrustID   int64           `json:"case_entrust_id"`
	MemberUserID    int64           `json:"member_user_id"`
	TotalAmount     decimal.Decimal `json:"total_amount"`
	PaidTotalAmount decimal.Decimal `json:"paid_total_amount"`
	RemainingAmount decimal.Decimal `json:"remaining_amount"`
	Status          string          `json:"status"`
	CreatedAt       time.Time       `json:"created_at"`
	Plans           []planView      `json:"plans"`
	Records         []recordView    `json:"records"`
}

func newContractView(contract *domain.DebtContract) contractView {
	view := contractView{
		ID:              contract.ID(),
		CaseEntrustID:   contract.CaseEntrustID(),
		MemberUserID:    contract.MemberUserID(),
		TotalAmount:     contract.TotalAmount().Decimal(),
		PaidTotalAmount: contract.PaidTotalAmount().Decimal(),
		RemainingAmount: contract.RemainingAmount().Decimal(),
		Status:          string(contract.Status()),
		CreatedAt:       contract.CreatedAt(),
		Plans:           []planView{},
		Records:         []recordView{},
	}
	for _, plan := range contract.RepaymentPlans() {
		view.Plans = append(view.Plans, planView{
			Period:     plan.Period().String(),
			DueAmount:  plan.DueAmount().Decimal(),
			PaidAmount: plan.PaidAmount().Decimal(),
			Completed:  plan.Completed(),
		})
	}
	for _, record := range contract.RepaymentRecords() {
		item := recordView{
			OrderNumber: record.OrderID().OrderNumber(),
			Period:      record.Period().String(),
			Type:        string(record.Type()),
			Amount:      record.Amount().Decimal(),
			RecordedAt:  record.RecordedAt(),
			Remark:      record.Remark(),
		}
		if detailID, ok := record.OrderID().OrderDetailID(); ok {
			item.OrderDetailID = &detailID
		}
		view.Records = append(view.Records, item)
	}
	return view
}
