package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"

	"github.com/zhanghongming044-cell/debt-settlement-ddd/internal/service"
	apperrors "github.com/zhanghongming044-cell/debt-settlement-ddd/pkg/errors"
	"github.com/zhanghongming044-cell/debt-settlement-ddd/pkg/response"
)

type SettlementHandler struct {
	service   service.SettlementService
	validator *validator.Validate
}

func NewSettlementHandler(service service.SettlementService) *SettlementHandler {
	return &SettlementHandler{
		service:   service,
		validator: validator.New(),
	}
}

// CreateContract handles POST /api/v1/contracts
func (h *SettlementHandler) CreateContract(w http.ResponseWriter, r *http.Request) {
	var req createContractRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body", err)
		return
	}
	if err := h.validator.Struct(req); err != nil {
		response.BadRequest(w, "request validation failed", err)
		return
	}

	command := service.CreateContractCommand{
		CaseEntrustID: req.CaseEntrustID,
		MemberUserID:  req.MemberUserID,
		TotalAmount:   req.TotalAmount,
	}
	for _, plan := range req.Plans {
		command.Plans = append(command.Plans, service.PlanInput{
			Period:    plan.Period,
			DueAmount: plan.DueAmount,
		})
	}

	contract, err := h.service.CreateContract(r.Context(), command)
	if err != nil {
		writeBusinessError(w, err)
		return
	}
	response.Created(w, newContractView(contract))
}

// GetContract handles GET /api/v1/contracts/{memberUserId}
func (h *SettlementHandler) GetContract(w http.ResponseWriter, r *http.Request) {
	memberUserID, err := strconv.ParseInt(mux.Vars(r)["memberUserId"], 10, 64)
	if err != nil {
		response.BadRequest(w, "invalid member user id", err)
		return
	}

	contract, err := h.service.GetContract(r.Context(), memberUserID)
	if err != nil {
		writeBusinessError(w, err)
		return
	}
	response.Success(w, newContractView(contract))
}

// SettleDebt handles POST /api/v1/contracts/settle
func (h *SettlementHandler) SettleDebt(w http.ResponseWriter, r *http.Request) {
	var req settleDebtRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body", err)
		return
	}
	if err := h.validator.Struct(req); err != nil {
		response.BadRequest(w, "request validation failed", err)
		return
	}

	orderCreatedAt, err := time.Parse("2006-01-02", req.OrderCreateDate)
	if err != nil {
		response.BadRequest(w, "invalid order create date", err)
		return
	}

	settled, err := h.service.SettleDebt(r.Context(), service.SettleDebtCommand{
		OrderNumber:    req.OrderNumber,
		OrderDetailID:  req.OrderDetailID,
		OrderCreatedAt: orderCreatedAt,
		MemberUserID:   req.MemberUserID,
	})
	if err != nil {
		writeBusinessError(w, err)
		return
	}
	response.Success(w, settleDebtResponse{Settled: settled})
}

// RollbackDebt handles POST /api/v1/contracts/rollback
func (h *SettlementHandler) RollbackDebt(w http.ResponseWriter, r *http.Request) {
	var req rollbackDebtRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body", err)
		return
	}
	if err := h.validator.Struct(req); err != nil {
		response.BadRequest(w, "request validation failed", err)
		return
	}

	rolledBack, err := h.service.RollbackDebt(r.Context(), service.RollbackDebtCommand{
		OrderNumber:   req.OrderNumber,
		OrderDetailID: req.OrderDetailID,
		RefundAmount:  req.RefundAmount,
		RefundStatus:  req.RefundStatus,
		MemberUserID:  req.MemberUserID,
	})
	if err != nil {
		writeBusinessError(w, err)
		return
	}
	response.Success(w, rollbackDebtResponse{RolledBackAmount: rolledBack.Decimal()})
}

func writeBusinessError(w http.ResponseWriter, err error) {
	var businessErr *apperrors.BusinessError
	if !errors.As(err, &businessErr) {
		response.InternalServerError(w, "unexpected error", err)
		return
	}

	switch businessErr.Code {
	case apperrors.ErrCodeContractNotFound, apperrors.ErrCodeAllocationNotFound:
		response.ErrorWithCode(w, http.StatusNotFound, businessErr.Code, businessErr.Message, businessErr.Err)
	case apperrors.ErrCodeDuplicatePeriod:
		response.ErrorWithCode(w, http.StatusConflict, businessErr.Code, businessErr.Message, businessErr.Err)
	case apperrors.ErrCodeInvalidCommand:
		response.ErrorWithCode(w, http.StatusBadRequest, businessErr.Code, businessErr.Message, businessErr.Err)
	default:
		response.ErrorWithCode(w, http.StatusInternalServerError, businessErr.Code, businessErr.Message, businessErr.Err)
	}
}
