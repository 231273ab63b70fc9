package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/condo-portal/ledger/internal/application/usecase/payment"
	"github.com/condo-portal/ledger/internal/domain/entity"
	domainerror "github.com/condo-portal/ledger/internal/domain/error"
	"github.com/condo-portal/ledger/internal/domain/valueobject"
	"github.com/condo-portal/ledger/internal/integration/entrypoint/dto"
)

// PaymentController handles payment ("pago") endpoints.
type PaymentController struct {
	recordPaymentUseCase *payment.RecordPaymentUseCase
	changeStatusUseCase  *payment.ChangePaymentStatusUseCase
}

// NewPaymentController creates a new payment controller instance.
func NewPaymentController(
	recordPaymentUseCase *payment.RecordPaymentUseCase,
	changeStatusUseCase *payment.ChangePaymentStatusUseCase,
) *PaymentController {
	return &PaymentController{
		recordPaymentUseCase: recordPaymentUseCase,
		changeStatusUseCase:  changeStatusUseCase,
	}
}

// Create handles POST /residents/:id/payments requests.
func (c *PaymentController) Create(ctx *gin.Context) {
	scope, ok := requireScope(ctx)
	if !ok {
		return
	}

	var req dto.RecordPaymentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondInvalidRequest(ctx, err)
		return
	}

	paymentDate, err := valueobject.ParseDate(req.PaymentDate)
	if err != nil {
		handleLedgerError(ctx, domainerror.NewLedgerError(domainerror.ErrCodeInvalidDate, domainerror.ErrInvalidDate.Error(), err))
		return
	}

	amount, err := valueobject.ParseAmount(req.Amount.String())
	if err != nil {
		handleLedgerError(ctx, domainerror.NewLedgerError(domainerror.ErrCodeInvalidAmount, "amount must be a decimal number", err))
		return
	}

	output, err := c.recordPaymentUseCase.Execute(ctx.Request.Context(), payment.RecordPaymentInput{
		ResidentID:  ctx.Param("id"),
		PaymentDate: paymentDate,
		Amount:      amount,
		Concept:     req.Concept,
		Apply:       req.Apply,
		Scope:       scope,
	})
	if err != nil {
		handleLedgerError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.ToPaymentResponse(output.Payment))
}

// ChangeStatus handles POST /payments/:id/status requests.
func (c *PaymentController) ChangeStatus(ctx *gin.Context) {
	scope, ok := requireScope(ctx)
	if !ok {
		return
	}

	var req dto.ChangePaymentStatusRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondInvalidRequest(ctx, err)
		return
	}

	output, err := c.changeStatusUseCase.Execute(ctx.Request.Context(), payment.ChangePaymentStatusInput{
		PaymentID: ctx.Param("id"),
		Status:    entity.PaymentStatus(req.Status),
		Scope:     scope,
	})
	if err != nil {
		handleLedgerError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToPaymentStatusResponse(output))
}
