package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/condo-portal/ledger/internal/application/usecase/charge"
	domainerror "github.com/condo-portal/ledger/internal/domain/error"
	"github.com/condo-portal/ledger/internal/domain/valueobject"
	"github.com/condo-portal/ledger/internal/integration/entrypoint/dto"
)

// ChargeController handles charge ("cargo") endpoints.
type ChargeController struct {
	recordChargeUseCase        *charge.RecordChargeUseCase
	generateMaintenanceUseCase *charge.GenerateMaintenanceChargesUseCase
}

// NewChargeController creates a new charge controller instance.
func NewChargeController(
	recordChargeUseCase *charge.RecordChargeUseCase,
	generateMaintenanceUseCase *charge.GenerateMaintenanceChargesUseCase,
) *ChargeController {
	return &ChargeController{
		recordChargeUseCase:        recordChargeUseCase,
		generateMaintenanceUseCase: generateMaintenanceUseCase,
	}
}

// Create handles POST /residents/:id/charges requests.
func (c *ChargeController) Create(ctx *gin.Context) {
	scope, ok := requireScope(ctx)
	if !ok {
		return
	}

	var req dto.RecordChargeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondInvalidRequest(ctx, err)
		return
	}

	date, err := valueobject.ParseDate(req.Date)
	if err != nil {
		handleLedgerError(ctx, domainerror.NewLedgerError(domainerror.ErrCodeInvalidDate, domainerror.ErrInvalidDate.Error(), err))
		return
	}

	amount, err := valueobject.ParseAmount(req.Amount.String())
	if err != nil {
		handleLedgerError(ctx, domainerror.NewLedgerError(domainerror.ErrCodeInvalidAmount, "amount must be a decimal number", err))
		return
	}

	output, err := c.recordChargeUseCase.Execute(ctx.Request.Context(), charge.RecordChargeInput{
		ResidentID:  ctx.Param("id"),
		Date:        date,
		Description: req.Description,
		Amount:      amount,
		Scope:       scope,
	})
	if err != nil {
		handleLedgerError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.ToChargeResponse(output.Charge))
}

// GenerateMaintenance handles POST /communities/:id/maintenance-charges requests.
func (c *ChargeController) GenerateMaintenance(ctx *gin.Context) {
	scope, ok := requireScope(ctx)
	if !ok {
		return
	}

	var req dto.GenerateMaintenanceChargesRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondInvalidRequest(ctx, err)
		return
	}

	output, err := c.generateMaintenanceUseCase.Execute(ctx.Request.Context(), charge.GenerateMaintenanceChargesInput{
		CommunityID: ctx.Param("id"),
		Month:       req.Month,
		Scope:       scope,
	})
	if err != nil {
		handleLedgerError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToMaintenanceChargesResponse(output))
}
