package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/condo-portal/ledger/internal/application/adapter"
	"github.com/condo-portal/ledger/internal/application/usecase/delinquency"
	"github.com/condo-portal/ledger/internal/integration/entrypoint/dto"
)

// DelinquencyController handles delinquent resident ("morosos") endpoints.
type DelinquencyController struct {
	listUseCase   *delinquency.ListDelinquentsUseCase
	exportUseCase *delinquency.ExportDelinquentsUseCase
	notifyUseCase *delinquency.NotifyDelinquentsUseCase
}

// NewDelinquencyController creates a new delinquency controller instance.
func NewDelinquencyController(
	listUseCase *delinquency.ListDelinquentsUseCase,
	exportUseCase *delinquency.ExportDelinquentsUseCase,
	notifyUseCase *delinquency.NotifyDelinquentsUseCase,
) *DelinquencyController {
	return &DelinquencyController{
		listUseCase:   listUseCase,
		exportUseCase: exportUseCase,
		notifyUseCase: notifyUseCase,
	}
}

// List handles GET /communities/:id/delinquents requests.
func (c *DelinquencyController) List(ctx *gin.Context) {
	input, ok := c.buildInput(ctx)
	if !ok {
		return
	}

	output, err := c.listUseCase.Execute(ctx.Request.Context(), input)
	if err != nil {
		handleLedgerError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToDelinquencyReportResponse(output))
}

// Export handles GET /communities/:id/delinquents/export requests.
func (c *DelinquencyController) Export(ctx *gin.Context) {
	input, ok := c.buildInput(ctx)
	if !ok {
		return
	}

	output, err := c.exportUseCase.Execute(ctx.Request.Context(), delinquency.ExportDelinquentsInput{
		ListDelinquentsInput: input,
		Format:               adapter.ReportFormat(ctx.Query("format")),
	})
	if err != nil {
		handleLedgerError(ctx, err)
		return
	}

	ctx.Header("Content-Disposition", `attachment; filename="`+output.FileName+`"`)
	ctx.Data(http.StatusOK, output.ContentType, output.Content)
}

// Notify handles POST /communities/:id/delinquents/notify requests.
func (c *DelinquencyController) Notify(ctx *gin.Context) {
	input, ok := c.buildInput(ctx)
	if !ok {
		return
	}

	output, err := c.notifyUseCase.Execute(ctx.Request.Context(), input)
	if err != nil {
		handleLedgerError(ctx, err)
		return
	}

	ctx.JSON(http.StatusAccepted, dto.ToNotifyDelinquentsResponse(output))
}

func (c *DelinquencyController) buildInput(ctx *gin.Context) (delinquency.ListDelinquentsInput, bool) {
	scope, ok := requireScope(ctx)
	if !ok {
		return delinquency.ListDelinquentsInput{}, false
	}

	asOf, ok := parseAsOfQuery(ctx)
	if !ok {
		return delinquency.ListDelinquentsInput{}, false
	}

	return delinquency.ListDelinquentsInput{
		CommunityID: ctx.Param("id"),
		AsOf:        asOf,
		Scope:       scope,
		SkipCache:   ctx.Query("fresh") == "true",
	}, true
}
