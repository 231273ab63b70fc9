// Package controller implements HTTP handlers for the API endpoints.
package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/condo-portal/ledger/internal/application/adapter"
	"github.com/condo-portal/ledger/internal/application/usecase/ledger"
	"github.com/condo-portal/ledger/internal/integration/entrypoint/dto"
)

// LedgerController handles resident ledger endpoints.
type LedgerController struct {
	getLedgerUseCase    *ledger.GetResidentLedgerUseCase
	exportLedgerUseCase *ledger.ExportResidentLedgerUseCase
}

// NewLedgerController creates a new ledger controller instance.
func NewLedgerController(
	getLedgerUseCase *ledger.GetResidentLedgerUseCase,
	exportLedgerUseCase *ledger.ExportResidentLedgerUseCase,
) *LedgerController {
	return &LedgerController{
		getLedgerUseCase:    getLedgerUseCase,
		exportLedgerUseCase: exportLedgerUseCase,
	}
}

// Get handles GET /residents/:id/ledger requests.
func (c *LedgerController) Get(ctx *gin.Context) {
	input, ok := c.buildInput(ctx)
	if !ok {
		return
	}

	output, err := c.getLedgerUseCase.Execute(ctx.Request.Context(), input)
	if err != nil {
		handleLedgerError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToLedgerResponse(output))
}

// Export handles GET /residents/:id/ledger/export requests.
// The optional format query parameter selects xlsx (default) or pdf.
func (c *LedgerController) Export(ctx *gin.Context) {
	input, ok := c.buildInput(ctx)
	if !ok {
		return
	}

	output, err := c.exportLedgerUseCase.Execute(ctx.Request.Context(), ledger.ExportResidentLedgerInput{
		GetResidentLedgerInput: input,
		Format:                 adapter.ReportFormat(ctx.Query("format")),
	})
	if err != nil {
		handleLedgerError(ctx, err)
		return
	}

	ctx.Header("Content-Disposition", `attachment; filename="`+output.FileName+`"`)
	ctx.Data(http.StatusOK, output.ContentType, output.Content)
}

func (c *LedgerController) buildInput(ctx *gin.Context) (ledger.GetResidentLedgerInput, bool) {
	scope, ok := requireScope(ctx)
	if !ok {
		return ledger.GetResidentLedgerInput{}, false
	}

	asOf, ok := parseAsOfQuery(ctx)
	if !ok {
		return ledger.GetResidentLedgerInput{}, false
	}

	return ledger.GetResidentLedgerInput{
		ResidentID: ctx.Param("id"),
		AsOf:       asOf,
		Scope:      scope,
	}, true
}
