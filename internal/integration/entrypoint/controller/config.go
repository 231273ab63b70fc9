package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/condo-portal/ledger/internal/application/usecase/communityconfig"
	"github.com/condo-portal/ledger/internal/integration/entrypoint/dto"
)

// ConfigController handles community configuration endpoints.
type ConfigController struct {
	listConfigUseCase *communityconfig.ListConfigUseCase
	setConfigUseCase  *communityconfig.SetConfigUseCase
}

// NewConfigController creates a new config controller instance.
func NewConfigController(
	listConfigUseCase *communityconfig.ListConfigUseCase,
	setConfigUseCase *communityconfig.SetConfigUseCase,
) *ConfigController {
	return &ConfigController{
		listConfigUseCase: listConfigUseCase,
		setConfigUseCase:  setConfigUseCase,
	}
}

// List handles GET /communities/:id/config requests.
func (c *ConfigController) List(ctx *gin.Context) {
	scope, ok := requireScope(ctx)
	if !ok {
		return
	}

	communityID := ctx.Param("id")
	output, err := c.listConfigUseCase.Execute(ctx.Request.Context(), communityconfig.ListConfigInput{
		CommunityID: communityID,
		Scope:       scope,
	})
	if err != nil {
		handleLedgerError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToConfigListResponse(communityID, output))
}

// Set handles PUT /communities/:id/config/:key requests.
func (c *ConfigController) Set(ctx *gin.Context) {
	scope, ok := requireScope(ctx)
	if !ok {
		return
	}

	var req dto.SetConfigRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondInvalidRequest(ctx, err)
		return
	}

	output, err := c.setConfigUseCase.Execute(ctx.Request.Context(), communityconfig.SetConfigInput{
		CommunityID: ctx.Param("id"),
		Key:         ctx.Param("key"),
		Value:       req.Value,
		Scope:       scope,
	})
	if err != nil {
		handleLedgerError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToConfigEntryResponse(output.Entry))
}
