package controller

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/condo-portal/ledger/internal/application/adapter"
	domainerror "github.com/condo-portal/ledger/internal/domain/error"
	"github.com/condo-portal/ledger/internal/domain/valueobject"
	"github.com/condo-portal/ledger/internal/integration/entrypoint/dto"
	"github.com/condo-portal/ledger/internal/integration/entrypoint/middleware"
)

// requireScope returns the caller's community scope, responding 401 when the
// request did not pass through the auth middleware.
func requireScope(ctx *gin.Context) (adapter.CommunityScope, bool) {
	scope, ok := middleware.GetScopeFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.ErrorResponse{
			Error: "User not authenticated",
			Code:  string(domainerror.ErrCodeMissingToken),
		})
		return nil, false
	}
	return scope, true
}

// parseAsOfQuery reads the optional as_of query parameter.
func parseAsOfQuery(ctx *gin.Context) (*time.Time, bool) {
	raw := ctx.Query("as_of")
	if raw == "" {
		return nil, true
	}
	asOf, err := valueobject.ParseDate(raw)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: domainerror.ErrInvalidDate.Error(),
			Code:  string(domainerror.ErrCodeInvalidDate),
		})
		return nil, false
	}
	return &asOf, true
}

func respondInvalidRequest(ctx *gin.Context, err error) {
	ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
		Error:   "Invalid request body",
		Code:    string(domainerror.ErrCodeMissingFields),
		Details: err.Error(),
	})
}

// handleLedgerError maps use case errors to HTTP responses.
func handleLedgerError(ctx *gin.Context, err error) {
	var ledgerErr *domainerror.LedgerError
	if errors.As(err, &ledgerErr) {
		ctx.JSON(statusForLedgerError(ledgerErr.Code), dto.ErrorResponse{
			Error: ledgerErr.Message,
			Code:  string(ledgerErr.Code),
		})
		return
	}

	var notifyErr *domainerror.NotificationError
	if errors.As(err, &notifyErr) {
		ctx.JSON(http.StatusBadGateway, dto.ErrorResponse{
			Error: notifyErr.Message,
			Code:  string(notifyErr.Code),
		})
		return
	}

	slog.Error("Request failed", "path", ctx.FullPath(), "error", err)
	ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{
		Error: "An internal error occurred",
		Code:  string(domainerror.ErrCodeLedgerInternalError),
	})
}

// statusForLedgerError maps ledger error codes to HTTP status codes.
func statusForLedgerError(code domainerror.LedgerErrorCode) int {
	switch code {
	case domainerror.ErrCodeInvalidAmount,
		domainerror.ErrCodeInvalidDate,
		domainerror.ErrCodeInvalidMonth,
		domainerror.ErrCodeInvalidPaymentStatus,
		domainerror.ErrCodeEmptyConfigKey,
		domainerror.ErrCodeMissingFields,
		domainerror.ErrCodeUnsupportedFormat:
		return http.StatusBadRequest
	case domainerror.ErrCodeResidentNotFound,
		domainerror.ErrCodeCommunityNotFound,
		domainerror.ErrCodePaymentNotFound:
		return http.StatusNotFound
	case domainerror.ErrCodePaymentNotPending:
		return http.StatusConflict
	case domainerror.ErrCodeCommunityForbidden:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}
