package api

import (
	"context"
	"net/http"

	"github.com/cockroachdb/errors"
	"github.com/gin-gonic/gin"

	"github.com/adaudit/adaudit-backend/dto"
	"github.com/adaudit/adaudit-backend/models"
	"github.com/adaudit/adaudit-backend/utils"
)

// presentError translates a domain error into an HTTP response. Returns true
// when an error was written, so handlers can bail out with a one-liner.
func presentError(ctx context.Context, c *gin.Context, err error) bool {
	if err == nil {
		return false
	}

	status, code := http.StatusInternalServerError, dto.UnknownErrorCode
	switch {
	case errors.Is(err, models.BadParameterError):
		status, code = http.StatusBadRequest, dto.BadRequestCode
	case errors.Is(err, models.UnAuthorizedError):
		status, code = http.StatusUnauthorized, dto.UnauthorizedCode
	case errors.Is(err, models.ForbiddenError):
		status, code = http.StatusForbidden, dto.ForbiddenCode
	case errors.Is(err, models.NotFoundError):
		status, code = http.StatusNotFound, dto.NotFoundCode
	case errors.Is(err, models.ConflictError):
		status, code = http.StatusConflict, dto.ConflictCode
	case errors.Is(err, models.UnprocessableEntityError):
		status, code = http.StatusUnprocessableEntity, refineUnprocessableCode(err)
	case errors.Is(err, models.IntegrityError):
		if errors.Is(err, models.ErrExportCascadeFailed) {
			code = dto.ExportCascadeFailedCode
		}
		utils.LoggerFromContext(ctx).ErrorContext(ctx, "integrity error handling request",
			"error", err.Error())
	default:
		utils.LoggerFromContext(ctx).ErrorContext(ctx, "unexpected error handling request",
			"error", err.Error())
	}

	if errors.Is(err, models.ErrDecisionAlreadyClaimed) {
		code = dto.DecisionAlreadyGrouped
	}

	c.JSON(status, dto.APIErrorResponse{
		Message:   adaptErrorMessage(err),
		ErrorCode: code,
	})
	return true
}

func refineUnprocessableCode(err error) dto.ErrorCode {
	switch {
	case errors.Is(err, models.ErrDecisionFrozen):
		return dto.DecisionFrozenCode
	case errors.Is(err, models.ErrChangeSetEmpty):
		return dto.ChangeSetEmptyCode
	case errors.Is(err, models.InvalidTransitionError), errors.Is(err, models.InvalidStateError):
		return dto.InvalidTransitionCode
	default:
		return dto.UnprocessableEntityCode
	}
}

// adaptErrorMessage prefers the detail attached closest to the failure over
// the full wrap chain.
func adaptErrorMessage(err error) string {
	details := errors.GetAllDetails(err)
	if len(details) > 0 {
		return details[len(details)-1]
	}
	return err.Error()
}
