package api

import (
	"net/http"

	"github.com/cockroachdb/errors"
	"github.com/gin-gonic/gin"

	"github.com/adaudit/adaudit-backend/dto"
	"github.com/adaudit/adaudit-backend/models"
	"github.com/adaudit/adaudit-backend/pure_utils"
	"github.com/adaudit/adaudit-backend/usecases"
	"github.com/adaudit/adaudit-backend/utils"
)

var decisionsPaginationDefaults = models.PaginationDefaults{
	Limit:  25,
	SortBy: models.DecisionsSortingCreatedAt,
	Order:  models.SortingOrderDesc,
}

type DecisionUriInput struct {
	Id string `uri:"decision_id" binding:"required,uuid"`
}

func handlePostDecision(uc usecases.Usecases) func(c *gin.Context) {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		creds, found := utils.CredentialsFromCtx(ctx)
		if !found {
			presentError(ctx, c, errors.Wrap(models.UnAuthorizedError, "no credentials in context"))
			return
		}

		var body dto.CreateDecisionBody
		if err := c.ShouldBindJSON(&body); err != nil {
			c.Status(http.StatusBadRequest)
			return
		}

		usecase := uc.NewDecisionUsecase()
		decision, err := usecase.CreateDecision(ctx, dto.AdaptCreateDecisionInput(body), creds.ActorId)
		if presentError(ctx, c, err) {
			return
		}
		c.JSON(http.StatusCreated, dto.AdaptDecisionDto(decision))
	}
}

func handleListDecisions(uc usecases.Usecases) func(c *gin.Context) {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		accountId := c.Query("account_id")
		if accountId == "" {
			presentError(ctx, c, errors.Wrap(models.BadParameterError, "account_id is required"))
			return
		}

		var filtersDto dto.DecisionFiltersDto
		if err := c.ShouldBind(&filtersDto); err != nil {
			c.Status(http.StatusBadRequest)
			return
		}
		filters, err := filtersDto.Parse()
		if presentError(ctx, c, err) {
			return
		}

		var paginationDto dto.PaginationAndSortingDto
		if err := c.ShouldBind(&paginationDto); err != nil {
			c.Status(http.StatusBadRequest)
			return
		}
		pagination := models.WithPaginationDefaults(
			dto.AdaptPaginationAndSorting(paginationDto), decisionsPaginationDefaults)

		usecase := uc.NewDecisionUsecase()
		decisions, err := usecase.ListDecisions(ctx, accountId, filters, pagination)
		if presentError(ctx, c, err) {
			return
		}
		c.JSON(http.StatusOK, dto.AdaptListPageDto(decisions, dto.AdaptDecisionDto))
	}
}

func handleGetDecision(uc usecases.Usecases) func(c *gin.Context) {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		var uri DecisionUriInput
		if err := c.ShouldBindUri(&uri); err != nil {
			c.Status(http.StatusBadRequest)
			return
		}

		usecase := uc.NewDecisionUsecase()
		decision, err := usecase.GetDecision(ctx, uri.Id)
		if presentError(ctx, c, err) {
			return
		}
		c.JSON(http.StatusOK, dto.AdaptDecisionDto(decision))
	}
}

func handleGetDecisionHistory(uc usecases.Usecases) func(c *gin.Context) {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		var uri DecisionUriInput
		if err := c.ShouldBindUri(&uri); err != nil {
			c.Status(http.StatusBadRequest)
			return
		}

		usecase := uc.NewDecisionUsecase()
		decision, err := usecase.GetDecision(ctx, uri.Id)
		if presentError(ctx, c, err) {
			return
		}
		versions, err := usecase.DecisionHistory(ctx, decision.DecisionGroupId)
		if presentError(ctx, c, err) {
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"versions": pure_utils.Map(versions, dto.AdaptDecisionDto),
		})
	}
}

func handlePatchDecision(uc usecases.Usecases) func(c *gin.Context) {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		creds, found := utils.CredentialsFromCtx(ctx)
		if !found {
			presentError(ctx, c, errors.Wrap(models.UnAuthorizedError, "no credentials in context"))
			return
		}

		var uri DecisionUriInput
		if err := c.ShouldBindUri(&uri); err != nil {
			c.Status(http.StatusBadRequest)
			return
		}
		var body dto.UpdateDecisionBody
		if err := c.ShouldBindJSON(&body); err != nil {
			c.Status(http.StatusBadRequest)
			return
		}

		usecase := uc.NewDecisionUsecase()
		decision, err := usecase.UpdateDecision(ctx, uri.Id, dto.AdaptUpdateDecisionInput(body), creds.ActorId)
		if presentError(ctx, c, err) {
			return
		}
		c.JSON(http.StatusOK, dto.AdaptDecisionDto(decision))
	}
}

func handleDeleteDecision(uc usecases.Usecases) func(c *gin.Context) {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		var uri DecisionUriInput
		if err := c.ShouldBindUri(&uri); err != nil {
			c.Status(http.StatusBadRequest)
			return
		}

		usecase := uc.NewDecisionUsecase()
		if presentError(ctx, c, usecase.DeleteDecision(ctx, uri.Id)) {
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func handleApproveDecision(uc usecases.Usecases) func(c *gin.Context) {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		var uri DecisionUriInput
		if err := c.ShouldBindUri(&uri); err != nil {
			c.Status(http.StatusBadRequest)
			return
		}

		usecase := uc.NewDecisionUsecase()
		decision, err := usecase.ApproveDecision(ctx, uri.Id)
		if presentError(ctx, c, err) {
			return
		}
		c.JSON(http.StatusOK, dto.AdaptDecisionDto(decision))
	}
}

func handleRollbackDecision(uc usecases.Usecases) func(c *gin.Context) {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		var uri DecisionUriInput
		if err := c.ShouldBindUri(&uri); err != nil {
			c.Status(http.StatusBadRequest)
			return
		}
		// The body is optional: a rollback without a rationale is legal.
		var body dto.RollbackDecisionBody
		_ = c.ShouldBindJSON(&body)

		usecase := uc.NewDecisionUsecase()
		decision, err := usecase.RollbackDecision(ctx, uri.Id, body.Rationale.Ptr())
		if presentError(ctx, c, err) {
			return
		}
		c.JSON(http.StatusOK, dto.AdaptDecisionDto(decision))
	}
}

func handleBulkApproveDecisions(uc usecases.Usecases) func(c *gin.Context) {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		var body dto.BulkApproveBody
		if err := c.ShouldBindJSON(&body); err != nil {
			c.Status(http.StatusBadRequest)
			return
		}

		usecase := uc.NewDecisionUsecase()
		results := usecase.BulkApprove(ctx, body.DecisionIds)
		c.JSON(http.StatusOK, dto.AdaptBulkOperationResponse(results))
	}
}

func handleBulkRejectDecisions(uc usecases.Usecases) func(c *gin.Context) {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		var body dto.BulkRejectBody
		if err := c.ShouldBindJSON(&body); err != nil {
			c.Status(http.StatusBadRequest)
			return
		}

		usecase := uc.NewDecisionUsecase()
		results := usecase.BulkReject(ctx, body.DecisionIds, body.Reason)
		c.JSON(http.StatusOK, dto.AdaptBulkOperationResponse(results))
	}
}
