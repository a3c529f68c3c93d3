package api

import (
	"fmt"
	"io"
	"net/http"

	"github.com/cockroachdb/errors"
	"github.com/gin-gonic/gin"

	"github.com/adaudit/adaudit-backend/dto"
	"github.com/adaudit/adaudit-backend/models"
	"github.com/adaudit/adaudit-backend/usecases"
	"github.com/adaudit/adaudit-backend/utils"
)

var changeSetsPaginationDefaults = models.PaginationDefaults{
	Limit:  25,
	SortBy: models.ChangeSetsSortingCreatedAt,
	Order:  models.SortingOrderDesc,
}

type ChangeSetUriInput struct {
	Id string `uri:"change_set_id" binding:"required,uuid"`
}

type ChangeSetDecisionUriInput struct {
	Id         string `uri:"change_set_id" binding:"required,uuid"`
	DecisionId string `uri:"decision_id" binding:"required,uuid"`
}

func handlePostChangeSet(uc usecases.Usecases) func(c *gin.Context) {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		creds, found := utils.CredentialsFromCtx(ctx)
		if !found {
			presentError(ctx, c, errors.Wrap(models.UnAuthorizedError, "no credentials in context"))
			return
		}

		var body dto.CreateChangeSetBody
		if err := c.ShouldBindJSON(&body); err != nil {
			c.Status(http.StatusBadRequest)
			return
		}

		usecase := uc.NewChangeSetUsecase()
		changeSet, err := usecase.CreateChangeSet(ctx, dto.AdaptCreateChangeSetInput(body), creds.ActorId)
		if presentError(ctx, c, err) {
			return
		}
		c.JSON(http.StatusCreated, dto.AdaptChangeSetWithDecisionsDto(changeSet))
	}
}

func handleListChangeSets(uc usecases.Usecases) func(c *gin.Context) {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		accountId := c.Query("account_id")
		if accountId == "" {
			presentError(ctx, c, errors.Wrap(models.BadParameterError, "account_id is required"))
			return
		}

		var filtersDto dto.ChangeSetFiltersDto
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
			dto.AdaptPaginationAndSorting(paginationDto), changeSetsPaginationDefaults)

		usecase := uc.NewChangeSetUsecase()
		changeSets, err := usecase.ListChangeSets(ctx, accountId, filters, pagination)
		if presentError(ctx, c, err) {
			return
		}
		c.JSON(http.StatusOK, dto.AdaptListPageDto(changeSets, dto.AdaptChangeSetDto))
	}
}

func handleGetChangeSet(uc usecases.Usecases) func(c *gin.Context) {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		var uri ChangeSetUriInput
		if err := c.ShouldBindUri(&uri); err != nil {
			c.Status(http.StatusBadRequest)
			return
		}

		usecase := uc.NewChangeSetUsecase()
		changeSet, err := usecase.GetChangeSet(ctx, uri.Id)
		if presentError(ctx, c, err) {
			return
		}
		c.JSON(http.StatusOK, dto.AdaptChangeSetWithDecisionsDto(changeSet))
	}
}

func handleDeleteChangeSet(uc usecases.Usecases) func(c *gin.Context) {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		var uri ChangeSetUriInput
		if err := c.ShouldBindUri(&uri); err != nil {
			c.Status(http.StatusBadRequest)
			return
		}

		usecase := uc.NewChangeSetUsecase()
		if presentError(ctx, c, usecase.DeleteChangeSet(ctx, uri.Id)) {
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func handleAddDecisionsToChangeSet(uc usecases.Usecases) func(c *gin.Context) {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		var uri ChangeSetUriInput
		if err := c.ShouldBindUri(&uri); err != nil {
			c.Status(http.StatusBadRequest)
			return
		}
		var body dto.AddDecisionsBody
		if err := c.ShouldBindJSON(&body); err != nil {
			c.Status(http.StatusBadRequest)
			return
		}

		usecase := uc.NewChangeSetUsecase()
		changeSet, err := usecase.AddDecisions(ctx, uri.Id, body.DecisionIds)
		if presentError(ctx, c, err) {
			return
		}
		c.JSON(http.StatusOK, dto.AdaptChangeSetWithDecisionsDto(changeSet))
	}
}

func handleRemoveDecisionFromChangeSet(uc usecases.Usecases) func(c *gin.Context) {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		var uri ChangeSetDecisionUriInput
		if err := c.ShouldBindUri(&uri); err != nil {
			c.Status(http.StatusBadRequest)
			return
		}

		usecase := uc.NewChangeSetUsecase()
		changeSet, err := usecase.RemoveDecision(ctx, uri.Id, uri.DecisionId)
		if presentError(ctx, c, err) {
			return
		}
		c.JSON(http.StatusOK, dto.AdaptChangeSetWithDecisionsDto(changeSet))
	}
}

func handleApproveChangeSet(uc usecases.Usecases) func(c *gin.Context) {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		var uri ChangeSetUriInput
		if err := c.ShouldBindUri(&uri); err != nil {
			c.Status(http.StatusBadRequest)
			return
		}

		usecase := uc.NewChangeSetUsecase()
		changeSet, err := usecase.ApproveChangeSet(ctx, uri.Id)
		if presentError(ctx, c, err) {
			return
		}
		c.JSON(http.StatusOK, dto.AdaptChangeSetDto(changeSet))
	}
}

func handlePreviewChangeSetExport(uc usecases.Usecases) func(c *gin.Context) {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		var uri ChangeSetUriInput
		if err := c.ShouldBindUri(&uri); err != nil {
			c.Status(http.StatusBadRequest)
			return
		}

		usecase := uc.NewExportUsecase()
		preview, err := usecase.PreviewExport(ctx, uri.Id)
		if presentError(ctx, c, err) {
			return
		}
		c.JSON(http.StatusOK, dto.AdaptExportPreviewDto(preview))
	}
}

func handleExportChangeSet(uc usecases.Usecases) func(c *gin.Context) {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		var uri ChangeSetUriInput
		if err := c.ShouldBindUri(&uri); err != nil {
			c.Status(http.StatusBadRequest)
			return
		}

		usecase := uc.NewExportUsecase()
		changeSet, err := usecase.Export(ctx, uri.Id)
		if presentError(ctx, c, err) {
			return
		}
		c.JSON(http.StatusOK, dto.AdaptChangeSetDto(changeSet))
	}
}

func handleDownloadChangeSetExport(uc usecases.Usecases) func(c *gin.Context) {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		var uri ChangeSetUriInput
		if err := c.ShouldBindUri(&uri); err != nil {
			c.Status(http.StatusBadRequest)
			return
		}

		usecase := uc.NewExportUsecase()
		changeSet, blob, err := usecase.DownloadExport(ctx, uri.Id)
		if presentError(ctx, c, err) {
			return
		}
		defer blob.ReadCloser.Close()

		c.Header("Content-Type", "application/zip")
		c.Header("Content-Disposition",
			fmt.Sprintf("attachment; filename=%q", models.ExportArtifactFilename(changeSet.Name)))
		if _, err := io.Copy(c.Writer, blob.ReadCloser); err != nil {
			utils.LoggerFromContext(ctx).ErrorContext(ctx, "failed streaming export artifact",
				"change_set_id", uri.Id, "error", err.Error())
		}
	}
}

func handleMarkChangeSetApplied(uc usecases.Usecases) func(c *gin.Context) {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		var uri ChangeSetUriInput
		if err := c.ShouldBindUri(&uri); err != nil {
			c.Status(http.StatusBadRequest)
			return
		}

		usecase := uc.NewExportUsecase()
		changeSet, err := usecase.MarkApplied(ctx, uri.Id)
		if presentError(ctx, c, err) {
			return
		}
		c.JSON(http.StatusOK, dto.AdaptChangeSetDto(changeSet))
	}
}
