package dto

import (
	"time"

	"github.com/cockroachdb/errors"

	"github.com/adaudit/adaudit-backend/models"
	"github.com/adaudit/adaudit-backend/pure_utils"
)

type ChangeSetDto struct {
	Id          string          `json:"id"`
	AccountId   string          `json:"account_id"`
	AuditId     *string         `json:"audit_id,omitempty"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Status      string          `json:"status"`
	ExportFiles []ExportFileDto `json:"export_files,omitempty"`
	ExportHash  string          `json:"export_hash,omitempty"`
	CreatedBy   string          `json:"created_by"`
	CreatedAt   time.Time       `json:"created_at"`
	ApprovedAt  *time.Time      `json:"approved_at,omitempty"`
	ExportedAt  *time.Time      `json:"exported_at,omitempty"`
	AppliedAt   *time.Time      `json:"applied_at,omitempty"`
}

type ExportFileDto struct {
	Filename string `json:"filename"`
	RowCount int    `json:"row_count"`
}

func AdaptChangeSetDto(changeSet models.ChangeSet) ChangeSetDto {
	return ChangeSetDto{
		Id:          changeSet.Id,
		AccountId:   changeSet.AccountId,
		AuditId:     changeSet.AuditId,
		Name:        changeSet.Name,
		Description: changeSet.Description,
		Status:      string(changeSet.Status),
		ExportFiles: pure_utils.Map(changeSet.ExportFiles, adaptExportFileDto),
		ExportHash:  changeSet.ExportHash,
		CreatedBy:   changeSet.CreatedBy,
		CreatedAt:   changeSet.CreatedAt,
		ApprovedAt:  changeSet.ApprovedAt,
		ExportedAt:  changeSet.ExportedAt,
		AppliedAt:   changeSet.AppliedAt,
	}
}

func adaptExportFileDto(file models.ExportFile) ExportFileDto {
	return ExportFileDto{
		Filename: file.Filename,
		RowCount: file.RowCount,
	}
}

type ChangeSetWithDecisionsDto struct {
	ChangeSetDto
	Decisions []DecisionDto `json:"decisions"`
}

func AdaptChangeSetWithDecisionsDto(changeSet models.ChangeSetWithDecisions) ChangeSetWithDecisionsDto {
	return ChangeSetWithDecisionsDto{
		ChangeSetDto: AdaptChangeSetDto(changeSet.ChangeSet),
		Decisions:    pure_utils.Map(changeSet.Decisions, AdaptDecisionDto),
	}
}

type CreateChangeSetBody struct {
	AccountId   string   `json:"account_id" binding:"required"`
	AuditId     *string  `json:"audit_id"`
	Name        string   `json:"name" binding:"required"`
	Description string   `json:"description"`
	DecisionIds []string `json:"decision_ids"`
}

func AdaptCreateChangeSetInput(body CreateChangeSetBody) models.CreateChangeSetInput {
	return models.CreateChangeSetInput{
		AccountId:   body.AccountId,
		AuditId:     body.AuditId,
		Name:        body.Name,
		Description: body.Description,
		DecisionIds: body.DecisionIds,
	}
}

type AddDecisionsBody struct {
	DecisionIds []string `json:"decision_ids" binding:"required,min=1"`
}

type ChangeSetFiltersDto struct {
	AuditId  string   `form:"audit_id"`
	Statuses []string `form:"status[]"`
}

func (f ChangeSetFiltersDto) Parse() (models.ChangeSetFilters, error) {
	statuses, err := pure_utils.MapErr(f.Statuses, parseChangeSetStatus)
	if err != nil {
		return models.ChangeSetFilters{}, err
	}

	filters := models.ChangeSetFilters{
		Statuses: statuses,
	}
	if f.AuditId != "" {
		filters.AuditId = &f.AuditId
	}
	return filters, nil
}

func parseChangeSetStatus(s string) (models.ChangeSetStatus, error) {
	status := models.ChangeSetStatusFrom(s)
	if status == models.ChangeSetStatusUnknown {
		return status, errors.Wrapf(models.BadParameterError, "unknown change set status %q", s)
	}
	return status, nil
}

type ExportPreviewDto struct {
	Files []ExportFilePreviewDto `json:"files"`
}

type ExportFilePreviewDto struct {
	Filename    string `json:"filename"`
	RowCount    int    `json:"row_count"`
	PreviewText string `json:"preview_text"`
}

func AdaptExportPreviewDto(preview models.ExportPreview) ExportPreviewDto {
	return ExportPreviewDto{
		Files: pure_utils.Map(preview.Files, func(f models.ExportFilePreview) ExportFilePreviewDto {
			return ExportFilePreviewDto{
				Filename:    f.Filename,
				RowCount:    f.RowCount,
				PreviewText: f.PreviewText,
			}
		}),
	}
}
