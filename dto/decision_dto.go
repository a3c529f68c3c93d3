package dto

import (
	"encoding/json"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/guregu/null/v5"

	"github.com/adaudit/adaudit-backend/models"
	"github.com/adaudit/adaudit-backend/pure_utils"
	"github.com/adaudit/adaudit-backend/utils"
)

type DecisionDto struct {
	Id              string          `json:"id"`
	DecisionGroupId string          `json:"decision_group_id"`
	Version         int             `json:"version"`
	IsCurrent       bool            `json:"is_current"`
	SupersededBy    *string         `json:"superseded_by,omitempty"`
	AccountId       string          `json:"account_id"`
	AuditId         *string         `json:"audit_id,omitempty"`
	ModuleId        string          `json:"module_id"`
	EntityType      string          `json:"entity_type"`
	EntityId        string          `json:"entity_id"`
	EntityName      string          `json:"entity_name"`
	ActionType      string          `json:"action_type"`
	BeforeValue     json.RawMessage `json:"before_value,omitempty"`
	AfterValue      json.RawMessage `json:"after_value,omitempty"`
	Rationale       string          `json:"rationale"`
	Evidence        json.RawMessage `json:"evidence,omitempty"`
	Status          string          `json:"status"`
	ChangeSetId     *string         `json:"change_set_id,omitempty"`
	ExportedAt      *time.Time      `json:"exported_at,omitempty"`
	AppliedAt       *time.Time      `json:"applied_at,omitempty"`
	CreatedBy       string          `json:"created_by"`
	CreatedAt       time.Time       `json:"created_at"`
}

func AdaptDecisionDto(decision models.Decision) DecisionDto {
	return DecisionDto{
		Id:              decision.Id,
		DecisionGroupId: decision.DecisionGroupId,
		Version:         decision.Version,
		IsCurrent:       decision.IsCurrent,
		SupersededBy:    decision.SupersededBy,
		AccountId:       decision.AccountId,
		AuditId:         decision.AuditId,
		ModuleId:        decision.ModuleId,
		EntityType:      string(decision.EntityType),
		EntityId:        decision.EntityId,
		EntityName:      decision.EntityName,
		ActionType:      string(decision.ActionType),
		BeforeValue:     decision.BeforeValue,
		AfterValue:      decision.AfterValue,
		Rationale:       decision.Rationale,
		Evidence:        decision.Evidence,
		Status:          string(decision.Status),
		ChangeSetId:     decision.ChangeSetId,
		ExportedAt:      decision.ExportedAt,
		AppliedAt:       decision.AppliedAt,
		CreatedBy:       decision.CreatedBy,
		CreatedAt:       decision.CreatedAt,
	}
}

type CreateDecisionBody struct {
	AccountId   string          `json:"account_id" binding:"required"`
	AuditId     *string         `json:"audit_id"`
	ModuleId    string          `json:"module_id" binding:"required"`
	EntityType  string          `json:"entity_type" binding:"required"`
	EntityId    string          `json:"entity_id" binding:"required"`
	EntityName  string          `json:"entity_name"`
	ActionType  string          `json:"action_type" binding:"required"`
	BeforeValue json.RawMessage `json:"before_value"`
	AfterValue  json.RawMessage `json:"after_value"`
	Rationale   string          `json:"rationale"`
	Evidence    json.RawMessage `json:"evidence"`
}

func AdaptCreateDecisionInput(body CreateDecisionBody) models.CreateDecisionInput {
	return models.CreateDecisionInput{
		AccountId:   body.AccountId,
		AuditId:     body.AuditId,
		ModuleId:    body.ModuleId,
		EntityType:  models.EntityTypeFrom(body.EntityType),
		EntityId:    body.EntityId,
		EntityName:  body.EntityName,
		ActionType:  models.ActionTypeFrom(body.ActionType),
		BeforeValue: body.BeforeValue,
		AfterValue:  body.AfterValue,
		Rationale:   body.Rationale,
		Evidence:    body.Evidence,
	}
}

type UpdateDecisionBody struct {
	AfterValue json.RawMessage `json:"after_value"`
	Rationale  null.String     `json:"rationale"`
	Evidence   json.RawMessage `json:"evidence"`
}

func AdaptUpdateDecisionInput(body UpdateDecisionBody) models.UpdateDecisionInput {
	return models.UpdateDecisionInput{
		AfterValue: body.AfterValue,
		Rationale:  body.Rationale.Ptr(),
		Evidence:   body.Evidence,
	}
}

type RollbackDecisionBody struct {
	Rationale null.String `json:"rationale"`
}

type BulkApproveBody struct {
	DecisionIds []string `json:"decision_ids" binding:"required,min=1"`
}

type BulkRejectBody struct {
	DecisionIds []string `json:"decision_ids" binding:"required,min=1"`
	Reason      string   `json:"reason" binding:"required"`
}

// BulkOperationResultDto reports the outcome for one input id. Exactly one of
// Decision and Error is set.
type BulkOperationResultDto struct {
	Id       string       `json:"id"`
	Decision *DecisionDto `json:"decision,omitempty"`
	Error    string       `json:"error,omitempty"`
}

func AdaptBulkOperationResultDto(result models.BulkOperationResult) BulkOperationResultDto {
	dto := BulkOperationResultDto{Id: result.Id}
	if result.Decision != nil {
		decision := AdaptDecisionDto(*result.Decision)
		dto.Decision = &decision
	}
	if result.Error != nil {
		dto.Error = result.Error.Error()
	}
	return dto
}

type BulkOperationResponse struct {
	Results []BulkOperationResultDto `json:"results"`
}

func AdaptBulkOperationResponse(results []models.BulkOperationResult) BulkOperationResponse {
	return BulkOperationResponse{
		Results: pure_utils.Map(results, AdaptBulkOperationResultDto),
	}
}

type DecisionFiltersDto struct {
	AuditId     string   `form:"audit_id"`
	ModuleId    string   `form:"module_id"`
	EntityTypes []string `form:"entity_type[]"`
	ActionTypes []string `form:"action_type[]"`
	Statuses    []string `form:"status[]"`
	ChangeSetId string   `form:"change_set_id"`
}

func (f DecisionFiltersDto) Parse() (models.DecisionFilters, error) {
	entityTypes, err := pure_utils.MapErr(f.EntityTypes, parseEntityType)
	if err != nil {
		return models.DecisionFilters{}, err
	}
	actionTypes, err := pure_utils.MapErr(f.ActionTypes, parseActionType)
	if err != nil {
		return models.DecisionFilters{}, err
	}
	statuses, err := pure_utils.MapErr(f.Statuses, parseDecisionStatus)
	if err != nil {
		return models.DecisionFilters{}, err
	}

	filters := models.DecisionFilters{
		EntityTypes: entityTypes,
		ActionTypes: actionTypes,
		Statuses:    statuses,
	}
	if f.AuditId != "" {
		filters.AuditId = &f.AuditId
	}
	if f.ModuleId != "" {
		filters.ModuleId = &f.ModuleId
	}
	if f.ChangeSetId != "" {
		if err := utils.ValidateUuid(f.ChangeSetId); err != nil {
			return models.DecisionFilters{}, err
		}
		filters.ChangeSetId = &f.ChangeSetId
	}
	return filters, nil
}

func parseEntityType(s string) (models.EntityType, error) {
	entityType := models.EntityTypeFrom(s)
	if entityType == models.EntityTypeUnknown {
		return entityType, errors.Wrapf(models.BadParameterError, "unknown entity type %q", s)
	}
	return entityType, nil
}

func parseActionType(s string) (models.ActionType, error) {
	actionType := models.ActionTypeFrom(s)
	if actionType == models.ActionTypeUnknown {
		return actionType, errors.Wrapf(models.BadParameterError, "unknown action type %q", s)
	}
	return actionType, nil
}

func parseDecisionStatus(s string) (models.DecisionStatus, error) {
	status := models.DecisionStatusFrom(s)
	if status == models.DecisionStatusUnknown {
		return status, errors.Wrapf(models.BadParameterError, "unknown decision status %q", s)
	}
	return status, nil
}
