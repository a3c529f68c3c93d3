package models

import (
	"encoding/json"
	"slices"
	"time"
)

type Decision struct {
	Id              string
	DecisionGroupId string
	Version         int
	IsCurrent       bool
	SupersededBy    *string
	AccountId       string
	AuditId         *string
	ModuleId        string
	EntityType      EntityType
	EntityId        string
	EntityName      string
	ActionType      ActionType
	BeforeValue     json.RawMessage
	AfterValue      json.RawMessage
	Rationale       string
	Evidence        json.RawMessage
	Status          DecisionStatus
	ChangeSetId     *string
	ExportedAt      *time.Time
	AppliedAt       *time.Time
	CreatedBy       string
	CreatedAt       time.Time
}

type DecisionStatus string

const (
	DecisionStatusDraft      DecisionStatus = "draft"
	DecisionStatusApproved   DecisionStatus = "approved"
	DecisionStatusExported   DecisionStatus = "exported"
	DecisionStatusApplied    DecisionStatus = "applied"
	DecisionStatusRolledBack DecisionStatus = "rolled_back"
	DecisionStatusUnknown    DecisionStatus = "unknown"
)

var ValidDecisionStatuses = []DecisionStatus{
	DecisionStatusDraft,
	DecisionStatusApproved,
	DecisionStatusExported,
	DecisionStatusApplied,
	DecisionStatusRolledBack,
}

func DecisionStatusFrom(s string) DecisionStatus {
	if slices.Contains(ValidDecisionStatuses, DecisionStatus(s)) {
		return DecisionStatus(s)
	}
	return DecisionStatusUnknown
}

func (s DecisionStatus) CanTransition(newStatus DecisionStatus) bool {
	switch newStatus {
	case DecisionStatusApproved:
		return s == DecisionStatusDraft
	case DecisionStatusExported:
		return s == DecisionStatusApproved
	case DecisionStatusApplied:
		return s == DecisionStatusExported
	case DecisionStatusRolledBack:
		return s != DecisionStatusApplied && s != DecisionStatusRolledBack
	default:
		return false
	}
}

// IsFrozen reports whether the version is locked against edits and deletion.
func (s DecisionStatus) IsFrozen() bool {
	return s == DecisionStatusExported || s == DecisionStatusApplied
}

func (s DecisionStatus) IsDeletable() bool {
	return slices.Contains([]DecisionStatus{
		DecisionStatusDraft,
		DecisionStatusApproved,
		DecisionStatusRolledBack,
	}, s)
}

// IsGroupable reports whether a current decision in this status may be
// attached to a draft change set.
func (s DecisionStatus) IsGroupable() bool {
	return s == DecisionStatusDraft || s == DecisionStatusApproved
}

type EntityType string

const (
	EntityTypeCampaign                EntityType = "campaign"
	EntityTypeAdGroup                 EntityType = "ad_group"
	EntityTypeKeyword                 EntityType = "keyword"
	EntityTypeNegativeKeywordCampaign EntityType = "negative_keyword_campaign"
	EntityTypeNegativeKeywordAdGroup  EntityType = "negative_keyword_adgroup"
	EntityTypeAd                      EntityType = "ad"
	EntityTypeAsset                   EntityType = "asset"
	EntityTypeUnknown                 EntityType = "unknown"
)

var ValidEntityTypes = []EntityType{
	EntityTypeCampaign,
	EntityTypeAdGroup,
	EntityTypeKeyword,
	EntityTypeNegativeKeywordCampaign,
	EntityTypeNegativeKeywordAdGroup,
	EntityTypeAd,
	EntityTypeAsset,
}

func EntityTypeFrom(s string) EntityType {
	if slices.Contains(ValidEntityTypes, EntityType(s)) {
		return EntityType(s)
	}
	return EntityTypeUnknown
}

type ActionType string

const (
	ActionTypePause         ActionType = "pause"
	ActionTypeEnable        ActionType = "enable"
	ActionTypeRemove        ActionType = "remove"
	ActionTypeUpdateBid     ActionType = "update_bid"
	ActionTypeUpdateBudget  ActionType = "update_budget"
	ActionTypeUpdateUrl     ActionType = "update_url"
	ActionTypeAddAsNegative ActionType = "add_as_negative"
	ActionTypeUnknown       ActionType = "unknown"
)

var ValidActionTypes = []ActionType{
	ActionTypePause,
	ActionTypeEnable,
	ActionTypeRemove,
	ActionTypeUpdateBid,
	ActionTypeUpdateBudget,
	ActionTypeUpdateUrl,
	ActionTypeAddAsNegative,
}

func ActionTypeFrom(s string) ActionType {
	if slices.Contains(ValidActionTypes, ActionType(s)) {
		return ActionType(s)
	}
	return ActionTypeUnknown
}

type CreateDecisionInput struct {
	AccountId   string
	AuditId     *string
	ModuleId    string
	EntityType  EntityType
	EntityId    string
	EntityName  string
	ActionType  ActionType
	BeforeValue json.RawMessage
	AfterValue  json.RawMessage
	Rationale   string
	Evidence    json.RawMessage
}

func (input CreateDecisionInput) Validate() error {
	if input.EntityType == EntityTypeUnknown {
		return ErrUnknownEntityType
	}
	if input.ActionType == ActionTypeUnknown {
		return ErrUnknownActionType
	}
	if input.EntityId == "" {
		return ErrMissingEntityId
	}
	return nil
}

// UpdateDecisionInput is a patch on top of the current version's after value.
// Nil fields are left untouched on the new version.
type UpdateDecisionInput struct {
	AfterValue json.RawMessage
	Rationale  *string
	Evidence   json.RawMessage
}

type DecisionFilters struct {
	AuditId     *string
	ModuleId    *string
	EntityTypes []EntityType
	ActionTypes []ActionType
	Statuses    []DecisionStatus
	ChangeSetId *string
}

type BulkOperationResult struct {
	Id       string
	Decision *Decision
	Error    error
}

const DecisionsSortingCreatedAt = SortingFieldCreatedAt
