package models

import (
	"slices"
	"time"
)

type ChangeSet struct {
	Id          string
	AccountId   string
	AuditId     *string
	Name        string
	Description string
	Status      ChangeSetStatus
	ExportFiles []ExportFile
	ExportHash  string
	CreatedBy   string
	CreatedAt   time.Time
	ApprovedAt  *time.Time
	ExportedAt  *time.Time
	AppliedAt   *time.Time
}

// ExportFile is one entry of the manifest produced by the last export.
type ExportFile struct {
	Filename string `json:"filename"`
	RowCount int    `json:"row_count"`
}

type ChangeSetWithDecisions struct {
	ChangeSet
	Decisions []Decision
}

type ChangeSetStatus string

const (
	ChangeSetStatusDraft    ChangeSetStatus = "draft"
	ChangeSetStatusApproved ChangeSetStatus = "approved"
	ChangeSetStatusExported ChangeSetStatus = "exported"
	ChangeSetStatusApplied  ChangeSetStatus = "applied"
	ChangeSetStatusUnknown  ChangeSetStatus = "unknown"
)

var ValidChangeSetStatuses = []ChangeSetStatus{
	ChangeSetStatusDraft,
	ChangeSetStatusApproved,
	ChangeSetStatusExported,
	ChangeSetStatusApplied,
}

func ChangeSetStatusFrom(s string) ChangeSetStatus {
	if slices.Contains(ValidChangeSetStatuses, ChangeSetStatus(s)) {
		return ChangeSetStatus(s)
	}
	return ChangeSetStatusUnknown
}

// The change set state machine is strictly linear, there is no rollback at
// this level: rolling back happens per decision and detaches it from the set.
func (s ChangeSetStatus) CanTransition(newStatus ChangeSetStatus) bool {
	switch newStatus {
	case ChangeSetStatusApproved:
		return s == ChangeSetStatusDraft
	case ChangeSetStatusExported:
		return s == ChangeSetStatusApproved
	case ChangeSetStatusApplied:
		return s == ChangeSetStatusExported
	default:
		return false
	}
}

func (s ChangeSetStatus) IsDeletable() bool {
	return s != ChangeSetStatusApplied
}

type CreateChangeSetInput struct {
	AccountId   string
	AuditId     *string
	Name        string
	Description string
	DecisionIds []string
}

func (input CreateChangeSetInput) Validate() error {
	if input.Name == "" {
		return ErrChangeSetNameRequired
	}
	return nil
}

type ChangeSetFilters struct {
	AuditId  *string
	Statuses []ChangeSetStatus
}

const ChangeSetsSortingCreatedAt = SortingFieldCreatedAt
