package dbmodels

import (
	"time"

	"github.com/jackc/pgx/v5/pgtype"

	"github.com/adaudit/adaudit-backend/models"
	"github.com/adaudit/adaudit-backend/utils"
)

const TABLE_DECISIONS = "decisions"

type DBDecision struct {
	Id              string           `db:"id"`
	DecisionGroupId string           `db:"decision_group_id"`
	Version         int              `db:"version"`
	IsCurrent       bool             `db:"is_current"`
	SupersededBy    pgtype.Text      `db:"superseded_by"`
	AccountId       string           `db:"account_id"`
	AuditId         pgtype.Text      `db:"audit_id"`
	ModuleId        string           `db:"module_id"`
	EntityType      string           `db:"entity_type"`
	EntityId        string           `db:"entity_id"`
	EntityName      pgtype.Text      `db:"entity_name"`
	ActionType      string           `db:"action_type"`
	BeforeValue     []byte           `db:"before_value"`
	AfterValue      []byte           `db:"after_value"`
	Rationale       pgtype.Text      `db:"rationale"`
	Evidence        []byte           `db:"evidence"`
	Status          string           `db:"status"`
	ChangeSetId     pgtype.Text      `db:"change_set_id"`
	ExportedAt      pgtype.Timestamp `db:"exported_at"`
	AppliedAt       pgtype.Timestamp `db:"applied_at"`
	CreatedBy       string           `db:"created_by"`
	CreatedAt       time.Time        `db:"created_at"`
}

var SelectDecisionColumn = utils.ColumnList[DBDecision]()

func AdaptDecision(db DBDecision) (models.Decision, error) {
	decision := models.Decision{
		Id:              db.Id,
		DecisionGroupId: db.DecisionGroupId,
		Version:         db.Version,
		IsCurrent:       db.IsCurrent,
		AccountId:       db.AccountId,
		ModuleId:        db.ModuleId,
		EntityType:      models.EntityTypeFrom(db.EntityType),
		EntityId:        db.EntityId,
		EntityName:      db.EntityName.String,
		ActionType:      models.ActionTypeFrom(db.ActionType),
		BeforeValue:     db.BeforeValue,
		AfterValue:      db.AfterValue,
		Rationale:       db.Rationale.String,
		Evidence:        db.Evidence,
		Status:          models.DecisionStatusFrom(db.Status),
		CreatedBy:       db.CreatedBy,
		CreatedAt:       db.CreatedAt,
	}

	if db.SupersededBy.Valid {
		decision.SupersededBy = &db.SupersededBy.String
	}
	if db.AuditId.Valid {
		decision.AuditId = &db.AuditId.String
	}
	if db.ChangeSetId.Valid {
		decision.ChangeSetId = &db.ChangeSetId.String
	}
	if db.ExportedAt.Valid {
		decision.ExportedAt = &db.ExportedAt.Time
	}
	if db.AppliedAt.Valid {
		decision.AppliedAt = &db.AppliedAt.Time
	}

	return decision, nil
}
