package repositories

import (
	"context"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/adaudit/adaudit-backend/models"
	"github.com/adaudit/adaudit-backend/repositories/dbmodels"
)

func selectDecisions(exec Executor) squirrel.SelectBuilder {
	return NewQueryBuilder().
		Select(dbmodels.SelectDecisionColumn...).
		From(tableNameWithSchema(exec, dbmodels.TABLE_DECISIONS))
}

func (repo *AuditDbRepository) GetDecisionById(ctx context.Context, exec Executor, decisionId string) (models.Decision, error) {
	return SqlToModel(
		ctx,
		exec,
		selectDecisions(exec).Where(squirrel.Eq{"id": decisionId}),
		dbmodels.AdaptDecision,
	)
}

// GetCurrentDecisionOfGroup returns the single current version of a decision
// group. Used with a row lock when a new version is about to be created.
func (repo *AuditDbRepository) GetCurrentDecisionOfGroup(
	ctx context.Context,
	exec Executor,
	decisionGroupId string,
	forUpdate bool,
) (models.Decision, error) {
	query := selectDecisions(exec).
		Where(squirrel.Eq{"decision_group_id": decisionGroupId, "is_current": true})
	if forUpdate {
		query = query.Suffix("FOR UPDATE")
	}

	return SqlToModel(ctx, exec, query, dbmodels.AdaptDecision)
}

func (repo *AuditDbRepository) ListDecisionVersions(
	ctx context.Context,
	exec Executor,
	decisionGroupId string,
) ([]models.Decision, error) {
	return SqlToListOfModels(
		ctx,
		exec,
		selectDecisions(exec).
			Where(squirrel.Eq{"decision_group_id": decisionGroupId}).
			OrderBy("version ASC"),
		dbmodels.AdaptDecision,
	)
}

// ListAccountDecisions returns current versions only, up to limit+1 rows so
// the caller can tell whether a next page exists.
func (repo *AuditDbRepository) ListAccountDecisions(
	ctx context.Context,
	exec Executor,
	accountId string,
	filters models.DecisionFilters,
	pagination models.PaginationAndSorting,
) ([]models.Decision, error) {
	query := selectDecisions(exec).
		Where(squirrel.Eq{"account_id": accountId, "is_current": true}).
		Limit(uint64(pagination.Limit + 1))

	if filters.AuditId != nil {
		query = query.Where(squirrel.Eq{"audit_id": *filters.AuditId})
	}
	if filters.ModuleId != nil {
		query = query.Where(squirrel.Eq{"module_id": *filters.ModuleId})
	}
	if len(filters.EntityTypes) > 0 {
		query = query.Where(squirrel.Eq{"entity_type": filters.EntityTypes})
	}
	if len(filters.ActionTypes) > 0 {
		query = query.Where(squirrel.Eq{"action_type": filters.ActionTypes})
	}
	if len(filters.Statuses) > 0 {
		query = query.Where(squirrel.Eq{"status": filters.Statuses})
	}
	if filters.ChangeSetId != nil {
		query = query.Where(squirrel.Eq{"change_set_id": *filters.ChangeSetId})
	}

	query = applyCreatedAtPagination(query, tableNameWithSchema(exec, dbmodels.TABLE_DECISIONS), pagination)

	return SqlToListOfModels(ctx, exec, query, dbmodels.AdaptDecision)
}

func applyCreatedAtPagination(
	query squirrel.SelectBuilder,
	table string,
	p models.PaginationAndSorting,
) squirrel.SelectBuilder {
	if p.Order == models.SortingOrderAsc {
		query = query.OrderBy("created_at ASC, id ASC")
		if p.OffsetId != "" {
			query = query.Where(
				"(created_at, id) > (SELECT created_at, id FROM "+table+" WHERE id = ?)",
				p.OffsetId)
		}
	} else {
		query = query.OrderBy("created_at DESC, id DESC")
		if p.OffsetId != "" {
			query = query.Where(
				"(created_at, id) < (SELECT created_at, id FROM "+table+" WHERE id = ?)",
				p.OffsetId)
		}
	}
	return query
}

func (repo *AuditDbRepository) InsertDecision(ctx context.Context, exec Executor, decision models.Decision) error {
	_, err := ExecBuilder(
		ctx,
		exec,
		NewQueryBuilder().Insert(tableNameWithSchema(exec, dbmodels.TABLE_DECISIONS)).
			Columns(
				"id",
				"decision_group_id",
				"version",
				"is_current",
				"account_id",
				"audit_id",
				"module_id",
				"entity_type",
				"entity_id",
				"entity_name",
				"action_type",
				"before_value",
				"after_value",
				"rationale",
				"evidence",
				"status",
				"change_set_id",
				"created_by",
			).
			Values(
				decision.Id,
				decision.DecisionGroupId,
				decision.Version,
				decision.IsCurrent,
				decision.AccountId,
				decision.AuditId,
				decision.ModuleId,
				decision.EntityType,
				decision.EntityId,
				decision.EntityName,
				decision.ActionType,
				[]byte(decision.BeforeValue),
				[]byte(decision.AfterValue),
				decision.Rationale,
				[]byte(decision.Evidence),
				decision.Status,
				decision.ChangeSetId,
				decision.CreatedBy,
			),
	)
	return err
}

// SupersedeDecision flips the previous current row out of the chain. The
// superseded row keeps every other field untouched.
func (repo *AuditDbRepository) SupersedeDecision(
	ctx context.Context,
	exec Executor,
	previousId string,
	supersededBy string,
) (int64, error) {
	return ExecBuilder(
		ctx,
		exec,
		NewQueryBuilder().Update(tableNameWithSchema(exec, dbmodels.TABLE_DECISIONS)).
			Set("is_current", false).
			Set("superseded_by", supersededBy).
			Where(squirrel.Eq{"id": previousId, "is_current": true}),
	)
}

// ApproveDecision is a guarded status update: it only succeeds on the current
// draft version, which makes the per-item transition atomic.
func (repo *AuditDbRepository) ApproveDecision(ctx context.Context, exec Executor, decisionId string) (int64, error) {
	return ExecBuilder(
		ctx,
		exec,
		NewQueryBuilder().Update(tableNameWithSchema(exec, dbmodels.TABLE_DECISIONS)).
			Set("status", models.DecisionStatusApproved).
			Where(squirrel.Eq{
				"id":         decisionId,
				"is_current": true,
				"status":     models.DecisionStatusDraft,
			}),
	)
}

// RollbackDecision is terminal for the version: it also releases the decision
// from any change set. Pass a non-nil rationale to overwrite it (used by bulk
// reject to append the reject reason).
func (repo *AuditDbRepository) RollbackDecision(
	ctx context.Context,
	exec Executor,
	decisionId string,
	rationale *string,
) (int64, error) {
	query := NewQueryBuilder().Update(tableNameWithSchema(exec, dbmodels.TABLE_DECISIONS)).
		Set("status", models.DecisionStatusRolledBack).
		Set("change_set_id", nil).
		Where(squirrel.Eq{"id": decisionId, "is_current": true}).
		Where(squirrel.NotEq{"status": []models.DecisionStatus{
			models.DecisionStatusApplied,
			models.DecisionStatusRolledBack,
		}})
	if rationale != nil {
		query = query.Set("rationale", *rationale)
	}

	return ExecBuilder(ctx, exec, query)
}

// AssignDecisionToChangeSet claims a decision for a change set with a single
// compare-and-set statement: the decision must be the current version, still
// groupable, and either unattached or already attached to this very set. Two
// competing change sets cannot both see zero rows claimed and both succeed.
func (repo *AuditDbRepository) AssignDecisionToChangeSet(
	ctx context.Context,
	exec Executor,
	decisionId string,
	changeSetId string,
) (int64, error) {
	return ExecBuilder(
		ctx,
		exec,
		NewQueryBuilder().Update(tableNameWithSchema(exec, dbmodels.TABLE_DECISIONS)).
			Set("change_set_id", changeSetId).
			Where(squirrel.Eq{
				"id":         decisionId,
				"is_current": true,
				"status": []models.DecisionStatus{
					models.DecisionStatusDraft,
					models.DecisionStatusApproved,
				},
			}).
			Where(squirrel.Or{
				squirrel.Eq{"change_set_id": nil},
				squirrel.Eq{"change_set_id": changeSetId},
			}),
	)
}

func (repo *AuditDbRepository) RemoveDecisionFromChangeSet(
	ctx context.Context,
	exec Executor,
	decisionId string,
	changeSetId string,
) (int64, error) {
	return ExecBuilder(
		ctx,
		exec,
		NewQueryBuilder().Update(tableNameWithSchema(exec, dbmodels.TABLE_DECISIONS)).
			Set("change_set_id", nil).
			Where(squirrel.Eq{"id": decisionId, "change_set_id": changeSetId}),
	)
}

func (repo *AuditDbRepository) DetachChangeSetDecisions(
	ctx context.Context,
	exec Executor,
	changeSetId string,
) (int64, error) {
	return ExecBuilder(
		ctx,
		exec,
		NewQueryBuilder().Update(tableNameWithSchema(exec, dbmodels.TABLE_DECISIONS)).
			Set("change_set_id", nil).
			Where(squirrel.Eq{"change_set_id": changeSetId}),
	)
}

func (repo *AuditDbRepository) ListChangeSetDecisions(
	ctx context.Context,
	exec Executor,
	changeSetId string,
) ([]models.Decision, error) {
	return SqlToListOfModels(
		ctx,
		exec,
		selectDecisions(exec).
			Where(squirrel.Eq{"change_set_id": changeSetId, "is_current": true}).
			OrderBy("created_at ASC, id ASC"),
		dbmodels.AdaptDecision,
	)
}

// UpdateChangeSetDecisionsStatus cascades a status to every current member of
// a change set. Returns the number of rows moved so the caller can verify the
// cascade covered every member.
func (repo *AuditDbRepository) UpdateChangeSetDecisionsStatus(
	ctx context.Context,
	exec Executor,
	changeSetId string,
	fromStatuses []models.DecisionStatus,
	toStatus models.DecisionStatus,
	stampedAt time.Time,
) (int64, error) {
	query := NewQueryBuilder().Update(tableNameWithSchema(exec, dbmodels.TABLE_DECISIONS)).
		Set("status", toStatus).
		Where(squirrel.Eq{
			"change_set_id": changeSetId,
			"is_current":    true,
			"status":        fromStatuses,
		})

	switch toStatus {
	case models.DecisionStatusExported:
		query = query.Set("exported_at", stampedAt)
	case models.DecisionStatusApplied:
		query = query.Set("applied_at", stampedAt)
	}

	return ExecBuilder(ctx, exec, query)
}

// DeleteDecisionGroup removes every version of the logical decision. Legality
// of the deletion is checked by the caller against the current version.
func (repo *AuditDbRepository) DeleteDecisionGroup(
	ctx context.Context,
	exec Executor,
	decisionGroupId string,
) (int64, error) {
	return ExecBuilder(
		ctx,
		exec,
		NewQueryBuilder().Delete(tableNameWithSchema(exec, dbmodels.TABLE_DECISIONS)).
			Where(squirrel.Eq{"decision_group_id": decisionGroupId}),
	)
}
