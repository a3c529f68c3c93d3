package repositories

import (
	"context"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/adaudit/adaudit-backend/models"
	"github.com/adaudit/adaudit-backend/repositories/dbmodels"
)

func selectChangeSets(exec Executor) squirrel.SelectBuilder {
	return NewQueryBuilder().
		Select(dbmodels.SelectChangeSetColumn...).
		From(tableNameWithSchema(exec, dbmodels.TABLE_CHANGE_SETS))
}

func (repo *AuditDbRepository) GetChangeSetById(ctx context.Context, exec Executor, changeSetId string) (models.ChangeSet, error) {
	return SqlToModel(
		ctx,
		exec,
		selectChangeSets(exec).Where(squirrel.Eq{"id": changeSetId}),
		dbmodels.AdaptChangeSet,
	)
}

func (repo *AuditDbRepository) ListAccountChangeSets(
	ctx context.Context,
	exec Executor,
	accountId string,
	filters models.ChangeSetFilters,
	pagination models.PaginationAndSorting,
) ([]models.ChangeSet, error) {
	query := selectChangeSets(exec).
		Where(squirrel.Eq{"account_id": accountId}).
		Limit(uint64(pagination.Limit + 1))

	if filters.AuditId != nil {
		query = query.Where(squirrel.Eq{"audit_id": *filters.AuditId})
	}
	if len(filters.Statuses) > 0 {
		query = query.Where(squirrel.Eq{"status": filters.Statuses})
	}

	query = applyCreatedAtPagination(query, tableNameWithSchema(exec, dbmodels.TABLE_CHANGE_SETS), pagination)

	return SqlToListOfModels(ctx, exec, query, dbmodels.AdaptChangeSet)
}

func (repo *AuditDbRepository) CreateChangeSet(
	ctx context.Context,
	exec Executor,
	input models.CreateChangeSetInput,
	newChangeSetId string,
	createdBy string,
) error {
	_, err := ExecBuilder(
		ctx,
		exec,
		NewQueryBuilder().Insert(tableNameWithSchema(exec, dbmodels.TABLE_CHANGE_SETS)).
			Columns(
				"id",
				"account_id",
				"audit_id",
				"name",
				"description",
				"status",
				"created_by",
			).
			Values(
				newChangeSetId,
				input.AccountId,
				input.AuditId,
				input.Name,
				input.Description,
				models.ChangeSetStatusDraft,
				createdBy,
			),
	)
	return err
}

// ApproveChangeSet is a guarded draft -> approved transition.
func (repo *AuditDbRepository) ApproveChangeSet(ctx context.Context, exec Executor, changeSetId string) (int64, error) {
	return ExecBuilder(
		ctx,
		exec,
		NewQueryBuilder().Update(tableNameWithSchema(exec, dbmodels.TABLE_CHANGE_SETS)).
			Set("status", models.ChangeSetStatusApproved).
			Set("approved_at", squirrel.Expr("NOW()")).
			Where(squirrel.Eq{
				"id":     changeSetId,
				"status": models.ChangeSetStatusDraft,
			}),
	)
}

// MarkChangeSetExported stores the manifest and hash of the generated
// artifact together with the approved -> exported transition.
func (repo *AuditDbRepository) MarkChangeSetExported(
	ctx context.Context,
	exec Executor,
	changeSetId string,
	exportFiles []models.ExportFile,
	exportHash string,
	exportedAt time.Time,
) (int64, error) {
	serializedFiles, err := dbmodels.SerializeExportFiles(exportFiles)
	if err != nil {
		return 0, err
	}

	return ExecBuilder(
		ctx,
		exec,
		NewQueryBuilder().Update(tableNameWithSchema(exec, dbmodels.TABLE_CHANGE_SETS)).
			Set("status", models.ChangeSetStatusExported).
			Set("export_files", serializedFiles).
			Set("export_hash", exportHash).
			Set("exported_at", exportedAt).
			Where(squirrel.Eq{
				"id":     changeSetId,
				"status": models.ChangeSetStatusApproved,
			}),
	)
}

func (repo *AuditDbRepository) MarkChangeSetApplied(
	ctx context.Context,
	exec Executor,
	changeSetId string,
	appliedAt time.Time,
) (int64, error) {
	return ExecBuilder(
		ctx,
		exec,
		NewQueryBuilder().Update(tableNameWithSchema(exec, dbmodels.TABLE_CHANGE_SETS)).
			Set("status", models.ChangeSetStatusApplied).
			Set("applied_at", appliedAt).
			Where(squirrel.Eq{
				"id":     changeSetId,
				"status": models.ChangeSetStatusExported,
			}),
	)
}

func (repo *AuditDbRepository) DeleteChangeSet(ctx context.Context, exec Executor, changeSetId string) (int64, error) {
	return ExecBuilder(
		ctx,
		exec,
		NewQueryBuilder().Delete(tableNameWithSchema(exec, dbmodels.TABLE_CHANGE_SETS)).
			Where(squirrel.Eq{"id": changeSetId}),
	)
}
