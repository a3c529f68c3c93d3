package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/adaudit/adaudit-backend/models"
	"github.com/adaudit/adaudit-backend/repositories"
)

// AuditRepository mocks the database repository across every usecase-facing
// interface it implements.
type AuditRepository struct {
	mock.Mock
}

func (r *AuditRepository) GetDecisionById(ctx context.Context, exec repositories.Executor,
	decisionId string,
) (models.Decision, error) {
	args := r.Called(ctx, exec, decisionId)
	return args.Get(0).(models.Decision), args.Error(1)
}

func (r *AuditRepository) GetCurrentDecisionOfGroup(ctx context.Context, exec repositories.Executor,
	decisionGroupId string, forUpdate bool,
) (models.Decision, error) {
	args := r.Called(ctx, exec, decisionGroupId, forUpdate)
	return args.Get(0).(models.Decision), args.Error(1)
}

func (r *AuditRepository) ListDecisionVersions(ctx context.Context, exec repositories.Executor,
	decisionGroupId string,
) ([]models.Decision, error) {
	args := r.Called(ctx, exec, decisionGroupId)
	return args.Get(0).([]models.Decision), args.Error(1)
}

func (r *AuditRepository) ListAccountDecisions(ctx context.Context, exec repositories.Executor,
	accountId string, filters models.DecisionFilters, pagination models.PaginationAndSorting,
) ([]models.Decision, error) {
	args := r.Called(ctx, exec, accountId, filters, pagination)
	return args.Get(0).([]models.Decision), args.Error(1)
}

func (r *AuditRepository) InsertDecision(ctx context.Context, exec repositories.Executor,
	decision models.Decision,
) error {
	args := r.Called(ctx, exec, decision)
	return args.Error(0)
}

func (r *AuditRepository) SupersedeDecision(ctx context.Context, exec repositories.Executor,
	previousId string, supersededBy string,
) (int64, error) {
	args := r.Called(ctx, exec, previousId, supersededBy)
	return args.Get(0).(int64), args.Error(1)
}

func (r *AuditRepository) ApproveDecision(ctx context.Context, exec repositories.Executor,
	decisionId string,
) (int64, error) {
	args := r.Called(ctx, exec, decisionId)
	return args.Get(0).(int64), args.Error(1)
}

func (r *AuditRepository) RollbackDecision(ctx context.Context, exec repositories.Executor,
	decisionId string, rationale *string,
) (int64, error) {
	args := r.Called(ctx, exec, decisionId, rationale)
	return args.Get(0).(int64), args.Error(1)
}

func (r *AuditRepository) DeleteDecisionGroup(ctx context.Context, exec repositories.Executor,
	decisionGroupId string,
) (int64, error) {
	args := r.Called(ctx, exec, decisionGroupId)
	return args.Get(0).(int64), args.Error(1)
}

func (r *AuditRepository) GetChangeSetById(ctx context.Context, exec repositories.Executor,
	changeSetId string,
) (models.ChangeSet, error) {
	args := r.Called(ctx, exec, changeSetId)
	return args.Get(0).(models.ChangeSet), args.Error(1)
}

func (r *AuditRepository) ListAccountChangeSets(ctx context.Context, exec repositories.Executor,
	accountId string, filters models.ChangeSetFilters, pagination models.PaginationAndSorting,
) ([]models.ChangeSet, error) {
	args := r.Called(ctx, exec, accountId, filters, pagination)
	return args.Get(0).([]models.ChangeSet), args.Error(1)
}

func (r *AuditRepository) CreateChangeSet(ctx context.Context, exec repositories.Executor,
	input models.CreateChangeSetInput, newChangeSetId string, createdBy string,
) error {
	args := r.Called(ctx, exec, input, newChangeSetId, createdBy)
	return args.Error(0)
}

func (r *AuditRepository) ApproveChangeSet(ctx context.Context, exec repositories.Executor,
	changeSetId string,
) (int64, error) {
	args := r.Called(ctx, exec, changeSetId)
	return args.Get(0).(int64), args.Error(1)
}

func (r *AuditRepository) MarkChangeSetExported(ctx context.Context, exec repositories.Executor,
	changeSetId string, exportFiles []models.ExportFile, exportHash string, exportedAt time.Time,
) (int64, error) {
	args := r.Called(ctx, exec, changeSetId, exportFiles, exportHash, exportedAt)
	return args.Get(0).(int64), args.Error(1)
}

func (r *AuditRepository) MarkChangeSetApplied(ctx context.Context, exec repositories.Executor,
	changeSetId string, appliedAt time.Time,
) (int64, error) {
	args := r.Called(ctx, exec, changeSetId, appliedAt)
	return args.Get(0).(int64), args.Error(1)
}

func (r *AuditRepository) DeleteChangeSet(ctx context.Context, exec repositories.Executor,
	changeSetId string,
) (int64, error) {
	args := r.Called(ctx, exec, changeSetId)
	return args.Get(0).(int64), args.Error(1)
}

func (r *AuditRepository) AssignDecisionToChangeSet(ctx context.Context, exec repositories.Executor,
	decisionId string, changeSetId string,
) (int64, error) {
	args := r.Called(ctx, exec, decisionId, changeSetId)
	return args.Get(0).(int64), args.Error(1)
}

func (r *AuditRepository) RemoveDecisionFromChangeSet(ctx context.Context, exec repositories.Executor,
	decisionId string, changeSetId string,
) (int64, error) {
	args := r.Called(ctx, exec, decisionId, changeSetId)
	return args.Get(0).(int64), args.Error(1)
}

func (r *AuditRepository) DetachChangeSetDecisions(ctx context.Context, exec repositories.Executor,
	changeSetId string,
) (int64, error) {
	args := r.Called(ctx, exec, changeSetId)
	return args.Get(0).(int64), args.Error(1)
}

func (r *AuditRepository) ListChangeSetDecisions(ctx context.Context, exec repositories.Executor,
	changeSetId string,
) ([]models.Decision, error) {
	args := r.Called(ctx, exec, changeSetId)
	return args.Get(0).([]models.Decision), args.Error(1)
}

func (r *AuditRepository) UpdateChangeSetDecisionsStatus(ctx context.Context, exec repositories.Executor,
	changeSetId string, fromStatuses []models.DecisionStatus, toStatus models.DecisionStatus, stampedAt time.Time,
) (int64, error) {
	args := r.Called(ctx, exec, changeSetId, fromStatuses, toStatus, stampedAt)
	return args.Get(0).(int64), args.Error(1)
}
