package usecases

import (
	"context"
	"fmt"

	"github.com/TwiN/deepmerge"
	"github.com/cockroachdb/errors"

	"github.com/adaudit/adaudit-backend/models"
	"github.com/adaudit/adaudit-backend/pure_utils"
	"github.com/adaudit/adaudit-backend/repositories"
	"github.com/adaudit/adaudit-backend/usecases/executor_factory"
)

type DecisionUsecaseRepository interface {
	GetDecisionById(ctx context.Context, exec repositories.Executor, decisionId string) (models.Decision, error)
	GetCurrentDecisionOfGroup(ctx context.Context, exec repositories.Executor,
		decisionGroupId string, forUpdate bool) (models.Decision, error)
	ListDecisionVersions(ctx context.Context, exec repositories.Executor,
		decisionGroupId string) ([]models.Decision, error)
	ListAccountDecisions(ctx context.Context, exec repositories.Executor, accountId string,
		filters models.DecisionFilters, pagination models.PaginationAndSorting) ([]models.Decision, error)
	InsertDecision(ctx context.Context, exec repositories.Executor, decision models.Decision) error
	SupersedeDecision(ctx context.Context, exec repositories.Executor,
		previousId string, supersededBy string) (int64, error)
	ApproveDecision(ctx context.Context, exec repositories.Executor, decisionId string) (int64, error)
	RollbackDecision(ctx context.Context, exec repositories.Executor,
		decisionId string, rationale *string) (int64, error)
	DeleteDecisionGroup(ctx context.Context, exec repositories.Executor, decisionGroupId string) (int64, error)
}

type DecisionUsecase struct {
	executorFactory    executor_factory.ExecutorFactory
	transactionFactory executor_factory.TransactionFactory
	repository         DecisionUsecaseRepository
}

func NewDecisionUsecase(
	executorFactory executor_factory.ExecutorFactory,
	transactionFactory executor_factory.TransactionFactory,
	repository DecisionUsecaseRepository,
) DecisionUsecase {
	return DecisionUsecase{
		executorFactory:    executorFactory,
		transactionFactory: transactionFactory,
		repository:         repository,
	}
}

func (usecase DecisionUsecase) CreateDecision(
	ctx context.Context,
	input models.CreateDecisionInput,
	createdBy string,
) (models.Decision, error) {
	if err := input.Validate(); err != nil {
		return models.Decision{}, err
	}

	exec := usecase.executorFactory.NewExecutor()
	newDecisionId := pure_utils.NewPrimaryKey()

	decision := models.Decision{
		Id:              newDecisionId,
		DecisionGroupId: pure_utils.NewPrimaryKey(),
		Version:         1,
		IsCurrent:       true,
		AccountId:       input.AccountId,
		AuditId:         input.AuditId,
		ModuleId:        input.ModuleId,
		EntityType:      input.EntityType,
		EntityId:        input.EntityId,
		EntityName:      input.EntityName,
		ActionType:      input.ActionType,
		BeforeValue:     input.BeforeValue,
		AfterValue:      input.AfterValue,
		Rationale:       input.Rationale,
		Evidence:        input.Evidence,
		Status:          models.DecisionStatusDraft,
		CreatedBy:       createdBy,
	}

	if err := usecase.repository.InsertDecision(ctx, exec, decision); err != nil {
		return models.Decision{}, err
	}
	return usecase.repository.GetDecisionById(ctx, exec, newDecisionId)
}

func (usecase DecisionUsecase) GetDecision(ctx context.Context, decisionId string) (models.Decision, error) {
	return usecase.repository.GetDecisionById(ctx, usecase.executorFactory.NewExecutor(), decisionId)
}

func (usecase DecisionUsecase) ListDecisions(
	ctx context.Context,
	accountId string,
	filters models.DecisionFilters,
	pagination models.PaginationAndSorting,
) (models.ListPage[models.Decision], error) {
	decisions, err := usecase.repository.ListAccountDecisions(
		ctx, usecase.executorFactory.NewExecutor(), accountId, filters, pagination)
	if err != nil {
		return models.ListPage[models.Decision]{}, err
	}

	hasNextPage := len(decisions) > pagination.Limit
	if hasNextPage {
		decisions = decisions[:pagination.Limit]
	}
	return models.ListPage[models.Decision]{
		Items:       decisions,
		HasNextPage: hasNextPage,
	}, nil
}

// DecisionHistory returns every version of a decision group, oldest first.
// Available regardless of status: superseded rows are read-only but never
// hidden from the history view.
func (usecase DecisionUsecase) DecisionHistory(ctx context.Context, decisionGroupId string) ([]models.Decision, error) {
	versions, err := usecase.repository.ListDecisionVersions(
		ctx, usecase.executorFactory.NewExecutor(), decisionGroupId)
	if err != nil {
		return nil, err
	}
	if len(versions) == 0 {
		return nil, errors.Wrap(models.NotFoundError,
			fmt.Sprintf("no decision group %s", decisionGroupId))
	}
	return versions, nil
}

// UpdateDecision never mutates the stored row: it issues a new version with
// the patch merged on top of the previous after value and flips the old
// current row out of the chain, all in one transaction.
func (usecase DecisionUsecase) UpdateDecision(
	ctx context.Context,
	decisionId string,
	input models.UpdateDecisionInput,
	updatedBy string,
) (models.Decision, error) {
	return executor_factory.TransactionReturnValue(ctx, usecase.transactionFactory,
		func(tx repositories.Transaction) (models.Decision, error) {
			decision, err := usecase.repository.GetDecisionById(ctx, tx, decisionId)
			if err != nil {
				return models.Decision{}, err
			}

			current, err := usecase.repository.GetCurrentDecisionOfGroup(
				ctx, tx, decision.DecisionGroupId, true)
			if err != nil {
				return models.Decision{}, err
			}
			if current.Status.IsFrozen() {
				return models.Decision{}, errors.WithDetail(models.ErrDecisionFrozen,
					"roll the decision back before editing it")
			}

			afterValue := current.AfterValue
			if len(input.AfterValue) > 0 {
				merged, err := deepmerge.JSON(current.AfterValue, input.AfterValue)
				if err != nil {
					return models.Decision{}, errors.Wrap(models.ValidationError, err.Error())
				}
				afterValue = merged
			}
			rationale := current.Rationale
			if input.Rationale != nil {
				rationale = *input.Rationale
			}
			evidence := current.Evidence
			if input.Evidence != nil {
				evidence = input.Evidence
			}

			newDecisionId := pure_utils.NewPrimaryKey()
			newVersion := models.Decision{
				Id:              newDecisionId,
				DecisionGroupId: current.DecisionGroupId,
				Version:         current.Version + 1,
				IsCurrent:       true,
				AccountId:       current.AccountId,
				AuditId:         current.AuditId,
				ModuleId:        current.ModuleId,
				EntityType:      current.EntityType,
				EntityId:        current.EntityId,
				EntityName:      current.EntityName,
				ActionType:      current.ActionType,
				BeforeValue:     current.BeforeValue,
				AfterValue:      afterValue,
				Rationale:       rationale,
				Evidence:        evidence,
				// editing always resets approval
				Status:      models.DecisionStatusDraft,
				ChangeSetId: current.ChangeSetId,
				CreatedBy:   updatedBy,
			}

			if err := usecase.repository.InsertDecision(ctx, tx, newVersion); err != nil {
				if repositories.IsUniqueViolationError(err) {
					return models.Decision{}, errors.Wrap(models.ConflictError,
						fmt.Sprintf("decision group %s was concurrently updated", current.DecisionGroupId))
				}
				return models.Decision{}, err
			}
			superseded, err := usecase.repository.SupersedeDecision(ctx, tx, current.Id, newDecisionId)
			if err != nil {
				return models.Decision{}, err
			}
			if superseded != 1 {
				return models.Decision{}, errors.Wrap(models.IntegrityError,
					fmt.Sprintf("superseding decision %s touched %d rows", current.Id, superseded))
			}

			return usecase.repository.GetDecisionById(ctx, tx, newDecisionId)
		})
}

func (usecase DecisionUsecase) ApproveDecision(ctx context.Context, decisionId string) (models.Decision, error) {
	exec := usecase.executorFactory.NewExecutor()

	decision, err := usecase.repository.GetDecisionById(ctx, exec, decisionId)
	if err != nil {
		return models.Decision{}, err
	}
	if !decision.IsCurrent {
		return models.Decision{}, models.ErrDecisionNotCurrent
	}
	// tolerate double-submission from a UI retry
	if decision.Status == models.DecisionStatusApproved {
		return decision, nil
	}
	if decision.Status != models.DecisionStatusDraft {
		return models.Decision{}, errors.WithDetail(models.ErrDecisionNotDraft,
			fmt.Sprintf("decision %s is %s", decisionId, decision.Status))
	}

	updated, err := usecase.repository.ApproveDecision(ctx, exec, decisionId)
	if err != nil {
		return models.Decision{}, err
	}
	if updated == 0 {
		return models.Decision{}, errors.Wrap(models.ConflictError,
			fmt.Sprintf("decision %s was concurrently modified", decisionId))
	}

	return usecase.repository.GetDecisionById(ctx, exec, decisionId)
}

// RollbackDecision terminally abandons the current version and releases it
// from any change set. A non-nil rationale replaces the stored one.
func (usecase DecisionUsecase) RollbackDecision(
	ctx context.Context,
	decisionId string,
	rationale *string,
) (models.Decision, error) {
	exec := usecase.executorFactory.NewExecutor()

	decision, err := usecase.repository.GetDecisionById(ctx, exec, decisionId)
	if err != nil {
		return models.Decision{}, err
	}
	if !decision.IsCurrent {
		return models.Decision{}, models.ErrDecisionNotCurrent
	}
	if !decision.Status.CanTransition(models.DecisionStatusRolledBack) {
		if decision.Status == models.DecisionStatusApplied {
			return models.Decision{}, errors.WithDetail(models.ErrDecisionApplied,
				"applied decisions cannot be rolled back")
		}
		return models.Decision{}, errors.WithDetail(models.InvalidTransitionError,
			fmt.Sprintf("cannot roll back a %s decision", decision.Status))
	}

	updated, err := usecase.repository.RollbackDecision(ctx, exec, decisionId, rationale)
	if err != nil {
		return models.Decision{}, err
	}
	if updated == 0 {
		return models.Decision{}, errors.Wrap(models.ConflictError,
			fmt.Sprintf("decision %s was concurrently modified", decisionId))
	}

	return usecase.repository.GetDecisionById(ctx, exec, decisionId)
}

func (usecase DecisionUsecase) DeleteDecision(ctx context.Context, decisionId string) error {
	exec := usecase.executorFactory.NewExecutor()

	decision, err := usecase.repository.GetDecisionById(ctx, exec, decisionId)
	if err != nil {
		return err
	}
	if !decision.IsCurrent {
		return models.ErrDecisionNotCurrent
	}
	if !decision.Status.IsDeletable() {
		return errors.WithDetail(models.ErrDecisionNotDeletable,
			fmt.Sprintf("decision %s is %s", decisionId, decision.Status))
	}

	_, err = usecase.repository.DeleteDecisionGroup(ctx, exec, decision.DecisionGroupId)
	return err
}

// BulkApprove fans approve out over the ids. Each id's transition is
// independently atomic; one failure never aborts the batch. The result list
// keeps the input order.
func (usecase DecisionUsecase) BulkApprove(ctx context.Context, decisionIds []string) []models.BulkOperationResult {
	results := make([]models.BulkOperationResult, len(decisionIds))
	for i, decisionId := range decisionIds {
		decision, err := usecase.ApproveDecision(ctx, decisionId)
		results[i] = bulkResult(decisionId, decision, err)
	}
	return results
}

// BulkReject is the same fan-out, rejection being a rollback with the reason
// appended to the rationale.
func (usecase DecisionUsecase) BulkReject(ctx context.Context, decisionIds []string, reason string) []models.BulkOperationResult {
	results := make([]models.BulkOperationResult, len(decisionIds))
	for i, decisionId := range decisionIds {
		decision, err := usecase.rejectDecision(ctx, decisionId, reason)
		results[i] = bulkResult(decisionId, decision, err)
	}
	return results
}

func (usecase DecisionUsecase) rejectDecision(ctx context.Context, decisionId, reason string) (models.Decision, error) {
	exec := usecase.executorFactory.NewExecutor()

	decision, err := usecase.repository.GetDecisionById(ctx, exec, decisionId)
	if err != nil {
		return models.Decision{}, err
	}

	rationale := fmt.Sprintf("rejected: %s", reason)
	if decision.Rationale != "" {
		rationale = fmt.Sprintf("%s\n%s", decision.Rationale, rationale)
	}
	return usecase.RollbackDecision(ctx, decisionId, &rationale)
}

func bulkResult(decisionId string, decision models.Decision, err error) models.BulkOperationResult {
	if err != nil {
		return models.BulkOperationResult{Id: decisionId, Error: err}
	}
	return models.BulkOperationResult{Id: decisionId, Decision: &decision}
}
