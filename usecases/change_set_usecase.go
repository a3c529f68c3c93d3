package usecases

import (
	"context"
	"fmt"

	"github.com/cockroachdb/errors"

	"github.com/adaudit/adaudit-backend/models"
	"github.com/adaudit/adaudit-backend/pure_utils"
	"github.com/adaudit/adaudit-backend/repositories"
	"github.com/adaudit/adaudit-backend/usecases/executor_factory"
	"github.com/adaudit/adaudit-backend/utils"
)

type ChangeSetUsecaseRepository interface {
	GetChangeSetById(ctx context.Context, exec repositories.Executor, changeSetId string) (models.ChangeSet, error)
	ListAccountChangeSets(ctx context.Context, exec repositories.Executor, accountId string,
		filters models.ChangeSetFilters, pagination models.PaginationAndSorting) ([]models.ChangeSet, error)
	CreateChangeSet(ctx context.Context, exec repositories.Executor,
		input models.CreateChangeSetInput, newChangeSetId string, createdBy string) error
	ApproveChangeSet(ctx context.Context, exec repositories.Executor, changeSetId string) (int64, error)
	DeleteChangeSet(ctx context.Context, exec repositories.Executor, changeSetId string) (int64, error)

	GetDecisionById(ctx context.Context, exec repositories.Executor, decisionId string) (models.Decision, error)
	AssignDecisionToChangeSet(ctx context.Context, exec repositories.Executor,
		decisionId string, changeSetId string) (int64, error)
	RemoveDecisionFromChangeSet(ctx context.Context, exec repositories.Executor,
		decisionId string, changeSetId string) (int64, error)
	DetachChangeSetDecisions(ctx context.Context, exec repositories.Executor, changeSetId string) (int64, error)
	ListChangeSetDecisions(ctx context.Context, exec repositories.Executor, changeSetId string) ([]models.Decision, error)
}

type ChangeSetUsecase struct {
	executorFactory    executor_factory.ExecutorFactory
	transactionFactory executor_factory.TransactionFactory
	repository         ChangeSetUsecaseRepository
	blobRepository     repositories.BlobRepository
	bucketUrl          string
}

func NewChangeSetUsecase(
	executorFactory executor_factory.ExecutorFactory,
	transactionFactory executor_factory.TransactionFactory,
	repository ChangeSetUsecaseRepository,
	blobRepository repositories.BlobRepository,
	bucketUrl string,
) ChangeSetUsecase {
	return ChangeSetUsecase{
		executorFactory:    executorFactory,
		transactionFactory: transactionFactory,
		repository:         repository,
		blobRepository:     blobRepository,
		bucketUrl:          bucketUrl,
	}
}

func (usecase ChangeSetUsecase) CreateChangeSet(
	ctx context.Context,
	input models.CreateChangeSetInput,
	createdBy string,
) (models.ChangeSetWithDecisions, error) {
	if err := input.Validate(); err != nil {
		return models.ChangeSetWithDecisions{}, err
	}

	newChangeSetId := pure_utils.NewPrimaryKey()

	return executor_factory.TransactionReturnValue(ctx, usecase.transactionFactory,
		func(tx repositories.Transaction) (models.ChangeSetWithDecisions, error) {
			if err := usecase.repository.CreateChangeSet(ctx, tx, input, newChangeSetId, createdBy); err != nil {
				return models.ChangeSetWithDecisions{}, err
			}
			for _, decisionId := range input.DecisionIds {
				if err := usecase.attachDecision(ctx, tx, newChangeSetId, decisionId); err != nil {
					return models.ChangeSetWithDecisions{}, err
				}
			}
			return usecase.getChangeSetWithDecisions(ctx, tx, newChangeSetId)
		})
}

func (usecase ChangeSetUsecase) GetChangeSet(ctx context.Context, changeSetId string) (models.ChangeSetWithDecisions, error) {
	return usecase.getChangeSetWithDecisions(ctx, usecase.executorFactory.NewExecutor(), changeSetId)
}

func (usecase ChangeSetUsecase) ListChangeSets(
	ctx context.Context,
	accountId string,
	filters models.ChangeSetFilters,
	pagination models.PaginationAndSorting,
) (models.ListPage[models.ChangeSet], error) {
	changeSets, err := usecase.repository.ListAccountChangeSets(
		ctx, usecase.executorFactory.NewExecutor(), accountId, filters, pagination)
	if err != nil {
		return models.ListPage[models.ChangeSet]{}, err
	}

	hasNextPage := len(changeSets) > pagination.Limit
	if hasNextPage {
		changeSets = changeSets[:pagination.Limit]
	}
	return models.ListPage[models.ChangeSet]{
		Items:       changeSets,
		HasNextPage: hasNextPage,
	}, nil
}

// AddDecisions attaches decisions to a draft change set. The batch is
// transactional: one rejected decision leaves the membership unchanged.
func (usecase ChangeSetUsecase) AddDecisions(
	ctx context.Context,
	changeSetId string,
	decisionIds []string,
) (models.ChangeSetWithDecisions, error) {
	return executor_factory.TransactionReturnValue(ctx, usecase.transactionFactory,
		func(tx repositories.Transaction) (models.ChangeSetWithDecisions, error) {
			changeSet, err := usecase.repository.GetChangeSetById(ctx, tx, changeSetId)
			if err != nil {
				return models.ChangeSetWithDecisions{}, err
			}
			if changeSet.Status != models.ChangeSetStatusDraft {
				return models.ChangeSetWithDecisions{}, errors.WithDetail(models.ErrChangeSetNotDraft,
					fmt.Sprintf("change set %s is %s", changeSetId, changeSet.Status))
			}

			for _, decisionId := range decisionIds {
				if err := usecase.attachDecision(ctx, tx, changeSetId, decisionId); err != nil {
					return models.ChangeSetWithDecisions{}, err
				}
			}
			return usecase.getChangeSetWithDecisions(ctx, tx, changeSetId)
		})
}

// attachDecision claims one decision with a single compare-and-set. The
// follow-up read only serves error reporting when the claim failed.
func (usecase ChangeSetUsecase) attachDecision(
	ctx context.Context,
	exec repositories.Executor,
	changeSetId string,
	decisionId string,
) error {
	claimed, err := usecase.repository.AssignDecisionToChangeSet(ctx, exec, decisionId, changeSetId)
	if err != nil {
		return err
	}
	if claimed == 1 {
		return nil
	}

	decision, err := usecase.repository.GetDecisionById(ctx, exec, decisionId)
	if err != nil {
		return err
	}
	switch {
	case !decision.IsCurrent:
		return errors.WithDetail(models.ErrDecisionNotCurrent,
			fmt.Sprintf("decision %s has been superseded", decisionId))
	case decision.ChangeSetId != nil && *decision.ChangeSetId != changeSetId:
		return errors.WithDetail(models.ErrDecisionAlreadyClaimed,
			fmt.Sprintf("decision %s is attached to change set %s", decisionId, *decision.ChangeSetId))
	default:
		return errors.WithDetail(models.InvalidStateError,
			fmt.Sprintf("decision %s is %s and cannot join a change set", decisionId, decision.Status))
	}
}

func (usecase ChangeSetUsecase) RemoveDecision(
	ctx context.Context,
	changeSetId string,
	decisionId string,
) (models.ChangeSetWithDecisions, error) {
	return executor_factory.TransactionReturnValue(ctx, usecase.transactionFactory,
		func(tx repositories.Transaction) (models.ChangeSetWithDecisions, error) {
			changeSet, err := usecase.repository.GetChangeSetById(ctx, tx, changeSetId)
			if err != nil {
				return models.ChangeSetWithDecisions{}, err
			}
			if changeSet.Status != models.ChangeSetStatusDraft {
				return models.ChangeSetWithDecisions{}, errors.WithDetail(models.ErrChangeSetNotDraft,
					fmt.Sprintf("change set %s is %s", changeSetId, changeSet.Status))
			}

			removed, err := usecase.repository.RemoveDecisionFromChangeSet(ctx, tx, decisionId, changeSetId)
			if err != nil {
				return models.ChangeSetWithDecisions{}, err
			}
			if removed == 0 {
				return models.ChangeSetWithDecisions{}, errors.Wrap(models.NotFoundError,
					fmt.Sprintf("decision %s is not attached to change set %s", decisionId, changeSetId))
			}
			return usecase.getChangeSetWithDecisions(ctx, tx, changeSetId)
		})
}

// ApproveChangeSet freezes the composition step. Member decisions keep their
// own status: only export moves them.
func (usecase ChangeSetUsecase) ApproveChangeSet(ctx context.Context, changeSetId string) (models.ChangeSet, error) {
	exec := usecase.executorFactory.NewExecutor()

	changeSet, err := usecase.repository.GetChangeSetById(ctx, exec, changeSetId)
	if err != nil {
		return models.ChangeSet{}, err
	}
	if !changeSet.Status.CanTransition(models.ChangeSetStatusApproved) {
		return models.ChangeSet{}, errors.WithDetail(models.ErrChangeSetNotDraft,
			fmt.Sprintf("change set %s is %s", changeSetId, changeSet.Status))
	}

	decisions, err := usecase.repository.ListChangeSetDecisions(ctx, exec, changeSetId)
	if err != nil {
		return models.ChangeSet{}, err
	}
	if len(decisions) == 0 {
		return models.ChangeSet{}, errors.WithDetail(models.ErrChangeSetEmpty,
			"an empty change set cannot be approved")
	}

	approved, err := usecase.repository.ApproveChangeSet(ctx, exec, changeSetId)
	if err != nil {
		return models.ChangeSet{}, err
	}
	if approved == 0 {
		return models.ChangeSet{}, errors.Wrap(models.ConflictError,
			fmt.Sprintf("change set %s was concurrently modified", changeSetId))
	}

	return usecase.repository.GetChangeSetById(ctx, exec, changeSetId)
}

// DeleteChangeSet releases the member decisions back to the unattached pool.
// It never deletes decisions: membership is a weak reference.
func (usecase ChangeSetUsecase) DeleteChangeSet(ctx context.Context, changeSetId string) error {
	var deleted models.ChangeSet
	err := usecase.transactionFactory.Transaction(ctx, func(tx repositories.Transaction) error {
		changeSet, err := usecase.repository.GetChangeSetById(ctx, tx, changeSetId)
		if err != nil {
			return err
		}
		if !changeSet.Status.IsDeletable() {
			return errors.WithDetail(models.ErrChangeSetApplied,
				"applied change sets are part of the audit trail and cannot be deleted")
		}
		deleted = changeSet

		if _, err := usecase.repository.DetachChangeSetDecisions(ctx, tx, changeSetId); err != nil {
			return err
		}
		_, err = usecase.repository.DeleteChangeSet(ctx, tx, changeSetId)
		return err
	})
	if err != nil {
		return err
	}

	// An exported set owns a zip artifact. Its row is gone, so the artifact
	// would otherwise be unreachable forever.
	if deleted.Status == models.ChangeSetStatusExported {
		artifactKey := models.ExportArtifactKey(changeSetId)
		if deleteErr := usecase.blobRepository.DeleteFile(ctx, usecase.bucketUrl, artifactKey); deleteErr != nil {
			utils.LoggerFromContext(ctx).WarnContext(ctx,
				"failed to delete export artifact of deleted change set",
				"change_set_id", changeSetId, "error", deleteErr.Error())
		}
	}
	return nil
}

func (usecase ChangeSetUsecase) getChangeSetWithDecisions(
	ctx context.Context,
	exec repositories.Executor,
	changeSetId string,
) (models.ChangeSetWithDecisions, error) {
	changeSet, err := usecase.repository.GetChangeSetById(ctx, exec, changeSetId)
	if err != nil {
		return models.ChangeSetWithDecisions{}, err
	}
	decisions, err := usecase.repository.ListChangeSetDecisions(ctx, exec, changeSetId)
	if err != nil {
		return models.ChangeSetWithDecisions{}, err
	}
	return models.ChangeSetWithDecisions{
		ChangeSet: changeSet,
		Decisions: decisions,
	}, nil
}
