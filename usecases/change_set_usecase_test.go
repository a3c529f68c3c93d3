package usecases

import (
	"context"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/adaudit/adaudit-backend/mocks"
	"github.com/adaudit/adaudit-backend/models"
	"github.com/adaudit/adaudit-backend/utils"
)

type ChangeSetUsecaseTestSuite struct {
	suite.Suite
	executorFactory    *mocks.ExecutorFactory
	transactionFactory *mocks.TransactionFactory
	repository         *mocks.AuditRepository
	blobRepository     *mocks.BlobRepository
	exec               *mocks.Executor
	transaction        *mocks.Executor

	accountId      string
	actorId        string
	bucketUrl      string
	draftChangeSet models.ChangeSet
	memberDecision models.Decision
	ctx            context.Context
}

func (suite *ChangeSetUsecaseTestSuite) SetupTest() {
	suite.executorFactory = new(mocks.ExecutorFactory)
	suite.exec = new(mocks.Executor)
	suite.transaction = new(mocks.Executor)
	suite.transactionFactory = &mocks.TransactionFactory{TxMock: suite.transaction}
	suite.repository = new(mocks.AuditRepository)
	suite.blobRepository = new(mocks.BlobRepository)
	suite.bucketUrl = "mem://exports"

	suite.accountId = "123-456-7890"
	suite.actorId = "auditor-1"
	suite.draftChangeSet = models.ChangeSet{
		Id:        "aab1c2d3-0000-4000-9000-000000000001",
		AccountId: suite.accountId,
		Name:      "September cleanup",
		Status:    models.ChangeSetStatusDraft,
		CreatedBy: suite.actorId,
	}
	suite.memberDecision = models.Decision{
		Id:              "aab1c2d3-0000-4000-9000-000000000101",
		DecisionGroupId: "aab1c2d3-0000-4000-9000-000000000201",
		Version:         1,
		IsCurrent:       true,
		AccountId:       suite.accountId,
		EntityType:      models.EntityTypeKeyword,
		EntityId:        "kw-42",
		ActionType:      models.ActionTypePause,
		Status:          models.DecisionStatusApproved,
		ChangeSetId:     &suite.draftChangeSet.Id,
	}
	suite.ctx = utils.StoreLoggerInContext(context.Background(), utils.NewLogger("text"))
}

func (suite *ChangeSetUsecaseTestSuite) makeUsecase() ChangeSetUsecase {
	return NewChangeSetUsecase(
		suite.executorFactory,
		suite.transactionFactory,
		suite.repository,
		suite.blobRepository,
		suite.bucketUrl,
	)
}

func (suite *ChangeSetUsecaseTestSuite) AssertExpectations() {
	t := suite.T()
	suite.executorFactory.AssertExpectations(t)
	suite.transactionFactory.AssertExpectations(t)
	suite.repository.AssertExpectations(t)
	suite.blobRepository.AssertExpectations(t)
	suite.exec.AssertExpectations(t)
	suite.transaction.AssertExpectations(t)
}

func (suite *ChangeSetUsecaseTestSuite) TestCreateChangeSet_with_initial_decisions() {
	usecase := suite.makeUsecase()

	suite.transactionFactory.On("Transaction", suite.ctx, mock.Anything).Return(nil)
	suite.repository.On("CreateChangeSet", suite.ctx, suite.transaction,
		mock.Anything, mock.Anything, suite.actorId).Return(nil)
	suite.repository.On("AssignDecisionToChangeSet", suite.ctx, suite.transaction,
		suite.memberDecision.Id, mock.Anything).Return(int64(1), nil)
	suite.repository.On("GetChangeSetById", suite.ctx, suite.transaction, mock.Anything).
		Return(suite.draftChangeSet, nil)
	suite.repository.On("ListChangeSetDecisions", suite.ctx, suite.transaction, mock.Anything).
		Return([]models.Decision{suite.memberDecision}, nil)

	changeSet, err := usecase.CreateChangeSet(suite.ctx, models.CreateChangeSetInput{
		AccountId:   suite.accountId,
		Name:        "September cleanup",
		DecisionIds: []string{suite.memberDecision.Id},
	}, suite.actorId)

	suite.Require().NoError(err)
	suite.Require().Len(changeSet.Decisions, 1)
	suite.AssertExpectations()
}

func (suite *ChangeSetUsecaseTestSuite) TestCreateChangeSet_name_is_required() {
	usecase := suite.makeUsecase()

	_, err := usecase.CreateChangeSet(suite.ctx, models.CreateChangeSetInput{
		AccountId: suite.accountId,
	}, suite.actorId)

	suite.Require().ErrorIs(err, models.ErrChangeSetNameRequired)
	suite.AssertExpectations()
}

func (suite *ChangeSetUsecaseTestSuite) TestAddDecisions_claim_conflict_names_other_change_set() {
	usecase := suite.makeUsecase()
	otherChangeSetId := "aab1c2d3-0000-4000-9000-00000000dead"
	claimed := suite.memberDecision
	claimed.ChangeSetId = &otherChangeSetId

	suite.transactionFactory.On("Transaction", suite.ctx, mock.Anything).Return(nil)
	suite.repository.On("GetChangeSetById", suite.ctx, suite.transaction, suite.draftChangeSet.Id).
		Return(suite.draftChangeSet, nil)
	suite.repository.On("AssignDecisionToChangeSet", suite.ctx, suite.transaction,
		claimed.Id, suite.draftChangeSet.Id).Return(int64(0), nil)
	suite.repository.On("GetDecisionById", suite.ctx, suite.transaction, claimed.Id).
		Return(claimed, nil)

	_, err := usecase.AddDecisions(suite.ctx, suite.draftChangeSet.Id, []string{claimed.Id})

	suite.Require().ErrorIs(err, models.ErrDecisionAlreadyClaimed)
	suite.Require().Contains(errors.FlattenDetails(err), otherChangeSetId)
	suite.AssertExpectations()
}

func (suite *ChangeSetUsecaseTestSuite) TestAddDecisions_superseded_decision() {
	usecase := suite.makeUsecase()
	stale := suite.memberDecision
	stale.IsCurrent = false
	stale.ChangeSetId = nil

	suite.transactionFactory.On("Transaction", suite.ctx, mock.Anything).Return(nil)
	suite.repository.On("GetChangeSetById", suite.ctx, suite.transaction, suite.draftChangeSet.Id).
		Return(suite.draftChangeSet, nil)
	suite.repository.On("AssignDecisionToChangeSet", suite.ctx, suite.transaction,
		stale.Id, suite.draftChangeSet.Id).Return(int64(0), nil)
	suite.repository.On("GetDecisionById", suite.ctx, suite.transaction, stale.Id).
		Return(stale, nil)

	_, err := usecase.AddDecisions(suite.ctx, suite.draftChangeSet.Id, []string{stale.Id})

	suite.Require().ErrorIs(err, models.ErrDecisionNotCurrent)
	suite.AssertExpectations()
}

func (suite *ChangeSetUsecaseTestSuite) TestAddDecisions_rolled_back_decision() {
	usecase := suite.makeUsecase()
	rolledBack := suite.memberDecision
	rolledBack.Status = models.DecisionStatusRolledBack
	rolledBack.ChangeSetId = nil

	suite.transactionFactory.On("Transaction", suite.ctx, mock.Anything).Return(nil)
	suite.repository.On("GetChangeSetById", suite.ctx, suite.transaction, suite.draftChangeSet.Id).
		Return(suite.draftChangeSet, nil)
	suite.repository.On("AssignDecisionToChangeSet", suite.ctx, suite.transaction,
		rolledBack.Id, suite.draftChangeSet.Id).Return(int64(0), nil)
	suite.repository.On("GetDecisionById", suite.ctx, suite.transaction, rolledBack.Id).
		Return(rolledBack, nil)

	_, err := usecase.AddDecisions(suite.ctx, suite.draftChangeSet.Id, []string{rolledBack.Id})

	suite.Require().ErrorIs(err, models.InvalidStateError)
	suite.AssertExpectations()
}

func (suite *ChangeSetUsecaseTestSuite) TestAddDecisions_change_set_not_draft() {
	usecase := suite.makeUsecase()
	approved := suite.draftChangeSet
	approved.Status = models.ChangeSetStatusApproved

	suite.transactionFactory.On("Transaction", suite.ctx, mock.Anything).Return(nil)
	suite.repository.On("GetChangeSetById", suite.ctx, suite.transaction, approved.Id).
		Return(approved, nil)

	_, err := usecase.AddDecisions(suite.ctx, approved.Id, []string{suite.memberDecision.Id})

	suite.Require().ErrorIs(err, models.ErrChangeSetNotDraft)
	suite.AssertExpectations()
}

func (suite *ChangeSetUsecaseTestSuite) TestRemoveDecision_not_a_member() {
	usecase := suite.makeUsecase()

	suite.transactionFactory.On("Transaction", suite.ctx, mock.Anything).Return(nil)
	suite.repository.On("GetChangeSetById", suite.ctx, suite.transaction, suite.draftChangeSet.Id).
		Return(suite.draftChangeSet, nil)
	suite.repository.On("RemoveDecisionFromChangeSet", suite.ctx, suite.transaction,
		suite.memberDecision.Id, suite.draftChangeSet.Id).Return(int64(0), nil)

	_, err := usecase.RemoveDecision(suite.ctx, suite.draftChangeSet.Id, suite.memberDecision.Id)

	suite.Require().ErrorIs(err, models.NotFoundError)
	suite.AssertExpectations()
}

func (suite *ChangeSetUsecaseTestSuite) TestApproveChangeSet_nominal() {
	usecase := suite.makeUsecase()
	approved := suite.draftChangeSet
	approved.Status = models.ChangeSetStatusApproved

	suite.executorFactory.On("NewExecutor").Return(suite.exec)
	suite.repository.On("GetChangeSetById", suite.ctx, suite.exec, suite.draftChangeSet.Id).
		Return(suite.draftChangeSet, nil).Once()
	suite.repository.On("ListChangeSetDecisions", suite.ctx, suite.exec, suite.draftChangeSet.Id).
		Return([]models.Decision{suite.memberDecision}, nil)
	suite.repository.On("ApproveChangeSet", suite.ctx, suite.exec, suite.draftChangeSet.Id).
		Return(int64(1), nil)
	suite.repository.On("GetChangeSetById", suite.ctx, suite.exec, suite.draftChangeSet.Id).
		Return(approved, nil).Once()

	changeSet, err := usecase.ApproveChangeSet(suite.ctx, suite.draftChangeSet.Id)

	suite.Require().NoError(err)
	suite.Require().Equal(models.ChangeSetStatusApproved, changeSet.Status)
	suite.AssertExpectations()
}

func (suite *ChangeSetUsecaseTestSuite) TestApproveChangeSet_empty() {
	usecase := suite.makeUsecase()

	suite.executorFactory.On("NewExecutor").Return(suite.exec)
	suite.repository.On("GetChangeSetById", suite.ctx, suite.exec, suite.draftChangeSet.Id).
		Return(suite.draftChangeSet, nil)
	suite.repository.On("ListChangeSetDecisions", suite.ctx, suite.exec, suite.draftChangeSet.Id).
		Return([]models.Decision{}, nil)

	_, err := usecase.ApproveChangeSet(suite.ctx, suite.draftChangeSet.Id)

	suite.Require().ErrorIs(err, models.ErrChangeSetEmpty)
	suite.AssertExpectations()
}

func (suite *ChangeSetUsecaseTestSuite) TestDeleteChangeSet_detaches_members() {
	usecase := suite.makeUsecase()

	suite.transactionFactory.On("Transaction", suite.ctx, mock.Anything).Return(nil)
	suite.repository.On("GetChangeSetById", suite.ctx, suite.transaction, suite.draftChangeSet.Id).
		Return(suite.draftChangeSet, nil)
	suite.repository.On("DetachChangeSetDecisions", suite.ctx, suite.transaction,
		suite.draftChangeSet.Id).Return(int64(1), nil)
	suite.repository.On("DeleteChangeSet", suite.ctx, suite.transaction, suite.draftChangeSet.Id).
		Return(int64(1), nil)

	err := usecase.DeleteChangeSet(suite.ctx, suite.draftChangeSet.Id)

	suite.Require().NoError(err)
	suite.blobRepository.AssertNotCalled(suite.T(), "DeleteFile",
		mock.Anything, mock.Anything, mock.Anything)
	suite.AssertExpectations()
}

func (suite *ChangeSetUsecaseTestSuite) TestDeleteChangeSet_removes_artifact_of_exported_set() {
	usecase := suite.makeUsecase()
	exported := suite.draftChangeSet
	exported.Status = models.ChangeSetStatusExported

	suite.transactionFactory.On("Transaction", suite.ctx, mock.Anything).Return(nil)
	suite.repository.On("GetChangeSetById", suite.ctx, suite.transaction, exported.Id).
		Return(exported, nil)
	suite.repository.On("DetachChangeSetDecisions", suite.ctx, suite.transaction,
		exported.Id).Return(int64(1), nil)
	suite.repository.On("DeleteChangeSet", suite.ctx, suite.transaction, exported.Id).
		Return(int64(1), nil)
	suite.blobRepository.On("DeleteFile", suite.ctx, suite.bucketUrl,
		models.ExportArtifactKey(exported.Id)).Return(nil)

	err := usecase.DeleteChangeSet(suite.ctx, exported.Id)

	suite.Require().NoError(err)
	suite.AssertExpectations()
}

func (suite *ChangeSetUsecaseTestSuite) TestDeleteChangeSet_applied_is_immutable() {
	usecase := suite.makeUsecase()
	applied := suite.draftChangeSet
	applied.Status = models.ChangeSetStatusApplied

	suite.transactionFactory.On("Transaction", suite.ctx, mock.Anything).Return(nil)
	suite.repository.On("GetChangeSetById", suite.ctx, suite.transaction, applied.Id).
		Return(applied, nil)

	err := usecase.DeleteChangeSet(suite.ctx, applied.Id)

	suite.Require().ErrorIs(err, models.ErrChangeSetApplied)
	suite.repository.AssertNotCalled(suite.T(), "DeleteChangeSet",
		mock.Anything, mock.Anything, mock.Anything)
	suite.AssertExpectations()
}

func TestChangeSetUsecase(t *testing.T) {
	suite.Run(t, new(ChangeSetUsecaseTestSuite))
}
