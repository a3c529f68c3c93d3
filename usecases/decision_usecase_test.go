package usecases

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/adaudit/adaudit-backend/mocks"
	"github.com/adaudit/adaudit-backend/models"
	"github.com/adaudit/adaudit-backend/pure_utils"
	"github.com/adaudit/adaudit-backend/utils"
)

type DecisionUsecaseTestSuite struct {
	suite.Suite
	executorFactory    *mocks.ExecutorFactory
	transactionFactory *mocks.TransactionFactory
	repository         *mocks.AuditRepository
	exec               *mocks.Executor
	transaction        *mocks.Executor

	accountId       string
	actorId         string
	draftDecision   models.Decision
	repositoryError error
	ctx             context.Context
}

func (suite *DecisionUsecaseTestSuite) SetupTest() {
	suite.executorFactory = new(mocks.ExecutorFactory)
	suite.exec = new(mocks.Executor)
	suite.transaction = new(mocks.Executor)
	suite.transactionFactory = &mocks.TransactionFactory{TxMock: suite.transaction}
	suite.repository = new(mocks.AuditRepository)

	suite.accountId = "123-456-7890"
	suite.actorId = "auditor-1"
	suite.draftDecision = models.Decision{
		Id:              "6f3b1a0e-6f0a-4f0d-9d26-dcafd64f0001",
		DecisionGroupId: "6f3b1a0e-6f0a-4f0d-9d26-dcafd64f1001",
		Version:         1,
		IsCurrent:       true,
		AccountId:       suite.accountId,
		ModuleId:        "wasted-spend",
		EntityType:      models.EntityTypeKeyword,
		EntityId:        "kw-42",
		EntityName:      "cheap flights",
		ActionType:      models.ActionTypePause,
		AfterValue:      json.RawMessage(`{"status":"PAUSED"}`),
		Rationale:       "zero conversions over 90 days",
		Status:          models.DecisionStatusDraft,
		CreatedBy:       suite.actorId,
	}
	suite.repositoryError = errors.New("some repository error")
	suite.ctx = utils.StoreLoggerInContext(context.Background(), utils.NewLogger("text"))
}

func (suite *DecisionUsecaseTestSuite) makeUsecase() DecisionUsecase {
	return NewDecisionUsecase(suite.executorFactory, suite.transactionFactory, suite.repository)
}

func (suite *DecisionUsecaseTestSuite) AssertExpectations() {
	t := suite.T()
	suite.executorFactory.AssertExpectations(t)
	suite.transactionFactory.AssertExpectations(t)
	suite.repository.AssertExpectations(t)
	suite.exec.AssertExpectations(t)
	suite.transaction.AssertExpectations(t)
}

func (suite *DecisionUsecaseTestSuite) TestCreateDecision_nominal() {
	usecase := suite.makeUsecase()
	suite.executorFactory.On("NewExecutor").Return(suite.exec)
	suite.repository.On("InsertDecision", suite.ctx, suite.exec,
		mock.MatchedBy(func(d models.Decision) bool {
			return d.Version == 1 && d.IsCurrent && d.Status == models.DecisionStatusDraft &&
				d.CreatedBy == suite.actorId
		})).Return(nil)
	suite.repository.On("GetDecisionById", suite.ctx, suite.exec, mock.Anything).
		Return(suite.draftDecision, nil)

	decision, err := usecase.CreateDecision(suite.ctx, models.CreateDecisionInput{
		AccountId:  suite.accountId,
		ModuleId:   "wasted-spend",
		EntityType: models.EntityTypeKeyword,
		EntityId:   "kw-42",
		ActionType: models.ActionTypePause,
	}, suite.actorId)

	suite.Require().NoError(err)
	suite.Require().Equal(suite.draftDecision, decision)
	suite.AssertExpectations()
}

func (suite *DecisionUsecaseTestSuite) TestCreateDecision_unknown_entity_type() {
	usecase := suite.makeUsecase()

	_, err := usecase.CreateDecision(suite.ctx, models.CreateDecisionInput{
		AccountId:  suite.accountId,
		ModuleId:   "wasted-spend",
		EntityType: models.EntityTypeFrom("banner"),
		EntityId:   "kw-42",
		ActionType: models.ActionTypePause,
	}, suite.actorId)

	suite.Require().ErrorIs(err, models.ErrUnknownEntityType)
	suite.AssertExpectations()
}

func (suite *DecisionUsecaseTestSuite) TestUpdateDecision_creates_new_version() {
	usecase := suite.makeUsecase()
	newRationale := "still no conversions, lowering priority"
	newVersion := suite.draftDecision
	newVersion.Id = "6f3b1a0e-6f0a-4f0d-9d26-dcafd64f0002"
	newVersion.Version = 2
	newVersion.Rationale = newRationale

	suite.transactionFactory.On("Transaction", suite.ctx, mock.Anything).Return(nil)
	suite.repository.On("GetDecisionById", suite.ctx, suite.transaction, suite.draftDecision.Id).
		Return(suite.draftDecision, nil)
	suite.repository.On("GetCurrentDecisionOfGroup", suite.ctx, suite.transaction,
		suite.draftDecision.DecisionGroupId, true).
		Return(suite.draftDecision, nil)
	suite.repository.On("InsertDecision", suite.ctx, suite.transaction,
		mock.MatchedBy(func(d models.Decision) bool {
			return d.Version == 2 && d.IsCurrent && d.Status == models.DecisionStatusDraft &&
				d.Rationale == newRationale && d.DecisionGroupId == suite.draftDecision.DecisionGroupId
		})).Return(nil)
	suite.repository.On("SupersedeDecision", suite.ctx, suite.transaction,
		suite.draftDecision.Id, mock.Anything).Return(int64(1), nil)
	suite.repository.On("GetDecisionById", suite.ctx, suite.transaction, mock.Anything).
		Return(newVersion, nil)

	decision, err := usecase.UpdateDecision(suite.ctx, suite.draftDecision.Id,
		models.UpdateDecisionInput{Rationale: &newRationale}, suite.actorId)

	suite.Require().NoError(err)
	suite.Require().Equal(2, decision.Version)
	suite.AssertExpectations()
}

func (suite *DecisionUsecaseTestSuite) TestUpdateDecision_frozen() {
	usecase := suite.makeUsecase()
	exported := suite.draftDecision
	exported.Status = models.DecisionStatusExported

	suite.transactionFactory.On("Transaction", suite.ctx, mock.Anything).Return(nil)
	suite.repository.On("GetDecisionById", suite.ctx, suite.transaction, exported.Id).
		Return(exported, nil)
	suite.repository.On("GetCurrentDecisionOfGroup", suite.ctx, suite.transaction,
		exported.DecisionGroupId, true).
		Return(exported, nil)

	_, err := usecase.UpdateDecision(suite.ctx, exported.Id,
		models.UpdateDecisionInput{Rationale: pure_utils.Ptr("tweak")}, suite.actorId)

	suite.Require().ErrorIs(err, models.ErrDecisionFrozen)
	suite.AssertExpectations()
}

func (suite *DecisionUsecaseTestSuite) TestUpdateDecision_merges_after_value_patch() {
	usecase := suite.makeUsecase()
	current := suite.draftDecision
	current.AfterValue = json.RawMessage(`{"cpc_bid_micros":1000000,"status":"ENABLED"}`)

	suite.transactionFactory.On("Transaction", suite.ctx, mock.Anything).Return(nil)
	suite.repository.On("GetDecisionById", suite.ctx, suite.transaction, current.Id).
		Return(current, nil)
	suite.repository.On("GetCurrentDecisionOfGroup", suite.ctx, suite.transaction,
		current.DecisionGroupId, true).
		Return(current, nil)
	suite.repository.On("InsertDecision", suite.ctx, suite.transaction,
		mock.MatchedBy(func(d models.Decision) bool {
			var merged map[string]any
			if err := json.Unmarshal(d.AfterValue, &merged); err != nil {
				return false
			}
			return merged["cpc_bid_micros"] == float64(500000) && merged["status"] == "ENABLED"
		})).Return(nil)
	suite.repository.On("SupersedeDecision", suite.ctx, suite.transaction,
		current.Id, mock.Anything).Return(int64(1), nil)
	suite.repository.On("GetDecisionById", suite.ctx, suite.transaction, mock.Anything).
		Return(current, nil)

	_, err := usecase.UpdateDecision(suite.ctx, current.Id, models.UpdateDecisionInput{
		AfterValue: json.RawMessage(`{"cpc_bid_micros":500000}`),
	}, suite.actorId)

	suite.Require().NoError(err)
	suite.AssertExpectations()
}

func (suite *DecisionUsecaseTestSuite) TestApproveDecision_nominal() {
	usecase := suite.makeUsecase()
	approved := suite.draftDecision
	approved.Status = models.DecisionStatusApproved

	suite.executorFactory.On("NewExecutor").Return(suite.exec)
	suite.repository.On("GetDecisionById", suite.ctx, suite.exec, suite.draftDecision.Id).
		Return(suite.draftDecision, nil).Once()
	suite.repository.On("ApproveDecision", suite.ctx, suite.exec, suite.draftDecision.Id).
		Return(int64(1), nil)
	suite.repository.On("GetDecisionById", suite.ctx, suite.exec, suite.draftDecision.Id).
		Return(approved, nil).Once()

	decision, err := usecase.ApproveDecision(suite.ctx, suite.draftDecision.Id)

	suite.Require().NoError(err)
	suite.Require().Equal(models.DecisionStatusApproved, decision.Status)
	suite.AssertExpectations()
}

func (suite *DecisionUsecaseTestSuite) TestApproveDecision_idempotent() {
	usecase := suite.makeUsecase()
	approved := suite.draftDecision
	approved.Status = models.DecisionStatusApproved

	suite.executorFactory.On("NewExecutor").Return(suite.exec)
	suite.repository.On("GetDecisionById", suite.ctx, suite.exec, approved.Id).
		Return(approved, nil)

	decision, err := usecase.ApproveDecision(suite.ctx, approved.Id)

	suite.Require().NoError(err)
	suite.Require().Equal(approved, decision)
	suite.repository.AssertNotCalled(suite.T(), "ApproveDecision",
		mock.Anything, mock.Anything, mock.Anything)
	suite.AssertExpectations()
}

func (suite *DecisionUsecaseTestSuite) TestApproveDecision_superseded_version() {
	usecase := suite.makeUsecase()
	stale := suite.draftDecision
	stale.IsCurrent = false

	suite.executorFactory.On("NewExecutor").Return(suite.exec)
	suite.repository.On("GetDecisionById", suite.ctx, suite.exec, stale.Id).
		Return(stale, nil)

	_, err := usecase.ApproveDecision(suite.ctx, stale.Id)

	suite.Require().ErrorIs(err, models.ErrDecisionNotCurrent)
	suite.AssertExpectations()
}

func (suite *DecisionUsecaseTestSuite) TestRollbackDecision_applied_is_terminal() {
	usecase := suite.makeUsecase()
	applied := suite.draftDecision
	applied.Status = models.DecisionStatusApplied

	suite.executorFactory.On("NewExecutor").Return(suite.exec)
	suite.repository.On("GetDecisionById", suite.ctx, suite.exec, applied.Id).
		Return(applied, nil)

	_, err := usecase.RollbackDecision(suite.ctx, applied.Id, nil)

	suite.Require().ErrorIs(err, models.ErrDecisionApplied)
	suite.AssertExpectations()
}

func (suite *DecisionUsecaseTestSuite) TestRollbackDecision_releases_exported() {
	usecase := suite.makeUsecase()
	exported := suite.draftDecision
	exported.Status = models.DecisionStatusExported
	rolledBack := exported
	rolledBack.Status = models.DecisionStatusRolledBack

	suite.executorFactory.On("NewExecutor").Return(suite.exec)
	suite.repository.On("GetDecisionById", suite.ctx, suite.exec, exported.Id).
		Return(exported, nil).Once()
	suite.repository.On("RollbackDecision", suite.ctx, suite.exec, exported.Id, (*string)(nil)).
		Return(int64(1), nil)
	suite.repository.On("GetDecisionById", suite.ctx, suite.exec, exported.Id).
		Return(rolledBack, nil).Once()

	decision, err := usecase.RollbackDecision(suite.ctx, exported.Id, nil)

	suite.Require().NoError(err)
	suite.Require().Equal(models.DecisionStatusRolledBack, decision.Status)
	suite.AssertExpectations()
}

func (suite *DecisionUsecaseTestSuite) TestDeleteDecision_exported_is_not_deletable() {
	usecase := suite.makeUsecase()
	exported := suite.draftDecision
	exported.Status = models.DecisionStatusExported

	suite.executorFactory.On("NewExecutor").Return(suite.exec)
	suite.repository.On("GetDecisionById", suite.ctx, suite.exec, exported.Id).
		Return(exported, nil)

	err := usecase.DeleteDecision(suite.ctx, exported.Id)

	suite.Require().ErrorIs(err, models.ErrDecisionNotDeletable)
	suite.AssertExpectations()
}

func (suite *DecisionUsecaseTestSuite) TestDeleteDecision_removes_whole_group() {
	usecase := suite.makeUsecase()

	suite.executorFactory.On("NewExecutor").Return(suite.exec)
	suite.repository.On("GetDecisionById", suite.ctx, suite.exec, suite.draftDecision.Id).
		Return(suite.draftDecision, nil)
	suite.repository.On("DeleteDecisionGroup", suite.ctx, suite.exec,
		suite.draftDecision.DecisionGroupId).Return(int64(2), nil)

	err := usecase.DeleteDecision(suite.ctx, suite.draftDecision.Id)

	suite.Require().NoError(err)
	suite.AssertExpectations()
}

func (suite *DecisionUsecaseTestSuite) TestBulkApprove_partial_failure_keeps_order() {
	usecase := suite.makeUsecase()
	missingId := "6f3b1a0e-6f0a-4f0d-9d26-dcafd64f9999"
	approved := suite.draftDecision
	approved.Status = models.DecisionStatusApproved

	suite.executorFactory.On("NewExecutor").Return(suite.exec)
	suite.repository.On("GetDecisionById", suite.ctx, suite.exec, suite.draftDecision.Id).
		Return(suite.draftDecision, nil).Once()
	suite.repository.On("ApproveDecision", suite.ctx, suite.exec, suite.draftDecision.Id).
		Return(int64(1), nil)
	suite.repository.On("GetDecisionById", suite.ctx, suite.exec, suite.draftDecision.Id).
		Return(approved, nil).Once()
	suite.repository.On("GetDecisionById", suite.ctx, suite.exec, missingId).
		Return(models.Decision{}, errors.Wrap(models.NotFoundError, "no such decision"))

	results := usecase.BulkApprove(suite.ctx, []string{suite.draftDecision.Id, missingId})

	suite.Require().Len(results, 2)
	suite.Require().Equal(suite.draftDecision.Id, results[0].Id)
	suite.Require().NoError(results[0].Error)
	suite.Require().Equal(models.DecisionStatusApproved, results[0].Decision.Status)
	suite.Require().Equal(missingId, results[1].Id)
	suite.Require().ErrorIs(results[1].Error, models.NotFoundError)
	suite.Require().Nil(results[1].Decision)
	suite.AssertExpectations()
}

func (suite *DecisionUsecaseTestSuite) TestBulkReject_appends_reason_to_rationale() {
	usecase := suite.makeUsecase()
	rolledBack := suite.draftDecision
	rolledBack.Status = models.DecisionStatusRolledBack

	suite.executorFactory.On("NewExecutor").Return(suite.exec)
	suite.repository.On("GetDecisionById", suite.ctx, suite.exec, suite.draftDecision.Id).
		Return(suite.draftDecision, nil).Twice()
	suite.repository.On("RollbackDecision", suite.ctx, suite.exec, suite.draftDecision.Id,
		mock.MatchedBy(func(rationale *string) bool {
			return rationale != nil &&
				*rationale == suite.draftDecision.Rationale+"\nrejected: client declined"
		})).Return(int64(1), nil)
	suite.repository.On("GetDecisionById", suite.ctx, suite.exec, suite.draftDecision.Id).
		Return(rolledBack, nil).Once()

	results := usecase.BulkReject(suite.ctx, []string{suite.draftDecision.Id}, "client declined")

	suite.Require().Len(results, 1)
	suite.Require().NoError(results[0].Error)
	suite.AssertExpectations()
}

func TestDecisionUsecase(t *testing.T) {
	suite.Run(t, new(DecisionUsecaseTestSuite))
}
