package usecases

import (
	"github.com/adaudit/adaudit-backend/repositories"
	"github.com/adaudit/adaudit-backend/usecases/executor_factory"
)

type Usecases struct {
	Repositories    repositories.Repositories
	exportBucketUrl string
}

type Option func(*Usecases)

func WithExportBucketUrl(bucketUrl string) Option {
	return func(u *Usecases) {
		u.exportBucketUrl = bucketUrl
	}
}

func NewUsecases(repos repositories.Repositories, opts ...Option) Usecases {
	u := Usecases{
		Repositories: repos,
	}
	for _, opt := range opts {
		opt(&u)
	}
	return u
}

func (usecases *Usecases) NewExecutorFactory() executor_factory.ExecutorFactory {
	return executor_factory.NewDbExecutorFactory(usecases.Repositories.ExecutorGetter)
}

func (usecases *Usecases) NewTransactionFactory() executor_factory.TransactionFactory {
	return executor_factory.NewDbExecutorFactory(usecases.Repositories.ExecutorGetter)
}

func (usecases *Usecases) NewDecisionUsecase() DecisionUsecase {
	return NewDecisionUsecase(
		usecases.NewExecutorFactory(),
		usecases.NewTransactionFactory(),
		usecases.Repositories.AuditDbRepository,
	)
}

func (usecases *Usecases) NewChangeSetUsecase() ChangeSetUsecase {
	return NewChangeSetUsecase(
		usecases.NewExecutorFactory(),
		usecases.NewTransactionFactory(),
		usecases.Repositories.AuditDbRepository,
		usecases.Repositories.BlobRepository,
		usecases.exportBucketUrl,
	)
}

func (usecases *Usecases) NewExportUsecase() ExportUsecase {
	return NewExportUsecase(
		usecases.NewExecutorFactory(),
		usecases.NewTransactionFactory(),
		usecases.Repositories.AuditDbRepository,
		usecases.Repositories.BlobRepository,
		usecases.exportBucketUrl,
	)
}

func (usecases *Usecases) NewLivenessUsecase() LivenessUsecase {
	return LivenessUsecase{
		executorFactory: usecases.NewExecutorFactory(),
	}
}
