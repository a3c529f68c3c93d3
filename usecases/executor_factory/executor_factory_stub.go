package executor_factory

import (
	"context"

	"github.com/pashagolub/pgxmock/v4"

	"github.com/adaudit/adaudit-backend/models"
	"github.com/adaudit/adaudit-backend/repositories"
)

// ExecutorFactoryStub routes every query, transactional or not, to a pgxmock
// pool. Transactions are flattened: the callback runs against the same mock.
type ExecutorFactoryStub struct {
	Mock pgxmock.PgxPoolIface
}

func NewExecutorFactoryStub() ExecutorFactoryStub {
	pool, _ := pgxmock.NewPool()

	return ExecutorFactoryStub{
		Mock: pool,
	}
}

type PgExecutorStub struct {
	pgxmock.PgxPoolIface
}

func (stub PgExecutorStub) DatabaseSchema() models.DatabaseSchema {
	return models.DATABASE_ADAUDIT_SCHEMA
}

func (stub ExecutorFactoryStub) NewExecutor() repositories.Executor {
	return PgExecutorStub{
		stub.Mock,
	}
}

func (stub ExecutorFactoryStub) Transaction(
	ctx context.Context,
	fn func(tx repositories.Transaction) error,
) error {
	return fn(PgExecutorStub{stub.Mock})
}
