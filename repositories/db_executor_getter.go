package repositories

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/adaudit/adaudit-backend/models"
)

type TransactionOrPool interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type databaseSchemaGetter interface {
	DatabaseSchema() models.DatabaseSchema
}

type Executor interface {
	TransactionOrPool
	databaseSchemaGetter
}

type Transaction interface {
	Executor
}

// tableNameWithSchema qualifies a table name with the schema carried by the
// executor, so queries hit the right schema without relying on search_path.
func tableNameWithSchema(exec Executor, tableName string) string {
	return pgx.Identifier{
		exec.DatabaseSchema().Schema,
		tableName,
	}.Sanitize()
}

type ExecutorGetter struct {
	connectionPool *pgxpool.Pool
}

func NewExecutorGetter(pool *pgxpool.Pool) ExecutorGetter {
	return ExecutorGetter{
		connectionPool: pool,
	}
}

func (g ExecutorGetter) Transaction(
	ctx context.Context,
	databaseSchema models.DatabaseSchema,
	fn func(tx Transaction) error,
) error {
	err := pgx.BeginFunc(ctx, g.connectionPool, func(tx pgx.Tx) error {
		return fn(&PgTx{
			databaseSchema: databaseSchema,
			tx:             tx,
		})
	})

	// helper: The callback can return ErrIgnoreRollBackError
	// to explicitly specify that the error should be ignored.
	if errors.Is(err, models.ErrIgnoreRollBackError) {
		return nil
	}
	return errors.Wrap(err, "Error executing transaction")
}

func (g ExecutorGetter) GetExecutor(databaseSchema models.DatabaseSchema) Executor {
	return &PgExecutor{
		databaseSchema: databaseSchema,
		exec:           g.connectionPool,
	}
}

type PgExecutor struct {
	databaseSchema models.DatabaseSchema
	exec           TransactionOrPool
}

func (e PgExecutor) DatabaseSchema() models.DatabaseSchema {
	return e.databaseSchema
}

func (e PgExecutor) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	return e.exec.Exec(ctx, sql, args...)
}

func (e PgExecutor) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return e.exec.Query(ctx, sql, args...)
}

func (e PgExecutor) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return e.exec.QueryRow(ctx, sql, args...)
}

type PgTx struct {
	databaseSchema models.DatabaseSchema
	tx             pgx.Tx
}

func (t PgTx) DatabaseSchema() models.DatabaseSchema {
	return t.databaseSchema
}

func (t PgTx) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	return t.tx.Exec(ctx, sql, args...)
}

func (t PgTx) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return t.tx.Query(ctx, sql, args...)
}

func (t PgTx) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return t.tx.QueryRow(ctx, sql, args...)
}
