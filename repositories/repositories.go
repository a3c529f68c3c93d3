package repositories

import (
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repositories struct {
	ExecutorGetter    ExecutorGetter
	AuditDbRepository *AuditDbRepository
	BlobRepository    BlobRepository
}

func NewRepositories(pool *pgxpool.Pool) Repositories {
	return Repositories{
		ExecutorGetter:    NewExecutorGetter(pool),
		AuditDbRepository: NewAuditDbRepository(),
		BlobRepository:    NewBlobRepository(),
	}
}
