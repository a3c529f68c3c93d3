package repositories

// AuditDbRepository carries every query against the adaudit database. It is
// stateless: the executor (pool or transaction) is passed per call.
type AuditDbRepository struct{}

func NewAuditDbRepository() *AuditDbRepository {
	return &AuditDbRepository{}
}
