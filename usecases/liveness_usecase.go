package usecases

import (
	"context"

	"github.com/cockroachdb/errors"

	"github.com/adaudit/adaudit-backend/usecases/executor_factory"
)

type LivenessUsecase struct {
	executorFactory executor_factory.ExecutorFactory
}

func (usecase LivenessUsecase) Liveness(ctx context.Context) error {
	exec := usecase.executorFactory.NewExecutor()
	row := exec.QueryRow(ctx, "SELECT 1")

	var result int
	if err := row.Scan(&result); err != nil {
		return errors.Wrap(err, "liveness probe failed to reach the database")
	}
	return nil
}
