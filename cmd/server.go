package cmd

import (
	"context"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/adaudit/adaudit-backend/api"
	"github.com/adaudit/adaudit-backend/infra"
	"github.com/adaudit/adaudit-backend/repositories"
	"github.com/adaudit/adaudit-backend/usecases"
	"github.com/adaudit/adaudit-backend/utils"
)

func RunServer() error {
	apiConfig := api.Configuration{
		Env:     utils.GetEnv("ENV", "development"),
		Port:    utils.GetRequiredEnv[string]("PORT"),
		Timeout: time.Duration(utils.GetEnv("REQUEST_TIMEOUT_SECOND", 15)) * time.Second,
	}
	pgConfig := infra.PgConfig{
		ConnectionString: utils.GetEnv("PG_CONNECTION_STRING", ""),
		Database:         utils.GetEnv("PG_DATABASE", "adaudit"),
		Hostname:         utils.GetEnv("PG_HOSTNAME", ""),
		Password:         utils.GetEnv("PG_PASSWORD", ""),
		Port:             utils.GetEnv("PG_PORT", "5432"),
		User:             utils.GetEnv("PG_USER", ""),
		SslMode:          utils.GetEnv("PG_SSL_MODE", "prefer"),
	}
	exportBucketUrl := utils.GetRequiredEnv[string]("EXPORT_BUCKET_URL")
	loggingFormat := utils.GetEnv("LOGGING_FORMAT", "text")

	logger := utils.NewLogger(loggingFormat)
	ctx := utils.StoreLoggerInContext(context.Background(), logger)

	pool, err := infra.NewPostgresConnectionPool(ctx, pgConfig.GetConnectionString())
	if err != nil {
		logger.ErrorContext(ctx, "failed to create connection pool", "error", err.Error())
		return err
	}

	repos := repositories.NewRepositories(pool)
	uc := usecases.NewUsecases(repos,
		usecases.WithExportBucketUrl(exportBucketUrl),
	)

	server := api.NewServer(uc, apiConfig, logger)

	notify, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.InfoContext(ctx, "starting server", slog.String("port", apiConfig.Port))
		err := server.ListenAndServe()
		if !errors.Is(err, http.ErrServerClosed) {
			logger.ErrorContext(ctx, "error while serving the app", "error", err.Error())
		}
		logger.InfoContext(ctx, "server returned")
	}()

	<-notify.Done()
	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.ErrorContext(ctx, "error while shutting down the server", "error", err.Error())
		return err
	}

	return nil
}
