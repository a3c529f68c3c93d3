package usecases

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/adaudit/adaudit-backend/models"
	"github.com/adaudit/adaudit-backend/repositories"
	"github.com/adaudit/adaudit-backend/usecases/executor_factory"
	"github.com/adaudit/adaudit-backend/utils"
)

const previewMaxLines = 6

type ExportUsecaseRepository interface {
	GetChangeSetById(ctx context.Context, exec repositories.Executor, changeSetId string) (models.ChangeSet, error)
	MarkChangeSetExported(ctx context.Context, exec repositories.Executor, changeSetId string,
		exportFiles []models.ExportFile, exportHash string, exportedAt time.Time) (int64, error)
	MarkChangeSetApplied(ctx context.Context, exec repositories.Executor, changeSetId string,
		appliedAt time.Time) (int64, error)
	ListChangeSetDecisions(ctx context.Context, exec repositories.Executor, changeSetId string) ([]models.Decision, error)
	UpdateChangeSetDecisionsStatus(ctx context.Context, exec repositories.Executor, changeSetId string,
		fromStatuses []models.DecisionStatus, toStatus models.DecisionStatus, stampedAt time.Time) (int64, error)
}

type ExportUsecase struct {
	executorFactory    executor_factory.ExecutorFactory
	transactionFactory executor_factory.TransactionFactory
	repository         ExportUsecaseRepository
	blobRepository     repositories.BlobRepository
	bucketUrl          string
}

func NewExportUsecase(
	executorFactory executor_factory.ExecutorFactory,
	transactionFactory executor_factory.TransactionFactory,
	repository ExportUsecaseRepository,
	blobRepository repositories.BlobRepository,
	bucketUrl string,
) ExportUsecase {
	return ExportUsecase{
		executorFactory:    executorFactory,
		transactionFactory: transactionFactory,
		repository:         repository,
		blobRepository:     blobRepository,
		bucketUrl:          bucketUrl,
	}
}

// PreviewExport renders the file set a change set would export, without any
// side effect. Available from draft onwards so reviewers can inspect the
// outcome before approving.
func (usecase ExportUsecase) PreviewExport(ctx context.Context, changeSetId string) (models.ExportPreview, error) {
	exec := usecase.executorFactory.NewExecutor()

	if _, err := usecase.repository.GetChangeSetById(ctx, exec, changeSetId); err != nil {
		return models.ExportPreview{}, err
	}
	decisions, err := usecase.repository.ListChangeSetDecisions(ctx, exec, changeSetId)
	if err != nil {
		return models.ExportPreview{}, err
	}

	files, err := models.BuildExportFiles(decisions)
	if err != nil {
		return models.ExportPreview{}, err
	}

	previews := make([]models.ExportFilePreview, len(files))
	for i, file := range files {
		previews[i] = models.ExportFilePreview{
			Filename:    file.Filename,
			RowCount:    file.RowCount,
			PreviewText: previewText(file.Content),
		}
	}
	return models.ExportPreview{Files: previews}, nil
}

func previewText(content []byte) string {
	lines := strings.SplitAfter(string(content), "\n")
	if len(lines) <= previewMaxLines {
		return string(content)
	}
	return strings.Join(lines[:previewMaxLines], "")
}

// Export generates the bulk-edit artifact for an approved change set, uploads
// it, and moves the change set and every member decision to exported in one
// transaction. Either the whole cascade lands or nothing does.
func (usecase ExportUsecase) Export(ctx context.Context, changeSetId string) (models.ChangeSet, error) {
	exec := usecase.executorFactory.NewExecutor()

	changeSet, err := usecase.repository.GetChangeSetById(ctx, exec, changeSetId)
	if err != nil {
		return models.ChangeSet{}, err
	}
	if changeSet.Status != models.ChangeSetStatusApproved {
		return models.ChangeSet{}, errors.WithDetail(models.ErrChangeSetNotApproved,
			fmt.Sprintf("change set %s is %s", changeSetId, changeSet.Status))
	}

	decisions, err := usecase.repository.ListChangeSetDecisions(ctx, exec, changeSetId)
	if err != nil {
		return models.ChangeSet{}, err
	}
	if len(decisions) == 0 {
		return models.ChangeSet{}, errors.WithDetail(models.ErrChangeSetEmpty,
			fmt.Sprintf("change set %s has no current decisions to export", changeSetId))
	}

	files, err := models.BuildExportFiles(decisions)
	if err != nil {
		return models.ChangeSet{}, err
	}
	exportHash := models.ExportContentHash(files)
	manifest := pureManifest(files)

	artifactKey := models.ExportArtifactKey(changeSetId)
	if err := usecase.uploadArtifact(ctx, artifactKey, files); err != nil {
		return models.ChangeSet{}, err
	}

	// one clock read, so the change set and its members carry the same stamp
	exportedAt := time.Now()

	err = usecase.transactionFactory.Transaction(ctx, func(tx repositories.Transaction) error {
		marked, err := usecase.repository.MarkChangeSetExported(ctx, tx, changeSetId, manifest, exportHash, exportedAt)
		if err != nil {
			return err
		}
		if marked == 0 {
			return errors.Wrap(models.ConflictError,
				fmt.Sprintf("change set %s was concurrently exported", changeSetId))
		}

		moved, err := usecase.repository.UpdateChangeSetDecisionsStatus(ctx, tx, changeSetId,
			[]models.DecisionStatus{models.DecisionStatusDraft, models.DecisionStatusApproved},
			models.DecisionStatusExported, exportedAt)
		if err != nil {
			return err
		}
		if moved != int64(len(decisions)) {
			return errors.WithDetail(models.ErrExportCascadeFailed,
				fmt.Sprintf("expected %d decisions to move to exported, moved %d", len(decisions), moved))
		}
		return nil
	})
	if err != nil {
		// The artifact must not outlive a failed cascade, or a later retry
		// would find a stale file for a change set still marked approved.
		if deleteErr := usecase.blobRepository.DeleteFile(ctx, usecase.bucketUrl, artifactKey); deleteErr != nil {
			utils.LoggerFromContext(ctx).WarnContext(ctx,
				"failed to clean up export artifact after aborted cascade",
				"change_set_id", changeSetId, "error", deleteErr.Error())
		}
		return models.ChangeSet{}, err
	}

	return usecase.repository.GetChangeSetById(ctx, exec, changeSetId)
}

func pureManifest(files []models.BuiltExportFile) []models.ExportFile {
	manifest := make([]models.ExportFile, len(files))
	for i, file := range files {
		manifest[i] = file.Manifest()
	}
	return manifest
}

func (usecase ExportUsecase) uploadArtifact(
	ctx context.Context,
	artifactKey string,
	files []models.BuiltExportFile,
) error {
	var buf bytes.Buffer
	archive := zip.NewWriter(&buf)
	for _, file := range files {
		entry, err := archive.Create(file.Filename)
		if err != nil {
			return errors.Wrapf(err, "creating archive entry %s", file.Filename)
		}
		if _, err := entry.Write(file.Content); err != nil {
			return errors.Wrapf(err, "writing archive entry %s", file.Filename)
		}
	}
	if err := archive.Close(); err != nil {
		return errors.Wrap(err, "closing export archive")
	}

	stream, err := usecase.blobRepository.OpenStream(ctx, usecase.bucketUrl, artifactKey)
	if err != nil {
		return err
	}
	if _, err := stream.Write(buf.Bytes()); err != nil {
		stream.Close()
		return errors.Wrapf(err, "uploading export artifact %s", artifactKey)
	}
	return errors.Wrapf(stream.Close(), "finalizing export artifact %s", artifactKey)
}

// DownloadExport streams the stored artifact. It never regenerates files: the
// recorded export stays byte for byte what the hash was computed on.
func (usecase ExportUsecase) DownloadExport(ctx context.Context, changeSetId string) (models.ChangeSet, models.Blob, error) {
	exec := usecase.executorFactory.NewExecutor()

	changeSet, err := usecase.repository.GetChangeSetById(ctx, exec, changeSetId)
	if err != nil {
		return models.ChangeSet{}, models.Blob{}, err
	}
	if changeSet.Status != models.ChangeSetStatusExported && changeSet.Status != models.ChangeSetStatusApplied {
		return models.ChangeSet{}, models.Blob{}, errors.WithDetail(models.ErrChangeSetNotExported,
			fmt.Sprintf("change set %s is %s", changeSetId, changeSet.Status))
	}

	blob, err := usecase.blobRepository.GetBlob(ctx, usecase.bucketUrl, models.ExportArtifactKey(changeSetId))
	if err != nil {
		return models.ChangeSet{}, models.Blob{}, err
	}
	return changeSet, blob, nil
}

// MarkApplied records that the exported change set was uploaded to the ads
// platform. The transition cascades to every member decision.
func (usecase ExportUsecase) MarkApplied(ctx context.Context, changeSetId string) (models.ChangeSet, error) {
	return executor_factory.TransactionReturnValue(ctx, usecase.transactionFactory,
		func(tx repositories.Transaction) (models.ChangeSet, error) {
			changeSet, err := usecase.repository.GetChangeSetById(ctx, tx, changeSetId)
			if err != nil {
				return models.ChangeSet{}, err
			}
			if changeSet.Status != models.ChangeSetStatusExported {
				return models.ChangeSet{}, errors.WithDetail(models.ErrChangeSetNotExported,
					fmt.Sprintf("change set %s is %s", changeSetId, changeSet.Status))
			}

			decisions, err := usecase.repository.ListChangeSetDecisions(ctx, tx, changeSetId)
			if err != nil {
				return models.ChangeSet{}, err
			}

			appliedAt := time.Now()
			marked, err := usecase.repository.MarkChangeSetApplied(ctx, tx, changeSetId, appliedAt)
			if err != nil {
				return models.ChangeSet{}, err
			}
			if marked == 0 {
				return models.ChangeSet{}, errors.Wrap(models.ConflictError,
					fmt.Sprintf("change set %s was concurrently modified", changeSetId))
			}

			moved, err := usecase.repository.UpdateChangeSetDecisionsStatus(ctx, tx, changeSetId,
				[]models.DecisionStatus{models.DecisionStatusExported},
				models.DecisionStatusApplied, appliedAt)
			if err != nil {
				return models.ChangeSet{}, err
			}
			if moved != int64(len(decisions)) {
				return models.ChangeSet{}, errors.WithDetail(models.IntegrityError,
					fmt.Sprintf("expected %d decisions to move to applied, moved %d", len(decisions), moved))
			}

			return usecase.repository.GetChangeSetById(ctx, tx, changeSetId)
		})
}
