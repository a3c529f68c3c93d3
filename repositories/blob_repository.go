package repositories

import (
	"context"
	"io"
	"sync"

	"github.com/cockroachdb/errors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gocloud.dev/blob"
	_ "gocloud.dev/blob/fileblob"
	_ "gocloud.dev/blob/gcsblob"
	_ "gocloud.dev/blob/memblob"
	_ "gocloud.dev/blob/s3blob"

	"github.com/adaudit/adaudit-backend/models"
)

const tracerName = "github.com/adaudit/adaudit-backend"

// BlobRepository stores export artifacts. Bucket urls follow the gocloud.dev
// convention (file://, mem://, gs://, s3://).
type BlobRepository interface {
	GetBlob(ctx context.Context, bucketUrl, fileName string) (models.Blob, error)
	OpenStream(ctx context.Context, bucketUrl, fileName string) (io.WriteCloser, error)
	DeleteFile(ctx context.Context, bucketUrl, fileName string) error
}

type blobRepository struct {
	buckets map[string]*blob.Bucket
	m       sync.Mutex
}

func NewBlobRepository() BlobRepository {
	return &blobRepository{
		buckets: make(map[string]*blob.Bucket),
	}
}

func (repository *blobRepository) openBlobBucket(ctx context.Context, bucketUrl string) (*blob.Bucket, error) {
	tracer := otel.Tracer(tracerName)
	ctx, span := tracer.Start(
		ctx,
		"repositories.BlobRepository.openBlobBucket",
		trace.WithAttributes(attribute.String("bucket", bucketUrl)),
	)
	defer span.End()

	repository.m.Lock()
	defer repository.m.Unlock()

	if repository.buckets[bucketUrl] == nil {
		bucket, err := blob.OpenBucket(ctx, bucketUrl)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to open bucket %s", bucketUrl)
		}
		repository.buckets[bucketUrl] = bucket
	}

	return repository.buckets[bucketUrl], nil
}

func (repository *blobRepository) GetBlob(ctx context.Context, bucketUrl, fileName string) (models.Blob, error) {
	bucket, err := repository.openBlobBucket(ctx, bucketUrl)
	if err != nil {
		return models.Blob{}, err
	}

	reader, err := bucket.NewReader(ctx, fileName, nil)
	if err != nil {
		return models.Blob{}, errors.Wrapf(err, "failed to read blob %s from bucket %s", fileName, bucketUrl)
	}

	return models.Blob{
		FileName:   fileName,
		ReadCloser: reader,
	}, nil
}

func (repository *blobRepository) OpenStream(ctx context.Context, bucketUrl, fileName string) (io.WriteCloser, error) {
	bucket, err := repository.openBlobBucket(ctx, bucketUrl)
	if err != nil {
		return nil, err
	}

	writer, err := bucket.NewWriter(ctx, fileName, nil)
	return writer, errors.Wrapf(err, "failed to open writer on %s in bucket %s", fileName, bucketUrl)
}

func (repository *blobRepository) DeleteFile(ctx context.Context, bucketUrl, fileName string) error {
	bucket, err := repository.openBlobBucket(ctx, bucketUrl)
	if err != nil {
		return err
	}

	return errors.Wrapf(bucket.Delete(ctx, fileName),
		"failed to delete blob %s from bucket %s", fileName, bucketUrl)
}
