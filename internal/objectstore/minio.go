package objectstore

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/minio/minio-go/v7"
)

type minioClient interface {
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
	RemoveObject(ctx context.Context, bucketName, objectName string, opts minio.RemoveObjectOptions) error
	ListObjects(ctx context.Context, bucketName string, opts minio.ListObjectsOptions) <-chan minio.ObjectInfo
	BucketExists(ctx context.Context, bucketName string) (bool, error)
}

// MinIOStore adapts minio.Client to the Gateway interface.
type MinIOStore struct {
	client minioClient
	bucket string
}

// NewMinIOStore constructs an adapter bound to one bucket.
func NewMinIOStore(client minioClient, bucket string) *MinIOStore {
	return &MinIOStore{client: client, bucket: bucket}
}

func (s *MinIOStore) Put(ctx context.Context, key string, body []byte, contentType string) error {
	_, err := s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(body), int64(len(body)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return fmt.Errorf("put object %q: %w", key, err)
	}
	return nil
}

func (s *MinIOStore) Delete(ctx context.Context, key string) error {
	if err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("remove object %q: %w", key, err)
	}
	return nil
}

// List drains the listing channel. MinIO only groups on "/", so any other
// non-empty delimiter is rejected; an empty delimiter lists recursively.
func (s *MinIOStore) List(ctx context.Context, prefix, delimiter string) (Listing, error) {
	if delimiter != "" && delimiter != DefaultDelimiter {
		return Listing{}, ErrUnsupportedDelimiter
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var listing Listing
	for obj := range s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{
		Prefix:    prefix,
		Recursive: delimiter == "",
	}) {
		if obj.Err != nil {
			return Listing{}, fmt.Errorf("list objects %q: %w", prefix, obj.Err)
		}
		// common prefixes arrive as bare keys without an etag
		if obj.ETag == "" && strings.HasSuffix(obj.Key, DefaultDelimiter) {
			listing.CommonPrefixes = append(listing.CommonPrefixes, obj.Key)
			continue
		}
		listing.Objects = append(listing.Objects, ObjectInfo{
			Key:        obj.Key,
			Size:       obj.Size,
			UploadedAt: obj.LastModified,
		})
	}
	return listing, nil
}

func (s *MinIOStore) Ping(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("check bucket: %w", err)
	}
	if !exists {
		return fmt.Errorf("bucket %q does not exist", s.bucket)
	}
	return nil
}
