package storage

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// S3Options locate the bucket uploads go to.
type S3Options struct {
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	BucketName      string
	Region          string
	Prefix          string
	UseSSL          bool
}

// S3Sink uploads artifacts to an S3 compatible bucket.
type S3Sink struct {
	client *minio.Client
	opts   S3Options
	log    log.FieldLogger
}

// NewS3Sink creates a minio client for opts. No request is made until
// EnsureBucket or Put is called.
func NewS3Sink(opts S3Options, logger log.FieldLogger) (*S3Sink, error) {
	if opts.Endpoint == "" || opts.BucketName == "" {
		return nil, errors.New("s3 endpoint and bucket name are required")
	}
	if opts.Region == "" {
		opts.Region = "us-east-1"
	}
	if logger == nil {
		logger = log.StandardLogger()
	}

	client, err := minio.New(opts.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(opts.AccessKeyID, opts.SecretAccessKey, ""),
		Secure: opts.UseSSL,
		Region: opts.Region,
	})
	if err != nil {
		return nil, errors.Wrap(err, "create s3 client")
	}
	return &S3Sink{client: client, opts: opts, log: logger}, nil
}

// EnsureBucket creates the bucket when it does not exist.
func (s *S3Sink) EnsureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.opts.BucketName)
	if err != nil {
		return errors.Wrapf(err, "check bucket %s", s.opts.BucketName)
	}
	if exists {
		return nil
	}

	err = s.client.MakeBucket(ctx, s.opts.BucketName, minio.MakeBucketOptions{Region: s.opts.Region})
	if err != nil {
		return errors.Wrapf(err, "create bucket %s", s.opts.BucketName)
	}
	s.log.WithField("bucket", s.opts.BucketName).Info("storage.s3.bucket_created")
	return nil
}

// Put uploads data under the configured prefix and returns its s3:// location.
func (s *S3Sink) Put(ctx context.Context, name string, data []byte) (string, error) {
	key := ObjectKey(s.opts.Prefix, name)
	info, err := s.client.PutObject(ctx, s.opts.BucketName, key, bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: ContentType(name)})
	if err != nil {
		s.log.WithError(err).WithField("key", key).Error("storage.s3.put_failed")
		return "", errors.Wrapf(err, "upload %s", key)
	}

	s.log.WithFields(log.Fields{"bucket": info.Bucket, "key": info.Key, "size": info.Size}).Info("storage.s3.put")
	return fmt.Sprintf("s3://%s/%s", s.opts.BucketName, key), nil
}

// ObjectKey joins prefix and name into an object key.
func ObjectKey(prefix, name string) string {
	prefix = strings.Trim(prefix, "/")
	name = strings.TrimLeft(name, "/")
	if prefix == "" {
		return name
	}
	return path.Join(prefix, name)
}
