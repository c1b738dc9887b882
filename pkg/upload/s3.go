package upload

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// S3API is the subset of the S3 client used by S3Store.
type S3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
	s3.ListObjectsV2APIClient
}

// S3Store stages content in an S3 bucket.
//
// Example usage:
//
//	client := upload.NewS3Client(upload.S3ClientOptions{Region: "us-east-1"})
//	store := upload.NewS3Store(client, "my-bucket", "dropzone/", 50<<20)
type S3Store struct {
	client  S3API
	bucket  string
	prefix  string
	maxSize int64

	mu      sync.RWMutex
	objects map[string]time.Time
}

// NewS3Store creates a new S3 staging store.
//
// Parameters:
//   - client: S3 client from aws-sdk-go-v2
//   - bucket: S3 bucket name
//   - prefix: Key prefix for staged objects (e.g., "dropzone/staging/")
//   - maxSize: Maximum file size in bytes (0 = no limit)
func NewS3Store(client S3API, bucket, prefix string, maxSize int64) *S3Store {
	return &S3Store{
		client:  client,
		bucket:  bucket,
		prefix:  prefix,
		maxSize: maxSize,
		objects: make(map[string]time.Time),
	}
}

// S3ClientOptions configures NewS3Client.
type S3ClientOptions struct {
	Region string

	// Endpoint overrides the service endpoint (MinIO, localstack).
	Endpoint string

	// UsePathStyle addresses buckets as path segments instead of hosts.
	UsePathStyle bool

	AccessKeyID     string
	SecretAccessKey string
}

// NewS3Client builds an S3 client from static options.
func NewS3Client(opts S3ClientOptions) *s3.Client {
	o := s3.Options{
		Region:       opts.Region,
		UsePathStyle: opts.UsePathStyle,
	}
	if opts.Endpoint != "" {
		o.BaseEndpoint = aws.String(opts.Endpoint)
	}
	if opts.AccessKeyID != "" {
		key, secret := opts.AccessKeyID, opts.SecretAccessKey
		o.Credentials = aws.NewCredentialsCache(aws.CredentialsProviderFunc(
			func(context.Context) (aws.Credentials, error) {
				return aws.Credentials{
					AccessKeyID:     key,
					SecretAccessKey: secret,
					Source:          "dropzone",
				}, nil
			}))
	}
	return s3.New(o)
}

// Save uploads the content to the bucket.
func (s *S3Store) Save(ctx context.Context, filename, contentType string, r io.Reader) (*File, error) {
	sniffed, r, err := sniff(filename, r)
	if err != nil {
		return nil, err
	}
	if contentType == "" {
		contentType = sniffed
	}

	// PutObject needs a seekable body, so buffer the file.
	var buf bytes.Buffer
	if _, err := copyLimited(&buf, r, s.maxSize); err != nil {
		return nil, err
	}

	id := generateID()
	now := time.Now()

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(s.key(id)),
		Body:        bytes.NewReader(buf.Bytes()),
		ContentType: aws.String(contentType),
		Metadata: map[string]string{
			"original-filename": filename,
			"staged-at":         now.UTC().Format(time.RFC3339),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("s3 put %s: %w", id, err)
	}

	s.mu.Lock()
	s.objects[id] = now
	s.mu.Unlock()

	f := NewFile(s, id, filename, contentType, int64(buf.Len()))
	f.CreatedAt = now
	return f, nil
}

// Open streams the staged object.
func (s *S3Store) Open(ctx context.Context, id string) (io.ReadCloser, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(id)),
	})
	if err != nil {
		var nsk *types.NoSuchKey
		if errors.As(err, &nsk) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("s3 get %s: %w", id, err)
	}
	return out.Body, nil
}

// Delete removes the staged object.
func (s *S3Store) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	delete(s.objects, id)
	s.mu.Unlock()

	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(id)),
	})
	if err != nil {
		return fmt.Errorf("s3 delete %s: %w", id, err)
	}
	return nil
}

// Cleanup removes objects under the prefix older than maxAge.
func (s *S3Store) Cleanup(ctx context.Context, maxAge time.Duration) error {
	cutoff := time.Now().Add(-maxAge)

	paginator := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(s.prefix),
	})

	var expired []string
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return err
		}
		for _, obj := range page.Contents {
			if obj.Key != nil && obj.LastModified != nil && obj.LastModified.Before(cutoff) {
				expired = append(expired, *obj.Key)
			}
		}
	}

	for _, key := range expired {
		if _, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
			Bucket: aws.String(s.bucket),
			Key:    aws.String(key),
		}); err != nil {
			return fmt.Errorf("s3 delete %s: %w", key, err)
		}
		s.mu.Lock()
		delete(s.objects, key[len(s.prefix):])
		s.mu.Unlock()
	}

	return nil
}

func (s *S3Store) key(id string) string {
	return s.prefix + id
}
