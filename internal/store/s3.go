package store

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"

	"github.com/shreyas463/OpportunityMailer/internal/core"
)

// S3Config holds object-storage backend settings.
type S3Config struct {
	// Region is the AWS region of the bucket.
	Region string

	// Bucket is the bucket holding template documents.
	Bucket string

	// Prefix namespaces template keys, e.g. "templates/".
	Prefix string

	// Endpoint overrides the S3 endpoint for S3-compatible stores (optional).
	Endpoint string

	// AccessKey and SecretKey configure static credentials (optional;
	// the default AWS credential chain is used when empty).
	AccessKey string
	SecretKey string

	// PathStyle forces path-style addressing, needed by some S3-compatible stores.
	PathStyle bool
}

// S3 is a Backend storing one JSON object per template at <prefix><name>.json.
type S3 struct {
	client *s3.Client
	bucket string
	prefix string
}

// NewS3 creates an object-storage backend from the given configuration.
func NewS3(cfg S3Config) (*S3, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("s3 bucket name is required")
	}

	opts := []func(*s3.Options){
		func(o *s3.Options) {
			o.Region = cfg.Region
			if cfg.AccessKey != "" {
				o.Credentials = credentials.NewStaticCredentialsProvider(
					cfg.AccessKey,
					cfg.SecretKey,
					"",
				)
			}
		},
	}

	if cfg.Endpoint != "" {
		opts = append(opts, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = cfg.PathStyle
		})
	}

	return &S3{
		client: s3.New(s3.Options{}, opts...),
		bucket: cfg.Bucket,
		prefix: cfg.Prefix,
	}, nil
}

func (s *S3) key(name string) string {
	return s.prefix + name + ".json"
}

// wrapS3Error converts an S3 failure into the store error taxonomy.
// Missing keys map to StoreNotFound; everything else is a transient
// StoreBackendUnavailable eligible for the pipeline's retry policy.
func wrapS3Error(name string, err error) error {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NoSuchKey", "NotFound":
			return core.NewStoreNotFoundError(name)
		}
	}

	var notFound *types.NoSuchKey
	if errors.As(err, &notFound) {
		return core.NewStoreNotFoundError(name)
	}

	return core.NewStoreBackendError(name, err)
}

// Get fetches and decodes the template object for name.
func (s *S3) Get(ctx context.Context, name string) (*core.Template, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(name)),
	})
	if err != nil {
		return nil, wrapS3Error(name, err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, core.NewStoreBackendError(name, err)
	}

	var tmpl core.Template
	if err := json.Unmarshal(data, &tmpl); err != nil {
		return nil, core.NewStoreBackendError(name, fmt.Errorf("corrupt template document: %w", err))
	}
	return &tmpl, nil
}

// Put uploads the template document, overwriting any existing object.
func (s *S3) Put(ctx context.Context, tmpl *core.Template) error {
	data, err := json.MarshalIndent(tmpl, "", "  ")
	if err != nil {
		return core.NewStoreBackendError(tmpl.Name, err)
	}

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(s.key(tmpl.Name)),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return wrapS3Error(tmpl.Name, err)
	}
	return nil
}

// List fetches every template document under the prefix.
// Corrupt documents are skipped rather than failing the listing.
func (s *S3) List(ctx context.Context) ([]*core.Template, error) {
	var out []*core.Template

	paginator := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(s.prefix),
	})

	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, wrapS3Error("", err)
		}
		for _, obj := range page.Contents {
			key := aws.ToString(obj.Key)
			if !strings.HasSuffix(key, ".json") {
				continue
			}
			name := strings.TrimSuffix(strings.TrimPrefix(key, s.prefix), ".json")
			tmpl, err := s.Get(ctx, name)
			if err != nil {
				continue
			}
			out = append(out, tmpl)
		}
	}
	return out, nil
}

// Delete removes the template object for name.
// The existence check keeps delete-of-missing distinguishable from success,
// since S3 DeleteObject succeeds on absent keys.
func (s *S3) Delete(ctx context.Context, name string) error {
	_, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(name)),
	})
	if err != nil {
		return wrapS3Error(name, err)
	}

	_, err = s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(name)),
	})
	if err != nil {
		return wrapS3Error(name, err)
	}
	return nil
}
