// Package s3filesystem stores output files as objects in an S3 bucket.
package s3filesystem

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/gabriel-vasile/mimetype"

	"github.com/user/framesnap/pkg/ports"
)

// Scheme prefixes output locations stored in S3.
const Scheme = "s3://"

// Config holds the S3 client settings.
type Config struct {
	Region          string
	Endpoint        string // Optional: for custom S3-compatible endpoints
	AccessKeyID     string
	SecretAccessKey string
}

// ObjectAPI is the subset of the S3 client used by FileSystem.
type ObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// FileSystem implements ports.FileSystem on top of one bucket. Paths are
// object keys; directories do not exist in S3, so MkdirAll does nothing.
type FileSystem struct {
	client ObjectAPI
	bucket string
}

// New creates a FileSystem for bucket.
func New(client ObjectAPI, bucket string) *FileSystem {
	return &FileSystem{client: client, bucket: bucket}
}

// NewClient builds an S3 client. Static credentials are used only when
// both keys are given; otherwise the default AWS chain applies.
func NewClient(ctx context.Context, cfg Config) (*s3.Client, error) {
	var configOpts []func(*config.LoadOptions) error
	if cfg.Region != "" {
		configOpts = append(configOpts, config.WithRegion(cfg.Region))
	}
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		configOpts = append(configOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, configOpts...)
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}

	var clientOpts []func(*s3.Options)
	if cfg.Endpoint != "" {
		clientOpts = append(clientOpts, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		})
	}
	return s3.NewFromConfig(awsCfg, clientOpts...), nil
}

// ParseLocation splits "s3://bucket/prefix" into its bucket and key prefix.
// The prefix is "." when the location names only a bucket.
func ParseLocation(location string) (bucket, prefix string, ok bool) {
	rest, found := strings.CutPrefix(location, Scheme)
	if !found {
		return "", "", false
	}
	bucket, prefix, _ = strings.Cut(rest, "/")
	if bucket == "" {
		return "", "", false
	}
	prefix = strings.Trim(prefix, "/")
	if prefix == "" {
		prefix = "."
	}
	return bucket, prefix, true
}

// IsLocation reports whether location names an S3 bucket.
func IsLocation(location string) bool {
	_, _, ok := ParseLocation(location)
	return ok
}

func (f *FileSystem) key(p string) string {
	k := path.Clean(filepath.ToSlash(p))
	if k == "." {
		return ""
	}
	return strings.TrimPrefix(k, "/")
}

func (f *FileSystem) ReadFile(ctx context.Context, p string) ([]byte, error) {
	key := f.key(p)
	out, err := f.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(f.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("s3://%s/%s: %w", f.bucket, key, fs.ErrNotExist)
		}
		return nil, fmt.Errorf("get s3://%s/%s: %w", f.bucket, key, err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("read s3://%s/%s: %w", f.bucket, key, err)
	}
	return data, nil
}

// WriteFile uploads data as one object with a content type sniffed from
// the data.
func (f *FileSystem) WriteFile(ctx context.Context, p string, data []byte) error {
	key := f.key(p)
	if key == "" {
		return fmt.Errorf("write s3://%s: empty key", f.bucket)
	}
	_, err := f.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(f.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
		ContentType:   aws.String(contentType(key, data)),
	})
	if err != nil {
		return fmt.Errorf("upload s3://%s/%s: %w", f.bucket, key, err)
	}
	return nil
}

func (f *FileSystem) MkdirAll(ctx context.Context, p string) error {
	return ctx.Err()
}

func (f *FileSystem) Exists(ctx context.Context, p string) (bool, error) {
	key := f.key(p)
	if key == "" {
		return true, nil
	}
	_, err := f.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(f.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		if isNotFound(err) {
			return false, nil
		}
		return false, fmt.Errorf("head s3://%s/%s: %w", f.bucket, key, err)
	}
	return true, nil
}

// Remove deletes an object. Deleting a missing key succeeds in S3.
func (f *FileSystem) Remove(ctx context.Context, p string) error {
	key := f.key(p)
	if key == "" {
		return nil
	}
	_, err := f.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(f.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("delete s3://%s/%s: %w", f.bucket, key, err)
	}
	return nil
}

func isNotFound(err error) bool {
	var notFound *types.NotFound
	var noSuchKey *types.NoSuchKey
	return errors.As(err, &notFound) || errors.As(err, &noSuchKey)
}

// contentType prefers the extension for text formats, which sniffing
// reports as plain text.
func contentType(key string, data []byte) string {
	switch path.Ext(key) {
	case ".json":
		return "application/json"
	case ".md":
		return "text/markdown; charset=utf-8"
	}
	return mimetype.Detect(data).String()
}

var _ ports.FileSystem = (*FileSystem)(nil)
