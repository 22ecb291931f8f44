// Package fetch resolves media locators into bytes. Supported locators are
// local paths, file://, http(s)://, s3://bucket/key and data: URLs.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gabriel-vasile/mimetype"
	"github.com/vincent-petithory/dataurl"

	"github.com/user/framesnap/pkg/adapters/s3filesystem"
	"github.com/user/framesnap/pkg/ports"
)

var (
	// ErrUnsupportedScheme is returned for locators with an unknown scheme.
	ErrUnsupportedScheme = errors.New("fetch: unsupported locator scheme")
	// ErrRequestFailed is returned when an HTTP request ends with a non-2xx status.
	ErrRequestFailed = errors.New("fetch: request failed")
	// ErrTooLarge is returned when a resource exceeds the configured size limit.
	ErrTooLarge = errors.New("fetch: resource too large")
)

// S3Config configures access to s3:// locators. Output and input share
// the same client settings.
type S3Config = s3filesystem.Config

// s3API is the subset of the S3 client used by Fetcher.
type s3API interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// Fetcher reads media from the locations named by locators.
type Fetcher struct {
	httpClient *http.Client
	maxBytes   int64
	s3Config   S3Config

	s3Once   sync.Once
	s3Client s3API
	s3Err    error
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(f *Fetcher) {
		f.httpClient = c
	}
}

// WithS3Config sets the configuration used to create the S3 client on first use.
func WithS3Config(cfg S3Config) Option {
	return func(f *Fetcher) {
		f.s3Config = cfg
	}
}

// WithMaxBytes limits the size of fetched resources. Zero means no limit.
func WithMaxBytes(n int64) Option {
	return func(f *Fetcher) {
		f.maxBytes = n
	}
}

// withS3Client injects an S3 client.
func withS3Client(c s3API) Option {
	return func(f *Fetcher) {
		f.s3Once.Do(func() {})
		f.s3Client = c
	}
}

// New creates a Fetcher.
func New(opts ...Option) *Fetcher {
	f := &Fetcher{
		httpClient: &http.Client{Timeout: 5 * time.Minute},
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch returns the bytes behind locator.
func (f *Fetcher) Fetch(ctx context.Context, locator string) ([]byte, error) {
	if strings.HasPrefix(locator, "data:") {
		du, err := dataurl.DecodeString(locator)
		if err != nil {
			return nil, fmt.Errorf("decode data url: %w", err)
		}
		return du.Data, nil
	}

	if isLocalPath(locator) {
		return f.readFile(locator)
	}

	u, err := url.Parse(locator)
	if err != nil {
		return nil, fmt.Errorf("parse locator: %w", err)
	}

	switch strings.ToLower(u.Scheme) {
	case "http", "https":
		return f.fetchHTTP(ctx, u.String())
	case "s3":
		return f.fetchS3(ctx, u.Host, strings.TrimPrefix(u.Path, "/"))
	case "file":
		return f.readFile(filePath(u))
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedScheme, u.Scheme)
	}
}

// DataURL returns the resource behind locator as a data URL with a sniffed
// media type. Data URLs are returned unchanged.
func (f *Fetcher) DataURL(ctx context.Context, locator string) (string, error) {
	if strings.HasPrefix(locator, "data:") {
		return locator, nil
	}
	data, err := f.Fetch(ctx, locator)
	if err != nil {
		return "", err
	}
	return dataurl.New(data, ContentType(data)).String(), nil
}

// ContentType sniffs the media type of data, without parameters.
func ContentType(data []byte) string {
	mt := mimetype.Detect(data).String()
	if i := strings.IndexByte(mt, ';'); i >= 0 {
		mt = mt[:i]
	}
	return mt
}

// IsRemote reports whether the browser can load locator by itself.
func IsRemote(locator string) bool {
	u, err := url.Parse(locator)
	if err != nil {
		return false
	}
	switch strings.ToLower(u.Scheme) {
	case "http", "https", "data", "blob":
		return true
	}
	return false
}

func (f *Fetcher) readFile(path string) ([]byte, error) {
	if f.maxBytes > 0 {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", path, err)
		}
		if info.Size() > f.maxBytes {
			return nil, fmt.Errorf("%w: %s is %d bytes", ErrTooLarge, path, info.Size())
		}
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return data, nil
}

func (f *Fetcher) fetchHTTP(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: %s returned status %d", ErrRequestFailed, rawURL, resp.StatusCode)
	}
	return f.readAll(resp.Body, rawURL)
}

func (f *Fetcher) fetchS3(ctx context.Context, bucket, key string) ([]byte, error) {
	if bucket == "" || key == "" {
		return nil, fmt.Errorf("%w: s3 locator needs a bucket and a key", ErrUnsupportedScheme)
	}

	client, err := f.s3()
	if err != nil {
		return nil, err
	}

	out, err := client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("get s3://%s/%s: %w", bucket, key, err)
	}
	defer out.Body.Close()

	return f.readAll(out.Body, "s3://"+bucket+"/"+key)
}

// s3 creates the S3 client on first use.
func (f *Fetcher) s3() (s3API, error) {
	f.s3Once.Do(func() {
		client, err := s3filesystem.NewClient(context.Background(), f.s3Config)
		if err != nil {
			f.s3Err = err
			return
		}
		f.s3Client = client
	})
	return f.s3Client, f.s3Err
}

func (f *Fetcher) readAll(r io.Reader, name string) ([]byte, error) {
	if f.maxBytes > 0 {
		r = io.LimitReader(r, f.maxBytes+1)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	if f.maxBytes > 0 && int64(len(data)) > f.maxBytes {
		return nil, fmt.Errorf("%w: %s exceeds %d bytes", ErrTooLarge, name, f.maxBytes)
	}
	return data, nil
}

// isLocalPath reports whether locator is a plain filesystem path, including
// Windows drive paths such as C:\videos\a.mp4.
func isLocalPath(locator string) bool {
	if filepath.IsAbs(locator) || strings.HasPrefix(locator, ".") {
		return true
	}
	if len(locator) >= 2 && locator[1] == ':' && isLetter(locator[0]) {
		return len(locator) == 2 || locator[2] == '\\' || locator[2] == '/'
	}
	return !strings.Contains(locator, "://")
}

// filePath converts a file:// URL to a filesystem path.
func filePath(u *url.URL) string {
	p := u.Path
	if len(p) >= 3 && p[0] == '/' && p[2] == ':' && isLetter(p[1]) {
		p = p[1:]
	}
	if u.Host != "" && u.Host != "localhost" {
		p = "//" + u.Host + p
	}
	return filepath.FromSlash(p)
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

var _ ports.Fetcher = (*Fetcher)(nil)
