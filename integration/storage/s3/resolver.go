package s3

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	s3aws "github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/dmitrymomot/staticserve/core/static"
)

// Compile-time check that Resolver implements static.Resolver.
var _ static.Resolver = (*Resolver)(nil)

// S3Client defines the S3 operations used by Resolver.
type S3Client interface {
	HeadObject(ctx context.Context, params *s3aws.HeadObjectInput, optFns ...func(*s3aws.Options)) (*s3aws.HeadObjectOutput, error)
	GetObject(ctx context.Context, params *s3aws.GetObjectInput, optFns ...func(*s3aws.Options)) (*s3aws.GetObjectOutput, error)
	ListObjectsV2(ctx context.Context, params *s3aws.ListObjectsV2Input, optFns ...func(*s3aws.Options)) (*s3aws.ListObjectsV2Output, error)
}

// Config contains configuration for the S3 resolver.
type Config struct {
	Bucket         string `env:"S3_BUCKET"`
	Region         string `env:"S3_REGION" envDefault:"us-east-1"`
	AccessKeyID    string `env:"S3_ACCESS_KEY_ID"`
	SecretKey      string `env:"S3_SECRET_KEY"`
	Endpoint       string `env:"S3_ENDPOINT"`                             // For S3-compatible services like MinIO, Wasabi
	ForcePathStyle bool   `env:"S3_FORCE_PATH_STYLE" envDefault:"false"` // Required for MinIO and some S3-compatible services
	Prefix         string `env:"S3_PREFIX"`                               // Key prefix acting as the document root
}

// Option configures a Resolver.
type Option func(*options)

type options struct {
	httpClient      *http.Client
	s3Client        S3Client
	s3ConfigOptions []func(*config.LoadOptions) error
	s3ClientOptions []func(*s3aws.Options)
}

// WithS3Client sets a custom pre-configured S3 client.
// Primarily used for testing with mocks, but also allows advanced client customization.
func WithS3Client(client S3Client) Option {
	return func(o *options) {
		o.s3Client = client
	}
}

// WithHTTPClient sets a custom HTTP client for S3 requests.
func WithHTTPClient(client *http.Client) Option {
	return func(o *options) {
		o.httpClient = client
	}
}

// WithS3ConfigOption adds a custom AWS config option.
func WithS3ConfigOption(option func(*config.LoadOptions) error) Option {
	return func(o *options) {
		o.s3ConfigOptions = append(o.s3ConfigOptions, option)
	}
}

// WithS3ClientOption adds a custom S3 client option.
func WithS3ClientOption(option func(*s3aws.Options)) Option {
	return func(o *options) {
		o.s3ClientOptions = append(o.s3ClientOptions, option)
	}
}

// Resolver serves objects of an S3 bucket as files. Object keys map to request
// paths below the configured prefix; key prefixes act as directories.
// Safe for concurrent use.
type Resolver struct {
	client S3Client
	bucket string
	prefix string
}

// New creates an S3 resolver.
// Credentials fall back to the default AWS chain (env, shared config, IAM role)
// when no static keys are configured.
func New(ctx context.Context, cfg Config, opts ...Option) (*Resolver, error) {
	if cfg.Bucket == "" || cfg.Region == "" {
		return nil, ErrInvalidConfig
	}

	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	client := o.s3Client
	if client == nil {
		awsOptions := []func(*config.LoadOptions) error{
			config.WithRegion(cfg.Region),
		}

		if cfg.AccessKeyID != "" && cfg.SecretKey != "" {
			awsOptions = append(awsOptions,
				config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
					cfg.AccessKeyID,
					cfg.SecretKey,
					"",
				)),
			)
		}

		if o.httpClient != nil {
			awsOptions = append(awsOptions, config.WithHTTPClient(o.httpClient))
		}

		awsOptions = append(awsOptions, o.s3ConfigOptions...)

		awsConfig, err := config.LoadDefaultConfig(ctx, awsOptions...)
		if err != nil {
			return nil, fmt.Errorf("failed to load AWS config: %w", err)
		}

		client = s3aws.NewFromConfig(awsConfig, func(so *s3aws.Options) {
			if cfg.Endpoint != "" {
				so.BaseEndpoint = aws.String(cfg.Endpoint)
			}
			so.UsePathStyle = cfg.ForcePathStyle

			for _, opt := range o.s3ClientOptions {
				opt(so)
			}
		})
	}

	return &Resolver{
		client: client,
		bucket: cfg.Bucket,
		prefix: normalizePrefix(cfg.Prefix),
	}, nil
}

// Resolve looks up the object for name. Only object metadata is fetched here;
// the body is requested on the first Read, so conditional hits never download it.
func (r *Resolver) Resolve(ctx context.Context, name string) (static.Resource, error) {
	if err := ctx.Err(); err != nil {
		return static.Resource{}, err
	}

	cleanName := path.Clean("/" + name)
	if cleanName == "/" {
		return static.Resource{Meta: static.FileMetadata{Path: cleanName, IsDir: true}}, nil
	}

	key := r.prefix + strings.TrimPrefix(cleanName, "/")

	head, err := r.client.HeadObject(ctx, &s3aws.HeadObjectInput{
		Bucket: aws.String(r.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		err = classifyS3Error(err, "head object")
		if !errors.Is(err, static.ErrNotFound) {
			return static.Resource{}, err
		}
		return r.resolveDir(ctx, cleanName, key, err)
	}

	meta := static.FileMetadata{
		Path:        cleanName,
		Size:        aws.ToInt64(head.ContentLength),
		ModTime:     aws.ToTime(head.LastModified),
		ContentType: objectContentType(aws.ToString(head.ContentType)),
	}

	return static.Resource{
		Meta: meta,
		Content: &objectReader{
			ctx:    ctx,
			client: r.client,
			input: &s3aws.GetObjectInput{
				Bucket:  aws.String(r.bucket),
				Key:     aws.String(key),
				IfMatch: head.ETag,
			},
		},
	}, nil
}

// resolveDir reports key as a directory when any object lives below it.
func (r *Resolver) resolveDir(ctx context.Context, cleanName, key string, notFound error) (static.Resource, error) {
	resp, err := r.client.ListObjectsV2(ctx, &s3aws.ListObjectsV2Input{
		Bucket:  aws.String(r.bucket),
		Prefix:  aws.String(key + "/"),
		MaxKeys: aws.Int32(1),
	})
	if err != nil {
		return static.Resource{}, classifyS3Error(err, "list directory")
	}
	if aws.ToInt32(resp.KeyCount) == 0 && len(resp.Contents) == 0 {
		return static.Resource{}, notFound
	}
	return static.Resource{Meta: static.FileMetadata{Path: cleanName, IsDir: true}}, nil
}

// objectReader opens the object body lazily.
type objectReader struct {
	ctx    context.Context
	client S3Client
	input  *s3aws.GetObjectInput
	body   io.ReadCloser
}

func (o *objectReader) Read(p []byte) (int, error) {
	if o.body == nil {
		out, err := o.client.GetObject(o.ctx, o.input)
		if err != nil {
			return 0, classifyS3Error(err, "get object")
		}
		o.body = out.Body
	}
	return o.body.Read(p)
}

func (o *objectReader) Close() error {
	if o.body == nil {
		return nil
	}
	return o.body.Close()
}

// objectContentType drops the generic types S3 assigns to untyped uploads so
// the server falls back to its extension lookup.
func objectContentType(ct string) string {
	switch ct {
	case "", "binary/octet-stream", "application/octet-stream":
		return ""
	default:
		return ct
	}
}

func normalizePrefix(prefix string) string {
	prefix = strings.Trim(prefix, "/")
	if prefix == "" {
		return ""
	}
	return prefix + "/"
}
