package mediastore

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Config options for the S3-backed media store.
type S3Config struct {
	Region          string
	Bucket          string
	AccessKeyID     string
	SecretAccessKey string
	Endpoint        string // optional custom endpoint for S3-compatible services
	UsePathStyle    bool
	PublicBaseURL   string // optional override for the public URL prefix
	MaxFileSize     int64  // bytes, 0 disables the check
}

// S3Store stores images in an S3 (or S3-compatible) bucket. The public id is
// the object key.
type S3Store struct {
	client      *s3.Client
	uploader    *manager.Uploader
	bucket      string
	baseURL     string
	maxFileSize int64
}

func NewS3Store(ctx context.Context, cfg S3Config) (*S3Store, error) {
	const op = "storage.mediastore.NewS3Store"

	if cfg.Bucket == "" {
		return nil, errors.New("bucket name is required")
	}

	if cfg.Region == "" {
		cfg.Region = "us-east-1"
	}

	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}

	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	if cfg.Endpoint != "" {
		resolver := aws.EndpointResolverWithOptionsFunc(
			func(service, region string, options ...interface{}) (aws.Endpoint, error) {
				return aws.Endpoint{
					URL:               cfg.Endpoint,
					SigningRegion:     cfg.Region,
					HostnameImmutable: true,
				}, nil
			})
		opts = append(opts, awsconfig.WithEndpointResolverWithOptions(resolver))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.UsePathStyle {
			o.UsePathStyle = true
		}
	})

	baseURL := cfg.PublicBaseURL
	if baseURL == "" {
		if cfg.Endpoint != "" {
			baseURL = fmt.Sprintf("%s/%s", strings.TrimSuffix(cfg.Endpoint, "/"), cfg.Bucket)
		} else {
			baseURL = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.Bucket, cfg.Region)
		}
	}

	return &S3Store{
		client:      client,
		uploader:    manager.NewUploader(client),
		bucket:      cfg.Bucket,
		baseURL:     strings.TrimSuffix(baseURL, "/"),
		maxFileSize: cfg.MaxFileSize,
	}, nil
}

func (s *S3Store) Upload(ctx context.Context, file *multipart.FileHeader) (*UploadResult, error) {
	const op = "storage.mediastore.S3Store.Upload"

	if err := validateFile(file, s.maxFileSize); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	src, err := file.Open()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to open source file: %w", op, err)
	}
	defer src.Close()

	key := objectKey(file.Filename)

	_, err = s.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        src,
		ContentType: aws.String(file.Header.Get("Content-Type")),
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &UploadResult{
		URL:      s.baseURL + "/" + key,
		PublicID: key,
	}, nil
}

func (s *S3Store) Delete(ctx context.Context, publicID string) error {
	const op = "storage.mediastore.S3Store.Delete"

	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(publicID),
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// ExtractPublicID recovers the object key from a previously returned URL, for
// legacy records that only stored the URL. Foreign URLs yield "".
func (s *S3Store) ExtractPublicID(url string) string {
	if strings.HasPrefix(url, s.baseURL+"/") {
		return strings.TrimPrefix(url, s.baseURL+"/")
	}

	return ""
}
