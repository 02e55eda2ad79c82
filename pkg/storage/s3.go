package storage

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// Store exposes the two logical buckets the application uses: avatar
// images keyed by owner id and training materials keyed by training id
// plus the original filename.
type Store interface {
	UploadAvatar(ctx context.Context, ownerID uuid.UUID, contentType string, data []byte) (string, error)
	UploadMaterial(ctx context.Context, trainingID uuid.UUID, filename, contentType string, data []byte) (string, error)
	PublicURL(bucket, key string) string
}

type Config struct {
	Endpoint        string
	PublicBaseURL   string
	AvatarBucket    string
	MaterialsBucket string
	UsePathStyle    bool
}

type S3Store struct {
	client *s3.Client
	cfg    Config
}

func NewS3Store(ctx context.Context, cfg Config) (*S3Store, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS SDK config: %w", err)
	}

	opts := s3.Options{
		Region:       awsCfg.Region,
		Credentials:  awsCfg.Credentials,
		HTTPClient:   awsCfg.HTTPClient,
		UsePathStyle: cfg.UsePathStyle,
	}
	if cfg.Endpoint != "" {
		opts.BaseEndpoint = aws.String(cfg.Endpoint)
	}

	return &S3Store{
		client: s3.New(opts),
		cfg:    cfg,
	}, nil
}

func (s *S3Store) UploadAvatar(ctx context.Context, ownerID uuid.UUID, contentType string, data []byte) (string, error) {
	key := ownerID.String()
	if err := s.put(ctx, s.cfg.AvatarBucket, key, contentType, data); err != nil {
		return "", fmt.Errorf("failed to upload avatar: %w", err)
	}
	return s.PublicURL(s.cfg.AvatarBucket, key), nil
}

func (s *S3Store) UploadMaterial(ctx context.Context, trainingID uuid.UUID, filename, contentType string, data []byte) (string, error) {
	key := path.Join(trainingID.String(), path.Base(filename))
	if err := s.put(ctx, s.cfg.MaterialsBucket, key, contentType, data); err != nil {
		return "", fmt.Errorf("failed to upload training material: %w", err)
	}
	return s.PublicURL(s.cfg.MaterialsBucket, key), nil
}

func (s *S3Store) put(ctx context.Context, bucket, key, contentType string, data []byte) error {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	return err
}

func (s *S3Store) PublicURL(bucket, key string) string {
	base := strings.TrimRight(s.cfg.PublicBaseURL, "/")
	return fmt.Sprintf("%s/%s/%s", base, bucket, key)
}
