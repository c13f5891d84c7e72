package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.uber.org/zap"

	"github.com/Kaua3045/ecommerce-users/internal/core/domain"
	"github.com/Kaua3045/ecommerce-users/internal/core/port"
	"github.com/Kaua3045/ecommerce-users/internal/infra/config"
)

const avatarPrefix = "avatars"

// ErrStorageDisabled is returned when no bucket is configured.
var ErrStorageDisabled = errors.New("storage: avatar bucket not configured")

// objectAPI is the subset of *s3.Client the gateway calls.
type objectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// S3AvatarGateway keeps one object per account under avatars/<accountID>.
// Uploads overwrite, so the url of an account's avatar is stable.
type S3AvatarGateway struct {
	client  objectAPI
	bucket  string
	baseURL string
	logger  *zap.Logger
}

// NewS3AvatarGateway loads AWS credentials from the default chain.
func NewS3AvatarGateway(ctx context.Context, cfg config.S3Settings, logger *zap.Logger) (*S3AvatarGateway, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.UsePathStyle
	})

	return newS3AvatarGateway(client, cfg, logger), nil
}

func newS3AvatarGateway(client objectAPI, cfg config.S3Settings, logger *zap.Logger) *S3AvatarGateway {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &S3AvatarGateway{client: client, bucket: cfg.Bucket, baseURL: publicBaseURL(cfg), logger: logger}
}

func publicBaseURL(cfg config.S3Settings) string {
	if cfg.PublicBaseURL != "" {
		return strings.TrimRight(cfg.PublicBaseURL, "/")
	}
	if cfg.Endpoint != "" {
		return strings.TrimRight(cfg.Endpoint, "/") + "/" + cfg.Bucket
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.Bucket, cfg.Region)
}

func (g *S3AvatarGateway) Save(ctx context.Context, accountID domain.AccountID, resource domain.Resource) (string, error) {
	key := avatarKey(accountID)

	_, err := g.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(g.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(resource.Content),
		ContentType:   aws.String(resource.ContentType),
		ContentLength: aws.Int64(int64(len(resource.Content))),
	})
	if err != nil {
		return "", fmt.Errorf("put avatar object: %w", err)
	}

	g.logger.Debug("avatar stored", zap.String("account_id", accountID.String()), zap.Int("bytes", len(resource.Content)))
	return g.baseURL + "/" + key, nil
}

// Delete is idempotent; S3 does not fail on missing keys.
func (g *S3AvatarGateway) Delete(ctx context.Context, accountID domain.AccountID) error {
	_, err := g.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(g.bucket),
		Key:    aws.String(avatarKey(accountID)),
	})
	if err != nil {
		return fmt.Errorf("delete avatar object: %w", err)
	}
	return nil
}

func avatarKey(accountID domain.AccountID) string {
	return avatarPrefix + "/" + accountID.String()
}

// DisabledAvatarGateway rejects uploads and ignores deletes.
type DisabledAvatarGateway struct{}

func (DisabledAvatarGateway) Save(context.Context, domain.AccountID, domain.Resource) (string, error) {
	return "", ErrStorageDisabled
}

func (DisabledAvatarGateway) Delete(context.Context, domain.AccountID) error {
	return nil
}

var (
	_ port.AvatarGateway = (*S3AvatarGateway)(nil)
	_ port.AvatarGateway = DisabledAvatarGateway{}
)
