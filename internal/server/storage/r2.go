package storage

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	putObject = func(c *s3.Client, ctx context.Context, in *s3.PutObjectInput) (*s3.PutObjectOutput, error) {
		return c.PutObject(ctx, in)
	}

	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignGetObject(ctx, in, optFns...)
	}
)

type R2Config struct {
	BaseEndpoint    string
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	Bucket          string
	PresignExpiry   time.Duration
}

// R2Storage uploads files to a Cloudflare R2 bucket over the S3 API and
// hands out presigned GET links.
type R2Storage struct {
	cfg R2Config
}

func NewR2Storage(cfg R2Config) *R2Storage {
	if cfg.Region == "" {
		cfg.Region = "auto"
	}
	if cfg.PresignExpiry == 0 {
		cfg.PresignExpiry = 24 * time.Hour
	}
	return &R2Storage{cfg: cfg}
}

func (s *R2Storage) getClient(ctx context.Context) (*s3.Client, error) {
	cfg, err := loadDefaultAWSConfig(ctx,
		config.WithRegion(s.cfg.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			s.cfg.AccessKeyID,
			s.cfg.SecretAccessKey,
			"",
		)))
	if err != nil {
		return nil, err
	}

	return newS3ClientFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(s.cfg.BaseEndpoint)
	}), nil
}

// objectKey spreads uploads across date-based prefixes so the bucket stays
// listable.
func objectKey(name string) string {
	d := time.Now()
	return fmt.Sprintf("files/%d/%02d/%02d/%v/%s", d.Year(), d.Month(), d.Day(), uuid.New(), name)
}

func (s *R2Storage) Upload(ctx context.Context, localPath string, name string, contentType string) (string, error) {
	client, err := s.getClient(ctx)
	if err != nil {
		return "", err
	}

	f, err := os.Open(localPath)
	if err != nil {
		return "", err
	}
	defer f.Close()

	bucket := s.cfg.Bucket
	key := objectKey(name)

	_, err = putObject(client, ctx, &s3.PutObjectInput{
		Bucket:      &bucket,
		Key:         &key,
		Body:        f,
		ContentType: &contentType,
	})
	if err != nil {
		return "", fmt.Errorf("uploading %s: %w", name, err)
	}

	req, err := presignGetObject(s3.NewPresignClient(client), ctx, &s3.GetObjectInput{
		Bucket: &bucket,
		Key:    &key,
	}, s3.WithPresignExpires(s.cfg.PresignExpiry))
	if err != nil {
		return "", fmt.Errorf("presigning %s: %w", key, err)
	}

	return req.URL, nil
}
