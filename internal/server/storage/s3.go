// Package storage hands out presigned S3 (or MinIO) URLs for issue evidence
// so that file bodies never pass through the API server.
package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/akash0382/ApniSec/internal/server/config"
	"github.com/google/uuid"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// PresignExpiry is the lifetime of every presigned URL.
const PresignExpiry = 15 * time.Minute

var (
	loadDefaultAWSConfig = awsconfig.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return s3.NewPresignClient(c)
	}

	presignPutObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignPutObject(ctx, in, optFns...)
	}
	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignGetObject(ctx, in, optFns...)
	}

	now = time.Now
)

// EvidenceKey returns a fresh object key of the form
// issues/<yyyy>/<m>/<d>/<uuid>.
func EvidenceKey() string {
	d := now()
	return fmt.Sprintf("issues/%d/%d/%d/%v", d.Year(), d.Month(), d.Day(), uuid.New())
}

type S3Presigner struct {
	bucket       string
	region       string
	user         string
	password     string
	baseEndpoint string
}

func NewS3Presigner(cfg *config.Config) *S3Presigner {
	return &S3Presigner{
		bucket:       cfg.S3Bucket,
		region:       cfg.S3Region,
		user:         cfg.S3RootUser,
		password:     cfg.S3RootPassword,
		baseEndpoint: cfg.S3BaseEndpoint,
	}
}

func (p *S3Presigner) presignClient(ctx context.Context) (*s3.PresignClient, error) {
	cfg, err := loadDefaultAWSConfig(ctx,
		awsconfig.WithRegion(p.region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(p.user, p.password, "")))
	if err != nil {
		return nil, err
	}

	client := newS3ClientFromConfig(cfg, func(o *s3.Options) {
		if p.baseEndpoint != "" {
			o.BaseEndpoint = aws.String(p.baseEndpoint)
			o.UsePathStyle = true
		}
	})

	return newS3PresignClient(client), nil
}

// PresignPut allocates a new object key and returns it with a URL the
// client can PUT the file body to.
func (p *S3Presigner) PresignPut(ctx context.Context) (string, string, error) {
	pc, err := p.presignClient(ctx)
	if err != nil {
		return "", "", err
	}

	key := EvidenceKey()
	req, err := presignPutObject(pc, ctx, &s3.PutObjectInput{
		Bucket: aws.String(p.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(PresignExpiry))
	if err != nil {
		return "", "", err
	}

	return key, req.URL, nil
}

// PresignGet returns a download URL for key.
func (p *S3Presigner) PresignGet(ctx context.Context, key string) (string, error) {
	pc, err := p.presignClient(ctx)
	if err != nil {
		return "", err
	}

	req, err := presignGetObject(pc, ctx, &s3.GetObjectInput{
		Bucket: aws.String(p.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(PresignExpiry))
	if err != nil {
		return "", err
	}

	return req.URL, nil
}
