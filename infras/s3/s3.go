package s3

//go:generate go run go.uber.org/mock/mockgen -source=./s3.go -destination=./mocks/s3_mock.go -package=mocks

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsConfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog/log"

	"rento/config"
	"rento/infras/otel"
	"rento/shared/constant"
)

const (
	otelAttrObject = "object"
	otelAttrBucket = "bucket"
	region         = "auto"
)

// S3 is the object storage collaborator: objects are addressed by a slash separated path inside the
// configured bucket and served from the public domain.
type S3 interface {
	Upload(ctx context.Context, objectPath, contentType string, data []byte) (url string, err error)
	Delete(ctx context.Context, objectPath string) error
	PublicURL(objectPath string) string
	ObjectPath(url string) string
}

type s3Impl struct {
	client *s3.Client
	config *config.Config
	otel   otel.Otel
}

func New(config *config.Config, otel otel.Otel) S3 {
	staticProvider := credentials.NewStaticCredentialsProvider(
		config.External.S3.AccessKeyID,
		config.External.S3.SecretAccessKey,
		"",
	)

	cfg, err := awsConfig.LoadDefaultConfig(
		context.Background(),
		awsConfig.WithCredentialsProvider(staticProvider),
	)
	if err != nil {
		log.Error().Err(err).Msg("Error loading AWS configuration")
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(config.External.S3.APIEndpoint)
		o.UsePathStyle = true
		o.Region = region
	})

	return &s3Impl{
		client: client,
		config: config,
		otel:   otel,
	}
}

func (svc *s3Impl) bucket() string {
	return svc.config.External.S3.BucketName
}

func (svc *s3Impl) Upload(ctx context.Context, objectPath, contentType string, data []byte) (url string, err error) {
	ctx, scope := svc.otel.NewScope(ctx, constant.OtelS3ScopeName, constant.OtelS3ScopeName+".Upload")
	defer scope.Finish(&err)

	scope.SetAttributes(map[string]any{
		otelAttrObject: objectPath,
		otelAttrBucket: svc.bucket(),
	})

	_, err = svc.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(svc.bucket()),
		Key:           aws.String(objectPath),
		Body:          bytes.NewReader(data),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(data))),
	})
	if err != nil {
		log.Error().Err(err).Str("object", objectPath).Msg("failed to upload file to S3")

		return constant.Empty, fmt.Errorf("failed to upload file to S3: %w", err)
	}

	return svc.PublicURL(objectPath), nil
}

func (svc *s3Impl) Delete(ctx context.Context, objectPath string) (err error) {
	ctx, scope := svc.otel.NewScope(ctx, constant.OtelS3ScopeName, constant.OtelS3ScopeName+".Delete")
	defer scope.Finish(&err)

	scope.SetAttributes(map[string]any{
		otelAttrObject: objectPath,
		otelAttrBucket: svc.bucket(),
	})

	_, err = svc.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(svc.bucket()),
		Key:    aws.String(objectPath),
	})
	if err != nil {
		log.Error().Err(err).Str("object", objectPath).Msg("failed to delete file from S3")

		return fmt.Errorf("failed to delete file from S3: %w", err)
	}

	return nil
}

func (svc *s3Impl) PublicURL(objectPath string) string {
	return PublicURL(svc.config.External.S3.PublicDomain, objectPath)
}

func (svc *s3Impl) ObjectPath(url string) string {
	return ObjectPath(svc.config.External.S3.PublicDomain, url)
}

// PublicURL joins the public domain and an object path.
func PublicURL(publicDomain, objectPath string) string {
	return strings.TrimSuffix(publicDomain, "/") + "/" + path.Clean(strings.TrimPrefix(objectPath, "/"))
}

// ObjectPath reverses PublicURL. URLs outside the public domain yield an empty path.
func ObjectPath(publicDomain, url string) string {
	prefix := strings.TrimSuffix(publicDomain, "/") + "/"

	objectPath, ok := strings.CutPrefix(url, prefix)
	if !ok {
		return constant.Empty
	}

	return objectPath
}
