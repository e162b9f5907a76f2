package s3

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"comex/internal/config"
	"comex/internal/domain"
	"comex/internal/port"
)

const (
	contentTypeJSON = "application/json"
	metaOrdinal     = "step-ordinal"
	metaType        = "document-type"
)

// stepArchive stores raw step outputs as JSON objects in a single bucket.
type stepArchive struct {
	client   *s3.Client
	uploader *manager.Uploader
	bucket   string
}

// NewStepArchive creates an S3-backed StepArchive writing to cfg.Bucket.
// A custom endpoint switches to path-style addressing and checksums only where required, for
// S3-compatible stores.
func NewStepArchive(ctx context.Context, cfg *config.S3Config) (port.StepArchive, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("s3.NewStepArchive: bucket is required")
	}
	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.Region)}
	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("s3.NewStepArchive: loading aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
			o.RequestChecksumCalculation = aws.RequestChecksumCalculationWhenRequired
			o.ResponseChecksumValidation = aws.ResponseChecksumValidationWhenRequired
		}
	})
	return &stepArchive{
		client:   client,
		uploader: manager.NewUploader(client),
		bucket:   cfg.Bucket,
	}, nil
}

// StepKey is the object key of one raw step output.
func StepKey(docType domain.DocumentType, contentHash string, ordinal int) string {
	return fmt.Sprintf("raw/%s/%s/step-%d.json", docType, contentHash, ordinal)
}

func (a *stepArchive) PutStep(ctx context.Context, docType domain.DocumentType, contentHash string, out port.StepOutput) error {
	key := StepKey(docType, contentHash, out.Ordinal)
	_, err := a.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(out.Payload),
		ContentType: aws.String(contentTypeJSON),
		Metadata: map[string]string{
			metaType:    string(docType),
			metaOrdinal: strconv.Itoa(out.Ordinal),
		},
	})
	if err != nil {
		return fmt.Errorf("stepArchive.PutStep %s: %w", key, err)
	}
	return nil
}

func (a *stepArchive) GetStep(ctx context.Context, docType domain.DocumentType, contentHash string, ordinal int) (port.StepOutput, error) {
	key := StepKey(docType, contentHash, ordinal)
	result, err := a.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(a.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var missing *types.NoSuchKey
		if errors.As(err, &missing) {
			return port.StepOutput{}, fmt.Errorf("stepArchive.GetStep %s: %w", key, domain.ErrStepNotArchived)
		}
		return port.StepOutput{}, fmt.Errorf("stepArchive.GetStep %s: %w", key, err)
	}
	defer func() { _ = result.Body.Close() }()

	payload, err := io.ReadAll(result.Body)
	if err != nil {
		return port.StepOutput{}, fmt.Errorf("stepArchive.GetStep %s: reading body: %w", key, err)
	}
	return port.StepOutput{Ordinal: ordinal, Payload: payload}, nil
}
