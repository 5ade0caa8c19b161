// Package receipts archives a JSON receipt for every committed vault or
// ledger operation in an S3-compatible bucket.
package receipts

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dmitrijs2005/vaultkeeper/internal/identity"
	"github.com/google/uuid"
)

// Receipt describes one committed operation.
type Receipt struct {
	ID        string              `json:"id"`
	Operation string              `json:"operation"`
	Record    identity.Identity   `json:"record"`
	Amount    uint64              `json:"amount,omitempty"`
	Signers   []identity.Identity `json:"signers"`
	At        time.Time           `json:"at"`
}

// New fills in the id and timestamp of a receipt.
func New(operation string, record identity.Identity, amount uint64, signers []identity.Identity) Receipt {
	return Receipt{
		ID:        uuid.NewString(),
		Operation: operation,
		Record:    record,
		Amount:    amount,
		Signers:   signers,
		At:        time.Now().UTC(),
	}
}

// Key is the object key a receipt is stored under.
func Key(r Receipt) string {
	d := r.At.UTC()
	return fmt.Sprintf("receipts/%04d/%02d/%02d/%s.json", d.Year(), int(d.Month()), d.Day(), r.ID)
}

type Archive interface {
	Put(ctx context.Context, r Receipt) error
}

// NopArchive drops receipts. It is used when no bucket is configured.
type NopArchive struct{}

func (NopArchive) Put(context.Context, Receipt) error { return nil }

// Config selects the bucket and, for S3-compatible servers such as MinIO,
// the endpoint and static credentials.
type Config struct {
	Bucket    string
	Region    string
	Endpoint  string
	AccessKey string
	SecretKey string
}

type putObjectAPI interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Test seams.
var (
	loadDefaultAWSConfig  = config.LoadDefaultConfig
	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) putObjectAPI {
		return s3.NewFromConfig(cfg, optFns...)
	}
)

type S3Archive struct {
	client putObjectAPI
	bucket string
}

// Open returns an S3Archive for cfg, or a NopArchive when cfg.Bucket is empty.
func Open(ctx context.Context, cfg Config) (Archive, error) {
	if cfg.Bucket == "" {
		return NopArchive{}, nil
	}

	opts := []func(*config.LoadOptions) error{config.WithRegion(cfg.Region)}
	if cfg.AccessKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")))
	}

	awsCfg, err := loadDefaultAWSConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := newS3ClientFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})
	return &S3Archive{client: client, bucket: cfg.Bucket}, nil
}

func (a *S3Archive) Put(ctx context.Context, r Receipt) error {
	body, err := json.Marshal(r)
	if err != nil {
		return err
	}

	_, err = a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(Key(r)),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("put receipt %s: %w", r.ID, err)
	}
	return nil
}
