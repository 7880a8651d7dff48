// Package publish uploads resolved route tables to S3-compatible storage.
//
// The uploaded object is a JSON manifest that a deployed router can fetch
// at startup:
//
//	client, err := publish.NewS3Client(cfg.Publish)
//	p := publish.New(client, cfg.Publish.Bucket, cfg.ManifestKey())
//	receipt, err := p.Publish(ctx, result)
package publish

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/vango-dev/pageroutes/internal/config"
	"github.com/vango-dev/pageroutes/pkg/routes"
)

// ManifestVersion is the format version written to every manifest.
const ManifestVersion = 1

// DefaultRegion is used when the publish config names no region.
const DefaultRegion = "us-east-1"

// PutObjectAPI is the subset of the S3 client used by Publisher.
type PutObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Manifest is the published document.
type Manifest struct {
	Version     int                 `json:"version"`
	Source      routes.Source       `json:"source"`
	GeneratedAt time.Time           `json:"generatedAt"`
	Routes      []*routes.RouteNode `json:"routes"`
}

// Receipt describes an uploaded manifest.
type Receipt struct {
	Bucket string
	Key    string
	ETag   string
	Size   int
}

// Publisher uploads manifests to one bucket key.
type Publisher struct {
	client PutObjectAPI
	bucket string
	key    string
	now    func() time.Time
}

// New creates a publisher writing to bucket/key.
func New(client PutObjectAPI, bucket, key string) *Publisher {
	return &Publisher{
		client: client,
		bucket: bucket,
		key:    key,
		now:    time.Now,
	}
}

// NewManifest wraps a resolved table.
func NewManifest(result *routes.Result, now time.Time) *Manifest {
	table := result.Routes
	if table == nil {
		table = []*routes.RouteNode{}
	}
	return &Manifest{
		Version:     ManifestVersion,
		Source:      result.Source,
		GeneratedAt: now.UTC(),
		Routes:      table,
	}
}

// Publish encodes result as a manifest and uploads it.
func (p *Publisher) Publish(ctx context.Context, result *routes.Result) (*Receipt, error) {
	if p.bucket == "" {
		return nil, fmt.Errorf("publish: no bucket configured")
	}

	body, err := json.MarshalIndent(NewManifest(result, p.now()), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("publish: encode manifest: %w", err)
	}

	out, err := p.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:       aws.String(p.bucket),
		Key:          aws.String(p.key),
		Body:         bytes.NewReader(body),
		ContentType:  aws.String("application/json"),
		CacheControl: aws.String("no-cache"),
		Metadata: map[string]string{
			"route-source": string(result.Source),
			"route-count":  strconv.Itoa(routes.Count(result.Routes)),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("s3 upload of %s/%s failed: %w", p.bucket, p.key, err)
	}

	receipt := &Receipt{Bucket: p.bucket, Key: p.key, Size: len(body)}
	if out != nil && out.ETag != nil {
		receipt.ETag = *out.ETag
	}
	return receipt, nil
}

// NewS3Client creates an S3 client from the publish configuration.
// Credentials come from AWS_ACCESS_KEY_ID, AWS_SECRET_ACCESS_KEY and the
// optional AWS_SESSION_TOKEN.
func NewS3Client(cfg config.PublishConfig) *s3.Client {
	region := cfg.Region
	if region == "" {
		region = os.Getenv("AWS_REGION")
	}
	if region == "" {
		region = DefaultRegion
	}

	opts := s3.Options{
		Region:       region,
		UsePathStyle: cfg.PathStyle,
		Credentials:  aws.NewCredentialsCache(aws.CredentialsProviderFunc(envCredentials)),
	}
	if cfg.Endpoint != "" {
		opts.BaseEndpoint = aws.String(cfg.Endpoint)
	}
	return s3.New(opts)
}

func envCredentials(ctx context.Context) (aws.Credentials, error) {
	creds := aws.Credentials{
		AccessKeyID:     os.Getenv("AWS_ACCESS_KEY_ID"),
		SecretAccessKey: os.Getenv("AWS_SECRET_ACCESS_KEY"),
		SessionToken:    os.Getenv("AWS_SESSION_TOKEN"),
		Source:          "Environment",
	}
	if creds.AccessKeyID == "" || creds.SecretAccessKey == "" {
		return aws.Credentials{}, fmt.Errorf("AWS_ACCESS_KEY_ID and AWS_SECRET_ACCESS_KEY must be set")
	}
	return creds, nil
}
