package storage

import (
	"bytes"
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/inlyne/inlyne-server/internal/config"
)

// SpacesStore uploads objects to a DigitalOcean Spaces bucket through the
// S3-compatible API. Objects are world readable and cached aggressively;
// cover images get content-addressed keys so stale caches are harmless.
type SpacesStore struct {
	client *s3.Client
	bucket string
	region string
	useCDN bool
}

func NewSpacesStore(ctx context.Context, cfg *config.Config) (*SpacesStore, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.SpacesRegion),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.SpacesKey,
			cfg.SpacesSecret,
			"",
		)))
	if err != nil {
		return nil, fmt.Errorf("load spaces config: %w", err)
	}

	endpoint := cfg.SpacesEndpoint
	if endpoint == "" {
		endpoint = fmt.Sprintf("https://%s.digitaloceanspaces.com", cfg.SpacesRegion)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(endpoint)
	})

	return &SpacesStore{
		client: client,
		bucket: cfg.SpacesBucket,
		region: cfg.SpacesRegion,
		useCDN: cfg.SpacesUseCDN,
	}, nil
}

func (s *SpacesStore) Put(ctx context.Context, key, contentType string, data []byte) (string, error) {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:       aws.String(s.bucket),
		Key:          aws.String(key),
		Body:         bytes.NewReader(data),
		ContentType:  aws.String(contentType),
		ACL:          types.ObjectCannedACLPublicRead,
		CacheControl: aws.String("public, max-age=31536000"),
	})
	if err != nil {
		return "", fmt.Errorf("put object %s: %w", key, err)
	}
	return s.publicURL(key), nil
}

func (s *SpacesStore) publicURL(key string) string {
	host := fmt.Sprintf("%s.%s.digitaloceanspaces.com", s.bucket, s.region)
	if s.useCDN {
		host = fmt.Sprintf("%s.%s.cdn.digitaloceanspaces.com", s.bucket, s.region)
	}
	return fmt.Sprintf("https://%s/%s", host, key)
}
