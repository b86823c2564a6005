package archive

import (
	"context"
	"log"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsConfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/Adithecoder/SocialM-sub001/internal/config"
)

// NewS3Client builds an S3 client from the archive configuration. A custom
// endpoint supports S3-compatible stores in development.
func NewS3Client(cfg *config.Config) (*s3.Client, error) {
	opts := []func(*awsConfig.LoadOptions) error{
		awsConfig.WithRegion(cfg.Archive.Region),
	}

	if cfg.Archive.AccessKeyID != "" {
		opts = append(opts, awsConfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.Archive.AccessKeyID, cfg.Archive.SecretAccessKey, ""),
		))
	}

	if cfg.Archive.Endpoint != "" {
		resolver := aws.EndpointResolverWithOptionsFunc(func(service, region string, options ...interface{}) (aws.Endpoint, error) {
			return aws.Endpoint{
				URL:           cfg.Archive.Endpoint,
				SigningRegion: cfg.Archive.Region,
			}, nil
		})
		opts = append(opts, awsConfig.WithEndpointResolverWithOptions(resolver))
	}

	awsCfg, err := awsConfig.LoadDefaultConfig(context.TODO(), opts...)
	if err != nil {
		return nil, err
	}

	log.Printf("S3 archive client initialized for bucket: %s, region: %s", cfg.Archive.Bucket, cfg.Archive.Region)
	return s3.NewFromConfig(awsCfg), nil
}
