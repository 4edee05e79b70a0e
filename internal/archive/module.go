package archive

import (
	"context"
	"fmt"
	"log/slog"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.uber.org/fx"

	"github.com/polkiloo/secondfamilies/internal/config"
)

// Module provides the photo archive. Without a bucket the archive is nil.
var Module = fx.Provide(newFromConfig)

var loadAWSConfig = awsconfig.LoadDefaultConfig

func newFromConfig(cfg *config.Config, logger *slog.Logger) (*Archive, error) {
	if cfg.PhotoBucket == "" {
		return nil, nil
	}
	awsCfg, err := loadAWSConfig(context.Background())
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	logger.Info("archiving donation photos", slog.String("bucket", cfg.PhotoBucket), slog.String("region", awsCfg.Region))
	return New(s3.NewFromConfig(awsCfg), Options{
		Bucket: cfg.PhotoBucket,
		Region: awsCfg.Region,
		Prefix: cfg.PhotoPrefix,
	}), nil
}
