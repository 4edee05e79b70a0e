package archive

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"

	"github.com/polkiloo/secondfamilies/internal/config"
)

func TestNewFromConfig(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))

	a, err := newFromConfig(&config.Config{}, logger)
	if err != nil || a != nil {
		t.Fatalf("expected nil archive without bucket, got %v %v", a, err)
	}

	orig := loadAWSConfig
	t.Cleanup(func() { loadAWSConfig = orig })

	loadAWSConfig = func(context.Context, ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		return aws.Config{Region: "us-east-1"}, nil
	}
	a, err = newFromConfig(&config.Config{PhotoBucket: "photos", PhotoPrefix: "donations/"}, logger)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a == nil || a.bucket != "photos" || a.region != "us-east-1" || a.prefix != "donations/" {
		t.Fatalf("unexpected archive %+v", a)
	}

	loadAWSConfig = func(context.Context, ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		return aws.Config{}, errors.New("no credentials")
	}
	if _, err := newFromConfig(&config.Config{PhotoBucket: "photos"}, logger); err == nil {
		t.Fatal("expected aws config error")
	}
}
