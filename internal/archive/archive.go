package archive

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"os"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/polkiloo/secondfamilies/internal/domain/model"
)

type objectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Options locate uploaded objects.
type Options struct {
	Bucket string
	Region string
	Prefix string
}

// Archive copies staged donation photos to S3. A nil *Archive is valid and
// stores nothing.
type Archive struct {
	client objectPutter
	bucket string
	region string
	prefix string
}

// New constructs Archive over an S3 client.
func New(client objectPutter, opts Options) *Archive {
	return &Archive{client: client, bucket: opts.Bucket, region: opts.Region, prefix: opts.Prefix}
}

// Store uploads every attachment under <prefix><group>/<name> and returns
// their public URLs in order.
func (a *Archive) Store(ctx context.Context, group string, files []model.Attachment) ([]string, error) {
	if a == nil || len(files) == 0 {
		return nil, nil
	}
	urls := make([]string, 0, len(files))
	for _, f := range files {
		data, err := os.ReadFile(f.Path)
		if err != nil {
			return urls, fmt.Errorf("read %s: %w", f.Name, err)
		}
		key := path.Join(strings.TrimSuffix(a.prefix, "/"), group, f.Name)
		_, err = a.client.PutObject(ctx, &s3.PutObjectInput{
			Bucket:      aws.String(a.bucket),
			Key:         aws.String(key),
			Body:        bytes.NewReader(data),
			ContentType: aws.String(http.DetectContentType(data)),
		})
		if err != nil {
			return urls, fmt.Errorf("upload %s to s3: %w", key, err)
		}
		urls = append(urls, a.url(key))
	}
	return urls, nil
}

func (a *Archive) url(key string) string {
	if a.region == "" {
		return fmt.Sprintf("https://%s.s3.amazonaws.com/%s", a.bucket, key)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", a.bucket, a.region, key)
}
