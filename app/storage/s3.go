package storage

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

type S3 struct {
	Client        *s3.Client
	Bucket        string
	Prefix        string
	PublicBaseURL string
}

type S3Config struct {
	Region        string
	Bucket        string
	Prefix        string
	PublicBaseURL string
}

func NewS3(ctx context.Context, cfg S3Config) (*S3, error) {
	awsCfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(cfg.Region))
	if err != nil {
		return nil, err
	}
	return &S3{
		Client:        s3.NewFromConfig(awsCfg),
		Bucket:        cfg.Bucket,
		Prefix:        strings.Trim(cfg.Prefix, "/"),
		PublicBaseURL: strings.TrimRight(cfg.PublicBaseURL, "/"),
	}, nil
}

func (s *S3) Upload(ctx context.Context, key string, r io.Reader, contentType string) (string, error) {
	fullKey := s.fullKey(key)

	_, err := s.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      &s.Bucket,
		Key:         &fullKey,
		Body:        r,
		ContentType: &contentType,
	})
	if err != nil {
		return "", err
	}

	return s.PublicBaseURL + "/" + fullKey, nil
}

// Delete removes the object behind a public URL. URLs outside this bucket's
// namespace are left alone.
func (s *S3) Delete(ctx context.Context, url string) error {
	if !s.Owns(url) {
		return nil
	}
	key := strings.TrimPrefix(url, s.PublicBaseURL+"/")
	_, err := s.Client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: &s.Bucket,
		Key:    &key,
	})
	return err
}

func (s *S3) List(ctx context.Context, prefix string) ([]string, error) {
	fullPrefix := s.fullKey(prefix)
	out, err := s.Client.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
		Bucket: &s.Bucket,
		Prefix: &fullPrefix,
	})
	if err != nil {
		return nil, err
	}
	urls := make([]string, 0, len(out.Contents))
	for _, obj := range out.Contents {
		if obj.Key != nil {
			urls = append(urls, s.PublicBaseURL+"/"+*obj.Key)
		}
	}
	return urls, nil
}

func (s *S3) Owns(url string) bool {
	return strings.HasPrefix(url, s.PublicBaseURL+"/")
}

func (s *S3) fullKey(key string) string {
	key = strings.TrimLeft(key, "/")
	if s.Prefix != "" {
		return s.Prefix + "/" + key
	}
	return key
}

func (s *S3) String() string { return fmt.Sprintf("s3(%s/%s)", s.Bucket, s.Prefix) }
