package store

import (
	"context"
	"englishtalk/config"
	"englishtalk/pkg/log"
	"fmt"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

type Minio struct {
	Client     *minio.Client
	BucketName string
	baseURL    string
}

// NewMinioStore connects to the avatar bucket. An empty endpoint yields a nil *Minio.
func NewMinioStore(l *log.Logger, c *config.Config) (*Minio, error) {
	if c.Oss.EndPoint == "" {
		l.Info("oss.endpoint not set, avatar uploads disabled")
		return nil, nil
	}
	client, err := minio.New(c.Oss.EndPoint, &minio.Options{
		Creds:  credentials.NewStaticV4(c.Oss.AccessKey, c.Oss.SecretKey, ""),
		Secure: c.Oss.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("minio new client: %w", err)
	}

	baseURL := c.Oss.PublicBaseURL
	if baseURL == "" {
		scheme := "http"
		if c.Oss.UseSSL {
			scheme = "https"
		}
		baseURL = fmt.Sprintf("%s://%s/%s", scheme, c.Oss.EndPoint, c.Oss.BucketName)
	}
	return &Minio{Client: client, BucketName: c.Oss.BucketName, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

// EnsureBucket creates the bucket if needed and makes it public-read so avatars can be hot-linked.
func (m *Minio) EnsureBucket(ctx context.Context) error {
	exists, err := m.Client.BucketExists(ctx, m.BucketName)
	if err != nil {
		return fmt.Errorf("bucket check: %w", err)
	}
	if !exists {
		if err := m.Client.MakeBucket(ctx, m.BucketName, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("make bucket: %w", err)
		}
	}
	publicReadPolicy := fmt.Sprintf(`{
		"Version": "2012-10-17",
		"Statement": [
		  {
			"Effect": "Allow",
			"Principal": {"AWS": "*"},
			"Action": ["s3:GetObject"],
			"Resource": ["arn:aws:s3:::%s/*"]
		  }
		]
	  }`, m.BucketName)
	if err := m.Client.SetBucketPolicy(ctx, m.BucketName, publicReadPolicy); err != nil {
		return fmt.Errorf("set policy: %w", err)
	}
	return nil
}

// ObjectURL is the public address of key.
func (m *Minio) ObjectURL(key string) string {
	return m.baseURL + "/" + key
}
