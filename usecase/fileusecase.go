package usecase

import (
	"context"
	"englishtalk/config"
	"englishtalk/domain"
	"englishtalk/pkg/log"
	"englishtalk/pkg/store"
	"fmt"
	"io"
	"net/http"
	"path"
	"strings"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
)

// FileUsecase 把生成的头像转存到 OSS
type FileUsecase struct {
	l      *log.Logger
	config *config.Config
	minio  *store.Minio
	client *http.Client
}

func NewFileUsecase(l *log.Logger, c *config.Config, minio *store.Minio) *FileUsecase {
	return &FileUsecase{
		l:      l.WithModule("FileUsecase"),
		config: c,
		minio:  minio,
		client: http.DefaultClient,
	}
}

func (u *FileUsecase) Enabled() bool {
	return u.minio != nil
}

// EnsureBucket creates the bucket with a public-read policy if it does not exist yet.
func (u *FileUsecase) EnsureBucket(ctx context.Context) error {
	if u.minio == nil {
		return domain.ErrStoreDisabled
	}
	return u.minio.EnsureBucket(ctx)
}

// UploadFromURL copies a remote image into the bucket under prefix and returns its public URL.
func (u *FileUsecase) UploadFromURL(ctx context.Context, prefix, src string) (string, error) {
	if u.minio == nil {
		return "", domain.ErrStoreDisabled
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := u.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to download %s: %w", src, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("failed to download %s: status %d", src, resp.StatusCode)
	}

	ext := path.Ext(strings.SplitN(src, "?", 2)[0])
	if ext == "" {
		ext = ".png"
	}
	name := fmt.Sprintf("%s/%s%s", prefix, uuid.NewString(), ext)
	return u.UploadFileWithWriter(ctx, name, resp.Body, resp.ContentLength, resp.Header.Get("Content-Type"))
}

func (u *FileUsecase) UploadFileWithWriter(ctx context.Context, name string, reader io.Reader, size int64, contentType string) (string, error) {
	if u.minio == nil {
		return "", domain.ErrStoreDisabled
	}
	info, err := u.minio.Client.PutObject(ctx, u.minio.BucketName, name, reader, size, minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		u.l.Error("upload file failed", log.Error(err))
		return "", err
	}
	return u.minio.ObjectURL(info.Key), nil
}
