package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path"
	"path/filepath"
	"strings"

	"dev-event-hub/config"
	apperrors "dev-event-hub/pkg/app_errors"
	"dev-event-hub/pkg/logger"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// MaxImageSize 單張活動圖片上限
const MaxImageSize = 10 << 20

type ImageUploader interface {
	// 上傳圖片並回傳公開網址
	Upload(ctx context.Context, filename string, r io.Reader) (string, error)
}

// ObjectPutter 是 *s3.Client 中上傳用到的部分
type ObjectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type S3ImageUploaderImpl struct {
	client  ObjectPutter
	bucket  string
	folder  string
	baseURL string
}

// NewS3Client 依設定建立 S3 client；有 Endpoint 時走 path-style（MinIO 等相容服務）
func NewS3Client(cfg *config.StorageConfig) *s3.Client {
	awsCfg := aws.Config{
		Region: cfg.Region,
	}
	if cfg.AccessKeyID != "" {
		awsCfg.Credentials = aws.NewCredentialsCache(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		)
	}

	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})
}

func NewS3ImageUploader(client ObjectPutter, cfg *config.StorageConfig) ImageUploader {
	return &S3ImageUploaderImpl{
		client:  client,
		bucket:  cfg.Bucket,
		folder:  strings.Trim(cfg.Folder, "/"),
		baseURL: publicBaseURL(cfg),
	}
}

func publicBaseURL(cfg *config.StorageConfig) string {
	switch {
	case cfg.PublicBaseURL != "":
		return strings.TrimRight(cfg.PublicBaseURL, "/")
	case cfg.Endpoint != "":
		return strings.TrimRight(cfg.Endpoint, "/") + "/" + cfg.Bucket
	default:
		return fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.Bucket, cfg.Region)
	}
}

func (u *S3ImageUploaderImpl) Upload(ctx context.Context, filename string, r io.Reader) (string, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxImageSize+1))
	if err != nil {
		return "", fmt.Errorf("read image: %w", err)
	}
	if len(data) == 0 {
		return "", fmt.Errorf("%w: empty file", apperrors.ErrInvalidImage)
	}
	if len(data) > MaxImageSize {
		return "", fmt.Errorf("%w: larger than %d bytes", apperrors.ErrInvalidImage, MaxImageSize)
	}

	// 以內容判斷型別，不相信副檔名
	mtype := mimetype.Detect(data)
	if !strings.HasPrefix(mtype.String(), "image/") {
		return "", fmt.Errorf("%w: unsupported content type %s", apperrors.ErrInvalidImage, mtype.String())
	}

	ext := mtype.Extension()
	if ext == "" {
		ext = strings.ToLower(filepath.Ext(filename))
	}
	key := path.Join(u.folder, uuid.New().String()+ext)

	_, err = u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(u.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(mtype.String()),
		Metadata:    map[string]string{"original-filename": filepath.Base(filename)},
	})
	if err != nil {
		return "", fmt.Errorf("put object %s: %w", key, err)
	}

	logger.WithComponent("storage").Info("Image uploaded",
		zap.String("key", key),
		zap.String("content_type", mtype.String()),
		zap.Int("size", len(data)),
	)

	return u.baseURL + "/" + key, nil
}
