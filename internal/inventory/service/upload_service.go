package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/rajithaprasad/hardwareProject/internal/config"
	"go.uber.org/zap"
)

const (
	thumbnailWidth = 320
	maxImageBytes  = 20 << 20
)

// ObjectStore is the part of *minio.Client uploads need.
type ObjectStore interface {
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
}

// UploadService stores note images and tool files in object storage.
type UploadService struct {
	store   ObjectStore
	bucket  string
	baseURL string
	logger  *zap.Logger
	now     func() time.Time
}

func NewUploadService(store ObjectStore, cfg config.MinIOConfig, logger *zap.Logger) *UploadService {
	if logger == nil {
		logger = zap.NewNop()
	}
	base := cfg.PublicURL
	if base == "" && cfg.Endpoint != "" {
		scheme := "http"
		if cfg.UseSSL {
			scheme = "https"
		}
		base = scheme + "://" + cfg.Endpoint
	}
	return &UploadService{
		store:   store,
		bucket:  cfg.Bucket,
		baseURL: strings.TrimRight(base, "/"),
		logger:  logger.Named("upload"),
		now:     time.Now,
	}
}

// UploadedFile upload.php result entry
type UploadedFile struct {
	URL          string `json:"url"`
	ThumbnailURL string `json:"thumbnailUrl,omitempty"`
	Filename     string `json:"filename"`
	Size         int64  `json:"size"`
	ContentType  string `json:"contentType"`
}

// Enabled reports whether object storage is configured.
func (s *UploadService) Enabled() bool {
	return s.store != nil
}

var uploadKinds = map[string]bool{"notes": true, "tools": true, "documents": true, "photos": true}

// Upload stores one file under <kind>/<yyyy/mm/dd>/<uuid><ext>. Images also get a thumbnail.
func (s *UploadService) Upload(ctx context.Context, kind, filename, contentType string, size int64, r io.Reader) (*UploadedFile, error) {
	if s.store == nil {
		return nil, ErrStorageUnavailable
	}
	if !uploadKinds[kind] {
		kind = "files"
	}
	ext := strings.ToLower(filepath.Ext(filename))
	objectName := path.Join(kind, s.now().Format("2006/01/02"), uuid.New().String()+ext)

	result := &UploadedFile{Filename: filename, Size: size, ContentType: contentType}

	if isImage(contentType, ext) && size <= maxImageBytes {
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("read upload: %w", err)
		}
		if err := s.put(ctx, objectName, bytes.NewReader(data), int64(len(data)), contentType); err != nil {
			return nil, err
		}
		result.URL = s.objectURL(objectName)

		thumb, err := Thumbnail(data, ext)
		if err != nil {
			// the original is stored; a broken image just has no thumbnail
			s.logger.Warn("thumbnail skipped", zap.String("object", objectName), zap.Error(err))
			return result, nil
		}
		thumbName := path.Join("thumbs", objectName)
		if err := s.put(ctx, thumbName, bytes.NewReader(thumb), int64(len(thumb)), contentType); err != nil {
			return nil, err
		}
		result.ThumbnailURL = s.objectURL(thumbName)
		return result, nil
	}

	if err := s.put(ctx, objectName, r, size, contentType); err != nil {
		return nil, err
	}
	result.URL = s.objectURL(objectName)
	return result, nil
}

func (s *UploadService) put(ctx context.Context, objectName string, r io.Reader, size int64, contentType string) error {
	_, err := s.store.PutObject(ctx, s.bucket, objectName, r, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return fmt.Errorf("upload file: %w", err)
	}
	return nil
}

func (s *UploadService) objectURL(objectName string) string {
	return fmt.Sprintf("%s/%s/%s", s.baseURL, s.bucket, objectName)
}

// Thumbnail scales an image to thumbnailWidth keeping the aspect ratio.
func Thumbnail(data []byte, ext string) ([]byte, error) {
	format, err := imaging.FormatFromExtension(ext)
	if err != nil {
		return nil, err
	}
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	if img.Bounds().Dx() > thumbnailWidth {
		img = imaging.Resize(img, thumbnailWidth, 0, imaging.Lanczos)
	}
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, format); err != nil {
		return nil, fmt.Errorf("encode thumbnail: %w", err)
	}
	return buf.Bytes(), nil
}

func isImage(contentType, ext string) bool {
	if strings.HasPrefix(contentType, "image/") {
		return true
	}
	switch ext {
	case ".jpg", ".jpeg", ".png", ".gif":
		return true
	}
	return false
}
