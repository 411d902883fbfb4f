package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"path"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"jhs/backend/internal/config"
	"jhs/backend/internal/media/sniffer"
	"jhs/backend/internal/media/svg"
	"jhs/backend/internal/models"
	"jhs/backend/internal/storage"
)

var (
	ErrNoFile           = errors.New("no file uploaded")
	ErrFileTooLarge     = errors.New("file too large")
	ErrUnsupportedImage = errors.New("only image files are allowed")
)

var whitespace = regexp.MustCompile(`\s+`)

type UploadInput struct {
	File   multipart.File
	Header *multipart.FileHeader
}

type UploadService struct {
	store storage.ImageStore
	cfg   *config.AppConfig
	log   zerolog.Logger
	now   func() time.Time
}

func NewUploadService(store storage.ImageStore, cfg *config.AppConfig, log zerolog.Logger) *UploadService {
	return &UploadService{
		store: store,
		cfg:   cfg,
		log:   log,
		now:   time.Now,
	}
}

func (s *UploadService) Upload(ctx context.Context, input UploadInput) (models.StoredImage, error) {
	if input.File == nil || input.Header == nil {
		return models.StoredImage{}, ErrNoFile
	}

	maxBytes := s.cfg.Uploads.MaxBytes
	if input.Header.Size > maxBytes {
		return models.StoredImage{}, fmt.Errorf("%w: limit is %d bytes", ErrFileTooLarge, maxBytes)
	}

	declared := sniffer.DeclaredType(input.Header.Header)
	if !strings.HasPrefix(declared, "image/") {
		return models.StoredImage{}, ErrUnsupportedImage
	}

	data, err := io.ReadAll(io.LimitReader(input.File, maxBytes+1))
	if err != nil {
		return models.StoredImage{}, fmt.Errorf("read file: %w", err)
	}
	if int64(len(data)) > maxBytes {
		return models.StoredImage{}, fmt.Errorf("%w: limit is %d bytes", ErrFileTooLarge, maxBytes)
	}
	if len(data) == 0 {
		return models.StoredImage{}, ErrNoFile
	}

	result, err := sniffer.DetectHead(data)
	if err != nil {
		return models.StoredImage{}, ErrUnsupportedImage
	}

	if result.Type == sniffer.TypeSVG {
		clean, err := svg.Sanitize(data)
		if err != nil {
			return models.StoredImage{}, ErrUnsupportedImage
		}
		data = clean
	}

	filename := s.buildFilename(input.Header.Filename, result.Ext)
	if err := s.store.Put(ctx, filename, bytes.NewReader(data), int64(len(data)), result.MIME); err != nil {
		return models.StoredImage{}, fmt.Errorf("store image: %w", err)
	}

	s.log.Info().
		Str("filename", filename).
		Str("format", string(result.Type)).
		Int("size", len(data)).
		Msg("image uploaded")

	return models.StoredImage{
		Filename:  filename,
		Format:    string(result.Type),
		MIME:      result.MIME,
		SizeBytes: int64(len(data)),
	}, nil
}

func (s *UploadService) Open(ctx context.Context, filename string) (io.ReadCloser, storage.ObjectInfo, error) {
	return s.store.Open(ctx, filename)
}

// buildFilename produces <unix millis>-<random>-<original base name>.<ext>,
// with runs of whitespace replaced by underscores. The client's extension is
// dropped so the stored name always matches the sniffed type.
func (s *UploadService) buildFilename(original string, ext string) string {
	name := path.Base(strings.ReplaceAll(original, `\`, "/"))
	name = strings.TrimSuffix(name, path.Ext(name))
	name = whitespace.ReplaceAllString(strings.TrimSpace(name), "_")
	if name == "" || name == "." || name == "/" || strings.HasPrefix(name, ".") {
		name = "image"
	}
	name += "." + ext
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:10]
	return fmt.Sprintf("%d-%s-%s", s.now().UnixMilli(), suffix, name)
}
