package services

import (
	"context"
	"errors"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/Kartik1014/Rentit/internal/apperr"
	"github.com/Kartik1014/Rentit/internal/storage"
	"github.com/Kartik1014/Rentit/internal/types"
	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"go.uber.org/zap"
)

const ImageURLPrefix = "/api/images/"

type ImageService struct {
	storage storage.Storage
	logger  *zap.Logger
}

func NewImageService(store storage.Storage, logger *zap.Logger) *ImageService {
	return &ImageService{storage: store, logger: logger}
}

// ObjectName builds "<uuid>_<slugged base name><ext>" so uploads never
// collide and never carry path separators.
func ObjectName(original string) string {
	ext := strings.ToLower(filepath.Ext(original))
	base := slug.Make(strings.TrimSuffix(filepath.Base(original), filepath.Ext(original)))
	if base == "" {
		base = "image"
	}
	return uuid.NewString() + "_" + base + ext
}

// Upload stores every non-empty image part. Parts with a non-image content
// type fail the whole request before anything is written.
func (s *ImageService) Upload(ctx context.Context, files []*multipart.FileHeader) ([]types.ImageInfo, error) {
	var parts []*multipart.FileHeader
	for _, fh := range files {
		if fh == nil || fh.Size == 0 {
			continue
		}
		if !strings.HasPrefix(fh.Header.Get("Content-Type"), "image/") {
			return nil, apperr.Validation("Only image files can be uploaded: " + fh.Filename)
		}
		parts = append(parts, fh)
	}

	if len(parts) == 0 {
		return nil, apperr.Validation("No files to upload")
	}

	uploaded := make([]types.ImageInfo, 0, len(parts))
	for _, fh := range parts {
		info, err := s.store(ctx, fh)
		if err != nil {
			return nil, err
		}
		uploaded = append(uploaded, info)
	}

	return uploaded, nil
}

func (s *ImageService) store(ctx context.Context, fh *multipart.FileHeader) (types.ImageInfo, error) {
	f, err := fh.Open()
	if err != nil {
		return types.ImageInfo{}, internal(err)
	}
	defer f.Close()

	name := ObjectName(fh.Filename)
	contentType := fh.Header.Get("Content-Type")

	if err := s.storage.Put(ctx, name, f, fh.Size, contentType); err != nil {
		s.logger.Error("Failed to store image", zap.String("filename", name), zap.Error(err))
		return types.ImageInfo{}, internal(err)
	}

	return types.ImageInfo{
		Filename:    name,
		URL:         ImageURLPrefix + name,
		Size:        fh.Size,
		ContentType: contentType,
	}, nil
}

// Fetch returns an open object; the caller closes its Body.
func (s *ImageService) Fetch(ctx context.Context, name string) (*storage.Object, error) {
	if !storage.ValidName(name) {
		return nil, apperr.Validation("Invalid file name")
	}

	obj, err := s.storage.Get(ctx, name)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, apperr.NotFound("Image not found")
		}
		return nil, internal(err)
	}
	return obj, nil
}

func (s *ImageService) Delete(ctx context.Context, name string) error {
	if !storage.ValidName(name) {
		return apperr.Validation("Invalid file name")
	}

	if err := s.storage.Delete(ctx, name); err != nil {
		return internal(err)
	}
	return nil
}
