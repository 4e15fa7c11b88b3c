package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/GoSim-25-26J-441/go-shop-backend/internal/uploads/storage"
	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrEmptyFile       = errors.New("image file is empty")
	ErrFileTooLarge    = errors.New("image file is too large")
	ErrUnsupportedType = errors.New("only jpeg, png, webp and gif images are allowed")
)

var allowedTypes = []string{"image/jpeg", "image/png", "image/webp", "image/gif"}

type UploadService struct {
	store    storage.Store
	maxBytes int64
	log      *zap.Logger
	newKey   func() string
}

func NewUploadService(store storage.Store, maxBytes int64, log *zap.Logger) *UploadService {
	return &UploadService{
		store:    store,
		maxBytes: maxBytes,
		log:      log,
		newKey:   func() string { return uuid.NewString() },
	}
}

// MaxBytes is the largest accepted image.
func (s *UploadService) MaxBytes() int64 { return s.maxBytes }

// SaveImage sniffs r and stores it when it is an allowed image type.
func (s *UploadService) SaveImage(ctx context.Context, r io.Reader) (string, error) {
	data, err := io.ReadAll(io.LimitReader(r, s.maxBytes+1))
	if err != nil {
		return "", fmt.Errorf("read upload: %w", err)
	}
	if len(data) == 0 {
		return "", ErrEmptyFile
	}
	if int64(len(data)) > s.maxBytes {
		return "", ErrFileTooLarge
	}

	mt := mimetype.Detect(data)
	if !mimetype.EqualsAny(mt.String(), allowedTypes...) {
		s.log.Info("rejected upload", zap.String("detected", mt.String()))
		return "", ErrUnsupportedType
	}

	key := s.newKey() + mt.Extension()
	url, err := s.store.Put(ctx, key, bytes.NewReader(data), mt.String())
	if err != nil {
		return "", err
	}

	s.log.Info("image stored", zap.String("key", key), zap.Int("bytes", len(data)))
	return url, nil
}
