package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"seatshare/internal/utils"
	"seatshare/pkg/logger"
	"seatshare/pkg/storage"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type FileUpload struct {
	Filename string
	Size     int64
	Reader   io.Reader
}

type ProofFile struct {
	Reader      io.ReadCloser
	ContentType string
}

// UploadService stores payment screenshots. The reference it hands out is
// the storage key; URL turns a key into something a browser can open.
type UploadService interface {
	StorePaymentProof(ctx context.Context, riderID primitive.ObjectID, upload *FileUpload) (string, error)
	// Discard removes a proof and its thumbnail.
	Discard(ctx context.Context, ref string)
	// URL returns "" when the provider cannot hand out links; the object is
	// then read back through Open.
	URL(ctx context.Context, key string) (string, error)
	Open(ctx context.Context, key string) (*ProofFile, error)
}

type uploadService struct {
	storage   storage.StorageProvider
	maxSize   int64
	urlExpiry time.Duration
	logger    *logger.Logger
}

func NewUploadService(provider storage.StorageProvider, maxSize int64, urlExpiry time.Duration, logger *logger.Logger) UploadService {
	if maxSize <= 0 {
		maxSize = utils.MaxImageSize
	}
	if urlExpiry <= 0 {
		urlExpiry = time.Hour
	}
	return &uploadService{
		storage:   provider,
		maxSize:   maxSize,
		urlExpiry: urlExpiry,
		logger:    logger,
	}
}

func (s *uploadService) StorePaymentProof(ctx context.Context, riderID primitive.ObjectID, upload *FileUpload) (string, error) {
	if upload == nil || upload.Reader == nil {
		return "", utils.NewValidationError(utils.ErrPaymentProofRequired)
	}
	if upload.Size > s.maxSize {
		return "", s.tooLarge()
	}

	// Read one byte past the limit so streams larger than their declared
	// size are caught too.
	data, err := io.ReadAll(io.LimitReader(upload.Reader, s.maxSize+1))
	if err != nil {
		return "", utils.NewInternalError("failed to read payment screenshot", err)
	}
	if int64(len(data)) > s.maxSize {
		return "", s.tooLarge()
	}

	contentType := utils.DetectContentType(data)
	ext, ok := utils.PaymentProofExtension(contentType)
	if !ok {
		return "", utils.NewValidationError("Payment screenshot must be a JPEG, PNG, WebP or GIF image, or a PDF")
	}
	isImage := utils.DecodableImage(contentType)
	if isImage {
		if _, err := utils.ValidateImageDimensions(data, utils.MinImageSide, utils.MaxImageSide); err != nil {
			return "", imageDimensionError(err)
		}
	}

	key := fmt.Sprintf("payments/%s/%s%s", riderID.Hex(), uuid.NewString(), ext)

	ctx, cancel := context.WithTimeout(ctx, utils.StorageOperationTimeout)
	defer cancel()

	resp, err := s.storage.Upload(ctx, &storage.UploadRequest{
		Key:         key,
		Reader:      bytes.NewReader(data),
		ContentType: contentType,
		Size:        int64(len(data)),
		Metadata: map[string]string{
			"rider_id":      riderID.Hex(),
			"original_name": upload.Filename,
		},
	})
	if err != nil {
		return "", utils.NewInternalError("failed to store payment screenshot", err)
	}

	if isImage {
		s.storeThumbnail(ctx, key, data)
	}

	s.logger.WithUserID(riderID.Hex()).WithFields(map[string]interface{}{
		"key":          key,
		"content_type": contentType,
		"size":         resp.Size,
	}).Debug("Payment proof stored")

	return key, nil
}

// storeThumbnail keeps a small JPEG next to the proof for list views. The
// proof is valid without it, so failures are only logged.
func (s *uploadService) storeThumbnail(ctx context.Context, key string, data []byte) {
	thumb, err := utils.GenerateThumbnail(data)
	if err == nil {
		var buf bytes.Buffer
		if err = utils.EncodeJPEG(thumb, &buf); err == nil {
			_, err = s.storage.Upload(ctx, &storage.UploadRequest{
				Key:         utils.ThumbnailKey(key),
				Reader:      &buf,
				ContentType: "image/jpeg",
				Size:        int64(buf.Len()),
			})
		}
	}
	if err != nil {
		s.logger.WithError(err).WithField("key", key).Warn("Failed to store payment proof thumbnail")
	}
}

func (s *uploadService) tooLarge() error {
	return utils.NewValidationError(fmt.Sprintf("Payment screenshot must be at most %d MB", s.maxSize>>20))
}

func imageDimensionError(err error) error {
	switch {
	case errors.Is(err, utils.ErrImageTooSmall):
		return utils.NewValidationError(fmt.Sprintf("Payment screenshot must be at least %dx%d pixels", utils.MinImageSide, utils.MinImageSide))
	case errors.Is(err, utils.ErrImageTooLarge):
		return utils.NewValidationError(fmt.Sprintf("Payment screenshot must be at most %dx%d pixels", utils.MaxImageSide, utils.MaxImageSide))
	default:
		return utils.NewValidationError("Payment screenshot could not be read as an image")
	}
}

func (s *uploadService) Discard(ctx context.Context, ref string) {
	if ref == "" {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), utils.StorageOperationTimeout)
	defer cancel()

	for _, key := range []string{ref, utils.ThumbnailKey(ref)} {
		if err := s.storage.Delete(ctx, key); err != nil && !errors.Is(err, storage.ErrNotFound) {
			s.logger.WithError(err).WithField("key", key).Warn("Failed to discard payment proof")
		}
	}
}

func (s *uploadService) URL(ctx context.Context, key string) (string, error) {
	if key == "" {
		return "", utils.NewNotFoundError("Payment proof")
	}

	exists, err := s.storage.FileExists(ctx, key)
	if err != nil {
		return "", utils.NewInternalError("failed to look up payment proof", err)
	}
	if !exists {
		return "", utils.NewNotFoundError("Payment proof")
	}

	url, err := s.storage.GetURL(ctx, key, s.urlExpiry)
	if errors.Is(err, storage.ErrNoDirectURL) {
		return "", nil
	}
	if err != nil {
		return "", utils.NewInternalError("failed to build payment proof URL", err)
	}
	return url, nil
}

func (s *uploadService) Open(ctx context.Context, key string) (*ProofFile, error) {
	if key == "" {
		return nil, utils.NewNotFoundError("Payment proof")
	}

	reader, err := s.storage.Open(ctx, key)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, utils.NewNotFoundError("Payment proof")
	}
	if err != nil {
		return nil, utils.NewInternalError("failed to open payment proof", err)
	}
	return &ProofFile{Reader: reader, ContentType: utils.ContentTypeForKey(key)}, nil
}
