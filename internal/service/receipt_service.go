package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"
	"path/filepath"
	"strings"
	"time"

	"github.com/gastosapp/gastos-backend/internal/domain"
	"github.com/gastosapp/gastos-backend/internal/repository/storage"
	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const (
	MaxReceiptSize   = 5 * 1024 * 1024 // 5MB
	MinReceiptWidth  = 50
	MinReceiptHeight = 50
	ThumbnailWidth   = 200
	DisplayWidth     = 800
	JPEGQuality      = 85

	presignedURLExpiry = 15 * time.Minute
)

var (
	ErrReceiptTooLarge          = errors.New("file too large. Maximum size is 5MB")
	ErrInvalidReceiptFormat     = errors.New("invalid format. Supported: JPEG, PNG, WebP")
	ErrReceiptTooSmall          = errors.New("image too small. Minimum 50x50 pixels")
	ErrInvalidReceiptData       = errors.New("invalid image data")
	ErrReceiptStorageDisabled   = errors.New("receipt storage not configured")
	ErrReceiptNotFound          = errors.New("expense has no receipt")
)

// allowedExtensions maps extensions to content types
var allowedExtensions = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".webp": "image/webp",
}

// receiptVariants are the sizes stored per receipt. Width 0 keeps the
// original dimensions.
var receiptVariants = []struct {
	name     string
	maxWidth int
}{
	{"thumb", ThumbnailWidth},
	{"display", DisplayWidth},
	{"original", 0},
}

// ReceiptURLs carries presigned links to each stored variant
type ReceiptURLs struct {
	ThumbnailURL string `json:"thumbnailUrl"`
	DisplayURL   string `json:"displayUrl"`
	OriginalURL  string `json:"originalUrl"`
}

// ReceiptService resizes uploaded receipt images and stores the variants
type ReceiptService struct {
	expenseRepo domain.ExpenseRepository
	storage     storage.ReceiptRepository
}

// NewReceiptService creates a new ReceiptService
func NewReceiptService(expenseRepo domain.ExpenseRepository, storage storage.ReceiptRepository) *ReceiptService {
	return &ReceiptService{
		expenseRepo: expenseRepo,
		storage:     storage,
	}
}

// IsEnabled indicates whether uploads/deletes are supported (storage configured)
func (s *ReceiptService) IsEnabled() bool {
	return s != nil && s.storage != nil
}

func (s *ReceiptService) validateAndDecode(data []byte, filename string) (image.Image, error) {
	if len(data) > MaxReceiptSize {
		return nil, ErrReceiptTooLarge
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if _, ok := allowedExtensions[ext]; !ok {
		return nil, ErrInvalidReceiptFormat
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, ErrInvalidReceiptData
	}

	bounds := img.Bounds()
	if bounds.Dx() < MinReceiptWidth || bounds.Dy() < MinReceiptHeight {
		return nil, ErrReceiptTooSmall
	}

	return img, nil
}

// UploadReceipt validates and resizes the image, uploads all variants, and
// records the base object path on the expense. Re-uploading replaces the
// previous receipt.
func (s *ReceiptService) UploadReceipt(ctx context.Context, userID, expenseID uuid.UUID, data []byte, filename string) (*ReceiptURLs, error) {
	if !s.IsEnabled() {
		return nil, ErrReceiptStorageDisabled
	}

	expense, err := s.expenseRepo.GetByID(userID, expenseID)
	if err != nil {
		return nil, err
	}

	img, err := s.validateAndDecode(data, filename)
	if err != nil {
		return nil, err
	}

	// user/expense/uuid is the base path; each variant appends its suffix
	basePath := fmt.Sprintf("%s/%s/%s", userID, expenseID, uuid.New())

	uploaded := make([]string, 0, len(receiptVariants))
	for _, variant := range receiptVariants {
		var processed image.Image
		if variant.maxWidth > 0 && img.Bounds().Dx() > variant.maxWidth {
			processed = imaging.Resize(img, variant.maxWidth, 0, imaging.Lanczos)
		} else {
			processed = img
		}

		var buf bytes.Buffer
		if err := jpeg.Encode(&buf, processed, &jpeg.Options{Quality: JPEGQuality}); err != nil {
			return nil, fmt.Errorf("failed to encode image: %w", err)
		}

		objectPath := variantPath(basePath, variant.name)
		if _, err := s.storage.Upload(ctx, objectPath, bytes.NewReader(buf.Bytes()), "image/jpeg", int64(buf.Len())); err != nil {
			s.cleanupObjects(ctx, uploaded)
			return nil, fmt.Errorf("failed to upload %s variant: %w", variant.name, err)
		}
		uploaded = append(uploaded, objectPath)
	}

	if expense.ReceiptPath != nil {
		s.deleteVariants(ctx, *expense.ReceiptPath)
	}

	if err := s.expenseRepo.SetReceiptPath(userID, expenseID, &basePath); err != nil {
		s.cleanupObjects(ctx, uploaded)
		return nil, err
	}

	return s.presignVariants(ctx, basePath)
}

// GetReceiptURLs returns presigned links to an expense's stored receipt
func (s *ReceiptService) GetReceiptURLs(ctx context.Context, userID, expenseID uuid.UUID) (*ReceiptURLs, error) {
	if !s.IsEnabled() {
		return nil, ErrReceiptStorageDisabled
	}

	expense, err := s.expenseRepo.GetByID(userID, expenseID)
	if err != nil {
		return nil, err
	}
	if expense.ReceiptPath == nil {
		return nil, ErrReceiptNotFound
	}

	return s.presignVariants(ctx, *expense.ReceiptPath)
}

// DeleteReceipt removes the stored variants and clears the expense's path
func (s *ReceiptService) DeleteReceipt(ctx context.Context, userID, expenseID uuid.UUID) error {
	if !s.IsEnabled() {
		return ErrReceiptStorageDisabled
	}

	expense, err := s.expenseRepo.GetByID(userID, expenseID)
	if err != nil {
		return err
	}
	if expense.ReceiptPath == nil {
		return ErrReceiptNotFound
	}

	s.deleteVariants(ctx, *expense.ReceiptPath)
	return s.expenseRepo.SetReceiptPath(userID, expenseID, nil)
}

func (s *ReceiptService) presignVariants(ctx context.Context, basePath string) (*ReceiptURLs, error) {
	urls := &ReceiptURLs{}
	targets := map[string]*string{
		"thumb":    &urls.ThumbnailURL,
		"display":  &urls.DisplayURL,
		"original": &urls.OriginalURL,
	}
	for name, target := range targets {
		url, err := s.storage.GeneratePresignedURL(ctx, variantPath(basePath, name), presignedURLExpiry)
		if err != nil {
			return nil, err
		}
		*target = url
	}
	return urls, nil
}

// deleteVariants is best effort; orphaned objects are harmless
func (s *ReceiptService) deleteVariants(ctx context.Context, basePath string) {
	for _, variant := range receiptVariants {
		if err := s.storage.Delete(ctx, variantPath(basePath, variant.name)); err != nil {
			log.Warn().Err(err).
				Str("object", variantPath(basePath, variant.name)).
				Msg("Failed to delete receipt variant")
		}
	}
}

func (s *ReceiptService) cleanupObjects(ctx context.Context, paths []string) {
	for _, path := range paths {
		_ = s.storage.Delete(ctx, path)
	}
}

func variantPath(basePath, variant string) string {
	return basePath + "_" + variant + ".jpg"
}
