package utils

import (
	"bytes"
	"errors"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"io"
	"strings"

	"github.com/nfnt/resize"
)

var (
	ErrImageTooSmall = errors.New("image dimensions too small")
	ErrImageTooLarge = errors.New("image dimensions too large")
)

type ImageDimensions struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// DecodableImage reports whether contentType is a format the image package
// can decode here. WebP has no decoder registered.
func DecodableImage(contentType string) bool {
	switch contentType {
	case "image/jpeg", "image/png", "image/gif":
		return true
	}
	return false
}

// GetImageDimensions reads only the image header.
func GetImageDimensions(data []byte) (*ImageDimensions, error) {
	config, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	return &ImageDimensions{Width: config.Width, Height: config.Height}, nil
}

func ValidateImageDimensions(data []byte, minSide, maxSide int) (*ImageDimensions, error) {
	dimensions, err := GetImageDimensions(data)
	if err != nil {
		return nil, err
	}

	if dimensions.Width < minSide || dimensions.Height < minSide {
		return dimensions, ErrImageTooSmall
	}
	if dimensions.Width > maxSide || dimensions.Height > maxSide {
		return dimensions, ErrImageTooLarge
	}

	return dimensions, nil
}

// GenerateThumbnail decodes data and scales it to fit within
// ThumbnailMaxSide, keeping the aspect ratio. Images already small enough
// are returned unscaled.
func GenerateThumbnail(data []byte) (image.Image, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	return resize.Thumbnail(ThumbnailMaxSide, ThumbnailMaxSide, img, resize.Lanczos3), nil
}

func EncodeJPEG(img image.Image, w io.Writer) error {
	return jpeg.Encode(w, img, &jpeg.Options{Quality: ThumbnailQuality})
}

// ThumbnailKey derives the storage key of a proof's thumbnail.
func ThumbnailKey(key string) string {
	if i := strings.LastIndex(key, "."); i > strings.LastIndex(key, "/") {
		key = key[:i]
	}
	return key + "_thumb.jpg"
}
