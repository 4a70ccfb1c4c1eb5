package utils

import (
	"net/http"
	"path"
	"strings"
)

// Payment proofs are screenshots or receipts; anything else is rejected.
var paymentProofTypes = map[string]string{
	"image/jpeg":      ".jpg",
	"image/png":       ".png",
	"image/gif":       ".gif",
	"image/webp":      ".webp",
	"application/pdf": ".pdf",
}

// DetectContentType sniffs data and drops any parameters from the result.
func DetectContentType(data []byte) string {
	contentType := http.DetectContentType(data)
	if i := strings.Index(contentType, ";"); i >= 0 {
		contentType = contentType[:i]
	}
	return contentType
}

// PaymentProofExtension returns the canonical extension for an allowed
// payment proof content type.
func PaymentProofExtension(contentType string) (string, bool) {
	ext, ok := paymentProofTypes[contentType]
	return ext, ok
}

// ContentTypeForKey maps a stored key back to the type it was accepted as.
func ContentTypeForKey(key string) string {
	ext := strings.ToLower(path.Ext(key))
	for contentType, known := range paymentProofTypes {
		if known == ext {
			return contentType
		}
	}
	return "application/octet-stream"
}
