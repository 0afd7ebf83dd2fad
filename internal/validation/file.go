package validation

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"
)

// FileConstraints defines validation rules for file uploads
type FileConstraints struct {
	AllowedMimeTypes  map[string]bool
	AllowedExtensions map[string]bool
	MaxSize           int64
}

// ImageConstraints defines validation rules for dish photos
var ImageConstraints = FileConstraints{
	AllowedMimeTypes: map[string]bool{
		"image/jpeg": true,
		"image/png":  true,
		"image/webp": true,
		"image/gif":  true,
	},
	AllowedExtensions: map[string]bool{
		".jpg":  true,
		".jpeg": true,
		".png":  true,
		".webp": true,
		".gif":  true,
	},
	MaxSize: 5 << 20, // 5MB
}

// WithMaxSize returns a copy of the constraints with a different size limit.
func (c FileConstraints) WithMaxSize(size int64) FileConstraints {
	if size > 0 {
		c.MaxSize = size
	}
	return c
}

// ValidateFile validates an upload and returns the MIME type sniffed from its content.
func ValidateFile(header *multipart.FileHeader, constraints FileConstraints) (string, error) {
	// Check file size first (before reading content)
	if header.Size > constraints.MaxSize {
		maxMB := constraints.MaxSize / (1 << 20)
		return "", fmt.Errorf("%s is too large: maximum size is %d MB", header.Filename, maxMB)
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !constraints.AllowedExtensions[ext] {
		return "", fmt.Errorf("%s has an unsupported extension", header.Filename)
	}

	file, err := header.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	// http.DetectContentType reads max 512 bytes to determine MIME type
	buffer := make([]byte, 512)
	n, err := file.Read(buffer)
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("failed to read file: %w", err)
	}

	// Magic numbers cannot be faked by changing the Content-Type header
	detectedType := http.DetectContentType(buffer[:n])
	if !constraints.AllowedMimeTypes[detectedType] {
		return "", fmt.Errorf("%s is not an image (detected: %s)", header.Filename, detectedType)
	}

	return detectedType, nil
}
