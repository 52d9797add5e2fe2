// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package service holds application services that sit between handlers
// and the store.
package service

import (
	"fmt"
	"image"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
)

// Upload limits
const (
	MaxUploadSize    = 20 * 1024 * 1024 // 20MB
	DefaultUploadDir = "./uploads"

	// Uploaded images wider or taller than this are resized down before
	// being written to disk.
	maxImageDimension = 1600
)

// AllowedImageTypes defines the MIME types accepted for post images.
var AllowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

var extensionMimeTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".webp": "image/webp",
}

// MediaService stores uploaded post images under the uploads directory.
type MediaService struct {
	uploadDir string
}

// NewMediaService creates a media service rooted at uploadDir.
func NewMediaService(uploadDir string) *MediaService {
	if uploadDir == "" {
		uploadDir = DefaultUploadDir
	}
	return &MediaService{uploadDir: uploadDir}
}

// SaveImage validates, resizes and writes an uploaded image. It returns
// the public URL path ("/uploads/<uuid>.<ext>") for storing on the post.
func (s *MediaService) SaveImage(file multipart.File, header *multipart.FileHeader) (string, error) {
	if header.Size > MaxUploadSize {
		return "", fmt.Errorf("file size exceeds maximum allowed (%d bytes)", MaxUploadSize)
	}

	mimeType := header.Header.Get("Content-Type")
	if mimeType == "" || mimeType == "application/octet-stream" {
		mimeType = extensionMimeTypes[strings.ToLower(filepath.Ext(header.Filename))]
	}
	if !AllowedImageTypes[mimeType] {
		return "", fmt.Errorf("file type %s is not allowed", mimeType)
	}

	img, err := imaging.Decode(file, imaging.AutoOrientation(true))
	if err != nil {
		return "", fmt.Errorf("failed to decode image: %w", err)
	}

	bounds := img.Bounds()
	if bounds.Dx() > maxImageDimension || bounds.Dy() > maxImageDimension {
		img = imaging.Fit(img, maxImageDimension, maxImageDimension, imaging.Lanczos)
	}

	if err := os.MkdirAll(s.uploadDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create upload directory: %w", err)
	}

	var ext string
	switch mimeType {
	case "image/png":
		ext = ".png"
	case "image/gif":
		ext = ".gif"
	default:
		// webp has no encoder in the imaging package, so it lands on
		// the JPEG path below along with jpeg itself
		ext = ".jpg"
	}
	name := uuid.New().String() + ext
	destPath := filepath.Join(s.uploadDir, name)

	if err := s.encode(img, destPath, mimeType); err != nil {
		_ = os.Remove(destPath)
		return "", err
	}

	return "/uploads/" + name, nil
}

func (s *MediaService) encode(img image.Image, destPath, mimeType string) error {
	out, err := os.Create(destPath)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer func() {
		_ = out.Close()
	}()

	switch mimeType {
	case "image/png":
		err = imaging.Encode(out, img, imaging.PNG)
	case "image/gif":
		err = imaging.Encode(out, img, imaging.GIF)
	default:
		err = imaging.Encode(out, img, imaging.JPEG, imaging.JPEGQuality(85))
	}
	if err != nil {
		return fmt.Errorf("failed to encode image: %w", err)
	}
	return nil
}
