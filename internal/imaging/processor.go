// Copyright (c) 2026 Canopy Authors
// SPDX-License-Identifier: GPL-3.0-or-later

// Package imaging wraps image decoding and thumbnail generation for
// uploaded files.
package imaging

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp" // WebP decoder
)

// Thumbnail bounds.
const (
	ThumbWidth  = 320
	ThumbHeight = 320
)

// IsImage reports whether a MIME type is a processable raster image.
func IsImage(mimeType string) bool {
	switch mimeType {
	case "image/jpeg", "image/png", "image/gif", "image/webp":
		return true
	default:
		return false
	}
}

// ThumbnailPath returns the path a thumbnail is written to for a source
// file path, keeping the original extension except for webp which is
// re-encoded as jpeg.
func ThumbnailPath(srcPath string) string {
	dir := filepath.Dir(srcPath)
	base := filepath.Base(srcPath)
	ext := filepath.Ext(base)
	name := strings.TrimSuffix(base, ext)
	if strings.EqualFold(ext, ".webp") {
		ext = ".jpg"
	}
	return filepath.Join(dir, name+"_thumb"+ext)
}

// CreateThumbnail decodes the source image and writes a thumbnail that
// fits within ThumbWidth x ThumbHeight, preserving aspect ratio. EXIF
// orientation is applied during decode.
func CreateThumbnail(srcPath string) (string, error) {
	img, err := imaging.Open(srcPath, imaging.AutoOrientation(true))
	if err != nil {
		return "", fmt.Errorf("decoding image: %w", err)
	}

	thumb := imaging.Fit(img, ThumbWidth, ThumbHeight, imaging.Lanczos)

	dstPath := ThumbnailPath(srcPath)
	if err := imaging.Save(thumb, dstPath); err != nil {
		return "", fmt.Errorf("saving thumbnail: %w", err)
	}
	return dstPath, nil
}
