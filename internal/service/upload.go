// Copyright (c) 2026 Canopy Authors
// SPDX-License-Identifier: GPL-3.0-or-later

// Package service holds application services that sit between handlers
// and the store.
package service

import (
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mirelo-dev/canopy/internal/imaging"
	"github.com/mirelo-dev/canopy/internal/util"
)

// MaxUploadSize caps a single uploaded file.
const MaxUploadSize = 20 * 1024 * 1024 // 20MB

// Upload target names. Each target maps to its own directory under the
// uploads root.
const (
	UploadProducts = "products"
	UploadPosts    = "posts"
	UploadPages    = "pages"
	UploadSliders  = "sliders"
	UploadSettings = "settings"
	UploadResumes  = "resumes"
)

// allowedExtensions maps permitted file extensions to their MIME types.
var allowedExtensions = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".webp": "image/webp",
	".pdf":  "application/pdf",
}

// UploadConfig describes where uploads live. It is injected at startup so
// tests and deployments control the filesystem layout.
type UploadConfig struct {
	// BaseDir is the uploads root on disk.
	BaseDir string
	// MaxSize caps a single file; MaxUploadSize when zero.
	MaxSize int64
	// Targets maps upload target names to subdirectories of BaseDir.
	Targets map[string]string
}

// DefaultUploadConfig returns an UploadConfig with a subdirectory per
// upload target.
func DefaultUploadConfig(baseDir string) UploadConfig {
	return UploadConfig{
		BaseDir: baseDir,
		MaxSize: MaxUploadSize,
		Targets: map[string]string{
			UploadProducts: "products",
			UploadPosts:    "posts",
			UploadPages:    "pages",
			UploadSliders:  "sliders",
			UploadSettings: "settings",
			UploadResumes:  "resumes",
		},
	}
}

// SavedFile describes a stored upload.
type SavedFile struct {
	// Name is the generated filename on disk.
	Name string
	// RelPath is the path relative to the uploads root.
	RelPath string
	// URL is the public path the file is served from.
	URL string
	// ThumbURL is the public path of the generated thumbnail, empty for
	// non-image files.
	ThumbURL string
	Size     int64
	MimeType string
}

// Uploader stores uploaded files under per-target directories.
type Uploader struct {
	cfg UploadConfig
}

// NewUploader creates the target directories and returns an Uploader.
func NewUploader(cfg UploadConfig) (*Uploader, error) {
	if cfg.BaseDir == "" {
		return nil, fmt.Errorf("uploads base directory not set")
	}
	if cfg.MaxSize <= 0 {
		cfg.MaxSize = MaxUploadSize
	}
	for _, sub := range cfg.Targets {
		dir, err := util.SafeJoinPath(cfg.BaseDir, sub)
		if err != nil {
			return nil, fmt.Errorf("upload target %q: %w", sub, err)
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating upload dir %s: %w", dir, err)
		}
	}
	return &Uploader{cfg: cfg}, nil
}

// Save validates and stores an uploaded file for a target, returning the
// stored file's metadata. Image uploads get a thumbnail alongside.
func (u *Uploader) Save(target string, file multipart.File, header *multipart.FileHeader) (*SavedFile, error) {
	sub, ok := u.cfg.Targets[target]
	if !ok {
		return nil, fmt.Errorf("unknown upload target %q", target)
	}

	if header.Size > u.cfg.MaxSize {
		return nil, fmt.Errorf("file exceeds maximum size of %d bytes", u.cfg.MaxSize)
	}

	original, err := util.SanitizeFilename(header.Filename)
	if err != nil {
		return nil, fmt.Errorf("invalid filename: %w", err)
	}

	ext := strings.ToLower(filepath.Ext(original))
	mimeType, ok := allowedExtensions[ext]
	if !ok {
		return nil, fmt.Errorf("file type %q is not allowed", ext)
	}

	// Millisecond timestamp plus UUID keeps names unique and sortable.
	name := fmt.Sprintf("%d_%s%s", time.Now().UnixMilli(), uuid.New().String(), ext)

	dstPath, err := util.SafeJoinPath(u.cfg.BaseDir, sub, name)
	if err != nil {
		return nil, err
	}

	out, err := os.Create(dstPath)
	if err != nil {
		return nil, fmt.Errorf("creating file: %w", err)
	}
	defer func() { _ = out.Close() }()

	size, err := io.Copy(out, io.LimitReader(file, u.cfg.MaxSize+1))
	if err != nil {
		_ = os.Remove(dstPath)
		return nil, fmt.Errorf("writing file: %w", err)
	}
	if size > u.cfg.MaxSize {
		_ = os.Remove(dstPath)
		return nil, fmt.Errorf("file exceeds maximum size of %d bytes", u.cfg.MaxSize)
	}

	saved := &SavedFile{
		Name:     name,
		RelPath:  path.Join(sub, name),
		URL:      "/uploads/" + path.Join(sub, name),
		Size:     size,
		MimeType: mimeType,
	}

	if imaging.IsImage(mimeType) {
		thumbPath, err := imaging.CreateThumbnail(dstPath)
		if err != nil {
			// The original upload stands on its own.
			slog.Warn("creating thumbnail", "error", err, "file", saved.RelPath)
		} else {
			saved.ThumbURL = "/uploads/" + path.Join(sub, filepath.Base(thumbPath))
		}
	}

	return saved, nil
}

// Remove deletes a stored upload (and its thumbnail if present) by its
// path relative to the uploads root.
func (u *Uploader) Remove(relPath string) error {
	full, err := util.SafeJoinPath(u.cfg.BaseDir, relPath)
	if err != nil {
		return err
	}
	if err := os.Remove(full); err != nil && !os.IsNotExist(err) {
		return err
	}
	thumb := imaging.ThumbnailPath(full)
	if err := os.Remove(thumb); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// BaseDir returns the uploads root the Uploader writes under.
func (u *Uploader) BaseDir() string {
	return u.cfg.BaseDir
}
