// Copyright (c) 2026 Canopy Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"bytes"
	"image"
	"image/png"
	"mime/multipart"
	"net/http/httptest"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
)

// multipartUpload builds a multipart request carrying one file field.
func multipartUpload(t *testing.T, filename string, content []byte) (multipart.File, *multipart.FileHeader) {
	t.Helper()

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	fw, err := w.CreateFormFile("file", filename)
	if err != nil {
		t.Fatalf("CreateFormFile error: %v", err)
	}
	if _, err := fw.Write(content); err != nil {
		t.Fatalf("writing form file: %v", err)
	}
	_ = w.Close()

	req := httptest.NewRequest("POST", "/", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	if err := req.ParseMultipartForm(32 << 20); err != nil {
		t.Fatalf("ParseMultipartForm error: %v", err)
	}

	file, header, err := req.FormFile("file")
	if err != nil {
		t.Fatalf("FormFile error: %v", err)
	}
	t.Cleanup(func() { _ = file.Close() })
	return file, header
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encoding png: %v", err)
	}
	return buf.Bytes()
}

func newTestUploader(t *testing.T) *Uploader {
	t.Helper()
	u, err := NewUploader(DefaultUploadConfig(t.TempDir()))
	if err != nil {
		t.Fatalf("NewUploader error: %v", err)
	}
	return u
}

var uploadNameRe = regexp.MustCompile(`^\d{13}_[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}\.png$`)

func TestSave_ImageUpload(t *testing.T) {
	u := newTestUploader(t)
	file, header := multipartUpload(t, "catalog photo.png", pngBytes(t))

	saved, err := u.Save(UploadProducts, file, header)
	if err != nil {
		t.Fatalf("Save error: %v", err)
	}

	if !uploadNameRe.MatchString(saved.Name) {
		t.Errorf("generated name %q does not match <unix-ms>_<uuid><ext>", saved.Name)
	}
	if !strings.HasPrefix(saved.URL, "/uploads/products/") {
		t.Errorf("URL = %q, want /uploads/products/ prefix", saved.URL)
	}
	if saved.MimeType != "image/png" {
		t.Errorf("MimeType = %q", saved.MimeType)
	}

	onDisk := filepath.Join(u.BaseDir(), "products", saved.Name)
	if _, err := os.Stat(onDisk); err != nil {
		t.Errorf("stored file missing: %v", err)
	}
	if saved.ThumbURL == "" {
		t.Error("image upload did not produce a thumbnail")
	}
}

func TestSave_PDFUpload(t *testing.T) {
	u := newTestUploader(t)
	file, header := multipartUpload(t, "resume.pdf", []byte("%PDF-1.4 test"))

	saved, err := u.Save(UploadResumes, file, header)
	if err != nil {
		t.Fatalf("Save error: %v", err)
	}
	if saved.MimeType != "application/pdf" {
		t.Errorf("MimeType = %q", saved.MimeType)
	}
	if saved.ThumbURL != "" {
		t.Error("pdf upload produced a thumbnail")
	}
}

func TestSave_DisallowedExtension(t *testing.T) {
	u := newTestUploader(t)
	file, header := multipartUpload(t, "payload.exe", []byte("MZ"))

	if _, err := u.Save(UploadProducts, file, header); err == nil {
		t.Fatal("executable upload was accepted")
	}
}

func TestSave_UnknownTarget(t *testing.T) {
	u := newTestUploader(t)
	file, header := multipartUpload(t, "photo.png", pngBytes(t))

	if _, err := u.Save("nope", file, header); err == nil {
		t.Fatal("unknown target was accepted")
	}
}

func TestSave_SizeCap(t *testing.T) {
	cfg := DefaultUploadConfig(t.TempDir())
	cfg.MaxSize = 4
	u, err := NewUploader(cfg)
	if err != nil {
		t.Fatalf("NewUploader error: %v", err)
	}

	file, header := multipartUpload(t, "big.pdf", []byte("%PDF-1.4 far too large"))
	if _, err := u.Save(UploadResumes, file, header); err == nil {
		t.Fatal("oversized upload was accepted")
	}
}

func TestRemove(t *testing.T) {
	u := newTestUploader(t)
	file, header := multipartUpload(t, "photo.png", pngBytes(t))

	saved, err := u.Save(UploadProducts, file, header)
	if err != nil {
		t.Fatalf("Save error: %v", err)
	}

	if err := u.Remove(saved.RelPath); err != nil {
		t.Fatalf("Remove error: %v", err)
	}
	if _, err := os.Stat(filepath.Join(u.BaseDir(), "products", saved.Name)); !os.IsNotExist(err) {
		t.Error("file still present after Remove")
	}

	// Removing twice is not an error.
	if err := u.Remove(saved.RelPath); err != nil {
		t.Errorf("second Remove error: %v", err)
	}
}
