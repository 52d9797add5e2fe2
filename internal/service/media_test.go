package service

import (
	"bytes"
	"image"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func uploadRequest(t *testing.T, filename string, data []byte) (multipart.File, *multipart.FileHeader) {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("image", filename)
	if err != nil {
		t.Fatalf("CreateFormFile: %v", err)
	}
	if _, err := fw.Write(data); err != nil {
		t.Fatalf("writing upload: %v", err)
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("closing writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/compose", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if err := req.ParseMultipartForm(MaxUploadSize); err != nil {
		t.Fatalf("ParseMultipartForm: %v", err)
	}
	file, header, err := req.FormFile("image")
	if err != nil {
		t.Fatalf("FormFile: %v", err)
	}
	t.Cleanup(func() { _ = file.Close() })
	return file, header
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h))); err != nil {
		t.Fatalf("encoding png: %v", err)
	}
	return buf.Bytes()
}

func TestSaveImage(t *testing.T) {
	dir := t.TempDir()
	svc := NewMediaService(dir)

	file, header := uploadRequest(t, "photo.png", pngBytes(t, 8, 8))

	url, err := svc.SaveImage(file, header)
	if err != nil {
		t.Fatalf("SaveImage: %v", err)
	}
	if !strings.HasPrefix(url, "/uploads/") {
		t.Errorf("url = %q; want /uploads/ prefix", url)
	}
	if !strings.HasSuffix(url, ".png") {
		t.Errorf("url = %q; want .png suffix", url)
	}

	onDisk := filepath.Join(dir, strings.TrimPrefix(url, "/uploads/"))
	if _, err := os.Stat(onDisk); err != nil {
		t.Errorf("stored file missing: %v", err)
	}
}

func TestSaveImageUniqueNames(t *testing.T) {
	svc := NewMediaService(t.TempDir())

	data := pngBytes(t, 8, 8)
	fileA, headerA := uploadRequest(t, "same.png", data)
	fileB, headerB := uploadRequest(t, "same.png", data)

	urlA, err := svc.SaveImage(fileA, headerA)
	if err != nil {
		t.Fatalf("SaveImage: %v", err)
	}
	urlB, err := svc.SaveImage(fileB, headerB)
	if err != nil {
		t.Fatalf("SaveImage: %v", err)
	}
	if urlA == urlB {
		t.Error("two uploads of the same filename collided")
	}
}

func TestSaveImageRejectsOversize(t *testing.T) {
	svc := NewMediaService(t.TempDir())

	file, header := uploadRequest(t, "big.png", pngBytes(t, 8, 8))
	header.Size = MaxUploadSize + 1

	if _, err := svc.SaveImage(file, header); err == nil {
		t.Error("oversize upload accepted")
	}
}

func TestSaveImageRejectsUnknownType(t *testing.T) {
	svc := NewMediaService(t.TempDir())

	file, header := uploadRequest(t, "notes.txt", []byte("plain text"))
	header.Header.Set("Content-Type", "text/plain")

	if _, err := svc.SaveImage(file, header); err == nil {
		t.Error("non-image upload accepted")
	}
}

func TestSaveImageRejectsCorruptImage(t *testing.T) {
	svc := NewMediaService(t.TempDir())

	file, header := uploadRequest(t, "broken.png", []byte("not actually a png"))
	header.Header.Set("Content-Type", "image/png")

	if _, err := svc.SaveImage(file, header); err == nil {
		t.Error("corrupt image accepted")
	}
}
