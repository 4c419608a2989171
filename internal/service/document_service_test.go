package service

import (
	"bytes"
	"errors"
	"mime/multipart"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Y4Clab/WFP-TRACKER-SYSTEM/internal/config"
	"github.com/Y4Clab/WFP-TRACKER-SYSTEM/internal/constants"
	"github.com/Y4Clab/WFP-TRACKER-SYSTEM/internal/models"
	"github.com/Y4Clab/WFP-TRACKER-SYSTEM/internal/repository"
)

func newDocumentFileHeader(t *testing.T, filename string, content []byte) *multipart.FileHeader {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("document", filename)
	if err != nil {
		t.Fatalf("create form file failed: %v", err)
	}
	if _, err := part.Write(content); err != nil {
		t.Fatalf("write form file failed: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close multipart writer failed: %v", err)
	}
	req := httptest.NewRequest("POST", "/documents", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	if err := req.ParseMultipartForm(1 << 20); err != nil {
		t.Fatalf("parse multipart form failed: %v", err)
	}
	return req.MultipartForm.File["document"][0]
}

func setupDocumentServiceTest(t *testing.T, maxSize int64) (adminServices, *DocumentService, *models.Vendor, string) {
	t.Helper()
	s := setupAdminServicesTest(t)
	dir := t.TempDir()
	docs := NewDocumentService(
		config.UploadConfig{Dir: dir, MaxSize: maxSize},
		repository.NewDocumentRepository(s.db),
		repository.NewVendorRepository(s.db),
	)
	vendor, err := s.vendors.Create(CreateVendorInput{Name: "Grain Co", VendorType: constants.VendorTypeFoodSupplier})
	if err != nil {
		t.Fatalf("create vendor failed: %v", err)
	}
	return s, docs, vendor, dir
}

func TestDocumentUploadStoresFile(t *testing.T) {
	_, docs, vendor, dir := setupDocumentServiceTest(t, 0)
	content := []byte("%PDF-1.4 transport agreement")

	doc, err := docs.Upload(vendor.UniqueID, newDocumentFileHeader(t, "Agreement.PDF", content))
	if err != nil {
		t.Fatalf("upload failed: %v", err)
	}
	if doc.Extension != "pdf" || doc.OriginalName != "Agreement.PDF" || doc.Size != int64(len(content)) {
		t.Fatalf("unexpected document: %+v", doc)
	}
	if !strings.HasPrefix(doc.StoragePath, dir) {
		t.Fatalf("document should be stored under %s, got %s", dir, doc.StoragePath)
	}
	stored, err := os.ReadFile(doc.StoragePath)
	if err != nil || !bytes.Equal(stored, content) {
		t.Fatalf("stored content mismatch: err=%v", err)
	}

	rows, total, err := docs.List(vendor.UniqueID, 1, 20)
	if err != nil || total != 1 || rows[0].UniqueID != doc.UniqueID {
		t.Fatalf("unexpected list: total=%d err=%v", total, err)
	}

	if err := docs.Delete(doc.UniqueID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, err := os.Stat(doc.StoragePath); !os.IsNotExist(err) {
		t.Fatalf("stored file should be removed, stat err: %v", err)
	}
	if _, err := docs.Get(doc.UniqueID); !errors.Is(err, ErrDocumentNotFound) {
		t.Fatalf("expected document not found, got: %v", err)
	}
}

func TestDocumentUploadRejectsExtensionAndSize(t *testing.T) {
	_, docs, vendor, dir := setupDocumentServiceTest(t, 16)

	if _, err := docs.Upload(vendor.UniqueID, newDocumentFileHeader(t, "run.exe", []byte("MZ"))); !errors.Is(err, ErrDocumentExtension) {
		t.Fatalf("expected extension error, got: %v", err)
	}
	if _, err := docs.Upload(vendor.UniqueID, newDocumentFileHeader(t, "noext", []byte("x"))); !errors.Is(err, ErrDocumentExtension) {
		t.Fatalf("expected extension error for missing extension, got: %v", err)
	}
	big := bytes.Repeat([]byte("a"), 17)
	if _, err := docs.Upload(vendor.UniqueID, newDocumentFileHeader(t, "scan.png", big)); !errors.Is(err, ErrDocumentTooLarge) {
		t.Fatalf("expected too large error, got: %v", err)
	}
	if _, err := docs.Upload("missing", newDocumentFileHeader(t, "scan.png", []byte("x"))); !errors.Is(err, ErrVendorNotFound) {
		t.Fatalf("expected vendor not found, got: %v", err)
	}
	if _, err := docs.Upload(vendor.UniqueID, nil); !errors.Is(err, ErrDocumentRequired) {
		t.Fatalf("expected document required, got: %v", err)
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Fatalf("rejected uploads must not leave files, got %d entries", len(entries))
	}
}

func TestWriteLimitedStopsAtLimit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.pdf")
	if _, err := writeLimited(path, strings.NewReader("12345"), 4); !errors.Is(err, ErrDocumentTooLarge) {
		t.Fatalf("expected too large, got: %v", err)
	}
	written, err := writeLimited(path, strings.NewReader("1234"), 4)
	if err != nil || written != 4 {
		t.Fatalf("expected 4 bytes written, got %d err=%v", written, err)
	}
}

func TestVendorDeleteRemovesDocumentFiles(t *testing.T) {
	s, docs, vendor, _ := setupDocumentServiceTest(t, 0)
	doc, err := docs.Upload(vendor.UniqueID, newDocumentFileHeader(t, "permit.jpg", []byte("jpeg-bytes")))
	if err != nil {
		t.Fatalf("upload failed: %v", err)
	}
	if err := s.vendors.Delete(vendor.UniqueID); err != nil {
		t.Fatalf("delete vendor failed: %v", err)
	}
	if _, err := os.Stat(doc.StoragePath); !os.IsNotExist(err) {
		t.Fatalf("vendor delete should remove stored documents, stat err: %v", err)
	}
	var count int64
	if err := s.db.Model(&models.VendorDocument{}).Count(&count).Error; err != nil {
		t.Fatalf("count documents failed: %v", err)
	}
	if count != 0 {
		t.Fatalf("document rows should be deleted with vendor, got %d", count)
	}
}
