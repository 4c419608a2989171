package service

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/Y4Clab/WFP-TRACKER-SYSTEM/internal/config"
	"github.com/Y4Clab/WFP-TRACKER-SYSTEM/internal/logger"
	"github.com/Y4Clab/WFP-TRACKER-SYSTEM/internal/models"
	"github.com/Y4Clab/WFP-TRACKER-SYSTEM/internal/repository"

	"github.com/google/uuid"
)

const (
	defaultDocumentDir     = "uploads"
	defaultDocumentMaxSize = 10 * 1024 * 1024
)

var defaultDocumentExtensions = []string{"pdf", "doc", "docx", "jpg", "png"}

// DocumentService 供应商资质文件与协议
type DocumentService struct {
	cfg          config.UploadConfig
	documentRepo repository.DocumentRepository
	vendorRepo   repository.VendorRepository
}

// NewDocumentService 创建文件服务，未配置项使用默认值（10MB，pdf/doc/docx/jpg/png）
func NewDocumentService(cfg config.UploadConfig, documentRepo repository.DocumentRepository, vendorRepo repository.VendorRepository) *DocumentService {
	if strings.TrimSpace(cfg.Dir) == "" {
		cfg.Dir = defaultDocumentDir
	}
	if cfg.MaxSize <= 0 {
		cfg.MaxSize = defaultDocumentMaxSize
	}
	if len(cfg.AllowedExtensions) == 0 {
		cfg.AllowedExtensions = defaultDocumentExtensions
	}
	return &DocumentService{cfg: cfg, documentRepo: documentRepo, vendorRepo: vendorRepo}
}

// Upload 保存供应商文件并登记
func (s *DocumentService) Upload(vendorUniqueID string, file *multipart.FileHeader) (*models.VendorDocument, error) {
	if file == nil {
		return nil, ErrDocumentRequired
	}
	vendor, err := s.vendorRepo.GetByUniqueID(vendorUniqueID)
	if err != nil {
		return nil, err
	}
	if vendor == nil {
		return nil, ErrVendorNotFound
	}
	if file.Size > s.cfg.MaxSize {
		return nil, ErrDocumentTooLarge
	}
	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !isAllowedExtension(ext, s.cfg.AllowedExtensions) {
		return nil, ErrDocumentExtension
	}

	src, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer src.Close()

	head := make([]byte, 512)
	n, err := io.ReadFull(src, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return nil, err
	}
	contentType := http.DetectContentType(head[:n])

	storagePath := filepath.Join(s.cfg.Dir, "documents", vendor.UniqueID, uuid.NewString()+ext)
	if err := os.MkdirAll(filepath.Dir(storagePath), 0o755); err != nil {
		return nil, err
	}
	written, err := writeLimited(storagePath, io.MultiReader(bytes.NewReader(head[:n]), src), s.cfg.MaxSize)
	if err != nil {
		removeStoredFile(storagePath)
		return nil, err
	}

	doc := &models.VendorDocument{
		VendorID:     vendor.ID,
		OriginalName: filepath.Base(file.Filename),
		StoragePath:  storagePath,
		Extension:    strings.TrimPrefix(ext, "."),
		ContentType:  contentType,
		Size:         written,
	}
	if err := s.documentRepo.Create(doc); err != nil {
		removeStoredFile(storagePath)
		return nil, err
	}
	return doc, nil
}

// List 供应商文件列表，vendorUniqueID 为空时返回全部
func (s *DocumentService) List(vendorUniqueID string, page, pageSize int) ([]models.VendorDocument, int64, error) {
	filter := repository.DocumentListFilter{Page: page, PageSize: pageSize}
	if vendorUniqueID = strings.TrimSpace(vendorUniqueID); vendorUniqueID != "" {
		vendor, err := s.vendorRepo.GetByUniqueID(vendorUniqueID)
		if err != nil {
			return nil, 0, err
		}
		if vendor == nil {
			return nil, 0, ErrVendorNotFound
		}
		filter.VendorID = vendor.ID
	}
	return s.documentRepo.List(filter)
}

// Get 根据对外标识获取文件
func (s *DocumentService) Get(uniqueID string) (*models.VendorDocument, error) {
	doc, err := s.documentRepo.GetByUniqueID(uniqueID)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, ErrDocumentNotFound
	}
	return doc, nil
}

// Delete 删除文件记录及存储文件
func (s *DocumentService) Delete(uniqueID string) error {
	doc, err := s.Get(uniqueID)
	if err != nil {
		return err
	}
	if err := s.documentRepo.Delete(doc.ID); err != nil {
		return err
	}
	removeStoredFile(doc.StoragePath)
	return nil
}

// writeLimited 写入文件，超过 limit 字节时返回 ErrDocumentTooLarge
func writeLimited(path string, src io.Reader, limit int64) (int64, error) {
	dst, err := os.Create(path)
	if err != nil {
		return 0, err
	}
	written, err := io.Copy(dst, io.LimitReader(src, limit+1))
	if closeErr := dst.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return 0, fmt.Errorf("save document failed: %w", err)
	}
	if written > limit {
		return 0, ErrDocumentTooLarge
	}
	return written, nil
}

func removeStoredFile(path string) {
	if strings.TrimSpace(path) == "" {
		return
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		logger.Warnw("document_file_remove_failed", "path", path, "error", err)
	}
}

func isAllowedExtension(ext string, allowed []string) bool {
	ext = strings.TrimPrefix(strings.ToLower(strings.TrimSpace(ext)), ".")
	if ext == "" {
		return false
	}
	for _, item := range allowed {
		if strings.TrimPrefix(strings.ToLower(strings.TrimSpace(item)), ".") == ext {
			return true
		}
	}
	return false
}
