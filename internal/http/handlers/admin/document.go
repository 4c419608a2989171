package admin

import (
	handlershared "github.com/Y4Clab/WFP-TRACKER-SYSTEM/internal/http/handlers/shared"
	"github.com/Y4Clab/WFP-TRACKER-SYSTEM/internal/http/response"

	"github.com/gin-gonic/gin"
)

// UploadVendorDocument 上传供应商资质文件（表单字段 document）
func (h *Handler) UploadVendorDocument(c *gin.Context) {
	vendorID, ok := requireParam(c, "id")
	if !ok {
		return
	}
	file, err := c.FormFile("document")
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.document_required", nil)
		return
	}
	doc, err := h.DocumentService.Upload(vendorID, file)
	if err != nil {
		respondWithMappedError(c, err, response.CodeInternal, "error.internal_error")
		return
	}
	requestLog(c).Infow("admin_vendor_document_uploaded",
		"vendor_id", vendorID,
		"document_id", doc.UniqueID,
		"size", doc.Size,
	)
	response.Success(c, doc)
}

// ListVendorDocuments 供应商文件列表
func (h *Handler) ListVendorDocuments(c *gin.Context) {
	vendorID, ok := requireParam(c, "id")
	if !ok {
		return
	}
	page, pageSize := handlershared.ParsePagination(c)
	docs, total, err := h.DocumentService.List(vendorID, page, pageSize)
	if err != nil {
		respondWithMappedError(c, err, response.CodeInternal, "error.internal_error")
		return
	}
	response.SuccessWithPage(c, docs, response.NewPagination(page, pageSize, total))
}

// DownloadDocument 下载文件
func (h *Handler) DownloadDocument(c *gin.Context) {
	id, ok := requireParam(c, "id")
	if !ok {
		return
	}
	doc, err := h.DocumentService.Get(id)
	if err != nil {
		respondWithMappedError(c, err, response.CodeInternal, "error.internal_error")
		return
	}
	c.FileAttachment(doc.StoragePath, doc.OriginalName)
}

// DeleteDocument 删除文件
func (h *Handler) DeleteDocument(c *gin.Context) {
	id, ok := requireParam(c, "id")
	if !ok {
		return
	}
	if err := h.DocumentService.Delete(id); err != nil {
		respondWithMappedError(c, err, response.CodeInternal, "error.internal_error")
		return
	}
	requestLog(c).Infow("admin_document_deleted", "document_id", id)
	response.Success(c, nil)
}
