package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pestozap/pestozap-backend/internal/middleware"
	"github.com/pestozap/pestozap-backend/internal/service"
	"github.com/pestozap/pestozap-backend/pkg/response"
	"go.uber.org/zap"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// EnquiryHandler serves the contact form and the enquiry inbox.
type EnquiryHandler struct {
	enquiryService service.EnquiryService
}

func NewEnquiryHandler(enquirySvc service.EnquiryService) *EnquiryHandler {
	return &EnquiryHandler{enquiryService: enquirySvc}
}

type enquiryStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// Submit records a contact or service enquiry.
// POST /api/v1/enquiries
func (h *EnquiryHandler) Submit(c *gin.Context) {
	var req service.EnquiryInput
	if !bind(c, &req) {
		return
	}
	enquiry, err := h.enquiryService.Submit(c.Request.Context(), req)
	if err != nil {
		fail(c, err)
		return
	}
	response.Created(c, enquiry)
}

// List
// GET /api/v1/admin/enquiries
func (h *EnquiryHandler) List(c *gin.Context) {
	page, err := h.enquiryService.List(c.Request.Context(), listQuery(c))
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, page)
}

// Get
// GET /api/v1/admin/enquiries/:id
func (h *EnquiryHandler) Get(c *gin.Context) {
	enquiry, err := h.enquiryService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, enquiry)
}

// Update
// PUT /api/v1/admin/enquiries/:id
func (h *EnquiryHandler) Update(c *gin.Context) {
	var req service.EnquiryUpdateInput
	if !bind(c, &req) {
		return
	}
	enquiry, err := h.enquiryService.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, enquiry)
}

// UpdateStatus
// PATCH /api/v1/admin/enquiries/:id/status
func (h *EnquiryHandler) UpdateStatus(c *gin.Context) {
	var req enquiryStatusRequest
	if !bind(c, &req) {
		return
	}
	enquiry, err := h.enquiryService.UpdateStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, enquiry)
}

// Delete
// DELETE /api/v1/admin/enquiries/:id
func (h *EnquiryHandler) Delete(c *gin.Context) {
	if err := h.enquiryService.Delete(c.Request.Context(), c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	deleted(c)
}

// Restore
// POST /api/v1/admin/enquiries/:id/restore
func (h *EnquiryHandler) Restore(c *gin.Context) {
	enquiry, err := h.enquiryService.Restore(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, enquiry)
}

// Stats
// GET /api/v1/admin/enquiries/stats
func (h *EnquiryHandler) Stats(c *gin.Context) {
	stats, err := h.enquiryService.Stats(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, stats)
}

// Export streams the filtered inbox as an xlsx workbook.
// GET /api/v1/admin/enquiries/export
func (h *EnquiryHandler) Export(c *gin.Context) {
	q := listQuery(c)
	book, err := h.enquiryService.Export(c.Request.Context(), q)
	if err != nil {
		fail(c, err)
		return
	}
	defer func() {
		if err := book.Close(); err != nil {
			middleware.GetLogger().Warn("close export workbook", zap.Error(err))
		}
	}()

	filename := fmt.Sprintf("enquiries_%s.xlsx", time.Now().UTC().Format("20060102"))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Header("Content-Type", xlsxContentType)
	c.Status(http.StatusOK)
	if err := book.Write(c.Writer); err != nil {
		middleware.GetLogger().Error("write export workbook", zap.Error(err))
	}
}
