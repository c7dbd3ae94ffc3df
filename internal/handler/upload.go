package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/pestozap/pestozap-backend/internal/service"
	"github.com/pestozap/pestozap-backend/pkg/response"
)

// UploadField is the multipart field carrying the file.
const UploadField = "file"

type UploadHandler struct {
	uploadService service.UploadService
}

func NewUploadHandler(uploadSvc service.UploadService) *UploadHandler {
	return &UploadHandler{uploadService: uploadSvc}
}

// Upload stores one file under the namespace given by the "type" form field.
// POST /api/v1/admin/upload
func (h *UploadHandler) Upload(c *gin.Context) {
	file, closeFile, err := formFile(c)
	if err != nil {
		fail(c, err)
		return
	}
	defer closeFile()

	result, err := h.uploadService.Upload(c.Request.Context(), c.PostForm("type"), file)
	if err != nil {
		fail(c, err)
		return
	}
	response.Created(c, result)
}

// formFile opens the upload field. A missing field or a non-multipart
// body is ErrFileRequired.
func formFile(c *gin.Context) (*service.FileInput, func(), error) {
	header, err := c.FormFile(UploadField)
	if err != nil {
		return nil, nil, service.ErrFileRequired
	}
	f, err := header.Open()
	if err != nil {
		return nil, nil, err
	}
	return &service.FileInput{
		Name:        header.Filename,
		Size:        header.Size,
		ContentType: header.Header.Get("Content-Type"),
		Reader:      f,
	}, func() { f.Close() }, nil
}
