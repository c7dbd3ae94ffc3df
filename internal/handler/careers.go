package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/pestozap/pestozap-backend/internal/service"
	"github.com/pestozap/pestozap-backend/pkg/response"
)

// CareersHandler serves job postings and applications.
type CareersHandler struct {
	careersService service.CareersService
}

func NewCareersHandler(careersSvc service.CareersService) *CareersHandler {
	return &CareersHandler{careersService: careersSvc}
}

// ListJobs
// GET /api/v1/jobs
func (h *CareersHandler) ListJobs(c *gin.Context) {
	page, err := h.careersService.ListJobs(c.Request.Context(), listQuery(c))
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, page)
}

// ActiveJobs lists every open position, newest first.
// GET /api/v1/jobs/active
func (h *CareersHandler) ActiveJobs(c *gin.Context) {
	jobs, err := h.careersService.ActiveJobs(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, jobs)
}

// GetJob
// GET /api/v1/jobs/:id
func (h *CareersHandler) GetJob(c *gin.Context) {
	job, err := h.careersService.GetJob(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, job)
}

// CreateJob
// POST /api/v1/admin/jobs
func (h *CareersHandler) CreateJob(c *gin.Context) {
	var req service.JobInput
	if !bind(c, &req) {
		return
	}
	job, err := h.careersService.CreateJob(c.Request.Context(), req)
	if err != nil {
		fail(c, err)
		return
	}
	response.Created(c, job)
}

// UpdateJob
// PUT /api/v1/admin/jobs/:id
func (h *CareersHandler) UpdateJob(c *gin.Context) {
	var req service.JobInput
	if !bind(c, &req) {
		return
	}
	job, err := h.careersService.UpdateJob(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, job)
}

// DeleteJob
// DELETE /api/v1/admin/jobs/:id
func (h *CareersHandler) DeleteJob(c *gin.Context) {
	if err := h.careersService.DeleteJob(c.Request.Context(), c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	deleted(c)
}

// Apply is the public application form.
// POST /api/v1/applications
func (h *CareersHandler) Apply(c *gin.Context) {
	var req service.ApplicationInput
	if !bind(c, &req) {
		return
	}
	application, err := h.careersService.Apply(c.Request.Context(), req)
	if err != nil {
		fail(c, err)
		return
	}
	response.Created(c, application)
}

// ListApplications; ?job=<id> narrows to one posting.
// GET /api/v1/admin/applications
func (h *CareersHandler) ListApplications(c *gin.Context) {
	page, err := h.careersService.ListApplications(c.Request.Context(), listQuery(c))
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, page)
}

// GetApplication
// GET /api/v1/admin/applications/:id
func (h *CareersHandler) GetApplication(c *gin.Context) {
	application, err := h.careersService.GetApplication(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, application)
}

// DeleteApplication
// DELETE /api/v1/admin/applications/:id
func (h *CareersHandler) DeleteApplication(c *gin.Context) {
	if err := h.careersService.DeleteApplication(c.Request.Context(), c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	deleted(c)
}
