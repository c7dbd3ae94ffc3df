package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/pestozap/pestozap-backend/internal/service"
	"github.com/pestozap/pestozap-backend/pkg/response"
)

// ReviewHandler serves customer testimonials.
type ReviewHandler struct {
	reviewService service.ReviewService
}

func NewReviewHandler(reviewSvc service.ReviewService) *ReviewHandler {
	return &ReviewHandler{reviewService: reviewSvc}
}

// Approved pages approved reviews; ?location=home|community narrows to
// reviews shown there, "both" included.
// GET /api/v1/reviews
func (h *ReviewHandler) Approved(c *gin.Context) {
	q := listQuery(c)
	delete(q.Filters, "display_location")
	delete(q.Filters, "is_approved")
	page, err := h.reviewService.Approved(c.Request.Context(), c.Query("location"), q)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, page)
}

// Submit records a review awaiting approval.
// POST /api/v1/reviews
func (h *ReviewHandler) Submit(c *gin.Context) {
	var req service.ReviewInput
	if !bind(c, &req) {
		return
	}
	review, err := h.reviewService.Submit(c.Request.Context(), req)
	if err != nil {
		fail(c, err)
		return
	}
	response.Created(c, review)
}

// Stats
// GET /api/v1/reviews/stats
func (h *ReviewHandler) Stats(c *gin.Context) {
	stats, err := h.reviewService.Stats(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, stats)
}

// List
// GET /api/v1/admin/reviews
func (h *ReviewHandler) List(c *gin.Context) {
	page, err := h.reviewService.List(c.Request.Context(), listQuery(c))
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, page)
}

// Get
// GET /api/v1/admin/reviews/:id
func (h *ReviewHandler) Get(c *gin.Context) {
	review, err := h.reviewService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, review)
}

// Update
// PUT /api/v1/admin/reviews/:id
func (h *ReviewHandler) Update(c *gin.Context) {
	var req service.ReviewUpdateInput
	if !bind(c, &req) {
		return
	}
	review, err := h.reviewService.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, review)
}

// Approve
// POST /api/v1/admin/reviews/:id/approve
func (h *ReviewHandler) Approve(c *gin.Context) {
	review, err := h.reviewService.Approve(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, review)
}

// Delete
// DELETE /api/v1/admin/reviews/:id
func (h *ReviewHandler) Delete(c *gin.Context) {
	if err := h.reviewService.Delete(c.Request.Context(), c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	deleted(c)
}
