package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/pestozap/pestozap-backend/internal/service"
	"github.com/pestozap/pestozap-backend/pkg/response"
)

// OfferHandler serves promotional offers.
type OfferHandler struct {
	offerService service.OfferService
}

func NewOfferHandler(offerSvc service.OfferService) *OfferHandler {
	return &OfferHandler{offerService: offerSvc}
}

// Active lists offers redeemable now.
// GET /api/v1/offers/active
func (h *OfferHandler) Active(c *gin.Context) {
	offers, err := h.offerService.Active(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, offers)
}

// GetByCode
// GET /api/v1/offers/code/:code
func (h *OfferHandler) GetByCode(c *gin.Context) {
	offer, err := h.offerService.GetByCode(c.Request.Context(), c.Param("code"))
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, offer)
}

// Redeem consumes one use of the offer.
// POST /api/v1/offers/code/:code/redeem
func (h *OfferHandler) Redeem(c *gin.Context) {
	offer, err := h.offerService.Redeem(c.Request.Context(), c.Param("code"))
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, offer)
}

// List
// GET /api/v1/admin/offers
func (h *OfferHandler) List(c *gin.Context) {
	page, err := h.offerService.List(c.Request.Context(), listQuery(c))
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, page)
}

// Get
// GET /api/v1/admin/offers/:id
func (h *OfferHandler) Get(c *gin.Context) {
	offer, err := h.offerService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, offer)
}

// Create
// POST /api/v1/admin/offers
func (h *OfferHandler) Create(c *gin.Context) {
	var req service.OfferInput
	if !bind(c, &req) {
		return
	}
	offer, err := h.offerService.Create(c.Request.Context(), req)
	if err != nil {
		fail(c, err)
		return
	}
	response.Created(c, offer)
}

// Update
// PUT /api/v1/admin/offers/:id
func (h *OfferHandler) Update(c *gin.Context) {
	var req service.OfferInput
	if !bind(c, &req) {
		return
	}
	offer, err := h.offerService.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, offer)
}

// Delete
// DELETE /api/v1/admin/offers/:id
func (h *OfferHandler) Delete(c *gin.Context) {
	if err := h.offerService.Delete(c.Request.Context(), c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	deleted(c)
}

// Stats
// GET /api/v1/admin/offers/stats
func (h *OfferHandler) Stats(c *gin.Context) {
	stats, err := h.offerService.Stats(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, stats)
}
