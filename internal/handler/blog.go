package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/pestozap/pestozap-backend/internal/middleware"
	"github.com/pestozap/pestozap-backend/internal/service"
	"github.com/pestozap/pestozap-backend/pkg/response"
)

// BlogHandler serves posts, categories, tags, comments and likes.
type BlogHandler struct {
	blogService service.BlogService
}

func NewBlogHandler(blogSvc service.BlogService) *BlogHandler {
	return &BlogHandler{blogService: blogSvc}
}

type commentApprovalRequest struct {
	IsApproved *bool `json:"is_approved" binding:"required"`
}

// ListCategories lists active categories.
// GET /api/v1/blog/categories
func (h *BlogHandler) ListCategories(c *gin.Context) {
	page, err := h.blogService.ListCategories(c.Request.Context(), listQuery(c), true)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, page)
}

// AdminListCategories lists every category; ?is_active filters.
// GET /api/v1/admin/blog/categories
func (h *BlogHandler) AdminListCategories(c *gin.Context) {
	page, err := h.blogService.ListCategories(c.Request.Context(), listQuery(c), false)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, page)
}

// CreateCategory
// POST /api/v1/admin/blog/categories
func (h *BlogHandler) CreateCategory(c *gin.Context) {
	var req service.CategoryInput
	if !bind(c, &req) {
		return
	}
	category, err := h.blogService.CreateCategory(c.Request.Context(), req)
	if err != nil {
		fail(c, err)
		return
	}
	response.Created(c, category)
}

// UpdateCategory
// PUT /api/v1/admin/blog/categories/:id
func (h *BlogHandler) UpdateCategory(c *gin.Context) {
	var req service.CategoryInput
	if !bind(c, &req) {
		return
	}
	category, err := h.blogService.UpdateCategory(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, category)
}

// DeleteCategory
// DELETE /api/v1/admin/blog/categories/:id
func (h *BlogHandler) DeleteCategory(c *gin.Context) {
	if err := h.blogService.DeleteCategory(c.Request.Context(), c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	deleted(c)
}

// ListTags
// GET /api/v1/blog/tags
func (h *BlogHandler) ListTags(c *gin.Context) {
	page, err := h.blogService.ListTags(c.Request.Context(), listQuery(c))
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, page)
}

// CreateTag
// POST /api/v1/admin/blog/tags
func (h *BlogHandler) CreateTag(c *gin.Context) {
	var req service.TagInput
	if !bind(c, &req) {
		return
	}
	tag, err := h.blogService.CreateTag(c.Request.Context(), req)
	if err != nil {
		fail(c, err)
		return
	}
	response.Created(c, tag)
}

// DeleteTag
// DELETE /api/v1/admin/blog/tags/:id
func (h *BlogHandler) DeleteTag(c *gin.Context) {
	if err := h.blogService.DeleteTag(c.Request.Context(), c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	deleted(c)
}

// ListPosts pages published posts. Besides the column filters it accepts
// tags (ids, comma separated), author, date_from and date_to (YYYY-MM-DD).
// GET /api/v1/blog/posts
func (h *BlogHandler) ListPosts(c *gin.Context) {
	from, err := queryDate(c, "date_from")
	if err != nil {
		fail(c, err)
		return
	}
	to, err := queryDate(c, "date_to")
	if err != nil {
		fail(c, err)
		return
	}
	filter := &service.PostQuery{
		Tags:     queryList(c, "tags"),
		DateFrom: from,
		DateTo:   to,
		Author:   c.Query("author"),
	}

	page, err := h.blogService.ListPosts(c.Request.Context(), filter, listQuery(c))
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, page)
}

// Featured
// GET /api/v1/blog/posts/featured
func (h *BlogHandler) Featured(c *gin.Context) {
	posts, err := h.blogService.Featured(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, posts)
}

// GetPost returns a published post and counts the view.
// GET /api/v1/blog/posts/:slug
func (h *BlogHandler) GetPost(c *gin.Context) {
	post, err := h.blogService.PostBySlug(c.Request.Context(), c.Param("slug"), middleware.UserID(c))
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, post)
}

// Related
// GET /api/v1/blog/posts/:slug/related
func (h *BlogHandler) Related(c *gin.Context) {
	posts, err := h.blogService.Related(c.Request.Context(), c.Param("slug"))
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, posts)
}

// CreatePost publishes as the caller.
// POST /api/v1/blog/posts
func (h *BlogHandler) CreatePost(c *gin.Context) {
	var req service.PostInput
	if !bind(c, &req) {
		return
	}
	post, err := h.blogService.CreatePost(c.Request.Context(), middleware.UserID(c), req)
	if err != nil {
		fail(c, err)
		return
	}
	response.Created(c, post)
}

// AdminListPosts pages posts of every status.
// GET /api/v1/admin/blog/posts
func (h *BlogHandler) AdminListPosts(c *gin.Context) {
	page, err := h.blogService.AdminListPosts(c.Request.Context(), listQuery(c))
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, page)
}

// AdminGetPost
// GET /api/v1/admin/blog/posts/:id
func (h *BlogHandler) AdminGetPost(c *gin.Context) {
	post, err := h.blogService.AdminPost(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, post)
}

// UpdatePost
// PUT /api/v1/admin/blog/posts/:id
func (h *BlogHandler) UpdatePost(c *gin.Context) {
	var req service.PostInput
	if !bind(c, &req) {
		return
	}
	post, err := h.blogService.UpdatePost(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, post)
}

// DeletePost soft-deletes a post.
// DELETE /api/v1/admin/blog/posts/:id
func (h *BlogHandler) DeletePost(c *gin.Context) {
	if err := h.blogService.DeletePost(c.Request.Context(), c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	deleted(c)
}

// RestorePost
// POST /api/v1/admin/blog/posts/:id/restore
func (h *BlogHandler) RestorePost(c *gin.Context) {
	post, err := h.blogService.RestorePost(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, post)
}

// Comments returns approved top-level comments with their approved replies.
// GET /api/v1/blog/posts/:slug/comments
func (h *BlogHandler) Comments(c *gin.Context) {
	page, err := h.blogService.Comments(c.Request.Context(), c.Param("slug"), listQuery(c).Page)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, page)
}

// AddComment
// POST /api/v1/blog/posts/:slug/comments
func (h *BlogHandler) AddComment(c *gin.Context) {
	var req service.CommentInput
	if !bind(c, &req) {
		return
	}
	comment, err := h.blogService.AddComment(c.Request.Context(), c.Param("slug"), middleware.UserID(c), req)
	if err != nil {
		fail(c, err)
		return
	}
	response.Created(c, comment)
}

// AdminListComments
// GET /api/v1/admin/blog/comments
func (h *BlogHandler) AdminListComments(c *gin.Context) {
	page, err := h.blogService.AdminListComments(c.Request.Context(), listQuery(c))
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, page)
}

// SetCommentApproval
// PUT /api/v1/admin/blog/comments/:id/approval
func (h *BlogHandler) SetCommentApproval(c *gin.Context) {
	var req commentApprovalRequest
	if !bind(c, &req) {
		return
	}
	comment, err := h.blogService.SetCommentApproval(c.Request.Context(), c.Param("id"), *req.IsApproved)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, comment)
}

// DeleteComment
// DELETE /api/v1/admin/blog/comments/:id
func (h *BlogHandler) DeleteComment(c *gin.Context) {
	if err := h.blogService.DeleteComment(c.Request.Context(), c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	deleted(c)
}

// ToggleLike flips the caller's like: 201 when it now likes, 200 when not.
// POST /api/v1/blog/posts/:slug/like
func (h *BlogHandler) ToggleLike(c *gin.Context) {
	result, err := h.blogService.ToggleLike(c.Request.Context(), c.Param("slug"), middleware.UserID(c))
	if err != nil {
		fail(c, err)
		return
	}
	if result.IsLiked {
		response.Created(c, result)
		return
	}
	response.Success(c, result)
}

// Like
// PUT /api/v1/blog/posts/:slug/like
func (h *BlogHandler) Like(c *gin.Context) {
	result, err := h.blogService.Like(c.Request.Context(), c.Param("slug"), middleware.UserID(c))
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, result)
}

// Unlike
// DELETE /api/v1/blog/posts/:slug/like
func (h *BlogHandler) Unlike(c *gin.Context) {
	result, err := h.blogService.Unlike(c.Request.Context(), c.Param("slug"), middleware.UserID(c))
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, result)
}

// Stats
// GET /api/v1/blog/stats
func (h *BlogHandler) Stats(c *gin.Context) {
	stats, err := h.blogService.Stats(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, stats)
}
