package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	blogapp "github.com/tourbook/backend/internal/application/blog"
)

// BlogHandler handles blog post endpoints
type BlogHandler struct {
	BaseHandler
	postService *blogapp.PostService
}

// NewBlogHandler creates a new BlogHandler
func NewBlogHandler(postService *blogapp.PostService) *BlogHandler {
	return &BlogHandler{
		postService: postService,
	}
}

// ListPublished godoc
// @Summary      List blog posts
// @Description  List published posts, newest first
// @Tags         blog
// @Produce      json
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Param        search query string false "Search in title and excerpt"
// @Param        tag query string false "Tag"
// @Success      200 {object} dto.Response{data=[]blogapp.PostListResponse,meta=dto.Meta}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /blog [get]
func (h *BlogHandler) ListPublished(c *gin.Context) {
	h.list(c, h.postService.ListPublished)
}

// GetBySlug godoc
// @Summary      Get blog post
// @Tags         blog
// @Produce      json
// @Param        slug path string true "Post slug"
// @Success      200 {object} dto.Response{data=blogapp.PostResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /blog/{slug} [get]
func (h *BlogHandler) GetBySlug(c *gin.Context) {
	post, err := h.postService.GetPublishedBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, post)
}

// List godoc
// @Summary      List blog posts (admin)
// @Tags         admin-blog
// @Produce      json
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Param        search query string false "Search in title and excerpt"
// @Param        tag query string false "Tag"
// @Param        status query string false "Status" Enums(draft, published)
// @Success      200 {object} dto.Response{data=[]blogapp.PostListResponse,meta=dto.Meta}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/blog [get]
func (h *BlogHandler) List(c *gin.Context) {
	h.list(c, h.postService.List)
}

// Get godoc
// @Summary      Get blog post (admin)
// @Tags         admin-blog
// @Produce      json
// @Param        id path string true "Post ID" format(uuid)
// @Success      200 {object} dto.Response{data=blogapp.PostResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/blog/{id} [get]
func (h *BlogHandler) Get(c *gin.Context) {
	id, ok := h.ParseID(c, "id", "post")
	if !ok {
		return
	}

	post, err := h.postService.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, post)
}

// Create godoc
// @Summary      Create blog post
// @Description  Create a draft post authored by the signed-in admin. Excerpt and reading time are derived from the HTML.
// @Tags         admin-blog
// @Accept       json
// @Produce      json
// @Param        request body blogapp.PostRequest true "Post"
// @Success      201 {object} dto.Response{data=blogapp.PostResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/blog [post]
func (h *BlogHandler) Create(c *gin.Context) {
	authorID, ok := h.CurrentUser(c)
	if !ok {
		return
	}
	var req blogapp.PostRequest
	if !h.BindJSON(c, &req) {
		return
	}

	post, err := h.postService.Create(c.Request.Context(), authorID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Created(c, post)
}

// Update godoc
// @Summary      Update blog post
// @Tags         admin-blog
// @Accept       json
// @Produce      json
// @Param        id path string true "Post ID" format(uuid)
// @Param        request body blogapp.PostRequest true "Post"
// @Success      200 {object} dto.Response{data=blogapp.PostResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/blog/{id} [put]
func (h *BlogHandler) Update(c *gin.Context) {
	id, ok := h.ParseID(c, "id", "post")
	if !ok {
		return
	}
	var req blogapp.PostRequest
	if !h.BindJSON(c, &req) {
		return
	}

	post, err := h.postService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, post)
}

// Publish godoc
// @Summary      Publish blog post
// @Tags         admin-blog
// @Produce      json
// @Param        id path string true "Post ID" format(uuid)
// @Success      200 {object} dto.Response{data=blogapp.PostResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/blog/{id}/publish [post]
func (h *BlogHandler) Publish(c *gin.Context) {
	h.transition(c, h.postService.Publish)
}

// Unpublish godoc
// @Summary      Unpublish blog post
// @Tags         admin-blog
// @Produce      json
// @Param        id path string true "Post ID" format(uuid)
// @Success      200 {object} dto.Response{data=blogapp.PostResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/blog/{id}/unpublish [post]
func (h *BlogHandler) Unpublish(c *gin.Context) {
	h.transition(c, h.postService.Unpublish)
}

// Delete godoc
// @Summary      Delete blog post
// @Tags         admin-blog
// @Param        id path string true "Post ID" format(uuid)
// @Success      204
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/blog/{id} [delete]
func (h *BlogHandler) Delete(c *gin.Context) {
	id, ok := h.ParseID(c, "id", "post")
	if !ok {
		return
	}

	if err := h.postService.Delete(c.Request.Context(), id); err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.NoContent(c)
}

func (h *BlogHandler) list(c *gin.Context, fn func(context.Context, blogapp.PostListFilter) ([]blogapp.PostListResponse, int64, error)) {
	var filter blogapp.PostListFilter
	if !h.BindQuery(c, &filter) {
		return
	}

	posts, total, err := fn(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	page, pageSize := pageOf(filter.Page, filter.PageSize)
	h.SuccessWithMeta(c, posts, total, page, pageSize)
}

func (h *BlogHandler) transition(c *gin.Context, fn func(context.Context, uuid.UUID) (*blogapp.PostResponse, error)) {
	id, ok := h.ParseID(c, "id", "post")
	if !ok {
		return
	}

	post, err := fn(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, post)
}
