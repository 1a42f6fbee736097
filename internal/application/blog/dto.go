package blog

import (
	"time"

	"github.com/google/uuid"
	"github.com/tourbook/backend/internal/domain/blog"
	"github.com/tourbook/backend/internal/domain/shared"
)

// PostListFilter contains blog list filters
type PostListFilter struct {
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	Search   string `form:"search" binding:"omitempty,max=100"`
	Tag      string `form:"tag" binding:"omitempty,max=50"`
	Status   string `form:"status" binding:"omitempty,oneof=draft published"`
	SortBy   string `form:"sort_by"`
	SortDir  string `form:"sort_dir" binding:"omitempty,oneof=asc desc ASC DESC"`
}

func (f PostListFilter) toDomainFilter(defaultOrder string) shared.Filter {
	out := shared.DefaultFilter()
	if f.Page > 0 {
		out.Page = f.Page
	}
	if f.PageSize > 0 {
		out.PageSize = f.PageSize
	}
	out.Search = f.Search
	out.OrderBy = defaultOrder
	out.OrderDir = "desc"
	if f.SortBy != "" {
		out.OrderBy = f.SortBy
		out.OrderDir = f.SortDir
	}
	if f.Tag != "" {
		out.Filters["tag"] = f.Tag
	}
	if f.Status != "" {
		out.Filters["status"] = f.Status
	}
	return out
}

// PostRequest represents a request to create or update a post
type PostRequest struct {
	Title       string   `json:"title" binding:"required,max=200"`
	Slug        string   `json:"slug" binding:"omitempty,slug,max=220"`
	Excerpt     string   `json:"excerpt" binding:"max=300"`
	ContentHTML string   `json:"content_html" binding:"required"`
	CoverImage  string   `json:"cover_image" binding:"omitempty,url,max=500"`
	Tags        []string `json:"tags" binding:"omitempty,max=10,dive,max=50"`
}

// PostListResponse is the card view of a post
type PostListResponse struct {
	ID             uuid.UUID  `json:"id"`
	Title          string     `json:"title"`
	Slug           string     `json:"slug"`
	Excerpt        string     `json:"excerpt"`
	CoverImage     string     `json:"cover_image"`
	AuthorName     string     `json:"author_name"`
	Tags           []string   `json:"tags"`
	Status         string     `json:"status"`
	PublishedAt    *time.Time `json:"published_at,omitempty"`
	ReadingMinutes int        `json:"reading_minutes"`
	CreatedAt      time.Time  `json:"created_at"`
}

// PostResponse is the full view of a post
type PostResponse struct {
	PostListResponse
	ContentHTML string    `json:"content_html"`
	AuthorID    uuid.UUID `json:"author_id"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ToPostListResponse converts a post to its list view
func ToPostListResponse(p *blog.Post) PostListResponse {
	tags := p.Tags
	if tags == nil {
		tags = []string{}
	}
	return PostListResponse{
		ID:             p.ID,
		Title:          p.Title,
		Slug:           p.Slug,
		Excerpt:        p.Excerpt,
		CoverImage:     p.CoverImage,
		AuthorName:     p.AuthorName,
		Tags:           tags,
		Status:         string(p.Status),
		PublishedAt:    p.PublishedAt,
		ReadingMinutes: p.ReadingMinutes,
		CreatedAt:      p.CreatedAt,
	}
}

// ToPostResponse converts a post to its full view
func ToPostResponse(p *blog.Post) *PostResponse {
	return &PostResponse{
		PostListResponse: ToPostListResponse(p),
		ContentHTML:      p.ContentHTML,
		AuthorID:         p.AuthorID,
		UpdatedAt:        p.UpdatedAt,
	}
}

func (r PostRequest) content() blog.PostContent {
	return blog.PostContent{
		Title:       r.Title,
		Slug:        r.Slug,
		Excerpt:     r.Excerpt,
		ContentHTML: r.ContentHTML,
		CoverImage:  r.CoverImage,
		Tags:        r.Tags,
	}
}
