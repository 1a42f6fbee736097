package blog

import (
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/tourbook/backend/internal/domain/shared"
)

// PostStatus represents the publication status of a blog post
type PostStatus string

const (
	PostStatusDraft     PostStatus = "draft"
	PostStatusPublished PostStatus = "published"
)

const (
	wordsPerMinute    = 200
	maxPostTitleLen   = 200
	maxExcerptLen     = 300
	maxTagsPerPost    = 10
	AggregateTypePost = "Post"
)

// Event type constants
const (
	EventTypePostPublished = "PostPublished"
	EventTypePostUpdated   = "PostUpdated"
	EventTypePostDeleted   = "PostDeleted"
)

// Post is a travel blog article
type Post struct {
	shared.BaseAggregateRoot
	Title          string     `gorm:"type:varchar(200);not null"`
	Slug           string     `gorm:"type:varchar(220);not null;uniqueIndex"`
	Excerpt        string     `gorm:"type:varchar(300)"`
	ContentHTML    string     `gorm:"column:content_html;type:text;not null"`
	CoverImage     string     `gorm:"type:varchar(500)"`
	AuthorID       uuid.UUID  `gorm:"type:uuid;not null;index"`
	AuthorName     string     `gorm:"type:varchar(100)"`
	Tags           []string   `gorm:"serializer:json;type:text"`
	Status         PostStatus `gorm:"type:varchar(20);not null;default:'draft';index"`
	PublishedAt    *time.Time `gorm:"index"`
	ReadingMinutes int        `gorm:"not null;default:1"`
}

// TableName returns the table name for GORM
func (Post) TableName() string {
	return "blog_posts"
}

// PostContent carries the editable fields of a post
type PostContent struct {
	Title       string
	Slug        string
	Excerpt     string
	ContentHTML string
	CoverImage  string
	Tags        []string
}

// NewPost creates a new draft post
func NewPost(authorID uuid.UUID, authorName string, c PostContent) (*Post, error) {
	if authorID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_AUTHOR", "Author is required")
	}
	p := &Post{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		AuthorID:          authorID,
		AuthorName:        authorName,
		Status:            PostStatusDraft,
	}
	if err := p.set(c); err != nil {
		return nil, err
	}
	return p, nil
}

// Update replaces the content of the post
func (p *Post) Update(c PostContent) error {
	if err := p.set(c); err != nil {
		return err
	}
	p.MarkModified()
	p.AddDomainEvent(newPostEvent(EventTypePostUpdated, p))
	return nil
}

// Publish makes the post public
func (p *Post) Publish() error {
	if p.Status == PostStatusPublished {
		return shared.NewDomainError("INVALID_STATE", "Post is already published")
	}
	now := time.Now()
	p.Status = PostStatusPublished
	p.PublishedAt = &now
	p.MarkModified()
	p.AddDomainEvent(newPostEvent(EventTypePostPublished, p))
	return nil
}

// Unpublish returns the post to draft
func (p *Post) Unpublish() error {
	if p.Status != PostStatusPublished {
		return shared.NewDomainError("INVALID_STATE", "Post is not published")
	}
	p.Status = PostStatusDraft
	p.MarkModified()
	p.AddDomainEvent(newPostEvent(EventTypePostUpdated, p))
	return nil
}

// MarkDeleted records the removal of the post for event subscribers
func (p *Post) MarkDeleted() {
	p.AddDomainEvent(newPostEvent(EventTypePostDeleted, p))
}

// IsPublished reports whether the post is publicly visible
func (p *Post) IsPublished() bool {
	return p.Status == PostStatusPublished
}

func (p *Post) set(c PostContent) error {
	title := strings.TrimSpace(c.Title)
	if title == "" {
		return shared.NewDomainError("INVALID_TITLE", "Post title cannot be empty")
	}
	if utf8.RuneCountInString(title) > maxPostTitleLen {
		return shared.NewDomainError("INVALID_TITLE", "Post title cannot exceed 200 characters")
	}
	if strings.TrimSpace(c.ContentHTML) == "" {
		return shared.NewDomainError("INVALID_CONTENT", "Post content cannot be empty")
	}
	if utf8.RuneCountInString(c.Excerpt) > maxExcerptLen {
		return shared.NewDomainError("INVALID_EXCERPT", "Excerpt cannot exceed 300 characters")
	}
	if len(c.Tags) > maxTagsPerPost {
		return shared.NewDomainError("INVALID_TAGS", "A post can have at most 10 tags")
	}

	slug := c.Slug
	if slug == "" {
		slug = shared.Slugify(title)
	}
	if !shared.IsValidSlug(slug) {
		return shared.NewDomainError("INVALID_SLUG", "Slug may only contain lowercase letters, digits and dashes")
	}

	p.Title = title
	p.Slug = slug
	p.Excerpt = strings.TrimSpace(c.Excerpt)
	p.ContentHTML = c.ContentHTML
	p.CoverImage = c.CoverImage
	p.Tags = normalizeTags(c.Tags)
	return nil
}

// SetReadingTime derives reading minutes from the plain text body
func (p *Post) SetReadingTime(plainText string) {
	words := len(strings.FieldsFunc(plainText, func(r rune) bool {
		return unicode.IsSpace(r)
	}))
	minutes := (words + wordsPerMinute - 1) / wordsPerMinute
	if minutes < 1 {
		minutes = 1
	}
	p.ReadingMinutes = minutes
}

func normalizeTags(tags []string) []string {
	seen := make(map[string]bool, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}

// PostEvent is published when a post changes visibility or content
type PostEvent struct {
	shared.BaseDomainEvent
	PostID uuid.UUID `json:"post_id"`
	Slug   string    `json:"slug"`
}

func newPostEvent(eventType string, p *Post) *PostEvent {
	return &PostEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(eventType, AggregateTypePost, p.ID),
		PostID:          p.ID,
		Slug:            p.Slug,
	}
}
