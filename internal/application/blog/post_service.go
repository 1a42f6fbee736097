package blog

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/tourbook/backend/internal/domain/blog"
	"github.com/tourbook/backend/internal/domain/identity"
	"github.com/tourbook/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// PostService handles the travel blog
type PostService struct {
	postRepo       blog.PostRepository
	userRepo       identity.UserRepository
	text           *TextExtractor
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewPostService creates a new PostService
func NewPostService(postRepo blog.PostRepository, userRepo identity.UserRepository, logger *zap.Logger) *PostService {
	return &PostService{
		postRepo: postRepo,
		userRepo: userRepo,
		text:     NewTextExtractor(),
		logger:   logger,
	}
}

// SetEventPublisher sets the publisher used for cache revalidation events
func (s *PostService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// ListPublished lists public posts, newest first
func (s *PostService) ListPublished(ctx context.Context, filter PostListFilter) ([]PostListResponse, int64, error) {
	filter.Status = string(blog.PostStatusPublished)
	return s.list(ctx, filter.toDomainFilter("published_at"))
}

// List lists posts in every status
func (s *PostService) List(ctx context.Context, filter PostListFilter) ([]PostListResponse, int64, error) {
	return s.list(ctx, filter.toDomainFilter("created_at"))
}

func (s *PostService) list(ctx context.Context, filter shared.Filter) ([]PostListResponse, int64, error) {
	posts, err := s.postRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.postRepo.Count(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	responses := make([]PostListResponse, len(posts))
	for i := range posts {
		responses[i] = ToPostListResponse(&posts[i])
	}
	return responses, total, nil
}

// GetPublishedBySlug returns a published post
func (s *PostService) GetPublishedBySlug(ctx context.Context, slug string) (*PostResponse, error) {
	post, err := s.postRepo.FindBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if !post.IsPublished() {
		return nil, shared.ErrNotFound
	}
	return ToPostResponse(post), nil
}

// Get returns a post in any status
func (s *PostService) Get(ctx context.Context, id uuid.UUID) (*PostResponse, error) {
	post, err := s.postRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return ToPostResponse(post), nil
}

// Create creates a draft post authored by authorID
func (s *PostService) Create(ctx context.Context, authorID uuid.UUID, req PostRequest) (*PostResponse, error) {
	author, err := s.userRepo.FindByID(ctx, authorID)
	if err != nil {
		return nil, err
	}

	post, err := blog.NewPost(author.ID, author.Name, req.content())
	if err != nil {
		return nil, err
	}
	if err := s.ensureUniqueSlug(ctx, post.Slug, uuid.Nil); err != nil {
		return nil, err
	}
	if err := s.deriveText(post); err != nil {
		return nil, err
	}
	return s.save(ctx, post)
}

// Update replaces the content of a post
func (s *PostService) Update(ctx context.Context, id uuid.UUID, req PostRequest) (*PostResponse, error) {
	post, err := s.postRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	oldSlug := post.Slug
	if err := post.Update(req.content()); err != nil {
		return nil, err
	}
	if post.Slug != oldSlug {
		if err := s.ensureUniqueSlug(ctx, post.Slug, post.ID); err != nil {
			return nil, err
		}
	}
	if err := s.deriveText(post); err != nil {
		return nil, err
	}
	return s.save(ctx, post)
}

// Publish makes a post public
func (s *PostService) Publish(ctx context.Context, id uuid.UUID) (*PostResponse, error) {
	post, err := s.postRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := post.Publish(); err != nil {
		return nil, err
	}
	return s.save(ctx, post)
}

// Unpublish returns a post to draft
func (s *PostService) Unpublish(ctx context.Context, id uuid.UUID) (*PostResponse, error) {
	post, err := s.postRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := post.Unpublish(); err != nil {
		return nil, err
	}
	return s.save(ctx, post)
}

// Delete removes a post
func (s *PostService) Delete(ctx context.Context, id uuid.UUID) error {
	post, err := s.postRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.postRepo.Delete(ctx, id); err != nil {
		return err
	}
	post.MarkDeleted()
	s.publish(ctx, post)
	return nil
}

// deriveText fills the excerpt when none was given and recomputes reading time
func (s *PostService) deriveText(post *blog.Post) error {
	plain, err := s.text.PlainText(post.ContentHTML)
	if err != nil {
		return fmt.Errorf("extract post text: %w", err)
	}
	if post.Excerpt == "" {
		post.Excerpt = Truncate(plain, excerptLength)
	}
	post.SetReadingTime(plain)
	return nil
}

func (s *PostService) save(ctx context.Context, post *blog.Post) (*PostResponse, error) {
	if err := s.postRepo.Save(ctx, post); err != nil {
		return nil, err
	}
	s.publish(ctx, post)
	return ToPostResponse(post), nil
}

func (s *PostService) publish(ctx context.Context, post *blog.Post) {
	events := post.GetDomainEvents()
	post.ClearDomainEvents()
	if s.eventPublisher == nil || len(events) == 0 {
		return
	}
	if err := s.eventPublisher.Publish(ctx, events...); err != nil {
		s.logger.Warn("Failed to publish post events", zap.String("post_id", post.ID.String()), zap.Error(err))
	}
}

func (s *PostService) ensureUniqueSlug(ctx context.Context, slug string, excludeID uuid.UUID) error {
	exists, err := s.postRepo.ExistsBySlug(ctx, slug, excludeID)
	if err != nil {
		return err
	}
	if exists {
		return shared.NewDomainError("ALREADY_EXISTS", "A post with this slug already exists")
	}
	return nil
}
