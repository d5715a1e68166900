package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Skotchmaster/blog_platform/internal/events"
	"github.com/Skotchmaster/blog_platform/internal/models"
	"github.com/Skotchmaster/blog_platform/internal/repo"
	"github.com/Skotchmaster/blog_platform/internal/search"
	"github.com/Skotchmaster/blog_platform/pkg/logging"
)

type PostService struct {
	Repo   *repo.GormRepo
	Events *events.Producer
	Search *search.Index
}

type CreatePostInput struct {
	Title      string
	Content    string
	CoverImage *string
	Tags       []string
	Published  bool
}

type UpdatePostInput struct {
	Title      *string
	Content    *string
	CoverImage *string
	Tags       *[]string
	Published  *bool
}

func (s *PostService) List(ctx context.Context, publishedOnly bool, offset, limit int) (int64, []models.Post, error) {
	return s.Repo.ListPosts(ctx, publishedOnly, offset, limit)
}

func (s *PostService) GetBySlug(ctx context.Context, slug string) (*models.Post, error) {
	post, err := s.Repo.GetPostBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return post, nil
}

func (s *PostService) SearchPosts(ctx context.Context, query string, from, size int) ([]models.Post, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("%w: query is required", ErrValidation)
	}
	if s.Search == nil {
		return nil, ErrSearchUnavailable
	}

	ids, err := s.Search.Search(ctx, query, from, size)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []models.Post{}, nil
	}
	return s.Repo.GetPostsByIDs(ctx, ids)
}

func (s *PostService) Create(ctx context.Context, in CreatePostInput, authorID uuid.UUID) (*models.Post, error) {
	l := logging.FromContext(ctx).With("svc", "post.create")

	in.Title = strings.TrimSpace(in.Title)
	if in.Title == "" || strings.TrimSpace(in.Content) == "" {
		return nil, fmt.Errorf("%w: title and content are required", ErrValidation)
	}
	if len(in.Title) > 200 {
		return nil, fmt.Errorf("%w: title cannot be more than 200 characters", ErrValidation)
	}

	slug, err := s.uniqueSlug(ctx, in.Title, uuid.Nil)
	if err != nil {
		return nil, err
	}

	post := models.Post{
		Title:      in.Title,
		Slug:       slug,
		Content:    in.Content,
		CoverImage: in.CoverImage,
		AuthorID:   authorID,
		Tags:       in.Tags,
		Published:  in.Published,
	}
	if post.Tags == nil {
		post.Tags = []string{}
	}

	if err := s.Repo.CreatePost(ctx, &post); err != nil {
		l.Error("post_create_failed", "status", 500, "error", err)
		return nil, err
	}

	created, err := s.Repo.GetPostByID(ctx, post.ID)
	if err != nil {
		l.Error("post_create_failed", "status", 500, "reason", "reload with author", "error", err)
		return nil, err
	}

	s.afterWrite(ctx, created, "post_created")
	l.Info("post_created", "post_id", created.ID.String(), "slug", created.Slug)
	return created, nil
}

func (s *PostService) Update(ctx context.Context, id uuid.UUID, in UpdatePostInput, requesterID uuid.UUID, requesterRole models.Role) (*models.Post, error) {
	l := logging.FromContext(ctx).With("svc", "post.update", "post_id", id.String())

	post, err := s.Repo.GetPostByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if post.AuthorID != requesterID && requesterRole != models.RoleAdmin {
		l.Warn("post_update_denied", "status", 403, "requester_id", requesterID.String())
		return nil, ErrForbidden
	}

	wasPublished := post.Published

	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		if title == "" {
			return nil, fmt.Errorf("%w: title cannot be empty", ErrValidation)
		}
		if len(title) > 200 {
			return nil, fmt.Errorf("%w: title cannot be more than 200 characters", ErrValidation)
		}
		if title != post.Title {
			slug, err := s.uniqueSlug(ctx, title, post.ID)
			if err != nil {
				return nil, err
			}
			post.Title = title
			post.Slug = slug
		}
	}
	if in.Content != nil {
		if strings.TrimSpace(*in.Content) == "" {
			return nil, fmt.Errorf("%w: content cannot be empty", ErrValidation)
		}
		post.Content = *in.Content
	}
	if in.CoverImage != nil {
		post.CoverImage = in.CoverImage
	}
	if in.Tags != nil {
		post.Tags = *in.Tags
	}
	if in.Published != nil {
		post.Published = *in.Published
	}

	if err := s.Repo.SavePost(ctx, post); err != nil {
		l.Error("post_update_failed", "status", 500, "error", err)
		return nil, err
	}

	eventType := "post_updated"
	if !wasPublished && post.Published {
		eventType = "post_published"
	}
	s.afterWrite(ctx, post, eventType)

	l.Info("post_updated", "slug", post.Slug)
	return post, nil
}

func (s *PostService) Delete(ctx context.Context, id uuid.UUID, requesterID uuid.UUID, requesterRole models.Role) error {
	l := logging.FromContext(ctx).With("svc", "post.delete", "post_id", id.String())

	post, err := s.Repo.GetPostByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	if post.AuthorID != requesterID && requesterRole != models.RoleAdmin {
		l.Warn("post_delete_denied", "status", 403, "requester_id", requesterID.String())
		return ErrForbidden
	}

	if err := s.Repo.DeletePost(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		l.Error("post_delete_failed", "status", 500, "error", err)
		return err
	}

	if err := s.Search.DeletePost(ctx, id); err != nil {
		l.Error("search_deindex_failed", "error", err)
	}
	if err := s.Events.Publish(ctx, "post_deleted", id.String(), map[string]any{
		"post_id": id.String(),
	}); err != nil {
		l.Error("event_publish_failed", "error", err)
	}

	l.Info("post_deleted")
	return nil
}

// afterWrite mirrors the post into the search index and emits an event; both
// are best-effort and never fail the request.
func (s *PostService) afterWrite(ctx context.Context, post *models.Post, eventType string) {
	l := logging.FromContext(ctx)

	if err := s.Search.IndexPost(ctx, post); err != nil {
		l.Error("search_index_failed", "post_id", post.ID.String(), "error", err)
	}
	if err := s.Events.Publish(ctx, eventType, post.ID.String(), map[string]any{
		"post_id": post.ID.String(),
		"slug":    post.Slug,
	}); err != nil {
		l.Error("event_publish_failed", "error", err)
	}
}
