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
	"github.com/Skotchmaster/blog_platform/pkg/logging"
)

type CommentService struct {
	Repo   *repo.GormRepo
	Events *events.Producer
}

func (s *CommentService) ListByPost(ctx context.Context, postID uuid.UUID) ([]models.Comment, error) {
	return s.Repo.ListCommentsByPost(ctx, postID)
}

func (s *CommentService) Create(ctx context.Context, postID, userID uuid.UUID, text string) (*models.Comment, error) {
	l := logging.FromContext(ctx).With("svc", "comment.create", "post_id", postID.String())

	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("%w: comment text is required", ErrValidation)
	}
	if len(text) > 500 {
		return nil, fmt.Errorf("%w: comment cannot be more than 500 characters", ErrValidation)
	}

	if _, err := s.Repo.GetPostByID(ctx, postID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: post does not exist", ErrNotFound)
		}
		return nil, err
	}

	comment := models.Comment{
		PostID: postID,
		UserID: userID,
		Text:   text,
	}
	if err := s.Repo.CreateComment(ctx, &comment); err != nil {
		l.Error("comment_create_failed", "status", 500, "error", err)
		return nil, err
	}

	created, err := s.Repo.GetCommentByID(ctx, comment.ID)
	if err != nil {
		l.Error("comment_create_failed", "status", 500, "reason", "reload with user", "error", err)
		return nil, err
	}

	if err := s.Events.Publish(ctx, "comment_created", created.ID.String(), map[string]any{
		"comment_id": created.ID.String(),
		"post_id":    postID.String(),
	}); err != nil {
		l.Error("event_publish_failed", "error", err)
	}

	l.Info("comment_created", "comment_id", created.ID.String())
	return created, nil
}

func (s *CommentService) Delete(ctx context.Context, id uuid.UUID, requesterID uuid.UUID, requesterRole models.Role) error {
	l := logging.FromContext(ctx).With("svc", "comment.delete", "comment_id", id.String())

	comment, err := s.Repo.GetCommentByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	if comment.UserID != requesterID && requesterRole != models.RoleAdmin {
		l.Warn("comment_delete_denied", "status", 403, "requester_id", requesterID.String())
		return ErrForbidden
	}

	if err := s.Repo.DeleteComment(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		l.Error("comment_delete_failed", "status", 500, "error", err)
		return err
	}

	l.Info("comment_deleted")
	return nil
}
