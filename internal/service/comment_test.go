package service

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/blog_platform/internal/models"
	"github.com/Skotchmaster/blog_platform/internal/repo"
)

type commentEnv struct {
	svc    *CommentService
	posts  *PostService
	admin  *models.User
	reader *models.User
	other  *models.User
	post   *models.Post
}

func newCommentEnv(t *testing.T) *commentEnv {
	t.Helper()

	r := repo.New(newTestDB(t))
	env := &commentEnv{
		svc:    &CommentService{Repo: r},
		posts:  &PostService{Repo: r},
		admin:  mustCreateUser(t, r, "Admin", "admin@blog.com", models.RoleAdmin),
		reader: mustCreateUser(t, r, "Reader", "reader@blog.com", models.RoleReader),
		other:  mustCreateUser(t, r, "Other", "other@blog.com", models.RoleReader),
	}

	post, err := env.posts.Create(context.Background(), CreatePostInput{
		Title:     "Commentable",
		Content:   "body",
		Published: true,
	}, env.admin.ID)
	require.NoError(t, err)
	env.post = post
	return env
}

func TestCommentService_Create(t *testing.T) {
	t.Parallel()

	env := newCommentEnv(t)
	ctx := context.Background()

	comment, err := env.svc.Create(ctx, env.post.ID, env.reader.ID, "nice post")
	require.NoError(t, err)
	assert.Equal(t, env.post.ID, comment.PostID)
	assert.Equal(t, "Reader", comment.User.Name)

	_, err = env.svc.Create(ctx, env.post.ID, env.reader.ID, "   ")
	assert.ErrorIs(t, err, ErrValidation)

	_, err = env.svc.Create(ctx, env.post.ID, env.reader.ID, strings.Repeat("x", 501))
	assert.ErrorIs(t, err, ErrValidation)

	_, err = env.svc.Create(ctx, uuid.New(), env.reader.ID, "orphan")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCommentService_ListByPost_NewestFirst(t *testing.T) {
	t.Parallel()

	env := newCommentEnv(t)
	ctx := context.Background()

	_, err := env.svc.Create(ctx, env.post.ID, env.reader.ID, "first")
	require.NoError(t, err)
	_, err = env.svc.Create(ctx, env.post.ID, env.other.ID, "second")
	require.NoError(t, err)

	comments, err := env.svc.ListByPost(ctx, env.post.ID)
	require.NoError(t, err)
	require.Len(t, comments, 2)
}

func TestCommentService_Delete_OwnerOrAdmin(t *testing.T) {
	t.Parallel()

	env := newCommentEnv(t)
	ctx := context.Background()

	comment, err := env.svc.Create(ctx, env.post.ID, env.reader.ID, "mine")
	require.NoError(t, err)

	// A different reader is neither owner nor admin.
	err = env.svc.Delete(ctx, comment.ID, env.other.ID, models.RoleReader)
	assert.ErrorIs(t, err, ErrForbidden)

	// The owner may delete their own comment.
	require.NoError(t, env.svc.Delete(ctx, comment.ID, env.reader.ID, models.RoleReader))

	comment, err = env.svc.Create(ctx, env.post.ID, env.reader.ID, "again")
	require.NoError(t, err)

	// So may an admin who does not own it.
	require.NoError(t, env.svc.Delete(ctx, comment.ID, env.admin.ID, models.RoleAdmin))

	err = env.svc.Delete(ctx, uuid.New(), env.admin.ID, models.RoleAdmin)
	assert.ErrorIs(t, err, ErrNotFound)
}
