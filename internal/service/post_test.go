package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/blog_platform/internal/models"
	"github.com/Skotchmaster/blog_platform/internal/repo"
)

type postEnv struct {
	svc    *PostService
	repo   *repo.GormRepo
	admin  *models.User
	reader *models.User
}

func newPostEnv(t *testing.T) *postEnv {
	t.Helper()

	r := repo.New(newTestDB(t))
	return &postEnv{
		svc:    &PostService{Repo: r},
		repo:   r,
		admin:  mustCreateUser(t, r, "Admin", "admin@blog.com", models.RoleAdmin),
		reader: mustCreateUser(t, r, "Reader", "reader@blog.com", models.RoleReader),
	}
}

func TestPostService_Create_SlugProbing(t *testing.T) {
	t.Parallel()

	env := newPostEnv(t)
	ctx := context.Background()

	first, err := env.svc.Create(ctx, CreatePostInput{Title: "Hello World", Content: "one"}, env.admin.ID)
	require.NoError(t, err)
	assert.Equal(t, "hello-world", first.Slug)

	second, err := env.svc.Create(ctx, CreatePostInput{Title: "Hello World", Content: "two"}, env.admin.ID)
	require.NoError(t, err)
	assert.Equal(t, "hello-world-1", second.Slug)

	third, err := env.svc.Create(ctx, CreatePostInput{Title: "Hello World", Content: "three"}, env.admin.ID)
	require.NoError(t, err)
	assert.Equal(t, "hello-world-2", third.Slug)
}

func TestPostService_Create_Validation(t *testing.T) {
	t.Parallel()

	env := newPostEnv(t)
	ctx := context.Background()

	tests := []struct {
		name  string
		input CreatePostInput
	}{
		{name: "empty title", input: CreatePostInput{Title: "", Content: "body"}},
		{name: "empty content", input: CreatePostInput{Title: "Title", Content: "  "}},
		{name: "symbol-only title", input: CreatePostInput{Title: "!!!", Content: "body"}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			post, err := env.svc.Create(ctx, tt.input, env.admin.ID)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrValidation)
			assert.Nil(t, post)
		})
	}
}

func TestPostService_Create_EmbedsAuthor(t *testing.T) {
	t.Parallel()

	env := newPostEnv(t)

	post, err := env.svc.Create(context.Background(), CreatePostInput{
		Title:     "Welcome to the Blog",
		Content:   "This is a sample blog post.",
		Tags:      []string{"welcome", "blog"},
		Published: true,
	}, env.admin.ID)
	require.NoError(t, err)

	assert.Equal(t, env.admin.ID, post.Author.ID)
	assert.Equal(t, "Admin", post.Author.Name)
	assert.Equal(t, []string{"welcome", "blog"}, post.Tags)
	assert.True(t, post.Published)
}

func TestPostService_GetBySlug(t *testing.T) {
	t.Parallel()

	env := newPostEnv(t)
	ctx := context.Background()

	created, err := env.svc.Create(ctx, CreatePostInput{Title: "Findable", Content: "body"}, env.admin.ID)
	require.NoError(t, err)

	got, err := env.svc.GetBySlug(ctx, created.Slug)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)

	_, err = env.svc.GetBySlug(ctx, "no-such-slug")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPostService_List_PublishedFilter(t *testing.T) {
	t.Parallel()

	env := newPostEnv(t)
	ctx := context.Background()

	_, err := env.svc.Create(ctx, CreatePostInput{Title: "Draft", Content: "body"}, env.admin.ID)
	require.NoError(t, err)
	_, err = env.svc.Create(ctx, CreatePostInput{Title: "Live", Content: "body", Published: true}, env.admin.ID)
	require.NoError(t, err)

	total, posts, err := env.svc.List(ctx, false, 0, 20)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, posts, 2)

	total, posts, err = env.svc.List(ctx, true, 0, 20)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, posts, 1)
	assert.Equal(t, "Live", posts[0].Title)
}

func TestPostService_Update_ReslugsOnTitleChange(t *testing.T) {
	t.Parallel()

	env := newPostEnv(t)
	ctx := context.Background()

	post, err := env.svc.Create(ctx, CreatePostInput{Title: "Old Title", Content: "body"}, env.admin.ID)
	require.NoError(t, err)

	newTitle := "New Title"
	updated, err := env.svc.Update(ctx, post.ID, UpdatePostInput{Title: &newTitle}, env.admin.ID, models.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, "new-title", updated.Slug)

	// Re-saving the same title must not force a suffix onto its own slug.
	sameTitle := "New Title"
	updated, err = env.svc.Update(ctx, post.ID, UpdatePostInput{Title: &sameTitle}, env.admin.ID, models.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, "new-title", updated.Slug)
}

func TestPostService_Update_OwnershipChecks(t *testing.T) {
	t.Parallel()

	env := newPostEnv(t)
	ctx := context.Background()

	post, err := env.svc.Create(ctx, CreatePostInput{Title: "Owned", Content: "body"}, env.admin.ID)
	require.NoError(t, err)

	content := "changed"
	_, err = env.svc.Update(ctx, post.ID, UpdatePostInput{Content: &content}, env.reader.ID, models.RoleReader)
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = env.svc.Update(ctx, uuid.New(), UpdatePostInput{Content: &content}, env.admin.ID, models.RoleAdmin)
	assert.ErrorIs(t, err, ErrNotFound)

	updated, err := env.svc.Update(ctx, post.ID, UpdatePostInput{Content: &content}, env.admin.ID, models.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, "changed", updated.Content)
}

func TestPostService_Delete(t *testing.T) {
	t.Parallel()

	env := newPostEnv(t)
	ctx := context.Background()

	post, err := env.svc.Create(ctx, CreatePostInput{Title: "Doomed", Content: "body"}, env.admin.ID)
	require.NoError(t, err)

	err = env.svc.Delete(ctx, post.ID, env.reader.ID, models.RoleReader)
	assert.ErrorIs(t, err, ErrForbidden)

	require.NoError(t, env.svc.Delete(ctx, post.ID, env.admin.ID, models.RoleAdmin))

	_, err = env.svc.GetBySlug(ctx, post.Slug)
	assert.ErrorIs(t, err, ErrNotFound)

	err = env.svc.Delete(ctx, post.ID, env.admin.ID, models.RoleAdmin)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPostService_Search_UnavailableWithoutIndex(t *testing.T) {
	t.Parallel()

	env := newPostEnv(t)

	_, err := env.svc.SearchPosts(context.Background(), "anything", 0, 20)
	assert.ErrorIs(t, err, ErrSearchUnavailable)

	_, err = env.svc.SearchPosts(context.Background(), "  ", 0, 20)
	assert.ErrorIs(t, err, ErrValidation)
}
