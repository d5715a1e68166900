package repo

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Skotchmaster/blog_platform/internal/models"
)

func (r *GormRepo) ListPosts(ctx context.Context, publishedOnly bool, offset, limit int) (int64, []models.Post, error) {
	q := r.DB.WithContext(ctx).Model(&models.Post{})
	if publishedOnly {
		q = q.Where("published = ?", true)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return 0, nil, err
	}

	var items []models.Post
	if err := q.Preload("Author").
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&items).Error; err != nil {
		return 0, nil, err
	}

	return total, items, nil
}

func (r *GormRepo) GetPostBySlug(ctx context.Context, slug string) (*models.Post, error) {
	var post models.Post
	if err := r.DB.WithContext(ctx).Preload("Author").
		Where("slug = ?", slug).First(&post).Error; err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *GormRepo) GetPostByID(ctx context.Context, id uuid.UUID) (*models.Post, error) {
	var post models.Post
	if err := r.DB.WithContext(ctx).Preload("Author").
		Where("id = ?", id).First(&post).Error; err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *GormRepo) GetPostsByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Post, error) {
	var posts []models.Post
	if err := r.DB.WithContext(ctx).Preload("Author").
		Where("id IN ? AND published = ?", ids, true).
		Order("created_at DESC").
		Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

// SlugExists reports whether another post already claims the slug. The
// excluded id keeps a post from colliding with itself on title updates.
func (r *GormRepo) SlugExists(ctx context.Context, slug string, excludeID uuid.UUID) (bool, error) {
	var count int64
	q := r.DB.WithContext(ctx).Model(&models.Post{}).Where("slug = ?", slug)
	if excludeID != uuid.Nil {
		q = q.Where("id <> ?", excludeID)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *GormRepo) CreatePost(ctx context.Context, post *models.Post) error {
	return r.DB.WithContext(ctx).Create(post).Error
}

func (r *GormRepo) SavePost(ctx context.Context, post *models.Post) error {
	return r.DB.WithContext(ctx).Save(post).Error
}

func (r *GormRepo) DeletePost(ctx context.Context, id uuid.UUID) error {
	res := r.DB.WithContext(ctx).Delete(&models.Post{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
