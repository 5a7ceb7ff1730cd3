package repository

import (
	"context"
	"errors"
	"time"

	"yatube/internal/cache"
	"yatube/internal/models"
	"yatube/internal/observability"

	"gorm.io/gorm"
)

// PostRepository defines the interface for post data operations.
// All listing methods return posts newest first with User and Group
// preloaded, so rendering never issues per-row lookups.
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id uint) (*models.Post, error)
	Update(ctx context.Context, post *models.Post) error
	List(ctx context.Context, limit, offset int) ([]*models.Post, error)
	GetByGroupID(ctx context.Context, groupID uint, limit, offset int) ([]*models.Post, error)
	GetByUserID(ctx context.Context, userID uint, limit, offset int) ([]*models.Post, error)
	Count(ctx context.Context) (int64, error)
	CountByGroupID(ctx context.Context, groupID uint) (int64, error)
	CountByUserID(ctx context.Context, userID uint) (int64, error)
}

type postRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a new post repository
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	defer observability.ObserveQuery("insert", "posts", time.Now())
	if err := r.db.WithContext(ctx).Create(post).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateIndex(ctx)
	return nil
}

func (r *postRepository) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	var post models.Post
	key := cache.PostKey(id)

	err := cache.Aside(ctx, key, &post, cache.PostTTL, func() error {
		if err := r.db.WithContext(ctx).
			Preload("User").
			Preload("Group").
			First(&post, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("Post", id)
			}
			return models.NewInternalError(err)
		}
		return nil
	})

	if err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *postRepository) Update(ctx context.Context, post *models.Post) error {
	defer observability.ObserveQuery("update", "posts", time.Now())
	if err := r.db.WithContext(ctx).Save(post).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidatePost(ctx, post.ID)
	cache.InvalidateIndex(ctx)
	return nil
}

func (r *postRepository) List(ctx context.Context, limit, offset int) ([]*models.Post, error) {
	var posts []*models.Post
	defer observability.ObserveQuery("select", "posts", time.Now())
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Group").
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&posts).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

func (r *postRepository) GetByGroupID(ctx context.Context, groupID uint, limit, offset int) ([]*models.Post, error) {
	var posts []*models.Post
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Group").
		Where("group_id = ?", groupID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&posts).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

func (r *postRepository) GetByUserID(ctx context.Context, userID uint, limit, offset int) ([]*models.Post, error) {
	var posts []*models.Post
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Group").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&posts).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

func (r *postRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Post{}).Count(&count).Error; err != nil {
		return 0, models.NewInternalError(err)
	}
	return count, nil
}

func (r *postRepository) CountByGroupID(ctx context.Context, groupID uint) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Post{}).
		Where("group_id = ?", groupID).
		Count(&count).Error; err != nil {
		return 0, models.NewInternalError(err)
	}
	return count, nil
}

func (r *postRepository) CountByUserID(ctx context.Context, userID uint) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Post{}).
		Where("user_id = ?", userID).
		Count(&count).Error; err != nil {
		return 0, models.NewInternalError(err)
	}
	return count, nil
}
