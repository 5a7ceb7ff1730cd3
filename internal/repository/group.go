package repository

import (
	"context"
	"errors"

	"yatube/internal/cache"
	"yatube/internal/models"

	"gorm.io/gorm"
)

// GroupRepository defines persistence operations for groups.
// Groups are created out-of-band; the handlers only ever read them.
type GroupRepository interface {
	GetByID(ctx context.Context, id uint) (*models.Group, error)
	GetBySlug(ctx context.Context, slug string) (*models.Group, error)
	List(ctx context.Context) ([]models.Group, error)
	Create(ctx context.Context, group *models.Group) error
}

type groupRepository struct {
	db *gorm.DB
}

// NewGroupRepository returns a new GroupRepository implementation.
func NewGroupRepository(db *gorm.DB) GroupRepository {
	return &groupRepository{db: db}
}

func (r *groupRepository) GetByID(ctx context.Context, id uint) (*models.Group, error) {
	var group models.Group
	if err := r.db.WithContext(ctx).First(&group, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Group", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &group, nil
}

func (r *groupRepository) GetBySlug(ctx context.Context, slug string) (*models.Group, error) {
	var group models.Group
	key := cache.GroupKey(slug)

	err := cache.Aside(ctx, key, &group, cache.GroupTTL, func() error {
		if err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&group).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("Group", slug)
			}
			return models.NewInternalError(err)
		}
		return nil
	})

	if err != nil {
		return nil, err
	}
	return &group, nil
}

func (r *groupRepository) List(ctx context.Context) ([]models.Group, error) {
	var groups []models.Group
	if err := r.db.WithContext(ctx).Order("title ASC").Find(&groups).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return groups, nil
}

func (r *groupRepository) Create(ctx context.Context, group *models.Group) error {
	if err := r.db.WithContext(ctx).Create(group).Error; err != nil {
		if isUniqueConstraintError(err) {
			return models.NewValidationError("Group slug already exists")
		}
		return models.NewInternalError(err)
	}
	cache.InvalidateGroup(ctx, group.Slug)
	return nil
}
