package repositories

import (
	"context"

	"github.com/anonto42/yatube/backend/internal/apperr"
	"github.com/anonto42/yatube/backend/internal/models"
	"gorm.io/gorm"
)

// GroupRepository defines the interface for group data operations
type GroupRepository interface {
	CreateGroup(ctx context.Context, group *models.Group) error
	GetGroupByID(ctx context.Context, id uint) (*models.Group, error)
	GetGroupBySlug(ctx context.Context, slug string) (*models.Group, error)
	ListGroups(ctx context.Context) ([]models.Group, error)
	GroupTaken(ctx context.Context, title, slug string) (titleTaken, slugTaken bool, err error)
	DeleteGroup(ctx context.Context, id uint) error
}

// PostgresGroupRepository implements GroupRepository on top of GORM
type PostgresGroupRepository struct {
	db *gorm.DB
}

// NewPostgresGroupRepository creates a new PostgresGroupRepository
func NewPostgresGroupRepository(db *gorm.DB) *PostgresGroupRepository {
	return &PostgresGroupRepository{db: db}
}

func (r *PostgresGroupRepository) CreateGroup(ctx context.Context, group *models.Group) error {
	return translateError(r.db.WithContext(ctx).Create(group).Error)
}

func (r *PostgresGroupRepository) GetGroupByID(ctx context.Context, id uint) (*models.Group, error) {
	var group models.Group
	if err := r.db.WithContext(ctx).First(&group, id).Error; err != nil {
		return nil, translateError(err)
	}
	return &group, nil
}

func (r *PostgresGroupRepository) GetGroupBySlug(ctx context.Context, slug string) (*models.Group, error) {
	var group models.Group
	if err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&group).Error; err != nil {
		return nil, translateError(err)
	}
	return &group, nil
}

// ListGroups returns all groups ordered by title
func (r *PostgresGroupRepository) ListGroups(ctx context.Context) ([]models.Group, error) {
	groups := []models.Group{}
	if err := r.db.WithContext(ctx).Order("title").Order("id").Find(&groups).Error; err != nil {
		return nil, translateError(err)
	}
	return groups, nil
}

// GroupTaken reports which of title and slug are already used by a group.
func (r *PostgresGroupRepository) GroupTaken(ctx context.Context, title, slug string) (bool, bool, error) {
	var titles, slugs int64
	if err := r.db.WithContext(ctx).Model(&models.Group{}).Where("title = ?", title).Count(&titles).Error; err != nil {
		return false, false, translateError(err)
	}
	if err := r.db.WithContext(ctx).Model(&models.Group{}).Where("slug = ?", slug).Count(&slugs).Error; err != nil {
		return false, false, translateError(err)
	}
	return titles > 0, slugs > 0, nil
}

// DeleteGroup removes a group. Posts in it stay and lose their group.
func (r *PostgresGroupRepository) DeleteGroup(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.Group{}, id)
	if res.Error != nil {
		return translateError(res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.ErrNotFound
	}
	return nil
}
