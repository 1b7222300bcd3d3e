package repositories

import (
	"context"
	"strings"

	"github.com/anonto42/yatube/backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// FollowRepository defines the interface for follow data operations
type FollowRepository interface {
	CreateFollow(ctx context.Context, follow *models.Follow) error
	IsFollowing(ctx context.Context, userID, followingID uint) (bool, error)
	ListFollows(ctx context.Context, userID uint, search string) ([]models.Follow, error)
}

// PostgresFollowRepository implements FollowRepository on top of GORM
type PostgresFollowRepository struct {
	db *gorm.DB
}

// NewPostgresFollowRepository creates a new PostgresFollowRepository
func NewPostgresFollowRepository(db *gorm.DB) *PostgresFollowRepository {
	return &PostgresFollowRepository{db: db}
}

// CreateFollow inserts the pair. Duplicates and self-follows are rejected by the
// table constraints and come back as apperr.ErrConstraintViolation.
func (r *PostgresFollowRepository) CreateFollow(ctx context.Context, follow *models.Follow) error {
	db := r.db.WithContext(ctx)
	if err := db.Omit(clause.Associations).Create(follow).Error; err != nil {
		return translateError(err)
	}
	return translateError(db.Preload("User").Preload("Following").First(follow, follow.ID).Error)
}

func (r *PostgresFollowRepository) IsFollowing(ctx context.Context, userID, followingID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Follow{}).
		Where("user_id = ? AND following_id = ?", userID, followingID).
		Count(&count).Error
	if err != nil {
		return false, translateError(err)
	}
	return count > 0, nil
}

// ListFollows returns the outgoing follows of userID. A non-empty search keeps the
// rows where either username contains it, ignoring case.
func (r *PostgresFollowRepository) ListFollows(ctx context.Context, userID uint, search string) ([]models.Follow, error) {
	q := r.db.WithContext(ctx).Model(&models.Follow{}).
		Preload("User").Preload("Following").
		Where("follows.user_id = ?", userID)
	if search = strings.TrimSpace(search); search != "" {
		like := "%" + escapeLike(strings.ToLower(search)) + "%"
		q = q.Joins("JOIN users AS follower ON follower.id = follows.user_id").
			Joins("JOIN users AS followee ON followee.id = follows.following_id").
			Where("(LOWER(follower.username) LIKE ? ESCAPE '\\' OR LOWER(followee.username) LIKE ? ESCAPE '\\')", like, like)
	}
	follows := []models.Follow{}
	if err := q.Order("follows.user_id").Order("follows.id").Find(&follows).Error; err != nil {
		return nil, translateError(err)
	}
	return follows, nil
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
