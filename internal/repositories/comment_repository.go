package repositories

import (
	"context"

	"github.com/anonto42/yatube/backend/internal/apperr"
	"github.com/anonto42/yatube/backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CommentRepository defines the interface for comment data operations
type CommentRepository interface {
	CreateComment(ctx context.Context, comment *models.Comment) error
	GetComment(ctx context.Context, postID, id uint) (*models.Comment, error)
	ListComments(ctx context.Context, postID uint) ([]models.Comment, error)
	UpdateComment(ctx context.Context, comment *models.Comment, changes map[string]interface{}) error
	DeleteComment(ctx context.Context, id uint) error
}

// PostgresCommentRepository implements CommentRepository on top of GORM
type PostgresCommentRepository struct {
	db *gorm.DB
}

// NewPostgresCommentRepository creates a new PostgresCommentRepository
func NewPostgresCommentRepository(db *gorm.DB) *PostgresCommentRepository {
	return &PostgresCommentRepository{db: db}
}

// CreateComment inserts a comment and reloads it with its author
func (r *PostgresCommentRepository) CreateComment(ctx context.Context, comment *models.Comment) error {
	db := r.db.WithContext(ctx)
	if err := db.Omit(clause.Associations).Create(comment).Error; err != nil {
		return translateError(err)
	}
	return translateError(db.Preload("Author").First(comment, comment.ID).Error)
}

// GetComment retrieves a comment that belongs to postID
func (r *PostgresCommentRepository) GetComment(ctx context.Context, postID, id uint) (*models.Comment, error) {
	var comment models.Comment
	err := r.db.WithContext(ctx).Preload("Author").
		Where("post_id = ? AND id = ?", postID, id).First(&comment).Error
	if err != nil {
		return nil, translateError(err)
	}
	return &comment, nil
}

// ListComments retrieves the comments of a post, newest first
func (r *PostgresCommentRepository) ListComments(ctx context.Context, postID uint) ([]models.Comment, error) {
	comments := []models.Comment{}
	err := r.db.WithContext(ctx).Preload("Author").
		Where("post_id = ?", postID).
		Order("created DESC").Order("id DESC").
		Find(&comments).Error
	if err != nil {
		return nil, translateError(err)
	}
	return comments, nil
}

// UpdateComment writes the changed columns and refreshes comment
func (r *PostgresCommentRepository) UpdateComment(ctx context.Context, comment *models.Comment, changes map[string]interface{}) error {
	db := r.db.WithContext(ctx)
	if len(changes) > 0 {
		res := db.Model(&models.Comment{}).Where("id = ?", comment.ID).Updates(changes)
		if res.Error != nil {
			return translateError(res.Error)
		}
		if res.RowsAffected == 0 {
			return apperr.ErrNotFound
		}
	}
	return translateError(db.Preload("Author").First(comment, comment.ID).Error)
}

// DeleteComment deletes a comment by ID
func (r *PostgresCommentRepository) DeleteComment(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.Comment{}, id)
	if res.Error != nil {
		return translateError(res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.ErrNotFound
	}
	return nil
}
