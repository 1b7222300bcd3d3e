package repositories

import (
	"context"

	"github.com/anonto42/yatube/backend/internal/apperr"
	"github.com/anonto42/yatube/backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PostRepository defines the interface for post data operations
type PostRepository interface {
	CreatePost(ctx context.Context, post *models.Post) error
	GetPostByID(ctx context.Context, id uint) (*models.Post, error)
	ListPosts(ctx context.Context, page Page) ([]models.Post, int64, error)
	UpdatePost(ctx context.Context, post *models.Post, changes map[string]interface{}) error
	DeletePost(ctx context.Context, id uint) error
}

// PostgresPostRepository implements PostRepository on top of GORM
type PostgresPostRepository struct {
	db *gorm.DB
}

// NewPostgresPostRepository creates a new PostgresPostRepository
func NewPostgresPostRepository(db *gorm.DB) *PostgresPostRepository {
	return &PostgresPostRepository{db: db}
}

func newestPostsFirst(db *gorm.DB) *gorm.DB {
	return db.Order("pub_date DESC").Order("id DESC")
}

// CreatePost inserts the post and reloads it so PubDate and Author come from storage.
func (r *PostgresPostRepository) CreatePost(ctx context.Context, post *models.Post) error {
	db := r.db.WithContext(ctx)
	if err := db.Omit(clause.Associations).Create(post).Error; err != nil {
		return translateError(err)
	}
	return translateError(db.Preload("Author").First(post, post.ID).Error)
}

// GetPostByID retrieves a post with its author
func (r *PostgresPostRepository) GetPostByID(ctx context.Context, id uint) (*models.Post, error) {
	var post models.Post
	if err := r.db.WithContext(ctx).Preload("Author").First(&post, id).Error; err != nil {
		return nil, translateError(err)
	}
	return &post, nil
}

// ListPosts returns a newest-first window of posts and the total number of posts.
func (r *PostgresPostRepository) ListPosts(ctx context.Context, page Page) ([]models.Post, int64, error) {
	db := r.db.WithContext(ctx)
	var total int64
	if err := db.Model(&models.Post{}).Count(&total).Error; err != nil {
		return nil, 0, translateError(err)
	}
	posts := []models.Post{}
	err := db.Scopes(newestPostsFirst, page.scope).Preload("Author").Find(&posts).Error
	if err != nil {
		return nil, 0, translateError(err)
	}
	return posts, total, nil
}

// UpdatePost writes the changed columns and refreshes post from storage.
func (r *PostgresPostRepository) UpdatePost(ctx context.Context, post *models.Post, changes map[string]interface{}) error {
	db := r.db.WithContext(ctx)
	if len(changes) > 0 {
		res := db.Model(&models.Post{}).Where("id = ?", post.ID).Updates(changes)
		if res.Error != nil {
			return translateError(res.Error)
		}
		if res.RowsAffected == 0 {
			return apperr.ErrNotFound
		}
	}
	return translateError(db.Preload("Author").First(post, post.ID).Error)
}

// DeletePost deletes a post; its comments are removed by the engine.
func (r *PostgresPostRepository) DeletePost(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.Post{}, id)
	if res.Error != nil {
		return translateError(res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.ErrNotFound
	}
	return nil
}
