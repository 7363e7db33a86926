package repository

import (
	"liftsocial/internal/models"
	"liftsocial/internal/storage"
)

type CommentRepository interface {
	Create(comment *models.Comment) error
	FindByID(id uint) (*models.Comment, error)
	FindByPostID(postID uint) ([]models.Comment, error)
}

type commentRepository struct {
	db *storage.PostgresDB
}

func NewCommentRepository(db *storage.PostgresDB) CommentRepository {
	return &commentRepository{db: db}
}

func (r *commentRepository) Create(comment *models.Comment) error {
	return r.db.Create(comment).Error
}

func (r *commentRepository) FindByID(id uint) (*models.Comment, error) {
	var comment models.Comment
	err := r.db.Preload("Author").First(&comment, id).Error
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

// FindByPostID 查詢貼文的留言，依建立時間由舊到新
func (r *commentRepository) FindByPostID(postID uint) ([]models.Comment, error) {
	var comments []models.Comment
	err := r.db.Preload("Author").Where("post_id = ?", postID).
		Order("created_at asc").Find(&comments).Error
	return comments, err
}
