package repository

import (
	"gorm.io/gorm"

	"liftsocial/internal/models"
	"liftsocial/internal/storage"
)

type PostRepository interface {
	Create(post *models.Post) error
	FindByID(id uint) (*models.Post, error)
	FindAll() ([]models.Post, error)
	// ToggleLike 在同一個交易內讀取按讚集合、切換指定用戶的成員資格並寫回
	ToggleLike(postID, userID uint) (*models.Post, error)
	// DeleteCascade 在同一個交易內刪除貼文、其留言，並清空個人紀錄的回溯參照
	DeleteCascade(id uint) error
}

type postRepository struct {
	db *storage.PostgresDB
}

func NewPostRepository(db *storage.PostgresDB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Create(post *models.Post) error {
	return r.db.Create(post).Error
}

func (r *postRepository) FindByID(id uint) (*models.Post, error) {
	var post models.Post
	err := r.db.Preload("Author").First(&post, id).Error
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// FindAll 查詢所有貼文，由新到舊，並帶出作者資料
func (r *postRepository) FindAll() ([]models.Post, error) {
	var posts []models.Post
	err := r.db.Preload("Author").Order("created_at DESC").Find(&posts).Error
	return posts, err
}

func (r *postRepository) ToggleLike(postID, userID uint) (*models.Post, error) {
	var post models.Post
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&post, postID).Error; err != nil {
			return err
		}
		post.ToggleLike(userID)
		return tx.Model(&post).Update("likes", post.Likes).Error
	})
	if err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *postRepository) DeleteCascade(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.PersonalRecord{}).Where("post_id = ?", id).
			Update("post_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Post{}, id).Error
	})
}
