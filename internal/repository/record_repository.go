package repository

import (
	"liftsocial/internal/models"
	"liftsocial/internal/storage"
)

type RecordRepository interface {
	Create(record *models.PersonalRecord) error
	FindByUserID(userID uint) ([]models.PersonalRecord, error)
}

type recordRepository struct {
	db *storage.PostgresDB
}

func NewRecordRepository(db *storage.PostgresDB) RecordRepository {
	return &recordRepository{db: db}
}

func (r *recordRepository) Create(record *models.PersonalRecord) error {
	return r.db.Create(record).Error
}

// FindByUserID 查詢用戶的個人紀錄，由新到舊，並帶出記錄 PR 的貼文
func (r *recordRepository) FindByUserID(userID uint) ([]models.PersonalRecord, error) {
	var records []models.PersonalRecord
	err := r.db.Preload("Post").Where("user_id = ?", userID).
		Order("created_at DESC").Find(&records).Error
	return records, err
}
