package repository

import (
	"liftsocial/internal/models"
	"liftsocial/internal/storage"
)

type ProfileRepository interface {
	Create(profile *models.Profile) error
	Update(profile *models.Profile) error
	FindByUserID(userID uint) (*models.Profile, error)
	FindAllExcept(userID uint) ([]models.Profile, error)
}

type profileRepository struct {
	db *storage.PostgresDB
}

func NewProfileRepository(db *storage.PostgresDB) ProfileRepository {
	return &profileRepository{db: db}
}

func (r *profileRepository) Create(profile *models.Profile) error {
	return r.db.Create(profile).Error
}

func (r *profileRepository) Update(profile *models.Profile) error {
	return r.db.Save(profile).Error
}

func (r *profileRepository) FindByUserID(userID uint) (*models.Profile, error) {
	var profile models.Profile
	err := r.db.Where("user_id = ?", userID).First(&profile).Error
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

// FindAllExcept 查詢除了指定用戶以外的所有個人資料，用於選擇聊天對象
func (r *profileRepository) FindAllExcept(userID uint) ([]models.Profile, error) {
	var profiles []models.Profile
	err := r.db.Where("user_id <> ?", userID).Order("username asc").Find(&profiles).Error
	return profiles, err
}
