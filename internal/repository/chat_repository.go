package repository

import (
	"errors"

	"gorm.io/gorm"

	"liftsocial/internal/models"
	"liftsocial/internal/storage"
)

type ChatRepository interface {
	// FirstOrCreateRoom 以正規化後的用戶對查詢房間，不存在時建立
	// 搭配複合唯一索引，併發建立時輸掉的一方會拿到贏家建立的那一列
	FirstOrCreateRoom(lowID, highID uint) (*models.ChatRoom, error)
	FindRoomByID(id uint) (*models.ChatRoom, error)
	FindRoomsByUserID(userID uint) ([]models.ChatRoom, error)
	CreateMessage(message *models.Message) error
	FindMessageByID(id uint) (*models.Message, error)
	FindMessagesByRoomID(roomID uint) ([]models.Message, error)
}

type chatRepository struct {
	db *storage.PostgresDB
}

func NewChatRepository(db *storage.PostgresDB) ChatRepository {
	return &chatRepository{db: db}
}

func (r *chatRepository) FirstOrCreateRoom(lowID, highID uint) (*models.ChatRoom, error) {
	room := models.ChatRoom{UserLowID: lowID, UserHighID: highID}
	err := r.db.Where("user_low_id = ? AND user_high_id = ?", lowID, highID).
		FirstOrCreate(&room).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		// 併發建立時輸掉的一方改抓贏家建立的那一列
		err = r.db.Where("user_low_id = ? AND user_high_id = ?", lowID, highID).
			First(&room).Error
	}
	if err != nil {
		return nil, err
	}
	return &room, nil
}

func (r *chatRepository) FindRoomByID(id uint) (*models.ChatRoom, error) {
	var room models.ChatRoom
	err := r.db.Preload("LowUser").Preload("HighUser").First(&room, id).Error
	if err != nil {
		return nil, err
	}
	return &room, nil
}

// FindRoomsByUserID 查詢用戶參與的所有房間，並帶出雙方的個人資料
func (r *chatRepository) FindRoomsByUserID(userID uint) ([]models.ChatRoom, error) {
	var rooms []models.ChatRoom
	err := r.db.Preload("LowUser").Preload("HighUser").
		Where("user_low_id = ? OR user_high_id = ?", userID, userID).
		Order("created_at DESC").Find(&rooms).Error
	return rooms, err
}

func (r *chatRepository) CreateMessage(message *models.Message) error {
	return r.db.Create(message).Error
}

func (r *chatRepository) FindMessageByID(id uint) (*models.Message, error) {
	var message models.Message
	err := r.db.Preload("Author").First(&message, id).Error
	if err != nil {
		return nil, err
	}
	return &message, nil
}

// FindMessagesByRoomID 查詢房間內的私訊，依建立時間由舊到新
func (r *chatRepository) FindMessagesByRoomID(roomID uint) ([]models.Message, error) {
	var messages []models.Message
	err := r.db.Preload("Author").Where("room_id = ?", roomID).
		Order("created_at asc").Find(&messages).Error
	return messages, err
}
