package service

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"liftsocial/internal/apperr"
	"liftsocial/internal/models"
	"liftsocial/internal/repository"
)

// ChatScope 回傳指定房間的變動通知 scope
func ChatScope(roomID uint) string {
	return fmt.Sprintf("chat:%d", roomID)
}

// ChatService 處理私訊房間與訊息
type ChatService struct {
	chatRepo    repository.ChatRepository
	profileRepo repository.ProfileRepository
	hub         *RealtimeHub
}

func NewChatService(chatRepo repository.ChatRepository, profileRepo repository.ProfileRepository,
	hub *RealtimeHub) *ChatService {
	return &ChatService{
		chatRepo:    chatRepo,
		profileRepo: profileRepo,
		hub:         hub,
	}
}

// RoomForPair 取得兩位用戶之間的房間，不存在時建立
// 用戶對先正規化成 (小, 大)，由唯一索引保證同一對最多一個房間
func (s *ChatService) RoomForPair(userID, otherID uint) (*models.ChatRoom, error) {
	if userID == otherID {
		return nil, apperr.New(apperr.ErrValidation, "不能和自己建立聊天室")
	}
	if _, err := s.profileRepo.FindByUserID(otherID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.New(apperr.ErrNotFound, "對方的個人資料不存在")
		}
		return nil, apperr.Wrap(apperr.ErrQuery, "查詢個人資料失敗", err)
	}

	lowID, highID := models.NormalizePair(userID, otherID)
	room, err := s.chatRepo.FirstOrCreateRoom(lowID, highID)
	if err != nil {
		return nil, apperr.Wrap(apperr.ErrQuery, "建立聊天室失敗", err)
	}

	// 重新查詢帶出雙方的個人資料
	complete, err := s.chatRepo.FindRoomByID(room.ID)
	if err != nil {
		return room, nil
	}
	return complete, nil
}

// Rooms 查詢用戶參與的所有房間
func (s *ChatService) Rooms(userID uint) ([]models.ChatRoom, error) {
	rooms, err := s.chatRepo.FindRoomsByUserID(userID)
	if err != nil {
		return nil, apperr.Wrap(apperr.ErrQuery, "查詢聊天室失敗", err)
	}
	return rooms, nil
}

// Messages 查詢房間內的訊息，由舊到新，只有參與者可以讀取
func (s *ChatService) Messages(userID, roomID uint) ([]models.Message, error) {
	if err := s.checkAccess(userID, roomID); err != nil {
		return nil, err
	}

	messages, err := s.chatRepo.FindMessagesByRoomID(roomID)
	if err != nil {
		return nil, apperr.Wrap(apperr.ErrQuery, "查詢訊息失敗", err)
	}

	result := make([]models.Message, 0, len(messages))
	for _, message := range messages {
		if message.Author.ID == 0 {
			continue
		}
		result = append(result, message)
	}
	return result, nil
}

// Send 在房間內送出一則訊息，回傳帶有伺服器編號與時間的完整訊息
func (s *ChatService) Send(userID, roomID uint, content string) (*models.Message, error) {
	if strings.TrimSpace(content) == "" {
		return nil, apperr.New(apperr.ErrValidation, "訊息不能為空")
	}
	if err := s.checkAccess(userID, roomID); err != nil {
		return nil, err
	}

	message := models.Message{
		RoomID:  roomID,
		UserID:  userID,
		Content: content,
	}
	if err := s.chatRepo.CreateMessage(&message); err != nil {
		return nil, apperr.Wrap(apperr.ErrQuery, "送出訊息失敗", err)
	}

	s.hub.Publish(&ChangeEvent{Scope: ChatScope(roomID), Table: "messages", Action: "insert"})

	created, err := s.chatRepo.FindMessageByID(message.ID)
	if err != nil {
		return &message, nil
	}
	return created, nil
}

// CanAccess 回傳用戶是否為房間參與者，同時供 WebSocket 訂閱授權使用
func (s *ChatService) CanAccess(userID, roomID uint) bool {
	return s.checkAccess(userID, roomID) == nil
}

func (s *ChatService) checkAccess(userID, roomID uint) error {
	room, err := s.chatRepo.FindRoomByID(roomID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.New(apperr.ErrNotFound, "聊天室不存在")
		}
		return apperr.Wrap(apperr.ErrQuery, "查詢聊天室失敗", err)
	}
	if !room.HasParticipant(userID) {
		return apperr.New(apperr.ErrForbidden, "用戶未加入此聊天室")
	}
	return nil
}
