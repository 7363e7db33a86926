package models

import (
	"gorm.io/gorm"
)

// ChatRoom 表示兩位用戶之間的私訊房間
// 參與者以 (小 ID, 大 ID) 的正規化順序保存，
// 搭配複合唯一索引保證同一對用戶最多只有一個房間
type ChatRoom struct {
	gorm.Model
	UserLowID  uint    `gorm:"uniqueIndex:idx_room_pair;not null" json:"user_low_id"`
	UserHighID uint    `gorm:"uniqueIndex:idx_room_pair;not null" json:"user_high_id"`
	LowUser    Profile `gorm:"foreignKey:UserLowID;references:UserID" json:"low_user"`
	HighUser   Profile `gorm:"foreignKey:UserHighID;references:UserID" json:"high_user"`
}

// NormalizePair 將兩個用戶 ID 轉成正規化的 (小, 大) 順序
func NormalizePair(a, b uint) (uint, uint) {
	if a > b {
		return b, a
	}
	return a, b
}

// HasParticipant 回傳指定用戶是否為房間參與者
func (r *ChatRoom) HasParticipant(userID uint) bool {
	return r.UserLowID == userID || r.UserHighID == userID
}

// Message 表示房間內的一則私訊
// 只會新增，依建立時間由舊到新顯示
type Message struct {
	gorm.Model
	RoomID  uint    `gorm:"index;not null" json:"room_id"`
	UserID  uint    `gorm:"index;not null" json:"user_id"`
	Content string  `gorm:"type:text;not null" json:"content"`
	Author  Profile `gorm:"foreignKey:UserID;references:UserID" json:"author"`
}
