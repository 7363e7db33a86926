package models

import (
	"gorm.io/gorm"
)

// Post 表示一則貼文
// Likes 保存按讚用戶的 ID 集合，集合成員必須唯一，
// 成員的增減只透過 toggle 邏輯進行
type Post struct {
	gorm.Model
	UserID    uint      `gorm:"index;not null" json:"user_id"`
	ImageURL  string    `gorm:"not null" json:"image_url"`
	MediaType MediaType `gorm:"type:varchar(20);not null;default:image" json:"media_type"`
	Caption   string    `gorm:"type:text" json:"caption"`
	Likes     []uint    `gorm:"serializer:json;type:jsonb" json:"likes"`
	IsPR      bool      `gorm:"not null;default:false" json:"is_pr"`
	LiftType  LiftType  `gorm:"type:varchar(20)" json:"lift_type,omitempty"` // 僅在 IsPR 為 true 時有值
	Author    Profile   `gorm:"foreignKey:UserID;references:UserID" json:"author"`
}

// MediaType 定義貼文媒體的類型
type MediaType string

const (
	MediaImage MediaType = "image"
	MediaVideo MediaType = "video"
)

// LiftType 定義個人紀錄的項目
type LiftType string

const (
	LiftSquat    LiftType = "squat"
	LiftBench    LiftType = "bench"
	LiftDeadlift LiftType = "deadlift"
)

// ValidLiftType 檢查項目是否在允許的集合內
func ValidLiftType(lift LiftType) bool {
	return lift == LiftSquat || lift == LiftBench || lift == LiftDeadlift
}

// LikedBy 回傳指定用戶是否已對貼文按讚
func (p *Post) LikedBy(userID uint) bool {
	for _, id := range p.Likes {
		if id == userID {
			return true
		}
	}
	return false
}

// ToggleLike 計算按讚集合的新狀態：已按讚則移除，未按讚則加入
// 連續呼叫兩次會回到原本的集合
func (p *Post) ToggleLike(userID uint) {
	for i, id := range p.Likes {
		if id == userID {
			p.Likes = append(p.Likes[:i], p.Likes[i+1:]...)
			return
		}
	}
	p.Likes = append(p.Likes, userID)
}
