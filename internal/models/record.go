package models

import (
	"gorm.io/gorm"
)

// PersonalRecord 表示一筆個人紀錄
// PostID 指向記錄這次 PR 的貼文，貼文被刪除時會被清空
type PersonalRecord struct {
	gorm.Model
	UserID   uint     `gorm:"index;not null" json:"user_id"`
	LiftType LiftType `gorm:"type:varchar(20);not null" json:"lift_type"`
	Weight   float64  `gorm:"not null" json:"weight"` // 重量必須為正數，由服務層驗證
	PostID   *uint    `gorm:"index" json:"post_id,omitempty"`
	Post     *Post    `gorm:"foreignKey:PostID" json:"post,omitempty"`
}
