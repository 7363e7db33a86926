package models

import (
	"gorm.io/gorm"
)

// Comment 表示貼文底下的一則留言
// 只會新增，依建立時間由舊到新顯示
type Comment struct {
	gorm.Model
	PostID uint    `gorm:"index;not null" json:"post_id"`
	UserID uint    `gorm:"index;not null" json:"user_id"`
	Text   string  `gorm:"type:text;not null" json:"text"`
	Author Profile `gorm:"foreignKey:UserID;references:UserID" json:"author"`
}
