package models

import (
	"gorm.io/gorm"
)

// User 表示系統中的登入帳號
// 只負責認證，個人資料放在 Profile
type User struct {
	gorm.Model        // 內嵌 gorm.Model，提供 ID、CreatedAt、UpdatedAt 和 DeletedAt 字段
	Email      string `gorm:"uniqueIndex;not null" json:"email"` // 電子郵件，必須唯一
	Password   string `gorm:"not null" json:"-"`                 // 密碼雜湊，json 序列化時會被忽略
}
