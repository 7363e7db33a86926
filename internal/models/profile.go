package models

import (
	"gorm.io/gorm"
)

// Profile 表示用戶的公開個人資料
// 首次儲存時建立，只有本人可以修改，不會被刪除
type Profile struct {
	gorm.Model
	UserID    uint        `gorm:"uniqueIndex;not null" json:"user_id"` // 對應的帳號 ID，一個帳號一份資料
	Username  string      `gorm:"not null" json:"username"`
	Role      ProfileRole `gorm:"type:varchar(20);not null;default:lifter" json:"role"`
	AvatarURL string      `json:"avatar_url"`
	Bio       string      `gorm:"type:text" json:"bio"`
}

// ProfileRole 定義用戶角色的類型
type ProfileRole string

const (
	RoleLifter ProfileRole = "lifter" // 健力者角色
	RoleCoach  ProfileRole = "coach"  // 教練角色
)

// ValidRole 檢查角色是否在允許的集合內
func ValidRole(role ProfileRole) bool {
	return role == RoleLifter || role == RoleCoach
}
