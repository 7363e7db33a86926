package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"liftsocial/internal/models"
	"liftsocial/internal/service"
)

// ProfileHandler 處理與個人資料相關的請求
type ProfileHandler struct {
	profileService *service.ProfileService
}

// NewProfileHandler 創建一個新的 ProfileHandler 實例
func NewProfileHandler(profileService *service.ProfileService) *ProfileHandler {
	return &ProfileHandler{profileService: profileService}
}

// GetProfile 回傳目前用戶的個人資料
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	profile, err := h.profileService.Get(currentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

// SaveProfile 建立或更新個人資料，頭像以 multipart 附帶
func (h *ProfileHandler) SaveProfile(c *gin.Context) {
	input := service.ProfileInput{
		Username: c.PostForm("username"),
		Role:     models.ProfileRole(c.DefaultPostForm("role", string(models.RoleLifter))),
		Bio:      c.PostForm("bio"),
	}

	// 頭像是可選的，沒附帶時沿用現有頭像
	if fileHeader, err := c.FormFile("avatar"); err == nil {
		file, err := fileHeader.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "無法讀取頭像檔案"})
			return
		}
		defer file.Close()

		input.Avatar = &service.Upload{
			Filename:    fileHeader.Filename,
			Size:        fileHeader.Size,
			ContentType: fileHeader.Header.Get("Content-Type"),
			Reader:      file,
		}
	}

	profile, err := h.profileService.Save(currentUserID(c), input)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

// ListProfiles 回傳其他所有用戶，用於選擇聊天對象
func (h *ProfileHandler) ListProfiles(c *gin.Context) {
	profiles, err := h.profileService.ListOthers(currentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, profiles)
}
