package service

import (
	"errors"
	"strings"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"liftsocial/internal/apperr"
	"liftsocial/internal/models"
	"liftsocial/internal/repository"
	"liftsocial/internal/storage"
)

// ProfileService 處理個人資料的查詢與儲存
type ProfileService struct {
	profileRepo repository.ProfileRepository
	media       storage.MediaStore
	logger      zerolog.Logger
}

func NewProfileService(profileRepo repository.ProfileRepository, media storage.MediaStore, logger zerolog.Logger) *ProfileService {
	return &ProfileService{
		profileRepo: profileRepo,
		media:       media,
		logger:      logger.With().Str("component", "profile").Logger(),
	}
}

// ProfileInput 定義儲存個人資料的輸入
type ProfileInput struct {
	Username string
	Role     models.ProfileRole
	Bio      string
	Avatar   *Upload // 可為 nil，表示沿用現有頭像
}

// Get 查詢指定用戶的個人資料
func (s *ProfileService) Get(userID uint) (*models.Profile, error) {
	profile, err := s.profileRepo.FindByUserID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.New(apperr.ErrNotFound, "個人資料不存在")
		}
		return nil, apperr.Wrap(apperr.ErrQuery, "查詢個人資料失敗", err)
	}
	return profile, nil
}

// ListOthers 查詢其他所有用戶的個人資料，用於選擇聊天對象
func (s *ProfileService) ListOthers(userID uint) ([]models.Profile, error) {
	profiles, err := s.profileRepo.FindAllExcept(userID)
	if err != nil {
		return nil, apperr.Wrap(apperr.ErrQuery, "查詢用戶列表失敗", err)
	}
	return profiles, nil
}

// Save 儲存個人資料，不存在時建立，存在時更新
//
// 頭像上傳與資料寫入是兩個相依步驟：先上傳拿到 URL，再寫入資料列。
// 資料列寫入失敗時刪除剛上傳的頭像作為補償，避免留下孤兒檔案。
func (s *ProfileService) Save(userID uint, input ProfileInput) (*models.Profile, error) {
	input.Username = strings.TrimSpace(input.Username)
	if input.Username == "" {
		return nil, apperr.New(apperr.ErrValidation, "用戶名稱不能為空")
	}
	if !models.ValidRole(input.Role) {
		return nil, apperr.New(apperr.ErrValidation, "無效的角色")
	}

	var avatarURL string
	var avatarName string
	if input.Avatar != nil {
		if err := storage.ValidateMedia(models.MediaImage, input.Avatar.Size, input.Avatar.ContentType); err != nil {
			return nil, err
		}
		avatarName = storage.NewObjectName(input.Avatar.Filename)
		if err := s.media.Save("avatars", avatarName, input.Avatar.Reader); err != nil {
			return nil, err
		}
		avatarURL = s.media.PublicURL("avatars", avatarName)
	}

	profile, err := s.profileRepo.FindByUserID(userID)
	switch {
	case err == nil:
		profile.Username = input.Username
		profile.Role = input.Role
		profile.Bio = input.Bio
		if avatarURL != "" {
			profile.AvatarURL = avatarURL
		}
		err = s.profileRepo.Update(profile)
	case errors.Is(err, gorm.ErrRecordNotFound):
		profile = &models.Profile{
			UserID:    userID,
			Username:  input.Username,
			Role:      input.Role,
			Bio:       input.Bio,
			AvatarURL: avatarURL,
		}
		err = s.profileRepo.Create(profile)
	default:
		err = apperr.Wrap(apperr.ErrQuery, "查詢個人資料失敗", err)
	}

	if err != nil {
		// 補償：資料列沒寫成功，剛上傳的頭像要清掉
		if avatarName != "" {
			if delErr := s.media.Delete("avatars", avatarName); delErr != nil {
				s.logger.Error().Err(delErr).Str("object", avatarName).
					Msg("avatar compensation delete failed")
			}
		}
		if errors.Is(err, apperr.ErrQuery) {
			return nil, err
		}
		return nil, apperr.Wrap(apperr.ErrQuery, "儲存個人資料失敗", err)
	}
	return profile, nil
}
