package service

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"liftsocial/internal/apperr"
	"liftsocial/internal/models"
	"liftsocial/internal/repository"
	"liftsocial/internal/utils"
)

// UserService 處理帳號註冊、登入與目前身份查詢
type UserService struct {
	userRepo    repository.UserRepository
	profileRepo repository.ProfileRepository
}

func NewUserService(userRepo repository.UserRepository, profileRepo repository.ProfileRepository) *UserService {
	return &UserService{userRepo: userRepo, profileRepo: profileRepo}
}

// Register 建立新帳號，電子郵件重複時回傳認證錯誤
func (s *UserService) Register(email, password string) (*models.User, error) {
	if email == "" || password == "" {
		return nil, apperr.New(apperr.ErrValidation, "電子郵件和密碼不能為空")
	}

	if _, err := s.userRepo.FindByEmail(email); err == nil {
		return nil, apperr.New(apperr.ErrAuth, "此電子郵件已經註冊過，請直接登入")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperr.Wrap(apperr.ErrAuth, "密碼加密失敗", err)
	}

	user := models.User{
		Email:    email,
		Password: string(hashedPassword),
	}
	if err := s.userRepo.Create(&user); err != nil {
		// 兩個同時註冊的請求都通過了上面的查詢，輸掉的一方撞上唯一索引
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperr.New(apperr.ErrAuth, "此電子郵件已經註冊過，請直接登入")
		}
		return nil, apperr.Wrap(apperr.ErrQuery, "創建使用者失敗", err)
	}
	return &user, nil
}

// Login 驗證帳號密碼並簽發 token
func (s *UserService) Login(email, password string) (*models.User, string, error) {
	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		return nil, "", apperr.New(apperr.ErrAuth, "電子郵件或密碼錯誤")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, "", apperr.New(apperr.ErrAuth, "電子郵件或密碼錯誤")
	}

	token, err := utils.GenerateToken(user.ID)
	if err != nil {
		return nil, "", apperr.Wrap(apperr.ErrAuth, "獲取token失敗", err)
	}
	return user, token, nil
}

// Session 回傳目前身份，包含尚未建立個人資料時的空 Profile
func (s *UserService) Session(userID uint) (*models.User, *models.Profile, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, apperr.New(apperr.ErrNotFound, "使用者不存在")
		}
		return nil, nil, apperr.Wrap(apperr.ErrQuery, "查詢使用者失敗", err)
	}

	profile, err := s.profileRepo.FindByUserID(userID)
	if err != nil {
		// 尚未建立個人資料不算錯誤
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return user, nil, nil
		}
		return nil, nil, apperr.Wrap(apperr.ErrQuery, "查詢個人資料失敗", err)
	}
	return user, profile, nil
}
