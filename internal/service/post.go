package service

import (
	"errors"
	"path"
	"strings"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"liftsocial/internal/apperr"
	"liftsocial/internal/models"
	"liftsocial/internal/repository"
	"liftsocial/internal/storage"
)

// ScopePosts 是貼文集合的變動通知 scope
const ScopePosts = "posts"

// PostService 處理貼文、留言與個人紀錄
type PostService struct {
	postRepo    repository.PostRepository
	commentRepo repository.CommentRepository
	recordRepo  repository.RecordRepository
	media       storage.MediaStore
	hub         *RealtimeHub
	logger      zerolog.Logger
}

func NewPostService(postRepo repository.PostRepository, commentRepo repository.CommentRepository,
	recordRepo repository.RecordRepository, media storage.MediaStore, hub *RealtimeHub,
	logger zerolog.Logger) *PostService {
	return &PostService{
		postRepo:    postRepo,
		commentRepo: commentRepo,
		recordRepo:  recordRepo,
		media:       media,
		hub:         hub,
		logger:      logger.With().Str("component", "post").Logger(),
	}
}

// CreatePostInput 定義建立貼文的輸入
type CreatePostInput struct {
	Caption   string
	MediaType models.MediaType
	Media     *Upload
	IsPR      bool
	LiftType  models.LiftType
	Weight    float64
}

// Feed 查詢所有貼文，由新到舊
// 缺少作者資料的貼文無法渲染，直接從結果中剔除
func (s *PostService) Feed() ([]models.Post, error) {
	posts, err := s.postRepo.FindAll()
	if err != nil {
		return nil, apperr.Wrap(apperr.ErrQuery, "查詢貼文失敗", err)
	}

	result := make([]models.Post, 0, len(posts))
	for _, post := range posts {
		if post.Author.ID == 0 {
			s.logger.Warn().Uint("post_id", post.ID).Msg("post dropped: author profile missing")
			continue
		}
		result = append(result, post)
	}
	return result, nil
}

// Create 建立新貼文，必要時連同個人紀錄
//
// 三個相依步驟依序執行：上傳媒體 → 寫入貼文 → 寫入個人紀錄。
// 個人紀錄寫入失敗時刪除已建立的貼文與已上傳的媒體作為補償，
// 不會留下標記為 PR 卻沒有對應紀錄的貼文。
func (s *PostService) Create(userID uint, input CreatePostInput) (*models.Post, error) {
	if input.Media == nil {
		return nil, apperr.New(apperr.ErrValidation, "請選擇要上傳的圖片或影片")
	}
	if err := storage.ValidateMedia(input.MediaType, input.Media.Size, input.Media.ContentType); err != nil {
		return nil, err
	}
	if input.IsPR {
		if !models.ValidLiftType(input.LiftType) {
			return nil, apperr.New(apperr.ErrValidation, "無效的項目")
		}
		if input.Weight <= 0 {
			return nil, apperr.New(apperr.ErrValidation, "請輸入有效的 PR 重量")
		}
	}

	objectName := storage.NewObjectName(input.Media.Filename)
	if err := s.media.Save("posts", objectName, input.Media.Reader); err != nil {
		return nil, err
	}

	post := models.Post{
		UserID:    userID,
		ImageURL:  s.media.PublicURL("posts", objectName),
		MediaType: input.MediaType,
		Caption:   input.Caption,
		Likes:     []uint{},
		IsPR:      input.IsPR,
	}
	if input.IsPR {
		post.LiftType = input.LiftType
	}

	if err := s.postRepo.Create(&post); err != nil {
		s.compensateMedia("posts", objectName)
		return nil, apperr.Wrap(apperr.ErrQuery, "建立貼文失敗", err)
	}

	if input.IsPR {
		record := models.PersonalRecord{
			UserID:   userID,
			LiftType: input.LiftType,
			Weight:   input.Weight,
			PostID:   &post.ID,
		}
		if err := s.recordRepo.Create(&record); err != nil {
			// 補償：把剛建立的貼文與媒體一併收回
			if delErr := s.postRepo.DeleteCascade(post.ID); delErr != nil {
				s.logger.Error().Err(delErr).Uint("post_id", post.ID).
					Msg("post compensation delete failed")
			}
			s.compensateMedia("posts", objectName)
			return nil, apperr.Wrap(apperr.ErrQuery, "建立個人紀錄失敗", err)
		}
	}

	s.hub.Publish(&ChangeEvent{Scope: ScopePosts, Table: "posts", Action: "insert"})

	created, err := s.postRepo.FindByID(post.ID)
	if err != nil {
		return &post, nil
	}
	return created, nil
}

// Delete 刪除貼文，只有作者可以執行
// 連同留言與個人紀錄的回溯參照一起處理，媒體檔案盡力清除
func (s *PostService) Delete(userID, postID uint) error {
	post, err := s.postRepo.FindByID(postID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.New(apperr.ErrNotFound, "貼文不存在")
		}
		return apperr.Wrap(apperr.ErrQuery, "查詢貼文失敗", err)
	}
	if post.UserID != userID {
		return apperr.New(apperr.ErrForbidden, "只有作者可以刪除貼文")
	}

	if err := s.postRepo.DeleteCascade(postID); err != nil {
		return apperr.Wrap(apperr.ErrQuery, "刪除貼文失敗", err)
	}
	s.compensateMedia("posts", path.Base(post.ImageURL))

	s.hub.Publish(&ChangeEvent{Scope: ScopePosts, Table: "posts", Action: "delete"})
	return nil
}

// ToggleLike 切換用戶對貼文的按讚狀態，回傳更新後的貼文
// 在單一交易內完成讀取與寫回，連續兩次呼叫會回到原本的集合
func (s *PostService) ToggleLike(userID, postID uint) (*models.Post, error) {
	post, err := s.postRepo.ToggleLike(postID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.New(apperr.ErrNotFound, "貼文不存在")
		}
		return nil, apperr.Wrap(apperr.ErrQuery, "更新按讚失敗", err)
	}

	s.hub.Publish(&ChangeEvent{Scope: ScopePosts, Table: "posts", Action: "update"})
	return post, nil
}

// Comments 查詢貼文的留言，由舊到新，剔除缺少作者資料的留言
func (s *PostService) Comments(postID uint) ([]models.Comment, error) {
	comments, err := s.commentRepo.FindByPostID(postID)
	if err != nil {
		return nil, apperr.Wrap(apperr.ErrQuery, "查詢留言失敗", err)
	}

	result := make([]models.Comment, 0, len(comments))
	for _, comment := range comments {
		if comment.Author.ID == 0 {
			continue
		}
		result = append(result, comment)
	}
	return result, nil
}

// AddComment 在貼文底下新增留言，回傳帶有伺服器編號與時間的完整留言
func (s *PostService) AddComment(userID, postID uint, text string) (*models.Comment, error) {
	if strings.TrimSpace(text) == "" {
		return nil, apperr.New(apperr.ErrValidation, "留言不能為空")
	}

	if _, err := s.postRepo.FindByID(postID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.New(apperr.ErrNotFound, "貼文不存在")
		}
		return nil, apperr.Wrap(apperr.ErrQuery, "查詢貼文失敗", err)
	}

	comment := models.Comment{
		PostID: postID,
		UserID: userID,
		Text:   text,
	}
	if err := s.commentRepo.Create(&comment); err != nil {
		return nil, apperr.Wrap(apperr.ErrQuery, "新增留言失敗", err)
	}

	created, err := s.commentRepo.FindByID(comment.ID)
	if err != nil {
		return &comment, nil
	}
	return created, nil
}

// Records 查詢用戶的個人紀錄歷史，由新到舊
func (s *PostService) Records(userID uint) ([]models.PersonalRecord, error) {
	records, err := s.recordRepo.FindByUserID(userID)
	if err != nil {
		return nil, apperr.Wrap(apperr.ErrQuery, "查詢個人紀錄失敗", err)
	}
	return records, nil
}

// compensateMedia 盡力刪除媒體檔案，失敗只記錄不往外傳
func (s *PostService) compensateMedia(bucket, name string) {
	if err := s.media.Delete(bucket, name); err != nil {
		s.logger.Error().Err(err).Str("object", name).Msg("media compensation delete failed")
	}
}
