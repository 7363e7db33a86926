package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"liftsocial/internal/apperr"
	"liftsocial/internal/models"
)

// 媒體大小上限，超過的檔案在任何寫入發生前就會被拒絕
const (
	MaxImageSize = 5 * 1024 * 1024  // 圖片上限 5MB
	MaxVideoSize = 50 * 1024 * 1024 // 影片上限 50MB
)

// MediaStore 定義媒體物件儲存的能力
// bucket 對應不同用途的目錄（posts、avatars）
type MediaStore interface {
	Save(bucket, name string, r io.Reader) error
	Delete(bucket, name string) error
	PublicURL(bucket, name string) string
}

// ValidateMedia 在上傳前檢查媒體的大小與類型
// 驗證失敗時直接回傳 ValidationError，不會發出任何寫入
func ValidateMedia(mediaType models.MediaType, size int64, contentType string) error {
	switch mediaType {
	case models.MediaImage:
		if !strings.HasPrefix(contentType, "image/") {
			return apperr.New(apperr.ErrValidation, "請選擇圖片檔案")
		}
		if size > MaxImageSize {
			return apperr.New(apperr.ErrValidation, "圖片大小不能超過 5MB")
		}
	case models.MediaVideo:
		if !strings.HasPrefix(contentType, "video/") {
			return apperr.New(apperr.ErrValidation, "請選擇影片檔案")
		}
		if size > MaxVideoSize {
			return apperr.New(apperr.ErrValidation, "影片大小不能超過 50MB")
		}
	default:
		return apperr.New(apperr.ErrValidation, "不支援的媒體類型")
	}
	return nil
}

// NewObjectName 產生不會重複的物件名稱，保留原始副檔名
func NewObjectName(filename string) string {
	return uuid.NewString() + strings.ToLower(filepath.Ext(filename))
}

// LocalMediaStore 把媒體存在本地磁碟，並以靜態路由對外提供
// 換成雲端儲存時只需要另外實作 MediaStore
type LocalMediaStore struct {
	Root    string // 磁碟上的根目錄
	BaseURL string // 對外公開的 URL 前綴，例如 http://localhost:8080/media
}

func NewLocalMediaStore(root, baseURL string) (*LocalMediaStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create media root: %v", err)
	}
	return &LocalMediaStore{Root: root, BaseURL: strings.TrimSuffix(baseURL, "/")}, nil
}

func (s *LocalMediaStore) Save(bucket, name string, r io.Reader) error {
	dir := filepath.Join(s.Root, bucket)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return apperr.Wrap(apperr.ErrStorage, "媒體上傳失敗", err)
	}

	f, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return apperr.Wrap(apperr.ErrStorage, "媒體上傳失敗", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		return apperr.Wrap(apperr.ErrStorage, "媒體上傳失敗", err)
	}
	return nil
}

func (s *LocalMediaStore) Delete(bucket, name string) error {
	if err := os.Remove(filepath.Join(s.Root, bucket, name)); err != nil && !os.IsNotExist(err) {
		return apperr.Wrap(apperr.ErrStorage, "媒體刪除失敗", err)
	}
	return nil
}

func (s *LocalMediaStore) PublicURL(bucket, name string) string {
	return s.BaseURL + "/" + bucket + "/" + name
}
