package liftsync

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"liftsocial/internal/models"
)

// 本檔案是各實體集合的查詢與寫入操作。
// 查詢一律回傳當下的完整快照，每次呼叫都重新向伺服器要資料；
// 缺少作者資料的列在伺服器端已被剔除，這裡再防禦性地過濾一次。

// Posts 抓取所有貼文的快照，由新到舊
func (c *Client) Posts(ctx context.Context) ([]models.Post, error) {
	var posts []models.Post
	if err := c.do(ctx, http.MethodGet, "/api/posts", nil, &posts); err != nil {
		return nil, err
	}
	return filterAuthored(posts, func(p models.Post) uint { return p.Author.ID }), nil
}

// Comments 抓取貼文留言的快照，由舊到新
func (c *Client) Comments(ctx context.Context, postID uint) ([]models.Comment, error) {
	var comments []models.Comment
	path := fmt.Sprintf("/api/posts/%d/comments", postID)
	if err := c.do(ctx, http.MethodGet, path, nil, &comments); err != nil {
		return nil, err
	}
	return filterAuthored(comments, func(m models.Comment) uint { return m.Author.ID }), nil
}

// Messages 抓取聊天室訊息的快照，由舊到新
func (c *Client) Messages(ctx context.Context, roomID uint) ([]models.Message, error) {
	var messages []models.Message
	path := fmt.Sprintf("/api/chat/rooms/%d/messages", roomID)
	if err := c.do(ctx, http.MethodGet, path, nil, &messages); err != nil {
		return nil, err
	}
	return filterAuthored(messages, func(m models.Message) uint { return m.Author.ID }), nil
}

// Rooms 抓取目前用戶參與的聊天室
func (c *Client) Rooms(ctx context.Context) ([]models.ChatRoom, error) {
	var rooms []models.ChatRoom
	if err := c.do(ctx, http.MethodGet, "/api/chat/rooms", nil, &rooms); err != nil {
		return nil, err
	}
	return rooms, nil
}

// Records 抓取目前用戶的個人紀錄歷史，由新到舊
func (c *Client) Records(ctx context.Context) ([]models.PersonalRecord, error) {
	var records []models.PersonalRecord
	if err := c.do(ctx, http.MethodGet, "/api/records", nil, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// Profiles 抓取其他所有用戶的個人資料
func (c *Client) Profiles(ctx context.Context) ([]models.Profile, error) {
	var profiles []models.Profile
	if err := c.do(ctx, http.MethodGet, "/api/profiles", nil, &profiles); err != nil {
		return nil, err
	}
	return profiles, nil
}

// ToggleLike 切換目前用戶對貼文的按讚狀態，回傳更新後的貼文
func (c *Client) ToggleLike(ctx context.Context, postID uint) (*models.Post, error) {
	var post models.Post
	path := fmt.Sprintf("/api/posts/%d/like", postID)
	if err := c.do(ctx, http.MethodPost, path, nil, &post); err != nil {
		return nil, err
	}
	return &post, nil
}

// AddComment 新增留言，回傳帶有伺服器編號與時間的完整留言
func (c *Client) AddComment(ctx context.Context, postID uint, text string) (*models.Comment, error) {
	var comment models.Comment
	path := fmt.Sprintf("/api/posts/%d/comments", postID)
	body := map[string]string{"text": text}
	if err := c.do(ctx, http.MethodPost, path, body, &comment); err != nil {
		return nil, err
	}
	return &comment, nil
}

// SendMessage 送出訊息，回傳帶有伺服器編號與時間的完整訊息
func (c *Client) SendMessage(ctx context.Context, roomID uint, content string) (*models.Message, error) {
	var message models.Message
	path := fmt.Sprintf("/api/chat/rooms/%d/messages", roomID)
	body := map[string]string{"content": content}
	if err := c.do(ctx, http.MethodPost, path, body, &message); err != nil {
		return nil, err
	}
	return &message, nil
}

// DeletePost 刪除貼文
func (c *Client) DeletePost(ctx context.Context, postID uint) error {
	path := fmt.Sprintf("/api/posts/%d", postID)
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}

// RoomForUser 取得與指定用戶的聊天室，不存在時由伺服器建立
func (c *Client) RoomForUser(ctx context.Context, otherID uint) (*models.ChatRoom, error) {
	var room models.ChatRoom
	body := map[string]uint{"user_id": otherID}
	if err := c.do(ctx, http.MethodPost, "/api/chat/rooms", body, &room); err != nil {
		return nil, err
	}
	return &room, nil
}

// CreatePostInput 定義建立貼文的輸入
type CreatePostInput struct {
	Caption   string
	MediaType models.MediaType
	Filename  string
	Media     io.Reader
	IsPR      bool
	LiftType  models.LiftType
	Weight    float64
}

// CreatePost 上傳媒體並建立貼文，必要時連同個人紀錄
func (c *Client) CreatePost(ctx context.Context, input CreatePostInput) (*models.Post, error) {
	fields := map[string]string{
		"caption":    input.Caption,
		"media_type": string(input.MediaType),
	}
	if input.IsPR {
		fields["is_pr"] = "true"
		fields["lift_type"] = string(input.LiftType)
		fields["weight"] = strconv.FormatFloat(input.Weight, 'f', -1, 64)
	}

	var post models.Post
	err := c.doMultipart(ctx, http.MethodPost, "/api/posts", fields,
		"media", input.Filename, input.Media, &post)
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// SaveProfileInput 定義儲存個人資料的輸入
type SaveProfileInput struct {
	Username string
	Role     models.ProfileRole
	Bio      string
	// 可選的新頭像
	AvatarFilename string
	Avatar         io.Reader
}

// SaveProfile 建立或更新個人資料
func (c *Client) SaveProfile(ctx context.Context, input SaveProfileInput) (*models.Profile, error) {
	fields := map[string]string{
		"username": input.Username,
		"role":     string(input.Role),
		"bio":      input.Bio,
	}

	var profile models.Profile
	err := c.doMultipart(ctx, http.MethodPut, "/api/profile", fields,
		"avatar", input.AvatarFilename, input.Avatar, &profile)
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

// filterAuthored 剔除缺少作者資料的列，渲染需要作者欄位
func filterAuthored[T any](items []T, authorID func(T) uint) []T {
	result := make([]T, 0, len(items))
	for _, item := range items {
		if authorID(item) == 0 {
			continue
		}
		result = append(result, item)
	}
	return result
}
