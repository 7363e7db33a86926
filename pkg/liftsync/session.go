package liftsync

import (
	"context"
	"net/http"
	"sync"

	"liftsocial/internal/apperr"
	"liftsocial/internal/models"
)

// Identity 表示目前登入的身份
// Profile 在用戶尚未建立個人資料時為 nil
type Identity struct {
	User    models.User     `json:"user"`
	Profile *models.Profile `json:"profile"`
}

// Session 保存目前的身份並在身份變更時通知訂閱者
// 消費端必須把身份視為可能為 nil，未登入時不得發出身份相關的查詢
type Session struct {
	client *Client

	mu        sync.Mutex
	identity  *Identity
	nextID    int
	listeners map[int]func(*Identity)
}

// NewSession 建立一個尚未登入的 Session
func NewSession(client *Client) *Session {
	return &Session{
		client:    client,
		listeners: make(map[int]func(*Identity)),
	}
}

// Identity 回傳目前的身份，未登入時為 nil
func (s *Session) Identity() *Identity {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.identity
}

// OnChange 註冊身份變更的回調，回傳取消註冊的函式
// 畫面卸下時必須呼叫取消函式，避免對已消失的畫面繼續通知
func (s *Session) OnChange(fn func(*Identity)) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}

// SignUp 註冊新帳號，註冊後仍需登入
func (s *Session) SignUp(ctx context.Context, email, password string) error {
	body := map[string]string{"email": email, "password": password}
	return s.client.do(ctx, http.MethodPost, "/api/register", body, nil)
}

// SignIn 登入並載入目前身份
func (s *Session) SignIn(ctx context.Context, email, password string) error {
	body := map[string]string{"email": email, "password": password}
	var resp struct {
		Token string      `json:"token"`
		User  models.User `json:"user"`
	}
	if err := s.client.do(ctx, http.MethodPost, "/api/login", body, &resp); err != nil {
		return err
	}

	s.client.setToken(resp.Token)
	return s.Load(ctx)
}

// Load 以現有的憑證向伺服器查詢目前身份
// 用於程序啟動時恢復既有的登入狀態
func (s *Session) Load(ctx context.Context) error {
	if s.client.Token() == "" {
		return apperr.New(apperr.ErrAuth, "尚未登入")
	}

	var identity Identity
	if err := s.client.do(ctx, http.MethodGet, "/api/session", nil, &identity); err != nil {
		return err
	}
	s.update(&identity)
	return nil
}

// SignOut 清除本地的登入狀態並通知訂閱者
func (s *Session) SignOut() {
	s.client.setToken("")
	s.update(nil)
}

// Close 移除所有訂閱者
// Session 的持有者結束時必須呼叫，之後的身份變更不再通知任何人
func (s *Session) Close() {
	s.mu.Lock()
	s.listeners = make(map[int]func(*Identity))
	s.mu.Unlock()
}

func (s *Session) update(identity *Identity) {
	s.mu.Lock()
	s.identity = identity
	fns := make([]func(*Identity), 0, len(s.listeners))
	for _, fn := range s.listeners {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn(identity)
	}
}
