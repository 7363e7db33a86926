package liftsync

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"sync"

	"liftsocial/internal/apperr"
)

// Client 對伺服器發出 REST 呼叫
// 不做任何跨呼叫的快取，資料新舊只由重新抓取的時機決定
type Client struct {
	baseURL string
	http    *http.Client

	mu    sync.RWMutex
	token string
}

// NewClient 建立一個指向伺服器的客戶端，例如 NewClient("http://localhost:8080")
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		http:    &http.Client{},
	}
}

// Token 回傳目前持有的存取憑證，尚未登入時為空字串
func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

func (c *Client) setToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

// do 發出一個 JSON 請求並解析回應
// 非 2xx 的回應會被轉成對應分類的錯誤
func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return apperr.Wrap(apperr.ErrValidation, "請求編碼失敗", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return apperr.Wrap(apperr.ErrQuery, "建立請求失敗", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.send(req, out)
}

// doMultipart 發出一個 multipart 請求，用於攜帶媒體檔案的寫入
func (c *Client) doMultipart(ctx context.Context, method, path string,
	fields map[string]string, fileField, filename string, file io.Reader, out interface{}) error {

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for key, value := range fields {
		if err := w.WriteField(key, value); err != nil {
			return apperr.Wrap(apperr.ErrValidation, "請求編碼失敗", err)
		}
	}
	if file != nil {
		part, err := w.CreateFormFile(fileField, filename)
		if err != nil {
			return apperr.Wrap(apperr.ErrValidation, "請求編碼失敗", err)
		}
		if _, err := io.Copy(part, file); err != nil {
			return apperr.Wrap(apperr.ErrValidation, "讀取檔案失敗", err)
		}
	}
	if err := w.Close(); err != nil {
		return apperr.Wrap(apperr.ErrValidation, "請求編碼失敗", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, &buf)
	if err != nil {
		return apperr.Wrap(apperr.ErrQuery, "建立請求失敗", err)
	}
	req.Header.Set("Content-Type", w.FormDataContentType())
	return c.send(req, out)
}

func (c *Client) send(req *http.Request, out interface{}) error {
	if token := c.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return apperr.Wrap(apperr.ErrQuery, "連線失敗", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeError(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return apperr.Wrap(apperr.ErrQuery, "回應解析失敗", err)
	}
	return nil
}

// decodeError 把伺服器的錯誤回應還原成對應分類
func decodeError(resp *http.Response) error {
	var body struct {
		Error string `json:"error"`
	}
	message := fmt.Sprintf("伺服器回應 %d", resp.StatusCode)
	if err := json.NewDecoder(resp.Body).Decode(&body); err == nil && body.Error != "" {
		message = body.Error
	}

	switch resp.StatusCode {
	case http.StatusBadRequest:
		return apperr.New(apperr.ErrValidation, message)
	case http.StatusUnauthorized:
		return apperr.New(apperr.ErrAuth, message)
	case http.StatusForbidden:
		return apperr.New(apperr.ErrForbidden, message)
	case http.StatusNotFound:
		return apperr.New(apperr.ErrNotFound, message)
	default:
		return apperr.New(apperr.ErrQuery, message)
	}
}
