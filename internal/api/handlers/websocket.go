package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"liftsocial/internal/service"
)

// 定義 WebSocket 升級器
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // 注意：在生產環境中，應該檢查 origin
	},
}

// WebSocketHandler 處理變動通知的 WebSocket 連接
type WebSocketHandler struct {
	hub *service.RealtimeHub
}

// NewWebSocketHandler 創建一個新的 WebSocketHandler 實例
func NewWebSocketHandler(hub *service.RealtimeHub) *WebSocketHandler {
	return &WebSocketHandler{hub: hub}
}

// HandleWebSocket 處理 WebSocket 連接請求
// 連上之後客戶端以 subscribe/unsubscribe 指令管理自己關心的 scope
func (h *WebSocketHandler) HandleWebSocket(c *gin.Context) {
	userID := currentUserID(c)

	// 升級 HTTP 連接為 WebSocket 連接
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "升級WebSocket失敗"})
		return
	}

	client := &service.Client{
		Conn:   conn,
		UserID: userID,
	}

	// 處理客戶端連接，直到連接關閉
	h.hub.HandleClient(client)
}
