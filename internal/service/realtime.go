package service

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// ChangeEvent 表示某個 scope 底下的資料發生了變動
// 故意不攜帶任何資料列內容，收到的一方一律重新抓取整個 scope
type ChangeEvent struct {
	Scope  string `json:"scope"`  // "posts" 或 "chat:<roomID>"
	Table  string `json:"table"`  // 發生變動的資料表
	Action string `json:"action"` // insert / update / delete
}

// SubscribeRequest 定義客戶端透過 WebSocket 傳來的訂閱控制指令
type SubscribeRequest struct {
	Action string `json:"action"` // subscribe / unsubscribe
	Scope  string `json:"scope"`
}

// Client 代表一個 WebSocket 客戶端連接
type Client struct {
	Conn     *websocket.Conn   // WebSocket 連接
	UserID   uint              // 用戶 ID
	SendChan chan *ChangeEvent // 事件發送通道，用於異步傳送變動通知

	done chan struct{} // 連接收尾時關閉，通知 writePump 結束
}

// RealtimeHub 管理所有的 WebSocket 連接與變動通知的派送
// 客戶端連上後以 subscribe/unsubscribe 指令加入或離開 scope，
// 服務層在每次寫入成功後呼叫 Publish
type RealtimeHub struct {
	scopes    map[string]map[*Client]bool // 兩層 map: scope -> client -> bool
	scopesMux sync.RWMutex                // 用於保護 scopes map 的讀寫鎖

	// authorize 決定用戶是否可以訂閱某個 scope，由路由設置時注入
	authorize func(userID uint, scope string) bool

	rdb     *redis.Client // 跨實例橋接用，可為 nil
	channel string        // redis pub/sub 頻道名稱
	logger  zerolog.Logger
}

// NewRealtimeHub 創建並初始化新的通知中心
// rdb 為 nil 時事件只在本實例內派送
func NewRealtimeHub(rdb *redis.Client, logger zerolog.Logger) *RealtimeHub {
	return &RealtimeHub{
		scopes:    make(map[string]map[*Client]bool),
		authorize: func(uint, string) bool { return false },
		rdb:       rdb,
		channel:   "liftsocial:changes",
		logger:    logger.With().Str("component", "realtime").Logger(),
	}
}

// SetAuthorizer 注入 scope 的授權檢查
func (h *RealtimeHub) SetAuthorizer(fn func(userID uint, scope string) bool) {
	h.authorize = fn
}

// Publish 發布一個變動事件
// 有設定 redis 時先經過 pub/sub，讓所有實例都收得到
func (h *RealtimeHub) Publish(event *ChangeEvent) {
	if h.rdb != nil {
		payload, err := json.Marshal(event)
		if err != nil {
			h.logger.Error().Err(err).Msg("event encoding error")
			return
		}
		if err := h.rdb.Publish(context.Background(), h.channel, payload).Err(); err != nil {
			h.logger.Error().Err(err).Str("scope", event.Scope).Msg("redis publish error")
			// redis 斷線時退回本地派送，不讓通知整個消失
			h.broadcastLocal(event)
		}
		return
	}
	h.broadcastLocal(event)
}

// RunRedisBridge 訂閱 redis 頻道並把事件轉發給本實例的客戶端
// 在獨立的 goroutine 中執行，ctx 結束時停止
func (h *RealtimeHub) RunRedisBridge(ctx context.Context) {
	sub := h.rdb.Subscribe(ctx, h.channel)
	defer sub.Close()

	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-sub.Channel():
			if !ok {
				return
			}
			var event ChangeEvent
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				h.logger.Error().Err(err).Msg("event parse error")
				continue
			}
			h.broadcastLocal(&event)
		}
	}
}

// broadcastLocal 向本實例內訂閱該 scope 的所有客戶端派送事件
func (h *RealtimeHub) broadcastLocal(event *ChangeEvent) {
	h.scopesMux.RLock()
	clients := make([]*Client, 0, len(h.scopes[event.Scope]))
	for client := range h.scopes[event.Scope] {
		clients = append(clients, client)
	}
	h.scopesMux.RUnlock()

	// SendChan 從不關閉，和斷線收尾交錯時事件最多落在沒有人讀的緩衝裡
	for _, client := range clients {
		select {
		case client.SendChan <- event:
			// 事件成功加入發送隊列
		default:
			// 客戶端隊列已滿，視為失聯並關閉連接
			h.removeClient(client)
			client.Conn.Close()
		}
	}
}

// HandleClient 處理一個新的客戶端連接，直到連接關閉才返回
// 結束以 done 通知 writePump，SendChan 永遠不關閉
func (h *RealtimeHub) HandleClient(client *Client) {
	client.SendChan = make(chan *ChangeEvent, 256)
	client.done = make(chan struct{})

	defer func() {
		h.removeClient(client)
		close(client.done)
		client.Conn.Close()
	}()

	go h.writePump(client)
	h.readPump(client)
}

// readPump 持續接收客戶端的訂閱控制指令
func (h *RealtimeHub) readPump(client *Client) {
	client.Conn.SetReadLimit(1024)
	client.Conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	client.Conn.SetPongHandler(func(string) error {
		client.Conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	for {
		_, message, err := client.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				h.logger.Warn().Err(err).Msg("websocket unexpected close")
			}
			break
		}

		var req SubscribeRequest
		if err := json.Unmarshal(message, &req); err != nil {
			h.logger.Warn().Err(err).Msg("subscribe request parse error")
			continue
		}

		switch req.Action {
		case "subscribe":
			if !h.authorize(client.UserID, req.Scope) {
				h.logger.Warn().Uint("user_id", client.UserID).Str("scope", req.Scope).
					Msg("subscribe rejected")
				continue
			}
			h.addClient(req.Scope, client)
		case "unsubscribe":
			h.removeClientFromScope(req.Scope, client)
		}
	}
}

// writePump 處理向客戶端發送事件與心跳
func (h *RealtimeHub) writePump(client *Client) {
	ticker := time.NewTicker(54 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-client.done:
			client.Conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			client.Conn.WriteMessage(websocket.CloseMessage, []byte{})
			return

		case event := <-client.SendChan:
			client.Conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := client.Conn.WriteJSON(event); err != nil {
				return
			}

		case <-ticker.C:
			client.Conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := client.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// addClient 安全地把客戶端加入 scope
func (h *RealtimeHub) addClient(scope string, client *Client) {
	h.scopesMux.Lock()
	defer h.scopesMux.Unlock()

	if h.scopes[scope] == nil {
		h.scopes[scope] = make(map[*Client]bool)
	}
	h.scopes[scope][client] = true
}

// removeClientFromScope 安全地把客戶端移出單一 scope
func (h *RealtimeHub) removeClientFromScope(scope string, client *Client) {
	h.scopesMux.Lock()
	defer h.scopesMux.Unlock()

	if clients, ok := h.scopes[scope]; ok {
		delete(clients, client)
		// 如果 scope 空了，刪除 scope
		if len(clients) == 0 {
			delete(h.scopes, scope)
		}
	}
}

// removeClient 把客戶端從所有 scope 移除
func (h *RealtimeHub) removeClient(client *Client) {
	h.scopesMux.Lock()
	defer h.scopesMux.Unlock()

	for scope, clients := range h.scopes {
		delete(clients, client)
		if len(clients) == 0 {
			delete(h.scopes, scope)
		}
	}
}

// ScopeClients 獲取指定 scope 目前的訂閱數量
func (h *RealtimeHub) ScopeClients(scope string) int {
	h.scopesMux.RLock()
	defer h.scopesMux.RUnlock()

	return len(h.scopes[scope])
}
