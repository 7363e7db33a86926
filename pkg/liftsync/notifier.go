package liftsync

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"sync"

	"github.com/gorilla/websocket"

	"liftsocial/internal/apperr"
)

// changeEvent 對應伺服器推送的變動通知
// 內容只用於記錄，消費端一律以整個 scope 重新抓取回應
type changeEvent struct {
	Scope  string `json:"scope"`
	Table  string `json:"table"`
	Action string `json:"action"`
}

type subscribeRequest struct {
	Action string `json:"action"`
	Scope  string `json:"scope"`
}

// WSNotifier 透過單一 WebSocket 連接接收變動通知
// 多個 scope 共用同一條連接，訂閱與退訂以控制指令表達
type WSNotifier struct {
	conn    *websocket.Conn
	writeMu sync.Mutex // gorilla 的寫入不允許並發

	mu     sync.Mutex
	nextID int
	subs   map[string]map[int]chan struct{}
	closed bool
}

// DialNotifier 建立通往伺服器的通知連接
// baseURL 是伺服器的 HTTP 位址，token 是登入後取得的憑證
func DialNotifier(ctx context.Context, baseURL, token string) (*WSNotifier, error) {
	wsURL := strings.Replace(baseURL, "http", "ws", 1) + "/api/ws"
	header := http.Header{}
	header.Set("Authorization", "Bearer "+token)

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, wsURL, header)
	if err != nil {
		return nil, apperr.Wrap(apperr.ErrQuery, "通知連線失敗", err)
	}

	n := &WSNotifier{
		conn: conn,
		subs: make(map[string]map[int]chan struct{}),
	}
	go n.readLoop()
	return n, nil
}

// Subscribe 實作 Notifier
// 同一個 scope 的第一個訂閱者才會對伺服器發出 subscribe 指令
func (n *WSNotifier) Subscribe(scope string) (<-chan struct{}, func(), error) {
	n.mu.Lock()
	if n.closed {
		n.mu.Unlock()
		return nil, nil, apperr.New(apperr.ErrQuery, "通知連線已關閉")
	}

	first := n.subs[scope] == nil
	if first {
		n.subs[scope] = make(map[int]chan struct{})
	}
	id := n.nextID
	n.nextID++
	// 深度為一的通道，堆積的通知自然合併
	events := make(chan struct{}, 1)
	n.subs[scope][id] = events
	n.mu.Unlock()

	if first {
		if err := n.write(&subscribeRequest{Action: "subscribe", Scope: scope}); err != nil {
			n.remove(scope, id, false)
			return nil, nil, err
		}
	}

	cancel := func() {
		n.remove(scope, id, true)
	}
	return events, cancel, nil
}

// Close 關閉連接，所有事件通道隨之關閉
func (n *WSNotifier) Close() error {
	n.mu.Lock()
	if n.closed {
		n.mu.Unlock()
		return nil
	}
	n.closed = true
	n.mu.Unlock()
	return n.conn.Close()
}

func (n *WSNotifier) remove(scope string, id int, notifyServer bool) {
	n.mu.Lock()
	last := false
	if subs, ok := n.subs[scope]; ok {
		delete(subs, id)
		if len(subs) == 0 {
			delete(n.subs, scope)
			last = true
		}
	}
	closed := n.closed
	n.mu.Unlock()

	if last && notifyServer && !closed {
		n.write(&subscribeRequest{Action: "unsubscribe", Scope: scope})
	}
}

func (n *WSNotifier) write(req *subscribeRequest) error {
	n.writeMu.Lock()
	defer n.writeMu.Unlock()
	if err := n.conn.WriteJSON(req); err != nil {
		return apperr.Wrap(apperr.ErrQuery, "訂閱指令送出失敗", err)
	}
	return nil
}

// readLoop 持續接收事件並分發給對應 scope 的訂閱者
// 傳輸中斷時結束；重連策略交由呼叫端決定
func (n *WSNotifier) readLoop() {
	defer func() {
		n.mu.Lock()
		n.closed = true
		for _, subs := range n.subs {
			for _, events := range subs {
				close(events)
			}
		}
		n.subs = make(map[string]map[int]chan struct{})
		n.mu.Unlock()
		n.conn.Close()
	}()

	for {
		_, payload, err := n.conn.ReadMessage()
		if err != nil {
			return
		}

		var event changeEvent
		if err := json.Unmarshal(payload, &event); err != nil {
			continue
		}

		n.mu.Lock()
		for _, events := range n.subs[event.Scope] {
			select {
			case events <- struct{}{}:
			default:
				// 已經有一個待處理的通知，合併
			}
		}
		n.mu.Unlock()
	}
}
