package service_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"liftsocial/internal/service"
)

// newHubServer 啟動一個掛著通知中心的測試伺服器
func newHubServer(t *testing.T, authorize func(userID uint, scope string) bool) (*service.RealtimeHub, string) {
	t.Helper()

	hub := service.NewRealtimeHub(nil, zerolog.Nop())
	hub.SetAuthorizer(authorize)

	upgrader := websocket.Upgrader{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		hub.HandleClient(&service.Client{Conn: conn, UserID: 1})
	}))
	t.Cleanup(server.Close)

	return hub, "ws" + strings.TrimPrefix(server.URL, "http")
}

func dialHub(t *testing.T, url string) *websocket.Conn {
	t.Helper()

	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestHubSubscribeAndPublish(t *testing.T) {
	hub, url := newHubServer(t, func(uint, string) bool { return true })
	conn := dialHub(t, url)

	require.NoError(t, conn.WriteJSON(&service.SubscribeRequest{Action: "subscribe", Scope: service.ScopePosts}))
	require.Eventually(t, func() bool {
		return hub.ScopeClients(service.ScopePosts) == 1
	}, time.Second, 10*time.Millisecond)

	hub.Publish(&service.ChangeEvent{Scope: service.ScopePosts, Table: "posts", Action: "insert"})

	conn.SetReadDeadline(time.Now().Add(time.Second))
	var event service.ChangeEvent
	require.NoError(t, conn.ReadJSON(&event))
	assert.Equal(t, service.ScopePosts, event.Scope)
	assert.Equal(t, "insert", event.Action)
}

func TestHubScopeIsolation(t *testing.T) {
	hub, url := newHubServer(t, func(uint, string) bool { return true })
	conn := dialHub(t, url)

	require.NoError(t, conn.WriteJSON(&service.SubscribeRequest{Action: "subscribe", Scope: "chat:1"}))
	require.Eventually(t, func() bool {
		return hub.ScopeClients("chat:1") == 1
	}, time.Second, 10*time.Millisecond)

	// 別的 scope 的事件不會送到這個客戶端
	hub.Publish(&service.ChangeEvent{Scope: "chat:2", Table: "messages", Action: "insert"})
	hub.Publish(&service.ChangeEvent{Scope: "chat:1", Table: "messages", Action: "insert"})

	conn.SetReadDeadline(time.Now().Add(time.Second))
	var event service.ChangeEvent
	require.NoError(t, conn.ReadJSON(&event))
	assert.Equal(t, "chat:1", event.Scope)
}

func TestHubUnsubscribe(t *testing.T) {
	hub, url := newHubServer(t, func(uint, string) bool { return true })
	conn := dialHub(t, url)

	require.NoError(t, conn.WriteJSON(&service.SubscribeRequest{Action: "subscribe", Scope: service.ScopePosts}))
	require.Eventually(t, func() bool {
		return hub.ScopeClients(service.ScopePosts) == 1
	}, time.Second, 10*time.Millisecond)

	require.NoError(t, conn.WriteJSON(&service.SubscribeRequest{Action: "unsubscribe", Scope: service.ScopePosts}))
	require.Eventually(t, func() bool {
		return hub.ScopeClients(service.ScopePosts) == 0
	}, time.Second, 10*time.Millisecond)
}

func TestHubSubscribeUnauthorized(t *testing.T) {
	hub, url := newHubServer(t, func(_ uint, scope string) bool {
		return scope == service.ScopePosts
	})
	conn := dialHub(t, url)

	require.NoError(t, conn.WriteJSON(&service.SubscribeRequest{Action: "subscribe", Scope: "chat:1"}))
	require.NoError(t, conn.WriteJSON(&service.SubscribeRequest{Action: "subscribe", Scope: service.ScopePosts}))

	require.Eventually(t, func() bool {
		return hub.ScopeClients(service.ScopePosts) == 1
	}, time.Second, 10*time.Millisecond)
	assert.Zero(t, hub.ScopeClients("chat:1"))
}

// 發布和斷線收尾交錯時不能讓整個派送程序掛掉
func TestHubPublishDuringDisconnect(t *testing.T) {
	hub, url := newHubServer(t, func(uint, string) bool { return true })

	stop := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-stop:
				return
			default:
				hub.Publish(&service.ChangeEvent{Scope: service.ScopePosts, Table: "posts", Action: "update"})
			}
		}
	}()

	for i := 0; i < 50; i++ {
		conn, _, err := websocket.DefaultDialer.Dial(url, nil)
		require.NoError(t, err)
		require.NoError(t, conn.WriteJSON(&service.SubscribeRequest{Action: "subscribe", Scope: service.ScopePosts}))

		go func(c *websocket.Conn) {
			for {
				if _, _, err := c.ReadMessage(); err != nil {
					return
				}
			}
		}(conn)

		time.Sleep(2 * time.Millisecond)
		conn.Close()
	}

	close(stop)
	wg.Wait()

	require.Eventually(t, func() bool {
		return hub.ScopeClients(service.ScopePosts) == 0
	}, time.Second, 10*time.Millisecond)
}

func TestHubDisconnectCleansUp(t *testing.T) {
	hub, url := newHubServer(t, func(uint, string) bool { return true })
	conn := dialHub(t, url)

	require.NoError(t, conn.WriteJSON(&service.SubscribeRequest{Action: "subscribe", Scope: service.ScopePosts}))
	require.Eventually(t, func() bool {
		return hub.ScopeClients(service.ScopePosts) == 1
	}, time.Second, 10*time.Millisecond)

	conn.Close()
	require.Eventually(t, func() bool {
		return hub.ScopeClients(service.ScopePosts) == 0
	}, time.Second, 10*time.Millisecond)
}
