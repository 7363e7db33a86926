package liftsync

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
)

// Notifier 提供 scope 層級的變動通知訂閱
// 事件不攜帶內容，只代表「這個 scope 可能已經過期」
type Notifier interface {
	// Subscribe 訂閱一個 scope，回傳事件通道與取消訂閱的函式
	Subscribe(scope string) (<-chan struct{}, func(), error)
}

// Synchronizer 讓多個畫面共享同一個 scope 的變動通知
//
// 每個 scope 只對 Notifier 建立一份訂閱，以引用計數共享，
// 最後一個消費者離開時才取消。收到任何通知都視為 scope 過期，
// 觸發所有已註冊的重新抓取；短時間內的連續通知會被合併成一次。
type Synchronizer struct {
	notifier Notifier
	logger   zerolog.Logger

	mu     sync.Mutex
	scopes map[string]*scopeState
}

type scopeState struct {
	refs   int
	events <-chan struct{}
	cancel func()        // 取消 Notifier 訂閱
	stop   chan struct{} // 結束重新抓取的 goroutine

	mu         sync.Mutex
	nextID     int
	refetchers map[int]func(context.Context) error
}

// NewSynchronizer 建立一個共享訂閱的同步器
func NewSynchronizer(notifier Notifier, logger zerolog.Logger) *Synchronizer {
	return &Synchronizer{
		notifier: notifier,
		logger:   logger.With().Str("component", "liftsync").Logger(),
		scopes:   make(map[string]*scopeState),
	}
}

// Subscribe 註冊一個 scope 的重新抓取函式，回傳解除註冊的函式
//
// 畫面卸下時必須呼叫解除函式，否則訂閱會一直占用連線額度。
// 初始資料的抓取由呼叫端自行負責，這裡只處理後續的變動。
func (s *Synchronizer) Subscribe(scope string, refetch func(context.Context) error) (func(), error) {
	s.mu.Lock()
	state, ok := s.scopes[scope]
	if !ok {
		events, cancel, err := s.notifier.Subscribe(scope)
		if err != nil {
			s.mu.Unlock()
			return nil, err
		}
		state = &scopeState{
			events:     events,
			cancel:     cancel,
			stop:       make(chan struct{}),
			refetchers: make(map[int]func(context.Context) error),
		}
		s.scopes[scope] = state
		go s.run(scope, state)
	}
	state.refs++
	s.mu.Unlock()

	state.mu.Lock()
	id := state.nextID
	state.nextID++
	state.refetchers[id] = refetch
	state.mu.Unlock()

	var once sync.Once
	release := func() {
		once.Do(func() {
			state.mu.Lock()
			delete(state.refetchers, id)
			state.mu.Unlock()

			s.mu.Lock()
			state.refs--
			if state.refs == 0 {
				delete(s.scopes, scope)
				state.cancel()
				close(state.stop)
			}
			s.mu.Unlock()
		})
	}
	return release, nil
}

// ActiveScopes 回傳目前持有訂閱的 scope 數量
func (s *Synchronizer) ActiveScopes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.scopes)
}

// run 處理單一 scope 的通知，收到事件就重新抓取一次
// events 通道的緩衝深度為一，堆積的通知自然合併
func (s *Synchronizer) run(scope string, state *scopeState) {
	for {
		select {
		case <-state.stop:
			return
		case _, ok := <-state.events:
			if !ok {
				return
			}
			s.refetchAll(scope, state)
		}
	}
}

func (s *Synchronizer) refetchAll(scope string, state *scopeState) {
	state.mu.Lock()
	fns := make([]func(context.Context) error, 0, len(state.refetchers))
	for _, fn := range state.refetchers {
		fns = append(fns, fn)
	}
	state.mu.Unlock()

	for _, fn := range fns {
		if err := fn(context.Background()); err != nil {
			// 抓取失敗不重試，下一個通知會再觸發
			s.logger.Warn().Err(err).Str("scope", scope).Msg("refetch failed")
		}
	}
}
