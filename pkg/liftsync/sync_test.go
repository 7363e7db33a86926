package liftsync_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"liftsocial/pkg/liftsync"
)

// fakeNotifier 記錄訂閱次數並讓測試主動注入事件
type fakeNotifier struct {
	mu         sync.Mutex
	subscribes int
	cancels    int
	channels   map[string]chan struct{}
}

func newFakeNotifier() *fakeNotifier {
	return &fakeNotifier{channels: make(map[string]chan struct{})}
}

func (f *fakeNotifier) Subscribe(scope string) (<-chan struct{}, func(), error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.subscribes++
	events := make(chan struct{}, 1)
	f.channels[scope] = events
	cancel := func() {
		f.mu.Lock()
		f.cancels++
		delete(f.channels, scope)
		f.mu.Unlock()
	}
	return events, cancel, nil
}

func (f *fakeNotifier) emit(scope string) {
	f.mu.Lock()
	events := f.channels[scope]
	f.mu.Unlock()
	if events != nil {
		select {
		case events <- struct{}{}:
		default:
		}
	}
}

func (f *fakeNotifier) counts() (int, int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.subscribes, f.cancels
}

func TestSynchronizerRefetchOnEvent(t *testing.T) {
	notifier := newFakeNotifier()
	syncer := liftsync.NewSynchronizer(notifier, zerolog.Nop())

	var refetches atomic.Int32
	release, err := syncer.Subscribe("posts", func(context.Context) error {
		refetches.Add(1)
		return nil
	})
	require.NoError(t, err)
	defer release()

	notifier.emit("posts")
	require.Eventually(t, func() bool {
		return refetches.Load() == 1
	}, time.Second, 10*time.Millisecond)
}

func TestSynchronizerSharesSubscription(t *testing.T) {
	notifier := newFakeNotifier()
	syncer := liftsync.NewSynchronizer(notifier, zerolog.Nop())

	var first, second atomic.Int32
	releaseA, err := syncer.Subscribe("posts", func(context.Context) error {
		first.Add(1)
		return nil
	})
	require.NoError(t, err)
	releaseB, err := syncer.Subscribe("posts", func(context.Context) error {
		second.Add(1)
		return nil
	})
	require.NoError(t, err)

	// 兩個消費者只占用一份底層訂閱
	subs, _ := notifier.counts()
	assert.Equal(t, 1, subs)
	assert.Equal(t, 1, syncer.ActiveScopes())

	// 一個事件喚醒所有消費者
	notifier.emit("posts")
	require.Eventually(t, func() bool {
		return first.Load() == 1 && second.Load() == 1
	}, time.Second, 10*time.Millisecond)

	// 第一個離開時訂閱仍保留
	releaseA()
	_, cancels := notifier.counts()
	assert.Zero(t, cancels)

	// 最後一個離開才取消底層訂閱
	releaseB()
	_, cancels = notifier.counts()
	assert.Equal(t, 1, cancels)
	assert.Zero(t, syncer.ActiveScopes())
}

func TestSynchronizerReleaseIdempotent(t *testing.T) {
	notifier := newFakeNotifier()
	syncer := liftsync.NewSynchronizer(notifier, zerolog.Nop())

	release, err := syncer.Subscribe("posts", func(context.Context) error { return nil })
	require.NoError(t, err)

	release()
	release() // 重複呼叫不能把別人的引用計數扣掉

	_, cancels := notifier.counts()
	assert.Equal(t, 1, cancels)
}

func TestSynchronizerScopesIndependent(t *testing.T) {
	notifier := newFakeNotifier()
	syncer := liftsync.NewSynchronizer(notifier, zerolog.Nop())

	var posts, chat atomic.Int32
	releaseP, err := syncer.Subscribe("posts", func(context.Context) error {
		posts.Add(1)
		return nil
	})
	require.NoError(t, err)
	defer releaseP()
	releaseC, err := syncer.Subscribe("chat:1", func(context.Context) error {
		chat.Add(1)
		return nil
	})
	require.NoError(t, err)
	defer releaseC()

	assert.Equal(t, 2, syncer.ActiveScopes())

	notifier.emit("chat:1")
	require.Eventually(t, func() bool {
		return chat.Load() == 1
	}, time.Second, 10*time.Millisecond)
	assert.Zero(t, posts.Load())
}

func TestSynchronizerReleasedConsumerNotCalled(t *testing.T) {
	notifier := newFakeNotifier()
	syncer := liftsync.NewSynchronizer(notifier, zerolog.Nop())

	var gone, kept atomic.Int32
	releaseGone, err := syncer.Subscribe("posts", func(context.Context) error {
		gone.Add(1)
		return nil
	})
	require.NoError(t, err)
	releaseKept, err := syncer.Subscribe("posts", func(context.Context) error {
		kept.Add(1)
		return nil
	})
	require.NoError(t, err)
	defer releaseKept()

	releaseGone()
	notifier.emit("posts")
	require.Eventually(t, func() bool {
		return kept.Load() == 1
	}, time.Second, 10*time.Millisecond)
	assert.Zero(t, gone.Load())
}
