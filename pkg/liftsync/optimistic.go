package liftsync

import (
	"context"
	"slices"
	"sync"
)

// Collection 是畫面持有的一份實體集合，支援樂觀更新
//
// 使用方式：初始抓取與每次變動通知的重新抓取都以 Replace 寫入
// 權威快照；用戶操作透過 Mutate 先改本地再發遠端寫入，
// 寫入失敗時還原成套用前保存的狀態。
// 重新抓取永遠以整份快照覆蓋，因此樂觀更新與其後的權威快照
// 重複套用同一筆變更也不會出現重複資料。
type Collection[T any] struct {
	mu    sync.Mutex
	items []T
	gen   int // 每次 Replace 遞增，用來判斷還原是否已被權威快照取代
}

// NewCollection 建立一個空的集合
func NewCollection[T any]() *Collection[T] {
	return &Collection[T]{}
}

// Replace 以權威快照覆蓋整份集合
func (c *Collection[T]) Replace(snapshot []T) {
	c.mu.Lock()
	c.items = slices.Clone(snapshot)
	c.gen++
	c.mu.Unlock()
}

// Snapshot 回傳目前集合的拷貝
func (c *Collection[T]) Snapshot() []T {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.items)
}

// Len 回傳目前集合的大小
func (c *Collection[T]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// Mutate 執行一次樂觀更新
//
// 先保存套用前的狀態，立刻把 apply 的結果反映到本地，
// 再執行遠端寫入 commit。寫入失敗時還原保存的狀態並回傳錯誤；
// 若失敗前已有新的權威快照進來，則保留快照、放棄還原。
func (c *Collection[T]) Mutate(ctx context.Context, apply func([]T) []T, commit func(context.Context) error) error {
	c.mu.Lock()
	pre := slices.Clone(c.items)
	preGen := c.gen
	c.items = apply(slices.Clone(c.items))
	c.mu.Unlock()

	if err := commit(ctx); err != nil {
		c.mu.Lock()
		if c.gen == preGen {
			c.items = pre
		}
		c.mu.Unlock()
		return err
	}
	return nil
}

// Append 樂觀地在集合尾端加入一筆，遠端寫入失敗時移除
func (c *Collection[T]) Append(ctx context.Context, item T, commit func(context.Context) error) error {
	return c.Mutate(ctx, func(items []T) []T {
		return append(items, item)
	}, commit)
}

// Remove 樂觀地移除符合條件的項目，遠端寫入失敗時還原
func (c *Collection[T]) Remove(ctx context.Context, match func(T) bool, commit func(context.Context) error) error {
	return c.Mutate(ctx, func(items []T) []T {
		return slices.DeleteFunc(items, match)
	}, commit)
}
