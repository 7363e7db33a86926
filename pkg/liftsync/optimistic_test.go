package liftsync_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"liftsocial/pkg/liftsync"
)

func TestCollectionAppendCommitSuccess(t *testing.T) {
	c := liftsync.NewCollection[string]()
	c.Replace([]string{"a"})

	err := c.Append(context.Background(), "b", func(context.Context) error {
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, c.Snapshot())
}

func TestCollectionRollbackOnCommitFailure(t *testing.T) {
	c := liftsync.NewCollection[string]()
	c.Replace([]string{"a", "b"})

	boom := errors.New("boom")
	err := c.Append(context.Background(), "c", func(context.Context) error {
		// 還原前能觀察到樂觀狀態
		assert.Equal(t, []string{"a", "b", "c"}, c.Snapshot())
		return boom
	})
	require.ErrorIs(t, err, boom)

	// 失敗後回到套用前的狀態
	assert.Equal(t, []string{"a", "b"}, c.Snapshot())
}

func TestCollectionRollbackSkippedAfterReplace(t *testing.T) {
	c := liftsync.NewCollection[string]()
	c.Replace([]string{"a"})

	err := c.Append(context.Background(), "b", func(context.Context) error {
		// 寫入還沒失敗前，權威快照先到了
		c.Replace([]string{"x", "y"})
		return errors.New("boom")
	})
	require.Error(t, err)

	// 快照比樂觀前的狀態新，不做還原
	assert.Equal(t, []string{"x", "y"}, c.Snapshot())
}

func TestCollectionRemove(t *testing.T) {
	c := liftsync.NewCollection[int]()
	c.Replace([]int{1, 2, 3})

	err := c.Remove(context.Background(), func(v int) bool { return v == 2 }, func(context.Context) error {
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []int{1, 3}, c.Snapshot())
	assert.Equal(t, 2, c.Len())
}

func TestCollectionMutate(t *testing.T) {
	c := liftsync.NewCollection[int]()
	c.Replace([]int{1, 2})

	err := c.Mutate(context.Background(), func(items []int) []int {
		for i := range items {
			items[i] *= 10
		}
		return items
	}, func(context.Context) error { return nil })
	require.NoError(t, err)
	assert.Equal(t, []int{10, 20}, c.Snapshot())
}

func TestCollectionSnapshotIsCopy(t *testing.T) {
	c := liftsync.NewCollection[int]()
	c.Replace([]int{1, 2})

	snapshot := c.Snapshot()
	snapshot[0] = 99
	assert.Equal(t, []int{1, 2}, c.Snapshot())
}
