package wkeylock

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPathLock_MutualExclusionSameKey(t *testing.T) {
	t.Parallel()

	pl := New()

	var counter int
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := pl.Lock("/var/log/app.log")
			defer unlock()
			// 非原子自增，若互斥失效则数据竞争检测和计数都会暴露问题
			counter++
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, counter)
	assert.Equal(t, 1, pl.Len())
}

func TestPathLock_IndependentKeys(t *testing.T) {
	t.Parallel()

	pl := New()

	// 持有 key A 时获取 key B 不应阻塞
	unlockA := pl.Lock("a.log")
	defer unlockA()

	done := make(chan struct{})
	go func() {
		unlockB := pl.Lock("b.log")
		unlockB()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("lock on independent key blocked")
	}
}

func TestPathLock_UnlockReleases(t *testing.T) {
	t.Parallel()

	pl := New()

	unlock := pl.Lock("x.log")
	unlock()

	// 释放后可立即重新获取
	unlock2 := pl.Lock("x.log")
	unlock2()
}

func TestWithShardCount(t *testing.T) {
	t.Parallel()

	pl := New(WithShardCount(4))
	require.Len(t, pl.shards, 4)

	// 非 2 的幂被忽略
	pl = New(WithShardCount(3))
	require.Len(t, pl.shards, defaultShardCount)

	// nil option 被忽略
	pl = New(nil, WithShardCount(8))
	require.Len(t, pl.shards, 8)
}
