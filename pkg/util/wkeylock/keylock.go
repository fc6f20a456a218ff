package wkeylock

import (
	"sync"

	"github.com/cespare/xxhash/v2"
)

// defaultShardCount 默认分片数，必须为 2 的幂。
// 16 个分片对单机日志路径集合（通常 < 100 个）绰绰有余。
const defaultShardCount = 16

// PathLock 按 key 提供互斥的路径锁。
type PathLock struct {
	shards []shard
	mask   uint64
}

type shard struct {
	mu      sync.Mutex
	entries map[string]*sync.Mutex
}

// Option 定义 PathLock 配置选项。
type Option func(*config)

type config struct {
	shardCount uint
}

// WithShardCount 设置分片数量，必须为 2 的幂。
// 非 2 的幂或 0 会被静默忽略（保持默认值 16）。
func WithShardCount(n uint) Option {
	return func(c *config) {
		if n > 0 && n&(n-1) == 0 {
			c.shardCount = n
		}
	}
}

// New 创建 PathLock。
func New(opts ...Option) *PathLock {
	cfg := config{shardCount: defaultShardCount}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	shards := make([]shard, cfg.shardCount)
	for i := range shards {
		shards[i].entries = make(map[string]*sync.Mutex)
	}
	return &PathLock{
		shards: shards,
		mask:   uint64(cfg.shardCount - 1),
	}
}

func (pl *PathLock) getShard(key string) *shard {
	h := xxhash.Sum64String(key)
	return &pl.shards[h&pl.mask]
}

// getOrCreate 获取或创建 key 对应的互斥量。
func (pl *PathLock) getOrCreate(key string) *sync.Mutex {
	s := pl.getShard(key)
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.entries[key]
	if !ok {
		m = &sync.Mutex{}
		s.entries[key] = m
	}
	return m
}

// Lock 获取 key 的互斥锁，返回对应的解锁函数。
//
// 同一 key 上的 Lock 调用互相阻塞；不同 key 互不影响。
// 解锁函数必须且只能调用一次，典型用法是 defer。
func (pl *PathLock) Lock(key string) (unlock func()) {
	m := pl.getOrCreate(key)
	m.Lock()
	return m.Unlock
}

// Len 返回当前持有条目的 key 数量，主要用于测试和诊断。
func (pl *PathLock) Len() int {
	n := 0
	for i := range pl.shards {
		pl.shards[i].mu.Lock()
		n += len(pl.shards[i].entries)
		pl.shards[i].mu.Unlock()
	}
	return n
}
