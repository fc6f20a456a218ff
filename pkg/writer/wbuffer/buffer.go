package wbuffer

import (
	"bytes"
	"sync"
)

// sep 记录分隔符，追加在每条消息之后。
const sep = '\n'

// Buffer 互斥保护的消息累积缓冲区。
// 零值不可用，必须通过 New 创建。
type Buffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
	max int
}

// New 创建 Buffer。
//
// max 为排空阈值（字节）；max <= 0 表示不缓冲，每次 Append 立即返回负载。
func New(max int) *Buffer {
	if max < 0 {
		max = 0
	}
	return &Buffer{max: max}
}

// Append 追加一条消息（自动补记录分隔符）。
//
// 返回值非 nil 时表示缓冲区已达阈值并被排空，调用方必须将返回的
// 负载写出；返回 nil 表示消息仍留在缓冲区中。
// max == 0 时每次调用都返回该条消息自身的负载。
func (b *Buffer) Append(msg string) []byte {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.max == 0 {
		payload := make([]byte, 0, len(msg)+1)
		payload = append(payload, msg...)
		return append(payload, sep)
	}

	b.buf.WriteString(msg)
	b.buf.WriteByte(sep)
	if b.buf.Len() >= b.max {
		return b.drainLocked()
	}
	return nil
}

// Drain 原子地取出并清空全部累积内容；空缓冲区返回 nil。
func (b *Buffer) Drain() []byte {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.drainLocked()
}

// drainLocked 取出并清空内容，调用方必须持有 b.mu。
func (b *Buffer) drainLocked() []byte {
	if b.buf.Len() == 0 {
		return nil
	}
	out := make([]byte, b.buf.Len())
	copy(out, b.buf.Bytes())
	b.buf.Reset()
	return out
}

// Len 返回当前累积的字节数。
func (b *Buffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Len()
}

// Max 返回排空阈值。
func (b *Buffer) Max() int {
	return b.max
}
