package wretry

import "errors"

var (
	// ErrNotWritable 表示当前写入模式不允许写入。
	ErrNotWritable = errors.New("wretry: write mode not writable")

	// ErrEmptyPayload 表示待写入内容为空。
	ErrEmptyPayload = errors.New("wretry: empty payload")
)
