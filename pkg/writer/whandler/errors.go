package whandler

import "errors"

var (
	// ErrEmptyMessage 表示消息为空或仅含空白字符。
	ErrEmptyMessage = errors.New("whandler: empty message")
)
