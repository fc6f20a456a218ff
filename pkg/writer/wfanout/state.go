package wfanout

import "strconv"

// State 表示执行器的生命周期状态。
type State int

const (
	// StateUninitialized 表示尚未启动，首次写入时惰性启动。
	StateUninitialized State = iota
	// StateActive 表示正在接受写入批次。
	StateActive
	// StateShutdown 表示已停止接受写入，需 Resume 恢复。
	StateShutdown
)

// String 返回 State 的可读字符串表示，用于调试和日志输出。
func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "Uninitialized"
	case StateActive:
		return "Active"
	case StateShutdown:
		return "Shutdown"
	default:
		return "State(" + strconv.Itoa(int(s)) + ")"
	}
}
