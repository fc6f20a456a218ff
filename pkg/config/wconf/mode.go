package wconf

import "os"

// WriteMode 文件写入模式。
//
// 与外部配置的 write_mode 键一一对应。read / read_write 是透传模式，
// 保留给以读为主的调用方打开同一目标文件，写入引擎本身只使用
// append 和 overwrite。
type WriteMode string

const (
	// ModeAppend 追加写入，文件不存在时创建。
	ModeAppend WriteMode = "append"

	// ModeOverwrite 截断后写入，文件不存在时创建。
	ModeOverwrite WriteMode = "overwrite"

	// ModeRead 只读打开。
	ModeRead WriteMode = "read"

	// ModeReadWrite 读写打开，文件不存在时创建。
	ModeReadWrite WriteMode = "read_write"
)

// Valid 检查写入模式是否在允许的枚举内。
func (m WriteMode) Valid() bool {
	switch m {
	case ModeAppend, ModeOverwrite, ModeRead, ModeReadWrite:
		return true
	default:
		return false
	}
}

// OpenFlag 返回传给 os.OpenFile 的标志位。
//
// 未知模式按 ModeAppend 处理；调用方应先经 Valid/Validate 拦截。
func (m WriteMode) OpenFlag() int {
	switch m {
	case ModeOverwrite:
		return os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	case ModeRead:
		return os.O_RDONLY
	case ModeReadWrite:
		return os.O_RDWR | os.O_CREATE
	default:
		return os.O_WRONLY | os.O_CREATE | os.O_APPEND
	}
}

// Writable 返回该模式打开的文件是否可写。
func (m WriteMode) Writable() bool {
	return m != ModeRead
}
