package wconf

import (
	"fmt"
	"os"
	"time"

	"github.com/omeyang/wkit/pkg/util/wfile"
)

// 默认值，与 Default 返回的 Settings 一致。
const (
	// DefaultRetryLimit 默认额外重试次数。
	DefaultRetryLimit = 2

	// DefaultRetryDelay 默认基础重试延迟（秒）。
	DefaultRetryDelay = 0.1

	// DefaultBackoffFactor 默认退避增长因子。
	DefaultBackoffFactor = 0.2

	// DefaultMaxFileSize 默认单文件大小上限（10 MiB）。
	DefaultMaxFileSize = 10 * 1024 * 1024

	// DefaultMaxRotation 默认保留的轮转文件数。
	DefaultMaxRotation = 5

	// DefaultMaxBufferSize 默认缓冲区阈值（1 MiB）。
	DefaultMaxBufferSize = 1024 * 1024
)

// Settings 写入引擎的完整配置。
//
// 字段标签使用 snake_case，与 JSON/YAML/字典配置的键名一致。
// 所有数值字段必须非负；零值的语义见各字段注释。
type Settings struct {
	// FilePaths 目标文件路径，按序展开，允许重复（各自独立处理）。
	FilePaths []string `koanf:"file_paths"`

	// WriteMode 写入模式，见 WriteMode 枚举。
	WriteMode WriteMode `koanf:"write_mode"`

	// RetryLimit 失败后的额外重试次数；0 表示单次尝试不重试。
	RetryLimit int `koanf:"retry_limit"`

	// RetryDelay 基础重试延迟，单位秒。
	RetryDelay float64 `koanf:"retry_delay"`

	// BackoffFactor 退避增长因子；第 n 次重试前等待
	// RetryDelay * (1+BackoffFactor)^(n-1) 秒。
	BackoffFactor float64 `koanf:"backoff_factor"`

	// MaxFileSize 单文件大小上限（字节）；0 关闭轮转。
	MaxFileSize int64 `koanf:"max_file_size"`

	// MaxRotation 保留的轮转文件数；0 表示无限保留（从不删除）。
	MaxRotation int `koanf:"max_rotation"`

	// MaxBufferSize 缓冲区阈值（字节）；0 表示不缓冲、立即写出。
	MaxBufferSize int `koanf:"max_buffer_size"`

	// FlushOnWrite 每次写入后是否执行 OS 级刷盘。
	FlushOnWrite bool `koanf:"flush_on_write"`
}

// Default 返回缺省 Settings（不含 FilePaths，路径必须显式给出）。
func Default() Settings {
	return Settings{
		WriteMode:     ModeAppend,
		RetryLimit:    DefaultRetryLimit,
		RetryDelay:    DefaultRetryDelay,
		BackoffFactor: DefaultBackoffFactor,
		MaxFileSize:   DefaultMaxFileSize,
		MaxRotation:   DefaultMaxRotation,
		MaxBufferSize: DefaultMaxBufferSize,
		FlushOnWrite:  true,
	}
}

// Validate 校验 Settings。
//
// 校验失败返回可用 errors.Is 判断的 sentinel 错误；Settings 本身不被修改。
func (s Settings) Validate() error {
	if len(s.FilePaths) == 0 {
		return ErrNoFilePaths
	}
	for _, p := range s.FilePaths {
		cleaned, err := wfile.SanitizePath(p)
		if err != nil {
			return fmt.Errorf("%w: %q: %w", ErrInvalidFilePath, p, err)
		}
		if info, statErr := os.Stat(cleaned); statErr == nil && info.IsDir() {
			return fmt.Errorf("%w: %q", ErrPathIsDirectory, p)
		}
	}
	if !s.WriteMode.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidWriteMode, s.WriteMode)
	}
	if s.RetryLimit < 0 || s.RetryDelay < 0 || s.BackoffFactor < 0 ||
		s.MaxFileSize < 0 || s.MaxRotation < 0 || s.MaxBufferSize < 0 {
		return ErrNegativeValue
	}
	return nil
}

// RetryDelayDuration 将基础重试延迟（秒）转换为 time.Duration。
func (s Settings) RetryDelayDuration() time.Duration {
	return time.Duration(s.RetryDelay * float64(time.Second))
}

// Clone 返回深拷贝，调用方可安全持有而不受后续配置替换影响。
func (s Settings) Clone() Settings {
	out := s
	out.FilePaths = append([]string(nil), s.FilePaths...)
	return out
}
