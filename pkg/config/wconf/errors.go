package wconf

import "errors"

// 配置摄取与校验相关错误。
var (
	// ErrEmptyPath 表示配置文件路径为空。
	ErrEmptyPath = errors.New("wconf: empty config path")

	// ErrUnsupportedFormat 表示不支持的配置格式。
	ErrUnsupportedFormat = errors.New("wconf: unsupported config format")

	// ErrLoadFailed 表示配置加载失败。
	ErrLoadFailed = errors.New("wconf: failed to load config")

	// ErrParseFailed 表示配置解析失败。
	ErrParseFailed = errors.New("wconf: failed to parse config")

	// ErrUnmarshalFailed 表示配置反序列化失败（含未知键）。
	ErrUnmarshalFailed = errors.New("wconf: failed to unmarshal config")

	// ErrNoFilePaths 表示目标文件路径列表为空。
	ErrNoFilePaths = errors.New("wconf: file_paths must not be empty")

	// ErrInvalidFilePath 表示某个目标文件路径无效。
	ErrInvalidFilePath = errors.New("wconf: invalid file path")

	// ErrPathIsDirectory 表示目标路径指向已存在的目录。
	ErrPathIsDirectory = errors.New("wconf: file path points to a directory")

	// ErrInvalidWriteMode 表示写入模式不在允许的枚举内。
	ErrInvalidWriteMode = errors.New("wconf: invalid write_mode")

	// ErrNegativeValue 表示数值字段为负。
	ErrNegativeValue = errors.New("wconf: numeric settings must be non-negative")
)
