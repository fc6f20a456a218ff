package wfile

import "errors"

var (
	// ErrEmptyPath 表示必需的路径参数为空。
	ErrEmptyPath = errors.New("wfile: path is required")

	// ErrInvalidPath 表示路径格式无效（如显式目录路径）。
	ErrInvalidPath = errors.New("wfile: invalid path")

	// ErrPathTraversal 表示检测到相对路径穿越（".." 路径段）。
	ErrPathTraversal = errors.New("wfile: path traversal detected")

	// ErrNullByte 表示路径中包含空字节（\x00）。
	ErrNullByte = errors.New("wfile: path contains null byte")

	// ErrNameTooLong 表示文件名超出 255 字节的文件系统上限。
	ErrNameTooLong = errors.New("wfile: file name too long")

	// ErrInvalidPerm 表示目录权限无效（缺少所有者执行位，目录无法遍历）。
	ErrInvalidPerm = errors.New("wfile: invalid directory permission")
)
