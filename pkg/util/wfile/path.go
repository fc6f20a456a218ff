package wfile

import (
	"fmt"
	"path/filepath"
	"strings"
)

// maxNameLen 单级文件名长度上限（字节）。
// 主流文件系统（ext4/xfs/apfs/ntfs）均为 255 字节。
const maxNameLen = 255

// containsNullByte 检测路径是否包含空字节。
func containsNullByte(path string) bool {
	return strings.ContainsRune(path, 0)
}

// hasDotDotSegment 检测路径中是否包含 ".." 作为独立路径段。
// 逐字符扫描实现零分配，'/' 与 '\' 均视为分隔符，
// 以便在 Linux 上也能识别 Windows 风格的穿越写法。
func hasDotDotSegment(path string) bool {
	i := 0
	for i < len(path) {
		if path[i] == '/' || path[i] == '\\' {
			i++
			continue
		}
		j := i
		for j < len(path) && path[j] != '/' && path[j] != '\\' {
			j++
		}
		if j-i == 2 && path[i] == '.' && path[i+1] == '.' {
			return true
		}
		i = j
	}
	return false
}

// SanitizePath 对目标文件路径做格式净化和规范化。
//
// 功能：
//   - filepath.Clean 规范化（消除 "." 与冗余斜杠）
//   - 拒绝空路径、空字节、相对路径穿越
//   - 拒绝显式目录路径（尾随 "/" 或 "\"）
//   - 拒绝超过 255 字节的单级文件名
//
// 本函数仅做格式净化，接受绝对路径；将路径限制在特定目录内
// 不属于本包职责，应由调用方的部署约定保证。
func SanitizePath(path string) (string, error) {
	if path == "" {
		return "", ErrEmptyPath
	}
	if containsNullByte(path) {
		return "", ErrNullByte
	}
	if strings.HasSuffix(path, "/") || strings.HasSuffix(path, "\\") {
		return "", fmt.Errorf("%w: trailing separator in %q", ErrInvalidPath, path)
	}
	if hasDotDotSegment(path) {
		return "", fmt.Errorf("%w: %q", ErrPathTraversal, path)
	}

	cleaned := filepath.Clean(path)
	if base := filepath.Base(cleaned); len(base) > maxNameLen {
		return "", fmt.Errorf("%w: %d bytes", ErrNameTooLong, len(base))
	}
	return cleaned, nil
}
