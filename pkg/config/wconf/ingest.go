package wconf

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
)

// Format 配置数据格式。
type Format string

const (
	// FormatJSON JSON 格式。
	FormatJSON Format = "json"

	// FormatYAML YAML 格式。
	FormatYAML Format = "yaml"
)

// delim koanf 键分隔符。Settings 的键都是扁平的，分隔符仅为满足 koanf 接口。
const delim = "."

// FromMap 从 Go map 摄取 Settings。
//
// 以 Default 为底座，仅覆盖 m 中出现的键；未知键返回 ErrUnmarshalFailed。
// 结果经 Validate 校验后返回。
func FromMap(m map[string]any) (Settings, error) {
	k := koanf.New(delim)
	if err := k.Load(confmap.Provider(m, delim), nil); err != nil {
		return Settings{}, fmt.Errorf("%w: %w", ErrParseFailed, err)
	}
	return fromKoanf(k)
}

// FromJSON 从 JSON 字节摄取 Settings，语义与 FromMap 一致。
func FromJSON(data []byte) (Settings, error) {
	return fromBytes(data, FormatJSON)
}

// FromYAML 从 YAML 字节摄取 Settings，语义与 FromMap 一致。
func FromYAML(data []byte) (Settings, error) {
	return fromBytes(data, FormatYAML)
}

// Load 从配置文件摄取 Settings，按扩展名识别格式。
//
// 支持 .json / .yaml / .yml，其余扩展名返回 ErrUnsupportedFormat。
func Load(path string) (Settings, error) {
	if path == "" {
		return Settings{}, ErrEmptyPath
	}
	format, err := detectFormat(path)
	if err != nil {
		return Settings{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Settings{}, fmt.Errorf("%w: %w", ErrLoadFailed, err)
	}
	return fromBytes(data, format)
}

// =============================================================================
// 内部辅助函数
// =============================================================================

// detectFormat 根据文件扩展名检测配置格式。
func detectFormat(path string) (Format, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("%w: unknown extension %q", ErrUnsupportedFormat, ext)
	}
}

// fromBytes 解析原始字节并摄取 Settings。
func fromBytes(data []byte, format Format) (Settings, error) {
	var parser koanf.Parser
	switch format {
	case FormatYAML:
		parser = yaml.Parser()
	case FormatJSON:
		parser = json.Parser()
	default:
		return Settings{}, ErrUnsupportedFormat
	}

	k := koanf.New(delim)
	if err := k.Load(rawbytes.Provider(data), parser); err != nil {
		return Settings{}, fmt.Errorf("%w: %w", ErrParseFailed, err)
	}
	return fromKoanf(k)
}

// fromKoanf 将 koanf 中的部分配置叠加到 Default 上并校验。
//
// 设计决策: 解码目标初始化为 Default()，借助 mapstructure 只覆盖出现的键
// 实现部分配置语义，避免单独维护一份默认值 map。ErrorUnused 拒绝未知键，
// 使拼写错误在摄取时即暴露而非静默回落默认值。
func fromKoanf(k *koanf.Koanf) (Settings, error) {
	s := Default()
	dc := &mapstructure.DecoderConfig{
		Result:      &s,
		TagName:     "koanf",
		ErrorUnused: true,
	}
	if err := k.UnmarshalWithConf("", &s, koanf.UnmarshalConf{DecoderConfig: dc}); err != nil {
		return Settings{}, fmt.Errorf("%w: %w", ErrUnmarshalFailed, err)
	}
	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}
