package wconf

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// FromMap 测试
// =============================================================================

func TestFromMap_PartialOverlay(t *testing.T) {
	t.Parallel()

	s, err := FromMap(map[string]any{
		"file_paths":  []string{"app.log"},
		"retry_limit": 7,
	})
	require.NoError(t, err)

	// 出现的键被覆盖
	assert.Equal(t, []string{"app.log"}, s.FilePaths)
	assert.Equal(t, 7, s.RetryLimit)
	// 未出现的键保持默认值
	assert.Equal(t, ModeAppend, s.WriteMode)
	assert.Equal(t, DefaultMaxRotation, s.MaxRotation)
	assert.True(t, s.FlushOnWrite)
}

func TestFromMap_UnknownKeyRejected(t *testing.T) {
	t.Parallel()

	_, err := FromMap(map[string]any{
		"file_paths":  []string{"app.log"},
		"retry_limif": 3, // 拼写错误
	})
	assert.ErrorIs(t, err, ErrUnmarshalFailed)
}

func TestFromMap_ValidationApplies(t *testing.T) {
	t.Parallel()

	_, err := FromMap(map[string]any{"retry_limit": 3})
	assert.ErrorIs(t, err, ErrNoFilePaths)

	_, err = FromMap(map[string]any{
		"file_paths": []string{"app.log"},
		"write_mode": "scribble",
	})
	assert.ErrorIs(t, err, ErrInvalidWriteMode)
}

// =============================================================================
// FromJSON / FromYAML 测试
// =============================================================================

func TestFromJSON(t *testing.T) {
	t.Parallel()

	data := []byte(`{
		"file_paths": ["a.log", "b.log"],
		"write_mode": "overwrite",
		"retry_delay": 0.5,
		"backoff_factor": 1.0,
		"max_file_size": 2048,
		"flush_on_write": false
	}`)

	s, err := FromJSON(data)
	require.NoError(t, err)
	assert.Equal(t, []string{"a.log", "b.log"}, s.FilePaths)
	assert.Equal(t, ModeOverwrite, s.WriteMode)
	assert.InDelta(t, 0.5, s.RetryDelay, 1e-9)
	assert.InDelta(t, 1.0, s.BackoffFactor, 1e-9)
	assert.Equal(t, int64(2048), s.MaxFileSize)
	assert.False(t, s.FlushOnWrite)
	// 未出现的键保持默认
	assert.Equal(t, DefaultRetryLimit, s.RetryLimit)
}

func TestFromJSON_Malformed(t *testing.T) {
	t.Parallel()

	_, err := FromJSON([]byte(`{"file_paths": [`))
	assert.ErrorIs(t, err, ErrParseFailed)
}

func TestFromYAML(t *testing.T) {
	t.Parallel()

	data := []byte(`
file_paths:
  - logs/app.log
retry_limit: 0
max_buffer_size: 0
max_rotation: 0
`)

	s, err := FromYAML(data)
	require.NoError(t, err)
	assert.Equal(t, []string{"logs/app.log"}, s.FilePaths)
	assert.Equal(t, 0, s.RetryLimit)
	assert.Equal(t, 0, s.MaxBufferSize)
	assert.Equal(t, 0, s.MaxRotation)
}

func TestFromYAML_Malformed(t *testing.T) {
	t.Parallel()

	_, err := FromYAML([]byte("file_paths: [a.log\n  bad"))
	assert.ErrorIs(t, err, ErrParseFailed)
}

// =============================================================================
// Load 测试
// =============================================================================

func TestLoad_JSONFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "writer.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"file_paths":["app.log"]}`), 0o600))

	s, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"app.log"}, s.FilePaths)
}

func TestLoad_YAMLFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "writer.yaml")
	require.NoError(t, os.WriteFile(path, []byte("file_paths: [app.log]\nretry_limit: 4\n"), 0o600))

	s, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 4, s.RetryLimit)
}

func TestLoad_Errors(t *testing.T) {
	t.Parallel()

	_, err := Load("")
	assert.ErrorIs(t, err, ErrEmptyPath)

	_, err = Load("writer.toml")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	_, err = Load(filepath.Join(t.TempDir(), "missing.json"))
	assert.ErrorIs(t, err, ErrLoadFailed)
}
