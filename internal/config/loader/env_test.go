package loader

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvLoader_Load(t *testing.T) {
	l := NewEnvLoaderWithEnviron(DefaultEnvPrefix, []string{
		"INKWELL_EDITOR_WRAP_WIDTH=72",
		"INKWELL_EDITOR_REVEAL=yes",
		"INKWELL_EDITOR_PAGE_FRACTION=0.5",
		"INKWELL_LOG_MAX_SIZE_MB=20",
		"INKWELL_LOG_FILE=/tmp/inkwell.log",
		"INKWELL_THEME_PATH=",
		"INKWELL_NOSECTION=1",
		"HOME=/home/someone",
		"malformed",
	})

	m, err := l.Load()
	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"editor": map[string]any{
			"wrap_width":    int64(72),
			"reveal":        true,
			"page_fraction": 0.5,
		},
		"log": map[string]any{
			"max_size_mb": int64(20),
			"file":        "/tmp/inkwell.log",
		},
		"theme": map[string]any{
			"path": "",
		},
	}, m)
}

func TestParseValue(t *testing.T) {
	tests := []struct {
		in   string
		want any
	}{
		{"true", true},
		{"Off", false},
		{"42", int64(42)},
		{"-3", int64(-3)},
		{"1.25", 1.25},
		{"1.2.3", "1.2.3"},
		{"hello", "hello"},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, parseValue(tt.in))
		})
	}
}

func TestLoadDotenv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("INKWELL_TEST_DOTENV=from-file\n"), 0o644))

	t.Setenv("INKWELL_TEST_DOTENV_KEEP", "process")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "keep.env"), []byte("INKWELL_TEST_DOTENV_KEEP=file\n"), 0o644))

	require.NoError(t, LoadDotenv(filepath.Join(dir, "missing.env"), path, filepath.Join(dir, "keep.env")))
	t.Cleanup(func() { os.Unsetenv("INKWELL_TEST_DOTENV") })

	assert.Equal(t, "from-file", os.Getenv("INKWELL_TEST_DOTENV"))
	assert.Equal(t, "process", os.Getenv("INKWELL_TEST_DOTENV_KEEP"))
}
