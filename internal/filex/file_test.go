package filex

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureDir_CreatesNested(t *testing.T) {
	tmp := t.TempDir()
	dir := filepath.Join(tmp, "cache", "files")

	require.NoError(t, EnsureDir(dir))

	fi, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, fi.IsDir())
}

func TestEnsureDir_ExistingIsFine(t *testing.T) {
	tmp := t.TempDir()
	require.NoError(t, EnsureDir(tmp))
}

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		in   string
		max  int
		want string
	}{
		{"report.pdf", 50, "report.pdf"},
		{"my file (1).zip", 50, "myfile1.zip"},
		{"../../etc/passwd", 50, "......etcpasswd"},
		{"видео.mp4", 50, ".mp4"},
		{"", 50, "file"},
		{"abcdefgh.bin", 4, "abcd"},
	}

	for _, tc := range tests {
		assert.Equal(t, tc.want, SanitizeName(tc.in, tc.max), "input %q", tc.in)
	}
}
