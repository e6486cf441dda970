package validation

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)
	cwd, err := os.Getwd()
	require.NoError(t, err)

	tests := []struct {
		name        string
		input       string
		expected    string
		expectError bool
	}{
		{name: "tilde expansion", input: "~/.sptui/token.db", expected: filepath.Join(home, ".sptui", "token.db")},
		{name: "absolute path unchanged", input: "/tmp/token.db", expected: "/tmp/token.db"},
		{name: "relative path made absolute", input: "token.db", expected: filepath.Join(cwd, "token.db")},
		{name: "redundant elements cleaned", input: "/tmp//a/../token.db", expected: "/tmp/token.db"},
		{name: "empty path", input: "", expectError: true},
		{name: "null byte", input: "/tmp/tok\x00en.db", expectError: true},
		{name: "control character", input: "/tmp/tok\nen.db", expectError: true},
		{name: "bare tilde user", input: "~other/token.db", expectError: true},
		{name: "too long", input: "/" + strings.Repeat("a", MaxPathLength), expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExpandPath(tt.input)
			if tt.expectError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestEnsureParentDir(t *testing.T) {
	dir := t.TempDir()

	t.Run("creates missing parent", func(t *testing.T) {
		target := filepath.Join(dir, "nested", "deeper", "token.db")
		got, err := EnsureParentDir(target)
		require.NoError(t, err)
		assert.Equal(t, target, got)

		info, err := os.Stat(filepath.Dir(target))
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	})

	t.Run("rejects directory target", func(t *testing.T) {
		_, err := EnsureParentDir(dir)
		assert.Error(t, err)
	})

	t.Run("rejects file as parent", func(t *testing.T) {
		file := filepath.Join(dir, "plain")
		require.NoError(t, os.WriteFile(file, []byte("x"), 0o600))
		_, err := EnsureParentDir(filepath.Join(file, "token.db"))
		assert.Error(t, err)
	})
}
