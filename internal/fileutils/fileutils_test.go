package fileutils_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fjacquet/pain001/internal/fileutils"
)

func TestFileExists(t *testing.T) {
	tmpDir := t.TempDir()

	testFile := filepath.Join(tmpDir, "test.txt")
	require.NoError(t, os.WriteFile(testFile, []byte("test"), 0600))

	assert.True(t, fileutils.FileExists(testFile))
	assert.False(t, fileutils.FileExists(filepath.Join(tmpDir, "nonexistent.txt")))
	assert.False(t, fileutils.FileExists(tmpDir))
}

func TestDirectoryExists(t *testing.T) {
	tmpDir := t.TempDir()

	assert.True(t, fileutils.DirectoryExists(tmpDir))
	assert.False(t, fileutils.DirectoryExists(filepath.Join(tmpDir, "nonexistent")))

	testFile := filepath.Join(tmpDir, "test.txt")
	require.NoError(t, os.WriteFile(testFile, []byte("test"), 0600))
	assert.False(t, fileutils.DirectoryExists(testFile))
}

func TestEnsureDirectoryExists(t *testing.T) {
	newDir := filepath.Join(t.TempDir(), "new", "nested", "dir")

	require.NoError(t, fileutils.EnsureDirectoryExists(newDir))
	assert.True(t, fileutils.DirectoryExists(newDir))

	// existing directory is fine
	assert.NoError(t, fileutils.EnsureDirectoryExists(newDir))
}

func TestReadFile(t *testing.T) {
	tmpDir := t.TempDir()
	testFile := filepath.Join(tmpDir, "test.txt")
	require.NoError(t, os.WriteFile(testFile, []byte("content"), 0600))

	data, err := fileutils.ReadFile(testFile)
	require.NoError(t, err)
	assert.Equal(t, "content", string(data))

	_, err = fileutils.ReadFile(filepath.Join(tmpDir, "missing.txt"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "file does not exist")
}

func TestOpenFile(t *testing.T) {
	tmpDir := t.TempDir()
	testFile := filepath.Join(tmpDir, "test.txt")
	require.NoError(t, os.WriteFile(testFile, []byte("content"), 0600))

	f, err := fileutils.OpenFile(testFile)
	require.NoError(t, err)
	assert.NoError(t, f.Close())

	_, err = fileutils.OpenFile(tmpDir)
	assert.Error(t, err)
}

func TestWriteFileAtomic(t *testing.T) {
	tmpDir := t.TempDir()
	target := filepath.Join(tmpDir, "out", "pain.xml")

	require.NoError(t, fileutils.WriteFileAtomic(target, []byte("<Document/>")))
	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, "<Document/>", string(data))

	info, err := os.Stat(target)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0644), info.Mode().Perm())

	// overwrite leaves no temporary files behind
	require.NoError(t, fileutils.WriteFileAtomic(target, []byte("<Document></Document>")))
	entries, err := os.ReadDir(filepath.Dir(target))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestWriteOutput(t *testing.T) {
	var stdout bytes.Buffer
	require.NoError(t, fileutils.WriteOutput(fileutils.Stdio, []byte("xml"), &stdout))
	assert.Equal(t, "xml", stdout.String())

	target := filepath.Join(t.TempDir(), "pain.xml")
	stdout.Reset()
	require.NoError(t, fileutils.WriteOutput(target, []byte("xml"), &stdout))
	assert.Empty(t, stdout.String())
	assert.True(t, fileutils.FileExists(target))
}

func TestReplaceExtension(t *testing.T) {
	tests := []struct {
		path string
		ext  string
		want string
	}{
		{"payments.yaml", ".xml", "payments.xml"},
		{"dir/payments.csv", "xml", "dir/payments.xml"},
		{"payments", ".xml", "payments.xml"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, fileutils.ReplaceExtension(tt.path, tt.ext))
		})
	}
}
