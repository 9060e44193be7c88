package report

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateReportData_CallsLogFn(t *testing.T) {
	var logged []string

	data := GenerateReportData("Result: 3", func(s string) { logged = append(logged, s) })

	assert.Equal(t, "Result: 3\n", data)
	assert.Equal(t, []string{"Result: 3\n"}, logged)
}

func TestGenerateReportData_NilLogFn(t *testing.T) {
	assert.Equal(t, "Result: 3\n", GenerateReportData("Result: 3\n\n", nil))
}

// spyFS records calls instead of touching the disk.
type spyFS struct {
	cwd      string
	cwdErr   error
	dirs     []string
	files    map[string]string
	writeErr error
}

func (s *spyFS) Getwd() (string, error) {
	if s.cwd == "" && s.cwdErr == nil {
		return "/work", nil
	}
	return s.cwd, s.cwdErr
}

func (s *spyFS) MkdirAll(path string, _ os.FileMode) error {
	s.dirs = append(s.dirs, path)
	return nil
}

func (s *spyFS) WriteFile(name string, data []byte, _ os.FileMode) error {
	if s.writeErr != nil {
		return s.writeErr
	}
	if s.files == nil {
		s.files = map[string]string{}
	}
	s.files[name] = string(data)
	return nil
}

func TestWriteData(t *testing.T) {
	cwd := filepath.FromSlash("/srv/forms")
	fsys := &spyFS{cwd: cwd}

	path, err := WriteData(fsys, "test", "text.txt")
	require.NoError(t, err)

	want := filepath.Join(cwd, "data", "text.txt")
	assert.Equal(t, want, path)
	assert.Equal(t, []string{filepath.Join(cwd, "data")}, fsys.dirs)
	assert.Equal(t, map[string]string{want: "test"}, fsys.files)
}

func TestWriteData_RejectsPaths(t *testing.T) {
	for _, name := range []string{"", ".", "..", "../escape.txt", "sub/file.txt"} {
		t.Run(name, func(t *testing.T) {
			fsys := &spyFS{}

			_, err := WriteData(fsys, "test", name)

			assert.Error(t, err)
			assert.Empty(t, fsys.files)
		})
	}
}

func TestWriteData_WriteError(t *testing.T) {
	boom := errors.New("disk full")

	_, err := WriteData(&spyFS{writeErr: boom}, "test", "text.txt")

	assert.ErrorIs(t, err, boom)
}

func TestWriteData_WorkingDirError(t *testing.T) {
	gone := errors.New("cwd removed")
	fsys := &spyFS{cwdErr: gone}

	_, err := WriteData(fsys, "test", "text.txt")

	assert.ErrorIs(t, err, gone)
	assert.Empty(t, fsys.dirs)
}

func TestWriteData_OSFileSystem(t *testing.T) {
	t.Chdir(t.TempDir())

	path, err := WriteData(OSFileSystem{}, "Result: 3\n", "report.txt")
	require.NoError(t, err)

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Result: 3\n", string(got))
}
