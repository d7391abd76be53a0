package runner

import (
	"io/fs"
	"os"
)

// OSFileSystem is the production Source and Sink, reading and writing the
// local filesystem. Writes preserve the file's existing permissions.
type OSFileSystem struct{}

func (OSFileSystem) Read(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func (OSFileSystem) Write(path string, content string) error {
	mode := fs.FileMode(0644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}
	return os.WriteFile(path, []byte(content), mode)
}
