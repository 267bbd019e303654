package fetchtripper

import (
	"os"
	"time"
)

// createFile creates (or truncates) the file at path, wrapping any error
// as a FileCreate error.
func createFile(path string) (*os.File, error) {
	file, err := os.Create(path)
	if err != nil {
		return nil, &Error{Kind: ErrFileCreate, Path: path, Err: err}
	}
	return file, nil
}

// setFileTime applies t, truncated to whole seconds, as both mtime and
// atime of path.
func setFileTime(path string, t time.Time) error {
	t = t.Truncate(time.Second)
	if err := os.Chtimes(path, t, t); err != nil {
		return &Error{Kind: ErrFileTime, Path: path, Err: err}
	}
	return nil
}
