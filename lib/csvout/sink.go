package csvout

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// SinkError wraps any failure to open, write or finalize the output file.
type SinkError struct {
	Op   string
	Path string
	Err  error
}

func (e *SinkError) Error() string {
	return fmt.Sprintf("sink %s %s: %s", e.Op, e.Path, e.Err)
}

func (e *SinkError) Unwrap() error {
	return e.Err
}

// FileSink stages output in a temporary file next to its destination and
// only moves it into place on Commit, so a failed run never leaves a
// partial file at Path.
type FileSink struct {
	Path string

	file      *os.File
	committed bool
	closed    bool
}

func CreateFile(path string) (*FileSink, error) {
	dir := filepath.Dir(path)
	file, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.partial")
	if err != nil {
		return nil, &SinkError{Op: "open", Path: path, Err: err}
	}
	return &FileSink{Path: path, file: file}, nil
}

func (s *FileSink) Write(p []byte) (int, error) {
	n, err := s.file.Write(p)
	if err != nil {
		return n, &SinkError{Op: "write", Path: s.Path, Err: err}
	}
	return n, nil
}

// Commit syncs and closes the staged file and renames it to Path.
func (s *FileSink) Commit() error {
	if s.closed {
		return &SinkError{Op: "commit", Path: s.Path, Err: os.ErrClosed}
	}
	s.closed = true

	err := s.file.Sync()
	if err != nil {
		closeErr := s.file.Close()
		os.Remove(s.file.Name())
		return &SinkError{Op: "sync", Path: s.Path, Err: errors.Join(err, closeErr)}
	}
	err = s.file.Close()
	if err != nil {
		os.Remove(s.file.Name())
		return &SinkError{Op: "close", Path: s.Path, Err: err}
	}
	err = os.Rename(s.file.Name(), s.Path)
	if err != nil {
		os.Remove(s.file.Name())
		return &SinkError{Op: "rename", Path: s.Path, Err: err}
	}

	s.committed = true
	return nil
}

// Close discards the staged file unless it was committed. It is safe to
// call more than once and after Commit.
func (s *FileSink) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true

	err := s.file.Close()
	removeErr := os.Remove(s.file.Name())
	if removeErr != nil && !os.IsNotExist(removeErr) {
		err = errors.Join(err, removeErr)
	}
	if err != nil {
		return &SinkError{Op: "discard", Path: s.Path, Err: err}
	}
	return nil
}

// WriteFile writes header and rows to path, all or nothing.
func WriteFile(path string, header []string, rows [][]string) error {
	sink, err := CreateFile(path)
	if err != nil {
		return err
	}
	defer sink.Close()

	err = Encode(sink, header, rows)
	if err != nil {
		var sinkErr *SinkError
		if errors.As(err, &sinkErr) {
			return sinkErr
		}
		return &SinkError{Op: "write", Path: path, Err: err}
	}
	return sink.Commit()
}
