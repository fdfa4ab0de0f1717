// Package storage provides line-oriented file persistence and user configuration.
package storage

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrClosed is returned by every File operation after Close.
var ErrClosed = errors.New("storage file is closed")

// File is a flat file holding one record per line.
// It keeps a buffered append handle open for the life of the session; every
// write is flushed before the call returns.
type File struct {
	path   string
	handle *os.File
	w      *bufio.Writer
}

// OpenFile opens the record file at path, creating its directory and the file
// itself if they do not exist.
func OpenFile(path string) (*File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory for %s: %w", path, err)
	}

	f := &File{path: path}
	if err := f.openAppend(); err != nil {
		return nil, err
	}
	return f, nil
}

func (f *File) openAppend() error {
	h, err := os.OpenFile(f.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", f.path, err)
	}
	f.handle = h
	f.w = bufio.NewWriter(h)
	return nil
}

// Path returns the location of the backing file.
func (f *File) Path() string {
	return f.path
}

// ReadLines returns every non-blank line of the file, in order.
func (f *File) ReadLines() ([]string, error) {
	if f.handle == nil {
		return nil, ErrClosed
	}
	data, err := os.ReadFile(f.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", f.path, err)
	}

	var lines []string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, line)
	}
	return lines, nil
}

// AppendLine adds one line to the end of the file.
func (f *File) AppendLine(line string) error {
	if f.handle == nil {
		return ErrClosed
	}
	if _, err := f.w.WriteString(line + "\n"); err != nil {
		return fmt.Errorf("failed to append to %s: %w", f.path, err)
	}
	if err := f.w.Flush(); err != nil {
		return fmt.Errorf("failed to flush %s: %w", f.path, err)
	}
	return nil
}

// RewriteLines replaces the file contents with lines.
// The new contents are written to a temporary sibling and renamed into place, so
// a failed rewrite leaves the previous file intact.
func (f *File) RewriteLines(lines []string) error {
	if f.handle == nil {
		return ErrClosed
	}

	tmp, err := os.CreateTemp(filepath.Dir(f.path), filepath.Base(f.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file for %s: %w", f.path, err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	w := bufio.NewWriter(tmp)
	for _, line := range lines {
		if _, err := w.WriteString(line + "\n"); err != nil {
			tmp.Close()
			return fmt.Errorf("failed to write temp file for %s: %w", f.path, err)
		}
	}
	if err := w.Flush(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to flush temp file for %s: %w", f.path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file for %s: %w", f.path, err)
	}

	// Release the append handle before swapping the file underneath it.
	if err := f.release(); err != nil {
		if reopenErr := f.openAppend(); reopenErr != nil {
			return errors.Join(err, reopenErr)
		}
		return err
	}
	if err := os.Rename(tmpPath, f.path); err != nil {
		if reopenErr := f.openAppend(); reopenErr != nil {
			return errors.Join(fmt.Errorf("failed to replace %s: %w", f.path, err), reopenErr)
		}
		return fmt.Errorf("failed to replace %s: %w", f.path, err)
	}
	return f.openAppend()
}

// Close flushes pending writes and releases the file handle.
// It must be called once; later calls return ErrClosed.
func (f *File) Close() error {
	if f.handle == nil {
		return ErrClosed
	}
	return f.release()
}

func (f *File) release() error {
	flushErr := f.w.Flush()
	closeErr := f.handle.Close()
	f.handle = nil
	f.w = nil
	if flushErr != nil {
		return fmt.Errorf("failed to flush %s: %w", f.path, flushErr)
	}
	if closeErr != nil {
		return fmt.Errorf("failed to close %s: %w", f.path, closeErr)
	}
	return nil
}
