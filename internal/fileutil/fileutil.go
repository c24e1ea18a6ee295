// Package fileutil provides temp file and path helpers shared by the
// converter, the upload scope and the doctor command.
package fileutil

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Sentinel errors for file utility operations.
var (
	ErrExtensionEmpty         = errors.New("extension cannot be empty")
	ErrExtensionPathTraversal = errors.New("extension contains path separator or null byte")
	ErrDirNotWritable         = errors.New("directory is not writable")
)

// TempPrefix prefixes every temp file and directory the service creates.
const TempPrefix = "md2pdf-"

// maxExtensionLength bounds extensions kept from client-supplied filenames.
const maxExtensionLength = 10

// WriteTempFile writes content to a new file in dir (os.TempDir when empty)
// named TempPrefix*.extension. The returned cleanup removes the file.
func WriteTempFile(dir, content, extension string) (path string, cleanup func(), err error) {
	if err := ValidateExtension(extension); err != nil {
		return "", nil, err
	}

	f, err := os.CreateTemp(dir, TempPrefix+"*."+extension)
	if err != nil {
		return "", nil, fmt.Errorf("creating temp file: %w", err)
	}

	path = f.Name()
	cleanup = func() { _ = os.Remove(path) }

	if _, err := f.WriteString(content); err != nil {
		_ = f.Close()
		cleanup()
		return "", nil, fmt.Errorf("writing temp file: %w", err)
	}
	if err := f.Close(); err != nil {
		cleanup()
		return "", nil, fmt.Errorf("closing temp file: %w", err)
	}

	return path, cleanup, nil
}

// WriteAtomic writes data to path through a temp file in the same
// directory, so a failed write never leaves a truncated file at path.
func WriteAtomic(path string, data []byte, perm os.FileMode) error {
	ext := SafeExtension(path)
	if ext == "" {
		ext = "tmp"
	}

	tmp, cleanup, err := WriteTempFile(filepath.Dir(path), string(data), ext)
	if err != nil {
		return err
	}
	if err := os.Chmod(tmp, perm); err != nil {
		cleanup()
		return fmt.Errorf("setting permissions: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		cleanup()
		return fmt.Errorf("replacing %s: %w", path, err)
	}
	return nil
}

// ValidateExtension checks that the extension is safe for use in temp file names.
func ValidateExtension(extension string) error {
	if extension == "" {
		return ErrExtensionEmpty
	}
	if strings.ContainsAny(extension, "/\\\x00") {
		return ErrExtensionPathTraversal
	}
	return nil
}

// SafeExtension returns the lowercased extension of a client-supplied
// filename without the dot, or "" when it is missing, too long or not
// purely alphanumeric.
func SafeExtension(filename string) string {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filepath.Base(filename)), "."))
	if ext == "" || len(ext) > maxExtensionLength {
		return ""
	}
	for _, r := range ext {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') {
			return ""
		}
	}
	return ext
}

// FileExists returns true if the path exists and is a regular file.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// CheckDirWritable creates dir if needed and verifies a file can be written in it.
func CheckDirWritable(dir string) error {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrDirNotWritable, dir, err)
	}
	f, err := os.CreateTemp(dir, TempPrefix+"probe-*")
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrDirNotWritable, dir, err)
	}
	name := f.Name()
	_ = f.Close()
	_ = os.Remove(name)
	return nil
}
