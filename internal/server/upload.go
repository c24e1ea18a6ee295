package server

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"

	"github.com/eckman-tech/md2pdf-server/internal/fileutil"
)

// UploadedAsset is a client file saved to disk for one request.
type UploadedAsset struct {
	Path     string // on disk, inside the request scope
	Filename string // as sent by the client
	Size     int64
}

// Scope owns the files of one request. Everything saved through it lives in
// a single directory removed by Release.
type Scope struct {
	dir     string
	maxSize int64

	mu       sync.Mutex
	released bool
}

// NewScope creates a fresh directory under root for one request.
func NewScope(root string, maxSize int64) (*Scope, error) {
	if err := os.MkdirAll(root, 0o750); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrScopeCreate, err)
	}
	dir := filepath.Join(root, fileutil.TempPrefix+uuid.NewString())
	if err := os.Mkdir(dir, 0o700); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrScopeCreate, err)
	}
	return &Scope{dir: dir, maxSize: maxSize}, nil
}

// Dir returns the scope directory.
func (s *Scope) Dir() string {
	return s.dir
}

// Save copies an uploaded file into the scope as name plus the client's
// extension, so image MIME types can be inferred from the file name.
// Files larger than the scope limit are rejected with ErrFileTooLarge.
func (s *Scope) Save(name string, fh *multipart.FileHeader) (*UploadedAsset, error) {
	s.mu.Lock()
	released := s.released
	s.mu.Unlock()
	if released {
		return nil, ErrScopeReleased
	}

	if fh.Size > s.maxSize {
		return nil, fmt.Errorf("%w: %s is %d bytes (max %d)", ErrFileTooLarge, fh.Filename, fh.Size, s.maxSize)
	}

	filename := name
	if ext := fileutil.SafeExtension(fh.Filename); ext != "" {
		filename += "." + ext
	}
	path := filepath.Join(s.dir, filename)

	src, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUploadSave, err)
	}
	defer src.Close()

	dst, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600) // #nosec G304 -- name is fixed by the server
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUploadSave, err)
	}

	n, err := io.Copy(dst, io.LimitReader(src, s.maxSize+1))
	closeErr := dst.Close()
	if err = errors.Join(err, closeErr); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUploadSave, err)
	}
	if n > s.maxSize {
		return nil, fmt.Errorf("%w: %s exceeds %d bytes", ErrFileTooLarge, fh.Filename, s.maxSize)
	}

	return &UploadedAsset{Path: path, Filename: fh.Filename, Size: n}, nil
}

// Release removes the scope directory and everything in it. Safe to call
// more than once.
func (s *Scope) Release() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.released {
		return nil
	}
	s.released = true
	return os.RemoveAll(s.dir)
}
