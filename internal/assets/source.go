package assets

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
)

// Source loads a named asset of the given kind.
type Source interface {
	Load(kind Kind, name string) (string, error)
}

// FSSource reads assets from a file system laid out as styles/ and
// templates/.
type FSSource struct {
	fsys   fs.FS
	origin string // for error messages
}

// NewFSSource wraps fsys. origin names it in errors.
func NewFSSource(fsys fs.FS, origin string) *FSSource {
	return &FSSource{fsys: fsys, origin: origin}
}

// Load reads kind/name. Missing files return ErrNotFound; anything else
// that fails, including reads escaping an os.Root, returns ErrAssetRead.
func (s *FSSource) Load(kind Kind, name string) (string, error) {
	if err := validateName(name); err != nil {
		return "", err
	}

	data, err := fs.ReadFile(s.fsys, kind.file(name))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%w: %s %q in %s", ErrNotFound, kind, name, s.origin)
		}
		return "", fmt.Errorf("%w: %s %q in %s: %v", ErrAssetRead, kind, name, s.origin, err)
	}
	return string(data), nil
}

// Layered tries each source in order, moving on only when an asset is
// missing. Validation and read errors stop the lookup.
type Layered []Source

// Load returns the first source's copy of kind/name.
func (l Layered) Load(kind Kind, name string) (string, error) {
	err := fmt.Errorf("%w: %s %q", ErrNotFound, kind, name)
	for _, src := range l {
		var content string
		content, err = src.Load(kind, name)
		if err == nil || !errors.Is(err, ErrNotFound) {
			return content, err
		}
	}
	return "", err
}

// validateName rejects empty names and anything that could select another
// file: separators and dots.
func validateName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidName)
	}
	if strings.ContainsAny(name, "/\\.") {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return nil
}

var (
	_ Source = (*FSSource)(nil)
	_ Source = Layered(nil)
)
