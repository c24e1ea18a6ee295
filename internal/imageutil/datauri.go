// Package imageutil embeds image files into HTML as base64 data URIs.
package imageutil

import (
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// ErrImageRead indicates an image file could not be read from disk.
var ErrImageRead = errors.New("failed to read image")

// MaxImageSize caps how much of an image is inlined into a document.
var MaxImageSize int64 = 10 << 20

// subtypeAliases maps extensions whose MIME subtype differs from the extension.
var subtypeAliases = map[string]string{
	"svg": "svg+xml",
	"ico": "x-icon",
}

// DataURI reads the image at path and returns it as a data URI.
// The MIME subtype comes from the file extension; when the file has none,
// the content is sniffed instead.
func DataURI(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrImageRead, err)
	}
	if info.Size() > MaxImageSize {
		return "", fmt.Errorf("%w: %s is %d bytes (max %d)", ErrImageRead, filepath.Base(path), info.Size(), MaxImageSize)
	}

	data, err := os.ReadFile(path) // #nosec G304 -- path comes from the request upload scope
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrImageRead, err)
	}

	return "data:image/" + Subtype(path, data) + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}

// Subtype returns the image MIME subtype for a file ("png", "jpeg", "svg+xml").
func Subtype(path string, data []byte) string {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	if ext != "" {
		if alias, ok := subtypeAliases[ext]; ok {
			return alias
		}
		return ext
	}

	mt := mimetype.Detect(data)
	if sub, ok := strings.CutPrefix(mt.String(), "image/"); ok {
		return sub
	}
	// Not recognizably an image; keep the extension rule's empty subtype.
	return ""
}
