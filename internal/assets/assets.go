package assets

import (
	"embed"
	"fmt"
	"os"
)

//go:embed styles templates
var embedded embed.FS

// Kind is an asset family; its value is the directory holding it.
type Kind string

// Asset kinds.
const (
	Style    Kind = "styles"
	Template Kind = "templates"
)

// file returns the slash-separated path of name within a source.
func (k Kind) file(name string) string {
	ext := ".html"
	if k == Style {
		ext = ".css"
	}
	return string(k) + "/" + name + ext
}

// Names of the assets the converter requires.
const (
	ThemeStyleName     = "theme"
	HeaderTemplateName = "header"
	FooterTemplateName = "footer"
)

// Embedded returns the assets compiled into the binary.
func Embedded() *FSSource {
	return NewFSSource(embedded, "embedded assets")
}

// Bundle is the set of assets one converter renders with.
type Bundle struct {
	Theme  string // CSS
	Header string // html/template source
	Footer string // html/template source
}

// LoadBundle loads the theme and header/footer templates. Files present
// in overrideDir replace the embedded ones; an empty overrideDir uses the
// embedded set only.
func LoadBundle(overrideDir string) (*Bundle, error) {
	sources := Layered{Embedded()}

	if overrideDir != "" {
		root, err := os.OpenRoot(overrideDir)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidDir, err)
		}
		defer root.Close()
		sources = Layered{NewFSSource(root.FS(), overrideDir), Embedded()}
	}

	return loadBundle(sources)
}

func loadBundle(src Source) (*Bundle, error) {
	var (
		b   Bundle
		err error
	)
	if b.Theme, err = src.Load(Style, ThemeStyleName); err != nil {
		return nil, err
	}
	if b.Header, err = src.Load(Template, HeaderTemplateName); err != nil {
		return nil, err
	}
	if b.Footer, err = src.Load(Template, FooterTemplateName); err != nil {
		return nil, err
	}
	return &b, nil
}
