package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
)

// ErrHTMLConversion indicates HTML conversion failed.
var ErrHTMLConversion = errors.New("HTML conversion failed")

// Document shell around the rendered body. Chrome needs the charset for
// non-ASCII uploads.
const (
	documentHead = "<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n<title>Document</title>\n</head>\n<body>\n"
	documentTail = "\n</body>\n</html>"
)

// HTMLConverter abstracts Markdown to HTML conversion.
type HTMLConverter interface {
	ToHTML(ctx context.Context, content string) (string, error)
}

// GoldmarkConverter renders GitHub-flavored Markdown with goldmark.
type GoldmarkConverter struct {
	md goldmark.Markdown
}

// NewGoldmarkConverter creates a GoldmarkConverter with GFM, footnotes and
// class-based code highlighting. Raw HTML passes through: title pages and
// page-break markers are HTML blocks.
func NewGoldmarkConverter() *GoldmarkConverter {
	return &GoldmarkConverter{md: goldmark.New(
		goldmark.WithExtensions(extension.GFM, extension.Footnote, codeHighlighting()),
		goldmark.WithParserOptions(parser.WithAutoHeadingID()),
		goldmark.WithRendererOptions(html.WithHardWraps(), html.WithXHTML(), html.WithUnsafe()),
	)}
}

// codeHighlighting tags tokens with chroma class names; colors live in
// the theme.
func codeHighlighting() goldmark.Extender {
	return highlighting.NewHighlighting(
		highlighting.WithFormatOptions(chromahtml.WithClasses(true)),
	)
}

// ToHTML converts Markdown content to a standalone HTML5 document whose
// heading IDs match BuildTOC anchors. Goldmark has no context support, so
// rendering runs in a goroutine and the caller stops waiting on ctx.
func (c *GoldmarkConverter) ToHTML(ctx context.Context, content string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	type rendered struct {
		doc string
		err error
	}
	done := make(chan rendered, 1)
	go func() {
		doc, err := c.render([]byte(content))
		done <- rendered{doc, err}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case r := <-done:
		return r.doc, r.err
	}
}

func (c *GoldmarkConverter) render(src []byte) (string, error) {
	var body bytes.Buffer
	pctx := parser.NewContext(parser.WithIDs(slugIDs{}))
	if err := c.md.Convert(src, &body, parser.WithContext(pctx)); err != nil {
		return "", fmt.Errorf("%w: %v", ErrHTMLConversion, err)
	}

	var doc strings.Builder
	doc.Grow(len(documentHead) + body.Len() + len(documentTail))
	doc.WriteString(documentHead)
	doc.Write(body.Bytes())
	doc.WriteString(documentTail)
	return doc.String(), nil
}

// slugIDs generates heading IDs with Slugify and never deduplicates, matching
// the anchors BuildTOC writes.
type slugIDs struct{}

func (slugIDs) Generate(value []byte, _ ast.NodeKind) []byte {
	return []byte(Slugify(string(value)))
}

func (slugIDs) Put([]byte) {}

var _ parser.IDs = slugIDs{}
