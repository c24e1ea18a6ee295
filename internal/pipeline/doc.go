// Package pipeline implements the document stages that run before PDF rendering.
//
// Markdown-level stages work on source text and return new text, never
// touching the caller's copy:
//   - heading extraction and slug generation
//   - table of contents generation
//   - title page generation
//   - line ending normalization
//
// HTML-level stages work on rendered output:
//   - Markdown to HTML conversion via Goldmark
//   - CSS injection
//   - local image inlining for documents converted from disk
//   - header and footer templates for Chrome's print margins
//
// PDF generation is handled separately by the root md2pdf package using
// headless Chrome (go-rod).
package pipeline
