package server

import (
	"fmt"
	"mime/multipart"
	"os"

	md2pdf "github.com/eckman-tech/md2pdf-server"
)

// Multipart field names accepted by POST /convert.
const (
	fieldMarkdown          = "markdown"
	fieldLogo              = "logo"
	fieldCustomerLogo      = "customerLogo"
	fieldCustomerName      = "customerName"
	fieldDocTitle          = "docTitle"
	fieldPageBreakSections = "pageBreakSections"
	fieldGenerateTOC       = "generateTOC"
	fieldShowHeaderFooter  = "showHeaderFooter"
	fieldGenerateTitlePage = "generateTitlePage"
)

// ConversionRequest is the parsed form of POST /convert.
type ConversionRequest struct {
	Markdown     *multipart.FileHeader // required
	Logo         *multipart.FileHeader // page header logo
	CustomerLogo *multipart.FileHeader // title page logo

	CustomerName string
	DocTitle     string

	PageBreakSections bool
	GenerateTOC       bool
	ShowHeaderFooter  bool
	GenerateTitlePage bool
}

// parseConversionRequest reads the form fields. A toggle is on only when
// its value is exactly "true". Returns ErrNoMarkdown without touching disk
// when the markdown file is missing.
func parseConversionRequest(form *multipart.Form) (*ConversionRequest, error) {
	req := &ConversionRequest{
		Markdown:          firstFile(form, fieldMarkdown),
		Logo:              firstFile(form, fieldLogo),
		CustomerLogo:      firstFile(form, fieldCustomerLogo),
		CustomerName:      firstValue(form, fieldCustomerName),
		DocTitle:          firstValue(form, fieldDocTitle),
		PageBreakSections: firstValue(form, fieldPageBreakSections) == "true",
		GenerateTOC:       firstValue(form, fieldGenerateTOC) == "true",
		ShowHeaderFooter:  firstValue(form, fieldShowHeaderFooter) == "true",
		GenerateTitlePage: firstValue(form, fieldGenerateTitlePage) == "true",
	}
	if req.Markdown == nil {
		return nil, ErrNoMarkdown
	}
	return req, nil
}

// checkSizes rejects any file above limit before anything is written.
func (r *ConversionRequest) checkSizes(limit int64) error {
	for _, fh := range []*multipart.FileHeader{r.Markdown, r.Logo, r.CustomerLogo} {
		if fh != nil && fh.Size > limit {
			return fmt.Errorf("%w: %s is %d bytes (max %d)", ErrFileTooLarge, fh.Filename, fh.Size, limit)
		}
	}
	return nil
}

// toInput saves the uploads into scope and builds the converter input.
func (r *ConversionRequest) toInput(scope *Scope) (md2pdf.Input, error) {
	md, err := scope.Save(fieldMarkdown, r.Markdown)
	if err != nil {
		return md2pdf.Input{}, err
	}
	content, err := os.ReadFile(md.Path)
	if err != nil {
		return md2pdf.Input{}, fmt.Errorf("%w: %v", ErrUploadSave, err)
	}

	input := md2pdf.Input{
		Markdown:          string(content),
		TitlePage:         r.GenerateTitlePage,
		Title:             r.DocTitle,
		TOC:               r.GenerateTOC,
		PageBreakSections: r.PageBreakSections,
		ShowHeaderFooter:  r.ShowHeaderFooter,
		CustomerName:      r.CustomerName,
	}

	if r.Logo != nil {
		logo, err := scope.Save(fieldLogo, r.Logo)
		if err != nil {
			return md2pdf.Input{}, err
		}
		input.HeaderLogoPath = logo.Path
	}
	if r.CustomerLogo != nil {
		logo, err := scope.Save(fieldCustomerLogo, r.CustomerLogo)
		if err != nil {
			return md2pdf.Input{}, err
		}
		input.TitleLogoPath = logo.Path
	}

	return input, nil
}

func firstFile(form *multipart.Form, field string) *multipart.FileHeader {
	if form == nil {
		return nil
	}
	if files := form.File[field]; len(files) > 0 {
		return files[0]
	}
	return nil
}

func firstValue(form *multipart.Form, field string) string {
	if form == nil {
		return ""
	}
	if values := form.Value[field]; len(values) > 0 {
		return values[0]
	}
	return ""
}
