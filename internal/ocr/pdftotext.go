package ocr

import (
	"bytes"
	"context"
	"os/exec"
	"strings"

	"github.com/rotisserie/eris"
)

// PdfToText extracts text from directory PDFs using the poppler pdftotext
// CLI. The -layout flag matters: directory pages are column-formatted, and
// without it names, titles, and phone numbers end up on separate lines.
type PdfToText struct {
	binPath string
}

// NewPdfToText creates a PdfToText extractor. If binPath is empty, "pdftotext" is used.
func NewPdfToText(binPath string) *PdfToText {
	if binPath == "" {
		binPath = "pdftotext"
	}
	return &PdfToText{binPath: binPath}
}

// ExtractText runs pdftotext -layout on the given PDF. Form-feed page
// separators are rewritten to newlines so downstream line parsing never sees
// a page boundary glued to a directory row.
func (p *PdfToText) ExtractText(ctx context.Context, pdfPath string) (string, error) {
	bin, err := exec.LookPath(p.binPath)
	if err != nil {
		return "", eris.Wrapf(err, "ocr: %s not found, install poppler-utils or configure ocr.provider", p.binPath)
	}

	cmd := exec.CommandContext(ctx, bin, "-layout", pdfPath, "-")

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", eris.Wrapf(err, "ocr: pdftotext failed for %s: %s", pdfPath, stderr.String())
	}

	return strings.ReplaceAll(stdout.String(), "\f", "\n"), nil
}
