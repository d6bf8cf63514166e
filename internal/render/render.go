// Package render turns HTML directory pages into PDF documents when a site
// offers no downloadable directory. Rendering is an opt-in capability; when
// it is disabled the Nop renderer stands in and the pipeline simply skips
// the render path.
package render

import (
	"context"

	"github.com/rotisserie/eris"
)

// ErrUnavailable is returned by the Nop renderer.
var ErrUnavailable = eris.New("render: renderer unavailable")

// Renderer renders the page at url into a PDF at outPath.
type Renderer interface {
	RenderPDF(ctx context.Context, url, outPath string) error
	Close() error
}

// Nop is the renderer used when HTML-to-PDF rendering is disabled.
type Nop struct{}

func (Nop) RenderPDF(context.Context, string, string) error { return ErrUnavailable }
func (Nop) Close() error                                    { return nil }
