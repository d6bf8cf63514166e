package render

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/rotisserie/eris"
)

// RodRenderer renders pages with a headless Chrome controlled through rod.
type RodRenderer struct {
	browser *rod.Browser
}

// NewRodRenderer launches a headless browser. Close must be called when the
// renderer is no longer needed.
func NewRodRenderer() (*RodRenderer, error) {
	l := launcher.New().Headless(true)
	u, err := l.Launch()
	if err != nil {
		return nil, eris.Wrap(err, "render: launch browser")
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		l.Kill()
		return nil, eris.Wrap(err, "render: connect browser")
	}

	return &RodRenderer{browser: browser}, nil
}

// RenderPDF navigates to url, waits for the load event, and prints the page
// to a PDF at outPath.
func (r *RodRenderer) RenderPDF(ctx context.Context, url, outPath string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	page, err := r.browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return eris.Wrap(err, "render: create page")
	}
	defer page.Close() //nolint:errcheck

	page = page.Context(ctx)

	if err := page.Navigate(url); err != nil {
		return eris.Wrapf(err, "render: navigate %s", url)
	}
	if err := page.WaitLoad(); err != nil {
		return eris.Wrapf(err, "render: wait load %s", url)
	}

	stream, err := page.PDF(&proto.PagePrintToPDF{PrintBackground: true})
	if err != nil {
		return eris.Wrapf(err, "render: print %s", url)
	}

	data, err := io.ReadAll(stream)
	if err != nil {
		return eris.Wrap(err, "render: read pdf stream")
	}

	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return eris.Wrapf(err, "render: create dir for %s", outPath)
	}
	if err := os.WriteFile(outPath, data, 0o644); err != nil {
		return eris.Wrapf(err, "render: write %s", outPath)
	}
	return nil
}

// Close releases browser resources.
func (r *RodRenderer) Close() error {
	return r.browser.Close()
}
