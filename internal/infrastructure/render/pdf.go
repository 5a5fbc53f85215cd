package render

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"

	"github.com/vitae-cv/vitae/internal/domain/entities"
)

// FormatPDF is the settings.render.formats name of PDFRenderer.
const FormatPDF = "pdf"

// DefaultPDFTimeout bounds one headless Chrome print.
const DefaultPDFTimeout = 30 * time.Second

// paperSizes in inches, width by height.
var paperSizes = map[string][2]float64{
	"a4":     {8.27, 11.69},
	"a5":     {5.83, 8.27},
	"letter": {8.5, 11},
	"legal":  {8.5, 14},
}

// PDFRenderer prints the HTML rendering through headless Chrome.
type PDFRenderer struct {
	html       *HTMLRenderer
	chromePath string
	timeout    time.Duration
}

// NewPDFRenderer creates a PDF renderer. An empty chromePath lets chromedp
// find Chrome on the PATH; a zero timeout means DefaultPDFTimeout.
func NewPDFRenderer(html *HTMLRenderer, chromePath string, timeout time.Duration) *PDFRenderer {
	if timeout <= 0 {
		timeout = DefaultPDFTimeout
	}
	return &PDFRenderer{html: html, chromePath: chromePath, timeout: timeout}
}

// Format implements ports.Renderer.
func (r *PDFRenderer) Format() string { return FormatPDF }

// Render implements ports.Renderer.
func (r *PDFRenderer) Render(ctx context.Context, doc *entities.Document, w io.Writer) error {
	var rendered bytes.Buffer
	if err := r.html.Render(ctx, doc, &rendered); err != nil {
		return err
	}

	// Chrome loads the page from disk so that relative asset links in
	// custom themes resolve.
	tmpDir, err := os.MkdirTemp("", "vitae-pdf-")
	if err != nil {
		return fmt.Errorf("failed to create temp dir: %w", err)
	}
	defer func() {
		_ = os.RemoveAll(tmpDir) // Best-effort cleanup
	}()

	htmlPath := filepath.Join(tmpDir, "index.html")
	if err := os.WriteFile(htmlPath, rendered.Bytes(), 0o600); err != nil {
		return fmt.Errorf("failed to write html: %w", err)
	}

	pdf, err := r.print(ctx, "file://"+htmlPath, pageSize(doc))
	if err != nil {
		return err
	}
	if _, err := w.Write(pdf); err != nil {
		return fmt.Errorf("failed to write pdf: %w", err)
	}
	return nil
}

func (r *PDFRenderer) print(ctx context.Context, url string, size [2]float64) ([]byte, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-dev-shm-usage", true),
	)
	if r.chromePath != "" {
		opts = append(opts, chromedp.ExecPath(r.chromePath))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	runCtx, cancel := context.WithTimeout(browserCtx, r.timeout)
	defer cancel()

	var buf []byte
	err := chromedp.Run(runCtx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			buf, _, err = page.PrintToPDF().
				WithPrintBackground(true).
				WithPaperWidth(size[0]).
				WithPaperHeight(size[1]).
				WithPreferCSSPageSize(true).
				Do(ctx)
			return err
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("headless chrome failed: %w", err)
	}
	return buf, nil
}

func pageSize(doc *entities.Document) [2]float64 {
	if base := doc.Design.Base(); base != nil {
		if size, ok := paperSizes[base.PageSize]; ok {
			return size
		}
	}
	return paperSizes["a4"]
}
