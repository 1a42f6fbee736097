package printing

import (
	"context"
	"errors"
	"fmt"
	"html"
	"regexp"
	"strings"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"
)

const (
	defaultChromeTimeout = 30 * time.Second
	defaultScale         = 1.0
	// footers need room below the page body or Chrome clips them
	minFooterMarginMM = 10
	mmPerInch         = 25.4
)

// ChromedpConfig contains configuration for the chromedp renderer
type ChromedpConfig struct {
	DefaultTimeout time.Duration
	// RemoteURL is the DevTools websocket of a running Chrome. Empty launches a local browser.
	RemoteURL string
	// NoSandbox is required when Chrome runs as root, e.g. in Docker
	NoSandbox bool
	Scale     float64
	Logger    *zap.Logger
}

// ChromedpRenderer prints vouchers to PDF through headless Chrome.
// One browser is shared; every render opens its own tab.
type ChromedpRenderer struct {
	config      ChromedpConfig
	logger      *zap.Logger
	allocCtx    context.Context
	allocCancel context.CancelFunc
}

// NewChromedpRenderer creates the renderer. The browser starts lazily on first Render.
func NewChromedpRenderer(cfg *ChromedpConfig) *ChromedpRenderer {
	r := &ChromedpRenderer{logger: zap.NewNop()}
	if cfg != nil {
		r.config = *cfg
	}
	if r.config.DefaultTimeout <= 0 {
		r.config.DefaultTimeout = defaultChromeTimeout
	}
	if r.config.Scale <= 0 {
		r.config.Scale = defaultScale
	}
	if r.config.Logger != nil {
		r.logger = r.config.Logger
	}
	r.allocCtx, r.allocCancel = newAllocator(r.config)
	return r
}

func newAllocator(cfg ChromedpConfig) (context.Context, context.CancelFunc) {
	if cfg.RemoteURL != "" {
		return chromedp.NewRemoteAllocator(context.Background(), cfg.RemoteURL)
	}
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-extensions", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("font-render-hinting", "none"),
	)
	if cfg.NoSandbox {
		opts = append(opts, chromedp.NoSandbox)
	}
	return chromedp.NewExecAllocator(context.Background(), opts...)
}

func (r *ChromedpRenderer) validate(req *RenderRequest) error {
	if req == nil || strings.TrimSpace(req.HTML) == "" {
		return NewRenderError(ErrCodeInvalidHTML, "HTML content is empty", nil)
	}
	if req.PaperSize == "" {
		req.PaperSize = PaperSizeA4
	}
	if !req.PaperSize.IsValid() {
		return NewRenderError(ErrCodeInvalidPaperSize, "invalid paper size: "+string(req.PaperSize), nil)
	}
	return nil
}

// Render converts HTML content to PDF
func (r *ChromedpRenderer) Render(ctx context.Context, req *RenderRequest) (*RenderResult, error) {
	if err := r.validate(req); err != nil {
		return nil, err
	}

	start := time.Now()
	timeout := req.Timeout
	if timeout <= 0 {
		timeout = r.config.DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	tabCtx, closeTab := chromedp.NewContext(r.allocCtx, chromedp.WithLogf(r.logger.Sugar().Debugf))
	defer closeTab()
	stop := context.AfterFunc(ctx, closeTab)
	defer stop()

	document := wrapDocument(req)
	printCmd := r.printParams(req)

	var pdf []byte
	err := chromedp.Run(tabCtx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			tree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(tree.Frame.ID, document).Do(ctx)
		}),
		chromedp.ActionFunc(func(ctx context.Context) (err error) {
			pdf, _, err = printCmd.Do(ctx)
			return err
		}),
	)
	switch {
	case err == nil && len(pdf) == 0:
		return nil, NewRenderError(ErrCodeRenderFailed, "generated PDF is empty", nil)
	case err == nil:
	case errors.Is(ctx.Err(), context.DeadlineExceeded):
		return nil, NewRenderError(ErrCodeRenderTimeout, fmt.Sprintf("PDF rendering timed out after %v", timeout), err)
	case errors.Is(ctx.Err(), context.Canceled):
		return nil, NewRenderError(ErrCodeRenderTimeout, "PDF rendering was cancelled", err)
	default:
		r.logger.Error("Chrome failed to print PDF", zap.Error(err))
		return nil, NewRenderError(ErrCodeRenderFailed, "chromedp execution failed", err)
	}

	result := &RenderResult{PDFData: pdf, PageCount: estimatePageCount(pdf), RenderDuration: time.Since(start)}
	r.logger.Debug("PDF rendered",
		zap.Int("bytes", len(pdf)),
		zap.Int("pages", result.PageCount),
		zap.Duration("duration", result.RenderDuration))
	return result, nil
}

// printParams converts the request's millimetres into Chrome's inches
func (r *ChromedpRenderer) printParams(req *RenderRequest) *page.PrintToPDFParams {
	width, height := req.PaperSize.Dimensions()
	m := req.Margins
	p := page.PrintToPDF().
		WithPaperWidth(width / mmPerInch).
		WithPaperHeight(height / mmPerInch).
		WithMarginTop(m.Top / mmPerInch).
		WithMarginRight(m.Right / mmPerInch).
		WithMarginBottom(m.Bottom / mmPerInch).
		WithMarginLeft(m.Left / mmPerInch).
		WithScale(r.config.Scale).
		WithLandscape(req.Orientation == OrientationLandscape).
		WithPrintBackground(true)

	if req.FooterHTML == "" {
		return p
	}
	// an empty header element suppresses Chrome's default title and date line
	p = p.WithDisplayHeaderFooter(true).
		WithHeaderTemplate("<span></span>").
		WithFooterTemplate(req.FooterHTML)
	if m.Bottom < minFooterMarginMM {
		p = p.WithMarginBottom(minFooterMarginMM / mmPerInch)
	}
	return p
}

// wrapDocument turns a fragment into a full document; full documents pass through
func wrapDocument(req *RenderRequest) string {
	lower := strings.ToLower(req.HTML)
	if strings.Contains(lower, "<!doctype") || strings.Contains(lower, "<html") {
		return req.HTML
	}
	var b strings.Builder
	b.WriteString(`<!DOCTYPE html><html><head><meta charset="UTF-8">`)
	if req.Title != "" {
		b.WriteString("<title>" + html.EscapeString(req.Title) + "</title>")
	}
	b.WriteString("</head><body>" + req.HTML + "</body></html>")
	return b.String()
}

// Close shuts down the browser
func (r *ChromedpRenderer) Close() error {
	if r.allocCancel != nil {
		r.allocCancel()
	}
	return nil
}

var pageObject = regexp.MustCompile(`/Type\s*/Page[^s]`)

// estimatePageCount counts page objects in the PDF; at least one
func estimatePageCount(pdf []byte) int {
	return max(1, len(pageObject.FindAllIndex(pdf, -1)))
}

var _ PDFRenderer = (*ChromedpRenderer)(nil)
