package printing

import (
	"bytes"
	"context"
	"embed"
	"html/template"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tourbook/backend/internal/domain/booking"
	"go.uber.org/zap"
)

//go:embed templates/voucher.html
var voucherFS embed.FS

const voucherFooter = `<div style="font-size:8px;width:100%;text-align:center;color:#7b8794;">` +
	`Present this voucher at check-in. Page <span class="pageNumber"></span> of <span class="totalPages"></span></div>`

// VoucherRenderer turns a booking into a PDF voucher
type VoucherRenderer struct {
	pdf      PDFRenderer
	tmpl     *template.Template
	siteName string
	logger   *zap.Logger
}

// NewVoucherRenderer parses the voucher template
func NewVoucherRenderer(pdf PDFRenderer, siteName string, logger *zap.Logger) (*VoucherRenderer, error) {
	tmpl, err := template.New("voucher.html").Funcs(template.FuncMap{
		"money": func(d decimal.Decimal) string { return "$" + d.StringFixed(2) },
		"date":  func(t time.Time) string { return t.Format("Monday, 2 January 2006") },
	}).ParseFS(voucherFS, "templates/voucher.html")
	if err != nil {
		return nil, NewRenderError(ErrCodeTemplateFailed, "parse voucher template", err)
	}
	return &VoucherRenderer{pdf: pdf, tmpl: tmpl, siteName: siteName, logger: logger}, nil
}

// RenderHTML executes the voucher template for a booking
func (v *VoucherRenderer) RenderHTML(b *booking.Booking) (string, error) {
	var buf bytes.Buffer
	data := struct {
		SiteName string
		Booking  *booking.Booking
	}{v.siteName, b}
	if err := v.tmpl.Execute(&buf, data); err != nil {
		return "", NewRenderError(ErrCodeTemplateFailed, "execute voucher template", err)
	}
	return buf.String(), nil
}

// RenderVoucher renders the booking voucher as an A4 PDF
func (v *VoucherRenderer) RenderVoucher(ctx context.Context, b *booking.Booking) ([]byte, error) {
	doc, err := v.RenderHTML(b)
	if err != nil {
		return nil, err
	}

	result, err := v.pdf.Render(ctx, &RenderRequest{
		HTML:        doc,
		PaperSize:   PaperSizeA4,
		Orientation: OrientationPortrait,
		Margins:     DefaultMargins(),
		Title:       "Voucher " + b.OrderNumber,
		FooterHTML:  voucherFooter,
	})
	if err != nil {
		v.logger.Error("Voucher rendering failed", zap.String("order_number", b.OrderNumber), zap.Error(err))
		return nil, err
	}
	return result.PDFData, nil
}
