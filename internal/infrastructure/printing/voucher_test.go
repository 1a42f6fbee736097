package printing

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tourbook/backend/internal/domain/booking"
	"go.uber.org/zap"
)

type fakePDF struct {
	req *RenderRequest
	err error
}

func (f *fakePDF) Render(ctx context.Context, req *RenderRequest) (*RenderResult, error) {
	f.req = req
	if f.err != nil {
		return nil, f.err
	}
	return &RenderResult{PDFData: []byte("%PDF-1.7 voucher"), PageCount: 1}, nil
}

func (f *fakePDF) Close() error { return nil }

func sampleBooking(t *testing.T) *booking.Booking {
	t.Helper()
	now := time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)
	b, err := booking.NewBooking("BK-2026-00042", uuid.New(), booking.TourSnapshot{
		ID:           uuid.New(),
		Title:        "Sahara <Desert> Trek",
		Slug:         "sahara-desert-trek",
		Price:        decimal.RequireFromString("649.50"),
		DurationDays: 5,
	}, time.Date(2026, 11, 20, 0, 0, 0, 0, time.UTC), 3,
		booking.Contact{Name: "Amal", Email: "amal@example.com", Phone: "+212 600 000000"},
		"Vegetarian meals", now)
	require.NoError(t, err)
	return b
}

func TestVoucherRenderer_RenderHTML(t *testing.T) {
	v, err := NewVoucherRenderer(&fakePDF{}, "Tourbook", zap.NewNop())
	require.NoError(t, err)

	doc, err := v.RenderHTML(sampleBooking(t))
	require.NoError(t, err)

	assert.Contains(t, doc, "<h1>Tourbook</h1>")
	assert.Contains(t, doc, "BK-2026-00042")
	assert.Contains(t, doc, "Sahara &lt;Desert&gt; Trek")
	assert.Contains(t, doc, "Friday, 20 November 2026")
	assert.Contains(t, doc, "$649.50")
	assert.Contains(t, doc, "$1948.50")
	assert.Contains(t, doc, "+212 600 000000")
	assert.Contains(t, doc, "Vegetarian meals")
}

func TestVoucherRenderer_RenderVoucher(t *testing.T) {
	pdf := &fakePDF{}
	v, err := NewVoucherRenderer(pdf, "Tourbook", zap.NewNop())
	require.NoError(t, err)

	data, err := v.RenderVoucher(context.Background(), sampleBooking(t))
	require.NoError(t, err)

	assert.Equal(t, []byte("%PDF-1.7 voucher"), data)
	assert.Equal(t, PaperSizeA4, pdf.req.PaperSize)
	assert.Equal(t, "Voucher BK-2026-00042", pdf.req.Title)
	assert.Contains(t, pdf.req.FooterHTML, "pageNumber")
}

func TestVoucherRenderer_PropagatesRenderError(t *testing.T) {
	v, err := NewVoucherRenderer(&fakePDF{err: errors.New("chrome gone")}, "Tourbook", zap.NewNop())
	require.NoError(t, err)

	_, err = v.RenderVoucher(context.Background(), sampleBooking(t))
	assert.EqualError(t, err, "chrome gone")
}
