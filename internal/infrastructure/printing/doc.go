// Package printing renders booking vouchers to PDF through headless Chrome.
//
// VoucherRenderer fills an embedded html/template with the booking and hands
// the HTML to a PDFRenderer. ChromedpRenderer is the PDFRenderer used in
// production; it either launches a local Chrome or attaches to a remote one
// (for example the chromedp/headless-shell container).
package printing
