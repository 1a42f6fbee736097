package mail

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"strings"
	"time"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Template names
const (
	TemplateBookingConfirmation = "booking_confirmation"
	TemplateAdminNewBooking     = "admin_new_booking"
	TemplateBookingStatus       = "booking_status"
)

//go:embed templates/*.html
var templateFS embed.FS

// Templates renders the transactional email templates.
// Each template defines a "subject" and a "body" block rendered inside the shared layout.
type Templates struct {
	siteName  string
	templates map[string]*template.Template
	converter *md.Converter
}

// NewTemplates parses the embedded templates
func NewTemplates(siteName string) (*Templates, error) {
	titler := cases.Title(language.English)
	funcs := template.FuncMap{
		"title": func(s string) string { return titler.String(strings.ToLower(s)) },
		"money": func(d decimal.Decimal) string { return "$" + d.StringFixed(2) },
		"date":  func(t time.Time) string { return t.Format("Monday, 2 January 2006") },
	}

	t := &Templates{
		siteName:  siteName,
		templates: make(map[string]*template.Template),
		converter: md.NewConverter("", true, nil),
	}
	for _, name := range []string{TemplateBookingConfirmation, TemplateAdminNewBooking, TemplateBookingStatus} {
		tmpl, err := template.New(name).Funcs(funcs).ParseFS(templateFS, "templates/layout.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("parse mail template %s: %w", name, err)
		}
		t.templates[name] = tmpl
	}
	return t, nil
}

type templateData struct {
	SiteName string
	Data     interface{}
}

// Render builds a message for the recipients from the named template and data
func (t *Templates) Render(name string, data interface{}, to ...string) (Message, error) {
	tmpl, ok := t.templates[name]
	if !ok {
		return Message{}, fmt.Errorf("mail: unknown template %q", name)
	}

	var subject, body bytes.Buffer
	if err := tmpl.ExecuteTemplate(&subject, "subject", data); err != nil {
		return Message{}, fmt.Errorf("render %s subject: %w", name, err)
	}
	layout := tmpl.Lookup("layout")
	if err := layout.Execute(&body, templateData{SiteName: t.siteName, Data: data}); err != nil {
		return Message{}, fmt.Errorf("render %s body: %w", name, err)
	}

	text, err := t.converter.ConvertString(body.String())
	if err != nil {
		return Message{}, fmt.Errorf("render %s text part: %w", name, err)
	}

	return Message{
		To:      to,
		Subject: strings.TrimSpace(subject.String()),
		HTML:    body.String(),
		Text:    text,
	}, nil
}
