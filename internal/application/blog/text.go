package blog

import (
	"regexp"
	"strings"
	"unicode/utf8"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"golang.org/x/net/html"
)

const excerptLength = 160

var (
	mdImageRe    = regexp.MustCompile(`!\[[^\]]*\]\([^)]*\)`)
	mdLinkRe     = regexp.MustCompile(`\[([^\]]*)\]\([^)]*\)`)
	mdHeadingRe  = regexp.MustCompile(`(?m)^\s{0,3}#{1,6}\s*`)
	mdQuoteRe    = regexp.MustCompile(`(?m)^\s*>\s?`)
	mdListRe     = regexp.MustCompile(`(?m)^\s*(?:[-*+]|\d+\.)\s+`)
	mdFenceRe    = regexp.MustCompile("(?m)^```.*$")
	mdRuleRe     = regexp.MustCompile(`(?m)^\s*(?:-{3,}|\*{3,}|_{3,})\s*$`)
	mdEmphasisRe = regexp.MustCompile("[*_`~]+")
	whitespaceRe = regexp.MustCompile(`\s+`)
)

// TextExtractor turns rich post HTML into plain text
type TextExtractor struct {
	converter *md.Converter
}

// NewTextExtractor creates a TextExtractor
func NewTextExtractor() *TextExtractor {
	return &TextExtractor{converter: md.NewConverter("", true, nil)}
}

// PlainText converts HTML to Markdown and strips the Markdown syntax
func (x *TextExtractor) PlainText(contentHTML string) (string, error) {
	markdown, err := x.converter.ConvertString(stripNonContent(contentHTML))
	if err != nil {
		return "", err
	}

	text := mdImageRe.ReplaceAllString(markdown, "")
	text = mdLinkRe.ReplaceAllString(text, "$1")
	text = mdFenceRe.ReplaceAllString(text, "")
	text = mdRuleRe.ReplaceAllString(text, "")
	text = mdHeadingRe.ReplaceAllString(text, "")
	text = mdQuoteRe.ReplaceAllString(text, "")
	text = mdListRe.ReplaceAllString(text, "")
	text = mdEmphasisRe.ReplaceAllString(text, "")
	text = strings.ReplaceAll(text, `\`, "")
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(text, " ")), nil
}

// Excerpt derives a summary of at most 160 characters from post HTML
func (x *TextExtractor) Excerpt(contentHTML string) (string, error) {
	text, err := x.PlainText(contentHTML)
	if err != nil {
		return "", err
	}
	return Truncate(text, excerptLength), nil
}

// Truncate shortens text to at most limit characters, cutting at a word
// boundary and ending with an ellipsis when anything was dropped
func Truncate(text string, limit int) string {
	if utf8.RuneCountInString(text) <= limit {
		return text
	}
	runes := []rune(text)
	cut := string(runes[:limit-1])
	// drop the partial word unless the cut already falls on a space
	if runes[limit-1] != ' ' {
		if i := strings.LastIndexByte(cut, ' '); i > 0 {
			cut = cut[:i]
		}
	}
	return strings.TrimRight(cut, " ,.;:-") + "…"
}

// stripNonContent drops script and style elements before conversion
func stripNonContent(contentHTML string) string {
	doc, err := html.Parse(strings.NewReader(contentHTML))
	if err != nil {
		return contentHTML
	}

	var drop []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && (n.Data == "script" || n.Data == "style" || n.Data == "iframe") {
			drop = append(drop, n)
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	for _, n := range drop {
		n.Parent.RemoveChild(n)
	}

	var sb strings.Builder
	if err := html.Render(&sb, doc); err != nil {
		return contentHTML
	}
	return sb.String()
}
