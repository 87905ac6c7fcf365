package wordfreq

import (
	"io"
	"strings"

	"golang.org/x/net/html"
)

// TextFromHTML extracts the textual content of an HTML document. It does no
// interpretation of layout and styling, but collects the pure text of all
// text nodes, separated by blanks. Content of script and style elements is
// skipped.
func TextFromHTML(input io.Reader) (string, error) {
	doc, err := html.Parse(input)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	collectText(doc, &b)
	return b.String(), nil
}

func collectText(n *html.Node, b *strings.Builder) {
	switch n.Type {
	case html.ElementNode:
		if n.Data == "script" || n.Data == "style" {
			return
		}
	case html.TextNode:
		tracer().Debugf("text = %q", n.Data)
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(n.Data)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(c, b)
	}
}
