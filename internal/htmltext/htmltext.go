package htmltext

import (
	"strings"

	"golang.org/x/net/html"
)

// Strip extracts the visible text from an HTML document so it can feed the
// extraction engine. Script and style contents are skipped. If parsing
// fails, the input is returned unchanged; the engine tolerates markup noise.
func Strip(s string) string {
	doc, err := html.Parse(strings.NewReader(s))
	if err != nil {
		return s
	}

	var buf strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && (n.Data == "script" || n.Data == "style") {
			return
		}
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return strings.TrimSpace(buf.String())
}
