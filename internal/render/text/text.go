// Package text converts extracted article HTML into plain text and
// wrapped terminal lines. The plain text feeds translation, narration,
// sentiment and chat; the wrapped lines feed the detail pane.
package text

import (
	"html"
	"strings"
	"unicode/utf8"

	nethtml "golang.org/x/net/html"
)

var blockElements = map[string]bool{
	"p": true, "div": true, "section": true, "article": true,
	"main": true, "header": true, "footer": true, "aside": true,
	"nav": true, "blockquote": true, "ul": true, "ol": true, "li": true,
	"table": true, "tr": true, "figure": true, "figcaption": true,
	"pre": true, "br": true, "hr": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
}

var skipElements = map[string]bool{
	"script": true, "style": true, "noscript": true,
	"iframe": true, "img": true, "svg": true, "video": true, "audio": true,
}

// Extract converts an HTML fragment into plain text: block elements
// become paragraph breaks, scripts and media are dropped, entities are
// unescaped. Unparseable input degrades to entity-unescaped raw text.
func Extract(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	doc, err := nethtml.Parse(strings.NewReader("<html><body>" + raw + "</body></html>"))
	if err != nil {
		return normalize(html.UnescapeString(raw))
	}
	body := findBody(doc)
	if body == nil {
		return normalize(html.UnescapeString(raw))
	}

	var b strings.Builder
	walk(body, &b)
	return normalize(b.String())
}

// WrapText word-wraps plain text. Paragraphs (separated by blank
// lines) are preserved; words longer than the width are split.
func WrapText(text string, width int) []string {
	if text == "" {
		return nil
	}
	if width < 1 {
		return []string{text}
	}
	paragraphs := strings.Split(text, "\n\n")
	out := make([]string, 0, len(paragraphs)*2)
	for i, p := range paragraphs {
		if i > 0 {
			out = append(out, "")
		}
		out = append(out, wrapParagraph(p, width)...)
	}
	return out
}

// wrapParagraph measures and splits in runes, never bytes. Translated
// CJK text arrives as one space-free word and must break cleanly.
func wrapParagraph(p string, width int) []string {
	words := strings.Fields(p)
	if len(words) == 0 {
		return nil
	}
	out := make([]string, 0, len(words)/8+1)
	line := ""
	lineLen := 0
	for _, word := range words {
		wordLen := utf8.RuneCountInString(word)
		for wordLen > width {
			if line != "" {
				out = append(out, line)
				line = ""
				lineLen = 0
			}
			runes := []rune(word)
			out = append(out, string(runes[:width]))
			word = string(runes[width:])
			wordLen -= width
		}
		if line == "" {
			line = word
			lineLen = wordLen
			continue
		}
		if lineLen+1+wordLen <= width {
			line += " " + word
			lineLen += 1 + wordLen
			continue
		}
		out = append(out, line)
		line = word
		lineLen = wordLen
	}
	if line != "" {
		out = append(out, line)
	}
	return out
}

func walk(node *nethtml.Node, b *strings.Builder) {
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		switch child.Type {
		case nethtml.TextNode:
			b.WriteString(child.Data)
		case nethtml.ElementNode:
			tag := strings.ToLower(child.Data)
			if skipElements[tag] {
				continue
			}
			if blockElements[tag] {
				b.WriteString("\n\n")
				walk(child, b)
				b.WriteString("\n\n")
				continue
			}
			walk(child, b)
		}
	}
}

func findBody(doc *nethtml.Node) *nethtml.Node {
	var body *nethtml.Node
	var find func(*nethtml.Node)
	find = func(n *nethtml.Node) {
		if body != nil {
			return
		}
		if n.Type == nethtml.ElementNode && n.Data == "body" {
			body = n
			return
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			find(child)
		}
	}
	find(doc)
	return body
}

// normalize collapses runs of whitespace inside paragraphs and runs of
// blank lines between them.
func normalize(s string) string {
	paragraphs := strings.Split(s, "\n\n")
	out := make([]string, 0, len(paragraphs))
	for _, p := range paragraphs {
		p = strings.Join(strings.Fields(p), " ")
		if p == "" {
			continue
		}
		out = append(out, p)
	}
	return strings.Join(out, "\n\n")
}
