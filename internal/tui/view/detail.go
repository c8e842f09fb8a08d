package view

import (
	"strings"
)

type WrapFunc func(string, int) []string

// DetailParams carries everything the detail pane shows for the open
// article. Body is the displayed text, already in the current language.
type DetailParams struct {
	Title       string
	SourceName  string
	Published   string
	Authors     []string
	URL         string
	TopImage    string
	Language    string
	Translated  bool
	Translating bool
	PendingLang string
	Body        string
	Summary     string
}

// DetailLines builds the full scrollable line list for the detail pane.
// When Body is empty the article summary is shown with a notice, which
// is the fallback when content extraction failed.
func DetailLines(p DetailParams, width int, wrap WrapFunc) []string {
	lines := make([]string, 0, 32)
	lines = append(lines, wrap(p.Title, width)...)
	lines = append(lines, strings.Repeat("=", max(1, min(width, len(p.Title)))))
	lines = append(lines, "")

	if p.SourceName != "" {
		lines = append(lines, wrap("Source: "+p.SourceName, width)...)
	}
	if p.Published != "" {
		lines = append(lines, "Published: "+p.Published)
	}
	if len(p.Authors) > 0 {
		lines = append(lines, wrap("By: "+strings.Join(p.Authors, ", "), width)...)
	}
	if p.URL != "" {
		lines = append(lines, wrap("URL: "+p.URL, width)...)
	}
	if p.TopImage != "" {
		lines = append(lines, wrap("Image: "+p.TopImage, width)...)
	}
	lines = append(lines, languageLine(p))

	if p.Body != "" {
		lines = append(lines, "")
		lines = append(lines, wrap(p.Body, width)...)
		return lines
	}

	lines = append(lines, "")
	lines = append(lines, "Could not load the full article. Showing the feed summary:")
	lines = append(lines, "")
	if summary := strings.TrimSpace(p.Summary); summary != "" {
		lines = append(lines, wrap(summary, width)...)
	} else {
		lines = append(lines, "(no summary available)")
	}
	if p.URL != "" {
		lines = append(lines, "")
		lines = append(lines, wrap("Read online: "+p.URL, width)...)
	}
	return lines
}

func languageLine(p DetailParams) string {
	line := "Language: " + p.Language
	if p.Translated {
		line += " (translated)"
	}
	if p.Translating && p.PendingLang != "" {
		line += " | translating to " + p.PendingLang + "..."
	}
	return line
}

func DetailMaxTop(linesLen, bodyHeight int) int {
	maxTop := linesLen - bodyHeight
	if maxTop < 0 {
		return 0
	}
	return maxTop
}

func RenderDetailLines(lines []string, top, maxLines int) string {
	if len(lines) == 0 {
		return ""
	}
	if top < 0 {
		top = 0
	}
	if top > len(lines)-1 {
		top = len(lines) - 1
	}
	end := len(lines)
	if maxLines > 0 && top+maxLines < end {
		end = top + maxLines
	}
	return strings.Join(lines[top:end], "\n") + "\n"
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
