package view

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/glabrego/lector-cli/internal/newsapi"
	tuitheme "github.com/glabrego/lector-cli/internal/tui/theme"
	tuitree "github.com/glabrego/lector-cli/internal/tui/tree"
)

var reANSICodes = regexp.MustCompile(`\x1b\[[0-9;]*m`)

type ArticleLineParams struct {
	Article    newsapi.Article
	VisiblePos int
	Active     bool
	Selected   bool
	Width      int
}

// RenderArticleLine draws one row of the article list: position,
// title, source name right-aligned.
func RenderArticleLine(p ArticleLineParams, th tuitheme.Theme) string {
	cursorMarker := " "
	if p.Active {
		cursorMarker = ">"
	}
	selectedMarker := " "
	if p.Selected {
		selectedMarker = "*"
	}

	prefix := fmt.Sprintf(" %s%s%2d. ", cursorMarker, selectedMarker, p.VisiblePos+1)
	sourceLabel := "[" + strings.TrimSpace(p.Article.SourceName) + "]"
	available := p.Width - visibleLen(prefix) - 1 - visibleLen(sourceLabel)
	if available < 1 {
		available = 1
	}

	title := strings.TrimSpace(p.Article.Title)
	if title == "" {
		title = "(untitled)"
	}
	title = truncateRunes(title, available)
	styled := th.ArticleTitle.Render(title)
	gap := p.Width - visibleLen(prefix) - visibleLen(title) - visibleLen(sourceLabel)
	if gap < 1 {
		gap = 1
	}
	return th.RenderActiveLine(p.Active, prefix+styled+strings.Repeat(" ", gap)+th.SourceName.Render(sourceLabel))
}

// RenderSidebarLine draws one sidebar row.
func RenderSidebarLine(row tuitree.Row, collapsed map[string]bool, collapsedSections map[string]bool, active bool, th tuitheme.Theme) string {
	switch row.Kind {
	case tuitree.RowSection:
		marker := "▾"
		if collapsedSections[row.Label] {
			marker = "▸"
		}
		return th.RenderActiveLine(active, th.Section.Render(marker+" "+row.Label))
	case tuitree.RowCategory:
		marker := "▾ "
		if collapsed[row.Category] {
			marker = "▸ "
		}
		return th.RenderActiveLine(active, "  "+marker+row.Label)
	case tuitree.RowSource:
		return th.RenderActiveLine(active, "    "+row.Label)
	case tuitree.RowBookmark:
		return th.RenderActiveLine(active, "  "+row.Label)
	default:
		return th.RenderActiveLine(active, row.Label)
	}
}

// RenderSidebarBody draws the visible window of sidebar rows.
func RenderSidebarBody(rows []tuitree.Row, start, end, cursor int, collapsed, collapsedSections map[string]bool, th tuitheme.Theme) string {
	if len(rows) == 0 || start >= end || start < 0 {
		return ""
	}
	var b strings.Builder
	for i := start; i < end && i < len(rows); i++ {
		b.WriteString(RenderSidebarLine(rows[i], collapsed, collapsedSections, i == cursor, th))
		b.WriteString("\n")
	}
	return b.String()
}

func truncateRunes(s string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return strings.Repeat(".", maxLen)
	}
	runes := []rune(s)
	return string(runes[:maxLen-3]) + "..."
}

func visibleLen(s string) int {
	return utf8.RuneCountInString(stripANSIText(s))
}

func stripANSIText(s string) string {
	return reANSICodes.ReplaceAllString(s, "")
}
