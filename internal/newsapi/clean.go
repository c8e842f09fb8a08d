package newsapi

import (
	"regexp"
	"strings"
)

// Feeds frequently leak encoded punctuation and truncation markers into
// titles and summaries. The backend cleans most of it, this covers the
// rest defensively.

var (
	reTrailingEllipsisBracket = regexp.MustCompile(`\[\s*\.\.\.\s*\]$`)
	reStrayTags               = regexp.MustCompile(`<[^>]*?>`)
)

var entityReplacer = strings.NewReplacer(
	"&#8220;", `"`,
	"&#8221;", `"`,
	"&#8217;", "'",
	"&#8230;", "...",
)

func cleanFeedText(s string) string {
	if s == "" {
		return s
	}
	s = entityReplacer.Replace(s)
	s = reTrailingEllipsisBracket.ReplaceAllString(s, "")
	s = reStrayTags.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}

func cleanArticles(articles []Article) {
	for i := range articles {
		articles[i].Title = cleanFeedText(articles[i].Title)
		articles[i].Summary = cleanFeedText(articles[i].Summary)
	}
}
