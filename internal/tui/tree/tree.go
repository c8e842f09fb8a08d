package tree

import (
	"strings"

	"github.com/glabrego/lector-cli/internal/app"
	"github.com/glabrego/lector-cli/internal/newsapi"
	"github.com/glabrego/lector-cli/internal/storage"
)

type RowKind string

const (
	RowSection  RowKind = "section"
	RowCategory RowKind = "category"
	RowSource   RowKind = "source"
	RowBookmark RowKind = "bookmark"
)

// Row is one line of the sidebar feed browser.
type Row struct {
	Kind     RowKind
	Label    string
	Category string
	Source   string
	URL      string
}

type BuildOptions struct {
	CollapsedCategories map[string]bool
	CollapsedSections   map[string]bool
	// Search filters sources and bookmarks by case-insensitive
	// substring. Categories with no matching source are dropped.
	Search string
}

const (
	sectionCategories = "Categories"
	sectionBookmarks  = "Custom Feeds"
)

// BuildRows flattens categories and bookmarks into sidebar rows,
// honoring collapse state and the search filter. Categories with a
// matching source stay expanded while a search is active.
func BuildRows(categories []app.Category, bookmarks []storage.Bookmark, opts BuildOptions) []Row {
	search := strings.ToLower(strings.TrimSpace(opts.Search))
	rows := make([]Row, 0, len(categories)*8+len(bookmarks)+2)

	kept := make([]app.Category, 0, len(categories))
	for _, category := range categories {
		sources := category.Sources
		if search != "" {
			sources = filterSources(category, search)
			if len(sources) == 0 {
				continue
			}
		}
		kept = append(kept, app.Category{Name: category.Name, Sources: sources})
	}

	if len(kept) > 0 {
		rows = append(rows, Row{Kind: RowSection, Label: sectionCategories})
		if !opts.CollapsedSections[sectionCategories] {
			for _, category := range kept {
				rows = append(rows, Row{
					Kind:     RowCategory,
					Label:    category.Name,
					Category: category.Name,
				})
				if search == "" && opts.CollapsedCategories[category.Name] {
					continue
				}
				for _, source := range category.Sources {
					rows = append(rows, Row{
						Kind:     RowSource,
						Label:    source.SourceName,
						Category: category.Name,
						Source:   source.SourceName,
					})
				}
			}
		}
	}

	matching := bookmarks
	if search != "" {
		matching = nil
		for _, b := range bookmarks {
			if strings.Contains(strings.ToLower(b.Title), search) || strings.Contains(strings.ToLower(b.URL), search) {
				matching = append(matching, b)
			}
		}
	}
	if len(matching) > 0 {
		rows = append(rows, Row{Kind: RowSection, Label: sectionBookmarks})
		if !opts.CollapsedSections[sectionBookmarks] {
			for _, b := range matching {
				rows = append(rows, Row{
					Kind:  RowBookmark,
					Label: b.Title,
					URL:   b.URL,
				})
			}
		}
	}

	return rows
}

func filterSources(category app.Category, search string) []newsapi.Source {
	if strings.Contains(strings.ToLower(category.Name), search) {
		return category.Sources
	}
	var out []newsapi.Source
	for _, source := range category.Sources {
		if strings.Contains(strings.ToLower(source.SourceName), search) {
			out = append(out, source)
		}
	}
	return out
}

// FirstSelectableRow returns the first source or bookmark row, falling
// back to the first row.
func FirstSelectableRow(rows []Row) int {
	for i, row := range rows {
		if row.Kind == RowSource || row.Kind == RowBookmark {
			return i
		}
	}
	return 0
}
