package state

import (
	"github.com/glabrego/lector-cli/internal/newsapi"
	tuitree "github.com/glabrego/lector-cli/internal/tui/tree"
)

func ClampCursor(cursor, size int) int {
	if size <= 0 {
		return 0
	}
	if cursor >= size {
		return size - 1
	}
	if cursor < 0 {
		return 0
	}
	return cursor
}

func PageStep(height int, hasStatus bool) int {
	if height <= 0 {
		return 10
	}
	headerLines := 6
	if hasStatus {
		headerLines += 2
	}
	step := height - headerLines
	if step < 3 {
		step = 3
	}
	return step
}

// CenteredWindow returns the [start, end) slice of rows to draw so the
// cursor stays near the middle of the viewport.
func CenteredWindow(totalRows, cursor, height int) (int, int) {
	if totalRows <= 0 {
		return 0, 0
	}
	if height <= 0 || totalRows <= height {
		return 0, totalRows
	}
	cursor = ClampCursor(cursor, totalRows)
	start := cursor - height/2
	if start < 0 {
		start = 0
	}
	maxStart := totalRows - height
	if start > maxStart {
		start = maxStart
	}
	return start, start + height
}

func ArticleIndexByLink(articles []newsapi.Article, link string) int {
	for i, article := range articles {
		if article.Link == link {
			return i
		}
	}
	return -1
}

// SelectableRow reports whether the sidebar row can be activated.
func SelectableRow(row tuitree.Row) bool {
	return row.Kind == tuitree.RowSource || row.Kind == tuitree.RowBookmark
}

// NextSelectableRow walks from cursor in the given direction to the
// nearest selectable row, returning cursor unchanged when none exists.
func NextSelectableRow(rows []tuitree.Row, cursor, direction int) int {
	if len(rows) == 0 || direction == 0 {
		return cursor
	}
	for i := cursor + direction; i >= 0 && i < len(rows); i += direction {
		if SelectableRow(rows[i]) {
			return i
		}
	}
	return cursor
}

// SyncedSelectableCursor snaps the tree cursor to a selectable row,
// preferring the nearest one after it.
func SyncedSelectableCursor(rows []tuitree.Row, treeCursor int) int {
	if len(rows) == 0 {
		return 0
	}
	treeCursor = ClampCursor(treeCursor, len(rows))
	if SelectableRow(rows[treeCursor]) {
		return treeCursor
	}
	for i := treeCursor + 1; i < len(rows); i++ {
		if SelectableRow(rows[i]) {
			return i
		}
	}
	for i := treeCursor - 1; i >= 0; i-- {
		if SelectableRow(rows[i]) {
			return i
		}
	}
	return treeCursor
}

// RowCursorForSource finds the row showing the given category/source
// pair, or -1.
func RowCursorForSource(rows []tuitree.Row, category, source string) int {
	for i, row := range rows {
		if row.Kind == tuitree.RowSource && row.Category == category && row.Source == source {
			return i
		}
	}
	return -1
}
