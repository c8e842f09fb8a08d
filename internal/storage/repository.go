package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/glabrego/lector-cli/internal/newsapi"
)

// Fixed keys in the kv table. Custom feed bookmarks live under a single
// key as one JSON document, the same shape a browser keeps in local
// storage.
const (
	keyCustomFeeds = "custom_feeds"
	keySidebarOpen = "sidebar_open"
)

// Bookmark is one user-added custom feed.
type Bookmark struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// Repository is the durable client-side state: custom feed bookmarks,
// the sidebar open/closed flag and a cache of fetched article lists.
// Per-session content, translation and audio caches are transient and
// owned by the reader package, not persisted here.
type Repository struct {
	db *sql.DB
}

func NewRepository(path string) (*Repository, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	return &Repository{db: db}, nil
}

func (r *Repository) Close() error {
	if r == nil || r.db == nil {
		return nil
	}
	return r.db.Close()
}

func (r *Repository) Init(ctx context.Context) error {
	const schema = `
CREATE TABLE IF NOT EXISTS kv (
  key TEXT PRIMARY KEY,
  value TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS articles (
  link TEXT PRIMARY KEY,
  title TEXT NOT NULL,
  summary TEXT,
  published TEXT,
  source_name TEXT NOT NULL,
  category TEXT NOT NULL,
  fetched_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_articles_source ON articles(category, source_name);
`
	if _, err := r.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// ListBookmarks returns the custom feed bookmarks, oldest first. A
// missing key means no bookmarks yet.
func (r *Repository) ListBookmarks(ctx context.Context) ([]Bookmark, error) {
	raw, err := r.getKV(ctx, keyCustomFeeds)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var bookmarks []Bookmark
	if err := json.Unmarshal([]byte(raw), &bookmarks); err != nil {
		return nil, fmt.Errorf("decode bookmarks: %w", err)
	}
	return bookmarks, nil
}

// AddBookmark appends a bookmark. Adding an URL that already exists
// replaces its title instead of duplicating the entry.
func (r *Repository) AddBookmark(ctx context.Context, bookmark Bookmark) error {
	bookmarks, err := r.ListBookmarks(ctx)
	if err != nil {
		return err
	}
	replaced := false
	for i := range bookmarks {
		if bookmarks[i].URL == bookmark.URL {
			bookmarks[i].Title = bookmark.Title
			replaced = true
			break
		}
	}
	if !replaced {
		bookmarks = append(bookmarks, bookmark)
	}
	return r.saveBookmarks(ctx, bookmarks)
}

// RemoveBookmark deletes the bookmark with the given URL, if present.
func (r *Repository) RemoveBookmark(ctx context.Context, url string) error {
	bookmarks, err := r.ListBookmarks(ctx)
	if err != nil {
		return err
	}
	kept := bookmarks[:0]
	for _, b := range bookmarks {
		if b.URL != url {
			kept = append(kept, b)
		}
	}
	return r.saveBookmarks(ctx, kept)
}

func (r *Repository) saveBookmarks(ctx context.Context, bookmarks []Bookmark) error {
	encoded, err := json.Marshal(bookmarks)
	if err != nil {
		return fmt.Errorf("encode bookmarks: %w", err)
	}
	return r.setKV(ctx, keyCustomFeeds, string(encoded))
}

// SidebarOpen reports the persisted sidebar state, defaulting to open.
func (r *Repository) SidebarOpen(ctx context.Context) (bool, error) {
	raw, err := r.getKV(ctx, keySidebarOpen)
	if errors.Is(err, sql.ErrNoRows) {
		return true, nil
	}
	if err != nil {
		return true, err
	}
	return raw == "1", nil
}

func (r *Repository) SetSidebarOpen(ctx context.Context, open bool) error {
	value := "0"
	if open {
		value = "1"
	}
	return r.setKV(ctx, keySidebarOpen, value)
}

// SaveArticles caches one fetched article list for offline startup.
func (r *Repository) SaveArticles(ctx context.Context, articles []newsapi.Article) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
INSERT INTO articles (link, title, summary, published, source_name, category, fetched_at)
VALUES (?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(link) DO UPDATE SET
  title=excluded.title,
  summary=excluded.summary,
  published=excluded.published,
  source_name=excluded.source_name,
  category=excluded.category,
  fetched_at=excluded.fetched_at
`)
	if err != nil {
		return fmt.Errorf("prepare save statement: %w", err)
	}
	defer stmt.Close()

	now := time.Now().UTC().Format(time.RFC3339Nano)
	for _, article := range articles {
		_, err := stmt.ExecContext(
			ctx,
			article.Link,
			article.Title,
			article.Summary,
			article.Published,
			article.SourceName,
			article.Category,
			now,
		)
		if err != nil {
			return fmt.Errorf("save article %s: %w", article.Link, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// ListCategoryArticles returns the cached articles for a whole
// category, newest first. Used as the offline fallback when a feed
// fetch fails.
func (r *Repository) ListCategoryArticles(ctx context.Context, category string) ([]newsapi.Article, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT link, title, summary, published, source_name, category
FROM articles
WHERE category = ?
ORDER BY published DESC
`, category)
	if err != nil {
		return nil, fmt.Errorf("query category articles: %w", err)
	}
	defer rows.Close()
	return scanArticles(rows)
}

// ListArticles returns the cached articles for one source, newest first.
func (r *Repository) ListArticles(ctx context.Context, category, sourceName string) ([]newsapi.Article, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT link, title, summary, published, source_name, category
FROM articles
WHERE category = ? AND source_name = ?
ORDER BY published DESC
`, category, sourceName)
	if err != nil {
		return nil, fmt.Errorf("query articles: %w", err)
	}
	defer rows.Close()
	return scanArticles(rows)
}

func scanArticles(rows *sql.Rows) ([]newsapi.Article, error) {
	var articles []newsapi.Article
	for rows.Next() {
		var article newsapi.Article
		if err := rows.Scan(
			&article.Link,
			&article.Title,
			&article.Summary,
			&article.Published,
			&article.SourceName,
			&article.Category,
		); err != nil {
			return nil, fmt.Errorf("scan article: %w", err)
		}
		articles = append(articles, article)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}
	return articles, nil
}

func (r *Repository) getKV(ctx context.Context, key string) (string, error) {
	var value string
	err := r.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", sql.ErrNoRows
		}
		return "", fmt.Errorf("read key %s: %w", key, err)
	}
	return value, nil
}

func (r *Repository) setKV(ctx context.Context, key, value string) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO kv (key, value) VALUES (?, ?)
ON CONFLICT(key) DO UPDATE SET value=excluded.value
`, key, value)
	if err != nil {
		return fmt.Errorf("write key %s: %w", key, err)
	}
	return nil
}
