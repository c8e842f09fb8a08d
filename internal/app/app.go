package app

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strings"

	"github.com/glabrego/lector-cli/internal/newsapi"
	"github.com/glabrego/lector-cli/internal/storage"
)

// NewsClient covers the backend endpoints the service layer needs.
// Article-level operations (content, translation, narration, insight)
// go through the reader package instead.
type NewsClient interface {
	Categories(ctx context.Context) (map[string][]newsapi.Source, error)
	Feed(ctx context.Context, category string) ([]newsapi.Article, error)
	CustomFeed(ctx context.Context, feedURL, title string) ([]newsapi.Article, error)
}

type Repository interface {
	ListBookmarks(ctx context.Context) ([]storage.Bookmark, error)
	AddBookmark(ctx context.Context, bookmark storage.Bookmark) error
	RemoveBookmark(ctx context.Context, url string) error
	SidebarOpen(ctx context.Context) (bool, error)
	SetSidebarOpen(ctx context.Context, open bool) error
	SaveArticles(ctx context.Context, articles []newsapi.Article) error
	ListCategoryArticles(ctx context.Context, category string) ([]newsapi.Article, error)
}

// Category is one sidebar group with its sources, name-sorted for a
// stable browser layout.
type Category struct {
	Name    string
	Sources []newsapi.Source
}

type Service struct {
	client NewsClient
	repo   Repository
}

func NewService(client NewsClient, repo Repository) *Service {
	return &Service{client: client, repo: repo}
}

// Categories returns the sidebar feed browser contents in a stable
// order.
func (s *Service) Categories(ctx context.Context) ([]Category, error) {
	byName, err := s.client.Categories(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch categories: %w", err)
	}

	categories := make([]Category, 0, len(byName))
	for name, sources := range byName {
		sorted := append([]newsapi.Source(nil), sources...)
		sort.Slice(sorted, func(i, j int) bool {
			return sorted[i].SourceName < sorted[j].SourceName
		})
		categories = append(categories, Category{Name: name, Sources: sorted})
	}
	sort.Slice(categories, func(i, j int) bool {
		return categories[i].Name < categories[j].Name
	})
	return categories, nil
}

// LoadFeed fetches the latest articles for a category and refreshes
// the local cache. When the fetch fails and cached articles exist, the
// cache is returned instead and the fetch error is dropped.
func (s *Service) LoadFeed(ctx context.Context, category string) ([]newsapi.Article, error) {
	articles, err := s.client.Feed(ctx, category)
	if err != nil {
		cached, cacheErr := s.repo.ListCategoryArticles(ctx, category)
		if cacheErr == nil && len(cached) > 0 {
			return cached, nil
		}
		return nil, fmt.Errorf("fetch feed for %s: %w", category, err)
	}

	if err := s.repo.SaveArticles(ctx, articles); err != nil {
		return nil, fmt.Errorf("cache feed for %s: %w", category, err)
	}
	return articles, nil
}

// AddCustomFeed fetches an ad-hoc feed URL and, when the backend can
// parse it, persists it as a bookmark. A blank title falls back to the
// feed URL's host.
func (s *Service) AddCustomFeed(ctx context.Context, feedURL, title string) ([]newsapi.Article, error) {
	feedURL = strings.TrimSpace(feedURL)
	if feedURL == "" {
		return nil, fmt.Errorf("feed URL is required")
	}

	title = strings.TrimSpace(title)
	if title == "" {
		title = hostOf(feedURL)
	}

	articles, err := s.client.CustomFeed(ctx, feedURL, title)
	if err != nil {
		return nil, fmt.Errorf("fetch custom feed: %w", err)
	}

	if err := s.repo.AddBookmark(ctx, storage.Bookmark{Title: title, URL: feedURL}); err != nil {
		return nil, fmt.Errorf("save custom feed bookmark: %w", err)
	}
	return articles, nil
}

// LoadCustomFeed re-fetches a previously bookmarked feed.
func (s *Service) LoadCustomFeed(ctx context.Context, bookmark storage.Bookmark) ([]newsapi.Article, error) {
	articles, err := s.client.CustomFeed(ctx, bookmark.URL, bookmark.Title)
	if err != nil {
		return nil, fmt.Errorf("fetch custom feed %s: %w", bookmark.URL, err)
	}
	return articles, nil
}

func (s *Service) Bookmarks(ctx context.Context) ([]storage.Bookmark, error) {
	bookmarks, err := s.repo.ListBookmarks(ctx)
	if err != nil {
		return nil, fmt.Errorf("load bookmarks: %w", err)
	}
	return bookmarks, nil
}

func (s *Service) RemoveBookmark(ctx context.Context, url string) error {
	if err := s.repo.RemoveBookmark(ctx, url); err != nil {
		return fmt.Errorf("remove bookmark: %w", err)
	}
	return nil
}

func (s *Service) SidebarOpen(ctx context.Context) bool {
	open, err := s.repo.SidebarOpen(ctx)
	if err != nil {
		return true
	}
	return open
}

func (s *Service) SetSidebarOpen(ctx context.Context, open bool) error {
	if err := s.repo.SetSidebarOpen(ctx, open); err != nil {
		return fmt.Errorf("save sidebar state: %w", err)
	}
	return nil
}

func hostOf(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Host == "" {
		return rawURL
	}
	return parsed.Host
}
