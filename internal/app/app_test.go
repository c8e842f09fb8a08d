package app

import (
	"context"
	"errors"
	"testing"

	"github.com/glabrego/lector-cli/internal/newsapi"
	"github.com/glabrego/lector-cli/internal/storage"
)

type fakeClient struct {
	categories map[string][]newsapi.Source
	feed       []newsapi.Article
	feedErr    error
	custom     []newsapi.Article
	customErr  error
}

func (f fakeClient) Categories(context.Context) (map[string][]newsapi.Source, error) {
	return f.categories, nil
}

func (f fakeClient) Feed(context.Context, string) ([]newsapi.Article, error) {
	if f.feedErr != nil {
		return nil, f.feedErr
	}
	return f.feed, nil
}

func (f fakeClient) CustomFeed(context.Context, string, string) ([]newsapi.Article, error) {
	if f.customErr != nil {
		return nil, f.customErr
	}
	return f.custom, nil
}

type fakeRepo struct {
	bookmarks []storage.Bookmark
	saved     []newsapi.Article
	cached    []newsapi.Article
	sidebar   bool
	saveErr   error
}

func (f *fakeRepo) ListBookmarks(context.Context) ([]storage.Bookmark, error) {
	return f.bookmarks, nil
}

func (f *fakeRepo) AddBookmark(_ context.Context, bookmark storage.Bookmark) error {
	f.bookmarks = append(f.bookmarks, bookmark)
	return nil
}

func (f *fakeRepo) RemoveBookmark(_ context.Context, url string) error {
	kept := f.bookmarks[:0]
	for _, b := range f.bookmarks {
		if b.URL != url {
			kept = append(kept, b)
		}
	}
	f.bookmarks = kept
	return nil
}

func (f *fakeRepo) SidebarOpen(context.Context) (bool, error) {
	return f.sidebar, nil
}

func (f *fakeRepo) SetSidebarOpen(_ context.Context, open bool) error {
	f.sidebar = open
	return nil
}

func (f *fakeRepo) SaveArticles(_ context.Context, articles []newsapi.Article) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saved = append([]newsapi.Article(nil), articles...)
	return nil
}

func (f *fakeRepo) ListCategoryArticles(context.Context, string) ([]newsapi.Article, error) {
	return f.cached, nil
}

func TestService_Categories_SortsStably(t *testing.T) {
	client := fakeClient{categories: map[string][]newsapi.Source{
		"technology": {{SourceName: "Wired"}, {SourceName: "Ars Technica"}},
		"business":   {{SourceName: "FT"}},
	}}
	svc := NewService(client, &fakeRepo{})

	categories, err := svc.Categories(context.Background())
	if err != nil {
		t.Fatalf("Categories returned error: %v", err)
	}
	if len(categories) != 2 {
		t.Fatalf("expected 2 categories, got %d", len(categories))
	}
	if categories[0].Name != "business" || categories[1].Name != "technology" {
		t.Fatalf("expected name-sorted categories, got %q then %q", categories[0].Name, categories[1].Name)
	}
	if categories[1].Sources[0].SourceName != "Ars Technica" {
		t.Fatalf("expected name-sorted sources, got %q first", categories[1].Sources[0].SourceName)
	}
}

func TestService_LoadFeed_CachesFetchedArticles(t *testing.T) {
	article := newsapi.Article{Link: "https://example.com/1", Title: "Hello", Category: "technology"}
	client := fakeClient{feed: []newsapi.Article{article}}
	repo := &fakeRepo{}

	svc := NewService(client, repo)
	articles, err := svc.LoadFeed(context.Background(), "technology")
	if err != nil {
		t.Fatalf("LoadFeed returned error: %v", err)
	}
	if len(articles) != 1 || articles[0].Link != article.Link {
		t.Fatalf("unexpected articles: %+v", articles)
	}
	if len(repo.saved) != 1 {
		t.Fatalf("articles were not cached: %+v", repo.saved)
	}
}

func TestService_LoadFeed_FallsBackToCacheOnError(t *testing.T) {
	cached := newsapi.Article{Link: "https://example.com/cached", Title: "Cached"}
	client := fakeClient{feedErr: errors.New("backend down")}
	repo := &fakeRepo{cached: []newsapi.Article{cached}}

	svc := NewService(client, repo)
	articles, err := svc.LoadFeed(context.Background(), "technology")
	if err != nil {
		t.Fatalf("expected cache fallback, got error: %v", err)
	}
	if len(articles) != 1 || articles[0].Link != cached.Link {
		t.Fatalf("unexpected fallback articles: %+v", articles)
	}
}

func TestService_LoadFeed_ErrorWithEmptyCache(t *testing.T) {
	svc := NewService(fakeClient{feedErr: errors.New("backend down")}, &fakeRepo{})

	_, err := svc.LoadFeed(context.Background(), "technology")
	if err == nil {
		t.Fatal("expected error when fetch fails and cache is empty")
	}
}

func TestService_AddCustomFeed_PersistsBookmark(t *testing.T) {
	client := fakeClient{custom: []newsapi.Article{{Link: "https://blog.example/post"}}}
	repo := &fakeRepo{}

	svc := NewService(client, repo)
	articles, err := svc.AddCustomFeed(context.Background(), "https://blog.example/rss", "")
	if err != nil {
		t.Fatalf("AddCustomFeed returned error: %v", err)
	}
	if len(articles) != 1 {
		t.Fatalf("unexpected articles: %+v", articles)
	}
	if len(repo.bookmarks) != 1 {
		t.Fatalf("bookmark was not saved: %+v", repo.bookmarks)
	}
	if repo.bookmarks[0].Title != "blog.example" {
		t.Fatalf("expected host as fallback title, got %q", repo.bookmarks[0].Title)
	}
}

func TestService_AddCustomFeed_NoBookmarkOnFetchError(t *testing.T) {
	client := fakeClient{customErr: errors.New("not a feed")}
	repo := &fakeRepo{}

	svc := NewService(client, repo)
	if _, err := svc.AddCustomFeed(context.Background(), "https://blog.example/rss", "Blog"); err == nil {
		t.Fatal("expected error")
	}
	if len(repo.bookmarks) != 0 {
		t.Fatalf("bookmark saved despite fetch failure: %+v", repo.bookmarks)
	}
}

func TestService_AddCustomFeed_RequiresURL(t *testing.T) {
	svc := NewService(fakeClient{}, &fakeRepo{})
	if _, err := svc.AddCustomFeed(context.Background(), "   ", "Blog"); err == nil {
		t.Fatal("expected error for blank URL")
	}
}
