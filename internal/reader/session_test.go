package reader

import (
	"errors"
	"testing"

	"github.com/glabrego/lector-cli/internal/newsapi"
)

func passthroughExtract(html string) string { return html }

func testArticle(link, title string) newsapi.Article {
	return newsapi.Article{Link: link, Title: title, SourceName: "Ars", Category: "Technology"}
}

func testContent(body, lang string) newsapi.ArticleContent {
	return newsapi.ArticleContent{Content: body, DetectedLanguage: lang}
}

func TestSession_OpenIssuesSingleFetch(t *testing.T) {
	s := NewSession(NewContentCache(), passthroughExtract)

	gen, fetch := s.Open(testArticle("https://ex.com/a", "A"))
	if !fetch {
		t.Fatal("expected fetch for uncached article")
	}
	if !s.Loading() {
		t.Fatal("expected session to be loading")
	}

	if !s.ApplyContent(gen, testContent("<p>body</p>", "fr")) {
		t.Fatal("expected content to apply")
	}
	if s.Loading() {
		t.Fatal("session still loading after apply")
	}
	if s.DetectedLanguage() != "fr" || s.CurrentLanguage() != "fr" {
		t.Fatalf("unexpected languages: %s / %s", s.DetectedLanguage(), s.CurrentLanguage())
	}
}

func TestSession_StaleContentIsDiscardedRegardlessOfOrder(t *testing.T) {
	s := NewSession(NewContentCache(), passthroughExtract)

	genA, _ := s.Open(testArticle("https://ex.com/a", "A"))
	genB, _ := s.Open(testArticle("https://ex.com/b", "B"))

	// B's response lands first, then A's arrives late.
	if !s.ApplyContent(genB, testContent("content B", "en")) {
		t.Fatal("expected B to apply")
	}
	if s.ApplyContent(genA, testContent("content A", "en")) {
		t.Fatal("stale A content must be discarded")
	}
	if s.PlainText() != "content B" {
		t.Fatalf("session shows wrong content: %q", s.PlainText())
	}

	// Same property with the arrival order reversed.
	genA2, _ := s.Open(testArticle("https://ex.com/a2", "A2"))
	genB2, _ := s.Open(testArticle("https://ex.com/b2", "B2"))
	if s.ApplyContent(genA2, testContent("content A2", "en")) {
		t.Fatal("stale A2 content must be discarded")
	}
	if !s.ApplyContent(genB2, testContent("content B2", "en")) {
		t.Fatal("expected B2 to apply")
	}
	if s.PlainText() != "content B2" {
		t.Fatalf("session shows wrong content: %q", s.PlainText())
	}
}

func TestSession_ReopenHitsContentCache(t *testing.T) {
	cache := NewContentCache()
	s := NewSession(cache, passthroughExtract)

	gen, _ := s.Open(testArticle("https://ex.com/a", "A"))
	s.ApplyContent(gen, testContent("cached body", "en"))

	s.Open(testArticle("https://ex.com/b", "B"))

	_, fetch := s.Open(testArticle("https://ex.com/a", "A"))
	if fetch {
		t.Fatal("expected cache hit, no fetch")
	}
	if !s.Loaded() || s.PlainText() != "cached body" {
		t.Fatalf("cached content not applied: %q", s.PlainText())
	}
}

func TestSession_FailureExposesErrorState(t *testing.T) {
	s := NewSession(NewContentCache(), passthroughExtract)

	gen, _ := s.Open(testArticle("https://ex.com/a", "A"))
	fetchErr := errors.New("boom")
	if !s.FailContent(gen, fetchErr) {
		t.Fatal("expected failure to apply")
	}
	if s.Err() == nil || s.Loading() || s.Loaded() {
		t.Fatalf("unexpected state: err=%v loading=%v loaded=%v", s.Err(), s.Loading(), s.Loaded())
	}

	// A stale failure for a closed generation is a no-op.
	s.Close()
	if s.FailContent(gen, fetchErr) {
		t.Fatal("stale failure must be discarded")
	}
}

func TestSession_CloseIsSynchronous(t *testing.T) {
	s := NewSession(NewContentCache(), passthroughExtract)

	gen, _ := s.Open(testArticle("https://ex.com/a", "A"))
	s.Close()

	if s.Selected() || s.Loading() {
		t.Fatal("closed session must read as empty immediately")
	}
	if s.ApplyContent(gen, testContent("late", "en")) {
		t.Fatal("in-flight content for a closed session must be discarded")
	}
}

func TestSession_EmptyDetectedLanguageDefaultsToEnglish(t *testing.T) {
	s := NewSession(NewContentCache(), passthroughExtract)
	gen, _ := s.Open(testArticle("https://ex.com/a", "A"))
	s.ApplyContent(gen, testContent("body", ""))
	if s.DetectedLanguage() != "en" {
		t.Fatalf("expected en default, got %q", s.DetectedLanguage())
	}
}

func TestSession_TopImageDroppedWhenInline(t *testing.T) {
	s := NewSession(NewContentCache(), passthroughExtract)

	gen, _ := s.Open(testArticle("https://ex.com/a", "A"))
	content := newsapi.ArticleContent{
		Content:  `<p>intro</p><img src="https://cdn.ex.com/hero.jpg">`,
		TopImage: "https://cdn.ex.com/hero.jpg",
	}
	s.ApplyContent(gen, content)
	if s.TopImage() != "" {
		t.Fatalf("expected inline top image to be dropped, got %q", s.TopImage())
	}

	gen, _ = s.Open(testArticle("https://ex.com/b", "B"))
	content.Content = "<p>no image inline</p>"
	s.ApplyContent(gen, content)
	if s.TopImage() != "https://cdn.ex.com/hero.jpg" {
		t.Fatalf("expected top image kept, got %q", s.TopImage())
	}
}
