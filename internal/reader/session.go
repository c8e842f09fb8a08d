package reader

import (
	"strings"

	"github.com/glabrego/lector-cli/internal/newsapi"
)

// Session is the per-selected-article context. Opening a different
// article replaces the whole session state and bumps the generation
// counter; every asynchronous completion carries the generation it was
// issued under and is discarded when it no longer matches. That makes
// teardown synchronous from the caller's point of view even though old
// requests finish in the background.
type Session struct {
	generation int
	article    newsapi.Article
	selected   bool
	loading    bool
	err        error

	rawHTML          string
	plainText        string
	detectedLanguage string
	topImage         string
	authors          []string

	// Translation overlay, managed by the Translator. Empty means the
	// article is displayed in its detected language.
	currentLanguage string
	translatedText  string

	cache   *ContentCache
	extract func(html string) string
}

// NewSession builds an empty session. extract converts article HTML to
// plain text and must not be nil.
func NewSession(cache *ContentCache, extract func(string) string) *Session {
	return &Session{cache: cache, extract: extract}
}

// Open replaces the session with a fresh one for ref and returns the
// new generation. When the content cache already holds the article the
// content is applied immediately and fetch reports false: no request
// should be issued.
func (s *Session) Open(ref newsapi.Article) (generation int, fetch bool) {
	s.reset()
	s.generation++
	s.article = ref
	s.selected = true

	if cached, ok := s.cache.Get(ref.Link); ok {
		s.applyContent(cached)
		return s.generation, false
	}
	s.loading = true
	return s.generation, true
}

// Close discards the session entirely. In-flight completions for the
// old generation become no-ops.
func (s *Session) Close() {
	s.reset()
	s.generation++
}

func (s *Session) reset() {
	s.article = newsapi.Article{}
	s.selected = false
	s.loading = false
	s.err = nil
	s.rawHTML = ""
	s.plainText = ""
	s.detectedLanguage = ""
	s.topImage = ""
	s.authors = nil
	s.currentLanguage = ""
	s.translatedText = ""
}

// ApplyContent records a successful content fetch and caches it by
// article link. It reports false, changing nothing, when the result
// belongs to a superseded generation.
func (s *Session) ApplyContent(generation int, content newsapi.ArticleContent) bool {
	if generation != s.generation || !s.selected {
		return false
	}
	s.applyContent(content)
	s.cache.Put(s.article.Link, content)
	return true
}

// FailContent records a failed content fetch. The session enters an
// error state exposing only the original summary and link; there is no
// automatic retry.
func (s *Session) FailContent(generation int, err error) bool {
	if generation != s.generation || !s.selected {
		return false
	}
	s.loading = false
	s.err = err
	return true
}

func (s *Session) applyContent(content newsapi.ArticleContent) {
	language := content.DetectedLanguage
	if language == "" {
		language = "en"
	}
	s.loading = false
	s.err = nil
	s.rawHTML = content.Content
	s.plainText = s.extract(content.Content)
	s.detectedLanguage = language
	s.currentLanguage = language
	s.topImage = content.TopImage
	if s.topImage != "" && strings.Contains(content.Content, s.topImage) {
		// The image already appears inline, skip the header reference.
		s.topImage = ""
	}
	s.authors = content.Authors
}

func (s *Session) Generation() int { return s.generation }

// Selected reports whether any article is open.
func (s *Session) Selected() bool { return s.selected }

func (s *Session) ArticleRef() newsapi.Article { return s.article }

// Loaded reports whether content has been applied.
func (s *Session) Loaded() bool { return s.selected && s.rawHTML != "" }

func (s *Session) Loading() bool { return s.loading }

func (s *Session) Err() error { return s.err }

func (s *Session) PlainText() string { return s.plainText }

func (s *Session) RawHTML() string { return s.rawHTML }

func (s *Session) TopImage() string { return s.topImage }

func (s *Session) Authors() []string { return s.authors }

func (s *Session) DetectedLanguage() string { return s.detectedLanguage }

func (s *Session) CurrentLanguage() string { return s.currentLanguage }

// Translated reports whether a translation overlay is active.
func (s *Session) Translated() bool { return s.translatedText != "" }

// DisplayText is the article text in the currently displayed language.
// Narration, sentiment and chat all read this.
func (s *Session) DisplayText() string {
	if s.translatedText != "" {
		return s.translatedText
	}
	return s.plainText
}

func (s *Session) setOverlay(language, text string) {
	s.currentLanguage = language
	s.translatedText = text
}

func (s *Session) clearOverlay() {
	s.currentLanguage = s.detectedLanguage
	s.translatedText = ""
}
