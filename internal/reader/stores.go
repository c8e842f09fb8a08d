package reader

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/glabrego/lector-cli/internal/newsapi"
)

// The caches below are process-wide, append-only maps shared by every
// session within one run of the app. The Bubble Tea loop serializes all
// access, so no locking is needed; writes to an existing key are
// idempotent overwrites. They are plain injectable values rather than
// package globals so tests can build isolated instances.

// ContentCache stores extracted article content keyed by article link.
type ContentCache struct {
	entries map[string]newsapi.ArticleContent
}

func NewContentCache() *ContentCache {
	return &ContentCache{entries: make(map[string]newsapi.ArticleContent)}
}

func (c *ContentCache) Get(link string) (newsapi.ArticleContent, bool) {
	content, ok := c.entries[link]
	return content, ok
}

func (c *ContentCache) Put(link string, content newsapi.ArticleContent) {
	c.entries[link] = content
}

type translationKey struct {
	articleID string
	language  string
}

// TranslationCache stores translated article text keyed by
// (article link, target language).
type TranslationCache struct {
	entries map[translationKey]string
}

func NewTranslationCache() *TranslationCache {
	return &TranslationCache{entries: make(map[translationKey]string)}
}

func (c *TranslationCache) Get(articleID, language string) (string, bool) {
	text, ok := c.entries[translationKey{articleID, language}]
	return text, ok
}

func (c *TranslationCache) Put(articleID, language, text string) {
	c.entries[translationKey{articleID, language}] = text
}

type audioKey struct {
	textHash string
	language string
}

// Audio is one synthesized narration payload.
type Audio struct {
	Data        []byte
	ContentType string
}

// AudioCache stores synthesized audio keyed by (hash of narrated text,
// language). Entries live for the whole browsing session; there is no
// eviction bound.
type AudioCache struct {
	entries map[audioKey]Audio
}

func NewAudioCache() *AudioCache {
	return &AudioCache{entries: make(map[audioKey]Audio)}
}

func (c *AudioCache) Get(text, language string) (Audio, bool) {
	audio, ok := c.entries[audioKey{hashText(text), language}]
	return audio, ok
}

func (c *AudioCache) Put(text, language string, audio Audio) {
	c.entries[audioKey{hashText(text), language}] = audio
}

func hashText(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}

// SentimentCache stores sentiment results keyed by article link.
type SentimentCache struct {
	entries map[string]newsapi.SentimentResult
}

func NewSentimentCache() *SentimentCache {
	return &SentimentCache{entries: make(map[string]newsapi.SentimentResult)}
}

func (c *SentimentCache) Get(link string) (newsapi.SentimentResult, bool) {
	result, ok := c.entries[link]
	return result, ok
}

func (c *SentimentCache) Put(link string, result newsapi.SentimentResult) {
	c.entries[link] = result
}
