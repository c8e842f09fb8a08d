package reader

import "github.com/glabrego/lector-cli/internal/newsapi"

// Stores are the process-wide caches, initialized once at startup and
// shared by every session. Tests build isolated instances per case.
type Stores struct {
	Content      *ContentCache
	Translations *TranslationCache
	Audio        *AudioCache
	Sentiment    *SentimentCache
}

func NewStores() Stores {
	return Stores{
		Content:      NewContentCache(),
		Translations: NewTranslationCache(),
		Audio:        NewAudioCache(),
		Sentiment:    NewSentimentCache(),
	}
}

// Orchestrator wires the session context to the translation, narration
// and insight controllers and enforces the rules that cross component
// boundaries: opening an article tears the previous session down, and
// a change of displayed language resets narration.
type Orchestrator struct {
	Session    *Session
	Translator *Translator
	Narrator   *Narrator
	Insight    *Insight
}

func NewOrchestrator(stores Stores, extract func(string) string) *Orchestrator {
	session := NewSession(stores.Content, extract)
	return &Orchestrator{
		Session:    session,
		Translator: NewTranslator(session, stores.Translations),
		Narrator:   NewNarrator(stores.Audio),
		Insight:    NewInsight(session, stores.Sentiment),
	}
}

// OpenArticle replaces the active session. Narration stops, the chat's
// backend call is aborted and pending translation results are
// superseded before the new session starts; callers observe the
// teardown as synchronous.
func (o *Orchestrator) OpenArticle(ref newsapi.Article) (generation int, fetch bool) {
	o.Narrator.Stop()
	o.Translator.Reset()
	o.Insight.Reset()
	return o.Session.Open(ref)
}

// CloseArticle tears the session down without opening a new one.
func (o *Orchestrator) CloseArticle() {
	o.Narrator.Stop()
	o.Translator.Reset()
	o.Insight.Reset()
	o.Session.Close()
}

// Translate requests the article in targetLanguage and applies the
// narration side effect when the displayed language changed.
func (o *Orchestrator) Translate(targetLanguage string) (TranslateOutcome, error) {
	outcome, err := o.Translator.Request(targetLanguage)
	if err != nil {
		return outcome, err
	}
	if outcome.LanguageChanged {
		o.Narrator.LanguageChanged()
	}
	return outcome, nil
}

// ApplyTranslation delivers a successful translation result.
func (o *Orchestrator) ApplyTranslation(seq int, articleID, targetLanguage, translated string) bool {
	changed, applied := o.Translator.Apply(seq, articleID, targetLanguage, translated)
	if changed {
		o.Narrator.LanguageChanged()
	}
	return applied
}

// FailTranslation delivers a failed translation result. The session
// reverts to the detected language, which itself counts as a language
// change for narration when an overlay was active.
func (o *Orchestrator) FailTranslation(seq int, err error) bool {
	changed, applied := o.Translator.Fail(seq, err)
	if changed {
		o.Narrator.LanguageChanged()
	}
	return applied
}
