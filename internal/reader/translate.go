package reader

import "errors"

// ErrNoContent is returned when a translation is requested before the
// session has loaded article content.
var ErrNoContent = errors.New("no article content loaded")

// Translator coordinates translated renditions of the session's
// article. The transport cannot cancel a translation in flight, so
// superseded requests are tracked with a monotonically increasing
// sequence number and their late results discarded on arrival.
type Translator struct {
	session *Session
	cache   *TranslationCache

	seq         int
	pendingSeq  int
	pendingLang string
	translating bool
}

func NewTranslator(session *Session, cache *TranslationCache) *Translator {
	return &Translator{session: session, cache: cache}
}

// TranslateAction tells the caller what to do after Request.
type TranslateAction int

const (
	// TranslateApplied means the session already shows the requested
	// language (revert to original, or a cache hit). No request needed.
	TranslateApplied TranslateAction = iota
	// TranslateFetch means the caller must issue a backend request and
	// deliver the outcome via Apply or Fail with the given sequence.
	TranslateFetch
)

// TranslateRequest describes the backend call to make on TranslateFetch.
type TranslateRequest struct {
	Seq            int
	ArticleID      string
	Text           string
	SourceLanguage string
	TargetLanguage string
}

// Outcome of a Request call.
type TranslateOutcome struct {
	Action TranslateAction
	// LanguageChanged is set whenever the displayed language changed;
	// the narrator must be reset when it is.
	LanguageChanged bool
	Request         TranslateRequest
}

// Request asks for the article in targetLanguage.
//
// Requesting the detected language is the designated revert path: the
// overlay is cleared with no network call, even when no overlay is
// active. A cache hit applies immediately. Otherwise the caller gets a
// fetch directive; issuing Request again before it resolves supersedes
// the earlier one.
func (t *Translator) Request(targetLanguage string) (TranslateOutcome, error) {
	if !t.session.Loaded() {
		return TranslateOutcome{}, ErrNoContent
	}

	previous := t.session.CurrentLanguage()

	if targetLanguage == t.session.DetectedLanguage() {
		t.session.clearOverlay()
		t.translating = false
		t.pendingLang = ""
		return TranslateOutcome{
			Action:          TranslateApplied,
			LanguageChanged: previous != targetLanguage,
		}, nil
	}

	if cached, ok := t.cache.Get(t.session.ArticleRef().Link, targetLanguage); ok {
		t.session.setOverlay(targetLanguage, cached)
		t.translating = false
		t.pendingLang = ""
		return TranslateOutcome{
			Action:          TranslateApplied,
			LanguageChanged: previous != targetLanguage,
		}, nil
	}

	t.seq++
	t.pendingSeq = t.seq
	t.pendingLang = targetLanguage
	t.translating = true
	return TranslateOutcome{
		Action: TranslateFetch,
		Request: TranslateRequest{
			Seq:            t.seq,
			ArticleID:      t.session.ArticleRef().Link,
			Text:           t.session.PlainText(),
			SourceLanguage: t.session.DetectedLanguage(),
			TargetLanguage: targetLanguage,
		},
	}, nil
}

// Apply delivers a successful translation. Results for superseded
// sequences are still cached (the work is done, revisits should hit)
// but never displayed; Apply reports whether it changed the displayed
// language and whether it was applied at all.
func (t *Translator) Apply(seq int, articleID, targetLanguage, translated string) (languageChanged bool, applied bool) {
	t.cache.Put(articleID, targetLanguage, translated)
	if seq != t.pendingSeq || !t.translating {
		return false, false
	}
	previous := t.session.CurrentLanguage()
	t.session.setOverlay(targetLanguage, translated)
	t.translating = false
	t.pendingLang = ""
	return previous != targetLanguage, true
}

// Fail delivers a failed translation. The session reverts to the
// detected language and any partial overlay is cleared; superseded
// failures are silent no-ops.
func (t *Translator) Fail(seq int, err error) (languageChanged bool, applied bool) {
	if seq != t.pendingSeq || !t.translating {
		return false, false
	}
	previous := t.session.CurrentLanguage()
	t.session.clearOverlay()
	t.translating = false
	t.pendingLang = ""
	return previous != t.session.CurrentLanguage(), true
}

// Translating reports whether a request is outstanding.
func (t *Translator) Translating() bool { return t.translating }

// PendingLanguage is the language of the outstanding request, empty
// when none is in flight.
func (t *Translator) PendingLanguage() string { return t.pendingLang }

// Reset drops any pending request, for session teardown.
func (t *Translator) Reset() {
	t.pendingSeq = 0
	t.pendingLang = ""
	t.translating = false
}
