package reader

import "github.com/glabrego/lector-cli/internal/newsapi"

// PanelKind is the active side panel. Exactly one variant is active at
// a time per session.
type PanelKind int

const (
	PanelNone PanelKind = iota
	PanelSentiment
	PanelChat
)

// SentimentView is the renderable state of the sentiment panel. A
// backend failure is stored as an error payload, not an error value
// propagating upward: the view renders Message instead of crashing.
type SentimentView struct {
	Loading bool
	Result  newsapi.SentimentResult
	HasData bool
	Message string
}

// Insight coordinates the mutually exclusive side panels attached to a
// session. Switching panels stops rendering the other one but does NOT
// cancel its in-flight request; the late result is simply discarded.
// A stricter design would cancel it, the observed behavior is kept.
type Insight struct {
	session *Session
	cache   *SentimentCache

	kind      PanelKind
	sentiment SentimentView
	seq       int
	chat      *Chat
}

func NewInsight(session *Session, cache *SentimentCache) *Insight {
	return &Insight{session: session, cache: cache}
}

func (i *Insight) Kind() PanelKind { return i.kind }

func (i *Insight) Sentiment() SentimentView { return i.sentiment }

// Chat is the active chat session, nil while the chat panel has never
// been opened for this article.
func (i *Insight) Chat() *Chat { return i.chat }

// SentimentAction tells the caller whether a request must be issued.
type SentimentAction int

const (
	SentimentReady SentimentAction = iota
	SentimentFetch
)

// SentimentRequest describes the backend call for SentimentFetch. The
// request scores the currently displayed (possibly translated) text in
// the current language.
type SentimentRequest struct {
	Seq      int
	Link     string
	Text     string
	Language string
}

// ShowSentiment activates the sentiment panel. Cache hits render
// immediately; otherwise the caller issues the scoring request and
// delivers via ApplySentiment or FailSentiment.
func (i *Insight) ShowSentiment() (SentimentAction, SentimentRequest) {
	i.kind = PanelSentiment
	link := i.session.ArticleRef().Link

	if result, ok := i.cache.Get(link); ok {
		i.sentiment = SentimentView{Result: result, HasData: true}
		return SentimentReady, SentimentRequest{}
	}
	if i.sentiment.Loading {
		// A request for this panel is already outstanding.
		return SentimentReady, SentimentRequest{}
	}
	i.seq++
	i.sentiment = SentimentView{Loading: true}
	return SentimentFetch, SentimentRequest{
		Seq:      i.seq,
		Link:     link,
		Text:     i.session.DisplayText(),
		Language: i.session.CurrentLanguage(),
	}
}

// ApplySentiment records a successful scoring. Stale sequences still
// populate the cache but do not touch the view.
func (i *Insight) ApplySentiment(seq int, link string, result newsapi.SentimentResult) bool {
	i.cache.Put(link, result)
	if seq != i.seq || !i.sentiment.Loading {
		return false
	}
	i.sentiment = SentimentView{Result: result, HasData: true}
	return true
}

// FailSentiment stores a renderable error payload.
func (i *Insight) FailSentiment(seq int, message string) bool {
	if seq != i.seq || !i.sentiment.Loading {
		return false
	}
	i.sentiment = SentimentView{Message: message}
	return true
}

// ShowChat activates the chat panel, creating the conversation on
// first use for this article.
func (i *Insight) ShowChat() *Chat {
	i.kind = PanelChat
	if i.chat == nil {
		i.chat = NewChat(i.session.ArticleRef().Title)
	}
	return i.chat
}

// Hide closes the active panel without canceling anything.
func (i *Insight) Hide() {
	i.kind = PanelNone
}

// Reset discards panel state for session teardown. The chat's backend
// call, if any, is aborted; a pending sentiment request is merely
// superseded since its transport cannot be canceled.
func (i *Insight) Reset() {
	if i.chat != nil {
		i.chat.Abort()
	}
	i.chat = nil
	i.kind = PanelNone
	i.sentiment = SentimentView{}
	i.seq++
}
