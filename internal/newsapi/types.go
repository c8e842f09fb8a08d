package newsapi

// Article is one feed item as returned by the backend feed endpoints.
// Articles are immutable once received; the link doubles as the
// article's identity everywhere else in the app.
type Article struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	Summary    string `json:"summary"`
	Link       string `json:"link"`
	Published  string `json:"published"`
	SourceName string `json:"source_name"`
	Category   string `json:"category"`
}

// Source is one entry in the sidebar feed browser.
type Source struct {
	SourceName string `json:"source_name"`
}

// ArticleContent is the full extraction of a single article.
type ArticleContent struct {
	URL              string   `json:"url"`
	Title            string   `json:"title"`
	Content          string   `json:"content"`
	TopImage         string   `json:"top_image"`
	Authors          []string `json:"authors"`
	DetectedLanguage string   `json:"detected_language"`
}

// TranslationResult is the payload of a translate call.
type TranslationResult struct {
	Success        bool   `json:"success"`
	TranslatedText string `json:"translated_text"`
}

// SpeechResult carries synthesized narration audio. Audio arrives
// base64-encoded on the wire and is decoded by the client.
type SpeechResult struct {
	Audio       []byte
	ContentType string
}

// SentimentResult is the scoring of one article text.
type SentimentResult struct {
	SentimentScore float64         `json:"sentiment_score"`
	Scores         SentimentScores `json:"scores"`
	KeyPhrases     []string        `json:"key_phrases"`
}

type SentimentScores struct {
	Positive float64 `json:"positive"`
	Negative float64 `json:"negative"`
	Neutral  float64 `json:"neutral"`
	Mixed    float64 `json:"mixed"`
}

// ChatMessage is one turn in a chat conversation, in the shape the
// backend expects.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Chat roles.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)
