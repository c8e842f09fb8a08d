package actions

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/glabrego/lector-cli/internal/app"
	"github.com/glabrego/lector-cli/internal/newsapi"
	"github.com/glabrego/lector-cli/internal/reader"
	"github.com/glabrego/lector-cli/internal/storage"
	"github.com/glabrego/lector-cli/internal/tui/platform"
)

// FeedService loads the sidebar tree and article lists.
type FeedService interface {
	Categories(ctx context.Context) ([]app.Category, error)
	Bookmarks(ctx context.Context) ([]storage.Bookmark, error)
	LoadFeed(ctx context.Context, category string) ([]newsapi.Article, error)
	LoadCustomFeed(ctx context.Context, bookmark storage.Bookmark) ([]newsapi.Article, error)
	AddCustomFeed(ctx context.Context, feedURL, title string) ([]newsapi.Article, error)
	RemoveBookmark(ctx context.Context, url string) error
	SetSidebarOpen(ctx context.Context, open bool) error
}

// ArticleClient covers the per-article backend operations.
type ArticleClient interface {
	FetchArticle(ctx context.Context, articleURL string) (newsapi.ArticleContent, error)
	Translate(ctx context.Context, text, sourceLang, targetLang string) (string, error)
	Synthesize(ctx context.Context, text, voiceID, languageCode string) (newsapi.SpeechResult, error)
	AnalyzeSentiment(ctx context.Context, text, language string) (newsapi.SentimentResult, error)
	Chat(ctx context.Context, messages []newsapi.ChatMessage, articleText, articleTitle, model string) (string, error)
}

type SidebarLoadedMsg struct {
	Categories []app.Category
	Bookmarks  []storage.Bookmark
}

type SidebarLoadErrorMsg struct {
	Err error
}

type FeedLoadedMsg struct {
	Category string
	Source   string
	Articles []newsapi.Article
}

type FeedLoadErrorMsg struct {
	Err error
}

type CustomFeedLoadedMsg struct {
	Bookmark storage.Bookmark
	Articles []newsapi.Article
}

type CustomFeedAddedMsg struct {
	FeedURL  string
	Articles []newsapi.Article
}

type CustomFeedErrorMsg struct {
	Err error
}

type BookmarkRemovedMsg struct {
	URL string
}

type ContentLoadedMsg struct {
	Generation int
	Content    newsapi.ArticleContent
}

type ContentErrorMsg struct {
	Generation int
	Err        error
}

type TranslateDoneMsg struct {
	Seq       int
	ArticleID string
	Language  string
	Text      string
}

type TranslateErrorMsg struct {
	Seq int
	Err error
}

type SynthesisDoneMsg struct {
	Token    string
	Text     string
	Language string
	Audio    reader.Audio
}

type SynthesisErrorMsg struct {
	Token string
	Err   error
}

type PlaybackStartedMsg struct {
	Token  string
	Player *platform.Player
}

type PlaybackEndedMsg struct {
	Token string
}

type PlaybackErrorMsg struct {
	Token string
	Err   error
}

type SentimentDoneMsg struct {
	Seq    int
	Link   string
	Result newsapi.SentimentResult
}

type SentimentErrorMsg struct {
	Seq int
	Err error
}

type ChatResponseMsg struct {
	Attempt string
	Text    string
}

type ChatErrorMsg struct {
	Attempt string
	Err     error
}

type TypingTickMsg struct {
	Attempt string
}

type ClearStatusMsg struct {
	ID int
}

type OpenURLSuccessMsg struct {
	Status string
}

type OpenURLErrorMsg struct {
	Err error
}

func LoadSidebarCmd(service FeedService, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		categories, err := service.Categories(ctx)
		if err != nil {
			return SidebarLoadErrorMsg{Err: err}
		}
		bookmarks, err := service.Bookmarks(ctx)
		if err != nil {
			return SidebarLoadErrorMsg{Err: err}
		}
		return SidebarLoadedMsg{Categories: categories, Bookmarks: bookmarks}
	}
}

func LoadFeedCmd(service FeedService, category, source string, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		articles, err := service.LoadFeed(ctx, category)
		if err != nil {
			return FeedLoadErrorMsg{Err: err}
		}
		return FeedLoadedMsg{Category: category, Source: source, Articles: articles}
	}
}

func LoadCustomFeedCmd(service FeedService, bookmark storage.Bookmark, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		articles, err := service.LoadCustomFeed(ctx, bookmark)
		if err != nil {
			return CustomFeedErrorMsg{Err: err}
		}
		return CustomFeedLoadedMsg{Bookmark: bookmark, Articles: articles}
	}
}

func AddCustomFeedCmd(service FeedService, feedURL, title string, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		articles, err := service.AddCustomFeed(ctx, feedURL, title)
		if err != nil {
			return CustomFeedErrorMsg{Err: err}
		}
		return CustomFeedAddedMsg{FeedURL: feedURL, Articles: articles}
	}
}

func RemoveBookmarkCmd(service FeedService, url string, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		if err := service.RemoveBookmark(ctx, url); err != nil {
			return CustomFeedErrorMsg{Err: err}
		}
		return BookmarkRemovedMsg{URL: url}
	}
}

// SaveSidebarCmd persists the sidebar visibility. Failures are
// swallowed: the preference is cosmetic and the toggle already took
// effect on screen.
func SaveSidebarCmd(service FeedService, open bool, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		_ = service.SetSidebarOpen(ctx, open)
		return nil
	}
}

func FetchContentCmd(client ArticleClient, generation int, articleURL string, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		content, err := client.FetchArticle(ctx, articleURL)
		if err != nil {
			return ContentErrorMsg{Generation: generation, Err: err}
		}
		return ContentLoadedMsg{Generation: generation, Content: content}
	}
}

func TranslateCmd(client ArticleClient, req reader.TranslateRequest, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		translated, err := client.Translate(ctx, req.Text, req.SourceLanguage, req.TargetLanguage)
		if err != nil {
			return TranslateErrorMsg{Seq: req.Seq, Err: err}
		}
		return TranslateDoneMsg{
			Seq:       req.Seq,
			ArticleID: req.ArticleID,
			Language:  req.TargetLanguage,
			Text:      translated,
		}
	}
}

func SynthesizeCmd(client ArticleClient, token, text, voiceID, language string, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		speech, err := client.Synthesize(ctx, text, voiceID, language)
		if err != nil {
			return SynthesisErrorMsg{Token: token, Err: err}
		}
		return SynthesisDoneMsg{
			Token:    token,
			Text:     text,
			Language: language,
			Audio:    reader.Audio{Data: speech.Audio, ContentType: speech.ContentType},
		}
	}
}

func StartPlaybackCmd(token string, audio reader.Audio) tea.Cmd {
	return func() tea.Msg {
		player, err := platform.StartPlayer(audio.Data, audio.ContentType)
		if err != nil {
			return PlaybackErrorMsg{Token: token, Err: err}
		}
		return PlaybackStartedMsg{Token: token, Player: player}
	}
}

// WaitPlaybackCmd blocks until the player process exits. A stop
// requested through the player counts as a normal end.
func WaitPlaybackCmd(token string, player *platform.Player) tea.Cmd {
	return func() tea.Msg {
		if err := player.Wait(); err != nil {
			return PlaybackErrorMsg{Token: token, Err: err}
		}
		return PlaybackEndedMsg{Token: token}
	}
}

func SentimentCmd(client ArticleClient, req reader.SentimentRequest, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		result, err := client.AnalyzeSentiment(ctx, req.Text, req.Language)
		if err != nil {
			return SentimentErrorMsg{Seq: req.Seq, Err: err}
		}
		return SentimentDoneMsg{Seq: req.Seq, Link: req.Link, Result: result}
	}
}

// ChatCmd issues a chat completion on a caller-owned context so the
// in-flight request can be aborted from the stop button. The cancel
// func is bound to the attempt before this command runs.
func ChatCmd(ctx context.Context, client ArticleClient, attempt string, messages []newsapi.ChatMessage, articleText, articleTitle, model string) tea.Cmd {
	return func() tea.Msg {
		text, err := client.Chat(ctx, messages, articleText, articleTitle, model)
		if err != nil {
			return ChatErrorMsg{Attempt: attempt, Err: err}
		}
		return ChatResponseMsg{Attempt: attempt, Text: text}
	}
}

func TypingTickCmd(attempt string, delay time.Duration) tea.Cmd {
	return tea.Tick(delay, func(time.Time) tea.Msg {
		return TypingTickMsg{Attempt: attempt}
	})
}

func ClearStatusCmd(id int, after time.Duration) tea.Cmd {
	return tea.Tick(after, func(time.Time) tea.Msg {
		return ClearStatusMsg{ID: id}
	})
}

func OpenURLCmd(url string, openFn, copyFn func(string) error) tea.Cmd {
	return func() tea.Msg {
		if openFn != nil {
			if err := openFn(url); err == nil {
				return OpenURLSuccessMsg{Status: "Opened URL in browser"}
			}
		}
		if copyFn != nil {
			if err := copyFn(url); err == nil {
				return OpenURLSuccessMsg{Status: "Could not open browser, URL copied to clipboard"}
			}
		}
		return OpenURLErrorMsg{Err: fmt.Errorf("could not open URL or copy to clipboard")}
	}
}

func CopyURLCmd(url string, copyFn func(string) error) tea.Cmd {
	return func() tea.Msg {
		if copyFn != nil {
			if err := copyFn(url); err == nil {
				return OpenURLSuccessMsg{Status: "URL copied to clipboard"}
			}
		}
		return OpenURLErrorMsg{Err: fmt.Errorf("could not copy URL to clipboard")}
	}
}
