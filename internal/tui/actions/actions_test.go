package actions

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/glabrego/lector-cli/internal/app"
	"github.com/glabrego/lector-cli/internal/newsapi"
	"github.com/glabrego/lector-cli/internal/reader"
	"github.com/glabrego/lector-cli/internal/storage"
)

type fakeFeedService struct {
	categories []app.Category
	bookmarks  []storage.Bookmark
	feeds      map[string][]newsapi.Article
	feedErr    error
	addErr     error
	added      []string
	removed    []string

	sidebarOpen bool
}

func (f *fakeFeedService) Categories(ctx context.Context) ([]app.Category, error) {
	return f.categories, nil
}

func (f *fakeFeedService) Bookmarks(ctx context.Context) ([]storage.Bookmark, error) {
	return f.bookmarks, nil
}

func (f *fakeFeedService) LoadFeed(ctx context.Context, category string) ([]newsapi.Article, error) {
	if f.feedErr != nil {
		return nil, f.feedErr
	}
	return f.feeds[category], nil
}

func (f *fakeFeedService) LoadCustomFeed(ctx context.Context, bookmark storage.Bookmark) ([]newsapi.Article, error) {
	if f.feedErr != nil {
		return nil, f.feedErr
	}
	return f.feeds[bookmark.URL], nil
}

func (f *fakeFeedService) AddCustomFeed(ctx context.Context, feedURL, title string) ([]newsapi.Article, error) {
	if f.addErr != nil {
		return nil, f.addErr
	}
	f.added = append(f.added, feedURL)
	return f.feeds[feedURL], nil
}

func (f *fakeFeedService) RemoveBookmark(ctx context.Context, url string) error {
	f.removed = append(f.removed, url)
	return nil
}

func (f *fakeFeedService) SetSidebarOpen(ctx context.Context, open bool) error {
	f.sidebarOpen = open
	return nil
}

type fakeArticleClient struct {
	content      newsapi.ArticleContent
	contentErr   error
	translated   string
	translateErr error
	speech       newsapi.SpeechResult
	speechErr    error
	sentiment    newsapi.SentimentResult
	sentimentErr error
	chatReply    string
	chatErr      error
	chatCtx      context.Context
	chatModel    string
}

func (f *fakeArticleClient) FetchArticle(ctx context.Context, articleURL string) (newsapi.ArticleContent, error) {
	return f.content, f.contentErr
}

func (f *fakeArticleClient) Translate(ctx context.Context, text, sourceLang, targetLang string) (string, error) {
	return f.translated, f.translateErr
}

func (f *fakeArticleClient) Synthesize(ctx context.Context, text, voiceID, languageCode string) (newsapi.SpeechResult, error) {
	return f.speech, f.speechErr
}

func (f *fakeArticleClient) AnalyzeSentiment(ctx context.Context, text, language string) (newsapi.SentimentResult, error) {
	return f.sentiment, f.sentimentErr
}

func (f *fakeArticleClient) Chat(ctx context.Context, messages []newsapi.ChatMessage, articleText, articleTitle, model string) (string, error) {
	f.chatCtx = ctx
	f.chatModel = model
	return f.chatReply, f.chatErr
}

func TestLoadSidebarCmd(t *testing.T) {
	service := &fakeFeedService{
		categories: []app.Category{{Name: "technology"}},
		bookmarks:  []storage.Bookmark{{Title: "My Blog", URL: "https://blog.example/feed"}},
	}

	msg := LoadSidebarCmd(service, time.Second)()
	loaded, ok := msg.(SidebarLoadedMsg)
	if !ok {
		t.Fatalf("expected SidebarLoadedMsg, got %T", msg)
	}
	if len(loaded.Categories) != 1 || loaded.Categories[0].Name != "technology" {
		t.Fatalf("unexpected categories: %v", loaded.Categories)
	}
	if len(loaded.Bookmarks) != 1 {
		t.Fatalf("unexpected bookmarks: %v", loaded.Bookmarks)
	}
}

func TestLoadFeedCmd_CarriesSelection(t *testing.T) {
	service := &fakeFeedService{
		feeds: map[string][]newsapi.Article{
			"technology": {{Title: "A", Link: "https://a"}},
		},
	}

	msg := LoadFeedCmd(service, "technology", "Ars Technica", time.Second)()
	loaded, ok := msg.(FeedLoadedMsg)
	if !ok {
		t.Fatalf("expected FeedLoadedMsg, got %T", msg)
	}
	if loaded.Category != "technology" || loaded.Source != "Ars Technica" {
		t.Fatalf("selection not carried: %+v", loaded)
	}
	if len(loaded.Articles) != 1 {
		t.Fatalf("unexpected articles: %v", loaded.Articles)
	}
}

func TestLoadFeedCmd_Error(t *testing.T) {
	service := &fakeFeedService{feedErr: errors.New("backend down")}

	msg := LoadFeedCmd(service, "technology", "", time.Second)()
	if _, ok := msg.(FeedLoadErrorMsg); !ok {
		t.Fatalf("expected FeedLoadErrorMsg, got %T", msg)
	}
}

func TestAddCustomFeedCmd(t *testing.T) {
	service := &fakeFeedService{
		feeds: map[string][]newsapi.Article{
			"https://blog.example/feed": {{Title: "Post"}},
		},
	}

	msg := AddCustomFeedCmd(service, "https://blog.example/feed", "My Blog", time.Second)()
	added, ok := msg.(CustomFeedAddedMsg)
	if !ok {
		t.Fatalf("expected CustomFeedAddedMsg, got %T", msg)
	}
	if added.FeedURL != "https://blog.example/feed" || len(added.Articles) != 1 {
		t.Fatalf("unexpected msg: %+v", added)
	}
	if len(service.added) != 1 {
		t.Fatal("service not called")
	}
}

func TestSaveSidebarCmd(t *testing.T) {
	service := &fakeFeedService{}
	if msg := SaveSidebarCmd(service, true, time.Second)(); msg != nil {
		t.Fatalf("expected nil msg, got %T", msg)
	}
	if !service.sidebarOpen {
		t.Fatal("preference not persisted")
	}
}

func TestFetchContentCmd_KeepsGeneration(t *testing.T) {
	client := &fakeArticleClient{content: newsapi.ArticleContent{Title: "T", Content: "<p>hi</p>"}}

	msg := FetchContentCmd(client, 7, "https://a", time.Second)()
	loaded, ok := msg.(ContentLoadedMsg)
	if !ok {
		t.Fatalf("expected ContentLoadedMsg, got %T", msg)
	}
	if loaded.Generation != 7 {
		t.Fatalf("generation = %d, want 7", loaded.Generation)
	}

	client.contentErr = errors.New("extraction failed")
	msg = FetchContentCmd(client, 8, "https://a", time.Second)()
	failed, ok := msg.(ContentErrorMsg)
	if !ok {
		t.Fatalf("expected ContentErrorMsg, got %T", msg)
	}
	if failed.Generation != 8 {
		t.Fatalf("generation = %d, want 8", failed.Generation)
	}
}

func TestTranslateCmd_KeepsCorrelation(t *testing.T) {
	client := &fakeArticleClient{translated: "bonjour"}
	req := reader.TranslateRequest{Seq: 3, ArticleID: "https://a", Text: "hello", SourceLanguage: "en", TargetLanguage: "fr"}

	msg := TranslateCmd(client, req, time.Second)()
	done, ok := msg.(TranslateDoneMsg)
	if !ok {
		t.Fatalf("expected TranslateDoneMsg, got %T", msg)
	}
	if done.Seq != 3 || done.ArticleID != "https://a" || done.Language != "fr" || done.Text != "bonjour" {
		t.Fatalf("unexpected msg: %+v", done)
	}
}

func TestSynthesizeCmd(t *testing.T) {
	client := &fakeArticleClient{speech: newsapi.SpeechResult{Audio: []byte{1, 2}, ContentType: "audio/mpeg"}}

	msg := SynthesizeCmd(client, "tok-1", "hello", "", "en", time.Second)()
	done, ok := msg.(SynthesisDoneMsg)
	if !ok {
		t.Fatalf("expected SynthesisDoneMsg, got %T", msg)
	}
	if done.Token != "tok-1" || done.Language != "en" || len(done.Audio.Data) != 2 {
		t.Fatalf("unexpected msg: %+v", done)
	}

	client.speechErr = errors.New("voice unavailable")
	msg = SynthesizeCmd(client, "tok-2", "hello", "", "en", time.Second)()
	failed, ok := msg.(SynthesisErrorMsg)
	if !ok {
		t.Fatalf("expected SynthesisErrorMsg, got %T", msg)
	}
	if failed.Token != "tok-2" {
		t.Fatalf("token = %q, want tok-2", failed.Token)
	}
}

func TestSentimentCmd(t *testing.T) {
	client := &fakeArticleClient{sentiment: newsapi.SentimentResult{SentimentScore: 0.5}}
	req := reader.SentimentRequest{Seq: 2, Link: "https://a", Text: "body", Language: "en"}

	msg := SentimentCmd(client, req, time.Second)()
	done, ok := msg.(SentimentDoneMsg)
	if !ok {
		t.Fatalf("expected SentimentDoneMsg, got %T", msg)
	}
	if done.Seq != 2 || done.Link != "https://a" {
		t.Fatalf("unexpected msg: %+v", done)
	}
}

func TestChatCmd_UsesCallerContext(t *testing.T) {
	client := &fakeArticleClient{chatReply: "sure"}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	msg := ChatCmd(ctx, client, "att-1", []newsapi.ChatMessage{{Role: newsapi.RoleUser, Content: "hi"}}, "body", "Title", "default")()
	reply, ok := msg.(ChatResponseMsg)
	if !ok {
		t.Fatalf("expected ChatResponseMsg, got %T", msg)
	}
	if reply.Attempt != "att-1" || reply.Text != "sure" {
		t.Fatalf("unexpected msg: %+v", reply)
	}
	if client.chatCtx != ctx {
		t.Fatal("chat must run on the caller context")
	}
	if client.chatModel != "default" {
		t.Fatalf("model = %q, want default", client.chatModel)
	}
}

func TestChatCmd_CanceledSurfacesError(t *testing.T) {
	client := &fakeArticleClient{chatErr: context.Canceled}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	msg := ChatCmd(ctx, client, "att-2", nil, "", "", "default")()
	failed, ok := msg.(ChatErrorMsg)
	if !ok {
		t.Fatalf("expected ChatErrorMsg, got %T", msg)
	}
	if !errors.Is(failed.Err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", failed.Err)
	}
}

func TestOpenURLCmd_FallsBackToClipboard(t *testing.T) {
	openErr := func(string) error { return errors.New("no browser") }
	var copied string
	copyOK := func(url string) error {
		copied = url
		return nil
	}

	msg := OpenURLCmd("https://a", openErr, copyOK)()
	success, ok := msg.(OpenURLSuccessMsg)
	if !ok {
		t.Fatalf("expected OpenURLSuccessMsg, got %T", msg)
	}
	if copied != "https://a" {
		t.Fatalf("copied = %q", copied)
	}
	if success.Status != "Could not open browser, URL copied to clipboard" {
		t.Fatalf("status = %q", success.Status)
	}
}

func TestOpenURLCmd_BothFail(t *testing.T) {
	fail := func(string) error { return errors.New("nope") }
	msg := OpenURLCmd("https://a", fail, fail)()
	if _, ok := msg.(OpenURLErrorMsg); !ok {
		t.Fatalf("expected OpenURLErrorMsg, got %T", msg)
	}
}
