package newsapi

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client talks to the news backend over plain HTTP+JSON. Every call is
// a single attempt; retries are the caller's decision.
type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
	}
}

// Categories returns the sidebar feed browser contents: category name
// to the sources it contains.
func (c *Client) Categories(ctx context.Context) (map[string][]Source, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/categories", nil)
	if err != nil {
		return nil, err
	}

	var categories map[string][]Source
	if err := c.do(req, "list categories", &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

type feedResponse struct {
	Category string    `json:"category"`
	Articles []Article `json:"articles"`
}

// Feed returns the latest articles for one category across all of its
// sources. Titles and summaries are cleaned of leftover feed markup.
func (c *Client) Feed(ctx context.Context, category string) ([]Article, error) {
	if strings.TrimSpace(category) == "" {
		return nil, fmt.Errorf("category is required")
	}

	req, err := c.newRequest(ctx, http.MethodGet, "/feeds/"+url.PathEscape(category), nil)
	if err != nil {
		return nil, err
	}

	var resp feedResponse
	if err := c.do(req, "fetch feed", &resp); err != nil {
		return nil, err
	}
	cleanArticles(resp.Articles)
	return resp.Articles, nil
}

// CustomFeed asks the backend to parse an ad-hoc feed URL. The returned
// articles have the same shape as category feeds.
func (c *Client) CustomFeed(ctx context.Context, feedURL, title string) ([]Article, error) {
	if strings.TrimSpace(feedURL) == "" {
		return nil, fmt.Errorf("feed URL is required")
	}

	req, err := c.newJSONRequest(ctx, "/custom-feed", map[string]string{
		"url":   feedURL,
		"title": title,
	})
	if err != nil {
		return nil, err
	}

	var resp feedResponse
	if err := c.do(req, "fetch custom feed", &resp); err != nil {
		return nil, err
	}
	cleanArticles(resp.Articles)
	return resp.Articles, nil
}

// FetchArticle extracts the full content of one article.
func (c *Client) FetchArticle(ctx context.Context, articleURL string) (ArticleContent, error) {
	req, err := c.newJSONRequest(ctx, "/article", map[string]string{"url": articleURL})
	if err != nil {
		return ArticleContent{}, err
	}

	var content ArticleContent
	if err := c.do(req, "fetch article", &content); err != nil {
		return ArticleContent{}, err
	}
	if strings.TrimSpace(content.Content) == "" {
		return ArticleContent{}, fmt.Errorf("fetch article: response has no content")
	}
	// A top image already embedded in the content would render twice.
	if content.TopImage != "" && strings.Contains(content.Content, content.TopImage) {
		content.TopImage = ""
	}
	return content, nil
}

// Translate converts text into the target language. The transport does
// not support cancellation of a translation in progress; callers discard
// stale results instead.
func (c *Client) Translate(ctx context.Context, text, sourceLang, targetLang string) (string, error) {
	req, err := c.newJSONRequest(ctx, "/translate", map[string]string{
		"text":            text,
		"source_language": sourceLang,
		"target_language": targetLang,
	})
	if err != nil {
		return "", err
	}

	var result TranslationResult
	if err := c.do(req, "translate", &result); err != nil {
		return "", err
	}
	if !result.Success || strings.TrimSpace(result.TranslatedText) == "" {
		return "", fmt.Errorf("translate: backend returned no translation")
	}
	return result.TranslatedText, nil
}

type speechResponse struct {
	Success     bool   `json:"success"`
	Audio       string `json:"audio"`
	ContentType string `json:"content_type"`
}

// Synthesize produces narration audio for the given text.
func (c *Client) Synthesize(ctx context.Context, text, voiceID, languageCode string) (SpeechResult, error) {
	req, err := c.newJSONRequest(ctx, "/text-to-speech", map[string]string{
		"text":          text,
		"voice_id":      voiceID,
		"language_code": languageCode,
	})
	if err != nil {
		return SpeechResult{}, err
	}

	var resp speechResponse
	if err := c.do(req, "synthesize speech", &resp); err != nil {
		return SpeechResult{}, err
	}
	if !resp.Success || resp.Audio == "" {
		return SpeechResult{}, fmt.Errorf("synthesize speech: backend returned no audio")
	}

	audio, err := base64.StdEncoding.DecodeString(resp.Audio)
	if err != nil {
		return SpeechResult{}, fmt.Errorf("decode speech audio: %w", err)
	}
	return SpeechResult{Audio: audio, ContentType: resp.ContentType}, nil
}

// AnalyzeSentiment scores the given text.
func (c *Client) AnalyzeSentiment(ctx context.Context, text, language string) (SentimentResult, error) {
	req, err := c.newJSONRequest(ctx, "/sentiment-analysis", map[string]string{
		"text":     text,
		"language": language,
	})
	if err != nil {
		return SentimentResult{}, err
	}

	var result SentimentResult
	if err := c.do(req, "analyze sentiment", &result); err != nil {
		return SentimentResult{}, err
	}
	return result, nil
}

type chatRequest struct {
	Messages     []ChatMessage `json:"messages"`
	ArticleText  string        `json:"article_text"`
	ArticleTitle string        `json:"article_title"`
	Model        string        `json:"model"`
}

type chatResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Error   string `json:"error"`
}

// Chat sends the full conversation history plus article context and
// returns the assistant's complete reply. The request honors ctx
// cancellation, which is how the UI's stop button aborts generation.
func (c *Client) Chat(ctx context.Context, messages []ChatMessage, articleText, articleTitle, model string) (string, error) {
	req, err := c.newJSONRequest(ctx, "/chat", chatRequest{
		Messages:     messages,
		ArticleText:  articleText,
		ArticleTitle: articleTitle,
		Model:        model,
	})
	if err != nil {
		return "", err
	}

	var resp chatResponse
	if err := c.do(req, "chat", &resp); err != nil {
		return "", err
	}
	if !resp.Success || strings.TrimSpace(resp.Message) == "" {
		if resp.Error != "" {
			return "", fmt.Errorf("chat: %s", resp.Error)
		}
		return "", fmt.Errorf("chat: backend returned no message")
	}
	return resp.Message, nil
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	return req, nil
}

func (c *Client) newJSONRequest(ctx context.Context, path string, payload any) (*http.Request, error) {
	encoded, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode request body: %w", err)
	}
	req, err := c.newRequest(ctx, http.MethodPost, path, bytes.NewReader(encoded))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	return req, nil
}

func (c *Client) do(req *http.Request, action string, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s request failed: %w", action, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("%s failed with status %d: %s", action, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", action, err)
	}
	return nil
}
