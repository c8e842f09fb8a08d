package reader

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/glabrego/lector-cli/internal/newsapi"
)

// Fixed assistant texts. The greeting embeds the article title.
const (
	chatSystemPrompt = "I'm an AI assistant that can help answer questions about this article."
	chatThinkingText = "Thinking..."
	chatStoppedText  = "Generation stopped."
	chatErrorText    = "I'm sorry, I encountered an error while processing your request. Please try again."
)

// DefaultChatModel is the initially selected backend model.
const DefaultChatModel = "default"

// ChatModels are the selectable backend model identifiers.
var ChatModels = []string{"default", "small", "large"}

// Message is one entry in the chat log.
type Message struct {
	ID      string
	Role    string
	Text    string
	Loading bool // transient "thinking" placeholder
	Typing  bool // transient typing-reveal message
}

// Chat is the conversation attached to one article session. At most
// one request is in flight; sending while loading is reinterpreted as
// a stop.
type Chat struct {
	articleTitle string
	messages     []Message
	model        string

	loading      bool
	firstRequest bool
	attempt      string
	cancel       context.CancelFunc

	reveal *Reveal
}

// NewChat seeds the log with the system prompt and an assistant
// greeting referencing the article title.
func NewChat(articleTitle string) *Chat {
	return &Chat{
		articleTitle: articleTitle,
		model:        DefaultChatModel,
		firstRequest: true,
		messages: []Message{
			{ID: uuid.NewString(), Role: newsapi.RoleSystem, Text: chatSystemPrompt},
			{ID: uuid.NewString(), Role: newsapi.RoleAssistant, Text: `I'm ready to discuss the article "` + articleTitle + `". What would you like to know about it?`},
		},
	}
}

// SendAction tells the caller what Send decided.
type SendAction int

const (
	// SendRejected: empty or whitespace-only input, nothing happened.
	SendRejected SendAction = iota
	// SendStopped: a response was in flight; it was aborted and a
	// terminal "Generation stopped." message appended.
	SendStopped
	// SendIssued: the user message was appended; the caller must make
	// the backend call and deliver via ApplyResponse or FailResponse.
	SendIssued
)

// SendOutcome carries the attempt token and request payload for
// SendIssued.
type SendOutcome struct {
	Action   SendAction
	Attempt  string
	Messages []newsapi.ChatMessage
	Model    string
}

// Send processes user input. While a response is loading or typing the
// send button doubles as a stop button, so input is ignored and the
// in-flight generation is aborted instead; the outcome is never queued.
func (c *Chat) Send(input string) SendOutcome {
	if c.loading || c.reveal != nil {
		c.stop()
		return SendOutcome{Action: SendStopped}
	}
	input = strings.TrimSpace(input)
	if input == "" {
		return SendOutcome{Action: SendRejected}
	}

	c.messages = append(c.messages, Message{ID: uuid.NewString(), Role: newsapi.RoleUser, Text: input})
	if c.firstRequest {
		c.messages = append(c.messages, Message{ID: uuid.NewString(), Role: newsapi.RoleAssistant, Text: chatThinkingText, Loading: true})
		c.firstRequest = false
	}
	c.loading = true
	c.attempt = uuid.NewString()
	return SendOutcome{
		Action:   SendIssued,
		Attempt:  c.attempt,
		Messages: c.history(),
		Model:    c.model,
	}
}

// BindCancel attaches the abort handle of the backend call for the
// given attempt.
func (c *Chat) BindCancel(attempt string, cancel context.CancelFunc) {
	if attempt == c.attempt {
		c.cancel = cancel
	}
}

func (c *Chat) stop() {
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	c.dropTransient()
	c.messages = append(c.messages, Message{ID: uuid.NewString(), Role: newsapi.RoleAssistant, Text: chatStoppedText})
	c.loading = false
	c.reveal = nil
	c.attempt = ""
}

// ApplyResponse starts the typing reveal for a completed response.
// Stale attempts are dropped silently.
func (c *Chat) ApplyResponse(attempt, text string) bool {
	if attempt != c.attempt || !c.loading {
		return false
	}
	c.dropTransient()
	c.messages = append(c.messages, Message{ID: uuid.NewString(), Role: newsapi.RoleAssistant, Typing: true})
	c.reveal = NewReveal(text)
	c.cancel = nil
	return true
}

// FailResponse ends a failed attempt. User-initiated cancellation is
// silent (the stop path already appended its message); every other
// failure appends the fixed apology.
func (c *Chat) FailResponse(attempt string, err error) bool {
	if attempt != c.attempt || !c.loading {
		return false
	}
	if errors.Is(err, context.Canceled) {
		return false
	}
	c.dropTransient()
	c.messages = append(c.messages, Message{ID: uuid.NewString(), Role: newsapi.RoleAssistant, Text: chatErrorText})
	c.loading = false
	c.cancel = nil
	c.attempt = ""
	return true
}

// AdvanceTyping drives the reveal one step. When the reveal completes
// the transient typing message is replaced by the finalized assistant
// message. The returned delay schedules the next step.
func (c *Chat) AdvanceTyping(attempt string) (delay time.Duration, active bool) {
	if attempt != c.attempt || c.reveal == nil {
		return 0, false
	}
	stepDelay, done := c.reveal.Step()
	if done {
		full := c.reveal.Full()
		c.dropTransient()
		c.messages = append(c.messages, Message{ID: uuid.NewString(), Role: newsapi.RoleAssistant, Text: full})
		c.reveal = nil
		c.loading = false
		c.attempt = ""
		return 0, false
	}
	return stepDelay, true
}

// TypingText is the currently revealed prefix, empty when not typing.
func (c *Chat) TypingText() string {
	if c.reveal == nil {
		return ""
	}
	return c.reveal.Text()
}

// Typing reports whether a reveal is running.
func (c *Chat) Typing() bool { return c.reveal != nil }

// Loading reports whether a response is being generated or revealed.
func (c *Chat) Loading() bool { return c.loading }

// Attempt is the token of the in-flight request, empty when idle.
func (c *Chat) Attempt() string { return c.attempt }

// Messages is the full log including transient entries.
func (c *Chat) Messages() []Message { return c.messages }

// Model is the selected backend model identifier.
func (c *Chat) Model() string { return c.model }

// SetModel selects one of ChatModels; unknown identifiers are ignored.
func (c *Chat) SetModel(model string) {
	if c.loading {
		return
	}
	for _, m := range ChatModels {
		if m == model {
			c.model = m
			return
		}
	}
}

// CycleModel advances to the next model in ChatModels. Disabled while
// loading, matching the UI control.
func (c *Chat) CycleModel() string {
	if c.loading {
		return c.model
	}
	for i, m := range ChatModels {
		if m == c.model {
			c.model = ChatModels[(i+1)%len(ChatModels)]
			return c.model
		}
	}
	c.model = ChatModels[0]
	return c.model
}

// Abort cancels any in-flight call without appending messages, for
// session teardown.
func (c *Chat) Abort() {
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	c.loading = false
	c.reveal = nil
	c.attempt = ""
}

// history is the message log in wire shape, excluding transient
// placeholder and typing entries.
func (c *Chat) history() []newsapi.ChatMessage {
	out := make([]newsapi.ChatMessage, 0, len(c.messages))
	for _, m := range c.messages {
		if m.Loading || m.Typing {
			continue
		}
		out = append(out, newsapi.ChatMessage{Role: m.Role, Content: m.Text})
	}
	return out
}

func (c *Chat) dropTransient() {
	kept := c.messages[:0]
	for _, m := range c.messages {
		if m.Loading || m.Typing {
			continue
		}
		kept = append(kept, m)
	}
	c.messages = kept
}
