package view

import (
	"fmt"
	"strings"

	"github.com/glabrego/lector-cli/internal/newsapi"
	"github.com/glabrego/lector-cli/internal/reader"
	tuitheme "github.com/glabrego/lector-cli/internal/tui/theme"
)

// SentimentLines renders the insight panel in sentiment mode.
func SentimentLines(view reader.SentimentView, width int, wrap WrapFunc, th tuitheme.Theme) []string {
	lines := []string{th.Section.Render("Sentiment"), ""}

	if view.Loading {
		return append(lines, "Analyzing article sentiment...")
	}
	if !view.HasData {
		message := strings.TrimSpace(view.Message)
		if message == "" {
			message = "No sentiment data available."
		}
		return append(lines, wrap(message, width)...)
	}

	result := view.Result
	label := overallSentimentLabel(result)
	lines = append(lines, "Overall: "+th.StyleSentimentLabel(label).Render(label)+fmt.Sprintf(" (%.2f)", result.SentimentScore))
	lines = append(lines, "")
	lines = append(lines, scoreBar("positive", result.Scores.Positive, width, th.SentimentPositive.Render))
	lines = append(lines, scoreBar("negative", result.Scores.Negative, width, th.SentimentNegative.Render))
	lines = append(lines, scoreBar("neutral", result.Scores.Neutral, width, th.SentimentNeutral.Render))
	lines = append(lines, scoreBar("mixed", result.Scores.Mixed, width, th.SentimentMixed.Render))

	if len(result.KeyPhrases) > 0 {
		lines = append(lines, "")
		lines = append(lines, th.Section.Render("Key phrases"))
		for _, phrase := range result.KeyPhrases {
			lines = append(lines, wrap("- "+phrase, width)...)
		}
	}
	return lines
}

func overallSentimentLabel(result newsapi.SentimentResult) string {
	scores := result.Scores
	best, label := scores.Neutral, "neutral"
	if scores.Positive > best {
		best, label = scores.Positive, "positive"
	}
	if scores.Negative > best {
		best, label = scores.Negative, "negative"
	}
	if scores.Mixed > best {
		label = "mixed"
	}
	return label
}

func scoreBar(label string, score float64, width int, styled func(...string) string) string {
	barWidth := width - 20
	if barWidth < 10 {
		barWidth = 10
	}
	filled := int(score * float64(barWidth))
	if filled > barWidth {
		filled = barWidth
	}
	if filled < 0 {
		filled = 0
	}
	bar := strings.Repeat("█", filled) + strings.Repeat("░", barWidth-filled)
	return fmt.Sprintf("%-9s %s %5.1f%%", label, styled(bar), score*100)
}

// ChatLines renders the insight panel in chat mode: the conversation
// transcript (system prompt excluded) followed by the input line.
func ChatLines(chat *reader.Chat, input string, width int, wrap WrapFunc, th tuitheme.Theme) []string {
	lines := []string{th.Section.Render("Chat") + " " + th.MetaLabel.Render("model") + " " + th.MetaValue.Render(chat.Model()), ""}

	for _, message := range chat.Messages() {
		switch message.Role {
		case newsapi.RoleSystem:
			continue
		case newsapi.RoleUser:
			lines = append(lines, wrapPrefixed(th.ChatUser.Render("you"), message.Text, width, wrap)...)
		default:
			text := message.Text
			style := th.ChatAssistant
			if message.Loading {
				style = th.ChatThinking
			}
			if message.Typing {
				text = chat.TypingText()
			}
			lines = append(lines, wrapPrefixed(style.Render("assistant"), text, width, wrap)...)
		}
		lines = append(lines, "")
	}

	prompt := "> " + input
	if chat.Loading() || chat.Typing() {
		prompt = "> " + input + "  (enter stops generation)"
	}
	lines = append(lines, prompt)
	return lines
}

func wrapPrefixed(prefix, text string, width int, wrap WrapFunc) []string {
	out := []string{prefix + ":"}
	for _, line := range wrap(text, width-2) {
		out = append(out, "  "+line)
	}
	return out
}
