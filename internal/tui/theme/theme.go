package theme

import (
	"github.com/charmbracelet/lipgloss"
)

type Theme struct {
	Title      lipgloss.Style
	ModePill   lipgloss.Style
	Section    lipgloss.Style
	ActiveLine lipgloss.Style
	MetaLabel  lipgloss.Style
	MetaValue  lipgloss.Style
	StateIdle  lipgloss.Style
	StateWarn  lipgloss.Style
	StateLoad  lipgloss.Style

	ArticleTitle lipgloss.Style
	SourceName   lipgloss.Style
	Summary      lipgloss.Style

	LanguagePill  lipgloss.Style
	NarrationPill lipgloss.Style

	SentimentPositive lipgloss.Style
	SentimentNegative lipgloss.Style
	SentimentNeutral  lipgloss.Style
	SentimentMixed    lipgloss.Style

	ChatUser      lipgloss.Style
	ChatAssistant lipgloss.Style
	ChatThinking  lipgloss.Style
}

func Default() Theme {
	cpRosewater := lipgloss.Color("#f5e0dc")
	cpMauve := lipgloss.Color("#cba6f7")
	cpRed := lipgloss.Color("#f38ba8")
	cpPeach := lipgloss.Color("#fab387")
	cpYellow := lipgloss.Color("#f9e2af")
	cpGreen := lipgloss.Color("#a6e3a1")
	cpTeal := lipgloss.Color("#94e2d5")
	cpLavender := lipgloss.Color("#b4befe")
	cpText := lipgloss.Color("#cdd6f4")
	cpSubtext0 := lipgloss.Color("#a6adc8")
	cpSubtext1 := lipgloss.Color("#bac2de")
	cpOverlay1 := lipgloss.Color("#7f849c")
	cpSurface0 := lipgloss.Color("#313244")

	return Theme{
		Title:      lipgloss.NewStyle().Bold(true).Foreground(cpMauve),
		ModePill:   lipgloss.NewStyle().Foreground(cpLavender).Background(cpSurface0).Padding(0, 1),
		Section:    lipgloss.NewStyle().Bold(true).Foreground(cpTeal),
		ActiveLine: lipgloss.NewStyle().Background(cpSurface0).Foreground(cpText),
		MetaLabel:  lipgloss.NewStyle().Foreground(cpOverlay1),
		MetaValue:  lipgloss.NewStyle().Foreground(cpSubtext1),
		StateIdle:  lipgloss.NewStyle().Foreground(cpGreen),
		StateWarn:  lipgloss.NewStyle().Foreground(cpRed),
		StateLoad:  lipgloss.NewStyle().Foreground(cpPeach),

		ArticleTitle: lipgloss.NewStyle().Bold(true).Foreground(cpText),
		SourceName:   lipgloss.NewStyle().Foreground(cpSubtext0),
		Summary:      lipgloss.NewStyle().Foreground(cpSubtext1),

		LanguagePill:  lipgloss.NewStyle().Foreground(cpYellow).Background(cpSurface0).Padding(0, 1),
		NarrationPill: lipgloss.NewStyle().Foreground(cpRosewater).Background(cpSurface0).Padding(0, 1),

		SentimentPositive: lipgloss.NewStyle().Bold(true).Foreground(cpGreen),
		SentimentNegative: lipgloss.NewStyle().Bold(true).Foreground(cpRed),
		SentimentNeutral:  lipgloss.NewStyle().Foreground(cpSubtext0),
		SentimentMixed:    lipgloss.NewStyle().Foreground(cpPeach),

		ChatUser:      lipgloss.NewStyle().Bold(true).Foreground(cpLavender),
		ChatAssistant: lipgloss.NewStyle().Foreground(cpText),
		ChatThinking:  lipgloss.NewStyle().Italic(true).Foreground(cpOverlay1),
	}
}

// StyleSentimentLabel picks the style matching an overall sentiment
// label as produced by the scoring backend.
func (t Theme) StyleSentimentLabel(label string) lipgloss.Style {
	switch label {
	case "positive":
		return t.SentimentPositive
	case "negative":
		return t.SentimentNegative
	case "mixed":
		return t.SentimentMixed
	default:
		return t.SentimentNeutral
	}
}

func (t Theme) RenderActiveLine(active bool, line string) string {
	if !active {
		return line
	}
	return t.ActiveLine.Render(line)
}
