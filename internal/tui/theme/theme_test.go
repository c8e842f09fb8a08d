package theme

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

func TestStyleSentimentLabel(t *testing.T) {
	lipgloss.SetColorProfile(termenv.ANSI)
	th := Default()

	for _, label := range []string{"positive", "negative", "neutral", "mixed"} {
		styled := th.StyleSentimentLabel(label).Render(label)
		if !strings.Contains(styled, "\x1b[") {
			t.Fatalf("expected styled %s label, got %q", label, styled)
		}
	}

	unknown := th.StyleSentimentLabel("surprising")
	neutral := th.StyleSentimentLabel("neutral")
	if unknown.Render("x") != neutral.Render("x") {
		t.Fatal("expected unknown label to fall back to neutral style")
	}
}

func TestRenderActiveLine(t *testing.T) {
	lipgloss.SetColorProfile(termenv.ANSI)
	th := Default()

	plain := th.RenderActiveLine(false, "line")
	if plain != "line" {
		t.Fatalf("expected inactive line unchanged, got %q", plain)
	}
	active := th.RenderActiveLine(true, "line")
	if !strings.Contains(active, "\x1b[") {
		t.Fatalf("expected styled active line, got %q", active)
	}
}
