package view

import (
	"fmt"
	"strings"

	tuitheme "github.com/glabrego/lector-cli/internal/tui/theme"
)

type Focus string

const (
	FocusSidebar Focus = "sidebar"
	FocusList    Focus = "list"
	FocusDetail  Focus = "detail"
	FocusPanel   Focus = "panel"
	FocusInput   Focus = "input"
)

func Toolbar(focus Focus) string {
	switch focus {
	case FocusSidebar:
		return "j/k move | enter open feed | left/right collapse/expand | / search | tab articles | b toggle sidebar | + add feed | ? help | q quit"
	case FocusList:
		return "j/k move | enter read | tab sidebar | r refresh | ? help | q quit"
	case FocusDetail:
		return "j/k scroll | t translate | space narrate | x stop | i sentiment | c chat | o open | y copy | esc back | ? help"
	case FocusPanel:
		return "esc close panel | i/c switch panel | j/k scroll | ? help"
	case FocusInput:
		return "enter send/stop | esc cancel | ctrl+t cycle model"
	default:
		return "? help | q quit"
	}
}

func Footer(focus Focus, category, source, language, narration string, shown int, th tuitheme.Theme) string {
	parts := []string{
		th.MetaLabel.Render("mode") + " " + th.MetaValue.Render(string(focus)),
	}
	if source != "" {
		parts = append(parts, th.MetaLabel.Render("feed")+" "+th.MetaValue.Render(category+"/"+source))
	}
	parts = append(parts, th.MetaValue.Render(fmt.Sprintf("%d shown", shown)))
	if language != "" {
		parts = append(parts, th.LanguagePill.Render(language))
	}
	if narration != "" && narration != "idle" {
		parts = append(parts, th.NarrationPill.Render("narration "+narration))
	}
	return strings.Join(parts, " • ")
}

func Message(loading bool, hasWarning bool, status, warning string, th tuitheme.Theme) string {
	state := "idle"
	if loading {
		state = "loading"
	}
	if hasWarning {
		state = "warning"
	}
	main := "Ready"
	if status != "" {
		main = status
	} else if hasWarning {
		main = warning
	}
	stateLabel := th.StateIdle.Render("state")
	switch state {
	case "warning":
		stateLabel = th.StateWarn.Render("state")
	case "loading":
		stateLabel = th.StateLoad.Render("state")
	}
	return fmt.Sprintf("%s: %s | %s", stateLabel, state, th.MetaValue.Render(main))
}
