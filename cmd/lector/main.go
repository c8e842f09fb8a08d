package main

import (
	"context"
	"log"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/glabrego/lector-cli/internal/app"
	"github.com/glabrego/lector-cli/internal/config"
	"github.com/glabrego/lector-cli/internal/newsapi"
	"github.com/glabrego/lector-cli/internal/reader"
	"github.com/glabrego/lector-cli/internal/render/text"
	"github.com/glabrego/lector-cli/internal/storage"
	"github.com/glabrego/lector-cli/internal/tui"
)

func main() {
	cfg, err := config.LoadFromEnv()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	repo, err := storage.NewRepository(cfg.DBPath)
	if err != nil {
		log.Fatalf("storage init error: %v", err)
	}
	defer repo.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := repo.Init(ctx); err != nil {
		log.Fatalf("storage schema error: %v", err)
	}

	client := newsapi.NewClient(cfg.BackendBaseURL, nil)
	service := app.NewService(client, repo)

	orch := reader.NewOrchestrator(reader.NewStores(), text.Extract)

	model := tui.NewModel(service, client, orch, tui.Options{
		SidebarOpen:    service.SidebarOpen(ctx),
		ChatModel:      cfg.ChatModel,
		VoiceID:        cfg.VoiceID,
		RequestTimeout: cfg.RequestTimeout,
	})

	program := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		log.Fatalf("tui error: %v", err)
	}
}
