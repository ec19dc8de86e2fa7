// Package bootstrap builds the collaborators shared by the server and the worker.
package bootstrap

import (
	"fmt"
	"strings"

	"github.com/suPer8Hu/car-advisor/internal/ai"
	"github.com/suPer8Hu/car-advisor/internal/catalog"
	"github.com/suPer8Hu/car-advisor/internal/chat"
	"github.com/suPer8Hu/car-advisor/internal/config"
	"github.com/suPer8Hu/car-advisor/internal/logging"
	"gorm.io/gorm"
)

// Generator returns the configured text generator. Nothing is contacted
// until the first chat message falls through to it.
func Generator(cfg config.Config) (ai.Provider, error) {
	reg := ai.NewDefaultRegistry(cfg)
	name := strings.ToLower(strings.TrimSpace(cfg.AIProvider))
	if name == "" {
		name = "ollama"
	}
	known := false
	for _, n := range reg.Names() {
		if n == name {
			known = true
			break
		}
	}
	if !known {
		return nil, fmt.Errorf("bootstrap: unsupported AI_PROVIDER=%q (have %v)", cfg.AIProvider, reg.Names())
	}
	return ai.WithBreaker(name, reg.Lazy(name, cfg.AIModel), 0), nil
}

// Catalog loads the dataset and wraps it in the recommender.
func Catalog(path string) (*catalog.Engine, error) {
	table, err := catalog.Load(path)
	if err != nil {
		return nil, err
	}
	logging.Info().Str("path", path).Int("records", table.Len()).Msg("dataset loaded")
	return catalog.NewEngine(table), nil
}

// ChatService migrates the chat tables and assembles the service.
func ChatService(cfg config.Config, gdb *gorm.DB, recommender chat.Recommender, generator ai.Provider) (*chat.Service, error) {
	repo := chat.NewRepo(gdb)
	if err := repo.AutoMigrate(); err != nil {
		return nil, fmt.Errorf("bootstrap: migrate: %w", err)
	}
	return chat.NewService(repo, recommender, generator, chat.Options{
		MaxReplyRunes:       cfg.ChatMaxReplyRunes,
		DefaultFuel:         cfg.ChatDefaultFuel,
		DefaultTransmission: cfg.ChatDefaultTransmission,
	}), nil
}
