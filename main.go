package main

import (
	"fmt"
	"log"
	"os"

	"github.com/sanity-io/litter"
	"gopkg.in/yaml.v3"

	"github.com/lazharichir/holdem/domain"
	"github.com/lazharichir/holdem/domain/events"
	"github.com/lazharichir/holdem/game"
	"github.com/lazharichir/holdem/server"
)

// Config holds the server's startup parameters, loaded from config.yaml
// when present.
type Config struct {
	Port       string `yaml:"port"`
	MaxPlayers int    `yaml:"maxPlayers"`
	SmallBlind int    `yaml:"smallBlind"`
	BigBlind   int    `yaml:"bigBlind"`
	Debug      bool   `yaml:"debug"`
}

func defaultConfig() Config {
	return Config{
		Port:       "7777",
		MaxPlayers: 9,
		SmallBlind: 10,
		BigBlind:   20,
	}
}

func loadConfig(path string) (Config, error) {
	cfg := defaultConfig()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, err
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing %s: %w", path, err)
	}
	return cfg, nil
}

// dumpingStore prints every envelope before persisting it. Debug only.
type dumpingStore struct {
	events.EventStore
}

func (d dumpingStore) Append(envelope events.Envelope) error {
	litter.Dump(envelope)
	return d.EventStore.Append(envelope)
}

func main() {
	fmt.Println("Starting Hold'em Game Backend...")

	cfg, err := loadConfig("config.yaml")
	if err != nil {
		log.Fatalf("Config failed: %v", err)
	}

	var store events.EventStore = events.NewInMemoryEventStore()
	if cfg.Debug {
		store = dumpingStore{EventStore: store}
	}
	manager := game.NewManager(store)

	s := server.NewServer(manager, domain.TableConfig{
		MaxPlayers: cfg.MaxPlayers,
		SmallBlind: cfg.SmallBlind,
		BigBlind:   cfg.BigBlind,
	})

	if err := s.Start(cfg.Port); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
