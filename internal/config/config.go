package config

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/quizbrawl/arena/internal/arena"
)

type Config struct {
	HTTPAddr string     `env:"HTTP_ADDR" envDefault:":8080"`
	DBPath   string     `env:"DB_PATH" envDefault:"data/arena.db"`
	LogLevel slog.Level `env:"LOG_LEVEL" envDefault:"INFO"`
	SPADir   string     `env:"SPA_DIR" envDefault:""`

	// Bootstrap admin, created on first start when no admins exist.
	AdminEmail    string `env:"ADMIN_EMAIL" envDefault:"admin@quizbrawl.local"`
	AdminPassword string `env:"ADMIN_PASSWORD" envDefault:"changeme"`

	// Game rules.
	StartingHealth     int           `env:"STARTING_HEALTH" envDefault:"100"`
	DamagePerWrong     int           `env:"DAMAGE_PER_WRONG" envDefault:"20"`
	MaxChainLinks      int           `env:"MAX_CHAIN_LINKS" envDefault:"10"`
	TurnChangeDelay    time.Duration `env:"TURN_CHANGE_DELAY" envDefault:"2s"`
	DamageGraceDelay   time.Duration `env:"DAMAGE_GRACE_DELAY" envDefault:"1500ms"`
	BroadcastGapDelay  time.Duration `env:"BROADCAST_GAP_DELAY" envDefault:"300ms"`
	ProviderRetryDelay time.Duration `env:"PROVIDER_RETRY_DELAY" envDefault:"1s"`

	// Comma-separated category:weight pairs, e.g. "general:1,chain:0.5".
	CategoryWeights string `env:"CATEGORY_WEIGHTS" envDefault:"general:1,science:1,history:1,chain:0.5"`
}

func Load() (*Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}
	return &cfg, nil
}

// Rules assembles the arena tuning from the parsed environment.
func (c *Config) Rules() (arena.Rules, error) {
	weights, err := parseWeights(c.CategoryWeights)
	if err != nil {
		return arena.Rules{}, err
	}
	return arena.Rules{
		StartingHealth:     c.StartingHealth,
		DamagePerWrong:     c.DamagePerWrong,
		MaxChainLinks:      c.MaxChainLinks,
		CategoryWeights:    weights,
		TurnChangeDelay:    c.TurnChangeDelay,
		DamageGraceDelay:   c.DamageGraceDelay,
		BroadcastGapDelay:  c.BroadcastGapDelay,
		ProviderRetryDelay: c.ProviderRetryDelay,
	}, nil
}

func parseWeights(raw string) (map[string]float64, error) {
	weights := make(map[string]float64)
	for _, pair := range strings.Split(raw, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		name, value, found := strings.Cut(pair, ":")
		if !found {
			return nil, fmt.Errorf("malformed category weight %q", pair)
		}
		w, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil || w < 0 {
			return nil, fmt.Errorf("invalid weight for category %q: %q", name, value)
		}
		weights[strings.TrimSpace(name)] = w
	}
	if len(weights) == 0 {
		return nil, fmt.Errorf("no category weights configured")
	}
	return weights, nil
}
