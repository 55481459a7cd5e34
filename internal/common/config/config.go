package config

import (
	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	Debug bool `env:"DEBUG" envDefault:"false"`

	Server struct {
		Port   int    `env:"PORT" envDefault:"8080"`
		Origin string `env:"ORIGIN" envDefault:"http://localhost:3000"`
	}

	Discord struct {
		BotToken string `env:"BOT_TOKEN,required"`
		// GuildID limits slash command registration to a single guild when set;
		// empty registers commands globally.
		GuildID string `env:"DISCORD_GUILD_ID" envDefault:""`
	}

	Storage struct {
		// Driver selects the persistence backend: "file" or "redis".
		Driver       string `env:"STORAGE_DRIVER" envDefault:"file"`
		SnapshotPath string `env:"STORAGE_SNAPSHOT_PATH" envDefault:"data/auctions.json"`
		ClosedPath   string `env:"STORAGE_CLOSED_PATH" envDefault:"data/auctions_closed.json"`
		BindingsPath string `env:"STORAGE_BINDINGS_PATH" envDefault:"data/bindings.json"`
	}

	Auction struct {
		// Timezone is the fixed reference timezone for bare HH:MM deadlines.
		Timezone string `env:"AUCTION_TIMEZONE" envDefault:"UTC"`
	}

	Redis struct {
		Host     string `env:"REDIS_HOST" envDefault:"localhost"`
		Port     int    `env:"REDIS_PORT" envDefault:"6379"`
		Password string `env:"REDIS_PASSWORD" envDefault:""`
		DB       int    `env:"REDIS_DB" envDefault:"0"`
	}
}

func Load() *Config {
	// Missing .env is fine; production sets variables directly.
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		panic(err)
	}

	return cfg
}
