// Package config holds process settings shared by the rayfighter binaries.
// Values come from RAYFIGHTER_* environment variables and may be overridden
// by command-line flags.
package config

import "flag"

type Config struct {
	Fighter    string `env:"RAYFIGHTER_FIGHTER" envDefault:"blaze"`
	Opponent   string `env:"RAYFIGHTER_OPPONENT" envDefault:"granite"`
	Difficulty string `env:"RAYFIGHTER_DIFFICULTY" envDefault:"normal"`
	Daily      bool   `env:"RAYFIGHTER_DAILY"`
	Seed       uint64 `env:"RAYFIGHTER_SEED"`

	SavePath   string `env:"RAYFIGHTER_SAVE_PATH" envDefault:"rayfighter.db"`
	PrefabsDir string `env:"RAYFIGHTER_PREFABS_DIR" envDefault:"prefabs"`
	Watch      bool   `env:"RAYFIGHTER_WATCH" envDefault:"true"`
	Mute       bool   `env:"RAYFIGHTER_MUTE"`

	LogLevel  string `env:"RAYFIGHTER_LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"RAYFIGHTER_LOG_FORMAT" envDefault:"text"`
}

// Load parses the environment.
func Load() (Config, error) {
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// BindFlags registers flags on fs that default to the current values, so
// flags win over the environment after fs.Parse.
func (c *Config) BindFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.Fighter, "fighter", c.Fighter, "player fighter id")
	fs.StringVar(&c.Opponent, "opponent", c.Opponent, "opponent fighter id")
	fs.StringVar(&c.Difficulty, "difficulty", c.Difficulty, "easy, normal, hard or nightmare")
	fs.BoolVar(&c.Daily, "daily", c.Daily, "play today's daily challenge")
	fs.Uint64Var(&c.Seed, "seed", c.Seed, "ai random seed (0 picks one from the clock)")
	fs.StringVar(&c.SavePath, "save", c.SavePath, "sqlite save file, empty keeps progress in memory")
	fs.StringVar(&c.PrefabsDir, "prefabs", c.PrefabsDir, "directory whose yaml files override the embedded prefabs")
	fs.BoolVar(&c.Watch, "watch", c.Watch, "reload prefabs when files change")
	fs.BoolVar(&c.Mute, "mute", c.Mute, "disable audio")
	fs.StringVar(&c.LogLevel, "log-level", c.LogLevel, "debug, info, warn or error")
	fs.StringVar(&c.LogFormat, "log-format", c.LogFormat, "text or json")
}
