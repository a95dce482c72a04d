package config

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type Config struct {
	Mode       string `mapstructure:"mode"`
	Port       int    `mapstructure:"port"`
	StaticPath string `mapstructure:"static_path"`
	ReadLimit  int64  `mapstructure:"read_limit"`
	Secret     string `mapstructure:"secret"`

	RoomCapacity int `mapstructure:"room_capacity"`

	TranslatorURL     string        `mapstructure:"translator_url"`
	TranslateTimeout  time.Duration `mapstructure:"translate_timeout"`
	ProbeInterval     time.Duration `mapstructure:"probe_interval"`
	MaxTranslateChars int           `mapstructure:"max_translate_chars"`

	TranscriptDir       string        `mapstructure:"transcript_dir"`
	TranscriptRetention time.Duration `mapstructure:"transcript_retention"`
	SweepInterval       time.Duration `mapstructure:"sweep_interval"`

	DictionaryPath     string `mapstructure:"dictionary_path"`
	TranslationLogPath string `mapstructure:"translation_log_path"`

	ShutdownGrace time.Duration `mapstructure:"shutdown_grace"`
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	env := os.Getenv("CONFIG_ENV")
	if env == "" {
		env = "dev"
	}
	fileName := fmt.Sprintf("config/config.%s.yaml", env)

	v.SetConfigFile(fileName)
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	v.SetDefault("mode", "release")
	v.SetDefault("port", 8080)
	v.SetDefault("static_path", "./web")
	v.SetDefault("read_limit", 65536)
	v.SetDefault("room_capacity", 2)
	v.SetDefault("translator_url", "http://localhost:8000")
	v.SetDefault("translate_timeout", "30s")
	v.SetDefault("probe_interval", "30s")
	v.SetDefault("max_translate_chars", 5000)
	v.SetDefault("transcript_dir", "./transcripts")
	v.SetDefault("transcript_retention", "24h")
	v.SetDefault("sweep_interval", "10m")
	v.SetDefault("dictionary_path", "./data/dictionary.json")
	v.SetDefault("translation_log_path", "./data/translation_log.jsonl")
	v.SetDefault("shutdown_grace", "10s")

	if err := v.ReadInConfig(); err != nil {
		log.Warn().Str("module", "config").Str("file", fileName).Msg("config file not found, using defaults")
	} else {
		log.Info().Str("module", "config").Str("file", fileName).Msg("loaded config")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return &cfg, nil
}
