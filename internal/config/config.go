package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

type AppConfig struct {
	DiscordToken string
	BotPrefix    string

	RedisURL    string
	DatabaseURL string

	AllowedChannels []string

	WordListURL   string
	WiktionaryURL string
	TDKBaseURL    string

	WordCacheTTL      time.Duration
	WordCacheMinWords int

	DeadLetter      rune
	MaxAutoContinue int
}

func Load() (*AppConfig, error) {
	cfg := &AppConfig{
		BotPrefix:         "!",
		WordListURL:       "https://raw.githubusercontent.com/mertemin/turkish-word-list/master/turkish_word_list.txt",
		WiktionaryURL:     "https://tr.wiktionary.org/wiki/Kategori:Türkçe_sözcükler",
		TDKBaseURL:        "https://sozluk.gov.tr",
		WordCacheTTL:      24 * time.Hour,
		WordCacheMinWords: 1000,
		DeadLetter:        'ğ',
		MaxAutoContinue:   3,
	}

	cfg.DiscordToken = strings.TrimSpace(os.Getenv("DISCORD_TOKEN"))
	if v := strings.TrimSpace(os.Getenv("BOT_PREFIX")); v != "" {
		cfg.BotPrefix = v
	}

	cfg.RedisURL = strings.TrimSpace(os.Getenv("REDIS_URL"))
	cfg.DatabaseURL = strings.TrimSpace(os.Getenv("DATABASE_URL"))

	if v := strings.TrimSpace(os.Getenv("ALLOWED_CHANNELS")); v != "" {
		for _, p := range strings.Split(v, ",") {
			if s := strings.TrimSpace(p); s != "" {
				cfg.AllowedChannels = append(cfg.AllowedChannels, s)
			}
		}
	}

	if v := strings.TrimSpace(os.Getenv("WORD_LIST_URL")); v != "" {
		cfg.WordListURL = v
	}
	if v := strings.TrimSpace(os.Getenv("WIKTIONARY_URL")); v != "" {
		cfg.WiktionaryURL = v
	}
	if v := strings.TrimSpace(os.Getenv("TDK_BASE_URL")); v != "" {
		cfg.TDKBaseURL = v
	}

	if v := strings.TrimSpace(os.Getenv("WORD_CACHE_TTL_HOURS")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.WordCacheTTL = time.Duration(n) * time.Hour
		}
	}
	if v := strings.TrimSpace(os.Getenv("WORD_CACHE_MIN_WORDS")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.WordCacheMinWords = n
		}
	}
	if v := strings.TrimSpace(os.Getenv("DEAD_LETTER")); v != "" {
		r, _ := utf8.DecodeRuneInString(v)
		if r != utf8.RuneError {
			cfg.DeadLetter = r
		}
	}
	if v := strings.TrimSpace(os.Getenv("MAX_AUTO_CONTINUE")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.MaxAutoContinue = n
		}
	}

	if cfg.DiscordToken == "" {
		return nil, errors.New("DISCORD_TOKEN is required")
	}
	if cfg.RedisURL == "" {
		return nil, errors.New("REDIS_URL is required")
	}

	return cfg, nil
}
