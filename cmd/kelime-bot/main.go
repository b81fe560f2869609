package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	appcfg "github.com/kapu/kelime-bot-go/internal/config"
	"github.com/kapu/kelime-bot-go/internal/discord"
	"github.com/kapu/kelime-bot-go/internal/msgcat"
	"github.com/kapu/kelime-bot-go/internal/obslog"
	"github.com/kapu/kelime-bot-go/internal/wordcache"
	"github.com/kapu/kelime-bot-go/internal/wordgame"
)

func main() {
	cfg, err := appcfg.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}
	if err := obslog.InitFromEnv(); err != nil {
		log.Fatalf("logger init error: %v", err)
	}

	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		log.Fatalf("redis url error: %v", err)
	}
	rdb := redis.NewClient(opts)
	pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		cancel()
		log.Fatalf("redis ping error: %v", err)
	}
	cancel()

	var repo wordgame.Repository
	if cfg.DatabaseURL != "" {
		repo, err = wordgame.NewRepository(cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("repository init error: %v", err)
		}
	} else {
		obslog.L().Warn("no DATABASE_URL configured, archiving games in memory")
		repo = wordgame.NewMemoryRepository()
	}

	cache := wordcache.New(
		[]wordcache.Source{
			wordcache.NewListSource(cfg.WordListURL),
			wordcache.NewWiktionarySource(cfg.WiktionaryURL),
		},
		wordcache.NewTDKLookup(cfg.TDKBaseURL),
		wordcache.WithTTL(cfg.WordCacheTTL),
		wordcache.WithMinWords(cfg.WordCacheMinWords),
	)

	engine := wordgame.NewManager(
		wordgame.NewStore(rdb),
		cache,
		wordgame.WithDeadLetter(cfg.DeadLetter),
		wordgame.WithMaxAutoContinue(cfg.MaxAutoContinue),
	)
	engine.AttachRepository(repo)

	cat, err := msgcat.New(os.Getenv("MESSAGE_TEMPLATE_DIR"))
	if err != nil {
		log.Fatalf("message catalog error: %v", err)
	}

	bot, err := discord.New(cfg.DiscordToken, engine, cache, cat, cfg.BotPrefix, cfg.AllowedChannels)
	if err != nil {
		log.Fatalf("discord init error: %v", err)
	}
	if err := bot.Open(); err != nil {
		log.Fatalf("discord connect error: %v", err)
	}
	obslog.L().Info("bot_ready", zap.String("prefix", cfg.BotPrefix))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	_ = bot.Close()
	_ = repo.Close()
	_ = rdb.Close()
}
