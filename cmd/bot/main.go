package main

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	bogdanai "github.com/bogdan-labs/bogdanai"
	"github.com/bogdan-labs/bogdanai/internal/config"
	"github.com/bogdan-labs/bogdanai/internal/handler"
	"github.com/bogdan-labs/bogdanai/internal/middleware"
	"github.com/bogdan-labs/bogdanai/internal/service"
	"github.com/bogdan-labs/bogdanai/internal/storage"
	"github.com/bogdan-labs/bogdanai/internal/telegram"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Storage: Postgres when configured, in-memory otherwise
	var store storage.Store
	if cfg.DatabaseURL != "" {
		pool, err := storage.NewPool(ctx, cfg.DatabaseURL)
		if err != nil {
			slog.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer pool.Close()

		migrationsFS, err := fs.Sub(bogdanai.MigrationsFS, "migrations")
		if err != nil {
			slog.Error("failed to load embedded migrations", "error", err)
			os.Exit(1)
		}
		if err := storage.RunMigrations(cfg.DatabaseURL, migrationsFS); err != nil {
			slog.Error("failed to run migrations", "error", err)
			os.Exit(1)
		}
		store = storage.NewPGStore(pool)
	} else {
		slog.Warn("DATABASE_URL not set, using in-memory storage: data is lost on restart")
		store = storage.NewMemStore()
	}

	if !cfg.HasCredential() {
		slog.Warn("OPENROUTER_API_KEY not set, running in demo mode")
	}

	// Services
	sessions := service.NewSessionService(store, nil, cfg.HasCredential())
	gamification := service.NewGamificationService(store, nil)
	openRouter := service.NewOpenRouterService(cfg.OpenRouterKey, cfg.OpenRouterURL)
	translator := service.NewTranslateService(cfg.TranslationURL)
	prefs := service.NewPrefsService(store, sessions, translator)
	quickButtons := service.NewQuickButtonService(store)
	ratings := service.NewRatingService(store, nil)
	favorites := service.NewFavoriteService(store, nil)
	savedChats := service.NewSavedChatService(store, sessions, nil)
	siteConfig := service.NewSiteConfigService(store)

	var h *handler.Handler

	opts := []bot.Option{
		bot.WithMiddlewares(
			middleware.Recover(),
			middleware.Logging(),
			middleware.RateLimit(),
		),
		bot.WithDefaultHandler(func(ctx context.Context, b *bot.Bot, update *models.Update) {
			if h != nil {
				h.HandleText(ctx, b, update)
			}
		}),
	}
	b, err := bot.New(cfg.BotToken, opts...)
	if err != nil {
		slog.Error("failed to create bot", "error", err)
		os.Exit(1)
	}

	if cfg.DropPendingUpdates {
		if _, err := b.DeleteWebhook(ctx, &bot.DeleteWebhookParams{DropPendingUpdates: true}); err != nil {
			slog.Warn("failed to drop pending updates", "error", err)
		}
	}

	me, err := b.GetMe(ctx)
	if err != nil {
		slog.Error("failed to get bot info", "error", err)
		os.Exit(1)
	}

	notifier := telegram.NewNotifier(b, cfg)

	h = handler.New(handler.Deps{
		Bot:          b,
		Cfg:          cfg,
		Sessions:     sessions,
		Gamification: gamification,
		Prefs:        prefs,
		QuickButtons: quickButtons,
		Ratings:      ratings,
		Favorites:    favorites,
		SavedChats:   savedChats,
		SiteConfig:   siteConfig,
		OpenRouter:   openRouter,
		Translator:   translator,
		Notifier:     notifier,
	})
	h.Register()

	slog.Info("starting bot", "username", me.Username, "id", me.ID, "demo", !cfg.HasCredential())
	b.Start(ctx)

	slog.Info("bot stopped gracefully")
}
