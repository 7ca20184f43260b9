package handler

import (
	"github.com/bogdan-labs/bogdanai/internal/config"
	"github.com/bogdan-labs/bogdanai/internal/service"
	"github.com/bogdan-labs/bogdanai/internal/telegram"
	"github.com/go-telegram/bot"
)

// Handler holds every dependency the command and callback handlers need.
type Handler struct {
	bot          *bot.Bot
	cfg          *config.Config
	sessions     *service.SessionService
	gamification *service.GamificationService
	prefs        *service.PrefsService
	quickButtons *service.QuickButtonService
	ratings      *service.RatingService
	favorites    *service.FavoriteService
	savedChats   *service.SavedChatService
	siteConfig   *service.SiteConfigService
	openRouter   *service.OpenRouterService
	translator   *service.TranslateService
	notifier     *telegram.Notifier
}

// Deps lists the dependencies required to construct a Handler.
type Deps struct {
	Bot          *bot.Bot
	Cfg          *config.Config
	Sessions     *service.SessionService
	Gamification *service.GamificationService
	Prefs        *service.PrefsService
	QuickButtons *service.QuickButtonService
	Ratings      *service.RatingService
	Favorites    *service.FavoriteService
	SavedChats   *service.SavedChatService
	SiteConfig   *service.SiteConfigService
	OpenRouter   *service.OpenRouterService
	Translator   *service.TranslateService
	Notifier     *telegram.Notifier
}

func New(deps Deps) *Handler {
	return &Handler{
		bot:          deps.Bot,
		cfg:          deps.Cfg,
		sessions:     deps.Sessions,
		gamification: deps.Gamification,
		prefs:        deps.Prefs,
		quickButtons: deps.QuickButtons,
		ratings:      deps.Ratings,
		favorites:    deps.Favorites,
		savedChats:   deps.SavedChats,
		siteConfig:   deps.SiteConfig,
		openRouter:   deps.OpenRouter,
		translator:   deps.Translator,
		notifier:     deps.Notifier,
	}
}
