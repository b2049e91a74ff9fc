package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/gdg-garage/event-signup-bot/internal/auth"
	"github.com/gdg-garage/event-signup-bot/internal/config"
	"github.com/gdg-garage/event-signup-bot/internal/conversation"
	"github.com/gdg-garage/event-signup-bot/internal/database"
	"github.com/gdg-garage/event-signup-bot/internal/handlers"
	"github.com/gdg-garage/event-signup-bot/internal/notifier"
	"github.com/gdg-garage/event-signup-bot/internal/session"
	"github.com/gdg-garage/event-signup-bot/internal/store"
	"github.com/gdg-garage/event-signup-bot/internal/telegram"
	"github.com/go-chi/chi/v5"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api"
	"github.com/spf13/pflag"
)

func main() {
	flags := config.Flags(os.Args[0])
	if err := flags.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		log.Fatalf("Invalid flags: %v", err)
	}

	// Load Configuration
	cfg, err := config.LoadConfig(flags)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	logger := config.NewLogger(os.Stdout, cfg.Environment, cfg.LogLevel)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Connect to Database
	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}

	events := store.NewEventStore(db)
	registrations := store.NewRegistrationStore(db)
	users := store.NewUserStore(db)

	admin, err := auth.NewCredentials(cfg.AdminLogin, cfg.AdminPassword)
	if err != nil {
		logger.Error("failed to prepare admin credentials", "error", err)
		os.Exit(1)
	}
	authHandler := auth.NewAuthHandler(cfg.JWTSecret, admin)

	sessions := session.NewStore(cfg.SessionTTL)
	go sessions.Run(ctx, time.Minute, logger)
	adminSessions := session.NewStore(conversation.AdminSessionTTL)
	go adminSessions.Run(ctx, time.Minute, logger)

	botDone := startBot(ctx, cfg, logger, conversation.Config{
		Events:        events,
		Registrations: registrations,
		Sessions:      sessions,
		AdminSessions: adminSessions,
		Admin:         admin,
		Notifier:      discordNotifier(cfg, logger),
		Logger:        logger,
		Currency:      cfg.Currency,
	})

	// Initialize Router
	r := chi.NewRouter()
	handlers.RegisterRoutes(r, handlers.Handlers{
		Auth:          authHandler,
		Events:        handlers.NewEventHandler(events, logger),
		Registrations: handlers.NewRegistrationHandler(registrations, users, logger),
		Stats:         handlers.NewStatsHandler(events, registrations, users, logger),
		QRCode:        handlers.NewQRCodeHandler(events, cfg.TelegramBotUsername, logger),
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("starting server", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()

	logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
	}
	<-botDone
	logger.Info("server stopped")
}

// discordNotifier returns nil when Discord is not configured.
func discordNotifier(cfg *config.Config, logger *slog.Logger) conversation.Notifier {
	if cfg.DiscordBotToken == "" || cfg.DiscordNotificationsChannelID == "" {
		logger.Warn("discord notifications disabled: DISCORD_BOT_TOKEN or DISCORD_NOTIFICATIONS_CHANNEL_ID not set")
		return nil
	}
	dg, err := discordgo.New("Bot " + cfg.DiscordBotToken)
	if err != nil {
		logger.Warn("discord notifications disabled", "error", err)
		return nil
	}
	return notifier.NewDiscordNotifier(dg, cfg.DiscordNotificationsChannelID)
}

// startBot runs the Telegram dialog until ctx is done. The returned channel
// closes once the bot has stopped, immediately when it is disabled.
func startBot(ctx context.Context, cfg *config.Config, logger *slog.Logger, engineCfg conversation.Config) <-chan struct{} {
	done := make(chan struct{})
	if cfg.TelegramBotToken == "" {
		logger.Warn("telegram bot disabled: TELEGRAM_BOT_TOKEN not set")
		close(done)
		return done
	}

	api, err := tgbotapi.NewBotAPI(cfg.TelegramBotToken)
	if err != nil {
		logger.Error("telegram bot disabled", "error", err)
		close(done)
		return done
	}
	logger.Info("authorized on telegram", "account", api.Self.UserName)
	if cfg.TelegramBotUsername == "" {
		cfg.TelegramBotUsername = api.Self.UserName
	}

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates, err := api.GetUpdatesChan(u)
	if err != nil {
		logger.Error("telegram bot disabled", "error", err)
		close(done)
		return done
	}

	bot := telegram.NewBot(api, logger)
	engineCfg.Sender = bot
	engine := conversation.NewEngine(engineCfg)

	go func() {
		defer close(done)
		bot.Run(ctx, updates, engine)
		api.StopReceivingUpdates()
	}()
	return done
}
