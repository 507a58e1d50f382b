package main

import (
	"github.com/leeaandrob/polystories/internal/config"
	"github.com/leeaandrob/polystories/internal/content"
	"github.com/leeaandrob/polystories/internal/discord"
	"github.com/leeaandrob/polystories/internal/notify"
	"github.com/leeaandrob/polystories/internal/polymarket"
	"github.com/leeaandrob/polystories/internal/telegram"
	"github.com/rs/zerolog"
)

// app wires the clients and the story pipeline.
type app struct {
	polymarket *polymarket.Client
	notifier   notify.Multi
	pipeline   *content.Pipeline
}

func newApp(cfg *config.Config, logger zerolog.Logger) *app {
	pm := polymarket.NewClient(
		polymarket.WithGammaURL(cfg.GammaAPIURL),
		polymarket.WithDataURL(cfg.DataAPIURL),
		polymarket.WithTimeout(cfg.HTTPTimeout),
		polymarket.WithLogger(logger),
	)
	logger.Debug().Str("gamma", cfg.GammaAPIURL).Msg("Polymarket client initialized")

	notifiers := notify.Multi{
		discord.NewClient(cfg.DiscordWebhookURL,
			discord.WithUsername(cfg.BotUsername),
			discord.WithAvatarURL(cfg.BotAvatarURL),
			discord.WithTimeout(cfg.HTTPTimeout),
			discord.WithLogger(logger),
		),
	}

	if cfg.TelegramEnabled() {
		tg, err := telegram.NewClient(cfg.TelegramBotToken, cfg.TelegramChatID, telegram.WithLogger(logger))
		if err != nil {
			logger.Warn().Err(err).Msg("Telegram mirror not initialized")
		} else {
			notifiers = append(notifiers, tg)
			logger.Info().Int64("chat_id", cfg.TelegramChatID).Msg("Telegram mirror initialized")
		}
	}

	return &app{
		polymarket: pm,
		notifier:   notifiers,
		pipeline:   content.NewPipeline(pm, notifiers, content.WithLogger(logger)),
	}
}
