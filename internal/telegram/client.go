// Package telegram mirrors stories to a Telegram chat.
package telegram

import (
	"context"
	"fmt"
	"net/http"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// DefaultMessageInterval is Telegram's per-chat send limit of one message per second.
const DefaultMessageInterval = time.Second

// Client sends plain-text messages to one chat.
type Client struct {
	bot     *tgbotapi.BotAPI
	chatID  int64
	limiter *rate.Limiter
	logger  zerolog.Logger
}

type clientOptions struct {
	endpoint   string
	httpClient *http.Client
	interval   time.Duration
	logger     zerolog.Logger
}

// Option configures the Client.
type Option func(*clientOptions)

// WithAPIEndpoint sets the Bot API endpoint format (see tgbotapi.APIEndpoint).
func WithAPIEndpoint(endpoint string) Option {
	return func(o *clientOptions) {
		o.endpoint = endpoint
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(o *clientOptions) {
		o.httpClient = client
	}
}

// WithMessageInterval sets the minimum spacing between messages to the chat.
func WithMessageInterval(d time.Duration) Option {
	return func(o *clientOptions) {
		o.interval = d
	}
}

// WithLogger sets the logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(o *clientOptions) {
		o.logger = logger
	}
}

// NewClient authenticates the bot token and returns a client for chatID.
func NewClient(botToken string, chatID int64, opts ...Option) (*Client, error) {
	o := clientOptions{
		endpoint:   tgbotapi.APIEndpoint,
		httpClient: &http.Client{},
		interval:   DefaultMessageInterval,
		logger:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(&o)
	}

	bot, err := tgbotapi.NewBotAPIWithClient(botToken, o.endpoint, o.httpClient)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}

	return &Client{
		bot:     bot,
		chatID:  chatID,
		limiter: rate.NewLimiter(rate.Every(o.interval), 1),
		logger:  o.logger.With().Str("component", "telegram").Logger(),
	}, nil
}

// SendMessage sends content as plain text. Discord markdown is left as-is.
func (c *Client) SendMessage(ctx context.Context, content string) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	msg := tgbotapi.NewMessage(c.chatID, content)
	msg.DisableWebPagePreview = true

	if _, err := c.bot.Send(msg); err != nil {
		err = fmt.Errorf("failed to send telegram message: %w", err)
		c.logger.Error().Err(err).Int64("chat_id", c.chatID).Msg("Error sending to Telegram")
		return err
	}

	c.logger.Info().Int64("chat_id", c.chatID).Msg("Message sent to Telegram successfully")
	return nil
}
