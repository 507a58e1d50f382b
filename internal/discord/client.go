// Package discord posts messages to a Discord channel webhook.
package discord

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"
)

const (
	DefaultUsername  = "Polymarket Bot"
	DefaultAvatarURL = "https://polymarket.com/favicon.ico"

	// DefaultTimeout for webhook requests.
	DefaultTimeout = 30 * time.Second
)

// ErrNoWebhookURL is returned when no webhook URL was configured.
var ErrNoWebhookURL = errors.New("no Discord webhook URL provided")

// StatusError is returned when the webhook answers with anything but 204.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("discord webhook returned %d: %s", e.StatusCode, e.Body)
}

// Payload is the JSON body accepted by Discord webhooks.
type Payload struct {
	Content   string `json:"content"`
	Username  string `json:"username"`
	AvatarURL string `json:"avatar_url"`
}

// Client posts to a single webhook URL.
type Client struct {
	webhookURL string
	username   string
	avatarURL  string
	http       *resty.Client
	logger     zerolog.Logger
}

type clientOptions struct {
	username   string
	avatarURL  string
	timeout    time.Duration
	httpClient *http.Client
	logger     zerolog.Logger
}

// Option configures the Client.
type Option func(*clientOptions)

// WithUsername overrides the display name shown on posted messages.
func WithUsername(name string) Option {
	return func(o *clientOptions) {
		o.username = name
	}
}

// WithAvatarURL overrides the avatar shown on posted messages.
func WithAvatarURL(u string) Option {
	return func(o *clientOptions) {
		o.avatarURL = u
	}
}

// WithTimeout sets the request timeout.
func WithTimeout(d time.Duration) Option {
	return func(o *clientOptions) {
		o.timeout = d
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(o *clientOptions) {
		o.httpClient = client
	}
}

// WithLogger sets the logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(o *clientOptions) {
		o.logger = logger
	}
}

// NewClient creates a webhook client. An empty URL is accepted; every send then fails.
func NewClient(webhookURL string, opts ...Option) *Client {
	o := clientOptions{
		username:  DefaultUsername,
		avatarURL: DefaultAvatarURL,
		timeout:   DefaultTimeout,
		logger:    zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(&o)
	}

	var r *resty.Client
	if o.httpClient != nil {
		r = resty.NewWithClient(o.httpClient)
	} else {
		r = resty.New()
	}

	return &Client{
		webhookURL: webhookURL,
		username:   o.username,
		avatarURL:  o.avatarURL,
		http:       newRESTClient(r).SetTimeout(o.timeout),
		logger:     o.logger.With().Str("component", "discord").Logger(),
	}
}

func newRESTClient(c *resty.Client) *resty.Client {
	return c.
		SetRetryCount(0).
		SetHeader("Content-Type", "application/json").
		SetHeader("User-Agent", "polystories/1.0")
}

// SendMessage posts content to the webhook. It returns nil only when Discord
// answers 204 No Content; any other outcome is logged and returned.
func (c *Client) SendMessage(ctx context.Context, content string) error {
	if c.webhookURL == "" {
		c.logger.Error().Err(ErrNoWebhookURL).Msg("Cannot send message")
		return ErrNoWebhookURL
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(Payload{
			Content:   content,
			Username:  c.username,
			AvatarURL: c.avatarURL,
		}).
		Post(c.webhookURL)

	if err != nil {
		err = fmt.Errorf("failed to post to webhook: %w", err)
		c.logger.Error().Err(err).Msg("Error sending to Discord")
		return err
	}

	if resp.StatusCode() != http.StatusNoContent {
		err := &StatusError{StatusCode: resp.StatusCode(), Body: resp.String()}
		c.logger.Error().Int("status", resp.StatusCode()).Msg("Failed to send message")
		return err
	}

	c.logger.Info().Int("length", len(content)).Msg("Message sent to Discord successfully")
	return nil
}
