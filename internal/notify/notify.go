// Package notify defines the delivery capability used by the story pipeline.
package notify

import (
	"context"
	"errors"
)

// ErrNoNotifiers is returned by an empty Multi.
var ErrNoNotifiers = errors.New("no notifiers configured")

// Notifier delivers one rendered message. A nil error means the message was accepted.
type Notifier interface {
	SendMessage(ctx context.Context, content string) error
}

// Func adapts a function to the Notifier interface.
type Func func(ctx context.Context, content string) error

func (f Func) SendMessage(ctx context.Context, content string) error {
	return f(ctx, content)
}

// Multi sends every message to each notifier in order. It succeeds when at
// least one notifier accepted the message.
type Multi []Notifier

func (m Multi) SendMessage(ctx context.Context, content string) error {
	if len(m) == 0 {
		return ErrNoNotifiers
	}

	var errs []error
	delivered := false
	for _, n := range m {
		if err := n.SendMessage(ctx, content); err != nil {
			errs = append(errs, err)
			continue
		}
		delivered = true
	}

	if delivered {
		return nil
	}
	return errors.Join(errs...)
}
