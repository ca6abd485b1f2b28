// Package transport contains the per-channel dispatch adapters. Dispatchers
// turn every send failure into a logged false outcome.
package transport

import (
	"context"
	"errors"
	"fmt"

	"github.com/unclebandit/relief-campaign/internal/logger"
)

var (
	ErrNotConfigured = errors.New("email not configured")
	ErrNoRecipient   = errors.New("no recipient address provided")
)

// Message is a plain-text email.
type Message struct {
	To      string
	Subject string
	Body    string
}

// EmailSender is implemented by each email provider.
type EmailSender interface {
	Send(ctx context.Context, msg Message) error
}

// DisabledSender is used when email configuration is incomplete.
type DisabledSender struct{}

func (DisabledSender) Send(ctx context.Context, msg Message) error {
	return ErrNotConfigured
}

// EmailDispatcher wraps a provider and reports success as a bool.
type EmailDispatcher struct {
	Sender EmailSender
	Log    *logger.Logger
}

func NewEmailDispatcher(sender EmailSender, log *logger.Logger) *EmailDispatcher {
	return &EmailDispatcher{Sender: sender, Log: log.WithComponent("email")}
}

// Dispatch attempts one send. Errors and panics from the provider are logged with
// their classified reason and reported as false.
func (d *EmailDispatcher) Dispatch(ctx context.Context, msg Message) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			d.fail(msg, fmt.Errorf("email provider panic: %v", r))
			ok = false
		}
	}()

	if msg.To == "" {
		d.fail(msg, ErrNoRecipient)
		return false
	}

	d.Log.Debug().Str("to", msg.To).Msg("attempting to send email")
	if err := d.Sender.Send(ctx, msg); err != nil {
		d.fail(msg, err)
		return false
	}

	d.Log.Info().Str("to", msg.To).Msg("email successfully sent")
	return true
}

func (d *EmailDispatcher) fail(msg Message, err error) {
	reason := Classify(err)
	event := d.Log.Error()
	if reason == ReasonNotConfigured || reason == ReasonNoRecipient {
		event = d.Log.Warn()
	}
	event.Err(err).
		Str("to", msg.To).
		Str("reason", string(reason)).
		Msg("skipping or failed email send")
}
