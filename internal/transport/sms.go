package transport

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/unclebandit/relief-campaign/internal/logger"
	"github.com/unclebandit/relief-campaign/internal/model"
	"github.com/unclebandit/relief-campaign/internal/queue"
)

// SMSSender is implemented by SMS/WhatsApp transports.
type SMSSender interface {
	Send(ctx context.Context, job model.SMSJob) error
}

// SimulatedSMS only logs the message it would have sent.
type SimulatedSMS struct {
	Log *logger.Logger
}

func (s *SimulatedSMS) Send(ctx context.Context, job model.SMSJob) error {
	if job.To == "" {
		return ErrNoRecipient
	}
	s.Log.Info().
		Str("campaign_id", job.CampaignID).
		Int("contact_id", job.ContactID).
		Str("to", job.To).
		Str("preview", preview(job.Body, 70)).
		Msg("SIMULATING WhatsApp/SMS")
	return nil
}

// QueueSMS hands SMS jobs to a queue for the gateway worker.
type QueueSMS struct {
	Publisher queue.Publisher
	Topic     string
}

func (q *QueueSMS) Send(ctx context.Context, job model.SMSJob) error {
	if job.To == "" {
		return ErrNoRecipient
	}
	payload, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("failed to marshal sms job: %w", err)
	}
	return q.Publisher.Publish(ctx, q.Topic, payload)
}

// SMSDispatcher wraps an SMSSender and reports success as a bool.
type SMSDispatcher struct {
	Sender SMSSender
	Log    *logger.Logger
}

func NewSMSDispatcher(sender SMSSender, log *logger.Logger) *SMSDispatcher {
	return &SMSDispatcher{Sender: sender, Log: log.WithComponent("sms")}
}

func (d *SMSDispatcher) Dispatch(ctx context.Context, job model.SMSJob) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			d.Log.Error().Interface("panic", r).Str("to", job.To).Msg("sms transport panic")
			ok = false
		}
	}()

	if err := d.Sender.Send(ctx, job); err != nil {
		d.Log.Error().
			Err(err).
			Str("to", job.To).
			Str("reason", string(Classify(err))).
			Msg("failed to send sms")
		return false
	}
	return true
}

func preview(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
