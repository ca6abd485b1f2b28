package service

import (
	"context"
	"encoding/json"

	"github.com/unclebandit/relief-campaign/internal/logger"
	"github.com/unclebandit/relief-campaign/internal/model"
	"github.com/unclebandit/relief-campaign/internal/transport"
)

// SMSWorker processes queued SMS jobs against a gateway
type SMSWorker struct {
	Gateway transport.SMSSender
	Log     *logger.Logger
}

// Constructor
func NewSMSWorker(gateway transport.SMSSender, log *logger.Logger) *SMSWorker {
	return &SMSWorker{
		Gateway: gateway,
		Log:     log.WithComponent("sms_worker"),
	}
}

// Handle decodes one job and sends it. Undecodable jobs are logged and dropped.
func (w *SMSWorker) Handle(ctx context.Context, payload []byte) error {
	var job model.SMSJob
	if err := json.Unmarshal(payload, &job); err != nil {
		w.Log.Warn().Err(err).Msg("invalid sms job")
		return nil
	}

	if err := w.Gateway.Send(ctx, job); err != nil {
		return err
	}

	w.Log.Debug().Int("contact_id", job.ContactID).Str("campaign_id", job.CampaignID).Msg("sms job processed")
	return nil
}
