// internal/model/sms_job.go
package model

// SMSJob is the payload published for one SMS/WhatsApp message.
type SMSJob struct {
    CampaignID string `json:"campaign_id"`
    ContactID  int    `json:"contact_id"`
    To         string `json:"to"`
    Body       string `json:"body"`
}
