// internal/model/campaign.go
package model

// DonationMarker is the placeholder every message template must carry.
const DonationMarker = "[Donation Link]"

// DefaultSubjectTemplate is used when a request leaves the subject empty.
const DefaultSubjectTemplate = "Urgent: Support Needed for {location} Flood Relief"

type CampaignRequest struct {
    FloodLocation        string `json:"flood_location"`
    TargetContactIDs     []int  `json:"target_contact_ids"`
    EmailSubjectTemplate string `json:"email_subject_template"`
}

// GeneratedContent is the outreach copy shared by every contact of a campaign.
// Error is set only when the copy is the fallback template.
type GeneratedContent struct {
    ResearchSummary string `json:"research_summary"`
    MessageTemplate string `json:"message_template"`
    Verification    string `json:"verification"`
    Error           string `json:"error,omitempty"`
}

// Fallback reports whether the content came from the default template.
func (g GeneratedContent) Fallback() bool {
    return g.Error != ""
}

type CampaignResult struct {
    Status                 string `json:"status"`
    CampaignID             string `json:"campaign_id"`
    FloodLocation          string `json:"flood_location"`
    ContactsTargetIDs      []int  `json:"contacts_target_ids"`
    ContactsFound          int    `json:"contacts_found"`
    EmailsSent             int    `json:"emails_sent"`
    EmailsFailed           int    `json:"emails_failed"`
    ContactsSkippedNoEmail int    `json:"contacts_skipped_no_email"`
    SMSSent                int    `json:"sms_sent"`
    SMSFailed              int    `json:"sms_failed"`
    ResearchSummary        string `json:"research_summary"`
    MessageTemplate        string `json:"message_template"`
    Verification           string `json:"verification"`
    DonationLink           string `json:"donation_link"`
    Error                  string `json:"error,omitempty"`
}
