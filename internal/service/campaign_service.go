// internal/service/campaign_service.go
package service

import (
    "context"
    "fmt"
    "strings"

    "github.com/google/uuid"

    appErrors "github.com/unclebandit/relief-campaign/internal/errors"
    "github.com/unclebandit/relief-campaign/internal/logger"
    "github.com/unclebandit/relief-campaign/internal/model"
    "github.com/unclebandit/relief-campaign/internal/repository"
    "github.com/unclebandit/relief-campaign/internal/transport"
)

// ContentSource is satisfied by *ContentGenerator
type ContentSource interface {
    Available() bool
    Generate(ctx context.Context, location string) model.GeneratedContent
}

type EmailChannel interface {
    Dispatch(ctx context.Context, msg transport.Message) bool
}

type SMSChannel interface {
    Dispatch(ctx context.Context, job model.SMSJob) bool
}

type CampaignService struct {
    Generator      ContentSource
    ContactRepo    repository.ContactRepositoryInterface
    Email          EmailChannel
    SMS            SMSChannel
    DonationLink   string
    // DefaultSubject replaces a blank request subject
    DefaultSubject string
    Log            *logger.Logger
}

const statusProcessed = "Campaign trigger processed"

// Run executes one campaign: content is generated once, contacts are resolved
// once, then each contact is processed to completion before the next.
func (s *CampaignService) Run(ctx context.Context, req model.CampaignRequest) (*model.CampaignResult, error) {
    location := strings.TrimSpace(req.FloodLocation)
    if location == "" {
        return nil, appErrors.NewValidation("flood_location", "flood_location must not be empty")
    }

    if s.Generator == nil || !s.Generator.Available() {
        return nil, appErrors.ErrServiceUnavailable
    }

    // a started run is driven to completion even if the caller goes away
    ctx = context.WithoutCancel(ctx)

    campaignID := uuid.NewString()
    log := s.Log.WithCampaignID(campaignID)
    log.Info().
        Str("location", location).
        Ints("target_contact_ids", req.TargetContactIDs).
        Str("email_subject_template", req.EmailSubjectTemplate).
        Str("donation_link", s.DonationLink).
        Msg("triggering campaign")

    content := s.Generator.Generate(ctx, location)
    if !strings.Contains(content.MessageTemplate, model.DonationMarker) {
        reason := content.Error
        if reason == "" {
            reason = "message template missing " + model.DonationMarker + " placeholder"
        }
        content = FallbackContent(location, reason, content.ResearchSummary)
    }
    if content.Fallback() {
        log.Warn().Str("error", content.Error).Msg("AI content generation failed, proceeding with default message template")
    }
    log.Info().
        Str("research_summary", content.ResearchSummary).
        Str("message_template", content.MessageTemplate).
        Str("verification", content.Verification).
        Msg("content ready")

    contacts, err := s.ContactRepo.GetByIDs(ctx, req.TargetContactIDs)
    if err != nil {
        return nil, fmt.Errorf("failed to resolve contacts: %w", err)
    }
    if len(contacts) == 0 {
        log.Warn().Msg("no target contacts found or specified, no messages will be sent")
    } else {
        log.Info().Int("contacts_found", len(contacts)).Msg("resolved target contacts")
    }

    result := &model.CampaignResult{
        Status:            statusProcessed,
        CampaignID:        campaignID,
        FloodLocation:     location,
        ContactsTargetIDs: req.TargetContactIDs,
        ContactsFound:     len(contacts),
        ResearchSummary:   content.ResearchSummary,
        MessageTemplate:   content.MessageTemplate,
        Verification:      content.Verification,
        DonationLink:      s.DonationLink,
        Error:             content.Error,
    }
    if result.ContactsTargetIDs == nil {
        result.ContactsTargetIDs = []int{}
    }

    subjectTemplate := req.EmailSubjectTemplate
    if strings.TrimSpace(subjectTemplate) == "" {
        subjectTemplate = s.DefaultSubject
    }
    subject := RenderSubject(subjectTemplate, location)
    for _, contact := range contacts {
        s.processContact(ctx, log, campaignID, subject, content.MessageTemplate, contact, result)
    }

    log.Info().
        Int("contacts_found", result.ContactsFound).
        Int("emails_sent", result.EmailsSent).
        Int("emails_failed", result.EmailsFailed).
        Int("contacts_skipped_no_email", result.ContactsSkippedNoEmail).
        Int("sms_sent", result.SMSSent).
        Int("sms_failed", result.SMSFailed).
        Msg("campaign processing complete")

    return result, nil
}

// processContact runs both channels for one contact. A panic is contained here
// and recorded against this contact only.
func (s *CampaignService) processContact(ctx context.Context, log *logger.Logger, campaignID, subject, template string, contact model.Contact, result *model.CampaignResult) {
    emailRecorded := false
    defer func() {
        if r := recover(); r != nil {
            log.Error().Interface("panic", r).Int("contact_id", contact.ID).Msg("unexpected error while processing contact")
            if emailRecorded {
                return
            }
            if contact.HasEmail() {
                result.EmailsFailed++
            } else {
                result.ContactsSkippedNoEmail++
            }
        }
    }()

    log.Debug().Int("contact_id", contact.ID).Str("name", contact.Name).Msg("processing contact")

    if contact.HasEmail() {
        msg := transport.Message{
            To:      *contact.Email,
            Subject: subject,
            Body:    Personalize(template, contact, s.DonationLink),
        }
        if s.Email.Dispatch(ctx, msg) {
            result.EmailsSent++
        } else {
            result.EmailsFailed++
        }
    } else {
        log.Info().Int("contact_id", contact.ID).Str("name", contact.Name).Msg("skipping email: no email address found")
        result.ContactsSkippedNoEmail++
    }
    emailRecorded = true

    if contact.HasPhone() {
        job := model.SMSJob{
            CampaignID: campaignID,
            ContactID:  contact.ID,
            To:         *contact.Phone,
            Body:       PersonalizeSMS(template, contact, s.DonationLink),
        }
        if s.SMS.Dispatch(ctx, job) {
            result.SMSSent++
        } else {
            result.SMSFailed++
        }
    }
}
