// internal/service/template_service.go
package service

import (
    "strings"

    "github.com/unclebandit/relief-campaign/internal/model"
)

// RenderTemplate replaces each {key} in template with its value.
func RenderTemplate(template string, data map[string]string) string {
    result := template
    for k, v := range data {
        result = strings.ReplaceAll(result, "{"+k+"}", v)
    }
    return result
}

// RenderSubject fills {location} into the subject, using the default subject when it is blank.
func RenderSubject(subjectTemplate, location string) string {
    if strings.TrimSpace(subjectTemplate) == "" {
        subjectTemplate = model.DefaultSubjectTemplate
    }
    return RenderTemplate(subjectTemplate, map[string]string{"location": location})
}

// Personalize builds the email body: a greeting line for the contact followed by
// the template with every donation marker replaced by donationLink.
func Personalize(template string, contact model.Contact, donationLink string) string {
    return withLink("Dear "+contact.Name+",\n\n"+template, donationLink)
}

// PersonalizeSMS builds the short SMS/WhatsApp body.
func PersonalizeSMS(template string, contact model.Contact, donationLink string) string {
    return withLink("Hi "+contact.Name+", "+template, donationLink)
}

func withLink(text, donationLink string) string {
    return strings.ReplaceAll(text, model.DonationMarker, donationLink)
}
