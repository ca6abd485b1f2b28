// internal/service/content_service.go
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/unclebandit/relief-campaign/internal/llm"
	"github.com/unclebandit/relief-campaign/internal/logger"
	"github.com/unclebandit/relief-campaign/internal/model"
)

const fallbackTemplate = "Default message: Please donate to help flood victims in {location}. " + model.DonationMarker + " (AI generation failed)"

const outreachPrompt = `You are an assistant for a relief organization helping flood victims in {location}.
1. Briefly summarize the recent flood situation in {location} (1-2 sentences). Assume a significant event occurred requiring aid.
2. Based on the situation, write an empathetic email body (2-4 sentences) asking for donations. Address the reader generally (e.g., start directly with the appeal or use "Dear friend,"). Mention the location. Crucially, include the exact placeholder text "[Donation Link]" where the donation link should go.
3. Provide a brief verification statement (1 sentence) confirming that relief efforts are likely needed based on the summary.

Return the response strictly as a JSON object with keys 'research_summary', 'message_template' (the email body including '[Donation Link]'), and 'verification'. The entire response must be a single, valid JSON object.

Example Output for "City X":
{
  "research_summary": "Recent heavy rains have caused significant flooding and displacement in City X, impacting numerous homes and infrastructure.",
  "message_template": "The recent devastating floods in City X have left many families in urgent need of assistance. Your contribution can provide essential supplies like food, water, and temporary shelter during this critical time. Please consider donating today to support the relief efforts. [Donation Link]",
  "verification": "Based on reports of widespread flooding and displacement, relief efforts are urgently needed."
}
---
Location: {location}
Respond ONLY with the JSON object. Do not include markdown formatting like ` + "```json ... ```" + `.`

var requiredContentKeys = []string{"research_summary", "message_template", "verification"}

// ContentValidation is either Valid or Invalid.
type ContentValidation interface {
	isContentValidation()
}

type Valid struct {
	Content model.GeneratedContent
}

type Invalid struct {
	Reason string
}

func (Valid) isContentValidation()   {}
func (Invalid) isContentValidation() {}

// ContentGenerator drafts the campaign copy and guarantees it carries the donation marker.
type ContentGenerator struct {
	Backend llm.Backend
	Log     *logger.Logger
}

func NewContentGenerator(backend llm.Backend, log *logger.Logger) *ContentGenerator {
	return &ContentGenerator{Backend: backend, Log: log.WithComponent("content_generator")}
}

// Available is false when the backend failed to initialise at startup.
func (g *ContentGenerator) Available() bool {
	return g != nil && g.Backend != nil
}

// Generate never fails: every problem degrades to the fallback template with Error set.
func (g *ContentGenerator) Generate(ctx context.Context, location string) model.GeneratedContent {
	if !g.Available() {
		return FallbackContent(location, "LLM not initialized. Check API Key.", "N/A")
	}

	prompt := RenderTemplate(outreachPrompt, map[string]string{"location": location})
	raw, err := g.Backend.Complete(ctx, prompt)
	if err != nil {
		g.Log.Error().Err(err).Str("location", location).Msg("error during LLM call")
		return FallbackContent(location, err.Error(), "Error during generation.")
	}

	switch v := ValidateContent(raw).(type) {
	case Valid:
		return v.Content
	case Invalid:
		g.Log.Warn().
			Str("location", location).
			Str("reason", v.Reason).
			Str("raw_output", raw).
			Msg("could not parse LLM JSON response or validation failed")
		return FallbackContent(location, "LLM response format error: "+v.Reason, "Parsing failed.")
	}
	return FallbackContent(location, "unexpected validation result", "Parsing failed.")
}

// FallbackContent is the deterministic, marker-carrying default copy.
func FallbackContent(location, reason, note string) model.GeneratedContent {
	return model.GeneratedContent{
		ResearchSummary: note,
		MessageTemplate: RenderTemplate(fallbackTemplate, map[string]string{"location": location}),
		Verification:    note,
		Error:           reason,
	}
}

// ValidateContent checks raw backend output against the three-key contract.
func ValidateContent(raw string) ContentValidation {
	text := stripCodeFences(raw)

	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(text), &fields); err != nil {
		return Invalid{Reason: fmt.Sprintf("invalid JSON: %v", err)}
	}

	values := make(map[string]string, len(requiredContentKeys))
	var missing []string
	for _, key := range requiredContentKeys {
		rawValue, ok := fields[key]
		if !ok {
			missing = append(missing, key)
			continue
		}
		var s string
		if err := json.Unmarshal(rawValue, &s); err != nil {
			return Invalid{Reason: fmt.Sprintf("key %q is not a string", key)}
		}
		values[key] = s
	}
	if len(missing) > 0 {
		return Invalid{Reason: "LLM JSON response missing required keys: " + strings.Join(missing, ", ")}
	}

	if !strings.Contains(values["message_template"], model.DonationMarker) {
		return Invalid{Reason: "LLM message_template missing '" + model.DonationMarker + "' placeholder."}
	}

	return Valid{Content: model.GeneratedContent{
		ResearchSummary: values["research_summary"],
		MessageTemplate: values["message_template"],
		Verification:    values["verification"],
	}}
}

// stripCodeFences removes a leading ``` or ```json line marker and a trailing ```.
func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	switch {
	case strings.HasPrefix(s, "```json"):
		s = s[len("```json"):]
	case strings.HasPrefix(s, "```"):
		s = s[len("```"):]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
