package service_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unclebandit/relief-campaign/internal/logger"
	"github.com/unclebandit/relief-campaign/internal/model"
	"github.com/unclebandit/relief-campaign/internal/service"
)

const validContent = `{"research_summary":"Heavy rain flooded Houston.","message_template":"Families in Houston need help. [Donation Link]","verification":"Relief is needed."}`

func TestGenerate_ValidResponse(t *testing.T) {
	backend := &MockBackend{Response: validContent}
	gen := service.NewContentGenerator(backend, logger.Nop())

	got := gen.Generate(t.Context(), "Houston, Texas")

	assert.Empty(t, got.Error)
	assert.False(t, got.Fallback())
	assert.Equal(t, "Heavy rain flooded Houston.", got.ResearchSummary)
	assert.Equal(t, "Families in Houston need help. [Donation Link]", got.MessageTemplate)
	require.Len(t, backend.Prompts, 1)
	assert.Contains(t, backend.Prompts[0], "Location: Houston, Texas")
	assert.NotContains(t, backend.Prompts[0], "{location}")
}

func TestGenerate_NotJSON(t *testing.T) {
	gen := service.NewContentGenerator(&MockBackend{Response: "not json"}, logger.Nop())

	got := gen.Generate(t.Context(), "Houston, Texas")

	assert.NotEmpty(t, got.Error)
	assert.Contains(t, got.Error, "LLM response format error")
	assert.Contains(t, got.MessageTemplate, model.DonationMarker)
	assert.Contains(t, got.MessageTemplate, "Houston, Texas")
	assert.Equal(t, "Parsing failed.", got.Verification)
}

func TestGenerate_BackendError(t *testing.T) {
	gen := service.NewContentGenerator(&MockBackend{Err: errors.New("quota exceeded")}, logger.Nop())

	got := gen.Generate(t.Context(), "Lagos")

	assert.Equal(t, "quota exceeded", got.Error)
	assert.Equal(t, "Error during generation.", got.ResearchSummary)
	assert.Contains(t, got.MessageTemplate, model.DonationMarker)
}

func TestGenerate_NoBackend(t *testing.T) {
	gen := service.NewContentGenerator(nil, logger.Nop())

	assert.False(t, gen.Available())
	got := gen.Generate(t.Context(), "Lagos")
	assert.Equal(t, "LLM not initialized. Check API Key.", got.Error)
	assert.Equal(t, "N/A", got.ResearchSummary)
	assert.Contains(t, got.MessageTemplate, model.DonationMarker)
}

func TestValidateContent(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		valid   bool
		message string
	}{
		{name: "plain object", raw: validContent, valid: true},
		{name: "json fence", raw: "```json\n" + validContent + "\n```", valid: true},
		{name: "bare fence", raw: "```\n" + validContent + "\n```", valid: true},
		{name: "not json", raw: "not json", message: "invalid JSON"},
		{name: "missing keys", raw: `{"research_summary":"x"}`, message: "missing required keys: message_template, verification"},
		{name: "non string value", raw: `{"research_summary":1,"message_template":"[Donation Link]","verification":"v"}`, message: `"research_summary" is not a string`},
		{name: "missing marker", raw: `{"research_summary":"s","message_template":"please give","verification":"v"}`, message: "missing '[Donation Link]' placeholder"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			switch v := service.ValidateContent(tt.raw).(type) {
			case service.Valid:
				require.True(t, tt.valid, "expected invalid result")
				assert.Contains(t, v.Content.MessageTemplate, model.DonationMarker)
			case service.Invalid:
				require.False(t, tt.valid, "unexpected invalid result: %s", v.Reason)
				assert.Contains(t, v.Reason, tt.message)
			default:
				t.Fatalf("unexpected validation type %T", v)
			}
		})
	}
}

func TestFallbackContent(t *testing.T) {
	got := service.FallbackContent("Accra", "boom", "N/A")

	assert.Equal(t, "Default message: Please donate to help flood victims in Accra. [Donation Link] (AI generation failed)", got.MessageTemplate)
	assert.Equal(t, "boom", got.Error)
	assert.True(t, got.Fallback())
}
