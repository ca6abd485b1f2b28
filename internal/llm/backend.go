// Package llm holds the generative text backends used to draft outreach copy.
package llm

import "context"

// Backend is an opaque text-completion service. Its output is untrusted.
type Backend interface {
	Complete(ctx context.Context, prompt string) (string, error)
}
