package llm

import "context"

// Completer is the opaque completion function. Implementations own their
// transport, timeout, and authentication; the adapter owns retries.
type Completer interface {
	Complete(ctx context.Context, systemMessage, userMessage string) (string, error)
}

// CompleterFunc adapts a plain function to the Completer interface.
type CompleterFunc func(ctx context.Context, systemMessage, userMessage string) (string, error)

func (f CompleterFunc) Complete(ctx context.Context, systemMessage, userMessage string) (string, error) {
	return f(ctx, systemMessage, userMessage)
}

// ExtractRequest carries the cleaned document text plus prompt context
// supplied by the caller.
type ExtractRequest struct {
	CleanText string

	// FocusHints and OptimizationSnippets are prompt fragments supplied
	// by the external collaborator; the adapter only splices them in.
	FocusHints           []string
	OptimizationSnippets []string

	FilenameHint string
	UserID       string
}
