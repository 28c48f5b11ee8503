package llm

import (
	"strings"
)

const maxPromptTextBytes = 12_000

// BuildSystemPrompt composes the system message: role, output contract,
// and the caller-supplied optimisation snippets.
func BuildSystemPrompt(req ExtractRequest) string {
	parts := []string{
		"You are an industrial product-specification extractor. Return ONLY a JSON object that matches the provided JSON Schema.",
		"Extract the product's basic identity (name, code, category, base_price, description), its technical specifications, features, application scenarios, accessories, certificates, and contact info.",
		"Specifications is an object keyed by parameter name; each value is either a string or an object with 'value' and optional 'unit'.",
		"Keep parameter names exactly as written in the document, including Chinese names.",
		"base_price, when present, must be a non-negative number.",
		"Never output null. If a field is not present, omit it.",
	}
	for _, s := range req.OptimizationSnippets {
		if s = strings.TrimSpace(s); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, " ")
}

// BuildUserPrompt packages the document text and focus hints.
func BuildUserPrompt(req ExtractRequest) string {
	var b strings.Builder
	if f := strings.TrimSpace(req.FilenameHint); f != "" {
		b.WriteString("Filename: ")
		b.WriteString(f)
		b.WriteString("\n")
	}
	if len(req.FocusHints) > 0 {
		b.WriteString("Focus on: ")
		b.WriteString(strings.Join(req.FocusHints, "; "))
		b.WriteString("\n")
	}
	b.WriteString("\nDocument text:\n")
	text := req.CleanText
	if len(text) > maxPromptTextBytes {
		cut := text[:maxPromptTextBytes]
		if idx := strings.LastIndexByte(cut, '\n'); idx > 0 {
			cut = cut[:idx]
		}
		b.WriteString(cut)
		b.WriteString("\n…(truncated)")
	} else {
		b.WriteString(text)
	}
	return b.String()
}
