package entity

import (
	"strings"

	"github.com/wuminghan/specpipe/constants"
)

// Document is the decoded envelope every downstream stage consumes.
// Created once per source document and treated as immutable.
type Document struct {
	Format     constants.Format `json:"format"`
	Lines      []string         `json:"-"`
	ByteSize   int              `json:"byte_size"`
	TextLength int              `json:"text_length"`
	WordCount  int              `json:"word_count"`
	Truncated  bool             `json:"truncated"`
}

// Text joins the document lines back into a single string.
func (d *Document) Text() string {
	return strings.Join(d.Lines, "\n")
}

// NewDocument builds an envelope from decoded lines, filling the derived
// size metadata.
func NewDocument(format constants.Format, lines []string, byteSize int, truncated bool) *Document {
	textLen := 0
	words := 0
	for _, ln := range lines {
		textLen += len([]rune(ln)) + 1
		words += len(strings.Fields(ln))
	}
	if textLen > 0 {
		textLen-- // no trailing newline
	}
	return &Document{
		Format:     format,
		Lines:      lines,
		ByteSize:   byteSize,
		TextLength: textLen,
		WordCount:  words,
		Truncated:  truncated,
	}
}
