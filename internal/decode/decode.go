// Package decode turns source-document bytes into the text envelope the
// pipeline consumes. Each format has its own extraction path; the legacy
// .doc path is best-effort by contract and leans on the text cleaner to
// recover from binary residue.
package decode

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/wuminghan/specpipe/constants"
	"github.com/wuminghan/specpipe/internal/common"
	"github.com/wuminghan/specpipe/internal/entity"
)

const defaultMaxTextBytes = 500_000

type Decoder struct {
	maxTextBytes int
	logger       *slog.Logger
}

func New(maxTextBytes int, logger *slog.Logger) *Decoder {
	if maxTextBytes <= 0 {
		maxTextBytes = defaultMaxTextBytes
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Decoder{maxTextBytes: maxTextBytes, logger: logger}
}

// Decode dispatches on format and returns the document envelope. Unknown
// formats fail with UNSUPPORTED_FORMAT; unreadable bytes fail with
// CORRUPT_INPUT. Binary contamination inside a readable .doc is not an
// error here.
func (d *Decoder) Decode(data []byte, format constants.Format) (*entity.Document, error) {
	var (
		lines []string
		err   error
	)
	switch format {
	case constants.PDF:
		lines, err = decodePDF(data)
	case constants.DOCX:
		lines, err = decodeDOCX(data)
	case constants.DOC:
		lines, err = decodeDOC(data)
	case constants.XLSX:
		lines, err = decodeXLSX(data)
	case constants.TXT, constants.IMAGE:
		// image input arrives pre-OCR'd; both decode as permissive text
		lines = decodeTXT(data)
	default:
		return nil, common.UnsupportedFormatError(fmt.Sprintf("unsupported document format %q", format))
	}
	if err != nil {
		return nil, common.CorruptInputError(fmt.Sprintf("decode %s", format), err)
	}

	lines, truncated := truncate(lines, d.maxTextBytes)
	doc := entity.NewDocument(format, lines, len(data), truncated)
	d.logger.Debug("decode.ok",
		"format", string(format),
		"byte_size", doc.ByteSize,
		"lines", len(doc.Lines),
		"words", doc.WordCount,
		"truncated", doc.Truncated,
	)
	return doc, nil
}

// truncate cuts the line sequence at the byte ceiling, always at a line
// boundary.
func truncate(lines []string, maxBytes int) ([]string, bool) {
	total := 0
	for i, ln := range lines {
		total += len(ln) + 1
		if total > maxBytes {
			return lines[:i], true
		}
	}
	return lines, false
}

// splitLines normalises CRLF and vertical whitespace into plain lines.
func splitLines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	return strings.Split(text, "\n")
}
