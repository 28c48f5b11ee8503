package decode

import (
	"bytes"
	"io"
	"strings"
	"unicode"

	"github.com/richardlehane/mscfb"
	"golang.org/x/text/encoding/simplifiedchinese"
)

// decodeDOC best-effort extracts text from a legacy Word binary. Output is
// lossy by contract and will contain residue; the cleaner owns recovery.
// Strategy: pull the WordDocument stream out of the compound container
// when possible, then salvage UTF-16LE runs and GB18030-decodable runs.
func decodeDOC(data []byte) ([]string, error) {
	stream := data
	if cfb, err := mscfb.New(bytes.NewReader(data)); err == nil {
		for entry, err := cfb.Next(); err == nil; entry, err = cfb.Next() {
			if entry.Name != "WordDocument" {
				continue
			}
			if b, rerr := io.ReadAll(entry); rerr == nil && len(b) > 0 {
				stream = b
			}
			break
		}
	}

	var lines []string
	lines = append(lines, salvageUTF16(stream)...)
	lines = append(lines, salvageGB18030(stream)...)
	if len(lines) == 0 {
		lines = append(lines, salvageASCII(stream)...)
	}
	return lines, nil
}

const minRunLength = 4

// salvageUTF16 scans the stream as little-endian UTF-16 and keeps runs of
// plausible text characters. Word 97+ stores most body text this way.
func salvageUTF16(data []byte) []string {
	var lines []string
	var run []rune
	flush := func() {
		if len(run) >= minRunLength {
			lines = append(lines, splitSalvaged(string(run))...)
		}
		run = run[:0]
	}
	for i := 0; i+1 < len(data); i += 2 {
		u := rune(data[i]) | rune(data[i+1])<<8
		if isPlausibleTextRune(u) || u == '\r' || u == '\n' {
			run = append(run, u)
			continue
		}
		flush()
	}
	flush()
	return lines
}

// salvageGB18030 decodes the whole stream as GB18030 (which accepts almost
// any byte sequence) and keeps runs dominated by CJK ideographs; this
// recovers Chinese body text that the UTF-16 pass misses.
func salvageGB18030(data []byte) []string {
	decoded, err := simplifiedchinese.GB18030.NewDecoder().Bytes(data)
	if err != nil {
		return nil
	}
	var lines []string
	var run []rune
	hanCount := 0
	flush := func() {
		if len(run) >= minRunLength && hanCount*2 >= len(run) {
			lines = append(lines, splitSalvaged(string(run))...)
		}
		run = run[:0]
		hanCount = 0
	}
	for _, r := range string(decoded) {
		if unicode.Is(unicode.Han, r) {
			run = append(run, r)
			hanCount++
			continue
		}
		if isPlausibleTextRune(r) {
			run = append(run, r)
			continue
		}
		flush()
	}
	flush()
	return lines
}

// salvageASCII is the last resort: printable ASCII runs only.
func salvageASCII(data []byte) []string {
	var lines []string
	var run []byte
	flush := func() {
		if len(run) >= minRunLength {
			lines = append(lines, string(run))
		}
		run = run[:0]
	}
	for _, b := range data {
		if b >= 0x20 && b < 0x7F {
			run = append(run, b)
			continue
		}
		flush()
	}
	flush()
	return lines
}

func isPlausibleTextRune(r rune) bool {
	switch {
	case r == '\t':
		return true
	case r >= 0x20 && r < 0x7F: // printable ASCII
		return true
	case unicode.Is(unicode.Han, r):
		return true
	case r >= 0x3000 && r <= 0x303F: // CJK punctuation
		return true
	case r >= 0xFF00 && r <= 0xFFEF: // full-width forms
		return true
	}
	return false
}

func splitSalvaged(s string) []string {
	var out []string
	for _, ln := range splitLines(s) {
		if ln = strings.TrimSpace(ln); ln != "" {
			out = append(out, ln)
		}
	}
	return out
}
