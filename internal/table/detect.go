// Package table locates table regions inside cleaned text and parses them
// into (parameter, value) pairs. Several encodings coexist in the corpus:
// pipe tables, tab tables, key:value listings, and whitespace-aligned
// specification tables.
package table

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Kind classifies one line by dominant table style.
type Kind int

const (
	KindNone Kind = iota
	KindPipe
	KindTab
	KindColon
	KindSpec
)

func (k Kind) String() string {
	switch k {
	case KindPipe:
		return "pipe"
	case KindTab:
		return "tab"
	case KindColon:
		return "colon"
	case KindSpec:
		return "spec"
	default:
		return "none"
	}
}

// Region is a contiguous run of lines sharing one table style.
type Region struct {
	Start      int // index into the cleaned line sequence
	Kind       Kind
	Lines      []string
	Confidence float64
}

// Classify assigns a line its table style. Styles are tried in a fixed
// order; the first match wins.
func Classify(line string) Kind {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return KindNone
	}
	if countUnescapedPipes(trimmed) >= 2 {
		return KindPipe
	}
	if strings.Count(trimmed, "\t") >= 2 {
		return KindTab
	}
	if isColonLine(trimmed) {
		return KindColon
	}
	if isSpecLine(trimmed) {
		return KindSpec
	}
	return KindNone
}

// DetectRegions scans the cleaned lines once and returns table regions in
// document order. A single interior blank/none line does not break a
// region; regions of length 1 are discarded as insufficient evidence.
func DetectRegions(lines []string) []Region {
	var regions []Region
	var cur *Region
	noneRun := 0

	flush := func() {
		if cur != nil && len(cur.Lines) >= 2 {
			cur.Confidence = regionConfidence(len(cur.Lines))
			regions = append(regions, *cur)
		}
		cur = nil
		noneRun = 0
	}

	for i, line := range lines {
		k := Classify(line)
		switch {
		case cur == nil:
			if k != KindNone {
				cur = &Region{Start: i, Kind: k, Lines: []string{line}}
			}
		case k == cur.Kind:
			cur.Lines = append(cur.Lines, line)
			noneRun = 0
		case k == KindNone:
			noneRun++
			if noneRun > 1 {
				flush()
			}
		default:
			flush()
			cur = &Region{Start: i, Kind: k, Lines: []string{line}}
		}
	}
	flush()
	return regions
}

func regionConfidence(length int) float64 {
	c := 0.5 + 0.1*float64(length-1)
	if c > 1.0 {
		c = 1.0
	}
	return c
}

func countUnescapedPipes(s string) int {
	n := 0
	prev := rune(0)
	for _, r := range s {
		if r == '|' && prev != '\\' {
			n++
		}
		prev = r
	}
	return n
}

// isColonLine matches "key: value" with a short key. Both ASCII and
// full-width colons appear in the corpus.
func isColonLine(s string) bool {
	idx := strings.IndexAny(s, ":：")
	if idx <= 0 {
		return false
	}
	key := s[:idx]
	if len([]rune(key)) > 40 {
		return false
	}
	rest := s[idx:]
	_, size := utf8.DecodeRuneInString(rest)
	rest = strings.TrimSpace(rest[size:])
	return rest != ""
}

// isSpecLine matches whitespace-aligned specification rows: a short
// leading token followed by at least two fields whose remainder carries a
// digit or a unit rune.
func isSpecLine(s string) bool {
	fields := strings.Fields(s)
	if len(fields) < 3 {
		return false
	}
	if len([]rune(fields[0])) > 12 {
		return false
	}
	rest := strings.Join(fields[1:], " ")
	return hasDigitOrUnit(rest)
}

func hasDigitOrUnit(s string) bool {
	for _, r := range s {
		if unicode.IsDigit(r) {
			return true
		}
		switch r {
		case '°', '℃', '℉', '%', 'Ω':
			return true
		}
	}
	return false
}
