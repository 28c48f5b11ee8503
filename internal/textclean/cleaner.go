// Package textclean removes document-internal artifacts from decoded text:
// OLE/Word residue, mojibake runs, table-of-contents cruft. Removal is
// deliberately conservative; a noise line that slips through is caught by
// the spec validator, while an over-eager drop destroys real data.
package textclean

import (
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"unicode"
)

var (
	reFormatOnly = regexp.MustCompile(`^[\s\-_=]+$`)
	reWhitespace = regexp.MustCompile(`[ \t]{3,}`)
	reTechToken  = regexp.MustCompile(`^\d+(?:\.\d+)?[A-Za-z%°℃℉Ω]{0,3}$`)
)

// Rules configures garbage detection. Zero values fall back to defaults
// applied by New.
type Rules struct {
	ArtifactTokens   []string
	ArtifactPatterns []string
	MojibakeRatio    float64
	BoxRunLength     int
	MinLineRunes     int
}

type Cleaner struct {
	rules    Rules
	tokens   map[string]struct{}
	patterns []*regexp.Regexp
	logger   *slog.Logger
}

func New(rules Rules, logger *slog.Logger) (*Cleaner, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if rules.MojibakeRatio <= 0 {
		rules.MojibakeRatio = 0.5
	}
	if rules.BoxRunLength <= 0 {
		rules.BoxRunLength = 3
	}
	if rules.MinLineRunes <= 0 {
		rules.MinLineRunes = 3
	}
	tokens := make(map[string]struct{}, len(rules.ArtifactTokens))
	for _, t := range rules.ArtifactTokens {
		tokens[t] = struct{}{}
	}
	patterns := make([]*regexp.Regexp, 0, len(rules.ArtifactPatterns))
	for _, p := range rules.ArtifactPatterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("compile artifact pattern %q: %w", p, err)
		}
		patterns = append(patterns, re)
	}
	return &Cleaner{rules: rules, tokens: tokens, patterns: patterns, logger: logger}, nil
}

// Clean filters and strips lines. Ordering is stable: surviving lines keep
// their relative order. Clean never fails and is idempotent.
func (c *Cleaner) Clean(lines []string) []string {
	out := make([]string, 0, len(lines))
	dropped := 0
	for _, line := range lines {
		if c.isGarbage(line) {
			dropped++
			continue
		}
		out = append(out, c.strip(line))
	}
	if dropped > 0 {
		c.logger.Debug("textclean.dropped", "lines", dropped, "kept", len(out))
	}
	return out
}

func (c *Cleaner) isGarbage(line string) bool {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return true
	}
	if c.isArtifactOnly(trimmed) {
		return true
	}
	if reFormatOnly.MatchString(trimmed) {
		return true
	}
	runes := []rune(trimmed)
	if len(runes) < c.rules.MinLineRunes && !isTechnicalToken(trimmed) {
		return true
	}
	if c.mojibakeRatio(runes) >= c.rules.MojibakeRatio {
		return true
	}
	if maxBoxRun(runes) >= c.rules.BoxRunLength {
		return true
	}
	return false
}

// isArtifactOnly reports whether the line consists solely of Word/OLE
// artifact tokens, or matches an artifact pattern as a whole.
func (c *Cleaner) isArtifactOnly(trimmed string) bool {
	if _, ok := c.tokens[trimmed]; ok {
		return true
	}
	for _, re := range c.patterns {
		if re.MatchString(trimmed) {
			return true
		}
	}
	fields := strings.Fields(trimmed)
	if len(fields) == 0 {
		return false
	}
	for _, f := range fields {
		if !c.isArtifactToken(f) {
			return false
		}
	}
	return true
}

func (c *Cleaner) isArtifactToken(tok string) bool {
	if _, ok := c.tokens[tok]; ok {
		return true
	}
	for _, re := range c.patterns {
		if re.MatchString(tok) {
			return true
		}
	}
	return false
}

// strip removes edge artifact tokens, collapses long whitespace runs to a
// single tab (preserving table alignment), and deletes control characters.
func (c *Cleaner) strip(line string) string {
	fields := strings.Fields(line)
	for len(fields) > 0 && c.isArtifactToken(fields[0]) {
		idx := strings.Index(line, fields[0])
		line = line[idx+len(fields[0]):]
		fields = fields[1:]
	}
	for len(fields) > 0 && c.isArtifactToken(fields[len(fields)-1]) {
		last := fields[len(fields)-1]
		idx := strings.LastIndex(line, last)
		line = line[:idx]
		fields = fields[:len(fields)-1]
	}
	line = reWhitespace.ReplaceAllString(line, "\t")
	line = strings.Map(func(r rune) rune {
		if r < 0x20 && r != '\t' {
			return -1
		}
		return r
	}, line)
	return strings.TrimSpace(line)
}

// isTechnicalToken rescues short lines that still carry signal: anything
// with a digit or a CJK rune, or a compact number+unit token like "5V".
func isTechnicalToken(s string) bool {
	if reTechToken.MatchString(s) {
		return true
	}
	for _, r := range s {
		if unicode.IsDigit(r) || unicode.Is(unicode.Han, r) {
			return true
		}
	}
	return false
}

// mojibakeRatio is the share of runes in the private-use and CJK
// compatibility blocks typical of misdecoded CJK text. A compatibility
// rune directly adjacent to a valid CJK ideograph is not counted.
func (c *Cleaner) mojibakeRatio(runes []rune) float64 {
	if len(runes) == 0 {
		return 0
	}
	suspicious := 0
	for i, r := range runes {
		if !isMojibakeRune(r) {
			continue
		}
		prevCJK := i > 0 && unicode.Is(unicode.Han, runes[i-1])
		nextCJK := i+1 < len(runes) && unicode.Is(unicode.Han, runes[i+1])
		if prevCJK || nextCJK {
			continue
		}
		suspicious++
	}
	return float64(suspicious) / float64(len(runes))
}

func isMojibakeRune(r rune) bool {
	switch {
	case r >= 0xE000 && r <= 0xF8FF: // private use
		return true
	case r >= 0xF900 && r <= 0xFAFF: // CJK compatibility ideographs
		return true
	case r >= 0xFE30 && r <= 0xFE4F: // CJK compatibility forms
		return true
	case r >= 0xFFF0 && r <= 0xFFFD:
		return true
	}
	return false
}

// maxBoxRun is the longest run of consecutive box-drawing or control runes.
func maxBoxRun(runes []rune) int {
	run, best := 0, 0
	for _, r := range runes {
		if isBoxOrControl(r) {
			run++
			if run > best {
				best = run
			}
		} else {
			run = 0
		}
	}
	return best
}

func isBoxOrControl(r rune) bool {
	if r < 0x20 && r != '\t' {
		return true
	}
	return r >= 0x2500 && r <= 0x259F
}
