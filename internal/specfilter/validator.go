// Package specfilter decides which (parameter, value) pairs are real
// technical specifications and which are document noise. The pattern
// tables are the algorithm; they come from the rules package so tuning
// them never touches code.
package specfilter

import (
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"unicode"

	"github.com/wuminghan/specpipe/internal/rules"
)

var (
	reDigitUnit  = regexp.MustCompile(`\d\s*[A-Za-z%°℃℉Ω]`)
	reRangeExpr  = regexp.MustCompile(`\d\s*[–~—-]\s*\d`)
	reUnitInName = regexp.MustCompile(`\d+\s*[A-Za-z%°℃Ω]+`)
	reLatinWord  = regexp.MustCompile(`[A-Za-z]{2,}`)
)

// Verdict is the outcome for one pair.
type Verdict struct {
	Valid   bool
	Rescued bool   // name looked invalid but the value carried technical signal
	Reason  string // matched invalid-pattern category on rejection
}

type invalidPattern struct {
	category string
	re       *regexp.Regexp
}

type Validator struct {
	invalid  []invalidPattern
	valid    []*regexp.Regexp
	keywords []string
	short    []string
	logger   *slog.Logger
}

// Invalid-pattern categories are applied in a fixed order so diagnostics
// stay stable across runs.
var categoryOrder = []string{"word_artifact", "document_structure", "non_technical", "format_only"}

func New(r rules.ValidatorRules, logger *slog.Logger) (*Validator, error) {
	if logger == nil {
		logger = slog.Default()
	}
	v := &Validator{keywords: r.TechnicalKeywords, short: r.ShortKeywords, logger: logger}
	for _, cat := range categoryOrder {
		for _, p := range r.InvalidPatterns[cat] {
			re, err := regexp.Compile(p)
			if err != nil {
				return nil, fmt.Errorf("compile invalid pattern %q: %w", p, err)
			}
			v.invalid = append(v.invalid, invalidPattern{category: cat, re: re})
		}
	}
	for _, p := range r.ValidPatterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("compile valid pattern %q: %w", p, err)
		}
		v.valid = append(v.valid, re)
	}
	return v, nil
}

// Validate applies the two-stage filter. Rejection is silent from the
// caller's point of view; it only surfaces at debug level.
func (v *Validator) Validate(name, value string) Verdict {
	name = strings.TrimSpace(name)
	value = strings.TrimSpace(value)
	if name == "" {
		return Verdict{}
	}

	if cat, hit := v.matchInvalid(name); hit {
		// Rescue rule: a technical-looking value overrides a bad name.
		if v.looksTechnical(value) {
			return Verdict{Valid: true, Rescued: true}
		}
		v.logger.Debug("specfilter.rejected", "name", name, "category", cat)
		return Verdict{Reason: cat}
	}

	if v.isValidName(name, value) {
		return Verdict{Valid: true}
	}
	v.logger.Debug("specfilter.rejected", "name", name, "category", "no_signal")
	return Verdict{Reason: "no_signal"}
}

// Screen applies only the invalid-pattern stage with the rescue rule.
// Names that merely lack positive signal pass; use it for pairs whose
// source already supplies semantic context.
func (v *Validator) Screen(name, value string) Verdict {
	name = strings.TrimSpace(name)
	if name == "" {
		return Verdict{}
	}
	if cat, hit := v.matchInvalid(name); hit {
		if v.looksTechnical(strings.TrimSpace(value)) {
			return Verdict{Valid: true, Rescued: true}
		}
		return Verdict{Reason: cat}
	}
	return Verdict{Valid: true}
}

func (v *Validator) matchInvalid(name string) (string, bool) {
	for _, p := range v.invalid {
		if p.re.MatchString(name) {
			return p.category, true
		}
	}
	return "", false
}

// looksTechnical reports whether a value carries independent technical
// signal: digit+unit, a range expression, or a known technical keyword.
func (v *Validator) looksTechnical(value string) bool {
	if value == "" {
		return false
	}
	if reDigitUnit.MatchString(value) || reRangeExpr.MatchString(value) {
		return true
	}
	lower := strings.ToLower(value)
	for _, kw := range v.keywords {
		if strings.Contains(lower, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}

func (v *Validator) isValidName(name, value string) bool {
	for _, re := range v.valid {
		if re.MatchString(name) {
			return true
		}
	}

	runes := []rune(name)
	if len(runes) >= 1 && len(runes) <= 25 && containsDigit(name) && containsWordToken(name) {
		return true
	}
	if reUnitInName.MatchString(name) {
		return true
	}
	lower := strings.ToLower(name)
	for _, kw := range v.short {
		if strings.Contains(lower, strings.ToLower(kw)) {
			return true
		}
	}
	if len(runes) >= 2 && len(runes) <= 8 && v.looksTechnical(value) {
		return true
	}
	return false
}

func containsDigit(s string) bool {
	for _, r := range s {
		if unicode.IsDigit(r) {
			return true
		}
	}
	return false
}

// containsWordToken reports whether s has a CJK rune or a Latin token of
// two or more letters.
func containsWordToken(s string) bool {
	for _, r := range s {
		if unicode.Is(unicode.Han, r) {
			return true
		}
	}
	return reLatinWord.MatchString(s)
}
