package table

import (
	"log/slog"
	"regexp"
	"strings"
)

// Pair is one lifted (parameter, value) row.
type Pair struct {
	Name  string
	Value string
}

// Parsed is the outcome of parsing one region.
type Parsed struct {
	Kind      Kind
	Headers   []string
	Rows      [][]string
	Pairs     []Pair
	Projected bool // pairs were lifted through the header lexicon
}

// Parser turns a region into a parsed table, or declines by returning nil.
type Parser interface {
	Name() string
	CanHandle(r Region) bool
	Parse(r Region) *Parsed
}

var reSeparatorRow = regexp.MustCompile(`^[\s|:\-=]+$`)

// ---------------------------------------------------------------------------
// Pipe and tab parsers share the split-on-delimiter shape.
// ---------------------------------------------------------------------------

type PipeParser struct{}

func (PipeParser) Name() string          { return "pipe" }
func (PipeParser) CanHandle(r Region) bool { return r.Kind == KindPipe }

func (PipeParser) Parse(r Region) *Parsed {
	return parseDelimited(r, KindPipe, splitPipes)
}

type TabParser struct{}

func (TabParser) Name() string          { return "tab" }
func (TabParser) CanHandle(r Region) bool { return r.Kind == KindTab }

func (TabParser) Parse(r Region) *Parsed {
	return parseDelimited(r, KindTab, func(s string) []string {
		cells := strings.Split(s, "\t")
		for i := range cells {
			cells[i] = strings.TrimSpace(cells[i])
		}
		return cells
	})
}

func parseDelimited(r Region, kind Kind, split func(string) []string) *Parsed {
	var rows [][]string
	for _, line := range r.Lines {
		if reSeparatorRow.MatchString(line) {
			continue
		}
		cells := split(line)
		if len(cells) == 0 {
			continue
		}
		rows = append(rows, cells)
	}
	if len(rows) < 3 { // header plus at least two data rows
		return nil
	}
	return &Parsed{Kind: kind, Headers: rows[0], Rows: rows[1:]}
}

// splitPipes splits a pipe-table row into trimmed cells, dropping the
// empty edge cells produced by leading/trailing delimiters.
func splitPipes(s string) []string {
	raw := strings.Split(s, "|")
	if len(raw) > 0 && strings.TrimSpace(raw[0]) == "" {
		raw = raw[1:]
	}
	if len(raw) > 0 && strings.TrimSpace(raw[len(raw)-1]) == "" {
		raw = raw[:len(raw)-1]
	}
	cells := make([]string, len(raw))
	for i, c := range raw {
		cells[i] = strings.TrimSpace(c)
	}
	return cells
}

// ---------------------------------------------------------------------------
// Colon parser: one key:value pair per line.
// ---------------------------------------------------------------------------

type ColonParser struct {
	Logger *slog.Logger
}

func (ColonParser) Name() string          { return "colon" }
func (ColonParser) CanHandle(r Region) bool { return r.Kind == KindColon }

func (p ColonParser) Parse(r Region) *Parsed {
	log := p.Logger
	if log == nil {
		log = slog.Default()
	}
	seen := make(map[string]int)
	var pairs []Pair
	for _, line := range r.Lines {
		idx := strings.IndexAny(line, ":：")
		if idx <= 0 {
			continue
		}
		key := strings.TrimSpace(line[:idx])
		val := strings.TrimSpace(strings.TrimLeft(line[idx:], ":： "))
		if key == "" || val == "" {
			continue
		}
		if at, dup := seen[key]; dup {
			// last wins
			log.Debug("table.colon.duplicate_key", "key", key)
			pairs[at] = Pair{Name: key, Value: val}
			continue
		}
		seen[key] = len(pairs)
		pairs = append(pairs, Pair{Name: key, Value: val})
	}
	if len(pairs) < 2 {
		return nil
	}
	return &Parsed{Kind: KindColon, Pairs: pairs, Projected: true}
}

// ---------------------------------------------------------------------------
// Spec parser: whitespace-aligned rows, first token is the parameter name.
// ---------------------------------------------------------------------------

type SpecParser struct{}

func (SpecParser) Name() string          { return "spec" }
func (SpecParser) CanHandle(r Region) bool { return r.Kind == KindSpec }

func (SpecParser) Parse(r Region) *Parsed {
	var pairs []Pair
	for _, line := range r.Lines {
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		pairs = append(pairs, Pair{Name: fields[0], Value: strings.Join(fields[1:], " ")})
	}
	if len(pairs) < 2 {
		return nil
	}
	return &Parsed{Kind: KindSpec, Pairs: pairs, Projected: true}
}

// ---------------------------------------------------------------------------
// Generic parser: fallback that picks the most rectangular split.
// ---------------------------------------------------------------------------

type GenericParser struct{}

func (GenericParser) Name() string          { return "generic" }
func (GenericParser) CanHandle(Region) bool { return true }

func (GenericParser) Parse(r Region) *Parsed {
	splits := []func(string) []string{
		splitPipes,
		func(s string) []string { return strings.Split(s, "\t") },
		strings.Fields,
	}
	var best [][]string
	bestScore := 0
	for _, split := range splits {
		var rows [][]string
		for _, line := range r.Lines {
			if reSeparatorRow.MatchString(line) {
				continue
			}
			cells := split(line)
			for i := range cells {
				cells[i] = strings.TrimSpace(cells[i])
			}
			if len(cells) > 1 {
				rows = append(rows, cells)
			}
		}
		if score := rectangularity(rows); score > bestScore {
			best, bestScore = rows, score
		}
	}
	if len(best) < 3 {
		return nil
	}
	return &Parsed{Kind: KindNone, Headers: best[0], Rows: best[1:]}
}

// rectangularity is the number of rows sharing the modal column count.
func rectangularity(rows [][]string) int {
	counts := make(map[int]int)
	for _, row := range rows {
		counts[len(row)]++
	}
	best := 0
	for _, n := range counts {
		if n > best {
			best = n
		}
	}
	return best
}
