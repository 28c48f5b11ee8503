package table

import (
	"log/slog"
	"strings"

	"github.com/wuminghan/specpipe/internal/entity"
	"github.com/wuminghan/specpipe/internal/rules"
	"github.com/wuminghan/specpipe/internal/specfilter"
	"github.com/wuminghan/specpipe/internal/value"
)

// Stats summarises what the table pipeline recovered from one document.
type Stats struct {
	TablesFound int
	Confidence  float64 // mean region confidence over parsed tables
	Rescued     int     // pairs admitted through the validator's rescue rule
}

// Extractor runs region detection, the parser chain, value decomposition,
// and the spec filter over cleaned text.
type Extractor struct {
	parsers   []Parser
	fallback  Parser
	headers   rules.HeaderLexicon
	validator *specfilter.Validator
	logger    *slog.Logger
}

func NewExtractor(headers rules.HeaderLexicon, validator *specfilter.Validator, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{
		parsers: []Parser{
			PipeParser{},
			TabParser{},
			ColonParser{Logger: logger},
			SpecParser{},
		},
		fallback:  GenericParser{},
		headers:   headers,
		validator: validator,
		logger:    logger,
	}
}

// Extract lifts every table region in lines into validated specifications.
// Parse failures are local: a declined region costs nothing but itself.
func (e *Extractor) Extract(lines []string) (map[string]entity.SpecValue, Stats) {
	specs := make(map[string]entity.SpecValue)
	var stats Stats
	confSum := 0.0

	for _, region := range DetectRegions(lines) {
		parsed := e.parseRegion(region)
		if parsed == nil {
			e.logger.Debug("table.region.declined", "kind", region.Kind.String(), "lines", len(region.Lines))
			continue
		}
		stats.TablesFound++
		confSum += region.Confidence

		pairs := parsed.Pairs
		if !parsed.Projected {
			pairs = e.project(parsed)
		}
		for _, pr := range pairs {
			verdict := e.validator.Validate(pr.Name, pr.Value)
			if !verdict.Valid {
				continue
			}
			if verdict.Rescued {
				stats.Rescued++
			}
			sv := value.Parse(pr.Value)
			sv.Source = sourceFor(parsed.Kind)
			specs[strings.TrimSpace(pr.Name)] = sv
		}
	}
	if stats.TablesFound > 0 {
		stats.Confidence = confSum / float64(stats.TablesFound)
	}
	return specs, stats
}

// parseRegion tries the region's own parser first, then the generic
// fallback.
func (e *Extractor) parseRegion(r Region) *Parsed {
	for _, p := range e.parsers {
		if !p.CanHandle(r) {
			continue
		}
		if parsed := p.Parse(r); parsed != nil {
			return parsed
		}
		e.logger.Debug("table.parser.declined", "parser", p.Name(), "lines", len(r.Lines))
		break
	}
	return e.fallback.Parse(r)
}

// project identifies parameter/value (and optionally unit) columns through
// the bilingual header lexicon and lifts rows into pairs. A two-column
// table with unrecognised headers still projects positionally; anything
// wider without a recognised column pair is left row-wise.
func (e *Extractor) project(p *Parsed) []Pair {
	paramCol := matchColumn(p.Headers, e.headers.Parameter)
	valueCol := matchColumn(p.Headers, e.headers.Value)
	unitCol := matchColumn(p.Headers, e.headers.Unit)

	rows := p.Rows
	if paramCol < 0 || valueCol < 0 {
		if len(p.Headers) == 2 {
			paramCol, valueCol, unitCol = 0, 1, -1
			// headers were data after all
			rows = append([][]string{p.Headers}, p.Rows...)
		} else {
			return nil
		}
	}

	var pairs []Pair
	for _, row := range rows {
		if paramCol >= len(row) || valueCol >= len(row) {
			continue
		}
		name := strings.TrimSpace(row[paramCol])
		val := strings.TrimSpace(row[valueCol])
		if name == "" || val == "" {
			continue
		}
		if unitCol >= 0 && unitCol < len(row) {
			if u := strings.TrimSpace(row[unitCol]); u != "" {
				val = val + " " + u
			}
		}
		pairs = append(pairs, Pair{Name: name, Value: val})
	}
	return pairs
}

func matchColumn(headers []string, lexicon []string) int {
	for i, h := range headers {
		hn := strings.ToLower(strings.TrimSpace(h))
		if hn == "" {
			continue
		}
		for _, lex := range lexicon {
			if strings.Contains(hn, strings.ToLower(lex)) {
				return i
			}
		}
	}
	return -1
}

func sourceFor(k Kind) string {
	switch k {
	case KindPipe:
		return entity.SourcePipeTable
	case KindTab:
		return entity.SourceTabTable
	case KindColon:
		return entity.SourceColonTable
	case KindSpec:
		return entity.SourceSpecTable
	default:
		return entity.SourceGenericTable
	}
}
