package merge

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wuminghan/specpipe/internal/entity"
	"github.com/wuminghan/specpipe/internal/rules"
	"github.com/wuminghan/specpipe/internal/specfilter"
	"github.com/wuminghan/specpipe/internal/table"
)

func newFilter(t *testing.T) *specfilter.Validator {
	t.Helper()
	tbl, err := rules.Default()
	require.NoError(t, err)
	v, err := specfilter.New(tbl.Validator, nil)
	require.NoError(t, err)
	return v
}

func f(v float64) *float64 { return &v }

func TestMergeUnionsBySpecName(t *testing.T) {
	m := New(nil, nil)

	rec := entity.NewExtractedRecord()
	rec.BasicInfo.Name = "XR-500"
	rec.Specifications["Channels"] = entity.SpecValue{RawValue: "4", NumericValue: f(4), Source: entity.SourceModel}

	tableSpecs := map[string]entity.SpecValue{
		"Rated Voltage": {RawValue: "220V", NumericValue: f(220), Unit: "V", Source: entity.SourcePipeTable},
	}

	got := m.Merge(rec, tableSpecs, table.Stats{TablesFound: 1, Confidence: 0.8, Rescued: 0})

	require.Len(t, got.Specifications, 2)
	assert.Equal(t, "4", got.Specifications["Channels"].RawValue)
	assert.Equal(t, "220V", got.Specifications["Rated Voltage"].RawValue)
	assert.Equal(t, "XR-500", got.BasicInfo.Name)

	assert.Equal(t, 1, got.TableParsing.TablesFound)
	assert.InDelta(t, 0.8, got.TableParsing.ParsingConfidence, 1e-9)
}

func TestMergeCollisionPolicy(t *testing.T) {
	tests := []struct {
		name      string
		modelVal  entity.SpecValue
		tableVal  entity.SpecValue
		tableWins bool
	}{
		{
			name:      "structured table beats bare model string",
			modelVal:  entity.SpecValue{RawValue: "around 220 volts"},
			tableVal:  entity.SpecValue{RawValue: "220V", NumericValue: f(220), Unit: "V"},
			tableWins: true,
		},
		{
			name:      "table value without number or unit adds nothing",
			modelVal:  entity.SpecValue{RawValue: "three phase"},
			tableVal:  entity.SpecValue{RawValue: "see manual"},
			tableWins: false,
		},
		{
			name:      "model keeps structured value",
			modelVal:  entity.SpecValue{RawValue: "220V", NumericValue: f(220), Unit: "V"},
			tableVal:  entity.SpecValue{RawValue: "230V", NumericValue: f(230), Unit: "V"},
			tableWins: false,
		},
		{
			name:      "model with unit holds against table",
			modelVal:  entity.SpecValue{RawValue: "50 Hz", Unit: "Hz"},
			tableVal:  entity.SpecValue{RawValue: "60Hz", NumericValue: f(60), Unit: "Hz"},
			tableWins: false,
		},
		{
			name:      "unit-only table value does not displace bare model string",
			modelVal:  entity.SpecValue{RawValue: "adjustable"},
			tableVal:  entity.SpecValue{RawValue: "V", Unit: "V"},
			tableWins: false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := New(nil, nil)
			rec := entity.NewExtractedRecord()
			rec.Specifications["P"] = tt.modelVal

			got := m.Merge(rec, map[string]entity.SpecValue{"P": tt.tableVal}, table.Stats{})
			if tt.tableWins {
				assert.Equal(t, tt.tableVal, got.Specifications["P"])
			} else {
				assert.Equal(t, tt.modelVal, got.Specifications["P"])
			}
		})
	}
}

func TestMergeScreensModelSpecificationNames(t *testing.T) {
	m := New(newFilter(t), nil)

	rec := entity.NewExtractedRecord()
	rec.Specifications["EMBED"] = entity.SpecValue{RawValue: "residual marker text", Source: entity.SourceModel}
	rec.Specifications["38 HYPERLINK junk"] = entity.SpecValue{RawValue: "assorted notes", Source: entity.SourceModel}
	rec.Specifications["38 HYPERLINK test voltage"] = entity.SpecValue{RawValue: "240V", NumericValue: f(240), Unit: "V", Source: entity.SourceModel}
	rec.Specifications["Channels"] = entity.SpecValue{RawValue: "4", NumericValue: f(4), Source: entity.SourceModel}

	got := m.Merge(rec, nil, table.Stats{})

	// Artifact names without technical signal in the value are dropped.
	assert.NotContains(t, got.Specifications, "EMBED")
	assert.NotContains(t, got.Specifications, "38 HYPERLINK junk")
	// The rescue rule keeps an artifact-looking name whose value is technical.
	assert.Contains(t, got.Specifications, "38 HYPERLINK test voltage")
	// Plain names that merely lack lexicon signal survive the screen.
	assert.Contains(t, got.Specifications, "Channels")
	require.Len(t, got.Specifications, 2)
}

func TestMergeHandlesNilSpecMap(t *testing.T) {
	m := New(nil, nil)
	rec := &entity.ExtractedRecord{}

	got := m.Merge(rec, map[string]entity.SpecValue{
		"Voltage": {RawValue: "220V", NumericValue: f(220), Unit: "V"},
	}, table.Stats{TablesFound: 1})

	require.Len(t, got.Specifications, 1)
}
