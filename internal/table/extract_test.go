package table

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wuminghan/specpipe/internal/entity"
	"github.com/wuminghan/specpipe/internal/rules"
	"github.com/wuminghan/specpipe/internal/specfilter"
)

func newExtractor(t *testing.T) *Extractor {
	t.Helper()
	table, err := rules.Default()
	require.NoError(t, err)
	validator, err := specfilter.New(table.Validator, nil)
	require.NoError(t, err)
	return NewExtractor(table.Headers, validator, nil)
}

func TestExtractPipeTableWithUnitColumn(t *testing.T) {
	e := newExtractor(t)

	lines := []string{
		"| 参数 | 值 | 单位 |",
		"|---|---|---|",
		"| Frequency | 50 | Hz |",
		"| Accuracy | 0.2 | % |",
		"| Voltage | 220 | V |",
	}
	specs, stats := e.Extract(lines)

	assert.Equal(t, 1, stats.TablesFound)
	require.Len(t, specs, 3)

	freq := specs["Frequency"]
	require.NotNil(t, freq.NumericValue)
	assert.Equal(t, 50.0, *freq.NumericValue)
	assert.Equal(t, "Hz", freq.Unit)
	assert.Equal(t, entity.SourcePipeTable, freq.Source)

	acc := specs["Accuracy"]
	require.NotNil(t, acc.NumericValue)
	assert.Equal(t, 0.2, *acc.NumericValue)
	assert.Equal(t, "%", acc.Unit)
}

func TestExtractTwoColumnTableProjectsPositionally(t *testing.T) {
	e := newExtractor(t)

	// Headers are not in the lexicon, so the first row is data too.
	lines := []string{
		"| Rated Voltage | 220V |",
		"| Rated Current | 5A |",
		"| Rated Power | 1100W |",
	}
	specs, stats := e.Extract(lines)

	assert.Equal(t, 1, stats.TablesFound)
	require.Len(t, specs, 3)
	assert.Equal(t, "220V", specs["Rated Voltage"].RawValue)
	assert.Equal(t, "V", specs["Rated Voltage"].Unit)
	assert.Equal(t, entity.SourcePipeTable, specs["Rated Voltage"].Source)
}

func TestExtractTabTableWithLexiconHeaders(t *testing.T) {
	e := newExtractor(t)

	lines := []string{
		"Parameter\tValue\tUnit",
		"Voltage\t220\tV",
		"Current\t5\tA",
	}
	specs, stats := e.Extract(lines)

	assert.Equal(t, 1, stats.TablesFound)
	require.Len(t, specs, 2)

	v := specs["Voltage"]
	require.NotNil(t, v.NumericValue)
	assert.Equal(t, 220.0, *v.NumericValue)
	assert.Equal(t, "V", v.Unit)
	assert.Equal(t, entity.SourceTabTable, v.Source)
}

func TestExtractColonPairs(t *testing.T) {
	e := newExtractor(t)

	lines := []string{
		"测试电压: 0-240V",
		"测试电流: 0-5A",
		"测试电压: 0-300V",
	}
	specs, stats := e.Extract(lines)

	assert.Equal(t, 1, stats.TablesFound)
	require.Len(t, specs, 2)

	// duplicate key: last entry wins
	v := specs["测试电压"]
	require.NotNil(t, v.Range)
	assert.Equal(t, 0.0, v.Range.Min)
	assert.Equal(t, 300.0, v.Range.Max)
	assert.Equal(t, entity.SourceColonTable, v.Source)
}

func TestExtractTwoFieldRowsAreNotTables(t *testing.T) {
	e := newExtractor(t)

	// Aligned rows need at least three fields to classify; two-field
	// rows are left for the model to pick up from prose.
	specs, stats := e.Extract([]string{
		"测试电压 0-240V",
		"测试电流 0-5A",
	})
	assert.Empty(t, specs)
	assert.Zero(t, stats.TablesFound)
}

func TestExtractSpecAlignedRows(t *testing.T) {
	e := newExtractor(t)

	lines := []string{
		"测试电压 0-240V 可调",
		"测试电流 0-5A 连续",
		"基本误差 0.5% 满量程",
	}
	specs, stats := e.Extract(lines)

	assert.Equal(t, 1, stats.TablesFound)
	require.Len(t, specs, 3)

	v := specs["测试电压"]
	require.NotNil(t, v.Range)
	assert.Equal(t, 240.0, v.Range.Max)
	assert.Equal(t, "V", v.Unit)
	assert.Equal(t, entity.SourceSpecTable, v.Source)
	assert.Equal(t, "0-240V 可调", v.RawValue)
}

func TestExtractFiltersNoiseAndCountsRescues(t *testing.T) {
	e := newExtractor(t)

	lines := []string{
		"_Toc509006008: 240V",
		"EMBED residue: nothing here",
		"测试电压: 0-240V",
	}
	specs, stats := e.Extract(lines)

	assert.Equal(t, 1, stats.TablesFound)
	assert.Equal(t, 1, stats.Rescued)
	require.Len(t, specs, 2)
	assert.Contains(t, specs, "_Toc509006008")
	assert.Contains(t, specs, "测试电压")
	assert.NotContains(t, specs, "EMBED residue")
}

func TestExtractNoTables(t *testing.T) {
	e := newExtractor(t)

	specs, stats := e.Extract([]string{
		"The XR-500 is a precision power analyzer.",
		"It supports a wide range of industrial loads.",
	})
	assert.Empty(t, specs)
	assert.Zero(t, stats.TablesFound)
	assert.Zero(t, stats.Confidence)
}
