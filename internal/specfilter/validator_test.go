package specfilter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wuminghan/specpipe/internal/rules"
)

func newValidator(t *testing.T) *Validator {
	t.Helper()
	table, err := rules.Default()
	require.NoError(t, err)
	v, err := New(table.Validator, nil)
	require.NoError(t, err)
	return v
}

func TestValidateRejectsDocumentNoise(t *testing.T) {
	v := newValidator(t)

	tests := []struct {
		name     string
		param    string
		value    string
		category string
	}{
		{"embed residue", "EMBED", "something", "word_artifact"},
		{"embed inside name", "xxEMBEDyy", "plain", "word_artifact"},
		{"hyperlink residue", "3 HYPERLINK http://a", "text", "word_artifact"},
		{"toc bookmark", "_Toc509006008", "潗摲楍", "document_structure"},
		{"single letter", "D", "3.2", "document_structure"},
		{"bare number name", "42", "value", "document_structure"},
		{"contents heading", "CONTENTS overview", "1", "non_technical"},
		{"chinese chapter", "第三章 概述", "5", "non_technical"},
		{"punctuation only", "###", "x", "format_only"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := v.Validate(tt.param, tt.value)
			assert.False(t, got.Valid)
			assert.Equal(t, tt.category, got.Reason)
		})
	}
}

func TestValidateRescuesTechnicalValues(t *testing.T) {
	v := newValidator(t)

	// The name matches an invalid pattern but the value carries signal.
	got := v.Validate("12 HYPERLINK residue", "240V")
	assert.True(t, got.Valid)
	assert.True(t, got.Rescued)

	got = v.Validate("_Toc1234", "0-240")
	assert.True(t, got.Valid)
	assert.True(t, got.Rescued)

	got = v.Validate("_Toc1234", "输出电压可调")
	assert.True(t, got.Valid)
	assert.True(t, got.Rescued)

	// No signal in the value: stays rejected.
	got = v.Validate("_Toc1234", "潗摲楍")
	assert.False(t, got.Valid)
	assert.False(t, got.Rescued)
}

func TestValidateAcceptsRealParameters(t *testing.T) {
	v := newValidator(t)

	tests := []struct {
		name  string
		param string
		value string
	}{
		{"english lexicon hit", "Rated Voltage", "220V"},
		{"chinese lexicon hit", "测试电压", "0-240V"},
		{"digit plus word token", "3dB bandwidth", "20kHz"},
		{"unit embedded in name", "载重1000kg", "standard"},
		{"short keyword", "耐压等级", "IV"},
		{"short name with technical value", "输出", "5A max"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := v.Validate(tt.param, tt.value)
			assert.True(t, got.Valid, "%q / %q should pass", tt.param, tt.value)
			assert.False(t, got.Rescued)
		})
	}
}

func TestValidateRejectsWithoutSignal(t *testing.T) {
	v := newValidator(t)

	got := v.Validate("introduction paragraph about the company history", "reads well")
	assert.False(t, got.Valid)
	assert.Equal(t, "no_signal", got.Reason)

	got = v.Validate("", "220V")
	assert.False(t, got.Valid)
}

func TestScreenAppliesOnlyInvalidPatterns(t *testing.T) {
	v := newValidator(t)

	tests := []struct {
		name    string
		key     string
		value   string
		valid   bool
		rescued bool
		reason  string
	}{
		{name: "artifact key rejected", key: "EMBED", value: "residual marker text", reason: "word_artifact"},
		{name: "hyperlink residue rejected", key: "38 HYPERLINK junk", value: "assorted notes", reason: "word_artifact"},
		{name: "artifact key rescued by technical value", key: "38 HYPERLINK test voltage", value: "240V", valid: true, rescued: true},
		{name: "toc entry rejected", key: "_Toc1234", value: "overview", reason: "document_structure"},
		{name: "plain key passes without lexicon signal", key: "Channels", value: "4", valid: true},
		{name: "prose key passes", key: "introduction paragraph about the company history", value: "reads well", valid: true},
		{name: "empty key rejected", key: "", value: "220V"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := v.Screen(tt.key, tt.value)
			assert.Equal(t, tt.valid, got.Valid)
			assert.Equal(t, tt.rescued, got.Rescued)
			assert.Equal(t, tt.reason, got.Reason)
		})
	}
}
