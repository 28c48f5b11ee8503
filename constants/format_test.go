package constants

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMapExtToFormat(t *testing.T) {
	tests := []struct {
		ext  string
		want Format
	}{
		{"pdf", PDF},
		{".PDF", PDF},
		{"docx", DOCX},
		{"doc", DOC},
		{"xlsx", XLSX},
		{"xlsm", XLSX},
		{"txt", TXT},
		{".md", TXT},
		{"jpg", IMAGE},
		{"png", IMAGE},
		{"csv", ""},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, MapExtToFormat(tt.ext), "ext %q", tt.ext)
	}
}

func TestIsValidFormat(t *testing.T) {
	for _, f := range Formats {
		assert.True(t, IsValidFormat(f))
	}
	assert.False(t, IsValidFormat(""))
	assert.False(t, IsValidFormat(Format("csv")))
}

func TestLevelFor(t *testing.T) {
	assert.Equal(t, LevelVeryLow, LevelFor(0.0))
	assert.Equal(t, LevelVeryLow, LevelFor(0.39))
	assert.Equal(t, LevelLow, LevelFor(0.4))
	assert.Equal(t, LevelLow, LevelFor(0.59))
	assert.Equal(t, LevelMedium, LevelFor(0.6))
	assert.Equal(t, LevelMedium, LevelFor(0.79))
	assert.Equal(t, LevelHigh, LevelFor(0.8))
	assert.Equal(t, LevelHigh, LevelFor(1.0))
}
