package textclean

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaultRules() Rules {
	return Rules{
		ArtifactTokens: []string{"EMBED", "MERGEFORMAT", "HYPERLINK", "PBrush", "PAGE"},
		ArtifactPatterns: []string{
			`^Word\.Picture\.\S*$`,
			`^_?Toc\d+$`,
			`^\d+\s+HYPERLINK\b.*$`,
		},
	}
}

func TestCleanDropsArtifactLines(t *testing.T) {
	c, err := New(defaultRules(), nil)
	require.NoError(t, err)

	tests := []struct {
		name string
		line string
		kept bool
	}{
		{"empty line", "", false},
		{"whitespace only", "   \t  ", false},
		{"single artifact token", "EMBED", false},
		{"artifact tokens only", "EMBED MERGEFORMAT", false},
		{"word picture residue", "Word.Picture.8", false},
		{"toc bookmark", "_Toc509006008", false},
		{"toc bookmark without underscore", "Toc509006008", false},
		{"numbered hyperlink residue", "12 HYPERLINK http://x", false},
		{"format only dashes", "-----", false},
		{"format only mixed", "  __==--  ", false},
		{"short fragment", "ab", false},
		{"short but technical", "5V", true},
		{"short chinese", "电压", true},
		{"plain prose", "Rated voltage 220V", true},
		{"chinese spec line", "测试电压 0-240V", true},
		{"box drawing run", "───────", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := c.Clean([]string{tt.line})
			if tt.kept {
				assert.Len(t, out, 1, "line should survive: %q", tt.line)
			} else {
				assert.Empty(t, out, "line should be dropped: %q", tt.line)
			}
		})
	}
}

func TestCleanDropsMojibake(t *testing.T) {
	c, err := New(defaultRules(), nil)
	require.NoError(t, err)

	// private-use runes with no adjacent CJK
	out := c.Clean([]string{" x"})
	assert.Empty(t, out)

	// compatibility rune flanked by real ideographs is tolerated
	out = c.Clean([]string{"测试豈电压范围检验"})
	assert.Len(t, out, 1)
}

func TestCleanStripsEdgeArtifacts(t *testing.T) {
	c, err := New(defaultRules(), nil)
	require.NoError(t, err)

	out := c.Clean([]string{"HYPERLINK Rated current 5A"})
	require.Len(t, out, 1)
	assert.Equal(t, "Rated current 5A", out[0])

	out = c.Clean([]string{"Rated current 5A MERGEFORMAT"})
	require.Len(t, out, 1)
	assert.Equal(t, "Rated current 5A", out[0])
}

func TestCleanCollapsesWideGapsToTabs(t *testing.T) {
	c, err := New(defaultRules(), nil)
	require.NoError(t, err)

	out := c.Clean([]string{"Frequency      50      Hz"})
	require.Len(t, out, 1)
	assert.Equal(t, "Frequency\t50\tHz", out[0])
}

func TestCleanPreservesOrderAndIsIdempotent(t *testing.T) {
	c, err := New(defaultRules(), nil)
	require.NoError(t, err)

	in := []string{
		"Model XR-500 Power Analyzer",
		"EMBED",
		"Rated voltage 220V",
		"_Toc12345",
		"Operating temperature -10~50℃",
	}
	once := c.Clean(in)
	assert.Equal(t, []string{
		"Model XR-500 Power Analyzer",
		"Rated voltage 220V",
		"Operating temperature -10~50℃",
	}, once)

	twice := c.Clean(once)
	assert.Equal(t, once, twice)
}
