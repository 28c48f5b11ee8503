package pipeline

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wuminghan/specpipe/constants"
	"github.com/wuminghan/specpipe/internal/common"
	"github.com/wuminghan/specpipe/internal/entity"
	"github.com/wuminghan/specpipe/internal/history"
	"github.com/wuminghan/specpipe/internal/llm"
	"github.com/wuminghan/specpipe/internal/rules"
)

const sampleDocument = `XR-500 Power Analyzer
EMBED
_Toc509006008
The XR-500 measures three-phase industrial loads with high accuracy.

| 参数 | 值 | 单位 |
|---|---|---|
| Frequency | 50 | Hz |
| Accuracy | 0.2 | % |

测试电压: 0-240V
测试电流: 0-5A
`

const modelReply = `{
	"basic_info": {
		"name": "XR-500 Power Analyzer",
		"code": "XR-500",
		"category": "Test Instruments",
		"base_price": 2499,
		"description": "Three-phase power analyzer for industrial load and harmonics testing."
	},
	"specifications": {
		"Accuracy": "high precision",
		"Channels": 4,
		"EMBED": "residual marker text"
	},
	"features": [{"title": "Harmonics", "description": "Analysis up to the 50th order."}],
	"confidence": 0.9
}`

func newTestAnalyzer(t *testing.T, completer llm.Completer, hist history.Provider) *Analyzer {
	t.Helper()
	table, err := rules.Default()
	require.NoError(t, err)
	cfg := Config{LLM: llm.Config{MaxAttempts: 3, BaseBackoff: time.Millisecond}}
	a, err := NewAnalyzer(cfg, table, completer, hist, nil)
	require.NoError(t, err)
	return a
}

func TestAnalyzeDocumentEndToEnd(t *testing.T) {
	completer := llm.CompleterFunc(func(ctx context.Context, sys, user string) (string, error) {
		// cleaned text reaches the prompt; artifacts do not
		assert.Contains(t, user, "XR-500")
		assert.NotContains(t, user, "_Toc509006008")
		return modelReply, nil
	})
	a := newTestAnalyzer(t, completer, nil)

	rec, env, err := a.AnalyzeDocument(context.Background(), []byte(sampleDocument), constants.TXT, Options{})
	require.NoError(t, err)
	require.NotNil(t, rec)
	require.NotNil(t, env)

	assert.Equal(t, "XR-500", rec.BasicInfo.Code)

	// union of table and model specifications
	assert.Contains(t, rec.Specifications, "Frequency")
	assert.Contains(t, rec.Specifications, "测试电压")
	assert.Contains(t, rec.Specifications, "测试电流")
	assert.Contains(t, rec.Specifications, "Channels")

	// artifact names in the model reply never reach the merged record
	assert.NotContains(t, rec.Specifications, "EMBED")

	// table decomposition displaces the model's bare string on collision
	acc := rec.Specifications["Accuracy"]
	require.NotNil(t, acc.NumericValue)
	assert.Equal(t, 0.2, *acc.NumericValue)
	assert.Equal(t, "%", acc.Unit)
	assert.Equal(t, entity.SourcePipeTable, acc.Source)

	assert.Equal(t, 2, rec.TableParsing.TablesFound)

	assert.Greater(t, env.Overall, 0.0)
	assert.NotEmpty(t, env.Level)
	assert.Contains(t, env.Fields, "basic_info.name")
}

func TestAnalyzeDocumentModelFailurePropagates(t *testing.T) {
	completer := llm.CompleterFunc(func(ctx context.Context, sys, user string) (string, error) {
		return "", common.ModelUnavailableError("upstream down", nil)
	})
	a := newTestAnalyzer(t, completer, nil)

	rec, env, err := a.AnalyzeDocument(context.Background(), []byte("some text"), constants.TXT, Options{})
	require.Error(t, err)
	assert.Nil(t, rec)
	assert.Nil(t, env)
	assert.Equal(t, common.CodeModelUnavailable, common.CodeOf(err))
}

func TestAnalyzeDocumentUnsupportedFormat(t *testing.T) {
	completer := llm.CompleterFunc(func(ctx context.Context, sys, user string) (string, error) {
		t.Fatal("completer must not be called for undecodable input")
		return "", nil
	})
	a := newTestAnalyzer(t, completer, nil)

	_, _, err := a.AnalyzeDocument(context.Background(), []byte("x"), constants.Format("csv"), Options{})
	require.Error(t, err)
	assert.Equal(t, common.CodeUnsupportedFormat, common.CodeOf(err))
}

func TestAnalyzeDocumentCancelledBeforeModelCall(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	completer := llm.CompleterFunc(func(ctx context.Context, sys, user string) (string, error) {
		t.Fatal("completer must not be called after cancellation")
		return "", nil
	})
	a := newTestAnalyzer(t, completer, nil)

	_, _, err := a.AnalyzeDocument(ctx, []byte("some text"), constants.TXT, Options{})
	require.Error(t, err)
}

type staticHistory struct{ stats *history.Stats }

func (s staticHistory) HistoryFor(ctx context.Context, userID string) (*history.Stats, error) {
	return s.stats, nil
}

func TestAnalyzeDocumentUsesHistoryForKnownUser(t *testing.T) {
	completer := llm.CompleterFunc(func(ctx context.Context, sys, user string) (string, error) {
		return modelReply, nil
	})
	hist := staticHistory{stats: &history.Stats{Accuracy: 1, SimilarDocsAccuracy: 1, ModificationRate: 0}}
	a := newTestAnalyzer(t, completer, hist)

	_, withUser, err := a.AnalyzeDocument(context.Background(), []byte(sampleDocument), constants.TXT, Options{UserID: "u-1"})
	require.NoError(t, err)
	assert.InDelta(t, 1.0, withUser.Historical, 1e-9)

	// without a user the provider is skipped and the default applies
	_, anonymous, err := a.AnalyzeDocument(context.Background(), []byte(sampleDocument), constants.TXT, Options{})
	require.NoError(t, err)
	assert.InDelta(t, 0.7, anonymous.Historical, 1e-9)
}
