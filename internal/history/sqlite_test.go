package history

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *SQLiteProvider {
	t.Helper()
	p, err := OpenSQLite(filepath.Join(t.TempDir(), "feedback.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = p.Close() })
	return p
}

func TestHistoryForUnknownUser(t *testing.T) {
	p := openTestDB(t)

	stats, err := p.HistoryFor(context.Background(), "nobody")
	require.NoError(t, err)
	assert.Nil(t, stats)
}

func TestRecordAndReadBack(t *testing.T) {
	p := openTestDB(t)
	ctx := context.Background()

	require.NoError(t, p.Record(ctx, "u-1", Stats{
		Accuracy:            0.9,
		SimilarDocsAccuracy: 0.8,
		ModificationRate:    0.1,
	}))

	stats, err := p.HistoryFor(ctx, "u-1")
	require.NoError(t, err)
	require.NotNil(t, stats)
	assert.InDelta(t, 0.9, stats.Accuracy, 1e-9)
	assert.InDelta(t, 0.8, stats.SimilarDocsAccuracy, 1e-9)
	assert.InDelta(t, 0.1, stats.ModificationRate, 1e-9)
}

func TestRecordUpserts(t *testing.T) {
	p := openTestDB(t)
	ctx := context.Background()

	require.NoError(t, p.Record(ctx, "u-1", Stats{Accuracy: 0.5, SimilarDocsAccuracy: 0.5, ModificationRate: 0.5}))
	require.NoError(t, p.Record(ctx, "u-1", Stats{Accuracy: 0.95, SimilarDocsAccuracy: 0.9, ModificationRate: 0.05}))

	stats, err := p.HistoryFor(ctx, "u-1")
	require.NoError(t, err)
	require.NotNil(t, stats)
	assert.InDelta(t, 0.95, stats.Accuracy, 1e-9)
}

func TestStaticProvider(t *testing.T) {
	s := Static{Stats: &Stats{Accuracy: 0.7}}
	got, err := s.HistoryFor(context.Background(), "anyone")
	require.NoError(t, err)
	assert.Equal(t, 0.7, got.Accuracy)
}
