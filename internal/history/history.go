// Package history supplies the optional per-user aggregate statistics the
// confidence scorer's historical dimension consumes. The core only reads;
// feeding results back is the learning collaborator's job.
package history

import "context"

// Stats is the aggregate bundle for one user.
type Stats struct {
	Accuracy            float64 // mean accuracy of past extractions
	SimilarDocsAccuracy float64 // accuracy over documents of similar type
	ModificationRate    float64 // share of extractions the user corrected
}

// Provider is the narrow, stateless read interface.
type Provider interface {
	// HistoryFor returns stats for userID, or nil when none exist.
	HistoryFor(ctx context.Context, userID string) (*Stats, error)
}

// Static serves a fixed stats bundle; useful for tests and callers that
// compute aggregates elsewhere.
type Static struct {
	Stats *Stats
}

func (s Static) HistoryFor(context.Context, string) (*Stats, error) {
	return s.Stats, nil
}
